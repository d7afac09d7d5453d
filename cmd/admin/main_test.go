package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"forager/internal/adapter/snapshotcodec"
	"forager/internal/domain/game"
)

func writeSnapshotFile(t *testing.T, dir string) string {
	t.Helper()
	return writeEditedSnapshot(t, dir, func(*game.Snapshot) {})
}

func writeEditedSnapshot(t *testing.T, dir string, edit func(*game.Snapshot)) string {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.Seed = 7
	g := game.New(cfg, nil, game.Sinks{})
	g.Update(16, game.Input{})
	snap := g.Snapshot()
	edit(&snap)

	codec, err := snapshotcodec.New()
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	defer codec.Close()
	blob, err := codec.Encode(snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(dir, "save.zst")
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"FORAGER_DB_DSN", "FORAGER_SQLITE_PATH", "FORAGER_TUNING_FILE", "FORAGER_TICK_HZ"} {
		t.Setenv(k, "")
	}
}

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer
	if err := run(nil, &out); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := run([]string{"frobnicate"}, &out); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := run([]string{"export", "-session", "s1"}, &out); !errors.Is(err, errUsage) {
		t.Fatalf("export without -out should be a usage error, got %v", err)
	}
}

func TestInspect(t *testing.T) {
	path := writeSnapshotFile(t, t.TempDir())
	var out bytes.Buffer
	if err := run([]string{"inspect", "-in", path}, &out); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(out.String(), "wave:         1") || !strings.Contains(out.String(), "level:        1") {
		t.Fatalf("unexpected summary:\n%s", out.String())
	}

	bad := filepath.Join(t.TempDir(), "bad.zst")
	_ = os.WriteFile(bad, []byte("not zstd"), 0o644)
	if err := run([]string{"inspect", "-in", bad}, &out); !errors.Is(err, snapshotcodec.ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestInspectRejectsImpossibleXP(t *testing.T) {
	path := writeEditedSnapshot(t, t.TempDir(), func(s *game.Snapshot) {
		s.Player.XP = 1000
		s.Player.XPToNextLevel = 100
	})
	var out bytes.Buffer
	if err := run([]string{"inspect", "-in", path}, &out); !errors.Is(err, game.ErrCorruptSnapshot) {
		t.Fatalf("expected ErrCorruptSnapshot, got %v", err)
	}
}

func TestImportExportRoundTrip(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	t.Setenv("FORAGER_SQLITE_PATH", filepath.Join(dir, "forager.db"))
	in := writeSnapshotFile(t, dir)

	var out bytes.Buffer
	for i := 0; i < 2; i++ {
		if err := run([]string{"import", "-in", in, "-session", "ses_1", "-player", "ply_1"}, &out); err != nil {
			t.Fatalf("import %d: %v", i, err)
		}
	}
	if !strings.Contains(out.String(), "ses_1 v2") {
		t.Fatalf("second import should bump the version:\n%s", out.String())
	}
	if err := run([]string{"import", "-in", in, "-session", "ses_1", "-player", "ply_2"}, &out); err == nil {
		t.Fatalf("import over another player's session should fail")
	}

	exported := filepath.Join(dir, "out.zst")
	if err := run([]string{"export", "-session", "ses_1", "-out", exported}, &out); err != nil {
		t.Fatalf("export: %v", err)
	}
	want, _ := os.ReadFile(in)
	got, _ := os.ReadFile(exported)
	if !bytes.Equal(want, got) {
		t.Fatalf("exported blob differs from imported blob")
	}
	if err := run([]string{"export", "-session", "missing", "-out", exported}, &out); !errors.Is(err, game.ErrNoSave) {
		t.Fatalf("expected ErrNoSave, got %v", err)
	}
}

func TestMigrate_WithoutDSN(t *testing.T) {
	isolateEnv(t)
	var out bytes.Buffer
	if err := run([]string{"migrate"}, &out); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out.String(), "FORAGER_DB_DSN not set") {
		t.Fatalf("unexpected output: %s", out.String())
	}
}
