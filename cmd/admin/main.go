package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"forager/db/migrations"
	"forager/internal/adapter/repo"
	gormrepo "forager/internal/adapter/repo/gorm"
	"forager/internal/adapter/snapshotcodec"
	"forager/internal/app/ports"
	"forager/internal/config"
	"forager/internal/domain/game"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "usage: admin migrate|export|import|inspect [flags]")
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	switch args[0] {
	case "migrate":
		return migrateCmd(args[1:], out)
	case "export":
		return exportCmd(args[1:], out)
	case "import":
		return importCmd(args[1:], out)
	case "inspect":
		return inspectCmd(args[1:], out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func migrateCmd(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("migrate", flag.ContinueOnError)
	dir := flags.String("dir", "", "directory of *.sql migrations (default: the embedded set)")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if cfg.DBDSN == "" {
		fmt.Fprintln(out, "FORAGER_DB_DSN not set; sqlite and memory stores create their schema on open")
		return nil
	}
	db, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	var src fs.FS = migrations.FS
	if *dir != "" {
		src = os.DirFS(*dir)
	}
	applied, err := gormrepo.ApplyMigrations(context.Background(), db, src)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(out, "schema is up to date")
	}
	for _, v := range applied {
		fmt.Fprintf(out, "applied %s\n", v)
	}
	return nil
}

func exportCmd(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("export", flag.ContinueOnError)
	sessionID := flags.String("session", "", "session id")
	outPath := flags.String("out", "", "output file (.zst)")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if strings.TrimSpace(*sessionID) == "" || strings.TrimSpace(*outPath) == "" {
		return fmt.Errorf("%w: export needs -session and -out", errUsage)
	}
	repos, err := openRepos()
	if err != nil {
		return err
	}
	defer repos.Close()

	rec, err := repos.Snapshots.GetBySessionID(context.Background(), *sessionID)
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("session %s: %w", *sessionID, game.ErrNoSave)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(*outPath, rec.Blob, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(out, "exported %s v%d (%d bytes) to %s\n", rec.SessionID, rec.Version, len(rec.Blob), *outPath)
	return nil
}

func importCmd(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("import", flag.ContinueOnError)
	inPath := flags.String("in", "", "snapshot file (.zst)")
	sessionID := flags.String("session", "", "session id to store the snapshot under")
	playerID := flags.String("player", "", "owning player id")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *inPath == "" || strings.TrimSpace(*sessionID) == "" || strings.TrimSpace(*playerID) == "" {
		return fmt.Errorf("%w: import needs -in, -session and -player", errUsage)
	}
	blob, snap, err := readSnapshot(*inPath)
	if err != nil {
		return err
	}
	repos, err := openRepos()
	if err != nil {
		return err
	}
	defer repos.Close()

	ctx := context.Background()
	var version int64
	err = repos.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		var expected int64
		current, err := repos.Snapshots.GetBySessionID(txCtx, *sessionID)
		switch {
		case err == nil:
			if current.PlayerID != *playerID {
				return fmt.Errorf("session %s belongs to %s", *sessionID, current.PlayerID)
			}
			expected = current.Version
		case !errors.Is(err, ports.ErrNotFound):
			return err
		}
		version = expected + 1
		return repos.Snapshots.SaveWithVersion(txCtx, ports.SnapshotRecord{
			SessionID: *sessionID,
			PlayerID:  *playerID,
			Wave:      snap.Wave,
			Score:     snap.Player.Score,
			Blob:      blob,
			Version:   version,
			SavedAt:   time.Now(),
		}, expected)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "imported %s as %s v%d\n", *inPath, *sessionID, version)
	return nil
}

func inspectCmd(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("inspect", flag.ContinueOnError)
	inPath := flags.String("in", "", "snapshot file (.zst)")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *inPath == "" {
		return fmt.Errorf("%w: inspect needs -in", errUsage)
	}
	_, snap, err := readSnapshot(*inPath)
	if err != nil {
		return err
	}
	printSummary(out, snap)
	return nil
}

func readSnapshot(path string) ([]byte, game.Snapshot, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, game.Snapshot{}, err
	}
	codec, err := snapshotcodec.New()
	if err != nil {
		return nil, game.Snapshot{}, err
	}
	defer codec.Close()
	snap, err := codec.Decode(blob)
	if err == nil {
		err = snap.Check()
	}
	if err != nil {
		return nil, game.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return blob, snap, nil
}

func printSummary(out io.Writer, snap game.Snapshot) {
	p := snap.Player
	fmt.Fprintf(out, "version:      %d\n", snap.Version)
	fmt.Fprintf(out, "wave:         %d\n", snap.Wave)
	fmt.Fprintf(out, "level:        %d (xp %d)\n", p.Level, p.XP)
	fmt.Fprintf(out, "health:       %.0f/%.0f\n", p.Health, p.MaxHealth)
	fmt.Fprintf(out, "score:        %d\n", p.Score)
	fmt.Fprintf(out, "structures:   %d\n", len(snap.Structures))

	names := make([]string, 0, len(snap.Inventory))
	for name := range snap.Inventory {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if n := snap.Inventory[name]; n > 0 {
			fmt.Fprintf(out, "  %-10s %d\n", name, n)
		}
	}
}

func openRepos() (repo.Set, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return repo.Set{}, err
	}
	return repo.Open(cfg)
}
