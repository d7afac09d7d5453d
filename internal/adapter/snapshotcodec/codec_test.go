package snapshotcodec

import (
	"errors"
	"testing"

	"forager/internal/domain/game"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := New()
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestEncodeDecodeGameSnapshot(t *testing.T) {
	c := newTestCodec(t)
	g := game.New(game.DefaultConfig(), nil, game.Sinks{})
	g.Inventory().AddItem(game.ItemWood, 12)
	g.Inventory().AddItem(game.ItemStone, 5)
	if _, ok := g.Build(game.StructureCampfire, 300, 300); !ok {
		t.Fatalf("setup build failed")
	}
	snap := g.Snapshot()

	blob, err := c.Encode(snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := c.Decode(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Inventory["wood"] != 7 || len(got.Structures) != 1 || got.Structures[0].Type != "campfire" {
		t.Fatalf("snapshot mismatch: inventory=%v structures=%+v", got.Inventory, got.Structures)
	}
	if got.Player.Tools[0] != "hand" || got.Wave != 1 {
		t.Fatalf("player mismatch: %+v wave=%d", got.Player, got.Wave)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	c := newTestCodec(t)
	if _, err := c.Decode([]byte("not zstd")); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestValidateRejectsOutOfRangeFields(t *testing.T) {
	c := newTestCodec(t)
	snap := game.New(game.DefaultConfig(), nil, game.Sinks{}).Snapshot()

	snap.Player.Level = 0
	blob, err := c.Encode(snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := c.Decode(blob); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("level 0 should fail validation, got %v", err)
	}

	if _, err := c.DecodeJSON([]byte(`{"version":2,"player":{},"inventory":{},"wave":1}`)); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("unknown version should fail validation, got %v", err)
	}
	bad := `{"version":1,"wave":1,"inventory":{"wood":-1},"player":{"x":0,"y":0,"health":1,"max_health":1,"hunger":1,"max_hunger":1,"stamina":1,"max_stamina":1,"level":1,"xp":0,"xp_to_next_level":1,"score":0,"selected_slot":0,"tools":["hand"]}}`
	if _, err := c.DecodeJSON([]byte(bad)); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("negative count should fail validation, got %v", err)
	}
	good := `{"version":1,"wave":1,"inventory":{"wood":1},"player":{"x":0,"y":0,"health":1,"max_health":1,"hunger":1,"max_hunger":1,"stamina":1,"max_stamina":1,"level":1,"xp":0,"xp_to_next_level":1,"score":0,"selected_slot":0,"tools":["hand"]}}`
	if _, err := c.DecodeJSON([]byte(good)); err != nil {
		t.Fatalf("minimal snapshot should validate: %v", err)
	}
}
