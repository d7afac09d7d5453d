package ports

import "forager/internal/domain/game"

// SnapshotCodec turns a game snapshot into the stored blob and back.
type SnapshotCodec interface {
	Encode(snap game.Snapshot) ([]byte, error)
	Decode(blob []byte) (game.Snapshot, error)
}
