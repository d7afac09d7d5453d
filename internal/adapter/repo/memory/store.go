package memory

import (
	"sync"

	"forager/internal/app/ports"
)

// Store backs every memory repository. mu guards the maps; txMu serializes transactions so a
// transaction's reads and writes are not interleaved with another one.
type Store struct {
	mu          sync.RWMutex
	txMu        sync.Mutex
	snapshots   map[string]ports.SnapshotRecord
	events      map[string][]ports.GameEvent
	sessions    map[string]ports.GameSessionRecord
	credentials map[string]ports.PlayerCredentialRecord
}

func NewStore() *Store {
	return &Store{
		snapshots:   make(map[string]ports.SnapshotRecord),
		events:      make(map[string][]ports.GameEvent),
		sessions:    make(map[string]ports.GameSessionRecord),
		credentials: make(map[string]ports.PlayerCredentialRecord),
	}
}
