package memory

import (
	"context"
	"maps"

	"forager/internal/app/ports"
)

type txKeyType struct{}

var txKey = txKeyType{}

// TxManager serializes transactions on the store and restores the pre-transaction contents when
// fn fails. A nested RunInTx joins the outer transaction.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey) != nil {
		return fn(ctx)
	}
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	saved := t.store.checkpoint()
	if err := fn(context.WithValue(ctx, txKey, true)); err != nil {
		t.store.restore(saved)
		return err
	}
	return nil
}

type storeState struct {
	snapshots   map[string]ports.SnapshotRecord
	events      map[string][]ports.GameEvent
	sessions    map[string]ports.GameSessionRecord
	credentials map[string]ports.PlayerCredentialRecord
}

func (s *Store) checkpoint() storeState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make(map[string][]ports.GameEvent, len(s.events))
	for k, v := range s.events {
		events[k] = append([]ports.GameEvent(nil), v...)
	}
	return storeState{
		snapshots:   maps.Clone(s.snapshots),
		events:      events,
		sessions:    maps.Clone(s.sessions),
		credentials: maps.Clone(s.credentials),
	}
}

func (s *Store) restore(st storeState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = st.snapshots
	s.events = st.events
	s.sessions = st.sessions
	s.credentials = st.credentials
}
