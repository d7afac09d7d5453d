package memory

import (
	"context"
	"sort"

	"forager/internal/app/ports"
)

type SnapshotRepo struct {
	store *Store
}

func NewSnapshotRepo(store *Store) SnapshotRepo {
	return SnapshotRepo{store: store}
}

func (r SnapshotRepo) GetBySessionID(_ context.Context, sessionID string) (ports.SnapshotRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.snapshots[sessionID]
	if !ok {
		return ports.SnapshotRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

func (r SnapshotRepo) SaveWithVersion(_ context.Context, rec ports.SnapshotRecord, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.snapshots[rec.SessionID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.snapshots[rec.SessionID] = rec
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.snapshots[rec.SessionID] = rec
	return nil
}

func (r SnapshotRepo) ListByPlayerID(_ context.Context, playerID string, limit int) ([]ports.SnapshotRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []ports.SnapshotRecord{}
	for _, rec := range r.store.snapshots {
		if rec.PlayerID != playerID {
			continue
		}
		rec.Blob = nil
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
