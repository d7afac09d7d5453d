package memory

import (
	"context"
	"time"

	"forager/internal/app/ports"
)

type GameSessionRepo struct {
	store *Store
}

func NewGameSessionRepo(store *Store) GameSessionRepo {
	return GameSessionRepo{store: store}
}

func (r GameSessionRepo) EnsureActive(_ context.Context, sessionID, playerID string, startedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.sessions[sessionID]
	if !ok {
		rec = ports.GameSessionRecord{SessionID: sessionID, PlayerID: playerID, StartedAt: startedAt}
	}
	rec.Status = "active"
	rec.Cause = ""
	rec.EndedAt = nil
	r.store.sessions[sessionID] = rec
	return nil
}

func (r GameSessionRepo) Close(_ context.Context, sessionID, cause string, wave, score int, endedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.sessions[sessionID]
	if !ok {
		return ports.ErrNotFound
	}
	rec.Status = "closed"
	rec.Cause = cause
	rec.Wave = wave
	rec.Score = score
	rec.EndedAt = &endedAt
	r.store.sessions[sessionID] = rec
	return nil
}

func (r GameSessionRepo) Get(_ context.Context, sessionID string) (ports.GameSessionRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.sessions[sessionID]
	if !ok {
		return ports.GameSessionRecord{}, ports.ErrNotFound
	}
	return rec, nil
}
