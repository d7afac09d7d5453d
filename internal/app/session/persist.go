package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"forager/internal/app/ports"
	"forager/internal/domain/game"
)

type SaveRequest struct {
	SessionID string
	PlayerID  string
}

type SaveResponse struct {
	SessionID string    `json:"session_id"`
	Version   int64     `json:"version"`
	Wave      int       `json:"wave"`
	Score     int       `json:"score"`
	SavedAt   time.Time `json:"saved_at"`
}

type SaveUseCase struct {
	Registry  *Registry
	Snapshots ports.SnapshotRepository
	Codec     ports.SnapshotCodec
	Events    ports.EventRepository
	TxManager ports.TxManager
	Metrics   ports.SessionMetrics
	Now       func() time.Time
}

// Execute writes the session snapshot. The stored version moves forward by one per save, and a
// concurrent writer surfaces as ports.ErrConflict.
func (u SaveUseCase) Execute(ctx context.Context, req SaveRequest) (SaveResponse, error) {
	if u.Snapshots == nil || u.Codec == nil || u.TxManager == nil {
		return SaveResponse{}, ErrInvalidRequest
	}
	s, err := findSession(u.Registry, req.SessionID, req.PlayerID)
	if err != nil {
		return SaveResponse{}, err
	}
	s.mu.Lock()
	snap := s.game.Snapshot()
	s.mu.Unlock()

	blob, err := u.Codec.Encode(snap)
	if err != nil {
		return SaveResponse{}, fmt.Errorf("encode snapshot: %w", err)
	}
	now := nowOrDefault(u.Now)
	rec := ports.SnapshotRecord{
		SessionID: s.ID,
		PlayerID:  s.PlayerID,
		Wave:      snap.Wave,
		Score:     snap.Player.Score,
		Blob:      blob,
		SavedAt:   now,
	}

	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		var expected int64
		current, err := u.Snapshots.GetBySessionID(txCtx, s.ID)
		switch {
		case err == nil:
			expected = current.Version
		case !errors.Is(err, ports.ErrNotFound):
			return err
		}
		rec.Version = expected + 1
		if err := u.Snapshots.SaveWithVersion(txCtx, rec, expected); err != nil {
			return err
		}
		if u.Events == nil {
			return nil
		}
		return u.Events.Append(txCtx, s.ID, []ports.GameEvent{{
			Type:       EventGameSaved,
			Wave:       snap.Wave,
			OccurredAt: now,
			Payload:    map[string]any{"version": rec.Version, "bytes": len(blob)},
		}})
	})
	if err != nil {
		if u.Metrics != nil {
			if errors.Is(err, ports.ErrConflict) {
				u.Metrics.RecordConflict()
			} else {
				u.Metrics.RecordFailure()
			}
		}
		return SaveResponse{}, err
	}
	return SaveResponse{SessionID: s.ID, Version: rec.Version, Wave: rec.Wave, Score: rec.Score, SavedAt: now}, nil
}

type LoadRequest struct {
	SessionID string
	PlayerID  string
}

type LoadResponse struct {
	SessionID string `json:"session_id"`
	Version   int64  `json:"version"`
	View      View   `json:"view"`
}

type LoadUseCase struct {
	Registry  *Registry
	Snapshots ports.SnapshotRepository
	Codec     ports.SnapshotCodec
	Sessions  ports.GameSessionRepository
	Events    ports.EventRepository
	Config    game.Config
	Now       func() time.Time
}

// Execute restores the stored snapshot of a session. A session that is no longer live in this
// process is recreated first, so saves survive a restart.
func (u LoadUseCase) Execute(ctx context.Context, req LoadRequest) (LoadResponse, error) {
	req.SessionID = strings.TrimSpace(req.SessionID)
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	if req.SessionID == "" || req.PlayerID == "" || u.Registry == nil || u.Snapshots == nil || u.Codec == nil {
		return LoadResponse{}, ErrInvalidRequest
	}
	rec, err := u.Snapshots.GetBySessionID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return LoadResponse{}, game.ErrNoSave
		}
		return LoadResponse{}, err
	}
	if rec.PlayerID != req.PlayerID {
		return LoadResponse{}, ErrSessionNotFound
	}
	snap, err := u.Codec.Decode(rec.Blob)
	if err != nil {
		return LoadResponse{}, fmt.Errorf("decode snapshot: %w", err)
	}

	now := nowOrDefault(u.Now)
	s, ok := u.Registry.Get(req.SessionID)
	if !ok {
		cfg := u.Config
		if cfg.Seed == 0 {
			cfg.Seed = now.UnixNano()
		}
		s = newSession(req.SessionID, req.PlayerID, cfg, now)
		s.closed = true
	} else if s.PlayerID != req.PlayerID {
		return LoadResponse{}, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.game.Restore(&snap); err != nil {
		return LoadResponse{}, err
	}
	s.recorder.Drain()
	if !ok {
		u.Registry.Put(s)
	}

	if s.closed {
		if u.Sessions != nil {
			if err := u.Sessions.EnsureActive(ctx, s.ID, s.PlayerID, now); err != nil {
				return LoadResponse{}, fmt.Errorf("reopen session: %w", err)
			}
		}
		s.closed = false
	}
	if u.Events != nil {
		evt := ports.GameEvent{Type: EventGameLoaded, Wave: snap.Wave, SimTimeMs: s.game.Now(), OccurredAt: now, Payload: map[string]any{"version": rec.Version}}
		if err := u.Events.Append(ctx, s.ID, []ports.GameEvent{evt}); err != nil {
			return LoadResponse{}, fmt.Errorf("append events: %w", err)
		}
	}
	return LoadResponse{SessionID: s.ID, Version: rec.Version, View: buildView(s.ID, s.game)}, nil
}

type SaveSummary struct {
	SessionID string    `json:"session_id"`
	Wave      int       `json:"wave"`
	Score     int       `json:"score"`
	Version   int64     `json:"version"`
	SavedAt   time.Time `json:"saved_at"`
}

type ListSavesRequest struct {
	PlayerID string
	Limit    int
}

type ListSavesUseCase struct {
	Snapshots ports.SnapshotRepository
}

func (u ListSavesUseCase) Execute(ctx context.Context, req ListSavesRequest) ([]SaveSummary, error) {
	if strings.TrimSpace(req.PlayerID) == "" || u.Snapshots == nil {
		return nil, ErrInvalidRequest
	}
	recs, err := u.Snapshots.ListByPlayerID(ctx, req.PlayerID, req.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]SaveSummary, 0, len(recs))
	for _, r := range recs {
		out = append(out, SaveSummary{SessionID: r.SessionID, Wave: r.Wave, Score: r.Score, Version: r.Version, SavedAt: r.SavedAt})
	}
	return out, nil
}
