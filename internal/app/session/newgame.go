package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"forager/internal/app/ports"
	"forager/internal/domain/game"
)

type NewGameRequest struct {
	PlayerID string
}

type NewGameResponse struct {
	SessionID string `json:"session_id"`
	View      View   `json:"view"`
}

type NewGameUseCase struct {
	Registry *Registry
	Sessions ports.GameSessionRepository
	Events   ports.EventRepository
	Config   game.Config
	Now      func() time.Time
}

// Execute starts a fresh game on wave 1. A zero Config.Seed gives every game its own seed.
func (u NewGameUseCase) Execute(ctx context.Context, req NewGameRequest) (NewGameResponse, error) {
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	if req.PlayerID == "" || u.Registry == nil {
		return NewGameResponse{}, ErrInvalidRequest
	}
	now := nowOrDefault(u.Now)
	id, err := newSessionID(now)
	if err != nil {
		return NewGameResponse{}, err
	}

	cfg := u.Config
	if cfg.Seed == 0 {
		cfg.Seed = now.UnixNano()
	}
	s := newSession(id, req.PlayerID, cfg, now)

	if u.Sessions != nil {
		if err := u.Sessions.EnsureActive(ctx, id, req.PlayerID, now); err != nil {
			return NewGameResponse{}, fmt.Errorf("open session: %w", err)
		}
	}
	if u.Events != nil {
		evt := ports.GameEvent{Type: EventGameStarted, Wave: 1, OccurredAt: now, Payload: map[string]any{"seed": cfg.Seed}}
		if err := u.Events.Append(ctx, id, []ports.GameEvent{evt}); err != nil {
			return NewGameResponse{}, fmt.Errorf("append events: %w", err)
		}
	}
	u.Registry.Put(s)

	s.mu.Lock()
	defer s.mu.Unlock()
	return NewGameResponse{SessionID: id, View: buildView(id, s.game)}, nil
}
