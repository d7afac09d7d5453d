package session

import (
	"context"
	"fmt"
	"time"

	"forager/internal/app/ports"
	"forager/internal/domain/game"
)

const (
	MaxFramesPerStep = 120
	// MaxFrameMs bounds one frame so a stalled client cannot jump the clock.
	MaxFrameMs = 250
)

// Frame is one client frame: the elapsed time plus the input held during it.
type Frame struct {
	DtMs float64 `json:"dt_ms"`
	game.Input
}

type StepRequest struct {
	SessionID string
	PlayerID  string
	Frames    []Frame
}

type StepResponse struct {
	Frames        []game.FrameResult  `json:"frames"`
	Collected     []string            `json:"collected,omitempty"`
	Notifications []game.Notification `json:"notifications"`
	Cues          []game.Cue          `json:"cues"`
	Effects       []game.Effect       `json:"effects"`
	GameOver      bool                `json:"game_over"`
	View          View                `json:"view"`
}

type StepUseCase struct {
	Registry *Registry
	Events   ports.EventRepository
	Sessions ports.GameSessionRepository
	Metrics  ports.SessionMetrics
	Now      func() time.Time
}

func (u StepUseCase) Execute(ctx context.Context, req StepRequest) (StepResponse, error) {
	if len(req.Frames) == 0 || len(req.Frames) > MaxFramesPerStep {
		return StepResponse{}, ErrInvalidRequest
	}
	s, err := findSession(u.Registry, req.SessionID, req.PlayerID)
	if err != nil {
		return StepResponse{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game.Over() {
		if !s.closed {
			if err := u.closeSession(ctx, s, s.cause, nowOrDefault(u.Now)); err != nil {
				return StepResponse{}, err
			}
		}
		return StepResponse{}, ErrGameOver
	}

	resp := StepResponse{}
	kills := 0
	for _, f := range req.Frames {
		res := s.game.Update(min(f.DtMs, MaxFrameMs), f.Input)
		resp.Frames = append(resp.Frames, res)
		resp.Collected = append(resp.Collected, res.CollectedNames()...)
		kills += res.Kills
		if u.Metrics != nil && res.WaveCompleted > 0 {
			u.Metrics.RecordWaveComplete(res.WaveCompleted)
		}
		if res.GameOver {
			break
		}
	}
	resp.Notifications, resp.Cues, resp.Effects = s.recorder.Drain()
	resp.GameOver = s.game.Over()
	resp.View = buildView(s.ID, s.game)

	if u.Metrics != nil {
		u.Metrics.RecordStep(len(resp.Frames))
		if kills > 0 {
			u.Metrics.RecordKills(kills)
		}
	}

	now := nowOrDefault(u.Now)
	if resp.GameOver && !s.closed {
		s.cause = gameOverCause(resp.Notifications)
		if err := u.closeSession(ctx, s, s.cause, now); err != nil {
			return StepResponse{}, err
		}
	}
	if u.Events != nil {
		if events := frameEvents(resp.Frames, resp.Notifications, s.game, now); len(events) > 0 {
			if err := u.Events.Append(ctx, s.ID, events); err != nil {
				u.recordFailure()
				return StepResponse{}, fmt.Errorf("append events: %w", err)
			}
		}
	}
	return resp, nil
}

// closeSession marks the stored session closed. A failed close leaves s open so the next
// step retries it.
func (u StepUseCase) closeSession(ctx context.Context, s *Session, cause string, now time.Time) error {
	if u.Sessions != nil {
		p := s.game.Player()
		if err := u.Sessions.Close(ctx, s.ID, cause, s.game.Enemies().Wave(), p.Score, now); err != nil {
			u.recordFailure()
			return fmt.Errorf("close session: %w", err)
		}
	}
	s.closed = true
	if u.Metrics != nil {
		u.Metrics.RecordGameOver()
	}
	return nil
}

func (u StepUseCase) recordFailure() {
	if u.Metrics != nil {
		u.Metrics.RecordFailure()
	}
}
