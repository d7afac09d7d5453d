package replay

import (
	"context"
	"errors"
	"strings"

	"forager/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid replay request")

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

type UseCase struct {
	Events   ports.EventRepository
	Sessions ports.GameSessionRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.SessionID) == "" || strings.TrimSpace(req.PlayerID) == "" {
		return Response{}, ErrInvalidRequest
	}
	rec, err := u.Sessions.Get(ctx, req.SessionID)
	if err != nil {
		return Response{}, err
	}
	if rec.PlayerID != req.PlayerID {
		return Response{}, ports.ErrNotFound
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)
	events, err := u.Events.ListBySessionID(ctx, req.SessionID, limit)
	if err != nil {
		return Response{}, err
	}
	events = filterByTimeWindow(events, req.OccurredFrom, req.OccurredTo)
	if req.Type != "" {
		events = filterByType(events, req.Type)
	}
	summary := summarize(events)
	summary.Status = rec.Status
	if rec.Cause != "" {
		summary.Cause = rec.Cause
	}
	return Response{Events: events, Summary: summary}, nil
}

func filterByTimeWindow(events []ports.GameEvent, from, to int64) []ports.GameEvent {
	if from <= 0 && to <= 0 {
		return events
	}
	out := make([]ports.GameEvent, 0, len(events))
	for _, evt := range events {
		ts := evt.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func filterByType(events []ports.GameEvent, eventType string) []ports.GameEvent {
	out := make([]ports.GameEvent, 0, len(events))
	for _, evt := range events {
		if evt.Type == eventType {
			out = append(out, evt)
		}
	}
	return out
}

func summarize(events []ports.GameEvent) Summary {
	var s Summary
	for _, evt := range events {
		s.HighestWave = max(s.HighestWave, evt.Wave)
		s.LastSimTimeMs = max(s.LastSimTimeMs, evt.SimTimeMs)
		switch evt.Type {
		case "wave_completed":
			s.WavesCompleted++
		case "game_saved":
			s.Saves++
		case "game_over":
			s.Cause = evt.Message
		}
	}
	return s
}
