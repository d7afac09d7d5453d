package session

import (
	"time"

	"forager/internal/app/ports"
	"forager/internal/domain/game"
)

const (
	EventNotification        = "notification"
	EventWaveCompleted       = "wave_completed"
	EventWaveStarted         = "wave_started"
	EventQuestCompleted      = "quest_completed"
	EventAchievementUnlocked = "achievement_unlocked"
	EventGameOver            = "game_over"
	EventGameStarted         = "game_started"
	EventGameSaved           = "game_saved"
	EventGameLoaded          = "game_loaded"
)

// frameEvents turns what a step resolved into the persisted event log. Notifications are stamped
// with the clock of the last frame.
func frameEvents(frames []game.FrameResult, notes []game.Notification, g *game.Game, at time.Time) []ports.GameEvent {
	wave := g.Enemies().Wave()
	var out []ports.GameEvent
	for _, f := range frames {
		if f.WaveStarted > 0 {
			out = append(out, ports.GameEvent{Type: EventWaveStarted, Wave: f.WaveStarted, SimTimeMs: f.Now, OccurredAt: at})
		}
		if f.WaveCompleted > 0 {
			out = append(out, ports.GameEvent{Type: EventWaveCompleted, Wave: f.WaveCompleted, SimTimeMs: f.Now, OccurredAt: at})
		}
		for _, id := range f.QuestsCompleted {
			out = append(out, ports.GameEvent{Type: EventQuestCompleted, Wave: wave, SimTimeMs: f.Now, OccurredAt: at, Payload: map[string]any{"quest_id": id}})
		}
		for _, id := range f.Unlocked {
			out = append(out, ports.GameEvent{Type: EventAchievementUnlocked, Wave: wave, SimTimeMs: f.Now, OccurredAt: at, Payload: map[string]any{"achievement_id": id}})
		}
		if f.GameOver {
			out = append(out, ports.GameEvent{
				Type:       EventGameOver,
				Message:    gameOverCause(notes),
				Severity:   string(game.SeverityError),
				Wave:       wave,
				SimTimeMs:  f.Now,
				OccurredAt: at,
				Payload:    map[string]any{"score": g.Player().Score, "level": g.Player().Level},
			})
		}
	}
	out = append(out, notificationEvents(notes, g, at)...)
	return out
}

func notificationEvents(notes []game.Notification, g *game.Game, at time.Time) []ports.GameEvent {
	out := make([]ports.GameEvent, 0, len(notes))
	for _, n := range notes {
		out = append(out, ports.GameEvent{
			Type:       EventNotification,
			Message:    n.Message,
			Severity:   string(n.Severity),
			Wave:       g.Enemies().Wave(),
			SimTimeMs:  g.Now(),
			OccurredAt: at,
		})
	}
	return out
}

// gameOverCause is the message the game raised when it ended.
func gameOverCause(notes []game.Notification) string {
	for i := len(notes) - 1; i >= 0; i-- {
		if notes[i].Severity == game.SeverityError {
			return notes[i].Message
		}
	}
	return "game over"
}
