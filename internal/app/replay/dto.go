package replay

import "forager/internal/app/ports"

type Request struct {
	SessionID    string
	PlayerID     string
	Limit        int
	Type         string
	OccurredFrom int64
	OccurredTo   int64
}

// Summary is what the event log alone says about the session.
type Summary struct {
	Status         string  `json:"status"`
	Cause          string  `json:"cause,omitempty"`
	HighestWave    int     `json:"highest_wave"`
	WavesCompleted int     `json:"waves_completed"`
	LastSimTimeMs  float64 `json:"last_sim_time_ms"`
	Saves          int     `json:"saves"`
}

type Response struct {
	Events  []ports.GameEvent `json:"events"`
	Summary Summary           `json:"summary"`
}
