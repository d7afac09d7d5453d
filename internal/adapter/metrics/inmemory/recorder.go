package inmemory

import (
	"strconv"
	"sync"
)

type Snapshot struct {
	StepTotal        uint64            `json:"step_total"`
	FrameTotal       uint64            `json:"frame_total"`
	KillTotal        uint64            `json:"kill_total"`
	GameOverTotal    uint64            `json:"game_over_total"`
	SaveConflict     uint64            `json:"save_conflict"`
	Failure          uint64            `json:"failure"`
	HighestWave      int               `json:"highest_wave"`
	WavesByNumber    map[string]uint64 `json:"waves_by_number"`
	AvgFramesPerStep float64           `json:"avg_frames_per_step"`
}

type Recorder struct {
	mu       sync.Mutex
	steps    uint64
	frames   uint64
	kills    uint64
	overs    uint64
	conflict uint64
	failure  uint64
	highest  int
	byWave   map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byWave: map[string]uint64{},
	}
}

func (r *Recorder) RecordStep(frames int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps++
	r.frames += uint64(max(frames, 0))
}

func (r *Recorder) RecordKills(n int) {
	if n <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kills += uint64(n)
}

func (r *Recorder) RecordWaveComplete(wave int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.highest = max(r.highest, wave)
	r.byWave[strconv.Itoa(wave)]++
}

func (r *Recorder) RecordGameOver() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overs++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		StepTotal:     r.steps,
		FrameTotal:    r.frames,
		KillTotal:     r.kills,
		GameOverTotal: r.overs,
		SaveConflict:  r.conflict,
		Failure:       r.failure,
		HighestWave:   r.highest,
		WavesByNumber: make(map[string]uint64, len(r.byWave)),
	}
	if r.steps > 0 {
		out.AvgFramesPerStep = float64(r.frames) / float64(r.steps)
	}
	for k, v := range r.byWave {
		out.WavesByNumber[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
