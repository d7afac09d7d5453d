package game

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Cue names an audio trigger.
type Cue string

const (
	CueCollect  Cue = "collect"
	CueCraft    Cue = "craft"
	CueAttack   Cue = "attack"
	CueHurt     Cue = "hurt"
	CueLevelUp  Cue = "levelUp"
	CueKill     Cue = "kill"
	CueBuild    Cue = "build"
	CueEat      Cue = "eat"
	CueWave     Cue = "wave"
	CueGameOver Cue = "gameOver"
)

// EffectKind names a cosmetic burst.
type EffectKind string

const (
	EffectCollect EffectKind = "collect"
	EffectDamage  EffectKind = "damage"
	EffectDeath   EffectKind = "death"
	EffectBuild   EffectKind = "build"
	EffectLevelUp EffectKind = "level_up"
	EffectHeal    EffectKind = "heal"
)

// Notifier receives player-facing messages. Fire and forget.
type Notifier interface {
	Notify(message string, severity Severity)
}

type AudioSink interface {
	Play(cue Cue)
}

type EffectSink interface {
	Spawn(kind EffectKind, x, y, magnitude float64)
}

// Sinks bundles the outward collaborators. Nil members are replaced with no-ops.
type Sinks struct {
	Notifier Notifier
	Audio    AudioSink
	Effects  EffectSink
}

func (s Sinks) withDefaults() Sinks {
	if s.Notifier == nil {
		s.Notifier = NopSink{}
	}
	if s.Audio == nil {
		s.Audio = NopSink{}
	}
	if s.Effects == nil {
		s.Effects = NopSink{}
	}
	return s
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Notify(string, Severity)                     {}
func (NopSink) Play(Cue)                                    {}
func (NopSink) Spawn(EffectKind, float64, float64, float64) {}

// Notification is one recorded Notify call.
type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Effect is one recorded Spawn call.
type Effect struct {
	Kind      EffectKind `json:"kind"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Magnitude float64    `json:"magnitude"`
}

// Recorder buffers every sink call until Drain. The session layer hands it to each game so a
// step can report what happened during its frames.
type Recorder struct {
	Notifications []Notification
	Cues          []Cue
	Effects       []Effect
}

func (r *Recorder) Notify(message string, severity Severity) {
	r.Notifications = append(r.Notifications, Notification{Message: message, Severity: severity})
}

func (r *Recorder) Play(cue Cue) { r.Cues = append(r.Cues, cue) }

func (r *Recorder) Spawn(kind EffectKind, x, y, magnitude float64) {
	r.Effects = append(r.Effects, Effect{Kind: kind, X: x, Y: y, Magnitude: magnitude})
}

// Drain returns the buffered calls and empties the recorder.
func (r *Recorder) Drain() ([]Notification, []Cue, []Effect) {
	n, c, e := r.Notifications, r.Cues, r.Effects
	r.Notifications, r.Cues, r.Effects = nil, nil, nil
	return n, c, e
}

// Sinks exposes the recorder as all three collaborators.
func (r *Recorder) Sinks() Sinks {
	return Sinks{Notifier: r, Audio: r, Effects: r}
}
