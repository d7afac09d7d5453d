package progression

import "sort"

// Stat names a tracked achievement counter.
type Stat string

const (
	StatKills     Stat = "kills"
	StatCollected Stat = "collected"
	StatBuilt     Stat = "built"
	StatCrafted   Stat = "crafted"
	StatGold      Stat = "gold"
	StatScore     Stat = "score"
	StatBoss      Stat = "boss"
	StatCombo     Stat = "combo"
	StatLevel     Stat = "level"
	StatWave      Stat = "wave"
)

// HighWater reports whether the stat keeps the largest reported value instead of a sum.
func (s Stat) HighWater() bool {
	switch s {
	case StatCombo, StatLevel, StatWave:
		return true
	default:
		return false
	}
}

func (s Stat) known() bool {
	_, ok := initialStats()[s]
	return ok
}

func initialStats() map[Stat]int {
	return map[Stat]int{
		StatKills:     0,
		StatCollected: 0,
		StatBuilt:     0,
		StatCrafted:   0,
		StatGold:      0,
		StatScore:     0,
		StatBoss:      0,
		StatCombo:     0,
		StatLevel:     1,
		StatWave:      0,
	}
}

type Achievement struct {
	ID        string
	Name      string
	Stat      Stat
	Threshold int
	Unlocked  bool
}

func defaultAchievements() []*Achievement {
	return []*Achievement{
		{ID: "first_blood", Name: "First Blood", Stat: StatKills, Threshold: 1},
		{ID: "slayer", Name: "Slayer", Stat: StatKills, Threshold: 25},
		{ID: "destroyer", Name: "Destroyer", Stat: StatKills, Threshold: 100},
		{ID: "collector", Name: "Collector", Stat: StatCollected, Threshold: 50},
		{ID: "hoarder", Name: "Hoarder", Stat: StatCollected, Threshold: 200},
		{ID: "builder", Name: "Builder", Stat: StatBuilt, Threshold: 5},
		{ID: "architect", Name: "Architect", Stat: StatBuilt, Threshold: 15},
		{ID: "crafter", Name: "Crafter", Stat: StatCrafted, Threshold: 10},
		{ID: "master_crafter", Name: "Master Crafter", Stat: StatCrafted, Threshold: 30},
		{ID: "survivor", Name: "Survivor", Stat: StatWave, Threshold: 5},
		{ID: "veteran", Name: "Veteran", Stat: StatWave, Threshold: 10},
		{ID: "legend", Name: "Legend", Stat: StatWave, Threshold: 20},
		{ID: "leveled", Name: "Leveled Up", Stat: StatLevel, Threshold: 5},
		{ID: "experienced", Name: "Experienced", Stat: StatLevel, Threshold: 10},
		{ID: "gold_digger", Name: "Gold Digger", Stat: StatGold, Threshold: 10},
		{ID: "rich", Name: "Rich", Stat: StatGold, Threshold: 50},
		{ID: "combo_master", Name: "Combo Master", Stat: StatCombo, Threshold: 10},
		{ID: "score_hunter", Name: "Score Hunter", Stat: StatScore, Threshold: 5000},
		{ID: "high_scorer", Name: "High Scorer", Stat: StatScore, Threshold: 20000},
		{ID: "boss_slayer", Name: "Boss Slayer", Stat: StatBoss, Threshold: 1},
	}
}

// Tracker owns the achievement stats and the unlocked set.
type Tracker struct {
	stats        map[Stat]int
	achievements []*Achievement
}

func NewTracker() *Tracker {
	return &Tracker{stats: initialStats(), achievements: defaultAchievements()}
}

func (t *Tracker) Achievements() []*Achievement { return t.achievements }

func (t *Tracker) Stat(s Stat) int { return t.stats[s] }

// UpdateStat folds value into the stat (sum or max depending on the stat) and returns whatever
// became unlocked. Unknown stats are ignored.
func (t *Tracker) UpdateStat(s Stat, value int) []*Achievement {
	if s.known() {
		if s.HighWater() {
			t.stats[s] = max(t.stats[s], value)
		} else {
			t.stats[s] += value
		}
	}
	return t.CheckAchievements()
}

// CheckAchievements unlocks every locked achievement whose stat has reached its threshold.
func (t *Tracker) CheckAchievements() []*Achievement {
	var unlocked []*Achievement
	for _, a := range t.achievements {
		if a.Unlocked {
			continue
		}
		if t.stats[a.Stat] >= a.Threshold {
			a.Unlocked = true
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}

func (t *Tracker) UnlockedCount() int {
	n := 0
	for _, a := range t.achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}

type TrackerState struct {
	Stats    map[string]int `json:"stats"`
	Unlocked []string       `json:"unlocked"`
}

func (t *Tracker) Save() TrackerState {
	st := TrackerState{Stats: make(map[string]int, len(t.stats)), Unlocked: []string{}}
	for s, v := range t.stats {
		st.Stats[string(s)] = v
	}
	for _, a := range t.achievements {
		if a.Unlocked {
			st.Unlocked = append(st.Unlocked, a.ID)
		}
	}
	sort.Strings(st.Unlocked)
	return st
}

// Load merges saved stats over the defaults and re-unlocks the saved ids. Unlocks never revert.
func (t *Tracker) Load(st TrackerState) {
	for name, v := range st.Stats {
		if s := Stat(name); s.known() {
			t.stats[s] = v
		}
	}
	for _, id := range st.Unlocked {
		for _, a := range t.achievements {
			if a.ID == id {
				a.Unlocked = true
			}
		}
	}
}

func (t *Tracker) Reset() {
	t.stats = initialStats()
	t.achievements = defaultAchievements()
}
