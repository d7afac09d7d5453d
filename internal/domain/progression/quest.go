package progression

// Event is the kind of progress the game posts after a resolved action.
type Event string

const (
	EventKill  Event = "kill"
	EventBuild Event = "build"
	EventCraft Event = "craft"
	EventWave  Event = "wave"
	EventLevel Event = "level"
)

// CollectEvent is the event posted when a resource of the named type is collected.
func CollectEvent(resource string) Event { return Event("collect_" + resource) }

type Reward struct {
	XP   int `json:"xp"`
	Gold int `json:"gold"`
}

type Quest struct {
	ID        string
	Name      string
	Event     Event
	Target    int
	Progress  int
	Reward    Reward
	Completed bool
	Claimed   bool
	// HighWater quests track the largest value posted instead of a running sum.
	HighWater bool
}

// Update applies one posting and reports whether this call completed the quest.
func (q *Quest) Update(amount int) bool {
	if q.Completed {
		return false
	}
	next := q.Progress + amount
	if q.HighWater {
		next = max(q.Progress, amount)
	}
	if next < 0 {
		next = 0
	}
	q.Progress = min(q.Target, next)
	if q.Progress >= q.Target {
		q.Completed = true
		return true
	}
	return false
}

func (q *Quest) Percent() float64 {
	if q.Target <= 0 {
		return 100
	}
	return min(100, float64(q.Progress)/float64(q.Target)*100)
}

func defaultQuests() []*Quest {
	return []*Quest{
		{ID: "collect_apple", Name: "Apple Gatherer", Event: CollectEvent("apple"), Target: 10, Reward: Reward{XP: 50, Gold: 2}},
		{ID: "collect_wood", Name: "Lumberjack", Event: CollectEvent("wood"), Target: 15, Reward: Reward{XP: 75, Gold: 3}},
		{ID: "collect_stone", Name: "Miner", Event: CollectEvent("stone"), Target: 10, Reward: Reward{XP: 60, Gold: 2}},
		{ID: "kill_enemies", Name: "Hunter", Event: EventKill, Target: 5, Reward: Reward{XP: 100, Gold: 5}},
		{ID: "build_structure", Name: "Builder", Event: EventBuild, Target: 2, Reward: Reward{XP: 80, Gold: 3}},
		{ID: "craft_item", Name: "Artisan", Event: EventCraft, Target: 3, Reward: Reward{XP: 60, Gold: 2}},
		{ID: "survive_waves", Name: "Survivor", Event: EventWave, Target: 3, Reward: Reward{XP: 150, Gold: 8}},
		{ID: "reach_level", Name: "Evolved", Event: EventLevel, Target: 3, Reward: Reward{XP: 100, Gold: 5}, HighWater: true},
	}
}

// QuestBook holds the fixed quest list of one game.
type QuestBook struct {
	quests []*Quest
}

func NewQuestBook() *QuestBook { return &QuestBook{quests: defaultQuests()} }

func (b *QuestBook) Quests() []*Quest { return b.quests }

func (b *QuestBook) Find(id string) (*Quest, bool) {
	for _, q := range b.quests {
		if q.ID == id {
			return q, true
		}
	}
	return nil, false
}

// IDs lists quest ids in table order.
func (b *QuestBook) IDs() []string {
	out := make([]string, 0, len(b.quests))
	for _, q := range b.quests {
		out = append(out, q.ID)
	}
	return out
}

// Post forwards an event to every open quest listening for it and returns the quests it
// completed.
func (b *QuestBook) Post(event Event, amount int) []*Quest {
	var completed []*Quest
	for _, q := range b.quests {
		if q.Event != event || q.Completed {
			continue
		}
		if q.Update(amount) {
			completed = append(completed, q)
		}
	}
	return completed
}

// Claim moves a completed quest to claimed and hands back its reward once.
func (b *QuestBook) Claim(id string) (Reward, bool) {
	q, ok := b.Find(id)
	if !ok || !q.Completed || q.Claimed {
		return Reward{}, false
	}
	q.Claimed = true
	return q.Reward, true
}

// Active lists the quests not yet claimed.
func (b *QuestBook) Active() []*Quest {
	var out []*Quest
	for _, q := range b.quests {
		if !q.Claimed {
			out = append(out, q)
		}
	}
	return out
}

type QuestState struct {
	ID        string `json:"id"`
	Progress  int    `json:"progress"`
	Completed bool   `json:"completed"`
	Claimed   bool   `json:"claimed"`
}

func (b *QuestBook) Save() []QuestState {
	out := make([]QuestState, 0, len(b.quests))
	for _, q := range b.quests {
		out = append(out, QuestState{ID: q.ID, Progress: q.Progress, Completed: q.Completed, Claimed: q.Claimed})
	}
	return out
}

// Load restores saved progress onto the table. Unknown ids are ignored.
func (b *QuestBook) Load(states []QuestState) {
	for _, st := range states {
		q, ok := b.Find(st.ID)
		if !ok {
			continue
		}
		q.Progress = min(max(st.Progress, 0), q.Target)
		q.Completed = st.Completed || q.Progress >= q.Target
		q.Claimed = st.Claimed && q.Completed
	}
}

func (b *QuestBook) Reset() { b.quests = defaultQuests() }
