package session

import (
	"context"

	"forager/internal/domain/game"
)

type PlayerView struct {
	game.PlayerState
	Facing     string `json:"facing"`
	Combo      int    `json:"combo"`
	Attacking  bool   `json:"attacking"`
	Invincible bool   `json:"invincible"`
}

type WaveView struct {
	Number      int     `json:"number"`
	Quota       int     `json:"quota"`
	Kills       int     `json:"kills"`
	InProgress  bool    `json:"in_progress"`
	BossSpawned bool    `json:"boss_spawned"`
	Progress    float64 `json:"progress"`
	NextWave    int     `json:"next_wave,omitempty"`
	NextWaveAt  float64 `json:"next_wave_at_ms,omitempty"`
}

type ResourceView struct {
	ID     int     `json:"id"`
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Health float64 `json:"health"`
}

type EnemyView struct {
	ID        int     `json:"id"`
	Type      string  `json:"type"`
	Boss      bool    `json:"boss"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"max_health"`
	State     string  `json:"state"`
	Dead      bool    `json:"dead"`
}

type StructureView struct {
	ID        int     `json:"id"`
	Type      string  `json:"type"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"max_health"`
	Active    bool    `json:"active"`
}

type QuestView struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Progress  int     `json:"progress"`
	Target    int     `json:"target"`
	Percent   float64 `json:"percent"`
	Completed bool    `json:"completed"`
	Claimed   bool    `json:"claimed"`
}

type AchievementView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Unlocked bool   `json:"unlocked"`
}

type RecipeView struct {
	Index     int            `json:"index"`
	Name      string         `json:"name"`
	Cost      map[string]int `json:"cost"`
	Craftable bool           `json:"craftable"`
}

// View is everything a client needs to draw one frame of a session.
type View struct {
	SessionID    string            `json:"session_id"`
	NowMs        float64           `json:"now_ms"`
	Paused       bool              `json:"paused"`
	GameOver     bool              `json:"game_over"`
	Bounds       game.Bounds       `json:"bounds"`
	Player       PlayerView        `json:"player"`
	Inventory    map[string]int    `json:"inventory"`
	Wave         WaveView          `json:"wave"`
	Resources    []ResourceView    `json:"resources"`
	Enemies      []EnemyView       `json:"enemies"`
	Structures   []StructureView   `json:"structures"`
	Quests       []QuestView       `json:"quests"`
	Achievements []AchievementView `json:"achievements"`
	Stats        map[string]int    `json:"stats"`
	Recipes      []RecipeView      `json:"recipes"`
}

func buildView(sessionID string, g *game.Game) View {
	p := g.Player()
	snap := g.Snapshot()
	em := g.Enemies()

	v := View{
		SessionID: sessionID,
		NowMs:     g.Now(),
		Paused:    g.Paused(),
		GameOver:  g.Over(),
		Bounds:    g.Bounds(),
		Player: PlayerView{
			PlayerState: snap.Player,
			Facing:      p.Facing.String(),
			Combo:       p.Combo,
			Attacking:   p.Attacking,
			Invincible:  p.Invincible,
		},
		Inventory: snap.Inventory,
		Wave: WaveView{
			Number:      em.Wave(),
			Quota:       em.Quota(),
			Kills:       em.WaveKills(),
			InProgress:  em.InProgress(),
			BossSpawned: em.BossSpawned(),
			Progress:    em.Progress(),
		},
		Stats: snap.Achievements.Stats,
	}
	if next, at, ok := g.PendingWave(); ok {
		v.Wave.NextWave = next
		v.Wave.NextWaveAt = at
	}
	for _, r := range g.Resources().Resources() {
		v.Resources = append(v.Resources, ResourceView{ID: r.ID, Type: r.Type.String(), X: r.X, Y: r.Y, Health: r.Health})
	}
	for _, e := range em.Enemies() {
		v.Enemies = append(v.Enemies, EnemyView{
			ID:        e.ID,
			Type:      e.Type.String(),
			Boss:      e.Boss,
			X:         e.X,
			Y:         e.Y,
			Health:    e.Health,
			MaxHealth: e.MaxHealth,
			State:     e.State.String(),
			Dead:      e.Dead,
		})
	}
	for _, s := range g.Structures().Structures() {
		v.Structures = append(v.Structures, StructureView{
			ID:        s.ID,
			Type:      s.Type.String(),
			X:         s.X,
			Y:         s.Y,
			Health:    s.Health,
			MaxHealth: s.MaxHealth,
			Active:    s.Active,
		})
	}
	for _, q := range g.Quests().Quests() {
		v.Quests = append(v.Quests, QuestView{
			ID:        q.ID,
			Name:      q.Name,
			Progress:  q.Progress,
			Target:    q.Target,
			Percent:   q.Percent(),
			Completed: q.Completed,
			Claimed:   q.Claimed,
		})
	}
	for _, a := range g.Achievements().Achievements() {
		v.Achievements = append(v.Achievements, AchievementView{ID: a.ID, Name: a.Name, Unlocked: a.Unlocked})
	}
	for i, r := range game.Recipes() {
		cost := make(map[string]int, len(r.Cost))
		for item, n := range r.Cost {
			cost[item.String()] = n
		}
		v.Recipes = append(v.Recipes, RecipeView{
			Index:     i,
			Name:      r.Name,
			Cost:      cost,
			Craftable: game.CanCraft(g.Inventory(), i),
		})
	}
	return v
}

type StatusRequest struct {
	SessionID string
	PlayerID  string
}

type StatusUseCase struct {
	Registry *Registry
}

func (u StatusUseCase) Execute(_ context.Context, req StatusRequest) (View, error) {
	s, err := findSession(u.Registry, req.SessionID, req.PlayerID)
	if err != nil {
		return View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return buildView(s.ID, s.game), nil
}
