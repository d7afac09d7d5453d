package game

import (
	"errors"
	"fmt"

	"forager/internal/domain/progression"
)

const SnapshotVersion = 1

var (
	ErrNoSave              = errors.New("no save data present")
	ErrUnsupportedSnapshot = errors.New("unsupported snapshot version")
	ErrCorruptSnapshot     = errors.New("snapshot player state out of range")
)

type PlayerState struct {
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	Health        float64  `json:"health"`
	MaxHealth     float64  `json:"max_health"`
	Hunger        float64  `json:"hunger"`
	MaxHunger     float64  `json:"max_hunger"`
	Stamina       float64  `json:"stamina"`
	MaxStamina    float64  `json:"max_stamina"`
	Level         int      `json:"level"`
	XP            int      `json:"xp"`
	XPToNextLevel int      `json:"xp_to_next_level"`
	Kills         int      `json:"kills"`
	Score         int      `json:"score"`
	SelectedSlot  int      `json:"selected_slot"`
	Tools         []string `json:"tools"`
}

// Snapshot is the flat save blob. Live enemies, resources and mid-wave progress are not part of
// it; loading restarts the saved wave from its beginning.
type Snapshot struct {
	Version      int                      `json:"version"`
	Player       PlayerState              `json:"player"`
	Inventory    map[string]int           `json:"inventory"`
	Structures   []StructureState         `json:"structures"`
	Quests       []progression.QuestState `json:"quests"`
	Achievements progression.TrackerState `json:"achievements"`
	Wave         int                      `json:"wave"`
}

func (g *Game) Snapshot() Snapshot {
	p := g.player
	tools := make([]string, LoadoutSlots)
	for i, t := range p.Tools {
		tools[i] = t.String()
	}
	return Snapshot{
		Version: SnapshotVersion,
		Player: PlayerState{
			X:             p.X,
			Y:             p.Y,
			Health:        p.Health,
			MaxHealth:     p.MaxHealth,
			Hunger:        p.Hunger,
			MaxHunger:     p.MaxHunger,
			Stamina:       p.Stamina,
			MaxStamina:    p.MaxStamina,
			Level:         p.Level,
			XP:            p.XP,
			XPToNextLevel: p.XPToNextLevel,
			Kills:         p.Kills,
			Score:         p.Score,
			SelectedSlot:  p.SelectedSlot,
			Tools:         tools,
		},
		Inventory:    g.inventory.Counts(),
		Structures:   g.structures.Save(),
		Quests:       g.quests.Save(),
		Achievements: g.achievements.Save(),
		Wave:         g.enemies.Wave(),
	}
}

// Restore applies a snapshot and restarts the enemy spawner at the saved wave. Live enemies,
// resources on the map and any pending wave transition are discarded.
// Check rejects snapshots no running game could have produced. Vitals above their maxima are
// not errors; Restore clamps them.
func (s *Snapshot) Check() error {
	if s == nil {
		return ErrNoSave
	}
	if s.Version != SnapshotVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedSnapshot, s.Version)
	}
	ps := s.Player
	switch {
	case ps.MaxHealth <= 0 || ps.MaxHunger <= 0 || ps.MaxStamina <= 0:
		return fmt.Errorf("%w: non-positive maximum", ErrCorruptSnapshot)
	case ps.XPToNextLevel <= 0:
		return fmt.Errorf("%w: xp_to_next_level %d", ErrCorruptSnapshot, ps.XPToNextLevel)
	case ps.XP < 0 || ps.XP >= ps.XPToNextLevel:
		return fmt.Errorf("%w: xp %d of %d", ErrCorruptSnapshot, ps.XP, ps.XPToNextLevel)
	}
	return nil
}

func (g *Game) Restore(s *Snapshot) error {
	if err := s.Check(); err != nil {
		return err
	}

	p := NewPlayer(s.Player.X, s.Player.Y)
	p.MaxHealth = s.Player.MaxHealth
	p.Health = clamp(s.Player.Health, 0, p.MaxHealth)
	p.MaxHunger = s.Player.MaxHunger
	p.Hunger = clamp(s.Player.Hunger, 0, p.MaxHunger)
	p.MaxStamina = s.Player.MaxStamina
	p.Stamina = clamp(s.Player.Stamina, 0, p.MaxStamina)
	p.Level = max(1, s.Player.Level)
	p.XP = s.Player.XP
	p.XPToNextLevel = s.Player.XPToNextLevel
	p.Kills = s.Player.Kills
	p.Score = s.Player.Score
	p.SelectTool(s.Player.SelectedSlot)
	for i, name := range s.Player.Tools {
		if i == 0 || i >= LoadoutSlots {
			continue
		}
		if t, ok := ParseTool(name); ok {
			p.EquipTool(t, i)
		}
	}
	g.player = p

	g.inventory.Load(s.Inventory)
	g.structures.Load(s.Structures)
	g.quests.Reset()
	g.quests.Load(s.Quests)
	g.achievements.Reset()
	g.achievements.Load(s.Achievements)

	g.resources.Reset()
	g.enemies.Reset()
	g.enemies.StartWave(max(1, s.Wave))
	g.nextWave = timer{}
	g.pendingWave = 0
	g.scoreSeen = p.Score
	g.over = false
	return nil
}
