package game

type Structure struct {
	ID         int
	X, Y       float64
	Type       StructureType
	Health     float64
	MaxHealth  float64
	Active     bool
	LastEffect float64
}

func NewStructure(id int, x, y float64, t StructureType) *Structure {
	hp, ok := structureMaxHealth[t]
	if !ok {
		hp = 100
	}
	return &Structure{ID: id, X: x, Y: y, Type: t, Health: hp, MaxHealth: hp, Active: true}
}

func (s *Structure) Box() Box { return Box{X: s.X, Y: s.Y, W: StructureSize, H: StructureSize} }

// BuildingRecipe is the fixed cost of one structure type.
type BuildingRecipe struct {
	Type StructureType
	Cost Cost
}

var buildingRecipes = []BuildingRecipe{
	{Type: StructureCampfire, Cost: Cost{ItemWood: 5, ItemStone: 3}},
	{Type: StructureFence, Cost: Cost{ItemWood: 4}},
	{Type: StructureTower, Cost: Cost{ItemStone: 8, ItemWood: 5, ItemGold: 2}},
	{Type: StructureTrap, Cost: Cost{ItemStone: 3, ItemWood: 2}},
}

// BuildingRecipes returns a copy of the building table.
func BuildingRecipes() []BuildingRecipe {
	out := make([]BuildingRecipe, len(buildingRecipes))
	copy(out, buildingRecipes)
	return out
}

func BuildingRecipeFor(t StructureType) (BuildingRecipe, bool) {
	for _, r := range buildingRecipes {
		if r.Type == t {
			return r, true
		}
	}
	return BuildingRecipe{}, false
}

// StructureManager owns the placed structures.
type StructureManager struct {
	structures []*Structure
	nextID     int
}

func NewStructureManager() *StructureManager { return &StructureManager{} }

func (m *StructureManager) Structures() []*Structure { return m.structures }

func (m *StructureManager) Reset() {
	m.structures = nil
}

func (m *StructureManager) CanBuild(recipe BuildingRecipe, inv Inventory) bool {
	return inv.HasIngredients(recipe.Cost)
}

// CanPlace reports whether a structure centered on (cx, cy) fits the play area without touching
// an active structure.
func (m *StructureManager) CanPlace(cx, cy float64, bounds Bounds) bool {
	box := Box{X: cx - StructureSize/2, Y: cy - StructureSize/2, W: StructureSize, H: StructureSize}
	if box.X < 0 || box.Y < 0 || box.X+box.W > bounds.Width || box.Y+box.H > bounds.Height {
		return false
	}
	for _, s := range m.structures {
		if s.Active && s.Box().Overlaps(box) {
			return false
		}
	}
	return true
}

// Build pays the full cost and places the structure centered on (cx, cy). Nothing is deducted
// when the placement or any ingredient fails.
func (m *StructureManager) Build(t StructureType, cx, cy float64, bounds Bounds, inv Inventory) *Structure {
	recipe, ok := BuildingRecipeFor(t)
	if !ok || !m.CanBuild(recipe, inv) || !m.CanPlace(cx, cy, bounds) {
		return nil
	}
	if !inv.RemoveIngredients(recipe.Cost) {
		return nil
	}
	return m.place(t, cx-StructureSize/2, cy-StructureSize/2)
}

func (m *StructureManager) place(t StructureType, x, y float64) *Structure {
	m.nextID++
	s := NewStructure(m.nextID, x, y, t)
	m.structures = append(m.structures, s)
	return s
}

// Blocks implements Blocker. Only active fences collide.
func (m *StructureManager) Blocks(box Box) bool {
	for _, s := range m.structures {
		if s.Active && s.Type == StructureFence && s.Box().Overlaps(box) {
			return true
		}
	}
	return false
}

// StructureHit records one aura activation that touched enemies.
type StructureHit struct {
	Structure *Structure
	Damage    float64
	Killed    []*Enemy
}

// ApplyEffects drops inactive structures, then runs every aura whose interval has elapsed.
func (m *StructureManager) ApplyEffects(now float64, player *Player, enemies *EnemyManager) []StructureHit {
	kept := m.structures[:0]
	for _, s := range m.structures {
		if s.Active {
			kept = append(kept, s)
		}
	}
	m.structures = kept

	var hits []StructureHit
	for _, s := range m.structures {
		if hit, ok := s.applyEffect(now, player, enemies); ok {
			hits = append(hits, hit)
		}
	}
	return hits
}

func (s *Structure) effectInterval() float64 {
	switch s.Type {
	case StructureCampfire:
		return CampfireIntervalMs
	case StructureTower:
		return TowerIntervalMs
	case StructureTrap:
		return TrapIntervalMs
	default:
		return 0
	}
}

func (s *Structure) applyEffect(now float64, player *Player, enemies *EnemyManager) (StructureHit, bool) {
	interval := s.effectInterval()
	if !s.Active || interval == 0 || now-s.LastEffect < interval {
		return StructureHit{}, false
	}
	s.LastEffect = now

	switch s.Type {
	case StructureCampfire:
		if centerDistance(player.Box(), s.Box()) < CampfireRange && player.Health < player.MaxHealth {
			player.Health += CampfireHealAmount
			if player.Health > player.MaxHealth {
				player.Health = player.MaxHealth
			}
		}
		return StructureHit{}, false
	case StructureTower:
		if enemies.LiveInRadius(s.Box(), TowerRange) == 0 {
			return StructureHit{}, false
		}
		killed := enemies.DamageInRadius(s.Box(), TowerRange, TowerDamage, now)
		return StructureHit{Structure: s, Damage: TowerDamage, Killed: killed}, true
	case StructureTrap:
		if enemies.LiveInRadius(s.Box(), TrapRange) == 0 {
			return StructureHit{}, false
		}
		killed := enemies.DamageInRadius(s.Box(), TrapRange, TrapDamage, now)
		s.Health -= TrapSelfDamage
		if s.Health <= 0 {
			s.Active = false
		}
		return StructureHit{Structure: s, Damage: TrapDamage, Killed: killed}, true
	}
	return StructureHit{}, false
}

// StructureState is the persisted form of a structure.
type StructureState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Type   string  `json:"type"`
	Health float64 `json:"health"`
}

func (m *StructureManager) Save() []StructureState {
	out := make([]StructureState, 0, len(m.structures))
	for _, s := range m.structures {
		if !s.Active {
			continue
		}
		out = append(out, StructureState{X: s.X, Y: s.Y, Type: s.Type.String(), Health: s.Health})
	}
	return out
}

// Load replaces the structures. Entries with an unknown type are skipped.
func (m *StructureManager) Load(states []StructureState) {
	m.structures = nil
	for _, st := range states {
		t, ok := ParseStructureType(st.Type)
		if !ok {
			continue
		}
		s := m.place(t, st.X, st.Y)
		s.Health = st.Health
		if s.Health > s.MaxHealth {
			s.Health = s.MaxHealth
		}
		if s.Health <= 0 {
			s.Active = false
		}
	}
}
