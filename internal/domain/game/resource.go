package game

type Resource struct {
	ID     int
	X, Y   float64
	Type   ResourceType
	Health float64
}

func NewResource(id int, x, y float64, t ResourceType) *Resource {
	return &Resource{ID: id, X: x, Y: y, Type: t, Health: t.MaxHealth()}
}

func (r *Resource) Box() Box { return Box{X: r.X, Y: r.Y, W: ResourceSize, H: ResourceSize} }

// takeHarvest applies one harvest hit and reports whether the resource is used up.
func (r *Resource) takeHarvest(damage float64, tool Tool) bool {
	r.Health -= damage + harvestBonus(tool, r.Type)
	return r.Health <= 0
}

func harvestBonus(tool Tool, t ResourceType) float64 {
	switch {
	case tool == ToolAxe && t == ResourceWood:
		return HarvestToolBonus
	case tool == ToolPickaxe && (t == ResourceStone || t == ResourceGold):
		return HarvestToolBonus
	default:
		return 0
	}
}

// ResourceManager owns the resources on the map.
type ResourceManager struct {
	resources []*Resource
	spawn     gate
	limit     int
	interval  float64
	nextID    int
	rng       Rand
}

func NewResourceManager(rng Rand, limit int, interval float64) *ResourceManager {
	if limit <= 0 {
		limit = ResourceCap
	}
	if interval <= 0 {
		interval = ResourceSpawnInterval
	}
	return &ResourceManager{rng: rng, limit: limit, interval: interval}
}

func (m *ResourceManager) Resources() []*Resource { return m.resources }

func (m *ResourceManager) Len() int { return len(m.resources) }

// Add places a resource directly, bypassing the spawn table.
func (m *ResourceManager) Add(x, y float64, t ResourceType) *Resource {
	m.nextID++
	r := NewResource(m.nextID, x, y, t)
	m.resources = append(m.resources, r)
	return r
}

func (m *ResourceManager) Reset() {
	m.resources = nil
	m.spawn = gate{}
}

// SpawnResource draws a weighted type and a position inside the margin. No-op at the cap.
func (m *ResourceManager) SpawnResource(bounds Bounds) *Resource {
	if len(m.resources) >= m.limit {
		return nil
	}
	t := pickResourceType(m.rng.Float64())
	x := ResourceSpawnMargin + m.rng.Float64()*(bounds.Width-ResourceSpawnMargin*2-ResourceSize)
	y := ResourceSpawnMargin + m.rng.Float64()*(bounds.Height-ResourceSpawnMargin*2-ResourceSize)
	return m.Add(x, y, t)
}

func pickResourceType(roll float64) ResourceType {
	switch {
	case roll < 0.30:
		return ResourceGrass
	case roll < 0.55:
		return ResourceApple
	case roll < 0.75:
		return ResourceWood
	case roll < 0.92:
		return ResourceStone
	default:
		return ResourceGold
	}
}

// Tick spawns on the interval regardless of population; the cap only suppresses the spawn.
func (m *ResourceManager) Tick(now float64, bounds Bounds) {
	if m.spawn.open(now, m.interval) {
		m.SpawnResource(bounds)
	}
}

// ResolveWalkOverPickup removes single-hit resources touching the player.
func (m *ResourceManager) ResolveWalkOverPickup(player Box) []ResourceType {
	var collected []ResourceType
	kept := m.resources[:0]
	for _, r := range m.resources {
		if r.Type.WalkOver() && r.Box().Overlaps(player) {
			collected = append(collected, r.Type)
			continue
		}
		kept = append(kept, r)
	}
	m.resources = kept
	return collected
}

// HarvestNearby damages every resource within the harvest radius and removes the depleted ones.
func (m *ResourceManager) HarvestNearby(player Box, tool Tool, baseDamage float64) []ResourceType {
	var collected []ResourceType
	kept := m.resources[:0]
	for _, r := range m.resources {
		if centerDistance(r.Box(), player) < HarvestRadius && r.takeHarvest(baseDamage, tool) {
			collected = append(collected, r.Type)
			continue
		}
		kept = append(kept, r)
	}
	m.resources = kept
	return collected
}
