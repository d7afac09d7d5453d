package game

import "testing"

func hitsToCollect(t *testing.T, rt ResourceType, tool Tool) int {
	t.Helper()
	m := NewResourceManager(quietRand(), 0, 0)
	m.Add(100, 100, rt)
	player := Box{X: 100, Y: 100, W: PlayerSize, H: PlayerSize}
	for hits := 1; hits <= 10; hits++ {
		if got := m.HarvestNearby(player, tool, HarvestBaseDamage); len(got) == 1 {
			if got[0] != rt {
				t.Fatalf("collected wrong type: got=%s want=%s", got[0], rt)
			}
			return hits
		}
	}
	t.Fatalf("%s never collected with %s", rt, tool)
	return 0
}

func TestHarvestToolBonus(t *testing.T) {
	cases := []struct {
		rt       ResourceType
		tool     Tool
		handHits int
		toolHits int
	}{
		{ResourceWood, ToolAxe, 2, 1},
		{ResourceStone, ToolPickaxe, 3, 1},
		{ResourceGold, ToolPickaxe, 5, 2},
	}
	for _, c := range cases {
		if got := hitsToCollect(t, c.rt, ToolHand); got != c.handHits {
			t.Fatalf("%s by hand: got=%d want=%d", c.rt, got, c.handHits)
		}
		if got := hitsToCollect(t, c.rt, c.tool); got != c.toolHits {
			t.Fatalf("%s by %s: got=%d want=%d", c.rt, c.tool, got, c.toolHits)
		}
	}
	if got := hitsToCollect(t, ResourceWood, ToolPickaxe); got != 2 {
		t.Fatalf("pickaxe should not help on wood: got=%d", got)
	}
}

func TestHarvestKeepsDamagedResources(t *testing.T) {
	m := NewResourceManager(quietRand(), 0, 0)
	r := m.Add(100, 100, ResourceGold)
	far := m.Add(600, 600, ResourceStone)
	player := Box{X: 110, Y: 110, W: PlayerSize, H: PlayerSize}

	if got := m.HarvestNearby(player, ToolHand, HarvestBaseDamage); len(got) != 0 {
		t.Fatalf("gold should survive one hit, got %v", got)
	}
	if r.Health != 4 || m.Len() != 2 {
		t.Fatalf("unexpected state: health=%v len=%d", r.Health, m.Len())
	}
	if far.Health != far.Type.MaxHealth() {
		t.Fatalf("out of range resource was damaged")
	}
}

func TestWalkOverPickupOnlySingleHitTypes(t *testing.T) {
	m := NewResourceManager(quietRand(), 0, 0)
	m.Add(100, 100, ResourceApple)
	m.Add(110, 110, ResourceGrass)
	m.Add(105, 105, ResourceStone)
	m.Add(500, 500, ResourceApple)

	got := m.ResolveWalkOverPickup(Box{X: 100, Y: 100, W: PlayerSize, H: PlayerSize})
	if len(got) != 2 || got[0] != ResourceApple || got[1] != ResourceGrass {
		t.Fatalf("unexpected pickups: %v", got)
	}
	if m.Len() != 2 {
		t.Fatalf("expected stone and far apple to remain, got %d", m.Len())
	}
}

func TestSpawnRespectsCapAndMargin(t *testing.T) {
	bounds := Bounds{Width: 800, Height: 600}
	m := NewResourceManager(fixedRand{f: 0}, 3, 0)
	for i := 0; i < 5; i++ {
		m.SpawnResource(bounds)
	}
	if m.Len() != 3 {
		t.Fatalf("cap not respected: got=%d want=3", m.Len())
	}
	for _, r := range m.Resources() {
		if r.X != ResourceSpawnMargin || r.Y != ResourceSpawnMargin {
			t.Fatalf("spawn outside margin: (%v,%v)", r.X, r.Y)
		}
		if r.Type != ResourceGrass {
			t.Fatalf("roll 0 should be grass, got %s", r.Type)
		}
	}

	hi := NewResourceManager(fixedRand{f: 0.999}, 0, 0)
	r := hi.SpawnResource(bounds)
	if r.X+ResourceSize > bounds.Width-ResourceSpawnMargin {
		t.Fatalf("spawn crossed the far margin: x=%v", r.X)
	}
}

func TestResourceTypeThresholds(t *testing.T) {
	cases := []struct {
		roll float64
		want ResourceType
	}{
		{0.0, ResourceGrass},
		{0.29, ResourceGrass},
		{0.30, ResourceApple},
		{0.54, ResourceApple},
		{0.55, ResourceWood},
		{0.75, ResourceStone},
		{0.91, ResourceStone},
		{0.92, ResourceGold},
	}
	for _, c := range cases {
		if got := pickResourceType(c.roll); got != c.want {
			t.Fatalf("roll %v: got=%s want=%s", c.roll, got, c.want)
		}
	}
}

func TestTickSpawnsOnInterval(t *testing.T) {
	bounds := Bounds{Width: 800, Height: 600}
	m := NewResourceManager(quietRand(), 0, 0)
	m.Tick(ResourceSpawnInterval, bounds)
	if m.Len() != 0 {
		t.Fatalf("spawn must wait for the full interval")
	}
	m.Tick(ResourceSpawnInterval+1, bounds)
	if m.Len() != 1 {
		t.Fatalf("expected one spawn, got %d", m.Len())
	}
	m.Tick(ResourceSpawnInterval+100, bounds)
	if m.Len() != 1 {
		t.Fatalf("gate should close again, got %d", m.Len())
	}
}
