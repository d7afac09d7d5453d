package game

import "testing"

func TestBuildIsAllOrNothing(t *testing.T) {
	m := NewStructureManager()
	bag := NewBag()
	bag.AddItem(ItemWood, 3)

	if s := m.Build(StructureCampfire, 200, 200, testBounds, bag); s != nil {
		t.Fatalf("build should fail without enough wood")
	}
	if bag.Quantity(ItemWood) != 3 || len(m.Structures()) != 0 {
		t.Fatalf("failed build touched state: wood=%d structures=%d", bag.Quantity(ItemWood), len(m.Structures()))
	}

	bag.AddItem(ItemWood, 2)
	bag.AddItem(ItemStone, 3)
	s := m.Build(StructureCampfire, 200, 200, testBounds, bag)
	if s == nil {
		t.Fatalf("build should succeed")
	}
	if s.X != 175 || s.Y != 175 || s.Health != 100 {
		t.Fatalf("unexpected structure: %+v", s)
	}
	if bag.Quantity(ItemWood) != 0 || bag.Quantity(ItemStone) != 0 {
		t.Fatalf("cost not deducted: %v", bag.Counts())
	}
}

func TestBuildRejectsBadPlacement(t *testing.T) {
	m := NewStructureManager()
	bag := NewBag()
	bag.AddItem(ItemWood, 100)

	if m.Build(StructureFence, 10, 10, testBounds, bag) != nil {
		t.Fatalf("footprint outside the play area accepted")
	}
	if m.Build(StructureFence, 300, 300, testBounds, bag) == nil {
		t.Fatalf("valid placement rejected")
	}
	if m.Build(StructureFence, 320, 320, testBounds, bag) != nil {
		t.Fatalf("overlapping placement accepted")
	}
	if bag.Quantity(ItemWood) != 96 {
		t.Fatalf("rejected placements should not pay, wood=%d", bag.Quantity(ItemWood))
	}
}

func TestTrapDeactivatesAfterFourFirings(t *testing.T) {
	m := NewStructureManager()
	trap := m.place(StructureTrap, 75, 75)
	enemies := NewEnemyManager(quietRand())
	enemies.StartWave(1)
	boss := NewEnemy(1, 70, 70, EnemySkeleton, true, 1)
	enemies.enemies = append(enemies.enemies, boss)
	player := NewPlayer(700, 500)

	for i := 1; i <= 4; i++ {
		now := float64(i) * TrapIntervalMs
		hits := m.ApplyEffects(now, player, enemies)
		if len(hits) != 1 {
			t.Fatalf("firing %d: expected one hit, got %d", i, len(hits))
		}
		if i < 4 && !trap.Active {
			t.Fatalf("trap went inactive early at firing %d (health %v)", i, trap.Health)
		}
	}
	if trap.Active || trap.Health != 50-60 {
		t.Fatalf("trap should be spent: active=%v health=%v", trap.Active, trap.Health)
	}
	if boss.Health != boss.MaxHealth-4*TrapDamage {
		t.Fatalf("boss damage mismatch: got=%v", boss.Health)
	}

	m.ApplyEffects(5*TrapIntervalMs, player, enemies)
	if len(m.Structures()) != 0 {
		t.Fatalf("inactive structure should be dropped")
	}
}

func TestTrapWaitsForTargets(t *testing.T) {
	m := NewStructureManager()
	trap := m.place(StructureTrap, 75, 75)
	enemies := NewEnemyManager(quietRand())
	player := NewPlayer(700, 500)

	if hits := m.ApplyEffects(TrapIntervalMs, player, enemies); len(hits) != 0 {
		t.Fatalf("trap fired with nothing in range")
	}
	if trap.Health != trap.MaxHealth {
		t.Fatalf("idle trap lost health: %v", trap.Health)
	}
}

func TestTowerHitsEveryEnemyInRange(t *testing.T) {
	m := NewStructureManager()
	m.place(StructureTower, 375, 275)
	enemies := NewEnemyManager(quietRand())
	enemies.StartWave(1)
	near := NewEnemy(1, 420, 280, EnemySkeleton, false, 1)
	near2 := NewEnemy(2, 330, 300, EnemySkeleton, false, 1)
	far := NewEnemy(3, 0, 0, EnemySkeleton, false, 1)
	enemies.enemies = append(enemies.enemies, near, near2, far)
	player := NewPlayer(0, 500)

	if hits := m.ApplyEffects(TowerIntervalMs-1, player, enemies); len(hits) != 0 {
		t.Fatalf("tower fired before its interval")
	}
	hits := m.ApplyEffects(TowerIntervalMs, player, enemies)
	if len(hits) != 1 {
		t.Fatalf("expected one activation, got %d", len(hits))
	}
	if near.Health != 35 || near2.Health != 35 || far.Health != 50 {
		t.Fatalf("unexpected health: near=%v near2=%v far=%v", near.Health, near2.Health, far.Health)
	}
}

func TestCampfireHealsNearbyPlayer(t *testing.T) {
	m := NewStructureManager()
	m.place(StructureCampfire, 100, 100)
	player := NewPlayer(110, 110)
	player.Health = 50
	m.ApplyEffects(CampfireIntervalMs, player, NewEnemyManager(quietRand()))
	if player.Health != 50+CampfireHealAmount {
		t.Fatalf("campfire heal mismatch: got=%v", player.Health)
	}

	player.Health = player.MaxHealth
	m.ApplyEffects(2*CampfireIntervalMs, player, NewEnemyManager(quietRand()))
	if player.Health != player.MaxHealth {
		t.Fatalf("campfire overhealed: %v", player.Health)
	}
}

func TestOnlyActiveFencesBlock(t *testing.T) {
	m := NewStructureManager()
	fence := m.place(StructureFence, 100, 100)
	m.place(StructureTower, 300, 300)

	if !m.Blocks(Box{X: 120, Y: 120, W: 10, H: 10}) {
		t.Fatalf("fence should block")
	}
	if m.Blocks(Box{X: 310, Y: 310, W: 10, H: 10}) {
		t.Fatalf("tower must not block")
	}
	fence.Active = false
	if m.Blocks(Box{X: 120, Y: 120, W: 10, H: 10}) {
		t.Fatalf("inactive fence must not block")
	}
}

func TestStructureSaveLoad(t *testing.T) {
	m := NewStructureManager()
	m.place(StructureTower, 100, 100).Health = 42
	m.place(StructureFence, 300, 300)

	saved := m.Save()
	other := NewStructureManager()
	other.Load(append(saved, StructureState{X: 1, Y: 1, Type: "castle", Health: 10}))
	got := other.Structures()
	if len(got) != 2 {
		t.Fatalf("expected 2 structures, got %d", len(got))
	}
	if got[0].Type != StructureTower || got[0].Health != 42 || got[0].X != 100 {
		t.Fatalf("tower not restored: %+v", got[0])
	}
}

func TestCraftRecipes(t *testing.T) {
	bag := NewBag()
	if _, ok := Craft(bag, 99); ok {
		t.Fatalf("invalid index accepted")
	}
	if _, ok := Craft(bag, -1); ok {
		t.Fatalf("negative index accepted")
	}
	bag.AddItem(ItemStone, 2)
	bag.AddItem(ItemWood, 2)
	if _, ok := Craft(bag, 0); ok {
		t.Fatalf("axe crafted without enough wood")
	}
	if bag.Quantity(ItemStone) != 2 || bag.Quantity(ItemWood) != 2 {
		t.Fatalf("failed craft consumed items: %v", bag.Counts())
	}
	bag.AddItem(ItemWood, 1)
	item, ok := Craft(bag, 0)
	if !ok || item != ItemAxe || bag.Quantity(ItemAxe) != 1 {
		t.Fatalf("axe craft failed: ok=%v item=%s", ok, item)
	}
}
