package game

import (
	"errors"
	"testing"

	"forager/internal/domain/progression"
)

func TestNewGameStartsWaveOne(t *testing.T) {
	g := New(DefaultConfig(), quietRand(), Sinks{})
	if !g.Enemies().InProgress() || g.Enemies().Wave() != 1 || g.Enemies().Quota() != 5 {
		t.Fatalf("wave 1 should be running: wave=%d quota=%d", g.Enemies().Wave(), g.Enemies().Quota())
	}
	if g.Resources().Len() != InitialResources {
		t.Fatalf("expected %d initial resources, got %d", InitialResources, g.Resources().Len())
	}
	p := g.Player()
	if p.X != DefaultWidth/2-PlayerSize/2 || p.Y != DefaultHeight/2-PlayerSize/2 {
		t.Fatalf("player should start centered, got (%v,%v)", p.X, p.Y)
	}
}

func TestCollectFansOutToProgression(t *testing.T) {
	rec := &Recorder{}
	g := New(Config{}, quietRand(), rec.Sinks())
	p := g.Player()
	g.Resources().Add(p.X, p.Y, ResourceApple)

	res := g.Update(16, Input{})
	if len(res.Collected) != 1 || res.Collected[0] != ResourceApple {
		t.Fatalf("expected apple pickup, got %v", res.CollectedNames())
	}
	if g.Inventory().Quantity(ItemApple) != 1 {
		t.Fatalf("apple not added to inventory")
	}
	if p.XP != CollectXP {
		t.Fatalf("collect xp mismatch: got=%d want=%d", p.XP, CollectXP)
	}
	q, _ := g.Quests().Find("collect_apple")
	if q.Progress != 1 {
		t.Fatalf("quest progress mismatch: got=%d", q.Progress)
	}
	if g.Achievements().Stat(progression.StatCollected) != 1 {
		t.Fatalf("collected stat not updated")
	}
	if g.Achievements().Stat(progression.StatScore) != CollectXP {
		t.Fatalf("score stat should follow player score, got %d", g.Achievements().Stat(progression.StatScore))
	}
	notes, cues, effects := rec.Drain()
	if len(notes) == 0 || len(cues) == 0 || cues[0] != CueCollect || len(effects) == 0 {
		t.Fatalf("sinks not notified: notes=%d cues=%v effects=%d", len(notes), cues, len(effects))
	}
}

func TestHarvestSwingCostsStamina(t *testing.T) {
	g := newTestGame()
	p := g.Player()
	p.EquipTool(ToolAxe, 1)
	p.SelectTool(1)
	g.Resources().Add(p.X, p.Y, ResourceWood)

	res := g.Update(16, Input{Attack: true})
	if len(res.Collected) != 1 || g.Inventory().Quantity(ItemWood) != 1 {
		t.Fatalf("axe should fell wood in one swing, got %v", res.CollectedNames())
	}
	if p.Stamina >= p.MaxStamina {
		t.Fatalf("swing should cost stamina, got %v", p.Stamina)
	}

	g2 := newTestGame()
	p2 := g2.Player()
	p2.Stamina = 1
	g2.Resources().Add(p2.X, p2.Y, ResourceStone)
	g2.Update(16, Input{Attack: true})
	if g2.Resources().Resources()[0].Health != ResourceStone.MaxHealth() {
		t.Fatalf("tired player should not harvest")
	}
	if !p2.Attacking {
		t.Fatalf("attack should still start without stamina")
	}
}

func TestPlayerKillRewards(t *testing.T) {
	g := newTestGame()
	p := g.Player()
	bat := NewEnemy(100, p.X, p.Y, EnemyBat, false, 1)
	g.enemies.enemies = append(g.enemies.enemies, bat)

	kills := 0
	var unlocked []string
	for i := 0; i < 3; i++ {
		res := g.Update(16, Input{Attack: i == 0})
		kills += res.Kills
		unlocked = append(unlocked, res.Unlocked...)
	}
	if kills != 1 || !bat.Dead {
		t.Fatalf("bat should die within the swing window, kills=%d", kills)
	}
	if p.Kills != 1 || p.Combo != 1 {
		t.Fatalf("kill not credited: kills=%d combo=%d", p.Kills, p.Combo)
	}
	if p.Score != KillPoints(1)+12 {
		t.Fatalf("score mismatch: got=%d want=%d", p.Score, KillPoints(1)+12)
	}
	if g.Achievements().Stat(progression.StatScore) != p.Score {
		t.Fatalf("score stat drift: stat=%d score=%d", g.Achievements().Stat(progression.StatScore), p.Score)
	}
	if len(unlocked) == 0 || unlocked[0] != "first_blood" {
		t.Fatalf("first_blood should unlock, got %v", unlocked)
	}
	if g.Enemies().WaveKills() != 1 {
		t.Fatalf("wave kill not counted")
	}
}

func TestBossLootAndStructureKill(t *testing.T) {
	g := newTestGame()
	g.structures.place(StructureTrap, 75, 75)
	boss := NewEnemy(1, 70, 70, EnemySlime, true, 1)
	boss.Health = 10
	g.enemies.enemies = append(g.enemies.enemies, boss)

	var res FrameResult
	for i := 0; i < 200 && res.Kills == 0; i++ {
		res = g.Update(16, Input{})
	}
	if res.Kills != 1 || res.BossKills != 1 {
		t.Fatalf("trap should kill the boss: %+v", res)
	}
	if g.Inventory().Quantity(ItemGold) != BossLootGold || g.Inventory().Quantity(ItemHealthPotion) != BossLootPotion {
		t.Fatalf("boss loot missing: %v", g.Inventory().Counts())
	}
	if g.Player().Kills != 0 || g.Player().Combo != 0 {
		t.Fatalf("structure kills must not extend the combo")
	}
	if g.Achievements().Stat(progression.StatBoss) != 1 || g.Achievements().Stat(progression.StatKills) != 1 {
		t.Fatalf("boss stats not updated")
	}
}

func TestLootRollForNormalEnemies(t *testing.T) {
	g := New(Config{}, fixedRand{f: 0.1}, Sinks{})
	g.dropLoot(NewEnemy(1, 0, 0, EnemyGoblin, false, 1))
	if g.Inventory().Quantity(ItemGold) != 1 {
		t.Fatalf("goblin should drop gold on a winning roll")
	}

	g = newTestGame()
	g.dropLoot(NewEnemy(1, 0, 0, EnemyGoblin, false, 1))
	if g.Inventory().Quantity(ItemGold) != 0 {
		t.Fatalf("losing roll dropped loot")
	}
}

func TestWaveTransitionSuspendedByPause(t *testing.T) {
	g := newTestGame()
	g.enemies.waveKills = g.enemies.Quota()

	res := g.Update(16, Input{})
	if res.WaveCompleted != 1 {
		t.Fatalf("wave 1 should complete, got %+v", res)
	}
	if g.Enemies().InProgress() {
		t.Fatalf("wave should be over until the delay elapses")
	}
	if g.Player().XP != WaveBonusXPPerWave {
		t.Fatalf("wave bonus xp mismatch: got=%d", g.Player().XP)
	}
	wave, at, ok := g.PendingWave()
	if !ok || wave != 2 || at != 16+WaveTransitionDelayMs {
		t.Fatalf("unexpected pending wave: wave=%d at=%v ok=%v", wave, at, ok)
	}

	g.Pause()
	for i := 0; i < 10; i++ {
		if r := g.Update(1000, Input{}); !r.Skipped {
			t.Fatalf("paused update should be skipped")
		}
	}
	if g.Now() != 16 || g.Enemies().InProgress() {
		t.Fatalf("pause should freeze the clock and the wave timer: now=%v", g.Now())
	}

	g.Resume()
	g.Update(WaveTransitionDelayMs-1, Input{})
	if g.Enemies().InProgress() {
		t.Fatalf("wave started early")
	}
	res = g.Update(1, Input{})
	if res.WaveStarted != 2 || !g.Enemies().InProgress() || g.Enemies().Quota() != 7 {
		t.Fatalf("wave 2 should start: %+v quota=%d", res, g.Enemies().Quota())
	}
	q, _ := g.Quests().Find("survive_waves")
	if q.Progress != 1 || g.Achievements().Stat(progression.StatWave) != 1 {
		t.Fatalf("wave progression not posted")
	}
}

func TestDeathIsTerminal(t *testing.T) {
	g := newTestGame()
	p := g.Player()
	p.Health = 1
	g.enemies.enemies = append(g.enemies.enemies, NewEnemy(1, p.X, p.Y, EnemySlime, false, 1))

	res := g.Update(16, Input{})
	if !res.GameOver || !g.Over() {
		t.Fatalf("lethal hit should end the game")
	}
	before := g.Now()
	if r := g.Update(16, Input{}); !r.Skipped || g.Now() != before {
		t.Fatalf("update after game over should be a no-op")
	}
	if _, ok := g.Craft(0); ok {
		t.Fatalf("commands after game over should fail")
	}

	g.Restart()
	if g.Over() || g.Player().Health != PlayerStartHealth {
		t.Fatalf("restart should revive the player")
	}
}

func TestStarvationEndsGame(t *testing.T) {
	g := newTestGame()
	p := g.Player()
	p.Hunger = 0
	p.Health = StarvationDamagePerTick / 2
	if res := g.Update(16, Input{}); !res.GameOver {
		t.Fatalf("starved player should die")
	}
}

func TestCraftEquipsNewTool(t *testing.T) {
	g := newTestGame()
	g.Inventory().AddItem(ItemStone, 4)
	g.Inventory().AddItem(ItemWood, 6)

	item, ok := g.Craft(0)
	if !ok || item != ItemAxe {
		t.Fatalf("axe craft failed")
	}
	if g.Player().Tools[1] != ToolAxe {
		t.Fatalf("axe should go into slot 1, got %v", g.Player().Tools)
	}
	if _, ok := g.Craft(0); !ok {
		t.Fatalf("second axe craft failed")
	}
	if g.Player().Tools[2] != ToolNone {
		t.Fatalf("duplicate tool should not take a second slot")
	}
	if g.Achievements().Stat(progression.StatCrafted) != 2 {
		t.Fatalf("crafted stat mismatch")
	}
	if _, ok := g.Craft(5); ok {
		t.Fatalf("potion crafted without apples")
	}
}

func TestEquipRequiresOwnedItem(t *testing.T) {
	g := newTestGame()
	if g.Equip(ToolSword, 1) {
		t.Fatalf("equip without a sword accepted")
	}
	g.Inventory().AddItem(ItemSword, 1)
	if !g.Equip(ToolSword, 1) || g.Player().Tools[1] != ToolSword {
		t.Fatalf("equip with a sword failed")
	}
	if g.Equip(ToolSword, 0) {
		t.Fatalf("slot 0 accepted")
	}
}

func TestBuildAndClaimQuest(t *testing.T) {
	g := newTestGame()
	g.Inventory().AddItem(ItemWood, 8)
	if _, ok := g.Build(StructureFence, 200, 200); !ok {
		t.Fatalf("first fence failed")
	}
	if g.ClaimQuest("build_structure") {
		t.Fatalf("claim before completion accepted")
	}
	if _, ok := g.Build(StructureFence, 400, 200); !ok {
		t.Fatalf("second fence failed")
	}
	if !g.ClaimQuest("build_structure") {
		t.Fatalf("claim after completion failed")
	}
	if g.ClaimQuest("build_structure") {
		t.Fatalf("double claim accepted")
	}
	if g.Inventory().Quantity(ItemGold) != 3 || g.Player().XP != 80 {
		t.Fatalf("reward mismatch: gold=%d xp=%d", g.Inventory().Quantity(ItemGold), g.Player().XP)
	}
	if _, ok := g.Build(StructureTower, 600, 400); ok {
		t.Fatalf("tower built without stone")
	}
}

func TestLevelQuestTracksHighWater(t *testing.T) {
	g := newTestGame()
	g.grantXP(250)
	q, _ := g.Quests().Find("reach_level")
	if !q.Completed || q.Progress != 3 {
		t.Fatalf("reaching level 3 should complete the quest: progress=%d", q.Progress)
	}
	if g.Achievements().Stat(progression.StatLevel) != 3 {
		t.Fatalf("level stat mismatch: %d", g.Achievements().Stat(progression.StatLevel))
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := newTestGame()
	p := g.Player()
	p.AddXP(130)
	p.Health = 77.5
	p.Hunger = 12.25
	p.EquipTool(ToolBow, 3)
	p.SelectTool(3)
	g.Inventory().AddItem(ItemStone, 9)
	g.structures.place(StructureTower, 300, 300).Health = 99
	g.Quests().Post(progression.EventKill, 2)
	g.Achievements().UpdateStat(progression.StatCombo, 4)
	g.enemies.StartWave(4)
	g.enemies.waveKills = 6

	snap := g.Snapshot()

	other := newTestGame()
	if err := other.Restore(&snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	op := other.Player()
	if op.Level != p.Level || op.XP != p.XP || op.XPToNextLevel != p.XPToNextLevel {
		t.Fatalf("level state mismatch: got=%d/%d/%d", op.Level, op.XP, op.XPToNextLevel)
	}
	if op.Health != 77.5 || op.Hunger != 12.25 || op.MaxHealth != p.MaxHealth {
		t.Fatalf("vitals mismatch: hp=%v hunger=%v", op.Health, op.Hunger)
	}
	if op.Tools[3] != ToolBow || op.SelectedSlot != 3 {
		t.Fatalf("loadout mismatch: %v slot=%d", op.Tools, op.SelectedSlot)
	}
	if other.Inventory().Quantity(ItemStone) != 9 {
		t.Fatalf("inventory mismatch")
	}
	if len(other.Structures().Structures()) != 1 || other.Structures().Structures()[0].Health != 99 {
		t.Fatalf("structures mismatch")
	}
	q, _ := other.Quests().Find("kill_enemies")
	if q.Progress != 2 {
		t.Fatalf("quest progress mismatch: %d", q.Progress)
	}
	if other.Achievements().Stat(progression.StatCombo) != 4 {
		t.Fatalf("achievement stat mismatch")
	}
	if other.Enemies().Wave() != 4 || other.Enemies().WaveKills() != 0 || !other.Enemies().InProgress() {
		t.Fatalf("wave should restart from its beginning: wave=%d kills=%d", other.Enemies().Wave(), other.Enemies().WaveKills())
	}
}

func TestRestoreRejectsMissingOrUnknownSnapshot(t *testing.T) {
	g := newTestGame()
	if err := g.Restore(nil); !errors.Is(err, ErrNoSave) {
		t.Fatalf("expected ErrNoSave, got %v", err)
	}
	snap := g.Snapshot()
	snap.Version = 99
	if err := g.Restore(&snap); !errors.Is(err, ErrUnsupportedSnapshot) {
		t.Fatalf("expected ErrUnsupportedSnapshot, got %v", err)
	}
}

func TestRestoreClampsVitals(t *testing.T) {
	g := newTestGame()
	snap := g.Snapshot()
	snap.Player.MaxHealth = 100
	snap.Player.Health = 500
	snap.Player.Hunger = 900
	snap.Player.Stamina = -5

	other := newTestGame()
	if err := other.Restore(&snap); err != nil {
		t.Fatalf("restore error: %v", err)
	}
	p := other.Player()
	if p.Health != 100 || p.Hunger != p.MaxHunger || p.Stamina != 0 {
		t.Fatalf("vitals not clamped: health=%v/%v hunger=%v/%v stamina=%v",
			p.Health, p.MaxHealth, p.Hunger, p.MaxHunger, p.Stamina)
	}
}

func TestRestoreRejectsImpossibleProgression(t *testing.T) {
	cases := []struct {
		name string
		edit func(*PlayerState)
	}{
		{"xp at threshold", func(ps *PlayerState) { ps.XP, ps.XPToNextLevel = 100, 100 }},
		{"xp past threshold", func(ps *PlayerState) { ps.XP, ps.XPToNextLevel = 1000, 100 }},
		{"zero threshold", func(ps *PlayerState) { ps.XP, ps.XPToNextLevel = 0, 0 }},
		{"zero max health", func(ps *PlayerState) { ps.MaxHealth = 0 }},
	}
	for _, c := range cases {
		g := newTestGame()
		g.Player().Score = 77
		snap := g.Snapshot()
		c.edit(&snap.Player)

		if err := g.Restore(&snap); !errors.Is(err, ErrCorruptSnapshot) {
			t.Fatalf("%s: expected ErrCorruptSnapshot, got %v", c.name, err)
		}
		if g.Player().Score != 77 {
			t.Fatalf("%s: rejected snapshot changed the game", c.name)
		}
	}
}
