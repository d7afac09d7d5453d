package game

import (
	"fmt"
	"math/rand"

	"forager/internal/domain/progression"
)

// Input is what the player asked for during one frame. Keys are held state; the other fields are
// one-shot triggers.
type Input struct {
	Keys       Keys `json:"keys"`
	Attack     bool `json:"attack"`
	Eat        bool `json:"eat"`
	Potion     bool `json:"potion"`
	SelectSlot *int `json:"select_slot,omitempty"`
}

// FrameResult summarizes what one Update resolved.
type FrameResult struct {
	Now             float64        `json:"now_ms"`
	Collected       []ResourceType `json:"-"`
	Kills           int            `json:"kills"`
	BossKills       int            `json:"boss_kills"`
	DamageTaken     float64        `json:"damage_taken"`
	LevelUps        int            `json:"level_ups"`
	WaveCompleted   int            `json:"wave_completed,omitempty"`
	WaveStarted     int            `json:"wave_started,omitempty"`
	QuestsCompleted []string       `json:"quests_completed,omitempty"`
	Unlocked        []string       `json:"unlocked,omitempty"`
	GameOver        bool           `json:"game_over"`
	Skipped         bool           `json:"skipped,omitempty"`
}

// CollectedNames is Collected rendered as resource names.
func (r FrameResult) CollectedNames() []string {
	out := make([]string, 0, len(r.Collected))
	for _, t := range r.Collected {
		out = append(out, t.String())
	}
	return out
}

// Game composes the managers into one authoritative frame update. It is not safe for concurrent
// use; callers serialize access.
type Game struct {
	cfg   Config
	clock Clock
	rng   Rand
	sinks Sinks

	player       *Player
	inventory    *Bag
	resources    *ResourceManager
	enemies      *EnemyManager
	structures   *StructureManager
	quests       *progression.QuestBook
	achievements *progression.Tracker

	paused      bool
	over        bool
	nextWave    timer
	pendingWave int
	scoreSeen   int

	frame *FrameResult
}

// New starts a fresh game on wave 1 with the initial resources placed. A nil rng is seeded from
// cfg.Seed.
func New(cfg Config, rng Rand, sinks Sinks) *Game {
	cfg = cfg.withDefaults()
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	g := &Game{
		cfg:          cfg,
		rng:          rng,
		sinks:        sinks.withDefaults(),
		resources:    NewResourceManager(rng, cfg.ResourceCap, cfg.ResourceSpawnInterval),
		enemies:      NewEnemyManager(rng),
		structures:   NewStructureManager(),
		quests:       progression.NewQuestBook(),
		achievements: progression.NewTracker(),
	}
	g.start()
	return g
}

func (g *Game) start() {
	g.player = NewPlayer(g.cfg.Bounds.Width/2-PlayerSize/2, g.cfg.Bounds.Height/2-PlayerSize/2)
	g.inventory = NewBag()
	g.resources.Reset()
	g.enemies.Reset()
	g.structures.Reset()
	g.quests.Reset()
	g.achievements.Reset()
	g.paused = false
	g.over = false
	g.nextWave = timer{}
	g.pendingWave = 0
	g.scoreSeen = 0
	for i := 0; i < g.cfg.InitialResources; i++ {
		g.resources.SpawnResource(g.cfg.Bounds)
	}
	g.enemies.StartWave(1)
}

func (g *Game) Player() *Player                    { return g.player }
func (g *Game) Inventory() *Bag                    { return g.inventory }
func (g *Game) Resources() *ResourceManager        { return g.resources }
func (g *Game) Enemies() *EnemyManager             { return g.enemies }
func (g *Game) Structures() *StructureManager      { return g.structures }
func (g *Game) Quests() *progression.QuestBook     { return g.quests }
func (g *Game) Achievements() *progression.Tracker { return g.achievements }
func (g *Game) Bounds() Bounds                     { return g.cfg.Bounds }
func (g *Game) Now() float64                       { return g.clock.Now() }
func (g *Game) Paused() bool                       { return g.paused }
func (g *Game) Over() bool                         { return g.over }

// PendingWave reports the wave scheduled to start and the clock time it fires at.
func (g *Game) PendingWave() (wave int, at float64, ok bool) {
	return g.pendingWave, g.nextWave.deadline, g.nextWave.armed
}

// Pause freezes the clock. Every timer, including a scheduled wave start, waits with it.
func (g *Game) Pause() { g.paused = true }

func (g *Game) Resume() { g.paused = false }

// Restart throws away the session state and starts over on wave 1. The clock keeps running
// forward.
func (g *Game) Restart() { g.start() }

// Update advances the simulation by dtMs. It is a no-op while paused or after game over.
func (g *Game) Update(dtMs float64, in Input) FrameResult {
	if g.paused || g.over || dtMs <= 0 {
		return FrameResult{Now: g.clock.Now(), GameOver: g.over, Skipped: true}
	}
	g.clock.Advance(dtMs)
	now := g.clock.Now()
	res := FrameResult{Now: now}
	g.frame = &res
	defer func() { g.frame = nil }()

	if g.nextWave.fire(now) {
		g.beginWave(g.pendingWave)
	}

	// input and movement
	p := g.player
	p.HandleMovementInput(in.Keys)
	if in.SelectSlot != nil {
		p.SelectTool(*in.SelectSlot)
	}
	if in.Eat && p.Eat(g.inventory) {
		g.sinks.Audio.Play(CueEat)
	}
	if in.Potion && p.UseHealthPotion(g.inventory) {
		g.sinks.Effects.Spawn(EffectHeal, p.Box().CenterX(), p.Box().CenterY(), PotionHealthRestore)
	}
	var harvested []ResourceType
	if in.Attack && p.Attack() {
		g.sinks.Audio.Play(CueAttack)
		if p.Stamina >= HarvestStaminaCost {
			p.Stamina -= HarvestStaminaCost
			harvested = g.resources.HarvestNearby(p.Box(), p.SelectedTool(), HarvestBaseDamage)
		}
	}
	p.Tick(g.cfg.Bounds, dtMs)
	if p.Dead() {
		g.gameOver("You starved")
		return res
	}

	// resources
	g.resources.Tick(now, g.cfg.Bounds)
	collected := append(harvested, g.resources.ResolveWalkOverPickup(p.Box())...)
	for _, t := range collected {
		g.collect(t)
	}

	// enemies
	g.enemies.TrySpawnIfDue(now, g.cfg.Bounds, p.Level)
	g.enemies.Tick(now, dtMs, p.Box(), g.cfg.Bounds, g.structures)
	if dmg := g.enemies.TryAttacks(p.Box()); dmg > 0 && !p.Invincible {
		before := p.Health
		dead := p.TakeDamage(dmg)
		res.DamageTaken += before - p.Health
		g.sinks.Audio.Play(CueHurt)
		g.sinks.Effects.Spawn(EffectDamage, p.Box().CenterX(), p.Y, before-p.Health)
		if dead {
			g.gameOver("You were defeated")
			return res
		}
	}

	// player attacks
	for _, e := range g.enemies.ResolvePlayerAttacks(p, now) {
		g.kill(e, true)
	}

	// structure auras
	for _, hit := range g.structures.ApplyEffects(now, p, g.enemies) {
		for _, e := range hit.Killed {
			g.kill(e, false)
		}
	}

	g.syncScore()

	if g.enemies.IsWaveComplete() {
		g.completeWave(now)
	}
	return res
}

func (g *Game) beginWave(n int) {
	g.enemies.StartWave(n)
	g.sinks.Notifier.Notify(fmt.Sprintf("Wave %d begins!", n), SeverityWarning)
	g.sinks.Audio.Play(CueWave)
	if g.frame != nil {
		g.frame.WaveStarted = n
	}
}

func (g *Game) completeWave(now float64) {
	wave := g.enemies.Wave()
	g.enemies.EndWave()
	g.sinks.Notifier.Notify(fmt.Sprintf("Wave %d complete!", wave), SeveritySuccess)
	g.postQuest(progression.EventWave, 1)
	g.updateStat(progression.StatWave, wave)
	g.grantXP(WaveBonusXPPerWave * wave)
	g.syncScore()
	g.pendingWave = wave + 1
	g.nextWave.schedule(now, g.cfg.WaveTransitionDelay)
	if g.frame != nil {
		g.frame.WaveCompleted = wave
	}
}

func (g *Game) collect(t ResourceType) {
	p := g.player
	g.inventory.AddItem(t.Item(), 1)
	g.sinks.Notifier.Notify("+1 "+t.String(), SeveritySuccess)
	g.sinks.Audio.Play(CueCollect)
	g.sinks.Effects.Spawn(EffectCollect, p.Box().CenterX(), p.Box().CenterY(), 1)
	g.grantXP(CollectXP)
	g.postQuest(progression.CollectEvent(t.String()), 1)
	g.updateStat(progression.StatCollected, 1)
	if t == ResourceGold {
		g.updateStat(progression.StatGold, 1)
	}
	if g.frame != nil {
		g.frame.Collected = append(g.frame.Collected, t)
	}
}

// kill resolves the rewards for one dead enemy. Only player kills extend the combo.
func (g *Game) kill(e *Enemy, byPlayer bool) {
	p := g.player
	if byPlayer {
		p.AddKill()
	}
	g.sinks.Audio.Play(CueKill)
	g.sinks.Effects.Spawn(EffectDeath, e.Box().CenterX(), e.Box().CenterY(), e.Size)
	g.grantXP(e.XPReward)
	g.dropLoot(e)
	g.postQuest(progression.EventKill, 1)
	g.updateStat(progression.StatKills, 1)
	g.updateStat(progression.StatCombo, p.Combo)
	if e.Boss {
		g.sinks.Notifier.Notify(fmt.Sprintf("Boss %s defeated!", e.Type), SeveritySuccess)
		g.updateStat(progression.StatBoss, 1)
	}
	g.syncScore()
	if g.frame != nil {
		g.frame.Kills++
		if e.Boss {
			g.frame.BossKills++
		}
	}
}

func (g *Game) dropLoot(e *Enemy) {
	if e.Boss {
		g.inventory.AddItem(ItemGold, BossLootGold)
		g.inventory.AddItem(ItemHealthPotion, BossLootPotion)
		g.updateStat(progression.StatGold, BossLootGold)
		return
	}
	if g.rng.Float64() >= LootChance {
		return
	}
	item, ok := enemyLoot[e.Type]
	if !ok {
		return
	}
	g.inventory.AddItem(item, 1)
	g.sinks.Notifier.Notify("Loot: +1 "+item.String(), SeverityInfo)
	if item == ItemGold {
		g.updateStat(progression.StatGold, 1)
	}
}

func (g *Game) grantXP(amount int) {
	p := g.player
	if !p.AddXP(amount) {
		return
	}
	g.sinks.Notifier.Notify(fmt.Sprintf("Level up! Now level %d", p.Level), SeveritySuccess)
	g.sinks.Audio.Play(CueLevelUp)
	g.sinks.Effects.Spawn(EffectLevelUp, p.Box().CenterX(), p.Box().CenterY(), float64(p.Level))
	g.postQuest(progression.EventLevel, p.Level)
	g.updateStat(progression.StatLevel, p.Level)
	if g.frame != nil {
		g.frame.LevelUps++
	}
}

// syncScore posts the score gained since the last sync to the score stat.
func (g *Game) syncScore() {
	delta := g.player.Score - g.scoreSeen
	if delta <= 0 {
		return
	}
	g.scoreSeen = g.player.Score
	g.updateStat(progression.StatScore, delta)
}

func (g *Game) postQuest(event progression.Event, amount int) {
	for _, q := range g.quests.Post(event, amount) {
		g.sinks.Notifier.Notify("Quest complete: "+q.Name, SeveritySuccess)
		if g.frame != nil {
			g.frame.QuestsCompleted = append(g.frame.QuestsCompleted, q.ID)
		}
	}
}

func (g *Game) updateStat(stat progression.Stat, value int) {
	for _, a := range g.achievements.UpdateStat(stat, value) {
		g.sinks.Notifier.Notify("Achievement unlocked: "+a.Name, SeveritySuccess)
		if g.frame != nil {
			g.frame.Unlocked = append(g.frame.Unlocked, a.ID)
		}
	}
}

func (g *Game) gameOver(reason string) {
	g.over = true
	g.sinks.Notifier.Notify(reason, SeverityError)
	g.sinks.Audio.Play(CueGameOver)
	if g.frame != nil {
		g.frame.GameOver = true
	}
}

// Craft runs recipe index and equips a freshly crafted tool into the first empty slot when the
// loadout does not already carry it.
func (g *Game) Craft(index int) (Item, bool) {
	if g.over {
		return 0, false
	}
	item, ok := Craft(g.inventory, index)
	if !ok {
		g.sinks.Notifier.Notify("Missing ingredients", SeverityWarning)
		return 0, false
	}
	if tool, isTool := ToolForItem(item); isTool && !g.player.HasTool(tool) {
		if slot := g.player.FirstEmptySlot(); slot > 0 {
			g.player.EquipTool(tool, slot)
		}
	}
	g.sinks.Notifier.Notify("Crafted "+item.String(), SeveritySuccess)
	g.sinks.Audio.Play(CueCraft)
	g.postQuest(progression.EventCraft, 1)
	g.updateStat(progression.StatCrafted, 1)
	return item, true
}

// Build places a structure centered on (cx, cy).
func (g *Game) Build(t StructureType, cx, cy float64) (*Structure, bool) {
	if g.over {
		return nil, false
	}
	s := g.structures.Build(t, cx, cy, g.cfg.Bounds, g.inventory)
	if s == nil {
		g.sinks.Notifier.Notify("Cannot build "+t.String()+" here", SeverityWarning)
		return nil, false
	}
	g.sinks.Notifier.Notify("Built "+t.String(), SeveritySuccess)
	g.sinks.Audio.Play(CueBuild)
	g.sinks.Effects.Spawn(EffectBuild, cx, cy, StructureSize)
	g.postQuest(progression.EventBuild, 1)
	g.updateStat(progression.StatBuilt, 1)
	return s, true
}

// Equip moves a crafted tool the inventory holds into slot 1..4.
func (g *Game) Equip(t Tool, slot int) bool {
	item, ok := itemForTool(t)
	if g.over || !ok || !g.inventory.HasItem(item, 1) {
		return false
	}
	return g.player.EquipTool(t, slot)
}

func (g *Game) SelectSlot(slot int) bool {
	if g.over {
		return false
	}
	return g.player.SelectTool(slot)
}

// ClaimQuest pays out a completed quest once.
func (g *Game) ClaimQuest(id string) bool {
	if g.over {
		return false
	}
	reward, ok := g.quests.Claim(id)
	if !ok {
		return false
	}
	if reward.Gold > 0 {
		g.inventory.AddItem(ItemGold, reward.Gold)
		g.updateStat(progression.StatGold, reward.Gold)
	}
	g.grantXP(reward.XP)
	g.syncScore()
	g.sinks.Notifier.Notify(fmt.Sprintf("Reward claimed: +%d XP, +%d gold", reward.XP, reward.Gold), SeveritySuccess)
	return true
}

func itemForTool(t Tool) (Item, bool) {
	for _, item := range AllItems() {
		if tool, ok := ToolForItem(item); ok && tool == t {
			return item, true
		}
	}
	return 0, false
}
