package game

import "math"

const (
	PlayerSize          = 40
	PlayerBaseSpeed     = 4.0
	PlayerStartHealth   = 100
	PlayerStartHunger   = 100
	PlayerStartStamina  = 100
	PlayerStartXPToNext = 100
	LoadoutSlots        = 5

	AttackDurationMs = 200
	AttackCooldownMs = 350
	InvincibleMs     = 400
	ComboWindowMs    = 3000

	HungerDecayPerTick      = 0.004
	StarvationDamagePerTick = 0.015
	StaminaRegenPerTick     = 0.05
	HealthRegenPerTick      = 0.008
	HealthRegenHungerRatio  = 0.8

	ShieldDamageFactor = 0.6

	KillBaseScore       = 100
	ComboScoreStep      = 0.1
	LevelXPGrowth       = 1.4
	LevelMaxHealthGain  = 15
	LevelMaxStaminaGain = 10

	EatHungerRestore    = 25
	PotionHealthRestore = 50

	MeleeRange = 50
	SwordRange = 65
	BowRange   = 180

	ResourceSize          = 40
	ResourceSpawnInterval = 2000
	ResourceCap           = 25
	ResourceSpawnMargin   = 60
	InitialResources      = 8
	HarvestRadius         = 60
	HarvestBaseDamage     = 1
	HarvestToolBonus      = 2
	HarvestStaminaCost    = 2
	CollectXP             = 5

	EnemySize           = 35
	BossSize            = 60
	EnemySpawnOffset    = 30
	EnemyAttackRadius   = 40
	EnemyChaseRadius    = 250
	EnemyConfirmRadius  = 50
	EnemyAttackCooldown = 1000
	EnemyWanderChance   = 0.02
	DeathLingerMs       = 200
	MaxConcurrentSpawns = 5

	BossHealthFactor = 5
	BossSpeedFactor  = 0.7
	BossDamageFactor = 2
	BossXPFactor     = 10
	BossWaveEvery    = 5

	WaveHealthStep = 0.15
	WaveDamageStep = 0.1

	WaveBaseQuota         = 3
	WaveQuotaPerWave      = 2
	WaveBaseIntervalMs    = 3000
	WaveIntervalStepMs    = 150
	WaveMinIntervalMs     = 1500
	WaveTransitionDelayMs = 3000
	WaveBonusXPPerWave    = 50

	StructureSize = 50

	CampfireHealAmount = 0.1
	CampfireRange      = 100
	CampfireIntervalMs = 500
	TowerDamage        = 15
	TowerRange         = 150
	TowerIntervalMs    = 1500
	TrapDamage         = 40
	TrapRange          = 30
	TrapIntervalMs     = 2000
	TrapSelfDamage     = 15

	LootChance     = 0.25
	BossLootGold   = 5
	BossLootPotion = 1

	DefaultWidth  = 1280
	DefaultHeight = 720
)

// DiagonalFactor keeps diagonal speed equal to axis speed.
var DiagonalFactor = 1 / math.Sqrt2

var toolDamage = map[Tool]float64{
	ToolHand:    8,
	ToolAxe:     18,
	ToolPickaxe: 15,
	ToolSword:   30,
	ToolBow:     25,
}

type enemyStats struct {
	Health   float64
	Speed    float64
	Damage   float64
	XPReward int
}

var enemyBaseStats = map[EnemyType]enemyStats{
	EnemySlime:    {Health: 30, Speed: 1.5, Damage: 10, XPReward: 15},
	EnemyBat:      {Health: 20, Speed: 2.8, Damage: 8, XPReward: 12},
	EnemySkeleton: {Health: 50, Speed: 1.8, Damage: 15, XPReward: 25},
	EnemyGoblin:   {Health: 40, Speed: 2.2, Damage: 12, XPReward: 20},
}

var structureMaxHealth = map[StructureType]float64{
	StructureCampfire: 100,
	StructureFence:    80,
	StructureTower:    150,
	StructureTrap:     50,
}

var enemyLoot = map[EnemyType]Item{
	EnemySlime:    ItemGrass,
	EnemyBat:      ItemApple,
	EnemyGoblin:   ItemGold,
	EnemySkeleton: ItemStone,
}

// Config carries the knobs an operator may tune per deployment. Zero fields fall back to the
// defaults above, except InitialResources where zero means an empty map.
type Config struct {
	Bounds                Bounds
	ResourceCap           int
	ResourceSpawnInterval float64
	InitialResources      int
	WaveTransitionDelay   float64
	Seed                  int64
}

func DefaultConfig() Config {
	return Config{
		Bounds:                Bounds{Width: DefaultWidth, Height: DefaultHeight},
		ResourceCap:           ResourceCap,
		ResourceSpawnInterval: ResourceSpawnInterval,
		InitialResources:      InitialResources,
		WaveTransitionDelay:   WaveTransitionDelayMs,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Bounds.Width <= 0 || c.Bounds.Height <= 0 {
		c.Bounds = def.Bounds
	}
	if c.ResourceCap <= 0 {
		c.ResourceCap = def.ResourceCap
	}
	if c.ResourceSpawnInterval <= 0 {
		c.ResourceSpawnInterval = def.ResourceSpawnInterval
	}
	if c.InitialResources < 0 {
		c.InitialResources = 0
	}
	if c.WaveTransitionDelay <= 0 {
		c.WaveTransitionDelay = def.WaveTransitionDelay
	}
	return c
}
