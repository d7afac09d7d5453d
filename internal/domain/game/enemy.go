package game

import "math"

type EnemyState int

const (
	EnemyIdle EnemyState = iota
	EnemyChase
	EnemyAttack
)

func (s EnemyState) String() string {
	switch s {
	case EnemyChase:
		return "chase"
	case EnemyAttack:
		return "attack"
	default:
		return "idle"
	}
}

type Enemy struct {
	ID        int
	X, Y      float64
	Size      float64
	Type      EnemyType
	Boss      bool
	Health    float64
	MaxHealth float64
	Speed     float64
	Damage    float64
	XPReward  int

	VX, VY         float64
	State          EnemyState
	AttackCooldown float64
	Dead           bool
	DiedAt         float64
}

// NewEnemy builds an enemy with boss scaling first and wave scaling after it.
func NewEnemy(id int, x, y float64, t EnemyType, boss bool, wave int) *Enemy {
	base, ok := enemyBaseStats[t]
	if !ok {
		base = enemyBaseStats[EnemySlime]
	}
	e := &Enemy{
		ID:       id,
		X:        x,
		Y:        y,
		Size:     EnemySize,
		Type:     t,
		Boss:     boss,
		Health:   base.Health,
		Speed:    base.Speed,
		Damage:   base.Damage,
		XPReward: base.XPReward,
	}
	if boss {
		e.Size = BossSize
		e.Health *= BossHealthFactor
		e.Speed *= BossSpeedFactor
		e.Damage *= BossDamageFactor
		e.XPReward *= BossXPFactor
	}
	if wave > 1 {
		e.Health *= 1 + float64(wave-1)*WaveHealthStep
		e.Damage *= 1 + float64(wave-1)*WaveDamageStep
	}
	e.MaxHealth = e.Health
	return e
}

func (e *Enemy) Box() Box { return Box{X: e.X, Y: e.Y, W: e.Size, H: e.Size} }

// Blocker answers whether a box runs into a blocking structure.
type Blocker interface {
	Blocks(box Box) bool
}

func (e *Enemy) update(player Box, dtMs float64, bounds Bounds, blocker Blocker, rng Rand) {
	if e.Dead {
		return
	}
	dx := player.CenterX() - e.Box().CenterX()
	dy := player.CenterY() - e.Box().CenterY()
	dist := math.Hypot(dx, dy)

	if e.AttackCooldown > 0 {
		e.AttackCooldown -= dtMs
	}

	switch {
	case dist < EnemyAttackRadius:
		e.State = EnemyAttack
		e.VX, e.VY = 0, 0
	case dist < EnemyChaseRadius:
		e.State = EnemyChase
		angle := math.Atan2(dy, dx)
		e.VX = math.Cos(angle) * e.Speed
		e.VY = math.Sin(angle) * e.Speed
	default:
		e.State = EnemyIdle
		if rng.Float64() < EnemyWanderChance {
			e.VX = (rng.Float64() - 0.5) * e.Speed
			e.VY = (rng.Float64() - 0.5) * e.Speed
		}
	}

	if blocker != nil && blocker.Blocks(e.Box()) {
		e.VX = -e.VX
		e.VY = -e.VY
	}

	e.X = clamp(e.X+e.VX, 0, bounds.Width-e.Size)
	e.Y = clamp(e.Y+e.VY, 0, bounds.Height-e.Size)
}

// tryAttack reports whether the enemy lands a hit on the player this frame.
func (e *Enemy) tryAttack(player Box) bool {
	if e.Dead || e.State != EnemyAttack || e.AttackCooldown > 0 {
		return false
	}
	if centerDistance(e.Box(), player) < EnemyConfirmRadius {
		e.AttackCooldown = EnemyAttackCooldown
		return true
	}
	return false
}

// takeDamage reports true only on the hit that kills.
func (e *Enemy) takeDamage(amount, now float64) bool {
	if e.Dead {
		return false
	}
	e.Health -= amount
	if e.Health <= 0 {
		e.Health = 0
		e.Dead = true
		e.DiedAt = now
		return true
	}
	return false
}
