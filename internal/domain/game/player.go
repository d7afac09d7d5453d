package game

import "math"

// Keys is the held-direction state for one frame.
type Keys struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

type Player struct {
	X, Y       float64
	VX, VY     float64
	Facing     Direction
	SpeedBonus float64

	Health, MaxHealth   float64
	Hunger, MaxHunger   float64
	Stamina, MaxStamina float64

	SelectedSlot int
	Tools        [LoadoutSlots]Tool

	Attacking        bool
	AttackCooldown   float64
	AttackRemaining  float64
	Invincible       bool
	InvincibleRemain float64

	Level         int
	XP            int
	XPToNextLevel int
	Kills         int
	Score         int
	Combo         int
	ComboTimer    float64
}

func NewPlayer(x, y float64) *Player {
	p := &Player{
		X:             x,
		Y:             y,
		Health:        PlayerStartHealth,
		MaxHealth:     PlayerStartHealth,
		Hunger:        PlayerStartHunger,
		MaxHunger:     PlayerStartHunger,
		Stamina:       PlayerStartStamina,
		MaxStamina:    PlayerStartStamina,
		Level:         1,
		XPToNextLevel: PlayerStartXPToNext,
	}
	p.Tools[0] = ToolHand
	return p
}

func (p *Player) Box() Box { return Box{X: p.X, Y: p.Y, W: PlayerSize, H: PlayerSize} }

// HandleMovementInput resolves the velocity for this frame. Directions are applied in the order
// up, down, left, right and the last one wins, so horizontal input decides the facing when both
// axes are held.
func (p *Player) HandleMovementInput(keys Keys) {
	p.VX, p.VY = 0, 0
	if keys.Up {
		p.VY = -1
		p.Facing = DirUp
	}
	if keys.Down {
		p.VY = 1
		p.Facing = DirDown
	}
	if keys.Left {
		p.VX = -1
		p.Facing = DirLeft
	}
	if keys.Right {
		p.VX = 1
		p.Facing = DirRight
	}
	if p.VX != 0 && p.VY != 0 {
		p.VX *= DiagonalFactor
		p.VY *= DiagonalFactor
	}
	speed := PlayerBaseSpeed * (1 + p.SpeedBonus)
	p.VX *= speed
	p.VY *= speed
}

func (p *Player) Moving() bool { return p.VX != 0 || p.VY != 0 }

// Tick integrates movement, runs the countdowns and applies the per-frame needs.
func (p *Player) Tick(bounds Bounds, dtMs float64) {
	p.X = clamp(p.X+p.VX, 0, bounds.Width-PlayerSize)
	p.Y = clamp(p.Y+p.VY, 0, bounds.Height-PlayerSize)

	if p.AttackCooldown > 0 {
		p.AttackCooldown -= dtMs
	}
	if p.AttackRemaining > 0 {
		p.AttackRemaining -= dtMs
		if p.AttackRemaining <= 0 {
			p.Attacking = false
		}
	}
	if p.InvincibleRemain > 0 {
		p.InvincibleRemain -= dtMs
		if p.InvincibleRemain <= 0 {
			p.Invincible = false
		}
	}
	if p.ComboTimer > 0 {
		p.ComboTimer -= dtMs
		if p.ComboTimer <= 0 {
			p.Combo = 0
		}
	}

	p.Hunger -= HungerDecayPerTick
	if p.Hunger <= 0 {
		p.Hunger = 0
		p.Health = math.Max(0, p.Health-StarvationDamagePerTick)
	}
	if !p.Moving() {
		p.Stamina = math.Min(p.MaxStamina, p.Stamina+StaminaRegenPerTick)
	}
	if p.Hunger > p.MaxHunger*HealthRegenHungerRatio && p.Health < p.MaxHealth {
		p.Health = math.Min(p.MaxHealth, p.Health+HealthRegenPerTick)
	}
	p.SpeedBonus = 0
}

// Attack opens a swing window. It reports false while the cooldown is running.
func (p *Player) Attack() bool {
	if p.AttackCooldown > 0 {
		return false
	}
	p.Attacking = true
	p.AttackRemaining = AttackDurationMs
	p.AttackCooldown = AttackCooldownMs
	return true
}

func (p *Player) SelectedTool() Tool {
	if p.SelectedSlot < 0 || p.SelectedSlot >= LoadoutSlots {
		return ToolHand
	}
	return p.Tools[p.SelectedSlot]
}

func (p *Player) AttackDamage() float64 {
	if dmg, ok := toolDamage[p.SelectedTool()]; ok {
		return dmg
	}
	return toolDamage[ToolHand]
}

func (p *Player) AttackRange() float64 {
	switch p.SelectedTool() {
	case ToolBow:
		return BowRange
	case ToolSword:
		return SwordRange
	default:
		return MeleeRange
	}
}

func (p *Player) HasTool(t Tool) bool {
	for _, have := range p.Tools {
		if have == t {
			return true
		}
	}
	return false
}

// TakeDamage applies a hit and reports whether the player died from it.
func (p *Player) TakeDamage(amount float64) bool {
	if p.Invincible {
		return false
	}
	if p.HasTool(ToolShield) {
		amount *= ShieldDamageFactor
	}
	p.Health = math.Max(0, p.Health-amount)
	p.Invincible = true
	p.InvincibleRemain = InvincibleMs
	p.Combo = 0
	return p.Health <= 0
}

// AddKill extends the combo and returns the combo length and the score it earned.
func (p *Player) AddKill() (combo, points int) {
	p.Kills++
	p.Combo++
	p.ComboTimer = ComboWindowMs
	points = KillPoints(p.Combo)
	p.Score += points
	return p.Combo, points
}

// KillPoints is the score for the n-th kill of a combo.
func KillPoints(combo int) int {
	return int(math.Floor(KillBaseScore * (1 + float64(combo-1)*ComboScoreStep)))
}

// AddXP adds experience and score, resolving every level-up the amount pays for.
func (p *Player) AddXP(amount int) bool {
	p.XP += amount
	p.Score += amount
	leveled := false
	for p.XP >= p.XPToNextLevel && p.XPToNextLevel > 0 {
		p.XP -= p.XPToNextLevel
		p.Level++
		p.XPToNextLevel = int(math.Floor(float64(p.XPToNextLevel) * LevelXPGrowth))
		p.MaxHealth += LevelMaxHealthGain
		p.Health = p.MaxHealth
		p.MaxStamina += LevelMaxStaminaGain
		p.Stamina = p.MaxStamina
		leveled = true
	}
	return leveled
}

func (p *Player) Eat(inv Inventory) bool {
	if !inv.HasItem(ItemApple, 1) || p.Hunger >= p.MaxHunger {
		return false
	}
	inv.RemoveItem(ItemApple, 1)
	p.Hunger = math.Min(p.MaxHunger, p.Hunger+EatHungerRestore)
	return true
}

func (p *Player) UseHealthPotion(inv Inventory) bool {
	if !inv.HasItem(ItemHealthPotion, 1) || p.Health >= p.MaxHealth {
		return false
	}
	inv.RemoveItem(ItemHealthPotion, 1)
	p.Health = math.Min(p.MaxHealth, p.Health+PotionHealthRestore)
	return true
}

// EquipTool places a tool in slot 1..LoadoutSlots-1. Slot 0 always holds the hand.
func (p *Player) EquipTool(t Tool, slot int) bool {
	if slot < 1 || slot >= LoadoutSlots || t == ToolNone || t == ToolHand {
		return false
	}
	p.Tools[slot] = t
	return true
}

func (p *Player) SelectTool(slot int) bool {
	if slot < 0 || slot >= LoadoutSlots {
		return false
	}
	p.SelectedSlot = slot
	return true
}

// FirstEmptySlot returns the first free slot after the hand, or -1 when the loadout is full.
func (p *Player) FirstEmptySlot() int {
	for i := 1; i < LoadoutSlots; i++ {
		if p.Tools[i] == ToolNone {
			return i
		}
	}
	return -1
}

func (p *Player) Dead() bool { return p.Health <= 0 }
