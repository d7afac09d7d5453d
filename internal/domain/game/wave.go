package game

// EnemyManager owns the enemies and runs the wave state machine:
// not in wave -> wave in progress -> wave complete -> next wave.
type EnemyManager struct {
	enemies []*Enemy

	wave          int
	quota         int
	waveKills     int
	inProgress    bool
	bossSpawned   bool
	spawnInterval float64
	spawn         gate

	nextID int
	rng    Rand
}

func NewEnemyManager(rng Rand) *EnemyManager {
	return &EnemyManager{rng: rng, wave: 1, spawnInterval: WaveBaseIntervalMs}
}

func (m *EnemyManager) Enemies() []*Enemy { return m.enemies }
func (m *EnemyManager) Wave() int         { return m.wave }
func (m *EnemyManager) Quota() int        { return m.quota }
func (m *EnemyManager) WaveKills() int    { return m.waveKills }
func (m *EnemyManager) InProgress() bool  { return m.inProgress }
func (m *EnemyManager) BossSpawned() bool { return m.bossSpawned }

func (m *EnemyManager) SpawnInterval() float64 { return m.spawnInterval }

func (m *EnemyManager) Reset() {
	m.enemies = nil
	m.wave = 1
	m.quota = 0
	m.waveKills = 0
	m.inProgress = false
	m.bossSpawned = false
	m.spawnInterval = WaveBaseIntervalMs
	m.spawn = gate{}
}

// StartWave sets quota 3+2n and a spawn interval that shrinks 150ms per wave down to 1500ms.
func (m *EnemyManager) StartWave(n int) {
	if n < 1 {
		n = 1
	}
	m.wave = n
	m.quota = WaveBaseQuota + WaveQuotaPerWave*n
	m.waveKills = 0
	m.inProgress = true
	m.bossSpawned = false
	m.spawnInterval = WaveSpawnInterval(n)
}

func WaveSpawnInterval(n int) float64 {
	interval := float64(WaveBaseIntervalMs - WaveIntervalStepMs*n)
	if interval < WaveMinIntervalMs {
		return WaveMinIntervalMs
	}
	return interval
}

// EndWave leaves the in-progress state; the caller schedules the next wave.
func (m *EnemyManager) EndWave() { m.inProgress = false }

func (m *EnemyManager) LiveCount() int {
	n := 0
	for _, e := range m.enemies {
		if !e.Dead {
			n++
		}
	}
	return n
}

// TrySpawnIfDue spawns one enemy when fewer than min(5, remaining) are alive and the interval
// elapsed.
func (m *EnemyManager) TrySpawnIfDue(now float64, bounds Bounds, playerLevel int) *Enemy {
	if !m.inProgress {
		return nil
	}
	remaining := m.quota - m.waveKills
	limit := remaining
	if limit > MaxConcurrentSpawns {
		limit = MaxConcurrentSpawns
	}
	if m.LiveCount() >= limit {
		return nil
	}
	if !m.spawn.open(now, m.spawnInterval) {
		return nil
	}
	return m.spawnEnemy(bounds, playerLevel)
}

// BossDue reports whether the next spawn must be a boss.
func (m *EnemyManager) BossDue() bool {
	return m.wave%BossWaveEvery == 0 && !m.bossSpawned && m.waveKills >= m.quota-1
}

func (m *EnemyManager) spawnEnemy(bounds Bounds, playerLevel int) *Enemy {
	if m.waveKills >= m.quota {
		return nil
	}
	pool := UnlockedEnemyTypes(playerLevel, m.wave)
	t := pool[m.rng.Intn(len(pool))]
	boss := m.BossDue()

	var x, y float64
	switch m.rng.Intn(4) {
	case 0:
		x, y = m.rng.Float64()*bounds.Width, -EnemySpawnOffset
	case 1:
		x, y = bounds.Width+EnemySpawnOffset, m.rng.Float64()*bounds.Height
	case 2:
		x, y = m.rng.Float64()*bounds.Width, bounds.Height+EnemySpawnOffset
	default:
		x, y = -EnemySpawnOffset, m.rng.Float64()*bounds.Height
	}

	m.nextID++
	e := NewEnemy(m.nextID, x, y, t, boss, m.wave)
	if boss {
		m.bossSpawned = true
	}
	m.enemies = append(m.enemies, e)
	return e
}

// UnlockedEnemyTypes is the spawn pool for a player level and wave.
func UnlockedEnemyTypes(playerLevel, wave int) []EnemyType {
	pool := []EnemyType{EnemySlime}
	if playerLevel >= 2 || wave >= 2 {
		pool = append(pool, EnemyBat)
	}
	if playerLevel >= 3 || wave >= 3 {
		pool = append(pool, EnemyGoblin)
	}
	if playerLevel >= 4 || wave >= 5 {
		pool = append(pool, EnemySkeleton)
	}
	return pool
}

// Tick drops corpses whose linger window ran out, then moves the rest.
func (m *EnemyManager) Tick(now, dtMs float64, player Box, bounds Bounds, blocker Blocker) {
	kept := m.enemies[:0]
	for _, e := range m.enemies {
		if e.Dead && now-e.DiedAt > DeathLingerMs {
			continue
		}
		kept = append(kept, e)
	}
	m.enemies = kept
	for _, e := range m.enemies {
		e.update(player, dtMs, bounds, blocker, m.rng)
	}
}

// TryAttacks sums the damage of every enemy that lands a hit this frame.
func (m *EnemyManager) TryAttacks(player Box) float64 {
	total := 0.0
	for _, e := range m.enemies {
		if e.tryAttack(player) {
			total += e.Damage
		}
	}
	return total
}

// ResolvePlayerAttacks applies the player's swing to every live enemy in range and returns the
// ones it killed.
func (m *EnemyManager) ResolvePlayerAttacks(p *Player, now float64) []*Enemy {
	if !p.Attacking {
		return nil
	}
	return m.DamageInRadius(p.Box(), p.AttackRange(), p.AttackDamage(), now)
}

// DamageInRadius hits every live enemy whose center lies within radius of the source center.
// Kills count toward the wave immediately.
func (m *EnemyManager) DamageInRadius(source Box, radius, damage, now float64) []*Enemy {
	var killed []*Enemy
	for _, e := range m.enemies {
		if e.Dead || centerDistance(e.Box(), source) >= radius {
			continue
		}
		if e.takeDamage(damage, now) {
			killed = append(killed, e)
			m.waveKills++
		}
	}
	return killed
}

// LiveInRadius counts live enemies within radius of the source center.
func (m *EnemyManager) LiveInRadius(source Box, radius float64) int {
	n := 0
	for _, e := range m.enemies {
		if !e.Dead && centerDistance(e.Box(), source) < radius {
			n++
		}
	}
	return n
}

// IsWaveComplete needs the quota met and an empty field, lingering corpses included.
func (m *EnemyManager) IsWaveComplete() bool {
	return m.inProgress && m.waveKills >= m.quota && len(m.enemies) == 0
}

func (m *EnemyManager) Progress() float64 {
	if m.quota <= 0 {
		return 0
	}
	return float64(m.waveKills) / float64(m.quota) * 100
}
