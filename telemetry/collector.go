package telemetry

// State is the session state sampled when a window is flushed.
type State struct {
	Phase       string
	Score       int
	Rage        int
	BossHealth  float64
	Hazards     int
	Allies      int
	Projectiles int

	AllyHealth []float64 // one value per live ally
	HazardDist []float64 // player-to-obstacle centre distances
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int
	dt                  float64

	// Current window tracking
	windowStartTick int

	// Event counters for current window
	spawns         int
	despawns       int
	scoreGained    int
	bossHits       int
	rageBonuses    int
	recruits       int
	recruitFails   int
	allyLosses     int
	droneKills     int
	shots          int
	projectileHits int
	stings         int
	scoreLost      int
	bossContacts   int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float64) *Collector {
	ticksPerWindow := int(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordSpawns records hazards created by the spawn tables.
func (c *Collector) RecordSpawns(n int) { c.spawns += n }

// RecordDespawns records entities removed for any reason.
func (c *Collector) RecordDespawns(n int) { c.despawns += n }

// RecordScore records score earned. Spending is not counted.
func (c *Collector) RecordScore(delta int) {
	if delta > 0 {
		c.scoreGained += delta
	}
}

// RecordBossHit records one player hit on the boss.
func (c *Collector) RecordBossHit() { c.bossHits++ }

// RecordRageBonus records a rage threshold crossing.
func (c *Collector) RecordRageBonus() { c.rageBonuses++ }

// RecordRecruit records a successful recruitment.
func (c *Collector) RecordRecruit() { c.recruits++ }

// RecordRecruitFail records a recruitment the score could not cover.
func (c *Collector) RecordRecruitFail() { c.recruitFails++ }

// RecordStings records non-lethal hazard hits and the score they cost.
func (c *Collector) RecordStings(n, lost int) {
	c.stings += n
	c.scoreLost += lost
}

// RecordBossContacts records ally contact ticks against the boss.
func (c *Collector) RecordBossContacts(n int) { c.bossContacts += n }

// RecordAllyLosses records allies destroyed by drones or hazards.
func (c *Collector) RecordAllyLosses(n int) { c.allyLosses += n }

// RecordDroneKills records drones destroyed by allies.
func (c *Collector) RecordDroneKills(n int) { c.droneKills += n }

// RecordShots records projectiles fired by ranged allies.
func (c *Collector) RecordShots(n int) { c.shots += n }

// RecordProjectileHits records projectiles that reached the boss.
func (c *Collector) RecordProjectileHits(n int) { c.projectileHits += n }

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int, state State) WindowStats {
	health := Describe(state.AllyHealth)
	dist := Describe(state.HazardDist)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Phase:       state.Phase,
		Score:       state.Score,
		Rage:        state.Rage,
		BossHealth:  state.BossHealth,
		Hazards:     state.Hazards,
		Allies:      state.Allies,
		Projectiles: state.Projectiles,

		Spawns:         c.spawns,
		Despawns:       c.despawns,
		ScoreGained:    c.scoreGained,
		BossHits:       c.bossHits,
		RageBonuses:    c.rageBonuses,
		Recruits:       c.recruits,
		RecruitFails:   c.recruitFails,
		AllyLosses:     c.allyLosses,
		DroneKills:     c.droneKills,
		Shots:          c.shots,
		ProjectileHits: c.projectileHits,
		Stings:         c.stings,
		ScoreLost:      c.scoreLost,
		BossContacts:   c.bossContacts,

		AllyHealthMean: health.Mean,
		AllyHealthStd:  health.Std,
		AllyHealthP10:  health.P10,
		AllyHealthP50:  health.P50,
		AllyHealthP90:  health.P90,

		HazardDistMean: dist.Mean,
		HazardDistP10:  dist.P10,
		HazardDistMin:  dist.Min,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawns = 0
	c.despawns = 0
	c.scoreGained = 0
	c.bossHits = 0
	c.rageBonuses = 0
	c.recruits = 0
	c.recruitFails = 0
	c.allyLosses = 0
	c.droneKills = 0
	c.shots = 0
	c.projectileHits = 0
	c.stings = 0
	c.scoreLost = 0
	c.bossContacts = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int {
	return c.windowDurationTicks
}
