package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int     `csv:"-"`
	WindowEndTick   int     `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Session state at window end
	Phase       string  `csv:"phase"`
	Score       int     `csv:"score"`
	Rage        int     `csv:"rage"`
	BossHealth  float64 `csv:"boss_health"`
	Hazards     int     `csv:"hazards"`
	Allies      int     `csv:"allies"`
	Projectiles int     `csv:"projectiles"`

	// Events during window
	Spawns         int `csv:"spawns"`
	Despawns       int `csv:"despawns"`
	ScoreGained    int `csv:"score_gained"`
	BossHits       int `csv:"boss_hits"`
	RageBonuses    int `csv:"rage_bonuses"`
	Recruits       int `csv:"recruits"`
	RecruitFails   int `csv:"recruit_fails"`
	AllyLosses     int `csv:"ally_losses"`
	DroneKills     int `csv:"drone_kills"`
	Shots          int `csv:"shots"`
	ProjectileHits int `csv:"projectile_hits"`
	Stings         int `csv:"stings"`
	ScoreLost      int `csv:"score_lost"`
	BossContacts   int `csv:"boss_contacts"`

	// Ally health distribution (sampled at window end)
	AllyHealthMean float64 `csv:"ally_health_mean"`
	AllyHealthStd  float64 `csv:"ally_health_std"`
	AllyHealthP10  float64 `csv:"ally_health_p10"`
	AllyHealthP50  float64 `csv:"ally_health_p50"`
	AllyHealthP90  float64 `csv:"ally_health_p90"`

	// Distance from the player to each hostile obstacle (sampled at window end)
	HazardDistMean float64 `csv:"hazard_dist_mean"`
	HazardDistP10  float64 `csv:"hazard_dist_p10"`
	HazardDistMin  float64 `csv:"hazard_dist_min"`
}

// Percentile returns the empirical p-quantile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Min, Max      float64
}

// Describe computes the population mean, standard deviation and percentiles.
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	return Distribution{
		Mean: mean,
		Std:  std,
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("phase", s.Phase),
		slog.Int("score", s.Score),
		slog.Int("rage", s.Rage),
		slog.Float64("boss_health", s.BossHealth),
		slog.Int("hazards", s.Hazards),
		slog.Int("allies", s.Allies),
		slog.Int("projectiles", s.Projectiles),
		slog.Int("spawns", s.Spawns),
		slog.Int("despawns", s.Despawns),
		slog.Int("score_gained", s.ScoreGained),
		slog.Int("boss_hits", s.BossHits),
		slog.Int("rage_bonuses", s.RageBonuses),
		slog.Int("recruits", s.Recruits),
		slog.Int("recruit_fails", s.RecruitFails),
		slog.Int("ally_losses", s.AllyLosses),
		slog.Int("drone_kills", s.DroneKills),
		slog.Int("shots", s.Shots),
		slog.Int("projectile_hits", s.ProjectileHits),
		slog.Int("stings", s.Stings),
		slog.Int("score_lost", s.ScoreLost),
		slog.Int("boss_contacts", s.BossContacts),
		slog.Float64("ally_health_mean", s.AllyHealthMean),
		slog.Float64("ally_health_std", s.AllyHealthStd),
		slog.Float64("ally_health_p50", s.AllyHealthP50),
		slog.Float64("hazard_dist_mean", s.HazardDistMean),
		slog.Float64("hazard_dist_min", s.HazardDistMin),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"phase", s.Phase,
		"score", s.Score,
		"rage", s.Rage,
		"boss_health", s.BossHealth,
		"hazards", s.Hazards,
		"allies", s.Allies,
		"spawns", s.Spawns,
		"boss_hits", s.BossHits,
		"rage_bonuses", s.RageBonuses,
		"recruits", s.Recruits,
		"ally_losses", s.AllyLosses,
		"drone_kills", s.DroneKills,
		"projectile_hits", s.ProjectileHits,
		"hazard_dist_min", s.HazardDistMin,
	)
}
