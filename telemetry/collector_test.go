package telemetry

import (
	"math"
	"testing"
)

func TestCollector_WindowTicks(t *testing.T) {
	c := NewCollector(5.0, 1.0/60)
	if c.WindowDurationTicks() != 300 {
		t.Fatalf("window = %d ticks, want 300", c.WindowDurationTicks())
	}
	if c.ShouldFlush(299) {
		t.Error("should not flush before the window ends")
	}
	if !c.ShouldFlush(300) {
		t.Error("should flush once the window ends")
	}
}

func TestCollector_FlushResetsCounters(t *testing.T) {
	c := NewCollector(1.0, 0.5)

	c.RecordSpawns(3)
	c.RecordScore(10)
	c.RecordScore(-50) // spending is not income
	c.RecordBossHit()
	c.RecordRageBonus()
	c.RecordRecruit()
	c.RecordRecruitFail()
	c.RecordAllyLosses(1)
	c.RecordDroneKills(2)
	c.RecordShots(4)
	c.RecordProjectileHits(1)
	c.RecordDespawns(5)
	c.RecordStings(2, 7)
	c.RecordBossContacts(3)

	stats := c.Flush(2, State{
		Phase:      "allies",
		Score:      40,
		Allies:     2,
		AllyHealth: []float64{10, 30},
		HazardDist: []float64{50, 150, 100},
	})

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 2 || stats.SimTimeSec != 1.0 {
		t.Errorf("window = [%d,%d] t=%v", stats.WindowStartTick, stats.WindowEndTick, stats.SimTimeSec)
	}
	if stats.Spawns != 3 || stats.ScoreGained != 10 || stats.BossHits != 1 || stats.RageBonuses != 1 {
		t.Errorf("counters = %+v", stats)
	}
	if stats.Recruits != 1 || stats.RecruitFails != 1 || stats.AllyLosses != 1 || stats.DroneKills != 2 {
		t.Errorf("ally counters = %+v", stats)
	}
	if stats.Shots != 4 || stats.ProjectileHits != 1 || stats.Despawns != 5 {
		t.Errorf("projectile counters = %+v", stats)
	}
	if stats.Stings != 2 || stats.ScoreLost != 7 || stats.BossContacts != 3 {
		t.Errorf("contact counters = %+v", stats)
	}
	if math.Abs(stats.AllyHealthMean-20) > 1e-9 || math.Abs(stats.AllyHealthStd-10) > 1e-9 {
		t.Errorf("ally health mean/std = %v/%v, want 20/10", stats.AllyHealthMean, stats.AllyHealthStd)
	}
	if stats.HazardDistMin != 50 || math.Abs(stats.HazardDistMean-100) > 1e-9 {
		t.Errorf("hazard dist min/mean = %v/%v", stats.HazardDistMin, stats.HazardDistMean)
	}

	next := c.Flush(4, State{})
	if next.WindowStartTick != 2 {
		t.Errorf("next window starts at %d, want 2", next.WindowStartTick)
	}
	if next.Spawns != 0 || next.ScoreGained != 0 || next.Shots != 0 || next.Stings != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}
