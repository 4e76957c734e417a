package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/officerage/systems"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartStage(systems.StageSpawn)
		time.Sleep(100 * time.Microsecond)
		pc.StartStage(systems.StageCollision)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify stages are tracked
	if len(stats.StageAvg) == 0 {
		t.Error("expected stage averages to be populated")
	}

	if _, ok := stats.StageAvg[systems.StageSpawn]; !ok {
		t.Error("expected spawn stage to be tracked")
	}

	if _, ok := stats.StageAvg[systems.StageCollision]; !ok {
		t.Error("expected collision stage to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartStage(systems.StageSpawn)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_StagePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Sleep granularity can stretch short sleeps, so keep the stages an
	// order of magnitude apart.
	for i := 0; i < 3; i++ {
		pc.StartTick()
		pc.StartStage("fast")
		time.Sleep(time.Millisecond)
		pc.StartStage("slow")
		time.Sleep(10 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if avg := stats.StageAvg["slow"]; avg < 10*time.Millisecond {
		t.Errorf("slow stage average = %v, want at least 10ms", avg)
	}

	fastPct := stats.StagePct["fast"]
	slowPct := stats.StagePct["slow"]
	if slowPct <= fastPct {
		t.Errorf("expected slow stage (%v%%) > fast stage (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.StageAvg == nil {
		t.Error("expected non-nil StageAvg map")
	}

	if stats.StagePct == nil {
		t.Error("expected non-nil StagePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}

	// With 16ms frames, expect ~60 FPS (allow range 40-80)
	if stats.FPS < 40 || stats.FPS > 80 {
		t.Errorf("expected FPS between 40-80 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 250 * time.Microsecond,
		StagePct: map[string]float64{
			systems.StageSpawn:     40,
			systems.StageCollision: 60,
		},
	}

	row := stats.ToCSV(600)
	if row.WindowEnd != 600 || row.AvgTickUS != 250 {
		t.Errorf("row = %+v", row)
	}
	if row.SpawnPct != 40 || row.CollisionPct != 60 || row.RecruitPct != 0 {
		t.Errorf("stage columns = spawn %v collision %v recruit %v", row.SpawnPct, row.CollisionPct, row.RecruitPct)
	}
}
