package batch

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/officerage/autopilot"
	"github.com/pthm-cable/officerage/config"
	"github.com/pthm-cable/officerage/game"
)

func quietConfig() *config.Config {
	cfg := config.Default()
	cfg.Spawn.Stealth = nil
	cfg.Spawn.Beatdown = nil
	cfg.Spawn.Allies = nil
	return cfg
}

func TestSeeds(t *testing.T) {
	got := Seeds(42, 3)
	want := []int64{42, 1042, 2042}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Seeds[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRunner_ResultsInSeedOrder(t *testing.T) {
	var mu sync.Mutex
	called := 0
	r := &Runner{
		Config:   quietConfig(),
		MaxTicks: 5000,
		Workers:  3,
		Pilot:    autopilot.DefaultOptions(),
		OnOutcome: func(game.Outcome) {
			mu.Lock()
			called++
			mu.Unlock()
		},
	}
	seeds := Seeds(1, 4)
	results, err := r.Run(context.Background(), seeds)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(seeds) {
		t.Fatalf("got %d results, want %d", len(results), len(seeds))
	}
	for i, res := range results {
		if res.Outcome.Seed != seeds[i] {
			t.Errorf("results[%d].Seed = %d, want %d", i, res.Outcome.Seed, seeds[i])
		}
		if res.Outcome.Phase != "terminated" {
			t.Errorf("seed %d ended in %s", seeds[i], res.Outcome.Phase)
		}
		if len(res.Windows) == 0 {
			t.Errorf("seed %d produced no stats windows", seeds[i])
		}
	}
	if called != len(seeds) {
		t.Errorf("OnOutcome called %d times, want %d", called, len(seeds))
	}
}

func TestRunner_Deterministic(t *testing.T) {
	cfg := config.Default()
	r := &Runner{Config: cfg, MaxTicks: 600, Workers: 2, Pilot: autopilot.DefaultOptions()}

	a, err := r.Run(context.Background(), []int64{7, 7})
	if err != nil {
		t.Fatal(err)
	}
	if a[0].Outcome != a[1].Outcome {
		t.Errorf("same seed diverged: %+v vs %+v", a[0].Outcome, a[1].Outcome)
	}
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{Config: quietConfig(), MaxTicks: 100, Workers: 1}
	if _, err := r.Run(ctx, Seeds(1, 3)); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunner_NilConfig(t *testing.T) {
	if _, err := (&Runner{}).Run(context.Background(), Seeds(1, 1)); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestSummarize(t *testing.T) {
	outcomes := []game.Outcome{
		{Ticks: 100, Score: 10, Reason: "fired", BossHealth: 100},
		{Ticks: 200, Score: 20, Reason: "unionized", BossHealth: -10, Allies: 5},
		{Ticks: 300, Score: 30, Reason: "became the boss", BossHealth: -50, Allies: 1},
		{Ticks: 400, Score: 40, Reason: "", BossHealth: 0},
	}
	s := Summarize(outcomes)

	if s.Sessions != 4 {
		t.Errorf("Sessions = %d, want 4", s.Sessions)
	}
	if math.Abs(s.WinRate-0.5) > 1e-9 {
		t.Errorf("WinRate = %v, want 0.5", s.WinRate)
	}
	if math.Abs(s.FiredRate-0.25) > 1e-9 {
		t.Errorf("FiredRate = %v, want 0.25", s.FiredRate)
	}
	if math.Abs(s.Ticks.Mean-250) > 1e-9 {
		t.Errorf("Ticks.Mean = %v, want 250", s.Ticks.Mean)
	}
	if math.Abs(s.MeanAllies-1.5) > 1e-9 {
		t.Errorf("MeanAllies = %v, want 1.5", s.MeanAllies)
	}
	if math.Abs(s.TickScoreCorr-1) > 1e-9 {
		t.Errorf("TickScoreCorr = %v, want 1", s.TickScoreCorr)
	}
	if s.Reasons["fired"] != 1 || s.Reasons[""] != 1 {
		t.Errorf("Reasons = %v", s.Reasons)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Sessions != 0 || s.WinRate != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestWriteOutcomes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outcomes.csv")
	in := []game.Outcome{
		{Seed: 1, Ticks: 10, Phase: "terminated", Reason: "fired", Score: 0},
		{Seed: 2, Ticks: 900, Phase: "terminated", Reason: "unionized", Score: 300, Allies: 5, Recruits: 5},
	}
	if err := WriteOutcomes(path, in); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var out []game.Outcome
	if err := gocsv.UnmarshalFile(f, &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[1] != in[1] {
		t.Errorf("read back %+v", out)
	}
}
