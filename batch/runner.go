// Package batch runs many autopilot sessions in parallel and summarizes how
// they ended.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/pthm-cable/officerage/autopilot"
	"github.com/pthm-cable/officerage/config"
	"github.com/pthm-cable/officerage/game"
	"github.com/pthm-cable/officerage/telemetry"
)

// Runner plays one autopilot session per seed.
type Runner struct {
	Config   *config.Config
	MaxTicks int // per session cap, 0 = until terminated
	Workers  int // 0 = GOMAXPROCS
	Pilot    autopilot.Options

	// Optional, called from worker goroutines after each session.
	OnOutcome func(game.Outcome)
}

// Result is the outcome of one seed plus the stats windows it produced.
type Result struct {
	Outcome game.Outcome
	Windows []telemetry.WindowStats
}

type job struct {
	idx  int
	seed int64
}

// Run plays every seed and returns results in seed order. Workers stop taking
// new seeds once ctx is cancelled; sessions already running finish.
func (r *Runner) Run(ctx context.Context, seeds []int64) ([]Result, error) {
	if r.Config == nil {
		return nil, fmt.Errorf("running batch: nil config")
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(seeds) {
		workers = len(seeds)
	}

	results := make([]Result, len(seeds))
	errs := make([]error, len(seeds))
	jobs := make(chan job)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx], errs[j.idx] = r.play(j.seed)
				if errs[j.idx] == nil && r.OnOutcome != nil {
					r.OnOutcome(results[j.idx].Outcome)
				}
			}
		}()
	}

feed:
	for i, seed := range seeds {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job{idx: i, seed: seed}:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", seeds[i], err)
		}
	}
	return results, nil
}

// play runs a single session to completion. Sessions share the config
// read-only.
func (r *Runner) play(seed int64) (Result, error) {
	var res Result
	loop, err := game.NewLoop(r.Config, autopilot.New(r.Pilot), game.Options{
		Seed:     seed,
		MaxTicks: r.MaxTicks,
		StatsCallback: func(w telemetry.WindowStats) {
			res.Windows = append(res.Windows, w)
		},
	})
	if err != nil {
		return res, err
	}
	if err := loop.Run(context.Background(), nil); err != nil {
		loop.Close()
		return res, err
	}
	if err := loop.Close(); err != nil {
		return res, err
	}
	res.Outcome = loop.Session().Outcome()
	return res, nil
}

// Seeds returns n deterministic seeds starting at base.
func Seeds(base int64, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = base + int64(i)*1000
	}
	return seeds
}

// Outcomes strips the window stats from results.
func Outcomes(results []Result) []game.Outcome {
	out := make([]game.Outcome, len(results))
	for i, r := range results {
		out[i] = r.Outcome
	}
	return out
}
