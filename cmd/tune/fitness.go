package main

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/officerage/autopilot"
	"github.com/pthm-cable/officerage/batch"
	"github.com/pthm-cable/officerage/config"
)

// FitnessEvaluator plays an autopilot batch per parameter vector.
type FitnessEvaluator struct {
	cfg      *config.Config
	seeds    []int64
	maxTicks int
	workers  int

	mu          sync.Mutex
	lastSummary batch.Summary
}

// NewFitnessEvaluator creates a new evaluator. Sessions share cfg read-only.
func NewFitnessEvaluator(cfg *config.Config, seeds []int64, maxTicks, workers int) *FitnessEvaluator {
	return &FitnessEvaluator{
		cfg:      cfg,
		seeds:    seeds,
		maxTicks: maxTicks,
		workers:  workers,
	}
}

// LastSummary returns the batch summary of the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() batch.Summary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSummary
}

// Evaluate computes fitness for pilot options (lower = better).
func (fe *FitnessEvaluator) Evaluate(opts autopilot.Options) float64 {
	r := &batch.Runner{
		Config:   fe.cfg,
		MaxTicks: fe.maxTicks,
		Workers:  fe.workers,
		Pilot:    opts,
	}
	results, err := r.Run(context.Background(), fe.seeds)
	if err != nil {
		slog.Error("evaluation failed", "error", err)
		return math.Inf(1)
	}

	summary := batch.Summarize(batch.Outcomes(results))
	fe.mu.Lock()
	fe.lastSummary = summary
	fe.mu.Unlock()

	return computeFitness(summary, fe.maxTicks)
}

// Fitness weights.
const (
	weightSpeed  = 0.1 // tie-breaker: faster wins are better
	weightCapped = 0.5 // sessions that hit the tick cap never resolved
)

// computeFitness rewards winning first and winning quickly second.
// Formula: -winRate + 0.1 × medianTicks/maxTicks + 0.5 × cappedShare
func computeFitness(s batch.Summary, maxTicks int) float64 {
	if s.Sessions == 0 {
		return math.Inf(1)
	}
	speed := 0.0
	if maxTicks > 0 {
		speed = s.Ticks.P50 / float64(maxTicks)
	}
	capped := float64(s.Reasons[""]) / float64(s.Sessions)
	return -s.WinRate + weightSpeed*speed + weightCapped*capped
}
