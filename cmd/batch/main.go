// Command batch plays many autopilot sessions and reports how they ended.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/officerage/autopilot"
	"github.com/pthm-cable/officerage/batch"
	"github.com/pthm-cable/officerage/config"
	"github.com/pthm-cable/officerage/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	sessions := flag.Int("sessions", 100, "Number of sessions to play")
	baseSeed := flag.Int64("seed", 42, "First seed; later seeds step by 1000")
	maxTicks := flag.Int("max-ticks", 36000, "Per-session tick cap (0 = until terminated)")
	workers := flag.Int("workers", 0, "Parallel sessions (0 = GOMAXPROCS)")
	pilotPath := flag.String("pilot", "", "Autopilot options YAML, e.g. from tune (empty = defaults)")
	outputDir := flag.String("output", "", "Directory for outcomes.csv (empty = log only)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	pilot, err := autopilot.LoadOptions(*pilotPath)
	if err != nil {
		slog.Error("failed to load pilot options", "error", err)
		os.Exit(1)
	}

	var done atomic.Int64
	total := *sessions
	r := &batch.Runner{
		Config:   cfg,
		MaxTicks: *maxTicks,
		Workers:  *workers,
		Pilot:    pilot,
		OnOutcome: func(o game.Outcome) {
			n := done.Add(1)
			slog.Debug("session done", "n", n, "of", total, "seed", o.Seed, "reason", o.Reason)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	slog.Info("starting batch", "sessions", total, "seed", *baseSeed, "max_ticks", *maxTicks)
	results, err := r.Run(ctx, batch.Seeds(*baseSeed, total))
	if err != nil {
		slog.Error("batch failed", "error", err)
		os.Exit(1)
	}
	outcomes := batch.Outcomes(results)

	slog.Info("batch complete",
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
		"summary", batch.Summarize(outcomes),
	)

	if *outputDir == "" {
		return
	}
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	path := filepath.Join(*outputDir, "outcomes.csv")
	if err := batch.WriteOutcomes(path, outcomes); err != nil {
		slog.Error("failed to write outcomes", "error", err)
		os.Exit(1)
	}
	slog.Info("outcomes written", "path", path)
}
