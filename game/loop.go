package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/officerage/components"
	"github.com/pthm-cable/officerage/config"
	"github.com/pthm-cable/officerage/input"
	"github.com/pthm-cable/officerage/systems"
	"github.com/pthm-cable/officerage/telemetry"
)

// InputSource supplies the keys held for the next tick. last is the snapshot
// produced by the previous tick (the initial state before the first tick).
type InputSource interface {
	Poll(last *Snapshot) input.Keys
}

// InputFunc adapts a function to InputSource.
type InputFunc func(last *Snapshot) input.Keys

// Poll calls f.
func (f InputFunc) Poll(last *Snapshot) input.Keys { return f(last) }

// Options configures a Loop.
type Options struct {
	Seed           int64
	MaxTicks       int     // stop after N ticks (0 = until terminated)
	Paced          bool    // sleep between ticks to hold physics.ticks_per_second
	LogStats       bool    // log window stats and perf via slog
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // CSV output directory (empty = disabled)

	// Called with each flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Loop drives a session at a fixed tick rate and records telemetry.
type Loop struct {
	cfg     *config.Config
	opts    Options
	session *Session
	input   InputSource
	last    Snapshot

	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	bookmarks     *telemetry.BookmarkDetector
	lifetimes     *telemetry.LifetimeTracker
	outputManager *telemetry.OutputManager
	registry      *systems.SystemRegistry

	flushedAt int // tick of the last stats flush
	closed    bool
}

// NewLoop creates a session from cfg and wires its telemetry.
func NewLoop(cfg *config.Config, src InputSource, opts Options) (*Loop, error) {
	if src == nil {
		return nil, fmt.Errorf("creating loop: nil input source")
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	l := &Loop{
		cfg:           cfg,
		opts:          opts,
		session:       NewSession(cfg, opts.Seed),
		input:         src,
		collector:     telemetry.NewCollector(statsWindow, cfg.Derived.DT),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarks:     telemetry.NewBookmarkDetector(10),
		lifetimes:     telemetry.NewLifetimeTracker(cfg.Derived.DT),
		outputManager: om,
		registry:      systems.NewSystemRegistry(),
	}
	l.session.SetStageTimer(l.perfCollector)
	l.last = l.session.Snapshot()
	return l, nil
}

// Session returns the driven session.
func (l *Loop) Session() *Session { return l.session }

// Snapshot returns the snapshot produced by the most recent tick.
func (l *Loop) Snapshot() Snapshot { return l.last }

// Perf returns the per-stage timing collector.
func (l *Loop) Perf() *telemetry.PerfCollector { return l.perfCollector }

// Registry returns the tick stage metadata.
func (l *Loop) Registry() *systems.SystemRegistry { return l.registry }

// Tick polls input, steps the session once and records telemetry.
func (l *Loop) Tick() (Snapshot, error) {
	l.perfCollector.StartTick()
	l.perfCollector.StartStage(systems.StageInput)
	keys := l.input.Poll(&l.last)

	if err := l.session.Step(keys); err != nil {
		l.perfCollector.EndTick()
		return l.last, err
	}

	l.perfCollector.StartStage(systems.StageSnapshot)
	l.last = l.session.Snapshot()

	l.perfCollector.StartStage(systems.StageTelemetry)
	l.recordTick(l.session.LastReport())
	l.perfCollector.EndTick()

	return l.last, nil
}

// Recruit hires an ally between ticks. When the hire ends the session, the
// final report is recorded and Snapshot reflects the ending at once.
func (l *Loop) Recruit(kind components.Kind) (bool, error) {
	ok, err := l.session.Recruit(kind)
	l.settle(ok)
	return ok, err
}

// RecruitNext hires the kind the recruit key would, between ticks.
func (l *Loop) RecruitNext() (bool, error) {
	ok, err := l.session.RecruitNext()
	l.settle(ok)
	return ok, err
}

func (l *Loop) settle(recruited bool) {
	if !recruited || !l.session.Terminated() {
		return
	}
	l.last = l.session.Snapshot()
	l.recordTick(l.session.LastReport())
}

// Run ticks until the session terminates, MaxTicks is reached or ctx is
// cancelled. Cancellation is checked once per tick boundary. render, if set,
// receives every snapshot.
func (l *Loop) Run(ctx context.Context, render func(Snapshot)) error {
	var pace <-chan time.Time
	if l.opts.Paced {
		ticker := time.NewTicker(time.Second / time.Duration(l.cfg.Physics.TicksPerSecond))
		defer ticker.Stop()
		pace = ticker.C
	}

	for {
		if l.session.Terminated() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if pace != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pace:
			}
		}

		snap, err := l.Tick()
		if err != nil {
			return err
		}
		if render != nil {
			render(snap)
		}

		if snap.Terminated {
			return nil
		}
		if l.opts.MaxTicks > 0 && snap.Tick >= l.opts.MaxTicks {
			slog.Info("max ticks reached", "tick", snap.Tick)
			return nil
		}
	}
}

// Close flushes the final telemetry window and closes output files.
// It is safe to call more than once.
func (l *Loop) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true

	l.flushTelemetry(true)
	if err := l.outputManager.WriteAllyLifetimes(l.lifetimes.Drain(l.session.Tick(), telemetry.OutcomeSessionEnd)); err != nil {
		slog.Error("failed to write ally lifetimes", "error", err)
	}
	if err := l.outputManager.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}
