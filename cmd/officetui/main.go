// Command officetui plays a session in the terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/officerage/audio"
	"github.com/pthm-cable/officerage/config"
	"github.com/pthm-cable/officerage/game"
	"github.com/pthm-cable/officerage/tui"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	hold := flag.Int("hold", tui.DefaultHoldTicks, "Ticks a key stays held after its last terminal event")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logFile := flag.String("log", "", "Write JSON logs to this file (the terminal is busy)")
	sound := flag.Bool("sound", false, "Play sound cues (overrides audio.enabled)")
	flag.Parse()

	if err := run(*configPath, *seed, *hold, *outputDir, *logFile, *sound); err != nil {
		fmt.Fprintln(os.Stderr, "officetui:", err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64, hold int, outputDir, logPath string, sound bool) error {
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return fmt.Errorf("opening log: %w", err)
		}
		defer f.Close()
		slog.SetDefault(slog.New(slog.NewJSONHandler(f, nil)))
	} else {
		slog.SetDefault(slog.New(slog.DiscardHandler))
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if sound {
		cfg.Audio.Enabled = true
	}
	player, err := audio.NewPlayer(cfg.Audio)
	if err != nil {
		slog.Warn("audio disabled", "error", err)
	}
	defer player.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	host := tui.NewHost(screen, hold)
	view := tui.NewView(screen)

	for {
		player.Reset()
		again, err := play(cfg, seed, outputDir, host, view, player)
		if err != nil || !again {
			return err
		}
		seed++
	}
}

// play runs one session. It reports whether the player asked for another.
func play(cfg *config.Config, seed int64, outputDir string, host *tui.Host, view *tui.View, player *audio.Player) (bool, error) {
	loop, err := game.NewLoop(cfg, host, game.Options{Seed: seed, OutputDir: outputDir})
	if err != nil {
		return false, err
	}
	defer func() {
		if err := loop.Close(); err != nil {
			slog.Error("failed to close session", "error", err)
		}
	}()
	slog.Info("session started", "seed", seed)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Physics.TicksPerSecond))
	defer ticker.Stop()

	paused := false
	snap := loop.Snapshot()
	view.Draw(&snap, paused)

	for {
		select {
		case a := <-host.Actions():
			switch a {
			case tui.ActionQuit:
				return false, nil
			case tui.ActionPause:
				paused = !paused && !snap.Terminated
				view.Draw(&snap, paused)
			case tui.ActionRestart:
				if snap.Terminated {
					return true, nil
				}
			}

		case <-ticker.C:
			if paused || snap.Terminated {
				host.Drain()
				continue
			}
			snap, err = loop.Tick()
			if err != nil && !errors.Is(err, game.ErrTerminated) {
				return false, err
			}
			player.Observe(loop.Session().LastReport())
			view.Draw(&snap, paused)
			if snap.Terminated {
				out := loop.Session().Outcome()
				slog.Info("session finished", "reason", out.Reason, "score", out.Score, "tick", out.Ticks)
			}
		}
	}
}
