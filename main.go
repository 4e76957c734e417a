package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/officerage/audio"
	"github.com/pthm-cable/officerage/autopilot"
	"github.com/pthm-cable/officerage/config"
	"github.com/pthm-cable/officerage/game"
	"github.com/pthm-cable/officerage/renderer"
	"github.com/pthm-cable/officerage/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics, driven by the autopilot")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = until the session ends)")
	paced := flag.Bool("paced", false, "Headless only: hold the configured tick rate instead of running flat out")
	sound := flag.Bool("sound", false, "Play sound cues (overrides audio.enabled)")
	pilotPath := flag.String("pilot", "", "Headless only: autopilot options YAML (empty = defaults)")

	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *sound {
		cfg.Audio.Enabled = true
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// JSON to stdout for structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	opts := game.Options{
		Seed:           rngSeed,
		MaxTicks:       *maxTicks,
		Paced:          *paced,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	}

	if *headless {
		pilot, err := autopilot.LoadOptions(*pilotPath)
		if err != nil {
			slog.Error("failed to load pilot options", "error", err)
			os.Exit(1)
		}
		if err := runHeadless(cfg, pilot, opts); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}
	if err := runWindow(cfg, opts); err != nil {
		slog.Error("session failed", "error", err)
		os.Exit(1)
	}
}

func runHeadless(cfg *config.Config, pilot autopilot.Options, opts game.Options) error {
	loop, err := game.NewLoop(cfg, autopilot.New(pilot), opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting headless session", "seed", opts.Seed, "max_ticks", opts.MaxTicks)
	runErr := loop.Run(ctx, nil)
	if errors.Is(runErr, context.Canceled) {
		slog.Info("interrupted", "tick", loop.Session().Tick())
		runErr = nil
	}

	out := loop.Session().Outcome()
	slog.Info("session finished",
		"tick", out.Ticks,
		"phase", out.Phase,
		"reason", out.Reason,
		"score", out.Score,
		"allies", out.Allies,
	)
	return errors.Join(runErr, loop.Close())
}

// window holds the graphical host state that survives restarts.
type window struct {
	cfg  *config.Config
	opts game.Options

	loop      *game.Loop
	arena     *renderer.ArenaRenderer
	effects   *renderer.Effects
	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	perf      *ui.PerfPanel
	inspector *ui.Inspector
	controls  *ui.ControlsPanel
	widgets   *ui.Renderer
	sound     *audio.Player

	paused bool
}

func runWindow(cfg *config.Config, opts game.Options) error {
	arenaW, arenaH := int32(cfg.Arena.Width), int32(cfg.Arena.Height)
	screenW, screenH := int32(cfg.Screen.Width), int32(cfg.Screen.Height)

	rl.InitWindow(screenW, screenH, "Office Rage")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Physics.TicksPerSecond))

	w := &window{
		cfg:       cfg,
		opts:      opts,
		arena:     renderer.NewArenaRenderer(arenaW, arenaH),
		effects:   renderer.NewEffects(),
		overlays:  ui.NewOverlayRegistry(),
		hud:       ui.NewHUD(0, arenaH, screenW),
		perf:      ui.NewPerfPanel(screenW-260, 10, 250),
		inspector: ui.NewInspector(screenW-210, 10, 200),
		controls:  ui.NewControlsPanel(10, 10, 240),
		widgets:   ui.NewRenderer(),
	}
	sound, err := audio.NewPlayer(cfg.Audio)
	if err != nil {
		// Play on without sound rather than refuse to start.
		slog.Warn("audio disabled", "error", err)
	}
	w.sound = sound
	defer w.sound.Close()

	if err := w.restart(); err != nil {
		return err
	}
	defer func() {
		if err := w.loop.Close(); err != nil {
			slog.Error("failed to close session", "error", err)
		}
	}()

	for !rl.WindowShouldClose() {
		if err := w.update(); err != nil {
			return err
		}
		w.draw()
		if opts.MaxTicks > 0 && w.loop.Session().Tick() >= opts.MaxTicks {
			break
		}
	}
	return nil
}

// restart closes the current session, if any, and starts a fresh one.
// Each restart after the first uses the next seed.
func (w *window) restart() error {
	if w.loop != nil {
		if err := w.loop.Close(); err != nil {
			return err
		}
		w.opts.Seed++
	}
	loop, err := game.NewLoop(w.cfg, renderer.Keyboard{}, w.opts)
	if err != nil {
		return err
	}
	w.loop = loop
	w.effects.Reset()
	w.sound.Reset()
	w.paused = false
	slog.Info("session started", "seed", w.opts.Seed)
	return nil
}

func (w *window) update() error {
	w.overlays.HandleInput()
	w.loop.Perf().RecordFrame()

	snap := w.loop.Snapshot()
	if snap.Terminated {
		if rl.IsKeyPressed(rl.KeyEnter) {
			return w.restart()
		}
		w.effects.Update()
		return nil
	}
	if rl.IsKeyPressed(rl.KeyP) {
		w.paused = !w.paused
	}
	if w.overlays.IsEnabled(ui.OverlayInspector) {
		w.inspector.HandleClick(&snap)
	}
	if w.paused {
		return nil
	}

	snap, err := w.loop.Tick()
	if err != nil && !errors.Is(err, game.ErrTerminated) {
		return err
	}
	report := w.loop.Session().LastReport()
	w.effects.Observe(report, &snap)
	w.sound.Observe(report)
	w.effects.Update()
	return nil
}

func (w *window) draw() {
	snap := w.loop.Snapshot()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	opts := renderer.ArenaOptions{
		Hitboxes:   w.overlays.IsEnabled(ui.OverlayHitboxes),
		HealthBars: w.overlays.IsEnabled(ui.OverlayHealthBars),
	}
	inspecting := w.overlays.IsEnabled(ui.OverlayInspector)
	if inspecting {
		if v, ok := w.inspector.Selected(&snap); ok {
			opts.Selected = &v
		}
	}
	w.arena.Draw(&snap, opts, w.widgets.DrawHealthBar)
	w.effects.Draw()

	if w.hud.Draw(&snap, w.paused) {
		if _, err := w.loop.RecruitNext(); err != nil {
			slog.Warn("recruit failed", "error", err)
		}
	}
	if snap.Terminated {
		w.hud.DrawEnding(&snap, int32(w.cfg.Arena.Width), int32(w.cfg.Arena.Height))
	}

	if w.overlays.IsEnabled(ui.OverlayPerf) {
		w.perf.Draw(w.loop.Perf().Stats(), w.loop.Registry())
	}
	if inspecting {
		w.inspector.Draw(&snap)
	}
	if w.overlays.IsEnabled(ui.OverlayControls) {
		w.controls.Draw(w.overlays)
	}

	rl.EndDrawing()
}
