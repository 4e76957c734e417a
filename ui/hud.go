package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/officerage/components"
	"github.com/pthm-cable/officerage/game"
	"github.com/pthm-cable/officerage/systems"
	"github.com/pthm-cable/officerage/telemetry"
)

// HUD renders the status strip below the arena.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a HUD occupying the strip starting at y.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Draw renders the HUD and reports whether the recruit button was clicked.
func (h *HUD) Draw(snap *game.Snapshot, paused bool) bool {
	r := h.renderer
	x := h.x + r.Theme.Padding
	y := h.y + 4
	col := h.width / 3

	status := fmt.Sprintf("Tick %d | %s", snap.Tick, snap.Phase)
	if paused {
		status += " | PAUSED"
	}
	rl.DrawText(status, x, y, 16, rl.RayWhite)
	rl.DrawText(fmt.Sprintf("Score %d | Allies %d", snap.Score, snap.Allies), x, y+18, 16, rl.LightGray)

	mx := x + col
	my := r.DrawMeter(mx, y, col, "Rage", float32(snap.Rage), float32(snap.RageThreshold))
	health := float32(snap.Boss.Health)
	r.DrawMeter(mx, my, col, "Boss", health, float32(snap.Boss.MaxHealth))
	if health < 0 {
		rl.DrawText(fmt.Sprintf("%.0f", health), mx+col-40, my+2, r.Theme.FontSize, rl.Red)
	}

	return h.drawRecruit(snap, x+2*col, y)
}

func (h *HUD) drawRecruit(snap *game.Snapshot, x, y int32) bool {
	if snap.Phase != systems.PhaseAllies {
		return false
	}
	bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(h.width/3 - 2*h.renderer.Theme.Padding), Height: 32}
	// Chain mode draws the kind on the click.
	if snap.NextRecruit == components.KindNone {
		return gui.Button(bounds, "Recruit (random)")
	}
	cost := snap.Costs[snap.NextRecruit]
	label := fmt.Sprintf("Recruit %s (%d)", snap.NextRecruit, cost)
	clicked := gui.Button(bounds, label)
	return clicked && snap.Score >= cost
}

// DrawEnding renders the terminal banner over the arena.
func (h *HUD) DrawEnding(snap *game.Snapshot, arenaW, arenaH int32) {
	if !snap.Terminated {
		return
	}
	rl.DrawRectangle(0, 0, arenaW, arenaH, rl.Color{R: 0, G: 0, B: 0, A: 160})

	title := endingTitle(snap.Reason)
	tw := rl.MeasureText(title, 40)
	rl.DrawText(title, (arenaW-tw)/2, arenaH/2-50, 40, rl.Gold)

	detail := fmt.Sprintf("score %d | tick %d | press Enter to restart", snap.Score, snap.Tick)
	dw := rl.MeasureText(detail, 18)
	rl.DrawText(detail, (arenaW-dw)/2, arenaH/2+5, 18, rl.RayWhite)
}

func endingTitle(reason systems.Reason) string {
	switch reason {
	case systems.ReasonFired:
		return "YOU'RE FIRED"
	case systems.ReasonUnionized:
		return "THE OFFICE UNIONIZED"
	case systems.ReasonBecameBoss:
		return "YOU BECAME THE BOSS"
	}
	return "GAME OVER"
}

// PerfPanel renders the per-stage tick timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Draw renders the performance panel, stages grouped by category in
// registry order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, registry *systems.SystemRegistry) {
	r := p.renderer
	categories := registry.Categories()
	lh := int32(14)
	rows := int32(len(registry.All()) + len(categories) + 3)
	r.DrawPanel(p.x, p.y, p.width, rows*lh+r.Theme.Padding*2)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding

	rl.DrawText("Stage Timings", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Tick: %s  TPS: %.0f  FPS: %.0f",
		stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond, stats.FPS), x, y, 12, rl.Yellow)
	y += lh + 2

	for _, cat := range categories {
		stages := registry.ByCategory(cat)
		var catPct float64
		for _, info := range stages {
			catPct += stats.StagePct[info.ID]
		}
		rl.DrawText(fmt.Sprintf("%s %5.1f%%", cat, catPct), x, y, 12, rl.SkyBlue)
		y += lh

		for _, info := range stages {
			avg := stats.StageAvg[info.ID]
			pct := stats.StagePct[info.ID]

			color := rl.LightGray
			if pct > 20 {
				color = rl.Red
			} else if pct > 10 {
				color = rl.Orange
			}

			rl.DrawText(fmt.Sprintf("  %-10s %8s %5.1f%%", registry.GetName(info.ID), avg.Round(time.Microsecond), pct), x, y, 12, color)
			y += lh
		}
	}
}
