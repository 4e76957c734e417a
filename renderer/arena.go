// Package renderer draws session snapshots with raylib and turns raylib
// keyboard state into input snapshots.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/officerage/components"
	"github.com/pthm-cable/officerage/game"
	"github.com/pthm-cable/officerage/systems"
)

// palette colours each kind. Kinds missing here draw magenta.
var palette = map[components.Kind]rl.Color{
	components.KindMail:       {R: 235, G: 235, B: 245, A: 255},
	components.KindPaperwork:  {R: 220, G: 200, B: 140, A: 255},
	components.KindPatrol:     {R: 70, G: 110, B: 200, A: 255},
	components.KindTrap:       {R: 120, G: 80, B: 40, A: 200},
	components.KindDrone:      {R: 200, G: 60, B: 60, A: 255},
	components.KindThrown:     {R: 240, G: 150, B: 40, A: 255},
	components.KindBeam:       {R: 255, G: 60, B: 200, A: 230},
	components.KindIntern:     {R: 120, G: 210, B: 120, A: 255},
	components.KindSenior:     {R: 60, G: 160, B: 90, A: 255},
	components.KindDistractor: {R: 230, G: 220, B: 80, A: 255},
	components.KindRep:        {R: 40, G: 200, B: 200, A: 255},
	components.KindProjectile: {R: 255, G: 255, B: 160, A: 255},
	components.KindWeapon:     {R: 180, G: 180, B: 190, A: 255},
}

// KindColor returns the draw colour of a kind.
func KindColor(k components.Kind) rl.Color {
	if c, ok := palette[k]; ok {
		return c
	}
	return rl.Magenta
}

// ArenaOptions selects the optional layers drawn over the entities.
type ArenaOptions struct {
	Hitboxes   bool
	HealthBars bool
	Selected   *game.EntityView
}

// ArenaRenderer draws the boss, the player and every entity of a snapshot.
type ArenaRenderer struct {
	background *BackgroundRenderer
}

// NewArenaRenderer creates a renderer for an arena of the given size.
func NewArenaRenderer(w, h int32) *ArenaRenderer {
	return &ArenaRenderer{background: NewBackgroundRenderer(w, h, 48)}
}

// Draw renders one snapshot. healthBar draws a bar over a box.
func (a *ArenaRenderer) Draw(snap *game.Snapshot, opts ArenaOptions, healthBar func(x, y, w float32, cur, max float64)) {
	a.background.Draw()

	a.drawBoss(snap)
	for _, k := range components.AllKinds {
		color := KindColor(k)
		for _, v := range snap.Entities[k] {
			drawEntity(v, color)
			if opts.HealthBars && v.MaxHealth > 0 && healthBar != nil {
				healthBar(v.Bounds.X, v.Bounds.Y, v.Bounds.W, v.Health, v.MaxHealth)
			}
		}
	}
	a.drawPlayer(snap)

	if opts.HealthBars && healthBar != nil {
		b := snap.Boss.Bounds
		healthBar(b.X, b.Y, b.W, snap.Boss.Health, snap.Boss.MaxHealth)
	}
	if opts.Hitboxes {
		drawHitboxes(snap)
	}
	if opts.Selected != nil {
		rl.DrawRectangleLinesEx(rect(opts.Selected.Bounds, 3), 2, rl.Gold)
	}
}

func (a *ArenaRenderer) drawBoss(snap *game.Snapshot) {
	color := rl.Color{R: 110, G: 60, B: 140, A: 255}
	if snap.Boss.Panicked {
		color = rl.Color{R: 170, G: 70, B: 120, A: 255}
	}
	if snap.Boss.Health <= 0 {
		color.A = 140
	}
	b := snap.Boss.Bounds
	rl.DrawRectangleRec(rect(b, 0), color)
	rl.DrawText("BOSS", int32(b.X)+12, int32(b.Y+b.H/2)-6, 12, rl.RayWhite)
}

func (a *ArenaRenderer) drawPlayer(snap *game.Snapshot) {
	p := snap.Player
	color := rl.SkyBlue
	if p.Slowed {
		color = rl.DarkBlue
	}
	rl.DrawRectangleRec(rect(p.Bounds, 0), color)
	if p.HasWeapon {
		// Stapler in hand.
		rl.DrawRectangle(int32(p.Bounds.X+p.Bounds.W-6), int32(p.Bounds.Y-6), 10, 6, KindColor(components.KindWeapon))
	}
}

func drawEntity(v game.EntityView, color rl.Color) {
	r := rect(v.Bounds, 0)
	switch v.Kind.Category() {
	case components.CategoryProjectile:
		rl.DrawCircleV(rl.Vector2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}, r.Width/2, color)
	case components.CategoryPickup:
		rl.DrawRectangleRec(r, color)
		rl.DrawRectangleLinesEx(r, 1, rl.White)
	default:
		rl.DrawRectangleRec(r, color)
	}
}

func drawHitboxes(snap *game.Snapshot) {
	rl.DrawRectangleLinesEx(rect(snap.Player.Bounds, 0), 1, rl.Green)
	rl.DrawRectangleLinesEx(rect(snap.Boss.Bounds, 0), 1, rl.Green)
	for _, views := range snap.Entities {
		for _, v := range views {
			color := rl.Lime
			if v.Kind.Category() == components.CategoryHazard {
				color = rl.Red
			}
			rl.DrawRectangleLinesEx(rect(v.Bounds, 0), 1, color)
		}
	}
	if snap.Phase == systems.PhaseBeatdown {
		rl.DrawRectangleLinesEx(rect(snap.Boss.Bounds, 2), 1, rl.Orange)
	}
}

// rect converts bounds to a raylib rectangle grown by pad on every side.
func rect(b components.Bounds, pad float32) rl.Rectangle {
	return rl.Rectangle{X: b.X - pad, Y: b.Y - pad, Width: b.W + 2*pad, Height: b.H + 2*pad}
}
