package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/officerage/components"
	"github.com/pthm-cable/officerage/game"
)

// Inspector shows the entity last clicked in the arena. It holds the entity
// ID only and looks the entity up in each new snapshot.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32

	selected uint32
	kind     components.Kind
	has      bool
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{renderer: NewRenderer(), x: x, y: y, width: width}
}

// HandleClick selects the topmost entity under the mouse, or clears the
// selection when the click hits nothing.
func (ins *Inspector) HandleClick(snap *game.Snapshot) {
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	m := rl.GetMousePosition()
	ins.has = false
	// Later kinds draw on top, so search from the end.
	for i := len(components.AllKinds) - 1; i >= 0; i-- {
		k := components.AllKinds[i]
		for _, v := range snap.Entities[k] {
			b := v.Bounds
			if m.X >= b.X && m.X < b.X+b.W && m.Y >= b.Y && m.Y < b.Y+b.H {
				ins.selected, ins.kind, ins.has = v.ID, v.Kind, true
				return
			}
		}
	}
}

// Selected returns the bounds of the selected entity if it still exists.
func (ins *Inspector) Selected(snap *game.Snapshot) (game.EntityView, bool) {
	if !ins.has {
		return game.EntityView{}, false
	}
	for _, v := range snap.Entities[ins.kind] {
		if v.ID == ins.selected {
			return v, true
		}
	}
	return game.EntityView{}, false
}

// Draw renders the panel for the current selection.
func (ins *Inspector) Draw(snap *game.Snapshot) {
	r := ins.renderer
	r.DrawPanel(ins.x, ins.y, ins.width, 7*r.Theme.LineHeight+2*r.Theme.Padding)
	x := ins.x + r.Theme.Padding
	y := r.DrawSectionHeader(x, ins.y+r.Theme.Padding, "Inspector")

	v, ok := ins.Selected(snap)
	if !ok {
		rl.DrawText("click an entity", x, y, r.Theme.FontSize, rl.Gray)
		return
	}

	y = r.DrawLabelValue(x, y, "Kind", v.Kind.String())
	y = r.DrawLabelValue(x, y, "ID", fmt.Sprintf("%d", v.ID))
	y = r.DrawLabelValue(x, y, "Pos", fmt.Sprintf("%.0f, %.0f", v.Bounds.X, v.Bounds.Y))
	y = r.DrawLabelValue(x, y, "Size", fmt.Sprintf("%.0fx%.0f", v.Bounds.W, v.Bounds.H))
	if v.MaxHealth > 0 {
		r.DrawLabelValue(x, y, "Health", fmt.Sprintf("%.1f/%.0f", v.Health, v.MaxHealth))
	}
}
