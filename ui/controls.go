package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel renders the key legend and the overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

var gameKeys = []struct{ key, action string }{
	{"Arrows/WASD", "move"},
	{"Space", "attack (hold)"},
	{"R", "recruit next ally"},
	{"P", "pause"},
	{"Enter", "restart after the end"},
}

// Draw renders the panel when the controls overlay is on.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) {
	if !overlays.IsEnabled(OverlayControls) {
		return
	}

	r := c.renderer
	lh := r.Theme.LineHeight
	height := int32(len(gameKeys)+len(overlays.All())+2)*lh + r.Theme.Padding*3
	r.DrawPanel(c.x, c.y, c.width, height)

	x := c.x + r.Theme.Padding
	y := c.y + r.Theme.Padding

	y = r.DrawSectionHeader(x, y, "Keys")
	for _, k := range gameKeys {
		rl.DrawText(fmt.Sprintf("%-12s %s", k.key, k.action), x, y, r.Theme.FontSize, r.Theme.LabelColor)
		y += lh
	}
	y += r.Theme.Padding / 2

	y = r.DrawSectionHeader(x, y, "Overlays")
	for _, desc := range overlays.All() {
		state, color := "off", rl.Gray
		if overlays.IsEnabled(desc.ID) {
			state, color = "on", rl.Green
		}
		rl.DrawText(fmt.Sprintf("[%s] %s: %s", desc.KeyLabel, desc.Name, state), x, y, r.Theme.FontSize, color)
		y += lh
	}
}
