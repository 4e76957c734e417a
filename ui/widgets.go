package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawMeter draws a labelled raygui progress bar over [0, max] with the
// value printed on the right. Returns the new Y position.
func (r *Renderer) DrawMeter(x, y, width int32, label string, value, max float32) int32 {
	bounds := rl.Rectangle{
		X:      float32(x + r.Theme.LabelWidth),
		Y:      float32(y),
		Width:  float32(width - r.Theme.LabelWidth - 60),
		Height: float32(r.Theme.LineHeight - 2),
	}
	rl.DrawText(label, x, y+2, r.Theme.FontSize, r.Theme.LabelColor)
	gui.ProgressBar(bounds, "", fmt.Sprintf("%.0f/%.0f", value, max), clamp(value, 0, max), 0, max)
	return y + r.Theme.LineHeight + 4
}

// DrawHealthBar draws a thin bar above a box, coloured by the remaining ratio.
func (r *Renderer) DrawHealthBar(x, y, width float32, current, max float64) {
	if max <= 0 {
		return
	}
	ratio := float32(current / max)
	ratio = clamp(ratio, 0, 1)

	color := r.Theme.BarFillHigh
	if ratio < 0.3 {
		color = r.Theme.BarFillLow
	} else if ratio < 0.6 {
		color = r.Theme.BarFillMedium
	}

	h := float32(r.Theme.BarHeight)
	rl.DrawRectangleV(rl.Vector2{X: x, Y: y - h - 2}, rl.Vector2{X: width, Y: h}, r.Theme.BarBg)
	rl.DrawRectangleV(rl.Vector2{X: x, Y: y - h - 2}, rl.Vector2{X: width * ratio, Y: h}, color)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
