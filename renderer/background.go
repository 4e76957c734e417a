package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// BackgroundRenderer draws the office carpet: a flat base with a tile grid.
type BackgroundRenderer struct {
	screenW, screenH int32
	tile             int32
	base             rl.Color
	line             rl.Color
}

// NewBackgroundRenderer creates a background for a w x h area with square
// tiles of the given size.
func NewBackgroundRenderer(w, h, tile int32) *BackgroundRenderer {
	if tile < 8 {
		tile = 8
	}
	return &BackgroundRenderer{
		screenW: w,
		screenH: h,
		tile:    tile,
		base:    rl.Color{R: 52, G: 58, B: 64, A: 255},
		line:    rl.Color{R: 62, G: 68, B: 76, A: 255},
	}
}

// Draw renders the floor.
func (b *BackgroundRenderer) Draw() {
	rl.DrawRectangle(0, 0, b.screenW, b.screenH, b.base)
	for x := b.tile; x < b.screenW; x += b.tile {
		rl.DrawLine(x, 0, x, b.screenH, b.line)
	}
	for y := b.tile; y < b.screenH; y += b.tile {
		rl.DrawLine(0, y, b.screenW, y, b.line)
	}
}
