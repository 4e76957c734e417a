package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/pthm-cable/officerage/components"
	"github.com/pthm-cable/officerage/game"
	"github.com/pthm-cable/officerage/systems"
)

// glyph is how one kind looks in the terminal.
type glyph struct {
	r     rune
	color tcell.Color
}

var glyphs = map[components.Kind]glyph{
	components.KindMail:       {'✉', tcell.ColorWhite},
	components.KindPaperwork:  {'▤', tcell.ColorWheat},
	components.KindPatrol:     {'P', tcell.ColorRoyalBlue},
	components.KindTrap:       {'#', tcell.ColorSaddleBrown},
	components.KindDrone:      {'◆', tcell.ColorRed},
	components.KindThrown:     {'*', tcell.ColorOrange},
	components.KindBeam:       {'=', tcell.ColorFuchsia},
	components.KindIntern:     {'i', tcell.ColorLightGreen},
	components.KindSenior:     {'S', tcell.ColorGreen},
	components.KindDistractor: {'d', tcell.ColorYellow},
	components.KindRep:        {'R', tcell.ColorTeal},
	components.KindProjectile: {'·', tcell.ColorLightYellow},
	components.KindWeapon:     {'⚒', tcell.ColorSilver},
}

// statusRows is the height of the status block under the arena.
const statusRows = 3

// View draws snapshots onto a screen. The arena is scaled to whatever cells
// are left above the status block.
type View struct {
	screen tcell.Screen
	floor  tcell.Style
}

// NewView creates a view on screen.
func NewView(screen tcell.Screen) *View {
	return &View{
		screen: screen,
		floor:  tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorDarkSlateGray),
	}
}

// cellMapper converts arena boxes to cell rectangles.
type cellMapper struct {
	sx, sy     float32 // arena units per cell
	cols, rows int
}

func newCellMapper(arena components.Bounds, cols, rows int) cellMapper {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cellMapper{sx: arena.W / float32(cols), sy: arena.H / float32(rows), cols: cols, rows: rows}
}

// cells returns the cell rectangle covered by b, at least one cell.
func (m cellMapper) cells(b components.Bounds) (x0, y0, x1, y1 int) {
	x0, y0 = int(b.X/m.sx), int(b.Y/m.sy)
	x1, y1 = int((b.X+b.W)/m.sx), int((b.Y+b.H)/m.sy)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return max(x0, 0), max(y0, 0), min(x1, m.cols), min(y1, m.rows)
}

// Draw renders one snapshot and shows it.
func (v *View) Draw(snap *game.Snapshot, paused bool) {
	s := v.screen
	s.Clear()
	cols, rows := s.Size()
	m := newCellMapper(snap.Arena, cols, rows-statusRows)

	for y := 0; y < m.rows; y++ {
		for x := 0; x < m.cols; x++ {
			s.SetContent(x, y, '.', nil, v.floor)
		}
	}

	boss := tcell.StyleDefault.Background(tcell.ColorPurple).Foreground(tcell.ColorWhite)
	if snap.Boss.Panicked {
		boss = boss.Background(tcell.ColorMediumVioletRed)
	}
	v.fill(m, snap.Boss.Bounds, 'B', boss)

	for _, k := range components.AllKinds {
		g, ok := glyphs[k]
		if !ok {
			continue
		}
		style := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(g.color)
		for _, e := range snap.Entities[k] {
			v.fill(m, e.Bounds, g.r, style)
		}
	}

	player := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorAqua).Bold(true)
	if snap.Player.Slowed {
		player = player.Foreground(tcell.ColorNavy)
	}
	v.fill(m, snap.Player.Bounds, '@', player)

	v.drawStatus(snap, paused, m.rows, cols)
	s.Show()
}

// fill covers the cells of b with r. Wide runes take every other column.
func (v *View) fill(m cellMapper, b components.Bounds, r rune, style tcell.Style) {
	step := runewidth.RuneWidth(r)
	if step < 1 {
		step = 1
	}
	x0, y0, x1, y1 := m.cells(b)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x += step {
			v.screen.SetContent(x, y, r, nil, style)
			if step == 2 && x+1 < m.cols {
				v.screen.SetContent(x+1, y, ' ', nil, style)
			}
		}
	}
}

func (v *View) drawStatus(snap *game.Snapshot, paused bool, top, cols int) {
	text := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	line := fmt.Sprintf("tick %d  %s  score %d  rage %d/%d  boss %.0f/%.0f  allies %d",
		snap.Tick, snap.Phase, snap.Score, snap.Rage, snap.RageThreshold,
		snap.Boss.Health, snap.Boss.MaxHealth, snap.Allies)
	if paused {
		line += "  PAUSED"
	}
	v.text(0, top, cols, line, text)

	hint := "arrows/wasd move  space attack  p pause  q quit"
	if snap.Phase == systems.PhaseAllies {
		if snap.NextRecruit != components.KindNone {
			hint = fmt.Sprintf("r recruit %s (%d)  ", snap.NextRecruit, snap.Costs[snap.NextRecruit]) + hint
		} else {
			hint = "r recruit (random)  " + hint
		}
	}
	if snap.Terminated {
		hint = "enter play again  q quit"
	}
	v.text(0, top+1, cols, hint, dim)

	if snap.Terminated {
		v.text(0, top+2, cols, EndingLine(snap), text.Bold(true))
	}
}

// text writes s at (x, y), truncated to width cells.
func (v *View) text(x, y, width int, s string, style tcell.Style) {
	s = runewidth.Truncate(s, width-x, "…")
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

// EndingLine describes how a terminated session ended.
func EndingLine(snap *game.Snapshot) string {
	switch snap.Reason {
	case systems.ReasonFired:
		return fmt.Sprintf("FIRED at tick %d with %d points", snap.Tick, snap.Score)
	case systems.ReasonUnionized:
		return fmt.Sprintf("UNIONIZED: %d allies stand with you", snap.Allies)
	case systems.ReasonBecameBoss:
		return "YOU ARE THE BOSS NOW"
	}
	return ""
}
