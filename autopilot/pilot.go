// Package autopilot drives a session without a human: it walks to the weapon,
// beats the boss, recruits whatever the score affords and dodges obstacles by
// extrapolating their motion between snapshots.
package autopilot

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/officerage/components"
	"github.com/pthm-cable/officerage/game"
	"github.com/pthm-cable/officerage/input"
	"github.com/pthm-cable/officerage/systems"
)

// Options tunes the pilot.
type Options struct {
	Lookahead   int     `yaml:"lookahead"`    // ticks of obstacle motion to predict
	Margin      float32 `yaml:"margin"`       // clearance kept around the player box
	TrapPenalty float32 `yaml:"trap_penalty"` // extra cost for stepping onto a trap
}

// DefaultOptions returns the tuning used by the headless host.
func DefaultOptions() Options {
	return Options{Lookahead: 12, Margin: 4, TrapPenalty: 50}
}

// LoadOptions reads options from a YAML file over the defaults. An empty
// path returns the defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading pilot options: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing pilot options: %w", err)
	}
	return opts, nil
}

// WriteYAML saves the options so LoadOptions can read them back.
func (o Options) WriteYAML(path string) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshaling pilot options: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing pilot options: %w", err)
	}
	return nil
}

// threat is an obstacle with a velocity estimated from two snapshots.
type threat struct {
	box    components.Bounds
	vx, vy float32
}

type seen struct {
	kind components.Kind
	box  components.Bounds
}

// candidates are every direction the player can hold, stay first so ties
// keep the player still.
var candidates = []input.Keys{
	input.None,
	input.Of(input.Up),
	input.Of(input.Down),
	input.Of(input.Left),
	input.Of(input.Right),
	input.Of(input.Up, input.Left),
	input.Of(input.Up, input.Right),
	input.Of(input.Down, input.Left),
	input.Of(input.Down, input.Right),
}

// Pilot is a game.InputSource. It keeps the previous snapshot's obstacle
// boxes, so one Pilot must drive one session.
type Pilot struct {
	opts        Options
	prev        map[uint32]seen
	recruitHeld bool
}

// New creates a pilot.
func New(opts Options) *Pilot {
	if opts.Lookahead < 1 {
		opts.Lookahead = 1
	}
	return &Pilot{opts: opts, prev: make(map[uint32]seen)}
}

// Poll implements game.InputSource.
func (p *Pilot) Poll(last *game.Snapshot) input.Keys {
	if last.Terminated {
		return input.None
	}
	threats, traps := p.track(last)

	gx, gy := goal(last)
	keys := p.steer(last, threats, traps, gx, gy)

	if last.Phase == systems.PhaseBeatdown && last.Player.HasWeapon {
		keys = keys.With(input.Attack)
	}
	if p.wantRecruit(last) {
		keys = keys.With(input.Recruit)
	}
	return keys
}

// goal returns the point the player walks towards in the current phase.
func goal(s *game.Snapshot) (x, y float32) {
	switch s.Phase {
	case systems.PhaseStealth:
		if w, ok := s.Weapon(); ok {
			return w.Center()
		}
	case systems.PhaseBeatdown:
		return s.Boss.Bounds.Center()
	}
	// Allies: hold the bottom centre so recruits gather below the boss.
	return s.Arena.X + s.Arena.W/2, s.Arena.Y + s.Arena.H - s.Player.Bounds.H/2
}

// track estimates obstacle velocities from the previous poll.
func (p *Pilot) track(s *game.Snapshot) (threats []threat, traps []components.Bounds) {
	next := make(map[uint32]seen, len(p.prev))
	for _, v := range s.OfCategory(components.CategoryHazard) {
		next[v.ID] = seen{kind: v.Kind, box: v.Bounds}
		if v.Kind == components.KindTrap {
			traps = append(traps, v.Bounds)
			continue
		}
		t := threat{box: v.Bounds}
		// IDs are recycled, so only trust a match of the same kind.
		if old, ok := p.prev[v.ID]; ok && old.kind == v.Kind {
			t.vx = v.Bounds.X - old.box.X
			t.vy = v.Bounds.Y - old.box.Y
		}
		threats = append(threats, t)
	}
	p.prev = next
	return threats, traps
}

// steer picks the direction that stays clear the longest, then the one that
// ends closest to the goal.
func (p *Pilot) steer(s *game.Snapshot, threats []threat, traps []components.Bounds, gx, gy float32) input.Keys {
	best := input.None
	bestClear := -1
	bestCost := float32(math.MaxFloat32)

	for _, keys := range candidates {
		clear := p.clearance(s, threats, keys)
		next := move(s, keys, 1)
		cx, cy := next.Center()
		cost := float32(math.Hypot(float64(gx-cx), float64(gy-cy)))
		for _, tr := range traps {
			if tr.Intersects(next) {
				cost += p.opts.TrapPenalty
				break
			}
		}
		if clear > bestClear || (clear == bestClear && cost < bestCost) {
			best, bestClear, bestCost = keys, clear, cost
		}
	}
	return best
}

// clearance returns how many ticks holding keys stays free of every threat,
// capped at the lookahead.
func (p *Pilot) clearance(s *game.Snapshot, threats []threat, keys input.Keys) int {
	m := p.opts.Margin
	for t := 1; t <= p.opts.Lookahead; t++ {
		box := move(s, keys, t)
		box = components.Bounds{X: box.X - m, Y: box.Y - m, W: box.W + 2*m, H: box.H + 2*m}
		ft := float32(t)
		for _, th := range threats {
			at := th.box
			at.X += th.vx * ft
			at.Y += th.vy * ft
			if at.Intersects(box) {
				return t - 1
			}
		}
	}
	return p.opts.Lookahead
}

// move returns the player box after holding keys for n ticks.
func move(s *game.Snapshot, keys input.Keys, n int) components.Bounds {
	dx, dy := keys.Axis()
	b := s.Player.Bounds
	speed := s.Player.Speed * float32(n)
	b.X += dx * speed
	b.Y += dy * speed
	return b.Clamp(s.Arena)
}

// wantRecruit presses the recruit key on alternate polls while the score
// covers the next hire. The session only recruits on a fresh press.
func (p *Pilot) wantRecruit(s *game.Snapshot) bool {
	if p.recruitHeld {
		p.recruitHeld = false
		return false
	}
	if s.Phase != systems.PhaseAllies {
		return false
	}
	cost, ok := s.Costs[s.NextRecruit]
	if s.NextRecruit == components.KindNone {
		// The kind is drawn at the press: wait for the cheapest to be covered.
		cost, ok = cheapest(s.Costs)
	}
	if !ok || s.Score < cost {
		return false
	}
	p.recruitHeld = true
	return true
}

func cheapest(costs map[components.Kind]int) (int, bool) {
	best, ok := 0, false
	for _, c := range costs {
		if !ok || c < best {
			best, ok = c, true
		}
	}
	return best, ok
}
