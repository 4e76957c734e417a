// Package tui hosts a session in a terminal with tcell.
//
// Terminals report key presses and auto-repeats but never releases, so a
// movement key counts as held for a few ticks after its last event.
package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/officerage/game"
	"github.com/pthm-cable/officerage/input"
)

// Default number of ticks a key stays held after its last event. Long enough
// to bridge the usual auto-repeat gap at 60 ticks per second.
const DefaultHoldTicks = 8

// Action is a host command outside the game keys.
type Action uint8

const (
	ActionNone Action = iota
	ActionQuit
	ActionRestart
	ActionPause
)

// Host turns tcell events into input snapshots and host actions. Events are
// read by a goroutine and handed over through a channel; Poll drains it
// without blocking.
type Host struct {
	screen    tcell.Screen
	events    chan tcell.Event
	holdTicks int

	held    [input.Recruit + 1]int // remaining hold per input.Key
	recruit bool                   // one-shot: released after one poll
	actions chan Action
}

// NewHost starts the event pump for screen. The pump exits when the screen
// is finalized.
func NewHost(screen tcell.Screen, holdTicks int) *Host {
	if holdTicks <= 0 {
		holdTicks = DefaultHoldTicks
	}
	h := &Host{
		screen:    screen,
		events:    make(chan tcell.Event, 64),
		holdTicks: holdTicks,
		actions:   make(chan Action, 8),
	}
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(h.events)
				return
			}
			h.events <- ev
		}
	}()
	return h
}

// Actions delivers quit, restart and pause requests.
func (h *Host) Actions() <-chan Action { return h.actions }

// Poll implements game.InputSource.
func (h *Host) Poll(*game.Snapshot) input.Keys {
	h.drain()

	keys := input.None
	for k := range h.held {
		if h.held[k] > 0 {
			keys = keys.With(input.Key(k))
			h.held[k]--
		}
	}
	if h.recruit {
		keys = keys.With(input.Recruit)
		h.recruit = false
	}
	return keys
}

// Drain processes pending events without producing a snapshot. Hosts call
// it while no ticks run, for example on the ending screen.
func (h *Host) Drain() { h.drain() }

func (h *Host) drain() {
	for {
		select {
		case ev, ok := <-h.events:
			if !ok {
				h.send(ActionQuit)
				return
			}
			h.handle(ev)
		default:
			return
		}
	}
}

func (h *Host) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.screen.Sync()
	case *tcell.EventKey:
		if a := keyAction(ev); a != ActionNone {
			h.send(a)
			return
		}
		k, ok := keyBinding(ev)
		if !ok {
			return
		}
		if k == input.Recruit {
			h.recruit = true
			return
		}
		h.held[k] = h.holdTicks
		// Opposite directions cancel the stale one so turns are immediate.
		switch k {
		case input.Left:
			h.held[input.Right] = 0
		case input.Right:
			h.held[input.Left] = 0
		case input.Up:
			h.held[input.Down] = 0
		case input.Down:
			h.held[input.Up] = 0
		}
	}
}

func (h *Host) send(a Action) {
	select {
	case h.actions <- a:
	default:
	}
}

// keyBinding maps a terminal key to a game key.
func keyBinding(ev *tcell.EventKey) (input.Key, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return input.Left, true
	case tcell.KeyRight:
		return input.Right, true
	case tcell.KeyUp:
		return input.Up, true
	case tcell.KeyDown:
		return input.Down, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'a', 'A', 'h':
			return input.Left, true
		case 'd', 'D', 'l':
			return input.Right, true
		case 'w', 'W', 'k':
			return input.Up, true
		case 's', 'S', 'j':
			return input.Down, true
		case ' ':
			return input.Attack, true
		case 'r', 'R':
			return input.Recruit, true
		}
	}
	return 0, false
}

func keyAction(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyEnter:
		return ActionRestart
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return ActionQuit
		case 'p', 'P':
			return ActionPause
		}
	}
	return ActionNone
}
