package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/officerage/game"
	"github.com/pthm-cable/officerage/input"
)

// bindings maps raylib keys to game keys. Several raylib keys may feed one
// game key.
var bindings = []struct {
	rl  int32
	key input.Key
}{
	{rl.KeyLeft, input.Left},
	{rl.KeyA, input.Left},
	{rl.KeyRight, input.Right},
	{rl.KeyD, input.Right},
	{rl.KeyUp, input.Up},
	{rl.KeyW, input.Up},
	{rl.KeyDown, input.Down},
	{rl.KeyS, input.Down},
	{rl.KeySpace, input.Attack},
	{rl.KeyR, input.Recruit},
}

// PollKeys returns the game keys currently held.
func PollKeys() input.Keys {
	keys := input.None
	for _, b := range bindings {
		if rl.IsKeyDown(b.rl) {
			keys = keys.With(b.key)
		}
	}
	return keys
}

// Keyboard is a game.InputSource reading the raylib keyboard.
type Keyboard struct{}

// Poll implements game.InputSource.
func (Keyboard) Poll(*game.Snapshot) input.Keys { return PollKeys() }
