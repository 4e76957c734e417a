// Package input defines the abstract key snapshot consumed once per tick.
package input

import "strings"

// Key identifies one logical control.
type Key uint8

const (
	Left Key = iota
	Right
	Up
	Down
	Attack
	Recruit

	numKeys
)

var keyNames = [numKeys]string{"left", "right", "up", "down", "attack", "recruit"}

func (k Key) String() string {
	if k >= numKeys {
		return "unknown"
	}
	return keyNames[k]
}

// Keys is the set of controls held during a tick. The zero value means
// nothing is pressed. Keys is a value; With returns a new set.
type Keys uint8

// None is the empty snapshot.
const None Keys = 0

// Of builds a snapshot with the given keys held.
func Of(keys ...Key) Keys {
	return None.With(keys...)
}

// Pressed reports whether k is held.
func (s Keys) Pressed(k Key) bool {
	return s&(1<<k) != 0
}

// With returns a copy of s with the given keys added.
func (s Keys) With(keys ...Key) Keys {
	for _, k := range keys {
		if k < numKeys {
			s |= 1 << k
		}
	}
	return s
}

// Without returns a copy of s with the given keys released.
func (s Keys) Without(keys ...Key) Keys {
	for _, k := range keys {
		s &^= 1 << k
	}
	return s
}

// Axis returns the movement direction as -1, 0 or +1 per axis.
// Opposing keys cancel.
func (s Keys) Axis() (dx, dy float32) {
	if s.Pressed(Left) {
		dx--
	}
	if s.Pressed(Right) {
		dx++
	}
	if s.Pressed(Up) {
		dy--
	}
	if s.Pressed(Down) {
		dy++
	}
	return dx, dy
}

func (s Keys) String() string {
	var held []string
	for k := Key(0); k < numKeys; k++ {
		if s.Pressed(k) {
			held = append(held, k.String())
		}
	}
	if len(held) == 0 {
		return "none"
	}
	return strings.Join(held, "+")
}
