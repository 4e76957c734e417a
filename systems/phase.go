package systems

import (
	"errors"
	"fmt"
)

// Phase is a stage of a session. Phases only move forward.
type Phase uint8

const (
	PhaseStealth Phase = iota
	PhaseBeatdown
	PhaseAllies
	PhaseTerminated
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseStealth:
		return "stealth"
	case PhaseBeatdown:
		return "beatdown"
	case PhaseAllies:
		return "allies"
	case PhaseTerminated:
		return "terminated"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// Reason explains why a session terminated.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonFired      Reason = "fired"
	ReasonUnionized  Reason = "unionized"
	ReasonBecameBoss Reason = "became the boss"
)

// ErrPhaseRegression is returned when a transition would not move strictly forward.
var ErrPhaseRegression = errors.New("phase transition must move forward")

// Transition records one phase change.
type Transition struct {
	Tick   int
	From   Phase
	To     Phase
	Reason Reason
}

// PhaseRules holds the thresholds that end the allies phase.
type PhaseRules struct {
	UnionizeAllies   int
	BecameBossHealth float64
}

// PhaseMachine tracks the current phase and the transitions that led to it.
type PhaseMachine struct {
	current Phase
	reason  Reason
	history []Transition
}

// NewPhaseMachine starts in the stealth phase.
func NewPhaseMachine() *PhaseMachine {
	return &PhaseMachine{current: PhaseStealth}
}

// Current returns the active phase.
func (m *PhaseMachine) Current() Phase { return m.current }

// Terminated reports whether the session has ended.
func (m *PhaseMachine) Terminated() bool { return m.current == PhaseTerminated }

// Reason returns the termination reason, or ReasonNone.
func (m *PhaseMachine) Reason() Reason { return m.reason }

// History returns a copy of the recorded transitions in order.
func (m *PhaseMachine) History() []Transition {
	out := make([]Transition, len(m.history))
	copy(out, m.history)
	return out
}

// Advance moves to the next non-terminal phase. Skipping a phase, staying put
// or moving backwards returns ErrPhaseRegression.
func (m *PhaseMachine) Advance(tick int, to Phase) (Transition, error) {
	if m.Terminated() || to == PhaseTerminated || to != m.current+1 {
		return Transition{}, fmt.Errorf("%s -> %s: %w", m.current, to, ErrPhaseRegression)
	}
	return m.record(tick, to, ReasonNone), nil
}

// Terminate ends the session from any live phase.
func (m *PhaseMachine) Terminate(tick int, reason Reason) (Transition, error) {
	if m.Terminated() {
		return Transition{}, fmt.Errorf("%s -> %s: %w", m.current, PhaseTerminated, ErrPhaseRegression)
	}
	m.reason = reason
	return m.record(tick, PhaseTerminated, reason), nil
}

func (m *PhaseMachine) record(tick int, to Phase, reason Reason) Transition {
	t := Transition{Tick: tick, From: m.current, To: to, Reason: reason}
	m.current = to
	m.history = append(m.history, t)
	return t
}

// Evaluate applies the end-of-tick transition rules for the phase that is
// current on entry. At most one transition happens per call.
// The stealth exit is driven by the weapon pickup, not by Evaluate.
func (m *PhaseMachine) Evaluate(tick int, bossHealth float64, allies int, rules PhaseRules) (Transition, bool) {
	switch m.current {
	case PhaseBeatdown:
		if bossHealth <= 0 {
			return m.record(tick, PhaseAllies, ReasonNone), true
		}
	case PhaseAllies:
		if allies >= rules.UnionizeAllies {
			m.reason = ReasonUnionized
			return m.record(tick, PhaseTerminated, ReasonUnionized), true
		}
		if bossHealth <= rules.BecameBossHealth {
			m.reason = ReasonBecameBoss
			return m.record(tick, PhaseTerminated, ReasonBecameBoss), true
		}
	}
	return Transition{}, false
}
