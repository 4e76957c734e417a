// Package telemetry provides session stats windows, perf timing, event logs and CSV output.
package telemetry

import (
	"fmt"
	"log/slog"
)

// EventType identifies telemetry events.
type EventType = string

const (
	EventPhase     EventType = "phase"
	EventTerminal  EventType = "terminal"
	EventRecruit   EventType = "recruit"
	EventRageBonus EventType = "rage_bonus"
)

// Event is one notable moment of a session, written to events.csv.
type Event struct {
	Tick       int     `csv:"tick"`
	Type       string  `csv:"type"`
	Phase      string  `csv:"phase"`
	Detail     string  `csv:"detail"`
	Score      int     `csv:"score"`
	BossHealth float64 `csv:"boss_health"`
}

// NewPhaseEvent records a move to a new live phase.
func NewPhaseEvent(tick int, from, to string, score int, bossHealth float64) Event {
	return Event{
		Tick:       tick,
		Type:       EventPhase,
		Phase:      to,
		Detail:     from + " -> " + to,
		Score:      score,
		BossHealth: bossHealth,
	}
}

// NewTerminalEvent records the end of a session.
func NewTerminalEvent(tick int, from, reason string, score int, bossHealth float64) Event {
	return Event{
		Tick:       tick,
		Type:       EventTerminal,
		Phase:      from,
		Detail:     reason,
		Score:      score,
		BossHealth: bossHealth,
	}
}

// NewRecruitEvent records a successful recruitment and what it cost.
func NewRecruitEvent(tick int, phase, kind string, cost, score int, bossHealth float64) Event {
	return Event{
		Tick:       tick,
		Type:       EventRecruit,
		Phase:      phase,
		Detail:     fmt.Sprintf("%s cost=%d", kind, cost),
		Score:      score,
		BossHealth: bossHealth,
	}
}

// NewRageBonusEvent records a rage threshold crossing.
func NewRageBonusEvent(tick int, phase string, damage float64, score int, bossHealth float64) Event {
	return Event{
		Tick:       tick,
		Type:       EventRageBonus,
		Phase:      phase,
		Detail:     fmt.Sprintf("bonus_damage=%g", damage),
		Score:      score,
		BossHealth: bossHealth,
	}
}

// LogEvent logs the event using slog.
func (e Event) LogEvent() {
	slog.Info("event",
		"type", e.Type,
		"tick", e.Tick,
		"phase", e.Phase,
		"detail", e.Detail,
		"score", e.Score,
		"boss_health", e.BossHealth,
	)
}
