package telemetry

import "sort"

// Ally outcomes.
const (
	OutcomeKilled     = "killed"
	OutcomeSessionEnd = "session_end"
)

// AllyLifetime tracks one recruited ally from recruitment to removal.
type AllyLifetime struct {
	ID          uint32  `csv:"id"`
	Kind        string  `csv:"kind"`
	Cost        int     `csv:"cost"`
	RecruitTick int     `csv:"recruit_tick"`
	EndTick     int     `csv:"end_tick"`
	SurvivalSec float64 `csv:"survival_sec"`
	Outcome     string  `csv:"outcome"`
}

// LifetimeTracker manages per-ally lifetime records.
type LifetimeTracker struct {
	dt    float64
	stats map[uint32]*AllyLifetime
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker(dt float64) *LifetimeTracker {
	return &LifetimeTracker{
		dt:    dt,
		stats: make(map[uint32]*AllyLifetime),
	}
}

// Register starts tracking a newly recruited ally.
func (lt *LifetimeTracker) Register(id uint32, kind string, cost, tick int) {
	lt.stats[id] = &AllyLifetime{
		ID:          id,
		Kind:        kind,
		Cost:        cost,
		RecruitTick: tick,
	}
}

// Get returns the lifetime record for an ally, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *AllyLifetime {
	return lt.stats[id]
}

// Remove stops tracking an ally and returns its completed record.
func (lt *LifetimeTracker) Remove(id uint32, tick int, outcome string) *AllyLifetime {
	s := lt.stats[id]
	if s == nil {
		return nil
	}
	delete(lt.stats, id)
	s.EndTick = tick
	s.SurvivalSec = float64(tick-s.RecruitTick) * lt.dt
	s.Outcome = outcome
	return s
}

// IDs returns the tracked ally IDs in ascending order.
func (lt *LifetimeTracker) IDs() []uint32 {
	ids := make([]uint32, 0, len(lt.stats))
	for id := range lt.stats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Drain completes every remaining record, in ID order.
func (lt *LifetimeTracker) Drain(tick int, outcome string) []AllyLifetime {
	var out []AllyLifetime
	for _, id := range lt.IDs() {
		out = append(out, *lt.Remove(id, tick, outcome))
	}
	return out
}

// Count returns the number of tracked allies.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
