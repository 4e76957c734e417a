package game

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/officerage/components"
	"github.com/pthm-cable/officerage/systems"
	"github.com/pthm-cable/officerage/telemetry"
)

// recordTick feeds one tick report into the collector and event log.
func (l *Loop) recordTick(r TickReport) {
	c := l.collector
	c.RecordSpawns(len(r.Spawned))
	c.RecordDespawns(r.Removed)
	c.RecordScore(r.ScoreGained)
	for i := 0; i < r.BossHits; i++ {
		c.RecordBossHit()
	}
	c.RecordAllyLosses(r.AllyLosses)
	c.RecordDroneKills(r.DroneKills)
	c.RecordShots(r.Shots)
	c.RecordProjectileHits(r.ProjectileHits)
	c.RecordStings(r.Stings, r.ScoreLost)
	c.RecordBossContacts(r.BossContacts)
	for i := 0; i < r.RecruitFails; i++ {
		c.RecordRecruitFail()
	}

	s := l.session
	phase := s.Phase().String()

	for i := 0; i < r.RageBonuses; i++ {
		c.RecordRageBonus()
		l.emit(telemetry.NewRageBonusEvent(r.Tick, phase, l.cfg.Economy.RageBonusDamage, s.Score(), s.boss.Health))
	}

	for _, rec := range r.Recruits {
		c.RecordRecruit()
		l.lifetimes.Register(rec.ID, rec.Kind.String(), rec.Cost, r.Tick)
		l.emit(telemetry.NewRecruitEvent(r.Tick, phase, rec.Kind.String(), rec.Cost, s.Score(), s.boss.Health))
	}

	if len(r.LostAllies) > 0 {
		lost := make([]telemetry.AllyLifetime, 0, len(r.LostAllies))
		for _, id := range r.LostAllies {
			if rec := l.lifetimes.Remove(id, r.Tick, telemetry.OutcomeKilled); rec != nil {
				lost = append(lost, *rec)
			}
		}
		if err := l.outputManager.WriteAllyLifetimes(lost); err != nil {
			slog.Error("failed to write ally lifetimes", "error", err)
		}
	}

	for _, tr := range r.Transitions {
		l.recordTransition(tr)
	}

	if c.ShouldFlush(r.Tick) || s.Terminated() {
		l.flushTelemetry(false)
	}
}

// recordTransition logs a phase change and writes it to events.csv.
func (l *Loop) recordTransition(tr systems.Transition) {
	s := l.session
	var e telemetry.Event
	if tr.To == systems.PhaseTerminated {
		e = telemetry.NewTerminalEvent(tr.Tick, tr.From.String(), string(tr.Reason), s.Score(), s.boss.Health)
		slog.Info("session terminated",
			"tick", tr.Tick,
			"phase", tr.From.String(),
			"reason", string(tr.Reason),
			"score", s.Score(),
			"boss_health", s.boss.Health,
		)
	} else {
		e = telemetry.NewPhaseEvent(tr.Tick, tr.From.String(), tr.To.String(), s.Score(), s.boss.Health)
		slog.Info("phase changed",
			"tick", tr.Tick,
			"from", tr.From.String(),
			"phase", tr.To.String(),
		)
	}
	if err := l.outputManager.WriteEvent(e); err != nil {
		slog.Error("failed to write event", "error", err)
	}
}

func (l *Loop) emit(e telemetry.Event) {
	if l.opts.LogStats {
		e.LogEvent()
	}
	if err := l.outputManager.WriteEvent(e); err != nil {
		slog.Error("failed to write event", "error", err)
	}
}

// flushTelemetry closes the current stats window. A final flush is skipped
// when nothing happened since the last one.
func (l *Loop) flushTelemetry(final bool) {
	tick := l.session.Tick()
	if final && tick == l.flushedAt {
		return
	}

	stats := l.collector.Flush(tick, l.sampleState())
	perfStats := l.perfCollector.Stats()

	// Call stats callback if provided
	if l.opts.StatsCallback != nil {
		l.opts.StatsCallback(stats)
	}

	// Log stats if enabled (console output)
	if l.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if l.outputManager != nil {
		if err := l.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := l.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	// Check for bookmarks
	for _, bm := range l.bookmarks.Check(stats) {
		if l.opts.LogStats {
			bm.LogBookmark()
		}
		if err := l.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
	l.flushedAt = tick
}

// sampleState gathers the end-of-window state and distributions.
func (l *Loop) sampleState() telemetry.State {
	s := l.session
	st := telemetry.State{
		Phase:       s.Phase().String(),
		Score:       s.Score(),
		Rage:        s.Rage(),
		BossHealth:  s.boss.Health,
		Hazards:     s.store.CountCategory(components.CategoryHazard),
		Allies:      s.AllyCount(),
		Projectiles: s.store.Count(components.KindProjectile),
	}

	s.store.EachCategory(components.CategoryAlly, func(e ecs.Entity) {
		if h := s.store.Health(e); h != nil {
			st.AllyHealth = append(st.AllyHealth, h.Value)
		}
	})

	px, py := s.player.Bounds.Center()
	s.store.EachCategory(components.CategoryHazard, func(e ecs.Entity) {
		hx, hy := s.store.Bounds(e).Center()
		st.HazardDist = append(st.HazardDist, math.Hypot(float64(hx-px), float64(hy-py)))
	})
	return st
}
