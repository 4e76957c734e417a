package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/officerage/components"
	"github.com/pthm-cable/officerage/input"
	"github.com/pthm-cable/officerage/systems"
)

// Step advances the session by one tick using the held keys.
// After termination it returns ErrTerminated and changes nothing.
func (s *Session) Step(keys input.Keys) error {
	if s.Terminated() {
		return ErrTerminated
	}

	s.tick++
	s.report = TickReport{Tick: s.tick, Recruits: s.carry}
	s.carry = nil
	defer func() { s.prevKeys = keys }()

	s.stage(systems.StagePlayer)
	s.movePlayer(keys)

	s.stage(systems.StagePickup)
	s.resolvePickup()

	s.stage(systems.StageAttack)
	s.resolveAttack(keys)

	s.stage(systems.StageSpawn)
	s.report.Spawned = s.spawner.Step(s.Phase(), s.rng, s.store)

	s.stage(systems.StageAdvance)
	s.advance()

	s.stage(systems.StageCollision)
	if s.resolveLethal() {
		// Fired: the rest of the tick does not run.
		return nil
	}
	s.resolveStings()
	s.resolveCombat()

	s.stage(systems.StageRecruit)
	if keys.Pressed(input.Recruit) && !s.prevKeys.Pressed(input.Recruit) {
		s.recruitNext()
	}

	s.stage(systems.StageCompact)
	s.report.Removed = s.store.Compact()
	s.pruneRoster()

	s.stage(systems.StagePhase)
	if tr, ok := s.phases.Evaluate(s.tick, s.boss.Health, s.AllyCount(), s.rules); ok {
		s.report.Transitions = append(s.report.Transitions, tr)
	}
	return nil
}

// movePlayer applies the held direction keys. The trap check uses the box
// from before the move and only affects this tick.
func (s *Session) movePlayer(keys input.Keys) {
	speed := s.player.Speed
	s.player.Slowed = systems.OnTrap(s.store, s.player.Bounds)
	if s.player.Slowed {
		speed *= float32(s.cfg.Player.TrapSlow)
	}

	dx, dy := keys.Axis()
	s.player.Bounds.X += dx * speed
	s.player.Bounds.Y += dy * speed
	s.player.Bounds = s.player.Bounds.Clamp(s.arena)
}

// resolvePickup ends the stealth phase when the player reaches the weapon.
func (s *Session) resolvePickup() {
	if s.Phase() != systems.PhaseStealth || !s.store.Alive(s.weapon) {
		return
	}
	if !s.store.Bounds(s.weapon).Intersects(s.player.Bounds) {
		return
	}

	s.player.HasWeapon = true
	s.store.Remove(s.weapon)
	s.boss.Panicked = true
	if tr, err := s.phases.Advance(s.tick, systems.PhaseBeatdown); err == nil {
		s.report.Transitions = append(s.report.Transitions, tr)
	}
}

// resolveAttack lets an armed player hit the boss while the attack key is held.
func (s *Session) resolveAttack(keys input.Keys) {
	if s.Phase() != systems.PhaseBeatdown || !s.player.HasWeapon || !keys.Pressed(input.Attack) {
		return
	}
	if !s.player.Bounds.Intersects(s.boss.Bounds) {
		return
	}

	eco := s.cfg.Economy
	s.boss.Health -= s.cfg.Boss.HitDamage
	s.report.BossHits++
	s.addScore(eco.ScorePerHit)
	s.addRage(eco.RagePerHit)
}

func (s *Session) addScore(delta int) {
	before := s.economy.Score()
	s.economy.AddScore(delta)
	if gained := s.economy.Score() - before; gained > 0 {
		s.report.ScoreGained += gained
	}
}

// addRage feeds the meter and applies the bonus damage on a crossing.
func (s *Session) addRage(delta int) {
	if delta == 0 {
		return
	}
	if s.economy.AddRage(delta) {
		s.boss.Health -= s.cfg.Economy.RageBonusDamage
		s.report.RageBonuses++
	}
}

// advance moves every entity and drops what expired or left the arena.
func (s *Session) advance() {
	distracted := false
	s.store.EachCategory(components.CategoryAlly, func(e ecs.Entity) {
		if a := s.store.Ally(e); a != nil && a.Distracts {
			distracted = true
		}
	})

	systems.MoveHazards(s.store, distracted, float32(s.cfg.Allies.DistractFactor))
	s.report.Despawned += systems.ExpireLifetimes(s.store)
	systems.MoveProjectiles(s.store)
	systems.MoveAllies(s.store, s.boss.Bounds)
	s.report.Despawned += systems.DespawnOutside(s.store, s.arena)
}

// resolveLethal terminates the session when the player touches a lethal hazard.
func (s *Session) resolveLethal() bool {
	if _, hit := systems.LethalContact(s.store, s.player.Bounds); !hit {
		return false
	}
	tr, err := s.phases.Terminate(s.tick, systems.ReasonFired)
	if err == nil {
		s.report.Transitions = append(s.report.Transitions, tr)
	}
	return true
}

// resolveStings charges the player for non-lethal hazards it touched.
func (s *Session) resolveStings() {
	hits, penalty := systems.Stings(s.store, s.player.Bounds)
	if hits == 0 {
		return
	}
	s.report.Stings += hits
	before := s.economy.Score()
	s.economy.AddScore(-penalty)
	s.report.ScoreLost += before - s.economy.Score()
}

// resolveCombat handles projectiles, ally fights against drones, hazards and
// the boss, and ranged fire.
func (s *Session) resolveCombat() {
	hits, damage := systems.ProjectileHits(s.store, s.boss.Bounds)
	if hits > 0 {
		s.boss.Health -= damage
		s.report.ProjectileHits += hits
		for i := 0; i < hits; i++ {
			s.addScore(s.cfg.Economy.ProjectileScore)
			s.addRage(s.cfg.Economy.ProjectileRage)
		}
	}

	losses, kills := systems.ResolveAllyDrones(s.store, s.cfg.Allies.DroneDamage)
	s.report.AllyLosses += losses
	s.report.DroneKills += kills
	s.report.AllyLosses += systems.ResolveHazardAllies(s.store)

	contacts, damage, score := systems.AllyBossContacts(s.store, s.boss.Bounds)
	if contacts > 0 {
		s.boss.Health -= damage
		s.report.BossContacts += contacts
		s.addScore(score)
	}

	s.report.Shots += systems.FireRanged(s.store, s.boss.Bounds, s.projectile)
}

// recruitNext hires the kind drawn for one recruit press. The rotation only
// advances when the recruitment succeeds.
func (s *Session) recruitNext() {
	if s.Phase() != systems.PhaseAllies {
		return
	}
	kind, ok := s.drawRecruit()
	if !ok {
		return
	}
	r, ok := s.recruit(kind)
	if !ok {
		s.report.RecruitFails++
		return
	}
	s.report.Recruits = append(s.report.Recruits, r)
	s.advanceRotation()
}

// pruneRoster reports recruited allies that no longer exist.
func (s *Session) pruneRoster() {
	kept := s.roster[:0]
	for _, e := range s.roster {
		if s.store.Alive(e) {
			kept = append(kept, e)
			continue
		}
		s.report.LostAllies = append(s.report.LostAllies, e.ID())
	}
	s.roster = kept
}
