package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/officerage/components"
)

// Overlapping calls fn for every live entity of kind whose box intersects box.
func Overlapping(store *Store, kind components.Kind, box components.Bounds, fn func(e ecs.Entity)) {
	store.Each(kind, func(e ecs.Entity) {
		if store.Bounds(e).Intersects(box) {
			fn(e)
		}
	})
}

// FirstOverlap returns the first live entity in cat that intersects box and
// satisfies match. A nil match accepts every entity.
func FirstOverlap(store *Store, cat components.Category, box components.Bounds, match func(e ecs.Entity) bool) (ecs.Entity, bool) {
	for _, k := range components.AllKinds {
		if k.Category() != cat || store.Count(k) == 0 {
			continue
		}
		for _, e := range store.collect(k) {
			if !store.Alive(e) || !store.Bounds(e).Intersects(box) {
				continue
			}
			if match == nil || match(e) {
				return e, true
			}
		}
	}
	return ecs.Entity{}, false
}

// LethalContact reports whether box touches any lethal hazard.
func LethalContact(store *Store, box components.Bounds) (components.Kind, bool) {
	e, ok := FirstOverlap(store, components.CategoryHazard, box, func(e ecs.Entity) bool {
		h := store.Hazard(e)
		return h != nil && h.Lethal
	})
	if !ok {
		return components.KindNone, false
	}
	return store.Kind(e), true
}

// OnTrap reports whether box overlaps a slow-trap.
func OnTrap(store *Store, box components.Bounds) bool {
	found := false
	Overlapping(store, components.KindTrap, box, func(ecs.Entity) { found = true })
	return found
}

// Stings consumes every non-lethal hazard with a score penalty that touches
// box. Returns the hits and the total penalty.
func Stings(store *Store, box components.Bounds) (hits, penalty int) {
	store.EachCategory(components.CategoryHazard, func(e ecs.Entity) {
		h := store.Hazard(e)
		if h == nil || h.Lethal || h.Penalty <= 0 || !store.Bounds(e).Intersects(box) {
			return
		}
		penalty += h.Penalty
		store.Remove(e)
		hits++
	})
	return hits, penalty
}

// ResolveHazardAllies lets every hazard that kills allies take out the first
// ally it touches. Both are removed. Returns the allies lost.
func ResolveHazardAllies(store *Store) int {
	if store.CountCategory(components.CategoryAlly) == 0 {
		return 0
	}
	losses := 0
	store.EachCategory(components.CategoryHazard, func(e ecs.Entity) {
		h := store.Hazard(e)
		if h == nil || !h.KillsAllies {
			return
		}
		a, ok := FirstOverlap(store, components.CategoryAlly, store.Bounds(e), nil)
		if !ok {
			return
		}
		store.Remove(a)
		store.Remove(e)
		losses++
	})
	return losses
}

// AllyBossContacts applies one tick of contact between allies and the boss.
// Returns the contacts, the damage dealt and the score earned.
func AllyBossContacts(store *Store, boss components.Bounds) (contacts int, damage float64, score int) {
	store.EachCategory(components.CategoryAlly, func(e ecs.Entity) {
		a := store.Ally(e)
		if a == nil || a.BossDamage <= 0 || !store.Bounds(e).Intersects(boss) {
			return
		}
		contacts++
		damage += a.BossDamage
		score += a.BossScore
	})
	return contacts, damage, score
}

// ResolveAllyDrones applies one tick of contact damage between allies and
// drones. Each overlapping pair costs the ally droneDamage and the drone the
// ally's strength. Entities at or below zero health are removed.
// Returns the allies lost and the drones destroyed.
func ResolveAllyDrones(store *Store, droneDamage float64) (losses, kills int) {
	if store.Count(components.KindDrone) == 0 {
		return 0, 0
	}
	store.EachCategory(components.CategoryAlly, func(a ecs.Entity) {
		ally := store.Ally(a)
		allyHealth := store.Health(a)
		box := store.Bounds(a)
		Overlapping(store, components.KindDrone, box, func(d ecs.Entity) {
			if !store.Alive(a) {
				return
			}
			allyHealth.Value -= droneDamage
			if dh := store.Health(d); dh != nil {
				dh.Value -= ally.Strength
				if dh.Value <= 0 {
					store.Remove(d)
					kills++
				}
			}
			if allyHealth.Value <= 0 {
				store.Remove(a)
				losses++
			}
		})
	})
	return losses, kills
}

// ProjectileHits consumes every projectile touching the boss.
// Returns the number of hits and the total damage carried.
func ProjectileHits(store *Store, boss components.Bounds) (hits int, damage float64) {
	Overlapping(store, components.KindProjectile, boss, func(e ecs.Entity) {
		if p := store.Projectile(e); p != nil {
			damage += p.Damage
		}
		store.Remove(e)
		hits++
	})
	return hits, damage
}

// ProjectileSpec describes the shots fired by ranged allies.
type ProjectileSpec struct {
	Speed  float32
	Size   float32
	Damage float64
}

// FireRanged lets every ranged ally whose cooldown has elapsed fire one
// projectile from its centre towards the boss centre. Returns the shots fired.
func FireRanged(store *Store, boss components.Bounds, spec ProjectileSpec) int {
	shots := 0
	tx, ty := boss.Center()
	store.EachCategory(components.CategoryAlly, func(e ecs.Entity) {
		ally := store.Ally(e)
		if ally == nil || !ally.Ranged {
			return
		}
		if ally.Cooldown > 0 {
			ally.Cooldown--
			return
		}
		// Spawning may move component storage, so finish with ally first.
		ally.Cooldown = max(ally.FireInterval-1, 0)
		cx, cy := store.Bounds(e).Center()
		vx, vy := heading(cx, cy, tx, ty, spec.Speed)
		store.Spawn(components.KindProjectile, Attrs{
			X:      cx - spec.Size/2,
			Y:      cy - spec.Size/2,
			VX:     vx,
			VY:     vy,
			W:      spec.Size,
			H:      spec.Size,
			Damage: spec.Damage,
		})
		shots++
	})
	return shots
}
