package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/officerage/components"
)

// MoveHazards advances every hostile obstacle by its velocity. While
// distracted, drones move at factor times their velocity. The slow is derived
// from the base velocity each tick, so it never compounds.
func MoveHazards(store *Store, distracted bool, factor float32) {
	store.EachCategory(components.CategoryHazard, func(e ecs.Entity) {
		pos := store.Position(e)
		vel := store.Velocity(e)
		scale := float32(1)
		if distracted && store.Kind(e) == components.KindDrone {
			scale = factor
		}
		pos.X += vel.X * scale
		pos.Y += vel.Y * scale
	})
}

// ExpireLifetimes counts down every lifetime and removes entities that run out.
// Returns the number expired.
func ExpireLifetimes(store *Store) int {
	expired := 0
	store.EachCategory(components.CategoryHazard, func(e ecs.Entity) {
		life := store.Lifetime(e)
		if life == nil {
			return
		}
		life.TTL--
		if life.TTL <= 0 {
			store.Remove(e)
			expired++
		}
	})
	return expired
}

// MoveProjectiles advances friendly projectiles by their velocity.
func MoveProjectiles(store *Store) {
	store.Each(components.KindProjectile, func(e ecs.Entity) {
		pos := store.Position(e)
		vel := store.Velocity(e)
		pos.X += vel.X
		pos.Y += vel.Y
	})
}

// MoveAllies steers melee allies towards the nearest drone. While no drone
// exists, allies that damage the boss head for it and the rest hold position.
// Ranged allies and allies with no speed never move.
func MoveAllies(store *Store, boss components.Bounds) {
	type target struct{ x, y float32 }
	drones := make([]target, 0, store.Count(components.KindDrone))
	store.Each(components.KindDrone, func(e ecs.Entity) {
		cx, cy := store.Bounds(e).Center()
		drones = append(drones, target{cx, cy})
	})
	bx, by := boss.Center()

	store.EachCategory(components.CategoryAlly, func(e ecs.Entity) {
		ally := store.Ally(e)
		if ally == nil || ally.Ranged || ally.Speed <= 0 {
			return
		}
		cx, cy := store.Bounds(e).Center()

		var best target
		switch {
		case len(drones) > 0:
			best = drones[0]
			bestD := distanceSq(cx, cy, best.x, best.y)
			for _, d := range drones[1:] {
				if dd := distanceSq(cx, cy, d.x, d.y); dd < bestD {
					best, bestD = d, dd
				}
			}
		case ally.BossDamage > 0:
			best = target{bx, by}
		default:
			return
		}

		vx, vy := towards(cx, cy, best.x, best.y, ally.Speed)
		vel := store.Velocity(e)
		vel.X, vel.Y = vx, vy
		pos := store.Position(e)
		pos.X += vx
		pos.Y += vy
	})
}

// DespawnOutside removes every entity that no longer intersects the arena.
// Returns the number removed.
func DespawnOutside(store *Store, arena components.Bounds) int {
	removed := 0
	for _, k := range components.AllKinds {
		store.Each(k, func(e ecs.Entity) {
			if !store.Bounds(e).Intersects(arena) {
				store.Remove(e)
				removed++
			}
		})
	}
	return removed
}
