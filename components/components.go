package components

// Position represents an entity's top-left corner in arena coordinates.
type Position struct {
	X, Y float32
}

// Velocity is the per-tick displacement.
type Velocity struct {
	X, Y float32
}

// Size is the entity's box extent.
type Size struct {
	W, H float32
}

// Tag carries the kind chosen at creation. It never changes.
type Tag struct {
	Kind Kind
}

// Hazard marks a hostile obstacle.
type Hazard struct {
	BaseSpeed   float32 // speed before distraction is applied
	Lethal      bool    // touching it gets the player fired
	Penalty     int     // score lost when a non-lethal hazard hits the player; consumed on contact
	KillsAllies bool    // removes the first ally it touches, consumed on contact
}

// Health is attached to damageable entities (drones, allies).
type Health struct {
	Value float64
	Max   float64
}

// Lifetime counts down the ticks an entity has left. Entities without it
// live until they leave the arena or are destroyed.
type Lifetime struct {
	TTL int
}

// Ally holds the combat profile of a recruited coworker.
type Ally struct {
	Strength     float64 // damage dealt to a drone per contact tick
	Speed        float32 // seek speed toward the nearest drone
	Ranged       bool
	Distracts    bool
	FireInterval int // ticks between projectiles
	Cooldown     int // ticks until the next projectile

	// Contact with the boss. Allies with BossDamage home on the boss while
	// there is no drone to chase.
	BossDamage float64
	BossScore  int
}

// Projectile is a friendly shot aimed at the boss.
type Projectile struct {
	Damage float64
}

// Pickup marks the weapon pickup.
type Pickup struct{}

// BoundsOf combines a position and size into a box.
func BoundsOf(p *Position, s *Size) Bounds {
	return Bounds{X: p.X, Y: p.Y, W: s.W, H: s.H}
}
