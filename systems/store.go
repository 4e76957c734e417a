// Package systems provides the simulation systems that operate on the entity store.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/officerage/components"
)

// Attrs holds the creation values for a new entity. Only the fields used by
// the kind's component set are read.
type Attrs struct {
	X, Y   float32
	VX, VY float32
	W, H   float32

	// Hazards
	Speed       float32
	Lethal      bool
	TTL         int
	Penalty     int
	KillsAllies bool

	// Hazards with health and allies
	Health float64

	// Allies
	Strength     float64
	Ranged       bool
	Distracts    bool
	FireInterval int
	BossDamage   float64
	BossScore    int

	// Projectiles
	Damage float64
}

// Store owns every entity of a session and indexes them by kind.
// Removal is deferred: Remove marks, Compact deletes. Pointers returned by the
// accessors are valid until the next Spawn or Compact.
type Store struct {
	world *ecs.World

	bodyMap   *ecs.Map4[components.Tag, components.Position, components.Velocity, components.Size]
	tagFilter *ecs.Filter1[components.Tag]
	tagMap    *ecs.Map[components.Tag]
	posMap    *ecs.Map[components.Position]
	velMap    *ecs.Map[components.Velocity]
	sizeMap   *ecs.Map[components.Size]
	hazardMap *ecs.Map[components.Hazard]
	healthMap *ecs.Map[components.Health]
	lifeMap   *ecs.Map[components.Lifetime]
	allyMap   *ecs.Map[components.Ally]
	projMap   *ecs.Map[components.Projectile]
	pickupMap *ecs.Map[components.Pickup]

	// Pending removals, in mark order so compaction is deterministic.
	pending    []ecs.Entity
	pendingSet map[ecs.Entity]struct{}

	// Live (unmarked) entities per kind.
	counts map[components.Kind]int
}

// NewStore creates an empty store backed by a fresh ECS world.
func NewStore() *Store {
	world := ecs.NewWorld()
	return &Store{
		world:      world,
		bodyMap:    ecs.NewMap4[components.Tag, components.Position, components.Velocity, components.Size](world),
		tagFilter:  ecs.NewFilter1[components.Tag](world),
		tagMap:     ecs.NewMap[components.Tag](world),
		posMap:     ecs.NewMap[components.Position](world),
		velMap:     ecs.NewMap[components.Velocity](world),
		sizeMap:    ecs.NewMap[components.Size](world),
		hazardMap:  ecs.NewMap[components.Hazard](world),
		healthMap:  ecs.NewMap[components.Health](world),
		lifeMap:    ecs.NewMap[components.Lifetime](world),
		allyMap:    ecs.NewMap[components.Ally](world),
		projMap:    ecs.NewMap[components.Projectile](world),
		pickupMap:  ecs.NewMap[components.Pickup](world),
		pendingSet: make(map[ecs.Entity]struct{}),
		counts:     make(map[components.Kind]int),
	}
}

// Spawn creates an entity of the given kind with the component set that kind uses.
func (s *Store) Spawn(kind components.Kind, a Attrs) ecs.Entity {
	tag := components.Tag{Kind: kind}
	pos := components.Position{X: a.X, Y: a.Y}
	vel := components.Velocity{X: a.VX, Y: a.VY}
	size := components.Size{W: a.W, H: a.H}

	e := s.bodyMap.NewEntity(&tag, &pos, &vel, &size)

	switch kind.Category() {
	case components.CategoryHazard:
		s.hazardMap.Add(e, &components.Hazard{
			BaseSpeed:   a.Speed,
			Lethal:      a.Lethal,
			Penalty:     a.Penalty,
			KillsAllies: a.KillsAllies,
		})
		if a.Health > 0 {
			s.healthMap.Add(e, &components.Health{Value: a.Health, Max: a.Health})
		}
		if a.TTL > 0 {
			s.lifeMap.Add(e, &components.Lifetime{TTL: a.TTL})
		}
	case components.CategoryAlly:
		s.healthMap.Add(e, &components.Health{Value: a.Health, Max: a.Health})
		s.allyMap.Add(e, &components.Ally{
			Strength:     a.Strength,
			Speed:        a.Speed,
			Ranged:       a.Ranged,
			Distracts:    a.Distracts,
			FireInterval: a.FireInterval,
			BossDamage:   a.BossDamage,
			BossScore:    a.BossScore,
		})
	case components.CategoryProjectile:
		s.projMap.Add(e, &components.Projectile{Damage: a.Damage})
	case components.CategoryPickup:
		s.pickupMap.Add(e, &components.Pickup{})
	}

	s.counts[kind]++
	return e
}

// Each calls fn for every live entity of kind. The matching entities are
// collected before the first call, so fn may spawn or remove entities.
// Entities removed during the sweep are skipped.
func (s *Store) Each(kind components.Kind, fn func(e ecs.Entity)) {
	for _, e := range s.collect(kind) {
		if !s.Alive(e) {
			continue
		}
		fn(e)
	}
}

// EachCategory is Each over every kind of a category, in kind order.
func (s *Store) EachCategory(cat components.Category, fn func(e ecs.Entity)) {
	for _, k := range components.AllKinds {
		if k.Category() == cat {
			s.Each(k, fn)
		}
	}
}

// collect drains a tag query into a slice of the entities of kind.
func (s *Store) collect(kind components.Kind) []ecs.Entity {
	if s.counts[kind] == 0 {
		return nil
	}
	out := make([]ecs.Entity, 0, s.counts[kind])
	query := s.tagFilter.Query()
	for query.Next() {
		if query.Get().Kind == kind {
			out = append(out, query.Entity())
		}
	}
	return out
}

// Remove marks an entity for removal at the next Compact. Removing an entity
// twice is a no-op.
func (s *Store) Remove(e ecs.Entity) {
	if !s.Alive(e) {
		return
	}
	s.pendingSet[e] = struct{}{}
	s.pending = append(s.pending, e)
	s.counts[s.tagMap.Get(e).Kind]--
}

// Compact deletes all marked entities and returns how many were removed.
func (s *Store) Compact() int {
	n := len(s.pending)
	for _, e := range s.pending {
		s.world.RemoveEntity(e)
		delete(s.pendingSet, e)
	}
	s.pending = s.pending[:0]
	return n
}

// Alive reports whether e exists and is not marked for removal.
func (s *Store) Alive(e ecs.Entity) bool {
	if !s.world.Alive(e) {
		return false
	}
	_, marked := s.pendingSet[e]
	return !marked
}

// Count returns the number of live entities of kind.
func (s *Store) Count(kind components.Kind) int {
	return s.counts[kind]
}

// CountCategory returns the number of live entities in a category.
func (s *Store) CountCategory(cat components.Category) int {
	n := 0
	for k, c := range s.counts {
		if k.Category() == cat {
			n += c
		}
	}
	return n
}

// Len returns the number of live entities.
func (s *Store) Len() int {
	n := 0
	for _, c := range s.counts {
		n += c
	}
	return n
}

// Kind returns the entity's kind tag.
func (s *Store) Kind(e ecs.Entity) components.Kind {
	return s.tagMap.Get(e).Kind
}

// Bounds returns a copy of the entity's box.
func (s *Store) Bounds(e ecs.Entity) components.Bounds {
	return components.BoundsOf(s.posMap.Get(e), s.sizeMap.Get(e))
}

// Position returns the entity's mutable position.
func (s *Store) Position(e ecs.Entity) *components.Position {
	return s.posMap.Get(e)
}

// Velocity returns the entity's mutable velocity.
func (s *Store) Velocity(e ecs.Entity) *components.Velocity {
	return s.velMap.Get(e)
}

// Hazard returns the hazard component, or nil.
func (s *Store) Hazard(e ecs.Entity) *components.Hazard {
	if !s.hazardMap.Has(e) {
		return nil
	}
	return s.hazardMap.Get(e)
}

// Health returns the health component, or nil.
func (s *Store) Health(e ecs.Entity) *components.Health {
	if !s.healthMap.Has(e) {
		return nil
	}
	return s.healthMap.Get(e)
}

// Lifetime returns the lifetime component, or nil.
func (s *Store) Lifetime(e ecs.Entity) *components.Lifetime {
	if !s.lifeMap.Has(e) {
		return nil
	}
	return s.lifeMap.Get(e)
}

// Ally returns the ally component, or nil.
func (s *Store) Ally(e ecs.Entity) *components.Ally {
	if !s.allyMap.Has(e) {
		return nil
	}
	return s.allyMap.Get(e)
}

// Projectile returns the projectile component, or nil.
func (s *Store) Projectile(e ecs.Entity) *components.Projectile {
	if !s.projMap.Has(e) {
		return nil
	}
	return s.projMap.Get(e)
}
