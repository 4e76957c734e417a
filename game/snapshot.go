package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/officerage/components"
	"github.com/pthm-cable/officerage/systems"
)

// EntityView is a read-only copy of one entity.
type EntityView struct {
	ID        uint32
	Kind      components.Kind
	Bounds    components.Bounds
	Health    float64 // 0 for entities without health
	MaxHealth float64
}

// Snapshot is a deep copy of the session state handed to hosts once per tick.
// Nothing in it aliases session memory.
type Snapshot struct {
	Tick       int
	Phase      systems.Phase
	Terminated bool
	Reason     systems.Reason

	Arena  components.Bounds
	Player Player
	Boss   Boss

	// Live entities grouped by kind.
	Entities map[components.Kind][]EntityView

	Score         int
	Rage          int
	RageThreshold int
	Costs         map[components.Kind]int
	NextRecruit   components.Kind
	Allies        int
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:          s.tick,
		Phase:         s.Phase(),
		Terminated:    s.Terminated(),
		Reason:        s.Reason(),
		Arena:         s.arena,
		Player:        s.player,
		Boss:          s.boss,
		Entities:      make(map[components.Kind][]EntityView),
		Score:         s.economy.Score(),
		Rage:          s.economy.Rage(),
		RageThreshold: s.economy.Threshold(),
		Costs:         s.economy.Costs(),
		NextRecruit:   s.NextRecruit(),
		Allies:        s.AllyCount(),
	}

	for _, k := range components.AllKinds {
		if s.store.Count(k) == 0 {
			continue
		}
		views := make([]EntityView, 0, s.store.Count(k))
		s.store.Each(k, func(e ecs.Entity) {
			v := EntityView{ID: e.ID(), Kind: k, Bounds: s.store.Bounds(e)}
			if h := s.store.Health(e); h != nil {
				v.Health, v.MaxHealth = h.Value, h.Max
			}
			views = append(views, v)
		})
		snap.Entities[k] = views
	}
	return snap
}

// Count returns the number of live entities of kind.
func (s Snapshot) Count(kind components.Kind) int {
	return len(s.Entities[kind])
}

// OfCategory returns the entities of every kind in cat, in kind order.
func (s Snapshot) OfCategory(cat components.Category) []EntityView {
	var out []EntityView
	for _, k := range components.AllKinds {
		if k.Category() == cat {
			out = append(out, s.Entities[k]...)
		}
	}
	return out
}

// Weapon returns the weapon pickup box while it is still on the floor.
func (s Snapshot) Weapon() (components.Bounds, bool) {
	w := s.Entities[components.KindWeapon]
	if len(w) == 0 {
		return components.Bounds{}, false
	}
	return w[0].Bounds, true
}
