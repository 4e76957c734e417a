package systems

import (
	"math/rand"

	"github.com/pthm-cable/officerage/components"
	"github.com/pthm-cable/officerage/config"
)

// spawnRow is a resolved spawn table entry.
type spawnRow struct {
	kind   components.Kind
	chance float64
	gen    *config.HazardConfig
}

// SpawnScheduler rolls the per-phase spawn tables once per tick.
type SpawnScheduler struct {
	tables [PhaseTerminated][]spawnRow
	arenaW float64
	arenaH float64
}

// NewSpawnScheduler resolves the config tables against the hazard generators.
// The config is expected to be validated; unknown kinds are skipped.
func NewSpawnScheduler(cfg *config.Config) *SpawnScheduler {
	s := &SpawnScheduler{
		arenaW: cfg.Arena.Width,
		arenaH: cfg.Arena.Height,
	}
	raw := [PhaseTerminated][]config.SpawnRule{
		PhaseStealth:  cfg.Spawn.Stealth,
		PhaseBeatdown: cfg.Spawn.Beatdown,
		PhaseAllies:   cfg.Spawn.Allies,
	}
	for phase, rules := range raw {
		for _, r := range rules {
			kind, ok := components.ParseKind(r.Kind)
			gen := cfg.Derived.Hazards[r.Kind]
			if !ok || gen == nil {
				continue
			}
			s.tables[phase] = append(s.tables[phase], spawnRow{kind: kind, chance: r.Chance, gen: gen})
		}
	}
	return s
}

// Kinds returns the kinds that may spawn in a phase, in table order.
func (s *SpawnScheduler) Kinds(phase Phase) []components.Kind {
	if phase >= PhaseTerminated {
		return nil
	}
	out := make([]components.Kind, len(s.tables[phase]))
	for i, row := range s.tables[phase] {
		out[i] = row.kind
	}
	return out
}

// Step draws one Bernoulli trial per table row of phase, in order, and spawns
// the rows that hit. It returns the spawned kinds.
func (s *SpawnScheduler) Step(phase Phase, rng *rand.Rand, store *Store) []components.Kind {
	if phase >= PhaseTerminated {
		return nil
	}
	var spawned []components.Kind
	for _, row := range s.tables[phase] {
		if rng.Float64() >= row.chance {
			continue
		}
		store.Spawn(row.kind, s.attrs(row.gen, rng))
		spawned = append(spawned, row.kind)
	}
	return spawned
}

// attrs generates position, velocity and stats for one hazard.
func (s *SpawnScheduler) attrs(gen *config.HazardConfig, rng *rand.Rand) Attrs {
	speed := gen.SpeedMin
	if gen.SpeedMax > gen.SpeedMin {
		speed = gen.SpeedMin + rng.Float64()*(gen.SpeedMax-gen.SpeedMin)
	}

	a := Attrs{
		W:      float32(gen.Width),
		H:      float32(gen.Height),
		Speed:  float32(speed),
		Lethal: gen.Lethal,
		Health: gen.Health,
		TTL:    gen.TTL,

		Penalty:     gen.Penalty,
		KillsAllies: gen.KillsAllies,
	}

	maxX := max(s.arenaW-gen.Width, 0)
	maxY := max(s.arenaH-gen.Height, 0)

	switch gen.Edge {
	case config.EdgeTop:
		a.X = float32(rng.Float64() * maxX)
		a.VY = a.Speed
	case config.EdgeLeft:
		a.Y = float32(rng.Float64() * maxY)
		a.VX = a.Speed
	default:
		a.X = float32(rng.Float64() * maxX)
		a.Y = float32(rng.Float64() * maxY)
	}
	return a
}
