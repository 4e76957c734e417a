// Package game owns a session of the simulation: its state, the per-tick
// step, the read-only snapshot handed to hosts and the fixed-tick loop.
package game

import (
	"errors"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/officerage/components"
	"github.com/pthm-cable/officerage/config"
	"github.com/pthm-cable/officerage/input"
	"github.com/pthm-cable/officerage/systems"
)

// ErrTerminated is returned by mutating calls after the session has ended.
var ErrTerminated = errors.New("session terminated")

// Player is the controlled character. There is exactly one per session.
type Player struct {
	Bounds    components.Bounds
	Speed     float32
	HasWeapon bool
	Slowed    bool // standing on a trap during the last tick
}

// Boss is the stationary target. Health may go negative.
type Boss struct {
	Bounds    components.Bounds
	Health    float64
	MaxHealth float64
	Panicked  bool
}

// StageTimer receives the name of each tick stage as it starts.
type StageTimer interface {
	StartStage(stage string)
}

// Recruitment records one ally paid for and placed.
type Recruitment struct {
	ID   uint32
	Kind components.Kind
	Cost int
}

// TickReport lists what happened during one Step.
type TickReport struct {
	Tick           int
	Spawned        []components.Kind
	Despawned      int // left the arena or expired
	BossHits       int
	ScoreGained    int
	RageBonuses    int
	Recruits       []Recruitment
	RecruitFails   int
	AllyLosses     int
	LostAllies     []uint32
	DroneKills     int
	Shots          int
	ProjectileHits int
	Stings         int // non-lethal hazard hits on the player
	ScoreLost      int
	BossContacts   int // ally contact ticks against the boss
	Removed        int
	Transitions    []systems.Transition
}

// Session is the aggregate state of one run.
type Session struct {
	cfg  *config.Config
	seed int64
	rng  *rand.Rand
	tick int

	store   *systems.Store
	spawner *systems.SpawnScheduler
	economy *systems.Economy
	phases  *systems.PhaseMachine
	rules   systems.PhaseRules

	arena  components.Bounds
	player Player
	boss   Boss
	weapon ecs.Entity

	// Recruited allies still tracked, in recruitment order.
	roster []ecs.Entity

	recruitChain  []recruitLink
	recruitOrder  []components.Kind
	recruitCursor int
	prevKeys      input.Keys

	projectile systems.ProjectileSpec
	timer      StageTimer

	report TickReport
	// Recruitments made between ticks, reported with the next tick.
	carry []Recruitment
}

// NewSession creates a session in the stealth phase. cfg must be validated.
func NewSession(cfg *config.Config, seed int64) *Session {
	s := &Session{
		cfg:     cfg,
		seed:    seed,
		rng:     rand.New(rand.NewSource(seed)),
		store:   systems.NewStore(),
		spawner: systems.NewSpawnScheduler(cfg),
		economy: systems.NewEconomyFromConfig(cfg),
		phases:  systems.NewPhaseMachine(),
		rules: systems.PhaseRules{
			UnionizeAllies:   cfg.Phases.UnionizeAllies,
			BecameBossHealth: cfg.Phases.BecameBossHealth,
		},
		arena: components.Bounds{W: cfg.Derived.ArenaW32, H: cfg.Derived.ArenaH32},
		player: Player{
			Bounds: components.Bounds{
				X: float32(cfg.Player.StartX),
				Y: float32(cfg.Player.StartY),
				W: float32(cfg.Player.Width),
				H: float32(cfg.Player.Height),
			},
			Speed: float32(cfg.Player.Speed),
		},
		boss: Boss{
			Bounds: components.Bounds{
				X: float32(cfg.Boss.X),
				Y: float32(cfg.Boss.Y),
				W: float32(cfg.Boss.Width),
				H: float32(cfg.Boss.Height),
			},
			Health:    cfg.Boss.Health,
			MaxHealth: cfg.Boss.Health,
		},
		projectile: systems.ProjectileSpec{
			Speed:  float32(cfg.Allies.ProjectileSpeed),
			Size:   float32(cfg.Allies.ProjectileSize),
			Damage: cfg.Allies.ProjectileDamage,
		},
	}

	switch cfg.Recruit.Mode {
	case config.RecruitChain:
		for _, link := range cfg.Recruit.Chain {
			if k, ok := components.ParseKind(link.Kind); ok && k.Category() == components.CategoryAlly {
				s.recruitChain = append(s.recruitChain, recruitLink{kind: k, chance: link.Chance})
			}
		}
	default:
		for _, name := range cfg.Recruit.Order {
			if k, ok := components.ParseKind(name); ok && k.Category() == components.CategoryAlly {
				s.recruitOrder = append(s.recruitOrder, k)
			}
		}
	}

	s.weapon = s.store.Spawn(components.KindWeapon, systems.Attrs{
		X: float32(cfg.Weapon.X),
		Y: float32(cfg.Weapon.Y),
		W: float32(cfg.Weapon.Width),
		H: float32(cfg.Weapon.Height),
	})

	return s
}

// SetStageTimer installs a timer notified at each stage of Step. nil disables it.
func (s *Session) SetStageTimer(t StageTimer) { s.timer = t }

func (s *Session) stage(name string) {
	if s.timer != nil {
		s.timer.StartStage(name)
	}
}

// Config returns the configuration the session was built from.
func (s *Session) Config() *config.Config { return s.cfg }

// Seed returns the RNG seed.
func (s *Session) Seed() int64 { return s.seed }

// Tick returns the number of completed steps.
func (s *Session) Tick() int { return s.tick }

// Phase returns the current phase.
func (s *Session) Phase() systems.Phase { return s.phases.Current() }

// Terminated reports whether the session has ended.
func (s *Session) Terminated() bool { return s.phases.Terminated() }

// Reason returns why the session ended, or systems.ReasonNone.
func (s *Session) Reason() systems.Reason { return s.phases.Reason() }

// History returns the phase transitions so far.
func (s *Session) History() []systems.Transition { return s.phases.History() }

// Player returns a copy of the player state.
func (s *Session) Player() Player { return s.player }

// Boss returns a copy of the boss state.
func (s *Session) Boss() Boss { return s.boss }

// Score returns the current score.
func (s *Session) Score() int { return s.economy.Score() }

// Rage returns the current rage meter.
func (s *Session) Rage() int { return s.economy.Rage() }

// AllyCount returns the number of live allies.
func (s *Session) AllyCount() int { return s.store.CountCategory(components.CategoryAlly) }

// LastReport returns what happened during the most recent Step.
func (s *Session) LastReport() TickReport { return s.report }

// recruitLink is a resolved recruit chain entry.
type recruitLink struct {
	kind   components.Kind
	chance float64
}

// NextRecruit returns the kind the recruit key would hire next, or
// components.KindNone when the kind is drawn at the press.
func (s *Session) NextRecruit() components.Kind {
	if len(s.recruitOrder) == 0 {
		return components.KindNone
	}
	return s.recruitOrder[s.recruitCursor]
}

// drawRecruit picks the kind for one recruit press. ok is false when no kind
// is configured.
func (s *Session) drawRecruit() (components.Kind, bool) {
	if len(s.recruitChain) > 0 {
		for _, link := range s.recruitChain {
			if s.rng.Float64() < link.chance {
				return link.kind, true
			}
		}
		return s.recruitChain[len(s.recruitChain)-1].kind, true
	}
	if len(s.recruitOrder) == 0 {
		return components.KindNone, false
	}
	return s.recruitOrder[s.recruitCursor], true
}

// Recruit pays for one ally of kind and places it at the player. Recruitment
// only happens in the allies phase and only when the score covers the cost;
// otherwise it returns false with no change.
//
// Recruitments between ticks are reported with the next tick, unless the hire
// ends the session: then the session terminates at once and LastReport holds
// the recruitment and the terminal transition.
func (s *Session) Recruit(kind components.Kind) (bool, error) {
	if s.Terminated() {
		return false, ErrTerminated
	}
	r, ok := s.recruit(kind)
	if !ok {
		return false, nil
	}
	s.carry = append(s.carry, r)
	s.settleDirect()
	return true, nil
}

// RecruitNext hires the kind the recruit key would, outside of Step.
func (s *Session) RecruitNext() (bool, error) {
	if s.Terminated() {
		return false, ErrTerminated
	}
	if s.Phase() != systems.PhaseAllies {
		return false, nil
	}
	kind, ok := s.drawRecruit()
	if !ok {
		return false, nil
	}
	r, ok := s.recruit(kind)
	if !ok {
		return false, nil
	}
	s.advanceRotation()
	s.carry = append(s.carry, r)
	s.settleDirect()
	return true, nil
}

// settleDirect evaluates the terminal rules after a recruitment made between
// ticks. A terminal transition publishes the pending recruitments as the last
// report, since no further Step will run.
func (s *Session) settleDirect() {
	tr, ok := s.phases.Evaluate(s.tick, s.boss.Health, s.AllyCount(), s.rules)
	if !ok {
		return
	}
	s.report = TickReport{Tick: s.tick, Recruits: s.carry, Transitions: []systems.Transition{tr}}
	s.carry = nil
}

func (s *Session) advanceRotation() {
	if len(s.recruitOrder) > 0 {
		s.recruitCursor = (s.recruitCursor + 1) % len(s.recruitOrder)
	}
}

func (s *Session) recruit(kind components.Kind) (Recruitment, bool) {
	if s.Phase() != systems.PhaseAllies || kind.Category() != components.CategoryAlly {
		return Recruitment{}, false
	}
	cost := s.economy.Cost(kind)
	if !s.economy.TryRecruit(kind) {
		return Recruitment{}, false
	}

	stats := s.cfg.Derived.Allies[kind.String()]
	e := s.store.Spawn(kind, systems.Attrs{
		X:            s.player.Bounds.X,
		Y:            s.player.Bounds.Y,
		W:            float32(stats.Width),
		H:            float32(stats.Height),
		Health:       stats.Health,
		Strength:     stats.Strength,
		Speed:        float32(stats.Speed),
		Ranged:       stats.Ranged,
		Distracts:    stats.Distracts,
		FireInterval: stats.FireInterval,
		BossDamage:   stats.BossDamage,
		BossScore:    stats.BossScore,
	})
	s.roster = append(s.roster, e)
	return Recruitment{ID: e.ID(), Kind: kind, Cost: cost}, true
}

// Outcome summarizes a session for batch reporting.
type Outcome struct {
	Seed       int64   `csv:"seed"`
	Ticks      int     `csv:"ticks"`
	Phase      string  `csv:"phase"`
	Reason     string  `csv:"reason"`
	Score      int     `csv:"score"`
	BossHealth float64 `csv:"boss_health"`
	Allies     int     `csv:"allies"`
	Recruits   int     `csv:"recruits"`
}

// Outcome returns the current summary of the session.
func (s *Session) Outcome() Outcome {
	return Outcome{
		Seed:       s.seed,
		Ticks:      s.tick,
		Phase:      s.Phase().String(),
		Reason:     string(s.Reason()),
		Score:      s.Score(),
		BossHealth: s.boss.Health,
		Allies:     s.AllyCount(),
		Recruits:   s.economy.RecruitCount(),
	}
}
