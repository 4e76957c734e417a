package game

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/officerage/components"
	"github.com/pthm-cable/officerage/config"
	"github.com/pthm-cable/officerage/input"
	"github.com/pthm-cable/officerage/systems"
)

// onBoss places the player inside the boss box.
func onBoss(s *Session) {
	s.player.Bounds.X = s.boss.Bounds.X + 10
	s.player.Bounds.Y = s.boss.Bounds.Y + 10
}

func step(t *testing.T, s *Session, keys input.Keys) TickReport {
	t.Helper()
	if err := s.Step(keys); err != nil {
		t.Fatalf("tick %d: %v", s.Tick(), err)
	}
	return s.LastReport()
}

func TestStep_TickCounter(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	r := step(t, s, input.None)
	if r.Tick != 1 || s.Tick() != 1 {
		t.Errorf("first tick = %d/%d, want 1", r.Tick, s.Tick())
	}
	step(t, s, input.None)
	if s.Tick() != 2 {
		t.Errorf("tick = %d, want 2", s.Tick())
	}
}

func TestStep_PlayerMovement(t *testing.T) {
	tests := []struct {
		name   string
		startX float32
		startY float32
		keys   input.Keys
		wantX  float32
		wantY  float32
	}{
		{"right", 100, 300, input.Of(input.Right), 105, 300},
		{"up left", 100, 300, input.Of(input.Up, input.Left), 95, 295},
		{"opposite keys cancel", 100, 300, input.Of(input.Left, input.Right), 100, 300},
		{"clamped at left wall", 0, 300, input.Of(input.Left), 0, 300},
		{"clamped at right wall", 760, 300, input.Of(input.Right), 760, 300},
		{"clamped at floor", 100, 560, input.Of(input.Down), 100, 560},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(quietConfig(t), 1)
			s.player.Bounds.X, s.player.Bounds.Y = tt.startX, tt.startY
			step(t, s, tt.keys)
			p := s.Player().Bounds
			if p.X != tt.wantX || p.Y != tt.wantY {
				t.Errorf("player at (%v, %v), want (%v, %v)", p.X, p.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestStep_TrapSlowsPlayer(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	s.player.Bounds.X, s.player.Bounds.Y = 100, 300
	trap := s.store.Spawn(components.KindTrap, systems.Attrs{X: 100, Y: 320, W: 40, H: 10, TTL: 300})

	step(t, s, input.Of(input.Right))
	if got := s.Player().Bounds.X; got != 102.5 {
		t.Errorf("slowed x = %v, want 102.5", got)
	}
	if !s.Player().Slowed {
		t.Error("player should be marked slowed")
	}

	s.store.Remove(trap)
	s.store.Compact()
	step(t, s, input.Of(input.Right))
	if got := s.Player().Bounds.X; got != 107.5 {
		t.Errorf("x after leaving trap = %v, want 107.5", got)
	}
	if s.Player().Slowed {
		t.Error("slow should only last while on the trap")
	}
}

func TestStep_TrapExpires(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	s.store.Spawn(components.KindTrap, systems.Attrs{X: 100, Y: 100, W: 40, H: 10, TTL: 3})

	despawned := 0
	for i := 0; i < 3; i++ {
		despawned += step(t, s, input.None).Despawned
	}
	if s.store.Count(components.KindTrap) != 0 {
		t.Errorf("trap still alive after its ttl")
	}
	if despawned != 1 {
		t.Errorf("despawned = %d, want 1", despawned)
	}
}

func TestStep_PickupStartsBeatdown(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	s.player.Bounds.X, s.player.Bounds.Y = 715, 295

	r := step(t, s, input.None)
	if s.Phase() != systems.PhaseBeatdown {
		t.Fatalf("phase = %v, want beatdown", s.Phase())
	}
	if !s.Player().HasWeapon {
		t.Error("player should hold the weapon")
	}
	if !s.Boss().Panicked {
		t.Error("boss should panic once the weapon is taken")
	}
	if _, ok := s.Snapshot().Weapon(); ok {
		t.Error("weapon should be gone from the floor")
	}
	if len(r.Transitions) != 1 || r.Transitions[0].To != systems.PhaseBeatdown || r.Transitions[0].Tick != 1 {
		t.Errorf("transitions = %+v", r.Transitions)
	}
}

func TestStep_AttackNeedsWeapon(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	onBoss(s)

	r := step(t, s, input.Of(input.Attack))
	if r.BossHits != 0 || s.Boss().Health != 100 {
		t.Errorf("unarmed attack hit the boss: hits %d, health %v", r.BossHits, s.Boss().Health)
	}
}

func TestStep_AttackHitsBoss(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	toPhase(t, s, systems.PhaseBeatdown)
	onBoss(s)

	for i := 0; i < 3; i++ {
		step(t, s, input.Of(input.Attack))
	}
	if s.Boss().Health != 97 {
		t.Errorf("boss health = %v, want 97", s.Boss().Health)
	}
	if s.Score() != 30 {
		t.Errorf("score = %d, want 30", s.Score())
	}
	if s.Rage() != 15 {
		t.Errorf("rage = %d, want 15", s.Rage())
	}

	// Out of reach.
	s.player.Bounds.X, s.player.Bounds.Y = 100, 400
	if r := step(t, s, input.Of(input.Attack)); r.BossHits != 0 {
		t.Errorf("hit from out of reach")
	}
}

func TestStep_RageBonusFiresOnce(t *testing.T) {
	cfg := quietConfig(t)
	cfg.Economy.RagePerHit = 10
	s := NewSession(cfg, 1)
	toPhase(t, s, systems.PhaseBeatdown)
	onBoss(s)
	s.economy.AddRage(95)

	r := step(t, s, input.Of(input.Attack))
	if r.RageBonuses != 1 {
		t.Errorf("rage bonuses = %d, want 1", r.RageBonuses)
	}
	// One hit plus one bonus.
	if math.Abs(s.Boss().Health-79) > 1e-9 {
		t.Errorf("boss health = %v, want 79", s.Boss().Health)
	}
	if s.Rage() != 0 {
		t.Errorf("rage = %d, want reset to 0", s.Rage())
	}

	r = step(t, s, input.Of(input.Attack))
	if r.RageBonuses != 0 {
		t.Errorf("second tick rage bonuses = %d, want 0", r.RageBonuses)
	}
	if s.Rage() != 10 {
		t.Errorf("rage = %d, want 10", s.Rage())
	}
}

func TestStep_ScoreNeverNegative(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	s.economy.AddScore(5)
	s.addScore(-20)
	if s.Score() != 0 {
		t.Errorf("score = %d, want 0", s.Score())
	}
	if s.report.ScoreGained != 0 {
		t.Errorf("loss counted as gain: %d", s.report.ScoreGained)
	}
}

func TestStep_BossDefeatedEntersAllies(t *testing.T) {
	cfg := quietConfig(t)
	cfg.Spawn.Beatdown = []config.SpawnRule{{Kind: "thrown", Chance: 1}}
	cfg.Hazards.Thrown.Lethal = false
	s := NewSession(cfg, 1)
	toPhase(t, s, systems.PhaseBeatdown)
	onBoss(s)
	s.boss.Health = 1

	r := step(t, s, input.Of(input.Attack))
	if s.Phase() != systems.PhaseAllies {
		t.Fatalf("phase = %v, want allies on the same tick", s.Phase())
	}
	if len(r.Transitions) != 1 || r.Transitions[0].From != systems.PhaseBeatdown {
		t.Errorf("transitions = %+v", r.Transitions)
	}
	if len(r.Spawned) != 1 {
		t.Errorf("beatdown spawns on the defeating tick = %d, want 1", len(r.Spawned))
	}

	for i := 0; i < 10; i++ {
		r = step(t, s, input.Of(input.Attack))
		if len(r.Spawned) != 0 {
			t.Fatalf("tick %d: beatdown hazards spawned in allies phase: %v", r.Tick, r.Spawned)
		}
		if r.BossHits != 0 {
			t.Fatalf("tick %d: boss hit outside beatdown", r.Tick)
		}
	}
}

func TestStep_FiredOnLethalContact(t *testing.T) {
	for _, phase := range []systems.Phase{systems.PhaseStealth, systems.PhaseBeatdown, systems.PhaseAllies} {
		t.Run(phase.String(), func(t *testing.T) {
			s := NewSession(quietConfig(t), 1)
			toPhase(t, s, phase)
			p := s.Player().Bounds
			s.store.Spawn(components.KindMail, systems.Attrs{X: p.X + 5, Y: p.Y + 5, W: 20, H: 15, Lethal: true})

			r := step(t, s, input.None)
			if !s.Terminated() || s.Reason() != systems.ReasonFired {
				t.Fatalf("terminated = %v reason = %q, want fired", s.Terminated(), s.Reason())
			}
			if len(r.Transitions) != 1 || r.Transitions[0].From != phase {
				t.Errorf("transitions = %+v", r.Transitions)
			}
			if err := s.Step(input.None); !errors.Is(err, ErrTerminated) {
				t.Errorf("step after firing = %v, want ErrTerminated", err)
			}
		})
	}
}

func TestStep_RecruitKeyIsEdgeTriggered(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	toPhase(t, s, systems.PhaseAllies)
	s.economy.AddScore(1000)
	recruit := input.Of(input.Recruit)

	r := step(t, s, recruit)
	if len(r.Recruits) != 1 || r.Recruits[0].Kind != components.KindIntern || r.Recruits[0].Cost != 50 {
		t.Fatalf("first press recruits = %+v", r.Recruits)
	}
	if r = step(t, s, recruit); len(r.Recruits) != 0 {
		t.Errorf("held key recruited again: %+v", r.Recruits)
	}
	step(t, s, input.None)
	r = step(t, s, recruit)
	if len(r.Recruits) != 1 || r.Recruits[0].Kind != components.KindDistractor {
		t.Fatalf("second press recruits = %+v", r.Recruits)
	}
	if s.Score() != 850 {
		t.Errorf("score = %d, want 850", s.Score())
	}
	if s.NextRecruit() != components.KindSenior {
		t.Errorf("next recruit = %v, want senior", s.NextRecruit())
	}
}

func TestStep_RecruitFailureKeepsRotation(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	toPhase(t, s, systems.PhaseAllies)
	s.economy.AddScore(40)

	r := step(t, s, input.Of(input.Recruit))
	if r.RecruitFails != 1 || len(r.Recruits) != 0 {
		t.Errorf("fails = %d recruits = %d, want 1 and 0", r.RecruitFails, len(r.Recruits))
	}
	if s.Score() != 40 {
		t.Errorf("score = %d, want 40", s.Score())
	}
	if s.NextRecruit() != components.KindIntern {
		t.Errorf("next recruit = %v, want intern", s.NextRecruit())
	}
}

func TestStep_DirectRecruitReportedNextTick(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	toPhase(t, s, systems.PhaseAllies)
	s.economy.AddScore(100)

	if ok, _ := s.Recruit(components.KindDistractor); !ok {
		t.Fatal("recruitment failed")
	}
	r := step(t, s, input.None)
	if len(r.Recruits) != 1 || r.Recruits[0].Kind != components.KindDistractor {
		t.Errorf("recruits = %+v", r.Recruits)
	}
	if r = step(t, s, input.None); len(r.Recruits) != 0 {
		t.Errorf("recruitment reported twice")
	}
}

func TestStep_Unionized(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	toPhase(t, s, systems.PhaseAllies)
	s.economy.AddScore(250)
	for i := 0; i < 4; i++ {
		if ok, _ := s.Recruit(components.KindIntern); !ok {
			t.Fatalf("recruit %d failed", i)
		}
	}

	r := step(t, s, input.Of(input.Recruit))
	if len(r.Recruits) != 5 {
		t.Errorf("recruits reported = %d, want 5", len(r.Recruits))
	}
	if !s.Terminated() || s.Reason() != systems.ReasonUnionized {
		t.Fatalf("terminated = %v reason = %q, want unionized", s.Terminated(), s.Reason())
	}
	if len(r.Transitions) != 1 || r.Transitions[0].Tick != 1 {
		t.Errorf("transitions = %+v", r.Transitions)
	}
	if err := s.Step(input.None); !errors.Is(err, ErrTerminated) {
		t.Errorf("step after unionizing = %v, want ErrTerminated", err)
	}
}

func TestStep_BecameBoss(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	toPhase(t, s, systems.PhaseAllies)
	s.boss.Health = -50

	step(t, s, input.None)
	if s.Reason() != systems.ReasonBecameBoss {
		t.Errorf("reason = %q, want %q", s.Reason(), systems.ReasonBecameBoss)
	}
}

func TestStep_UnionizedWinsOverBecameBoss(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	toPhase(t, s, systems.PhaseAllies)
	s.boss.Health = -80
	s.economy.AddScore(250)
	for i := 0; i < 4; i++ {
		s.Recruit(components.KindIntern)
	}

	step(t, s, input.Of(input.Recruit))
	if s.Reason() != systems.ReasonUnionized {
		t.Errorf("reason = %q, want unionized", s.Reason())
	}
}

func TestStep_RangedAllyShoots(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	toPhase(t, s, systems.PhaseAllies)
	s.economy.AddScore(200)
	if ok, _ := s.Recruit(components.KindSenior); !ok {
		t.Fatal("recruitment failed")
	}

	r := step(t, s, input.None)
	if r.Shots != 1 {
		t.Errorf("shots = %d, want 1", r.Shots)
	}
	if s.store.Count(components.KindProjectile) != 1 {
		t.Errorf("projectiles = %d, want 1", s.store.Count(components.KindProjectile))
	}
}

func TestStep_AllyLostToDrone(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	toPhase(t, s, systems.PhaseAllies)
	s.economy.AddScore(50)
	if ok, _ := s.Recruit(components.KindIntern); !ok {
		t.Fatal("recruitment failed")
	}
	intern := s.roster[0]
	pos := s.store.Position(intern)
	pos.X, pos.Y = 100, 100
	s.store.Spawn(components.KindDrone, systems.Attrs{X: 100, Y: 100, W: 25, H: 25, Health: 20, Lethal: true})

	var lost []uint32
	losses := 0
	for i := 0; i < 5 && len(lost) == 0; i++ {
		r := step(t, s, input.None)
		lost = append(lost, r.LostAllies...)
		losses += r.AllyLosses
	}
	if losses != 1 {
		t.Errorf("ally losses = %d, want 1", losses)
	}
	if len(lost) != 1 || lost[0] != intern.ID() {
		t.Errorf("lost allies = %v, want [%d]", lost, intern.ID())
	}
	if s.AllyCount() != 0 {
		t.Errorf("allies = %d, want 0", s.AllyCount())
	}
}

func TestStep_PhaseHistoryIsMonotonic(t *testing.T) {
	s := NewSession(quietConfig(t), 1)

	s.player.Bounds.X, s.player.Bounds.Y = 715, 295
	step(t, s, input.None)
	onBoss(s)
	s.boss.Health = 2
	step(t, s, input.Of(input.Attack))
	step(t, s, input.Of(input.Attack))
	s.boss.Health = -100
	step(t, s, input.None)

	h := s.History()
	if len(h) != 3 {
		t.Fatalf("history = %+v, want 3 transitions", h)
	}
	for i, tr := range h {
		if tr.To <= tr.From {
			t.Errorf("transition %d moved backwards: %+v", i, tr)
		}
		if i > 0 && (tr.From != h[i-1].To || tr.Tick < h[i-1].Tick) {
			t.Errorf("transition %d does not follow %d: %+v", i, i-1, h)
		}
	}
	if h[2].To != systems.PhaseTerminated || h[2].Reason != systems.ReasonBecameBoss {
		t.Errorf("final transition = %+v", h[2])
	}
}

func TestStep_Deterministic(t *testing.T) {
	run := func() []Outcome {
		s := NewSession(config.Default(), 7)
		var out []Outcome
		for i := 0; i < 600; i++ {
			if err := s.Step(input.Of(input.Left)); err != nil {
				break
			}
			out = append(out, s.Outcome())
		}
		return out
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("runs lasted %d and %d ticks", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tick %d diverged: %+v vs %+v", i+1, a[i], b[i])
		}
	}
}

func TestStep_StingCostsScoreNotJob(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	s.economy.AddScore(3)
	p := s.player.Bounds
	s.store.Spawn(components.KindMail, systems.Attrs{X: p.X + 5, Y: p.Y + 5, W: 20, H: 15, Penalty: 5})

	r := step(t, s, input.None)
	if s.Terminated() {
		t.Fatal("non-lethal mail got the player fired")
	}
	if r.Stings != 1 || r.ScoreLost != 3 {
		t.Errorf("stings=%d lost=%d, want 1 and 3", r.Stings, r.ScoreLost)
	}
	if s.Score() != 0 {
		t.Errorf("score = %d, want clamped to 0", s.Score())
	}
	if s.store.Count(components.KindMail) != 0 {
		t.Error("stinging mail should be consumed")
	}
}

func TestStep_AllyDrainsBoss(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	toPhase(t, s, systems.PhaseAllies)
	s.boss.Health = 10
	b := s.boss.Bounds
	s.store.Spawn(components.KindIntern, systems.Attrs{
		X: b.X + 10, Y: b.Y + 10, W: 15, H: 15,
		Health: 30, Speed: 2, BossDamage: 0.5, BossScore: 5,
	})

	r := step(t, s, input.None)
	if r.BossContacts != 1 {
		t.Fatalf("boss contacts = %d, want 1", r.BossContacts)
	}
	if math.Abs(s.boss.Health-9.5) > 1e-9 {
		t.Errorf("boss health = %v, want 9.5", s.boss.Health)
	}
	if s.Score() != 5 || r.ScoreGained != 5 {
		t.Errorf("score = %d (gained %d), want 5", s.Score(), r.ScoreGained)
	}
}

func TestStep_HazardTakesOutAlly(t *testing.T) {
	s := NewSession(quietConfig(t), 1)
	toPhase(t, s, systems.PhaseAllies)
	s.store.Spawn(components.KindIntern, systems.Attrs{X: 100, Y: 300, W: 15, H: 15, Health: 30})
	s.store.Spawn(components.KindMail, systems.Attrs{X: 100, Y: 300, W: 20, H: 15, KillsAllies: true})

	r := step(t, s, input.None)
	if r.AllyLosses != 1 {
		t.Errorf("ally losses = %d, want 1", r.AllyLosses)
	}
	if s.AllyCount() != 0 || s.store.Count(components.KindMail) != 0 {
		t.Errorf("allies=%d mail=%d, want both gone", s.AllyCount(), s.store.Count(components.KindMail))
	}
}
