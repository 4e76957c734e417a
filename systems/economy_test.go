package systems

import (
	"testing"

	"github.com/pthm-cable/officerage/components"
	"github.com/pthm-cable/officerage/config"
)

func newTestEconomy() *Economy {
	return NewEconomyFromConfig(config.Default())
}

func TestEconomy_ScoreNeverNegative(t *testing.T) {
	tests := []struct {
		name   string
		deltas []int
		want   int
	}{
		{"gain", []int{10, 10}, 20},
		{"overspend clamps", []int{10, -50}, 0},
		{"recover after clamp", []int{5, -50, 10}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEconomy()
			for _, d := range tt.deltas {
				if got := e.AddScore(d); got < 0 {
					t.Fatalf("AddScore(%d) = %d, score went negative", d, got)
				}
			}
			if e.Score() != tt.want {
				t.Errorf("score = %d, want %d", e.Score(), tt.want)
			}
		})
	}
}

func TestEconomy_RageCrossingFiresOnce(t *testing.T) {
	e := newTestEconomy()

	if e.AddRage(95) {
		t.Fatal("95 should not cross the threshold")
	}
	if !e.AddRage(10) {
		t.Fatal("95 + 10 should cross the threshold")
	}
	if e.Rage() != 0 {
		t.Errorf("rage after crossing = %d, want reset to 0", e.Rage())
	}
	if e.AddRage(5) {
		t.Error("crossing must not fire again until the meter refills")
	}
}

func TestEconomy_LargeRageDeltaFiresOnce(t *testing.T) {
	e := newTestEconomy()
	if !e.AddRage(350) {
		t.Fatal("large delta should cross")
	}
	if e.Rage() != 0 {
		t.Errorf("rage = %d, want 0", e.Rage())
	}
}

func TestEconomy_TryRecruit(t *testing.T) {
	tests := []struct {
		name      string
		score     int
		kind      components.Kind
		ok        bool
		wantScore int
	}{
		{"insufficient score", 40, components.KindIntern, false, 40},
		{"exact cost", 50, components.KindIntern, true, 0},
		{"senior", 200, components.KindSenior, true, 50},
		{"not an ally", 500, components.KindMail, false, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEconomy()
			e.AddScore(tt.score)
			costBefore := e.Cost(tt.kind)

			if got := e.TryRecruit(tt.kind); got != tt.ok {
				t.Fatalf("TryRecruit = %v, want %v", got, tt.ok)
			}
			if e.Score() != tt.wantScore {
				t.Errorf("score = %d, want %d", e.Score(), tt.wantScore)
			}
			if e.Cost(tt.kind) != costBefore {
				t.Errorf("fixed cost changed from %d to %d", costBefore, e.Cost(tt.kind))
			}
			wantCount := 0
			if tt.ok {
				wantCount = 1
			}
			if e.RecruitCount() != wantCount {
				t.Errorf("RecruitCount = %d, want %d", e.RecruitCount(), wantCount)
			}
		})
	}
}

func TestEconomy_EscalatingCost(t *testing.T) {
	e := NewEconomy(100,
		map[components.Kind]int{components.KindIntern: 50},
		map[components.Kind]int{components.KindIntern: 25})
	e.AddScore(200)

	if !e.TryRecruit(components.KindIntern) {
		t.Fatal("first recruit should succeed")
	}
	if got := e.Cost(components.KindIntern); got != 75 {
		t.Errorf("cost after one recruit = %d, want 75", got)
	}
	if !e.TryRecruit(components.KindIntern) {
		t.Fatal("second recruit should succeed")
	}
	if e.Score() != 75 {
		t.Errorf("score = %d, want 75", e.Score())
	}
	if e.TryRecruit(components.KindIntern) {
		t.Error("third recruit at cost 100 should fail with score 75")
	}
}
