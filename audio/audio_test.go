package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/pthm-cable/officerage/config"
	"github.com/pthm-cable/officerage/game"
	"github.com/pthm-cable/officerage/systems"
)

const testRate = beep.SampleRate(44100)

// drain streams s to the end and returns the sample count and peak.
func drain(s beep.Streamer) (total int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestOscillator(t *testing.T) {
	tests := []struct {
		name string
		wave WaveType
	}{
		{"sine", WaveSine},
		{"square", WaveSquare},
		{"saw", WaveSaw},
		{"noise", WaveNoise},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := 20 * time.Millisecond
			total, peak := drain(NewOscillator(440, d, tt.wave, testRate))
			if total != testRate.N(d) {
				t.Errorf("streamed %d samples, want %d", total, testRate.N(d))
			}
			if peak > 1 || peak == 0 {
				t.Errorf("peak = %v, want in (0, 1]", peak)
			}
		})
	}
}

func TestEnvelope_RampsIn(t *testing.T) {
	d := 100 * time.Millisecond
	osc := NewOscillator(100, d, WaveSquare, testRate)
	env := NewEnvelope(osc, d, 50*time.Millisecond, 10*time.Millisecond, testRate)

	buf := make([][2]float64, testRate.N(50*time.Millisecond))
	n, ok := env.Stream(buf)
	if !ok || n != len(buf) {
		t.Fatalf("Stream = %d, %v", n, ok)
	}
	if math.Abs(buf[0][0]) >= math.Abs(buf[n-1][0]) {
		t.Errorf("attack did not ramp: first %v, last %v", buf[0][0], buf[n-1][0])
	}
}

func TestSound_EveryCue(t *testing.T) {
	for cue := range cueNotes {
		t.Run(cue.String(), func(t *testing.T) {
			s := Sound(cue, testRate, 1)
			if s == nil {
				t.Fatal("nil sound")
			}
			total, peak := drain(s)
			if want := testRate.N(Length(cue)); total != want {
				t.Errorf("streamed %d samples, want %d", total, want)
			}
			if peak == 0 {
				t.Error("cue is silent")
			}
		})
	}
}

func TestSound_ZeroGainIsSilent(t *testing.T) {
	_, peak := drain(Sound(CueVictory, testRate, 0))
	if peak != 0 {
		t.Errorf("peak = %v, want 0", peak)
	}
}

func TestSound_UnknownCue(t *testing.T) {
	if Sound(Cue(99), testRate, 1) != nil {
		t.Error("expected nil for unknown cue")
	}
}

func TestCues(t *testing.T) {
	tests := []struct {
		name string
		r    game.TickReport
		want []Cue
	}{
		{"quiet", game.TickReport{Tick: 10}, nil},
		{"pickup", game.TickReport{Tick: 10, Transitions: []systems.Transition{{To: systems.PhaseBeatdown}}}, []Cue{CuePickup}},
		{"allies", game.TickReport{Tick: 10, Transitions: []systems.Transition{{To: systems.PhaseAllies}}}, []Cue{CuePhase}},
		{"fired", game.TickReport{Tick: 10, Transitions: []systems.Transition{{To: systems.PhaseTerminated, Reason: systems.ReasonFired}}}, []Cue{CueFired}},
		{"unionized", game.TickReport{Tick: 10, Transitions: []systems.Transition{{To: systems.PhaseTerminated, Reason: systems.ReasonUnionized}}}, []Cue{CueVictory}},
		{"rage wins over hit", game.TickReport{Tick: 10, BossHits: 1, RageBonuses: 1}, []Cue{CueRage}},
		{"recruit and denied", game.TickReport{Tick: 10, Recruits: []game.Recruitment{{}}, RecruitFails: 1}, []Cue{CueRecruit, CueDenied}},
		{"ally lost", game.TickReport{Tick: 10, AllyLosses: 2}, []Cue{CueAllyLost}},
		{"sting", game.TickReport{Tick: 10, Stings: 1, ScoreLost: 5}, []Cue{CueSting}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lastHit := -hitEvery
			got := Cues(tt.r, &lastHit)
			if len(got) != len(tt.want) {
				t.Fatalf("Cues = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Cues[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCues_HitRateLimited(t *testing.T) {
	lastHit := -hitEvery
	hits := 0
	for tick := 1; tick <= 4*hitEvery; tick++ {
		for _, c := range Cues(game.TickReport{Tick: tick, BossHits: 1}, &lastHit) {
			if c == CueHit {
				hits++
			}
		}
	}
	if hits != 4 {
		t.Errorf("hit cues = %d over %d ticks, want 4", hits, 4*hitEvery)
	}
}

func TestNewPlayer_Disabled(t *testing.T) {
	p, err := NewPlayer(config.AudioConfig{Enabled: false, SampleRate: 44100})
	if err != nil || p != nil {
		t.Fatalf("NewPlayer = %v, %v; want nil, nil", p, err)
	}
	// A nil player is silent and safe.
	p.Play(CueHit)
	p.Observe(game.TickReport{BossHits: 1})
	p.Reset()
	p.Close()
}
