package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/officerage/config"
	"github.com/pthm-cable/officerage/game"
	"github.com/pthm-cable/officerage/systems"
)

// Cue identifies a sound.
type Cue int

const (
	CueHit Cue = iota
	CueRage
	CuePickup
	CueRecruit
	CueDenied
	CueAllyLost
	CuePhase
	CueFired
	CueVictory
	CueSting
)

var cueNames = map[Cue]string{
	CueHit:      "hit",
	CueRage:     "rage",
	CuePickup:   "pickup",
	CueRecruit:  "recruit",
	CueDenied:   "denied",
	CueAllyLost: "ally_lost",
	CuePhase:    "phase",
	CueFired:    "fired",
	CueVictory:  "victory",
	CueSting:    "sting",
}

func (c Cue) String() string {
	if n, ok := cueNames[c]; ok {
		return n
	}
	return fmt.Sprintf("cue(%d)", int(c))
}

// hitEvery limits hit cues while the attack key is held.
const hitEvery = 8

// Cues maps one tick report to the sounds it should trigger. lastHit is the
// tick of the previous hit cue and is updated in place.
func Cues(r game.TickReport, lastHit *int) []Cue {
	var cues []Cue
	for _, t := range r.Transitions {
		switch {
		case t.Reason == systems.ReasonFired:
			cues = append(cues, CueFired)
		case t.To == systems.PhaseTerminated:
			cues = append(cues, CueVictory)
		case t.To == systems.PhaseBeatdown:
			cues = append(cues, CuePickup)
		default:
			cues = append(cues, CuePhase)
		}
	}
	if r.RageBonuses > 0 {
		cues = append(cues, CueRage)
	} else if r.BossHits > 0 && r.Tick-*lastHit >= hitEvery {
		cues = append(cues, CueHit)
		*lastHit = r.Tick
	}
	if len(r.Recruits) > 0 {
		cues = append(cues, CueRecruit)
	}
	if r.RecruitFails > 0 {
		cues = append(cues, CueDenied)
	}
	if r.AllyLosses > 0 {
		cues = append(cues, CueAllyLost)
	}
	if r.Stings > 0 {
		cues = append(cues, CueSting)
	}
	return cues
}

// Player mixes cues onto the speaker. A nil *Player is valid and silent.
type Player struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	rate    beep.SampleRate
	gain    float64
	lastHit int
}

// NewPlayer opens the speaker. It returns nil, nil when audio is disabled.
func NewPlayer(cfg config.AudioConfig) (*Player, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	p := &Player{
		mixer:   &beep.Mixer{},
		rate:    beep.SampleRate(cfg.SampleRate),
		gain:    cfg.MasterVolume,
		lastHit: -hitEvery,
	}
	if err := speaker.Init(p.rate, p.rate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("opening speaker: %w", err)
	}
	speaker.Play(p.mixer)
	return p, nil
}

// Play starts cue on top of whatever is playing.
func (p *Player) Play(cue Cue) {
	if p == nil {
		return
	}
	s := Sound(cue, p.rate, p.gain)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Observe plays the cues for one tick report.
func (p *Player) Observe(r game.TickReport) {
	if p == nil {
		return
	}
	p.mu.Lock()
	cues := Cues(r, &p.lastHit)
	p.mu.Unlock()
	for _, c := range cues {
		p.Play(c)
	}
}

// Reset forgets per-session state, for a restarted session.
func (p *Player) Reset() {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.lastHit = -hitEvery
	p.mu.Unlock()
}

// Close silences everything and releases the speaker.
func (p *Player) Close() {
	if p == nil {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}
