// Package audio synthesizes short sound cues for session events and plays
// them through the system speaker.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType selects an oscillator shape.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator is a fixed-length tone.
type oscillator struct {
	freq     float64
	phase    float64
	length   int
	position int
	wave     WaveType
	rate     beep.SampleRate
	noise    *rand.Rand
}

// NewOscillator returns a streamer producing d of the given wave.
func NewOscillator(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:   freq,
		length: rate.N(d),
		wave:   wave,
		rate:   rate,
		noise:  rand.New(rand.NewSource(int64(freq*1000) + 1)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.length {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = o.noise.Float64()*2 - 1
		}
		samples[i][0], samples[i][1] = val, val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope ramps a stream in over attack and out over release.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// NewEnvelope shapes s, which should last d.
func NewEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if left := e.total - e.position; left < e.release {
			vol = math.Min(vol, float64(left)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// withVolume scales s by a linear gain. Zero or less is silent.
func withVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

// note is one tone of a cue.
type note struct {
	freq   float64
	length time.Duration
	wave   WaveType
}

// cueNotes is the melody of each cue, played in sequence.
var cueNotes = map[Cue][]note{
	CueHit:      {{freq: 180, length: 60 * time.Millisecond, wave: WaveSaw}},
	CueRage:     {{freq: 110, length: 120 * time.Millisecond, wave: WaveSquare}, {freq: 82.4, length: 220 * time.Millisecond, wave: WaveSquare}},
	CuePickup:   {{freq: 660, length: 70 * time.Millisecond, wave: WaveSine}, {freq: 990, length: 110 * time.Millisecond, wave: WaveSine}},
	CueRecruit:  {{freq: 523.25, length: 80 * time.Millisecond, wave: WaveSquare}, {freq: 783.99, length: 120 * time.Millisecond, wave: WaveSquare}},
	CueDenied:   {{freq: 98, length: 150 * time.Millisecond, wave: WaveSaw}},
	CueSting:    {{freq: 1200, length: 40 * time.Millisecond, wave: WaveSquare}, {freq: 900, length: 60 * time.Millisecond, wave: WaveSquare}},
	CueAllyLost: {{freq: 0, length: 180 * time.Millisecond, wave: WaveNoise}},
	CuePhase:    {{freq: 440, length: 100 * time.Millisecond, wave: WaveSine}, {freq: 554.37, length: 100 * time.Millisecond, wave: WaveSine}, {freq: 659.25, length: 180 * time.Millisecond, wave: WaveSine}},
	CueFired:    {{freq: 392, length: 200 * time.Millisecond, wave: WaveSaw}, {freq: 311.13, length: 200 * time.Millisecond, wave: WaveSaw}, {freq: 196, length: 400 * time.Millisecond, wave: WaveSaw}},
	CueVictory:  {{freq: 523.25, length: 120 * time.Millisecond, wave: WaveSquare}, {freq: 659.25, length: 120 * time.Millisecond, wave: WaveSquare}, {freq: 783.99, length: 120 * time.Millisecond, wave: WaveSquare}, {freq: 1046.5, length: 360 * time.Millisecond, wave: WaveSquare}},
}

// Sound builds a fresh streamer for cue, or nil for an unknown cue.
func Sound(cue Cue, rate beep.SampleRate, gain float64) beep.Streamer {
	notes, ok := cueNotes[cue]
	if !ok {
		return nil
	}
	parts := make([]beep.Streamer, len(notes))
	for i, n := range notes {
		osc := NewOscillator(n.freq, n.length, n.wave, rate)
		release := n.length / 2
		parts[i] = NewEnvelope(osc, n.length, 5*time.Millisecond, release, rate)
	}
	// Square and saw are much louder than sine at the same amplitude.
	return withVolume(beep.Seq(parts...), gain*0.4)
}

// Length returns the playing time of cue.
func Length(cue Cue) time.Duration {
	var d time.Duration
	for _, n := range cueNotes[cue] {
		d += n.length
	}
	return d
}
