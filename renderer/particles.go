package renderer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/officerage/game"
)

// EffectType identifies the look of an effect particle.
type EffectType uint8

const (
	EffectHit EffectType = iota
	EffectRage
	EffectPoof
)

// EffectParticle is a short-lived cosmetic spark.
type EffectParticle struct {
	X, Y       float32
	VelX, VelY float32
	Life       int32
	MaxLife    int32
	Type       EffectType
	Size       float32
}

// Effects owns the cosmetic particles. It uses its own RNG so drawing never
// touches the session's random stream.
type Effects struct {
	Particles    []EffectParticle
	maxParticles int
	rng          *rand.Rand
}

// NewEffects creates an empty effect pool.
func NewEffects() *Effects {
	return &Effects{
		Particles:    make([]EffectParticle, 0, 400),
		maxParticles: 400,
		rng:          rand.New(rand.NewSource(1)),
	}
}

// Observe emits effects for what happened in the last tick.
func (e *Effects) Observe(r game.TickReport, snap *game.Snapshot) {
	bx, by := snap.Boss.Bounds.Center()
	for i := 0; i < r.BossHits+r.ProjectileHits+r.BossContacts; i++ {
		e.burst(bx, by, EffectHit, 3)
	}
	for i := 0; i < r.RageBonuses; i++ {
		e.burst(bx, by, EffectRage, 40)
	}
	if r.AllyLosses > 0 || r.DroneKills > 0 {
		// Losses are gone from the snapshot, mark the player instead.
		px, py := snap.Player.Bounds.Center()
		e.burst(px, py, EffectPoof, 6*(r.AllyLosses+r.DroneKills))
	}
	if r.Stings > 0 {
		px, py := snap.Player.Bounds.Center()
		e.burst(px, py, EffectPoof, 4*r.Stings)
	}
}

// Reset drops every particle.
func (e *Effects) Reset() {
	e.Particles = e.Particles[:0]
}

// Update advances every particle one frame.
func (e *Effects) Update() {
	alive := 0
	for i := range e.Particles {
		p := &e.Particles[i]
		p.Life--
		if p.Life <= 0 {
			continue
		}
		if p.Type == EffectPoof {
			p.VelY -= 0.03
		} else {
			p.VelY += 0.05
		}
		p.VelX *= 0.94
		p.VelY *= 0.94
		p.X += p.VelX
		p.Y += p.VelY

		e.Particles[alive] = e.Particles[i]
		alive++
	}
	e.Particles = e.Particles[:alive]
}

func (e *Effects) burst(x, y float32, t EffectType, n int) {
	for i := 0; i < n && len(e.Particles) < e.maxParticles; i++ {
		angle := e.rng.Float64() * 2 * math.Pi
		speed := float32(1 + e.rng.Float64()*3)
		life := int32(20 + e.rng.Intn(20))
		e.Particles = append(e.Particles, EffectParticle{
			X:       x,
			Y:       y,
			VelX:    float32(math.Cos(angle)) * speed,
			VelY:    float32(math.Sin(angle)) * speed,
			Life:    life,
			MaxLife: life,
			Type:    t,
			Size:    2 + float32(e.rng.Float64())*2,
		})
	}
}

// Draw renders all particles.
func (e *Effects) Draw() {
	for i := range e.Particles {
		p := &e.Particles[i]
		ratio := float32(p.Life) / float32(p.MaxLife)

		var color rl.Color
		switch p.Type {
		case EffectHit:
			color = rl.Color{R: 255, G: 230, B: 120, A: uint8(ratio * 220)}
		case EffectRage:
			color = rl.Color{R: 255, G: 60, B: 40, A: uint8(ratio * 240)}
		case EffectPoof:
			color = rl.Color{R: 180, G: 180, B: 180, A: uint8(ratio * 160)}
		}

		size := p.Size * ratio
		if size < 0.5 {
			size = 0.5
		}
		rl.DrawCircleV(rl.Vector2{X: p.X, Y: p.Y}, size, color)
	}
}
