package object

import (
	"math/rand"
	"slices"

	"github.com/tomz197/aviator/internal/physics"
)

// Explosion is the animation record of one particle. All tweens share the
// same clock; the position tween finishes last and marks completion.
type Explosion struct {
	Elapsed float64 // seconds since the explosion started
	X, Y    Tween
	Scale   Tween
	RotX    Tween
	RotY    Tween
}

// Done reports whether every tween has settled.
func (x *Explosion) Done() bool {
	return x.X.Done(x.Elapsed) && x.Y.Done(x.Elapsed) && x.Scale.Done(x.Elapsed)
}

// Particle is a short-lived burst fragment.
type Particle struct {
	Entity

	Anim      Explosion
	exploding bool
}

// NewParticle builds a detached particle.
func NewParticle() *Particle {
	return &Particle{Entity: Entity{Kind: KindParticle, Scale: 1, Color: ColorParticle}}
}

// Exploding reports whether the particle's animation is in flight.
func (p *Particle) Exploding() bool {
	return p.exploding
}

// Explode starts the burst animation from pos.
func (p *Particle) Explode(pos physics.Vec2, color uint32, scale float64, rng *rand.Rand) {
	p.Pos = pos
	p.Color = color
	p.Scale = scale
	p.Rot = Rotation{}

	duration := 0.6 + rng.Float64()*0.2
	delay := rng.Float64() * 0.1
	targetX := pos.X + (-1+rng.Float64()*2)*50
	targetY := pos.Y + (-1+rng.Float64()*2)*50

	p.Anim = Explosion{
		RotX:  Tween{From: 0, To: rng.Float64() * 12, Duration: duration, Ease: Power1Out},
		RotY:  Tween{From: 0, To: rng.Float64() * 12, Duration: duration, Ease: Power1Out},
		Scale: Tween{From: scale, To: 0.1, Duration: duration, Ease: Power1Out},
		X:     Tween{From: pos.X, To: targetX, Delay: delay, Duration: duration, Ease: Power2Out},
		Y:     Tween{From: pos.Y, To: targetY, Delay: delay, Duration: duration, Ease: Power2Out},
	}
	p.exploding = true
}

// step advances the animation by dt seconds and reports completion.
func (p *Particle) step(dt float64) bool {
	a := &p.Anim
	a.Elapsed += dt
	p.Pos.X = a.X.At(a.Elapsed)
	p.Pos.Y = a.Y.At(a.Elapsed)
	p.Scale = a.Scale.At(a.Elapsed)
	p.Rot.X = a.RotX.At(a.Elapsed)
	p.Rot.Y = a.RotY.At(a.Elapsed)
	return a.Done()
}

// ParticlesHolder owns the exploding particles and their pool.
type ParticlesHolder struct {
	inUse []*Particle
	pool  *Pool[*Particle]
	scene Scene
}

// NewParticlesHolder pre-warms a pool of n particles.
func NewParticlesHolder(n int, scene Scene) *ParticlesHolder {
	if scene == nil {
		scene = NopScene{}
	}
	return &ParticlesHolder{
		pool:  NewPool(n, NewParticle),
		scene: scene,
	}
}

// Spawn explodes density particles at pos.
func (h *ParticlesHolder) Spawn(ctx UpdateContext, pos physics.Vec2, density int, color uint32, scale float64) {
	for i := 0; i < density; i++ {
		p := h.pool.Get()
		p.Visible = true
		h.scene.Attach(&p.Entity)
		p.Explode(pos, color, scale, ctx.Rand)
		h.inUse = append(h.inUse, p)
	}
}

// Update advances every explosion by the frame time and recycles the
// finished ones.
func (h *ParticlesHolder) Update(ctx UpdateContext) {
	dt := ctx.Delta / 1000
	for i := 0; i < len(h.inUse); i++ {
		if h.inUse[i].step(dt) {
			h.finishAt(i)
			i--
		}
	}
}

// finishAt ends the i-th explosion. A particle is returned to the pool at
// most once per explosion.
func (h *ParticlesHolder) finishAt(i int) {
	p := h.inUse[i]
	h.inUse = slices.Delete(h.inUse, i, i+1)
	if !p.exploding {
		return
	}
	p.exploding = false
	p.Visible = false
	p.Scale = 1
	h.scene.Detach(&p.Entity)
	h.pool.Put(p)
}

// Reset cancels all explosions in flight and returns their particles.
func (h *ParticlesHolder) Reset() {
	for len(h.inUse) > 0 {
		h.finishAt(len(h.inUse) - 1)
	}
}

// InUse returns the exploding particles in spawn order.
func (h *ParticlesHolder) InUse() []*Particle {
	return slices.Clone(h.inUse)
}

// Pool returns the particle pool.
func (h *ParticlesHolder) Pool() *Pool[*Particle] {
	return h.pool
}
