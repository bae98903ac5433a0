package object

import (
	"math"
	"slices"

	"github.com/tomz197/aviator/internal/physics"
)

// ringEntity is an entity placed on the ring around the sea.
type ringEntity interface {
	Poolable
	Body() *Entity
}

// ring owns the in-use sequence of one ring entity type and its pool.
type ring[T ringEntity] struct {
	inUse []T
	pool  *Pool[T]
	scene Scene
}

// acquire takes an instance from the pool, attaches it and appends it to
// the in-use sequence.
func (r *ring[T]) acquire(angle, distance, seaRadius float64) T {
	v := r.pool.Get()
	e := v.Body()
	e.Angle = angle
	e.Distance = distance
	e.place(seaRadius)
	e.Visible = true
	r.inUse = append(r.inUse, v)
	r.scene.Attach(e)
	return v
}

// retireAt removes the i-th in-use entity, keeping the order of the rest,
// and returns it to the front of the pool.
func (r *ring[T]) retireAt(i int) {
	v := r.inUse[i]
	r.inUse = slices.Delete(r.inUse, i, i+1)
	e := v.Body()
	e.Visible = false
	r.scene.Detach(e)
	r.pool.Put(v)
}

// advance rotates every in-use entity by typeSpeed and handles proximity.
// hit is called for entities closer than tolerance to a ready plane; they
// are retired afterwards. Entities past angle π are retired silently.
func (r *ring[T]) advance(ctx UpdateContext, typeSpeed, tolerance float64, hit func(v T, diff physics.Vec2, d float64)) {
	step := ctx.Speed * ctx.Delta * typeSpeed
	ready := ctx.Plane != nil && ctx.Plane.Ready()

	for i := 0; i < len(r.inUse); i++ {
		v := r.inUse[i]
		e := v.Body()

		e.Angle = physics.WrapAngle(e.Angle + step)
		e.place(ctx.Tuning.SeaRadius)
		e.Rot.Z += ctx.Rand.Float64() * 0.1
		e.Rot.Y += ctx.Rand.Float64() * 0.1

		if ready {
			if physics.Within(ctx.Plane.Pos, e.Pos, tolerance) {
				diff := ctx.Plane.Pos.Sub(e.Pos)
				hit(v, diff, diff.Len())
				r.retireAt(i)
				i--
				continue
			}
		}
		if e.Angle > math.Pi {
			r.retireAt(i)
			i--
		}
	}
}

// reset retires every in-use entity.
func (r *ring[T]) reset() {
	for len(r.inUse) > 0 {
		r.retireAt(len(r.inUse) - 1)
	}
}

// snapshot returns a copy of the in-use sequence.
func (r *ring[T]) snapshot() []T {
	return slices.Clone(r.inUse)
}

// baseDistance returns a ring distance jittered around the plane's
// default flight height.
func baseDistance(ctx UpdateContext) float64 {
	t := ctx.Tuning
	return t.SeaRadius + t.PlaneDefaultHeight + (-1+ctx.Rand.Float64()*2)*(t.PlaneAmpHeight-20)
}
