package object

import "math"

// Ease maps linear progress in [0,1] to eased progress.
type Ease func(t float64) float64

// Linear is the identity ease.
func Linear(t float64) float64 { return t }

// Power1Out is a quadratic ease-out.
func Power1Out(t float64) float64 { return 1 - (1-t)*(1-t) }

// Power2Out is a cubic ease-out.
func Power2Out(t float64) float64 { return 1 - math.Pow(1-t, 3) }

// Tween interpolates one scalar from From to To. Times are in seconds and
// measured from the start of the owning animation.
type Tween struct {
	From, To float64
	Delay    float64
	Duration float64
	Ease     Ease
}

// At returns the tweened value after elapsed seconds.
func (tw Tween) At(elapsed float64) float64 {
	if elapsed <= tw.Delay {
		return tw.From
	}
	p := 1.0
	if tw.Duration > 0 {
		p = (elapsed - tw.Delay) / tw.Duration
	}
	if p >= 1 {
		return tw.To
	}
	ease := tw.Ease
	if ease == nil {
		ease = Linear
	}
	return tw.From + (tw.To-tw.From)*ease(p)
}

// End returns the elapsed time at which the tween settles on To.
func (tw Tween) End() float64 {
	return tw.Delay + tw.Duration
}

// Done reports whether the tween has finished after elapsed seconds.
func (tw Tween) Done(elapsed float64) bool {
	return elapsed >= tw.End()
}
