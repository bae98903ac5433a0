package physics

import "math"

// Normalize clamps v to [vmin, vmax] and then maps it linearly onto
// [tmin, tmax]. The clamp happens first, so out-of-range input always lands
// exactly on a bound of the target range.
func Normalize(v, vmin, vmax, tmin, tmax float64) float64 {
	nv := math.Max(math.Min(v, vmax), vmin)
	pc := (nv - vmin) / (vmax - vmin)
	return tmin + pc*(tmax-tmin)
}

// Approach moves current toward target by (target-current)*dt*k.
// It is a per-frame low-pass filter, not an integrated velocity.
func Approach(current, target, dt, k float64) float64 {
	return current + (target-current)*dt*k
}

// WrapAngle subtracts one full turn once angle exceeds 2π.
// A single subtraction is enough for per-frame increments.
func WrapAngle(angle float64) float64 {
	if angle > 2*math.Pi {
		angle -= 2 * math.Pi
	}
	return angle
}
