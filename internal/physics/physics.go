// Package physics provides the proximity checks and analog mapping
// primitives used by the simulation. There is no collision resolution:
// entities only test distance thresholds against the plane.
package physics

import "math"

// Vec2 is a point or offset in world space.
type Vec2 struct {
	X, Y float64
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// Within reports whether a and b are strictly closer than tolerance.
func Within(a, b Vec2, tolerance float64) bool {
	return DistanceSquared(a.X, a.Y, b.X, b.Y) < tolerance*tolerance
}

// RingPosition converts a polar ring placement into world coordinates.
// The ring is centered seaRadius below the origin.
func RingPosition(angle, distance, seaRadius float64) Vec2 {
	return Vec2{
		X: math.Cos(angle) * distance,
		Y: math.Sin(angle)*distance - seaRadius,
	}
}
