package physics

import (
	"math"
	"testing"
)

const eps = 1e-9

func almost(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name                      string
		v, vmin, vmax, tmin, tmax float64
		want                      float64
	}{
		{"midpoint", 0, -1, 1, 0, 100, 50},
		{"lower bound", -1, -1, 1, 40, 80, 40},
		{"upper bound", 1, -1, 1, 40, 80, 80},
		{"below range clamps", -5, -1, 1, 40, 80, 40},
		{"above range clamps", 5, -1, 1, 40, 80, 80},
		{"asymmetric target", 0.25, -0.5, 0.5, 1.2, 1.6, 1.5},
		{"inverted target", 0, -1, 1, 10, -10, 0},
		{"plane x", 1, -1, 1, -52.5, 75, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.v, tt.vmin, tt.vmax, tt.tmin, tt.tmax)
			if !almost(got, tt.want) {
				t.Errorf("Normalize(%v, %v, %v, %v, %v) = %v, want %v",
					tt.v, tt.vmin, tt.vmax, tt.tmin, tt.tmax, got, tt.want)
			}
		})
	}
}

// Out-of-range input must land on the remapped bound, which only holds
// when clamping happens before the lerp.
func TestNormalizeClampsBeforeLerp(t *testing.T) {
	for _, v := range []float64{-100, -1.0001, -0.75} {
		if got := Normalize(v, -0.75, 0.75, 20, 180); !almost(got, 20) {
			t.Errorf("Normalize(%v) = %v, want lower bound 20", v, got)
		}
	}
	for _, v := range []float64{0.75, 0.76, 42} {
		if got := Normalize(v, -0.75, 0.75, 20, 180); !almost(got, 180) {
			t.Errorf("Normalize(%v) = %v, want upper bound 180", v, got)
		}
	}
}

func TestApproachConverges(t *testing.T) {
	x := 0.0
	for i := 0; i < 500; i++ {
		x = Approach(x, 10, 16, 0.005)
	}
	if math.Abs(x-10) > 1e-6 {
		t.Fatalf("Approach did not converge: %v", x)
	}

	// A single step moves the expected fraction of the gap.
	if got := Approach(0, 100, 10, 0.02); !almost(got, 20) {
		t.Errorf("Approach step = %v, want 20", got)
	}
}

func TestWrapAngle(t *testing.T) {
	if got := WrapAngle(1); got != 1 {
		t.Errorf("WrapAngle(1) = %v", got)
	}
	if got := WrapAngle(2*math.Pi + 0.5); !almost(got, 0.5) {
		t.Errorf("WrapAngle(2π+0.5) = %v, want 0.5", got)
	}
	// Exactly 2π is not wrapped.
	if got := WrapAngle(2 * math.Pi); got != 2*math.Pi {
		t.Errorf("WrapAngle(2π) = %v", got)
	}
}

func TestRingPosition(t *testing.T) {
	p := RingPosition(math.Pi/2, 700, 600)
	if math.Abs(p.X) > 1e-9 {
		t.Errorf("x = %v, want 0", p.X)
	}
	if math.Abs(p.Y-100) > 1e-9 {
		t.Errorf("y = %v, want 100", p.Y)
	}

	p = RingPosition(0, 700, 600)
	if p.X != 700 || p.Y != -600 {
		t.Errorf("RingPosition(0) = %+v", p)
	}
}

func TestWithin(t *testing.T) {
	a := Vec2{X: 0, Y: 0}
	if !Within(a, Vec2{X: 3, Y: 4}, 5.1) {
		t.Error("distance 5 should be within 5.1")
	}
	if Within(a, Vec2{X: 3, Y: 4}, 5) {
		t.Error("distance 5 should not be strictly within 5")
	}
	if got := (Vec2{X: 6, Y: 8}).Sub(Vec2{X: 3, Y: 4}).Len(); !almost(got, 5) {
		t.Errorf("Len = %v", got)
	}
}
