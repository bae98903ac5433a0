package object

import (
	"math"
	"testing"
)

func TestPoolPrewarm(t *testing.T) {
	p := NewPool(3, NewCoin)
	if p.Created() != 3 || p.Free() != 3 {
		t.Fatalf("created=%d free=%d, want 3/3", p.Created(), p.Free())
	}
	for i := 0; i < 3; i++ {
		if c := p.Get(); c.Free() {
			t.Fatal("value handed out while still marked free")
		}
	}
	if p.Created() != 3 {
		t.Errorf("pre-warmed values should be reused, created=%d", p.Created())
	}

	// Empty pool grows.
	p.Get()
	if p.Created() != 4 || p.Free() != 0 {
		t.Errorf("created=%d free=%d, want 4/0", p.Created(), p.Free())
	}
}

func TestPoolPutFrontGetBack(t *testing.T) {
	p := NewPool(2, NewEnemy)
	a := p.Get()
	b := p.Get()

	p.Put(a)
	p.Put(b)
	// Free list is now [b, a]; Get takes from the back.
	if got := p.Get(); got != a {
		t.Error("expected the earliest returned value first")
	}
	if got := p.Get(); got != b {
		t.Error("expected the latest returned value last")
	}
}

func TestPoolDoublePut(t *testing.T) {
	p := NewPool(0, NewParticle)
	v := p.Get()
	if !p.Put(v) {
		t.Fatal("first Put should succeed")
	}
	if p.Put(v) {
		t.Fatal("second Put should be rejected")
	}
	if p.Free() != 1 {
		t.Errorf("free = %d, want 1", p.Free())
	}
}

func TestTween(t *testing.T) {
	tw := Tween{From: 10, To: 20, Delay: 0.5, Duration: 1, Ease: Linear}
	if got := tw.At(0.25); got != 10 {
		t.Errorf("before delay = %v, want 10", got)
	}
	if got := tw.At(1); math.Abs(got-15) > 1e-9 {
		t.Errorf("halfway = %v, want 15", got)
	}
	if got := tw.At(5); got != 20 {
		t.Errorf("after end = %v, want 20", got)
	}
	if tw.Done(1.49) || !tw.Done(1.5) {
		t.Error("Done should flip at delay+duration")
	}

	if got := Power2Out(0.5); math.Abs(got-0.875) > 1e-9 {
		t.Errorf("Power2Out(0.5) = %v", got)
	}
	if got := Power1Out(0.5); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Power1Out(0.5) = %v", got)
	}
}
