package input

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int
		want       Pointer
	}{
		{"top left", 1, 1, 10, 10, Pointer{X: -0.9, Y: 0.9}},
		{"bottom right", 10, 10, 10, 10, Pointer{X: 0.9, Y: -0.9}},
		{"beyond edge clamps", 50, 50, 10, 10, Pointer{X: 1, Y: -1}},
		{"zero size", 1, 1, 0, 0, Pointer{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.x, tt.y, tt.w, tt.h)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("Normalize = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseMouseMotionAndRelease(t *testing.T) {
	s := newStream()
	s.SetSize(10, 10)

	in := s.parse([]byte("\x1b[<35;10;1M"))
	if !in.Moved || in.Release() {
		t.Fatalf("motion report: %+v", in)
	}
	if !near(in.Pointer.X, 0.9) || !near(in.Pointer.Y, 0.9) {
		t.Errorf("pointer = %+v", in.Pointer)
	}

	in = s.parse([]byte("\x1b[<0;10;1m"))
	if in.Releases != 1 {
		t.Errorf("releases = %d, want 1", in.Releases)
	}
	if in.Moved {
		t.Error("release at the same cell should not move the pointer")
	}
}

func TestParseSplitSequence(t *testing.T) {
	s := newStream()
	s.SetSize(10, 10)

	in := s.parse([]byte("\x1b[<0;5"))
	if in.Moved || in.Release() {
		t.Fatalf("partial report produced events: %+v", in)
	}
	if len(s.pending) == 0 {
		t.Fatal("partial report was not kept")
	}

	buf := append(s.pending, []byte(";5m")...)
	s.pending = nil
	in = s.parse(buf)
	if in.Releases != 1 || !in.Moved {
		t.Errorf("completed report: %+v", in)
	}
}

func TestKeys(t *testing.T) {
	s := newStream()

	in := s.parse([]byte("dd\x1b[A"))
	if !near(in.Pointer.X, 0.2) || !near(in.Pointer.Y, 0.1) {
		t.Errorf("pointer after nudges = %+v", in.Pointer)
	}

	in = s.parse([]byte(" \r"))
	if in.Releases != 2 {
		t.Errorf("releases = %d, want 2", in.Releases)
	}

	for i := 0; i < 30; i++ {
		s.parse([]byte("a"))
	}
	if s.Pointer().X != -1 {
		t.Errorf("pointer x = %v, want clamped -1", s.Pointer().X)
	}

	if in = s.parse([]byte("q")); !in.Quit {
		t.Error("q should quit")
	}
}

func TestMalformedMouseIsDropped(t *testing.T) {
	s := newStream()
	in := s.parse([]byte("\x1b[<0;x;1Mq"))
	if !in.Quit {
		t.Error("bytes after a malformed report should still be parsed")
	}
	if in.Release() {
		t.Error("malformed report should not release")
	}
}

func TestStreamClosedQuits(t *testing.T) {
	s := StartStream(strings.NewReader(" "))
	deadline := time.Now().Add(time.Second)
	releases := 0
	for time.Now().Before(deadline) {
		in := ReadInput(s)
		releases += in.Releases
		if in.Quit {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !s.Closed() {
		t.Fatal("stream should report closed after EOF")
	}
	if releases != 1 {
		t.Errorf("releases = %d, want 1", releases)
	}
}

func TestMouseModeSequences(t *testing.T) {
	var buf bytes.Buffer
	EnableMouse(&buf)
	if !strings.Contains(buf.String(), "?1006h") {
		t.Errorf("enable = %q", buf.String())
	}
	buf.Reset()
	DisableMouse(&buf)
	if !strings.Contains(buf.String(), "?1006l") {
		t.Errorf("disable = %q", buf.String())
	}
}
