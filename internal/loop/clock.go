package loop

import (
	"sync"
	"time"
)

// TimeProvider supplies the current time.
type TimeProvider interface {
	Now() time.Time
}

type realTime struct{}

func (realTime) Now() time.Time { return time.Now() }

// RealTime is the wall clock.
var RealTime TimeProvider = realTime{}

// MockTime is a manually advanced TimeProvider for tests.
type MockTime struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockTime starts a mock clock at start.
func NewMockTime(start time.Time) *MockTime {
	return &MockTime{now: start}
}

func (m *MockTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the mock clock forward by d.
func (m *MockTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Clock measures the time between frames.
type Clock struct {
	time TimeProvider
	last time.Time
}

// NewClock creates a clock reading from tp, or the wall clock when tp is nil.
func NewClock(tp TimeProvider) *Clock {
	if tp == nil {
		tp = RealTime
	}
	return &Clock{time: tp}
}

// Tick returns the time since the previous Tick. The first call returns 0.
func (c *Clock) Tick() time.Duration {
	now := c.time.Now()
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	d := now.Sub(c.last)
	c.last = now
	return d
}

// Now returns the provider's current time.
func (c *Clock) Now() time.Time {
	return c.time.Now()
}
