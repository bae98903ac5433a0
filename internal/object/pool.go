package object

import "slices"

// Member records whether a pooled value currently sits in its free list.
// It is embedded (through Entity) by every pooled type.
type Member struct {
	free bool
}

// Free reports whether the value is in its pool's free list.
func (m *Member) Free() bool {
	return m.free
}

func (m *Member) membership() *Member {
	return m
}

// Poolable is implemented by pointer types embedding Member.
type Poolable interface {
	membership() *Member
}

// Pool recycles entity instances instead of reallocating them. Values are
// never destroyed once constructed. Put inserts at the front and Get takes
// from the back, so pre-warmed instances are handed out before returned
// ones. The pool has no cap and grows when spawning outpaces retirement.
type Pool[T Poolable] struct {
	free    []T
	newFn   func() T
	created int
}

// NewPool creates a pool pre-filled with n instances built by newFn.
func NewPool[T Poolable](n int, newFn func() T) *Pool[T] {
	p := &Pool[T]{
		free:  make([]T, 0, n),
		newFn: newFn,
	}
	for i := 0; i < n; i++ {
		v := newFn()
		v.membership().free = true
		p.free = append(p.free, v)
		p.created++
	}
	return p
}

// Get pops a free instance, constructing a new one when the pool is empty.
func (p *Pool[T]) Get() T {
	var v T
	if n := len(p.free); n > 0 {
		v = p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
	} else {
		v = p.newFn()
		p.created++
	}
	v.membership().free = false
	return v
}

// Put returns v to the front of the free list. Returning a value that is
// already free is a no-op and reports false.
func (p *Pool[T]) Put(v T) bool {
	m := v.membership()
	if m.free {
		return false
	}
	m.free = true
	p.free = slices.Insert(p.free, 0, v)
	return true
}

// Free returns the number of instances waiting for reuse.
func (p *Pool[T]) Free() int {
	return len(p.free)
}

// Created returns how many instances this pool has ever constructed.
func (p *Pool[T]) Created() int {
	return p.created
}
