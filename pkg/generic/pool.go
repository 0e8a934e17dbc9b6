// Package generic provides small type-parameterized utilities.
package generic

import (
	"runtime"
	"sync"
)

// Pool is a typed wrapper around sync.Pool.
type Pool[T any] struct {
	pool sync.Pool
}

// NewPool creates a pool that produces new values with generate.
func NewPool[T any](generate func() T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return generate()
			},
		},
	}
}

// NewHotPool creates a pool pre-filled with hotSize values.
func NewHotPool[T any](generate func() T, hotSize int) *Pool[T] {
	p := NewPool[T](generate)
	for i := 0; i < hotSize; i++ {
		p.pool.Put(generate())
	}
	return p
}

// Get takes a value from the pool, producing a fresh one if empty.
func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

// Put returns a value to the pool.
func (p *Pool[T]) Put(value T) {
	p.pool.Put(value)
}

// SlicePool pools slices with a shared base capacity on top of Pool. Get
// returns a zeroed slice of the requested length; Put recycles the backing
// array.
type SlicePool[T any] struct {
	pool *Pool[*[]T]
}

// NewSlicePool creates a pool of slices with the given base capacity. A few
// buffers are pre-filled so the first concurrent burst does not allocate.
func NewSlicePool[T any](capacity int) *SlicePool[T] {
	if capacity < 1 {
		capacity = 1
	}
	generate := func() *[]T {
		s := make([]T, 0, capacity)
		return &s
	}
	return &SlicePool[T]{pool: NewHotPool(generate, 2*runtime.GOMAXPROCS(0))}
}

// Get returns a zeroed slice of length n.
func (p *SlicePool[T]) Get(n int) []T {
	sp := p.pool.Get()
	s := *sp
	if cap(s) < n {
		s = make([]T, n)
	} else {
		s = s[:n]
		var zero T
		for i := range s {
			s[i] = zero
		}
	}
	*sp = s
	return s
}

// Put recycles the slice's backing array.
func (p *SlicePool[T]) Put(s []T) {
	if cap(s) == 0 {
		return
	}
	s = s[:0]
	p.pool.Put(&s)
}
