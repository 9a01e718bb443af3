package capture

import (
	"fmt"
	"sync/atomic"
)

// Ring is a bounded single-producer/single-consumer queue. Push must only be
// called from one goroutine (the interrupt side) and Pop from one other
// goroutine (the main loop). A full ring rejects new items rather than
// overwriting queued ones.
type Ring[T any] struct {
	buf  []T
	mask uint64
	head atomic.Uint64 // next slot to pop
	tail atomic.Uint64 // next slot to push
}

// NewRing allocates a ring holding size items; size must be a power of two.
func NewRing[T any](size int) (*Ring[T], error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("capture: ring size %d is not a power of two", size)
	}
	return &Ring[T]{
		buf:  make([]T, size),
		mask: uint64(size - 1),
	}, nil
}

func (r *Ring[T]) Push(v T) bool {
	tail := r.tail.Load()
	if tail-r.head.Load() == uint64(len(r.buf)) {
		return false
	}
	r.buf[tail&r.mask] = v
	r.tail.Store(tail + 1)
	return true
}

func (r *Ring[T]) Pop() (T, bool) {
	var zero T
	head := r.head.Load()
	if head == r.tail.Load() {
		return zero, false
	}
	v := r.buf[head&r.mask]
	r.buf[head&r.mask] = zero
	r.head.Store(head + 1)
	return v, true
}

func (r *Ring[T]) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

func (r *Ring[T]) Cap() int {
	return len(r.buf)
}
