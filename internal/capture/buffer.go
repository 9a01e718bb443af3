package capture

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// MaxCapacity bounds every Buffer and Snapshot.
const MaxCapacity = 64

const (
	DefaultCapacity = MaxCapacity
	DefaultTarget   = 50
)

var ErrInvalidBuffer = errors.New("capture: invalid buffer config")

// BufferConfig sizes one edge capture buffer.
type BufferConfig struct {
	Counter  Counter
	Capacity int
	Target   int
}

func DefaultBufferConfig() BufferConfig {
	return BufferConfig{
		Counter:  DefaultCounter(),
		Capacity: DefaultCapacity,
		Target:   DefaultTarget,
	}
}

func (c BufferConfig) Validate() error {
	if err := c.Counter.Validate(); err != nil {
		return err
	}
	if c.Capacity <= 0 || c.Capacity > MaxCapacity {
		return fmt.Errorf("%w: capacity %d not in (0,%d]", ErrInvalidBuffer, c.Capacity, MaxCapacity)
	}
	if c.Target <= 0 || c.Target > c.Capacity {
		return fmt.Errorf("%w: target %d not in (0,%d]", ErrInvalidBuffer, c.Target, c.Capacity)
	}
	return nil
}

// Snapshot is an immutable copy of one capture window.
type Snapshot struct {
	Intervals [MaxCapacity]uint32
	Len       int
}

// Slice returns the captured intervals in capture order. The result aliases s.
func (s *Snapshot) Slice() []uint32 {
	return s.Intervals[:s.Len]
}

// Buffer records microsecond intervals between edges. OnEdge is the only
// writer and runs in interrupt context; Drain is called by the consumer once
// Ready reports true.
type Buffer struct {
	cfg       BufferConfig
	intervals [MaxCapacity]uint32
	count     int
	last      uint32
	ready     atomic.Bool
	dropped   atomic.Uint64
}

func NewBuffer(cfg BufferConfig) (*Buffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Buffer{cfg: cfg}, nil
}

// Reset seeds the last timestamp, e.g. with the counter value at start-up.
func (b *Buffer) Reset(raw uint32) {
	b.last = raw
	b.count = 0
	b.ready.Store(false)
}

// OnEdge timestamps one edge. The last timestamp always advances; the
// interval is kept only while the window is open.
func (b *Buffer) OnEdge(raw uint32) {
	delta := b.cfg.Counter.Delta(b.last, raw)
	b.last = raw
	if b.ready.Load() {
		b.dropped.Add(1)
		return
	}

	us := b.cfg.Counter.Micros(delta)
	if b.count < b.cfg.Target && b.count < b.cfg.Capacity {
		b.intervals[b.count] = us
		b.count++
	} else {
		b.dropped.Add(1)
	}

	if b.count >= b.cfg.Target {
		b.ready.Store(true)
	}
}

// Ready reports whether a full capture window is waiting to be drained.
func (b *Buffer) Ready() bool {
	return b.ready.Load()
}

// Drain copies out the captured window and clears the buffer. It returns
// false when no window is ready.
func (b *Buffer) Drain() (Snapshot, bool) {
	if !b.ready.Load() {
		return Snapshot{}, false
	}
	var s Snapshot
	s.Len = copy(s.Intervals[:], b.intervals[:b.count])
	for i := range b.intervals {
		b.intervals[i] = 0
	}
	b.count = 0
	b.ready.Store(false)
	return s, true
}

// Dropped is the number of edges that arrived while the window was closed.
func (b *Buffer) Dropped() uint64 {
	return b.dropped.Load()
}

func (b *Buffer) Config() BufferConfig {
	return b.cfg
}
