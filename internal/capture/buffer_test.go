package capture

import (
	"errors"
	"testing"

	"github.com/danmuck/remotext/internal/testutil/testlog"
)

func newTestBuffer(t *testing.T, capacity, target int) *Buffer {
	t.Helper()
	buf, err := NewBuffer(BufferConfig{Counter: DefaultCounter(), Capacity: capacity, Target: target})
	if err != nil {
		t.Fatalf("new buffer: %v", err)
	}
	return buf
}

// feed drives OnEdge with a down-counter that advances by each interval.
func feed(buf *Buffer, start uint32, intervals ...uint32) uint32 {
	c := buf.Config().Counter
	raw := start
	for _, us := range intervals {
		ticks := c.Ticks(us)
		raw = uint32((uint64(raw) + uint64(c.Modulus) - uint64(ticks)) % uint64(c.Modulus))
		buf.OnEdge(raw)
	}
	return raw
}

func TestBufferBecomesReadyAtTarget(t *testing.T) {
	testlog.Start(t)

	buf := newTestBuffer(t, 8, 4)
	buf.Reset(5000)
	feed(buf, 5000, 100, 200, 300)
	if buf.Ready() {
		t.Fatalf("ready before target")
	}
	feed(buf, buf.last, 400)
	if !buf.Ready() {
		t.Fatalf("expected ready at target")
	}

	snap, ok := buf.Drain()
	if !ok {
		t.Fatalf("expected drain")
	}
	want := []uint32{100, 200, 300, 400}
	got := snap.Slice()
	if len(got) != len(want) {
		t.Fatalf("unexpected len: got=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("interval[%d] got=%d want=%d", i, got[i], want[i])
		}
	}
	if buf.Ready() {
		t.Fatalf("expected cleared after drain")
	}
	if _, ok := buf.Drain(); ok {
		t.Fatalf("expected second drain to report nothing")
	}
}

func TestBufferStopsMutatingUntilDrained(t *testing.T) {
	testlog.Start(t)

	buf := newTestBuffer(t, 4, 2)
	buf.Reset(0)
	raw := feed(buf, 0, 10, 20)
	raw = feed(buf, raw, 30, 40, 50)
	if buf.Dropped() != 3 {
		t.Fatalf("unexpected dropped count: %d", buf.Dropped())
	}
	snap, _ := buf.Drain()
	if snap.Len != 2 || snap.Intervals[0] != 10 || snap.Intervals[1] != 20 {
		t.Fatalf("window mutated after ready: %+v", snap.Slice())
	}

	// the last timestamp kept advancing, so the next interval is measured
	// from the most recent edge rather than the last stored one
	feed(buf, raw, 60)
	buf.ready.Store(true)
	snap, _ = buf.Drain()
	if snap.Len != 1 || snap.Intervals[0] != 60 {
		t.Fatalf("unexpected interval after drain: %+v", snap.Slice())
	}
}

func TestBufferWrapAroundInterval(t *testing.T) {
	testlog.Start(t)

	buf := newTestBuffer(t, 4, 1)
	buf.Reset(80 * 10)
	buf.OnEdge(DefaultModulus - 80*90)
	snap, ok := buf.Drain()
	if !ok || snap.Intervals[0] != 100 {
		t.Fatalf("unexpected wrapped interval: %+v ok=%v", snap.Slice(), ok)
	}
}

func TestBufferConfigValidate(t *testing.T) {
	testlog.Start(t)

	if _, err := NewBuffer(BufferConfig{Counter: DefaultCounter(), Capacity: 65, Target: 50}); !errors.Is(err, ErrInvalidBuffer) {
		t.Fatalf("expected ErrInvalidBuffer for capacity, got %v", err)
	}
	if _, err := NewBuffer(BufferConfig{Counter: DefaultCounter(), Capacity: 10, Target: 11}); !errors.Is(err, ErrInvalidBuffer) {
		t.Fatalf("expected ErrInvalidBuffer for target, got %v", err)
	}
	if err := DefaultBufferConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
