package capture

import (
	"errors"
	"testing"

	"github.com/danmuck/remotext/internal/testutil/testlog"
)

func TestCounterDeltaHandlesWrap(t *testing.T) {
	testlog.Start(t)

	c := DefaultCounter()
	cases := []struct {
		prev, now, want uint32
	}{
		{prev: 1000, now: 200, want: 800},
		{prev: 100, now: DefaultModulus - 100, want: 200},
		{prev: 0, now: DefaultModulus - 1, want: 1},
		{prev: 5, now: 5, want: 0},
	}
	for _, tc := range cases {
		if got := c.Delta(tc.prev, tc.now); got != tc.want {
			t.Fatalf("Delta(%d,%d) got=%d want=%d", tc.prev, tc.now, got, tc.want)
		}
	}
}

func TestCounterMicrosRoundTrip(t *testing.T) {
	testlog.Start(t)

	c := DefaultCounter()
	if got := c.Micros(c.Ticks(9500)); got != 9500 {
		t.Fatalf("unexpected micros: %d", got)
	}
	if got := c.Ticks(1 << 30); got != DefaultModulus-1 {
		t.Fatalf("expected clamp to one period, got %d", got)
	}
}

func TestCounterValidate(t *testing.T) {
	testlog.Start(t)

	if err := (Counter{Modulus: 1, TicksPerMicro: 80}).Validate(); !errors.Is(err, ErrInvalidCounter) {
		t.Fatalf("expected ErrInvalidCounter, got %v", err)
	}
	if err := (Counter{Modulus: 1 << 24}).Validate(); !errors.Is(err, ErrInvalidCounter) {
		t.Fatalf("expected ErrInvalidCounter, got %v", err)
	}
}
