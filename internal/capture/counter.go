package capture

import (
	"errors"
	"fmt"
)

// DefaultTicksPerMicro is the 80 MHz core clock expressed per microsecond.
const DefaultTicksPerMicro = 80

// DefaultModulus is the period of a 24-bit SysTick down-counter.
const DefaultModulus = 1 << 24

var ErrInvalidCounter = errors.New("capture: invalid counter")

// Counter describes a free-running periodic down-counter.
type Counter struct {
	Modulus       uint32
	TicksPerMicro uint32
}

func DefaultCounter() Counter {
	return Counter{
		Modulus:       DefaultModulus,
		TicksPerMicro: DefaultTicksPerMicro,
	}
}

func (c Counter) Validate() error {
	if c.Modulus < 2 {
		return fmt.Errorf("%w: modulus %d", ErrInvalidCounter, c.Modulus)
	}
	if c.TicksPerMicro == 0 {
		return fmt.Errorf("%w: ticks_per_micro is zero", ErrInvalidCounter)
	}
	return nil
}

// Delta returns the ticks elapsed from prev to now on a counter that counts
// down and reloads at Modulus-1.
func (c Counter) Delta(prev, now uint32) uint32 {
	m := uint64(c.Modulus)
	return uint32((uint64(prev%c.Modulus) + m - uint64(now%c.Modulus)) % m)
}

func (c Counter) Micros(ticks uint32) uint32 {
	return ticks / c.TicksPerMicro
}

// Ticks is the inverse of Micros, clamped to one counter period.
func (c Counter) Ticks(micros uint32) uint32 {
	t := uint64(micros) * uint64(c.TicksPerMicro)
	if t >= uint64(c.Modulus) {
		return c.Modulus - 1
	}
	return uint32(t)
}
