package peer

// Accumulator rebuilds frames from a byte stream, one byte at a time. It is
// owned by a single consumer.
type Accumulator struct {
	limits   Limits
	buf      []byte
	n        int
	overflow bool
	frames   uint64
	dropped  uint64
}

func NewAccumulator(limits Limits) *Accumulator {
	return &Accumulator{
		limits: limits,
		buf:    make([]byte, limits.FrameSize()),
	}
}

// Feed consumes one byte. It returns a message when a terminator closes a
// frame or when the buffer fills. A frame that filled the buffer is decoded
// once; its remaining bytes up to the terminator are discarded.
func (a *Accumulator) Feed(b byte) (Message, bool) {
	if b == Terminator {
		if a.overflow {
			a.overflow = false
			return Message{}, false
		}
		return a.flush(), true
	}
	if a.overflow {
		a.dropped++
		return Message{}, false
	}
	a.buf[a.n] = b
	a.n++
	if a.n == len(a.buf) {
		a.overflow = true
		return a.flush(), true
	}
	return Message{}, false
}

func (a *Accumulator) flush() Message {
	m := Decode(a.buf[:a.n], a.limits)
	for i := 0; i < a.n; i++ {
		a.buf[i] = 0
	}
	a.n = 0
	a.frames++
	return m
}

// Pending reports whether a partial frame is buffered.
func (a *Accumulator) Pending() bool {
	return a.n > 0
}

func (a *Accumulator) Frames() uint64  { return a.frames }
func (a *Accumulator) Dropped() uint64 { return a.dropped }
