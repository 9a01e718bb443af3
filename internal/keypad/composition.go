package keypad

import "errors"

// MaxComposition bounds every composition.
const MaxComposition = 40

var ErrCompositionFull = errors.New("keypad: composition full")

// Composition is an append/delete-only line of text with the cursor pinned
// to the end.
type Composition struct {
	buf [MaxComposition]byte
	n   int
	max int
}

func NewComposition(max int) Composition {
	if max <= 0 || max > MaxComposition {
		max = MaxComposition
	}
	return Composition{max: max}
}

func (c *Composition) Len() int { return c.n }
func (c *Composition) Max() int { return c.max }

func (c *Composition) Full() bool { return c.n >= c.max }

func (c *Composition) Append(ch byte) error {
	if c.Full() {
		return ErrCompositionFull
	}
	c.buf[c.n] = ch
	c.n++
	return nil
}

func (c *Composition) ReplaceLast(ch byte) bool {
	if c.n == 0 {
		return false
	}
	c.buf[c.n-1] = ch
	return true
}

func (c *Composition) DeleteLast() bool {
	if c.n == 0 {
		return false
	}
	c.n--
	c.buf[c.n] = 0
	return true
}

// First returns the leading character, if any.
func (c *Composition) First() (byte, bool) {
	if c.n == 0 {
		return 0, false
	}
	return c.buf[0], true
}

func (c *Composition) Clear() {
	for i := 0; i < c.n; i++ {
		c.buf[i] = 0
	}
	c.n = 0
}

func (c *Composition) String() string {
	return string(c.buf[:c.n])
}
