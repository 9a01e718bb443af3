package peer

import (
	"bytes"
	"errors"
	"io"
)

const (
	Separator  byte = '~'
	Terminator byte = 0x00
)

const (
	MaxUsername  = 16
	MaxColorName = 16
	MaxBody      = 40
)

var ErrFrameTooLarge = errors.New("peer: frame too large")

// Limits bounds each field. Decode truncates to these; Encode does not check
// them so the sender decides what it puts on the wire.
type Limits struct {
	Username  int
	ColorName int
	Body      int
}

func DefaultLimits() Limits {
	return Limits{
		Username:  MaxUsername,
		ColorName: MaxColorName,
		Body:      MaxBody,
	}
}

// FrameSize is the largest encoded frame, terminator excluded.
func (l Limits) FrameSize() int {
	return l.Username + l.ColorName + l.Body + 2
}

// Message is one peer text message.
type Message struct {
	Username string
	Color    string
	Body     string
}

// Encode joins the fields with Separator. The terminator is not included.
func Encode(m Message) []byte {
	out := make([]byte, 0, len(m.Username)+len(m.Color)+len(m.Body)+2)
	out = append(out, m.Username...)
	out = append(out, Separator)
	out = append(out, m.Color...)
	out = append(out, Separator)
	out = append(out, m.Body...)
	return out
}

// Decode splits b on the first two separators. Missing trailing fields are
// empty and every field is truncated to limits. Anything from the first
// terminator on is ignored.
func Decode(b []byte, limits Limits) Message {
	if i := bytes.IndexByte(b, Terminator); i >= 0 {
		b = b[:i]
	}
	var fields [3][]byte
	rest := b
	for i := 0; i < 2; i++ {
		j := bytes.IndexByte(rest, Separator)
		if j < 0 {
			fields[i] = rest
			rest = nil
			break
		}
		fields[i] = rest[:j]
		rest = rest[j+1:]
		if i == 1 {
			fields[2] = rest
		}
	}
	return Message{
		Username: clip(fields[0], limits.Username),
		Color:    clip(fields[1], limits.ColorName),
		Body:     clip(fields[2], limits.Body),
	}
}

func clip(b []byte, n int) string {
	if n >= 0 && len(b) > n {
		b = b[:n]
	}
	return string(b)
}

// WriteFrame writes m followed by the terminator.
func WriteFrame(w io.Writer, m Message, limits Limits) error {
	frame := Encode(m)
	if len(frame) > limits.FrameSize() {
		return ErrFrameTooLarge
	}
	frame = append(frame, Terminator)
	_, err := w.Write(frame)
	return err
}
