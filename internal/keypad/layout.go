package keypad

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/remotext/internal/peer"
)

// Command codes of the calibrated remote.
const (
	Button1    uint16 = 0b0001000001101111
	Button2    uint16 = 0b0101000000101111
	Button3    uint16 = 0b0011000001001111
	Button4    uint16 = 0b0000100001110111
	Button5    uint16 = 0b0100100000110111
	Button6    uint16 = 0b0010100001010111
	Button7    uint16 = 0b0001100001100111
	Button8    uint16 = 0b0101100000100111
	Button9    uint16 = 0b0011100001000111
	Button0    uint16 = 0b0100010000111011
	ButtonLast uint16 = 0b0110010000011011
	ButtonMute uint16 = 0b0111100000000111
)

var (
	ErrInvalidLayout = errors.New("keypad: invalid layout")
	ErrUnknownButton = errors.New("keypad: unknown button")
)

// Group is the ordered set of characters one key cycles through.
type Group string

// Button binds a named remote button to its command code. Chars is empty for
// non-text buttons.
type Button struct {
	Name  string
	Code  uint16
	Chars Group
}

// Key classifies a command code for the main loop.
type Key int

const (
	KeyNone Key = iota
	KeyText
	KeyDelete
	KeySend
)

func (k Key) String() string {
	switch k {
	case KeyText:
		return "text"
	case KeyDelete:
		return "delete"
	case KeySend:
		return "send"
	default:
		return "none"
	}
}

// Layout is an exact-match table of known buttons.
type Layout struct {
	buttons []Button
	byCode  map[uint16]Button
	byName  map[string]Button
	delete  uint16
	send    uint16
}

// DefaultButtons is the factory table: MUTE sends, LAST deletes.
func DefaultButtons() []Button {
	return []Button{
		{Name: "1", Code: Button1, Chars: "/.,?!"},
		{Name: "2", Code: Button2, Chars: "abc"},
		{Name: "3", Code: Button3, Chars: "def"},
		{Name: "4", Code: Button4, Chars: "ghi"},
		{Name: "5", Code: Button5, Chars: "jkl"},
		{Name: "6", Code: Button6, Chars: "mno"},
		{Name: "7", Code: Button7, Chars: "pqrs"},
		{Name: "8", Code: Button8, Chars: "tuv"},
		{Name: "9", Code: Button9, Chars: "wxyz"},
		{Name: "0", Code: Button0, Chars: " "},
		{Name: "last", Code: ButtonLast},
		{Name: "mute", Code: ButtonMute},
	}
}

func DefaultLayout() *Layout {
	l, err := NewLayout(DefaultButtons(), ButtonLast, ButtonMute)
	if err != nil {
		panic(err)
	}
	return l
}

// NewLayout indexes buttons. Codes and names must be unique; the delete and
// send codes must be known buttons without characters.
func NewLayout(buttons []Button, deleteCode, sendCode uint16) (*Layout, error) {
	l := &Layout{
		buttons: make([]Button, 0, len(buttons)),
		byCode:  make(map[uint16]Button, len(buttons)),
		byName:  make(map[string]Button, len(buttons)),
		delete:  deleteCode,
		send:    sendCode,
	}
	for i, b := range buttons {
		name := strings.ToLower(strings.TrimSpace(b.Name))
		if name == "" {
			return nil, fmt.Errorf("%w: button[%d] missing name", ErrInvalidLayout, i)
		}
		if _, dup := l.byCode[b.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate code 0x%04X", ErrInvalidLayout, b.Code)
		}
		if _, dup := l.byName[name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidLayout, name)
		}
		if err := checkChars(b.Chars); err != nil {
			return nil, fmt.Errorf("%w: button %q: %v", ErrInvalidLayout, name, err)
		}
		b.Name = name
		l.buttons = append(l.buttons, b)
		l.byCode[b.Code] = b
		l.byName[name] = b
	}
	if deleteCode == sendCode {
		return nil, fmt.Errorf("%w: delete and send share code 0x%04X", ErrInvalidLayout, sendCode)
	}
	for _, code := range []uint16{deleteCode, sendCode} {
		b, ok := l.byCode[code]
		if !ok {
			return nil, fmt.Errorf("%w: control code 0x%04X has no button", ErrInvalidLayout, code)
		}
		if b.Chars != "" {
			return nil, fmt.Errorf("%w: control button %q must not carry characters", ErrInvalidLayout, b.Name)
		}
	}
	return l, nil
}

// Classify resolves a command code. Unmapped codes are KeyNone.
func (l *Layout) Classify(code uint16) Key {
	switch code {
	case l.delete:
		return KeyDelete
	case l.send:
		return KeySend
	}
	if b, ok := l.byCode[code]; ok && b.Chars != "" {
		return KeyText
	}
	return KeyNone
}

func (l *Layout) Group(code uint16) (Group, bool) {
	b, ok := l.byCode[code]
	if !ok || b.Chars == "" {
		return "", false
	}
	return b.Chars, true
}

// Lookup finds a button by name ("2", "mute").
func (l *Layout) Lookup(name string) (Button, error) {
	b, ok := l.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Button{}, fmt.Errorf("%w: %q", ErrUnknownButton, name)
	}
	return b, nil
}

func (l *Layout) ByCode(code uint16) (Button, bool) {
	b, ok := l.byCode[code]
	return b, ok
}

func (l *Layout) Buttons() []Button {
	out := make([]Button, len(l.buttons))
	copy(out, l.buttons)
	return out
}

func (l *Layout) DeleteCode() uint16 { return l.delete }
func (l *Layout) SendCode() uint16   { return l.send }

// checkChars accepts printable ASCII only, minus the peer field separator.
// Groups are indexed by byte and sent verbatim on the wire.
func checkChars(g Group) error {
	for i := 0; i < len(g); i++ {
		c := g[i]
		switch {
		case c < 0x20 || c > 0x7E:
			return fmt.Errorf("byte 0x%02X at %d is not printable ascii", c, i)
		case c == peer.Separator:
			return fmt.Errorf("separator %q is reserved", peer.Separator)
		}
	}
	return nil
}
