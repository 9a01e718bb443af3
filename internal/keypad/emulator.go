package keypad

import (
	"errors"
	"fmt"
)

// DefaultCycleWindow is the multi-tap window in coarse ticks.
const DefaultCycleWindow = 5

var ErrInvalidConfig = errors.New("keypad: invalid config")

type Config struct {
	// CycleWindow is measured in the periodic tick unit, not microseconds.
	CycleWindow uint32
	MaxLength   int
	Trigger     byte
}

func DefaultConfig() Config {
	return Config{
		CycleWindow: DefaultCycleWindow,
		MaxLength:   MaxComposition,
		Trigger:     DefaultTrigger,
	}
}

func (c Config) Validate() error {
	if c.MaxLength <= 0 || c.MaxLength > MaxComposition {
		return fmt.Errorf("%w: max_length %d not in (0,%d]", ErrInvalidConfig, c.MaxLength, MaxComposition)
	}
	if c.Trigger == 0 {
		return fmt.Errorf("%w: trigger is the null byte", ErrInvalidConfig)
	}
	return nil
}

// KeyResult reports what HandleKey did to the composition.
type KeyResult int

const (
	KeyIgnored KeyResult = iota
	KeyAppended
	KeyCycled
	KeyDropped
)

func (r KeyResult) String() string {
	switch r {
	case KeyAppended:
		return "appended"
	case KeyCycled:
		return "cycled"
	case KeyDropped:
		return "dropped"
	default:
		return "ignored"
	}
}

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionMessage
	ActionCommand
)

// Action is the outcome of a send trigger.
type Action struct {
	Kind    ActionKind
	Body    string
	Command Command
	// Err is set when a command composition could not be executed.
	Err error
}

// Emulator is the multi-tap state machine.
type Emulator struct {
	layout *Layout
	cfg    Config
	comp   Composition

	lastCode uint16
	lastTick uint32
	hasLast  bool
	cycle    int
}

func NewEmulator(layout *Layout, cfg Config) (*Emulator, error) {
	if layout == nil {
		return nil, fmt.Errorf("%w: nil layout", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Emulator{
		layout: layout,
		cfg:    cfg,
		comp:   NewComposition(cfg.MaxLength),
	}, nil
}

// HandleKey applies one text key pressed at tick now.
func (e *Emulator) HandleKey(code uint16, now uint32) KeyResult {
	group, ok := e.layout.Group(code)
	if !ok {
		return KeyIgnored
	}

	same := e.hasLast && code == e.lastCode
	within := now-e.lastTick <= e.cfg.CycleWindow

	result := KeyDropped
	if same && within && e.comp.Len() > 0 {
		e.cycle = (e.cycle + 1) % len(group)
		e.comp.ReplaceLast(group[e.cycle])
		result = KeyCycled
	} else if e.comp.Append(group[0]) == nil {
		e.cycle = 0
		result = KeyAppended
	}

	e.lastCode = code
	e.lastTick = now
	// A dropped press never becomes the cycle reference.
	e.hasLast = result != KeyDropped
	return result
}

// HandleDelete removes the last character. The next key always starts a new
// character, even if it matches the key before the delete.
func (e *Emulator) HandleDelete() bool {
	e.hasLast = false
	e.cycle = 0
	return e.comp.DeleteLast()
}

// Send consumes the composition. A leading trigger character turns it into a
// local command; otherwise the text is returned for transmission. The
// composition is cleared whenever it was non-empty.
func (e *Emulator) Send() Action {
	defer e.reset()

	first, ok := e.comp.First()
	if !ok {
		return Action{Kind: ActionNone}
	}
	text := e.comp.String()
	if first != e.cfg.Trigger {
		return Action{Kind: ActionMessage, Body: text}
	}
	cmd, err := ParseCommand(text, e.cfg.Trigger)
	return Action{Kind: ActionCommand, Command: cmd, Err: err}
}

func (e *Emulator) reset() {
	e.comp.Clear()
	e.hasLast = false
	e.cycle = 0
}

func (e *Emulator) Composition() string {
	return e.comp.String()
}

func (e *Emulator) Len() int {
	return e.comp.Len()
}

func (e *Emulator) Layout() *Layout {
	return e.layout
}
