package remote

import (
	"context"
	"errors"

	"github.com/danmuck/remotext/internal/keypad"
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
)

var ErrQuit = errors.New("remote: quit requested")

// Bindings maps terminal keys to button names.
type Bindings struct {
	Runes map[rune]string
	Keys  map[tcell.Key]string
}

// DefaultBindings binds digits to the digit buttons, Backspace to the
// layout's delete button and Enter to its send button.
func DefaultBindings(l *keypad.Layout) Bindings {
	b := Bindings{
		Runes: make(map[rune]string, 10),
		Keys:  make(map[tcell.Key]string, 4),
	}
	for r := '0'; r <= '9'; r++ {
		if _, err := l.Lookup(string(r)); err == nil {
			b.Runes[r] = string(r)
		}
	}
	if del, ok := l.ByCode(l.DeleteCode()); ok {
		b.Keys[tcell.KeyBackspace] = del.Name
		b.Keys[tcell.KeyBackspace2] = del.Name
		b.Keys[tcell.KeyDelete] = del.Name
	}
	if send, ok := l.ByCode(l.SendCode()); ok {
		b.Keys[tcell.KeyEnter] = send.Name
	}
	return b
}

func (b Bindings) resolve(ev *tcell.EventKey) (string, bool) {
	if ev.Key() == tcell.KeyRune {
		name, ok := b.Runes[ev.Rune()]
		return name, ok
	}
	name, ok := b.Keys[ev.Key()]
	return name, ok
}

// Keyboard reads key events from a tcell screen and presses buttons.
type Keyboard struct {
	screen   tcell.Screen
	layout   *keypad.Layout
	bindings Bindings
	press    func(code uint16)
}

func NewKeyboard(screen tcell.Screen, layout *keypad.Layout, bindings Bindings, press func(code uint16)) *Keyboard {
	return &Keyboard{screen: screen, layout: layout, bindings: bindings, press: press}
}

// Run blocks until ctx is cancelled or the user hits Escape or Ctrl-C. It
// returns ErrQuit in the latter case.
func (k *Keyboard) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = k.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		ev := k.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return ErrQuit
			}
			name, ok := k.bindings.resolve(ev)
			if !ok {
				continue
			}
			b, err := k.layout.Lookup(name)
			if err != nil {
				log.Warn().Str("component", "keyboard").Err(err).Msg("binding points at unknown button")
				continue
			}
			k.press(b.Code)
		case *tcell.EventResize:
			k.screen.Sync()
		}
	}
}
