package keypad

import (
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/remotext/internal/testutil/testlog"
)

func newTestEmulator(t *testing.T, cfg Config) *Emulator {
	t.Helper()
	e, err := NewEmulator(DefaultLayout(), cfg)
	if err != nil {
		t.Fatalf("new emulator: %v", err)
	}
	return e
}

func TestHandleKeyCyclesWithinWindow(t *testing.T) {
	testlog.Start(t)

	e := newTestEmulator(t, DefaultConfig())
	if got := e.HandleKey(Button2, 10); got != KeyAppended {
		t.Fatalf("first press: %s", got)
	}
	if got := e.HandleKey(Button2, 12); got != KeyCycled {
		t.Fatalf("second press: %s", got)
	}
	if e.Composition() != "b" {
		t.Fatalf("unexpected composition: %q", e.Composition())
	}
	e.HandleKey(Button2, 13)
	e.HandleKey(Button2, 14)
	if e.Composition() != "a" {
		t.Fatalf("expected wrap back to first char, got %q", e.Composition())
	}
}

func TestHandleKeyOutsideWindowAppends(t *testing.T) {
	testlog.Start(t)

	e := newTestEmulator(t, DefaultConfig())
	e.HandleKey(Button2, 10)
	if got := e.HandleKey(Button2, 10+DefaultCycleWindow+1); got != KeyAppended {
		t.Fatalf("expected append outside window, got %s", got)
	}
	if e.Composition() != "aa" {
		t.Fatalf("unexpected composition: %q", e.Composition())
	}
}

func TestHandleKeyDifferentKeyAppends(t *testing.T) {
	testlog.Start(t)

	e := newTestEmulator(t, DefaultConfig())
	e.HandleKey(Button4, 1)
	e.HandleKey(Button4, 2)
	e.HandleKey(Button4, 3)
	e.HandleKey(Button0, 4)
	e.HandleKey(Button9, 5)
	e.HandleKey(Button9, 6)
	if e.Composition() != "i x" {
		t.Fatalf("unexpected composition: %q", e.Composition())
	}
}

func TestHandleKeyIgnoresNonTextButtons(t *testing.T) {
	testlog.Start(t)

	e := newTestEmulator(t, DefaultConfig())
	e.HandleKey(Button2, 1)
	if got := e.HandleKey(ButtonMute, 2); got != KeyIgnored {
		t.Fatalf("expected ignored, got %s", got)
	}
	if got := e.HandleKey(0xDEAD, 2); got != KeyIgnored {
		t.Fatalf("expected ignored for unmapped code, got %s", got)
	}
	// an ignored key does not disturb the cycle reference
	if got := e.HandleKey(Button2, 3); got != KeyCycled {
		t.Fatalf("expected cycle after ignored key, got %s", got)
	}
}

func TestHandleKeyTickWrap(t *testing.T) {
	testlog.Start(t)

	e := newTestEmulator(t, DefaultConfig())
	e.HandleKey(Button3, ^uint32(0)-1)
	if got := e.HandleKey(Button3, 2); got != KeyCycled {
		t.Fatalf("expected cycle across tick wrap, got %s", got)
	}
}

func TestAppendAtMaximumIsNoop(t *testing.T) {
	testlog.Start(t)

	cfg := DefaultConfig()
	cfg.MaxLength = 3
	e := newTestEmulator(t, cfg)
	e.HandleKey(Button2, 0)
	e.HandleKey(Button3, 0)
	e.HandleKey(Button4, 0)
	// cycling the last character is still allowed at the maximum
	if got := e.HandleKey(Button4, 1); got != KeyCycled {
		t.Fatalf("expected cycle at maximum, got %s", got)
	}
	before := e.Composition()
	if before != "adh" {
		t.Fatalf("unexpected composition: %q", before)
	}
	if got := e.HandleKey(Button5, 2); got != KeyDropped {
		t.Fatalf("expected dropped, got %s", got)
	}
	if e.Composition() != before {
		t.Fatalf("composition changed at maximum: %q -> %q", before, e.Composition())
	}
}

func TestDroppedKeyDoesNotStartCycle(t *testing.T) {
	testlog.Start(t)

	cfg := DefaultConfig()
	cfg.MaxLength = 1
	e := newTestEmulator(t, cfg)
	e.HandleKey(Button2, 0)
	if got := e.HandleKey(Button3, 10); got != KeyDropped {
		t.Fatalf("first press at maximum got=%s want=%s", got, KeyDropped)
	}
	if got := e.HandleKey(Button3, 11); got != KeyDropped {
		t.Fatalf("repeat press at maximum got=%s want=%s", got, KeyDropped)
	}
	if e.Composition() != "a" {
		t.Fatalf("composition got=%q want=%q", e.Composition(), "a")
	}
	// the last accepted key cannot cycle after an intervening drop
	if got := e.HandleKey(Button2, 12); got != KeyDropped {
		t.Fatalf("press after drop got=%s want=%s", got, KeyDropped)
	}
	if e.Composition() != "a" {
		t.Fatalf("composition got=%q want=%q", e.Composition(), "a")
	}
}

func TestHandleDeleteStartsFresh(t *testing.T) {
	testlog.Start(t)

	e := newTestEmulator(t, DefaultConfig())
	e.HandleKey(Button7, 1)
	e.HandleKey(Button7, 2)
	if !e.HandleDelete() {
		t.Fatalf("expected delete")
	}
	if e.Composition() != "" {
		t.Fatalf("unexpected composition: %q", e.Composition())
	}
	e.HandleKey(Button6, 3)
	e.HandleKey(Button7, 3)
	e.HandleDelete()
	if got := e.HandleKey(Button6, 4); got != KeyAppended {
		t.Fatalf("expected fresh character after delete, got %s", got)
	}
	if e.Composition() != "mm" {
		t.Fatalf("unexpected composition: %q", e.Composition())
	}
	e.Send()
	if e.HandleDelete() {
		t.Fatalf("delete on empty composition reported success")
	}
}

func TestSendMessageClears(t *testing.T) {
	testlog.Start(t)

	e := newTestEmulator(t, DefaultConfig())
	e.HandleKey(Button4, 0)
	e.HandleKey(Button4, 1)
	e.HandleKey(Button4, 9)
	e.HandleKey(Button4, 10)
	e.HandleKey(Button4, 11)
	act := e.Send()
	if act.Kind != ActionMessage || act.Body != "hi" {
		t.Fatalf("unexpected action: %+v", act)
	}
	if e.Len() != 0 {
		t.Fatalf("expected cleared composition")
	}
	if act := e.Send(); act.Kind != ActionNone {
		t.Fatalf("expected no action for empty composition, got %+v", act)
	}
}

// typeText presses keys so that each rune of s lands in the composition,
// letting the window lapse between characters.
func typeText(t *testing.T, e *Emulator, s string) {
	t.Helper()
	tick := uint32(1000)
	for _, r := range s {
		code, idx := findKey(t, e.Layout(), byte(r))
		for i := 0; i <= idx; i++ {
			e.HandleKey(code, tick)
			tick++
		}
		tick += DefaultCycleWindow + 1
	}
}

func findKey(t *testing.T, l *Layout, ch byte) (uint16, int) {
	t.Helper()
	for _, b := range l.Buttons() {
		if i := strings.IndexByte(string(b.Chars), ch); i >= 0 {
			return b.Code, i
		}
	}
	t.Fatalf("no key for %q", ch)
	return 0, 0
}

func TestSendLocalCommand(t *testing.T) {
	testlog.Start(t)

	e := newTestEmulator(t, DefaultConfig())
	typeText(t, e, "/c red")
	if e.Composition() != "/c red" {
		t.Fatalf("unexpected composition: %q", e.Composition())
	}
	act := e.Send()
	if act.Kind != ActionCommand || act.Err != nil {
		t.Fatalf("unexpected action: %+v", act)
	}
	if act.Command.Kind != CommandSetColor || act.Command.Param != "red" {
		t.Fatalf("unexpected command: %+v", act.Command)
	}
	if e.Len() != 0 {
		t.Fatalf("expected cleared composition after command")
	}
}

func TestSendMalformedCommandStillClears(t *testing.T) {
	testlog.Start(t)

	e := newTestEmulator(t, DefaultConfig())
	typeText(t, e, "/user")
	act := e.Send()
	if act.Kind != ActionCommand || !errors.Is(act.Err, ErrMalformedCommand) {
		t.Fatalf("expected malformed command, got %+v", act)
	}
	if e.Len() != 0 {
		t.Fatalf("expected cleared composition")
	}
}

func TestNewEmulatorValidates(t *testing.T) {
	testlog.Start(t)

	if _, err := NewEmulator(DefaultLayout(), Config{MaxLength: 41, Trigger: '/'}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := NewEmulator(nil, DefaultConfig()); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for nil layout, got %v", err)
	}
}
