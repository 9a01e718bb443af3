package keypad

import (
	"errors"
	"testing"

	"github.com/danmuck/remotext/internal/testutil/testlog"
)

func TestDefaultLayoutClassify(t *testing.T) {
	testlog.Start(t)

	l := DefaultLayout()
	cases := []struct {
		code uint16
		want Key
	}{
		{code: Button2, want: KeyText},
		{code: Button0, want: KeyText},
		{code: ButtonLast, want: KeyDelete},
		{code: ButtonMute, want: KeySend},
		{code: 0x0000, want: KeyNone},
	}
	for _, tc := range cases {
		if got := l.Classify(tc.code); got != tc.want {
			t.Fatalf("Classify(0x%04X) got=%s want=%s", tc.code, got, tc.want)
		}
	}
	if g, ok := l.Group(Button7); !ok || g != "pqrs" {
		t.Fatalf("unexpected group: %q %v", g, ok)
	}
	b, err := l.Lookup(" MUTE ")
	if err != nil || b.Code != ButtonMute {
		t.Fatalf("unexpected lookup: %+v %v", b, err)
	}
	if _, err := l.Lookup("power"); !errors.Is(err, ErrUnknownButton) {
		t.Fatalf("expected ErrUnknownButton, got %v", err)
	}
}

func TestNewLayoutRejectsBadTables(t *testing.T) {
	testlog.Start(t)

	dup := append(DefaultButtons(), Button{Name: "again", Code: Button2, Chars: "x"})
	if _, err := NewLayout(dup, ButtonLast, ButtonMute); !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("expected ErrInvalidLayout for duplicate code, got %v", err)
	}
	if _, err := NewLayout(DefaultButtons(), Button2, ButtonMute); !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("expected ErrInvalidLayout for text control button, got %v", err)
	}
	if _, err := NewLayout(DefaultButtons(), 0x1111, ButtonMute); !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("expected ErrInvalidLayout for unknown control code, got %v", err)
	}
}

func TestNewLayoutRejectsUnsendableChars(t *testing.T) {
	testlog.Start(t)

	cases := map[string]Group{
		"utf-8":     "äö",
		"separator": "ab~",
		"control":   "a\tb",
		"null":      "a\x00",
		"delete":    "\x7f",
	}
	for name, chars := range cases {
		buttons := DefaultButtons()
		buttons[1].Chars = chars
		if _, err := NewLayout(buttons, ButtonLast, ButtonMute); !errors.Is(err, ErrInvalidLayout) {
			t.Fatalf("%s: expected ErrInvalidLayout, got %v", name, err)
		}
	}

	buttons := DefaultButtons()
	buttons[1].Chars = "aA@#"
	if _, err := NewLayout(buttons, ButtonLast, ButtonMute); err != nil {
		t.Fatalf("printable ascii rejected: %v", err)
	}
}
