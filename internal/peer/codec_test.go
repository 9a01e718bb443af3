package peer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/remotext/internal/testutil/testlog"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	testlog.Start(t)

	in := Message{Username: "Default", Color: "yellow", Body: "hi"}
	frame := Encode(in)
	if string(frame) != "Default~yellow~hi" {
		t.Fatalf("unexpected frame: %q", frame)
	}
	out := Decode(frame, DefaultLimits())
	if out != in {
		t.Fatalf("round trip mismatch: got=%+v want=%+v", out, in)
	}
}

func TestDecodeMissingFieldsDefaultEmpty(t *testing.T) {
	testlog.Start(t)

	cases := []struct {
		in   string
		want Message
	}{
		{in: "", want: Message{}},
		{in: "alice", want: Message{Username: "alice"}},
		{in: "alice~red", want: Message{Username: "alice", Color: "red"}},
		{in: "alice~~", want: Message{Username: "alice"}},
		{in: "~~hello", want: Message{Body: "hello"}},
	}
	for _, tc := range cases {
		if got := Decode([]byte(tc.in), DefaultLimits()); got != tc.want {
			t.Fatalf("Decode(%q) got=%+v want=%+v", tc.in, got, tc.want)
		}
	}
}

func TestDecodeKeepsLaterSeparatorsInBody(t *testing.T) {
	testlog.Start(t)

	got := Decode([]byte("bob~cyan~a~b"), DefaultLimits())
	if got.Body != "a~b" {
		t.Fatalf("unexpected body: %q", got.Body)
	}
}

func TestDecodeTruncatesFields(t *testing.T) {
	testlog.Start(t)

	long := strings.Repeat("x", 30)
	got := Decode([]byte(long+"~"+long+"~"+strings.Repeat("y", 60)), DefaultLimits())
	if len(got.Username) != MaxUsername || len(got.Color) != MaxColorName || len(got.Body) != MaxBody {
		t.Fatalf("fields not truncated: %d %d %d", len(got.Username), len(got.Color), len(got.Body))
	}
}

func TestWriteFrameAppendsTerminator(t *testing.T) {
	testlog.Start(t)

	var buf bytes.Buffer
	if err := WriteFrame(&buf, Message{Username: "a", Color: "b", Body: "c"}, DefaultLimits()); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), []byte("a~b~c\x00")) {
		t.Fatalf("unexpected bytes: %q", buf.Bytes())
	}

	big := Message{Username: strings.Repeat("u", 80)}
	if err := WriteFrame(&buf, big, DefaultLimits()); !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
}
