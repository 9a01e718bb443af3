package display

import (
	"testing"

	"github.com/danmuck/remotext/internal/palette"
	"github.com/danmuck/remotext/internal/testutil/testlog"
	"github.com/gdamore/tcell/v2"
)

func TestDrawUILayout(t *testing.T) {
	testlog.Start(t)

	rec := NewRecorder()
	s := NewScreen(rec)
	s.DrawUI(
		Identity{Username: "Waiting...", Color: palette.Cyan},
		Identity{Username: "Default", Color: palette.Yellow},
		"", "hi",
	)

	peer, ok := rec.Row(RowPeerName)
	if !ok || peer.Text != "Waiting..." || peer.FG != palette.Cyan {
		t.Fatalf("peer row got=%+v", peer)
	}
	me, ok := rec.Row(RowOwnName)
	if !ok || me.Text != "Default" || me.FG != palette.Yellow {
		t.Fatalf("own row got=%+v", me)
	}
	composed, _ := rec.Row(RowComposed)
	if composed.Text != "hi" {
		t.Fatalf("composition row got=%q want=%q", composed.Text, "hi")
	}
	var sawLine bool
	for _, op := range rec.Ops() {
		if op.Kind == "draw_line" && op.Y == RowDivider {
			sawLine = true
		}
	}
	if !sawLine {
		t.Fatalf("divider line not drawn")
	}
	if rec.Shows() != 1 {
		t.Fatalf("shows got=%d want=1", rec.Shows())
	}
}

func TestUpdatePeerOnlyTouchesPeerRow(t *testing.T) {
	testlog.Start(t)

	rec := NewRecorder()
	s := NewScreen(rec)
	s.UpdatePeer(Identity{Username: "bob", Color: palette.Red})
	for _, op := range rec.Ops() {
		if op.Y != RowPeerName {
			t.Fatalf("unexpected draw outside peer row: %s", op)
		}
	}
	if op, _ := rec.Row(RowPeerName); op.Text != "bob" || op.FG != palette.Red {
		t.Fatalf("peer row got=%+v", op)
	}
}

func TestDrawMessagesClearsRows(t *testing.T) {
	testlog.Start(t)

	rec := NewRecorder()
	s := NewScreen(rec)
	s.DrawMessages("hello", "abc")
	s.DrawMessages("hello", "")
	if op, _ := rec.Row(RowComposed); op.Text != "" {
		t.Fatalf("composition row got=%q want empty", op.Text)
	}
	if op, _ := rec.Row(RowReceived); op.Text != "hello" {
		t.Fatalf("received row got=%q", op.Text)
	}
}

func TestTerminalRendersCells(t *testing.T) {
	testlog.Start(t)

	sim := tcell.NewSimulationScreen("UTF-8")
	term, err := NewTerminalOn(sim)
	if err != nil {
		t.Fatalf("new terminal: %v", err)
	}
	defer term.Close()
	sim.SetSize(Width/GlyphWidth, Height/GlyphHeight)

	s := NewScreen(term)
	s.DrawUI(
		Identity{Username: "peer", Color: palette.Cyan},
		Identity{Username: "me", Color: palette.Yellow},
		"yo", "ok",
	)

	got := readRow(sim, RowOwnName/GlyphHeight, 2)
	if got != "me" {
		t.Fatalf("own name cells got=%q want=%q", got, "me")
	}
	got = readRow(sim, RowReceived/GlyphHeight, 2)
	if got != "yo" {
		t.Fatalf("received cells got=%q want=%q", got, "yo")
	}
	mainc, _, _, _ := sim.GetContent(0, RowDivider/GlyphHeight)
	if mainc != tcell.RuneHLine {
		t.Fatalf("divider cell got=%q", mainc)
	}
}

func readRow(s tcell.SimulationScreen, row, n int) string {
	out := make([]rune, 0, n)
	for col := 0; col < n; col++ {
		r, _, _, _ := s.GetContent(col, row)
		out = append(out, r)
	}
	return string(out)
}
