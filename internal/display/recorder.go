package display

import (
	"fmt"
	"sync"

	"github.com/danmuck/remotext/internal/palette"
)

// Op is one recorded drawing call.
type Op struct {
	Kind string
	X, Y int
	Text string
	FG   palette.Color
}

func (o Op) String() string {
	return fmt.Sprintf("%s(%d,%d,%q)", o.Kind, o.X, o.Y, o.Text)
}

// Recorder keeps drawing calls and the last text drawn on each row.
type Recorder struct {
	mu    sync.Mutex
	ops   []Op
	rows  map[int]Op
	shows int
}

func NewRecorder() *Recorder {
	return &Recorder{rows: make(map[int]Op)}
}

func (r *Recorder) FillScreen(c palette.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: "fill_screen", FG: c})
	r.rows = make(map[int]Op)
}

func (r *Recorder) FillRect(x, y, w, h int, c palette.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: "fill_rect", X: x, Y: y, FG: c})
	delete(r.rows, y)
}

func (r *Recorder) DrawLine(x0, y0, x1, y1 int, c palette.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: "draw_line", X: x0, Y: y0, FG: c})
}

func (r *Recorder) DrawText(x, y int, text string, fg, bg palette.Color, scale int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op := Op{Kind: "draw_text", X: x, Y: y, Text: text, FG: fg}
	r.ops = append(r.ops, op)
	r.rows[y] = op
}

func (r *Recorder) Show() {
	r.mu.Lock()
	r.shows++
	r.mu.Unlock()
}

// Row returns the text currently drawn at pixel row y.
func (r *Recorder) Row(y int) (Op, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op, ok := r.rows[y]
	return op, ok
}

func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

func (r *Recorder) Shows() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shows
}
