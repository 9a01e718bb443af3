package display

import (
	"fmt"

	"github.com/danmuck/remotext/internal/palette"
	"github.com/gdamore/tcell/v2"
)

// Terminal renders the pixel surface on a tcell screen, one character cell
// per glyph cell.
type Terminal struct {
	screen tcell.Screen
}

// NewTerminal takes over the controlling terminal.
func NewTerminal() (*Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("display: new screen: %w", err)
	}
	return NewTerminalOn(s)
}

// NewTerminalOn initialises s, e.g. a tcell simulation screen.
func NewTerminalOn(s tcell.Screen) (*Terminal, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("display: init screen: %w", err)
	}
	s.Clear()
	return &Terminal{screen: s}, nil
}

// Screen exposes the tcell screen for key input.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

func (t *Terminal) Close() {
	t.screen.Fini()
}

func cell(x, y int) (int, int) {
	return x / GlyphWidth, y / GlyphHeight
}

func style(fg, bg palette.Color) tcell.Style {
	fr, fgG, fb := fg.RGB()
	br, bgG, bb := bg.RGB()
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(fr), int32(fgG), int32(fb))).
		Background(tcell.NewRGBColor(int32(br), int32(bgG), int32(bb)))
}

func (t *Terminal) FillScreen(c palette.Color) {
	t.screen.Fill(' ', style(c, c))
}

func (t *Terminal) FillRect(x, y, w, h int, c palette.Color) {
	c0, r0 := cell(x, y)
	c1, r1 := cell(x+w-1, y+h-1)
	st := style(c, c)
	for r := r0; r <= r1; r++ {
		for col := c0; col <= c1; col++ {
			t.screen.SetContent(col, r, ' ', nil, st)
		}
	}
}

// DrawLine only renders horizontal and vertical lines; diagonal lines are not
// used by the layout.
func (t *Terminal) DrawLine(x0, y0, x1, y1 int, c palette.Color) {
	c0, r0 := cell(x0, y0)
	c1, r1 := cell(x1, y1)
	st := style(c, palette.Black)
	switch {
	case r0 == r1:
		if c1 < c0 {
			c0, c1 = c1, c0
		}
		for col := c0; col <= c1; col++ {
			t.screen.SetContent(col, r0, tcell.RuneHLine, nil, st)
		}
	case c0 == c1:
		if r1 < r0 {
			r0, r1 = r1, r0
		}
		for r := r0; r <= r1; r++ {
			t.screen.SetContent(c0, r, tcell.RuneVLine, nil, st)
		}
	}
}

func (t *Terminal) DrawText(x, y int, text string, fg, bg palette.Color, scale int) {
	if scale < 1 {
		scale = 1
	}
	col, row := cell(x, y)
	st := style(fg, bg)
	maxCol := Width / GlyphWidth
	for _, r := range text {
		if col >= maxCol {
			return
		}
		t.screen.SetContent(col, row, r, nil, st)
		col += scale
	}
}

func (t *Terminal) Show() {
	t.screen.Show()
}
