// Package display renders device state on a 128x128 pixel surface.
//
// Display is the drawing collaborator; Screen owns the layout and only ever
// calls the Display surface. Terminal maps the pixel surface onto a tcell
// screen, Recorder keeps calls for tests.
package display

import "github.com/danmuck/remotext/internal/palette"

const (
	Width  = 128
	Height = 128
	// GlyphWidth and GlyphHeight are the pixel cell of one character at
	// scale 1.
	GlyphWidth  = 6
	GlyphHeight = 8
)

// Display is the drawing surface the core reports to.
type Display interface {
	FillScreen(c palette.Color)
	FillRect(x, y, w, h int, c palette.Color)
	DrawLine(x0, y0, x1, y1 int, c palette.Color)
	DrawText(x, y int, text string, fg, bg palette.Color, scale int)
	// Show flushes pending drawing.
	Show()
}

// Nop discards every call.
type Nop struct{}

func (Nop) FillScreen(palette.Color)                                     {}
func (Nop) FillRect(int, int, int, int, palette.Color)                   {}
func (Nop) DrawLine(int, int, int, int, palette.Color)                   {}
func (Nop) DrawText(int, int, string, palette.Color, palette.Color, int) {}
func (Nop) Show()                                                        {}
