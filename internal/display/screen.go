package display

import "github.com/danmuck/remotext/internal/palette"

// Row layout in pixels.
const (
	RowPeerName = 0
	RowReceived = 12
	RowDivider  = 63
	RowOwnName  = 70
	RowComposed = 82

	nameWidth = 64
)

// Identity is a username with its display color.
type Identity struct {
	Username string
	Color    palette.Color
}

// Screen draws the two-pane pager layout: the peer on top, the local user
// below the divider.
type Screen struct {
	d Display
}

func NewScreen(d Display) *Screen {
	if d == nil {
		d = Nop{}
	}
	return &Screen{d: d}
}

// DrawUI repaints everything.
func (s *Screen) DrawUI(peer, me Identity, received, composed string) {
	s.d.FillScreen(palette.Black)
	s.drawName(RowPeerName, peer)
	s.d.DrawLine(0, RowDivider, Width-1, RowDivider, palette.White)
	s.drawName(RowOwnName, me)
	s.drawMessages(received, composed)
	s.d.Show()
}

func (s *Screen) UpdatePeer(peer Identity) {
	s.drawName(RowPeerName, peer)
	s.d.Show()
}

func (s *Screen) UpdateMe(me Identity) {
	s.drawName(RowOwnName, me)
	s.d.Show()
}

func (s *Screen) DrawMessages(received, composed string) {
	s.drawMessages(received, composed)
	s.d.Show()
}

func (s *Screen) drawName(row int, id Identity) {
	s.d.FillRect(0, row, nameWidth, GlyphHeight, palette.Black)
	s.d.DrawText(0, row, id.Username, id.Color, palette.Black, 1)
}

func (s *Screen) drawMessages(received, composed string) {
	s.d.FillRect(0, RowReceived, Width-1, GlyphHeight, palette.Black)
	s.d.DrawText(0, RowReceived, received, palette.White, palette.Black, 1)

	s.d.FillRect(0, RowComposed, Width-1, GlyphHeight, palette.Black)
	s.d.DrawText(0, RowComposed, composed, palette.White, palette.Black, 1)
}
