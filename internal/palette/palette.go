// Package palette maps color names used on the wire and in local commands
// to RGB565 display colors.
package palette

import "strings"

// Color is an RGB565 value as understood by the OLED.
type Color uint16

const (
	Black   Color = 0x0000
	Blue    Color = 0x001F
	Green   Color = 0x07E0
	Cyan    Color = 0x07FF
	Red     Color = 0xF800
	Magenta Color = 0xF81F
	Yellow  Color = 0xFFE0
	White   Color = 0xFFFF
)

// RGB expands c to 8-bit channels.
func (c Color) RGB() (r, g, b uint8) {
	r5 := uint8(c>>11) & 0x1F
	g6 := uint8(c>>5) & 0x3F
	b5 := uint8(c) & 0x1F
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

type entry struct {
	name  string
	alias string
	color Color
}

// Lookup order matters: "b" is claimed by blue before black is reached.
var table = []entry{
	{name: "red", alias: "r", color: Red},
	{name: "yellow", alias: "y", color: Yellow},
	{name: "green", alias: "g", color: Green},
	{name: "cyan", alias: "c", color: Cyan},
	{name: "blue", alias: "b", color: Blue},
	{name: "magenta", alias: "m", color: Magenta},
	{name: "white", alias: "w", color: White},
	{name: "black", alias: "b", color: Black},
}

// Lookup resolves a full name or single-letter alias. It returns the
// canonical name alongside the color; ok is false for unknown names.
func Lookup(name string) (Color, string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, e := range table {
		if key == e.name || key == e.alias {
			return e.color, e.name, true
		}
	}
	return 0, "", false
}

// Names lists the canonical color names.
func Names() []string {
	out := make([]string, 0, len(table))
	for _, e := range table {
		out = append(out, e.name)
	}
	return out
}
