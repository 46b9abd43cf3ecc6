// Package screen implements the terminal's screen model: a fixed-capacity
// circular character grid, cursor, graphics attributes, and scroll-back.
package screen

// Color is a 24-bit RGB value, resolved from either the 16-color palette
// or (when extended SGR parsing is wired in) an arbitrary RGB triple.
type Color struct {
	R, G, B uint8
}

// DefaultColorIndex is the palette slot used when no SGR color has been
// set: index 7, "white" in the palette below.
const DefaultColorIndex = 7

// palette is the fixed 16-color table (normal 0-7, bright 8-15), sourced
// from the same constants as the C original's colors.h (COLORS_FG).
var palette = [16]Color{
	{0x28, 0x2C, 0x34}, // 0 black
	{0xE0, 0x6C, 0x75}, // 1 red
	{0x98, 0xC3, 0x79}, // 2 green
	{0xE5, 0xC0, 0x7B}, // 3 yellow
	{0x61, 0xAF, 0xEF}, // 4 blue
	{0xC6, 0x78, 0xDD}, // 5 magenta
	{0x56, 0xB6, 0xC2}, // 6 cyan
	{0xDC, 0xDF, 0xE4}, // 7 white
	{0x5A, 0x63, 0x74}, // 8 bright black
	{0xE0, 0x6C, 0x75}, // 9 bright red
	{0x98, 0xC3, 0x79}, // 10 bright green
	{0xE5, 0xC0, 0x7B}, // 11 bright yellow
	{0x61, 0xAF, 0xEF}, // 12 bright blue
	{0xC6, 0x78, 0xDD}, // 13 bright magenta
	{0x56, 0xB6, 0xC2}, // 14 bright cyan
	{0xDC, 0xDF, 0xE4}, // 15 bright white
}

// PaletteColor returns the color at the given palette index (0-15).
// Indices outside the table wrap via modulo so a malformed SGR argument
// never panics.
func PaletteColor(index int) Color {
	return palette[index&0xF]
}

// DefaultFg returns the default foreground color (palette index 7).
func DefaultFg() Color {
	return PaletteColor(DefaultColorIndex)
}

// DefaultBg returns the default background color.
//
// The C original and the spec it was distilled from reset SGR 0's
// background to palette[7] as well — the same white used for the
// foreground default, which almost certainly is not what the original
// author intended (background should default to black). Preserved
// verbatim per spec §9; see DESIGN.md.
func DefaultBg() Color {
	return PaletteColor(DefaultColorIndex)
}
