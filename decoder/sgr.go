package decoder

import "driftwoodterm/core/screen"

// executeSGR applies Select Graphic Rendition parameters, emitting one
// SetFg/SetBg/ResetGraphics Emit per attribute recognized. Unknown
// attributes (bold/italic/underline and friends, which the spec leaves
// unrendered per cell) are accepted and ignored rather than rejected.
func (d *Decoder) executeSGR(params []int, emits *[]Emit) {
	if len(params) == 0 {
		params = []int{0}
	}

	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			// The source resets both foreground and background to the
			// same palette entry (palette[7], "white") rather than
			// giving the background its own default. Preserved
			// verbatim; see screen.DefaultBg's doc comment.
			*emits = append(*emits, Emit{Kind: ResetGraphics})
		case p >= 30 && p <= 37:
			*emits = append(*emits, Emit{Kind: SetFg, Color: screen.PaletteColor(p - 30)})
		case p == 38:
			if c, consumed := parseExtendedColor(params, i+1); consumed > 0 {
				*emits = append(*emits, Emit{Kind: SetFg, Color: c})
				i += consumed
			}
		case p == 39:
			*emits = append(*emits, Emit{Kind: SetFg, Color: screen.DefaultFg()})
		case p >= 40 && p <= 47:
			*emits = append(*emits, Emit{Kind: SetBg, Color: screen.PaletteColor(p - 40)})
		case p == 48:
			if c, consumed := parseExtendedColor(params, i+1); consumed > 0 {
				*emits = append(*emits, Emit{Kind: SetBg, Color: c})
				i += consumed
			}
		case p == 49:
			*emits = append(*emits, Emit{Kind: SetBg, Color: screen.DefaultBg()})
		case p >= 90 && p <= 97:
			*emits = append(*emits, Emit{Kind: SetFg, Color: screen.PaletteColor(p - 90 + 8)})
		case p >= 100 && p <= 107:
			*emits = append(*emits, Emit{Kind: SetBg, Color: screen.PaletteColor(p - 100 + 8)})
		default:
			// bold/italic/underline/inverse/strikethrough and other
			// attributes not yet rendered per cell: accepted, no-op.
		}
	}
}

// parseExtendedColor handles the 38/48 "extended color" forms:
// "5;<index>" (indexed, folded into the 16-entry palette) and
// "2;<r>;<g>;<b>" (24-bit truecolor). Returns the resolved color and
// how many additional params it consumed.
func parseExtendedColor(params []int, start int) (screen.Color, int) {
	if start >= len(params) {
		return screen.Color{}, 0
	}
	switch params[start] {
	case 5:
		if start+1 >= len(params) {
			return screen.Color{}, 1
		}
		return screen.PaletteColor(params[start+1]), 2
	case 2:
		if start+3 >= len(params) {
			return screen.Color{}, 1
		}
		r := uint8(params[start+1])
		g := uint8(params[start+2])
		b := uint8(params[start+3])
		return screen.Color{R: r, G: g, B: b}, 4
	default:
		return screen.Color{}, 1
	}
}
