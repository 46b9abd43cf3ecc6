package decoder

import "strconv"

// maxCSIArguments bounds how many semicolon-separated parameters are
// parsed from a single CSI sequence, matching the source's cap.
const maxCSIArguments = 20

// parseParams splits a CSI argument buffer (without its final byte) on
// ';' into decimal integers. Sub-parameters introduced by ':' are
// treated as a hard stop for that field, since none of the sequences
// this decoder recognizes use them.
func parseParams(buf []byte) []int {
	params := make([]int, 0, 4)
	cur := 0
	has := false
	sub := false
	for _, b := range buf {
		switch {
		case b >= '0' && b <= '9':
			if !sub {
				cur = cur*10 + int(b-'0')
				has = true
			}
		case b == ';':
			params = append(params, cur)
			cur = 0
			has = false
			sub = false
			if len(params) >= maxCSIArguments {
				return params
			}
		case b == ':':
			// sub-parameter separator: stop accumulating digits for
			// this field, the remainder is ignored.
			sub = true
		default:
			// intermediate/private marker bytes (0x3C-0x3F, 0x20-0x2F):
			// ignored, they don't change the decimal value collected.
		}
	}
	if has || len(params) == 0 {
		params = append(params, cur)
	}
	return params
}

func getParam(params []int, idx, def int) int {
	if idx >= len(params) {
		return def
	}
	if params[idx] == 0 {
		return def
	}
	return params[idx]
}

// getParamRaw is like getParam but returns the literal value including
// zero, for commands (like CSI J/K) where 0 is a meaningful, distinct
// mode rather than "absent".
func getParamRaw(params []int, idx int) int {
	if idx >= len(params) {
		return 0
	}
	return params[idx]
}

func (d *Decoder) executeCSI(final byte, argBuf []byte, emits *[]Emit) {
	params := parseParams(argBuf)
	if d.log != nil {
		fields := 1
		for _, b := range argBuf {
			if b == ';' {
				fields++
			}
		}
		if fields > maxCSIArguments {
			d.log.Saturated("decoder", "too many CSI arguments, excess dropped", "arg_count", fields)
		}
	}

	switch final {
	case 'A':
		*emits = append(*emits, Emit{Kind: CursorUp, N: getParam(params, 0, 1)})
	case 'B':
		*emits = append(*emits, Emit{Kind: CursorDown, N: getParam(params, 0, 1)})
	case 'C':
		*emits = append(*emits, Emit{Kind: CursorForward, N: getParam(params, 0, 1)})
	case 'D':
		*emits = append(*emits, Emit{Kind: CursorBack, N: getParam(params, 0, 1)})
	case 'E':
		*emits = append(*emits, Emit{Kind: NextLine, N: getParam(params, 0, 1)})
	case 'F':
		*emits = append(*emits, Emit{Kind: PrevLine, N: getParam(params, 0, 1)})
	case 'G', '`':
		*emits = append(*emits, Emit{Kind: ColumnAbsolute, N: getParam(params, 0, 1) - 1})
	case 'H', 'f':
		y := getParam(params, 0, 1) - 1
		x := getParam(params, 1, 1) - 1
		*emits = append(*emits, Emit{Kind: PositionAbs, X: x, Y: y})
	case 'J':
		*emits = append(*emits, Emit{Kind: EraseDisplay, N: getParamRaw(params, 0)})
	case 'K':
		*emits = append(*emits, Emit{Kind: EraseLine, N: getParamRaw(params, 0)})
	case 'L':
		*emits = append(*emits, Emit{Kind: InsertLines, N: getParam(params, 0, 1)})
	case 'M':
		*emits = append(*emits, Emit{Kind: DeleteLines, N: getParam(params, 0, 1)})
	case 'P':
		*emits = append(*emits, Emit{Kind: DeleteChars, N: getParam(params, 0, 1)})
	case '@':
		*emits = append(*emits, Emit{Kind: InsertChars, N: getParam(params, 0, 1)})
	case 'X':
		*emits = append(*emits, Emit{Kind: EraseChars, N: getParam(params, 0, 1)})
	case 'S':
		*emits = append(*emits, Emit{Kind: ScrollUp, N: getParam(params, 0, 1)})
	case 'T':
		*emits = append(*emits, Emit{Kind: ScrollDown, N: getParam(params, 0, 1)})
	case 'b':
		*emits = append(*emits, Emit{Kind: RepeatChar, N: getParam(params, 0, 1)})
	case 'r':
		top := getParam(params, 0, 1)
		bottom := getParamRaw(params, 1)
		*emits = append(*emits, Emit{Kind: SetScrollRegion, X: top, Y: bottom})
	case 's':
		*emits = append(*emits, Emit{Kind: SaveCursor})
	case 'u':
		*emits = append(*emits, Emit{Kind: RestoreCursor})
	case 'm':
		d.executeSGR(params, emits)
	case 'h':
		d.setMode(params, true, argBuf, emits)
	case 'l':
		d.setMode(params, false, argBuf, emits)
	case 'n':
		*emits = append(*emits, Emit{Kind: DSRRequest, N: getParamRaw(params, 0)})
	default:
		if d.log != nil {
			d.log.Recoverable("decoder", "unhandled CSI final byte", "final", string(final))
		}
	}
}

// setMode handles DECSET/DECRST (CSI ?<n>h / CSI ?<n>l) and the ANSI
// mode equivalents. Only the private-marker forms this terminal cares
// about are recognized: DECCKM (1), DECTCEM (25).
func (d *Decoder) setMode(params []int, enabled bool, argBuf []byte, emits *[]Emit) {
	private := len(argBuf) > 0 && argBuf[0] == '?'
	if !private {
		return
	}
	for _, p := range params {
		switch p {
		case 1: // DECCKM application cursor keys
			d.appCursorKeys = enabled
			*emits = append(*emits, Emit{Kind: SetAppCursorKeys, Enabled: enabled})
		case 25: // DECTCEM cursor visibility
			*emits = append(*emits, Emit{Kind: SetCursorVisible, Enabled: enabled})
		}
	}
}

// DSRReply builds the reply bytes for a DSR request, given the request
// code and (for code 6) the current 0-based cursor position.
func DSRReply(code, col, row int) []byte {
	switch code {
	case 5:
		return []byte("\x1b[0n")
	case 6:
		return []byte("\x1b[" + strconv.Itoa(row+1) + ";" + strconv.Itoa(col+1) + "R")
	default:
		return nil
	}
}
