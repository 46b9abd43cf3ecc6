package decoder

import "driftwoodterm/core/diag"

// stage mirrors the three-stage state machine the source commands.c
// drives: plain text (including UTF-8 assembly and C0 codes), the byte
// right after ESC, and argument collection for CSI/OSC/DCS sequences.
type stage int

const (
	stagePlainText stage = iota
	stageEscape
	stageArguments
)

// sequence identifies which kind of escape sequence is being collected
// in stageArguments. seqNone covers unrecognized ESC-introduced
// sequences: the "ESC falls through to argument collection" behavior,
// preserved so malformed input is absorbed rather than corrupting
// decoder state.
type sequence int

const (
	seqNone sequence = iota
	seqCSI
	seqOSC
	seqDCS
)

// maxArgBuf bounds the argument buffer, matching the fixed 128-byte
// buffer the decoder this is distilled from uses.
const maxArgBuf = 128

// Decoder turns a raw byte stream into a sequence of Emits. It holds no
// reference to a screen.Grid: callers apply the returned Emits
// themselves, which keeps decoding testable independent of rendering.
type Decoder struct {
	stage stage
	seq   sequence
	argBuf []byte

	// UTF-8 assembly state, carried across Feed calls so a multi-byte
	// rune split across two reads still decodes correctly.
	charBuf            [4]byte
	bytesInCharacter   int
	characterByteIndex int

	appCursorKeys bool
	log           *diag.Logger
}

// New creates a Decoder. log may be nil, in which case diagnostics are
// discarded.
func New(log *diag.Logger) *Decoder {
	return &Decoder{argBuf: make([]byte, 0, maxArgBuf), log: log}
}

// AppCursorKeys reports whether DECCKM application cursor-key mode is
// active, for keymap.Translate to consult.
func (d *Decoder) AppCursorKeys() bool {
	return d.appCursorKeys
}

// Feed decodes data and returns the Emits produced. It is safe to call
// repeatedly with successive chunks of a stream: any partially-decoded
// escape sequence or UTF-8 rune carries over to the next call.
func (d *Decoder) Feed(data []byte) []Emit {
	var emits []Emit
	for _, b := range data {
		d.processByte(b, &emits)
	}
	return emits
}

func (d *Decoder) processByte(b byte, emits *[]Emit) {
	switch d.stage {
	case stagePlainText:
		d.processPlainText(b, emits)
	case stageEscape:
		d.processEscape(b, emits)
	case stageArguments:
		d.processArguments(b, emits)
	}
}

func (d *Decoder) processPlainText(b byte, emits *[]Emit) {
	if b == 0x1B {
		d.resetUTF8()
		d.stage = stageEscape
		return
	}

	if d.bytesInCharacter == 0 {
		switch {
		case b < 0x20 || b == 0x7F:
			d.executeC0(b, emits)
		case b < 0x80:
			*emits = append(*emits, Emit{Kind: Print, Rune: rune(b)})
		case b >= 0xC0 && b <= 0xDF:
			d.beginMultiByte(b, 2)
		case b >= 0xE0 && b <= 0xEF:
			d.beginMultiByte(b, 3)
		case b >= 0xF0 && b <= 0xF7:
			d.beginMultiByte(b, 4)
		default:
			// stray continuation byte or invalid leading byte
			*emits = append(*emits, Emit{Kind: Print, Rune: 0xFFFD})
		}
		return
	}

	if b < 0x80 || b > 0xBF {
		// expected a continuation byte and didn't get one: emit the
		// replacement character for the broken sequence, then
		// reprocess b as the start of a new one.
		*emits = append(*emits, Emit{Kind: Print, Rune: 0xFFFD})
		d.resetUTF8()
		d.processPlainText(b, emits)
		return
	}

	d.charBuf[d.characterByteIndex] = b
	d.characterByteIndex++
	if d.characterByteIndex == d.bytesInCharacter {
		cp := utf8EncodingToCodepoint(d.charBuf[:d.bytesInCharacter])
		*emits = append(*emits, Emit{Kind: Print, Rune: cp})
		d.resetUTF8()
	}
}

func (d *Decoder) beginMultiByte(lead byte, n int) {
	d.charBuf[0] = lead
	d.characterByteIndex = 1
	d.bytesInCharacter = n
}

func (d *Decoder) resetUTF8() {
	d.bytesInCharacter = 0
	d.characterByteIndex = 0
}

// utf8EncodingToCodepoint bit-packs a raw (not validated beyond the
// leading-byte classification already done by the caller) UTF-8
// sequence into a code point. Overlong or surrogate encodings are not
// rejected, matching the source's behavior and the spec's explicit
// non-requirement here.
func utf8EncodingToCodepoint(buf []byte) rune {
	switch len(buf) {
	case 1:
		return rune(buf[0])
	case 2:
		return rune(buf[0]&0x1F)<<6 | rune(buf[1]&0x3F)
	case 3:
		return rune(buf[0]&0x0F)<<12 | rune(buf[1]&0x3F)<<6 | rune(buf[2]&0x3F)
	case 4:
		return rune(buf[0]&0x07)<<18 | rune(buf[1]&0x3F)<<12 | rune(buf[2]&0x3F)<<6 | rune(buf[3]&0x3F)
	default:
		return 0xFFFD
	}
}

func (d *Decoder) executeC0(b byte, emits *[]Emit) {
	switch b {
	case 0x07:
		*emits = append(*emits, Emit{Kind: Bell})
	case 0x08:
		*emits = append(*emits, Emit{Kind: Backspace})
	case 0x09:
		*emits = append(*emits, Emit{Kind: Tab})
	case 0x0A, 0x0B, 0x0C:
		*emits = append(*emits, Emit{Kind: LineFeed})
	case 0x0D:
		*emits = append(*emits, Emit{Kind: CarriageReturn})
	case 0x7F:
		// DEL: historically ignored outside of line editing; no-op.
	default:
		if d.log != nil {
			d.log.Recoverable("decoder", "unhandled C0 control code", "byte", int(b))
		}
	}
}

func (d *Decoder) processEscape(b byte, emits *[]Emit) {
	switch b {
	case '[':
		d.seq = seqCSI
		d.argBuf = d.argBuf[:0]
		d.stage = stageArguments
	case ']':
		d.seq = seqOSC
		d.argBuf = d.argBuf[:0]
		d.stage = stageArguments
	case 'P':
		d.seq = seqDCS
		d.argBuf = d.argBuf[:0]
		d.stage = stageArguments
	case '7':
		*emits = append(*emits, Emit{Kind: SaveCursor})
		d.stage = stagePlainText
	case '8':
		*emits = append(*emits, Emit{Kind: RestoreCursor})
		d.stage = stagePlainText
	case 'c':
		*emits = append(*emits, Emit{Kind: Reset})
		d.stage = stagePlainText
	case 'D':
		*emits = append(*emits, Emit{Kind: LineFeed})
		d.stage = stagePlainText
	case 'M':
		*emits = append(*emits, Emit{Kind: ReverseIndex})
		d.stage = stagePlainText
	case 'E':
		*emits = append(*emits, Emit{Kind: NextLine, N: 1})
		d.stage = stagePlainText
	case '#', '(', ')':
		// DEC line-drawing / charset designators: one more byte follows
		// and is discarded, since alternate character sets are out of
		// scope. Borrow the argument collector with seqNone so that
		// byte is absorbed uniformly.
		d.seq = seqNone
		d.argBuf = d.argBuf[:0]
		d.stage = stageArguments
	default:
		// Unrecognized ESC sequence: fall through to argument
		// collection with no sequence type, so it is absorbed and
		// discarded rather than corrupting decoder state.
		d.seq = seqNone
		d.argBuf = d.argBuf[:0]
		d.stage = stageArguments
		d.processArguments(b, emits)
	}
}

func (d *Decoder) processArguments(b byte, emits *[]Emit) {
	switch d.seq {
	case seqOSC:
		if b == 0x07 || b == 0x9C {
			d.handleOSC(d.argBuf, emits)
			d.stage = stagePlainText
			return
		}
		d.appendArg(b)
	case seqDCS:
		if b == 0x07 || b == 0x9C {
			d.stage = stagePlainText
			return
		}
		d.appendArg(b)
	case seqCSI:
		if b >= 0x40 && b <= 0x7E {
			d.executeCSI(b, d.argBuf, emits)
			d.stage = stagePlainText
			return
		}
		d.appendArg(b)
	default: // seqNone: absorb until a CSI-style final byte, then discard
		if b >= 0x40 && b <= 0x7E {
			d.stage = stagePlainText
			return
		}
		d.appendArg(b)
	}
}

func (d *Decoder) appendArg(b byte) {
	if len(d.argBuf) < maxArgBuf {
		d.argBuf = append(d.argBuf, b)
		return
	}
	if d.log != nil {
		d.log.Saturated("decoder", "argument buffer full, byte dropped", "byte", int(b))
	}
}
