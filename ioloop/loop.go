// Package ioloop implements the cooperative, single-threaded I/O loop
// (spec §4.4): one Tick reads available pty output, feeds it through
// the decoder, applies the resulting Emits to the screen model, and
// flushes any pending keystrokes — all without goroutines touching the
// Grid/Decoder/Cache concurrently, per spec §5.
package ioloop

import (
	"driftwoodterm/core/decoder"
	"driftwoodterm/core/diag"
	"driftwoodterm/core/screen"
)

// PtyReader is the read half of the pty collaborator (spec §6). Read
// returns (0, nil) when no data is currently available rather than
// blocking.
type PtyReader interface {
	Read(buf []byte) (int, error)
}

// PtyWriter is the write half of the pty collaborator (spec §6).
type PtyWriter interface {
	Write(data []byte) (int, error)
}

// Clock is the time source named in spec §6, kept as a seam so tests
// can drive the loop without a wall-clock dependency.
type Clock interface {
	Now() int64 // unix nanoseconds
}

// Resizer is implemented by ptyio.Session; kept as a narrow interface
// so ioloop doesn't need to import ptyio directly.
type Resizer interface {
	SetWindowSize(cols, rows uint16) error
}

// readChunk bounds how much pty output one Tick processes, matching
// the 1024-byte read spec §4.4 specifies.
const readChunk = 1024

// Loop wires the decoder, screen model, and pty together into the
// single cooperative tick spec §4.4 describes.
type Loop struct {
	dec    *decoder.Decoder
	grid   *screen.Grid
	pty    PtyReader
	writer PtyWriter
	log    *diag.Logger

	keyboardBuf []byte

	onTitle func(string)
	onCwd   func(string)
	buf     [readChunk]byte
}

// New creates a Loop over an already-constructed Decoder and Grid. The
// atlas cache is reached indirectly, through the screen.SlotResolver
// passed to each Tick, so ioloop itself never needs to import atlas.
func New(dec *decoder.Decoder, grid *screen.Grid, pty PtyReader, writer PtyWriter, log *diag.Logger) *Loop {
	return &Loop{dec: dec, grid: grid, pty: pty, writer: writer, log: log}
}

// OnTitle registers a callback invoked when the decoder emits a window
// title change (OSC 0/2).
func (l *Loop) OnTitle(fn func(string)) {
	l.onTitle = fn
}

// OnWorkingDirectory registers a callback invoked when the decoder emits
// an OSC 7 current-working-directory update.
func (l *Loop) OnWorkingDirectory(fn func(string)) {
	l.onCwd = fn
}

// Resize updates the grid's viewport and, if resizer is non-nil, the
// pty's window size, in the order spec §4.4 expects (model first, then
// the kernel-visible size) when a framebuffer resize is detected.
func (l *Loop) Resize(cols, rows int, resizer Resizer) error {
	l.grid.Resize(cols, rows)
	if resizer == nil {
		return nil
	}
	return resizer.SetWindowSize(uint16(cols), uint16(rows))
}

// QueueKeystroke appends bytes to be written to the pty on the next
// Tick, decoupling key-event callbacks (which may fire off the loop's
// own call stack) from the write itself.
func (l *Loop) QueueKeystroke(data []byte) {
	l.keyboardBuf = append(l.keyboardBuf, data...)
}

// Tick runs one iteration: flush queued keystrokes, read available pty
// output, decode it, and apply the result to the grid. Returns the
// number of bytes read from the pty (0 means nothing was pending).
func (l *Loop) Tick(resolver screen.SlotResolver) (int, error) {
	if len(l.keyboardBuf) > 0 {
		if _, err := l.writer.Write(l.keyboardBuf); err != nil {
			if l.log != nil {
				l.log.Fatal("ioloop", "pty write failed", "error", err.Error())
			}
			return 0, err
		}
		l.keyboardBuf = l.keyboardBuf[:0]
	}

	n, err := l.pty.Read(l.buf[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	emits := l.dec.Feed(l.buf[:n])
	for _, e := range emits {
		l.apply(e, resolver)
	}
	return n, nil
}

func (l *Loop) apply(e decoder.Emit, resolver screen.SlotResolver) {
	switch e.Kind {
	case decoder.Print:
		l.grid.Print(e.Rune, resolver)
	case decoder.Bell:
		// no-op at the model layer; a host may flash the window.
	case decoder.Backspace:
		l.grid.Backspace()
	case decoder.Tab:
		l.grid.Tab()
	case decoder.LineFeed:
		l.grid.LineFeed()
	case decoder.ReverseIndex:
		l.grid.ReverseIndex()
	case decoder.CarriageReturn:
		l.grid.CarriageReturn()
	case decoder.Reset:
		l.grid.ResetGraphics()

	case decoder.CursorUp:
		l.grid.CursorUp(e.N)
	case decoder.CursorDown:
		l.grid.CursorDown(e.N)
	case decoder.CursorForward:
		l.grid.CursorForward(e.N)
	case decoder.CursorBack:
		l.grid.CursorBack(e.N)
	case decoder.NextLine:
		l.grid.NextLine(e.N)
	case decoder.PrevLine:
		l.grid.PrevLine(e.N)
	case decoder.ColumnAbsolute:
		l.grid.ColumnAbsolute(e.N)
	case decoder.PositionAbs:
		l.grid.PositionAbs(e.X, e.Y)

	case decoder.EraseDisplay:
		l.grid.EraseDisplay(e.N)
	case decoder.EraseLine:
		l.grid.EraseLine(e.N)
	case decoder.EraseChars:
		l.grid.EraseChars(e.N)
	case decoder.DeleteChars:
		l.grid.DeleteChars(e.N)
	case decoder.InsertChars:
		l.grid.InsertChars(e.N)
	case decoder.DeleteLines:
		l.grid.DeleteLines(e.N)
	case decoder.InsertLines:
		l.grid.InsertLines(e.N)
	case decoder.ScrollUp:
		l.grid.ScrollUp(e.N)
	case decoder.ScrollDown:
		l.grid.ScrollDown(e.N)
	case decoder.SetScrollRegion:
		l.grid.SetScrollRegion(e.X, e.Y)
	case decoder.SaveCursor:
		l.grid.SaveCursor()
	case decoder.RestoreCursor:
		l.grid.RestoreCursor()
	case decoder.RepeatChar:
		l.grid.RepeatChar(e.N)

	case decoder.SetFg:
		l.grid.SetFg(e.Color)
	case decoder.SetBg:
		l.grid.SetBg(e.Color)
	case decoder.ResetGraphics:
		l.grid.ResetGraphics()

	case decoder.SetTitle:
		if l.onTitle != nil {
			l.onTitle(e.Text)
		}
	case decoder.SetWorkingDirectory:
		if l.onCwd != nil {
			l.onCwd(e.Text)
		}

	case decoder.SetAppCursorKeys, decoder.SetCursorVisible:
		// state already tracked by the decoder / consumed by keymap;
		// no grid mutation needed.

	case decoder.DSRRequest:
		col, row := l.grid.GetCursor()
		if reply := decoder.DSRReply(e.N, col, row); reply != nil {
			if _, err := l.writer.Write(reply); err != nil && l.log != nil {
				l.log.Recoverable("ioloop", "failed to write DSR reply", "error", err.Error())
			}
		}
	}
}
