// Package decoder implements the terminal's byte decoder: a resumable,
// byte-at-a-time state machine that turns a raw PTY byte stream into a
// sequence of Emits the screen model applies. It never touches a Grid
// directly, so it can be fed and tested in isolation from rendering.
package decoder

import "driftwoodterm/core/screen"

// Kind identifies what an Emit asks the screen model to do.
type Kind int

const (
	Print Kind = iota
	Bell
	Backspace
	Tab
	LineFeed
	ReverseIndex
	CarriageReturn
	Reset

	CursorUp
	CursorDown
	CursorForward
	CursorBack
	NextLine
	PrevLine
	ColumnAbsolute
	PositionAbs

	EraseDisplay
	EraseLine
	EraseChars
	DeleteChars
	InsertChars
	DeleteLines
	InsertLines
	ScrollUp
	ScrollDown
	SetScrollRegion
	SaveCursor
	RestoreCursor
	RepeatChar

	SetFg
	SetBg
	ResetGraphics

	SetTitle
	SetWorkingDirectory

	SetAppCursorKeys
	SetCursorVisible

	DSRRequest
)

// Emit is a single decoded instruction. Only the fields relevant to Kind
// are populated; the rest are zero.
type Emit struct {
	Kind Kind

	Rune rune

	N    int // generic count/mode argument
	X, Y int // 0-based target position (PositionAbs)

	Color screen.Color

	Text string // OSC payloads (title, cwd)

	Enabled bool // mode set/reset (DECCKM, DECTCEM, ...)
}
