package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(emits []Emit) []Kind {
	ks := make([]Kind, len(emits))
	for i, e := range emits {
		ks[i] = e.Kind
	}
	return ks
}

func TestPlainASCIIRoundTrips(t *testing.T) {
	d := New(nil)
	emits := d.Feed([]byte("hi"))
	require.Len(t, emits, 2)
	assert.Equal(t, 'h', emits[0].Rune)
	assert.Equal(t, 'i', emits[1].Rune)
}

func TestUTF8MultiByteAcrossFeedCalls(t *testing.T) {
	d := New(nil)
	// U+00E9 'é' = 0xC3 0xA9, split across two Feed calls.
	first := d.Feed([]byte{0xC3})
	assert.Empty(t, first)
	second := d.Feed([]byte{0xA9})
	require.Len(t, second, 1)
	assert.Equal(t, rune(0xE9), second[0].Rune)
}

func TestUTF8ThreeAndFourByteSequences(t *testing.T) {
	d := New(nil)
	// U+20AC '€' = 0xE2 0x82 0xAC
	emits := d.Feed([]byte{0xE2, 0x82, 0xAC})
	require.Len(t, emits, 1)
	assert.Equal(t, rune(0x20AC), emits[0].Rune)

	d2 := New(nil)
	// U+1F600 = 0xF0 0x9F 0x98 0x80
	emits2 := d2.Feed([]byte{0xF0, 0x9F, 0x98, 0x80})
	require.Len(t, emits2, 1)
	assert.Equal(t, rune(0x1F600), emits2[0].Rune)
}

func TestInvalidContinuationByteEmitsReplacement(t *testing.T) {
	d := New(nil)
	// leading byte for a 2-byte sequence followed by an ASCII byte
	// instead of a continuation byte.
	emits := d.Feed([]byte{0xC3, 'x'})
	require.Len(t, emits, 2)
	assert.Equal(t, rune(0xFFFD), emits[0].Rune)
	assert.Equal(t, rune('x'), emits[1].Rune)
}

func TestC0ControlCodes(t *testing.T) {
	d := New(nil)
	emits := d.Feed([]byte{0x07, 0x08, 0x09, 0x0A, 0x0D})
	assert.Equal(t, []Kind{Bell, Backspace, Tab, LineFeed, CarriageReturn}, kinds(emits))
}

func TestCSICursorMovement(t *testing.T) {
	d := New(nil)
	emits := d.Feed([]byte("\x1b[5A\x1b[3;10H"))
	require.Len(t, emits, 2)
	assert.Equal(t, CursorUp, emits[0].Kind)
	assert.Equal(t, 5, emits[0].N)
	assert.Equal(t, PositionAbs, emits[1].Kind)
	assert.Equal(t, 9, emits[1].X)
	assert.Equal(t, 2, emits[1].Y)
}

func TestCSISplitAcrossFeedCalls(t *testing.T) {
	d := New(nil)
	first := d.Feed([]byte("\x1b[1"))
	assert.Empty(t, first)
	second := d.Feed([]byte("0A"))
	require.Len(t, second, 1)
	assert.Equal(t, CursorUp, second[0].Kind)
	assert.Equal(t, 10, second[0].N)
}

func TestEraseDisplayAndLine(t *testing.T) {
	d := New(nil)
	emits := d.Feed([]byte("\x1b[2J\x1b[1K"))
	require.Len(t, emits, 2)
	assert.Equal(t, EraseDisplay, emits[0].Kind)
	assert.Equal(t, 2, emits[0].N)
	assert.Equal(t, EraseLine, emits[1].Kind)
	assert.Equal(t, 1, emits[1].N)
}

func TestSGRBasicColors(t *testing.T) {
	d := New(nil)
	emits := d.Feed([]byte("\x1b[31;44m"))
	require.Len(t, emits, 2)
	assert.Equal(t, SetFg, emits[0].Kind)
	assert.Equal(t, SetBg, emits[1].Kind)
}

func TestSGRResetMatchesSourceQuirk(t *testing.T) {
	d := New(nil)
	emits := d.Feed([]byte("\x1b[0m"))
	require.Len(t, emits, 1)
	assert.Equal(t, ResetGraphics, emits[0].Kind)
}

func TestSGRTruecolor(t *testing.T) {
	d := New(nil)
	emits := d.Feed([]byte("\x1b[38;2;10;20;30m"))
	require.Len(t, emits, 1)
	assert.Equal(t, SetFg, emits[0].Kind)
	assert.Equal(t, uint8(10), emits[0].Color.R)
	assert.Equal(t, uint8(20), emits[0].Color.G)
	assert.Equal(t, uint8(30), emits[0].Color.B)
}

func TestOSCWindowTitle(t *testing.T) {
	d := New(nil)
	emits := d.Feed([]byte("\x1b]0;hello world\x07"))
	require.Len(t, emits, 1)
	assert.Equal(t, SetTitle, emits[0].Kind)
	assert.Equal(t, "hello world", emits[0].Text)
}

func TestOSC7WorkingDirectory(t *testing.T) {
	d := New(nil)
	emits := d.Feed([]byte("\x1b]7;file://host/home/user\x07"))
	require.Len(t, emits, 1)
	assert.Equal(t, SetWorkingDirectory, emits[0].Kind)
	assert.Equal(t, "/home/user", emits[0].Text)
}

func TestUnrecognizedEscapeSequenceIsAbsorbed(t *testing.T) {
	d := New(nil)
	emits := d.Feed([]byte("\x1bZsome-garbage\x1b[Aq"))
	// 'Z' is itself a CSI-range final byte, so the unrecognized ESC Z
	// is absorbed on its own: the 12 bytes of "some-garbage" then print
	// as plain text, followed by the real CSI A and the trailing 'q'.
	require.Len(t, emits, 14)
	assert.Equal(t, 's', emits[0].Rune)
	assert.Equal(t, CursorUp, emits[12].Kind)
	assert.Equal(t, 'q', emits[13].Rune)
}

func TestDECCKMModeSet(t *testing.T) {
	d := New(nil)
	emits := d.Feed([]byte("\x1b[?1h"))
	require.Len(t, emits, 1)
	assert.Equal(t, SetAppCursorKeys, emits[0].Kind)
	assert.True(t, emits[0].Enabled)
	assert.True(t, d.AppCursorKeys())

	d.Feed([]byte("\x1b[?1l"))
	assert.False(t, d.AppCursorKeys())
}

func TestDSRReply(t *testing.T) {
	assert.Equal(t, []byte("\x1b[0n"), DSRReply(5, 0, 0))
	assert.Equal(t, []byte("\x1b[4;8R"), DSRReply(6, 7, 3))
}
