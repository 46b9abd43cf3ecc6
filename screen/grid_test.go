package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityResolver maps each code point to a slot derived from itself,
// so tests can assert on which rune ended up where without pulling in
// the atlas package.
type identityResolver struct{}

func (identityResolver) Get(cp rune) uint16 {
	if cp == 0 {
		return EmptySlot
	}
	return uint16(cp)
}

func TestPrintAdvancesCursorAndWraps(t *testing.T) {
	g := NewGrid(4, 3)
	r := identityResolver{}

	for _, c := range "abcd" {
		g.Print(c, r)
	}
	x, y := g.GetCursor()
	assert.Equal(t, 4, x)
	assert.Equal(t, 0, y)

	g.Print('e', r)
	x, y = g.GetCursor()
	assert.Equal(t, 1, x)
	assert.Equal(t, 1, y)
	assert.Equal(t, 'a', g.DisplayCell(0, 0).Rune)
	assert.Equal(t, 'e', g.DisplayCell(0, 1).Rune)
}

func TestLineFeedWrapsRowOriginAndClearsExposedRow(t *testing.T) {
	g := NewGrid(2, 2)
	r := identityResolver{}
	g.Print('a', r)
	g.Print('b', r)
	g.CarriageReturn()
	g.LineFeed()
	g.Print('c', r)
	g.Print('d', r)
	g.CarriageReturn()

	wrapped := false
	w := g.LineFeed()
	wrapped = wrapped || w
	assert.True(t, wrapped, "expected row_origin wrap on second line feed of a 2-row viewport")

	assert.Equal(t, 'c', g.DisplayCell(0, 0).Rune)
	assert.Equal(t, 'd', g.DisplayCell(1, 0).Rune)
	assert.True(t, g.DisplayCell(0, 1).Empty())
}

func TestCursorMovementClamps(t *testing.T) {
	g := NewGrid(10, 10)
	g.PositionAbs(5, 5)
	g.CursorUp(100)
	x, y := g.GetCursor()
	assert.Equal(t, 5, x)
	assert.Equal(t, 0, y)

	g.PositionAbs(5, 5)
	g.CursorDown(100)
	_, y = g.GetCursor()
	assert.Equal(t, 9, y)

	g.PositionAbs(5, 5)
	g.CursorBack(100)
	x, _ = g.GetCursor()
	assert.Equal(t, 0, x)

	g.PositionAbs(5, 5)
	g.CursorForward(100)
	x, _ = g.GetCursor()
	assert.Equal(t, 9, x)
}

func TestEraseDisplayModes(t *testing.T) {
	g := NewGrid(3, 3)
	r := identityResolver{}
	for row := 0; row < 3; row++ {
		g.PositionAbs(0, row)
		for _, c := range "xyz" {
			g.Print(c, r)
		}
	}

	g.PositionAbs(1, 1)
	g.EraseDisplay(0)
	assert.Equal(t, 'x', g.DisplayCell(0, 0).Rune)
	assert.Equal(t, 'x', g.DisplayCell(0, 1).Rune)
	assert.True(t, g.DisplayCell(1, 1).Empty())
	assert.True(t, g.DisplayCell(2, 1).Empty())
	assert.True(t, g.DisplayCell(0, 2).Empty())
}

func TestEraseLineModes(t *testing.T) {
	g := NewGrid(5, 1)
	r := identityResolver{}
	for _, c := range "abcde" {
		g.Print(c, r)
	}
	g.PositionAbs(2, 0)
	g.EraseLine(0)
	assert.Equal(t, 'a', g.DisplayCell(0, 0).Rune)
	assert.Equal(t, 'b', g.DisplayCell(1, 0).Rune)
	assert.True(t, g.DisplayCell(2, 0).Empty())
	assert.True(t, g.DisplayCell(4, 0).Empty())
}

func TestScrollRegionConfinesInsertLines(t *testing.T) {
	g := NewGrid(3, 5)
	r := identityResolver{}
	for row := 0; row < 5; row++ {
		g.PositionAbs(0, row)
		g.Print(rune('0'+row), r)
	}

	g.SetScrollRegion(2, 4)
	g.PositionAbs(0, 1)
	g.InsertLines(1)

	assert.Equal(t, '0', g.DisplayCell(0, 0).Rune, "row outside the scroll region is untouched")
	assert.True(t, g.DisplayCell(0, 1).Empty(), "blank inserted at top of region")
	assert.Equal(t, '1', g.DisplayCell(0, 2).Rune)
	assert.Equal(t, '2', g.DisplayCell(0, 3).Rune)
	assert.Equal(t, '4', g.DisplayCell(0, 4).Rune, "row outside the scroll region is untouched")
}

func TestScrollBackView(t *testing.T) {
	g := NewGrid(2, 2)
	r := identityResolver{}
	for i := 0; i < 10; i++ {
		g.PositionAbs(0, 1)
		g.Print(rune('0'+i), r)
		g.CarriageReturn()
		g.LineFeed()
	}

	assert.Equal(t, 0, g.ScrollOffset())
	g.ScrollView(1)
	assert.Equal(t, 1, g.ScrollOffset())

	g.ScrollView(-100)
	assert.Equal(t, 0, g.ScrollOffset())

	g.ScrollView(100)
	assert.Equal(t, Rows-2, g.ScrollOffset())
}

func TestSelectionRoundTrip(t *testing.T) {
	g := NewGrid(5, 2)
	r := identityResolver{}
	g.PositionAbs(0, 0)
	for _, c := range "hello" {
		g.Print(c, r)
	}
	g.PositionAbs(0, 1)
	for _, c := range "world" {
		g.Print(c, r)
	}

	require.False(t, g.HasSelection())
	g.SetSelection(1, 0, 2, 1)
	require.True(t, g.HasSelection())
	assert.True(t, g.IsSelected(2, 0))
	assert.False(t, g.IsSelected(0, 0))
	assert.True(t, g.IsSelected(0, 1))
	assert.False(t, g.IsSelected(3, 1))

	g.ClearSelection()
	assert.False(t, g.HasSelection())
}

func TestVisibleTextTrimsTrailingBlanks(t *testing.T) {
	g := NewGrid(5, 2)
	r := identityResolver{}
	g.PositionAbs(0, 0)
	for _, c := range "hi" {
		g.Print(c, r)
	}
	assert.Equal(t, "hi", g.VisibleText())
}

func TestResetGraphicsMatchesSourceQuirk(t *testing.T) {
	g := NewGrid(1, 1)
	g.SetFg(PaletteColor(2))
	g.SetBg(PaletteColor(4))
	g.ResetGraphics()
	gr := g.Graphics()
	assert.Equal(t, gr.Fg, gr.Bg, "SGR 0 resets fg and bg to the same palette entry, per the source quirk")
	assert.Equal(t, PaletteColor(DefaultColorIndex), gr.Fg)
}
