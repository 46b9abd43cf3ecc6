package screen

// AtlasSlot identifies a tile in the glyph atlas. Slot 0 is the reserved
// "empty" sentinel: no cached glyph ever occupies it (spec §3, Cell).
const EmptySlot uint16 = 0

// SlotResolver resolves a code point to its atlas slot, asking the glyph
// atlas cache to rasterize and cache it on a miss. atlas.Cache satisfies
// this without screen importing the atlas package.
type SlotResolver interface {
	Get(cp rune) uint16
}

// CellFlags is a placeholder for future text attributes (bold, italic,
// underline, ...). Graphics tracks the currently active flags, but they
// are not yet stored per-cell — see spec §3's Grid.graphics note.
type CellFlags uint8

const (
	FlagBold CellFlags = 1 << iota
	FlagItalic
	FlagUnderline
	FlagInverse
	FlagStrikethrough
)

// Cell is a single grid position: the pair spec §3 requires (atlas_slot,
// fg_color), plus the original rune kept alongside purely so selection and
// VisibleText (§SPEC_FULL.md C.5) can reconstruct text — the atlas slot
// alone can't serve that, since the cache is free to reassign it to a
// different code point after eviction (spec §4.3's CacheEntry lifecycle).
type Cell struct {
	AtlasSlot uint16
	Fg        Color
	Rune      rune
}

// Empty reports whether the cell is unwritten (spec §3's "atlas_slot = 0
// means empty").
func (c Cell) Empty() bool {
	return c.AtlasSlot == EmptySlot
}

// emptyCell is the blank cell written by erases and row clears: empty
// slot, default foreground, space.
func emptyCell() Cell {
	return Cell{AtlasSlot: EmptySlot, Fg: DefaultFg(), Rune: ' '}
}

// Graphics is the terminal's current rendering attributes: the colors
// applied to the next printed cell, plus a reserved flags field for
// attributes not yet rendered per-cell.
type Graphics struct {
	Fg    Color
	Bg    Color
	Flags CellFlags
}

// DefaultGraphics returns the graphics state after a reset (SGR 0).
func DefaultGraphics() Graphics {
	return Graphics{Fg: DefaultFg(), Bg: DefaultBg()}
}
