package screen

import (
	"strings"
	"sync"
)

// Rows and Cols are the grid's fixed physical capacity (spec §3): 1000
// rows of scroll-back history by 500 columns. The viewport (screen_cols,
// screen_rows) is a sub-window into this fixed buffer, resized as the
// host window changes size.
const (
	Rows = 1000
	Cols = 500
)

// Grid is the circular-buffer character grid. Physical row p holds
// logical row (p - row_origin) mod Rows; see spec invariant G1.
type Grid struct {
	mu sync.RWMutex

	rows [Rows][Cols]Cell

	rowOrigin int // physical row at the top of the viewport (G1)

	screenCols int
	screenRows int

	cursorX int
	cursorY int

	scrollOffset int // how far the viewer has scrolled back (clamped [0, Rows-screenRows])

	graphics Graphics

	// DECSTBM scroll region, 1-based inclusive, relative to the viewport.
	scrollTop    int
	scrollBottom int

	savedCursorX int
	savedCursorY int

	lastCell Cell // for CSI b (REP)

	selectionActive       bool
	selectionStartCol     int
	selectionStartRow     int
	selectionEndCol       int
	selectionEndRow       int
	selectionScrollOffset int
}

// NewGrid creates a grid with the given viewport dimensions. The physical
// buffer is always Rows x Cols; screenCols/screenRows must each fit
// within Cols/Rows.
func NewGrid(screenCols, screenRows int) *Grid {
	g := &Grid{
		screenCols:   clampInt(screenCols, 1, Cols),
		screenRows:   clampInt(screenRows, 1, Rows),
		graphics:     DefaultGraphics(),
		lastCell:     emptyCell(),
		scrollTop:    1,
		scrollBottom: screenRows,
	}
	for r := range g.rows {
		for c := range g.rows[r] {
			g.rows[r][c] = emptyCell()
		}
	}
	return g
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mod(a, m int) int {
	a %= m
	if a < 0 {
		a += m
	}
	return a
}

// physRow returns the physical row index for logical viewport row y
// (spec invariant G1).
func (g *Grid) physRow(y int) int {
	return mod(g.rowOrigin+y, Rows)
}

// ScreenSize returns the current viewport dimensions.
func (g *Grid) ScreenSize() (cols, rows int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.screenCols, g.screenRows
}

// Graphics returns the current graphics attributes.
func (g *Grid) Graphics() Graphics {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.graphics
}

// SetFg sets the foreground color applied to the next printed cell.
func (g *Grid) SetFg(c Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.graphics.Fg = c
}

// SetBg sets the background color applied to the next printed cell.
func (g *Grid) SetBg(c Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.graphics.Bg = c
}

// SetFlags replaces the current attribute flags wholesale.
func (g *Grid) SetFlags(f CellFlags) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.graphics.Flags = f
}

// ResetGraphics implements SGR 0. Preserves the source's fg==bg==palette[7]
// behavior verbatim; see spec §9 and DESIGN.md.
func (g *Grid) ResetGraphics() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.graphics = DefaultGraphics()
}

// Print writes a cell at the cursor, resolving cp to an atlas slot via
// resolver, then advances the cursor (spec §4.2's print contract).
func (g *Grid) Print(cp rune, resolver SlotResolver) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cursorX >= g.screenCols {
		g.cursorX = 0
		g.advanceRowLocked()
	}

	slot := resolver.Get(cp)
	cell := Cell{AtlasSlot: slot, Fg: g.graphics.Fg, Rune: cp}
	g.rows[g.physRow(g.cursorY)][g.cursorX] = cell
	g.lastCell = cell
	g.cursorX++

	g.scrollOffset = 0
}

// advanceRowLocked moves to the next row, scrolling (and wrapping
// row_origin) if the cursor is at the bottom of the viewport or scroll
// region. Caller must hold the write lock.
func (g *Grid) advanceRowLocked() bool {
	wrapped := false
	g.cursorY++
	bottom := g.scrollBottom - 1
	if g.scrollTop == 1 && g.scrollBottom == g.screenRows {
		if g.cursorY >= g.screenRows {
			g.rowOrigin = mod(g.rowOrigin+1, Rows)
			g.cursorY = g.screenRows - 1
			g.clearPhysRowLocked(g.physRow(g.cursorY))
			wrapped = true
		}
	} else if g.cursorY > bottom {
		g.scrollRegionUpLocked(1)
		g.cursorY = bottom
	}
	return wrapped
}

func (g *Grid) clearPhysRowLocked(p int) {
	for c := 0; c < Cols; c++ {
		g.rows[p][c] = emptyCell()
	}
}

// LineFeed executes C0 0x0A (and VT/FF): advance one row, keeping the
// column. Returns whether row_origin wrapped, so the caller (the I/O
// loop, per spec §4.4 step 5) can zero the newly exposed row — already
// done here, but exposed for callers that also track this as an event.
func (g *Grid) LineFeed() (wrapped bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	wrapped = g.advanceRowLocked()
	g.scrollOffset = 0
	return wrapped
}

// CarriageReturn executes C0 0x0D.
func (g *Grid) CarriageReturn() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursorX = 0
}

// Backspace executes C0 0x08.
func (g *Grid) Backspace() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cursorX > 0 {
		g.cursorX--
	}
}

// Tab executes C0 0x09: advance to the next 8-column stop, clamped.
func (g *Grid) Tab() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursorX = ((g.cursorX / 8) + 1) * 8
	if g.cursorX >= g.screenCols {
		g.cursorX = g.screenCols - 1
	}
}

// CursorUp implements CSI A.
func (g *Grid) CursorUp(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursorY = clampInt(g.cursorY-n, 0, g.screenRows-1)
}

// CursorDown implements CSI B.
func (g *Grid) CursorDown(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursorY = clampInt(g.cursorY+n, 0, g.screenRows-1)
}

// CursorForward implements CSI C.
func (g *Grid) CursorForward(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursorX = clampInt(g.cursorX+n, 0, g.screenCols-1)
}

// CursorBack implements CSI D.
func (g *Grid) CursorBack(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursorX = clampInt(g.cursorX-n, 0, g.screenCols-1)
}

// ReverseIndex implements ESC M (RI): move up one row, scrolling the
// scroll region down if already at its top.
func (g *Grid) ReverseIndex() {
	g.mu.Lock()
	defer g.mu.Unlock()
	top := g.scrollTop - 1
	if g.cursorY <= top {
		bottom := g.scrollBottom - 1
		for y := bottom; y > top; y-- {
			g.rows[g.physRow(y)] = g.rows[g.physRow(y-1)]
		}
		g.clearPhysRowLocked(g.physRow(top))
		return
	}
	g.cursorY--
}

// NextLine implements CSI E.
func (g *Grid) NextLine(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cursorY+n < g.screenRows {
		g.cursorX = 0
		g.cursorY += n
	}
}

// PrevLine implements CSI F.
func (g *Grid) PrevLine(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cursorY-n >= 0 {
		g.cursorX = 0
		g.cursorY -= n
	}
}

// ColumnAbsolute implements CSI G (0-based n).
func (g *Grid) ColumnAbsolute(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n < g.screenCols {
		g.cursorX = n
	}
}

// PositionAbs implements CSI H/f (0-based x, y).
func (g *Grid) PositionAbs(x, y int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursorX = clampInt(x, 0, g.screenCols-1)
	g.cursorY = clampInt(y, 0, g.screenRows-1)
}

// GetCursor returns the current cursor position.
func (g *Grid) GetCursor() (x, y int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cursorX, g.cursorY
}

// EraseRect sets cells in the inclusive rectangle to empty. Row indices
// are logical (viewport-relative); physical placement follows G1.
func (g *Grid) EraseRect(x0, x1, y0, y1 int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.eraseRectLocked(x0, x1, y0, y1)
}

func (g *Grid) eraseRectLocked(x0, x1, y0, y1 int) {
	x0 = clampInt(x0, 0, g.screenCols-1)
	x1 = clampInt(x1, 0, g.screenCols-1)
	for y := y0; y <= y1; y++ {
		if y < 0 || y >= g.screenRows {
			continue
		}
		p := g.physRow(y)
		for x := x0; x <= x1; x++ {
			g.rows[p][x] = emptyCell()
		}
	}
}

// EraseDisplay implements CSI J.
func (g *Grid) EraseDisplay(mode int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch mode {
	case 0: // cursor to end of screen (xterm convention; see spec §9)
		g.eraseRectLocked(g.cursorX, g.screenCols-1, g.cursorY, g.cursorY)
		g.eraseRectLocked(0, g.screenCols-1, g.cursorY+1, g.screenRows-1)
	case 1: // start of screen to cursor
		g.eraseRectLocked(0, g.screenCols-1, 0, g.cursorY-1)
		g.eraseRectLocked(0, g.cursorX, g.cursorY, g.cursorY)
	case 2: // whole screen
		g.eraseRectLocked(0, g.screenCols-1, 0, g.screenRows-1)
	case 3: // whole screen plus scroll-back
		g.eraseRectLocked(0, g.screenCols-1, 0, g.screenRows-1)
		for p := 0; p < Rows; p++ {
			g.clearPhysRowLocked(p)
		}
	}
}

// EraseLine implements CSI K.
func (g *Grid) EraseLine(mode int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch mode {
	case 0:
		g.eraseRectLocked(g.cursorX, g.screenCols-1, g.cursorY, g.cursorY)
	case 1:
		g.eraseRectLocked(0, g.cursorX, g.cursorY, g.cursorY)
	case 2:
		g.eraseRectLocked(0, g.screenCols-1, g.cursorY, g.cursorY)
	}
}

// EraseChars implements CSI X: erase n cells at the cursor without moving it.
func (g *Grid) EraseChars(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.physRow(g.cursorY)
	for i := 0; i < n && g.cursorX+i < g.screenCols; i++ {
		g.rows[p][g.cursorX+i] = emptyCell()
	}
}

// DeleteChars implements CSI P: delete n cells at the cursor, shifting
// the remainder of the line left.
func (g *Grid) DeleteChars(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.physRow(g.cursorY)
	for c := g.cursorX; c < g.screenCols-n; c++ {
		g.rows[p][c] = g.rows[p][c+n]
	}
	for c := g.screenCols - n; c < g.screenCols; c++ {
		if c >= 0 {
			g.rows[p][c] = emptyCell()
		}
	}
}

// InsertChars implements CSI @: insert n blanks at the cursor, shifting
// the remainder of the line right.
func (g *Grid) InsertChars(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.physRow(g.cursorY)
	for c := g.screenCols - 1; c >= g.cursorX+n; c-- {
		g.rows[p][c] = g.rows[p][c-n]
	}
	for c := g.cursorX; c < g.cursorX+n && c < g.screenCols; c++ {
		g.rows[p][c] = emptyCell()
	}
}

// RepeatChar implements CSI b: repeat the last printed cell n times.
func (g *Grid) RepeatChar(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := 0; i < n; i++ {
		if g.cursorX >= g.screenCols {
			g.cursorX = 0
			g.advanceRowLocked()
		}
		g.rows[g.physRow(g.cursorY)][g.cursorX] = g.lastCell
		g.cursorX++
	}
}

// scrollRegionUpLocked shifts rows [scrollTop-1, scrollBottom-1] up by n,
// clearing the rows exposed at the bottom. Caller must hold the write lock.
func (g *Grid) scrollRegionUpLocked(n int) {
	top := g.scrollTop - 1
	bottom := g.scrollBottom - 1
	for i := 0; i < n; i++ {
		for y := top; y < bottom; y++ {
			g.rows[g.physRow(y)] = g.rows[g.physRow(y+1)]
		}
		g.clearPhysRowLocked(g.physRow(bottom))
	}
}

// ScrollUp implements CSI S: scroll the full scroll region up n lines.
func (g *Grid) ScrollUp(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scrollRegionUpLocked(n)
}

// ScrollDown implements CSI T: scroll the full scroll region down n lines.
func (g *Grid) ScrollDown(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	top := g.scrollTop - 1
	bottom := g.scrollBottom - 1
	for i := 0; i < n; i++ {
		for y := bottom; y > top; y-- {
			g.rows[g.physRow(y)] = g.rows[g.physRow(y-1)]
		}
		g.clearPhysRowLocked(g.physRow(top))
	}
}

// InsertLines implements CSI L.
func (g *Grid) InsertLines(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	bottom := g.scrollBottom - 1
	for y := bottom; y >= g.cursorY+n; y-- {
		g.rows[g.physRow(y)] = g.rows[g.physRow(y-n)]
	}
	for y := g.cursorY; y < g.cursorY+n && y <= bottom; y++ {
		g.clearPhysRowLocked(g.physRow(y))
	}
}

// DeleteLines implements CSI M.
func (g *Grid) DeleteLines(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	bottom := g.scrollBottom - 1
	for y := g.cursorY; y <= bottom-n; y++ {
		g.rows[g.physRow(y)] = g.rows[g.physRow(y+n)]
	}
	for y := bottom - n + 1; y <= bottom; y++ {
		if y >= g.cursorY {
			g.clearPhysRowLocked(g.physRow(y))
		}
	}
}

// SetScrollRegion implements CSI r (1-based, inclusive, viewport-relative).
func (g *Grid) SetScrollRegion(top, bottom int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if top < 1 {
		top = 1
	}
	if bottom > g.screenRows {
		bottom = g.screenRows
	}
	if top < bottom {
		g.scrollTop = top
		g.scrollBottom = bottom
	}
	g.cursorX = 0
	g.cursorY = 0
}

// SaveCursor implements DECSC / CSI s.
func (g *Grid) SaveCursor() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.savedCursorX = g.cursorX
	g.savedCursorY = g.cursorY
}

// RestoreCursor implements DECRC / CSI u.
func (g *Grid) RestoreCursor() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursorX = g.savedCursorX
	g.cursorY = g.savedCursorY
}

// Resize updates the viewport dimensions (spec §4.2). Cell contents are
// not re-flowed; the cursor and scroll-back view offset are clamped to
// the new bounds, and the scroll region is reset to the full viewport.
func (g *Grid) Resize(cols, rows int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.screenCols = clampInt(cols, 1, Cols)
	g.screenRows = clampInt(rows, 1, Rows)
	g.scrollTop = 1
	g.scrollBottom = g.screenRows
	g.cursorX = clampInt(g.cursorX, 0, g.screenCols-1)
	g.cursorY = clampInt(g.cursorY, 0, g.screenRows-1)
	g.scrollOffset = clampInt(g.scrollOffset, 0, Rows-g.screenRows)
}

// ScrollView scrolls the viewer's position within scroll-back by delta
// rows (positive = further into history), clamped to [0, Rows-screenRows].
func (g *Grid) ScrollView(delta int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scrollOffset = clampInt(g.scrollOffset+delta, 0, Rows-g.screenRows)
}

// ScrollOffset returns the current scroll-back view offset.
func (g *Grid) ScrollOffset() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scrollOffset
}

// DisplayCell returns the cell at display position (col, row), honoring
// the current scroll-back view offset.
func (g *Grid) DisplayCell(col, row int) Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.displayCellLocked(col, row)
}

func (g *Grid) displayCellLocked(col, row int) Cell {
	if col < 0 || col >= g.screenCols || row < 0 || row >= g.screenRows {
		return emptyCell()
	}
	p := mod(g.rowOrigin-g.scrollOffset+row, Rows)
	return g.rows[p][col]
}

// VisibleText returns the visible viewport as plain text, trimming
// trailing blanks per row.
func (g *Grid) VisibleText() string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	lines := make([]string, g.screenRows)
	for row := 0; row < g.screenRows; row++ {
		var b strings.Builder
		b.Grow(g.screenCols)
		for col := 0; col < g.screenCols; col++ {
			r := g.displayCellLocked(col, row).Rune
			if r == 0 {
				r = ' '
			}
			b.WriteRune(r)
		}
		lines[row] = strings.TrimRight(b.String(), " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// SetSelection sets the selection bounds in display coordinates.
func (g *Grid) SetSelection(startCol, startRow, endCol, endRow int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	startCol = clampInt(startCol, 0, g.screenCols-1)
	endCol = clampInt(endCol, 0, g.screenCols-1)
	startRow = clampInt(startRow, 0, g.screenRows-1)
	endRow = clampInt(endRow, 0, g.screenRows-1)

	g.selectionActive = true
	g.selectionStartCol, g.selectionStartRow = startCol, startRow
	g.selectionEndCol, g.selectionEndRow = endCol, endRow
	g.selectionScrollOffset = g.scrollOffset
}

// ClearSelection clears any active selection.
func (g *Grid) ClearSelection() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selectionActive = false
}

// HasSelection reports whether a selection is active.
func (g *Grid) HasSelection() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.selectionActive
}

// IsSelected reports whether a display cell lies within the current
// selection.
func (g *Grid) IsSelected(col, row int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.selectionActive || g.scrollOffset != g.selectionScrollOffset {
		return false
	}
	startCol, startRow := g.selectionStartCol, g.selectionStartRow
	endCol, endRow := g.selectionEndCol, g.selectionEndRow
	if endRow < startRow || (endRow == startRow && endCol < startCol) {
		startCol, endCol = endCol, startCol
		startRow, endRow = endRow, startRow
	}
	if row < startRow || row > endRow {
		return false
	}
	if startRow == endRow {
		return col >= startCol && col <= endCol
	}
	if row == startRow {
		return col >= startCol
	}
	if row == endRow {
		return col <= endCol
	}
	return true
}

// SelectedText returns the text within the current selection.
func (g *Grid) SelectedText() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.selectionActive || g.scrollOffset != g.selectionScrollOffset {
		return ""
	}
	startCol, startRow := g.selectionStartCol, g.selectionStartRow
	endCol, endRow := g.selectionEndCol, g.selectionEndRow
	if endRow < startRow || (endRow == startRow && endCol < startCol) {
		startCol, endCol = endCol, startCol
		startRow, endRow = endRow, startRow
	}

	var lines []string
	for row := startRow; row <= endRow; row++ {
		colStart, colEnd := 0, g.screenCols-1
		if row == startRow {
			colStart = startCol
		}
		if row == endRow {
			colEnd = endCol
		}
		if colEnd < colStart {
			continue
		}
		var b strings.Builder
		for col := colStart; col <= colEnd; col++ {
			r := g.displayCellLocked(col, row).Rune
			if r == 0 {
				r = ' '
			}
			b.WriteRune(r)
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
