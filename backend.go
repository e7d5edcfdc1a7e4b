package termview

import (
	"image/color"
	"io"
	"strings"
	"sync"

	headlessterm "github.com/danielgatis/go-headless-term"
	"github.com/pkg/browser"
	"pkt.systems/pslog"
)

// Cell is the engine's cell type, re-exported for render consumers.
type Cell = headlessterm.Cell

// allModes enumerates every engine mode flag so Sync can capture the full
// bitmask through the engine's per-flag query API.
var allModes = []TerminalMode{
	headlessterm.ModeCursorKeys,
	headlessterm.ModeColumnMode,
	headlessterm.ModeInsert,
	headlessterm.ModeOrigin,
	headlessterm.ModeLineWrap,
	headlessterm.ModeBlinkingCursor,
	headlessterm.ModeLineFeedNewLine,
	headlessterm.ModeShowCursor,
	headlessterm.ModeReportMouseClicks,
	headlessterm.ModeReportCellMouseMotion,
	headlessterm.ModeReportAllMouseMotion,
	headlessterm.ModeReportFocusInOut,
	headlessterm.ModeUTF8Mouse,
	headlessterm.ModeSGRMouse,
	headlessterm.ModeAlternateScroll,
	headlessterm.ModeUrgencyHints,
	headlessterm.ModeSwapScreenAndSetRestoreCursor,
	headlessterm.ModeBracketedPaste,
	headlessterm.ModeKeypadApplication,
}

// RenderableCursor is the cursor portion of a render snapshot.
type RenderableCursor struct {
	Point   Point
	Fg      color.Color
	Visible bool
}

// RenderableContent is the per-frame snapshot of renderable terminal state.
// It is rebuilt by Sync and read-only afterwards; it reflects the state as
// of the last synchronization, which may trail the live engine by at most
// one frame.
type RenderableContent struct {
	// Lines holds the visible viewport rows top to bottom, each NumCols
	// cells wide. Rows above the live grid come from scrollback.
	Lines [][]Cell
	// DisplayOffset is the scrollback distance of the viewport top.
	DisplayOffset int
	// Selection is the active selection range, nil when none.
	Selection *SelectionRange
	// Hovered is the hovered hyperlink span, nil when none.
	Hovered *LinkRange
	Cursor  RenderableCursor
	Mode    TerminalMode
	Size    TerminalSize
}

// CellPoint returns the content coordinate of the cell at a viewport
// row/column.
func (c *RenderableContent) CellPoint(row, col int) Point {
	return Point{Line: row - c.DisplayOffset, Col: col}
}

// activeSelection is the in-progress selection: anchor and moving end with
// their sub-cell side biases, plus the growth kind.
type activeSelection struct {
	kind       SelectionType
	anchor     Point
	anchorSide Side
	end        Point
	endSide    Side
}

// TerminalBackend adapts one engine terminal and its child process to the
// widget: it dispatches commands, keeps the per-frame render snapshot in
// sync, encodes mouse reports and scans the viewport for hyperlinks.
//
// The engine state is shared with the session's read goroutine; every entry
// point takes the backend lock. Go's mutex hands the lock over to the
// longest waiter once it has starved for a millisecond, so frame
// synchronization on the UI thread cannot be starved by a busy reader.
type TerminalBackend struct {
	id      uint64
	term    *headlessterm.Terminal
	out     io.Writer
	resize  func(TerminalSize) error
	openURL func(string) error
	session *ptySession
	log     pslog.Logger

	mu            sync.Mutex
	size          TerminalSize
	displayOffset int
	selection     *activeSelection
	urlPattern    *linkPattern
	lastContent   RenderableContent
}

// newBackend wires a backend over an existing engine terminal. out receives
// bytes destined for the child process; resize receives window-size-changed
// notifications.
func newBackend(id uint64, term *headlessterm.Terminal, out io.Writer, resize func(TerminalSize) error, log pslog.Logger) *TerminalBackend {
	b := &TerminalBackend{
		id:         id,
		term:       term,
		out:        out,
		resize:     resize,
		openURL:    browser.OpenURL,
		log:        log,
		size:       DefaultTerminalSize(),
		urlPattern: defaultLinkPattern(),
	}

	b.mu.Lock()
	b.syncLocked()
	b.mu.Unlock()

	return b
}

// ID returns the backend's numeric identity.
func (b *TerminalBackend) ID() uint64 {
	return b.id
}

// Size returns the current grid geometry.
func (b *TerminalBackend) Size() TerminalSize {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Close tears down the session: the PTY is closed, which unblocks the read
// loop and lets the child process observe EOF. Safe on backends without a
// process (tests).
func (b *TerminalBackend) Close() error {
	if b.session == nil {
		return nil
	}
	return b.session.close()
}

// ProcessCommand dispatches one backend command under the backend lock.
func (b *TerminalBackend) ProcessCommand(cmd BackendCommand) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch c := cmd.(type) {
	case WriteCommand:
		b.write(c.Data)
		// Typing always snaps the view back to the live output.
		b.displayOffset = 0
	case ScrollCommand:
		b.scroll(c.Delta)
	case ResizeCommand:
		b.resizeGrid(c.Layout, c.Cell)
	case SelectStartCommand:
		b.startSelection(c.Kind, c.X, c.Y)
	case SelectUpdateCommand:
		b.updateSelection(c.X, c.Y)
	case ProcessLinkCommand:
		b.processLink(c.Action, c.Point)
	case MouseReportCommand:
		b.mouseReport(c.Button, c.Modifiers, c.Point, c.Pressed)
	}
}

// Sync copies grid, cursor, mode and selection state into the render
// snapshot and returns it. The returned pointer is valid until the next
// Sync.
func (b *TerminalBackend) Sync() *RenderableContent {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncLocked()
	return &b.lastContent
}

// LastContent returns the snapshot from the last Sync without
// resynchronizing.
func (b *TerminalBackend) LastContent() *RenderableContent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return &b.lastContent
}

func (b *TerminalBackend) syncLocked() {
	sbLen := b.term.ScrollbackLen()
	if b.displayOffset > sbLen {
		b.displayOffset = sbLen
	}

	lines := b.size.NumLines
	cols := b.size.NumCols

	viewport := make([][]Cell, lines)
	for r := 0; r < lines; r++ {
		row := make([]Cell, cols)
		line := r - b.displayOffset
		for c := 0; c < cols; c++ {
			row[c] = b.cellAt(Point{Line: line, Col: c})
		}
		viewport[r] = row
	}

	var mode TerminalMode
	for _, m := range allModes {
		if b.term.HasMode(m) {
			mode |= m
		}
	}

	curRow, curCol := b.term.CursorPos()
	var cursorFg color.Color
	if cell := b.term.Cell(curRow, curCol); cell != nil {
		cursorFg = cell.Fg
	}

	b.lastContent.Lines = viewport
	b.lastContent.DisplayOffset = b.displayOffset
	b.lastContent.Selection = b.selectionRange()
	b.lastContent.Cursor = RenderableCursor{
		Point:   Point{Line: curRow, Col: curCol},
		Fg:      cursorFg,
		Visible: b.term.CursorVisible(),
	}
	b.lastContent.Mode = mode
	b.lastContent.Size = b.size
}

// cellAt reads one cell from the engine: non-negative lines address the
// live grid, negative lines scrollback. Out-of-range positions yield a
// default cell.
func (b *TerminalBackend) cellAt(p Point) Cell {
	if p.Line >= 0 {
		if cell := b.term.Cell(p.Line, p.Col); cell != nil {
			return *cell
		}
		return headlessterm.NewCell()
	}

	line := b.term.ScrollbackLine(b.term.ScrollbackLen() + p.Line)
	if p.Col >= 0 && p.Col < len(line) {
		return line[p.Col]
	}
	return headlessterm.NewCell()
}

// SelectableContent walks the last snapshot in display order and returns
// the characters inside the selection range, with newlines separating rows.
// Empty without a selection.
func (b *TerminalBackend) SelectableContent() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	content := &b.lastContent
	if content.Selection == nil {
		return ""
	}

	var sb strings.Builder
	for r, row := range content.Lines {
		inRow := false
		for c := range row {
			p := content.CellPoint(r, c)
			if !content.Selection.Contains(p) {
				continue
			}
			inRow = true
			cell := &row[c]
			if cell.IsWideSpacer() {
				continue
			}
			ch := cell.Char
			if ch == 0 {
				ch = ' '
			}
			sb.WriteRune(ch)
		}
		if inRow && content.CellPoint(r, 0).Line < content.Selection.End.Line {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// SelectionPoint maps a widget-relative pixel position to a content
// coordinate: floor-divided by the cell dimensions, clamped to the grid,
// then translated by the scrollback display offset.
func SelectionPoint(x, y float32, size TerminalSize, displayOffset int) Point {
	col := int(x) / size.CellWidth
	if col < 0 {
		col = 0
	}
	if col > size.NumCols-1 {
		col = size.NumCols - 1
	}

	line := int(y) / size.CellHeight
	if line < 0 {
		line = 0
	}
	if line > size.NumLines-1 {
		line = size.NumLines - 1
	}

	return Point{Line: line - displayOffset, Col: col}
}

// write forwards bytes to the child process. Failed writes are a
// recoverable condition (the process may be exiting) and are only logged.
func (b *TerminalBackend) write(data []byte) {
	if len(data) == 0 || b.out == nil {
		return
	}
	if _, err := b.out.Write(data); err != nil {
		b.log.Warn("pty write failed", "err", err)
	}
}

// scroll moves the scrollback viewport, or, when the alternate screen is
// active with alternate-scroll mode, writes one application cursor key
// sequence per line of delta instead.
func (b *TerminalBackend) scroll(delta int) {
	if delta == 0 {
		return
	}

	if b.term.HasMode(ModeAlternateScroll) && b.term.HasMode(ModeAltScreen) {
		dir := byte('B')
		if delta > 0 {
			dir = 'A'
		}
		n := delta
		if n < 0 {
			n = -n
		}
		seq := make([]byte, 0, 3*n)
		for i := 0; i < n; i++ {
			seq = append(seq, 0x1b, 'O', dir)
		}
		b.write(seq)
		return
	}

	b.displayOffset += delta
	if b.displayOffset < 0 {
		b.displayOffset = 0
	}
	if sbLen := b.term.ScrollbackLen(); b.displayOffset > sbLen {
		b.displayOffset = sbLen
	}
}

// resizeGrid renegotiates geometry from the layout size and cell metrics.
// No-op when both are unchanged, so it is safe to dispatch every frame.
func (b *TerminalBackend) resizeGrid(layout, cell Size) {
	if cell.Width <= 0 || cell.Height <= 0 {
		return
	}
	cw := int(cell.Width)
	ch := int(cell.Height)
	if layout == b.size.LayoutSize && cw == b.size.CellWidth && ch == b.size.CellHeight {
		return
	}

	lines := int(layout.Height) / ch
	cols := int(layout.Width) / cw
	if lines <= 0 || cols <= 0 {
		return
	}

	b.size = TerminalSize{
		CellWidth:  cw,
		CellHeight: ch,
		NumCols:    cols,
		NumLines:   lines,
		LayoutSize: layout,
	}

	if b.resize != nil {
		if err := b.resize(b.size); err != nil {
			b.log.Warn("window resize notification failed", "err", err)
		}
	}
	b.term.Resize(lines, cols)
}

// selectionSide returns the half of the cell the pixel position falls on.
func (b *TerminalBackend) selectionSide(x float32) Side {
	cellX := int(x) % b.size.CellWidth
	if cellX > b.size.CellWidth/2 {
		return SideRight
	}
	return SideLeft
}

func (b *TerminalBackend) startSelection(kind SelectionType, x, y float32) {
	p := SelectionPoint(x, y, b.size, b.displayOffset)
	side := b.selectionSide(x)
	b.selection = &activeSelection{
		kind:       kind,
		anchor:     p,
		anchorSide: side,
		end:        p,
		endSide:    side,
	}
}

func (b *TerminalBackend) updateSelection(x, y float32) {
	if b.selection == nil {
		return
	}
	b.selection.end = SelectionPoint(x, y, b.size, b.displayOffset)
	b.selection.endSide = b.selectionSide(x)
}

// ClearSelection drops the active selection.
func (b *TerminalBackend) ClearSelection() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = nil
}

// selectionRange derives the inclusive cell range from the in-progress
// selection, applying side biases for simple selections and expanding
// semantic/line selections.
func (b *TerminalBackend) selectionRange() *SelectionRange {
	sel := b.selection
	if sel == nil {
		return nil
	}

	start, end := sel.anchor, sel.end
	startSide, endSide := sel.anchorSide, sel.endSide
	if end.Before(start) {
		start, end = end, start
		startSide, endSide = endSide, startSide
	}

	cols := b.size.NumCols

	switch sel.kind {
	case SelectionSimple:
		if start == end && startSide == endSide {
			return nil
		}
		if start != end {
			if startSide == SideRight {
				start = advancePoint(start, cols)
			}
			if endSide == SideLeft {
				end = retreatPoint(end, cols)
			}
			if end.Before(start) {
				return nil
			}
		}
	case SelectionSemantic:
		start = b.semanticStart(start)
		end = b.semanticEnd(end)
	case SelectionLines:
		start.Col = 0
		end.Col = cols - 1
	}

	return &SelectionRange{Start: start, End: end}
}

func advancePoint(p Point, cols int) Point {
	p.Col++
	if p.Col >= cols {
		p.Col = 0
		p.Line++
	}
	return p
}

func retreatPoint(p Point, cols int) Point {
	p.Col--
	if p.Col < 0 {
		p.Col = cols - 1
		p.Line--
	}
	return p
}

// semanticEscapeChars terminate a word for semantic (double click)
// selection expansion.
const semanticEscapeChars = ",│`|:\"' ()[]{}<>\t"

func isSemanticSeparator(r rune) bool {
	return r == 0 || strings.ContainsRune(semanticEscapeChars, r)
}

func (b *TerminalBackend) semanticStart(p Point) Point {
	if isSemanticSeparator(b.cellAt(p).Char) {
		return p
	}
	for p.Col > 0 {
		prev := Point{Line: p.Line, Col: p.Col - 1}
		if isSemanticSeparator(b.cellAt(prev).Char) {
			break
		}
		p = prev
	}
	return p
}

func (b *TerminalBackend) semanticEnd(p Point) Point {
	if isSemanticSeparator(b.cellAt(p).Char) {
		return p
	}
	for p.Col < b.size.NumCols-1 {
		next := Point{Line: p.Line, Col: p.Col + 1}
		if isSemanticSeparator(b.cellAt(next).Char) {
			break
		}
		p = next
	}
	return p
}

// processLink updates or acts on the hovered hyperlink span. Open failures
// never propagate to the frame loop.
func (b *TerminalBackend) processLink(action LinkAction, p Point) {
	switch action {
	case LinkHover:
		b.lastContent.Hovered = b.scanLink(p)
	case LinkClear:
		b.lastContent.Hovered = nil
	case LinkOpen:
		b.openHoveredLink()
	}
}

// openHoveredLink reconstructs the URL from the stored span by walking the
// grid from its start to end coordinate and hands it to the OS opener.
func (b *TerminalBackend) openHoveredLink() {
	span := b.lastContent.Hovered
	if span == nil {
		return
	}

	var sb strings.Builder
	for p := span.Start; !span.End.Before(p); p = advancePoint(p, b.size.NumCols) {
		cell := b.cellAt(p)
		if cell.IsWideSpacer() || cell.Char == 0 {
			continue
		}
		sb.WriteRune(cell.Char)
	}

	url := sb.String()
	if err := b.openURL(url); err != nil {
		b.log.Warn("link opening failed", "url", url, "err", err)
	}
}
