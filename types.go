package termview

// Size is a width/height pair in pixels.
type Size struct {
	Width  float32
	Height float32
}

// NewSize creates a Size from width and height.
func NewSize(width, height float32) Size {
	return Size{Width: width, Height: height}
}

// Point identifies a cell in the terminal content. Line 0 is the top row of
// the live grid; negative lines reach into scrollback (-1 is the most
// recently scrolled-off line). Col is the 0-based column.
type Point struct {
	Line int
	Col  int
}

// Before returns true if p comes before other in display order
// (top-to-bottom, left-to-right).
func (p Point) Before(other Point) bool {
	if p.Line < other.Line {
		return true
	}
	return p.Line == other.Line && p.Col < other.Col
}

// After returns true if p comes after other in display order.
func (p Point) After(other Point) bool {
	return other.Before(p)
}

// Side identifies which half of a cell a pixel position falls on.
// Selections started on the right half of a cell bias the range rightward.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// SelectionType determines how a selection grows from its anchor.
type SelectionType int

const (
	// SelectionSimple selects a plain character run.
	SelectionSimple SelectionType = iota
	// SelectionSemantic expands to word boundaries (double click).
	SelectionSemantic
	// SelectionLines selects whole lines (triple click).
	SelectionLines
)

// SelectionRange is an inclusive range of cells in display order.
type SelectionRange struct {
	Start Point
	End   Point
}

// Contains returns true if p falls inside the inclusive range.
func (r SelectionRange) Contains(p Point) bool {
	return !p.Before(r.Start) && !r.End.Before(p)
}

// TerminalSize describes the negotiated grid geometry: cell dimensions in
// pixels, the column/line counts derived from them, and the pixel layout
// size the widget was given.
type TerminalSize struct {
	CellWidth  int
	CellHeight int
	NumCols    int
	NumLines   int
	LayoutSize Size
}

// DefaultTerminalSize is the geometry a fresh session starts with, before
// the first resize negotiation against real font metrics.
func DefaultTerminalSize() TerminalSize {
	return TerminalSize{
		CellWidth:  1,
		CellHeight: 1,
		NumCols:    80,
		NumLines:   50,
	}
}
