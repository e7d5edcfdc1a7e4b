package termview

import (
	headlessterm "github.com/danielgatis/go-headless-term"
)

// drawContent projects a render snapshot into paint primitives on the
// painter, drawing background rectangles, link underlines, the cursor block
// and glyphs cell by cell.
func drawContent(p Painter, rect Rect, content *RenderableContent, theme *Theme, state *ViewState) {
	cellW := float32(content.Size.CellWidth)
	cellH := float32(content.Size.CellHeight)

	globalBg := theme.Background()
	p.FillRect(rect, globalBg)

	for r, row := range content.Lines {
		for c := range row {
			cell := &row[c]
			if cell.IsWideSpacer() {
				continue
			}

			point := content.CellPoint(r, c)
			x := rect.Min.X + cellW*float32(c)
			y := rect.Min.Y + cellH*float32(r)

			width := cellW
			if cell.IsWide() {
				width *= 2
			}

			fg := theme.Color(cell.Fg, true)
			bg := theme.Color(cell.Bg, false)
			if cell.HasFlag(headlessterm.CellFlagDim) {
				fg = dimColor(fg)
			}

			selected := content.Selection != nil && content.Selection.Contains(point)
			if cell.HasFlag(headlessterm.CellFlagReverse) || selected {
				fg, bg = bg, fg
			}

			// Overpaint by one pixel so adjacent background rectangles do
			// not leave seams at fractional scale factors.
			if bg != globalBg {
				p.FillRect(Rect{
					Min: Pos{X: x, Y: y},
					Max: Pos{X: x + width + 1, Y: y + cellH + 1},
				}, bg)
			}

			hovered := content.Hovered != nil &&
				content.Hovered.Contains(point) &&
				content.Hovered.Contains(state.PointerCell)
			if hovered {
				uy := y + cellH
				p.Line(Pos{X: x, Y: uy}, Pos{X: x + width, Y: uy}, cellH*0.15, fg)
			}

			atCursor := content.Cursor.Visible && content.Cursor.Point == point
			if atCursor {
				p.FillRect(Rect{
					Min: Pos{X: x, Y: y},
					Max: Pos{X: x + width, Y: y + cellH},
				}, theme.Color(content.Cursor.Fg, true))
			}

			ch := cell.Char
			if ch == ' ' || ch == '\t' || ch == 0 {
				continue
			}
			if atCursor && content.Mode&ModeAppCursor != 0 {
				fg, bg = bg, fg
			}
			p.Glyph(Pos{X: x, Y: y}, width, cellH, ch, fg)
		}
	}
}
