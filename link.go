package termview

import "regexp"

// Hyperlink scanning is viewport-scoped: only the visible rows plus a fixed
// margin above and below are searched, so the cost is independent of
// scrollback depth. The matched span is kept until the next hover query or
// an explicit clear; it is not revalidated against later grid edits.

// linkScanMargin is the number of lines searched beyond the visible
// viewport in each direction.
const linkScanMargin = 100

// defaultURLPattern matches the URL schemes a terminal conventionally makes
// clickable. The character class excludes controls, whitespace, quoting and
// bracket characters that end a URL in running text.
const defaultURLPattern = `(ipfs:|ipns:|magnet:|mailto:|gemini://|gopher://|https://|http://|news:|file://|git://|ssh:|ftp://)` +
	`[^\x00-\x1f\x7f-\x9f<>"\s\x7b-\x7d^⟨⟩` + "`" + `]+`

// LinkRange is the inclusive grid span of a hovered hyperlink.
type LinkRange struct {
	Start Point
	End   Point
}

// Contains returns true if p falls inside the span.
func (r LinkRange) Contains(p Point) bool {
	return !p.Before(r.Start) && !r.End.Before(p)
}

// linkPattern is a compiled URL matcher.
type linkPattern struct {
	re *regexp.Regexp
}

func defaultLinkPattern() *linkPattern {
	return &linkPattern{re: regexp.MustCompile(defaultURLPattern)}
}

// scanLink searches the visible viewport extended by the scan margin for
// the first pattern match whose span contains p. Wrapped grid lines are
// joined into one logical line before matching so URLs broken at the right
// edge still match.
func (b *TerminalBackend) scanLink(p Point) *LinkRange {
	sbLen := b.term.ScrollbackLen()

	viewportStart := -b.displayOffset
	viewportEnd := viewportStart + b.size.NumLines - 1

	startLine := viewportStart - linkScanMargin
	if startLine < -sbLen {
		startLine = -sbLen
	}
	endLine := viewportEnd + linkScanMargin
	if endLine > b.size.NumLines-1 {
		endLine = b.size.NumLines - 1
	}

	for line := startLine; line <= endLine; {
		text, points, next := b.logicalLine(line, endLine)
		line = next

		if span := matchSpanAt(b.urlPattern.re, text, points, p); span != nil {
			return span
		}
	}

	return nil
}

// logicalLine assembles the text of the logical line starting at startLine,
// following wrapped grid rows up to lastLine. It returns the text, the grid
// point of each rune, and the first line after the logical line.
func (b *TerminalBackend) logicalLine(startLine, lastLine int) (string, []Point, int) {
	var runes []rune
	var points []Point

	line := startLine
	for {
		for col := 0; col < b.size.NumCols; col++ {
			cell := b.cellAt(Point{Line: line, Col: col})
			if cell.IsWideSpacer() {
				continue
			}
			ch := cell.Char
			if ch == 0 {
				ch = ' '
			}
			runes = append(runes, ch)
			points = append(points, Point{Line: line, Col: col})
		}

		// Wrap flags only exist on live grid rows; scrollback lines are
		// treated as complete.
		if line < 0 || line >= lastLine || !b.term.IsWrapped(line) {
			break
		}
		line++
	}

	return string(runes), points, line + 1
}

// matchSpanAt finds the first regex match in text whose grid span contains
// p. points holds the grid point of each rune in text.
func matchSpanAt(re *regexp.Regexp, text string, points []Point, p Point) *LinkRange {
	byteToRune := make(map[int]int, len(points)+1)
	runeIdx := 0
	for byteIdx := range text {
		byteToRune[byteIdx] = runeIdx
		runeIdx++
	}
	byteToRune[len(text)] = runeIdx

	for _, m := range re.FindAllStringIndex(text, -1) {
		startRune := byteToRune[m[0]]
		endRune := byteToRune[m[1]] - 1
		if startRune > endRune || endRune >= len(points) {
			continue
		}

		span := &LinkRange{Start: points[startRune], End: points[endRune]}
		if span.Contains(p) {
			return span
		}
	}

	return nil
}
