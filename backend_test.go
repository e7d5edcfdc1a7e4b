package termview

import (
	"bytes"
	"context"
	"strings"
	"testing"

	headlessterm "github.com/danielgatis/go-headless-term"
	"pkt.systems/pslog"
)

// newTestBackend builds a backend over a plain engine terminal with 1x1
// pixel cells, so pixel positions equal grid positions.
func newTestBackend(t *testing.T, lines, cols int) (*TerminalBackend, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	term := headlessterm.New(
		headlessterm.WithSize(lines, cols),
		headlessterm.WithScrollback(headlessterm.NewMemoryScrollback(1000)),
	)

	b := newBackend(1, term, out, nil, pslog.Ctx(context.Background()))
	b.ProcessCommand(ResizeCommand{
		Layout: NewSize(float32(cols), float32(lines)),
		Cell:   NewSize(1, 1),
	})
	return b, out
}

func feed(t *testing.T, b *TerminalBackend, s string) {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.term.Write([]byte(s)); err != nil {
		t.Fatalf("engine write failed: %v", err)
	}
}

func TestResizeGeometry(t *testing.T) {
	calls := 0
	term := headlessterm.New(headlessterm.WithSize(24, 80))
	b := newBackend(1, term, &bytes.Buffer{}, func(TerminalSize) error {
		calls++
		return nil
	}, pslog.Ctx(context.Background()))

	b.ProcessCommand(ResizeCommand{Layout: NewSize(800, 600), Cell: NewSize(10, 20)})

	got := b.Size()
	if got.NumCols != 80 || got.NumLines != 30 {
		t.Errorf("got %dx%d, want 80x30", got.NumCols, got.NumLines)
	}
	if got.CellWidth != 10 || got.CellHeight != 20 {
		t.Errorf("got cell %dx%d, want 10x20", got.CellWidth, got.CellHeight)
	}
	if calls != 1 {
		t.Errorf("got %d resize notifications, want 1", calls)
	}

	// An identical geometry must not renegotiate.
	b.ProcessCommand(ResizeCommand{Layout: NewSize(800, 600), Cell: NewSize(10, 20)})
	if calls != 1 {
		t.Errorf("got %d resize notifications after repeat, want 1", calls)
	}
}

func TestResizeIgnoresInvalidCellMetrics(t *testing.T) {
	b, _ := newTestBackend(t, 10, 20)

	b.ProcessCommand(ResizeCommand{Layout: NewSize(800, 600), Cell: NewSize(0, 0)})

	got := b.Size()
	if got.NumCols != 20 || got.NumLines != 10 {
		t.Errorf("got %dx%d, want 20x10", got.NumCols, got.NumLines)
	}
}

func TestScrollClampsToScrollback(t *testing.T) {
	b, _ := newTestBackend(t, 2, 20)
	feed(t, b, "a\r\nb\r\nc\r\nd")

	sbLen := b.term.ScrollbackLen()
	if sbLen != 2 {
		t.Fatalf("got scrollback %d, want 2", sbLen)
	}

	b.ProcessCommand(ScrollCommand{Delta: 1})
	if got := b.Sync().DisplayOffset; got != 1 {
		t.Errorf("got offset %d, want 1", got)
	}

	b.ProcessCommand(ScrollCommand{Delta: 100})
	if got := b.Sync().DisplayOffset; got != sbLen {
		t.Errorf("got offset %d, want %d", got, sbLen)
	}

	b.ProcessCommand(ScrollCommand{Delta: -100})
	if got := b.Sync().DisplayOffset; got != 0 {
		t.Errorf("got offset %d, want 0", got)
	}
}

func TestWriteSnapsViewportToBottom(t *testing.T) {
	b, out := newTestBackend(t, 2, 20)
	feed(t, b, "a\r\nb\r\nc\r\nd")

	b.ProcessCommand(ScrollCommand{Delta: 2})
	if got := b.Sync().DisplayOffset; got != 2 {
		t.Fatalf("got offset %d, want 2", got)
	}

	b.ProcessCommand(WriteCommand{Data: []byte("x")})
	if got := out.String(); got != "x" {
		t.Errorf("got output %q, want %q", got, "x")
	}
	if got := b.Sync().DisplayOffset; got != 0 {
		t.Errorf("got offset %d, want 0", got)
	}
}

func TestScrollAlternateScreenSendsCursorKeys(t *testing.T) {
	b, out := newTestBackend(t, 5, 20)
	feed(t, b, "\x1b[?1049h\x1b[?1007h")

	b.ProcessCommand(ScrollCommand{Delta: 3})
	if got := out.String(); got != "\x1bOA\x1bOA\x1bOA" {
		t.Errorf("got %q, want three up sequences", got)
	}

	out.Reset()
	b.ProcessCommand(ScrollCommand{Delta: -2})
	if got := out.String(); got != "\x1bOB\x1bOB" {
		t.Errorf("got %q, want two down sequences", got)
	}

	if got := b.Sync().DisplayOffset; got != 0 {
		t.Errorf("got offset %d, want 0 on alternate screen", got)
	}
}

func TestSimpleSelection(t *testing.T) {
	b, _ := newTestBackend(t, 5, 20)
	feed(t, b, "Hello, World")

	b.ProcessCommand(SelectStartCommand{Kind: SelectionSimple, X: 0, Y: 0})
	b.ProcessCommand(SelectUpdateCommand{X: 5, Y: 0})

	content := b.Sync()
	if content.Selection == nil {
		t.Fatal("got nil selection")
	}
	want := SelectionRange{Start: Point{Line: 0, Col: 0}, End: Point{Line: 0, Col: 4}}
	if *content.Selection != want {
		t.Errorf("got %+v, want %+v", *content.Selection, want)
	}

	if got := b.SelectableContent(); got != "Hello" {
		t.Errorf("got %q, want %q", got, "Hello")
	}
}

func TestSelectionSinglePointIsEmpty(t *testing.T) {
	b, _ := newTestBackend(t, 5, 20)
	feed(t, b, "Hello")

	b.ProcessCommand(SelectStartCommand{Kind: SelectionSimple, X: 2, Y: 0})

	if content := b.Sync(); content.Selection != nil {
		t.Errorf("got %+v, want nil", *content.Selection)
	}
}

func TestSemanticSelection(t *testing.T) {
	b, _ := newTestBackend(t, 5, 20)
	feed(t, b, "foo bar baz")

	b.ProcessCommand(SelectStartCommand{Kind: SelectionSemantic, X: 5, Y: 0})

	content := b.Sync()
	if content.Selection == nil {
		t.Fatal("got nil selection")
	}
	want := SelectionRange{Start: Point{Line: 0, Col: 4}, End: Point{Line: 0, Col: 6}}
	if *content.Selection != want {
		t.Errorf("got %+v, want %+v", *content.Selection, want)
	}

	if got := b.SelectableContent(); got != "bar" {
		t.Errorf("got %q, want %q", got, "bar")
	}
}

func TestLineSelection(t *testing.T) {
	b, _ := newTestBackend(t, 5, 3)
	feed(t, b, "abc\r\ndef")

	b.ProcessCommand(SelectStartCommand{Kind: SelectionLines, X: 1, Y: 0})
	b.ProcessCommand(SelectUpdateCommand{X: 1, Y: 1})

	if got := b.SelectableContent(); got != "abc\ndef" {
		t.Errorf("got %q, want %q", got, "abc\ndef")
	}
}

func TestClearSelection(t *testing.T) {
	b, _ := newTestBackend(t, 5, 20)
	feed(t, b, "Hello")

	b.ProcessCommand(SelectStartCommand{Kind: SelectionSimple, X: 0, Y: 0})
	b.ProcessCommand(SelectUpdateCommand{X: 4, Y: 0})
	b.ClearSelection()

	if content := b.Sync(); content.Selection != nil {
		t.Errorf("got %+v, want nil", *content.Selection)
	}
}

func TestSelectionPointClamps(t *testing.T) {
	size := TerminalSize{CellWidth: 10, CellHeight: 20, NumCols: 80, NumLines: 24}

	tests := []struct {
		x, y   float32
		offset int
		want   Point
	}{
		{-5, -5, 0, Point{Line: 0, Col: 0}},
		{5000, 5000, 0, Point{Line: 23, Col: 79}},
		{15, 45, 0, Point{Line: 2, Col: 1}},
		{0, 0, 3, Point{Line: -3, Col: 0}},
	}

	for _, tt := range tests {
		got := SelectionPoint(tt.x, tt.y, size, tt.offset)
		if got != tt.want {
			t.Errorf("SelectionPoint(%v, %v, offset %d) = %+v, want %+v", tt.x, tt.y, tt.offset, got, tt.want)
		}
	}
}

func TestMouseReportSGRThroughBackend(t *testing.T) {
	b, out := newTestBackend(t, 5, 20)
	feed(t, b, "\x1b[?1000h\x1b[?1006h")
	b.Sync()

	b.ProcessCommand(MouseReportCommand{
		Button:  MouseButtonLeft,
		Point:   Point{Line: 2, Col: 3},
		Pressed: true,
	})
	if got := out.String(); got != "\x1b[<0;4;3M" {
		t.Errorf("got %q, want %q", got, "\x1b[<0;4;3M")
	}

	out.Reset()
	b.ProcessCommand(MouseReportCommand{
		Button:  MouseButtonLeft,
		Point:   Point{Line: 2, Col: 3},
		Pressed: false,
	})
	if got := out.String(); got != "\x1b[<0;4;3m" {
		t.Errorf("got %q, want %q", got, "\x1b[<0;4;3m")
	}
}

func TestLinkHover(t *testing.T) {
	b, _ := newTestBackend(t, 5, 40)
	feed(t, b, "visit https://example.com now")

	b.ProcessCommand(ProcessLinkCommand{Action: LinkHover, Point: Point{Line: 0, Col: 10}})

	content := b.LastContent()
	if content.Hovered == nil {
		t.Fatal("got nil hovered span")
	}
	want := LinkRange{Start: Point{Line: 0, Col: 6}, End: Point{Line: 0, Col: 24}}
	if *content.Hovered != want {
		t.Errorf("got %+v, want %+v", *content.Hovered, want)
	}

	// Hovering outside the URL clears nothing but finds no span.
	b.ProcessCommand(ProcessLinkCommand{Action: LinkHover, Point: Point{Line: 0, Col: 1}})
	if content := b.LastContent(); content.Hovered != nil {
		t.Errorf("got %+v, want nil", *content.Hovered)
	}
}

func TestLinkHoverAcrossWrappedLine(t *testing.T) {
	b, _ := newTestBackend(t, 5, 20)
	feed(t, b, "https://example.com/long/path")

	b.ProcessCommand(ProcessLinkCommand{Action: LinkHover, Point: Point{Line: 1, Col: 3}})

	content := b.LastContent()
	if content.Hovered == nil {
		t.Fatal("got nil hovered span")
	}
	want := LinkRange{Start: Point{Line: 0, Col: 0}, End: Point{Line: 1, Col: 8}}
	if *content.Hovered != want {
		t.Errorf("got %+v, want %+v", *content.Hovered, want)
	}
}

func TestLinkScanRespectsMargin(t *testing.T) {
	b, _ := newTestBackend(t, 2, 30)
	feed(t, b, "https://example.com"+strings.Repeat("\r\n", 150))

	sbLen := b.term.ScrollbackLen()
	if sbLen != 149 {
		t.Fatalf("got scrollback %d, want 149", sbLen)
	}
	target := Point{Line: -sbLen, Col: 5}

	// With the viewport at the bottom the line sits beyond the scan margin.
	b.ProcessCommand(ProcessLinkCommand{Action: LinkHover, Point: target})
	if content := b.LastContent(); content.Hovered != nil {
		t.Errorf("got %+v, want nil beyond scan margin", *content.Hovered)
	}

	// Scrolled up to it, the line is inside the scanned window.
	b.ProcessCommand(ScrollCommand{Delta: sbLen})
	b.ProcessCommand(ProcessLinkCommand{Action: LinkHover, Point: target})
	content := b.LastContent()
	if content.Hovered == nil {
		t.Fatal("got nil hovered span inside scan margin")
	}
	if content.Hovered.Start != (Point{Line: -sbLen, Col: 0}) {
		t.Errorf("got span start %+v, want line %d col 0", content.Hovered.Start, -sbLen)
	}
}

func TestLinkClear(t *testing.T) {
	b, _ := newTestBackend(t, 5, 40)
	feed(t, b, "https://example.com")

	b.ProcessCommand(ProcessLinkCommand{Action: LinkHover, Point: Point{Line: 0, Col: 3}})
	if b.LastContent().Hovered == nil {
		t.Fatal("got nil hovered span")
	}

	b.ProcessCommand(ProcessLinkCommand{Action: LinkClear})
	if content := b.LastContent(); content.Hovered != nil {
		t.Errorf("got %+v, want nil after clear", *content.Hovered)
	}
}

func TestLinkOpenReconstructsURL(t *testing.T) {
	b, _ := newTestBackend(t, 5, 40)
	feed(t, b, "see https://example.com/path here")

	var opened string
	b.openURL = func(url string) error {
		opened = url
		return nil
	}

	b.ProcessCommand(ProcessLinkCommand{Action: LinkHover, Point: Point{Line: 0, Col: 8}})
	b.ProcessCommand(ProcessLinkCommand{Action: LinkOpen})

	if opened != "https://example.com/path" {
		t.Errorf("got %q, want %q", opened, "https://example.com/path")
	}
}

func TestLinkOpenWithoutHoverIsNoop(t *testing.T) {
	b, _ := newTestBackend(t, 5, 40)

	called := false
	b.openURL = func(string) error {
		called = true
		return nil
	}

	b.ProcessCommand(ProcessLinkCommand{Action: LinkOpen})
	if called {
		t.Error("opener called without a hovered span")
	}
}

func TestSyncViewportIncludesScrollback(t *testing.T) {
	b, _ := newTestBackend(t, 2, 10)
	feed(t, b, "one\r\ntwo\r\nthree\r\nfour")

	b.ProcessCommand(ScrollCommand{Delta: 2})
	content := b.Sync()

	if got := content.Lines[0][0].Char; got != 'o' {
		t.Errorf("got top-left %q, want 'o'", got)
	}
	if got := content.CellPoint(0, 0); got != (Point{Line: -2, Col: 0}) {
		t.Errorf("got %+v, want line -2 col 0", got)
	}
}
