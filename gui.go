package termview

import (
	"image/color"

	"github.com/atotto/clipboard"
)

// This file defines the boundary to the host GUI toolkit. The widget is
// toolkit-agnostic: an immediate-mode UI integrates by implementing Frame,
// Painter and Memory and calling TerminalView.Show once per frame.

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Contains returns true if all modifiers in other are held.
func (m Modifiers) Contains(other Modifiers) bool {
	return m&other == other
}

// IsEmpty returns true if no modifier is held.
func (m Modifiers) IsEmpty() bool {
	return m == 0
}

// CtrlOnly returns true if ctrl is the only held modifier.
func (m Modifiers) CtrlOnly() bool {
	return m == ModCtrl
}

// Key is a named key delivered by the host toolkit. Printable input arrives
// as TextEvent instead; Key covers editing, navigation, function and letter
// keys that participate in bindings.
type Key int

const (
	KeyNone Key = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

// KeyFromName maps a single-letter text event to its Key, so bindings on
// letter keys can suppress the default write-through of typed text.
func KeyFromName(text string) (Key, bool) {
	if len(text) != 1 {
		return KeyNone, false
	}
	c := text[0]
	switch {
	case c >= 'a' && c <= 'z':
		return KeyA + Key(c-'a'), true
	case c >= 'A' && c <= 'Z':
		return KeyA + Key(c-'A'), true
	}
	return KeyNone, false
}

// PointerButton identifies a mouse button.
type PointerButton int

const (
	PointerButtonPrimary PointerButton = iota
	PointerButtonSecondary
	PointerButtonMiddle
)

// WheelUnit is the unit of a mouse wheel delta.
type WheelUnit int

const (
	// WheelUnitLine scrolls in whole lines.
	WheelUnitLine WheelUnit = iota
	// WheelUnitPoint scrolls in pixels; the widget accumulates sub-cell
	// remainders across frames.
	WheelUnitPoint
	// WheelUnitPage scrolls in pages. Not translated.
	WheelUnitPage
)

// Pos is a position in pixels.
type Pos struct {
	X float32
	Y float32
}

// Rect is an axis-aligned pixel rectangle.
type Rect struct {
	Min Pos
	Max Pos
}

// Size returns the rectangle dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Max.X - r.Min.X, Height: r.Max.Y - r.Min.Y}
}

// Contains returns true if p falls inside the rectangle.
func (r Rect) Contains(p Pos) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// InputEvent is one UI input event delivered by the host toolkit for the
// current frame.
type InputEvent interface {
	isInputEvent()
}

// TextEvent carries typed text.
type TextEvent struct {
	Text string
}

// KeyEvent carries a key press or release.
type KeyEvent struct {
	Key       Key
	Pressed   bool
	Repeat    bool
	Modifiers Modifiers
}

// PointerButtonEvent carries a mouse button press or release at a position.
type PointerButtonEvent struct {
	Button    PointerButton
	Pressed   bool
	Modifiers Modifiers
	Pos       Pos
}

// PointerMovedEvent carries pointer motion.
type PointerMovedEvent struct {
	Pos Pos
}

// WheelEvent carries mouse wheel motion.
type WheelEvent struct {
	Unit  WheelUnit
	Delta Pos
}

// CopyEvent is the toolkit-level copy action (e.g. ctrl+shift+C chord
// recognized by the toolkit).
type CopyEvent struct{}

// PasteEvent carries pasted clipboard text.
type PasteEvent struct {
	Text string
}

func (TextEvent) isInputEvent()          {}
func (KeyEvent) isInputEvent()           {}
func (PointerButtonEvent) isInputEvent() {}
func (PointerMovedEvent) isInputEvent()  {}
func (WheelEvent) isInputEvent()         {}
func (CopyEvent) isInputEvent()          {}
func (PasteEvent) isInputEvent()         {}

// Frame is the per-frame context the host toolkit supplies to the widget:
// the allocated rectangle, focus negotiation, the input event stream, click
// counting and font metrics.
type Frame interface {
	// Rect returns the pixel rectangle allocated to the widget this frame.
	Rect() Rect
	// HasFocus reports whether the widget holds keyboard focus.
	HasFocus() bool
	// RequestFocus asks the toolkit for keyboard focus.
	RequestFocus()
	// SurrenderFocus gives up keyboard focus.
	SurrenderFocus()
	// ContainsPointer reports whether the pointer is over the widget.
	ContainsPointer() bool
	// Modifiers returns the modifiers held this frame.
	Modifiers() Modifiers
	// Events returns the input events delivered this frame.
	Events() []InputEvent
	// DoubleClicked reports a double click this frame.
	DoubleClicked() bool
	// TripleClicked reports a triple click this frame.
	TripleClicked() bool
	// CellMetrics returns the glyph advance and row height of the terminal
	// font, which become the cell dimensions.
	CellMetrics() Size
	// WriteClipboard places text on the system clipboard.
	WriteClipboard(text string)
}

// Painter receives the paint primitives the widget emits.
type Painter interface {
	// FillRect fills a rectangle with a solid color.
	FillRect(r Rect, c color.RGBA)
	// Line strokes a line segment with the given thickness.
	Line(from, to Pos, thickness float32, c color.RGBA)
	// Glyph draws a single character cell. pos is the top-left corner of the
	// cell and width its occupied pixel width (doubled for wide characters).
	Glyph(pos Pos, width, height float32, ch rune, c color.RGBA)
}

// ViewState is the small persistent widget state round-tripped through the
// toolkit's frame memory: the drag flag, the sub-pixel wheel accumulator and
// the grid position under the pointer. It is only touched on the UI thread.
type ViewState struct {
	Dragging     bool
	ScrollPixels float32
	PointerCell  Point
}

// Memory is the toolkit's persistent per-widget storage slot.
type Memory interface {
	// ViewState loads the state stored under id.
	ViewState(id string) (ViewState, bool)
	// SetViewState stores state under id.
	SetViewState(id string, state ViewState)
}

// MapMemory is a map-backed Memory for hosts without their own widget
// storage, and for tests.
type MapMemory map[string]ViewState

func (m MapMemory) ViewState(id string) (ViewState, bool) {
	s, ok := m[id]
	return s, ok
}

func (m MapMemory) SetViewState(id string, state ViewState) {
	m[id] = state
}

// Clipboard writes text to a clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}
