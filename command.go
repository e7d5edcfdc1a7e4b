package termview

import (
	headlessterm "github.com/danielgatis/go-headless-term"
)

// TerminalMode is the engine's mode bitmask, re-exported so callers can
// build mode-scoped bindings without importing the engine package.
type TerminalMode = headlessterm.TerminalMode

// Named mode flags the adapter cares about. The engine toggles these in
// response to DECSET/DECRST sequences from the application.
const (
	// ModeAppCursor is application cursor key mode (DECCKM).
	ModeAppCursor = headlessterm.ModeCursorKeys
	// ModeAltScreen is the alternate screen buffer (DECSET 1049).
	ModeAltScreen = headlessterm.ModeSwapScreenAndSetRestoreCursor
	// ModeSGRMouse is SGR extended mouse reporting (DECSET 1006).
	ModeSGRMouse = headlessterm.ModeSGRMouse
	// ModeUTF8Mouse is UTF-8 extended legacy mouse reporting (DECSET 1005).
	ModeUTF8Mouse = headlessterm.ModeUTF8Mouse
	// ModeAlternateScroll translates wheel scrolling on the alternate screen
	// into cursor key sequences (DECSET 1007).
	ModeAlternateScroll = headlessterm.ModeAlternateScroll
	// ModeBracketedPaste wraps pasted text in bracket sequences (DECSET 2004).
	ModeBracketedPaste = headlessterm.ModeBracketedPaste

	// ModeMouseMotion is any motion-reporting mode (DECSET 1002/1003).
	ModeMouseMotion = headlessterm.ModeReportCellMouseMotion | headlessterm.ModeReportAllMouseMotion
	// ModeMouseReport is any mouse-reporting mode (DECSET 1000/1002/1003).
	ModeMouseReport = headlessterm.ModeReportMouseClicks | ModeMouseMotion
)

// BackendCommand is a request dispatched to the terminal backend. Commands
// are processed synchronously under the backend lock.
type BackendCommand interface {
	isBackendCommand()
}

// WriteCommand forwards raw bytes to the child process and snaps the
// viewport back to the live bottom of the grid.
type WriteCommand struct {
	Data []byte
}

// ScrollCommand moves the scrollback viewport by Delta lines. Positive
// deltas scroll up into scrollback. While the alternate screen is active
// with alternate-scroll mode, the delta is translated into application
// cursor key sequences instead.
type ScrollCommand struct {
	Delta int
}

// ResizeCommand renegotiates the grid geometry from the widget's pixel
// layout size and the current font cell metrics. Dispatched every frame;
// it is a no-op when neither input changed.
type ResizeCommand struct {
	Layout Size
	Cell   Size
}

// SelectStartCommand begins a new selection at a pixel position.
type SelectStartCommand struct {
	Kind SelectionType
	X    float32
	Y    float32
}

// SelectUpdateCommand extends the active selection to a pixel position.
// Ignored when no selection is active.
type SelectUpdateCommand struct {
	X float32
	Y float32
}

// LinkAction selects what ProcessLinkCommand does with the hyperlink state.
type LinkAction int

const (
	// LinkClear drops the hovered hyperlink span.
	LinkClear LinkAction = iota
	// LinkHover rescans the visible viewport for a hyperlink under the point.
	LinkHover
	// LinkOpen opens the hovered hyperlink with the OS handler.
	LinkOpen
)

// ProcessLinkCommand updates or acts on the hovered hyperlink span.
type ProcessLinkCommand struct {
	Action LinkAction
	Point  Point
}

// MouseButton is the button code used in mouse reports. Motion variants are
// offset by 32, wheel buttons start at 64.
type MouseButton int

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonMiddle MouseButton = 1
	MouseButtonRight  MouseButton = 2
	MouseMoveLeft     MouseButton = 32
	MouseMoveMiddle   MouseButton = 33
	MouseMoveRight    MouseButton = 34
	MouseMoveNone     MouseButton = 35
	MouseWheelUp      MouseButton = 64
	MouseWheelDown    MouseButton = 65
)

// MouseReportCommand encodes a mouse event using the negotiated mouse
// protocol and writes it to the child process.
type MouseReportCommand struct {
	Button    MouseButton
	Modifiers Modifiers
	Point     Point
	Pressed   bool
}

func (WriteCommand) isBackendCommand()        {}
func (ScrollCommand) isBackendCommand()       {}
func (ResizeCommand) isBackendCommand()       {}
func (SelectStartCommand) isBackendCommand()  {}
func (SelectUpdateCommand) isBackendCommand() {}
func (ProcessLinkCommand) isBackendCommand()  {}
func (MouseReportCommand) isBackendCommand()  {}
