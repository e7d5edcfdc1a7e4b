package termview

import "fmt"

// TerminalView is the immediate-mode terminal widget. It is stateless apart
// from its configuration; the per-widget runtime state lives in the toolkit
// memory so the same view value can be shown in several frames.
type TerminalView struct {
	backend  *TerminalBackend
	theme    *Theme
	bindings *Bindings
	hasFocus bool
}

// ViewOption configures a TerminalView.
type ViewOption func(*TerminalView)

// WithTheme sets the color theme.
func WithTheme(theme *Theme) ViewOption {
	return func(v *TerminalView) {
		v.theme = theme
	}
}

// WithBindings registers extra key bindings on top of the default layout.
func WithBindings(bindings ...Binding) ViewOption {
	return func(v *TerminalView) {
		v.bindings.Add(bindings...)
	}
}

// WithFocus sets whether the widget claims keyboard focus each frame.
func WithFocus(focus bool) ViewOption {
	return func(v *TerminalView) {
		v.hasFocus = focus
	}
}

// NewTerminalView makes a widget over a backend. Defaults: default theme,
// default binding layout, focus claimed.
func NewTerminalView(backend *TerminalBackend, opts ...ViewOption) *TerminalView {
	v := &TerminalView{
		backend:  backend,
		theme:    DefaultTheme(),
		bindings: NewBindings(),
		hasFocus: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// stateID returns the memory key for this widget instance.
func (v *TerminalView) stateID() string {
	return fmt.Sprintf("termview::instance::%d", v.backend.ID())
}

// Show runs one widget frame: negotiate focus, renegotiate the grid size
// from the frame rectangle, translate this frame's input events into
// backend commands, synchronize and paint.
func (v *TerminalView) Show(frame Frame, painter Painter, memory Memory) {
	id := v.stateID()
	state, _ := memory.ViewState(id)

	if v.hasFocus {
		frame.RequestFocus()
	} else {
		frame.SurrenderFocus()
	}

	v.backend.ProcessCommand(ResizeCommand{
		Layout: frame.Rect().Size(),
		Cell:   frame.CellMetrics(),
	})

	v.processInput(frame, &state)

	content := v.backend.Sync()
	drawContent(painter, frame.Rect(), content, v.theme, &state)

	memory.SetViewState(id, state)
}

// processInput translates the frame's event stream. Events are only
// consumed while the widget has focus and the pointer is over it.
func (v *TerminalView) processInput(frame Frame, state *ViewState) {
	if !frame.HasFocus() || !frame.ContainsPointer() {
		return
	}

	mods := frame.Modifiers()
	for _, ev := range frame.Events() {
		switch e := ev.(type) {
		case TextEvent, KeyEvent, CopyEvent, PasteEvent:
			v.apply(frame, translateKeyboard(e, v.backend, v.bindings, mods))
		case WheelEvent:
			v.apply(frame, translateWheel(state, float32(v.backend.Size().CellHeight), e))
		case PointerButtonEvent:
			v.apply(frame, translateButton(state, frame, v.backend, v.bindings, e))
		case PointerMovedEvent:
			for _, action := range translateMove(state, frame, v.backend, e.Pos, mods) {
				v.apply(frame, action)
			}
		}
	}
}

// apply executes one translated input action.
func (v *TerminalView) apply(frame Frame, action inputAction) {
	switch a := action.(type) {
	case commandAction:
		v.backend.ProcessCommand(a.cmd)
	case clipboardAction:
		frame.WriteClipboard(a.text)
	}
}
