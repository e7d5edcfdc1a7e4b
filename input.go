package termview

import "math"

// Input translation: UI events, the binding table and the current terminal
// mode decide whether an event becomes a backend command, a clipboard
// write, or nothing.

type inputAction interface {
	isInputAction()
}

// commandAction dispatches a backend command.
type commandAction struct {
	cmd BackendCommand
}

// clipboardAction writes text to the toolkit clipboard.
type clipboardAction struct {
	text string
}

// ignoreAction drops the event.
type ignoreAction struct{}

func (commandAction) isInputAction()   {}
func (clipboardAction) isInputAction() {}
func (ignoreAction) isInputAction()    {}

func writeAction(data []byte) inputAction {
	return commandAction{cmd: WriteCommand{Data: data}}
}

// translateKeyboard handles text, key, copy and paste events.
func translateKeyboard(ev InputEvent, backend *TerminalBackend, bindings *Bindings, mods Modifiers) inputAction {
	mode := backend.LastContent().Mode

	switch e := ev.(type) {
	case TextEvent:
		return translateText(e.Text, mods, mode, bindings)
	case PasteEvent:
		return translatePaste(e.Text, mods, mode)
	case CopyEvent:
		return translateCopy(backend, mods)
	case KeyEvent:
		return translateKey(e, mode, bindings, backend)
	default:
		return ignoreAction{}
	}
}

// translateText writes typed text through to the process, unless the text
// names a key with an active binding; then the key event carries it.
func translateText(text string, mods Modifiers, mode TerminalMode, bindings *Bindings) inputAction {
	if key, ok := KeyFromName(text); ok {
		if bindings.Action(KeyInput(key), mods, mode) != ActionIgnore {
			return ignoreAction{}
		}
	}
	return writeAction([]byte(text))
}

// translatePaste writes the pasted text when the paste chord is held,
// honoring bracketed paste mode; a bare ^V otherwise.
func translatePaste(text string, mods Modifiers, mode TerminalMode) inputAction {
	if !mods.Contains(ModCtrl | ModShift) {
		return writeAction([]byte{0x16})
	}
	if mode&ModeBracketedPaste != 0 {
		return writeAction([]byte("\x1b[200~" + text + "\x1b[201~"))
	}
	return writeAction([]byte(text))
}

// translateCopy copies the selection when the copy chord is held; a bare ^C
// otherwise.
func translateCopy(backend *TerminalBackend, mods Modifiers) inputAction {
	if !mods.Contains(ModCtrl | ModShift) {
		return writeAction([]byte{0x03})
	}
	return clipboardAction{text: backend.SelectableContent()}
}

func translateKey(ev KeyEvent, mode TerminalMode, bindings *Bindings, backend *TerminalBackend) inputAction {
	if !ev.Pressed {
		return ignoreAction{}
	}

	action := bindings.Action(KeyInput(ev.Key), ev.Modifiers, mode)
	switch action.kind {
	case actionKindChar:
		return writeAction([]byte(string(action.ch)))
	case actionKindEsc:
		return writeAction([]byte(action.esc))
	case actionKindCopy:
		return clipboardAction{text: backend.SelectableContent()}
	default:
		return ignoreAction{}
	}
}

// translateWheel converts wheel motion into scroll commands. Line deltas
// scroll whole lines; point deltas accumulate in the widget state until
// they amount to a full cell height. Wheel-up produces positive deltas
// (scrolling into scrollback); page units are not translated.
func translateWheel(state *ViewState, cellHeight float32, ev WheelEvent) inputAction {
	switch ev.Unit {
	case WheelUnitLine:
		if ev.Delta.Y == 0 {
			return ignoreAction{}
		}
		// Fractional line deltas round away from zero so small wheel ticks
		// still move the viewport.
		lines := int(math.Ceil(math.Abs(float64(ev.Delta.Y))))
		if ev.Delta.Y < 0 {
			lines = -lines
		}
		return commandAction{cmd: ScrollCommand{Delta: lines}}
	case WheelUnitPoint:
		state.ScrollPixels -= ev.Delta.Y
		lines := int(state.ScrollPixels / cellHeight)
		state.ScrollPixels -= float32(lines) * cellHeight
		if lines == 0 {
			return ignoreAction{}
		}
		return commandAction{cmd: ScrollCommand{Delta: -lines}}
	default:
		return ignoreAction{}
	}
}

// translateButton handles pointer button events. Only the primary button
// participates: it either becomes a mouse report (when the application
// negotiated mouse reporting), starts/extends a selection, or opens a
// hovered link on release.
func translateButton(state *ViewState, frame Frame, backend *TerminalBackend, bindings *Bindings, ev PointerButtonEvent) inputAction {
	if ev.Button != PointerButtonPrimary {
		return ignoreAction{}
	}

	mode := backend.LastContent().Mode
	if mode&ModeMouseReport != 0 {
		return commandAction{cmd: MouseReportCommand{
			Button:    MouseButtonLeft,
			Modifiers: ev.Modifiers,
			Point:     state.PointerCell,
			Pressed:   ev.Pressed,
		}}
	}

	if ev.Pressed {
		state.Dragging = true
		return commandAction{cmd: startSelectCommand(frame, ev.Pos)}
	}

	state.Dragging = false
	if frame.DoubleClicked() || frame.TripleClicked() {
		return commandAction{cmd: startSelectCommand(frame, ev.Pos)}
	}

	if bindings.Action(MouseInput(PointerButtonPrimary), ev.Modifiers, mode) == ActionLinkOpen {
		return commandAction{cmd: ProcessLinkCommand{Action: LinkOpen, Point: state.PointerCell}}
	}
	return ignoreAction{}
}

// startSelectCommand picks the selection kind from the click count and
// anchors it at the widget-relative pixel position.
func startSelectCommand(frame Frame, pos Pos) BackendCommand {
	kind := SelectionSimple
	if frame.TripleClicked() {
		kind = SelectionLines
	} else if frame.DoubleClicked() {
		kind = SelectionSemantic
	}

	rect := frame.Rect()
	return SelectStartCommand{
		Kind: kind,
		X:    pos.X - rect.Min.X,
		Y:    pos.Y - rect.Min.Y,
	}
}

// translateMove tracks the pointer's grid position and, while dragging,
// either reports motion to the application or extends the selection. A
// ctrl-only hover triggers a hyperlink scan.
func translateMove(state *ViewState, frame Frame, backend *TerminalBackend, pos Pos, mods Modifiers) []inputAction {
	content := backend.LastContent()
	rect := frame.Rect()
	x := pos.X - rect.Min.X
	y := pos.Y - rect.Min.Y
	state.PointerCell = SelectionPoint(x, y, content.Size, content.DisplayOffset)

	var actions []inputAction
	if state.Dragging {
		if content.Mode&ModeMouseMotion != 0 && mods.IsEmpty() {
			actions = append(actions, commandAction{cmd: MouseReportCommand{
				Button:    MouseMoveLeft,
				Modifiers: mods,
				Point:     state.PointerCell,
				Pressed:   true,
			}})
		} else {
			actions = append(actions, commandAction{cmd: SelectUpdateCommand{X: x, Y: y}})
		}
	}

	if mods.CtrlOnly() {
		actions = append(actions, commandAction{cmd: ProcessLinkCommand{Action: LinkHover, Point: state.PointerCell}})
	}

	return actions
}
