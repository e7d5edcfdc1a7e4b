package termview

import "fmt"

// InputKind is the trigger of a binding: a named key or a pointer button.
type InputKind struct {
	kind   int
	key    Key
	button PointerButton
}

const (
	inputKindKey = iota
	inputKindMouse
)

// KeyInput makes an InputKind for a named key.
func KeyInput(k Key) InputKind {
	return InputKind{kind: inputKindKey, key: k}
}

// MouseInput makes an InputKind for a pointer button.
func MouseInput(b PointerButton) InputKind {
	return InputKind{kind: inputKindMouse, button: b}
}

// BindingAction is what a matched binding does.
type BindingAction struct {
	kind int
	ch   rune
	esc  string
}

const (
	actionKindIgnore = iota
	actionKindChar
	actionKindEsc
	actionKindCopy
	actionKindPaste
	actionKindLinkOpen
)

var (
	// ActionIgnore is the zero action; lookups return it on no match.
	ActionIgnore = BindingAction{kind: actionKindIgnore}
	// ActionCopy copies the selection to the clipboard.
	ActionCopy = BindingAction{kind: actionKindCopy}
	// ActionPaste pastes clipboard text into the terminal.
	ActionPaste = BindingAction{kind: actionKindPaste}
	// ActionLinkOpen opens the hovered hyperlink.
	ActionLinkOpen = BindingAction{kind: actionKindLinkOpen}
)

// Char makes an action that writes a single character to the process.
func Char(r rune) BindingAction {
	return BindingAction{kind: actionKindChar, ch: r}
}

// Esc makes an action that writes an escape sequence to the process.
func Esc(seq string) BindingAction {
	return BindingAction{kind: actionKindEsc, esc: seq}
}

// String implements fmt.Stringer for debugging binding tables.
func (a BindingAction) String() string {
	switch a.kind {
	case actionKindChar:
		return fmt.Sprintf("Char(%q)", a.ch)
	case actionKindEsc:
		return fmt.Sprintf("Esc(%q)", a.esc)
	case actionKindCopy:
		return "Copy"
	case actionKindPaste:
		return "Paste"
	case actionKindLinkOpen:
		return "LinkOpen"
	default:
		return "Ignore"
	}
}

// Binding maps an input and exact modifier set to an action, optionally
// scoped to terminal modes: every flag in ModeInclude must be active and
// none in ModeExclude.
type Binding struct {
	Input       InputKind
	Modifiers   Modifiers
	ModeInclude TerminalMode
	ModeExclude TerminalMode
	Action      BindingAction
}

// Bindings is the lookup table consulted by the input translator. Later
// registrations override earlier ones sharing the same input, modifiers and
// mode scope.
type Bindings struct {
	list []Binding
}

// NewBindings returns a table preloaded with the default terminal layout.
func NewBindings() *Bindings {
	b := &Bindings{}
	b.addDefaults()
	return b
}

// Add registers bindings. An entry whose (input, modifiers, mode scope) key
// exactly collides with an existing one replaces it in place.
func (b *Bindings) Add(bindings ...Binding) {
	for _, nb := range bindings {
		replaced := false
		for i, old := range b.list {
			if old.Input == nb.Input && old.Modifiers == nb.Modifiers &&
				old.ModeInclude == nb.ModeInclude && old.ModeExclude == nb.ModeExclude {
				b.list[i] = nb
				replaced = true
				break
			}
		}
		if !replaced {
			b.list = append(b.list, nb)
		}
	}
}

// Action looks up the action for an input under the given modifiers and
// terminal mode. Exact modifier matching; among applicable entries the most
// recently registered wins. Returns ActionIgnore on no match.
func (b *Bindings) Action(input InputKind, mods Modifiers, mode TerminalMode) BindingAction {
	for i := len(b.list) - 1; i >= 0; i-- {
		bind := b.list[i]
		if bind.Input != input || bind.Modifiers != mods {
			continue
		}
		if mode&bind.ModeInclude != bind.ModeInclude {
			continue
		}
		if mode&bind.ModeExclude != 0 {
			continue
		}
		return bind.Action
	}
	return ActionIgnore
}

// keyEsc is the bulk-registration helper for plain escape bindings.
func keyEsc(k Key, mods Modifiers, seq string) Binding {
	return Binding{Input: KeyInput(k), Modifiers: mods, Action: Esc(seq)}
}

// keyEscMode scopes an escape binding to a terminal mode.
func keyEscMode(k Key, mods Modifiers, include, exclude TerminalMode, seq string) Binding {
	return Binding{Input: KeyInput(k), Modifiers: mods, ModeInclude: include, ModeExclude: exclude, Action: Esc(seq)}
}

// cursorKey registers the DECCKM pair for a navigation key: CSI form on the
// normal screen, SS3 form in application cursor mode.
func cursorKey(k Key, suffix byte) []Binding {
	return []Binding{
		keyEscMode(k, 0, 0, ModeAppCursor, "\x1b["+string(suffix)),
		keyEscMode(k, 0, ModeAppCursor, 0, "\x1bO"+string(suffix)),
	}
}

// modifiedKeys generates CSI 1;N sequences for a navigation key under every
// modifier combination, per the xterm modifyOtherKeys encoding
// (shift=1, alt=2, ctrl=4, added to 1).
func modifiedKeys(k Key, suffix byte) []Binding {
	combos := []struct {
		mods Modifiers
		code int
	}{
		{ModShift, 2},
		{ModAlt, 3},
		{ModShift | ModAlt, 4},
		{ModCtrl, 5},
		{ModShift | ModCtrl, 6},
		{ModAlt | ModCtrl, 7},
		{ModShift | ModAlt | ModCtrl, 8},
	}

	bindings := make([]Binding, 0, len(combos))
	for _, combo := range combos {
		bindings = append(bindings, keyEsc(k, combo.mods, fmt.Sprintf("\x1b[1;%d%c", combo.code, suffix)))
	}
	return bindings
}

func (b *Bindings) addDefaults() {
	b.Add(
		Binding{Input: KeyInput(KeyEnter), Action: Char('\r')},
		Binding{Input: KeyInput(KeyTab), Action: Char('\t')},
		Binding{Input: KeyInput(KeyBackspace), Action: Char(0x7f)},
		Binding{Input: KeyInput(KeyEscape), Action: Char(0x1b)},

		keyEsc(KeyInsert, 0, "\x1b[2~"),
		keyEsc(KeyDelete, 0, "\x1b[3~"),
		keyEsc(KeyPageUp, 0, "\x1b[5~"),
		keyEsc(KeyPageDown, 0, "\x1b[6~"),
	)

	b.Add(cursorKey(KeyArrowUp, 'A')...)
	b.Add(cursorKey(KeyArrowDown, 'B')...)
	b.Add(cursorKey(KeyArrowRight, 'C')...)
	b.Add(cursorKey(KeyArrowLeft, 'D')...)
	b.Add(cursorKey(KeyHome, 'H')...)
	b.Add(cursorKey(KeyEnd, 'F')...)

	b.Add(modifiedKeys(KeyArrowUp, 'A')...)
	b.Add(modifiedKeys(KeyArrowDown, 'B')...)
	b.Add(modifiedKeys(KeyArrowRight, 'C')...)
	b.Add(modifiedKeys(KeyArrowLeft, 'D')...)
	b.Add(modifiedKeys(KeyHome, 'H')...)
	b.Add(modifiedKeys(KeyEnd, 'F')...)

	b.Add(
		keyEsc(KeyF1, 0, "\x1bOP"),
		keyEsc(KeyF2, 0, "\x1bOQ"),
		keyEsc(KeyF3, 0, "\x1bOR"),
		keyEsc(KeyF4, 0, "\x1bOS"),
		keyEsc(KeyF5, 0, "\x1b[15~"),
		keyEsc(KeyF6, 0, "\x1b[17~"),
		keyEsc(KeyF7, 0, "\x1b[18~"),
		keyEsc(KeyF8, 0, "\x1b[19~"),
		keyEsc(KeyF9, 0, "\x1b[20~"),
		keyEsc(KeyF10, 0, "\x1b[21~"),
		keyEsc(KeyF11, 0, "\x1b[23~"),
		keyEsc(KeyF12, 0, "\x1b[24~"),
	)

	// Ctrl+letter control characters.
	for k := KeyA; k <= KeyZ; k++ {
		b.Add(Binding{
			Input:     KeyInput(k),
			Modifiers: ModCtrl,
			Action:    Char(rune(k - KeyA + 1)),
		})
	}

	// Clipboard chords and link opening.
	b.Add(
		Binding{Input: KeyInput(KeyC), Modifiers: ModCtrl | ModShift, Action: ActionCopy},
		Binding{Input: KeyInput(KeyV), Modifiers: ModCtrl | ModShift, Action: ActionPaste},
		Binding{Input: MouseInput(PointerButtonPrimary), Modifiers: ModCtrl, Action: ActionLinkOpen},
	)
}
