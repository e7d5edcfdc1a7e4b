package termview

import "fmt"

// Mouse report encoding. Two wire formats exist: the SGR extension encodes
// coordinates as decimal text and distinguishes release by a trailing 'm';
// the legacy X10 format packs the button and coordinates into single bytes,
// optionally extended with a UTF-8 style two-byte form for coordinates at
// or beyond 95.

const (
	legacyMaxCoord     = 223
	legacyMaxCoordUTF8 = 2015
	utf8CoordThreshold = 95
)

// mouseMode is the negotiated report encoding derived from the terminal
// mode bitmask.
type mouseMode int

const (
	mouseModeNormal mouseMode = iota
	mouseModeUTF8
	mouseModeSGR
)

func mouseModeFromTerminalMode(mode TerminalMode) mouseMode {
	switch {
	case mode&ModeSGRMouse != 0:
		return mouseModeSGR
	case mode&ModeUTF8Mouse != 0:
		return mouseModeUTF8
	default:
		return mouseModeNormal
	}
}

// mouseReportMods converts held modifiers to the additive button-code offset.
func mouseReportMods(mods Modifiers) int {
	code := 0
	if mods.Contains(ModShift) {
		code += 4
	}
	if mods.Contains(ModAlt) {
		code += 8
	}
	if mods.Contains(ModCtrl) || mods.Contains(ModSuper) {
		code += 16
	}
	return code
}

// encodeSGRMouse produces an SGR mouse report. Press and release reports
// for the same button and point differ only in the trailing M/m.
func encodeSGRMouse(p Point, button int, pressed bool) []byte {
	suffix := 'M'
	if !pressed {
		suffix = 'm'
	}
	return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", button, p.Col+1, p.Line+1, suffix))
}

// encodeNormalMouse produces a legacy X10 mouse report, using the two-byte
// UTF-8 extension for large coordinates when utf8 is set. Returns nil when
// either coordinate meets or exceeds the protocol maximum; a suppressed
// report is required over a malformed one.
func encodeNormalMouse(p Point, button int, utf8 bool) []byte {
	maxCoord := legacyMaxCoord
	if utf8 {
		maxCoord = legacyMaxCoordUTF8
	}
	if p.Line >= maxCoord || p.Col >= maxCoord {
		return nil
	}

	msg := []byte{0x1b, '[', 'M', byte(32 + button)}

	encodePos := func(pos int) []byte {
		pos = 32 + 1 + pos
		return []byte{byte(0xc0 + pos/64), byte(0x80 + pos%64)}
	}

	if utf8 && p.Col >= utf8CoordThreshold {
		msg = append(msg, encodePos(p.Col)...)
	} else {
		msg = append(msg, byte(32+1+p.Col))
	}

	if utf8 && p.Line >= utf8CoordThreshold {
		msg = append(msg, encodePos(p.Line)...)
	} else {
		msg = append(msg, byte(32+1+p.Line))
	}

	return msg
}

// mouseReport encodes and writes a mouse event per the negotiated protocol.
// Legacy encodings fold releases into button code 3.
func (b *TerminalBackend) mouseReport(button MouseButton, mods Modifiers, p Point, pressed bool) {
	code := mouseReportMods(mods)

	switch mouseModeFromTerminalMode(b.lastContent.Mode) {
	case mouseModeSGR:
		b.write(encodeSGRMouse(p, int(button)+code, pressed))
	case mouseModeUTF8:
		if pressed {
			b.write(encodeNormalMouse(p, int(button)+code, true))
		} else {
			b.write(encodeNormalMouse(p, 3+code, true))
		}
	default:
		if pressed {
			b.write(encodeNormalMouse(p, int(button)+code, false))
		} else {
			b.write(encodeNormalMouse(p, 3+code, false))
		}
	}
}
