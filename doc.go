// Package termview is a terminal widget for immediate-mode GUI toolkits.
//
// It connects a headless terminal emulator to a host UI: a backend owns the
// shell process and the emulator state, and a view projects that state into
// paint primitives and translates UI input back into terminal writes. The
// package has no toolkit dependency; a host integrates by implementing three
// small interfaces ([Frame], [Painter], [Memory]) and calling
// [TerminalView.Show] once per frame.
//
// # Quick Start
//
// Launch a shell and show it:
//
//	events := make(chan termview.Event, 16)
//	backend, err := termview.NewTerminalBackend(0, termview.BackendSettings{}, events, requestRepaint)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	view := termview.NewTerminalView(backend)
//
//	// Each UI frame:
//	view.Show(frame, painter, memory)
//
// Events carry wakeups (new output), title changes, the bell and process
// exit, stamped with the backend ID so one channel can serve many terminals.
//
// # Architecture
//
//   - [TerminalBackend]: owns the emulator and PTY, dispatches [BackendCommand]
//     values and produces per-frame [RenderableContent] snapshots
//   - [TerminalView]: the per-frame widget; input translation and painting
//   - [Theme]: resolves the emulator's deferred color terms to concrete RGBA
//   - [Bindings]: the key binding table, mode-scoped and overridable
//   - [ImagePainter]: a headless [Painter] over an RGBA image
//
// # Coordinates
//
// Grid positions use [Point]: line 0 is the top of the live grid, negative
// lines address scrollback (-1 is the most recent stored line). The view's
// scrollback position is the display offset: the viewport row r shows the
// content line r minus the offset.
//
// # Headless Rendering
//
// [ImagePainter] implements [Painter] without a GUI, so a backend can be
// rendered to a PNG for screenshots or golden tests:
//
//	painter := termview.NewImagePainter(800, 600, nil)
//	view.Show(frame, painter, memory)
//	png.Encode(out, painter.Image())
package termview
