package termview

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/creack/pty"
	headlessterm "github.com/danielgatis/go-headless-term"
	"pkt.systems/pslog"
)

// BackendSettings configures the child process behind a backend.
type BackendSettings struct {
	// Shell is the program to launch. Defaults to /bin/bash.
	Shell string
	// Args are extra arguments passed to the shell.
	Args []string
	// WorkingDirectory is the child's working directory. Empty inherits.
	WorkingDirectory string
	// Scrollback is the scrollback line capacity. Defaults to 10000.
	Scrollback int
	// Logger overrides the default structured logger.
	Logger pslog.Logger
}

func (s *BackendSettings) withDefaults() BackendSettings {
	out := *s
	if out.Shell == "" {
		out.Shell = "/bin/bash"
	}
	if out.Scrollback <= 0 {
		out.Scrollback = 10000
	}
	if out.Logger == nil {
		out.Logger = pslog.Ctx(context.Background())
	}
	return out
}

// EventType classifies a backend event.
type EventType int

const (
	// EventWakeup signals new output; the host should repaint.
	EventWakeup EventType = iota
	// EventTitle signals a window title change; Title carries the new title.
	EventTitle
	// EventBell signals the terminal bell.
	EventBell
	// EventExit signals that the child process ended; the last event for a
	// backend.
	EventExit
)

// Event is an asynchronous notification from a backend session.
type Event struct {
	ID    uint64
	Type  EventType
	Title string
}

// ptySession owns the child process and its PTY.
type ptySession struct {
	ptmx *os.File
	cmd  *exec.Cmd
}

func (s *ptySession) close() error {
	err := s.ptmx.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	return err
}

// eventRelay implements the engine bell and title providers by forwarding
// onto the session event channel.
type eventRelay struct {
	events chan<- Event
	titles []string
	title  string
}

func (r *eventRelay) Ring() {
	r.events <- Event{Type: EventBell}
}

func (r *eventRelay) SetTitle(title string) {
	r.title = title
	r.events <- Event{Type: EventTitle, Title: title}
}

func (r *eventRelay) PushTitle() {
	r.titles = append(r.titles, r.title)
}

func (r *eventRelay) PopTitle() {
	if len(r.titles) == 0 {
		return
	}
	title := r.titles[len(r.titles)-1]
	r.titles = r.titles[:len(r.titles)-1]
	r.SetTitle(title)
}

// backendSize answers the engine's pixel-size queries from the negotiated
// grid geometry.
type backendSize struct {
	backend *TerminalBackend
}

func (s *backendSize) WindowSizePixels() (width, height int) {
	size := s.backend.Size()
	return int(size.LayoutSize.Width), int(size.LayoutSize.Height)
}

func (s *backendSize) CellSizePixels() (width, height int) {
	size := s.backend.Size()
	return size.CellWidth, size.CellHeight
}

// NewTerminalBackend launches the configured shell on a PTY and wires an
// engine terminal over it. Session events arrive on events; repaint, when
// non-nil, is invoked after every event so immediate-mode hosts can request
// a frame.
func NewTerminalBackend(id uint64, settings BackendSettings, events chan<- Event, repaint func()) (*TerminalBackend, error) {
	if events == nil {
		return nil, fmt.Errorf("terminal backend %d: nil event channel", id)
	}
	cfg := settings.withDefaults()
	log := cfg.Logger.With("terminal", id)

	cmd := exec.Command(cfg.Shell, cfg.Args...)
	cmd.Dir = cfg.WorkingDirectory
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	initial := DefaultTerminalSize()
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(initial.NumLines),
		Cols: uint16(initial.NumCols),
	})
	if err != nil {
		return nil, fmt.Errorf("terminal backend %d: start pty: %w", id, err)
	}

	internal := make(chan Event, 16)
	relay := &eventRelay{events: internal}
	sizes := &backendSize{}

	term := headlessterm.New(
		headlessterm.WithSize(initial.NumLines, initial.NumCols),
		headlessterm.WithScrollback(headlessterm.NewMemoryScrollback(cfg.Scrollback)),
		headlessterm.WithPTYWriter(ptmx),
		headlessterm.WithBell(relay),
		headlessterm.WithTitle(relay),
		headlessterm.WithSizeProvider(sizes),
	)

	session := &ptySession{ptmx: ptmx, cmd: cmd}
	resize := func(size TerminalSize) error {
		return pty.Setsize(ptmx, &pty.Winsize{
			Rows: uint16(size.NumLines),
			Cols: uint16(size.NumCols),
			X:    uint16(size.LayoutSize.Width),
			Y:    uint16(size.LayoutSize.Height),
		})
	}

	b := newBackend(id, term, ptmx, resize, log)
	b.session = session
	sizes.backend = b

	go readLoop(b, ptmx, internal, log)
	go forwardEvents(id, internal, events, repaint)

	return b, nil
}

// readLoop pumps PTY output into the engine and signals a wakeup per chunk.
// It ends when the PTY read fails, which covers both child exit and Close.
func readLoop(b *TerminalBackend, ptmx *os.File, internal chan<- Event, log pslog.Logger) {
	buf := make([]byte, 64*1024)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			b.mu.Lock()
			if _, werr := b.term.Write(buf[:n]); werr != nil {
				log.Warn("terminal write failed", "err", werr)
			}
			b.mu.Unlock()
			internal <- Event{Type: EventWakeup}
		}
		if err != nil {
			if err != io.EOF {
				log.Warn("pty read ended", "err", err)
			}
			internal <- Event{Type: EventExit}
			close(internal)
			return
		}
	}
}

// forwardEvents stamps the backend ID onto session events, delivers them and
// triggers a repaint. It drains until the read loop closes the channel.
func forwardEvents(id uint64, internal <-chan Event, events chan<- Event, repaint func()) {
	for ev := range internal {
		ev.ID = id
		events <- ev
		if repaint != nil {
			repaint()
		}
	}
}
