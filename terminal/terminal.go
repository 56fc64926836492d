package terminal

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/lixenwraith/hecto/caret"
)

// pollInterval bounds each blocking read so a lone ESC and size changes are noticed
const pollInterval = 100 * time.Millisecond

// Option configures a Terminal
type Option func(*Terminal)

// WithKittyKeyboard requests kitty keyboard protocol reporting on Initialize
// Terminals without support ignore the request and keep sending legacy sequences
func WithKittyKeyboard() Option {
	return func(t *Terminal) {
		t.kitty = true
	}
}

// WithPollInterval overrides the read slice used for ESC disambiguation and resize checks
func WithPollInterval(d time.Duration) Option {
	return func(t *Terminal) {
		if d > 0 {
			t.poll = d
		}
	}
}

// Terminal is the ANSI escape sequence driver over a Backend
// Not safe for concurrent use; the editor loop is the only caller
type Terminal struct {
	backend Backend
	cmds    Buffer
	out     []byte
	dec     decoder

	kitty bool
	poll  time.Duration

	initialized bool
	lastSize    Size
}

// New creates a Terminal over the process stdin/stdout
func New(opts ...Option) *Terminal {
	return NewWithBackend(newBackend(), opts...)
}

// NewWithBackend creates a Terminal over an arbitrary backend
func NewWithBackend(b Backend, opts ...Option) *Terminal {
	t := &Terminal{
		backend: b,
		out:     make([]byte, 0, 4096),
		poll:    pollInterval,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Initialize enters raw mode, clears the screen and homes the caret
func (t *Terminal) Initialize() error {
	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return &TerminalError{Op: "initialize", Err: err}
	}
	t.initialized = true

	if t.kitty {
		if err := t.backend.Write([]byte(ansi.PushKittyKeyboard(kittyFlags))); err != nil {
			return &TerminalError{Op: "initialize", Err: err}
		}
	}

	if size, err := t.Size(); err == nil {
		t.lastSize = size
	}

	t.ClearScreen()
	t.MoveCaretTo(caret.Origin)
	return t.Execute()
}

// Terminate flushes pending commands, shows the caret and restores cooked mode
// Every step runs even when an earlier one fails
func (t *Terminal) Terminate() error {
	if !t.initialized {
		return nil
	}
	t.initialized = false

	// The shell gets its cursor back even if the last frame hid it
	t.ShowCaret()

	var errs []error
	if err := t.Execute(); err != nil {
		errs = append(errs, err)
	}
	if t.kitty {
		if err := t.backend.Write([]byte(ansi.PopKittyKeyboard(1))); err != nil {
			errs = append(errs, &TerminalError{Op: "terminate", Err: err})
		}
	}
	if err := t.backend.Fini(); err != nil {
		errs = append(errs, &TerminalError{Op: "restore", Err: err})
	}
	return errors.Join(errs...)
}

func (t *Terminal) ClearScreen() {
	t.cmds.Queue(Command{Kind: CmdClearAll})
}

func (t *Terminal) ClearLine() {
	t.cmds.Queue(Command{Kind: CmdClearLine})
}

func (t *Terminal) MoveCaretTo(pos caret.Position) {
	t.cmds.Queue(Command{Kind: CmdMoveTo, Position: pos})
}

func (t *Terminal) HideCaret() {
	t.cmds.Queue(Command{Kind: CmdHideCaret})
}

func (t *Terminal) ShowCaret() {
	t.cmds.Queue(Command{Kind: CmdShowCaret})
}

func (t *Terminal) Print(text string) {
	t.cmds.Queue(Command{Kind: CmdPrint, Text: text})
}

// Pending returns the queued, not yet executed commands
func (t *Terminal) Pending() []Command {
	return t.cmds.Pending()
}

// Size queries the backend for the live viewport
func (t *Terminal) Size() (Size, error) {
	w, h, err := t.backend.Size()
	if err != nil {
		return Size{}, &TerminalError{Op: "size", Err: err}
	}
	return Size{Width: w, Height: h}, nil
}

// Execute encodes every queued command and writes them in a single call
// The queue is emptied even when the write fails
func (t *Terminal) Execute() error {
	if t.cmds.Len() == 0 {
		return nil
	}
	t.out = encodeCommands(t.out, t.cmds.Drain())
	if err := t.backend.Write(t.out); err != nil {
		return &TerminalError{Op: "flush", Err: err}
	}
	return nil
}

// ReadEvent blocks until a key event or a size change is available
func (t *Terminal) ReadEvent() (Event, error) {
	for {
		if ev, ok := t.dec.next(); ok {
			return ev, nil
		}

		data, err := t.backend.Read(t.poll)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, &InputError{Err: ErrInputClosed}
			}
			return Event{}, &InputError{Err: err}
		}

		if len(data) > 0 {
			t.dec.feed(data)
			continue
		}

		// Poll slice elapsed with no input
		if ev, ok := t.dec.expire(); ok {
			return ev, nil
		}
		if ev, ok := t.checkResize(); ok {
			return ev, nil
		}
	}
}

// checkResize compares the live size against the last observed one
func (t *Terminal) checkResize() (Event, bool) {
	size, err := t.Size()
	if err != nil || size == t.lastSize {
		return Event{}, false
	}
	t.lastSize = size
	return Event{Type: EventResize, Width: size.Width, Height: size.Height}, true
}
