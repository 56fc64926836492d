// Package editor runs the interactive session: it owns the caret and the
// running/exiting state, dispatches key actions and redraws the frame.
package editor

import (
	"fmt"
	"log"

	"github.com/lixenwraith/hecto/bell"
	"github.com/lixenwraith/hecto/caret"
	"github.com/lixenwraith/hecto/keymap"
	"github.com/lixenwraith/hecto/terminal"
	"github.com/lixenwraith/hecto/view"
)

// DefaultFarewell is printed on a clean quit
const DefaultFarewell = "Goodbye!"

// State is the session lifecycle state
type State uint8

const (
	Running State = iota
	Exiting
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Exiting:
		return "exiting"
	}
	return fmt.Sprintf("State(%d)", s)
}

// Option configures an Editor
type Option func(*Editor)

// WithKeyTable replaces the default bindings
func WithKeyTable(kt *keymap.KeyTable) Option {
	return func(e *Editor) {
		if kt != nil {
			e.keys = kt
		}
	}
}

// WithBell sets the boundary feedback
func WithBell(b bell.Bell) Option {
	return func(e *Editor) {
		if b != nil {
			e.bell = b
		}
	}
}

// WithView configures frame content
func WithView(opts view.Options) Option {
	return func(e *Editor) {
		e.viewOpts = opts
	}
}

// WithFarewell sets the line printed on quit
func WithFarewell(s string) Option {
	return func(e *Editor) {
		e.farewell = s
	}
}

// Editor is a single session over a terminal driver
// Not safe for concurrent use; all state is owned by the Run loop
type Editor struct {
	driver   terminal.Driver
	renderer *view.Renderer
	keys     *keymap.KeyTable
	bell     bell.Bell
	viewOpts view.Options
	farewell string

	caret caret.Position
	state State
}

// New creates an editor over d with the caret at the origin
func New(d terminal.Driver, opts ...Option) *Editor {
	e := &Editor{
		driver:   d,
		keys:     keymap.DefaultKeyTable(),
		bell:     bell.Nop{},
		farewell: DefaultFarewell,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.renderer = view.New(d, e.viewOpts)
	return e
}

// Caret returns the current caret position
func (e *Editor) Caret() caret.Position {
	return e.caret
}

// State returns the lifecycle state
func (e *Editor) State() State {
	return e.state
}

// Run initializes the terminal, loops until quit or error, and restores the terminal
// The terminal is restored on every exit path, including panics
func (e *Editor) Run() error {
	return terminal.Run(e.driver, e.loop)
}

func (e *Editor) loop() error {
	log.Printf("editor: session started")
	for {
		if err := e.refresh(); err != nil {
			return fmt.Errorf("refresh: %w", err)
		}
		if e.state == Exiting {
			log.Printf("editor: session ended")
			return nil
		}

		ev, err := e.driver.ReadEvent()
		if err != nil {
			return fmt.Errorf("read event: %w", err)
		}
		if err := e.handle(ev); err != nil {
			return fmt.Errorf("dispatch: %w", err)
		}
	}
}

// refresh queues one complete frame and flushes it
// The exit frame replaces the rows with the farewell
func (e *Editor) refresh() error {
	e.driver.HideCaret()

	if e.state == Exiting {
		e.driver.ClearScreen()
		e.driver.MoveCaretTo(caret.Origin)
		e.driver.Print(e.farewell + "\r\n")
	} else {
		e.driver.MoveCaretTo(caret.Origin)
		if err := e.renderer.Render(); err != nil {
			return err
		}
		e.driver.MoveCaretTo(e.caret)
	}

	e.driver.ShowCaret()
	return e.driver.Execute()
}

// handle applies one input event to the session state
func (e *Editor) handle(ev terminal.Event) error {
	switch ev.Type {
	case terminal.EventResize:
		e.caret = Clamp(e.caret, terminal.Size{Width: ev.Width, Height: ev.Height})
		log.Printf("editor: resize %dx%d, caret %d,%d", ev.Width, ev.Height, e.caret.Column, e.caret.Row)
		return nil
	case terminal.EventKey:
	default:
		return nil
	}

	action := e.keys.Resolve(ev)
	switch action {
	case keymap.ActionNone:
		return nil
	case keymap.ActionQuit:
		e.state = Exiting
		log.Printf("editor: quit requested")
		return nil
	}

	size, err := e.driver.Size()
	if err != nil {
		return err
	}

	next := Move(e.caret, action, size)
	if next == e.caret {
		e.bell.Ring()
		return nil
	}
	e.caret = next
	return nil
}

// Move returns the caret after applying a movement action within size
// Results saturate at the viewport edges; non-movement actions return pos unchanged
func Move(pos caret.Position, action keymap.Action, size terminal.Size) caret.Position {
	lastCol := max(size.Width-1, 0)
	lastRow := max(size.Height-1, 0)

	switch action {
	case keymap.ActionUp:
		pos.Row--
	case keymap.ActionDown:
		pos.Row++
	case keymap.ActionLeft:
		pos.Column--
	case keymap.ActionRight:
		pos.Column++
	case keymap.ActionPageUp:
		pos.Row = 0
	case keymap.ActionPageDown:
		pos.Row = lastRow
	case keymap.ActionLineStart:
		pos.Column = 0
	case keymap.ActionLineEnd:
		pos.Column = lastCol
	case keymap.ActionFrameStart:
		pos = caret.Origin
	case keymap.ActionFrameEnd:
		pos = caret.Position{Column: lastCol, Row: lastRow}
	}
	return Clamp(pos, size)
}

// Clamp pulls pos into the viewport; an empty viewport clamps to the origin
func Clamp(pos caret.Position, size terminal.Size) caret.Position {
	pos.Column = min(max(pos.Column, 0), max(size.Width-1, 0))
	pos.Row = min(max(pos.Row, 0), max(size.Height-1, 0))
	return pos
}
