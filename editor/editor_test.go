package editor

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/hecto/caret"
	"github.com/lixenwraith/hecto/keymap"
	"github.com/lixenwraith/hecto/terminal"
	"github.com/lixenwraith/hecto/view"
)

// fakeDriver records flushed frames and replays scripted events
type fakeDriver struct {
	size    terminal.Size
	sizeErr error
	events  []terminal.Event
	readErr error
	onRead  func()

	queued []terminal.Command
	frames [][]terminal.Command

	inits, terms, reads int
}

func newFakeDriver(w, h int, events ...terminal.Event) *fakeDriver {
	return &fakeDriver{size: terminal.Size{Width: w, Height: h}, events: events}
}

func (d *fakeDriver) Initialize() error {
	d.inits++
	return nil
}

func (d *fakeDriver) Terminate() error {
	d.terms++
	return d.Execute()
}

func (d *fakeDriver) queue(c terminal.Command) { d.queued = append(d.queued, c) }

func (d *fakeDriver) ClearScreen() { d.queue(terminal.Command{Kind: terminal.CmdClearAll}) }
func (d *fakeDriver) ClearLine() { d.queue(terminal.Command{Kind: terminal.CmdClearLine}) }
func (d *fakeDriver) HideCaret() { d.queue(terminal.Command{Kind: terminal.CmdHideCaret}) }
func (d *fakeDriver) ShowCaret() { d.queue(terminal.Command{Kind: terminal.CmdShowCaret}) }

func (d *fakeDriver) MoveCaretTo(pos caret.Position) {
	d.queue(terminal.Command{Kind: terminal.CmdMoveTo, Position: pos})
}

func (d *fakeDriver) Print(text string) {
	d.queue(terminal.Command{Kind: terminal.CmdPrint, Text: text})
}

func (d *fakeDriver) Size() (terminal.Size, error) { return d.size, d.sizeErr }

func (d *fakeDriver) Execute() error {
	if len(d.queued) == 0 {
		return nil
	}
	d.frames = append(d.frames, d.queued)
	d.queued = nil
	return nil
}

func (d *fakeDriver) ReadEvent() (terminal.Event, error) {
	d.reads++
	if d.onRead != nil {
		d.onRead()
	}
	if len(d.events) == 0 {
		if d.readErr != nil {
			return terminal.Event{}, d.readErr
		}
		return terminal.Event{}, &terminal.InputError{Err: terminal.ErrInputClosed}
	}
	ev := d.events[0]
	d.events = d.events[1:]
	return ev, nil
}

func (d *fakeDriver) lastFrame() []terminal.Command {
	if len(d.frames) == 0 {
		return nil
	}
	return d.frames[len(d.frames)-1]
}

// countPrints counts Print commands with exactly text across all frames
func (d *fakeDriver) countPrints(text string) int {
	n := 0
	for _, f := range d.frames {
		for _, c := range f {
			if c.Kind == terminal.CmdPrint && c.Text == text {
				n++
			}
		}
	}
	return n
}

type countingBell struct{ rings int }

func (b *countingBell) Ring() { b.rings++ }

func press(k terminal.Key, mod terminal.Modifier) terminal.Event {
	return terminal.Event{Type: terminal.EventKey, Key: k, Modifiers: mod}
}

func ctrlQ() terminal.Event {
	return terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'q', Modifiers: terminal.ModCtrl}
}

func TestQuitPrintsSingleFarewell(t *testing.T) {
	extra := press(terminal.KeyDown, terminal.ModNone)
	d := newFakeDriver(80, 24, ctrlQ(), extra)
	e := New(d)

	require.NoError(t, e.Run())

	assert.Equal(t, Exiting, e.State())
	assert.Equal(t, 1, d.inits)
	assert.Equal(t, 1, d.terms)
	assert.Equal(t, 1, d.reads, "no reads after quit")
	assert.Len(t, d.events, 1)
	assert.Equal(t, 1, d.countPrints("Goodbye!\r\n"))

	assert.Equal(t, []terminal.Command{
		{Kind: terminal.CmdHideCaret},
		{Kind: terminal.CmdClearAll},
		{Kind: terminal.CmdMoveTo, Position: caret.Origin},
		{Kind: terminal.CmdPrint, Text: "Goodbye!\r\n"},
		{Kind: terminal.CmdShowCaret},
	}, d.lastFrame())
}

func TestFrameLayout(t *testing.T) {
	d := newFakeDriver(80, 24, ctrlQ())
	require.NoError(t, New(d).Run())
	require.Len(t, d.frames, 2)

	frame := d.frames[0]
	assert.Equal(t, terminal.Command{Kind: terminal.CmdHideCaret}, frame[0])
	assert.Equal(t, terminal.Command{Kind: terminal.CmdMoveTo, Position: caret.Origin}, frame[1])
	assert.Equal(t, terminal.Command{Kind: terminal.CmdMoveTo, Position: caret.Origin}, frame[len(frame)-2])
	assert.Equal(t, terminal.Command{Kind: terminal.CmdShowCaret}, frame[len(frame)-1])

	var clears, terminators int
	var banner string
	for _, c := range frame {
		switch {
		case c.Kind == terminal.CmdClearLine:
			clears++
		case c.Kind == terminal.CmdPrint && c.Text == "\r\n":
			terminators++
		case c.Kind == terminal.CmdPrint && strings.Contains(c.Text, view.DefaultBanner):
			banner = c.Text
		}
	}
	assert.Equal(t, 24, clears)
	assert.Equal(t, 23, terminators)
	assert.Equal(t, "~"+strings.Repeat(" ", 24)+view.DefaultBanner, banner)
	assert.Zero(t, d.countPrints("Goodbye!\r\n"), "farewell only in the exit frame")
}

func TestCaretMovesAndRedraws(t *testing.T) {
	d := newFakeDriver(80, 24,
		press(terminal.KeyRight, terminal.ModNone),
		press(terminal.KeyRight, terminal.ModNone),
		press(terminal.KeyDown, terminal.ModNone),
		ctrlQ(),
	)
	e := New(d)
	require.NoError(t, e.Run())

	assert.Equal(t, caret.Position{Column: 2, Row: 1}, e.Caret())
	require.Len(t, d.frames, 5)

	// Frame before the quit shows the caret at its final position
	frame := d.frames[3]
	assert.Equal(t, terminal.Command{Kind: terminal.CmdMoveTo, Position: caret.Position{Column: 2, Row: 1}}, frame[len(frame)-2])
}

func TestMoveSnapping(t *testing.T) {
	size := terminal.Size{Width: 80, Height: 24}
	start := caret.Position{Column: 10, Row: 5}

	tests := []struct {
		name   string
		action keymap.Action
		want   caret.Position
	}{
		{"line start", keymap.ActionLineStart, caret.Position{Column: 0, Row: 5}},
		{"line end", keymap.ActionLineEnd, caret.Position{Column: 79, Row: 5}},
		{"frame start", keymap.ActionFrameStart, caret.Position{Column: 0, Row: 0}},
		{"frame end", keymap.ActionFrameEnd, caret.Position{Column: 79, Row: 23}},
		{"page up", keymap.ActionPageUp, caret.Position{Column: 10, Row: 0}},
		{"page down", keymap.ActionPageDown, caret.Position{Column: 10, Row: 23}},
		{"up", keymap.ActionUp, caret.Position{Column: 10, Row: 4}},
		{"down", keymap.ActionDown, caret.Position{Column: 10, Row: 6}},
		{"left", keymap.ActionLeft, caret.Position{Column: 9, Row: 5}},
		{"right", keymap.ActionRight, caret.Position{Column: 11, Row: 5}},
		{"quit is not a move", keymap.ActionQuit, start},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Move(start, tt.action, size))
		})
	}
}

func TestHomeEndWithAndWithoutCtrl(t *testing.T) {
	d := newFakeDriver(80, 24)
	e := New(d)
	e.caret = caret.Position{Column: 10, Row: 5}

	require.NoError(t, e.handle(press(terminal.KeyHome, terminal.ModNone)))
	assert.Equal(t, caret.Position{Column: 0, Row: 5}, e.Caret())

	require.NoError(t, e.handle(press(terminal.KeyEnd, terminal.ModNone)))
	assert.Equal(t, caret.Position{Column: 79, Row: 5}, e.Caret())

	require.NoError(t, e.handle(press(terminal.KeyHome, terminal.ModCtrl)))
	assert.Equal(t, caret.Origin, e.Caret())

	require.NoError(t, e.handle(press(terminal.KeyEnd, terminal.ModCtrl)))
	assert.Equal(t, caret.Position{Column: 79, Row: 23}, e.Caret())
}

func TestRandomSequencesStayInViewport(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	keys := []terminal.Event{
		press(terminal.KeyUp, terminal.ModNone),
		press(terminal.KeyDown, terminal.ModNone),
		press(terminal.KeyLeft, terminal.ModNone),
		press(terminal.KeyRight, terminal.ModNone),
		press(terminal.KeyPageUp, terminal.ModNone),
		press(terminal.KeyPageDown, terminal.ModNone),
		press(terminal.KeyHome, terminal.ModNone),
		press(terminal.KeyEnd, terminal.ModNone),
		press(terminal.KeyHome, terminal.ModCtrl),
		press(terminal.KeyEnd, terminal.ModCtrl),
		{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'x'},
	}

	for trial := 0; trial < 50; trial++ {
		w, h := 1+rng.Intn(120), 1+rng.Intn(50)
		d := newFakeDriver(w, h)
		e := New(d)

		for step := 0; step < 500; step++ {
			require.NoError(t, e.handle(keys[rng.Intn(len(keys))]))
			pos := e.Caret()
			require.True(t, pos.Column >= 0 && pos.Column < w, "column %d outside width %d", pos.Column, w)
			require.True(t, pos.Row >= 0 && pos.Row < h, "row %d outside height %d", pos.Row, h)
		}
	}
}

func TestOnlyPressesDispatch(t *testing.T) {
	d := newFakeDriver(80, 24)
	e := New(d)

	for _, action := range []terminal.KeyAction{terminal.KeyRepeat, terminal.KeyRelease} {
		ev := press(terminal.KeyRight, terminal.ModNone)
		ev.Action = action
		require.NoError(t, e.handle(ev))

		quit := ctrlQ()
		quit.Action = action
		require.NoError(t, e.handle(quit))
	}

	assert.Equal(t, caret.Origin, e.Caret())
	assert.Equal(t, Running, e.State())
}

func TestUnboundKeysAreIgnored(t *testing.T) {
	b := &countingBell{}
	d := newFakeDriver(80, 24)
	e := New(d, WithBell(b))

	require.NoError(t, e.handle(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'a'}))
	require.NoError(t, e.handle(press(terminal.KeyF5, terminal.ModNone)))
	assert.Equal(t, caret.Origin, e.Caret())
	assert.Zero(t, b.rings)
}

func TestBellRingsOnBoundary(t *testing.T) {
	b := &countingBell{}
	d := newFakeDriver(3, 2)
	e := New(d, WithBell(b))

	require.NoError(t, e.handle(press(terminal.KeyUp, terminal.ModNone)))
	require.NoError(t, e.handle(press(terminal.KeyLeft, terminal.ModNone)))
	assert.Equal(t, 2, b.rings)

	require.NoError(t, e.handle(press(terminal.KeyRight, terminal.ModNone)))
	assert.Equal(t, 2, b.rings, "successful move is silent")

	require.NoError(t, e.handle(press(terminal.KeyEnd, terminal.ModCtrl)))
	require.NoError(t, e.handle(press(terminal.KeyPageDown, terminal.ModNone)))
	assert.Equal(t, 3, b.rings)
}

func TestResizeClampsCaret(t *testing.T) {
	d := newFakeDriver(80, 24)
	e := New(d)
	e.caret = caret.Position{Column: 70, Row: 20}

	require.NoError(t, e.handle(terminal.Event{Type: terminal.EventResize, Width: 40, Height: 10}))
	assert.Equal(t, caret.Position{Column: 39, Row: 9}, e.Caret())

	require.NoError(t, e.handle(terminal.Event{Type: terminal.EventResize, Width: 0, Height: 0}))
	assert.Equal(t, caret.Origin, e.Caret())
}

func TestCustomKeyTableAndView(t *testing.T) {
	override, err := keymap.LoadKeyConfig(map[string]string{"ctrl+x": "quit"})
	require.NoError(t, err)
	kt := keymap.MergeKeyTable(keymap.DefaultKeyTable(), override)

	ctrlX := terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'x', Modifiers: terminal.ModCtrl}
	d := newFakeDriver(20, 3, ctrlX)
	e := New(d,
		WithKeyTable(kt),
		WithView(view.Options{Greeting: "Hello, World!"}),
		WithFarewell("Bye"),
	)

	require.NoError(t, e.Run())
	assert.Equal(t, 1, d.countPrints("Hello, World!"))
	assert.Equal(t, 1, d.countPrints("Bye\r\n"))
}

func TestReadErrorTerminatesWithoutFarewell(t *testing.T) {
	d := newFakeDriver(80, 24)
	d.readErr = &terminal.InputError{Err: errors.New("EIO")}
	e := New(d)

	err := e.Run()
	require.Error(t, err)

	var ie *terminal.InputError
	assert.ErrorAs(t, err, &ie)
	assert.Contains(t, err.Error(), "read event")
	assert.Equal(t, 1, d.terms)
	assert.Zero(t, d.countPrints("Goodbye!\r\n"))
}

func TestSizeErrorAbortsRefresh(t *testing.T) {
	d := newFakeDriver(80, 24)
	d.sizeErr = &terminal.TerminalError{Op: "size", Err: errors.New("ioctl failed")}

	err := New(d).Run()
	require.Error(t, err)

	var te *terminal.TerminalError
	assert.ErrorAs(t, err, &te)
	assert.Contains(t, err.Error(), "refresh: render")
	assert.Zero(t, d.reads)
	assert.Equal(t, 1, d.terms)
}

func TestPanicStillTerminates(t *testing.T) {
	d := newFakeDriver(80, 24)
	d.onRead = func() { panic("decoder bug") }

	assert.PanicsWithValue(t, "decoder bug", func() {
		_ = New(d).Run()
	})
	assert.Equal(t, 1, d.terms)
}

// scriptedScreen sizes the simulation screen and queues keys once it is initialized
// Fini snapshots the grid because the simulation discards it
type scriptedScreen struct {
	tcell.SimulationScreen
	width, height int
	keys          []*tcell.EventKey

	rows          []string
	cursorVisible bool
}

func (s *scriptedScreen) Init() error {
	if err := s.SimulationScreen.Init(); err != nil {
		return err
	}
	s.SimulationScreen.SetSize(s.width, s.height)
	for _, k := range s.keys {
		s.SimulationScreen.InjectKey(k.Key(), k.Rune(), k.Modifiers())
	}
	return nil
}

func (s *scriptedScreen) Fini() {
	for y := 0; y < s.height; y++ {
		var b strings.Builder
		for x := 0; x < s.width; x++ {
			r, _, _, _ := s.SimulationScreen.GetContent(x, y)
			if r == 0 {
				r = ' '
			}
			b.WriteRune(r)
		}
		s.rows = append(s.rows, b.String())
	}
	_, _, s.cursorVisible = s.SimulationScreen.GetCursor()
	s.SimulationScreen.Fini()
}

func TestRunOnTcellSimulation(t *testing.T) {
	sim := &scriptedScreen{
		SimulationScreen: tcell.NewSimulationScreen(""),
		width:            40,
		height:           10,
		keys: []*tcell.EventKey{
			tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone),
			tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone),
			tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone),
			tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone),
			tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone),
			tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone),
			tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl),
		},
	}

	e := New(terminal.NewScreen(sim))
	require.NoError(t, e.Run())

	assert.Equal(t, Exiting, e.State())
	assert.Equal(t, caret.Position{Column: 38, Row: 2}, e.Caret())

	require.Len(t, sim.rows, 10)
	assert.Equal(t, "Goodbye!", strings.TrimRight(sim.rows[0], " "))
	assert.True(t, sim.cursorVisible, "caret is left visible for the shell")
	for _, row := range sim.rows[1:] {
		assert.Empty(t, strings.TrimSpace(row), "exit frame clears every other row")
	}
}
