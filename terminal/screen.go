package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/hecto/caret"
)

// Screen implements Driver on top of a tcell.Screen
// Queued commands are replayed onto the cell grid on Execute, followed by Show
type Screen struct {
	screen tcell.Screen
	cmds   Buffer
	style  tcell.Style

	// Write position, also the caret position once a batch completes
	x, y         int
	caretVisible bool
	initialized  bool
}

// NewScreen wraps an existing tcell screen, typically a SimulationScreen in tests
func NewScreen(s tcell.Screen) *Screen {
	return &Screen{
		screen: s,
		style:  tcell.StyleDefault,
	}
}

// NewTcell creates a Screen over the controlling terminal
func NewTcell() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, &TerminalError{Op: "initialize", Err: err}
	}
	return NewScreen(s), nil
}

func (s *Screen) Initialize() error {
	if s.initialized {
		return nil
	}
	if err := s.screen.Init(); err != nil {
		return &TerminalError{Op: "initialize", Err: err}
	}
	s.initialized = true

	s.ClearScreen()
	s.MoveCaretTo(caret.Origin)
	return s.Execute()
}

func (s *Screen) Terminate() error {
	if !s.initialized {
		return nil
	}
	s.initialized = false

	s.ShowCaret()
	err := s.Execute()
	s.screen.Fini()
	return err
}

func (s *Screen) ClearScreen() {
	s.cmds.Queue(Command{Kind: CmdClearAll})
}

func (s *Screen) ClearLine() {
	s.cmds.Queue(Command{Kind: CmdClearLine})
}

func (s *Screen) MoveCaretTo(pos caret.Position) {
	s.cmds.Queue(Command{Kind: CmdMoveTo, Position: pos})
}

func (s *Screen) HideCaret() {
	s.cmds.Queue(Command{Kind: CmdHideCaret})
}

func (s *Screen) ShowCaret() {
	s.cmds.Queue(Command{Kind: CmdShowCaret})
}

func (s *Screen) Print(text string) {
	s.cmds.Queue(Command{Kind: CmdPrint, Text: text})
}

// Pending returns the queued, not yet executed commands
func (s *Screen) Pending() []Command {
	return s.cmds.Pending()
}

func (s *Screen) Size() (Size, error) {
	w, h := s.screen.Size()
	return Size{Width: w, Height: h}, nil
}

// Execute replays the queued commands onto the cell grid and shows the result
func (s *Screen) Execute() error {
	if s.cmds.Len() == 0 {
		return nil
	}

	for _, c := range s.cmds.Drain() {
		switch c.Kind {
		case CmdClearAll:
			s.screen.Clear()
		case CmdClearLine:
			w, _ := s.screen.Size()
			for x := 0; x < w; x++ {
				s.screen.SetContent(x, s.y, ' ', nil, s.style)
			}
		case CmdMoveTo:
			s.x, s.y = c.Position.Column, c.Position.Row
		case CmdPrint:
			s.print(c.Text)
		case CmdHideCaret:
			s.caretVisible = false
		case CmdShowCaret:
			s.caretVisible = true
		}
	}

	if s.caretVisible {
		s.screen.ShowCursor(s.x, s.y)
	} else {
		s.screen.HideCursor()
	}
	s.screen.Show()
	return nil
}

// print writes text at the write position, honoring CR, LF and BEL
// Cells outside the grid are clipped by tcell
func (s *Screen) print(text string) {
	for _, r := range text {
		switch r {
		case '\r':
			s.x = 0
			continue
		case '\n':
			s.y++
			continue
		case '\a':
			s.screen.Beep()
			continue
		}
		if r < 0x20 {
			continue
		}

		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		s.screen.SetContent(s.x, s.y, r, nil, s.style)
		s.x += w
	}
}

// ReadEvent blocks on the tcell event queue
func (s *Screen) ReadEvent() (Event, error) {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			// Queue closed by Fini
			return Event{}, &InputError{Err: ErrInputClosed}
		}

		switch e := ev.(type) {
		case *tcell.EventKey:
			if out, ok := convertKey(e); ok {
				return out, nil
			}
		case *tcell.EventResize:
			w, h := e.Size()
			return Event{Type: EventResize, Width: w, Height: h}, nil
		}
	}
}

// convertKey maps a tcell key event to an Event
// Ctrl+letter arrives either as a KeyCtrl* code or as a rune with ModCtrl
func convertKey(e *tcell.EventKey) (Event, bool) {
	mod := convertModifiers(e.Modifiers())

	switch k := e.Key(); k {
	case tcell.KeyRune:
		r := e.Rune()
		if r < 0x20 {
			ev := controlEvent(byte(r))
			ev.Modifiers |= mod
			return ev, true
		}
		if mod&ModCtrl != 0 && r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		return runeEvent(r, mod), true
	case tcell.KeyEscape:
		return keyEvent(KeyEscape, mod), true
	case tcell.KeyEnter:
		return keyEvent(KeyEnter, mod), true
	case tcell.KeyTab:
		return keyEvent(KeyTab, mod), true
	case tcell.KeyBacktab:
		return keyEvent(KeyBacktab, mod|ModShift), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return keyEvent(KeyBackspace, mod), true
	default:
		if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			return runeEvent(rune('a'+k-tcell.KeyCtrlA), mod|ModCtrl), true
		}
		if named, ok := tcellKeys[k]; ok {
			return keyEvent(named, mod), true
		}
	}
	return Event{}, false
}

func convertModifiers(m tcell.ModMask) Modifier {
	var mod Modifier
	if m&tcell.ModShift != 0 {
		mod |= ModShift
	}
	if m&tcell.ModAlt != 0 {
		mod |= ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		mod |= ModCtrl
	}
	return mod
}

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyUp:     KeyUp,
	tcell.KeyDown:   KeyDown,
	tcell.KeyLeft:   KeyLeft,
	tcell.KeyRight:  KeyRight,
	tcell.KeyHome:   KeyHome,
	tcell.KeyEnd:    KeyEnd,
	tcell.KeyPgUp:   KeyPageUp,
	tcell.KeyPgDn:   KeyPageDown,
	tcell.KeyInsert: KeyInsert,
	tcell.KeyDelete: KeyDelete,
	tcell.KeyF1:     KeyF1,
	tcell.KeyF2:     KeyF2,
	tcell.KeyF3:     KeyF3,
	tcell.KeyF4:     KeyF4,
	tcell.KeyF5:     KeyF5,
	tcell.KeyF6:     KeyF6,
	tcell.KeyF7:     KeyF7,
	tcell.KeyF8:     KeyF8,
	tcell.KeyF9:     KeyF9,
	tcell.KeyF10:    KeyF10,
	tcell.KeyF11:    KeyF11,
	tcell.KeyF12:    KeyF12,
}
