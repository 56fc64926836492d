package bell

import (
	"fmt"
	"strings"
)

// Bell signals that a caret move was blocked by the viewport edge
type Bell interface {
	Ring()
}

// Mode selects the bell implementation
type Mode uint8

const (
	ModeOff Mode = iota
	ModeTerminal
	ModeTone
)

var modeNames = map[string]Mode{
	"off":      ModeOff,
	"terminal": ModeTerminal,
	"tone":     ModeTone,
}

func (m Mode) String() string {
	for name, mode := range modeNames {
		if mode == m {
			return name
		}
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// ParseMode resolves a config mode name
func ParseMode(s string) (Mode, error) {
	m, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return ModeOff, fmt.Errorf("unknown bell mode %q (want off, terminal or tone)", s)
	}
	return m, nil
}

// Nop is a silent bell
type Nop struct{}

func (Nop) Ring() {}

// Printer is the part of the terminal driver the BEL bell needs
type Printer interface {
	Print(text string)
}

// Terminal rings the host terminal's bell by queueing BEL
// The byte goes out with the next frame flush
type Terminal struct {
	out Printer
}

// NewTerminal creates a BEL bell over p
func NewTerminal(p Printer) *Terminal {
	return &Terminal{out: p}
}

func (t *Terminal) Ring() {
	t.out.Print("\a")
}

// New builds the bell for the silent and terminal modes
// Tone mode needs an audio device and is built by package bell/tone
func New(mode Mode, p Printer) (Bell, error) {
	switch mode {
	case ModeOff:
		return Nop{}, nil
	case ModeTerminal:
		return NewTerminal(p), nil
	}
	return nil, fmt.Errorf("bell: mode %s is not built here, use package bell/tone", mode)
}
