package terminal

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/x/ansi"
)

// Run initializes d, runs fn and terminates d on every exit path
// A panic in fn is re-raised after the terminal is restored
func Run(d Driver, fn func() error) (err error) {
	defer func() {
		termErr := d.Terminate()
		if r := recover(); r != nil {
			panic(r)
		}
		if termErr != nil {
			err = errors.Join(err, termErr)
		}
	}()

	if err := d.Initialize(); err != nil {
		return err
	}
	return fn()
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Terminate cannot be called normally
func EmergencyReset(w io.Writer) {
	// Popping an empty kitty stack is a no-op on supporting terminals
	io.WriteString(w, ansi.PopKittyKeyboard(1))
	io.WriteString(w, ansi.ResetStyle)
	io.WriteString(w, ansi.ShowCursor)

	// Flush if it's a file
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	// This is best-effort; ignore errors in crash context
	resetTerminalMode()
}
