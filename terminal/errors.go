package terminal

import (
	"errors"
	"fmt"
)

var (
	// ErrNotTerminal is returned when the input device cannot be put in raw mode
	ErrNotTerminal = errors.New("not a terminal")

	// ErrInputClosed is returned when the input stream reaches end of file
	ErrInputClosed = errors.New("input closed")
)

// TerminalError reports a failure of the host terminal device
type TerminalError struct {
	Op  string
	Err error
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("terminal %s: %v", e.Op, e.Err)
}

func (e *TerminalError) Unwrap() error {
	return e.Err
}

// InputError reports an input event that could not be read
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("terminal input: %v", e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
