package terminal

import "time"

// Backend abstracts platform-specific terminal device access
type Backend interface {
	// Init switches the input device to raw mode
	Init() error

	// Fini restores the mode saved by Init. Safe to call multiple times
	Fini() error

	// Size queries the device for its current dimensions
	Size() (width, height int, err error)

	// Write writes raw bytes to the terminal output
	Write(p []byte) error

	// Read waits up to timeout for input
	// Returns nil data and nil error on timeout, io.EOF when input is closed
	Read(timeout time.Duration) ([]byte, error)
}
