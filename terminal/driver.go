package terminal

import "github.com/lixenwraith/hecto/caret"

// Size is the visible terminal area in character cells
type Size struct {
	Width  int
	Height int
}

// Driver is the terminal surface used by the editor
// Queue methods have no visible effect until Execute
type Driver interface {
	// Initialize enters raw mode, clears the screen and homes the caret
	Initialize() error

	// Terminate flushes pending commands, shows the caret and restores cooked mode. Safe to call multiple times
	Terminate() error

	// ClearScreen queues a full screen erase
	ClearScreen()

	// ClearLine queues an erase of the line under the write position
	ClearLine()

	// MoveCaretTo queues a cursor relocation (0-indexed, unclamped)
	MoveCaretTo(pos caret.Position)

	// HideCaret queues hiding the hardware cursor
	HideCaret()

	// ShowCaret queues showing the hardware cursor
	ShowCaret()

	// Print queues raw text; callers supply "\r\n" line endings
	Print(text string)

	// Size returns the current viewport, queried live
	Size() (Size, error)

	// Execute writes every queued command as one batch
	Execute() error

	// ReadEvent blocks until the next input event
	ReadEvent() (Event, error)
}
