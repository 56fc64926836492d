//go:build !unix

package terminal

import (
	"os"
	"time"
)

// unsupportedBackend refuses raw mode; the tcell driver covers these platforms
type unsupportedBackend struct{}

// NewBackend returns a backend that cannot enter raw mode on this platform
func NewBackend(in, out *os.File) Backend {
	return unsupportedBackend{}
}

func newBackend() Backend {
	return unsupportedBackend{}
}

func (unsupportedBackend) Init() error                        { return ErrNotTerminal }
func (unsupportedBackend) Fini() error                        { return nil }
func (unsupportedBackend) Size() (int, int, error)            { return 0, 0, ErrNotTerminal }
func (unsupportedBackend) Write([]byte) error                 { return ErrNotTerminal }
func (unsupportedBackend) Read(time.Duration) ([]byte, error) { return nil, ErrNotTerminal }
