// Package tone plays a synthesized boundary sound through the beep speaker.
// Importing it links the speaker and its audio backend.
package tone

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// initSpeaker sets up the shared audio device once per process
func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond))
	})
	return speakerErr
}

// Bell rings by playing the boundary sound
// Rings closer together than the sound itself are dropped
type Bell struct {
	mu       sync.Mutex
	volume   float64
	lastRing time.Time
	now      func() time.Time
	play     func(beep.Streamer)
	stop     func()
	closed   bool
}

// New initializes the speaker and returns a tone bell at volume (0..1)
func New(volume float64) (*Bell, error) {
	if volume < 0 || volume > 1 {
		return nil, fmt.Errorf("tone: volume %.2f out of range [0,1]", volume)
	}
	if err := initSpeaker(); err != nil {
		return nil, fmt.Errorf("tone: audio init: %w", err)
	}
	return newBell(volume, func(s beep.Streamer) { speaker.Play(s) }, speaker.Clear), nil
}

func newBell(volume float64, play func(beep.Streamer), stop func()) *Bell {
	return &Bell{
		volume: volume,
		now:    time.Now,
		play:   play,
		stop:   stop,
	}
}

func (t *Bell) Ring() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	now := t.now()
	if !t.lastRing.IsZero() && now.Sub(t.lastRing) < boundaryDuration {
		return
	}
	t.lastRing = now

	t.play(boundarySound(sampleRate, t.volume))
}

// Close stops any sound still playing; later rings are ignored
func (t *Bell) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	t.stop()
	return nil
}
