package tone

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// waveform selects the shape of a tone partial
type waveform uint8

const (
	waveSine waveform = iota
	waveSquare
)

// Boundary tone parameters
const (
	boundaryFreq     = 330.0 // E4, low enough to read as a bump
	boundaryDuration = 60 * time.Millisecond
	boundaryAttack   = 5 * time.Millisecond
	boundaryRelease  = 40 * time.Millisecond
)

// partial is one fixed-length periodic component of the boundary tone
type partial struct {
	step      float64 // phase advance per sample
	phase     float64
	wave      waveform
	remaining int
}

func newPartial(freq float64, wave waveform, duration time.Duration, rate beep.SampleRate) *partial {
	return &partial{
		step:      freq / float64(rate),
		wave:      wave,
		remaining: rate.N(duration),
	}
}

// sample returns the value at the current phase in [-1, 1]
func (p *partial) sample() float64 {
	if p.wave == waveSquare {
		if p.phase < 0.5 {
			return 1
		}
		return -1
	}
	return math.Sin(2 * math.Pi * p.phase)
}

func (p *partial) Stream(samples [][2]float64) (int, bool) {
	if p.remaining <= 0 {
		return 0, false
	}
	n := min(len(samples), p.remaining)
	for i := range n {
		v := p.sample()
		samples[i] = [2]float64{v, v}
		_, p.phase = math.Modf(p.phase + p.step)
	}
	p.remaining -= n
	return n, true
}

func (p *partial) Err() error { return nil }

// fade ramps a stream in over attack and out over release so the tone has no click
type fade struct {
	streamer beep.Streamer
	pos      int
	attack   int
	release  int
	total    int
}

func newFade(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) *fade {
	return &fade{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

// gain is the linear level at sample pos
func (f *fade) gain(pos int) float64 {
	g := 1.0
	if f.attack > 0 && pos < f.attack {
		g = float64(pos) / float64(f.attack)
	}
	if tail := f.total - pos; f.release > 0 && tail < f.release {
		g = min(g, max(float64(tail)/float64(f.release), 0))
	}
	return g
}

func (f *fade) Stream(samples [][2]float64) (int, bool) {
	if f.pos >= f.total {
		return 0, false
	}
	samples = samples[:min(len(samples), f.total-f.pos)]

	n, ok := f.streamer.Stream(samples)
	for i := range n {
		g := f.gain(f.pos)
		samples[i][0] *= g
		samples[i][1] *= g
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

// scaled applies a linear volume through beep's logarithmic volume effect
// Zero or less is silent since log2(0) is -Inf
func scaled(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// boundarySound builds the soft thud played when a caret move is blocked:
// a sine fundamental over a quieter square an octave down
func boundarySound(rate beep.SampleRate, volume float64) beep.Streamer {
	shaped := func(freq float64, wave waveform) beep.Streamer {
		return newFade(newPartial(freq, wave, boundaryDuration, rate), boundaryDuration, boundaryAttack, boundaryRelease, rate)
	}

	mixed := beep.Mix(
		scaled(shaped(boundaryFreq, waveSine), 0.8),
		scaled(shaped(boundaryFreq/2, waveSquare), 0.2),
	)
	return scaled(mixed, volume)
}
