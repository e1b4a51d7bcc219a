package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/forcefield/vmath"
)

// WaveType selects an oscillator shape
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveNoise
)

// oscillator emits a fixed number of samples of one wave, optionally sweeping frequency
type oscillator struct {
	freq, sweep float64 // sweep is Hz per second
	phase       float64
	remaining   int
	wave        WaveType
	rate        beep.SampleRate
	rng         *vmath.FastRand
}

// NewOscillator creates a mono wave duplicated on both channels
func NewOscillator(freq, sweep float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:      freq,
		sweep:     sweep,
		remaining: rate.N(duration),
		wave:      wave,
		rate:      rate,
		rng:       vmath.NewFastRand(uint64(freq*1000) + 1),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	if o.remaining <= 0 {
		return 0, false
	}
	step := 1 / float64(o.rate)
	n := min(len(samples), o.remaining)
	for i := range n {
		var v float64
		switch o.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case WaveNoise:
			v = o.rng.Signed()
		}
		samples[i][0], samples[i][1] = v, v

		o.phase += o.freq * step
		o.phase -= math.Floor(o.phase)
		o.freq = max(o.freq+o.sweep*step, 0)
	}
	o.remaining -= n
	return n, true
}

func (o *oscillator) Err() error { return nil }

// envelope fades in over attack and out over the last release samples
type envelope struct {
	streamer beep.Streamer
	pos      int
	attack   int
	release  int
	total    int
}

func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	if e.pos >= e.total {
		return 0, false
	}
	samples = samples[:min(len(samples), e.total-e.pos)]
	n, ok := e.streamer.Stream(samples)
	for i := range n {
		gain := 1.0
		if e.attack > 0 && e.pos < e.attack {
			gain = float64(e.pos) / float64(e.attack)
		}
		if left := e.total - e.pos; e.release > 0 && left <= e.release {
			gain = min(gain, float64(left-1)/float64(e.release))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales linearly, 0 or below is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
