package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

const testRate = beep.SampleRate(44100)

// drain streams s to the end and returns every left channel sample
func drain(s beep.Streamer) []float64 {
	var out []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := range n {
			out = append(out, buf[i][0])
		}
		if !ok || n == 0 {
			return out
		}
	}
}

func peak(samples []float64) float64 {
	p := 0.0
	for _, v := range samples {
		p = max(p, math.Abs(v))
	}
	return p
}

func TestOscillatorLengthAndRange(t *testing.T) {
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveNoise} {
		got := drain(NewOscillator(440, -100, 100*time.Millisecond, wave, testRate))
		assert.Len(t, got, testRate.N(100*time.Millisecond))
		assert.LessOrEqual(t, peak(got), 1.0)
		assert.Greater(t, peak(got), 0.0)
	}
}

func TestEnvelopeFadesBothEnds(t *testing.T) {
	s := NewEnvelope(NewOscillator(1, 0, time.Second, WaveSquare, testRate),
		50*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, testRate)
	got := drain(s)

	assert.Len(t, got, testRate.N(50*time.Millisecond))
	assert.Zero(t, got[0])
	assert.Zero(t, got[len(got)-1])
	assert.InDelta(t, 1, got[len(got)/2], 1e-12)
}

func TestImpulseCue(t *testing.T) {
	loud := drain(ImpulseCue(1, testRate))
	soft := drain(ImpulseCue(0, testRate))

	assert.Len(t, loud, testRate.N(CueDuration))
	assert.LessOrEqual(t, peak(loud), 1.0)
	assert.Greater(t, peak(loud), peak(soft))
	assert.Greater(t, peak(soft), 0.0)
}

func TestNewVolumeSilent(t *testing.T) {
	got := drain(newVolume(NewOscillator(220, 0, 10*time.Millisecond, WaveSquare, testRate), 0))
	assert.NotEmpty(t, got)
	assert.Zero(t, peak(got))
}

func TestCuePlayerSilentWithoutSpeaker(t *testing.T) {
	p := NewCuePlayer(zerolog.Nop())
	assert.False(t, p.Play(1))
	p.Close()
}
