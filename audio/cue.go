// Package audio synthesizes the impulse cue played by the sandbox.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/forcefield/vmath"
)

const (
	SampleRate  = beep.SampleRate(44100)
	CueDuration = 180 * time.Millisecond
	// CueMinGap drops cues that would overlap into a drone
	CueMinGap = 120 * time.Millisecond
)

// ImpulseCue is a falling sine thump under a short noise burst, louder with strength in [0,1]
func ImpulseCue(strength float64, rate beep.SampleRate) beep.Streamer {
	strength = vmath.Clamp01(strength)
	thump := NewEnvelope(
		NewOscillator(140, -400, CueDuration, WaveSine, rate),
		CueDuration, 5*time.Millisecond, 120*time.Millisecond, rate)
	burst := NewEnvelope(
		NewOscillator(1, 0, 40*time.Millisecond, WaveNoise, rate),
		40*time.Millisecond, time.Millisecond, 30*time.Millisecond, rate)

	mixed := beep.Mix(newVolume(thump, 0.6), newVolume(burst, 0.25))
	return newVolume(beep.Take(rate.N(CueDuration), mixed), 0.2+0.8*strength)
}

// CuePlayer plays impulse cues on the system speaker
// Without a successful Init every Play is a no-op
type CuePlayer struct {
	mu    sync.Mutex
	mixer *beep.Mixer
	ready bool
	last  time.Time
	log   zerolog.Logger
	now   func() time.Time
}

func NewCuePlayer(log zerolog.Logger) *CuePlayer {
	return &CuePlayer{
		mixer: &beep.Mixer{},
		log:   log,
		now:   time.Now,
	}
}

// Init opens the speaker, failure leaves the player silent
func (p *CuePlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		p.log.Warn().Err(err).Msg("speaker unavailable, audio cues disabled")
		return err
	}
	speaker.Play(p.mixer)
	p.ready = true
	return nil
}

// Play queues a cue, reporting false when silent or rate limited
func (p *CuePlayer) Play(strength float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return false
	}
	now := p.now()
	if now.Sub(p.last) < CueMinGap {
		return false
	}
	p.last = now

	cue := ImpulseCue(strength, SampleRate)
	speaker.Lock()
	p.mixer.Add(cue)
	speaker.Unlock()
	return true
}

func (p *CuePlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	speaker.Clear()
	p.ready = false
}
