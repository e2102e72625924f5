// Package audio plays the optional click cue: a short sine tick with an
// exponential fade.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	SampleRate = beep.SampleRate(44100)
	CueFreq    = 880.0
	CueLength  = 120 * time.Millisecond
	cueGain    = 0.18
)

// cue is a finite beep.Streamer producing a decaying sine.
type cue struct {
	sr   beep.SampleRate
	freq float64
	n    int
	pos  int
	tau  float64 // envelope time constant in samples
}

// NewCue returns a streamer that plays freq for d with a fade to near
// silence.
func NewCue(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	n := sr.N(d)
	return &cue{sr: sr, freq: freq, n: n, tau: float64(n) / 5}
}

func (c *cue) Stream(samples [][2]float64) (int, bool) {
	if c.pos >= c.n {
		return 0, false
	}
	i := 0
	for ; i < len(samples) && c.pos < c.n; i++ {
		t := float64(c.pos) / float64(c.sr)
		v := math.Sin(2*math.Pi*c.freq*t) * math.Exp(-float64(c.pos)/c.tau) * cueGain
		samples[i][0] = v
		samples[i][1] = v
		c.pos++
	}
	return i, true
}

func (c *cue) Err() error { return nil }

// Player owns the speaker. It is disabled until Init succeeds.
type Player struct {
	sr beep.SampleRate

	mu    sync.Mutex
	ready bool
	plays int
}

// NewPlayer creates a player for sample rate sr.
func NewPlayer(sr beep.SampleRate) *Player {
	return &Player{sr: sr}
}

// Init opens the audio device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		return nil
	}
	if err := speaker.Init(p.sr, p.sr.N(time.Second/20)); err != nil {
		return fmt.Errorf("audio: init speaker: %w", err)
	}
	p.ready = true
	return nil
}

// Play starts a cue; pitch shifts slightly with x in [0, 1]. It is a no-op
// before Init.
func (p *Player) Play(x float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	p.plays++
	speaker.Play(NewCue(p.sr, CueFreq*(0.9+0.2*x), CueLength))
}

// Plays returns the number of cues started.
func (p *Player) Plays() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plays
}

// Close stops every playing cue.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	speaker.Clear()
	p.ready = false
}
