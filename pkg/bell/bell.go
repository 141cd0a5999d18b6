// Package bell sounds the console bell through the host speaker.
package bell

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

const (
	// Frequency is the PC speaker beep pitch in Hz.
	Frequency = 750.0

	// Duration is how long one bell rings.
	Duration = 150 * time.Millisecond
)

// tone is a square wave of fixed length.
type tone struct {
	freq     float64
	phase    float64
	position int
	samples  int
	rate     beep.SampleRate
}

// NewTone returns a square wave streamer at freq Hz lasting d.
func NewTone(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &tone{freq: freq, samples: rate.N(d), rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.samples {
			return i, i > 0
		}
		val := -1.0
		if t.phase < 0.5 {
			val = 1.0
		}
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// Player rings the bell on the default audio device.
type Player struct {
	mu     sync.Mutex
	inited bool
	volume float64
}

// NewPlayer returns a player at the given volume, 0 to 1. The speaker is
// opened on first use.
func NewPlayer(volume float64) *Player {
	return &Player{volume: volume}
}

// Ring plays one bell without waiting for it to finish.
func (p *Player) Ring() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.inited {
		if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
			return err
		}
		p.inited = true
	}
	speaker.Play(Sound(p.volume))
	return nil
}

// Sound returns one bell at volume, 0 to 1.
func Sound(volume float64) beep.Streamer {
	s := NewTone(Frequency, Duration, sampleRate)
	if volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(volume)}
}
