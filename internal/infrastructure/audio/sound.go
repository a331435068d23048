// Package audio synthesizes the game's sounds with beep and plays them on
// the speaker.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/younwookim/timewarp/internal/application/system"
)

const sampleRate = beep.SampleRate(44100)

var _ system.SoundHook = (*SoundBank)(nil)

// SoundBank implements the sound hook. Loops are kept behind a beep.Ctrl so
// they can be paused and resumed; effects are fire and forget.
type SoundBank struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	loops       map[string]*beep.Ctrl
	initialized bool
}

// NewSoundBank creates a silent bank; call Init to route it to the speaker
func NewSoundBank() *SoundBank {
	return &SoundBank{
		mixer: &beep.Mixer{},
		loops: make(map[string]*beep.Ctrl),
	}
}

// Init opens the speaker and starts streaming the mixer
func (b *SoundBank) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(b.mixer)
	b.initialized = true
	return nil
}

// Close stops every sound and releases the speaker
func (b *SoundBank) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lock()
	for _, ctrl := range b.loops {
		ctrl.Paused = true
	}
	clear(b.loops)
	b.mixer.Clear()
	b.unlock()

	if b.initialized {
		speaker.Close()
		b.initialized = false
	}
}

// Play starts a sound. A looped sound that is already known restarts from
// its current position rather than stacking a second copy.
func (b *SoundBank) Play(name string, loop bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lock()
	defer b.unlock()

	if loop {
		if ctrl, ok := b.loops[name]; ok {
			ctrl.Paused = false
			return
		}
		s := loopStreamer(name)
		if s == nil {
			return
		}
		ctrl := &beep.Ctrl{Streamer: s}
		b.loops[name] = ctrl
		b.mixer.Add(ctrl)
		return
	}

	if s := effectStreamer(name); s != nil {
		b.mixer.Add(s)
	}
}

func (b *SoundBank) Pause(name string) { b.setPaused(name, true) }

func (b *SoundBank) Resume(name string) { b.setPaused(name, false) }

func (b *SoundBank) setPaused(name string, paused bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lock()
	defer b.unlock()

	if ctrl, ok := b.loops[name]; ok {
		ctrl.Paused = paused
	}
}

// Playing reports whether a looped sound is currently audible
func (b *SoundBank) Playing(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	ctrl, ok := b.loops[name]
	return ok && !ctrl.Paused
}

// Active returns the number of streamers in the mixer
func (b *SoundBank) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mixer.Len()
}

// Stream pulls samples from the mixer; without Init this is the only way
// the bank produces audio.
func (b *SoundBank) Stream(samples [][2]float64) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mixer.Stream(samples)
}

// lock guards the mixer against the speaker goroutine once it is running
func (b *SoundBank) lock() {
	if b.initialized {
		speaker.Lock()
	}
}

func (b *SoundBank) unlock() {
	if b.initialized {
		speaker.Unlock()
	}
}

// loopStreamer returns the endless streamer for a looped sound
func loopStreamer(name string) beep.Streamer {
	switch name {
	case system.SoundTic:
		return &pulse{freq: 1800, on: sampleRate.N(25 * time.Millisecond), period: sampleRate.N(time.Second), gain: 0.2}
	}
	return nil
}

// effectStreamer returns a finite streamer for a one-shot sound
func effectStreamer(name string) beep.Streamer {
	switch name {
	case system.SoundBzzt:
		return tone(square(110), 180*time.Millisecond, 0.15)
	case system.SoundVictory:
		return beep.Seq(
			sine(523.25, 120*time.Millisecond),
			sine(659.25, 120*time.Millisecond),
			sine(783.99, 240*time.Millisecond),
		)
	case system.SoundDeath:
		return beep.Seq(
			tone(square(330), 150*time.Millisecond, 0.12),
			tone(square(220), 150*time.Millisecond, 0.12),
			tone(square(110), 300*time.Millisecond, 0.12),
		)
	case system.SoundTimeout:
		return beep.Seq(
			tone(square(440), 200*time.Millisecond, 0.12),
			beep.Silence(sampleRate.N(100*time.Millisecond)),
			tone(square(440), 200*time.Millisecond, 0.12),
		)
	}
	return nil
}

func sine(freq float64, d time.Duration) beep.Streamer {
	s, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return beep.Silence(sampleRate.N(d))
	}
	return &effects.Volume{
		Streamer: beep.Take(sampleRate.N(d), s),
		Base:     2,
		Volume:   -2,
	}
}

func tone(s beep.Streamer, d time.Duration, gain float64) beep.Streamer {
	return beep.Take(sampleRate.N(d), &effects.Gain{Streamer: s, Gain: gain - 1})
}

// square returns an endless square wave at freq
func square(freq float64) beep.Streamer {
	var phase float64
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := 1.0
			if phase >= 0.5 {
				v = -1
			}
			samples[i][0], samples[i][1] = v, v
			phase += freq / float64(sampleRate)
			phase -= math.Floor(phase)
		}
		return len(samples), true
	})
}

// pulse is an endless click track: a short sine burst every period samples
type pulse struct {
	freq   float64
	on     int
	period int
	gain   float64
	pos    int
}

func (p *pulse) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		v := 0.0
		if at := p.pos % p.period; at < p.on {
			fade := 1 - float64(at)/float64(p.on)
			v = p.gain * fade * math.Sin(2*math.Pi*p.freq*float64(at)/float64(sampleRate))
		}
		samples[i][0], samples[i][1] = v, v
		p.pos++
	}
	return len(samples), true
}

func (p *pulse) Err() error { return nil }
