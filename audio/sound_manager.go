// Package audio plays the "back to top" chime and the background pad through beep
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	defaultSampleRate = beep.SampleRate(44100)
	chimeDuration     = 450 * time.Millisecond
	padGain           = -0.88 // effects.Gain multiplies by 1+Gain
)

// Pad chord, A minor add9
var padFreqs = []float64{220.00, 261.63, 329.63, 493.88}

// SoundManager owns the speaker and the mixer feeding it
// Every method is safe to call before Initialize or after Cleanup
type SoundManager struct {
	mu          sync.Mutex
	sampleRate  beep.SampleRate
	volume      float64
	mixer       *beep.Mixer
	master      *effects.Volume
	music       *beep.Ctrl
	musicOn     bool
	initialized bool
}

// NewSoundManager creates a manager; sampleRate <= 0 uses 44.1kHz, volume is clamped to [0, 1]
func NewSoundManager(sampleRate int, volume float64) *SoundManager {
	sr := defaultSampleRate
	if sampleRate > 0 {
		sr = beep.SampleRate(sampleRate)
	}
	sm := &SoundManager{
		sampleRate: sr,
		mixer:      &beep.Mixer{},
	}
	sm.master = &effects.Volume{Streamer: sm.mixer, Base: 2}
	sm.setVolume(volume)
	return sm
}

// Initialize opens the speaker, a second call is a no-op
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sm.sampleRate, sm.sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: speaker init: %w", err)
	}

	speaker.Play(sm.master)
	sm.initialized = true

	// Music may have been requested before the speaker existed
	if sm.musicOn {
		sm.startMusicLocked()
	}
	return nil
}

// Available reports whether the speaker is open
func (sm *SoundManager) Available() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Cleanup stops all sounds and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	if sm.music != nil {
		sm.music.Paused = true
	}
	sm.mixer.Clear()
	speaker.Unlock()

	speaker.Close()
	sm.music = nil
	sm.initialized = false
}

// PlayChime plays the short rising two-note chime
func (sm *SoundManager) PlayChime() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return false
	}

	streamer := beep.Take(sm.sampleRate.N(chimeDuration), NewChimeGenerator(sm.sampleRate))
	speaker.Lock()
	sm.mixer.Add(streamer)
	speaker.Unlock()
	return true
}

// SetMusic records the music preference and starts or pauses the pad
// Returns true when music is actually audible
func (sm *SoundManager) SetMusic(on bool) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.musicOn = on
	if !sm.initialized {
		return false
	}

	if on {
		sm.startMusicLocked()
		return true
	}

	if sm.music != nil {
		speaker.Lock()
		sm.music.Paused = true
		speaker.Unlock()
	}
	return false
}

// ToggleMusic flips the music preference, returns the new preference
func (sm *SoundManager) ToggleMusic() bool {
	on := !sm.MusicEnabled()
	sm.SetMusic(on)
	return on
}

// MusicEnabled returns the music preference, audible or not
func (sm *SoundManager) MusicEnabled() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.musicOn
}

func (sm *SoundManager) startMusicLocked() {
	speaker.Lock()
	defer speaker.Unlock()

	if sm.music != nil {
		sm.music.Paused = false
		return
	}

	pad, err := NewPad(sm.sampleRate)
	if err != nil {
		return
	}
	sm.music = &beep.Ctrl{Streamer: pad, Paused: false}
	sm.mixer.Add(sm.music)
}

// SetVolume updates master volume (0.0-1.0)
func (sm *SoundManager) SetVolume(vol float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	sm.setVolume(vol)
}

func (sm *SoundManager) setVolume(vol float64) {
	vol = min(max(vol, 0), 1)
	sm.volume = vol
	sm.master.Silent = vol == 0
	if vol > 0 {
		sm.master.Volume = math.Log2(vol)
	}
}

// Volume returns master volume
func (sm *SoundManager) Volume() float64 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.volume
}
