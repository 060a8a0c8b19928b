package audio

import (
	"log"
	"sync/atomic"
)

// MusicPreference reports whether music was left on in a previous run
type MusicPreference interface {
	MusicOn() bool
}

// AudioService wraps SoundManager as a Service
// A missing audio backend disables sound without failing startup
type AudioService struct {
	prefs    MusicPreference
	manager  *SoundManager
	disabled atomic.Bool
}

// NewService creates an audio service restoring music from prefs, prefs may be nil
func NewService(prefs MusicPreference) *AudioService {
	return &AudioService{prefs: prefs}
}

// Name implements Service
func (s *AudioService) Name() string {
	return "audio"
}

// Dependencies implements Service
func (s *AudioService) Dependencies() []string {
	return []string{"prefs"}
}

// Init implements Service
// args[0]: bool - enabled (default true)
// args[1]: float64 - master volume (default 0.6)
// args[2]: int - sample rate (default 44100)
func (s *AudioService) Init(args ...any) error {
	enabled := true
	volume := 0.6
	sampleRate := 0

	if len(args) > 0 {
		if v, ok := args[0].(bool); ok {
			enabled = v
		}
	}
	if len(args) > 1 {
		if v, ok := args[1].(float64); ok {
			volume = v
		}
	}
	if len(args) > 2 {
		if v, ok := args[2].(int); ok {
			sampleRate = v
		}
	}

	s.manager = NewSoundManager(sampleRate, volume)
	s.disabled.Store(!enabled)
	return nil
}

// Start implements Service
// Opens the speaker and resumes music if it was left on; failure only disables sound
func (s *AudioService) Start() error {
	if s.manager == nil {
		return nil
	}
	if s.prefs != nil && s.prefs.MusicOn() {
		s.manager.SetMusic(true)
	}
	if s.disabled.Load() {
		return nil
	}

	if err := s.manager.Initialize(); err != nil {
		log.Printf("audio: %v, sound disabled", err)
		s.disabled.Store(true)
	}
	return nil
}

// Stop implements Service
func (s *AudioService) Stop() error {
	if s.manager != nil {
		s.manager.Cleanup()
	}
	return nil
}

// Manager returns the sound manager, nil before Init
func (s *AudioService) Manager() *SoundManager {
	return s.manager
}

// IsDisabled reports whether sound output is off
func (s *AudioService) IsDisabled() bool {
	return s.disabled.Load()
}

// PlayChime plays the chime when sound is enabled
func (s *AudioService) PlayChime() bool {
	if s.manager == nil || s.disabled.Load() {
		return false
	}
	return s.manager.PlayChime()
}

// SetMusic records the music choice, returns true when it is audible
func (s *AudioService) SetMusic(on bool) bool {
	if s.manager == nil {
		return false
	}
	return s.manager.SetMusic(on)
}

// Available reports whether the speaker is open
func (s *AudioService) Available() bool {
	return s.manager != nil && !s.disabled.Load() && s.manager.Available()
}
