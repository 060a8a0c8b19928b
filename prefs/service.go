package prefs

import (
	"log"
	"sync"
)

// Service keeps the current preferences in memory and writes through on every change
type Service struct {
	mu      sync.Mutex
	store   *Store
	current Preferences
}

// NewService creates an unloaded preferences service
func NewService() *Service {
	return &Service{current: Default()}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "prefs"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// args[0]: string - preferences file path, empty uses DefaultPath
// An unreadable file is logged and replaced by defaults
func (s *Service) Init(args ...any) error {
	path := ""
	if len(args) > 0 {
		if p, ok := args[0].(string); ok {
			path = p
		}
	}
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.store = NewStore(path)
	p, err := s.store.Load()
	if err != nil {
		log.Printf("prefs: %v, using defaults", err)
	}
	s.current = p
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	return nil
}

// Current returns a copy of the active preferences
func (s *Service) Current() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update applies fn and persists the result
// The in-memory value changes even when the write fails
func (s *Service) Update(fn func(p *Preferences)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.current)
	if s.store == nil {
		return nil
	}
	return s.store.Save(s.current)
}

// MusicOn reports the stored music preference
func (s *Service) MusicOn() bool {
	return s.Current().Music
}
