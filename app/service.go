package app

import "github.com/lixenwraith/glimmer/clock"

// Service starts the app after everything it draws from is up
type Service struct {
	app *App
}

// NewService wraps app for the service hub
func NewService(app *App) *Service {
	return &Service{app: app}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "app"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return []string{"animator", "audio", "prefs"}
}

// Init implements service.Service
func (s *Service) Init(args ...any) error {
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	clock.Invoke(s.app.caller, s.app.start)
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	clock.Invoke(s.app.caller, s.app.stop)
	return nil
}
