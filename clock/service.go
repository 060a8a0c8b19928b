package clock

// Service runs a Loop under the service hub
type Service struct {
	loop *Loop
}

// NewService wraps loop, which is created by the caller so other services can schedule on it
func NewService(loop *Loop) *Service {
	return &Service{loop: loop}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "clock"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
func (s *Service) Init(args ...any) error {
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	s.loop.Start()
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	s.loop.Stop()
	return nil
}

// Loop returns the wrapped loop
func (s *Service) Loop() *Loop {
	return s.loop
}
