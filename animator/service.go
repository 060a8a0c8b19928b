package animator

import "github.com/lixenwraith/glimmer/clock"

// Service starts and stops an Animator on its scheduler goroutine
type Service struct {
	anim   *Animator
	caller clock.Caller
}

// NewService wraps anim; lifecycle calls go through caller, nil runs them inline
func NewService(anim *Animator, caller clock.Caller) *Service {
	return &Service{anim: anim, caller: caller}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "animator"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return []string{"clock"}
}

// Init implements service.Service
func (s *Service) Init(args ...any) error {
	return nil
}

// Start implements service.Service
// A missing surface is reported by the animator but does not abort the host
func (s *Service) Start() error {
	var err error
	clock.Invoke(s.caller, func() { err = s.anim.Start() })
	if err == ErrNoSurface {
		return nil
	}
	return err
}

// Stop implements service.Service
func (s *Service) Stop() error {
	clock.Invoke(s.caller, s.anim.Stop)
	return nil
}

// Animator returns the wrapped animator
func (s *Service) Animator() *Animator {
	return s.anim
}
