// Package service sequences the lifecycle of long-lived host subsystems
package service

// Service is a long-lived subsystem: preferences, audio, the scheduler loop, the animator
//
// Lifecycle:
//  1. Construction
//  2. Init(args...) - configuration from flags, files or environment
//  3. Start() - launch goroutines, arm timers
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init and Start before this one
	Dependencies() []string

	// Init configures the service from optional args
	Init(args ...any) error

	// Start begins service operation
	Start() error

	// Stop halts service operation and releases resources
	// Must be idempotent
	Stop() error
}
