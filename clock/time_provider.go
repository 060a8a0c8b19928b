package clock

import "time"

// TimeProvider supplies the current time
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads the system clock, keeping the monotonic reading
// so deadlines survive wall clock adjustments
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates a new monotonic time provider
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns the current time with monotonic clock reading
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}
