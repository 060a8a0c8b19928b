// Package clock abstracts time for the animation host.
//
// Everything that waits goes through a Scheduler: one-shot delays, fixed
// intervals and per-frame callbacks. Loop runs callbacks on a single goroutine
// against the wall clock; Manual runs them against virtual time for tests.
package clock

import "time"

// Scheduler is the timing surface consumed by the animator and effects
// Callbacks never run concurrently with each other on the same scheduler
type Scheduler interface {
	// Now returns the scheduler's notion of current time
	Now() time.Time
	// After runs fn once, d after now
	After(d time.Duration, fn func()) Timer
	// Every runs fn every d until stopped, first run at now+d
	Every(d time.Duration, fn func()) Timer
	// NextFrame runs fn once on the next rendered frame
	NextFrame(fn func()) Timer
}

// Timer is a handle to a pending callback
type Timer interface {
	// Stop cancels the callback, returns false if it already ran or was stopped
	Stop() bool
}

// Caller runs a function on the scheduler goroutine and waits for it
// Implementations fall back to the calling goroutine once the scheduler is gone
type Caller interface {
	Call(fn func()) bool
}

// Invoke runs fn through caller, or directly when caller is nil
func Invoke(caller Caller, fn func()) {
	if caller == nil {
		fn()
		return
	}
	caller.Call(fn)
}

// canceler is implemented by schedulers that own timer entries
type canceler interface {
	cancel(e *entry) bool
}

// handle binds an entry to its owning scheduler
type handle struct {
	owner canceler
	e     *entry
}

func (h handle) Stop() bool {
	return h.owner.cancel(h.e)
}
