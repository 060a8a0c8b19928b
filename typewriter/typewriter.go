// Package typewriter reveals a line of text one rune at a time
package typewriter

import (
	"time"

	"github.com/lixenwraith/glimmer/clock"
)

// Defaults for the hero subtitle
const (
	DefaultDelay = 1000 * time.Millisecond
	DefaultSpeed = 80 * time.Millisecond
)

// Typewriter schedules reveal steps on a scheduler
// Like the animator, it must only be touched from the scheduler goroutine
type Typewriter struct {
	sched clock.Scheduler
	delay time.Duration
	speed time.Duration

	target  []rune
	shown   int
	pending clock.Timer
}

// New creates a typewriter waiting delay before the first rune and speed between runes
func New(sched clock.Scheduler, delay, speed time.Duration) *Typewriter {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	if delay < 0 {
		delay = 0
	}
	return &Typewriter{sched: sched, delay: delay, speed: speed}
}

// Start clears the visible text and begins typing text after the initial delay
func (tw *Typewriter) Start(text string) {
	tw.begin(text, tw.delay)
}

// Restart begins typing text immediately, used when the language changes mid-page
func (tw *Typewriter) Restart(text string) {
	tw.begin(text, 0)
}

func (tw *Typewriter) begin(text string, delay time.Duration) {
	tw.Stop()
	tw.target = []rune(text)
	tw.shown = 0
	if len(tw.target) == 0 {
		return
	}
	tw.pending = tw.sched.After(delay, tw.step)
}

func (tw *Typewriter) step() {
	tw.pending = nil
	if tw.shown >= len(tw.target) {
		return
	}
	tw.shown++
	if tw.shown < len(tw.target) {
		tw.pending = tw.sched.After(tw.speed, tw.step)
	}
}

// Stop cancels the pending step, the visible prefix stays as is
func (tw *Typewriter) Stop() {
	if tw.pending != nil {
		tw.pending.Stop()
		tw.pending = nil
	}
}

// Text returns the revealed prefix
func (tw *Typewriter) Text() string {
	return string(tw.target[:tw.shown])
}

// Done reports whether the whole text is visible
func (tw *Typewriter) Done() bool {
	return tw.shown == len(tw.target)
}
