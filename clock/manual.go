package clock

import (
	"container/heap"
	"sync"
	"time"
)

// Manual is a Scheduler driven by virtual time
// Nothing runs until Advance or Frame is called; callbacks run on the caller's goroutine
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	queue  timerQueue
	frames frameList
	frameN uint64
}

// NewManual creates a virtual scheduler starting at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// After schedules fn at now+d; non-positive d fires on the next Advance
func (m *Manual) After(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	return m.schedule(d, 0, fn)
}

// Every schedules fn at now+d, now+2d, ...
func (m *Manual) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		panic("clock: non-positive interval for Every")
	}
	return m.schedule(d, d, fn)
}

// NextFrame queues fn for the next Frame call
func (m *Manual) NextFrame(fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	e := &entry{seq: m.seq, fn: fn, index: -1, frame: true}
	m.frames = append(m.frames, e)
	return handle{owner: m, e: e}
}

func (m *Manual) schedule(d, period time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	e := &entry{seq: m.seq, due: m.now.Add(d), period: period, fn: fn, index: -1}
	heap.Push(&m.queue, e)
	return handle{owner: m, e: e}
}

func (m *Manual) cancel(e *entry) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.done {
		return false
	}
	e.done = true
	if !e.frame {
		m.queue.remove(e)
	}
	return true
}

// Advance moves virtual time forward by d, firing every timer that comes due
// Time is set to each deadline before its callback runs
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		e := m.queue.peek()
		if e == nil || e.due.After(target) {
			m.now = target
			m.mu.Unlock()
			return
		}

		heap.Pop(&m.queue)
		m.now = e.due
		if e.period > 0 {
			e.due = e.due.Add(e.period)
			m.seq++
			e.seq = m.seq
			heap.Push(&m.queue, e)
		} else {
			e.done = true
		}
		fn := e.fn
		m.mu.Unlock()

		fn()
	}
}

// Frame runs the frame callbacks registered before the call
// Callbacks registered while running are deferred to the next Frame
func (m *Manual) Frame() int {
	m.mu.Lock()
	batch := m.frames.take()
	m.frameN++
	m.mu.Unlock()

	ran := 0
	for _, e := range batch {
		m.mu.Lock()
		if e.done {
			m.mu.Unlock()
			continue
		}
		e.done = true
		m.mu.Unlock()

		e.fn()
		ran++
	}
	return ran
}

// Step advances time by d and then renders one frame
func (m *Manual) Step(d time.Duration) {
	m.Advance(d)
	m.Frame()
}

// Frames returns how many frames have run
func (m *Manual) Frames() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frameN
}

// Pending returns the number of live timers and queued frame callbacks
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Len() + m.frames.active()
}
