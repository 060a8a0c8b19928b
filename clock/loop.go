package clock

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/glimmer/core"
)

// DefaultFrameInterval is roughly 60 frames per second
const DefaultFrameInterval = 16 * time.Millisecond

// Loop is the production Scheduler
// A single goroutine runs every timer, frame and posted callback, so callbacks
// never need locking against each other
type Loop struct {
	mu     sync.Mutex
	clock  TimeProvider
	seq    uint64
	queue  timerQueue
	frames frameList

	frameInterval time.Duration
	frameCount    atomic.Uint64

	posts chan func()
	wake  chan struct{}

	// Control channels
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewLoop creates a loop scheduler firing frames every frameInterval
func NewLoop(frameInterval time.Duration) *Loop {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &Loop{
		clock:         NewMonotonicTimeProvider(),
		frameInterval: frameInterval,
		posts:         make(chan func(), 256),
		wake:          make(chan struct{}, 1),
		stopChan:      make(chan struct{}),
	}
}

// Now returns monotonic wall time
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// After schedules fn once after d
func (l *Loop) After(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	return l.schedule(d, 0, fn)
}

// Every schedules fn every d
func (l *Loop) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		panic("clock: non-positive interval for Every")
	}
	return l.schedule(d, d, fn)
}

// NextFrame queues fn for the next frame tick
func (l *Loop) NextFrame(fn func()) Timer {
	l.mu.Lock()
	l.seq++
	e := &entry{seq: l.seq, fn: fn, index: -1, frame: true}
	l.frames = append(l.frames, e)
	l.mu.Unlock()
	return handle{owner: l, e: e}
}

func (l *Loop) schedule(d, period time.Duration, fn func()) Timer {
	l.mu.Lock()
	l.seq++
	e := &entry{seq: l.seq, due: l.clock.Now().Add(d), period: period, fn: fn, index: -1}
	heap.Push(&l.queue, e)
	l.mu.Unlock()

	l.signal()
	return handle{owner: l, e: e}
}

func (l *Loop) cancel(e *entry) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e.done {
		return false
	}
	e.done = true
	if !e.frame {
		l.queue.remove(e)
	}
	return true
}

// signal wakes the loop so it re-arms its deadline timer
func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Post runs fn on the loop goroutine, returns false once the loop has stopped
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopChan:
		return false
	default:
	}

	select {
	case l.posts <- fn:
		return true
	case <-l.stopChan:
		return false
	}
}

// Call runs fn on the loop goroutine and waits for it to return
// When the loop is not running, or stops before picking fn up, fn runs on the
// caller's goroutine instead and Call returns false. Exactly one of the two runs it.
// Must not be called from a loop callback
func (l *Loop) Call(fn func()) bool {
	var claimed atomic.Bool
	done := make(chan struct{})

	if !l.running.Load() || !l.Post(func() {
		if claimed.CompareAndSwap(false, true) {
			defer close(done)
			fn()
		}
	}) {
		if claimed.CompareAndSwap(false, true) {
			fn()
		}
		return false
	}

	select {
	case <-done:
		return true
	case <-l.stopChan:
		if claimed.CompareAndSwap(false, true) {
			fn()
			return false
		}
		// The loop took fn before stopping, Stop waits for it to finish
		<-done
		return true
	}
}

// Start launches the loop goroutine
func (l *Loop) Start() {
	if l.running.CompareAndSwap(false, true) {
		l.wg.Add(1)
		core.Go(l.run)
	}
}

// Stop halts the loop and waits for the running callback to return
// Must not be called from a loop callback
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
		if l.running.CompareAndSwap(true, false) {
			l.wg.Wait()
		}
	})
}

// FrameCount returns the number of frames processed
func (l *Loop) FrameCount() uint64 {
	return l.frameCount.Load()
}

func (l *Loop) run() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		l.runDue()

		if next, ok := l.nextDeadline(); ok {
			timer.Reset(max(next.Sub(l.clock.Now()), 0))
		} else {
			timer.Stop()
		}

		select {
		case <-l.stopChan:
			return
		case fn := <-l.posts:
			fn()
		case <-ticker.C:
			l.runFrame()
		case <-timer.C:
		case <-l.wake:
		}
	}
}

func (l *Loop) nextDeadline() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e := l.queue.peek(); e != nil {
		return e.due, true
	}
	return time.Time{}, false
}

// runDue fires every timer whose deadline has passed
// Intervals that fell behind by more than one period are rebased to avoid bursts
func (l *Loop) runDue() {
	for {
		select {
		case <-l.stopChan:
			return
		default:
		}

		now := l.clock.Now()

		l.mu.Lock()
		e := l.queue.peek()
		if e == nil || e.due.After(now) {
			l.mu.Unlock()
			return
		}

		heap.Pop(&l.queue)
		if e.period > 0 {
			e.due = e.due.Add(e.period)
			if now.Sub(e.due) > e.period {
				e.due = now.Add(e.period)
			}
			l.seq++
			e.seq = l.seq
			heap.Push(&l.queue, e)
		} else {
			e.done = true
		}
		fn := e.fn
		l.mu.Unlock()

		fn()
	}
}

func (l *Loop) runFrame() {
	l.frameCount.Add(1)

	l.mu.Lock()
	batch := l.frames.take()
	l.mu.Unlock()

	for _, e := range batch {
		l.mu.Lock()
		if e.done {
			l.mu.Unlock()
			continue
		}
		e.done = true
		l.mu.Unlock()

		e.fn()
	}
}
