package clock

import (
	"container/heap"
	"time"
)

// entry is a scheduled callback; period > 0 marks an interval
type entry struct {
	seq    uint64
	due    time.Time
	period time.Duration
	fn     func()
	index  int // heap position, -1 when not queued
	done   bool
	frame  bool
}

// timerQueue is a min-heap ordered by deadline, ties broken by scheduling order
type timerQueue []*entry

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	e := x.(*entry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

// peek returns the earliest entry without removing it
func (q timerQueue) peek() *entry {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}

// remove drops e from the heap if queued
func (q *timerQueue) remove(e *entry) {
	if e.index >= 0 && e.index < len(*q) && (*q)[e.index] == e {
		heap.Remove(q, e.index)
	}
}

// frameList holds one-shot frame callbacks in registration order
type frameList []*entry

// take detaches the current list, leaving callbacks registered during the run for the next frame
func (f *frameList) take() []*entry {
	taken := *f
	*f = nil
	return taken
}

// active counts entries not yet cancelled
func (f frameList) active() int {
	n := 0
	for _, e := range f {
		if !e.done {
			n++
		}
	}
	return n
}
