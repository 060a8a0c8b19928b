// Package status holds named runtime counters shared between the animator and the overlay
package status

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Counter names published by the animator
const (
	Spawned        = "animator.spawned"
	Expired        = "animator.expired"
	AmbientSkipped = "animator.ambient_skipped"
	Live           = "animator.live"
	Constellations = "animator.constellations"
	DriftLive      = "animator.drift_live"
)

// Flags published by the host
const (
	AudioAvailable = "audio.available"
	MusicOn        = "audio.music"
)

// MetricMap maps names to lazily created metric cells
// Lookup takes a lock; callers cache the returned pointer and update it lock-free
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

// NewMetricMap creates an empty MetricMap
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{items: make(map[string]*T)}
}

// Get returns the cell for key, creating it on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.RLock()
	ptr, ok := m.items[key]
	m.mu.RUnlock()
	if ok {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ptr, ok := m.items[key]; ok {
		return ptr
	}
	ptr = new(T)
	m.items[key] = ptr
	return ptr
}

// Keys returns registered names in sorted order
func (m *MetricMap[T]) Keys() []string {
	m.mu.RLock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	m.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// Registry groups counters and flags
type Registry struct {
	Ints  *MetricMap[atomic.Int64]
	Bools *MetricMap[atomic.Bool]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:  NewMetricMap[atomic.Int64](),
		Bools: NewMetricMap[atomic.Bool](),
	}
}

// Int reads a counter, zero if never registered
func (r *Registry) Int(key string) int64 {
	return r.Ints.Get(key).Load()
}

// Snapshot copies all counters
func (r *Registry) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	for _, k := range r.Ints.Keys() {
		out[k] = r.Ints.Get(k).Load()
	}
	return out
}
