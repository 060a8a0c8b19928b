package service

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
)

// ErrCycle is returned when dependencies form a loop
var ErrCycle = errors.New("service: circular dependency")

// Hub registers services and drives them through their lifecycle in dependency order
type Hub struct {
	mu       sync.Mutex
	services map[string]Service
	sorted   []string // dependency order, computed on InitAll
	started  []string // started services, for rollback and StopAll
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{services: make(map[string]Service)}
}

// Register adds a service, names must be unique
func (h *Hub) Register(svc Service) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, exists := h.services[name]; exists {
		return fmt.Errorf("service: already registered: %s", name)
	}
	h.services[name] = svc
	h.sorted = nil
	return nil
}

// Get returns a registered service
func (h *Hub) Get(name string) (Service, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	svc, ok := h.services[name]
	return svc, ok
}

// InitAll calls Init in dependency order with per-service args
// On failure, already initialised services are stopped in reverse order
func (h *Hub) InitAll(args map[string][]any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	order, err := h.order()
	if err != nil {
		return err
	}
	h.sorted = order

	var initialized []string
	for _, name := range order {
		if err := h.services[name].Init(args[name]...); err != nil {
			h.rollback(initialized)
			return fmt.Errorf("service %s init failed: %w", name, err)
		}
		initialized = append(initialized, name)
	}
	return nil
}

// StartAll calls Start in dependency order
// On failure, already started services are stopped in reverse order
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sorted == nil {
		return errors.New("service: StartAll before InitAll")
	}

	h.started = nil
	for _, name := range h.sorted {
		if err := h.services[name].Start(); err != nil {
			h.rollback(h.started)
			h.started = nil
			return fmt.Errorf("service %s start failed: %w", name, err)
		}
		h.started = append(h.started, name)
	}
	return nil
}

// StopAll stops started services in reverse order, logging failures
func (h *Hub) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.rollback(h.started)
	h.started = nil
}

// Order returns the computed start order
func (h *Hub) Order() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.sorted...)
}

func (h *Hub) rollback(names []string) {
	for i := len(names) - 1; i >= 0; i-- {
		if err := h.services[names[i]].Stop(); err != nil {
			log.Printf("service %s stop: %v", names[i], err)
		}
	}
}

// order is Kahn's algorithm with name-sorted ready sets so the result is deterministic
func (h *Hub) order() ([]string, error) {
	inDegree := make(map[string]int, len(h.services))
	dependents := make(map[string][]string)

	for name := range h.services {
		inDegree[name] += 0
	}
	for name, svc := range h.services {
		for _, dep := range svc.Dependencies() {
			if _, ok := h.services[dep]; !ok {
				return nil, fmt.Errorf("service %s depends on unregistered service %s", name, dep)
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for name, d := range inDegree {
		if d == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	result := make([]string, 0, len(h.services))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		result = append(result, name)

		var next []string
		for _, dep := range dependents[name] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				next = append(next, dep)
			}
		}
		sort.Strings(next)
		ready = append(ready, next...)
	}

	if len(result) != len(h.services) {
		return nil, ErrCycle
	}
	return result, nil
}
