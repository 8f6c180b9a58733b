package registry

import "sync"

// Synchronized serializes access to a Registry behind one lock.
// Handles stay plain values; only the closures passed in touch the registry.
type Synchronized struct {
	mu sync.RWMutex
	r  *Registry
}

func NewSynchronized(r *Registry) *Synchronized {
	return &Synchronized{r: r}
}

// Update runs fn with exclusive access.
func (s *Synchronized) Update(fn func(r *Registry) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.r)
}

// View runs fn with shared access. fn must only read: IsAlive, GetComponent,
// HasComponent, Components, Query without writes through the yielded pointer,
// Entities and Stats.
func (s *Synchronized) View(fn func(r *Registry) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.r)
}
