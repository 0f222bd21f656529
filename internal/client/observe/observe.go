// Package observe is the change-notification primitive the client stores
// share. Consumers subscribe explicitly; nothing is looked up ambiently.
package observe

import (
	"slices"
	"sync"
)

// Subscribers fans events of type E out to registered callbacks.
// The zero value is ready to use.
type Subscribers[E any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(E)
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (s *Subscribers[E]) Subscribe(fn func(E)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fns == nil {
		s.fns = make(map[int]func(E))
	}
	id := s.next
	s.next++
	s.fns[id] = fn

	return func() {
		s.mu.Lock()
		delete(s.fns, id)
		s.mu.Unlock()
	}
}

// Notify calls every subscriber with e in subscription order. Callbacks
// run on the caller's goroutine without any lock held, so they may call
// back into the store that notified them.
func (s *Subscribers[E]) Notify(e E) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	fns := make([]func(E), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, s.fns[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
