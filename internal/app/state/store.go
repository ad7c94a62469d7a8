package state

import (
	"slices"
	"sync"
)

// Listener is notified after a transition is committed.
type Listener[S any] func(prev, next S)

// versioned values carry a revision that only changes when a transition
// actually modifies them; Cart and Favorites implement it.
type versioned interface {
	revision() uint64
}

// Store is a state container: it owns the current value of S, applies
// transitions under a lock and notifies listeners synchronously after each
// commit. Listeners run outside the state lock and may call Get, but must not
// call Update or Replace on the same store.
type Store[S any] struct {
	// notifyMu serializes commit plus delivery so listeners observe
	// transitions in commit order.
	notifyMu sync.Mutex

	mu        sync.Mutex
	current   S
	listeners map[int]Listener[S]
	nextID    int
}

func NewStore[S any](initial S) *Store[S] {
	return &Store[S]{current: initial, listeners: make(map[int]Listener[S])}
}

func (s *Store[S]) Get() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update applies fn to the current value and commits its result. The read
// and the write happen under one lock, so check-then-act transitions such as
// Favorites.Toggle cannot interleave with another Update. Transitions that
// return their input unchanged are not announced to listeners.
func (s *Store[S]) Update(fn func(S) S) S {
	return s.commit(fn, false)
}

// Replace swaps in a value wholesale, e.g. one loaded from persistence.
// Listeners are always notified.
func (s *Store[S]) Replace(next S) {
	s.commit(func(S) S { return next }, true)
}

func (s *Store[S]) commit(fn func(S) S, force bool) S {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	prev := s.current
	next := fn(prev)
	s.current = next
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	if !force && unchanged(prev, next) {
		return next
	}
	for _, l := range listeners {
		l(prev, next)
	}
	return next
}

func unchanged[S any](prev, next S) bool {
	p, ok := any(prev).(versioned)
	if !ok {
		return false
	}
	n, ok := any(next).(versioned)
	return ok && p.revision() == n.revision()
}

// Subscribe registers l and returns a function that removes it.
func (s *Store[S]) Subscribe(l Listener[S]) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store[S]) snapshotListeners() []Listener[S] {
	if len(s.listeners) == 0 {
		return nil
	}
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	// notify in subscription order
	slices.Sort(ids)
	out := make([]Listener[S], len(ids))
	for i, id := range ids {
		out[i] = s.listeners[id]
	}
	return out
}
