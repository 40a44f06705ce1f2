package runtime

import (
	"sort"
	"sync"
)

type subscription[T any] struct {
	id uint64
	fn func(T)
}

// Subject holds a current value and pushes every new value to its listeners.
//
// Subscribe replays the current value to the new listener before returning.
// Next delivers synchronously, in subscription order, on the calling
// goroutine; concurrent Next calls are delivered one after the other in the
// order they acquire the subject.
//
// A distinct Subject drops values equal to the current one.
type Subject[T any] struct {
	mu        sync.Mutex
	deliverMu sync.Mutex
	value     T
	nextID    uint64
	listeners map[uint64]func(T)
	equal     func(a, b T) bool
}

func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{value: initial, listeners: make(map[uint64]func(T))}
}

// NewDistinctSubject builds a Subject that suppresses values equal to the current one.
func NewDistinctSubject[T comparable](initial T) *Subject[T] {
	s := NewSubject(initial)
	s.equal = func(a, b T) bool { return a == b }
	return s
}

func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Next publishes value. It reports false when a distinct Subject dropped it.
func (s *Subject[T]) Next(value T) bool {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if s.equal != nil && s.equal(s.value, value) {
		s.mu.Unlock()
		return false
	}
	s.value = value
	listeners := s.snapshot()
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(value)
	}
	return true
}

// Subscribe registers fn and returns the function that removes it.
func (s *Subject[T]) Subscribe(fn func(T)) func() {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	current := s.value
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
		})
	}
}

// Len is the number of active listeners.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// snapshot must be called with mu held.
func (s *Subject[T]) snapshot() []subscription[T] {
	subs := make([]subscription[T], 0, len(s.listeners))
	for id, fn := range s.listeners {
		subs = append(subs, subscription[T]{id: id, fn: fn})
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
	return subs
}
