package hub

import (
	"github.com/yanun0323/errors"

	"bondpipe/pkg/exception"
)

// Store keeps values by a derived key and notifies listeners in
// registration order. It is not safe for concurrent use: a store has a
// single owner that mutates it from one goroutine.
type Store[K comparable, V any] struct {
	name      string
	keyOf     func(V) K
	data      map[K]V
	order     []K
	listeners []Listener[V]
}

// NewStore creates an empty store. The name only shows up in errors.
func NewStore[K comparable, V any](name string, keyOf func(V) K) *Store[K, V] {
	return &Store[K, V]{
		name:  name,
		keyOf: keyOf,
		data:  make(map[K]V),
	}
}

// Get returns the value stored under key.
func (s *Store[K, V]) Get(key K) (V, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Lookup is Get with the not-found policy applied.
func (s *Store[K, V]) Lookup(key K) (V, error) {
	v, ok := s.data[key]
	if !ok {
		return v, errors.Wrapf(exception.ErrNotFound, "%s: key %v", s.name, key)
	}
	return v, nil
}

// Put replaces any previous value at the value's key.
func (s *Store[K, V]) Put(v V) {
	key := s.keyOf(v)
	if _, ok := s.data[key]; !ok {
		s.order = append(s.order, key)
	}
	s.data[key] = v
}

// Delete removes key and reports whether it was present.
func (s *Store[K, V]) Delete(key K) bool {
	if _, ok := s.data[key]; !ok {
		return false
	}
	delete(s.data, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of stored values.
func (s *Store[K, V]) Len() int {
	return len(s.data)
}

// Keys returns the keys in first-insertion order.
func (s *Store[K, V]) Keys() []K {
	keys := make([]K, len(s.order))
	copy(keys, s.order)
	return keys
}

// AddListener registers listener after the existing ones. Nil is ignored.
func (s *Store[K, V]) AddListener(listener Listener[V]) {
	if listener == nil {
		return
	}
	s.listeners = append(s.listeners, listener)
}

// GetListeners returns a copy of the registered listeners.
func (s *Store[K, V]) GetListeners() []Listener[V] {
	listeners := make([]Listener[V], len(s.listeners))
	copy(listeners, s.listeners)
	return listeners
}

// Notify calls ProcessAdd on every listener in order. The first error stops
// the fan-out and is returned.
func (s *Store[K, V]) Notify(v V) error {
	for i, listener := range s.listeners {
		if err := listener.ProcessAdd(v); err != nil {
			return errors.Wrapf(err, "%s: listener %d", s.name, i)
		}
	}
	return nil
}

// OnMessage stores v and then notifies listeners.
func (s *Store[K, V]) OnMessage(v V) error {
	s.Put(v)
	return s.Notify(v)
}
