// Package session holds the client's in-memory belief about who is signed
// in. A Store is created once per App, read by every surface, and mutated
// only through the transitions below, which services.AuthService drives.
package session

import (
	"sync"
)

// State is a snapshot of the session.
//
// Authenticated implies Username != "". Loading is true only until the first
// transition after construction. Expired is set when a session the user had
// was lost (rejected, expired, invalidated) as opposed to never existing.
type State struct {
	Authenticated bool
	Username      string
	Loading       bool
	Expired       bool
}

// Store is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	state     State
	epoch     uint64
	listeners map[int]func(State)
	nextID    int
}

// NewStore returns a store in the initial loading state.
func NewStore() *Store {
	return &Store{
		state:     State{Loading: true},
		listeners: make(map[int]func(State)),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Epoch returns the current session epoch. Any transition that invalidates
// in-flight work increments it.
func (s *Store) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Subscribe registers fn to be called with the new state after every
// transition. The returned func unregisters it.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Authenticate settles an in-flight validation started at epoch. It is
// dropped, returning false, when another transition happened meanwhile or
// username is empty.
func (s *Store) Authenticate(epoch uint64, username string) bool {
	if username == "" {
		return false
	}
	return s.apply(func() bool {
		if s.epoch != epoch {
			return false
		}
		s.state = State{Authenticated: true, Username: username}
		return true
	})
}

// Settle marks an in-flight validation started at epoch as failed. Like
// Authenticate it is dropped when the epoch moved on.
func (s *Store) Settle(epoch uint64, expired bool) bool {
	return s.apply(func() bool {
		if s.epoch != epoch {
			return false
		}
		s.epoch++
		s.state = State{Expired: expired}
		return true
	})
}

// SignIn authenticates username unconditionally and starts a new epoch.
func (s *Store) SignIn(username string) bool {
	if username == "" {
		return false
	}
	return s.apply(func() bool {
		s.epoch++
		s.state = State{Authenticated: true, Username: username}
		return true
	})
}

// Reset moves to Unauthenticated and starts a new epoch, so late results of
// earlier validations are ignored. It returns whether the session was
// authenticated just before.
func (s *Store) Reset(expired bool) (wasAuthenticated bool) {
	s.apply(func() bool {
		wasAuthenticated = s.state.Authenticated
		s.epoch++
		s.state = State{Expired: expired}
		return true
	})
	return wasAuthenticated
}

// apply runs mutate under the lock and, if it changed anything, notifies
// listeners outside the lock.
func (s *Store) apply(mutate func() bool) bool {
	s.mu.Lock()
	if !mutate() {
		s.mu.Unlock()
		return false
	}
	state := s.state
	listeners := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
	return true
}
