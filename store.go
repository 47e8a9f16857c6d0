package main

import "sync"

// SessionStore holds the single live State behind an exclusive-access lock.
// All mutation goes through Apply, so transitions see a consistent value and
// are applied in the order their events were accepted.
type SessionStore struct {
	mu    sync.Mutex
	state State
}

func newSessionStore(initial State) *SessionStore {
	return &SessionStore{state: initial}
}

// Apply runs one transition atomically and returns the serialized snapshot
// of the resulting state. Serialization happens while the lock is held, so
// the payload always reflects exactly the state it names.
func (s *SessionStore) Apply(fn func(State) State) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = fn(s.state)

	return marshalState(s.state)
}

// Snapshot serializes the current state without applying a transition. Used
// to bring newly connected clients up to date.
func (s *SessionStore) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return marshalState(s.state)
}

// State returns the current state value. Transitions never mutate a
// published State, so the returned value is safe to read.
func (s *SessionStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}
