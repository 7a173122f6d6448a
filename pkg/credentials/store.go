package credentials

import "sync"

// Store holds the active credentials for a client.
//
// Get and Replace are mutually exclusive and never block on I/O. A Replace
// takes effect for all signing operations issued after it returns; requests
// whose signature was already computed are unaffected.
type Store struct {
	mu    sync.RWMutex
	creds Credentials
}

// NewStore returns a store seeded with the given credentials.
func NewStore(creds Credentials) *Store {
	return &Store{creds: creds}
}

// Get returns a snapshot of the active credentials.
func (s *Store) Get() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Replace swaps the active credentials as a whole.
func (s *Store) Replace(creds Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
}
