package consoleclient

import "sync"

// CredentialStore holds at most one live bearer credential for the process.
// The empty string means no credential is stored.
type CredentialStore interface {
	// Get returns the current credential without blocking.
	Get() string
	// Set stores the credential; subsequent Get calls observe it immediately.
	Set(cred string)
	// Clear removes the credential. Clearing an empty store is not an error.
	Clear()
}

// MemoryStore is the default CredentialStore: a mutex-guarded in-process slot.
type MemoryStore struct {
	mu   sync.RWMutex
	cred string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred
}

func (s *MemoryStore) Set(cred string) {
	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	s.cred = ""
	s.mu.Unlock()
}
