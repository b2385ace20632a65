package history

import "sync"

// PathStore holds a path value with no external signal source.
type PathStore struct {
	mu    sync.RWMutex
	value string
}

// NewPathStore returns a store initialized to path.
func NewPathStore(path string) *PathStore {
	return &PathStore{value: path}
}

// Get returns the stored path.
func (s *PathStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set overwrites the stored path.
func (s *PathStore) Set(path string) {
	s.mu.Lock()
	s.value = path
	s.mu.Unlock()
}
