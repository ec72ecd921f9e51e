package storage

import (
	"encoding/json"
	"sync"
)

// MemoryStore is an in-process store for tests and ephemeral sessions.
// Values round-trip through JSON so stored data is decoupled from live
// pointers, matching the durable backends.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]json.RawMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]json.RawMessage)}
}

// Get implements Store.
func (s *MemoryStore) Get(key string, out any) bool {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()

	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// Set implements Store.
func (s *MemoryStore) Set(key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}

	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()
	return true
}

// Remove implements Store.
func (s *MemoryStore) Remove(key string) {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
}

// Clear implements Store.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	s.values = make(map[string]json.RawMessage)
	s.mu.Unlock()
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
