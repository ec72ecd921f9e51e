package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/psymind-ai/companion/pkg/logger"
)

// FileStore persists all keys as a single JSON document on disk.
// Writes replace the whole document through a temp-file rename, so a
// partially written snapshot can never be observed.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
	logger *logger.Logger
}

// OpenFileStore loads (or initializes) the JSON document at path.
func OpenFileStore(path string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	s := &FileStore{
		path:   path,
		values: make(map[string]json.RawMessage),
		logger: log,
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &s.values); err != nil {
			// Corrupt document: start fresh rather than failing startup.
			log.Warn("discarding unreadable storage document", zap.String("path", path), zap.Error(err))
			s.values = make(map[string]json.RawMessage)
		}
	}

	return s, nil
}

// Get implements Store.
func (s *FileStore) Get(key string, out any) bool {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()

	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Debug("failed to deserialize stored value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set implements Store.
func (s *FileStore) Set(key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Debug("failed to serialize value", zap.String("key", key), zap.Error(err))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = raw
	return s.flushLocked()
}

// Remove implements Store.
func (s *FileStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.flushLocked()
}

// Clear implements Store.
func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[string]json.RawMessage)
	s.flushLocked()
}

// Close implements Store.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) flushLocked() bool {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		s.logger.Debug("failed to serialize storage document", zap.Error(err))
		return false
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.logger.Warn("failed to write storage document", zap.String("path", s.path), zap.Error(err))
		return false
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.logger.Warn("failed to replace storage document", zap.String("path", s.path), zap.Error(err))
		return false
	}
	return true
}
