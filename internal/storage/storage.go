// Package storage provides the key-value persistence adapter.
//
// The adapter never surfaces errors to callers: a failed read behaves
// exactly like missing data and a failed write returns false. Callers
// treat "no saved data" identically to "first run".
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/psymind-ai/companion/internal/config"
	"github.com/psymind-ai/companion/pkg/logger"
)

// Well-known storage keys.
const (
	KeyChatHistory   = "chatHistory"
	KeyThemeMode     = "themeMode"
	KeyReducedMotion = "reducedMotion"
)

// Store is the persistence adapter contract. Values are serialized
// opaquely; callers pass plain data structures, not strings.
type Store interface {
	// Get deserializes the value under key into out. Returns false when
	// the key is absent or the stored value cannot be deserialized.
	Get(key string, out any) bool

	// Set serializes value under key. Returns false on failure.
	Set(key string, value any) bool

	// Remove deletes the value under key, if any.
	Remove(key string)

	// Clear deletes all values.
	Clear()

	// Close releases any resources held by the store.
	Close() error
}

// Open creates the store selected by configuration.
func Open(cfg *config.Config, log *logger.Logger) (Store, error) {
	switch cfg.StorageBackend {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		path := cfg.StoragePath
		if path == "" {
			path = defaultPath("companion.db")
		}
		return OpenSQLiteStore(path, log)
	case "file", "":
		path := cfg.StoragePath
		if path == "" {
			path = defaultPath("companion.json")
		}
		return OpenFileStore(path, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func defaultPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, "companion", name)
}
