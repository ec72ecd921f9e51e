package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/psymind-ai/companion/pkg/logger"
)

// SQLiteStore persists keys in a single kv table. Useful when chat
// history grows past what a rewrite-the-whole-file store handles well.
type SQLiteStore struct {
	db     *sql.DB
	logger *logger.Logger
}

// OpenSQLiteStore opens (or creates) the database at path.
func OpenSQLiteStore(path string, log *logger.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, logger: log}, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(key string, out any) bool {
	var raw []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		s.logger.Debug("failed to read stored value", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Debug("failed to deserialize stored value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set implements Store.
func (s *SQLiteStore) Set(key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Debug("failed to serialize value", zap.String("key", key), zap.Error(err))
		return false
	}

	_, err = s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(raw),
	)
	if err != nil {
		s.logger.Warn("failed to write stored value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Remove implements Store.
func (s *SQLiteStore) Remove(key string) {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		s.logger.Debug("failed to remove stored value", zap.String("key", key), zap.Error(err))
	}
}

// Clear implements Store.
func (s *SQLiteStore) Clear() {
	if _, err := s.db.Exec(`DELETE FROM kv`); err != nil {
		s.logger.Debug("failed to clear storage", zap.Error(err))
	}
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
