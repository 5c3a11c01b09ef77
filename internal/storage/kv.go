// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// KEYS AND ERRORS
// =============================================================================

// Well-known keys. These values are shared with other LiberNet clients,
// so they must not change.
const (
	TokenKey = "sofia-auth-token"
	ThemeKey = "sofia-libernet-theme"
)

// StoreError wraps a storage failure with the key it concerns.
type StoreError struct {
	Key string
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is matches any other StoreError for the same key.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return t.Key == "" || t.Key == e.Key
}

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: store is closed")

// =============================================================================
// KV INTERFACE
// =============================================================================

// KV is a minimal persistent key/value store. Get reports presence
// explicitly; a missing key is not an error.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// =============================================================================
// SQLITE STORE
// =============================================================================

// SQLiteKV is the durable KV implementation. A single table keeps one
// row per key; writes are upserts.
type SQLiteKV struct {
	db *sql.DB
	mu sync.Mutex
}

// DefaultKVPath returns the standard location of the state database,
// ~/.sofia/state.db.
func DefaultKVPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".sofia", "state.db"), nil
}

// OpenKV opens (creating if needed) the SQLite store at path.
func OpenKV(path string) (*SQLiteKV, error) {
	if path == "" {
		return nil, errors.New("storage: path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to configure database: %w", err)
		}
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteKV{db: db}, nil
}

// Get returns the value stored under key. ok is false when the key is
// absent.
func (s *SQLiteKV) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return "", false, ErrClosed
	}

	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StoreError{Key: key, Op: "get", Err: err}
	}
	return value, true, nil
}

// Set stores value under key, replacing any existing value.
func (s *SQLiteKV) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrClosed
	}

	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return &StoreError{Key: key, Op: "set", Err: err}
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *SQLiteKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrClosed
	}

	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return &StoreError{Key: key, Op: "delete", Err: err}
	}
	return nil
}

// Close releases the underlying database. Further operations return
// ErrClosed.
func (s *SQLiteKV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryKV is a map-backed KV for tests and ephemeral runs.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Close() error { return nil }
