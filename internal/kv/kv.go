// Package kv provides the small key-value persistence layer that backs
// favorites and read marks. Several poemario processes may share one
// store; Watcher reports keys changed by any of them.
package kv

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Backend names accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var (
	// ErrUnknownBackend is returned by Open for an unsupported backend name
	ErrUnknownBackend = errors.New("kv: unknown backend")
	// ErrNotWatchable is returned when a store has no file to watch
	ErrNotWatchable = errors.New("kv: store has no backing file")
)

// Store is a string key-value store
type Store interface {
	// Get returns the value for key and whether it was present
	Get(key string) (string, bool, error)
	// Set stores value under key, replacing any previous value
	Set(key, value string) error
	// Snapshot returns a copy of every key and value
	Snapshot() (map[string]string, error)
	// Path returns the backing file, or "" for in-memory stores
	Path() string
	Close() error
}

// Open creates a store for the named backend. path is ignored for memory.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendFile, "":
		return NewFileStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// DefaultFileName returns the store file name used for a backend
func DefaultFileName(backend string) string {
	if strings.EqualFold(backend, BackendSQLite) {
		return "storage.db"
	}
	return "storage.json"
}

// DefaultPath returns the store path inside dir for a backend
func DefaultPath(dir, backend string) string {
	return filepath.Join(dir, DefaultFileName(backend))
}
