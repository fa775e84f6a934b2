// Package readstate records which poems have been marked as read. Each
// poem gets its own key; marks are never removed.
package readstate

import (
	"go.uber.org/zap"

	"github.com/justyntemme/poemario/internal/kv"
)

// KeyPrefix prefixes the per-poem storage key
const KeyPrefix = "leido_"

const readValue = "true"

// Store reads and writes read marks
type Store struct {
	kv     kv.Store
	logger *zap.Logger
}

// New creates a read-state store over kv
func New(store kv.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: store, logger: logger}
}

// Key returns the storage key for id
func Key(id string) string {
	return KeyPrefix + id
}

// IsRead reports whether id was marked read. Storage errors read as unread.
func (s *Store) IsRead(id string) bool {
	v, ok, err := s.kv.Get(Key(id))
	if err != nil {
		s.logger.Warn("reading read mark", zap.String("id", id), zap.Error(err))
		return false
	}
	return ok && v == readValue
}

// MarkRead marks id as read. Marking twice is harmless.
func (s *Store) MarkRead(id string) error {
	if err := s.kv.Set(Key(id), readValue); err != nil {
		return err
	}
	s.logger.Debug("marked read", zap.String("id", id))
	return nil
}
