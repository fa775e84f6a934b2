// Package favorites keeps the set of favorite poem ids, persisted as a
// JSON array under a single key.
package favorites

import (
	"encoding/json"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/justyntemme/poemario/internal/kv"
)

// StorageKey is the key holding the JSON array of favorite ids
const StorageKey = "poemario:favorites"

// Store is the in-memory favorites set plus its persistence
type Store struct {
	kv     kv.Store
	logger *zap.Logger

	ids []string // insertion order, mirrors the persisted array
	set map[string]bool

	// where the most recently removed id sat, so adding it straight back
	// restores the previous array
	removedID  string
	removedPos int
}

// New creates a store and loads the persisted set
func New(store kv.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{kv: store, logger: logger, set: map[string]bool{}}
	s.Load()
	return s
}

// Load replaces the in-memory set with the persisted one. A missing or
// unparsable value yields an empty set.
func (s *Store) Load() {
	s.ids = nil
	s.set = map[string]bool{}

	raw, ok, err := s.kv.Get(StorageKey)
	if err != nil {
		s.logger.Warn("reading favorites", zap.Error(err))
		return
	}
	if !ok || raw == "" {
		return
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.logger.Warn("favorites value is not a JSON string array", zap.Error(err))
		return
	}
	for _, id := range ids {
		if !s.set[id] {
			s.set[id] = true
			s.ids = append(s.ids, id)
		}
	}
}

// IsFavorite reports whether id is in the set
func (s *Store) IsFavorite(id string) bool {
	return s.set[id]
}

// Toggle adds id if absent, removes it otherwise, and persists the whole
// set immediately. It returns the new membership. The in-memory set is
// updated even if persisting fails.
func (s *Store) Toggle(id string) (bool, error) {
	if s.set[id] {
		delete(s.set, id)
		for i, v := range s.ids {
			if v == id {
				s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
				s.removedID, s.removedPos = id, i
				break
			}
		}
	} else {
		s.set[id] = true
		if id == s.removedID && s.removedPos <= len(s.ids) {
			s.ids = slices.Insert(s.ids, s.removedPos, id)
		} else {
			s.ids = append(s.ids, id)
		}
		s.removedID = ""
	}

	now := s.set[id]
	if err := s.persist(); err != nil {
		return now, fmt.Errorf("saving favorites: %w", err)
	}
	s.logger.Debug("favorite toggled", zap.String("id", id), zap.Bool("favorite", now))
	return now, nil
}

// IDs returns the favorite ids in insertion order
func (s *Store) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of favorites
func (s *Store) Len() int {
	return len(s.ids)
}

func (s *Store) persist() error {
	ids := s.ids
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return s.kv.Set(StorageKey, string(raw))
}
