package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sqlite, err := NewSQLiteStore(filepath.Join(dir, "storage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Store{
		BackendFile:   NewFileStore(filepath.Join(dir, "storage.json")),
		BackendSQLite: sqlite,
		BackendMemory: NewMemoryStore(),
	}
}

func TestStoreContract(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set("poemario:favorites", `["a"]`))
			require.NoError(t, store.Set("leido_x", "true"))
			require.NoError(t, store.Set("poemario:favorites", `["a","b"]`))

			v, ok, err := store.Get("poemario:favorites")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `["a","b"]`, v)

			snap, err := store.Snapshot()
			require.NoError(t, err)
			assert.Equal(t, map[string]string{
				"poemario:favorites": `["a","b"]`,
				"leido_x":            "true",
			}, snap)
		})
	}
}

func TestFileStoreSharedBetweenInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	a := NewFileStore(path)
	b := NewFileStore(path)

	require.NoError(t, a.Set("k", "1"))
	v, ok, err := b.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	s := NewFileStore(path)
	_, _, err := s.Get("k")
	assert.Error(t, err)

	// writes recover the file
	require.NoError(t, s.Set("k", "v"))
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("leido_a", "true"))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get("leido_a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("", filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open("SQLite", filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	s, err = Open(BackendMemory, "")
	require.NoError(t, err)
	assert.Equal(t, "", s.Path())

	_, err = Open("redis", "")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("d", "storage.db"), DefaultPath("d", BackendSQLite))
	assert.Equal(t, filepath.Join("d", "storage.json"), DefaultPath("d", BackendFile))
}

func TestDiffKeys(t *testing.T) {
	before := map[string]string{"a": "1", "b": "2", "c": "3"}
	after := map[string]string{"a": "1", "b": "20", "d": "4"}
	assert.Equal(t, []string{"b", "c", "d"}, diffKeys(before, after))
	assert.Empty(t, diffKeys(after, after))
}
