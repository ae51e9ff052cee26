package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "data", "store.json"))
	require.NoError(t, err)

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get("nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set("a", "1"))
		v, err := store.Get("a")
		require.NoError(t, err)
		assert.Equal(t, "1", v)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set("a", "2"))
		v, err := store.Get("a")
		require.NoError(t, err)
		assert.Equal(t, "2", v)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, store.Remove("a"))
		_, err := store.Get("a")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("remove absent key is a no-op", func(t *testing.T) {
		assert.NoError(t, store.Remove("never-there"))
	})

	t.Run("keys", func(t *testing.T) {
		require.NoError(t, store.Set("x", "1"))
		require.NoError(t, store.Set("y", "2"))
		keys, err := store.Keys()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"x", "y"}, keys)
	})
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	// Corrupt contents read as empty, and the store stays writable.
	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, store.Set("fresh", "ok"))
	v, err := store.Get("fresh")
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set("k", "v"))
	v, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, store.Remove("k"))
	_, err = store.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSQLiteStore(filepath.Join(dir, "client.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("queue", `[]`))
	require.NoError(t, store.Set("queue", `[{"id":"1"}]`))

	v, err := store.Get("queue")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, v)

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"queue"}, keys)

	require.NoError(t, store.Remove("queue"))
	_, err = store.Get("queue")
	assert.ErrorIs(t, err, ErrNotFound)
}
