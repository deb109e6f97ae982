package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_RestoresFromStore(t *testing.T) {
	s, err := New(NewMemoryStore("abc"))
	require.NoError(t, err)

	assert.Equal(t, "abc", s.Token())
	assert.True(t, s.Authenticated())
}

func TestSession_EmptyStoreIsAnonymous(t *testing.T) {
	s, err := New(NewMemoryStore(""))
	require.NoError(t, err)

	assert.Equal(t, "", s.Token())
	assert.False(t, s.Authenticated())
}

func TestSession_SetAndClear(t *testing.T) {
	store := NewMemoryStore("")
	s, err := New(store)
	require.NoError(t, err)

	require.NoError(t, s.Set("abc"))
	assert.Equal(t, "abc", s.Token())
	persisted, _ := store.Load()
	assert.Equal(t, "abc", persisted)

	require.NoError(t, s.Clear())
	assert.Equal(t, "", s.Token())
	persisted, _ = store.Load()
	assert.Equal(t, "", persisted)
}

func TestSession_SetFailureKeepsPreviousToken(t *testing.T) {
	store := NewMemoryStore("old")
	s, err := New(store)
	require.NoError(t, err)

	store.SaveErr = errors.New("disk full")
	err = s.Set("new")
	require.Error(t, err)
	assert.Equal(t, "old", s.Token())
}

func TestSession_ClearAlwaysDropsMemoryToken(t *testing.T) {
	store := NewMemoryStore("abc")
	s, err := New(store)
	require.NoError(t, err)

	store.DeleteErr = errors.New("read-only")
	require.Error(t, s.Clear())
	assert.False(t, s.Authenticated())
}

func TestSession_TokenSourceTracksCurrentToken(t *testing.T) {
	s, err := New(NewMemoryStore("first"))
	require.NoError(t, err)
	ts := s.TokenSource()

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "first", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.Type())

	require.NoError(t, s.Set("second"))
	tok, err = ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "second", tok.AccessToken)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "token")
	store := NewFileStore(path)

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "", tok, "missing file means unauthenticated")

	require.NoError(t, store.Save("abc"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	tok, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	require.NoError(t, store.Delete())
	require.NoError(t, store.Delete(), "deleting twice is fine")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  abc\n"), 0600))

	tok, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
}
