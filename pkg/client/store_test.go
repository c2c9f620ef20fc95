package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)

	user := &User{ID: 7, FirstName: "Asha", Mobile: "9876543210", Role: "admin"}
	require.NoError(t, store.SetCredentials("tok-abc", user))

	// A fresh store hydrates from the same file, as on app restart.
	reloaded, err := NewFileStore(path)
	require.NoError(t, err)

	assert.Equal(t, "tok-abc", reloaded.Token())
	got := reloaded.User()
	require.NotNil(t, got)
	assert.Equal(t, "Asha", got.FirstName)
	assert.Equal(t, "9876543210", got.Mobile)
	assert.Equal(t, "admin", got.Role)
}

func TestFileStoreClearDropsBothTogether(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetCredentials("tok", &User{ID: 1, FirstName: "Asha"}))

	require.NoError(t, store.Clear())

	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "credentials file should be removed")
}

func TestFileStoreExpiry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetCredentials("tok", &User{ID: 1}))

	store.now = func() time.Time { return time.Now().Add(CredentialTTL + time.Hour) }

	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())

	// Hydrating after expiry discards the stale file contents too.
	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	reloaded.now = store.now
	assert.Empty(t, reloaded.Token())
}

func TestFileStoreMissingFile(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nope", "credentials.json"))
	require.NoError(t, err)
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	store, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Empty(t, store.Token(), "corrupt file reads as logged out")
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	assert.Empty(t, store.Token())

	require.NoError(t, store.SetCredentials("tok", &User{ID: 1, Role: "admin"}))
	assert.Equal(t, "tok", store.Token())
	assert.Equal(t, "admin", store.User().Role)

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
}
