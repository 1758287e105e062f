package credstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hroffice/go-hrclient/credstore"
	"github.com/stretchr/testify/require"
)

const testPassphrase = "correct horse battery staple"

func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "credentials.json")
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := storePath(t)

	fs, err := credstore.NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, fs.Set(credstore.KeyAccessToken, "token-1"))
	require.NoError(t, fs.Set(credstore.KeyUser, `{"id":"user-1"}`))

	// A fresh store over the same file sees the same values.
	reopened, err := credstore.NewFileStore(path)
	require.NoError(t, err)
	v, ok := reopened.Get(credstore.KeyAccessToken)
	require.True(t, ok)
	require.Equal(t, "token-1", v)
	v, ok = reopened.Get(credstore.KeyUser)
	require.True(t, ok)
	require.Equal(t, `{"id":"user-1"}`, v)
}

func TestFileStoreMissingFileStartsEmpty(t *testing.T) {
	fs, err := credstore.NewFileStore(storePath(t))
	require.NoError(t, err)
	_, ok := fs.Get(credstore.KeyAccessToken)
	require.False(t, ok)
}

func TestFileStoreCorruptFileTreatedAsEmpty(t *testing.T) {
	path := storePath(t)
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0o600))

	fs, err := credstore.NewFileStore(path)
	require.NoError(t, err)
	_, ok := fs.Get(credstore.KeyAccessToken)
	require.False(t, ok)

	// The store remains writable after discarding the corrupt file.
	require.NoError(t, fs.Set(credstore.KeyAccessToken, "token-2"))
	v, ok := fs.Get(credstore.KeyAccessToken)
	require.True(t, ok)
	require.Equal(t, "token-2", v)
}

func TestFileStoreDeleteAndClear(t *testing.T) {
	fs, err := credstore.NewFileStore(storePath(t))
	require.NoError(t, err)
	require.NoError(t, fs.Set(credstore.KeyAccessToken, "a"))
	require.NoError(t, fs.Set(credstore.KeyRefreshToken, "b"))

	require.NoError(t, fs.Delete(credstore.KeyAccessToken))
	_, ok := fs.Get(credstore.KeyAccessToken)
	require.False(t, ok)
	_, ok = fs.Get(credstore.KeyRefreshToken)
	require.True(t, ok)

	require.NoError(t, fs.Clear())
	_, ok = fs.Get(credstore.KeyRefreshToken)
	require.False(t, ok)
}

func TestFileStoreEncryptedRoundTrip(t *testing.T) {
	path := storePath(t)

	fs, err := credstore.NewFileStore(path, credstore.WithPassphrase(testPassphrase))
	require.NoError(t, err)
	require.NoError(t, fs.Set(credstore.KeyRefreshToken, "very-secret"))

	// The raw file never contains the plaintext value.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "very-secret")

	reopened, err := credstore.NewFileStore(path, credstore.WithPassphrase(testPassphrase))
	require.NoError(t, err)
	v, ok := reopened.Get(credstore.KeyRefreshToken)
	require.True(t, ok)
	require.Equal(t, "very-secret", v)
}

func TestFileStoreWrongPassphraseReadsAsAbsent(t *testing.T) {
	path := storePath(t)

	fs, err := credstore.NewFileStore(path, credstore.WithPassphrase(testPassphrase))
	require.NoError(t, err)
	require.NoError(t, fs.Set(credstore.KeyRefreshToken, "very-secret"))

	reopened, err := credstore.NewFileStore(path, credstore.WithPassphrase("wrong"))
	require.NoError(t, err)
	_, ok := reopened.Get(credstore.KeyRefreshToken)
	require.False(t, ok)
}

func TestMemStore(t *testing.T) {
	ms := credstore.NewMemStore()
	require.NoError(t, ms.Set("k", "v"))
	v, ok := ms.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", v)
	require.Equal(t, 1, ms.Len())

	require.NoError(t, ms.Delete("k"))
	_, ok = ms.Get("k")
	require.False(t, ok)
}
