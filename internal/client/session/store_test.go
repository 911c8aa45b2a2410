package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	require.NoError(t, store.Save(&StoredSession{Secret: "s", UserID: "u1"}))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, &StoredSession{Secret: "s", UserID: "u1"}, loaded)
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(&StoredSession{Secret: "s", UserID: "u1"}))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load()
	require.Error(t, err)
}

func TestSecretUsable(t *testing.T) {
	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
		require.NoError(t, err)
		return s
	}

	require.False(t, secretUsable(""))
	require.False(t, secretUsable(sign(jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()})))
	require.True(t, secretUsable(sign(jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})))

	// Secrets the client cannot interpret are left for the server to judge.
	require.True(t, secretUsable("opaque-session-secret"))
	require.True(t, secretUsable(sign(jwt.MapClaims{"sub": "u1"})))
}
