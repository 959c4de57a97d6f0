package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionStoreExpiresIdleSessions(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(300 * time.Millisecond)

	store.SetCredential("a", "sk-a")
	store.SetCredential("b", "sk-b")
	require.Equal(t, "sk-a", store.Credential("a"))
	require.Equal(t, 2, store.Len())

	// Only "a" is touched while waiting, so "b" idles out.
	require.Eventually(t, func() bool {
		_ = store.Credential("a")
		return store.Len() == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.Equal(t, "sk-a", store.Credential("a"))
	require.Empty(t, store.Credential("b"))
}

func TestSessionStoreReplacesCredential(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(time.Hour)
	store.SetCredential("a", "sk-old")
	store.SetCredential("a", "sk-new")

	require.Equal(t, "sk-new", store.Credential("a"))
	require.Equal(t, 1, store.Len())
}

func TestSessionStoreUnknownSession(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(0)
	require.Empty(t, store.Credential("missing"))
	require.Zero(t, store.Len())
}
