package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestSessions(t *testing.T, lifetime time.Duration) *BadgerSessionStore {
	t.Helper()
	db, err := OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBadgerSessionStore(db, lifetime)
}

func TestSessionStore(t *testing.T) {
	store := setupTestSessions(t, time.Hour)

	t.Run("create and get", func(t *testing.T) {
		session, err := store.Create(42)
		require.NoError(t, err)
		assert.NotEmpty(t, session.ID)
		assert.True(t, session.ExpiresAt.After(time.Now()))

		got, err := store.Get(session.ID)
		require.NoError(t, err)
		assert.Equal(t, 42, got.UserID)
	})

	t.Run("ids are unique", func(t *testing.T) {
		a, err := store.Create(1)
		require.NoError(t, err)
		b, err := store.Create(1)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("unknown and empty ids", func(t *testing.T) {
		_, err := store.Get("does-not-exist")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = store.Get("")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		session, err := store.Create(7)
		require.NoError(t, err)

		require.NoError(t, store.Delete(session.ID))
		_, err = store.Get(session.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.NoError(t, store.Delete(session.ID))
		assert.NoError(t, store.Delete(""))
	})

	t.Run("count", func(t *testing.T) {
		n, err := store.Count()
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})
}

func TestSessionStoreExpiry(t *testing.T) {
	store := setupTestSessions(t, time.Millisecond)

	session, err := store.Create(1)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = store.Get(session.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
