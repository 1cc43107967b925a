// ABOUTME: Tests for the SQLite-backed session manager
// ABOUTME: Covers round trips, expiry, purging, and serialized concurrent updates

package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestManager(t *testing.T) *Manager {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "sessions.db")

	m, err := NewManager(dbPath, time.Hour)
	require.NoError(t, err)

	t.Cleanup(func() {
		m.Close()
	})

	return m
}

func TestManager_CreateAndGet(t *testing.T) {
	m := setupTestManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.Identity.SignedIn())
	assert.Empty(t, s.Lists.Lists)

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.False(t, got.Identity.SignedIn())
}

func TestManager_Get_NotFound(t *testing.T) {
	m := setupTestManager(t)

	_, err := m.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_Update_PersistsLists(t *testing.T) {
	m := setupTestManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx)
	require.NoError(t, err)

	err = m.Update(ctx, s.ID, func(s *Session) error {
		list, err := s.Lists.CreateList("Groceries")
		if err != nil {
			return err
		}
		_, err = s.Lists.AddTodo(list.ID, "Milk")
		return err
	})
	require.NoError(t, err)

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Lists.Lists, 1)
	assert.Equal(t, "Groceries", got.Lists.Lists[0].Name)
	require.Len(t, got.Lists.Lists[0].Todos, 1)
	assert.Equal(t, "Milk", got.Lists.Lists[0].Todos[0].Name)
	assert.False(t, got.Lists.Lists[0].Todos[0].Completed)
}

func TestManager_Update_PersistsIdentityAndFlash(t *testing.T) {
	m := setupTestManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx)
	require.NoError(t, err)

	err = m.Update(ctx, s.ID, func(s *Session) error {
		s.SignIn("alice")
		s.Flash("Welcome!")
		return nil
	})
	require.NoError(t, err)

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Identity.Username())

	notice, errMsg := got.PopFlash()
	assert.Equal(t, "Welcome!", notice)
	assert.Equal(t, "", errMsg)
}

func TestManager_Update_ErrorDiscardsChanges(t *testing.T) {
	m := setupTestManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx)
	require.NoError(t, err)

	fail := assert.AnError
	err = m.Update(ctx, s.ID, func(s *Session) error {
		s.SignIn("alice")
		return fail
	})
	assert.ErrorIs(t, err, fail)

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, got.Identity.SignedIn(), "failed update must not persist")
}

func TestManager_Delete(t *testing.T) {
	m := setupTestManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, s.ID))
	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Idempotent
	assert.NoError(t, m.Delete(ctx, s.ID))
}

func TestManager_ExpiredSessionReadsAsNotFound(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	m, err := NewManager(dbPath, -time.Minute)
	require.NoError(t, err)
	defer m.Close()

	ctx := context.Background()
	s, err := m.Create(ctx)
	require.NoError(t, err)

	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_PurgeExpired(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	m, err := NewManager(dbPath, -time.Minute)
	require.NoError(t, err)
	defer m.Close()

	ctx := context.Background()
	s, err := m.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, m.PurgeExpired(ctx))

	_, err = m.get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound, "purged row must be gone from the table")
}

func TestManager_ConcurrentUpdatesSerialized(t *testing.T) {
	m := setupTestManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx)
	require.NoError(t, err)

	_, err = m.Create(ctx) // unrelated session should not interfere
	require.NoError(t, err)

	var wg sync.WaitGroup
	names := []string{"One", "Two", "Three", "Four", "Five"}
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			err := m.Update(ctx, s.ID, func(s *Session) error {
				_, err := s.Lists.CreateList(name)
				return err
			})
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lists.Lists, len(names), "no update may be lost")

	seen := map[int]bool{}
	for _, list := range got.Lists.Lists {
		assert.False(t, seen[list.ID], "list IDs must stay unique under concurrency")
		seen[list.ID] = true
	}
}

func TestManager_SurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")

	first, err := NewManager(dbPath, time.Hour)
	require.NoError(t, err)

	ctx := context.Background()
	s, err := first.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, first.Update(ctx, s.ID, func(s *Session) error {
		s.SignIn("bob")
		return nil
	}))
	require.NoError(t, first.Close())

	second, err := NewManager(dbPath, time.Hour)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Identity.Username())
}
