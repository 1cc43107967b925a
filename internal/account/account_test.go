// ABOUTME: Tests for the YAML-backed account store
// ABOUTME: Covers create/verify/change/delete round trips and concurrent signups

package account

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "users.yml"))
}

func TestFileStore_CreateAndVerify(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Create("a", "pw"))

	assert.True(t, store.Verify("a", "pw"))
	assert.False(t, store.Verify("a", "wrong"))
	assert.False(t, store.Verify("missing", "x"))
}

func TestFileStore_Create_Duplicate(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Create("bob", "secret"))

	err := store.Create("bob", "other")
	assert.ErrorIs(t, err, ErrUsernameExists)

	// Original password still verifies
	assert.True(t, store.Verify("bob", "secret"))
}

func TestFileStore_PasswordNeverStoredPlaintext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yml")
	store := NewFileStore(path)

	require.NoError(t, store.Create("carol", "hunter2"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hunter2")
	assert.Contains(t, string(data), "carol")
}

func TestFileStore_ChangePassword(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Create("dave", "old"))

	require.NoError(t, store.ChangePassword("dave", "new"))
	assert.False(t, store.Verify("dave", "old"))
	assert.True(t, store.Verify("dave", "new"))

	assert.ErrorIs(t, store.ChangePassword("missing", "x"), ErrNotFound)
}

func TestFileStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Create("erin", "pw"))

	require.NoError(t, store.Delete("erin"))
	assert.False(t, store.Verify("erin", "pw"))

	assert.ErrorIs(t, store.Delete("erin"), ErrNotFound)
}

func TestFileStore_Usernames(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Create("a", "pw"))
	require.NoError(t, store.Create("b", "pw"))

	names, err := store.Usernames()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestFileStore_MissingFileReadsEmpty(t *testing.T) {
	store := setupTestStore(t)

	names, err := store.Usernames()
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.False(t, store.Verify("anyone", "pw"))
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yml")

	first := NewFileStore(path)
	require.NoError(t, first.Create("frank", "pw"))

	second := NewFileStore(path)
	assert.True(t, second.Verify("frank", "pw"))
}

func TestFileStore_ConcurrentSignups(t *testing.T) {
	// Concurrent creates of distinct usernames must not lose updates to the
	// whole-file rewrite.
	store := setupTestStore(t)

	var wg sync.WaitGroup
	names := []string{"u1", "u2", "u3", "u4", "u5"}
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			assert.NoError(t, store.Create(name, "pw"))
		}(name)
	}
	wg.Wait()

	got, err := store.Usernames()
	require.NoError(t, err)
	assert.ElementsMatch(t, names, got)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yml")
	require.NoError(t, os.WriteFile(path, []byte("[not a mapping"), 0644))

	store := NewFileStore(path)
	err := store.Create("gail", "pw")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "parsing accounts file"))
}
