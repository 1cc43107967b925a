// ABOUTME: Tests for the flat-directory document repository
// ABOUTME: Covers listing, round trips, filename gating, and path escape attempts

package docs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark-dames/deskhub/internal/validate"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return repo
}

func TestRepository_CreateAndRead(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Create("about.md"))

	content, err := repo.Read("about.md")
	require.NoError(t, err)
	assert.Empty(t, content, "new documents start empty")
}

func TestRepository_Create_InvalidFilename(t *testing.T) {
	repo := setupTestRepo(t)

	for _, name := range []string{"About.md", "notes.doc", "", "a b.txt"} {
		err := repo.Create(name)
		assert.ErrorIs(t, err, validate.ErrInvalidFormat, "name %q", name)
	}

	names, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRepository_WriteAndList(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Create("notes.txt"))
	require.NoError(t, repo.Create("about.md"))
	require.NoError(t, repo.Write("notes.txt", []byte("remember the milk")))

	content, err := repo.Read("notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "remember the milk", string(content))

	names, err := repo.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"about.md", "notes.txt"}, names, "list is sorted")
}

func TestRepository_Read_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Read("missing.md")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, repo.Create("about.md"))

	require.NoError(t, repo.Delete("about.md"))
	_, err := repo.Read("about.md")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete("about.md"), ErrNotFound)
}

func TestRepository_PathEscapeStripped(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	repo, err := NewRepository(dir)
	require.NoError(t, err)

	outside := filepath.Join(filepath.Dir(dir), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0644))

	_, err = repo.Read("../secret.txt")
	assert.ErrorIs(t, err, ErrNotFound, "traversal must not leave the directory")
}
