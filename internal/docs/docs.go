// ABOUTME: Flat-directory document repository for markdown and plaintext files
// ABOUTME: Filename is the full identity; creation is gated by the filename pattern

package docs

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark-dames/deskhub/internal/validate"
)

// ErrNotFound is returned when a document doesn't exist.
var ErrNotFound = errors.New("document not found")

// Repository stores documents as files in one flat directory.
type Repository struct {
	dir    string
	logger *slog.Logger
}

// NewRepository opens the document directory, creating it if needed.
func NewRepository(dir string) (*Repository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating documents directory: %w", err)
	}
	return &Repository{
		dir:    dir,
		logger: slog.Default().With("component", "docs"),
	}, nil
}

// List returns the names of every document, sorted.
func (r *Repository) List() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("reading documents directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the raw content of a document.
func (r *Repository) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(r.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return data, nil
}

// Create makes an empty document after validating the filename. Creating a
// name that already exists truncates it back to empty.
func (r *Repository) Create(name string) error {
	name = strings.TrimSpace(name)
	if err := validate.Filename(name); err != nil {
		return err
	}

	if err := os.WriteFile(r.path(name), nil, 0644); err != nil {
		return fmt.Errorf("creating document: %w", err)
	}

	r.logger.Info("created document", "name", name)
	return nil
}

// Write replaces a document's content.
func (r *Repository) Write(name string, content []byte) error {
	if err := os.WriteFile(r.path(name), content, 0644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}

	r.logger.Info("updated document", "name", name)
	return nil
}

// Delete removes a document.
func (r *Repository) Delete(name string) error {
	err := os.Remove(r.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	r.logger.Info("deleted document", "name", name)
	return nil
}

// path maps a document name onto the directory. Base strips any path
// components, so request input cannot escape the directory.
func (r *Repository) path(name string) string {
	return filepath.Join(r.dir, filepath.Base(name))
}
