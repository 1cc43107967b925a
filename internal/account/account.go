// ABOUTME: File-backed account store mapping usernames to bcrypt password hashes
// ABOUTME: Serializes every read-modify-write of the YAML file under one mutex

package account

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when an account doesn't exist.
var ErrNotFound = errors.New("account not found")

// ErrUsernameExists is returned when trying to create an account with an existing username.
var ErrUsernameExists = errors.New("username already exists")

// dummyHash keeps credential verification constant-time when the username
// doesn't exist, so response timing can't enumerate valid usernames.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// record is the on-disk shape of one account entry.
type record struct {
	Password string `yaml:"password"`
}

// FileStore persists accounts in a single YAML file keyed by username.
// Every mutation loads the whole file, changes the mapping, and rewrites
// the file atomically. The mutex serializes concurrent writers; without it
// two concurrent signups could lose one of the updates.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewFileStore creates a store backed by the YAML file at path. The file
// does not need to exist yet; it is created on the first mutation.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   path,
		logger: slog.Default().With("component", "accounts"),
	}
}

// Create registers a new account. The raw password is bcrypt-hashed before
// it is persisted; plaintext never touches the file.
func (s *FileStore) Create(username, rawPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}

	if _, exists := users[username]; exists {
		return ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	users[username] = record{Password: string(hash)}
	if err := s.save(users); err != nil {
		return err
	}

	s.logger.Info("created account", "username", username)
	return nil
}

// Verify reports whether the username exists and the raw password matches
// its stored hash. Unknown usernames still pay the bcrypt comparison cost.
func (s *FileStore) Verify(username, rawPassword string) bool {
	s.mu.Lock()
	users, err := s.load()
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("failed to load accounts", "error", err)
		return false
	}

	user, exists := users[username]
	if !exists {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(rawPassword))
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(rawPassword)) == nil
}

// ChangePassword overwrites the stored hash for an existing account.
func (s *FileStore) ChangePassword(username, newRawPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}

	if _, exists := users[username]; !exists {
		return ErrNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newRawPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	users[username] = record{Password: string(hash)}
	if err := s.save(users); err != nil {
		return err
	}

	s.logger.Info("changed password", "username", username)
	return nil
}

// Delete removes an account.
func (s *FileStore) Delete(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}

	if _, exists := users[username]; !exists {
		return ErrNotFound
	}

	delete(users, username)
	if err := s.save(users); err != nil {
		return err
	}

	s.logger.Info("deleted account", "username", username)
	return nil
}

// Usernames returns every registered username, unordered.
func (s *FileStore) Usernames() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	return names, nil
}

// load reads the whole mapping from disk. A missing file reads as an empty
// mapping so a fresh deployment needs no setup step.
func (s *FileStore) load() (map[string]record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading accounts file: %w", err)
	}

	users := map[string]record{}
	if err := yaml.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parsing accounts file: %w", err)
	}
	return users, nil
}

// save rewrites the whole mapping. Writing to a temp file and renaming
// keeps a crashed write from truncating the store.
func (s *FileStore) save(users map[string]record) error {
	data, err := yaml.Marshal(users)
	if err != nil {
		return fmt.Errorf("serializing accounts: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating accounts directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".users-*.yml")
	if err != nil {
		return fmt.Errorf("creating temp accounts file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing accounts file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing accounts file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing accounts file: %w", err)
	}
	return nil
}
