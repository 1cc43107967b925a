// ABOUTME: SQLite-backed session manager using modernc.org/sqlite
// ABOUTME: Persists sessions across restarts and serializes writes per session key

package session

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mark-dames/deskhub/internal/todo"
)

// Manager stores sessions in SQLite, keyed by the opaque token held in the
// client's cookie. Sessions are loaded in full, mutated, and written back;
// a per-key mutex serializes concurrent requests from the same session so
// the read-modify-write cannot lose updates to the list collection.
type Manager struct {
	db       *sql.DB
	duration time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager opens (or creates) the session database at path.
func NewManager(path string, duration time.Duration) (*Manager, error) {
	logger := slog.Default().With("component", "sessions")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating session database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}

	// WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	m := &Manager{
		db:       db,
		duration: duration,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}

	if err := m.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("session store initialized", "path", path)
	return m, nil
}

func (m *Manager) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			username TEXT,
			lists TEXT NOT NULL DEFAULT '{}',
			flash_notice TEXT NOT NULL DEFAULT '',
			flash_error TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_expires_at
			ON sessions(expires_at);
	`
	if _, err := m.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Close releases the underlying database.
func (m *Manager) Close() error {
	return m.db.Close()
}

// Create inserts a fresh anonymous session and returns it.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	id, err := newToken(32)
	if err != nil {
		return nil, fmt.Errorf("generating session token: %w", err)
	}

	now := time.Now()
	s := &Session{
		ID:        id,
		Identity:  Anonymous(),
		Lists:     &todo.Collection{},
		CreatedAt: now,
		ExpiresAt: now.Add(m.duration),
	}

	if err := m.insert(ctx, s); err != nil {
		return nil, err
	}

	m.logger.Debug("created session", "id", id)
	return s, nil
}

// Get loads a session by token. Expired sessions read as not found.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	s, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Expired(time.Now()) {
		return nil, ErrNotFound
	}
	return s, nil
}

// Update runs fn against the session under its per-key lock and persists
// the result. All mutating handlers go through here.
func (m *Manager) Update(ctx context.Context, id string, fn func(*Session) error) error {
	lock := m.keyLock(id)
	lock.Lock()
	defer lock.Unlock()

	s, err := m.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := fn(s); err != nil {
		return err
	}

	return m.save(ctx, s)
}

// Delete removes a session. Deleting an absent token is a no-op, so
// sign-out is idempotent.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if _, err := m.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	m.mu.Lock()
	delete(m.locks, id)
	m.mu.Unlock()

	return nil
}

// PurgeExpired removes every session past its expiry.
func (m *Manager) PurgeExpired(ctx context.Context) error {
	result, err := m.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at < ?",
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("purging sessions: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n > 0 {
		m.logger.Info("purged expired sessions", "count", n)
	}
	return nil
}

// keyLock returns the mutex serializing writes for one session key.
func (m *Manager) keyLock(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	return lock
}

func (m *Manager) insert(ctx context.Context, s *Session) error {
	lists, err := json.Marshal(s.Lists)
	if err != nil {
		return fmt.Errorf("serializing lists: %w", err)
	}

	query := `
		INSERT INTO sessions (id, username, lists, flash_notice, flash_error, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = m.db.ExecContext(ctx, query,
		s.ID,
		usernameValue(s.Identity),
		string(lists),
		s.flashNotice,
		s.flashError,
		s.CreatedAt.UTC().Format(time.RFC3339),
		s.ExpiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	lists, err := json.Marshal(s.Lists)
	if err != nil {
		return fmt.Errorf("serializing lists: %w", err)
	}

	query := `
		UPDATE sessions
		SET username = ?, lists = ?, flash_notice = ?, flash_error = ?, expires_at = ?
		WHERE id = ?
	`
	result, err := m.db.ExecContext(ctx, query,
		usernameValue(s.Identity),
		string(lists),
		s.flashNotice,
		s.flashError,
		s.ExpiresAt.UTC().Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Manager) get(ctx context.Context, id string) (*Session, error) {
	query := `
		SELECT id, username, lists, flash_notice, flash_error, created_at, expires_at
		FROM sessions
		WHERE id = ?
	`

	var s Session
	var username sql.NullString
	var listsJSON, createdAtStr, expiresAtStr string

	err := m.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&username,
		&listsJSON,
		&s.flashNotice,
		&s.flashError,
		&createdAtStr,
		&expiresAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	if username.Valid && username.String != "" {
		s.Identity = Authenticated(username.String)
	} else {
		s.Identity = Anonymous()
	}

	s.Lists = &todo.Collection{}
	if err := json.Unmarshal([]byte(listsJSON), s.Lists); err != nil {
		return nil, fmt.Errorf("parsing session lists: %w", err)
	}

	s.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	s.ExpiresAt, err = time.Parse(time.RFC3339, expiresAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing expires_at: %w", err)
	}

	return &s, nil
}

func usernameValue(i Identity) any {
	if !i.SignedIn() {
		return nil
	}
	return i.Username()
}

// newToken generates a cryptographically secure random token.
func newToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
