// ABOUTME: HTTP layer for both apps: routes, session cookies, and CSRF checks
// ABOUTME: Thin glue that calls the core stores and renders server-side templates

package web

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mark-dames/deskhub/internal/account"
	"github.com/mark-dames/deskhub/internal/docs"
	"github.com/mark-dames/deskhub/internal/session"
)

// CSRFCookieName is the name of the CSRF token cookie
const CSRFCookieName = "deskhub_csrf"

// Config holds web layer configuration
type Config struct {
	// CookieName is the session cookie name
	CookieName string
	// BaseURL is the external URL of the server, if known
	BaseURL string
}

// Handlers serves both apps: the document pages and the to-do lists.
type Handlers struct {
	sessions *session.Manager
	accounts *account.FileStore
	docs     *docs.Repository
	config   Config
	logger   *slog.Logger
}

// New creates the handler set over the given stores.
func New(sessions *session.Manager, accounts *account.FileStore, repo *docs.Repository, cfg Config) *Handlers {
	return &Handlers{
		sessions: sessions,
		accounts: accounts,
		docs:     repo,
		config:   cfg,
		logger:   slog.Default().With("component", "web"),
	}
}

// RegisterRoutes registers all routes on the given mux.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	// Document pages
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /new", h.handleNewDocumentPage)
	mux.HandleFunc("POST /create", h.handleCreateDocument)
	mux.HandleFunc("GET /{filename}", h.handleViewDocument)
	mux.HandleFunc("GET /{filename}/edit", h.handleEditDocumentPage)
	mux.HandleFunc("POST /{filename}", h.handleUpdateDocument)
	mux.HandleFunc("POST /{filename}/delete", h.handleDeleteDocument)

	// Accounts
	mux.HandleFunc("GET /users/signin", h.handleSignInPage)
	mux.HandleFunc("POST /users/signin", h.handleSignIn)
	mux.HandleFunc("POST /users/signout", h.handleSignOut)
	mux.HandleFunc("GET /signup", h.handleSignUpPage)
	mux.HandleFunc("POST /signup", h.handleSignUp)
	mux.HandleFunc("GET /account", h.handleAccountPage)
	mux.HandleFunc("POST /account/password", h.handleChangePassword)
	mux.HandleFunc("POST /account/delete", h.handleDeleteAccount)

	// To-do lists
	mux.HandleFunc("GET /lists", h.handleListsPage)
	mux.HandleFunc("GET /lists/new", h.handleNewListPage)
	mux.HandleFunc("POST /lists", h.handleCreateList)
	mux.HandleFunc("GET /lists/{id}", h.handleListPage)
	mux.HandleFunc("GET /lists/{id}/edit", h.handleEditListPage)
	mux.HandleFunc("POST /lists/{id}", h.handleRenameList)
	mux.HandleFunc("POST /lists/{id}/destroy", h.handleDeleteList)
	mux.HandleFunc("POST /lists/{id}/complete_all", h.handleCompleteAll)
	mux.HandleFunc("POST /lists/{id}/todos", h.handleAddTodo)
	mux.HandleFunc("POST /lists/{id}/todos/{todoID}", h.handleSetTodoCompleted)
	mux.HandleFunc("POST /lists/{id}/todos/{todoID}/delete", h.handleDeleteTodo)

	h.logger.Info("routes registered")
}

// ensureSession loads the session named by the request cookie, creating a
// fresh anonymous session (and setting the cookie) when there is none.
func (h *Handlers) ensureSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	if cookie, err := r.Cookie(h.config.CookieName); err == nil {
		s, err := h.sessions.Get(r.Context(), cookie.Value)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, session.ErrNotFound) {
			return nil, err
		}
	}

	s, err := h.sessions.Create(r.Context())
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.config.CookieName,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	return s, nil
}

// flash queues a notice on the session and persists it.
func (h *Handlers) flash(r *http.Request, sessionID, message string) {
	err := h.sessions.Update(r.Context(), sessionID, func(s *session.Session) error {
		s.Flash(message)
		return nil
	})
	if err != nil {
		h.logger.Error("failed to set flash", "error", err)
	}
}

// flashError queues an error message on the session and persists it.
func (h *Handlers) flashError(r *http.Request, sessionID, message string) {
	err := h.sessions.Update(r.Context(), sessionID, func(s *session.Session) error {
		s.FlashError(message)
		return nil
	})
	if err != nil {
		h.logger.Error("failed to set flash", "error", err)
	}
}

// popFlash consumes the session's flash slots for rendering.
func (h *Handlers) popFlash(r *http.Request, sessionID string) (notice, errMsg string) {
	err := h.sessions.Update(r.Context(), sessionID, func(s *session.Session) error {
		notice, errMsg = s.PopFlash()
		return nil
	})
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		h.logger.Error("failed to pop flash", "error", err)
	}
	return notice, errMsg
}

// requireSignIn enforces the gate on mutating document and account
// operations. Anonymous actors get a flash message and a redirect home
// rather than an error body.
func (h *Handlers) requireSignIn(w http.ResponseWriter, r *http.Request, s *session.Session) bool {
	if err := s.RequireSignedIn(); err != nil {
		h.flashError(r, s.ID, "You must be signed in to do that.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return false
	}
	return true
}

// ensureCSRFToken generates a CSRF token cookie if not present.
func (h *Handlers) ensureCSRFToken(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(CSRFCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	token, err := generateSecureToken(32)
	if err != nil {
		h.logger.Error("failed to generate CSRF token", "error", err)
		token = "" // Will fail validation, but won't crash
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	return token
}

// validateCSRF checks the CSRF token from the form against the cookie.
func (h *Handlers) validateCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}

	formToken := r.FormValue("csrf_token")
	return formToken != "" && formToken == cookie.Value
}

// isXHR reports whether the request came from an XMLHttpRequest caller,
// which gets a bare status or path instead of a redirect.
func isXHR(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// generateSecureToken generates a cryptographically secure random token.
func generateSecureToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
