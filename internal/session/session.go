// ABOUTME: Session state and the authenticated/anonymous identity variant
// ABOUTME: Gates mutating operations on the signed-in state of the actor

package session

import (
	"errors"
	"time"

	"github.com/mark-dames/deskhub/internal/todo"
)

// ErrNotFound is returned when a session token has no live session.
var ErrNotFound = errors.New("session not found")

// ErrAuthRequired is returned when an anonymous actor attempts an
// operation that requires a signed-in account.
var ErrAuthRequired = errors.New("authentication required")

// Identity is either anonymous or an authenticated username. The zero
// value is anonymous, so an unauthenticated actor cannot carry a username.
type Identity struct {
	username string
	signedIn bool
}

// Anonymous returns the unauthenticated identity.
func Anonymous() Identity {
	return Identity{}
}

// Authenticated returns the identity of a signed-in account.
func Authenticated(username string) Identity {
	return Identity{username: username, signedIn: true}
}

// SignedIn reports whether the identity carries an authenticated account.
func (i Identity) SignedIn() bool {
	return i.signedIn
}

// Username returns the authenticated username, or "" for anonymous actors.
func (i Identity) Username() string {
	return i.username
}

// Session is the per-client state shared by both apps: the actor's
// identity, the to-do lists owned by this session, and one-shot flash
// messages. Mutations go through Manager.Update, which serializes writers
// per session key.
type Session struct {
	ID       string
	Identity Identity
	Lists    *todo.Collection

	flashNotice string
	flashError  string

	CreatedAt time.Time
	ExpiresAt time.Time
}

// RequireSignedIn fails when the actor is anonymous. Callers surface the
// failure as a flash message and a redirect, never as an error body.
func (s *Session) RequireSignedIn() error {
	if !s.Identity.SignedIn() {
		return ErrAuthRequired
	}
	return nil
}

// SignIn sets the authenticated identity.
func (s *Session) SignIn(username string) {
	s.Identity = Authenticated(username)
}

// SignOut resets the session to anonymous.
func (s *Session) SignOut() {
	s.Identity = Anonymous()
}

// Flash queues a one-shot notice for the next rendered page.
func (s *Session) Flash(message string) {
	s.flashNotice = message
}

// FlashError queues a one-shot error message for the next rendered page.
func (s *Session) FlashError(message string) {
	s.flashError = message
}

// PopFlash returns and clears both flash slots. Messages survive exactly
// one render.
func (s *Session) PopFlash() (notice, errMsg string) {
	notice, errMsg = s.flashNotice, s.flashError
	s.flashNotice, s.flashError = "", ""
	return notice, errMsg
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
