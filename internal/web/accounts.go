// ABOUTME: Handlers for signup, signin, signout, password change, and account deletion
// ABOUTME: Credential checks delegate to the account store; sessions carry the identity

package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mark-dames/deskhub/internal/account"
	"github.com/mark-dames/deskhub/internal/session"
)

// handleSignInPage renders the sign-in form.
func (h *Handlers) handleSignInPage(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	csrfToken := h.ensureCSRFToken(w, r)
	h.renderSignIn(w, s, "", csrfToken)
}

// handleSignIn processes the sign-in form.
func (h *Handlers) handleSignIn(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !h.validateCSRF(r) {
		csrfToken := h.ensureCSRFToken(w, r)
		h.renderSignIn(w, s, "Invalid request, please try again", csrfToken)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if !h.accounts.Verify(username, password) {
		csrfToken := h.ensureCSRFToken(w, r)
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.renderSignIn(w, s, "Invalid Credentials", csrfToken)
		return
	}

	err = h.sessions.Update(r.Context(), s.ID, func(s *session.Session) error {
		s.SignIn(username)
		s.Flash("Welcome!")
		return nil
	})
	if err != nil {
		h.logger.Error("failed to sign in session", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("signed in", "username", username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleSignOut clears the authenticated identity.
func (h *Handlers) handleSignOut(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	err = h.sessions.Update(r.Context(), s.ID, func(s *session.Session) error {
		s.SignOut()
		s.Flash("You have been signed out.")
		return nil
	})
	if err != nil {
		h.logger.Error("failed to sign out session", "error", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleSignUpPage renders the signup form.
func (h *Handlers) handleSignUpPage(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	csrfToken := h.ensureCSRFToken(w, r)
	h.renderSignUp(w, s, "", csrfToken)
}

// handleSignUp creates an account and signs the new user in.
func (h *Handlers) handleSignUp(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !h.validateCSRF(r) {
		csrfToken := h.ensureCSRFToken(w, r)
		h.renderSignUp(w, s, "Invalid request, please try again", csrfToken)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		csrfToken := h.ensureCSRFToken(w, r)
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.renderSignUp(w, s, "Username and password required", csrfToken)
		return
	}

	if err := h.accounts.Create(username, password); err != nil {
		if errors.Is(err, account.ErrUsernameExists) {
			csrfToken := h.ensureCSRFToken(w, r)
			w.WriteHeader(http.StatusUnprocessableEntity)
			h.renderSignUp(w, s, username+" already exists. Please choose a different username.", csrfToken)
			return
		}
		h.logger.Error("failed to create account", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	err = h.sessions.Update(r.Context(), s.ID, func(s *session.Session) error {
		s.SignIn(username)
		s.Flash("You have been signed up.")
		return nil
	})
	if err != nil {
		h.logger.Error("failed to sign in new account", "error", err)
		http.Redirect(w, r, "/users/signin", http.StatusSeeOther)
		return
	}

	h.logger.Info("account signed up", "username", username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleAccountPage renders the account settings page.
func (h *Handlers) handleAccountPage(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !h.requireSignIn(w, r, s) {
		return
	}

	notice, errMsg := h.popFlash(r, s.ID)
	csrfToken := h.ensureCSRFToken(w, r)
	h.renderAccount(w, s, notice, errMsg, csrfToken)
}

// handleChangePassword overwrites the stored hash for the signed-in account.
func (h *Handlers) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !h.requireSignIn(w, r, s) {
		return
	}
	if !h.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	username := s.Identity.Username()
	if err := h.accounts.ChangePassword(username, r.FormValue("new_password")); err != nil {
		h.logger.Error("failed to change password", "error", err, "username", username)
		h.flashError(r, s.ID, "Could not change the password.")
		http.Redirect(w, r, "/account", http.StatusSeeOther)
		return
	}

	h.flash(r, s.ID, "The password is changed.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDeleteAccount removes the signed-in account and signs the session out.
func (h *Handlers) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !h.requireSignIn(w, r, s) {
		return
	}
	if !h.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	username := s.Identity.Username()
	if err := h.accounts.Delete(username); err != nil {
		h.logger.Error("failed to delete account", "error", err, "username", username)
		h.flashError(r, s.ID, "Could not delete the account.")
		http.Redirect(w, r, "/account", http.StatusSeeOther)
		return
	}

	err = h.sessions.Update(r.Context(), s.ID, func(s *session.Session) error {
		s.SignOut()
		s.Flash("Your account has been deleted.")
		return nil
	})
	if err != nil {
		h.logger.Error("failed to sign out session", "error", err)
	}

	h.logger.Info("account deleted", "username", username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
