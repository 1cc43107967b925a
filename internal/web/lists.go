// ABOUTME: Handlers for the to-do app: lists and their todos, all session-scoped
// ABOUTME: Mutations run inside Manager.Update so writes are serialized per session

package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mark-dames/deskhub/internal/session"
	"github.com/mark-dames/deskhub/internal/todo"
	"github.com/mark-dames/deskhub/internal/validate"
)

const listNotFoundMessage = "The specified list was not found."

// listNameErrorMessage maps a validation failure to the user-facing text.
func listNameErrorMessage(err error) string {
	if errors.Is(err, validate.ErrDuplicateName) {
		return "List name must be unique."
	}
	return "List name must be between 1 and 100 characters."
}

// handleListsPage renders all lists, incomplete first.
func (h *Handlers) handleListsPage(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	notice, errMsg := h.popFlash(r, s.ID)
	csrfToken := h.ensureCSRFToken(w, r)
	h.renderLists(w, s, todo.SortedLists(s.Lists.Lists), notice, errMsg, csrfToken)
}

// handleNewListPage renders the new-list form.
func (h *Handlers) handleNewListPage(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	csrfToken := h.ensureCSRFToken(w, r)
	h.renderNewList(w, s, "", "", csrfToken)
}

// handleCreateList creates a list from the form name.
func (h *Handlers) handleCreateList(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !h.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	name := r.FormValue("list_name")
	err = h.sessions.Update(r.Context(), s.ID, func(s *session.Session) error {
		if _, err := s.Lists.CreateList(name); err != nil {
			return err
		}
		s.Flash("The list has been created.")
		return nil
	})
	if err != nil {
		if errors.Is(err, validate.ErrTooShortOrLong) || errors.Is(err, validate.ErrDuplicateName) {
			csrfToken := h.ensureCSRFToken(w, r)
			w.WriteHeader(http.StatusUnprocessableEntity)
			h.renderNewList(w, s, name, listNameErrorMessage(err), csrfToken)
			return
		}
		h.logger.Error("failed to create list", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/lists", http.StatusSeeOther)
}

// handleListPage renders one list with its todos, incomplete first.
func (h *Handlers) handleListPage(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	list, ok := h.loadList(w, r, s)
	if !ok {
		return
	}

	notice, errMsg := h.popFlash(r, s.ID)
	csrfToken := h.ensureCSRFToken(w, r)
	h.renderList(w, s, list, "", notice, errMsg, csrfToken)
}

// handleEditListPage renders the rename form for a list.
func (h *Handlers) handleEditListPage(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	list, ok := h.loadList(w, r, s)
	if !ok {
		return
	}

	csrfToken := h.ensureCSRFToken(w, r)
	h.renderEditList(w, s, list, "", csrfToken)
}

// handleRenameList applies a new name to a list.
func (h *Handlers) handleRenameList(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !h.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.redirectListNotFound(w, r, s.ID)
		return
	}

	name := r.FormValue("list_name")
	err = h.sessions.Update(r.Context(), s.ID, func(s *session.Session) error {
		if _, err := s.Lists.RenameList(id, name); err != nil {
			return err
		}
		s.Flash("The list has been updated.")
		return nil
	})
	if err != nil {
		if errors.Is(err, todo.ErrListNotFound) {
			h.redirectListNotFound(w, r, s.ID)
			return
		}
		if errors.Is(err, validate.ErrTooShortOrLong) || errors.Is(err, validate.ErrDuplicateName) {
			list, ok := h.loadList(w, r, s)
			if !ok {
				return
			}
			csrfToken := h.ensureCSRFToken(w, r)
			w.WriteHeader(http.StatusUnprocessableEntity)
			h.renderEditList(w, s, list, listNameErrorMessage(err), csrfToken)
			return
		}
		h.logger.Error("failed to rename list", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/lists/"+strconv.Itoa(id), http.StatusSeeOther)
}

// handleDeleteList removes a list and all its todos. Absent IDs are a no-op.
func (h *Handlers) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !h.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.redirectListNotFound(w, r, s.ID)
		return
	}

	err = h.sessions.Update(r.Context(), s.ID, func(s *session.Session) error {
		s.Lists.DeleteList(id)
		if !isXHR(r) {
			s.Flash("The list has been deleted.")
		}
		return nil
	})
	if err != nil {
		h.logger.Error("failed to delete list", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	if isXHR(r) {
		w.Write([]byte("/lists"))
		return
	}
	http.Redirect(w, r, "/lists", http.StatusSeeOther)
}

// handleAddTodo appends a todo to a list.
func (h *Handlers) handleAddTodo(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !h.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.redirectListNotFound(w, r, s.ID)
		return
	}

	name := r.FormValue("todo")
	err = h.sessions.Update(r.Context(), s.ID, func(s *session.Session) error {
		if _, err := s.Lists.AddTodo(id, name); err != nil {
			return err
		}
		s.Flash("The todo was added.")
		return nil
	})
	if err != nil {
		if errors.Is(err, todo.ErrListNotFound) {
			h.redirectListNotFound(w, r, s.ID)
			return
		}
		if errors.Is(err, validate.ErrTooShortOrLong) {
			list, ok := h.loadList(w, r, s)
			if !ok {
				return
			}
			csrfToken := h.ensureCSRFToken(w, r)
			w.WriteHeader(http.StatusUnprocessableEntity)
			h.renderList(w, s, list, "Todo name must be between 1 and 100 characters.", "", "", csrfToken)
			return
		}
		h.logger.Error("failed to add todo", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/lists/"+strconv.Itoa(id), http.StatusSeeOther)
}

// handleSetTodoCompleted toggles one todo's completed flag.
func (h *Handlers) handleSetTodoCompleted(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !h.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.redirectListNotFound(w, r, s.ID)
		return
	}
	todoID, err := strconv.Atoi(r.PathValue("todoID"))
	if err != nil {
		h.redirectListNotFound(w, r, s.ID)
		return
	}

	completed := r.FormValue("completed") == "true"
	err = h.sessions.Update(r.Context(), s.ID, func(s *session.Session) error {
		if err := s.Lists.SetTodoCompleted(id, todoID, completed); err != nil {
			return err
		}
		s.Flash("The todo has been updated.")
		return nil
	})
	if err != nil {
		if errors.Is(err, todo.ErrListNotFound) || errors.Is(err, todo.ErrTodoNotFound) {
			h.redirectListNotFound(w, r, s.ID)
			return
		}
		h.logger.Error("failed to update todo", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/lists/"+strconv.Itoa(id), http.StatusSeeOther)
}

// handleDeleteTodo removes a todo. Absent todo IDs are a no-op, but the
// list itself must exist.
func (h *Handlers) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !h.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.redirectListNotFound(w, r, s.ID)
		return
	}
	todoID, err := strconv.Atoi(r.PathValue("todoID"))
	if err != nil {
		h.redirectListNotFound(w, r, s.ID)
		return
	}

	err = h.sessions.Update(r.Context(), s.ID, func(s *session.Session) error {
		if err := s.Lists.DeleteTodo(id, todoID); err != nil {
			return err
		}
		if !isXHR(r) {
			s.Flash("The todo has been deleted.")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, todo.ErrListNotFound) {
			h.redirectListNotFound(w, r, s.ID)
			return
		}
		h.logger.Error("failed to delete todo", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	if isXHR(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/lists/"+strconv.Itoa(id), http.StatusSeeOther)
}

// handleCompleteAll marks every todo in a list completed.
func (h *Handlers) handleCompleteAll(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !h.validateCSRF(r) {
		http.Error(w, "Invalid request", http.StatusForbidden)
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.redirectListNotFound(w, r, s.ID)
		return
	}

	err = h.sessions.Update(r.Context(), s.ID, func(s *session.Session) error {
		if err := s.Lists.CompleteAll(id); err != nil {
			return err
		}
		s.Flash("All todos have been completed.")
		return nil
	})
	if err != nil {
		if errors.Is(err, todo.ErrListNotFound) {
			h.redirectListNotFound(w, r, s.ID)
			return
		}
		h.logger.Error("failed to complete todos", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/lists/"+strconv.Itoa(id), http.StatusSeeOther)
}

// loadList resolves the {id} path value against the session's lists,
// redirecting with the standard message when it cannot.
func (h *Handlers) loadList(w http.ResponseWriter, r *http.Request, s *session.Session) (*todo.List, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.redirectListNotFound(w, r, s.ID)
		return nil, false
	}

	list, err := s.Lists.GetList(id)
	if err != nil {
		h.redirectListNotFound(w, r, s.ID)
		return nil, false
	}
	return list, true
}

func (h *Handlers) redirectListNotFound(w http.ResponseWriter, r *http.Request, sessionID string) {
	h.flashError(r, sessionID, listNotFoundMessage)
	http.Redirect(w, r, "/lists", http.StatusSeeOther)
}
