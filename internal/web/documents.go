// ABOUTME: Handlers for the document pages app: browse, view, create, edit, delete
// ABOUTME: Markdown renders to HTML, plaintext is served raw with its own content type

package web

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"path"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/mark-dames/deskhub/internal/docs"
	"github.com/mark-dames/deskhub/internal/validate"
)

// handleIndex renders the document index.
func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		h.logger.Error("failed to load session", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	files, err := h.docs.List()
	if err != nil {
		h.logger.Error("failed to list documents", "error", err)
		files = nil // Show empty state on error
	}

	notice, errMsg := h.popFlash(r, s.ID)
	csrfToken := h.ensureCSRFToken(w, r)
	h.renderIndex(w, s, files, notice, errMsg, csrfToken)
}

// handleViewDocument serves one document. Markdown becomes an HTML page;
// everything else is plain text.
func (h *Handlers) handleViewDocument(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		h.logger.Error("failed to load session", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	filename := r.PathValue("filename")
	content, err := h.docs.Read(filename)
	if err != nil {
		if errors.Is(err, docs.ErrNotFound) {
			h.flash(r, s.ID, filename+" does not exist.")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		h.logger.Error("failed to read document", "error", err, "name", filename)
		http.Error(w, "Failed to load document", http.StatusInternalServerError)
		return
	}

	if path.Ext(filename) == ".md" {
		var buf bytes.Buffer
		if err := goldmark.Convert(content, &buf); err != nil {
			h.logger.Error("failed to convert markdown", "error", err, "name", filename)
			buf.WriteString("<p>Failed to render document.</p>")
		}
		notice, errMsg := h.popFlash(r, s.ID)
		csrfToken := h.ensureCSRFToken(w, r)
		h.renderDocument(w, s, filename, template.HTML(buf.String()), notice, errMsg, csrfToken)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(content)
}

// handleNewDocumentPage renders the new-document form.
func (h *Handlers) handleNewDocumentPage(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !h.requireSignIn(w, r, s) {
		return
	}

	csrfToken := h.ensureCSRFToken(w, r)
	h.renderNewDocument(w, s, "", "", csrfToken)
}

// handleCreateDocument creates an empty document from the form filename.
func (h *Handlers) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
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

	filename := strings.TrimSpace(r.FormValue("filename"))
	if err := h.docs.Create(filename); err != nil {
		if errors.Is(err, validate.ErrInvalidFormat) {
			csrfToken := h.ensureCSRFToken(w, r)
			w.WriteHeader(http.StatusUnprocessableEntity)
			h.renderNewDocument(w, s, filename, "A valid text or markdown filename is required.", csrfToken)
			return
		}
		h.logger.Error("failed to create document", "error", err, "name", filename)
		http.Error(w, "Failed to create document", http.StatusInternalServerError)
		return
	}

	h.flash(r, s.ID, filename+" was created.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleEditDocumentPage renders the edit form with the current content.
func (h *Handlers) handleEditDocumentPage(w http.ResponseWriter, r *http.Request) {
	s, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !h.requireSignIn(w, r, s) {
		return
	}

	filename := r.PathValue("filename")
	content, err := h.docs.Read(filename)
	if err != nil {
		if errors.Is(err, docs.ErrNotFound) {
			h.flash(r, s.ID, filename+" does not exist.")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		h.logger.Error("failed to read document", "error", err, "name", filename)
		http.Error(w, "Failed to load document", http.StatusInternalServerError)
		return
	}

	csrfToken := h.ensureCSRFToken(w, r)
	h.renderEditDocument(w, s, filename, string(content), csrfToken)
}

// handleUpdateDocument overwrites a document with the submitted content.
func (h *Handlers) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
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

	filename := r.PathValue("filename")
	if err := h.docs.Write(filename, []byte(r.FormValue("new_content"))); err != nil {
		h.logger.Error("failed to update document", "error", err, "name", filename)
		http.Error(w, "Failed to update document", http.StatusInternalServerError)
		return
	}

	h.flash(r, s.ID, filename+" has been updated.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDeleteDocument removes a document.
func (h *Handlers) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
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

	filename := r.PathValue("filename")
	if err := h.docs.Delete(filename); err != nil {
		if errors.Is(err, docs.ErrNotFound) {
			h.flash(r, s.ID, filename+" does not exist.")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		h.logger.Error("failed to delete document", "error", err, "name", filename)
		http.Error(w, "Failed to delete document", http.StatusInternalServerError)
		return
	}

	h.flash(r, s.ID, filename+" was deleted.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
