// ABOUTME: Template rendering functions for both apps
// ABOUTME: Loads templates from the embedded filesystem and renders them per request

package web

import (
	"html/template"
	"net/http"

	"github.com/mark-dames/deskhub/internal/session"
	"github.com/mark-dames/deskhub/internal/todo"
)

// pageData carries the fields every page shares: title, identity, flash
// messages, and the CSRF token for forms.
type pageData struct {
	Title     string
	SignedIn  bool
	Username  string
	Notice    string
	Error     string
	CSRFToken string
}

func (h *Handlers) page(title string, s *session.Session, notice, errMsg, csrfToken string) pageData {
	return pageData{
		Title:     title,
		SignedIn:  s.Identity.SignedIn(),
		Username:  s.Identity.Username(),
		Notice:    notice,
		Error:     errMsg,
		CSRFToken: csrfToken,
	}
}

type indexData struct {
	pageData
	Files []string
}

type documentData struct {
	pageData
	Filename string
	Content  template.HTML
}

type newDocumentData struct {
	pageData
	Filename string
}

type editDocumentData struct {
	pageData
	Filename string
	Content  string
}

type signInData struct {
	pageData
}

type signUpData struct {
	pageData
}

type accountData struct {
	pageData
}

// listItem is the display shape of one list on the index page.
type listItem struct {
	ID             int
	Name           string
	Complete       bool
	CompletedCount int
	TotalCount     int
}

type listsData struct {
	pageData
	Lists []listItem
}

type newListData struct {
	pageData
	Name string
}

type todoItem struct {
	ID        int
	Name      string
	Completed bool
}

type listData struct {
	pageData
	ListID   int
	ListName string
	Complete bool
	Todos    []todoItem
	// TodoError is the inline message shown next to the add-todo form
	TodoError string
}

type editListData struct {
	pageData
	ListID   int
	ListName string
}

func (h *Handlers) render(w http.ResponseWriter, page string, data any) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/"+page))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		h.logger.Error("failed to render page", "page", page, "error", err)
	}
}

// renderIndex renders the document index.
func (h *Handlers) renderIndex(w http.ResponseWriter, s *session.Session, files []string, notice, errMsg, csrfToken string) {
	h.render(w, "index.html", indexData{
		pageData: h.page("Documents", s, notice, errMsg, csrfToken),
		Files:    files,
	})
}

// renderDocument renders a markdown document converted to HTML.
func (h *Handlers) renderDocument(w http.ResponseWriter, s *session.Session, filename string, content template.HTML, notice, errMsg, csrfToken string) {
	h.render(w, "document.html", documentData{
		pageData: h.page(filename, s, notice, errMsg, csrfToken),
		Filename: filename,
		Content:  content,
	})
}

// renderNewDocument renders the new-document form.
func (h *Handlers) renderNewDocument(w http.ResponseWriter, s *session.Session, filename, errMsg, csrfToken string) {
	h.render(w, "new_document.html", newDocumentData{
		pageData: h.page("New Document", s, "", errMsg, csrfToken),
		Filename: filename,
	})
}

// renderEditDocument renders the edit form with the current content.
func (h *Handlers) renderEditDocument(w http.ResponseWriter, s *session.Session, filename, content, csrfToken string) {
	h.render(w, "edit_document.html", editDocumentData{
		pageData: h.page("Edit "+filename, s, "", "", csrfToken),
		Filename: filename,
		Content:  content,
	})
}

// renderSignIn renders the sign-in form.
func (h *Handlers) renderSignIn(w http.ResponseWriter, s *session.Session, errMsg, csrfToken string) {
	h.render(w, "signin.html", signInData{
		pageData: h.page("Sign In", s, "", errMsg, csrfToken),
	})
}

// renderSignUp renders the signup form.
func (h *Handlers) renderSignUp(w http.ResponseWriter, s *session.Session, errMsg, csrfToken string) {
	h.render(w, "signup.html", signUpData{
		pageData: h.page("Sign Up", s, "", errMsg, csrfToken),
	})
}

// renderAccount renders the account settings page.
func (h *Handlers) renderAccount(w http.ResponseWriter, s *session.Session, notice, errMsg, csrfToken string) {
	h.render(w, "account.html", accountData{
		pageData: h.page("Account", s, notice, errMsg, csrfToken),
	})
}

// renderLists renders all lists in display order.
func (h *Handlers) renderLists(w http.ResponseWriter, s *session.Session, lists []*todo.List, notice, errMsg, csrfToken string) {
	items := make([]listItem, 0, len(lists))
	for _, list := range lists {
		completed, total := list.Progress()
		items = append(items, listItem{
			ID:             list.ID,
			Name:           list.Name,
			Complete:       list.IsComplete(),
			CompletedCount: completed,
			TotalCount:     total,
		})
	}

	h.render(w, "lists.html", listsData{
		pageData: h.page("Todo Lists", s, notice, errMsg, csrfToken),
		Lists:    items,
	})
}

// renderNewList renders the new-list form.
func (h *Handlers) renderNewList(w http.ResponseWriter, s *session.Session, name, errMsg, csrfToken string) {
	h.render(w, "new_list.html", newListData{
		pageData: h.page("New List", s, "", errMsg, csrfToken),
		Name:     name,
	})
}

// renderList renders one list with its todos in display order.
func (h *Handlers) renderList(w http.ResponseWriter, s *session.Session, list *todo.List, todoErr, notice, errMsg, csrfToken string) {
	sorted := todo.SortedTodos(list.Todos)
	items := make([]todoItem, 0, len(sorted))
	for _, item := range sorted {
		items = append(items, todoItem{
			ID:        item.ID,
			Name:      item.Name,
			Completed: item.Completed,
		})
	}

	h.render(w, "list.html", listData{
		pageData:  h.page(list.Name, s, notice, errMsg, csrfToken),
		ListID:    list.ID,
		ListName:  list.Name,
		Complete:  list.IsComplete(),
		Todos:     items,
		TodoError: todoErr,
	})
}

// renderEditList renders the rename form for a list.
func (h *Handlers) renderEditList(w http.ResponseWriter, s *session.Session, list *todo.List, errMsg, csrfToken string) {
	h.render(w, "edit_list.html", editListData{
		pageData: h.page("Edit "+list.Name, s, "", errMsg, csrfToken),
		ListID:   list.ID,
		ListName: list.Name,
	})
}
