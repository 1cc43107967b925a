// Package web serves both browser apps from one mux.
//
// # Overview
//
// Two apps share a session, a base layout, and a flash mechanism:
//
//   - Documents: browse, view, create, edit, and delete text and
//     markdown files. Markdown is rendered to HTML; plaintext is
//     served raw. Mutations require a signed-in session.
//   - Lists: to-do lists scoped to the session. No sign-in required;
//     each browser session sees only its own lists.
//
// # Routing
//
// Routes are method-and-path patterns on a standard ServeMux. Literal
// segments such as /lists and /signup take precedence over the
// /{filename} document wildcard, so app pages never shadow documents
// and vice versa.
//
// # Sessions and flashes
//
// Every handler starts with ensureSession, which loads the session
// named by the cookie or creates an anonymous one. Flash messages are
// written through the session manager so they survive the redirect
// they precede and disappear after one render.
//
// # CSRF
//
// A double-submit cookie scheme: GET pages set a token cookie and
// embed the value in each form; POST handlers compare the form field
// against the cookie. Page forms that fail the check re-render with an
// inline message, bare actions get a 403.
package web
