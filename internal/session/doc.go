// Package session provides browser session state backed by SQLite.
//
// # Overview
//
// A Session carries everything the web layer keeps between requests:
//
//   - Identity: anonymous or authenticated with a username
//   - Lists: the session's to-do list collection
//   - Flash messages: one notice slot and one error slot, consumed on read
//
// Sessions are identified by a random hex token stored in a cookie and
// expire after a configurable duration.
//
// # Persistence
//
// Manager stores sessions in a SQLite database opened in WAL mode. The
// list collection is serialized as JSON in a single column; timestamps
// are RFC3339 strings in UTC.
//
// # Concurrency
//
// All mutations go through Manager.Update, which runs the caller's
// function under a per-session lock:
//
//	err := mgr.Update(ctx, id, func(s *session.Session) error {
//		s.Flash("Saved.")
//		return nil
//	})
//
// The session is re-read inside the lock, mutated, and written back. If
// the function returns an error the changes are discarded. Concurrent
// requests for the same session therefore never lose writes to each
// other; requests for different sessions do not contend.
//
// # Expiry
//
// Get treats an expired session as ErrNotFound so callers fall through
// to creating a fresh one. PurgeExpired deletes expired rows and is
// meant to run on a timer.
package session
