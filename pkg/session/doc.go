// Package session owns the focus-session lifecycle: at most one active
// session, a supervised enforcement process restarted when it dies, and
// commitment via a split secret. The session secret is generated once,
// returned as three contiguous fragments for separate custodians, and
// only its SHA-256 is ever stored, so early unlock requires every
// fragment. Sessions persist in their own SQLite database and resume
// across process restarts while still inside their window.
package session
