// Package store persists admission decisions and periodic statistics
// snapshots. The decision log is append-only except for a single update
// per record: attaching a feedback reward to the newest decision for a
// URL that has none yet. Two backends exist, SQLite for production and
// an in-memory implementation for tests.
package store
