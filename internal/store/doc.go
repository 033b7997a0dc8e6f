// Package store persists tvrename state in a single SQLite database.
//
// The database holds two tables: a settings key-value table keyed by
// (organization, application, key), used for the stored TMDB API key, and
// the rename journal with one row per rename outcome grouped by run ID.
// Connections use WAL mode with a busy timeout, and writes retry briefly on
// SQLITE_BUSY so concurrent invocations do not fail spuriously.
package store
