// Package repositories implements persistence for lyrics, playlists, users
// and the whole-store snapshot on top of the execution backend.
//
// A [Connection] turns each operation into one or more fixed
// (statement, parameters) pairs, runs them through [backend.Backend], and
// decodes result rows with the typed decoders in models.
//
// Writes touching more than one table (playlist insert/update, whole-store
// replace) run as an ordered sequence of steps inside a transaction: BEGIN,
// the steps strictly in order, COMMIT. The first failing step triggers
// ROLLBACK and its error is surfaced; a rollback failure is only logged.
// Single-row operations execute directly, they are already atomic at the
// statement level.
//
// Playlist membership is always replaced wholesale (delete all rows,
// re-insert in list order with a 1-based ordering column), never patched.
package repositories
