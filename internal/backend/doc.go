// Package backend abstracts SQL statement execution over two interchangeable
// SQLite engines.
//
// # Value Model
//
// [Value] is a tagged union over the five SQLite scalar variants (null,
// integer, real, text, blob). Every statement parameter and every column read
// from a [Row] is representable in exactly one variant; there is no implicit
// numeric widening.
//
// # Engines
//
// [SQLite3] wraps the cgo driver (github.com/mattn/go-sqlite3) and reports
// affected-row counts natively. [Modernc] wraps the pure-Go driver
// (modernc.org/sqlite) and recovers counts with a follow-up "SELECT changes()"
// read, so both engines are behaviorally indistinguishable to callers.
//
// [Open] selects the engine from configuration. Both engines pin the
// connection pool to a single connection because transaction keywords are
// issued as ordinary statements.
package backend
