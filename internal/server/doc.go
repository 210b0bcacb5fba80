// Package server provides HTTP routing, middleware and the JSON endpoints of
// the lyrics storage service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. The [BasicRouter] implementation uses
// [http.ServeMux] method and wildcard patterns internally.
//
// # Middleware
//
// [RequestLogger] assigns every inbound request a fresh id and threads a
// request-scoped logger through the context. [BasicAuth] parses the basic
// Authorization header and verifies credentials against the user table, with
// a constant-time fallback to the configured pair; nothing behind it is
// reachable unauthenticated.
//
// # Endpoints
//
// [API] serves lyric and playlist CRUD, whole-store export/replace and uuid
// translation under /lipl/api/v1. Every GET response carries an ETag derived
// from content, and a matching If-None-Match request header short-circuits
// into 304 without re-encoding the body.
package server
