// Package server provides HTTP routing, middleware and the session guard for the lyrix web app.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so handlers can read path wildcards with [http.Request.PathValue].
//
// # Session Guard
//
// [Authenticate] reads the auth cookie on every request, resolves it to a user through the backend and attaches an immutable [Session] to the request context.
// Lookup failures never fail the request: a backend outage reads as signed out.
// [RequireUser] redirects signed-out requests to the login page and [RedirectAuthenticated] sends signed-in users away from it.
//
// # Middleware
//
//   - [RequestID] : tags each request with an X-Request-ID
//   - [Logging] : one structured log line per request
//   - [Recover] : turns handler panics into a 500
//   - [IPRateLimiter] : token bucket per client IP for credential endpoints
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
