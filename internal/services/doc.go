// Package services implements a typed client for the lyrix backend REST API.
//
// # Backend Interface
//
// [Backend] lists one method per endpoint, grouped by resource: auth, history, playlist and songs.
// [APIService] implements it; the UI depends on the interface so tests can swap the transport.
//
// # Sessions
//
// The backend authenticates with an httpOnly cookie. The CLI and TUI keep it in the [http.Client]'s cookie jar.
// The web server holds no session of its own and instead forwards each browser's cookie with [APIService.WithCookie],
// and captures Set-Cookie headers with [WithResponseCookies] so they can be relayed back.
//
// # Error Handling
//
// Transport failures wrap [shared.ErrServiceUnavailable]. Non-2xx responses return an [*APIError] carrying the status
// and the backend's detail message; it matches with errors.Is:
//   - [shared.ErrAPIRequest] : any non-2xx response
//   - [shared.ErrNotAuthenticated] : 401
//   - [shared.ErrNotFound] : 404
//
// [StatusCode] extracts the status from an error chain, or 0.
//
// # Raw Requests
//
// [APIService.Get] and [APIService.Post] return an [APIResponse] without interpreting the status, for the CLI's api commands.
package services
