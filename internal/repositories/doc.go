// Package repositories implements SQLite persistence for client-side state.
//
// The backend owns every domain entity, so the only thing stored locally is the session:
//   - [CookieRepository] : cookies issued by the backend, keyed by host, name and path
//   - [PersistentJar] : an [http.CookieJar] that reloads those cookies so CLI and TUI logins survive restarts
package repositories
