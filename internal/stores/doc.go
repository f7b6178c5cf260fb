// Package stores holds in-memory client state shared between views.
//
// Stores are plain values created by their owner and passed where needed; there are no package-level instances.
// Every mutation is synchronous and last-write-wins. None of the stores are safe for concurrent use: they belong to a single goroutine, such as the bubbletea update loop or one web request.
//
//   - [AuthStore] : the signed-in user
//   - [ExplainStore] : songs selected for explanation
//   - [PlaylistStore] : the user's playlists and default title numbering
package stores
