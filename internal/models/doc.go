// Package models defines the data transfer objects exchanged with the lyrix backend API.
//
// Every entity is owned and persisted by the backend; values here are ephemeral, non-authoritative copies held for rendering:
//   - [User] and the auth requests ([RegisterRequest], [LoginRequest], [UserUpdate])
//   - [HistoryResponse] and [HistoryListItem] : explained songs saved by a user
//   - [Playlist], [PlaylistWithSongs] and [SavedSong] : user playlists and their ordered songs
//   - [SongSearchResult], [ExplainRequest] and [ExplainResponse] : song lookup and lyric interpretation
//
// Optional request fields use omitempty so absent values are never sent; absent response fields decode to zero values and render as empty.
package models
