package models

// PlaylistCreate is the body of POST /playlist.
type PlaylistCreate struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// PlaylistUpdate is the body of PATCH /playlist/{id}; empty fields are left unchanged.
type PlaylistUpdate struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Playlist is a user playlist without its songs.
type Playlist struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      int       `json:"user_id"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// Apply returns a copy of p with the non-empty fields of u applied.
func (p Playlist) Apply(u PlaylistUpdate) Playlist {
	if u.Title != "" {
		p.Title = u.Title
	}
	if u.Description != "" {
		p.Description = u.Description
	}
	return p
}

// PlaylistWithSongs is returned by GET /playlist/{id}; Songs keeps the backend's order.
type PlaylistWithSongs struct {
	Playlist
	Songs []SavedSong `json:"songs"`
}

// SavedSongCreate is the body of POST /playlist/{id}/songs.
type SavedSongCreate struct {
	SongTitle  string `json:"song_title"`
	SongArtist string `json:"song_artist"`
	PlaylistID int    `json:"playlist_id"`
}

// SavedSong is a song stored in a playlist.
type SavedSong struct {
	ID         int       `json:"id"`
	SongTitle  string    `json:"song_title"`
	SongArtist string    `json:"song_artist"`
	PlaylistID int       `json:"playlist_id"`
	CreatedAt  Timestamp `json:"created_at"`
}
