package stores

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/desertthunder/lyrix/internal/models"
)

// DefaultTitlePrefix starts every generated playlist title.
const DefaultTitlePrefix = "My Playlist #"

var defaultTitlePattern = regexp.MustCompile(`^My Playlist #(\d+)$`)

// PlaylistStore is the user's playlist list, most recent first.
type PlaylistStore struct {
	playlists []models.Playlist
	loading   bool
}

// NewPlaylistStore creates an empty store.
func NewPlaylistStore() *PlaylistStore {
	return &PlaylistStore{}
}

// SetPlaylists replaces the list.
func (s *PlaylistStore) SetPlaylists(p []models.Playlist) {
	s.playlists = slices.Clone(p)
}

// AddPlaylist puts p at the front of the list.
func (s *PlaylistStore) AddPlaylist(p models.Playlist) {
	s.playlists = slices.Insert(s.playlists, 0, p)
}

// UpdatePlaylist applies u to the playlist with id. Unknown ids are ignored.
func (s *PlaylistStore) UpdatePlaylist(id int, u models.PlaylistUpdate) {
	for i, p := range s.playlists {
		if p.ID == id {
			s.playlists[i] = p.Apply(u)
		}
	}
}

// RemovePlaylist drops the playlist with id.
func (s *PlaylistStore) RemovePlaylist(id int) {
	s.playlists = slices.DeleteFunc(s.playlists, func(p models.Playlist) bool {
		return p.ID == id
	})
}

// Playlists returns a copy of the list.
func (s *PlaylistStore) Playlists() []models.Playlist {
	return slices.Clone(s.playlists)
}

func (s *PlaylistStore) Loading() bool     { return s.loading }
func (s *PlaylistStore) SetLoading(b bool) { s.loading = b }

// Clear empties the list and resets loading.
func (s *PlaylistStore) Clear() {
	s.playlists = nil
	s.loading = false
}

// NextPlaylistNumber is one more than the highest N among titles of the form "My Playlist #N", or 1 when none match.
func (s *PlaylistStore) NextPlaylistNumber() int {
	highest := 0
	for _, p := range s.playlists {
		m := defaultTitlePattern.FindStringSubmatch(p.Title)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}

// DefaultTitle is the title given to a playlist created without one.
func (s *PlaylistStore) DefaultTitle() string {
	return fmt.Sprintf("%s%d", DefaultTitlePrefix, s.NextPlaylistNumber())
}
