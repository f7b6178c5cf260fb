package stores

import (
	"slices"

	"github.com/desertthunder/lyrix/internal/models"
)

// ExplainStore is the ordered selection of songs to explain.
type ExplainStore struct {
	songs   []models.SongSearchResult
	loading bool
}

// NewExplainStore creates an empty selection.
func NewExplainStore() *ExplainStore {
	return &ExplainStore{}
}

// AddSong appends song unless a song with the same title and artist is already selected.
// It reports whether the song was added.
func (s *ExplainStore) AddSong(song models.SongSearchResult) bool {
	if s.Contains(song.Title, song.Artist) {
		return false
	}
	s.songs = append(s.songs, song)
	return true
}

// Contains reports whether a song with this exact title and artist is selected.
func (s *ExplainStore) Contains(title, artist string) bool {
	return slices.ContainsFunc(s.songs, func(x models.SongSearchResult) bool {
		return x.Title == title && x.Artist == artist
	})
}

// RemoveSong removes every selected song with the given id.
func (s *ExplainStore) RemoveSong(id int) {
	s.songs = slices.DeleteFunc(s.songs, func(x models.SongSearchResult) bool {
		return x.ID == id
	})
}

// Clear empties the selection.
func (s *ExplainStore) Clear() {
	s.songs = nil
}

func (s *ExplainStore) HasSongs() bool { return len(s.songs) > 0 }
func (s *ExplainStore) Count() int     { return len(s.songs) }

// Songs returns a copy of the selection in insertion order.
func (s *ExplainStore) Songs() []models.SongSearchResult {
	return slices.Clone(s.songs)
}

// Inputs converts the selection into the request payload for explaining.
func (s *ExplainStore) Inputs() []models.SongInput {
	inputs := make([]models.SongInput, 0, len(s.songs))
	for _, song := range s.songs {
		inputs = append(inputs, models.SongInput{Title: song.Title, Artist: song.Artist})
	}
	return inputs
}

func (s *ExplainStore) Loading() bool     { return s.loading }
func (s *ExplainStore) SetLoading(b bool) { s.loading = b }
