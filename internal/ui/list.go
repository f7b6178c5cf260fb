package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/lyrix/internal/formatter"
	"github.com/desertthunder/lyrix/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = hitItem{}
	_ list.Item = resultItem{}
	_ list.Item = historyItem{}
	_ list.Item = songItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Title }
func (i playlistItem) Title() string       { return i.playlist.Title }
func (i playlistItem) Description() string { return i.playlist.Description }

// hitItem wraps a [models.SongSearchResult], marking songs already in the selection.
type hitItem struct {
	song     models.SongSearchResult
	selected bool
}

func (i hitItem) FilterValue() string { return i.song.Title }
func (i hitItem) Title() string {
	if i.selected {
		return "✓ " + i.song.Title
	}
	return i.song.Title
}
func (i hitItem) Description() string { return i.song.Artist }

// resultItem wraps a [models.ExplainResult].
type resultItem struct {
	result models.ExplainResult
}

func (i resultItem) FilterValue() string { return i.result.SongTitle }
func (i resultItem) Title() string {
	return fmt.Sprintf("%s - %s", i.result.SongArtist, i.result.SongTitle)
}
func (i resultItem) Description() string {
	if i.result.Failed() {
		return "error: " + i.result.Error
	}
	return formatter.EmotionSummary(i.result.Emotion)
}

// historyItem wraps a [models.HistoryListItem].
type historyItem struct {
	entry models.HistoryListItem
}

func (i historyItem) FilterValue() string { return i.entry.SongTitle }
func (i historyItem) Title() string {
	return fmt.Sprintf("%s - %s", i.entry.SongArtist, i.entry.SongTitle)
}
func (i historyItem) Description() string {
	desc := i.entry.CreatedAt.String()
	if i.entry.Emotion != "" {
		desc = fmt.Sprintf("%s • %s", i.entry.Emotion, desc)
	}
	return desc
}

// songItem wraps a [models.SavedSong] in a playlist.
type songItem struct {
	song models.SavedSong
}

func (i songItem) FilterValue() string { return i.song.SongTitle }
func (i songItem) Title() string       { return i.song.SongTitle }
func (i songItem) Description() string { return i.song.SongArtist }

func newList(items []list.Item, title string, compact bool) list.Model {
	delegate := list.NewDefaultDelegate()
	if compact {
		delegate.ShowDescription = false
		delegate.SetSpacing(0)
	}

	l := list.New(items, delegate, 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

func playlistItems(playlists []models.Playlist) []list.Item {
	items := make([]list.Item, len(playlists))
	for i, p := range playlists {
		items[i] = playlistItem{playlist: p}
	}
	return items
}

func resultItems(results []models.ExplainResult) []list.Item {
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = resultItem{result: r}
	}
	return items
}

func historyItems(entries []models.HistoryListItem) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = historyItem{entry: e}
	}
	return items
}

func songItems(songs []models.SavedSong) []list.Item {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{song: s}
	}
	return items
}
