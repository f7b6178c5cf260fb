package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgUserLoaded MsgKind = iota
	MsgPlaylistsFetched
	MsgPlaylistLoaded
	MsgPlaylistCreated
	MsgPlaylistDeleted
	MsgSongAdded
	MsgSongRemoved
	MsgSongsFound
	MsgHistoryFetched
	MsgHistoryLoaded
	MsgHistoryDeleted
	MsgProgressUpdate
	MsgExplainComplete
)

// Kind reports which constructor built the message.
func (m Msg) Kind() MsgKind { return m.kind }

// outcome is the payload of every message that reports a backend call.
type outcome[T any] struct {
	value T
	err   error
}

func outcomeMsg[T any](kind MsgKind, value T, err error) Msg {
	return Msg{kind: kind, data: outcome[T]{value: value, err: err}}
}

// userLoadedMsg is the constructor for [MsgUserLoaded]
func userLoadedMsg(user *models.User, err error) Msg {
	return outcomeMsg(MsgUserLoaded, user, err)
}

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(playlists []models.Playlist, err error) Msg {
	return outcomeMsg(MsgPlaylistsFetched, playlists, err)
}

// playlistLoadedMsg is the constructor for [MsgPlaylistLoaded]
func playlistLoadedMsg(playlist *models.PlaylistWithSongs, err error) Msg {
	return outcomeMsg(MsgPlaylistLoaded, playlist, err)
}

// playlistCreatedMsg is the constructor for [MsgPlaylistCreated]
func playlistCreatedMsg(playlist *models.Playlist, err error) Msg {
	return outcomeMsg(MsgPlaylistCreated, playlist, err)
}

// playlistDeletedMsg is the constructor for [MsgPlaylistDeleted]
func playlistDeletedMsg(id int, err error) Msg {
	return outcomeMsg(MsgPlaylistDeleted, id, err)
}

// songAddedMsg is the constructor for [MsgSongAdded]
func songAddedMsg(song *models.SavedSong, err error) Msg {
	return outcomeMsg(MsgSongAdded, song, err)
}

// songRemovedMsg is the constructor for [MsgSongRemoved]; the value is the playlist id.
func songRemovedMsg(playlistID int, err error) Msg {
	return outcomeMsg(MsgSongRemoved, playlistID, err)
}

// songsFoundMsg is the constructor for [MsgSongsFound]
func songsFoundMsg(results []models.SongSearchResult, err error) Msg {
	return outcomeMsg(MsgSongsFound, results, err)
}

// historyFetchedMsg is the constructor for [MsgHistoryFetched]
func historyFetchedMsg(entries []models.HistoryListItem, err error) Msg {
	return outcomeMsg(MsgHistoryFetched, entries, err)
}

// historyLoadedMsg is the constructor for [MsgHistoryLoaded]
func historyLoadedMsg(entry *models.HistoryResponse, err error) Msg {
	return outcomeMsg(MsgHistoryLoaded, entry, err)
}

// historyDeletedMsg is the constructor for [MsgHistoryDeleted]
func historyDeletedMsg(id int, err error) Msg {
	return outcomeMsg(MsgHistoryDeleted, id, err)
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// explainCompleteMsg is the constructor for [MsgExplainComplete]
func explainCompleteMsg(result *tasks.ExplainRunResult, err error) Msg {
	return outcomeMsg(MsgExplainComplete, result, err)
}
