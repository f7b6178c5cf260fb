package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/tasks"
)

// SidebarPlaylistLimit bounds the playlists loaded into the sidebar.
const SidebarPlaylistLimit = 50

func (m *Model) fetchUser() tea.Cmd {
	return func() tea.Msg {
		user, err := m.api.CurrentUser(m.ctx)
		return userLoadedMsg(user, err)
	}
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.api.Playlists(m.ctx, 0, SidebarPlaylistLimit)
		return playlistsFetchedMsg(playlists, err)
	}
}

func (m *Model) loadPlaylist(id int) tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.api.PlaylistByID(m.ctx, id)
		return playlistLoadedMsg(playlist, err)
	}
}

func (m *Model) createPlaylist(title string) tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.api.CreatePlaylist(m.ctx, models.PlaylistCreate{Title: title})
		return playlistCreatedMsg(playlist, err)
	}
}

func (m *Model) deletePlaylist(id int) tea.Cmd {
	return func() tea.Msg {
		_, err := m.api.DeletePlaylist(m.ctx, id)
		return playlistDeletedMsg(id, err)
	}
}

func (m *Model) addSong(playlistID int, song models.SongInput) tea.Cmd {
	return func() tea.Msg {
		saved, err := m.api.AddSongToPlaylist(m.ctx, playlistID, song)
		return songAddedMsg(saved, err)
	}
}

func (m *Model) removeSong(playlistID, songID int) tea.Cmd {
	return func() tea.Msg {
		_, err := m.api.RemoveSongFromPlaylist(m.ctx, playlistID, songID)
		return songRemovedMsg(playlistID, err)
	}
}

func (m *Model) searchSongs(query string) tea.Cmd {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	tick := m.startLoading()
	m.searching = true
	search := func() tea.Msg {
		results, err := m.api.SearchSongs(m.ctx, query, services.DefaultSearchLimit)
		return songsFoundMsg(results, err)
	}
	return tea.Batch(tick, search)
}

func (m *Model) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.api.History(m.ctx, 0, services.DefaultPageSize)
		return historyFetchedMsg(entries, err)
	}
}

func (m *Model) loadHistory(id int) tea.Cmd {
	return func() tea.Msg {
		entry, err := m.api.HistoryByID(m.ctx, id)
		return historyLoadedMsg(entry, err)
	}
}

func (m *Model) deleteHistory(id int) tea.Cmd {
	return func() tea.Msg {
		_, err := m.api.DeleteHistory(m.ctx, id)
		return historyDeletedMsg(id, err)
	}
}

// refresh reloads the sidebar and whatever the current view shows.
func (m *Model) refresh() tea.Cmd {
	cmds := []tea.Cmd{m.fetchPlaylists()}
	switch m.view {
	case HistoryView:
		cmds = append(cmds, m.fetchHistory())
	case PlaylistView:
		if m.playlist != nil {
			cmds = append(cmds, m.loadPlaylist(m.playlist.ID))
		}
	}
	return tea.Batch(cmds...)
}

// startExplain runs the selection through the explain engine in the background.
//
// Progress updates arrive one message at a time through [waitForProgress]; the final result follows once the
// progress channel is closed.
func (m *Model) startExplain() tea.Cmd {
	if !m.selection.HasSongs() {
		m.status = "Select at least one song first"
		return nil
	}
	if m.selection.Loading() {
		return nil
	}

	tick := m.startLoading()
	m.selection.SetLoading(true)
	m.progress = tasks.ProgressUpdate{}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan = progress
	m.explainDone = done

	req := models.ExplainRequest{Songs: m.selection.Inputs()}
	opts := tasks.ExplainOpts{SaveHistory: m.saveHistory, LanguageCode: m.language}

	go func() {
		result, err := m.engine.Run(m.ctx, req, opts, progress)
		close(progress)
		done <- explainCompleteMsg(result, err)
	}()

	return tea.Batch(tick, waitForProgress(progress, done))
}

func waitForProgress(progress <-chan tasks.ProgressUpdate, done <-chan Msg) tea.Cmd {
	return func() tea.Msg {
		if progress != nil {
			if update, ok := <-progress; ok {
				return progressUpdateMsg(update)
			}
		}
		return <-done
	}
}
