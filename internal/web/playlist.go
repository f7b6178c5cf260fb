package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/lyrix/internal/formatter"
	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/stores"
)

// createPlaylist creates a playlist from the sidebar form.
//
// An empty title becomes the next "My Playlist #N" after the playlists the user already has.
func (a *App) createPlaylist(w http.ResponseWriter, r *http.Request) {
	req := models.PlaylistCreate{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if req.Title == "" {
		store := stores.NewPlaylistStore()
		store.SetPlaylists(a.sidebarPlaylists(r))
		req.Title = store.DefaultTitle()
	}

	playlist, err := a.backend(r).CreatePlaylist(r.Context(), req)
	if err != nil {
		a.mutationFailed(w, r, err)
		return
	}

	seeOther(w, r, "/playlist/%d", playlist.ID)
}

// playlistDetail shows a playlist with its songs.
func (a *App) playlistDetail(w http.ResponseWriter, r *http.Request) {
	playlist, ok := a.loadPlaylist(w, r)
	if !ok {
		return
	}
	a.render(w, r, http.StatusOK, pagePlaylist, a.layout(r, playlist.Title, playlist))
}

// exportPlaylist downloads a playlist in the format named by the format query value.
func (a *App) exportPlaylist(w http.ResponseWriter, r *http.Request) {
	f, err := formatter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		a.renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	playlist, ok := a.loadPlaylist(w, r)
	if !ok {
		return
	}

	body, err := formatter.RenderPlaylist(playlist, f)
	if err != nil {
		a.loadFailed(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(f))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, formatter.PlaylistFilename(playlist, f)))
	w.Write(body)
}

func (a *App) loadPlaylist(w http.ResponseWriter, r *http.Request) (*models.PlaylistWithSongs, bool) {
	id, ok := a.pathID(w, r, "id")
	if !ok {
		return nil, false
	}

	playlist, err := a.backend(r).PlaylistByID(r.Context(), id)
	if err != nil {
		a.loadFailed(w, r, err)
		return nil, false
	}
	return playlist, true
}

func (a *App) updatePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}

	req := models.PlaylistUpdate{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if _, err := a.backend(r).UpdatePlaylist(r.Context(), id, req); err != nil {
		a.mutationFailed(w, r, err)
		return
	}

	seeOther(w, r, "/playlist/%d", id)
}

func (a *App) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}

	if _, err := a.backend(r).DeletePlaylist(r.Context(), id); err != nil {
		a.mutationFailed(w, r, err)
		return
	}

	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}

func (a *App) addSong(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}

	song := models.SongInput{
		Title:  strings.TrimSpace(r.FormValue("song_title")),
		Artist: strings.TrimSpace(r.FormValue("song_artist")),
	}
	if song.Title == "" || song.Artist == "" {
		a.renderError(w, r, http.StatusBadRequest, "A song title and artist are required.")
		return
	}

	if _, err := a.backend(r).AddSongToPlaylist(r.Context(), id, song); err != nil {
		a.mutationFailed(w, r, err)
		return
	}

	seeOther(w, r, "/playlist/%d", id)
}

func (a *App) removeSong(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}
	songID, ok := a.pathID(w, r, "songId")
	if !ok {
		return
	}

	if _, err := a.backend(r).RemoveSongFromPlaylist(r.Context(), id, songID); err != nil {
		a.mutationFailed(w, r, err)
		return
	}

	seeOther(w, r, "/playlist/%d", id)
}

func contentType(f formatter.Format) string {
	switch f {
	case formatter.CSV:
		return "text/csv; charset=utf-8"
	case formatter.Markdown:
		return "text/markdown; charset=utf-8"
	case formatter.Text:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}
