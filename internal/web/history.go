package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/lyrix/internal/formatter"
	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/services"
)

type historyView struct {
	Query   string
	Entries []models.HistoryListItem
}

// historyList lists the most recent history, or searches it when q is set.
func (a *App) historyList(w http.ResponseWriter, r *http.Request) {
	view := historyView{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
	api := a.backend(r)

	var err error
	if view.Query != "" {
		view.Entries, err = api.SearchHistory(r.Context(), view.Query)
	} else {
		view.Entries, err = api.History(r.Context(), 0, services.DefaultPageSize)
	}
	if err != nil {
		a.mutationFailed(w, r, err)
		return
	}

	a.render(w, r, http.StatusOK, pageHistory, a.layout(r, "History", view))
}

// createHistory saves one explanation posted from the results page.
func (a *App) createHistory(w http.ResponseWriter, r *http.Request) {
	req := models.HistoryCreate{
		SongTitle:      strings.TrimSpace(r.FormValue("song_title")),
		SongArtist:     strings.TrimSpace(r.FormValue("song_artist")),
		Interpretation: strings.TrimSpace(r.FormValue("interpretation")),
		Emotion:        strings.TrimSpace(r.FormValue("emotion")),
		LanguageCode:   strings.TrimSpace(r.FormValue("language_code")),
	}
	if req.SongTitle == "" || req.SongArtist == "" {
		a.renderError(w, r, http.StatusBadRequest, "A song title and artist are required.")
		return
	}

	entry, err := a.backend(r).CreateHistory(r.Context(), req)
	if err != nil {
		a.mutationFailed(w, r, err)
		return
	}

	seeOther(w, r, "/history/%d", entry.ID)
}

// historyDetail shows a saved explanation. With format=markdown it is returned as an attachment.
func (a *App) historyDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}

	entry, err := a.backend(r).HistoryByID(r.Context(), id)
	if err != nil {
		a.loadFailed(w, r, err)
		return
	}

	if r.URL.Query().Get("format") != "" {
		f, err := formatter.ParseFormat(r.URL.Query().Get("format"))
		if err != nil || f != formatter.Markdown {
			a.renderError(w, r, http.StatusBadRequest, "History entries can only be downloaded as markdown.")
			return
		}
		body, err := formatter.HistoryToMarkdown(entry)
		if err != nil {
			a.loadFailed(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="history_%d.md"`, entry.ID))
		w.Write(body)
		return
	}

	a.render(w, r, http.StatusOK, pageHistoryDetail, a.layout(r, entry.SongTitle, entry))
}

func (a *App) deleteHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}

	if _, err := a.backend(r).DeleteHistory(r.Context(), id); err != nil {
		a.mutationFailed(w, r, err)
		return
	}

	http.Redirect(w, r, "/history", http.StatusSeeOther)
}
