package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/lyrix/internal/formatter"
	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/server"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/desertthunder/lyrix/internal/stores"
	"github.com/desertthunder/lyrix/internal/tasks"
)

// searchHit is a search result marked with whether it is already selected.
type searchHit struct {
	models.SongSearchResult
	Selected bool
}

// newView is the content of the song search and selection page.
type newView struct {
	Query       string
	Hits        []searchHit
	Selection   []models.SongSearchResult
	SearchError string
}

// explainView is the content of the explanation results page.
type explainView struct {
	Results    []models.ExplainResult
	Selection  []models.SongSearchResult
	Saved      int
	SaveErrors []tasks.SaveError
	Failed     int
	Succeeded  int
}

// selectionFrom rebuilds the song selection carried in repeated id, title and artist form fields.
//
// Duplicates collapse through [stores.ExplainStore.AddSong]; a missing or invalid id falls back to the song's position.
func selectionFrom(values url.Values) *stores.ExplainStore {
	store := stores.NewExplainStore()
	ids, titles, artists := values["id"], values["title"], values["artist"]

	for i := 0; i < len(titles) && i < len(artists); i++ {
		song := models.SongSearchResult{
			ID:     i + 1,
			Title:  strings.TrimSpace(titles[i]),
			Artist: strings.TrimSpace(artists[i]),
		}
		if song.Title == "" || song.Artist == "" {
			continue
		}
		if i < len(ids) {
			if id, err := strconv.Atoi(ids[i]); err == nil {
				song.ID = id
			}
		}
		store.AddSong(song)
	}
	return store
}

// newPage searches songs and edits the selection. The selection lives entirely in the query string:
// add_id/add_title/add_artist append a song and remove drops every selected song with that id.
func (a *App) newPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	store := selectionFrom(query)

	if title, artist := strings.TrimSpace(query.Get("add_title")), strings.TrimSpace(query.Get("add_artist")); title != "" && artist != "" {
		id, err := strconv.Atoi(query.Get("add_id"))
		if err != nil {
			id = store.Count() + 1
		}
		store.AddSong(models.SongSearchResult{ID: id, Title: title, Artist: artist})
	}
	if remove, err := strconv.Atoi(query.Get("remove")); err == nil {
		store.RemoveSong(remove)
	}

	view := newView{Query: strings.TrimSpace(query.Get("q")), Selection: store.Songs()}
	if view.Query != "" {
		results, err := a.backend(r).SearchSongs(r.Context(), view.Query, services.DefaultSearchLimit)
		switch {
		case errors.Is(err, shared.ErrNotAuthenticated):
			http.Redirect(w, r, server.LoginPath, http.StatusSeeOther)
			return
		case err != nil:
			a.logger.Warn("song search failed", "query", view.Query, "error", err, "request_id", server.RequestIDFrom(r.Context()))
			view.SearchError = searchErrorMessage(err)
		}
		for _, song := range results {
			view.Hits = append(view.Hits, searchHit{SongSearchResult: song, Selected: store.Contains(song.Title, song.Artist)})
		}
	}

	a.render(w, r, http.StatusOK, pageNew, a.layout(r, "Explain songs", view))
}

func searchErrorMessage(err error) string {
	if services.StatusCode(err) != 0 {
		return err.Error()
	}
	return "Search is unavailable right now."
}

// explain runs the selection through the explain engine, saving to history when the save box is checked.
// With download=markdown the results are returned as a Markdown attachment instead of a page.
func (a *App) explain(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.renderError(w, r, http.StatusBadRequest, "Could not read the submitted form.")
		return
	}

	store := selectionFrom(r.PostForm)
	req := models.ExplainRequest{Songs: store.Inputs()}
	opts := tasks.ExplainOpts{
		SaveHistory:  r.PostForm.Get("save") != "",
		LanguageCode: strings.TrimSpace(r.PostForm.Get("language_code")),
	}

	engine := tasks.NewExplainEngine(a.backend(r))
	result, err := engine.Run(r.Context(), req, opts, nil)
	switch {
	case errors.Is(err, shared.ErrMissingArgument):
		data := a.layout(r, "Explain songs", newView{Selection: store.Songs()})
		data.Error = "Select at least one song to explain."
		a.render(w, r, http.StatusBadRequest, pageNew, data)
		return
	case err != nil:
		a.mutationFailed(w, r, err)
		return
	}

	for _, saveErr := range result.SaveErrors {
		a.logger.Warn("failed to save explanation", "error", saveErr, "request_id", server.RequestIDFrom(r.Context()))
	}

	if r.PostForm.Get("download") == string(formatter.Markdown) {
		body, err := formatter.ExplainToMarkdown(result.Results)
		if err != nil {
			a.loadFailed(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="explanations.md"`)
		w.Write(body)
		return
	}

	view := explainView{
		Results:    result.Results,
		Selection:  store.Songs(),
		Saved:      len(result.Saved),
		SaveErrors: result.SaveErrors,
		Failed:     result.Failed,
		Succeeded:  result.Succeeded(),
	}
	a.render(w, r, http.StatusOK, pageExplain, a.layout(r, "Explanations", view))
}
