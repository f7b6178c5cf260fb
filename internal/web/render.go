package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/desertthunder/lyrix/internal/formatter"
	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/server"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/desertthunder/lyrix/internal/ui"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, one per template file besides the layout.
const (
	pageLogin         = "login"
	pageRegister      = "register"
	pageNew           = "new"
	pageExplain       = "explain"
	pageHistory       = "history"
	pageHistoryDetail = "history_detail"
	pagePlaylist      = "playlist"
	pageError         = "error"
)

var pageNames = []string{
	pageLogin, pageRegister, pageNew, pageExplain,
	pageHistory, pageHistoryDetail, pagePlaylist, pageError,
}

type pages struct {
	byName map[string]*template.Template
}

var funcs = template.FuncMap{
	"emotion": formatter.EmotionSummary,
	"ranked":  formatter.RankedEmotions,
	"score":   func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"formats": func() []formatter.Format { return formatter.Formats },
	"picker":  newPlaylistPicker,
}

// playlistPicker feeds the add-to-playlist menu shown next to a song.
type playlistPicker struct {
	Playlists []models.Playlist
	Title     string
	Artist    string
}

func newPlaylistPicker(playlists []models.Playlist, title, artist string) playlistPicker {
	return playlistPicker{Playlists: playlists, Title: title, Artist: artist}
}

func parsePages() (*pages, error) {
	p := &pages{byName: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		p.byName[name] = tmpl
	}
	return p, nil
}

// sidebarView is what the layout needs to draw the playlist sidebar and wire its keyboard shortcut.
type sidebarView struct {
	ID          string
	ShortcutKey string
	State       ui.SidebarState
	Breakpoint  int
}

// pageData is passed to every template. Content holds the page-specific value.
type pageData struct {
	Title     string
	User      *models.User
	Playlists []models.Playlist
	Sidebar   sidebarView
	RequestID string
	Error     string
	Notice    string
	Content   any
}

// newSidebarView is the initial sidebar the layout draws. The page script owns its state from then on.
func newSidebarView(shortcut string) sidebarView {
	if shortcut == "" {
		shortcut = ui.DefaultShortcutKey
	}
	return sidebarView{
		ID:          ui.DefaultSidebarID,
		ShortcutKey: shortcut,
		State:       ui.Expanded,
		Breakpoint:  MobileBreakpoint,
	}
}

// page builds the data for a page without loading the sidebar playlists.
func (a *App) page(r *http.Request, title string, content any) pageData {
	return pageData{
		Title:     title,
		User:      server.UserFrom(r.Context()),
		Sidebar:   a.sidebar,
		RequestID: server.RequestIDFrom(r.Context()),
		Content:   content,
	}
}

// layout builds the data for a protected page, loading the sidebar playlists.
// A failed load is logged and leaves the sidebar empty.
func (a *App) layout(r *http.Request, title string, content any) pageData {
	data := a.page(r, title, content)
	data.Playlists = a.sidebarPlaylists(r)
	return data
}

func (a *App) sidebarPlaylists(r *http.Request) []models.Playlist {
	playlists, err := a.backend(r).Playlists(r.Context(), 0, SidebarPlaylistLimit)
	if err != nil {
		a.logger.Warn("failed to load sidebar playlists", "error", err, "request_id", server.RequestIDFrom(r.Context()))
		return []models.Playlist{}
	}
	return playlists
}

func (a *App) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	tmpl, ok := a.pages.byName[name]
	if !ok {
		a.logger.Error("unknown page", "page", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		a.logger.Error("failed to render page", "page", name, "error", err, "request_id", data.RequestID)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// errorView is the content of the error page.
type errorView struct {
	Status  int
	Heading string
	Message string
}

func (a *App) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := a.page(r, http.StatusText(status), errorView{
		Status:  status,
		Heading: http.StatusText(status),
		Message: message,
	})
	a.render(w, r, status, pageError, data)
}

func (a *App) notFound(w http.ResponseWriter, r *http.Request) {
	a.renderError(w, r, http.StatusNotFound, "The page you are looking for does not exist.")
}

// loadFailed renders the error page for a failed page load.
//
// 404 becomes the not-found page, any other API status is rendered as-is, and transport failures are a 500.
func (a *App) loadFailed(w http.ResponseWriter, r *http.Request, err error) {
	status := services.StatusCode(err)
	switch {
	case status == http.StatusNotFound:
		a.notFound(w, r)
	case status >= http.StatusBadRequest:
		a.renderError(w, r, status, err.Error())
	default:
		a.logger.Error("backend request failed", "path", r.URL.Path, "error", err, "request_id", server.RequestIDFrom(r.Context()))
		a.renderError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

// mutationFailed sends the user to sign in again when the backend rejected the session, otherwise see [App.loadFailed].
func (a *App) mutationFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, shared.ErrNotAuthenticated) {
		http.Redirect(w, r, server.LoginPath, http.StatusSeeOther)
		return
	}
	a.loadFailed(w, r, err)
}

// pathID parses a positive integer path value. Anything else renders the not-found page.
func (a *App) pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		a.notFound(w, r)
		return 0, false
	}
	return id, true
}

func seeOther(w http.ResponseWriter, r *http.Request, format string, args ...any) {
	http.Redirect(w, r, fmt.Sprintf(format, args...), http.StatusSeeOther)
}
