// Package web implements the server-rendered lyrix frontend.
//
// Every page is rendered with html/template from the embedded templates directory. Data comes from the backend API,
// called per request with the browser's auth cookie relayed through [services.APIService.WithCookie]; the web server
// keeps no state of its own.
//
// Routes
//
//	GET  /login, POST /login           sign in (rate limited), relays the backend cookie
//	GET  /register, POST /register     create an account (rate limited)
//	POST /logout                       sign out and clear the cookie
//	GET  /new, POST /explain           search songs, build a selection, explain it
//	GET  /history, POST /history       list or search history, save an explanation
//	GET  /history/{id}                 saved explanation; POST /history/{id}/delete removes it
//	POST /playlist                     create a playlist (empty title gets the next default title)
//	GET  /playlist/{id}                playlist with songs; POST updates it
//	GET  /playlist/{id}/export         download as csv, markdown, txt or json
//	POST /playlist/{id}/delete         delete a playlist
//	POST /playlist/{id}/songs          add a song; POST /playlist/{id}/songs/{songId}/delete removes it
//	GET  /healthz, GET /readyz         liveness and backend reachability
//
// Protected pages redirect to /login when the session has no user, and /login and /register redirect to /new when it does.
package web

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/server"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/shared"
)

const (
	// HomePath is where signed-in users land.
	HomePath = "/new"
	// SidebarPlaylistLimit bounds the playlists loaded into the layout sidebar.
	SidebarPlaylistLimit = 50
	// MobileBreakpoint is the viewport width, in pixels, below which the page sidebar uses its mobile state.
	MobileBreakpoint = 768
)

// AppOpts configures an [App].
type AppOpts struct {
	API    *services.APIService
	Config *shared.Config
	Logger *log.Logger
}

// App serves the web frontend.
type App struct {
	api        *services.APIService
	cookieName string
	sidebar    sidebarView
	logger     *log.Logger
	pages      *pages
	limiter    *server.IPRateLimiter
	router     *server.BasicRouter
}

// NewApp parses the templates and registers every route.
func NewApp(opts AppOpts) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = shared.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	api := opts.API
	if api == nil {
		api = services.NewAPIService(cfg.API.BaseURL, nil)
	}

	p, err := parsePages()
	if err != nil {
		return nil, err
	}

	a := &App{
		api:        api,
		cookieName: cfg.Session.CookieName,
		sidebar:    newSidebarView(cfg.UI.ShortcutKey),
		logger:     shared.WithLogger(logger, "component", "web"),
		pages:      p,
		limiter:    server.NewIPRateLimiter(cfg.Server.LoginRate, cfg.Server.LoginBurst),
		router:     server.NewBasicRouter(),
	}
	a.routes()
	return a, nil
}

// ServeHTTP implements [http.Handler].
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *App) routes() {
	r := a.router
	r.Use(
		server.Recover(a.logger),
		server.RequestID(),
		server.Logging(a.logger),
		server.Authenticate(a.resolveUser, a.cookieName, a.logger),
	)

	guest := server.RedirectAuthenticated(HomePath)
	limited := a.limiter.Middleware()
	auth := server.RequireUser()

	r.HandleFunc(http.MethodGet, "/healthz", a.healthz)
	r.HandleFunc(http.MethodGet, "/readyz", a.readyz)

	r.HandleFunc(http.MethodGet, "/login", a.loginPage, guest)
	r.HandleFunc(http.MethodPost, "/login", a.login, limited, guest)
	r.HandleFunc(http.MethodGet, "/register", a.registerPage, guest)
	r.HandleFunc(http.MethodPost, "/register", a.register, limited, guest)
	r.HandleFunc(http.MethodPost, "/logout", a.logout)

	r.HandleFunc(http.MethodGet, "/{$}", redirectTo(HomePath))
	r.HandleFunc(http.MethodGet, "/new", a.newPage, auth)
	r.HandleFunc(http.MethodPost, "/explain", a.explain, auth)

	r.HandleFunc(http.MethodGet, "/history", a.historyList, auth)
	r.HandleFunc(http.MethodPost, "/history", a.createHistory, auth)
	r.HandleFunc(http.MethodGet, "/history/{id}", a.historyDetail, auth)
	r.HandleFunc(http.MethodPost, "/history/{id}/delete", a.deleteHistory, auth)

	r.HandleFunc(http.MethodPost, "/playlist", a.createPlaylist, auth)
	r.HandleFunc(http.MethodGet, "/playlist/{id}", a.playlistDetail, auth)
	r.HandleFunc(http.MethodPost, "/playlist/{id}", a.updatePlaylist, auth)
	r.HandleFunc(http.MethodGet, "/playlist/{id}/export", a.exportPlaylist, auth)
	r.HandleFunc(http.MethodPost, "/playlist/{id}/delete", a.deletePlaylist, auth)
	r.HandleFunc(http.MethodPost, "/playlist/{id}/songs", a.addSong, auth)
	r.HandleFunc(http.MethodPost, "/playlist/{id}/songs/{songId}/delete", a.removeSong, auth)
}

// resolveUser is the session guard's lookup: GET /users/me with the browser's cookie.
func (a *App) resolveUser(ctx context.Context, cookie *http.Cookie) (*models.User, error) {
	return a.api.WithCookie(cookie).CurrentUser(ctx)
}

// backend returns the API client for r, carrying the browser's auth cookie when there is one.
func (a *App) backend(r *http.Request) *services.APIService {
	if cookie := server.SessionFrom(r.Context()).Cookie(); cookie != nil {
		return a.api.WithCookie(cookie)
	}
	return a.api
}

func redirectTo(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusSeeOther)
	}
}
