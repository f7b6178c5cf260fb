package web

import (
	"net/http"
	"strings"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/server"
	"github.com/desertthunder/lyrix/internal/services"
)

// authView is the content of the login and register pages. Password fields are never echoed back.
type authView struct {
	Username   string
	Email      string
	Registered bool
}

func (a *App) loginPage(w http.ResponseWriter, r *http.Request) {
	data := a.page(r, "Sign in", authView{Registered: r.URL.Query().Get("registered") != ""})
	if r.URL.Query().Get("registered") != "" {
		data.Notice = "Account created. Sign in to continue."
	}
	a.render(w, r, http.StatusOK, pageLogin, data)
}

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	view := authView{Email: strings.TrimSpace(r.FormValue("email"))}
	password := r.FormValue("password")

	if view.Email == "" || password == "" {
		a.authFailed(w, r, pageLogin, "Sign in", view, http.StatusBadRequest, "Email and password are required.")
		return
	}

	var cookies []*http.Cookie
	_, err := a.api.Login(r.Context(), models.LoginRequest{Email: view.Email, Password: password}, services.WithResponseCookies(&cookies))
	if err != nil {
		a.authError(w, r, pageLogin, "Sign in", view, err)
		return
	}

	relayCookies(w, cookies)
	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}

func (a *App) registerPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, pageRegister, a.page(r, "Create account", authView{}))
}

func (a *App) register(w http.ResponseWriter, r *http.Request) {
	view := authView{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
	}
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	switch {
	case view.Username == "" || view.Email == "" || password == "":
		a.authFailed(w, r, pageRegister, "Create account", view, http.StatusBadRequest, "Username, email and password are required.")
		return
	case confirm != "" && confirm != password:
		a.authFailed(w, r, pageRegister, "Create account", view, http.StatusBadRequest, "Passwords do not match.")
		return
	}

	req := models.RegisterRequest{Username: view.Username, Email: view.Email, Password: password}
	if _, err := a.api.Register(r.Context(), req); err != nil {
		a.authError(w, r, pageRegister, "Create account", view, err)
		return
	}

	http.Redirect(w, r, server.LoginPath+"?registered=1", http.StatusSeeOther)
}

// logout asks the backend to end the session, relays whatever cookies it sets, then expires the auth cookie locally.
// A failed backend call is logged; the user is signed out of this browser regardless.
func (a *App) logout(w http.ResponseWriter, r *http.Request) {
	var cookies []*http.Cookie
	if _, err := a.backend(r).Logout(r.Context(), services.WithResponseCookies(&cookies)); err != nil {
		a.logger.Warn("backend logout failed", "error", err, "request_id", server.RequestIDFrom(r.Context()))
	}

	relayCookies(w, cookies)
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, server.LoginPath, http.StatusSeeOther)
}

// authError re-renders an auth form with the backend's message, or a generic one when the backend is unreachable.
func (a *App) authError(w http.ResponseWriter, r *http.Request, name, title string, view authView, err error) {
	status := services.StatusCode(err)
	if status == 0 {
		a.logger.Error("auth request failed", "page", name, "error", err, "request_id", server.RequestIDFrom(r.Context()))
		a.authFailed(w, r, name, title, view, http.StatusServiceUnavailable, "Unable to reach the server. Please try again.")
		return
	}
	if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
		status = http.StatusBadGateway
	}
	a.authFailed(w, r, name, title, view, status, err.Error())
}

func (a *App) authFailed(w http.ResponseWriter, r *http.Request, name, title string, view authView, status int, message string) {
	data := a.page(r, title, view)
	data.Error = message
	a.render(w, r, status, name, data)
}

// relayCookies forwards backend cookies to the browser. The domain is dropped so the cookie binds to this host.
func relayCookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, c := range cookies {
		relayed := *c
		relayed.Domain = ""
		http.SetCookie(w, &relayed)
	}
}
