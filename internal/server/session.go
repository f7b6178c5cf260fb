package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/shared"
)

// Session is the per-request authentication state. It is set once by [Authenticate] and never modified.
type Session struct {
	user   *models.User
	cookie *http.Cookie
}

// NewSession builds a session. Either argument may be nil.
func NewSession(user *models.User, cookie *http.Cookie) Session {
	return Session{user: user, cookie: cookie}
}

// User is the signed-in user, or nil.
func (s Session) User() *models.User { return s.user }

// Cookie is the auth cookie sent by the browser, or nil. It may be present without a user when the lookup failed.
func (s Session) Cookie() *http.Cookie { return s.cookie }

// Authenticated reports whether a user is attached.
func (s Session) Authenticated() bool { return s.user != nil }

type sessionKey struct{}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored in ctx, or an empty one.
func SessionFrom(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}

// UserFrom returns the signed-in user stored in ctx, or nil.
func UserFrom(ctx context.Context) *models.User {
	return SessionFrom(ctx).User()
}

// UserResolver looks up the user that owns an auth cookie.
type UserResolver func(ctx context.Context, cookie *http.Cookie) (*models.User, error)

// Authenticate attaches a [Session] to every request.
//
// Without the named cookie the session is empty. With it, resolve is called; an error or a user without an id leaves the session without a user.
// Transport failures are logged as warnings. The request itself always proceeds.
func Authenticate(resolve UserResolver, cookieName string, logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), Session{})))
				return
			}

			user, err := resolve(r.Context(), cookie)
			if err == nil && (user == nil || user.ID == 0) {
				err = fmt.Errorf("%w: resolver returned no user", shared.ErrNotAuthenticated)
			}
			if err != nil {
				user = nil
				if errors.Is(err, shared.ErrAPIRequest) || errors.Is(err, shared.ErrNotAuthenticated) {
					logger.Debug("session cookie rejected", "error", err, "request_id", RequestIDFrom(r.Context()))
				} else {
					logger.Warn("session lookup failed", "error", err, "request_id", RequestIDFrom(r.Context()))
				}
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), NewSession(user, cookie))))
		})
	}
}

// LoginPath is where signed-out users are sent.
const LoginPath = "/login"

// RequireUser redirects requests without a signed-in user to [LoginPath] with 303 See Other.
func RequireUser() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !SessionFrom(r.Context()).Authenticated() {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedirectAuthenticated sends signed-in users to path with 303 See Other.
func RedirectAuthenticated(path string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SessionFrom(r.Context()).Authenticated() {
				http.Redirect(w, r, path, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
