package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs in. The session cookie lands in the client's jar, which persists it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	r.logger.Info("signing in", "email", email)

	resp, err := r.api.Login(ctx, models.LoginRequest{Email: email, Password: cmd.String("password")})
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	r.logger.Info("authentication successful", "user", resp.User.Username)
	return r.writePlain("✓ Signed in as %s <%s>\n", resp.User.Username, resp.User.Email)
}

// AuthRegister creates an account. It does not sign in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	user, err := r.api.Register(ctx, models.RegisterRequest{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
	})
	if err != nil {
		return err
	}

	r.writePlain("✓ Account created for %s <%s>\n", user.Username, user.Email)
	return r.writePlain("Run 'lyrix auth login --email %s' to sign in\n", user.Email)
}

// AuthLogout ends the backend session and clears every saved cookie.
//
// The local session is cleared even when the backend call fails.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.api.Logout(ctx); err != nil {
		r.logger.Warn("backend logout failed", "error", err)
	}

	if r.session != nil {
		if err := r.session.Clear(); err != nil {
			return fmt.Errorf("failed to clear saved session: %w", err)
		}
	}

	return r.writePlain("✓ Signed out\n")
}

// AuthRefresh asks the backend for a fresh session token.
func (r *Runner) AuthRefresh(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.api.RefreshToken(ctx); err != nil {
		return signedIn(err)
	}
	return r.writePlain("✓ Session refreshed\n")
}

// AuthWhoami prints the signed-in user.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	user, err := r.api.CurrentUser(ctx)
	if err != nil {
		return signedIn(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlain("Username: %s\n", user.Username)
	r.writePlain("Email: %s\n", user.Email)
	return r.writePlain("Member since: %s\n", user.CreatedAt.Format("2006-01-02"))
}
