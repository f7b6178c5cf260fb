package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/shared"
)

// Register creates an account. POST /auth/register
func (a *APIService) Register(ctx context.Context, req models.RegisterRequest, opts ...RequestOption) (*models.User, error) {
	var user models.User
	if err := a.Do(ctx, http.MethodPost, "/auth/register", req, &user, opts...); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and receives the http-only auth cookie. POST /auth/login
func (a *APIService) Login(ctx context.Context, req models.LoginRequest, opts ...RequestOption) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := a.Do(ctx, http.MethodPost, "/auth/login", req, &resp, opts...); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout asks the backend to clear the auth cookie. POST /auth/logout
func (a *APIService) Logout(ctx context.Context, opts ...RequestOption) (*models.MessageResponse, error) {
	return a.message(ctx, http.MethodPost, "/auth/logout", opts...)
}

// RefreshToken renews the auth cookie. POST /auth/refresh
func (a *APIService) RefreshToken(ctx context.Context, opts ...RequestOption) (*models.MessageResponse, error) {
	return a.message(ctx, http.MethodPost, "/auth/refresh", opts...)
}

// CurrentUser returns the authenticated user. GET /users/me
//
// Only a 200 carrying a user with an id counts; any other success answer is [shared.ErrNotAuthenticated].
func (a *APIService) CurrentUser(ctx context.Context, opts ...RequestOption) (*models.User, error) {
	var user models.User
	var status int
	opts = append(opts, WithResponseStatus(&status))
	if err := a.Do(ctx, http.MethodGet, "/users/me", nil, &user, opts...); err != nil {
		return nil, err
	}
	if status != http.StatusOK || user.ID == 0 {
		return nil, fmt.Errorf("%w: no user in /users/me response (status %d)", shared.ErrNotAuthenticated, status)
	}
	return &user, nil
}

func (a *APIService) message(ctx context.Context, method, path string, opts ...RequestOption) (*models.MessageResponse, error) {
	var msg models.MessageResponse
	if err := a.Do(ctx, method, path, nil, &msg, opts...); err != nil {
		return nil, err
	}
	return &msg, nil
}
