package stores

import "github.com/desertthunder/lyrix/internal/models"

// AuthStore tracks the signed-in user.
type AuthStore struct {
	user    *models.User
	loading bool
}

// NewAuthStore creates an empty, signed-out store.
func NewAuthStore() *AuthStore {
	return &AuthStore{}
}

// User returns the signed-in user, or nil.
func (s *AuthStore) User() *models.User { return s.user }

// SetUser replaces the signed-in user. nil signs out.
func (s *AuthStore) SetUser(u *models.User) { s.user = u }

// IsAuthenticated reports whether a user is set.
func (s *AuthStore) IsAuthenticated() bool { return s.user != nil }

func (s *AuthStore) Loading() bool     { return s.loading }
func (s *AuthStore) SetLoading(b bool) { s.loading = b }

// Clear signs out and resets loading.
func (s *AuthStore) Clear() {
	s.user = nil
	s.loading = false
}
