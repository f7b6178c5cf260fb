package services

import (
	"context"

	"github.com/desertthunder/lyrix/internal/models"
)

// Backend lists one method per backend endpoint. [APIService] implements it.
type Backend interface {
	Register(ctx context.Context, req models.RegisterRequest, opts ...RequestOption) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest, opts ...RequestOption) (*models.LoginResponse, error)
	Logout(ctx context.Context, opts ...RequestOption) (*models.MessageResponse, error)
	RefreshToken(ctx context.Context, opts ...RequestOption) (*models.MessageResponse, error)
	CurrentUser(ctx context.Context, opts ...RequestOption) (*models.User, error)

	History(ctx context.Context, skip, limit int, opts ...RequestOption) ([]models.HistoryListItem, error)
	CreateHistory(ctx context.Context, req models.HistoryCreate, opts ...RequestOption) (*models.HistoryResponse, error)
	HistoryByID(ctx context.Context, id int, opts ...RequestOption) (*models.HistoryResponse, error)
	DeleteHistory(ctx context.Context, id int, opts ...RequestOption) (*models.MessageResponse, error)
	SearchHistory(ctx context.Context, query string, opts ...RequestOption) ([]models.HistoryListItem, error)

	Playlists(ctx context.Context, skip, limit int, opts ...RequestOption) ([]models.Playlist, error)
	CreatePlaylist(ctx context.Context, req models.PlaylistCreate, opts ...RequestOption) (*models.Playlist, error)
	PlaylistByID(ctx context.Context, id int, opts ...RequestOption) (*models.PlaylistWithSongs, error)
	UpdatePlaylist(ctx context.Context, id int, req models.PlaylistUpdate, opts ...RequestOption) (*models.Playlist, error)
	DeletePlaylist(ctx context.Context, id int, opts ...RequestOption) (*models.MessageResponse, error)
	AddSongToPlaylist(ctx context.Context, playlistID int, song models.SongInput, opts ...RequestOption) (*models.SavedSong, error)
	RemoveSongFromPlaylist(ctx context.Context, playlistID, songID int, opts ...RequestOption) (*models.MessageResponse, error)

	SearchSongs(ctx context.Context, query string, limit int, opts ...RequestOption) ([]models.SongSearchResult, error)
	ExplainSongs(ctx context.Context, req models.ExplainRequest, opts ...RequestOption) (*models.ExplainResponse, error)
}

var _ Backend = (*APIService)(nil)
