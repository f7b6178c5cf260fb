package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/lyrix/internal/models"
)

// Playlists lists the user's playlists. GET /playlist?skip=&limit=
func (a *APIService) Playlists(ctx context.Context, skip, limit int, opts ...RequestOption) ([]models.Playlist, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	params := url.Values{}
	params.Set("skip", strconv.Itoa(skip))
	params.Set("limit", strconv.Itoa(limit))

	var playlists []models.Playlist
	if err := a.Do(ctx, http.MethodGet, "/playlist?"+params.Encode(), nil, &playlists, opts...); err != nil {
		return nil, err
	}
	return playlists, nil
}

// CreatePlaylist creates a playlist. POST /playlist
func (a *APIService) CreatePlaylist(ctx context.Context, req models.PlaylistCreate, opts ...RequestOption) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := a.Do(ctx, http.MethodPost, "/playlist", req, &playlist, opts...); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// PlaylistByID fetches a playlist with its songs. GET /playlist/{id}
func (a *APIService) PlaylistByID(ctx context.Context, id int, opts ...RequestOption) (*models.PlaylistWithSongs, error) {
	var playlist models.PlaylistWithSongs
	if err := a.Do(ctx, http.MethodGet, fmt.Sprintf("/playlist/%d", id), nil, &playlist, opts...); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// UpdatePlaylist changes a playlist's title or description. PATCH /playlist/{id}
func (a *APIService) UpdatePlaylist(ctx context.Context, id int, req models.PlaylistUpdate, opts ...RequestOption) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := a.Do(ctx, http.MethodPatch, fmt.Sprintf("/playlist/%d", id), req, &playlist, opts...); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// DeletePlaylist removes a playlist. DELETE /playlist/{id}
func (a *APIService) DeletePlaylist(ctx context.Context, id int, opts ...RequestOption) (*models.MessageResponse, error) {
	return a.message(ctx, http.MethodDelete, fmt.Sprintf("/playlist/%d", id), opts...)
}

// AddSongToPlaylist saves a song into a playlist. POST /playlist/{id}/songs
func (a *APIService) AddSongToPlaylist(ctx context.Context, playlistID int, song models.SongInput, opts ...RequestOption) (*models.SavedSong, error) {
	req := models.SavedSongCreate{
		SongTitle:  song.Title,
		SongArtist: song.Artist,
		PlaylistID: playlistID,
	}

	var saved models.SavedSong
	if err := a.Do(ctx, http.MethodPost, fmt.Sprintf("/playlist/%d/songs", playlistID), req, &saved, opts...); err != nil {
		return nil, err
	}
	return &saved, nil
}

// RemoveSongFromPlaylist removes a saved song. DELETE /playlist/{id}/songs/{songId}
func (a *APIService) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID int, opts ...RequestOption) (*models.MessageResponse, error) {
	return a.message(ctx, http.MethodDelete, fmt.Sprintf("/playlist/%d/songs/%d", playlistID, songID), opts...)
}
