package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/lyrix/internal/models"
)

// Page sizes used when the caller passes a non-positive limit.
const (
	DefaultSearchLimit = 10
	DefaultPageSize    = 20
)

// SearchSongs looks up songs by free text. GET /songs/search?q=&limit=
func (a *APIService) SearchSongs(ctx context.Context, query string, limit int, opts ...RequestOption) ([]models.SongSearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	var results []models.SongSearchResult
	if err := a.Do(ctx, http.MethodGet, "/songs/search?"+params.Encode(), nil, &results, opts...); err != nil {
		return nil, err
	}
	return results, nil
}

// ExplainSongs fetches lyrics, emotion and interpretation for each song. POST /songs/explain
func (a *APIService) ExplainSongs(ctx context.Context, req models.ExplainRequest, opts ...RequestOption) (*models.ExplainResponse, error) {
	var resp models.ExplainResponse
	if err := a.Do(ctx, http.MethodPost, "/songs/explain", req, &resp, opts...); err != nil {
		return nil, err
	}
	return &resp, nil
}
