package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/lyrix/internal/models"
)

// History lists saved explanations. GET /history?skip=&limit=
func (a *APIService) History(ctx context.Context, skip, limit int, opts ...RequestOption) ([]models.HistoryListItem, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	params := url.Values{}
	params.Set("skip", strconv.Itoa(skip))
	params.Set("limit", strconv.Itoa(limit))

	var items []models.HistoryListItem
	if err := a.Do(ctx, http.MethodGet, "/history?"+params.Encode(), nil, &items, opts...); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateHistory saves an explanation. POST /history
func (a *APIService) CreateHistory(ctx context.Context, req models.HistoryCreate, opts ...RequestOption) (*models.HistoryResponse, error) {
	var entry models.HistoryResponse
	if err := a.Do(ctx, http.MethodPost, "/history", req, &entry, opts...); err != nil {
		return nil, err
	}
	return &entry, nil
}

// HistoryByID fetches one saved explanation. GET /history/{id}
func (a *APIService) HistoryByID(ctx context.Context, id int, opts ...RequestOption) (*models.HistoryResponse, error) {
	var entry models.HistoryResponse
	if err := a.Do(ctx, http.MethodGet, fmt.Sprintf("/history/%d", id), nil, &entry, opts...); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteHistory removes a saved explanation. DELETE /history/{id}
func (a *APIService) DeleteHistory(ctx context.Context, id int, opts ...RequestOption) (*models.MessageResponse, error) {
	return a.message(ctx, http.MethodDelete, fmt.Sprintf("/history/%d", id), opts...)
}

// SearchHistory finds saved explanations matching query. GET /history/search?q=
func (a *APIService) SearchHistory(ctx context.Context, query string, opts ...RequestOption) ([]models.HistoryListItem, error) {
	params := url.Values{}
	params.Set("q", query)

	var items []models.HistoryListItem
	if err := a.Do(ctx, http.MethodGet, "/history/search?"+params.Encode(), nil, &items, opts...); err != nil {
		return nil, err
	}
	return items, nil
}
