// API client for the lyrix backend REST API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/desertthunder/lyrix/internal/shared"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000/api/v1"

const (
	// GenericErrorMessage replaces error bodies that are not JSON.
	GenericErrorMessage = "An error occurred on the server"
	// FallbackErrorMessage is used when a JSON error body carries neither detail nor message.
	FallbackErrorMessage = "Request failed"
)

// APIService issues requests to the backend API.
//
// Credentials pass through two ways: the [http.Client]'s cookie jar (CLI and TUI), or cookies attached with [APIService.WithCookie] for request-scoped relay in the web server.
// Every call is a single attempt: no retries, timeouts or backoff beyond what the caller's context imposes.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	cookies    []*http.Cookie
}

// NewAPIService creates a new API service instance for the backend.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// BaseURL returns the configured backend base URL.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// WithCookie returns a copy of the service that sends cookie on every request.
//
// The receiver is not modified, so a shared service can be specialized per request.
func (a *APIService) WithCookie(cookie *http.Cookie) *APIService {
	clone := *a
	clone.cookies = append(slices.Clone(a.cookies), cookie)
	return &clone
}

// APIError is returned for non-2xx responses. Its message is extracted from the response body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is matches [shared.ErrAPIRequest] for every status, plus [shared.ErrNotFound] for 404 and [shared.ErrNotAuthenticated] for 401.
func (e *APIError) Is(target error) bool {
	switch target {
	case shared.ErrAPIRequest:
		return true
	case shared.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case shared.ErrNotAuthenticated:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an [*APIError].
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// RequestOption customizes a single call made with [APIService.Do].
type RequestOption func(*requestConfig)

type requestConfig struct {
	header  http.Header
	cookies *[]*http.Cookie
	status  *int
}

// WithHeader sets a request header, overriding the JSON default for that key.
func WithHeader(key, value string) RequestOption {
	return func(c *requestConfig) {
		c.header.Set(key, value)
	}
}

// WithResponseCookies stores the cookies set by the response in dst.
func WithResponseCookies(dst *[]*http.Cookie) RequestOption {
	return func(c *requestConfig) {
		c.cookies = dst
	}
}

// WithResponseStatus stores the response status code in dst.
func WithResponseStatus(dst *int) RequestOption {
	return func(c *requestConfig) {
		c.status = dst
	}
}

// Do sends a JSON request and decodes the JSON response into out.
//
// body may be nil, a []byte sent verbatim, or any value encoded as JSON.
// out may be nil to discard the response; an empty 2xx body leaves out untouched.
// Non-2xx responses return an [*APIError].
func (a *APIService) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	cfg := requestConfig{header: http.Header{}}
	cfg.header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(&cfg)
	}

	payload, err := encodeBody(body)
	if err != nil {
		return err
	}

	resp, err := a.send(ctx, method, path, payload, cfg.header)
	if err != nil {
		return err
	}

	if cfg.cookies != nil {
		*cfg.cookies = resp.Cookies
	}
	if cfg.status != nil {
		*cfg.status = resp.StatusCode
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Cookies    []*http.Cookie
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the response has a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Raw performs a request and returns the raw response without interpreting its status.
func (a *APIService) Raw(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	header := http.Header{}
	if data != nil {
		header.Set("Content-Type", "application/json")
	}

	resp, err := a.send(ctx, method, path, data, header)
	if err != nil {
		return nil, err
	}

	var jsonData any
	if err := json.Unmarshal(resp.Body, &jsonData); err == nil {
		resp.IsJSON = true
		resp.JSONData = jsonData
	}

	return resp, nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.Raw(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	if data == nil {
		data = []byte{}
	}
	return a.Raw(ctx, http.MethodPost, path, data)
}

func (a *APIService) send(ctx context.Context, method, path string, payload []byte, header http.Header) (*APIResponse, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	for _, c := range a.cookies {
		req.AddCookie(c)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Cookies:    resp.Cookies(),
		Body:       body,
	}, nil
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode request body: %v", shared.ErrInvalidInput, err)
		}
		return data, nil
	}
}

// errorBody is the error shape returned by the backend. Detail is a string for
// application errors and a list of {loc, msg, type} objects for validation errors.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

func errorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return GenericErrorMessage
	}

	if detail := detailText(eb.Detail); detail != "" {
		return detail
	}
	if eb.Message != "" {
		return eb.Message
	}
	return FallbackErrorMessage
}

func detailText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		for _, item := range items {
			if item.Msg != "" {
				return item.Msg
			}
		}
	}

	return ""
}
