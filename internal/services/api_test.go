package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/lyrix/internal/shared"
	tu "github.com/desertthunder/lyrix/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com/api/v1", customClient)

			if srv.BaseURL() != "http://example.com/api/v1" {
				t.Errorf("expected custom baseURL, got %s", srv.BaseURL())
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL And Nil Client", func(t *testing.T) {
			srv := NewAPIService("", nil)

			if srv.BaseURL() != DefaultBaseURL {
				t.Errorf("expected default baseURL %q, got %s", DefaultBaseURL, srv.BaseURL())
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Do", func(t *testing.T) {
		t.Run("Sends JSON Body And Decodes Response", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			fb.Handle("POST /echo", func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected JSON content type, got %s", r.Header.Get("Content-Type"))
				}
				body, _ := io.ReadAll(r.Body)
				w.WriteHeader(http.StatusCreated)
				w.Write(body)
			})

			var out map[string]string
			srv := NewAPIService(fb.BaseURL(), nil)
			err := srv.Do(context.Background(), http.MethodPost, "/echo", map[string]string{"k": "v"}, &out)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if out["k"] != "v" {
				t.Errorf("expected echoed body, got %v", out)
			}
		})

		t.Run("Empty Success Body Leaves Out Untouched", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			fb.JSON("DELETE /thing", http.StatusNoContent, nil)

			out := map[string]string{"kept": "yes"}
			srv := NewAPIService(fb.BaseURL(), nil)
			if err := srv.Do(context.Background(), http.MethodDelete, "/thing", nil, &out); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if out["kept"] != "yes" {
				t.Error("expected out to be untouched")
			}
		})

		t.Run("Error Messages", func(t *testing.T) {
			tc := []struct {
				name   string
				status int
				body   string
				want   string
			}{
				{"detail string", http.StatusNotFound, `{"detail":"not found"}`, "not found"},
				{"message field", http.StatusBadRequest, `{"message":"bad title"}`, "bad title"},
				{"detail wins over message", http.StatusConflict, `{"detail":"taken","message":"other"}`, "taken"},
				{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","email"],"msg":"value is not a valid email","type":"value_error"}]}`, "value is not a valid email"},
				{"json without fields", http.StatusBadRequest, `{"error":"x"}`, FallbackErrorMessage},
				{"non-json body", http.StatusInternalServerError, `<html>boom</html>`, GenericErrorMessage},
				{"empty body", http.StatusBadGateway, ``, GenericErrorMessage},
			}

			for _, tt := range tc {
				t.Run(tt.name, func(t *testing.T) {
					fb := tu.NewFakeBackend(t)
					fb.JSON("GET /fail", tt.status, tt.body)

					srv := NewAPIService(fb.BaseURL(), nil)
					err := srv.Do(context.Background(), http.MethodGet, "/fail", nil, nil)

					if err == nil {
						t.Fatal("expected error")
					}
					if err.Error() != tt.want {
						t.Errorf("expected message %q, got %q", tt.want, err.Error())
					}
					if StatusCode(err) != tt.status {
						t.Errorf("expected status %d, got %d", tt.status, StatusCode(err))
					}
					if !errors.Is(err, shared.ErrAPIRequest) {
						t.Error("expected error to match ErrAPIRequest")
					}
				})
			}
		})

		t.Run("Status Sentinels", func(t *testing.T) {
			notFound := &APIError{StatusCode: http.StatusNotFound, Message: "gone"}
			unauthorized := &APIError{StatusCode: http.StatusUnauthorized, Message: "no"}

			if !errors.Is(notFound, shared.ErrNotFound) || errors.Is(notFound, shared.ErrNotAuthenticated) {
				t.Error("404 should only match ErrNotFound")
			}
			if !errors.Is(unauthorized, shared.ErrNotAuthenticated) || errors.Is(unauthorized, shared.ErrNotFound) {
				t.Error("401 should only match ErrNotAuthenticated")
			}
			if StatusCode(errors.New("plain")) != 0 {
				t.Error("expected 0 for non-API error")
			}
		})

		t.Run("Transport Failure Is Service Unavailable", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused")),
			}

			srv := NewAPIService("http://example.com", client)
			err := srv.Do(context.Background(), http.MethodGet, "/x", nil, nil)

			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
			if errors.Is(err, shared.ErrAPIRequest) {
				t.Error("transport failures carry no status")
			}
		})

		t.Run("Unencodable Body", func(t *testing.T) {
			srv := NewAPIService("http://example.com", nil)
			err := srv.Do(context.Background(), http.MethodPost, "/x", make(chan int), nil)

			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("Malformed Success Body", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			fb.JSON("GET /bad", http.StatusOK, `{"id": "not-a-number"`)

			var out struct{ ID int }
			srv := NewAPIService(fb.BaseURL(), nil)
			err := srv.Do(context.Background(), http.MethodGet, "/bad", nil, &out)

			if err == nil || !strings.Contains(err.Error(), "failed to decode response") {
				t.Errorf("expected decode error, got %v", err)
			}
		})
	})

	t.Run("Cookies", func(t *testing.T) {
		t.Run("WithCookie Attaches Cookie Without Mutating Receiver", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			fb.JSON("GET /users/me", http.StatusOK, map[string]any{"id": 1})

			base := NewAPIService(fb.BaseURL(), nil)
			scoped := base.WithCookie(&http.Cookie{Name: "jwt", Value: "token"})

			if err := scoped.Do(context.Background(), http.MethodGet, "/users/me", nil, nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := fb.LastRequest(t).Cookie; got != "jwt=token" {
				t.Errorf("expected relayed cookie, got %q", got)
			}

			if err := base.Do(context.Background(), http.MethodGet, "/users/me", nil, nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := fb.LastRequest(t).Cookie; got != "" {
				t.Errorf("expected base service to send no cookie, got %q", got)
			}
		})

		t.Run("WithResponseCookies Captures Set-Cookie", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			fb.Handle("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
				http.SetCookie(w, &http.Cookie{Name: "jwt", Value: "fresh", HttpOnly: true})
				w.Write([]byte(`{"message":"ok"}`))
			})

			var cookies []*http.Cookie
			srv := NewAPIService(fb.BaseURL(), nil)
			err := srv.Do(context.Background(), http.MethodPost, "/auth/login", nil, nil, WithResponseCookies(&cookies))

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(cookies) != 1 || cookies[0].Value != "fresh" || !cookies[0].HttpOnly {
				t.Errorf("unexpected cookies %+v", cookies)
			}
		})

		t.Run("WithHeader Overrides Default", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			fb.Handle("POST /raw", func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Content-Type") != "text/plain" {
					t.Errorf("expected overridden content type, got %s", r.Header.Get("Content-Type"))
				}
			})

			srv := NewAPIService(fb.BaseURL(), nil)
			err := srv.Do(context.Background(), http.MethodPost, "/raw", []byte("hi"), nil, WithHeader("Content-Type", "text/plain"))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("Raw", func(t *testing.T) {
		t.Run("Get With JSON Response", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			fb.JSON("GET /test", http.StatusOK, map[string]string{"valid": "json"})

			srv := NewAPIService(fb.BaseURL(), nil)
			resp, err := srv.Get(context.Background(), "/test")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.OK() || !resp.IsJSON {
				t.Errorf("expected OK JSON response, got %+v", resp)
			}
			jsonMap, ok := resp.JSONData.(map[string]any)
			if !ok || jsonMap["valid"] != "json" {
				t.Errorf("unexpected JSONData %v", resp.JSONData)
			}
		})

		t.Run("Error Status Is Not An Error", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			fb.JSON("GET /missing", http.StatusNotFound, `plain text`)

			srv := NewAPIService(fb.BaseURL(), nil)
			resp, err := srv.Get(context.Background(), "/missing")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.OK() || resp.StatusCode != http.StatusNotFound {
				t.Errorf("expected 404, got %d", resp.StatusCode)
			}
			if resp.IsJSON || string(resp.Body) != "plain text" {
				t.Errorf("expected raw text body, got %q", resp.Body)
			}
		})

		t.Run("Post Empty Request Body", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			fb.JSON("POST /test", http.StatusOK, nil)

			srv := NewAPIService(fb.BaseURL(), nil)
			if _, err := srv.Post(context.Background(), "/test", nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if body := fb.LastRequest(t).Body; body != "" {
				t.Errorf("expected empty body, got %q", body)
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			srv := NewAPIService("http://example.com", nil)
			_, err := srv.Get(context.Background(), "/test\x00invalid")

			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			srv := NewAPIService("http://example.com", client)
			_, err := srv.Post(context.Background(), "/test", []byte("{}"))

			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})

		t.Run("With Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			srv := NewAPIService(server.URL, nil)
			if _, err := srv.Get(ctx, "/test"); err == nil {
				t.Error("expected error for canceled context")
			}
		})
	})
}
