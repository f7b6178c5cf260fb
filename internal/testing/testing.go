// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
)

// FakeBackend is an httptest server standing in for the lyrix backend API.
//
// Routes use [http.ServeMux] patterns relative to the API prefix, e.g. "GET /users/me".
// Every request is recorded so tests can assert on method, path, cookies and body.
type FakeBackend struct {
	*httptest.Server
	mux *http.ServeMux

	mu       sync.Mutex
	requests []RecordedRequest
}

// RecordedRequest is a request seen by a [FakeBackend].
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
	Cookie string
}

// NewFakeBackend starts a [FakeBackend] that is closed when the test ends.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	fb := &FakeBackend{mux: http.NewServeMux()}
	fb.Server = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.Close)
	return fb
}

// BaseURL returns the API base URL to configure clients with.
func (fb *FakeBackend) BaseURL() string {
	return fb.Server.URL + APIPrefix
}

// APIPrefix is the path prefix the fake serves under, matching the default backend.
const APIPrefix = "/api/v1"

// Handle registers handler for pattern.
func (fb *FakeBackend) Handle(pattern string, handler http.HandlerFunc) {
	method, path, ok := strings.Cut(pattern, " ")
	if !ok {
		fb.mux.HandleFunc(APIPrefix+pattern, handler)
		return
	}
	fb.mux.HandleFunc(method+" "+APIPrefix+path, handler)
}

// JSON registers a route that always replies with status and the JSON encoding of body.
func (fb *FakeBackend) JSON(pattern string, status int, body any) {
	fb.Handle(pattern, JSONHandler(status, body))
}

// Requests returns a copy of the requests received so far.
func (fb *FakeBackend) Requests() []RecordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]RecordedRequest, len(fb.requests))
	copy(out, fb.requests)
	return out
}

// LastRequest returns the most recent request, failing the test when there is none.
func (fb *FakeBackend) LastRequest(t *testing.T) RecordedRequest {
	t.Helper()
	reqs := fb.Requests()
	if len(reqs) == 0 {
		t.Fatal("fake backend received no requests")
	}
	return reqs[len(reqs)-1]
}

func (fb *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	fb.mu.Lock()
	fb.requests = append(fb.requests, RecordedRequest{
		Method: r.Method,
		Path:   strings.TrimPrefix(r.URL.Path, APIPrefix),
		Query:  r.URL.RawQuery,
		Body:   string(body),
		Cookie: r.Header.Get("Cookie"),
	})
	fb.mu.Unlock()

	fb.mux.ServeHTTP(w, r)
}

// JSONHandler replies with status and the JSON encoding of body. A string body is written verbatim.
func JSONHandler(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		switch b := body.(type) {
		case nil:
		case string:
			io.WriteString(w, b)
		default:
			json.NewEncoder(w).Encode(b)
		}
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
