package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/repositories"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/shared"
	tu "github.com/desertthunder/lyrix/internal/testing"
	"github.com/urfave/cli/v3"
)

type fakeSession struct {
	cleared bool
	err     error
}

func (f *fakeSession) Clear() error {
	f.cleared = true
	return f.err
}

func newTestRunner(t *testing.T, fb *tu.FakeBackend, client *http.Client) (*Runner, *bytes.Buffer) {
	t.Helper()
	if client == nil {
		client = fb.Client()
	}
	config := shared.DefaultConfig()
	config.API.BaseURL = fb.BaseURL()
	config.Database.Path = filepath.Join(t.TempDir(), "lyrix.db")

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: config,
		API:    services.NewAPIService(fb.BaseURL(), client),
		Logger: log.New(io.Discard),
		Output: output,
	})
	return runner, output
}

func run(r *Runner, args ...string) error {
	app := &cli.Command{Name: "lyrix", Commands: r.register(), Writer: io.Discard, ErrWriter: io.Discard}
	return app.Run(context.Background(), append([]string{"lyrix"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			api := &services.APIService{}
			session := &fakeSession{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				API:        api,
				Session:    session,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.session != session {
				t.Error("expected session to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.api == nil || runner.api.BaseURL() != runner.config.API.BaseURL {
				t.Error("expected api to point at the configured base URL")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"setup", "auth", "songs", "history", "playlist", "api", "serve", "tui"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			if cmd.Name != want[i] {
				t.Errorf("command %d: expected %q, got %q", i, want[i], cmd.Name)
			}
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("login persists the session cookie", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.Handle("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "jwt", Value: "tok", Path: "/"})
			tu.JSONHandler(http.StatusOK, models.LoginResponse{
				Message: "ok",
				User:    models.User{ID: 1, Username: "ana", Email: "ana@example.com"},
			})(w, r)
		})
		fb.JSON("GET /users/me", http.StatusOK, models.User{ID: 1, Username: "ana"})

		dbPath := filepath.Join(t.TempDir(), "lyrix.db")
		openJar := func() (*repositories.PersistentJar, func()) {
			db, err := shared.OpenMigrated(shared.DatabaseConfig{Path: dbPath, MaxOpenConns: 1, MaxIdleConns: 1})
			if err != nil {
				t.Fatalf("failed to open database: %v", err)
			}
			jar, err := repositories.NewPersistentJar(repositories.NewCookieRepository(db), log.New(io.Discard))
			if err != nil {
				t.Fatalf("failed to create jar: %v", err)
			}
			return jar, func() { db.Close() }
		}

		jar, closeDB := openJar()
		runner, output := newTestRunner(t, fb, &http.Client{Jar: jar})
		if err := run(runner, "auth", "login", "--email", "ana@example.com", "--password", "pw"); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		closeDB()

		if !strings.Contains(output.String(), "Signed in as ana") {
			t.Errorf("unexpected output %q", output.String())
		}

		reopened, closeDB := openJar()
		defer closeDB()
		runner, _ = newTestRunner(t, fb, &http.Client{Jar: reopened})
		if err := run(runner, "auth", "whoami"); err != nil {
			t.Fatalf("whoami failed: %v", err)
		}
		if got := fb.LastRequest(t).Cookie; got != "jwt=tok" {
			t.Errorf("expected saved cookie on next run, got %q", got)
		}
	})

	t.Run("login failure wraps ErrAuthFailed", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("POST /auth/login", http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})

		runner, _ := newTestRunner(t, fb, nil)
		err := run(runner, "auth", "login", "-e", "ana@example.com", "-p", "bad")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("logout clears the session even when the backend fails", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("POST /auth/logout", http.StatusInternalServerError, map[string]string{"detail": "boom"})

		runner, output := newTestRunner(t, fb, nil)
		session := &fakeSession{}
		runner.session = session

		if err := run(runner, "auth", "logout"); err != nil {
			t.Fatalf("logout failed: %v", err)
		}
		if !session.cleared {
			t.Error("expected session to be cleared")
		}
		if !strings.Contains(output.String(), "Signed out") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("whoami without a session suggests login", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("GET /users/me", http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})

		runner, _ := newTestRunner(t, fb, nil)
		err := run(runner, "auth", "whoami")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
		if !strings.Contains(err.Error(), "lyrix auth login") {
			t.Errorf("expected login hint, got %v", err)
		}
	})
}

func TestSongsCommands(t *testing.T) {
	t.Run("explain parses songs and saves history", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("POST /songs/explain", http.StatusOK, models.ExplainResponse{
			Total: 2,
			Results: []models.ExplainResult{
				{ID: 1, SongTitle: "Hurt", SongArtist: "NIN", Interpretation: "regret", Emotion: models.EmotionResult{Emotion: "sadness", Confidence: 0.9}},
				{ID: 2, SongTitle: "Nope", SongArtist: "Nobody", Error: "lyrics not found"},
			},
		})
		fb.JSON("POST /history", http.StatusCreated, models.HistoryResponse{ID: 7, SongTitle: "Hurt", SongArtist: "NIN"})

		runner, output := newTestRunner(t, fb, nil)
		mdPath := filepath.Join(t.TempDir(), "out.md")
		err := run(runner, "songs", "explain", "-s", "NIN - Hurt", "-s", "Nobody - Nope", "--save", "-o", mdPath)
		if err != nil {
			t.Fatalf("explain failed: %v", err)
		}

		out := output.String()
		for _, want := range []string{"NIN - Hurt", "regret", "lyrics not found", "Explained 1/2 songs", "Saved 1 to history"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got %q", want, out)
			}
		}

		var saves int
		for _, req := range fb.Requests() {
			if req.Method == http.MethodPost && req.Path == "/history" {
				saves++
			}
		}
		if saves != 1 {
			t.Errorf("expected 1 history save, got %d", saves)
		}
		tu.AssertFileExists(t, mdPath)
	})

	t.Run("explain rejects malformed songs", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		runner, _ := newTestRunner(t, fb, nil)

		err := run(runner, "songs", "explain", "-s", "just a title")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if len(fb.Requests()) != 0 {
			t.Error("expected no backend calls")
		}
	})

	t.Run("search requires a query", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		runner, _ := newTestRunner(t, fb, nil)

		if err := run(runner, "songs", "search"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("search prints artist and title", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("GET /songs/search", http.StatusOK, []models.SongSearchResult{{ID: 1, Title: "Hurt", Artist: "NIN"}})

		runner, output := newTestRunner(t, fb, nil)
		if err := run(runner, "songs", "search", "--limit", "3", "hurt"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if !strings.Contains(output.String(), "NIN - Hurt") {
			t.Errorf("unexpected output %q", output.String())
		}
		if q := fb.LastRequest(t).Query; !strings.Contains(q, "limit=3") {
			t.Errorf("expected limit in query, got %q", q)
		}
	})
}

func TestHistoryCommands(t *testing.T) {
	t.Run("get rejects a non-numeric id", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		runner, _ := newTestRunner(t, fb, nil)

		if err := run(runner, "history", "get", "abc"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("get maps 404 to ErrNotFound", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("GET /history/{id}", http.StatusNotFound, map[string]string{"detail": "History not found"})
		runner, _ := newTestRunner(t, fb, nil)

		if err := run(runner, "history", "get", "9"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("get renders markdown", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("GET /history/{id}", http.StatusOK, models.HistoryResponse{ID: 3, SongTitle: "Hurt", SongArtist: "NIN", Interpretation: "regret"})
		runner, output := newTestRunner(t, fb, nil)

		if err := run(runner, "history", "get", "--markdown", "3"); err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !strings.Contains(output.String(), "regret") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("list passes paging", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("GET /history", http.StatusOK, []models.HistoryListItem{{ID: 1, SongTitle: "Hurt", SongArtist: "NIN", Emotion: "sadness"}})
		runner, output := newTestRunner(t, fb, nil)

		if err := run(runner, "history", "list", "--skip", "20", "--limit", "5"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		q := fb.LastRequest(t).Query
		if !strings.Contains(q, "skip=20") || !strings.Contains(q, "limit=5") {
			t.Errorf("expected paging in query, got %q", q)
		}
		if !strings.Contains(output.String(), "NIN - Hurt (sadness)") {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}

func TestPlaylistCommands(t *testing.T) {
	t.Run("create without a title numbers after existing defaults", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("GET /playlist", http.StatusOK, []models.Playlist{{ID: 1, Title: "My Playlist #3"}, {ID: 2, Title: "Road trip"}})
		fb.JSON("POST /playlist", http.StatusCreated, models.Playlist{ID: 3, Title: "My Playlist #4"})
		runner, output := newTestRunner(t, fb, nil)

		if err := run(runner, "playlist", "create"); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if body := fb.LastRequest(t).Body; !strings.Contains(body, `"title":"My Playlist #4"`) {
			t.Errorf("unexpected create body %s", body)
		}
		if !strings.Contains(output.String(), "Created playlist 3") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("update requires a field", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		runner, _ := newTestRunner(t, fb, nil)

		if err := run(runner, "playlist", "update", "1"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("remove-song targets the saved song", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("DELETE /playlist/{id}/songs/{songId}", http.StatusOK, models.MessageResponse{Message: "removed"})
		runner, _ := newTestRunner(t, fb, nil)

		if err := run(runner, "playlist", "remove-song", "4", "11"); err != nil {
			t.Fatalf("remove-song failed: %v", err)
		}
		if req := fb.LastRequest(t); req.Method != http.MethodDelete || req.Path != "/playlist/4/songs/11" {
			t.Errorf("unexpected request %s %s", req.Method, req.Path)
		}
	})

	t.Run("export writes files and a manifest", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("GET /playlist/{id}", http.StatusOK, models.PlaylistWithSongs{
			Playlist: models.Playlist{ID: 4, Title: "Road trip"},
			Songs:    []models.SavedSong{{ID: 1, SongTitle: "Hurt", SongArtist: "NIN"}},
		})
		runner, output := newTestRunner(t, fb, nil)
		dir := t.TempDir()

		if err := run(runner, "playlist", "export", "--format", "csv", "--output", dir, "--rate", "100", "4"); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
		if !strings.Contains(output.String(), "Exported: 1/1") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("export rejects a bad format before calling the backend", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		runner, _ := newTestRunner(t, fb, nil)

		if err := run(runner, "playlist", "export", "--format", "xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if len(fb.Requests()) != 0 {
			t.Error("expected no backend calls")
		}
	})
}

func TestAPICommands(t *testing.T) {
	t.Run("get prints JSON and adds a leading slash", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("GET /users/me", http.StatusOK, map[string]any{"id": 1})
		runner, output := newTestRunner(t, fb, nil)

		if err := run(runner, "api", "get", "--json", "users/me"); err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got := output.String(); got != `{"id":1}`+"\n" {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("non-2xx is an API error", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("GET /nope", http.StatusTeapot, "short and stout")
		runner, _ := newTestRunner(t, fb, nil)

		err := run(runner, "api", "get", "/nope")
		if !errors.Is(err, shared.ErrAPIRequest) || !strings.Contains(err.Error(), "418") {
			t.Errorf("expected API error with status, got %v", err)
		}
	})

	t.Run("post rejects invalid JSON", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		runner, _ := newTestRunner(t, fb, nil)

		if err := run(runner, "api", "post", "-d", "{nope", "/history"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("database runs migrations", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		runner, output := newTestRunner(t, fb, nil)

		if err := run(runner, "setup", "database"); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		tu.AssertFileExists(t, runner.config.Database.Path)
		if !strings.Contains(output.String(), "Database ready") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("config refuses to overwrite", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		runner, _ := newTestRunner(t, fb, nil)
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := run(runner, "setup", "config", "-c", path); err != nil {
			t.Fatalf("first setup failed: %v", err)
		}
		if _, err := shared.LoadConfig(path); err != nil {
			t.Fatalf("written config does not load: %v", err)
		}
		if err := run(runner, "setup", "config", "-c", path); err == nil {
			t.Error("expected error for existing config")
		}
	})
}

func TestBrowsableAddr(t *testing.T) {
	tests := []struct{ in, want string }{
		{":3000", "localhost:3000"},
		{"0.0.0.0:8080", "localhost:8080"},
		{"127.0.0.1:3000", "127.0.0.1:3000"},
	}
	for _, tt := range tests {
		if got := browsableAddr(tt.in); got != tt.want {
			t.Errorf("browsableAddr(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWebClient(t *testing.T) {
	client := webClient()
	if client.Timeout != 0 {
		t.Errorf("expected no client timeout, got %s", client.Timeout)
	}
	if client.Jar != nil {
		t.Error("web client must not share a cookie jar")
	}
}
