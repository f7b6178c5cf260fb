package repositories

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/lyrix/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenMigrated(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestCookieRepository(t *testing.T) {
	t.Run("Save And List", func(t *testing.T) {
		repo := NewCookieRepository(setupTestDB(t))

		if err := repo.Save("localhost:8000", &http.Cookie{Name: "jwt", Value: "one", HttpOnly: true}); err != nil {
			t.Fatalf("failed to save cookie: %v", err)
		}

		cookies, err := repo.List("localhost:8000")
		if err != nil {
			t.Fatalf("failed to list cookies: %v", err)
		}
		if len(cookies) != 1 {
			t.Fatalf("expected 1 cookie, got %d", len(cookies))
		}
		if c := cookies[0]; c.Value != "one" || c.Path != "/" || !c.HttpOnly || c.Secure {
			t.Errorf("unexpected cookie %+v", c)
		}
	})

	t.Run("Save Replaces Existing", func(t *testing.T) {
		repo := NewCookieRepository(setupTestDB(t))

		repo.Save("h", &http.Cookie{Name: "jwt", Value: "old"})
		if err := repo.Save("h", &http.Cookie{Name: "jwt", Value: "new"}); err != nil {
			t.Fatalf("failed to save cookie: %v", err)
		}

		cookies, _ := repo.List("h")
		if len(cookies) != 1 || cookies[0].Value != "new" {
			t.Errorf("expected single replaced cookie, got %+v", cookies)
		}
	})

	t.Run("Expired Cookies Are Hidden And Purged", func(t *testing.T) {
		repo := NewCookieRepository(setupTestDB(t))

		repo.Save("h", &http.Cookie{Name: "stale", Value: "x", Expires: time.Now().Add(-time.Hour)})
		repo.Save("h", &http.Cookie{Name: "fresh", Value: "y", Expires: time.Now().Add(time.Hour)})

		all, err := repo.All()
		if err != nil {
			t.Fatalf("failed to list cookies: %v", err)
		}
		if len(all) != 1 || all[0].Cookie.Name != "fresh" {
			t.Errorf("expected only fresh cookie, got %+v", all)
		}

		purged, err := repo.PurgeExpired(time.Now())
		if err != nil {
			t.Fatalf("failed to purge: %v", err)
		}
		if purged != 1 {
			t.Errorf("expected 1 purged cookie, got %d", purged)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewCookieRepository(setupTestDB(t))
		repo.Save("h", &http.Cookie{Name: "jwt", Value: "v"})

		if err := repo.Delete("h", "jwt", ""); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if err := repo.Delete("h", "jwt", "/"); !errors.Is(err, ErrCookieNotFound) {
			t.Errorf("expected ErrCookieNotFound, got %v", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewCookieRepository(setupTestDB(t))
		repo.Save("a", &http.Cookie{Name: "one", Value: "1"})
		repo.Save("b", &http.Cookie{Name: "two", Value: "2"})

		if err := repo.Clear(); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		all, _ := repo.All()
		if len(all) != 0 {
			t.Errorf("expected no cookies, got %d", len(all))
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewCookieRepository(db)
		db.Close()

		if err := repo.Save("h", &http.Cookie{Name: "n", Value: "v"}); err == nil {
			t.Error("expected save error on closed database")
		}
		if _, err := repo.All(); err == nil {
			t.Error("expected query error on closed database")
		}
	})
}

func TestPersistentJar(t *testing.T) {
	login, _ := url.Parse("http://localhost:8000/api/v1/auth/login")
	me, _ := url.Parse("http://localhost:8000/api/v1/users/me")

	t.Run("Cookies Survive Restart", func(t *testing.T) {
		repo := NewCookieRepository(setupTestDB(t))

		jar, err := NewPersistentJar(repo, quietLogger())
		if err != nil {
			t.Fatalf("failed to create jar: %v", err)
		}
		jar.SetCookies(login, []*http.Cookie{{Name: "jwt", Value: "token", Path: "/", MaxAge: 3600, HttpOnly: true}})

		reopened, err := NewPersistentJar(repo, quietLogger())
		if err != nil {
			t.Fatalf("failed to reopen jar: %v", err)
		}

		cookies := reopened.Cookies(me)
		if len(cookies) != 1 || cookies[0].Name != "jwt" || cookies[0].Value != "token" {
			t.Errorf("expected persisted jwt cookie, got %+v", cookies)
		}
	})

	t.Run("Default Path Is Request Directory", func(t *testing.T) {
		repo := NewCookieRepository(setupTestDB(t))
		jar, _ := NewPersistentJar(repo, quietLogger())

		jar.SetCookies(login, []*http.Cookie{{Name: "scoped", Value: "v"}})

		cookies, _ := repo.List("localhost:8000")
		if len(cookies) != 1 || cookies[0].Path != "/api/v1/auth" {
			t.Errorf("expected cookie stored under request directory, got %+v", cookies)
		}
	})

	t.Run("Expiring Cookie Removes Stored Copy", func(t *testing.T) {
		repo := NewCookieRepository(setupTestDB(t))
		jar, _ := NewPersistentJar(repo, quietLogger())

		jar.SetCookies(login, []*http.Cookie{{Name: "jwt", Value: "token", Path: "/"}})
		jar.SetCookies(login, []*http.Cookie{{Name: "jwt", Value: "", Path: "/", MaxAge: -1}})

		if got := jar.Cookies(me); len(got) != 0 {
			t.Errorf("expected jar to drop cookie, got %+v", got)
		}
		if stored, _ := repo.List("localhost:8000"); len(stored) != 0 {
			t.Errorf("expected stored cookie to be deleted, got %+v", stored)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewCookieRepository(setupTestDB(t))
		jar, _ := NewPersistentJar(repo, quietLogger())
		jar.SetCookies(login, []*http.Cookie{{Name: "jwt", Value: "token", Path: "/"}})

		if err := jar.Clear(); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if got := jar.Cookies(me); len(got) != 0 {
			t.Errorf("expected empty jar, got %+v", got)
		}
		if stored, _ := repo.All(); len(stored) != 0 {
			t.Errorf("expected empty table, got %+v", stored)
		}
	})

	t.Run("Works As Client Jar", func(t *testing.T) {
		repo := NewCookieRepository(setupTestDB(t))
		jar, _ := NewPersistentJar(repo, quietLogger())
		client := &http.Client{Jar: jar}

		if client.Jar == nil {
			t.Fatal("expected jar to be assignable to http.Client")
		}
	})
}

func TestDefaultPath(t *testing.T) {
	tc := map[string]string{
		"":                   "/",
		"relative":           "/",
		"/":                  "/",
		"/login":             "/",
		"/api/v1/auth/login": "/api/v1/auth",
	}

	for in, want := range tc {
		if got := defaultPath(in); got != want {
			t.Errorf("defaultPath(%q) = %q, want %q", in, got, want)
		}
	}
}
