package ui

import (
	"context"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/stores"
	tu "github.com/desertthunder/lyrix/internal/testing"
)

func newTestModel(t *testing.T, fb *tu.FakeBackend) *Model {
	t.Helper()
	m := NewModel(context.Background(), ModelOpts{
		API: services.NewAPIService(fb.BaseURL(), fb.Client()),
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// run executes cmd and feeds every resulting [Msg] back into the model, following batches and progress chains.
func run(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			run(m, c)
		}
	case Msg:
		_, next := m.Update(msg)
		run(m, next)
	}
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "ctrl+b":
			msg = tea.KeyMsg{Type: tea.KeyCtrlB}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := m.Update(msg)
		run(m, cmd)
	}
}

func TestModelSidebar(t *testing.T) {
	t.Run("ctrl+b collapses on wide terminals", func(t *testing.T) {
		m := newTestModel(t, tu.NewFakeBackend(t))

		press(m, "ctrl+b")

		if m.sidebar.Open() || m.sidebar.Visible() {
			t.Error("expected sidebar collapsed")
		}
		if m.input.Value() != "" {
			t.Error("shortcut must not reach the search input")
		}
	})

	t.Run("ctrl+b opens the overlay on narrow terminals", func(t *testing.T) {
		m := newTestModel(t, tu.NewFakeBackend(t))
		m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})

		if m.sidebar.Visible() {
			t.Fatal("mobile sidebar should start hidden")
		}
		press(m, "ctrl+b")
		if !m.sidebar.OpenMobile() || !m.sidebar.Open() {
			t.Error("expected mobile overlay open with desktop state untouched")
		}
	})

	t.Run("playlists fill the sidebar", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("GET /playlist", http.StatusOK, []models.Playlist{{ID: 1, Title: "My Playlist #1"}, {ID: 2, Title: "Road trip"}})
		m := newTestModel(t, fb)

		run(m, m.fetchPlaylists())

		if got := len(m.sidebarList.Items()); got != 2 {
			t.Errorf("expected 2 sidebar items, got %d", got)
		}
		if !strings.Contains(m.View(), "Road trip") {
			t.Error("expected playlist title in view")
		}
		if m.playlists.Loading() {
			t.Error("expected loading cleared")
		}
	})

	t.Run("new playlist uses the next default title", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("GET /playlist", http.StatusOK, []models.Playlist{{ID: 1, Title: "My Playlist #2"}})
		fb.JSON("POST /playlist", http.StatusCreated, models.Playlist{ID: 5, Title: "My Playlist #3"})
		m := newTestModel(t, fb)
		run(m, m.fetchPlaylists())
		m.input.Blur()

		press(m, "tab", "n")

		if body := fb.LastRequest(t).Body; body != `{"title":"My Playlist #3"}` {
			t.Errorf("unexpected create body %s", body)
		}
		if got := m.playlists.Playlists(); len(got) != 2 || got[0].ID != 5 {
			t.Errorf("expected new playlist prepended, got %+v", got)
		}
	})
}

func TestModelSearchAndExplain(t *testing.T) {
	fb := tu.NewFakeBackend(t)
	fb.JSON("GET /songs/search", http.StatusOK, []models.SongSearchResult{
		{ID: 1, Title: "Hurt", Artist: "Johnny Cash"},
		{ID: 2, Title: "Hallelujah", Artist: "Jeff Buckley"},
	})
	fb.JSON("POST /songs/explain", http.StatusOK, models.ExplainResponse{
		Results: []models.ExplainResult{{ID: 1, SongTitle: "Hurt", SongArtist: "Johnny Cash", Interpretation: "Regret"}},
		Total:   1,
	})
	fb.JSON("POST /history", http.StatusCreated, models.HistoryResponse{ID: 9})
	m := newTestModel(t, fb)

	press(m, "h", "u", "r", "t", "enter")

	if m.input.Focused() {
		t.Error("enter should leave the search input")
	}
	if got := len(m.hits.Items()); got != 2 {
		t.Fatalf("expected 2 hits, got %d", got)
	}

	press(m, "enter", "enter")
	if m.selection.Count() != 1 {
		t.Errorf("duplicate add should be a no-op, count=%d", m.selection.Count())
	}
	if hit := m.hits.Items()[0].(hitItem); !hit.selected {
		t.Error("expected first hit marked selected")
	}

	press(m, "e")

	if m.view != ExplainView {
		t.Fatalf("expected explain view, got %v (err %v)", m.view, m.err)
	}
	if m.explained == nil || len(m.explained.Saved) != 1 {
		t.Errorf("expected one saved history entry, got %+v", m.explained)
	}
	if m.selection.Loading() {
		t.Error("expected loading cleared after explain")
	}
	if !strings.Contains(m.View(), "Regret") {
		t.Error("expected interpretation in view")
	}
}

func TestModelSelectionKeys(t *testing.T) {
	m := newTestModel(t, tu.NewFakeBackend(t))
	m.input.Blur()

	run(m, func() tea.Msg {
		return songsFoundMsg([]models.SongSearchResult{{ID: 4, Title: "Song", Artist: "Band"}}, nil)
	})

	press(m, "enter")
	if !m.selection.Contains("Song", "Band") {
		t.Fatal("expected song selected")
	}

	press(m, "x")
	if m.selection.HasSongs() {
		t.Error("expected song removed")
	}

	press(m, "s")
	if m.saveHistory {
		t.Error("expected save toggled off")
	}

	press(m, "e")
	if m.view != SearchView || !strings.Contains(m.status, "Select at least one song") {
		t.Errorf("explain with empty selection should stay put, status %q", m.status)
	}
}

func TestModelErrors(t *testing.T) {
	t.Run("rejected session hints at login", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("GET /users/me", http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
		m := newTestModel(t, fb)

		run(m, m.fetchUser())

		if m.auth.IsAuthenticated() {
			t.Error("expected no user")
		}
		if m.err == nil || !strings.Contains(m.err.Error(), "lyrix auth login") {
			t.Errorf("expected login hint, got %v", m.err)
		}
	})

	t.Run("playlist load failure leaves the sidebar empty", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("GET /playlist", http.StatusInternalServerError, "boom")
		m := newTestModel(t, fb)

		run(m, m.fetchPlaylists())

		if len(m.playlists.Playlists()) != 0 || m.err != nil {
			t.Errorf("expected silent empty sidebar, err=%v", m.err)
		}
	})
}

func TestModelConfirm(t *testing.T) {
	fb := tu.NewFakeBackend(t)
	fb.JSON("DELETE /history/3", http.StatusOK, models.MessageResponse{Message: "deleted"})
	fb.JSON("GET /history", http.StatusOK, []models.HistoryListItem{})
	m := NewModel(context.Background(), ModelOpts{
		API:       services.NewAPIService(fb.BaseURL(), fb.Client()),
		Playlists: stores.NewPlaylistStore(),
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.input.Blur()
	m.view = HistoryView
	run(m, func() tea.Msg {
		return historyFetchedMsg([]models.HistoryListItem{{ID: 3, SongTitle: "Hurt"}}, nil)
	})

	press(m, "d")
	if m.confirm == nil {
		t.Fatal("expected confirmation prompt")
	}

	press(m, "n")
	if m.confirm != nil || len(fb.Requests()) != 0 {
		t.Fatal("cancel should not call the backend")
	}

	press(m, "d", "y")
	if _, ok := lastDelete(fb); !ok {
		t.Error("expected DELETE /history/3")
	}
	if m.status != "History entry deleted" {
		t.Errorf("unexpected status %q", m.status)
	}
}

func lastDelete(fb *tu.FakeBackend) (tu.RecordedRequest, bool) {
	for _, req := range fb.Requests() {
		if req.Method == http.MethodDelete && req.Path == "/history/3" {
			return req, true
		}
	}
	return tu.RecordedRequest{}, false
}
