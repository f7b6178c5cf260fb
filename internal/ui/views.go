package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/lyrix/internal/formatter"
	"github.com/desertthunder/lyrix/internal/tasks"
)

// View renders the sidebar next to the current view, or over it on narrow terminals.
func (m *Model) View() string {
	main := m.renderMain()

	if !m.sidebar.Visible() {
		return main
	}

	sidebar := m.renderSidebar()
	if m.sidebar.IsMobile() {
		return sidebar
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
}

func (m *Model) renderSidebar() string {
	style := styles.sidebar
	if m.focus == focusSidebar {
		style = styles.focused
	}

	var b strings.Builder
	if u := m.auth.User(); u != nil {
		b.WriteString(styles.muted.Render(u.Username))
		b.WriteString("\n\n")
	}
	if m.playlists.Loading() {
		b.WriteString(m.spinner.View() + " loading playlists")
	} else if len(m.playlists.Playlists()) == 0 {
		b.WriteString(styles.muted.Render("No playlists yet\npress tab then n"))
	} else {
		b.WriteString(m.sidebarList.View())
	}

	width := SidebarWidth
	if m.sidebar.IsMobile() {
		width = max(m.width-2, 10)
	}
	return style.Width(width).Render(b.String())
}

func (m *Model) renderMain() string {
	var body string
	switch m.view {
	case SearchView:
		body = m.renderSearch()
	case ExplainView:
		body = m.renderExplain()
	case HistoryView:
		body = m.renderHistory()
	case PlaylistView:
		body = m.renderPlaylist()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.title.Render("lyrix"),
		body,
		m.renderStatus(),
		m.renderHelp(),
	)
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.searching {
		b.WriteString(m.spinner.View() + " searching...\n")
	} else if len(m.hits.Items()) > 0 {
		b.WriteString(m.hits.View())
		b.WriteString("\n")
	}

	save := "off"
	if m.saveHistory {
		save = "on"
	}
	fmt.Fprintf(&b, "\nSelected (%d) · save to history: %s\n", m.selection.Count(), save)
	for i, song := range m.selection.Songs() {
		fmt.Fprintf(&b, "  %d. %s - %s\n", i+1, song.Artist, song.Title)
	}

	if m.selection.Loading() {
		fmt.Fprintf(&b, "\n%s %s", m.spinner.View(), progressText(m.progress))
	}
	return b.String()
}

func progressText(p tasks.ProgressUpdate) string {
	if p.Message != "" {
		return p.Message
	}
	switch p.Phase {
	case tasks.SaveHistory:
		return fmt.Sprintf("Saving to history (%d/%d)", p.Step, p.Total)
	default:
		return "Explaining..."
	}
}

func (m *Model) renderExplain() string {
	if m.explained == nil || len(m.explained.Results) == 0 {
		return styles.muted.Render("Nothing explained yet")
	}

	var b strings.Builder
	b.WriteString(m.results.View())

	if item, ok := m.results.SelectedItem().(resultItem); ok {
		r := item.result
		b.WriteString("\n\n")
		if r.Failed() {
			b.WriteString(styles.err.Render(r.Error))
		} else {
			for _, label := range formatter.RankedEmotions(r.Emotion.AllEmotions) {
				fmt.Fprintf(&b, "  %-12s %.2f\n", label, r.Emotion.AllEmotions[label])
			}
			if r.Interpretation != "" {
				b.WriteString("\n" + wrap(r.Interpretation, m.mainWidth()))
			}
		}
	}
	return b.String()
}

func (m *Model) renderHistory() string {
	if len(m.history.Items()) == 0 {
		return styles.muted.Render("No saved explanations yet")
	}

	var b strings.Builder
	b.WriteString(m.history.View())
	if e := m.entry; e != nil {
		fmt.Fprintf(&b, "\n\n%s\n", styles.ok.Render(fmt.Sprintf("%s - %s", e.SongArtist, e.SongTitle)))
		if e.Emotion != "" {
			fmt.Fprintf(&b, "Emotion: %s\n", e.Emotion)
		}
		if e.Interpretation != "" {
			b.WriteString("\n" + wrap(e.Interpretation, m.mainWidth()))
		}
	}
	return b.String()
}

func (m *Model) renderPlaylist() string {
	if m.playlist == nil {
		return styles.muted.Render("No playlist selected")
	}

	var b strings.Builder
	if m.playlist.Description != "" {
		b.WriteString(styles.muted.Render(m.playlist.Description) + "\n")
	}
	if len(m.playlist.Songs) == 0 {
		b.WriteString(styles.muted.Render("No songs yet. Explain songs and press a to add them here."))
		return b.String()
	}
	b.WriteString(m.songs.View())
	return b.String()
}

func (m *Model) renderStatus() string {
	switch {
	case m.confirm != nil:
		return styles.warn.Render(m.confirm.prompt + " (y/n)")
	case m.err != nil:
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.status != "":
		return styles.ok.Render(m.status)
	}
	return ""
}

func (m *Model) renderHelp() string {
	var bindings []key.Binding
	switch {
	case m.confirm != nil:
		bindings = []key.Binding{m.keys.yes, m.keys.no}
	case m.input.Focused():
		bindings = []key.Binding{m.keys.enter, m.keys.back, m.keys.sidebar}
	case m.focus == focusSidebar:
		bindings = []key.Binding{m.keys.enter, m.keys.create, m.keys.delete, m.keys.focus, m.keys.sidebar, m.keys.quit}
	case m.view == SearchView:
		bindings = []key.Binding{m.keys.search, m.keys.enter, m.keys.remove, m.keys.clear, m.keys.save, m.keys.explain, m.keys.history, m.keys.sidebar, m.keys.quit}
	case m.view == ExplainView:
		bindings = []key.Binding{m.keys.addTo, m.keys.back, m.keys.history, m.keys.sidebar, m.keys.quit}
	case m.view == HistoryView:
		bindings = []key.Binding{m.keys.enter, m.keys.delete, m.keys.refresh, m.keys.back, m.keys.quit}
	case m.view == PlaylistView:
		bindings = []key.Binding{m.keys.remove, m.keys.refresh, m.keys.back, m.keys.quit}
	}
	return styles.help.Render(m.help.ShortHelpView(bindings))
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(max(width-2, 20)).Render(strings.TrimSpace(s))
}
