package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/desertthunder/lyrix/internal/stores"
	"github.com/desertthunder/lyrix/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	ExplainView
	HistoryView
	PlaylistView
)

type focusArea int

const (
	focusMain focusArea = iota
	focusSidebar
)

// SidebarWidth is the width, in columns, of the playlist sidebar next to the main view.
const SidebarWidth = 30

// ModelOpts configures [NewModel]. Nil stores are created empty.
type ModelOpts struct {
	API          services.Backend
	Auth         *stores.AuthStore
	Explain      *stores.ExplainStore
	Playlists    *stores.PlaylistStore
	Logger       *log.Logger
	Breakpoint   int
	ShortcutKey  string
	LanguageCode string
}

// confirmation is an action waiting for y/n.
type confirmation struct {
	prompt string
	run    func() tea.Cmd
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	api    services.Backend
	engine *tasks.ExplainEngine
	logger *log.Logger

	auth      *stores.AuthStore
	selection *stores.ExplainStore
	playlists *stores.PlaylistStore
	sidebar   *Sidebar

	view   ViewState
	focus  focusArea
	width  int
	height int

	input       textinput.Model
	hits        list.Model
	results     list.Model
	history     list.Model
	songs       list.Model
	sidebarList list.Model
	spinner     spinner.Model

	searching    bool
	saveHistory  bool
	language     string
	playlist     *models.PlaylistWithSongs
	entry        *models.HistoryResponse
	explained    *tasks.ExplainRunResult
	progress     tasks.ProgressUpdate
	progressChan chan tasks.ProgressUpdate
	explainDone  chan Msg
	confirm      *confirmation
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	if opts.Auth == nil {
		opts.Auth = stores.NewAuthStore()
	}
	if opts.Explain == nil {
		opts.Explain = stores.NewExplainStore()
	}
	if opts.Playlists == nil {
		opts.Playlists = stores.NewPlaylistStore()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	open, setOpen := LocalOpen(true)
	sidebar := NewSidebar(SidebarProps{
		Open:        open,
		SetOpen:     setOpen,
		ShortcutKey: opts.ShortcutKey,
		Breakpoint:  opts.Breakpoint,
	})

	input := textinput.New()
	input.Placeholder = "Search songs by title or artist"
	input.Prompt = "/ "
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	return &Model{
		ctx:         ctx,
		api:         opts.API,
		engine:      tasks.NewExplainEngine(opts.API),
		logger:      opts.Logger,
		auth:        opts.Auth,
		selection:   opts.Explain,
		playlists:   opts.Playlists,
		sidebar:     sidebar,
		view:        SearchView,
		input:       input,
		hits:        newList(nil, "Results", false),
		results:     newList(nil, "Explanations", false),
		history:     newList(nil, "History", false),
		songs:       newList(nil, "Songs", false),
		sidebarList: newList(nil, "Playlists", true),
		spinner:     s,
		saveHistory: true,
		language:    opts.LanguageCode,
		help:        help.New(),
		keys:        newKeyMap(sidebar.ShortcutKey()),
	}
}

// Init loads the signed-in user and the sidebar playlists.
func (m *Model) Init() tea.Cmd {
	m.auth.SetLoading(true)
	m.playlists.SetLoading(true)
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.fetchUser(), m.fetchPlaylists())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) busy() bool {
	return m.searching || m.auth.Loading() || m.selection.Loading() || m.playlists.Loading()
}

func (m *Model) startLoading() tea.Cmd {
	if m.busy() {
		return nil
	}
	return m.spinner.Tick
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.forceQuit) {
		return m, tea.Quit
	}

	if m.sidebar.HandleKey(KeyEventFromMsg(msg)) {
		if !m.sidebar.Visible() {
			m.focus = focusMain
		}
		m.layout()
		return m, nil
	}

	if m.confirm != nil {
		return m.handleConfirmKeys(msg)
	}

	if m.input.Focused() {
		return m.handleInputKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.focus):
		m.toggleFocus()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		m.input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.history):
		m.view = HistoryView
		m.entry = nil
		return m, m.fetchHistory()
	case key.Matches(msg, m.keys.refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.back) && m.view != SearchView:
		m.view = SearchView
		return m, nil
	}

	switch m.view {
	case SearchView:
		return m.handleSearchKeys(msg)
	case ExplainView:
		return m.handleExplainKeys(msg)
	case HistoryView:
		return m.handleHistoryKeys(msg)
	case PlaylistView:
		return m.handlePlaylistKeys(msg)
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		run := m.confirm.run
		m.confirm = nil
		return m, run()
	case key.Matches(msg, m.keys.no):
		m.confirm = nil
		m.status = "Cancelled"
	}
	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.input.Blur()
		return m, m.searchSongs(m.input.Value())
	case tea.KeyEsc:
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleSidebarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		if p, ok := m.sidebarList.SelectedItem().(playlistItem); ok {
			return m, m.loadPlaylist(p.playlist.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.create):
		return m, m.createPlaylist(m.playlists.DefaultTitle())
	case key.Matches(msg, m.keys.delete):
		if p, ok := m.sidebarList.SelectedItem().(playlistItem); ok {
			m.confirm = &confirmation{
				prompt: fmt.Sprintf("Delete playlist %q?", p.playlist.Title),
				run:    func() tea.Cmd { return m.deletePlaylist(p.playlist.ID) },
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.back):
		m.focus = focusMain
		return m, nil
	}

	var cmd tea.Cmd
	m.sidebarList, cmd = m.sidebarList.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	hit, hasHit := m.hits.SelectedItem().(hitItem)

	switch {
	case key.Matches(msg, m.keys.enter):
		if hasHit {
			if m.selection.AddSong(hit.song) {
				m.status = fmt.Sprintf("Added %s - %s", hit.song.Artist, hit.song.Title)
			} else {
				m.status = fmt.Sprintf("%s is already selected", hit.song.Title)
			}
			m.markSelected()
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if hasHit {
			m.selection.RemoveSong(hit.song.ID)
			m.markSelected()
		}
		return m, nil
	case key.Matches(msg, m.keys.clear):
		m.selection.Clear()
		m.markSelected()
		m.status = "Selection cleared"
		return m, nil
	case key.Matches(msg, m.keys.save):
		m.saveHistory = !m.saveHistory
		return m, nil
	case key.Matches(msg, m.keys.explain):
		return m, m.startExplain()
	}

	var cmd tea.Cmd
	m.hits, cmd = m.hits.Update(msg)
	return m, cmd
}

func (m *Model) handleExplainKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.addTo) {
		r, ok := m.results.SelectedItem().(resultItem)
		p, hasPlaylist := m.sidebarList.SelectedItem().(playlistItem)
		switch {
		case !ok || r.result.Failed():
			m.status = "Pick an explained song first"
		case !hasPlaylist:
			m.status = "Create a playlist first (tab, then n)"
		default:
			return m, m.addSong(p.playlist.ID, models.SongInput{Title: r.result.SongTitle, Artist: r.result.SongArtist})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item, ok := m.history.SelectedItem().(historyItem)

	switch {
	case key.Matches(msg, m.keys.enter) && ok:
		return m, m.loadHistory(item.entry.ID)
	case key.Matches(msg, m.keys.delete) && ok:
		m.confirm = &confirmation{
			prompt: fmt.Sprintf("Delete %q from history?", item.entry.SongTitle),
			run:    func() tea.Cmd { return m.deleteHistory(item.entry.ID) },
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.remove) && m.playlist != nil {
		if s, ok := m.songs.SelectedItem().(songItem); ok {
			playlistID := m.playlist.ID
			m.confirm = &confirmation{
				prompt: fmt.Sprintf("Remove %q from %s?", s.song.SongTitle, m.playlist.Title),
				run:    func() tea.Cmd { return m.removeSong(playlistID, s.song.ID) },
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.songs, cmd = m.songs.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgUserLoaded:
		r := msg.data.(outcome[*models.User])
		m.auth.SetLoading(false)
		if r.err != nil {
			m.auth.Clear()
			m.fail(r.err)
			return m, nil
		}
		m.auth.SetUser(r.value)

	case MsgPlaylistsFetched:
		r := msg.data.(outcome[[]models.Playlist])
		m.playlists.SetLoading(false)
		if r.err != nil {
			m.logger.Warn("failed to load playlists", "error", r.err)
			m.playlists.SetPlaylists(nil)
		} else {
			m.playlists.SetPlaylists(r.value)
		}
		m.syncSidebar()

	case MsgPlaylistCreated:
		r := msg.data.(outcome[*models.Playlist])
		if r.err != nil {
			m.fail(r.err)
			return m, nil
		}
		m.playlists.AddPlaylist(*r.value)
		m.syncSidebar()
		m.sidebarList.Select(0)
		m.status = fmt.Sprintf("Created %s", r.value.Title)

	case MsgPlaylistDeleted:
		r := msg.data.(outcome[int])
		if r.err != nil {
			m.fail(r.err)
			return m, nil
		}
		m.playlists.RemovePlaylist(r.value)
		m.syncSidebar()
		if m.playlist != nil && m.playlist.ID == r.value {
			m.playlist = nil
			m.view = SearchView
		}
		m.status = "Playlist deleted"

	case MsgPlaylistLoaded:
		r := msg.data.(outcome[*models.PlaylistWithSongs])
		if r.err != nil {
			m.fail(r.err)
			return m, nil
		}
		m.playlist = r.value
		m.songs.SetItems(songItems(r.value.Songs))
		m.songs.Title = r.value.Title
		m.view = PlaylistView
		m.focus = focusMain

	case MsgSongAdded:
		r := msg.data.(outcome[*models.SavedSong])
		if r.err != nil {
			m.fail(r.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Added %s to playlist", r.value.SongTitle)
		if m.playlist != nil && m.playlist.ID == r.value.PlaylistID {
			return m, m.loadPlaylist(r.value.PlaylistID)
		}

	case MsgSongRemoved:
		r := msg.data.(outcome[int])
		if r.err != nil {
			m.fail(r.err)
			return m, nil
		}
		m.status = "Song removed"
		return m, m.loadPlaylist(r.value)

	case MsgSongsFound:
		r := msg.data.(outcome[[]models.SongSearchResult])
		m.searching = false
		if r.err != nil {
			m.fail(r.err)
			return m, nil
		}
		items := make([]list.Item, len(r.value))
		for i, song := range r.value {
			items[i] = hitItem{song: song, selected: m.selection.Contains(song.Title, song.Artist)}
		}
		m.hits.SetItems(items)
		m.hits.Select(0)
		m.status = fmt.Sprintf("%d songs found", len(r.value))

	case MsgHistoryFetched:
		r := msg.data.(outcome[[]models.HistoryListItem])
		if r.err != nil {
			m.fail(r.err)
			return m, nil
		}
		m.history.SetItems(historyItems(r.value))

	case MsgHistoryLoaded:
		r := msg.data.(outcome[*models.HistoryResponse])
		if r.err != nil {
			m.fail(r.err)
			return m, nil
		}
		m.entry = r.value

	case MsgHistoryDeleted:
		r := msg.data.(outcome[int])
		if r.err != nil {
			m.fail(r.err)
			return m, nil
		}
		if m.entry != nil && m.entry.ID == r.value {
			m.entry = nil
		}
		m.status = "History entry deleted"
		return m, m.fetchHistory()

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, waitForProgress(m.progressChan, m.explainDone)

	case MsgExplainComplete:
		r := msg.data.(outcome[*tasks.ExplainRunResult])
		m.selection.SetLoading(false)
		m.progressChan = nil
		m.explainDone = nil
		if r.err != nil {
			m.fail(r.err)
			return m, nil
		}
		m.explained = r.value
		m.results.SetItems(resultItems(r.value.Results))
		m.results.Select(0)
		m.view = ExplainView
		m.status = explainSummary(r.value)
	}

	m.err = nil
	return m, nil
}

// fail records err for the status line. A rejected session gets a hint to sign in from the CLI.
func (m *Model) fail(err error) {
	m.logger.Error("request failed", "error", err)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		err = fmt.Errorf("%w: run `lyrix auth login` and restart", err)
	}
	m.err = err
}

func (m *Model) toggleFocus() {
	if m.focus == focusSidebar || !m.sidebar.Visible() {
		m.focus = focusMain
		return
	}
	m.focus = focusSidebar
}

func (m *Model) markSelected() {
	items := m.hits.Items()
	for i, item := range items {
		if hit, ok := item.(hitItem); ok {
			hit.selected = m.selection.Contains(hit.song.Title, hit.song.Artist)
			items[i] = hit
		}
	}
	m.hits.SetItems(items)
}

func (m *Model) syncSidebar() {
	m.sidebarList.SetItems(playlistItems(m.playlists.Playlists()))
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.sidebar.Resize(width)
	m.layout()
}

// layout sizes every list for the current window and sidebar state.
func (m *Model) layout() {
	mainWidth := m.mainWidth()
	listHeight := max(m.height-10, 3)

	m.input.Width = max(mainWidth-4, 10)
	for _, l := range []*list.Model{&m.hits, &m.results, &m.history, &m.songs} {
		l.SetSize(mainWidth, listHeight)
	}

	sidebarWidth := SidebarWidth
	if m.sidebar.IsMobile() {
		sidebarWidth = m.width
	}
	m.sidebarList.SetSize(max(sidebarWidth-2, 10), listHeight)
}

func (m *Model) mainWidth() int {
	if m.sidebar.Visible() && !m.sidebar.IsMobile() {
		return max(m.width-SidebarWidth-2, 20)
	}
	return max(m.width, 20)
}

func explainSummary(r *tasks.ExplainRunResult) string {
	summary := fmt.Sprintf("%d explained", r.Succeeded())
	if r.Failed > 0 {
		summary += fmt.Sprintf(", %d failed", r.Failed)
	}
	if len(r.Saved) > 0 {
		summary += fmt.Sprintf(", %d saved to history", len(r.Saved))
	}
	if len(r.SaveErrors) > 0 {
		summary += fmt.Sprintf(", %d not saved", len(r.SaveErrors))
	}
	return summary
}
