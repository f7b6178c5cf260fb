package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// The sidebar shortcut is matched by [Sidebar.HandleKey]; its binding here only feeds the help line.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	search    key.Binding
	explain   key.Binding
	save      key.Binding
	remove    key.Binding
	clear     key.Binding
	history   key.Binding
	create    key.Binding
	addTo     key.Binding
	delete    key.Binding
	focus     key.Binding
	sidebar   key.Binding
	yes       key.Binding
	no        key.Binding
	refresh   key.Binding
	quit      key.Binding
	forceQuit key.Binding
}

func newKeyMap(shortcut string) keyMap {
	toggle := "ctrl+" + shortcut
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		explain:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "explain")),
		save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle save")),
		remove:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		history:   key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		create:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new playlist")),
		addTo:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to playlist")),
		delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
		sidebar:   key.NewBinding(key.WithKeys(toggle), key.WithHelp(toggle, "sidebar")),
		yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:        key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.sidebar, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.search, k.explain, k.save, k.remove, k.clear},
		{k.history, k.create, k.addTo, k.delete},
		{k.focus, k.sidebar, k.refresh, k.quit},
	}
}
