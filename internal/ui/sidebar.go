package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// DefaultSidebarID names a sidebar created without an id.
	DefaultSidebarID = "default"
	// DefaultShortcutKey toggles the sidebar together with ctrl or meta.
	DefaultShortcutKey = "b"
	// DefaultMobileBreakpoint is the terminal width, in columns, below which the sidebar uses its mobile state.
	DefaultMobileBreakpoint = 80
)

// SidebarState is the derived visual state of a desktop sidebar.
type SidebarState string

const (
	Expanded  SidebarState = "expanded"
	Collapsed SidebarState = "collapsed"
)

// SidebarProps configures a [Sidebar].
//
// Open and SetOpen let the owner keep the desktop open flag wherever it likes; use [LocalOpen] for a sidebar that owns it.
type SidebarProps struct {
	Open        func() bool
	SetOpen     func(bool)
	ID          string
	ShortcutKey string
	Breakpoint  int
}

// KeyEvent is a key press with its modifier state.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
}

// Sidebar is the open and closed state machine for a collapsible sidebar.
//
// Desktop and mobile keep separate flags: [Sidebar.Toggle] flips only the one that matches the current width.
// Nothing is persisted.
type Sidebar struct {
	props       SidebarProps
	openMobile  bool
	isMobile    bool
	id          string
	shortcutKey string
	breakpoint  int
}

// LocalOpen returns a getter and setter over a flag owned by the returned closures.
func LocalOpen(initial bool) (func() bool, func(bool)) {
	open := initial
	return func() bool { return open }, func(v bool) { open = v }
}

// NewSidebar creates a sidebar. Missing Open/SetOpen default to a locally owned flag starting open.
func NewSidebar(props SidebarProps) *Sidebar {
	if props.Open == nil || props.SetOpen == nil {
		props.Open, props.SetOpen = LocalOpen(true)
	}

	s := &Sidebar{
		props:       props,
		id:          props.ID,
		shortcutKey: props.ShortcutKey,
		breakpoint:  props.Breakpoint,
	}
	if s.id == "" {
		s.id = DefaultSidebarID
	}
	if s.shortcutKey == "" {
		s.shortcutKey = DefaultShortcutKey
	}
	if s.breakpoint <= 0 {
		s.breakpoint = DefaultMobileBreakpoint
	}
	return s
}

func (s *Sidebar) ID() string          { return s.id }
func (s *Sidebar) ShortcutKey() string { return s.shortcutKey }
func (s *Sidebar) Breakpoint() int     { return s.breakpoint }

// Open reads the desktop open flag through the owner's getter.
func (s *Sidebar) Open() bool { return s.props.Open() }

// SetOpen writes the desktop open flag through the owner's setter.
func (s *Sidebar) SetOpen(open bool) { s.props.SetOpen(open) }

func (s *Sidebar) OpenMobile() bool         { return s.openMobile }
func (s *Sidebar) SetOpenMobile(open bool) { s.openMobile = open }

// IsMobile reports whether the last [Sidebar.Resize] width was below the breakpoint.
func (s *Sidebar) IsMobile() bool { return s.isMobile }

// State is [Expanded] when the desktop flag is open, else [Collapsed].
func (s *Sidebar) State() SidebarState {
	if s.Open() {
		return Expanded
	}
	return Collapsed
}

// Visible reports whether the sidebar should be drawn at the current width.
func (s *Sidebar) Visible() bool {
	if s.isMobile {
		return s.openMobile
	}
	return s.Open()
}

// Resize recomputes IsMobile for a viewport width.
func (s *Sidebar) Resize(width int) {
	s.isMobile = width < s.breakpoint
}

// Toggle flips the mobile flag on narrow viewports and the desktop flag otherwise.
func (s *Sidebar) Toggle() {
	if s.isMobile {
		s.openMobile = !s.openMobile
		return
	}
	s.SetOpen(!s.Open())
}

// HandleKey toggles on the shortcut key pressed with ctrl or meta and without shift.
// It reports whether the event was consumed, in which case the caller should skip its default handling.
func (s *Sidebar) HandleKey(ev KeyEvent) bool {
	if ev.Key != s.shortcutKey || !(ev.Meta || ev.Ctrl) || ev.Shift {
		return false
	}
	s.Toggle()
	return true
}

// KeyEventFromMsg converts a bubbletea key message such as "ctrl+b" or "alt+b" into a [KeyEvent].
// Alt is reported as meta, since terminals send meta combinations as alt.
func KeyEventFromMsg(msg tea.KeyMsg) KeyEvent {
	var ev KeyEvent
	if msg.Alt {
		ev.Meta = true
	}

	name := msg.String()
	for {
		switch {
		case strings.HasPrefix(name, "ctrl+"):
			ev.Ctrl = true
			name = strings.TrimPrefix(name, "ctrl+")
			continue
		case strings.HasPrefix(name, "alt+"):
			ev.Meta = true
			name = strings.TrimPrefix(name, "alt+")
			continue
		case strings.HasPrefix(name, "shift+"):
			ev.Shift = true
			name = strings.TrimPrefix(name, "shift+")
			continue
		}
		break
	}

	if len(name) == 1 && strings.ToLower(name) != name {
		ev.Shift = true
		name = strings.ToLower(name)
	}

	ev.Key = name
	return ev
}
