// Package ui implements an interactive terminal client using bubbletea's Elm architecture.
//
// The TUI works against the same backend clients as the CLI:
//  1. [SearchView] : Search songs and build a selection to explain
//  2. [ExplainView] : Browse explanations, add songs to a playlist
//  3. [HistoryView] : Browse and delete saved explanations
//  4. [PlaylistView] : Songs in the playlist opened from the sidebar
//
// A collapsible playlist [Sidebar] sits next to every view. It is toggled with ctrl+b (the shortcut key is configurable)
// and switches to a full-width overlay on terminals narrower than its breakpoint.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// State shared across views lives in the stores package; explain progress flows through a channel from tasks.ExplainEngine.
package ui
