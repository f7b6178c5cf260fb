package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/desertthunder/lyrix/internal/ui"
	"github.com/urfave/cli/v3"
)

// defaultTUILog is used when log.file is unset.
const defaultTUILog = "./tmp/lyrix-tui.log"

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Log.File
	if path == "" {
		path = defaultTUILog
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(path)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))

	model := ui.NewModel(ctx, ui.ModelOpts{
		API:         r.api,
		Logger:      fileLogger,
		Breakpoint:  r.config.UI.MobileBreakpoint,
		ShortcutKey: r.config.UI.ShortcutKey,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
