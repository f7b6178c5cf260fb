package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/lyrix/internal/formatter"
	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) writeHistoryItems(items []models.HistoryListItem) error {
	if len(items) == 0 {
		return r.writePlain("No history entries\n")
	}
	for _, h := range items {
		r.writePlain("%5d  %s  %s - %s", h.ID, h.CreatedAt.Format("2006-01-02"), h.SongArtist, h.SongTitle)
		if h.Emotion != "" {
			r.writePlain(" (%s)", h.Emotion)
		}
		r.writePlain("\n")
	}
	return nil
}

// HistoryList prints a page of history entries.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	items, err := r.api.History(ctx, cmd.Int("skip"), cmd.Int("limit"))
	if err != nil {
		return signedIn(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}
	return r.writeHistoryItems(items)
}

// HistorySearch prints entries whose title or artist matches the query.
func (r *Runner) HistorySearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	items, err := r.api.SearchHistory(ctx, query)
	if err != nil {
		return signedIn(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}
	return r.writeHistoryItems(items)
}

// HistoryGet prints one entry in full.
func (r *Runner) HistoryGet(ctx context.Context, cmd *cli.Command) error {
	id, err := intArg(cmd, "id")
	if err != nil {
		return err
	}

	entry, err := r.api.HistoryByID(ctx, id)
	if err != nil {
		return signedIn(err)
	}

	switch {
	case cmd.Bool("markdown"):
		data, err := formatter.HistoryToMarkdown(entry)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	case cmd.Bool("json"):
		return r.writeJSON(entry, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s - %s", entry.SongArtist, entry.SongTitle))
	r.writePlain("Saved: %s\n", entry.CreatedAt)
	if entry.Emotion != "" {
		r.writePlain("Emotion: %s\n", entry.Emotion)
	}
	if entry.LanguageCode != "" {
		r.writePlain("Language: %s\n", entry.LanguageCode)
	}
	return r.writePlain("\n%s\n", entry.Interpretation)
}

// HistoryCreate records an entry by hand.
func (r *Runner) HistoryCreate(ctx context.Context, cmd *cli.Command) error {
	entry, err := r.api.CreateHistory(ctx, models.HistoryCreate{
		SongTitle:      cmd.String("title"),
		SongArtist:     cmd.String("artist"),
		Interpretation: cmd.String("interpretation"),
		Emotion:        cmd.String("emotion"),
		LanguageCode:   cmd.String("language"),
	})
	if err != nil {
		return signedIn(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entry, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ Saved history entry %d\n", entry.ID)
}

// HistoryDelete removes an entry.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := intArg(cmd, "id")
	if err != nil {
		return err
	}

	if _, err := r.api.DeleteHistory(ctx, id); err != nil {
		return signedIn(err)
	}
	return r.writePlain("✓ Deleted history entry %d\n", id)
}
