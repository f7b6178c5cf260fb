package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/lyrix/internal/formatter"
	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/desertthunder/lyrix/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SongsSearch prints songs matching the query.
func (r *Runner) SongsSearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	r.logger.Info("searching songs", "query", query)
	results, err := r.api.SearchSongs(ctx, query, cmd.Int("limit"))
	if err != nil {
		return signedIn(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	if len(results) == 0 {
		return r.writePlain("No songs found for %q\n", query)
	}
	for i, s := range results {
		r.writePlain("%2d. %s - %s\n", i+1, s.Artist, s.Title)
	}
	return nil
}

// parseSong reads "Artist - Title".
func parseSong(raw string) (models.SongInput, error) {
	artist, title, ok := strings.Cut(raw, " - ")
	artist, title = strings.TrimSpace(artist), strings.TrimSpace(title)
	if !ok || artist == "" || title == "" {
		return models.SongInput{}, fmt.Errorf("%w: song %q must look like \"Artist - Title\"", shared.ErrInvalidArgument, raw)
	}
	return models.SongInput{Title: title, Artist: artist}, nil
}

// SongsExplain explains the given songs in one backend call, optionally saving each result to history.
func (r *Runner) SongsExplain(ctx context.Context, cmd *cli.Command) error {
	req := models.ExplainRequest{LanguageCode: cmd.String("language")}
	for _, raw := range cmd.StringSlice("song") {
		song, err := parseSong(raw)
		if err != nil {
			return err
		}
		req.Songs = append(req.Songs, song)
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.Explain:
				r.logger.Info(update.Message)
			case tasks.SaveHistory:
				r.logger.Info(update.Message, "step", update.Step, "total", update.Total)
			}
		}
	}()

	engine := tasks.NewExplainEngine(r.api)
	result, err := engine.Run(ctx, req, tasks.ExplainOpts{SaveHistory: cmd.Bool("save")}, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return signedIn(err)
	}

	if path := cmd.String("output"); path != "" {
		data, err := formatter.ExplainToMarkdown(result.Results)
		if err != nil {
			return err
		}
		if err := formatter.WriteFile(path, data); err != nil {
			return err
		}
		r.logger.Info("explanations written", "path", path)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Results, cmd.Bool("pretty"))
	}

	for _, res := range result.Results {
		r.writePlainHeader(fmt.Sprintf("%s - %s", res.SongArtist, res.SongTitle))
		if res.Failed() {
			r.writePlain("✗ %s\n\n", res.Error)
			continue
		}
		r.writePlain("Emotion: %s\n\n", formatter.EmotionSummary(res.Emotion))
		r.writePlain("%s\n\n", res.Interpretation)
	}

	r.writePlain("Explained %d/%d songs\n", result.Succeeded(), len(result.Results))
	if cmd.Bool("save") {
		r.writePlain("Saved %d to history\n", len(result.Saved))
		for _, se := range result.SaveErrors {
			r.writePlain("  ✗ %s\n", se.Error())
		}
	}
	return nil
}
