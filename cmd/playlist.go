package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/lyrix/internal/formatter"
	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/desertthunder/lyrix/internal/stores"
	"github.com/desertthunder/lyrix/internal/tasks"
	"github.com/urfave/cli/v3"
)

// titlePageSize bounds the listing used to number a default playlist title.
const titlePageSize = 100

// PlaylistList prints a page of playlists.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.api.Playlists(ctx, cmd.Int("skip"), cmd.Int("limit"))
	if err != nil {
		return signedIn(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if len(playlists) == 0 {
		return r.writePlain("No playlists\n")
	}
	for _, p := range playlists {
		r.writePlain("%5d  %s\n", p.ID, p.Title)
	}
	return nil
}

// PlaylistGet prints a playlist with its songs in backend order.
func (r *Runner) PlaylistGet(ctx context.Context, cmd *cli.Command) error {
	id, err := intArg(cmd, "id")
	if err != nil {
		return err
	}

	playlist, err := r.api.PlaylistByID(ctx, id)
	if err != nil {
		return signedIn(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}

	r.writePlainHeader(playlist.Title)
	if playlist.Description != "" {
		r.writePlain("%s\n", playlist.Description)
	}
	r.writePlain("Songs: %d\n\n", len(playlist.Songs))
	for _, song := range playlist.Songs {
		r.writePlain("%5d  %s - %s\n", song.ID, song.SongArtist, song.SongTitle)
	}
	return nil
}

// PlaylistCreate creates a playlist, numbering the title after existing defaults when none is given.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	req := models.PlaylistCreate{Title: cmd.String("title"), Description: cmd.String("description")}

	if req.Title == "" {
		existing, err := r.api.Playlists(ctx, 0, titlePageSize)
		if err != nil {
			return signedIn(err)
		}
		store := stores.NewPlaylistStore()
		store.SetPlaylists(existing)
		req.Title = store.DefaultTitle()
	}

	playlist, err := r.api.CreatePlaylist(ctx, req)
	if err != nil {
		return signedIn(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ Created playlist %d: %s\n", playlist.ID, playlist.Title)
}

// PlaylistUpdate applies a partial update. At least one field is required.
func (r *Runner) PlaylistUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := intArg(cmd, "id")
	if err != nil {
		return err
	}

	update := models.PlaylistUpdate{Title: cmd.String("title"), Description: cmd.String("description")}
	if update.Title == "" && update.Description == "" {
		return fmt.Errorf("%w: --title or --description", shared.ErrMissingArgument)
	}

	playlist, err := r.api.UpdatePlaylist(ctx, id, update)
	if err != nil {
		return signedIn(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ Updated playlist %d: %s\n", playlist.ID, playlist.Title)
}

// PlaylistDelete removes a playlist and its songs.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := intArg(cmd, "id")
	if err != nil {
		return err
	}

	if _, err := r.api.DeletePlaylist(ctx, id); err != nil {
		return signedIn(err)
	}
	return r.writePlain("✓ Deleted playlist %d\n", id)
}

// PlaylistAddSong saves a song into a playlist.
func (r *Runner) PlaylistAddSong(ctx context.Context, cmd *cli.Command) error {
	id, err := intArg(cmd, "id")
	if err != nil {
		return err
	}

	song, err := r.api.AddSongToPlaylist(ctx, id, models.SongInput{Title: cmd.String("title"), Artist: cmd.String("artist")})
	if err != nil {
		return signedIn(err)
	}
	return r.writePlain("✓ Added %s - %s to playlist %d (song id %d)\n", song.SongArtist, song.SongTitle, id, song.ID)
}

// PlaylistRemoveSong removes a saved song by its saved-song id.
func (r *Runner) PlaylistRemoveSong(ctx context.Context, cmd *cli.Command) error {
	id, err := intArg(cmd, "id")
	if err != nil {
		return err
	}
	songID, err := intArg(cmd, "song-id")
	if err != nil {
		return err
	}

	if _, err := r.api.RemoveSongFromPlaylist(ctx, id, songID); err != nil {
		return signedIn(err)
	}
	return r.writePlain("✓ Removed song %d from playlist %d\n", songID, id)
}

// PlaylistExport writes the given playlists, or all of them, to files plus a manifest.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	var ids []int
	for _, raw := range cmd.Args().Slice() {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return fmt.Errorf("%w: playlist id %q", shared.ErrInvalidArgument, raw)
		}
		ids = append(ids, id)
	}

	progressCh := make(chan tasks.ProgressUpdate, 100)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if update.Phase != tasks.Done {
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	exporter := tasks.NewPlaylistExporter(r.api)
	result, err := exporter.BulkExport(ctx, progressCh, ids, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progressCh)
	<-done

	if result == nil {
		return signedIn(err)
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Exported: %d/%d\n", result.SuccessfulExports, result.TotalPlaylists)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}
	if result.FailedExports > 0 {
		r.writePlain("\nFailed %d playlists:\n", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %s\n", res.Title, res.Error)
			}
		}
	}

	return err
}
