package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/lyrix/internal/formatter"
	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/shared"
)

// PlaylistClient is the part of the backend API used to read playlists.
type PlaylistClient interface {
	Playlists(ctx context.Context, skip, limit int, opts ...services.RequestOption) ([]models.Playlist, error)
	PlaylistByID(ctx context.Context, id int, opts ...services.RequestOption) (*models.PlaylistWithSongs, error)
}

// ManifestFile is the name of the summary written next to exported playlists.
const ManifestFile = "export_manifest.json"

// bulkPageSize is the page size used when listing every playlist.
const bulkPageSize = 50

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format (default: json)
	OutputDir  string           // Base output directory (default: lyrix_export_{epoch})
	NumWorkers int              // Concurrent render workers (default: 4, max: 8)
	RateLimit  float64          // Backend requests per second (default: 5)
}

// PlaylistExportResult is the outcome of exporting one playlist.
type PlaylistExportResult struct {
	PlaylistID int    `json:"playlist_id"`
	Title      string `json:"title"`
	Songs      int    `json:"songs"`
	File       string `json:"file,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export and is written as the manifest.
type BulkExportResult struct {
	ExportedAt        time.Time              `json:"exported_at"`
	Format            formatter.Format       `json:"format"`
	OutputDirectory   string                 `json:"output_directory"`
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	Results           []PlaylistExportResult `json:"results"`
	ManifestPath      string                 `json:"-"`
}

type playlistExportJob struct {
	playlist *models.PlaylistWithSongs
}

// PlaylistExporter writes playlists to disk.
type PlaylistExporter struct {
	client PlaylistClient
}

// NewPlaylistExporter creates a new [PlaylistExporter].
func NewPlaylistExporter(client PlaylistClient) *PlaylistExporter {
	return &PlaylistExporter{client: client}
}

// BulkExport exports the playlists with the given ids, or every playlist when ids is empty.
//
// Playlists are fetched one at a time through a rate limiter and rendered by a bounded worker pool.
// Individual failures are recorded in the result; the manifest is always written.
func (e *PlaylistExporter) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, ids []int, opts BulkExportOpts) (*BulkExportResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Format == "" {
		opts.Format = formatter.JSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("lyrix_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if len(ids) == 0 {
		all, err := e.allPlaylistIDs(ctx, prog)
		if err != nil {
			return nil, err
		}
		ids = all
	}

	result := &BulkExportResult{
		ExportedAt:      time.Now().UTC(),
		Format:          opts.Format,
		TotalPlaylists:  len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan playlistExportJob, len(ids))
	results := make(chan PlaylistExportResult, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			playlist, err := e.client.PlaylistByID(ctx, id)
			if err != nil {
				results <- PlaylistExportResult{
					PlaylistID: id,
					Title:      fmt.Sprintf("Unknown (%d)", id),
					Error:      fmt.Sprintf("failed to fetch playlist: %v", err),
				}
				continue
			}

			sendProgress(prog, exportingPlaylistUpdate(i+1, len(ids), playlist.Title))
			jobs <- playlistExportJob{playlist: playlist}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.Title, res.File))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, len(ids), res.Title, fmt.Errorf("%s", res.Error)))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestFile)
	if err := formatter.WriteJSONFile(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export interrupted: %w", err)
	}

	sendProgress(prog, doneUpdate(fmt.Sprintf("Exported %d of %d playlists", result.SuccessfulExports, result.TotalPlaylists), result))
	return result, nil
}

func (e *PlaylistExporter) allPlaylistIDs(ctx context.Context, prog chan<- ProgressUpdate) ([]int, error) {
	sendProgress(prog, fetchingPlaylistsUpdate())

	var ids []int
	for skip := 0; ; skip += bulkPageSize {
		page, err := e.client.Playlists(ctx, skip, bulkPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list playlists: %w", err)
		}
		for _, p := range page {
			ids = append(ids, p.ID)
		}
		if len(page) < bulkPageSize {
			return ids, nil
		}
	}
}

// exportWorker renders playlists from the jobs channel until it is closed.
func (e *PlaylistExporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan playlistExportJob,
	results chan<- PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			results <- PlaylistExportResult{
				PlaylistID: job.playlist.ID,
				Title:      job.playlist.Title,
				Error:      ctx.Err().Error(),
			}
			continue
		}
		results <- exportSinglePlaylist(job.playlist, opts)
	}
}

// exportSinglePlaylist writes one playlist in the configured format.
func exportSinglePlaylist(p *models.PlaylistWithSongs, opts BulkExportOpts) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistID: p.ID,
		Title:      p.Title,
		Songs:      len(p.Songs),
	}

	path := filepath.Join(opts.OutputDir, formatter.PlaylistFilename(p, opts.Format))
	written, err := formatter.WritePlaylistExport(p, opts.Format, path)
	if err != nil {
		result.Error = fmt.Sprintf("%s export failed: %v", opts.Format, err)
		return result
	}

	result.File = written
	result.Success = true
	return result
}
