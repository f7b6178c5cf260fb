package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/shared"
)

// ExplainClient is the part of the backend API used to explain and save songs.
type ExplainClient interface {
	ExplainSongs(ctx context.Context, req models.ExplainRequest, opts ...services.RequestOption) (*models.ExplainResponse, error)
	CreateHistory(ctx context.Context, req models.HistoryCreate, opts ...services.RequestOption) (*models.HistoryResponse, error)
}

// ExplainOpts configures [ExplainEngine.Run].
type ExplainOpts struct {
	SaveHistory  bool   // Save each successful explanation to history
	LanguageCode string // Overrides the request's language when set
	RequestOpts  []services.RequestOption
}

// SaveError records a history save that failed for one explained song.
type SaveError struct {
	Result models.ExplainResult
	Err    error
}

func (e SaveError) Error() string {
	return fmt.Sprintf("%s - %s: %v", e.Result.SongArtist, e.Result.SongTitle, e.Err)
}

func (e SaveError) Unwrap() error { return e.Err }

// ExplainRunResult contains all data from an explain run.
type ExplainRunResult struct {
	Results    []models.ExplainResult   // One result per requested song, backend order
	Saved      []models.HistoryResponse // History entries created, in result order
	SaveErrors []SaveError              // Saves that failed
	Failed     int                      // Results the backend could not explain
}

// Succeeded is the number of songs explained without error.
func (r *ExplainRunResult) Succeeded() int {
	return len(r.Results) - r.Failed
}

// ExplainEngine explains song selections and records them in history.
type ExplainEngine struct {
	client ExplainClient
}

// NewExplainEngine creates a new [ExplainEngine].
func NewExplainEngine(client ExplainClient) *ExplainEngine {
	return &ExplainEngine{client: client}
}

// Run explains every song in req with a single backend call.
//
// With opts.SaveHistory, each result without an error is saved via CreateHistory one at a time in result order.
// A failed save is recorded in the result and does not stop the run. Only a failed explain call returns an error.
func (e *ExplainEngine) Run(ctx context.Context, req models.ExplainRequest, opts ExplainOpts, progress chan<- ProgressUpdate) (*ExplainRunResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}
	if len(req.Songs) == 0 {
		return nil, fmt.Errorf("%w: select at least one song to explain", shared.ErrMissingArgument)
	}
	if opts.LanguageCode != "" {
		req.LanguageCode = opts.LanguageCode
	}

	sendProgress(progress, explainingUpdate(len(req.Songs)))

	resp, err := e.client.ExplainSongs(ctx, req, opts.RequestOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to explain songs: %w", err)
	}

	result := &ExplainRunResult{Results: resp.Results}
	for _, r := range resp.Results {
		if r.Failed() {
			result.Failed++
		}
	}

	sendProgress(progress, explainedUpdate(resp, result.Failed))

	if opts.SaveHistory {
		e.save(ctx, result, req.LanguageCode, opts, progress)
	}

	sendProgress(progress, doneUpdate(fmt.Sprintf("Done: %d explained, %d saved", result.Succeeded(), len(result.Saved)), result))
	return result, nil
}

func (e *ExplainEngine) save(ctx context.Context, result *ExplainRunResult, lang string, opts ExplainOpts, progress chan<- ProgressUpdate) {
	total := result.Succeeded()
	step := 0

	for _, r := range result.Results {
		if r.Failed() {
			continue
		}
		step++

		if err := ctx.Err(); err != nil {
			result.SaveErrors = append(result.SaveErrors, SaveError{Result: r, Err: err})
			continue
		}

		sendProgress(progress, savingUpdate(step, total, r))

		entry, err := e.client.CreateHistory(ctx, models.HistoryFromResult(r, lang), opts.RequestOpts...)
		if err != nil {
			result.SaveErrors = append(result.SaveErrors, SaveError{Result: r, Err: err})
			sendProgress(progress, saveFailedUpdate(step, total, r, err))
			continue
		}

		result.Saved = append(result.Saved, *entry)
	}
}
