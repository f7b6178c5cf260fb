package tasks

import (
	"fmt"

	"github.com/desertthunder/lyrix/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Explain Phase = iota
	SaveHistory
	FetchPlaylists
	ExportPlaylist
	Done
)

func (p Phase) String() string {
	switch p {
	case Explain:
		return "explain"
	case SaveHistory:
		return "save_history"
	case FetchPlaylists:
		return "fetch_playlists"
	case ExportPlaylist:
		return "export_playlist"
	case Done:
		return "done"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func explainingUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Explain,
		Step:    0,
		Total:   count,
		Message: fmt.Sprintf("Explaining %d song(s)...", count),
	}
}

func explainedUpdate(resp *models.ExplainResponse, failed int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Explain,
		Step:    len(resp.Results),
		Total:   len(resp.Results),
		Message: fmt.Sprintf("Explained %d song(s), %d failed", len(resp.Results)-failed, failed),
		Data:    resp,
	}
}

func savingUpdate(step, total int, r models.ExplainResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveHistory,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Saving %s - %s", step, total, r.SongArtist, r.SongTitle),
	}
}

func saveFailedUpdate(step, total int, r models.ExplainResult, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveHistory,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s - %s: %v", step, total, r.SongArtist, r.SongTitle, err),
	}
}

func fetchingPlaylistsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    0,
		Total:   1,
		Message: "Fetching playlists...",
	}
}

func exportingPlaylistUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, title),
	}
}

func exportCompletedUpdate(step, total int, title string, file string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, title, file),
	}
}

func exportFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}

func doneUpdate(message string, data any) ProgressUpdate {
	return ProgressUpdate{Phase: Done, Step: 1, Total: 1, Message: message, Data: data}
}
