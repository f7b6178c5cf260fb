// Package tasks orchestrates multi-step backend operations with real-time progress reporting.
//
// # Core Operations
//
//  1. [ExplainEngine.Run] : explain a selection of songs
//     - Sends the whole selection to the backend in one request
//     - Optionally saves every successful explanation to history, in result order
//     - Collects per-song save failures instead of aborting
//
//  2. [PlaylistExporter.BulkExport] : back up playlists to disk
//     - Fetches each playlist with its songs through a rate limiter
//     - Renders them in a bounded worker pool
//     - Writes a manifest summarizing successes and failures
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default so a slow or absent reader never stalls the operation.
package tasks
