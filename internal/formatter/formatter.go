// package formatter renders playlists, history entries and explanations as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"cmp"
	"encoding/csv"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/shared"
)

// Format is an export format name.
type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "txt"
)

// Formats lists every supported format.
var Formats = []Format{JSON, CSV, Markdown, Text}

// ParseFormat accepts a format name or a common alias (md, text).
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "txt", "text":
		return Text, nil
	}
	return "", fmt.Errorf("%w: unknown format %q (want one of json, csv, markdown, txt)", shared.ErrInvalidArgument, name)
}

// Ext is the file extension for f, without the dot.
func (f Format) Ext() string {
	if f == Markdown {
		return "md"
	}
	return string(f)
}

// PlaylistToCSV writes one row per song with columns: ID, Title, Artist, Added
func PlaylistToCSV(p *models.PlaylistWithSongs) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Title", "Artist", "Added"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range p.Songs {
		record := []string{
			strconv.Itoa(song.ID),
			song.SongTitle,
			song.SongArtist,
			song.CreatedAt.String(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PlaylistToMarkdown renders a playlist as a Markdown document with a numbered song list.
func PlaylistToMarkdown(p *models.PlaylistWithSongs) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", p.Title)
	if p.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", p.Description)
	}
	fmt.Fprintf(&buf, "**Songs**: %d\n", len(p.Songs))
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(&buf, "**Created**: %s\n", p.CreatedAt)
	}

	buf.WriteString("\n## Songs\n\n")
	if len(p.Songs) == 0 {
		buf.WriteString("_No songs yet._\n")
	}
	for i, song := range p.Songs {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, song.SongArtist, song.SongTitle)
	}

	return buf.Bytes(), nil
}

// PlaylistToText renders a playlist as plain text.
func PlaylistToText(p *models.PlaylistWithSongs) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", p.Title)
	if p.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", p.Description)
	}
	fmt.Fprintf(&buf, "Songs: %d\n\n", len(p.Songs))

	for i, song := range p.Songs {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, song.SongArtist, song.SongTitle)
	}

	return buf.Bytes(), nil
}

// RenderPlaylist renders p in format f.
func RenderPlaylist(p *models.PlaylistWithSongs, f Format) ([]byte, error) {
	switch f {
	case CSV:
		return PlaylistToCSV(p)
	case Markdown:
		return PlaylistToMarkdown(p)
	case Text:
		return PlaylistToText(p)
	default:
		return shared.MarshalJSON(p, true)
	}
}

// EmotionSummary formats an emotion as "label (NN%)", or "" when unset.
func EmotionSummary(e models.EmotionResult) string {
	if e.Emotion == "" {
		return ""
	}
	return fmt.Sprintf("%s (%.0f%%)", e.Emotion, e.Confidence*100)
}

// RankedEmotions returns the labels of all, highest score first, ties broken by name.
func RankedEmotions(all map[string]float64) []string {
	labels := slices.Collect(maps.Keys(all))
	slices.SortFunc(labels, func(a, b string) int {
		if c := cmp.Compare(all[b], all[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return labels
}

// ExplainToMarkdown renders explanation results, one section per song. Failed songs show their error.
func ExplainToMarkdown(results []models.ExplainResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Song explanations\n")

	for _, r := range results {
		fmt.Fprintf(&buf, "\n## %s - %s\n\n", r.SongArtist, r.SongTitle)

		if r.Failed() {
			fmt.Fprintf(&buf, "**Error**: %s\n", r.Error)
			continue
		}

		if summary := EmotionSummary(r.Emotion); summary != "" {
			fmt.Fprintf(&buf, "**Emotion**: %s\n\n", summary)
		}

		if len(r.Emotion.AllEmotions) > 0 {
			buf.WriteString("| Emotion | Score |\n|---|---|\n")
			for _, label := range RankedEmotions(r.Emotion.AllEmotions) {
				fmt.Fprintf(&buf, "| %s | %.2f |\n", label, r.Emotion.AllEmotions[label])
			}
			buf.WriteString("\n")
		}

		if r.Interpretation != "" {
			fmt.Fprintf(&buf, "### Interpretation\n\n%s\n", strings.TrimSpace(r.Interpretation))
		}

		if r.Lyrics != "" {
			fmt.Fprintf(&buf, "\n### Lyrics\n\n```\n%s\n```\n", strings.TrimSpace(r.Lyrics))
		}
	}

	return buf.Bytes(), nil
}

// HistoryToMarkdown renders a saved explanation.
func HistoryToMarkdown(h *models.HistoryResponse) ([]byte, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: no history entry", shared.ErrInvalidInput)
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s - %s\n\n", h.SongArtist, h.SongTitle)
	if h.Emotion != "" {
		fmt.Fprintf(&buf, "**Emotion**: %s\n", h.Emotion)
	}
	if h.LanguageCode != "" {
		fmt.Fprintf(&buf, "**Language**: %s\n", h.LanguageCode)
	}
	if !h.CreatedAt.IsZero() {
		fmt.Fprintf(&buf, "**Saved**: %s\n", h.CreatedAt)
	}
	if h.Interpretation != "" {
		fmt.Fprintf(&buf, "\n## Interpretation\n\n%s\n", strings.TrimSpace(h.Interpretation))
	}

	return buf.Bytes(), nil
}

// maxSlugLen caps the title part of an export file name.
const maxSlugLen = 50

// Slug lowercases title and joins its letter and digit runs with '-'. An empty result becomes "playlist".
func Slug(title string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(title) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte('-')
			pending = false
		}
		b.WriteRune(r)
	}

	slug := b.String()
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(strings.ToValidUTF8(slug[:maxSlugLen], ""), "-")
	}
	if slug == "" {
		return "playlist"
	}
	return slug
}

// PlaylistFilename is the default export file name for a playlist: its title slug, then its id so equal titles never collide.
func PlaylistFilename(p *models.PlaylistWithSongs, f Format) string {
	return fmt.Sprintf("%s_%d.%s", Slug(p.Title), p.ID, f.Ext())
}

// WritePlaylistExport renders p in format f and writes it to path, creating parent directories.
//
// An empty path writes [PlaylistFilename] in the working directory. Returns the path written.
func WritePlaylistExport(p *models.PlaylistWithSongs, f Format, path string) (string, error) {
	if path == "" {
		path = PlaylistFilename(p, f)
	}

	data, err := RenderPlaylist(p, f)
	if err != nil {
		return "", fmt.Errorf("failed to render playlist: %w", err)
	}

	if err := WriteFile(path, data); err != nil {
		return "", err
	}

	return path, nil
}

// WriteJSONFile writes v as indented JSON to path.
func WriteJSONFile(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return WriteFile(path, data)
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
