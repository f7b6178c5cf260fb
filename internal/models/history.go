package models

// HistoryCreate is the body of POST /history.
type HistoryCreate struct {
	SongTitle      string `json:"song_title"`
	SongArtist     string `json:"song_artist"`
	Interpretation string `json:"interpretation,omitempty"`
	Emotion        string `json:"emotion,omitempty"`
	LanguageCode   string `json:"language_code,omitempty"`
}

// HistoryResponse is a single saved explanation.
type HistoryResponse struct {
	ID             int       `json:"id"`
	SongTitle      string    `json:"song_title"`
	SongArtist     string    `json:"song_artist"`
	Interpretation string    `json:"interpretation"`
	Emotion        string    `json:"emotion"`
	LanguageCode   string    `json:"language_code"`
	CreatedAt      Timestamp `json:"created_at"`
	UserID         int       `json:"user_id"`
}

// HistoryListItem is the summary row returned by list and search endpoints.
type HistoryListItem struct {
	ID         int       `json:"id"`
	SongTitle  string    `json:"song_title"`
	SongArtist string    `json:"song_artist"`
	Emotion    string    `json:"emotion"`
	CreatedAt  Timestamp `json:"created_at"`
}

// HistoryFromResult builds the history entry saved for an explained song.
func HistoryFromResult(r ExplainResult, languageCode string) HistoryCreate {
	return HistoryCreate{
		SongTitle:      r.SongTitle,
		SongArtist:     r.SongArtist,
		Interpretation: r.Interpretation,
		Emotion:        r.Emotion.Emotion,
		LanguageCode:   languageCode,
	}
}
