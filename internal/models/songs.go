package models

// SongSearchResult is a song found by GET /songs/search.
type SongSearchResult struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Thumbnail string `json:"thumbnail"`
	URL       string `json:"url"`
}

// SongInput identifies a song to explain.
type SongInput struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// ExplainRequest is the body of POST /songs/explain.
type ExplainRequest struct {
	Songs        []SongInput `json:"songs"`
	LanguageCode string      `json:"language_code,omitempty"`
}

// EmotionResult is the emotion classification of a song's lyrics.
type EmotionResult struct {
	Emotion     string             `json:"emotion"`
	Confidence  float64            `json:"confidence"`
	AllEmotions map[string]float64 `json:"all_emotions"`
}

// ExplainResult is the explanation for one requested song. Error is set when that song could not be explained.
type ExplainResult struct {
	ID             int           `json:"id"`
	SongTitle      string        `json:"song_title"`
	SongArtist     string        `json:"song_artist"`
	Lyrics         string        `json:"lyrics"`
	Emotion        EmotionResult `json:"emotion"`
	Interpretation string        `json:"interpretation"`
	Error          string        `json:"error,omitempty"`
}

// Failed reports whether the backend could not explain this song.
func (r ExplainResult) Failed() bool {
	return r.Error != ""
}

// ExplainResponse is returned by POST /songs/explain.
type ExplainResponse struct {
	Results []ExplainResult `json:"results"`
	Total   int             `json:"total"`
}
