package domain

import "time"

// Language is the detected script of a query.
type Language string

const (
	LanguageBangla  Language = "bn"
	LanguageEnglish Language = "en"
)

// Query is the transient, per-request view of the user's question.
type Query struct {
	Raw      string
	Text     string
	Language Language
	Relevant bool
	Reason   string
}

// SearchResult is the provider-neutral shape of a single search hit.
type SearchResult struct {
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Snippet string   `json:"snippet,omitempty"`
	Score   *float64 `json:"score,omitempty"`
}

// Score returns a pointer suitable for SearchResult.Score.
func Score(v float64) *float64 {
	return &v
}

// Outcome is the final answer returned to the caller of a pipeline run.
type Outcome struct {
	Query          string         `json:"query"`
	Answer         string         `json:"answer"`
	Sources        []SearchResult `json:"sources,omitempty"`
	ProcessingTime float64        `json:"processing_time"`
	Timestamp      time.Time      `json:"timestamp"`
}
