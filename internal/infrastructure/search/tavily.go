package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"GovAI/internal/domain"
	"GovAI/internal/ports"
)

// TavilyName identifies the primary provider in logs and config.
const TavilyName = "tavily"

// Tavily queries the Tavily search API with advanced depth.
type Tavily struct {
	endpoint   string
	apiKey     string
	maxResults int
	client     *http.Client
}

var _ ports.SearchProvider = (*Tavily)(nil)

// NewTavily validates credentials and endpoint before returning a client.
func NewTavily(endpoint, apiKey string, maxResults int, client *http.Client) (*Tavily, error) {
	if apiKey == "" {
		return nil, errors.New("tavily api key is empty")
	}
	if err := validateEndpoint(endpoint); err != nil {
		return nil, fmt.Errorf("tavily: %w", err)
	}
	return &Tavily{
		endpoint:   endpoint,
		apiKey:     apiKey,
		maxResults: maxResults,
		client:     newHTTPClient(client),
	}, nil
}

// Name identifies the provider.
func (t *Tavily) Name() string {
	return TavilyName
}

type tavilyRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Run posts the query and maps results onto the common schema.
func (t *Tavily) Run(ctx context.Context, enhancedQuery string) ([]domain.SearchResult, error) {
	var resp tavilyResponse
	headers := map[string]string{"Authorization": "Bearer " + t.apiKey}
	payload := tavilyRequest{
		Query:       enhancedQuery,
		MaxResults:  t.maxResults,
		SearchDepth: "advanced",
	}
	if err := postJSON(ctx, t.client, t.endpoint, headers, payload, &resp); err != nil {
		return nil, fmt.Errorf("tavily search: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(resp.Results))
	for _, item := range resp.Results {
		results = append(results, domain.SearchResult{
			Title:   item.Title,
			URL:     item.URL,
			Snippet: CleanSnippet(item.Content),
			Score:   domain.Score(item.Score),
		})
	}
	return results, nil
}
