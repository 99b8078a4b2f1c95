package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"GovAI/internal/domain"
	"GovAI/internal/ports"
)

// SerpAPIName identifies the secondary provider in logs and config.
const SerpAPIName = "serpapi"

// SerpAPI queries Google through SerpAPI, localized to Bangladesh.
type SerpAPI struct {
	endpoint   string
	apiKey     string
	maxResults int
	client     *http.Client
}

var _ ports.SearchProvider = (*SerpAPI)(nil)

// NewSerpAPI validates credentials and endpoint before returning a client.
func NewSerpAPI(endpoint, apiKey string, maxResults int, client *http.Client) (*SerpAPI, error) {
	if apiKey == "" {
		return nil, errors.New("serpapi api key is empty")
	}
	if err := validateEndpoint(endpoint); err != nil {
		return nil, fmt.Errorf("serpapi: %w", err)
	}
	return &SerpAPI{
		endpoint:   endpoint,
		apiKey:     apiKey,
		maxResults: maxResults,
		client:     newHTTPClient(client),
	}, nil
}

// Name identifies the provider.
func (s *SerpAPI) Name() string {
	return SerpAPIName
}

type serpItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Run fetches results; both the bare list and the organic_results envelope
// are accepted.
func (s *SerpAPI) Run(ctx context.Context, enhancedQuery string) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", enhancedQuery)
	params.Set("api_key", s.apiKey)
	params.Set("num", strconv.Itoa(s.maxResults))
	params.Set("hl", "bn")
	params.Set("gl", "bd")

	var raw json.RawMessage
	if err := getJSON(ctx, s.client, s.endpoint, params, &raw); err != nil {
		return nil, fmt.Errorf("serpapi search: %w", err)
	}

	items, err := decodeSerpItems(raw)
	if err != nil {
		return nil, fmt.Errorf("serpapi search: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, domain.SearchResult{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: CleanSnippet(item.Snippet),
			Score:   domain.Score(1.0),
		})
	}
	return results, nil
}

func decodeSerpItems(raw json.RawMessage) ([]serpItem, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var items []serpItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode result list: %w", err)
		}
		return items, nil
	}

	var envelope struct {
		Error          string     `json:"error"`
		OrganicResults []serpItem `json:"organic_results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode organic results: %w", err)
	}
	if envelope.Error != "" && len(envelope.OrganicResults) == 0 {
		return nil, errors.New(envelope.Error)
	}
	return envelope.OrganicResults, nil
}
