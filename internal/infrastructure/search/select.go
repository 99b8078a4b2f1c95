package search

import (
	"log/slog"
	"net/http"

	"GovAI/internal/config"
	"GovAI/internal/ports"
)

// Kind tags which provider backs a Choice.
type Kind string

const (
	KindNone    Kind = "none"
	KindTavily  Kind = TavilyName
	KindSerpAPI Kind = SerpAPIName
)

// Choice is the provider resolved once at startup.
type Choice struct {
	Kind     Kind
	Provider ports.SearchProvider
}

// None reports whether searches must use local fallback results.
func (c Choice) None() bool {
	return c.Kind == KindNone || c.Provider == nil
}

type candidate struct {
	kind  Kind
	key   string
	build func() (ports.SearchProvider, error)
}

// Select walks providers in preference order (Tavily, then SerpAPI) and
// returns the first whose key is configured and whose client constructs.
func Select(cfg config.SearchConfig, client *http.Client, logger *slog.Logger) Choice {
	if logger == nil {
		logger = slog.Default()
	}

	candidates := []candidate{
		{
			kind: KindTavily,
			key:  cfg.TavilyAPIKey,
			build: func() (ports.SearchProvider, error) {
				return NewTavily(cfg.TavilyEndpoint, cfg.TavilyAPIKey, cfg.MaxResults, client)
			},
		},
		{
			kind: KindSerpAPI,
			key:  cfg.SerpAPIKey,
			build: func() (ports.SearchProvider, error) {
				return NewSerpAPI(cfg.SerpAPIEndpoint, cfg.SerpAPIKey, cfg.MaxResults, client)
			},
		},
	}

	for _, c := range candidates {
		logger.Info("search provider key", "provider", c.kind, "configured", c.key != "")
		if c.key == "" {
			continue
		}
		provider, err := c.build()
		if err != nil {
			logger.Error("search provider init failed", "provider", c.kind, "error", err)
			continue
		}
		logger.Info("search provider selected", "provider", c.kind)
		return Choice{Kind: c.kind, Provider: provider}
	}

	logger.Warn("no search provider configured, using fallback results",
		"hint", "set TAVILY_API_KEY or SERPAPI_API_KEY")
	return Choice{Kind: KindNone}
}
