package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"GovAI/internal/classifier"
	"GovAI/internal/domain"
	"GovAI/internal/metrics"
	"GovAI/internal/ports"
)

const searchSiteQualifier = "Bangladesh government official site:gov.bd OR site:bangladesh.gov.bd"

var errNoResults = errors.New("provider returned no results")

// SearchOptions bounds provider calls and the result cache.
type SearchOptions struct {
	MaxResults int
	Timeout    time.Duration
	CacheSize  int
	CacheTTL   time.Duration
}

// SearchOrchestrator turns a query into search results. It never fails:
// provider errors, empty answers and a missing provider all yield the
// local fallback table.
type SearchOrchestrator struct {
	provider   ports.SearchProvider
	maxResults int
	timeout    time.Duration
	cache      *expirable.LRU[string, []domain.SearchResult]
	group      singleflight.Group
	logger     *slog.Logger
}

// NewSearchOrchestrator accepts a nil provider; every search then uses the
// fallback results.
func NewSearchOrchestrator(provider ports.SearchProvider, opts SearchOptions, logger *slog.Logger) *SearchOrchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 6
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	s := &SearchOrchestrator{
		provider:   provider,
		maxResults: opts.MaxResults,
		timeout:    opts.Timeout,
		logger:     logger,
	}
	if opts.CacheSize > 0 {
		s.cache = expirable.NewLRU[string, []domain.SearchResult](opts.CacheSize, nil, opts.CacheTTL)
	}
	return s
}

// AugmentQuery appends the government-site qualifier sent to providers.
func AugmentQuery(query string) string {
	return query + " " + searchSiteQualifier
}

// Search returns at most MaxResults entries and never an empty slice.
func (s *SearchOrchestrator) Search(ctx context.Context, query string, lang domain.Language) []domain.SearchResult {
	if s.provider == nil {
		s.logger.Warn("no search provider available, using fallback results")
		metrics.RecordSearchFallback(metrics.ReasonNoProvider)
		return FallbackResults(query)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(query); ok {
			s.logger.Debug("search cache hit", "query", query)
			metrics.RecordCacheHit()
			return cloneResults(cached)
		}
	}

	s.logger.Info("searching", "provider", s.provider.Name(), "query", query, "language", lang)

	ch := s.group.DoChan(query, func() (any, error) {
		return s.run(ctx, query)
	})

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.Err != nil {
			s.logger.Warn("search failed, using fallback results",
				"provider", s.provider.Name(),
				"kind", domain.KindSearchProviderFailure,
				"error", res.Err)
			metrics.RecordSearchFallback(metrics.ReasonError)
			return FallbackResults(query)
		}
		results := cloneResults(res.Val.([]domain.SearchResult))
		s.logger.Info("search completed", "query", query, "results", len(results))
		return results
	case <-timer.C:
		s.logger.Warn("search timed out, using fallback results",
			"provider", s.provider.Name(), "timeout", s.timeout)
		metrics.RecordSearchFallback(metrics.ReasonTimeout)
		return FallbackResults(query)
	case <-ctx.Done():
		s.logger.Warn("search abandoned", "error", ctx.Err())
		metrics.RecordSearchFallback(metrics.ReasonCancelled)
		return FallbackResults(query)
	}
}

// run is shared by concurrent identical searches, so it outlives any single
// caller's cancellation and is bounded by the timeout alone.
func (s *SearchOrchestrator) run(ctx context.Context, query string) ([]domain.SearchResult, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	results, err := s.provider.Run(ctx, AugmentQuery(query))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.provider.Name(), err)
	}
	if len(results) == 0 {
		return nil, errNoResults
	}
	if len(results) > s.maxResults {
		results = results[:s.maxResults]
	}

	if s.cache != nil {
		s.cache.Add(query, results)
	}
	return results, nil
}

func cloneResults(in []domain.SearchResult) []domain.SearchResult {
	out := make([]domain.SearchResult, len(in))
	copy(out, in)
	return out
}

type fallbackEntry struct {
	keywords []string
	result   domain.SearchResult
}

var fallbackTable = []fallbackEntry{
	{
		keywords: []string{"পাসপোর্ট", "passport"},
		result: domain.SearchResult{
			Title:   "পাসপোর্ট আবেদন - বাংলাদেশ সরকার",
			URL:     "https://www.dip.portal.gov.bd/",
			Snippet: "পাসপোর্ট আবেদনের জন্য প্রয়োজনীয় কাগজপত্র ও প্রক্রিয়া সম্পর্কে বিস্তারিত তথ্য।",
		},
	},
	{
		keywords: []string{"জাতীয় পরিচয়পত্র", "nid", "national id"},
		result: domain.SearchResult{
			Title:   "জাতীয় পরিচয়পত্র - নির্বাচন কমিশন",
			URL:     "https://services.nidportal.gov.bd/",
			Snippet: "জাতীয় পরিচয়পত্র সংশোধন, নতুন আবেদন ও অন্যান্য সেবা।",
		},
	},
	{
		keywords: []string{"জন্ম নিবন্ধন", "birth certificate", "birth"},
		result: domain.SearchResult{
			Title:   "জন্ম ও মৃত্যু নিবন্ধন - স্থানীয় সরকার বিভাগ",
			URL:     "https://bdris.gov.bd/",
			Snippet: "জন্ম ও মৃত্যু নিবন্ধন সংক্রান্ত সকল সেবা।",
		},
	},
	{
		keywords: []string{"ড্রাইভিং", "driving", "license", "লাইসেন্স"},
		result: domain.SearchResult{
			Title:   "ড্রাইভিং লাইসেন্স - বাংলাদেশ সড়ক পরিবহন কর্তৃপক্ষ",
			URL:     "https://www.brta.gov.bd/",
			Snippet: "ড্রাইভিং লাইসেন্স আবেদন, রিনিউ এবং সংশোধন সংক্রান্ত সেবা। ফি: নতুন লাইসেন্স ৫০০-১০০০ টাকা, রিনিউ ৫০০ টাকা।",
		},
	},
	{
		keywords: []string{"কর", "tax", "tin"},
		result: domain.SearchResult{
			Title:   "জাতীয় রাজস্ব বোর্ড - কর সেবা",
			URL:     "https://www.nbr.gov.bd/",
			Snippet: "আয়কর, মূল্য সংযোজন কর (ভ্যাট) এবং TIN সংক্রান্ত সকল সেবা।",
		},
	},
	{
		keywords: []string{"শিক্ষা", "education", "certificate", "সার্টিফিকেট"},
		result: domain.SearchResult{
			Title:   "শিক্ষা বোর্ড - সার্টিফিকেট সেবা",
			URL:     "https://www.educationboardresults.gov.bd/",
			Snippet: "শিক্ষা সনদ, ফলাফল এবং সার্টিফিকেট সংক্রান্ত সেবা।",
		},
	},
}

var genericFallback = []domain.SearchResult{
	{
		Title:   "বাংলাদেশ সরকারের তথ্য বাতায়ন",
		URL:     "https://bangladesh.gov.bd/",
		Snippet: "বাংলাদেশ সরকারের সকল মন্ত্রণালয় ও বিভাগের তথ্য ও সেবা।",
	},
	{
		Title:   "সেবা প্রদান প্রতিশ্রুতি",
		URL:     "https://services.portal.gov.bd/",
		Snippet: "সরকারি সকল সেবার তালিকা এবং আবেদন প্রক্রিয়া।",
	},
}

// FallbackResults returns one curated entry per matched service category,
// or the two generic portals when nothing matches.
func FallbackResults(query string) []domain.SearchResult {
	var out []domain.SearchResult
	for _, entry := range fallbackTable {
		if classifier.ContainsAny(query, entry.keywords) {
			out = append(out, withScore(entry.result))
		}
	}
	if len(out) == 0 {
		for _, r := range genericFallback {
			out = append(out, withScore(r))
		}
	}
	return out
}

func withScore(r domain.SearchResult) domain.SearchResult {
	r.Score = domain.Score(1.0)
	return r
}

const noContextSentinel = "কোনো প্রাসঙ্গিক তথ্য পাওয়া যায়নি।"

// FormatSearchContext renders results as a numbered block for the prompt.
func FormatSearchContext(results []domain.SearchResult) string {
	if len(results) == 0 {
		return noContextSentinel
	}

	var b strings.Builder
	b.WriteString("নিম্নলিখিত তথ্যসূত্র থেকে প্রাপ্ত তথ্য:\n\n")
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Title)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   বিবরণ: %s\n", r.Snippet)
		}
		fmt.Fprintf(&b, "   লিংক: %s\n\n", r.URL)
	}
	return b.String()
}
