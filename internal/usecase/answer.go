package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"GovAI/internal/classifier"
	"GovAI/internal/domain"
	"GovAI/internal/metrics"
	"GovAI/internal/ports"
)

var errNoCompleter = errors.New("generation provider not configured")

// GenerationOptions are passed through to the completion call.
type GenerationOptions struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// AnswerGenerator prompts the language model and substitutes a templated
// answer whenever the call fails.
type AnswerGenerator struct {
	completer ports.ChatCompleter
	opts      GenerationOptions
	logger    *slog.Logger
}

// NewAnswerGenerator accepts a nil completer; every answer is then a
// fallback.
func NewAnswerGenerator(completer ports.ChatCompleter, opts GenerationOptions, logger *slog.Logger) *AnswerGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 3000
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &AnswerGenerator{completer: completer, opts: opts, logger: logger}
}

// Generate returns the model's answer, or a fallback answer with failed set.
func (g *AnswerGenerator) Generate(ctx context.Context, query string, results []domain.SearchResult, searchContext string) (answer string, failed bool) {
	text, err := g.complete(ctx, query, searchContext)
	if err != nil {
		g.logger.Error("answer generation failed",
			"kind", domain.KindGenerationFailure,
			"sources", len(results),
			"error", err)
		metrics.RecordGenerationFailure()
		return FallbackAnswer(query), true
	}

	g.logger.Info("answer generated", "sources", len(results), "chars", len(text))
	return text, false
}

func (g *AnswerGenerator) complete(ctx context.Context, query, searchContext string) (string, error) {
	if g.completer == nil {
		return "", errNoCompleter
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	text, err := g.completer.Complete(ctx, systemPrompt, buildUserPrompt(query, searchContext), g.opts.MaxTokens, g.opts.Temperature)
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	if text == "" {
		return "", errors.New("complete: empty answer")
	}
	return text, nil
}

// FallbackAnswer picks the refusal for off-topic queries and the apology
// otherwise. It depends on the query text alone.
func FallbackAnswer(query string) string {
	if classifier.ContainsAny(query, offTopicKeywords) {
		return refusalAnswer
	}
	return fmt.Sprintf(apologyTemplate, query)
}
