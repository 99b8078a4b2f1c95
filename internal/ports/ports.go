package ports

import (
	"context"
	"time"

	"GovAI/internal/domain"
)

// SearchProvider runs an already-augmented query against a web search API.
type SearchProvider interface {
	Name() string
	Run(ctx context.Context, enhancedQuery string) ([]domain.SearchResult, error)
}

// ChatCompleter invokes a remote text-generation model once.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error)
}

// QueryLog is the append-only usage log consumed by analytics.
type QueryLog interface {
	Append(record domain.LogRecord)
	Read(limit int) []domain.LogRecord
}

// QueryArchive mirrors log records into queryable storage.
type QueryArchive interface {
	Save(ctx context.Context, record domain.LogRecord) error
	Recent(ctx context.Context, limit int) ([]domain.LogRecord, error)
}

// Notifier streams usage digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
