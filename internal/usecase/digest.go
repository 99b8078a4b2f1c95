package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"GovAI/internal/domain"
	"GovAI/internal/ports"
)

// StatsSource computes a usage snapshot for a given instant.
type StatsSource interface {
	ComputeStats(now time.Time) domain.StatsSnapshot
}

// DigestReporter turns a stats snapshot into a periodic usage digest.
type DigestReporter struct {
	stats    StatsSource
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewDigestReporter accepts a nil notifier; digests are then only logged.
func NewDigestReporter(stats StatsSource, notifier ports.Notifier, logger *slog.Logger) *DigestReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DigestReporter{stats: stats, notifier: notifier, logger: logger}
}

// Report computes stats at now, logs them and publishes the digest.
func (d *DigestReporter) Report(ctx context.Context, now time.Time) error {
	if d.stats == nil {
		return nil
	}

	snapshot := d.stats.ComputeStats(now)
	d.logger.Info("usage digest",
		"total_queries", snapshot.TotalQueries,
		"queries_today", snapshot.QueriesToday,
		"success_rate", snapshot.SuccessRate,
		"avg_processing_time", snapshot.AvgProcessingTime)

	if d.notifier == nil {
		return nil
	}

	if err := d.notifier.PublishDigest(ctx, BuildDigestMessage(now, snapshot)); err != nil {
		return fmt.Errorf("publish digest: %w", err)
	}
	return nil
}

// BuildDigestMessage renders a plain-text digest.
func BuildDigestMessage(now time.Time, s domain.StatsSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "GovAI usage digest (%s UTC)\n", now.UTC().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Total queries: %d\n", s.TotalQueries)
	fmt.Fprintf(&b, "Today: %d\n", s.QueriesToday)
	fmt.Fprintf(&b, "Success rate: %.2f%%\n", s.SuccessRate)
	fmt.Fprintf(&b, "Avg processing time: %.2fs\n", s.AvgProcessingTime)

	if len(s.QueriesByLanguage) > 0 {
		langs := make([]string, 0, len(s.QueriesByLanguage))
		for lang := range s.QueriesByLanguage {
			langs = append(langs, lang)
		}
		sort.Strings(langs)

		parts := make([]string, 0, len(langs))
		for _, lang := range langs {
			parts = append(parts, fmt.Sprintf("%s=%d", lang, s.QueriesByLanguage[lang]))
		}
		fmt.Fprintf(&b, "Languages: %s\n", strings.Join(parts, ", "))
	}

	if len(s.TopQueries) > 0 {
		b.WriteString("Top queries:\n")
		for _, q := range s.TopQueries {
			fmt.Fprintf(&b, "- %s (%d)\n", q.Query, q.Count)
		}
	}
	return b.String()
}
