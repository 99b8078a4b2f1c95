package usecase

import (
	"context"
	"log/slog"
	"time"

	"GovAI/internal/ports"
)

// Scheduler wires the ticking driver with the digest reporter.
type Scheduler struct {
	driver   ports.Scheduler
	reporter *DigestReporter
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop the recurring digest.
func NewScheduler(driver ports.Scheduler, reporter *DigestReporter, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{driver: driver, reporter: reporter, logger: logger}
}

// Start registers the digest job with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.reporter == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := s.reporter.Report(ctx, trigger); err != nil {
			s.logger.Error("digest failed", "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
