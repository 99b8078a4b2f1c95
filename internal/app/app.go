package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"GovAI/internal/analytics"
	"GovAI/internal/config"
	"GovAI/internal/domain"
	"GovAI/internal/httpapi"
	"GovAI/internal/infrastructure/llm"
	"GovAI/internal/infrastructure/scheduler"
	"GovAI/internal/infrastructure/search"
	"GovAI/internal/infrastructure/storage"
	"GovAI/internal/infrastructure/telegram"
	"GovAI/internal/logging"
	"GovAI/internal/ports"
	"GovAI/internal/usagelog"
	"GovAI/internal/usecase"
)

// LocalClientIP is recorded for queries asked from the command line.
const LocalClientIP = "127.0.0.1"

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	resolver  *usecase.Resolver
	engine    *analytics.Engine
	store     *usagelog.Store
	archive   *storage.SQLiteArchive
	scheduler *usecase.Scheduler
}

// New builds the query pipeline, usage log and optional digest job. Missing
// provider keys degrade to fallback answers rather than failing startup.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	choice := search.Select(cfg.Search, nil, baseLogger.With("component", "search"))
	if choice.None() {
		baseLogger.Warn("no search provider configured, using built-in government links")
	}
	searcher := usecase.NewSearchOrchestrator(choice.Provider, usecase.SearchOptions{
		MaxResults: cfg.Search.MaxResults,
		Timeout:    cfg.Search.Timeout,
		CacheSize:  cfg.Search.CacheSize,
		CacheTTL:   cfg.Search.CacheTTL,
	}, baseLogger.With("component", "search"))

	var completer ports.ChatCompleter
	if cfg.LLM.APIKey != "" {
		completer = llm.NewChatClient(cfg.LLM, nil)
	} else {
		baseLogger.Warn("llm api key missing, answers will use fallback templates")
	}
	generator := usecase.NewAnswerGenerator(completer, usecase.GenerationOptions{
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, baseLogger.With("component", "generator"))

	workflow := usecase.NewWorkflow(searcher, generator, baseLogger.With("component", "workflow"))

	store := usagelog.Open(cfg.UsageLog.Path, cfg.UsageLog.MemoryCap, baseLogger.With("component", "usagelog"))
	engine := analytics.New(store, cfg.UsageLog.StatsLimit)

	a := &Application{cfg: cfg, logger: baseLogger, engine: engine, store: store}

	var archive ports.QueryArchive
	if cfg.Archive.DSN != "" {
		sqlArchive, err := storage.OpenSQLiteArchive(cfg.Archive.DSN)
		if err != nil {
			baseLogger.Warn("query archive disabled", "dsn", cfg.Archive.DSN, "error", err)
		} else {
			a.archive = sqlArchive
			archive = sqlArchive
		}
	}

	a.resolver = usecase.NewResolver(usecase.ResolverDeps{
		Workflow: workflow,
		Log:      store,
		Archive:  archive,
		Logger:   baseLogger.With("component", "resolver"),
	})

	if cfg.Digest.Enabled {
		var notifier ports.Notifier
		if tg := telegram.NewNotifier(cfg.Notifications.Telegram); tg.Configured() {
			notifier = tg
		}
		reporter := usecase.NewDigestReporter(engine, notifier, baseLogger.With("component", "digest"))
		a.scheduler = usecase.NewScheduler(
			scheduler.NewTickerScheduler(cfg.Digest.Interval, false),
			reporter,
			baseLogger.With("component", "scheduler"),
		)
	}

	return a
}

// Run serves HTTP until ctx is cancelled or the listener fails, then drains
// the server and stops the digest job.
func (a *Application) Run(ctx context.Context) error {
	server := httpapi.NewServer(a.cfg.Server, a.cfg.Admin.Token, httpapi.Deps{
		Resolver:  a.resolver,
		Dashboard: a.engine,
		Logger:    a.logger.With("component", "http"),
	})

	a.logger.Info("starting", "addr", a.cfg.Server.Addr(), "query_log", a.LogPath(), "query_log_mode", a.LogMode())

	g, gctx := errgroup.WithContext(ctx)

	if a.scheduler != nil {
		if err := a.scheduler.Start(gctx); err != nil {
			return fmt.Errorf("start digest scheduler: %w", err)
		}
	}

	g.Go(func() error {
		return server.Start(a.cfg.Server.Addr())
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		if a.scheduler != nil {
			if err := a.scheduler.Stop(shutdownCtx); err != nil {
				a.logger.Warn("digest scheduler stop", "error", err)
			}
		}
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Ask resolves one query outside of HTTP, recording it like any other.
func (a *Application) Ask(ctx context.Context, query string, includeSources bool) (domain.Outcome, error) {
	return a.resolver.Resolve(ctx, usecase.ResolveRequest{
		Query:          query,
		IncludeSources: includeSources,
		ClientIP:       LocalClientIP,
	})
}

// Dashboard exposes the statistics surface.
func (a *Application) Dashboard() *analytics.Engine {
	return a.engine
}

// LogMode reports whether the usage log is file-backed.
func (a *Application) LogMode() usagelog.Mode {
	return a.store.Mode()
}

// LogPath is the usage log file; empty when records stay in memory.
func (a *Application) LogPath() string {
	if a.store.Mode() != usagelog.ModeDurable {
		return ""
	}
	return a.store.Path()
}

// Archive returns the SQLite archive, or nil when none is configured.
func (a *Application) Archive() *storage.SQLiteArchive {
	return a.archive
}

// Close releases the archive connection.
func (a *Application) Close() error {
	if a.archive == nil {
		return nil
	}
	return a.archive.Close()
}
