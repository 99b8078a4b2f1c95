package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"GovAI/internal/classifier"
	"GovAI/internal/domain"
	"GovAI/internal/metrics"
	"GovAI/internal/ports"
)

// User-facing messages for surfaced errors.
const (
	MsgEmptyQuery      = "প্রশ্ন খালি রাখা যাবে না"
	msgInternalFailure = "প্রশ্ন প্রক্রিয়াকরণে সমস্যা হয়েছে"
)

const archiveTimeout = 2 * time.Second

// ResolveRequest is the inbound "resolve query" operation.
type ResolveRequest struct {
	Query          string
	IncludeSources bool
	ClientIP       string
}

// ResolverDeps wires the collaborators of the pipeline driver.
type ResolverDeps struct {
	Workflow *Workflow
	Log      ports.QueryLog
	Archive  ports.QueryArchive
	Logger   *slog.Logger
	Now      func() time.Time
}

// Resolver drives one pipeline invocation and records its outcome.
type Resolver struct {
	workflow *Workflow
	log      ports.QueryLog
	archive  ports.QueryArchive
	logger   *slog.Logger
	now      func() time.Time
}

// NewResolver constructs the pipeline driver.
func NewResolver(deps ResolverDeps) *Resolver {
	r := &Resolver{
		workflow: deps.Workflow,
		log:      deps.Log,
		archive:  deps.Archive,
		logger:   deps.Logger,
		now:      deps.Now,
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Resolve answers one query. Only EmptyQuery and InternalFailure are
// surfaced as *domain.Error; a cancelled caller gets the context error and
// no log record is written.
func (r *Resolver) Resolve(ctx context.Context, req ResolveRequest) (domain.Outcome, error) {
	start := r.now()

	text := classifier.Sanitize(req.Query)
	if text == "" {
		return domain.Outcome{}, domain.NewError(domain.KindEmptyQuery, MsgEmptyQuery, nil)
	}

	r.logger.Info("processing query", "query", text, "ip", req.ClientIP)

	state, err := r.runWorkflow(ctx, req.Query)
	if ctxErr := ctx.Err(); ctxErr != nil {
		r.logger.Warn("query abandoned by caller", "query", text, "error", ctxErr)
		return domain.Outcome{}, ctxErr
	}

	elapsed := roundSeconds(r.now().Sub(start))

	if err != nil {
		lang := state.Query.Language
		if lang == "" {
			lang = classifier.DetectLanguage(text)
		}
		r.record(ctx, domain.NewLogRecord(r.now(), text, lang, elapsed, req.ClientIP, domain.StatusError))
		r.logger.Error("query failed", "query", text, "error", err)
		return domain.Outcome{}, domain.NewError(domain.KindInternalFailure,
			fmt.Sprintf("%s: %v", msgInternalFailure, err), err)
	}

	outcome := domain.Outcome{
		Query:          state.Query.Text,
		Answer:         Shape(state.Answer),
		ProcessingTime: elapsed,
		Timestamp:      r.now().UTC(),
	}
	if req.IncludeSources {
		outcome.Sources = state.Results
	}

	status := domain.StatusSuccess
	if state.GenerationFailed {
		status = domain.StatusError
	}
	r.record(ctx, domain.NewLogRecord(outcome.Timestamp, outcome.Query, state.Query.Language, elapsed, req.ClientIP, status))

	r.logger.Info("query processed", "query", outcome.Query, "status", status, "processing_time", elapsed)
	return outcome, nil
}

func (r *Resolver) runWorkflow(ctx context.Context, raw string) (state WorkflowState, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	if r.workflow == nil {
		return state, errors.New("workflow not configured")
	}
	return r.workflow.Run(ctx, raw)
}

func (r *Resolver) record(ctx context.Context, rec domain.LogRecord) {
	metrics.RecordQuery(rec.Language, string(rec.Status), rec.ProcessingTime)
	if r.log != nil {
		r.log.Append(rec)
	}
	if r.archive == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()
	if err := r.archive.Save(ctx, rec); err != nil {
		r.logger.Warn("archive save failed", "kind", domain.KindLogWriteFailure, "error", err)
	}
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
