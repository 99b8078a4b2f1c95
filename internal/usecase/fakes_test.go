package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"GovAI/internal/domain"
)

type fakeProvider struct {
	results []domain.SearchResult
	err     error
	block   bool
	calls   atomic.Int32
	mu      sync.Mutex
	queries []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Run(ctx context.Context, q string) ([]domain.SearchResult, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.results, f.err
}

type fakeCompleter struct {
	text       string
	err        error
	panicWith  any
	lastSystem string
	lastUser   string
	lastTokens int
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string, maxTokens int, _ float64) (string, error) {
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	f.lastSystem, f.lastUser, f.lastTokens = system, user, maxTokens
	return f.text, f.err
}

type memLog struct {
	mu      sync.Mutex
	records []domain.LogRecord
}

func (m *memLog) Append(r domain.LogRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
}

func (m *memLog) Read(limit int) []domain.LogRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.records) {
		limit = len(m.records)
	}
	out := make([]domain.LogRecord, limit)
	copy(out, m.records[len(m.records)-limit:])
	return out
}

type fakeArchive struct {
	saved []domain.LogRecord
	err   error
}

func (f *fakeArchive) Save(_ context.Context, r domain.LogRecord) error {
	f.saved = append(f.saved, r)
	return f.err
}

func (f *fakeArchive) Recent(_ context.Context, _ int) ([]domain.LogRecord, error) {
	return f.saved, nil
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) PublishDigest(_ context.Context, digest string) error {
	f.messages = append(f.messages, digest)
	return f.err
}

type fakeStats struct {
	snapshot domain.StatsSnapshot
	at       time.Time
}

func (f *fakeStats) ComputeStats(now time.Time) domain.StatsSnapshot {
	f.at = now
	return f.snapshot
}

type fakeDriver struct {
	job     func(time.Time)
	stopped bool
}

func (f *fakeDriver) Start(_ context.Context, job func(time.Time)) error {
	f.job = job
	return nil
}

func (f *fakeDriver) Stop(context.Context) error {
	f.stopped = true
	return nil
}
