// Package analytics aggregates the query log into dashboard statistics.
// Nothing is cached: every call rescans the log.
package analytics

import (
	"math"
	"sort"
	"time"

	"GovAI/internal/domain"
	"GovAI/internal/ports"
)

const (
	// DefaultCeiling is how many records a stats scan reads at most.
	DefaultCeiling = 1000

	topQueriesLimit = 10
	hourBuckets     = 24
)

// Engine serves the dashboard read surface.
type Engine struct {
	log     ports.QueryLog
	ceiling int
	now     func() time.Time
}

// New builds an engine over log; ceiling <= 0 uses DefaultCeiling.
func New(log ports.QueryLog, ceiling int) *Engine {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &Engine{log: log, ceiling: ceiling, now: time.Now}
}

// Stats computes a snapshot at the current time.
func (e *Engine) Stats() domain.StatsSnapshot {
	return e.ComputeStats(e.now())
}

// ComputeStats scans up to the ceiling of records and aggregates them.
func (e *Engine) ComputeStats(now time.Time) domain.StatsSnapshot {
	return Compute(e.read(e.ceiling), now)
}

// Recent returns up to limit records, newest first.
func (e *Engine) Recent(limit int) []domain.LogRecord {
	records := e.read(limit)
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records
}

// All returns up to limit records in chronological order.
func (e *Engine) All(limit int) []domain.LogRecord {
	return e.read(limit)
}

func (e *Engine) read(limit int) []domain.LogRecord {
	if e.log == nil {
		return []domain.LogRecord{}
	}
	records := e.log.Read(limit)
	if records == nil {
		return []domain.LogRecord{}
	}
	return records
}

// Compute aggregates records as of now. Empty input yields zero values, an
// empty top list and 24 zero buckets.
func Compute(records []domain.LogRecord, now time.Time) domain.StatsSnapshot {
	now = now.UTC()
	snapshot := domain.StatsSnapshot{
		TotalQueries:      len(records),
		TopQueries:        []domain.QueryCount{},
		QueriesByHour:     hourHistogram(records, now),
		QueriesByLanguage: map[string]int{},
	}
	if len(records) == 0 {
		return snapshot
	}

	todayY, todayM, todayD := now.Date()

	var (
		totalTime  float64
		successful int
		counts     = map[string]int{}
		order      []string
	)
	for _, rec := range records {
		totalTime += rec.ProcessingTime
		if rec.Status == domain.StatusSuccess {
			successful++
		}
		if t, ok := rec.Time(); ok {
			if y, m, d := t.Date(); y == todayY && m == todayM && d == todayD {
				snapshot.QueriesToday++
			}
		}
		if _, seen := counts[rec.Query]; !seen {
			order = append(order, rec.Query)
		}
		counts[rec.Query]++
		snapshot.QueriesByLanguage[rec.Language]++
	}

	total := float64(len(records))
	snapshot.AvgProcessingTime = round2(totalTime / total)
	snapshot.SuccessRate = round2(float64(successful) / total * 100)
	snapshot.TopQueries = topQueries(counts, order)
	return snapshot
}

// topQueries sorts by count descending; the stable sort keeps first-seen
// order among equal counts.
func topQueries(counts map[string]int, order []string) []domain.QueryCount {
	out := make([]domain.QueryCount, 0, len(order))
	for _, q := range order {
		out = append(out, domain.QueryCount{Query: q, Count: counts[q]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > topQueriesLimit {
		out = out[:topQueriesLimit]
	}
	return out
}

// hourHistogram buckets records into [now-(i+1)h, now-ih) for i in 0..23
// and returns them oldest first.
func hourHistogram(records []domain.LogRecord, now time.Time) []domain.HourCount {
	var counts [hourBuckets]int
	for _, rec := range records {
		t, ok := rec.Time()
		if !ok {
			continue
		}
		age := now.Sub(t)
		if age <= 0 || age > hourBuckets*time.Hour {
			continue
		}
		counts[int((age-1)/time.Hour)]++
	}

	out := make([]domain.HourCount, 0, hourBuckets)
	for i := hourBuckets - 1; i >= 0; i-- {
		start := now.Add(-time.Duration(i+1) * time.Hour)
		out = append(out, domain.HourCount{
			Hour:  start.Format("15") + ":00",
			Count: counts[i],
		})
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
