package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GovAI/internal/domain"
	"GovAI/internal/logging"
	"GovAI/internal/usagelog"
)

var now = time.Date(2026, 4, 10, 12, 30, 0, 0, time.UTC)

func rec(at time.Time, query, lang string, took float64, status domain.Status) domain.LogRecord {
	return domain.LogRecord{
		Timestamp:      domain.FormatTimestamp(at),
		Query:          query,
		Language:       lang,
		ProcessingTime: took,
		IPAddress:      "127.0.0.1",
		Status:         status,
	}
}

func TestCompute_Empty(t *testing.T) {
	t.Parallel()

	s := Compute(nil, now)

	assert.Zero(t, s.TotalQueries)
	assert.Zero(t, s.QueriesToday)
	assert.Zero(t, s.AvgProcessingTime)
	assert.Zero(t, s.SuccessRate)
	assert.NotNil(t, s.TopQueries)
	assert.Empty(t, s.TopQueries)
	assert.NotNil(t, s.QueriesByLanguage)
	assert.Empty(t, s.QueriesByLanguage)
	require.Len(t, s.QueriesByHour, 24)
	for _, h := range s.QueriesByHour {
		assert.Zero(t, h.Count)
	}
}

func TestCompute_AllSuccess(t *testing.T) {
	t.Parallel()

	var records []domain.LogRecord
	for i := 0; i < 7; i++ {
		records = append(records, rec(now.Add(-time.Minute), "q", "bn", 1, domain.StatusSuccess))
	}

	s := Compute(records, now)
	assert.Equal(t, 100.0, s.SuccessRate)
	assert.Len(t, s.QueriesByHour, 24)
}

func TestCompute_Aggregates(t *testing.T) {
	t.Parallel()

	records := []domain.LogRecord{
		rec(now.Add(-30*time.Minute), "nid", "en", 1.0, domain.StatusSuccess),
		rec(now.Add(-90*time.Minute), "পাসপোর্ট", "bn", 2.0, domain.StatusSuccess),
		rec(now.Add(-26*time.Hour), "tax", "en", 3.0, domain.StatusError),
		rec(now.Add(-2*time.Hour), "পাসপোর্ট", "bn", 1.5, domain.StatusSuccess),
		rec(now.Add(-3*time.Hour), "nid", "en", 0.5, domain.StatusError),
		rec(now.Add(-4*time.Hour), "tax", "en", 1.0, domain.StatusSuccess),
	}

	s := Compute(records, now)

	assert.Equal(t, 6, s.TotalQueries)
	assert.Equal(t, 5, s.QueriesToday)
	assert.Equal(t, 1.5, s.AvgProcessingTime)
	assert.Equal(t, 66.67, s.SuccessRate)
	assert.Equal(t, map[string]int{"en": 4, "bn": 2}, s.QueriesByLanguage)

	// equal counts keep first-seen order
	assert.Equal(t, []domain.QueryCount{
		{Query: "nid", Count: 2},
		{Query: "পাসপোর্ট", Count: 2},
		{Query: "tax", Count: 2},
	}, s.TopQueries)
}

func TestCompute_TopQueriesCappedAndSorted(t *testing.T) {
	t.Parallel()

	var records []domain.LogRecord
	for i := 0; i < 12; i++ {
		q := string(rune('a' + i))
		for j := 0; j <= i%3; j++ {
			records = append(records, rec(now, q, "en", 1, domain.StatusSuccess))
		}
	}

	top := Compute(records, now).TopQueries
	require.Len(t, top, 10)
	assert.Equal(t, domain.QueryCount{Query: "c", Count: 3}, top[0])
	assert.Equal(t, domain.QueryCount{Query: "f", Count: 3}, top[1])
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Count, top[i].Count)
	}
}

func TestHourHistogram(t *testing.T) {
	t.Parallel()

	records := []domain.LogRecord{
		rec(now, "edge-now", "en", 1, domain.StatusSuccess),
		rec(now.Add(-time.Minute), "newest-bucket", "en", 1, domain.StatusSuccess),
		rec(now.Add(-time.Hour), "bucket-0-start", "en", 1, domain.StatusSuccess),
		rec(now.Add(-24*time.Hour), "oldest-bucket-start", "en", 1, domain.StatusSuccess),
		rec(now.Add(-25*time.Hour), "too-old", "en", 1, domain.StatusSuccess),
		{Timestamp: "garbage", Query: "x"},
	}

	hours := Compute(records, now).QueriesByHour
	require.Len(t, hours, 24)

	assert.Equal(t, "12:00", hours[0].Hour, "oldest bucket starts 24h ago")
	assert.Equal(t, 1, hours[0].Count)
	assert.Equal(t, "11:00", hours[23].Hour)
	assert.Equal(t, 2, hours[23].Count)

	total := 0
	for _, h := range hours {
		total += h.Count
	}
	assert.Equal(t, 3, total)
}

func TestCompute_NaiveTimestamps(t *testing.T) {
	t.Parallel()

	records := []domain.LogRecord{
		{Timestamp: "2026-04-10T11:59:00.123456", Query: "q", Language: "bn", Status: domain.StatusSuccess},
	}
	s := Compute(records, now)
	assert.Equal(t, 1, s.QueriesToday)
	assert.Equal(t, 1, s.QueriesByHour[23].Count)
}

func TestEngine_DashboardSurface(t *testing.T) {
	t.Parallel()

	store := usagelog.NewEphemeral(100, logging.Discard())
	for i := 0; i < 5; i++ {
		store.Append(rec(now.Add(time.Duration(i)*time.Minute), string(rune('a'+i)), "en", 1, domain.StatusSuccess))
	}

	engine := New(store, 3)

	recent := engine.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "e", recent[0].Query)
	assert.Equal(t, "d", recent[1].Query)

	all := engine.All(10)
	require.Len(t, all, 5)
	assert.Equal(t, "a", all[0].Query)

	assert.Equal(t, 3, engine.ComputeStats(now).TotalQueries, "bounded by the ceiling")
	assert.Len(t, engine.Stats().QueriesByHour, 24)
}

func TestEngine_NilLog(t *testing.T) {
	t.Parallel()

	engine := New(nil, 0)
	assert.Empty(t, engine.Recent(5))
	assert.Zero(t, engine.Stats().TotalQueries)
}
