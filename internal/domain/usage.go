package domain

import (
	"strings"
	"time"
)

// Status records whether a pipeline run produced a regular answer.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// naiveTimestampLayout matches ISO-8601 stamps written without a zone.
const naiveTimestampLayout = "2006-01-02T15:04:05.999999999"

// LogRecord is one line of the append-only query log.
type LogRecord struct {
	Timestamp      string  `json:"timestamp"`
	Query          string  `json:"query"`
	Language       string  `json:"language"`
	ProcessingTime float64 `json:"processing_time"`
	IPAddress      string  `json:"ip_address"`
	Status         Status  `json:"status"`
}

// NewLogRecord stamps a record with the given instant in UTC.
func NewLogRecord(at time.Time, query string, lang Language, processing float64, ip string, status Status) LogRecord {
	return LogRecord{
		Timestamp:      FormatTimestamp(at),
		Query:          query,
		Language:       string(lang),
		ProcessingTime: processing,
		IPAddress:      ip,
		Status:         status,
	}
}

// FormatTimestamp renders t as an ISO-8601 UTC string.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Time parses the record timestamp. Stamps without a zone are read as UTC.
func (r LogRecord) Time() (time.Time, bool) {
	s := strings.TrimSpace(r.Timestamp)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.ParseInLocation(naiveTimestampLayout, s, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// QueryCount is one row of the top-queries table.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// HourCount is one bucket of the trailing 24-hour histogram.
type HourCount struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

// StatsSnapshot aggregates the query log at a point in time.
type StatsSnapshot struct {
	TotalQueries      int            `json:"total_queries"`
	QueriesToday      int            `json:"queries_today"`
	AvgProcessingTime float64        `json:"avg_processing_time"`
	SuccessRate       float64        `json:"success_rate"`
	TopQueries        []QueryCount   `json:"top_queries"`
	QueriesByHour     []HourCount    `json:"queries_by_hour"`
	QueriesByLanguage map[string]int `json:"queries_by_language"`
}
