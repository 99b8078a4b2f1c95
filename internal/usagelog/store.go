// Package usagelog keeps the append-only query log. A writable log path
// gives a JSON-lines file; otherwise records live in a bounded in-memory
// buffer for the lifetime of the process.
package usagelog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"GovAI/internal/domain"
	"GovAI/internal/metrics"
	"GovAI/internal/ports"
)

// Mode is fixed when the store is created.
type Mode string

const (
	ModeDurable   Mode = "durable"
	ModeEphemeral Mode = "ephemeral"
)

// DefaultCapacity bounds the in-memory buffer.
const DefaultCapacity = 1000

const (
	maxLineBytes = 1 << 20
	maxTailRing  = 100_000
)

// Store implements ports.QueryLog.
type Store struct {
	path   string
	mode   Mode
	logger *slog.Logger

	writeMu sync.Mutex

	bufMu sync.RWMutex
	buf   *ring
}

var _ ports.QueryLog = (*Store)(nil)

// Open checks that path is writable and picks the mode accordingly.
func Open(path string, capacity int, logger *slog.Logger) *Store {
	s := newStore(path, capacity, logger)
	if err := checkWritable(path); err != nil {
		s.logger.Warn("query log path not writable, keeping records in memory",
			"path", path, "capacity", len(s.buf.items), "error", err)
		s.mode = ModeEphemeral
		return s
	}
	s.mode = ModeDurable
	s.logger.Info("query log opened", "path", path, "mode", s.mode)
	return s
}

// NewEphemeral returns a memory-only store.
func NewEphemeral(capacity int, logger *slog.Logger) *Store {
	s := newStore("", capacity, logger)
	s.mode = ModeEphemeral
	return s
}

func newStore(path string, capacity int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{path: path, logger: logger, buf: newRing(capacity)}
}

func checkWritable(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	marker := path + ".writable"
	if err := os.WriteFile(marker, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("write marker: %w", err)
	}
	if err := os.Remove(marker); err != nil {
		return fmt.Errorf("remove marker: %w", err)
	}
	return nil
}

// Mode reports the storage strategy chosen at startup.
func (s *Store) Mode() Mode {
	return s.mode
}

// Path is the log file location; empty for memory-only stores.
func (s *Store) Path() string {
	return s.path
}

// Append records rec. It never fails: a durable write error keeps the
// record in memory instead.
func (s *Store) Append(rec domain.LogRecord) {
	if s.mode == ModeDurable {
		err := s.appendFile(rec)
		if err == nil {
			return
		}
		metrics.RecordLogWriteFailure()
		s.logger.Warn("query log write failed, buffering in memory",
			"kind", domain.KindLogWriteFailure, "path", s.path, "error", err)
	}

	s.bufMu.Lock()
	s.buf.push(rec)
	s.bufMu.Unlock()
}

func (s *Store) appendFile(rec domain.LogRecord) error {
	line, err := encodeLine(rec)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("write log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log: %w", err)
	}
	return nil
}

func encodeLine(rec domain.LogRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return buf.Bytes(), nil
}

// Read returns the newest limit records in chronological order; limit <= 0
// returns everything available. In durable mode records buffered after a
// failed write are merged with the file tail.
func (s *Store) Read(limit int) []domain.LogRecord {
	buffered := s.bufferTail(limit)
	if s.mode != ModeDurable {
		return buffered
	}

	records, err := s.readFile(limit)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		return buffered
	default:
		s.logger.Warn("query log read failed, serving memory buffer", "path", s.path, "error", err)
		return buffered
	}
	if len(buffered) == 0 {
		return records
	}

	merged := mergeChronological(records, buffered)
	if limit > 0 && len(merged) > limit {
		merged = merged[len(merged)-limit:]
	}
	return merged
}

// mergeChronological merges two chronological slices. Records whose
// timestamp cannot be parsed keep their position relative to their own slice.
func mergeChronological(a, b []domain.LogRecord) []domain.LogRecord {
	out := make([]domain.LogRecord, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if earlier(b[j], a[i]) {
			out = append(out, b[j])
			j++
			continue
		}
		out = append(out, a[i])
		i++
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

func earlier(x, y domain.LogRecord) bool {
	tx, okx := x.Time()
	ty, oky := y.Time()
	return okx && oky && tx.Before(ty)
}

func (s *Store) bufferTail(limit int) []domain.LogRecord {
	s.bufMu.RLock()
	defer s.bufMu.RUnlock()
	return s.buf.tail(limit)
}

func (s *Store) readFile(limit int) ([]domain.LogRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	var (
		all  []domain.LogRecord
		tail *ring
	)
	if limit > 0 && limit <= maxTailRing {
		tail = newRing(limit)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec domain.LogRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			s.logger.Debug("skipping malformed log line", "line", lineNo, "error", err)
			continue
		}
		if tail != nil {
			tail.push(rec)
		} else {
			all = append(all, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan log: %w", err)
	}

	if tail != nil {
		return tail.tail(0), nil
	}
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	if all == nil {
		all = []domain.LogRecord{}
	}
	return all, nil
}
