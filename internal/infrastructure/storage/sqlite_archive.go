package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"GovAI/internal/domain"
	"GovAI/internal/ports"
)

const archiveTable = "query_archive"

const schema = `CREATE TABLE IF NOT EXISTS query_archive (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp       TEXT NOT NULL,
	query           TEXT NOT NULL,
	language        TEXT NOT NULL,
	processing_time REAL NOT NULL,
	ip_address      TEXT NOT NULL,
	status          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_query_archive_timestamp ON query_archive(timestamp);`

// SQLiteArchive mirrors query log records into a SQLite table.
type SQLiteArchive struct {
	db *sql.DB
}

var _ ports.QueryArchive = (*SQLiteArchive)(nil)

// OpenSQLiteArchive opens (or creates) the archive database at dsn.
func OpenSQLiteArchive(dsn string) (*SQLiteArchive, error) {
	if dsn == "" {
		return nil, fmt.Errorf("archive dsn is empty")
	}
	if isFilePath(dsn) {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	// single writer; also keeps an in-memory database alive across calls
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteArchive{db: db}, nil
}

func isFilePath(dsn string) bool {
	return dsn != ":memory:" && !strings.HasPrefix(dsn, "file:")
}

// Save inserts one record.
func (a *SQLiteArchive) Save(ctx context.Context, rec domain.LogRecord) error {
	if a == nil || a.db == nil {
		return nil
	}

	query, args, err := sq.Insert(archiveTable).
		Columns("timestamp", "query", "language", "processing_time", "ip_address", "status").
		Values(rec.Timestamp, rec.Query, rec.Language, rec.ProcessingTime, rec.IPAddress, string(rec.Status)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (a *SQLiteArchive) Recent(ctx context.Context, limit int) ([]domain.LogRecord, error) {
	if a == nil || a.db == nil {
		return nil, nil
	}

	builder := sq.Select("timestamp", "query", "language", "processing_time", "ip_address", "status").
		From(archiveTable).
		OrderBy("id DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}

	var out []domain.LogRecord
	for rows.Next() {
		var (
			rec    domain.LogRecord
			status string
		)
		if err := rows.Scan(&rec.Timestamp, &rec.Query, &rec.Language, &rec.ProcessingTime, &rec.IPAddress, &status); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Status = domain.Status(status)
		out = append(out, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return out, nil
}

// Count reports how many records are archived.
func (a *SQLiteArchive) Count(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From(archiveTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int
	if err := a.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (a *SQLiteArchive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}
