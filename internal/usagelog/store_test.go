package usagelog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GovAI/internal/domain"
	"GovAI/internal/logging"
)

func record(i int) domain.LogRecord {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).Add(time.Duration(i) * time.Minute)
	return domain.NewLogRecord(at, fmt.Sprintf("query %d", i), domain.LanguageEnglish, 1.5, "127.0.0.1", domain.StatusSuccess)
}

func TestDurable_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "queries.jsonl")
	store := Open(path, 10, logging.Discard())
	require.Equal(t, ModeDurable, store.Mode())
	assert.Equal(t, path, store.Path())

	_, err := os.Stat(path + ".writable")
	assert.True(t, os.IsNotExist(err), "writability marker is removed")

	rec := domain.NewLogRecord(time.Now(), "পাসপোর্ট করতে কি লাগে? <&>", domain.LanguageBangla, 3.21, "203.0.113.9", domain.StatusError)
	store.Append(record(1))
	store.Append(rec)

	got := store.Read(1)
	require.Len(t, got, 1)
	assert.Equal(t, rec, got[0])

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(raw), "\n"))
	assert.Contains(t, string(raw), "পাসপোর্ট করতে কি লাগে? <&>")
}

func TestDurable_ReadIsChronologicalAndBounded(t *testing.T) {
	t.Parallel()

	store := Open(filepath.Join(t.TempDir(), "q.jsonl"), 10, logging.Discard())
	for i := 0; i < 5; i++ {
		store.Append(record(i))
	}

	got := store.Read(3)
	require.Len(t, got, 3)
	assert.Equal(t, "query 2", got[0].Query)
	assert.Equal(t, "query 4", got[2].Query)

	assert.Len(t, store.Read(0), 5)
	assert.Len(t, store.Read(100), 5)
}

func TestDurable_SkipsMalformedLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "q.jsonl")
	store := Open(path, 10, logging.Discard())
	store.Append(record(1))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	store.Append(record(2))

	got := store.Read(10)
	require.Len(t, got, 2)
	assert.Equal(t, "query 1", got[0].Query)
	assert.Equal(t, "query 2", got[1].Query)
}

func TestDurable_MissingFileReadsEmpty(t *testing.T) {
	t.Parallel()

	store := Open(filepath.Join(t.TempDir(), "q.jsonl"), 10, logging.Discard())
	assert.Empty(t, store.Read(10))
}

func TestDurable_WriteFailureFallsBackToMemory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "q.jsonl")
	store := Open(path, 10, logging.Discard())
	require.Equal(t, ModeDurable, store.Mode())

	// a directory at the log path makes both writes and reads fail
	require.NoError(t, os.Mkdir(path, 0o755))

	store.Append(record(7))
	assert.Equal(t, ModeDurable, store.Mode(), "mode is not re-evaluated")

	got := store.Read(5)
	require.Len(t, got, 1)
	assert.Equal(t, "query 7", got[0].Query)
}

func TestDurable_ReadMergesBufferedRecords(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "q.jsonl")
	store := Open(path, 10, logging.Discard())
	require.Equal(t, ModeDurable, store.Mode())

	store.Append(record(1))

	// block the file while two records arrive, then restore it
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0o755))
	store.Append(record(2))
	store.Append(record(5))
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	store.Append(record(3))

	got := store.Read(0)
	require.Len(t, got, 4)
	assert.Equal(t, []string{"query 1", "query 2", "query 3", "query 5"},
		[]string{got[0].Query, got[1].Query, got[2].Query, got[3].Query})

	tail := store.Read(2)
	require.Len(t, tail, 2)
	assert.Equal(t, "query 3", tail[0].Query)
	assert.Equal(t, "query 5", tail[1].Query)
}

func TestOpen_UnwritablePathIsEphemeral(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := Open(filepath.Join(blocker, "queries.jsonl"), 10, logging.Discard())
	assert.Equal(t, ModeEphemeral, store.Mode())

	store.Append(record(1))
	assert.Len(t, store.Read(10), 1)
}

func TestEphemeral_FIFOEviction(t *testing.T) {
	t.Parallel()

	store := NewEphemeral(3, logging.Discard())
	assert.Empty(t, store.Path())
	for i := 1; i <= 5; i++ {
		store.Append(record(i))
	}

	got := store.Read(10)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"query 3", "query 4", "query 5"}, []string{got[0].Query, got[1].Query, got[2].Query})

	last := store.Read(1)
	require.Len(t, last, 1)
	assert.Equal(t, record(5), last[0])
}

func TestStore_ConcurrentAppends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "q.jsonl")
	store := Open(path, 10, logging.Discard())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Append(record(i))
			_ = store.Read(5)
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Read(0), 50)
}

func TestRing(t *testing.T) {
	t.Parallel()

	r := newRing(2)
	assert.Empty(t, r.tail(0))

	r.push(record(1))
	r.push(record(2))
	r.push(record(3))

	got := r.tail(0)
	require.Len(t, got, 2)
	assert.Equal(t, "query 2", got[0].Query)
	assert.Equal(t, "query 3", r.tail(1)[0].Query)
}
