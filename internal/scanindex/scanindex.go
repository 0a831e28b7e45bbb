package scanindex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"brushvault/internal/logging"
	"brushvault/internal/metrics"
)

// Default timeout for index operations
const defaultTimeout = 5 * time.Second

// Entry is one row of the scan index: the state of a single identity as
// of its last successful extraction.
type Entry struct {
	Identity   string
	SourcePath string
	SourceMod  time.Time
	ThumbPath  string
}

// Index is the persisted scan index. Reads may run concurrently; Record
// calls are serialized so at most one writer commits at a time.
type Index struct {
	db      *sql.DB
	path    string
	writeMu sync.Mutex
}

// Open opens (or creates) the scan index database at path. A database
// that exists but cannot be opened or initialized is discarded and
// recreated empty: a lost index only costs one full re-extraction pass.
func Open(ctx context.Context, path string) (*Index, error) {
	db, err := open(ctx, path)
	if err != nil {
		logging.Warn("Scan index unreadable, starting empty: %v", err)
		removeDatabase(path)
		if db, err = open(ctx, path); err != nil {
			return nil, fmt.Errorf("recreate scan index: %w", err)
		}
	}
	return &Index{db: db, path: path}, nil
}

func open(ctx context.Context, path string) (*sql.DB, error) {
	// WAL keeps readers unblocked while the single writer commits;
	// busy_timeout avoids spurious "database is locked" errors.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("open scan index: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("connect to scan index: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS scan_index (
		identity     TEXT PRIMARY KEY,
		source_path  TEXT NOT NULL,
		source_mtime INTEGER NOT NULL,
		thumb_path   TEXT NOT NULL
	);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("initialize scan index schema: %w", err)
	}

	return db, nil
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		logging.Error("failed to close scan index database: %v", err)
	}
}

// removeDatabase deletes the database file and its WAL sidecars.
func removeDatabase(path string) {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			logging.Warn("failed to remove stale index file %s: %v", p, err)
		}
	}
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Lookup returns the entry for identity, if one exists.
func (ix *Index) Lookup(ctx context.Context, identity string) (Entry, bool, error) {
	start := time.Now()
	status := "success"
	defer func() {
		metrics.IndexQueriesTotal.WithLabelValues("lookup", status).Inc()
		metrics.IndexQueryDuration.WithLabelValues("lookup").Observe(time.Since(start).Seconds())
	}()

	queryCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e Entry
	var mtime int64
	err := ix.db.QueryRowContext(queryCtx,
		`SELECT identity, source_path, source_mtime, thumb_path FROM scan_index WHERE identity = ?`,
		identity,
	).Scan(&e.Identity, &e.SourcePath, &mtime, &e.ThumbPath)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		status = "error"
		return Entry{}, false, fmt.Errorf("lookup %q: %w", identity, err)
	}

	e.SourceMod = time.Unix(0, mtime)
	return e, true, nil
}

// IsFresh reports whether an entry exists for identity and its stored
// modification time equals mtime. Lookup failures count as stale: the
// worst case is one redundant extraction.
func (ix *Index) IsFresh(ctx context.Context, identity string, mtime time.Time) bool {
	e, ok, err := ix.Lookup(ctx, identity)
	if err != nil {
		logging.Warn("Scan index lookup failed for %q, treating as stale: %v", identity, err)
		return false
	}
	return ok && e.SourceMod.UnixNano() == mtime.UnixNano()
}

// Record upserts the entry for e.Identity, replacing any prior entry.
// The row is durable once Record returns.
func (ix *Index) Record(ctx context.Context, e Entry) error {
	ix.writeMu.Lock()
	defer ix.writeMu.Unlock()

	start := time.Now()
	status := "success"
	defer func() {
		metrics.IndexQueriesTotal.WithLabelValues("record", status).Inc()
		metrics.IndexQueryDuration.WithLabelValues("record").Observe(time.Since(start).Seconds())
	}()

	queryCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := ix.db.ExecContext(queryCtx,
		`INSERT INTO scan_index (identity, source_path, source_mtime, thumb_path)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(identity) DO UPDATE SET
			source_path = excluded.source_path,
			source_mtime = excluded.source_mtime,
			thumb_path = excluded.thumb_path`,
		e.Identity, e.SourcePath, e.SourceMod.UnixNano(), e.ThumbPath,
	)
	if err != nil {
		status = "error"
		return fmt.Errorf("record %q: %w", e.Identity, err)
	}
	return nil
}

// Count returns the number of identities in the index.
func (ix *Index) Count(ctx context.Context) (int, error) {
	queryCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int
	if err := ix.db.QueryRowContext(queryCtx, `SELECT COUNT(*) FROM scan_index`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	metrics.IndexEntries.Set(float64(n))
	return n, nil
}
