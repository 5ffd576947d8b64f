package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store is the SQLite-backed cycle journal.
type Store struct {
	db   *sql.DB
	path string
	keep int
}

// Open creates or opens the journal at path. keep bounds the number of rows
// retained; 0 keeps everything.
func Open(ctx context.Context, path string, keep int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, keep: keep}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends one cycle and trims the journal to its retention bound.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO cycles (at, run_id, movie_path, frame_index, frame_total, outcome, error_kind, error_message)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.At.UTC().Format(time.RFC3339Nano),
			entry.RunID,
			entry.MoviePath,
			int64(entry.FrameIndex),
			int64(entry.FrameTotal),
			string(entry.Outcome),
			entry.ErrorKind,
			entry.ErrorMessage,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("record cycle: %w", err)
	}
	if s.keep > 0 {
		if _, err := s.Prune(ctx, s.keep); err != nil {
			return err
		}
	}
	return nil
}

// Prune deletes all but the newest keep rows and returns how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`DELETE FROM cycles WHERE id NOT IN (SELECT id FROM cycles ORDER BY id DESC LIMIT ?)`, keep)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return removed, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at, run_id, movie_path, frame_index, frame_total, outcome, error_kind, error_message
		 FROM cycles ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// Summarize counts cycles by outcome and returns the newest entry.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var summary Summary
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(1) FROM cycles GROUP BY outcome`)
	if err != nil {
		return summary, fmt.Errorf("summarize history: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return summary, fmt.Errorf("scan summary: %w", err)
		}
		summary.Total += count
		switch Outcome(outcome) {
		case OutcomePublished:
			summary.Published = count
		case OutcomeWallpaperFailed:
			summary.WallpaperFailed = count
		case OutcomeFailed:
			summary.Failed = count
		}
	}
	if err := rows.Err(); err != nil {
		return summary, fmt.Errorf("iterate summary: %w", err)
	}

	recent, err := s.Recent(ctx, 1)
	if err != nil {
		return summary, err
	}
	if len(recent) == 1 {
		summary.Last = &recent[0]
	}
	return summary, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		entry      Entry
		at         string
		frameIndex int64
		frameTotal int64
		outcome    string
	)
	if err := row.Scan(&entry.ID, &at, &entry.RunID, &entry.MoviePath, &frameIndex, &frameTotal, &outcome, &entry.ErrorKind, &entry.ErrorMessage); err != nil {
		return Entry{}, fmt.Errorf("scan history row: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return Entry{}, fmt.Errorf("parse history timestamp %q: %w", at, err)
	}
	entry.At = parsed
	entry.FrameIndex = uint64(frameIndex)
	entry.FrameTotal = uint64(frameTotal)
	entry.Outcome = Outcome(outcome)
	return entry, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil || !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
