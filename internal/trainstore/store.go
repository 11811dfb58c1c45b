package trainstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"clipalign/internal/weighting"
)

// Store manages training record persistence backed by SQLite. A file lock
// next to the database enforces a single writing process.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Stats summarizes the persisted training history.
type Stats struct {
	Records      int
	Successes    int
	AverageError float64
	Oldest       time.Time
	Newest       time.Time
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// ErrLocked indicates another process holds the store's write lock.
var ErrLocked = errors.New("training store locked by another process")

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
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
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
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

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Open initializes or connects to the training database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("training database path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure database directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Append persists one training record.
func (s *Store) Append(ctx context.Context, record weighting.Record) error {
	return s.execWithRetry(ctx, `
INSERT INTO training_records (
    time_gap_to_previous, position, boundary_distance, previous_point_error,
    text_length, is_dialogue_boundary, is_scene_transition, is_emotional_peak,
    timestamp, optimal_weight, observed_error, success, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Sample.TimeGapToPrevious,
		record.Sample.Position,
		record.Sample.BoundaryDistance,
		record.Sample.PreviousPointError,
		record.Sample.TextLength,
		boolToInt(record.Sample.IsDialogueBoundary),
		boolToInt(record.Sample.IsSceneTransition),
		boolToInt(record.Sample.IsEmotionalPeak),
		record.Sample.Timestamp,
		record.OptimalWeight,
		record.ObservedError,
		boolToInt(record.Success),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
}

// Load returns persisted records in insertion order, newest last, up to limit.
// A non-positive limit loads everything.
func (s *Store) Load(ctx context.Context, limit int) ([]weighting.Record, error) {
	ctx = ensureContext(ctx)
	query := `
SELECT time_gap_to_previous, position, boundary_distance, previous_point_error,
       text_length, is_dialogue_boundary, is_scene_transition, is_emotional_peak,
       timestamp, optimal_weight, observed_error, success
FROM training_records ORDER BY id`
	var args []any
	if limit > 0 {
		// Keep the newest records when trimming to the buffer capacity.
		query = `
SELECT time_gap_to_previous, position, boundary_distance, previous_point_error,
       text_length, is_dialogue_boundary, is_scene_transition, is_emotional_peak,
       timestamp, optimal_weight, observed_error, success
FROM (SELECT * FROM training_records ORDER BY id DESC LIMIT ?) ORDER BY id`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query training records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []weighting.Record
	for rows.Next() {
		var (
			r                          weighting.Record
			dialogue, scene, peak, won int
		)
		if err := rows.Scan(
			&r.Sample.TimeGapToPrevious,
			&r.Sample.Position,
			&r.Sample.BoundaryDistance,
			&r.Sample.PreviousPointError,
			&r.Sample.TextLength,
			&dialogue,
			&scene,
			&peak,
			&r.Sample.Timestamp,
			&r.OptimalWeight,
			&r.ObservedError,
			&won,
		); err != nil {
			return nil, fmt.Errorf("scan training record: %w", err)
		}
		r.Sample.IsDialogueBoundary = dialogue != 0
		r.Sample.IsSceneTransition = scene != 0
		r.Sample.IsEmotionalPeak = peak != 0
		r.Success = won != 0
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate training records: %w", err)
	}
	return records, nil
}

// Stats reports aggregate statistics over the persisted history.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var (
		stats          Stats
		avgErr         sql.NullFloat64
		oldest, newest sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(1), COALESCE(SUM(success), 0), AVG(observed_error),
       MIN(created_at), MAX(created_at)
FROM training_records`).Scan(&stats.Records, &stats.Successes, &avgErr, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("query training stats: %w", err)
	}
	if avgErr.Valid {
		stats.AverageError = avgErr.Float64
	}
	if oldest.Valid {
		if t, parseErr := time.Parse(time.RFC3339Nano, oldest.String); parseErr == nil {
			stats.Oldest = t
		}
	}
	if newest.Valid {
		if t, parseErr := time.Parse(time.RFC3339Nano, newest.String); parseErr == nil {
			stats.Newest = t
		}
	}
	return stats, nil
}

// Prune deletes all but the newest keep records.
func (s *Store) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}
	return s.execWithRetry(ctx, `
DELETE FROM training_records
WHERE id NOT IN (SELECT id FROM training_records ORDER BY id DESC LIMIT ?)`, keep)
}

// Clear deletes all persisted records.
func (s *Store) Clear(ctx context.Context) error {
	return s.execWithRetry(ctx, "DELETE FROM training_records")
}

// Close releases the database connection and the write lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var firstErr error
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			firstErr = err
		}
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
