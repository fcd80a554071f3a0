package history

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	goduckdb "github.com/marcboeker/go-duckdb"
)

// Run statuses.
const (
	StatusDone      = "done"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Run describes one dedup invocation.
type Run struct {
	ID        string
	StartedAt time.Time
	Input     FileFingerprint
	Output    string
	Format    string
	Hasher    string
	Key       string
	Read      uint64
	Written   uint64
	Removed   uint64
	Duration  time.Duration
	Status    string
	Error     string
}

const runColumns = `id, started_at, input, input_size, input_mtime, output, format,
	hasher, key, records_read, records_written, records_removed,
	duration_ms, status, error`

// RecordRun appends r to the history. A missing ID is filled with a new
// UUID, which is returned.
func (s *Store) RecordRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return "", fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "dedup_runs")
		return err
	}); err != nil {
		return "", fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	if err := appender.AppendRow(
		r.ID, r.StartedAt.UTC(), r.Input.Path, r.Input.Size, r.Input.ModTime.UTC(),
		r.Output, r.Format, r.Hasher, r.Key,
		int64(r.Read), int64(r.Written), int64(r.Removed),
		r.Duration.Milliseconds(), r.Status, r.Error,
	); err != nil {
		return "", fmt.Errorf("append run: %w", err)
	}

	if err := appender.Flush(); err != nil {
		return "", fmt.Errorf("flush run: %w", err)
	}
	return r.ID, nil
}

// Runs returns the most recent runs first. A limit <= 0 returns all runs.
func (s *Store) Runs(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM dedup_runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// RunsForInput returns successful runs over an input whose size and
// modification time still match fp, most recent first.
func (s *Store) RunsForInput(fp FileFingerprint) ([]Run, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM dedup_runs
		WHERE input=? AND input_size=? AND input_mtime=? AND status=?
		ORDER BY started_at DESC`,
		fp.Path, fp.Size, fp.ModTime.UTC(), StatusDone)
	if err != nil {
		return nil, fmt.Errorf("query runs for input: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// ClearRuns removes all recorded runs.
func (s *Store) ClearRuns() error {
	_, err := s.db.Exec("DELETE FROM dedup_runs")
	return err
}

func scanRuns(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var (
			r                      Run
			read, written, removed int64
			durationMS             int64
		)
		if err := rows.Scan(
			&r.ID, &r.StartedAt, &r.Input.Path, &r.Input.Size, &r.Input.ModTime,
			&r.Output, &r.Format, &r.Hasher, &r.Key,
			&read, &written, &removed,
			&durationMS, &r.Status, &r.Error,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Read, r.Written, r.Removed = uint64(read), uint64(written), uint64(removed)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
