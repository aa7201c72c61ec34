package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrNoRuns is returned by LatestRun before the first run is recorded.
var ErrNoRuns = errors.New("no runs recorded")

const timeLayout = time.RFC3339Nano

// RecordRun stores a run and its artifacts. ID and StartedAt are assigned
// when empty. The stored run is returned.
func (s *SQLiteStore) RecordRun(ctx context.Context, run *Run) (*Run, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	out := *run
	if out.ID == "" {
		out.ID = generateID()
	}
	if out.StartedAt.IsZero() {
		out.StartedAt = s.clock.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, batch_date, dialect, strategy, config_file, output_dir)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.StartedAt.UTC().Format(timeLayout), out.BatchDate, out.Dialect, out.Strategy, out.ConfigFile, out.OutputDir,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_artifacts (run_id, name, kind, unit, position, hash) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare artifact insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range out.Artifacts {
		if _, err := stmt.ExecContext(ctx, out.ID, a.Name, a.Kind, a.Unit, a.Position, a.Hash); err != nil {
			return nil, fmt.Errorf("failed to record artifact %s: %w", a.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}

	s.logger.Debug("recorded run",
		slog.String("id", out.ID),
		slog.Int("artifacts", len(out.Artifacts)))
	return &out, nil
}

// GetRun retrieves a run and its artifacts by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	row := s.db.QueryRowContext(ctx, `SELECT id, started_at, batch_date, dialect, strategy, config_file, output_dir FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if run.Artifacts, err = s.artifacts(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

// LatestRun retrieves the most recent run, or ErrNoRuns.
func (s *SQLiteStore) LatestRun(ctx context.Context) (*Run, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNoRuns
	}
	run := runs[0]
	if run.Artifacts, err = s.artifacts(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first, with ArtifactCount set
// instead of their artifacts. A limit of zero or less returns all runs.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, errNotOpened
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.started_at, r.batch_date, r.dialect, r.strategy, r.config_file, r.output_dir,
		        (SELECT COUNT(*) FROM run_artifacts a WHERE a.run_id = r.id)
		 FROM runs r ORDER BY r.started_at DESC, r.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		var count int
		run, err := scanRun(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.ArtifactCount = count
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) artifacts(ctx context.Context, runID string) ([]ArtifactRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, kind, unit, position, hash FROM run_artifacts WHERE run_id = ? ORDER BY position, name`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run artifacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ArtifactRecord
	for rows.Next() {
		var a ArtifactRecord
		if err := rows.Scan(&a.Name, &a.Kind, &a.Unit, &a.Position, &a.Hash); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner, extra ...any) (*Run, error) {
	var run Run
	var startedAt string
	dest := append([]any{&run.ID, &startedAt, &run.BatchDate, &run.Dialect, &run.Strategy, &run.ConfigFile, &run.OutputDir}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeLayout, startedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid started_at %q: %w", startedAt, err)
	}
	run.StartedAt = t
	return &run, nil
}
