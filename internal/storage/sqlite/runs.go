package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/unattended/internal/core"
	"github.com/sandevgo/unattended/pkg/log"
)

var ErrRunNotFound = errors.New("run not found")

type RunsRepo struct {
	db *sql.DB
}

func NewRunsRepo(db *sql.DB) *RunsRepo {
	return &RunsRepo{db: db}
}

func (r *RunsRepo) StartRun(ctx context.Context, rec core.Receipt) (int64, error) {
	started := rec.StartedAt
	if started.IsZero() {
		started = time.Now()
	}

	query := `INSERT INTO runs (formula, version, prefix, platform, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		rec.Formula, rec.Version, rec.Prefix, rec.Platform, core.RunStatusRunning, started.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	log.FromCtx(ctx).Debug().Int64("run_id", id).Msg("run recorded")
	return id, nil
}

func (r *RunsRepo) AddStep(ctx context.Context, runID int64, step core.StepRecord) error {
	query := `INSERT INTO steps (run_id, name, argv, exit_code, duration_ms) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, runID, step.Name, step.Argv, step.ExitCode, step.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to insert step: %w", err)
	}
	return nil
}

func (r *RunsRepo) FinishRun(ctx context.Context, runID int64, status core.RunStatus) error {
	query := `UPDATE runs SET status = ?, finished_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	return nil
}

// ListRuns returns the newest runs first, without their steps.
func (r *RunsRepo) ListRuns(ctx context.Context, limit int) ([]core.Receipt, error) {
	query := `SELECT id, formula, version, prefix, platform, status, started_at, finished_at
		FROM runs ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []core.Receipt
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun returns one run with its steps in execution order.
func (r *RunsRepo) GetRun(ctx context.Context, runID int64) (core.Receipt, error) {
	query := `SELECT id, formula, version, prefix, platform, status, started_at, finished_at
		FROM runs WHERE id = ?`

	rec, err := scanRun(r.db.QueryRowContext(ctx, query, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Receipt{}, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	if err != nil {
		return core.Receipt{}, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT name, argv, exit_code, duration_ms FROM steps WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return core.Receipt{}, fmt.Errorf("failed to query steps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s core.StepRecord
		var ms int64
		if err := rows.Scan(&s.Name, &s.Argv, &s.ExitCode, &ms); err != nil {
			return core.Receipt{}, fmt.Errorf("failed to scan step: %w", err)
		}
		s.Duration = time.Duration(ms) * time.Millisecond
		rec.Steps = append(rec.Steps, s)
	}
	return rec, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (core.Receipt, error) {
	var rec core.Receipt
	var status string
	var finished sql.NullTime
	if err := s.Scan(&rec.ID, &rec.Formula, &rec.Version, &rec.Prefix, &rec.Platform,
		&status, &rec.StartedAt, &finished); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("failed to scan run: %w", err)
	}
	rec.Status = core.RunStatus(status)
	if finished.Valid {
		rec.FinishedAt = finished.Time
	}
	return rec, nil
}
