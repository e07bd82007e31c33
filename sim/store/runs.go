package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/strike-sim/strike-sim/sim/eval"
)

// ErrRunNotFound is returned when a run ID has no row.
var ErrRunNotFound = errors.New("run not found")

// Run describes one stored evaluation.
type Run struct {
	ID        uuid.UUID
	Label     string // experiment name or sweep point
	Policy    string
	Params    string // policy parameters as given on the command line or in YAML
	Seed      int64
	Converged bool
	CreatedAt time.Time
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// CreateRun inserts run and returns its ID. A zero run.ID is replaced by a
// fresh random UUID and a zero CreatedAt by the current time.
func (s *Store) CreateRun(ctx context.Context, run Run) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertRun(ctx, s.db, run)
}

// InsertRecords stores records under runID in a single transaction.
func (s *Store) InsertRecords(ctx context.Context, runID uuid.UUID, records []eval.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRecords(ctx, tx, runID, records); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveReport stores report as a new run described by run. The run row and
// its records commit together or not at all.
func (s *Store) SaveReport(ctx context.Context, run Run, report *eval.Report) (uuid.UUID, error) {
	run.Policy = report.Policy
	run.Converged = report.Converged

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := insertRun(ctx, tx, run)
	if err != nil {
		return uuid.Nil, err
	}
	if err := insertRecords(ctx, tx, id, report.Records); err != nil {
		return uuid.Nil, err
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("committing run %s: %w", id, err)
	}
	return id, nil
}

func insertRun(ctx context.Context, db execer, run Run) (uuid.UUID, error) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO runs (id, label, policy, params, seed, converged, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.Label, run.Policy, run.Params, run.Seed, run.Converged, run.CreatedAt.UnixMilli())
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting run: %w", err)
	}
	return run.ID, nil
}

func insertRecords(ctx context.Context, db execer, runID uuid.UUID, records []eval.Record) error {
	stmt, err := db.PrepareContext(ctx, `INSERT INTO records
		(run_id, idx, n, m, p_max, ratio, online_cost, offline_cost, std, min_ratio, max_ratio, trials, converged)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	id := runID.String()
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, id, r.Index, r.N, r.M, r.PMax, r.Ratio, r.OnlineCost,
			r.OfflineCost, r.StdDev, r.Min, r.Max, r.Trials, r.Converged); err != nil {
			return fmt.Errorf("inserting record %d: %w", r.Index, err)
		}
	}
	return nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, policy, params, seed, converged, created_at FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// GetRun returns the run with the given ID or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, runID uuid.UUID) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, label, policy, params, seed, converged, created_at FROM runs WHERE id = ?`, runID.String())
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, err
}

// Records returns the records of a run ordered by instance index.
func (s *Store) Records(ctx context.Context, runID uuid.UUID) ([]eval.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT idx, n, m, p_max, ratio, online_cost, offline_cost,
		std, min_ratio, max_ratio, trials, converged FROM records WHERE run_id = ? ORDER BY idx`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []eval.Record
	for rows.Next() {
		var r eval.Record
		if err := rows.Scan(&r.Index, &r.N, &r.M, &r.PMax, &r.Ratio, &r.OnlineCost, &r.OfflineCost,
			&r.StdDev, &r.Min, &r.Max, &r.Trials, &r.Converged); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run       Run
		id        string
		createdAt int64
	)
	if err := row.Scan(&id, &run.Label, &run.Policy, &run.Params, &run.Seed, &run.Converged, &createdAt); err != nil {
		return Run{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Run{}, fmt.Errorf("run id %q: %w", id, err)
	}
	run.ID = parsed
	run.CreatedAt = time.UnixMilli(createdAt)
	return run, nil
}
