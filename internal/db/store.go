package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stratline/playbook/internal/model"
)

// Store persists run summaries and per-area agent outcomes.
type Store struct {
	db *sql.DB
}

// NewStore creates a store over an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// RunRecord is one row of the run history.
type RunRecord struct {
	RunID         string
	CreatedAt     string
	Status        string
	BudgetPoints  int
	PlayCount     int
	SelectedCount int
	TotalEffort   int
	RunDir        string
	Error         string
}

// CreateRun inserts the run record in running state.
func (s *Store) CreateRun(ctx context.Context, runID, runDir string, budgetPoints int) error {
	createdAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, `INSERT INTO runs(run_id, created_at, status, budget_points, run_dir)
		VALUES(?, ?, 'running', ?, ?)`,
		runID, createdAt, budgetPoints, runDir); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun marks the run terminal and records its outcome together with the
// per-area agent states.
func (s *Store) FinishRun(ctx context.Context, runID, status string, report model.Report, workflow model.WorkflowStatus) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin finish run: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE runs SET status=?, play_count=?, selected_count=?, total_effort=?, error=?
		WHERE run_id=?`,
		status, len(report.PrioritizedPlays), len(report.PortfolioPick.Selected),
		report.PortfolioPick.TotalEffort, nullable(report.Error), runID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("update run: %w", err)
	}
	for _, area := range model.Areas() {
		state, ok := workflow.Agents[area]
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO run_agents(run_id, area, status, progress_percent, started_at, ended_at, error)
			VALUES(?, ?, ?, ?, ?, ?, ?)`,
			runID, string(area), string(state.Status), state.ProgressPercent,
			timestamp(state.StartedAt), timestamp(state.EndedAt), nullable(state.Err)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert agent state for %s: %w", area, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit finish run: %w", err)
	}
	return nil
}

// ListRuns returns run history newest first, up to limit rows (0 = all).
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `SELECT run_id, created_at, status, budget_points, play_count, selected_count, total_effort, run_dir, COALESCE(error, '')
		FROM runs ORDER BY created_at DESC, run_id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(&rec.RunID, &rec.CreatedAt, &rec.Status, &rec.BudgetPoints,
			&rec.PlayCount, &rec.SelectedCount, &rec.TotalEffort, &rec.RunDir, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func timestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}
