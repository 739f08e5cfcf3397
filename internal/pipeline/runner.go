package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/stratline/playbook/internal/config"
	"github.com/stratline/playbook/internal/db"
	"github.com/stratline/playbook/internal/intel"
	"github.com/stratline/playbook/internal/model"
)

// ReportFileName is the artifact written into each run directory.
const ReportFileName = "report.json"

// Runner executes a pipeline run end to end: orchestration, artifact
// writing and run-history persistence.
type Runner struct {
	baseDir  string
	cfg      config.Config
	store    *db.Store
	provider intel.Provider
}

// Result summarizes a completed run.
type Result struct {
	RunID      string
	Status     string
	ReportPath string
	Report     model.Report
}

// NewRunner constructs a runner. The provider implementation is chosen by
// the config, never by runtime type inspection.
func NewRunner(baseDir string, cfg config.Config, store *db.Store) (*Runner, error) {
	provider, err := intel.New(cfg.Providers)
	if err != nil {
		return nil, err
	}
	return &Runner{baseDir: baseDir, cfg: cfg, store: store, provider: provider}, nil
}

// Run executes one pipeline run. On the fatal empty-result path it still
// writes a clearly-flagged empty artifact before surfacing the error.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	runID := uuid.NewString()
	startedAt := time.Now().UTC()
	runDir := filepath.Join(r.baseDir, "runs", runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create run dir: %w", err)
	}
	if err := r.store.CreateRun(ctx, runID, runDir, r.cfg.BudgetPoints); err != nil {
		return Result{}, err
	}

	res := Result{RunID: runID, ReportPath: filepath.Join(runDir, ReportFileName)}
	defer func() {
		log.Info().
			Str("run_id", runID).
			Str("status", res.Status).
			Dur("duration", time.Since(startedAt)).
			Msg("run finished")
	}()

	orch := NewOrchestrator(r.cfg, r.provider)
	report, execErr := orch.Execute(ctx)
	report.RunID = runID

	res.Status = "completed"
	if execErr != nil {
		if !errors.Is(execErr, model.ErrEmptyResult) {
			res.Status = "error"
			_ = r.store.FinishRun(ctx, runID, res.Status, report, orch.Status())
			return res, execErr
		}
		// Fatal path: flag the artifact, keep it empty rather than partial.
		res.Status = "empty"
		report.Error = execErr.Error()
		report.PrioritizedPlays = []model.RankedPlay{}
		report.PortfolioPick = model.Portfolio{Selected: []string{}, ExpectedEffect: map[string]float64{}}
		report.ExecSummary = "No usable plays were collected from any analysis area; no portfolio was produced."
	}

	if err := writeReport(res.ReportPath, report); err != nil {
		res.Status = "error"
		_ = r.store.FinishRun(ctx, runID, res.Status, report, orch.Status())
		return res, err
	}
	res.Report = report

	if err := r.store.FinishRun(ctx, runID, res.Status, report, orch.Status()); err != nil {
		return res, err
	}
	if execErr != nil {
		return res, execErr
	}
	return res, nil
}

func writeReport(path string, report model.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
