package db

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stratline/playbook/internal/config"
)

// PruneResult summarizes a prune operation.
type PruneResult struct {
	Considered int
	Kept       int
	Deleted    int
	Skipped    int
}

// PruneRuns deletes old run records and their directories according to the
// retention policy. Running runs are always kept.
func (s *Store) PruneRuns(ctx context.Context, policy config.RetentionPolicy, dryRun bool) (PruneResult, error) {
	if policy.KeepLast <= 0 && policy.KeepDays <= 0 {
		return PruneResult{}, nil
	}
	cutoff := time.Time{}
	if policy.KeepDays > 0 {
		cutoff = time.Now().UTC().Add(-time.Duration(policy.KeepDays) * 24 * time.Hour)
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		return PruneResult{}, err
	}

	res := PruneResult{Considered: len(runs)}
	for idx, rec := range runs {
		keep := rec.Status == "running"
		if !keep && policy.KeepLast > 0 && idx < policy.KeepLast {
			keep = true
		}
		if !keep && policy.KeepDays > 0 {
			createdAt, parseErr := time.Parse(time.RFC3339, rec.CreatedAt)
			if parseErr != nil || createdAt.After(cutoff) {
				keep = true
			}
		}
		if keep {
			res.Kept++
			continue
		}
		if dryRun {
			res.Deleted++
			continue
		}
		if err := s.deleteRun(ctx, rec); err != nil {
			log.Warn().Err(err).Str("run_id", rec.RunID).Msg("prune: skipping run")
			res.Skipped++
			continue
		}
		res.Deleted++
	}
	return res, nil
}

func (s *Store) deleteRun(ctx context.Context, rec RunRecord) error {
	if dir := strings.TrimSpace(rec.RunDir); dir != "" {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove run dir: %w", err)
		}
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE run_id=?`, rec.RunID); err != nil {
		return fmt.Errorf("delete run row: %w", err)
	}
	return nil
}
