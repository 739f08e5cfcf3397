package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratline/playbook/internal/config"
	"github.com/stratline/playbook/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	handle, err := Open(filepath.Join(t.TempDir(), "playbook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = handle.Close() })
	return NewStore(handle)
}

func sampleWorkflow() model.WorkflowStatus {
	now := time.Now().UTC()
	agents := make(map[model.Area]model.AgentState)
	for _, area := range model.Areas() {
		agents[area] = model.AgentState{
			Area:            area,
			Status:          model.StatusCompleted,
			ProgressPercent: 100,
			StartedAt:       now,
			EndedAt:         now,
		}
	}
	return model.WorkflowStatus{Phase: model.PhaseDone, Agents: agents}
}

func TestCreateFinishListRun(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateRun(ctx, "run-1", "/tmp/run-1", 8))

	report := model.Report{
		PrioritizedPlays: []model.RankedPlay{{Rank: 1, Title: "A"}},
		PortfolioPick:    model.Portfolio{Selected: []string{"A"}, TotalEffort: 2},
	}
	require.NoError(t, store.FinishRun(ctx, "run-1", "completed", report, sampleWorkflow()))

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	rec := runs[0]
	assert.Equal(t, "run-1", rec.RunID)
	assert.Equal(t, "completed", rec.Status)
	assert.Equal(t, 8, rec.BudgetPoints)
	assert.Equal(t, 1, rec.PlayCount)
	assert.Equal(t, 1, rec.SelectedCount)
	assert.Equal(t, 2, rec.TotalEffort)
	assert.Empty(t, rec.Error)
}

func TestListRunsNewestFirstWithLimit(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	for _, id := range []string{"run-a", "run-b", "run-c"} {
		require.NoError(t, store.CreateRun(ctx, id, "/tmp/"+id, 4))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	// Identical timestamps fall back to run_id descending.
	assert.Equal(t, "run-c", runs[0].RunID)
}

func TestPruneRunsKeepsLast(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	base := t.TempDir()

	for _, id := range []string{"run-1", "run-2", "run-3"} {
		dir := filepath.Join(base, id)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, store.CreateRun(ctx, id, dir, 4))
		require.NoError(t, store.FinishRun(ctx, id, "completed", model.Report{}, model.WorkflowStatus{}))
	}

	res, err := store.PruneRuns(ctx, config.RetentionPolicy{KeepLast: 1}, false)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Considered)
	assert.Equal(t, 1, res.Kept)
	assert.Equal(t, 2, res.Deleted)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-3", runs[0].RunID)

	_, statErr := os.Stat(filepath.Join(base, "run-1"))
	assert.True(t, os.IsNotExist(statErr), "pruned run dir must be removed")
}

func TestPruneRunsSkipsRunning(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateRun(ctx, "run-live", t.TempDir(), 4))

	res, err := store.PruneRuns(ctx, config.RetentionPolicy{KeepLast: 1}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Kept)
	assert.Equal(t, 0, res.Deleted)
}

func TestPruneRunsDryRun(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	for _, id := range []string{"run-1", "run-2"} {
		require.NoError(t, store.CreateRun(ctx, id, t.TempDir(), 4))
		require.NoError(t, store.FinishRun(ctx, id, "completed", model.Report{}, model.WorkflowStatus{}))
	}

	res, err := store.PruneRuns(ctx, config.RetentionPolicy{KeepLast: 1}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Deleted)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2, "dry run must not delete anything")
}
