// Package pipeline implements the orchestrator that turns provider output
// into a ranked, budget-constrained portfolio report.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/stratline/playbook/internal/analysis"
	"github.com/stratline/playbook/internal/config"
	"github.com/stratline/playbook/internal/intel"
	"github.com/stratline/playbook/internal/logging"
	"github.com/stratline/playbook/internal/model"
	"github.com/stratline/playbook/internal/normalize"
	"github.com/stratline/playbook/internal/portfolio"
	"github.com/stratline/playbook/internal/scoring"
	"github.com/stratline/playbook/internal/summary"
)

// Orchestrator fans out one analysis agent per subject area, waits for all
// of them to reach a terminal state (or the global deadline), and then runs
// the sequential normalize -> score -> select -> summarize stages.
type Orchestrator struct {
	cfg    config.Config
	agents []*analysis.Agent
	logger zerolog.Logger

	mu        sync.RWMutex
	phase     model.Phase
	startedAt time.Time
	endedAt   time.Time
}

// NewOrchestrator builds an orchestrator with one agent per area, all
// sharing the given provider.
func NewOrchestrator(cfg config.Config, provider intel.Provider) *Orchestrator {
	agents := make([]*analysis.Agent, 0, len(model.Areas()))
	for _, area := range model.Areas() {
		agents = append(agents, analysis.New(area, provider, cfg.Timeouts.PerAgent, cfg.Retries))
	}
	return &Orchestrator{
		cfg:    cfg,
		agents: agents,
		phase:  model.PhaseAnalysis,
		logger: logging.ForComponent("pipeline"),
	}
}

// Status returns a read-only snapshot of the workflow, safe for concurrent
// readers while the pipeline runs.
func (o *Orchestrator) Status() model.WorkflowStatus {
	o.mu.RLock()
	status := model.WorkflowStatus{
		Phase:     o.phase,
		StartedAt: o.startedAt,
		EndedAt:   o.endedAt,
		Agents:    make(map[model.Area]model.AgentState, len(o.agents)),
	}
	o.mu.RUnlock()

	for _, agent := range o.agents {
		status.Agents[agent.Area()] = agent.State()
	}
	return status
}

func (o *Orchestrator) setPhase(phase model.Phase) {
	o.mu.Lock()
	o.phase = phase
	o.mu.Unlock()
	o.logger.Debug().Str("phase", string(phase)).Msg("phase transition")
}

// Execute runs the full pipeline and returns the report body. The only
// fatal condition is zero plays across all areas (model.ErrEmptyResult);
// every per-agent or per-play failure degrades gracefully.
func (o *Orchestrator) Execute(ctx context.Context) (model.Report, error) {
	o.mu.Lock()
	o.startedAt = time.Now().UTC()
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.endedAt = time.Now().UTC()
		o.mu.Unlock()
	}()

	raw := o.collect(ctx)
	if len(raw) == 0 {
		o.setPhase(model.PhaseDone)
		return model.Report{}, model.ErrEmptyResult
	}

	o.setPhase(model.PhaseMergeNormalize)
	canonical := normalize.New(o.cfg.TitleAliases).Canonicalize(raw)
	if len(canonical) == 0 {
		o.setPhase(model.PhaseDone)
		return model.Report{}, model.ErrEmptyResult
	}
	o.logger.Info().Int("raw", len(raw)).Int("canonical", len(canonical)).Msg("normalized plays")

	o.setPhase(model.PhaseScoreRank)
	ranked := scoring.Rank(canonical, o.cfg.KPIWeights)

	o.setPhase(model.PhasePortfolioSelect)
	pick := portfolio.Select(ranked, o.cfg.BudgetPoints)
	o.logger.Info().
		Int("selected", len(pick.Selected)).
		Int("total_effort", pick.TotalEffort).
		Int("budget", o.cfg.BudgetPoints).
		Msg("portfolio selected")

	o.setPhase(model.PhaseSummary)
	exec := summary.Generate(ranked, pick, o.cfg.BudgetPoints)

	o.setPhase(model.PhaseDone)
	return model.Report{
		PrioritizedPlays: ranked,
		PortfolioPick:    pick,
		ExecSummary:      exec,
	}, nil
}

// collect launches every agent concurrently and aggregates their plays once
// all are terminal or the global deadline fires. Aggregation walks areas in
// canonical order, so agent completion order never changes the result.
func (o *Orchestrator) collect(ctx context.Context) []model.Play {
	o.setPhase(model.PhaseAnalysis)

	runCtx, cancel := context.WithTimeout(ctx, o.cfg.Timeouts.Global)
	defer cancel()

	var wg sync.WaitGroup
	for _, agent := range o.agents {
		wg.Add(1)
		go func(agent *analysis.Agent) {
			defer wg.Done()
			agent.Run(runCtx, o.cfg.Providers.MarketContext)
		}(agent)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-runCtx.Done():
		o.logger.Warn().Dur("global_timeout", o.cfg.Timeouts.Global).Msg("global deadline reached")
		for _, agent := range o.agents {
			if !agent.State().Status.Terminal() {
				agent.ForceTimeout()
			}
		}
	}

	var raw []model.Play
	completed := 0
	for _, agent := range o.agents {
		state := agent.State()
		if state.Status != model.StatusCompleted {
			o.logger.Warn().
				Str("area", string(agent.Area())).
				Str("error", state.Err).
				Msg("area contributed no plays")
			continue
		}
		completed++
		raw = append(raw, agent.Plays()...)
	}
	o.logger.Info().
		Int("areas_completed", completed).
		Int("areas_total", len(o.agents)).
		Int("plays", len(raw)).
		Msg("analysis aggregated")
	return raw
}
