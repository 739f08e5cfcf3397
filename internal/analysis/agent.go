// Package analysis wraps a single intelligence provider call in a
// state-machine-tracked agent with a bounded timeout.
package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/stratline/playbook/internal/intel"
	"github.com/stratline/playbook/internal/logging"
	"github.com/stratline/playbook/internal/model"
)

// Agent runs one provider call for one subject area. Its state moves
// Idle -> Analyzing -> {Completed, Failed} and is terminal afterwards. On
// any provider error or timeout the agent degrades to an empty play list,
// it never fails the run on its own.
type Agent struct {
	area     model.Area
	provider intel.Provider
	timeout  time.Duration
	retries  int
	logger   zerolog.Logger

	mu    sync.Mutex
	state model.AgentState
	plays []model.Play
}

// New creates an idle agent for an area. retries is the number of extra
// provider attempts after the first failure (default 0).
func New(area model.Area, provider intel.Provider, timeout time.Duration, retries int) *Agent {
	return &Agent{
		area:     area,
		provider: provider,
		timeout:  timeout,
		retries:  retries,
		logger:   logging.ForComponent("analysis").With().Str("area", string(area)).Logger(),
		state:    model.NewAgentState(area),
	}
}

// Area returns the agent's subject area.
func (a *Agent) Area() model.Area {
	return a.area
}

// State returns a copy of the agent state, safe for concurrent readers.
func (a *Agent) State() model.AgentState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Plays returns the collected plays. Empty until the agent completes, and
// empty forever for a failed agent.
func (a *Agent) Plays() []model.Play {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.plays
}

// Run executes the provider call and drives the state machine. It blocks up
// to the per-agent timeout (or until ctx is cancelled) and always leaves the
// agent in a terminal state.
func (a *Agent) Run(ctx context.Context, marketContext string) {
	if err := a.transition(model.StatusAnalyzing, nil); err != nil {
		a.logger.Error().Err(err).Msg("agent start rejected")
		return
	}
	a.logger.Debug().Msg("agent analyzing")

	var plays []model.Play
	var err error
	for attempt := 0; attempt <= a.retries; attempt++ {
		if attempt > 0 {
			a.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("retrying provider call")
		}
		plays, err = a.callProvider(ctx, marketContext)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	if err != nil {
		a.logger.Warn().Err(err).Msg("provider failed, substituting empty play list")
		if terr := a.transition(model.StatusFailed, err); terr != nil {
			a.logger.Debug().Err(terr).Msg("agent already terminal")
		}
		return
	}

	a.mu.Lock()
	a.plays = plays
	a.mu.Unlock()
	if terr := a.transition(model.StatusCompleted, nil); terr != nil {
		a.logger.Debug().Err(terr).Msg("agent already terminal")
		return
	}
	a.logger.Info().Int("plays", len(plays)).Msg("agent completed")
}

// ForceTimeout moves a still-analyzing agent to Failed. The orchestrator
// calls this when the global deadline fires; completed agents keep their
// results.
func (a *Agent) ForceTimeout() {
	// An agent that never got scheduled is still Idle; walk it through
	// Analyzing so the transition set stays closed.
	if a.State().Status == model.StatusIdle {
		_ = a.transition(model.StatusAnalyzing, nil)
	}
	if err := a.transition(model.StatusFailed, model.ErrAgentTimeout); err != nil {
		return
	}
	a.logger.Warn().Dur("timeout", a.timeout).Msg("agent forced to failed by global deadline")
}

func (a *Agent) callProvider(ctx context.Context, marketContext string) ([]model.Play, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type result struct {
		plays []model.Play
		err   error
	}
	done := make(chan result, 1)
	go func() {
		plays, err := a.provider.GeneratePlays(callCtx, a.area, marketContext)
		done <- result{plays: plays, err: err}
	}()

	select {
	case res := <-done:
		return res.plays, res.err
	case <-callCtx.Done():
		return nil, model.ErrAgentTimeout
	}
}

func (a *Agent) transition(next model.AgentStatus, cause error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.state.Transition(next, time.Now().UTC()); err != nil {
		return err
	}
	if cause != nil {
		a.state.Err = cause.Error()
	}
	return nil
}
