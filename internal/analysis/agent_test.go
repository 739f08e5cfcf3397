package analysis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratline/playbook/internal/model"
)

type fakeProvider struct {
	plays    []model.Play
	err      error
	failures int32
	block    bool
	calls    atomic.Int32
}

func (p *fakeProvider) GeneratePlays(ctx context.Context, area model.Area, _ string) ([]model.Play, error) {
	call := p.calls.Add(1)
	if p.block {
		<-ctx.Done()
		return nil, &model.ProviderError{Area: area, Err: ctx.Err()}
	}
	if p.err != nil && (p.failures == 0 || call <= p.failures) {
		return nil, p.err
	}
	return p.plays, nil
}

func TestAgentCompletes(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{plays: []model.Play{{Title: "X", Area: model.AreaUsage}}}
	agent := New(model.AreaUsage, provider, time.Second, 0)

	agent.Run(context.Background(), "")

	state := agent.State()
	require.Equal(t, model.StatusCompleted, state.Status)
	assert.Equal(t, 100, state.ProgressPercent)
	assert.False(t, state.StartedAt.IsZero())
	assert.False(t, state.EndedAt.IsZero())
	assert.Len(t, agent.Plays(), 1)
}

func TestAgentFailsOnProviderError(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{err: &model.ProviderError{Area: model.AreaNetwork, Err: errors.New("boom")}}
	agent := New(model.AreaNetwork, provider, time.Second, 0)

	agent.Run(context.Background(), "")

	state := agent.State()
	require.Equal(t, model.StatusFailed, state.Status)
	assert.Contains(t, state.Err, "boom")
	assert.Empty(t, agent.Plays(), "failed agent must contribute an empty play list")
}

func TestAgentTimesOut(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{block: true}
	agent := New(model.AreaRevenue, provider, 20*time.Millisecond, 0)

	start := time.Now()
	agent.Run(context.Background(), "")

	require.Equal(t, model.StatusFailed, agent.State().Status)
	assert.Contains(t, agent.State().Err, model.ErrAgentTimeout.Error())
	assert.Less(t, time.Since(start), time.Second)
}

func TestAgentRetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		plays:    []model.Play{{Title: "Y", Area: model.AreaCustomer}},
		err:      errors.New("transient"),
		failures: 2,
	}
	agent := New(model.AreaCustomer, provider, time.Second, 2)

	agent.Run(context.Background(), "")

	require.Equal(t, model.StatusCompleted, agent.State().Status)
	assert.Equal(t, int32(3), provider.calls.Load())
}

func TestAgentNoRetriesByDefault(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{err: errors.New("always")}
	agent := New(model.AreaOperations, provider, time.Second, 0)

	agent.Run(context.Background(), "")

	require.Equal(t, model.StatusFailed, agent.State().Status)
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestForceTimeoutLeavesCompletedAlone(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{plays: []model.Play{{Title: "Z", Area: model.AreaUsage}}}
	agent := New(model.AreaUsage, provider, time.Second, 0)
	agent.Run(context.Background(), "")
	require.Equal(t, model.StatusCompleted, agent.State().Status)

	agent.ForceTimeout()
	assert.Equal(t, model.StatusCompleted, agent.State().Status)
	assert.Len(t, agent.Plays(), 1)
}

func TestForceTimeoutFailsIdleAgent(t *testing.T) {
	t.Parallel()

	agent := New(model.AreaNetwork, &fakeProvider{}, time.Second, 0)
	agent.ForceTimeout()
	require.Equal(t, model.StatusFailed, agent.State().Status)
}
