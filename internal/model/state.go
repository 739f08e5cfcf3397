package model

import (
	"fmt"
	"time"
)

// AgentStatus is the lifecycle state of a single analysis agent.
type AgentStatus string

const (
	StatusIdle      AgentStatus = "idle"
	StatusAnalyzing AgentStatus = "analyzing"
	StatusCompleted AgentStatus = "completed"
	StatusFailed    AgentStatus = "failed"
)

// Terminal reports whether the status is final.
func (s AgentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// allowedTransitions is the closed set of legal status moves.
var allowedTransitions = map[AgentStatus][]AgentStatus{
	StatusIdle:      {StatusAnalyzing},
	StatusAnalyzing: {StatusCompleted, StatusFailed},
}

// AgentState tracks one agent's progress. It is mutated only by the owning
// agent; everyone else reads copies taken from a WorkflowStatus snapshot.
type AgentState struct {
	Area            Area        `json:"area"`
	Status          AgentStatus `json:"status"`
	ProgressPercent int         `json:"progress_percent"`
	StartedAt       time.Time   `json:"started_at,omitzero"`
	EndedAt         time.Time   `json:"ended_at,omitzero"`
	Err             string      `json:"error,omitempty"`
}

// NewAgentState returns an idle state for an area.
func NewAgentState(area Area) AgentState {
	return AgentState{Area: area, Status: StatusIdle}
}

// Transition moves the state to next, enforcing the allowed transition set.
func (s *AgentState) Transition(next AgentStatus, now time.Time) error {
	for _, candidate := range allowedTransitions[s.Status] {
		if candidate != next {
			continue
		}
		switch next {
		case StatusAnalyzing:
			s.StartedAt = now
			s.ProgressPercent = 10
		case StatusCompleted:
			s.EndedAt = now
			s.ProgressPercent = 100
		case StatusFailed:
			s.EndedAt = now
			s.ProgressPercent = 100
		}
		s.Status = next
		return nil
	}
	return fmt.Errorf("illegal agent transition %s -> %s for area %q", s.Status, next, s.Area)
}

// Phase is the current stage of the pipeline.
type Phase string

const (
	PhaseAnalysis        Phase = "analysis"
	PhaseMergeNormalize  Phase = "merge_normalize"
	PhaseScoreRank       Phase = "score_rank"
	PhasePortfolioSelect Phase = "portfolio_select"
	PhaseSummary         Phase = "summary"
	PhaseDone            Phase = "done"
)

// WorkflowStatus is a point-in-time snapshot of the pipeline, safe to hand
// to concurrent readers. The orchestrator owns the live copy.
type WorkflowStatus struct {
	Phase     Phase               `json:"phase"`
	Agents    map[Area]AgentState `json:"agents"`
	StartedAt time.Time           `json:"started_at,omitzero"`
	EndedAt   time.Time           `json:"ended_at,omitzero"`
}
