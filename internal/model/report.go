package model

// Portfolio is the budget-constrained selection over the ranked plays.
// Created once by the selector and immutable afterwards.
type Portfolio struct {
	Selected       []string           `json:"selected"`
	TotalEffort    int                `json:"total_effort"`
	ExpectedEffect map[string]float64 `json:"expected_effect"`
}

// RankedPlay is one entry of the prioritized play list in the run artifact.
type RankedPlay struct {
	Rank         int                `json:"rank"`
	Title        string             `json:"title"`
	Area         Area               `json:"area"`
	Score        float64            `json:"score"`
	EffortPoints int                `json:"effort_points"`
	ImpactScore  float64            `json:"impact_score"`
	Confidence   float64            `json:"confidence"`
	KPITargets   map[string]float64 `json:"kpi_targets"`
	Dependencies []string           `json:"dependencies"`
}

// Report is the single output artifact of a pipeline run.
type Report struct {
	RunID            string       `json:"run_id"`
	PrioritizedPlays []RankedPlay `json:"prioritized_plays"`
	PortfolioPick    Portfolio    `json:"portfolio_pick"`
	ExecSummary      string       `json:"exec_summary"`
	Error            string       `json:"error,omitempty"`
}
