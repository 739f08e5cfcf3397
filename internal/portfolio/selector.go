// Package portfolio implements the budget- and dependency-constrained play
// selection.
package portfolio

import (
	"github.com/rs/zerolog/log"

	"github.com/stratline/playbook/internal/model"
)

// Select walks the ranked list in order and greedily picks plays that fit
// the remaining budget and whose dependencies are already selected. The
// walk never backtracks; an exact solver is a possible future enhancement,
// not a requirement. An empty selection is a valid outcome.
func Select(ranked []model.RankedPlay, budgetPoints int) model.Portfolio {
	result := model.Portfolio{
		Selected:       []string{},
		ExpectedEffect: map[string]float64{},
	}
	chosen := make(map[string]struct{}, len(ranked))

	for _, candidate := range ranked {
		if !depsSatisfied(candidate, chosen) {
			log.Debug().Str("title", candidate.Title).Msg("selector: dependencies unmet, skipping")
			continue
		}
		if result.TotalEffort+candidate.EffortPoints > budgetPoints {
			log.Debug().
				Str("title", candidate.Title).
				Int("effort", candidate.EffortPoints).
				Int("total", result.TotalEffort).
				Int("budget", budgetPoints).
				Msg("selector: over budget, skipping")
			continue
		}
		chosen[candidate.Title] = struct{}{}
		result.Selected = append(result.Selected, candidate.Title)
		result.TotalEffort += candidate.EffortPoints
		for kpi, delta := range candidate.KPITargets {
			result.ExpectedEffect[kpi] += delta
		}
	}
	return result
}

func depsSatisfied(candidate model.RankedPlay, chosen map[string]struct{}) bool {
	for _, dep := range candidate.Dependencies {
		if _, ok := chosen[dep]; !ok {
			return false
		}
	}
	return true
}
