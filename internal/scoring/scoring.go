// Package scoring computes deterministic scores and rankings over canonical
// plays.
package scoring

import (
	"sort"

	"github.com/stratline/playbook/internal/model"
)

const defaultWeight = 1.0

// WeightFor returns the highest configured weight among the play's KPI
// targets, or 1.0 when none of them is configured.
func WeightFor(play model.Play, kpiWeights map[string]float64) float64 {
	best := defaultWeight
	matched := false
	for kpi := range play.KPITargets {
		weight, ok := kpiWeights[kpi]
		if !ok {
			continue
		}
		if !matched || weight > best {
			best = weight
			matched = true
		}
	}
	return best
}

// Score is a pure function of the play and the configured KPI weights:
//
//	(impact_score / 5) * confidence * weight / effort_points
//
// Identical inputs always produce identical output.
func Score(play model.Play, kpiWeights map[string]float64) float64 {
	if play.EffortPoints < 1 {
		return 0
	}
	return (play.ImpactScore / 5) * play.Confidence * WeightFor(play, kpiWeights) / float64(play.EffortPoints)
}

// Rank sorts plays by score descending and attaches ranks. Ties resolve by
// higher KPI weight, then lower effort, then title, so reruns over the same
// canonical set always produce the same order.
func Rank(plays []model.Play, kpiWeights map[string]float64) []model.RankedPlay {
	ranked := make([]model.RankedPlay, 0, len(plays))
	for _, play := range plays {
		ranked = append(ranked, model.RankedPlay{
			Title:        play.Title,
			Area:         play.Area,
			Score:        Score(play, kpiWeights),
			EffortPoints: play.EffortPoints,
			ImpactScore:  play.ImpactScore,
			Confidence:   play.Confidence,
			KPITargets:   play.KPITargets,
			Dependencies: play.SortedDependencies(),
		})
	}

	weights := make(map[string]float64, len(plays))
	for _, play := range plays {
		weights[play.Title] = WeightFor(play, kpiWeights)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		left, right := ranked[i], ranked[j]
		if left.Score != right.Score {
			return left.Score > right.Score
		}
		if weights[left.Title] != weights[right.Title] {
			return weights[left.Title] > weights[right.Title]
		}
		if left.EffortPoints != right.EffortPoints {
			return left.EffortPoints < right.EffortPoints
		}
		return left.Title < right.Title
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
