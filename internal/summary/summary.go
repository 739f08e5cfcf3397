// Package summary renders the executive narrative for a selected portfolio.
// This is plain string formatting over already-computed data.
package summary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stratline/playbook/internal/model"
)

// Generate produces a deterministic narrative over the top-ranked selected
// plays, the consumed effort and the aggregate expected KPI effect.
func Generate(ranked []model.RankedPlay, pick model.Portfolio, budgetPoints int) string {
	if len(pick.Selected) == 0 {
		return fmt.Sprintf("No plays fit the current budget of %d effort points. "+
			"Review the budget or the play catalog and rerun the analysis.", budgetPoints)
	}

	byTitle := make(map[string]model.RankedPlay, len(ranked))
	for _, play := range ranked {
		byTitle[play.Title] = play
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Recommended portfolio: %d of %d candidate plays, using %d of %d effort points.\n\n",
		len(pick.Selected), len(ranked), pick.TotalEffort, budgetPoints)

	for i, title := range pick.Selected {
		play, ok := byTitle[title]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%d. %s [%s] — score %.2f, effort %d\n",
			i+1, play.Title, play.Area, play.Score, play.EffortPoints)
	}

	kpis := make([]string, 0, len(pick.ExpectedEffect))
	for kpi := range pick.ExpectedEffect {
		kpis = append(kpis, kpi)
	}
	sort.Strings(kpis)

	if len(kpis) > 0 {
		sb.WriteString("\nExpected combined effect:\n")
		for _, kpi := range kpis {
			fmt.Fprintf(&sb, "- %s: %+.2f\n", kpi, pick.ExpectedEffect[kpi])
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
