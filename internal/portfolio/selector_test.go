package portfolio

import (
	"math"
	"reflect"
	"testing"

	"github.com/stratline/playbook/internal/model"
)

func ranked(title string, effort int, score float64, deps ...string) model.RankedPlay {
	if deps == nil {
		deps = []string{}
	}
	return model.RankedPlay{
		Title:        title,
		Area:         model.AreaNetwork,
		Score:        score,
		EffortPoints: effort,
		KPITargets:   map[string]float64{},
		Dependencies: deps,
	}
}

func TestSelectGreedyWalk(t *testing.T) {
	t.Parallel()

	// Budget 8: A(2) fits, C(5) fits, B would overflow (7+3),
	// D's dependency C is satisfied but 7+2 still overflows.
	list := []model.RankedPlay{
		ranked("A", 2, 1.6),
		ranked("C", 5, 1.5),
		ranked("B", 3, 1.2),
		ranked("D", 2, 1.0, "C"),
	}

	pick := Select(list, 8)
	if !reflect.DeepEqual(pick.Selected, []string{"A", "C"}) {
		t.Fatalf("selected = %v, want [A C]", pick.Selected)
	}
	if pick.TotalEffort != 7 {
		t.Fatalf("total effort = %d, want 7", pick.TotalEffort)
	}
}

func TestSelectZeroBudget(t *testing.T) {
	t.Parallel()

	list := []model.RankedPlay{ranked("A", 1, 1.0)}
	pick := Select(list, 0)
	if len(pick.Selected) != 0 {
		t.Fatalf("selected = %v, want empty", pick.Selected)
	}
	if pick.TotalEffort != 0 {
		t.Fatalf("total effort = %d, want 0", pick.TotalEffort)
	}
}

func TestSelectSkipsUnmetDependencies(t *testing.T) {
	t.Parallel()

	list := []model.RankedPlay{
		ranked("Dependent", 1, 2.0, "Missing"),
		ranked("Standalone", 1, 1.0),
	}
	pick := Select(list, 10)
	if !reflect.DeepEqual(pick.Selected, []string{"Standalone"}) {
		t.Fatalf("selected = %v, want [Standalone]", pick.Selected)
	}
}

func TestSelectDependencyChain(t *testing.T) {
	t.Parallel()

	list := []model.RankedPlay{
		ranked("Base", 2, 2.0),
		ranked("Child", 1, 1.5, "Base"),
		ranked("Grandchild", 1, 1.0, "Base", "Child"),
	}
	pick := Select(list, 10)
	if !reflect.DeepEqual(pick.Selected, []string{"Base", "Child", "Grandchild"}) {
		t.Fatalf("selected = %v, want full chain", pick.Selected)
	}

	// Dependency invariant: every dependency of a selected play is selected.
	chosen := map[string]bool{}
	for _, title := range pick.Selected {
		chosen[title] = true
	}
	for _, play := range list {
		if !chosen[play.Title] {
			continue
		}
		for _, dep := range play.Dependencies {
			if !chosen[dep] {
				t.Fatalf("selected play %q has unselected dependency %q", play.Title, dep)
			}
		}
	}
}

func TestSelectBudgetInvariant(t *testing.T) {
	t.Parallel()

	list := []model.RankedPlay{
		ranked("A", 4, 2.0),
		ranked("B", 3, 1.5),
		ranked("C", 2, 1.0),
		ranked("D", 1, 0.5),
	}
	for budget := 0; budget <= 12; budget++ {
		pick := Select(list, budget)
		if pick.TotalEffort > budget {
			t.Fatalf("budget %d: total effort %d exceeds budget", budget, pick.TotalEffort)
		}
	}
}

func TestSelectAggregatesExpectedEffect(t *testing.T) {
	t.Parallel()

	a := ranked("A", 1, 2.0)
	a.KPITargets = map[string]float64{"churn_rate": -0.2, "arpu": 1.0}
	b := ranked("B", 1, 1.0)
	b.KPITargets = map[string]float64{"churn_rate": -0.1}

	pick := Select([]model.RankedPlay{a, b}, 5)
	if got := pick.ExpectedEffect["churn_rate"]; math.Abs(got-(-0.3)) > 1e-12 {
		t.Fatalf("churn_rate effect = %v, want -0.3", got)
	}
	if got := pick.ExpectedEffect["arpu"]; got != 1.0 {
		t.Fatalf("arpu effect = %v, want 1.0", got)
	}
}
