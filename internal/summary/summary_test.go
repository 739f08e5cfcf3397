package summary

import (
	"strings"
	"testing"

	"github.com/stratline/playbook/internal/model"
)

func TestGenerateListsSelectionAndEffect(t *testing.T) {
	t.Parallel()

	ranked := []model.RankedPlay{
		{Rank: 1, Title: "Upsell", Area: model.AreaRevenue, Score: 1.28, EffortPoints: 2},
		{Rank: 2, Title: "Save Desk", Area: model.AreaCustomer, Score: 0.8, EffortPoints: 3},
	}
	pick := model.Portfolio{
		Selected:       []string{"Upsell", "Save Desk"},
		TotalEffort:    5,
		ExpectedEffect: map[string]float64{"arpu": 1.8, "churn_rate": -0.4},
	}

	got := Generate(ranked, pick, 8)
	for _, want := range []string{
		"2 of 2 candidate plays",
		"using 5 of 8 effort points",
		"1. Upsell [revenue]",
		"2. Save Desk [customer]",
		"arpu: +1.80",
		"churn_rate: -0.40",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestGenerateEmptySelection(t *testing.T) {
	t.Parallel()

	got := Generate(nil, model.Portfolio{Selected: []string{}}, 0)
	if !strings.Contains(got, "No plays fit the current budget of 0 effort points") {
		t.Fatalf("unexpected empty-portfolio summary: %s", got)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	t.Parallel()

	ranked := []model.RankedPlay{
		{Rank: 1, Title: "A", Area: model.AreaUsage, Score: 0.5, EffortPoints: 1},
	}
	pick := model.Portfolio{
		Selected:       []string{"A"},
		TotalEffort:    1,
		ExpectedEffect: map[string]float64{"z_kpi": 1, "a_kpi": -1, "m_kpi": 0.5},
	}

	first := Generate(ranked, pick, 4)
	for i := 0; i < 20; i++ {
		if got := Generate(ranked, pick, 4); got != first {
			t.Fatalf("summary changed between invocations")
		}
	}
	if strings.Index(first, "a_kpi") > strings.Index(first, "z_kpi") {
		t.Fatalf("KPI effects not sorted:\n%s", first)
	}
}
