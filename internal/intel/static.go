package intel

import (
	"context"

	"github.com/stratline/playbook/internal/model"
)

// StaticProvider serves a built-in deterministic play book. It backs local
// runs and tests where no curated catalog directory exists.
type StaticProvider struct{}

// NewStaticProvider returns the built-in play book provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

// GeneratePlays returns the built-in plays for the area. The result is a
// fresh copy on every call so callers may mutate it freely.
func (p *StaticProvider) GeneratePlays(_ context.Context, area model.Area, _ string) ([]model.Play, error) {
	book, ok := builtinBook[area]
	if !ok {
		return nil, &model.ProviderError{Area: area, Err: errUnknownArea}
	}
	out := make([]model.Play, len(book))
	for i, play := range book {
		out[i] = clonePlay(play)
	}
	return out, nil
}

func clonePlay(p model.Play) model.Play {
	out := p
	out.KPITargets = make(map[string]float64, len(p.KPITargets))
	for k, v := range p.KPITargets {
		out.KPITargets[k] = v
	}
	out.Dependencies = append([]string(nil), p.Dependencies...)
	return out
}

var builtinBook = map[model.Area][]model.Play{
	model.AreaNetwork: {
		{
			Title:        "Node Capacity Upgrades",
			Area:         model.AreaNetwork,
			EffortPoints: 5,
			ImpactScore:  4.5,
			Confidence:   0.85,
			KPITargets:   map[string]float64{"utilization_pct": -8.0, "outage_minutes": -120},
			Notes:        "Split the three busiest nodes before the seasonal peak.",
		},
		{
			Title:        "Proactive Outage Alerts",
			Area:         model.AreaNetwork,
			EffortPoints: 2,
			ImpactScore:  3.5,
			Confidence:   0.8,
			KPITargets:   map[string]float64{"support_calls": -0.15, "nps": 2.0},
			Dependencies: []string{"Node Capacity Upgrades"},
			Notes:        "Notify affected subscribers before they call in.",
		},
	},
	model.AreaCustomer: {
		{
			Title:        "Churn Save Desk",
			Area:         model.AreaCustomer,
			EffortPoints: 3,
			ImpactScore:  4.0,
			Confidence:   0.75,
			KPITargets:   map[string]float64{"churn_rate": -0.4},
			Notes:        "Dedicated retention queue for disconnect requests.",
		},
		{
			Title:        "Weekend Install Crews",
			Area:         model.AreaCustomer,
			EffortPoints: 2,
			ImpactScore:  3.0,
			Confidence:   0.7,
			KPITargets:   map[string]float64{"install_backlog": -0.3, "nps": 1.5},
			Notes:        "Cut the install backlog with Saturday appointments.",
		},
	},
	model.AreaRevenue: {
		{
			Title:        "Speed Tier Upsell Campaign",
			Area:         model.AreaRevenue,
			EffortPoints: 2,
			ImpactScore:  4.0,
			Confidence:   0.8,
			KPITargets:   map[string]float64{"arpu": 1.8},
			Notes:        "Target subscribers saturating their current tier.",
		},
		{
			Title:        "Win-Back Offers",
			Area:         model.AreaRevenue,
			EffortPoints: 3,
			ImpactScore:  3.0,
			Confidence:   0.6,
			KPITargets:   map[string]float64{"churn_rate": -0.2, "arpu": 0.5},
			Dependencies: []string{"Churn Save Desk"},
			Notes:        "Re-engage recent disconnects once the save desk is live.",
		},
	},
	model.AreaUsage: {
		{
			Title:        "Data Cap Advisories",
			Area:         model.AreaUsage,
			EffortPoints: 1,
			ImpactScore:  2.5,
			Confidence:   0.9,
			KPITargets:   map[string]float64{"support_calls": -0.1},
			Notes:        "Warn heavy users before overage charges land.",
		},
		{
			Title:        "Streaming Partner Bundles",
			Area:         model.AreaUsage,
			EffortPoints: 4,
			ImpactScore:  3.5,
			Confidence:   0.55,
			KPITargets:   map[string]float64{"arpu": 1.2, "churn_rate": -0.1},
			Notes:        "Bundle the top streaming service with premium tiers.",
		},
	},
	model.AreaOperations: {
		{
			Title:        "Truck Roll Reduction",
			Area:         model.AreaOperations,
			EffortPoints: 3,
			ImpactScore:  4.0,
			Confidence:   0.7,
			KPITargets:   map[string]float64{"truck_rolls": -0.25, "opex": -0.1},
			Notes:        "Resolve more faults remotely with better diagnostics.",
		},
		{
			Title:        "Weekend Install Crew",
			Area:         model.AreaOperations,
			EffortPoints: 3,
			ImpactScore:  3.0,
			Confidence:   0.6,
			KPITargets:   map[string]float64{"install_backlog": -0.2},
			Notes:        "Operations view of the weekend installation push.",
		},
	},
}
