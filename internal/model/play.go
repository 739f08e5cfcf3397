// Package model defines the core data types shared across the pipeline.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// Area is one of the fixed analysis subject areas.
type Area string

// The fixed set of subject areas, one analysis agent each.
const (
	AreaNetwork    Area = "network"
	AreaCustomer   Area = "customer"
	AreaRevenue    Area = "revenue"
	AreaUsage      Area = "usage"
	AreaOperations Area = "operations"
)

// Areas returns all subject areas in canonical order.
func Areas() []Area {
	return []Area{AreaNetwork, AreaCustomer, AreaRevenue, AreaUsage, AreaOperations}
}

// ValidArea reports whether a is a known subject area.
func ValidArea(a Area) bool {
	switch a {
	case AreaNetwork, AreaCustomer, AreaRevenue, AreaUsage, AreaOperations:
		return true
	}
	return false
}

// Play is a candidate business initiative. Once normalized it is treated as
// an immutable value with a title unique within the canonical set.
type Play struct {
	Title        string             `json:"title"           yaml:"title"`
	Area         Area               `json:"area"            yaml:"area"`
	EffortPoints int                `json:"effort_points"   yaml:"effort_points"`
	ImpactScore  float64            `json:"impact_score"    yaml:"impact_score"`
	Confidence   float64            `json:"confidence"      yaml:"confidence"`
	KPITargets   map[string]float64 `json:"kpi_targets"     yaml:"kpi_targets"`
	Dependencies []string           `json:"dependencies"    yaml:"dependencies"`
	Notes        string             `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Validate checks the play invariants. A failing play is dropped from the
// pipeline with a warning, it never aborts the run.
func (p Play) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return &ValidationError{Title: p.Title, Reason: "empty title"}
	}
	if !ValidArea(p.Area) {
		return &ValidationError{Title: p.Title, Reason: fmt.Sprintf("unknown area %q", p.Area)}
	}
	if p.EffortPoints < 1 {
		return &ValidationError{Title: p.Title, Reason: fmt.Sprintf("effort_points %d < 1", p.EffortPoints)}
	}
	if p.ImpactScore < 0 || p.ImpactScore > 5 {
		return &ValidationError{Title: p.Title, Reason: fmt.Sprintf("impact_score %.2f outside [0,5]", p.ImpactScore)}
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return &ValidationError{Title: p.Title, Reason: fmt.Sprintf("confidence %.2f outside [0,1]", p.Confidence)}
	}
	for _, dep := range p.Dependencies {
		if strings.EqualFold(strings.TrimSpace(dep), strings.TrimSpace(p.Title)) {
			return &ValidationError{Title: p.Title, Reason: "self-dependency"}
		}
	}
	return nil
}

// SortedDependencies returns the dependency titles sorted and deduplicated.
func (p Play) SortedDependencies() []string {
	seen := make(map[string]struct{}, len(p.Dependencies))
	out := make([]string, 0, len(p.Dependencies))
	for _, dep := range p.Dependencies {
		if _, ok := seen[dep]; ok {
			continue
		}
		seen[dep] = struct{}{}
		out = append(out, dep)
	}
	sort.Strings(out)
	return out
}
