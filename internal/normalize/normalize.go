// Package normalize deduplicates raw plays from all areas into a canonical
// set with unique titles.
package normalize

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/stratline/playbook/internal/model"
)

// Normalizer merges raw plays by canonical title. Merging is deterministic
// and idempotent: normalizing an already-canonical set returns an identical
// set.
type Normalizer struct {
	aliases map[string]string
}

// New builds a normalizer over a configured alias map (raw title ->
// canonical title). Alias keys are matched case-insensitively after
// whitespace trimming.
func New(aliases map[string]string) *Normalizer {
	folded := make(map[string]string, len(aliases))
	for raw, canonical := range aliases {
		folded[foldTitle(raw)] = strings.TrimSpace(canonical)
	}
	return &Normalizer{aliases: folded}
}

func foldTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// resolve maps a raw title to its group key and display spelling. Aliased
// titles adopt the alias target spelling; others keep their trimmed raw
// spelling.
func (n *Normalizer) resolve(raw string) (key, display string, aliased bool) {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := n.aliases[foldTitle(trimmed)]; ok {
		return foldTitle(canonical), canonical, true
	}
	return foldTitle(trimmed), trimmed, false
}

// Canonicalize validates, groups and merges the combined raw play list.
// Malformed plays are dropped with a warning; they never abort the pipeline.
func (n *Normalizer) Canonicalize(raw []model.Play) []model.Play {
	groups := make(map[string][]model.Play)
	display := make(map[string]string)
	aliasedKeys := make(map[string]bool)
	var order []string

	for _, play := range raw {
		if err := play.Validate(); err != nil {
			log.Warn().Err(err).Str("area", string(play.Area)).Msg("dropping malformed play")
			continue
		}
		key, spelling, aliased := n.resolve(play.Title)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], play)
		// An alias-target spelling wins over raw spellings for the group;
		// among equals the lexicographically smallest wins, so the result
		// does not depend on agent completion order.
		current, ok := display[key]
		switch {
		case aliased && !aliasedKeys[key]:
			display[key] = spelling
			aliasedKeys[key] = true
		case aliased == aliasedKeys[key] && (!ok || spelling < current):
			display[key] = spelling
		}
	}

	sort.Strings(order)
	out := make([]model.Play, 0, len(order))
	for _, key := range order {
		merged := n.merge(groups[key])
		merged.Title = display[key]
		out = append(out, merged)
	}

	// Dependency titles go through the same alias resolution so the selector
	// can match them against canonical titles.
	displayByKey := make(map[string]string, len(out))
	for _, play := range out {
		displayByKey[foldTitle(play.Title)] = play.Title
	}
	for i := range out {
		out[i].Dependencies = n.canonicalDeps(out[i].Dependencies, displayByKey)
	}
	return out
}

func (n *Normalizer) canonicalDeps(deps []string, displayByKey map[string]string) []string {
	seen := make(map[string]struct{}, len(deps))
	resolved := make([]string, 0, len(deps))
	for _, dep := range deps {
		key, spelling, _ := n.resolve(dep)
		if canonical, ok := displayByKey[key]; ok {
			spelling = canonical
		}
		if _, dup := seen[spelling]; dup {
			continue
		}
		seen[spelling] = struct{}{}
		resolved = append(resolved, spelling)
	}
	sort.Strings(resolved)
	return resolved
}

// merge folds a group of same-title plays into one canonical play:
// confidence and impact take the max, effort the min, KPI targets sum
// per key, dependencies union, area follows the highest-confidence member.
func (n *Normalizer) merge(group []model.Play) model.Play {
	members := append([]model.Play(nil), group...)
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].Area != members[j].Area {
			return members[i].Area < members[j].Area
		}
		return members[i].Title < members[j].Title
	})

	merged := model.Play{
		Area:         members[0].Area,
		EffortPoints: members[0].EffortPoints,
		ImpactScore:  members[0].ImpactScore,
		Confidence:   members[0].Confidence,
		KPITargets:   map[string]float64{},
	}

	bestConfidence := -1.0
	var notes []string
	depSet := make(map[string]struct{})
	for _, member := range members {
		if member.Confidence > merged.Confidence {
			merged.Confidence = member.Confidence
		}
		if member.EffortPoints < merged.EffortPoints {
			merged.EffortPoints = member.EffortPoints
		}
		if member.ImpactScore > merged.ImpactScore {
			merged.ImpactScore = member.ImpactScore
		}
		for kpi, delta := range member.KPITargets {
			merged.KPITargets[kpi] += delta
		}
		for _, dep := range member.Dependencies {
			depSet[strings.TrimSpace(dep)] = struct{}{}
		}
		// Members are pre-sorted by area, so a confidence tie resolves to
		// the alphabetically first area.
		if member.Confidence > bestConfidence {
			bestConfidence = member.Confidence
			merged.Area = member.Area
		}
		if trimmed := strings.TrimSpace(member.Notes); trimmed != "" && !contains(notes, trimmed) {
			notes = append(notes, trimmed)
		}
	}

	merged.Dependencies = make([]string, 0, len(depSet))
	for dep := range depSet {
		merged.Dependencies = append(merged.Dependencies, dep)
	}
	sort.Strings(merged.Dependencies)
	merged.Notes = strings.Join(notes, "; ")
	return merged
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
