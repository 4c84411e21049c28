package learner

import (
	"sort"
	"strings"

	"github.com/quietfile/declutter/internal/model"
)

// dedupe orders candidates by specificity (condition count desc, confidence
// desc) and drops duplicates. A multi-condition pattern for an (extension,
// destination) pair supersedes the simpler pattern for the same pair; simple
// patterns are keyed by the pair alone, multi-condition patterns by the pair
// plus their sorted condition list. Temporal and negative patterns carry
// their own key dimensions and never shadow each other.
func (l *Learner) dedupe(candidates []model.LearnedPattern) []model.LearnedPattern {
	sorted := make([]model.LearnedPattern, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i].Conditions) != len(sorted[j].Conditions) {
			return len(sorted[i].Conditions) > len(sorted[j].Conditions)
		}
		if sorted[i].Confidence != sorted[j].Confidence {
			return sorted[i].Confidence > sorted[j].Confidence
		}
		return fullKey(sorted[i]) < fullKey(sorted[j])
	})

	seen := make(map[string]bool)
	pairTaken := make(map[string]bool)

	var kept []model.LearnedPattern
	for _, p := range sorted {
		key := fullKey(p)
		if seen[key] {
			continue
		}
		pair := pairKey(p)
		simple := !p.IsNegative && p.TimeCategory == "" && len(p.Conditions) <= 1
		if simple && pairTaken[pair] {
			continue
		}
		seen[key] = true
		if !p.IsNegative && p.TimeCategory == "" {
			pairTaken[pair] = true
		}
		kept = append(kept, p)
	}
	return kept
}

func pairKey(p model.LearnedPattern) string {
	return strings.ToLower(p.FileExtension) + "|" + p.DestinationPath
}

// fullKey uniquely identifies a pattern by extension, destination, polarity,
// time category, and its order-independent condition set.
func fullKey(p model.LearnedPattern) string {
	condKeys := make([]string, 0, len(p.Conditions))
	for _, c := range p.Conditions {
		condKeys = append(condKeys, c.Key())
	}
	sort.Strings(condKeys)

	parts := []string{
		pairKey(p),
		string(p.TimeCategory),
		strings.Join(condKeys, ","),
	}
	if p.IsNegative {
		parts = append(parts, "negative")
	}
	return strings.Join(parts, "|")
}
