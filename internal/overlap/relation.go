// Package overlap classifies how a candidate rule's match set relates to
// existing rules, so redundant or conflicting rules can be flagged before
// they are persisted.
package overlap

import (
	"strings"

	"github.com/quietfile/declutter/internal/model"
)

// relation describes how one condition's (or condition set's) match set
// relates to another's. Orientation is always "first relative to second":
// relSubset means the first matches strictly fewer files.
type relation int

const (
	relNone relation = iota
	relPartial
	relSubset
	relSuperset
	relIdentical
)

func (r relation) invert() relation {
	switch r {
	case relSubset:
		return relSuperset
	case relSuperset:
		return relSubset
	default:
		return r
	}
}

// assumePartial is the conservative fallback for condition pairs the algebra
// does not model: heterogeneous variants could co-match the same file, so we
// report a possible partial overlap rather than silently none. Kept as a
// single named site on purpose.
func assumePartial() relation {
	return relPartial
}

// conditionRelation computes the relation between two single conditions by
// pairwise dispatch on their kinds.
func conditionRelation(a, b model.Condition) relation {
	if a.Kind == model.ConditionNegated || b.Kind == model.ConditionNegated {
		if a.Kind == b.Kind {
			if a.Inner == nil || b.Inner == nil {
				return assumePartial()
			}
			// Complements invert containment: A ⊆ B implies ¬B ⊆ ¬A.
			return conditionRelation(*a.Inner, *b.Inner).invert()
		}
		return assumePartial()
	}

	if a.Kind != b.Kind {
		return assumePartial()
	}

	switch a.Kind {
	case model.ConditionExtensionEquals, model.ConditionKindEquals:
		if strings.EqualFold(a.Value, b.Value) {
			return relIdentical
		}
		return relNone

	case model.ConditionFromLocation:
		if a.Location == b.Location {
			return relIdentical
		}
		return relNone

	case model.ConditionNameStartsWith:
		return affixRelation(a.Value, b.Value, strings.HasPrefix)

	case model.ConditionNameEndsWith:
		return affixRelation(a.Value, b.Value, strings.HasSuffix)

	case model.ConditionNameContains:
		av, bv := strings.ToLower(a.Value), strings.ToLower(b.Value)
		switch {
		case av == bv:
			return relIdentical
		case strings.Contains(av, bv):
			// The longer needle matches fewer names.
			return relSubset
		case strings.Contains(bv, av):
			return relSuperset
		default:
			// Two unrelated substrings can still co-occur in one name.
			return relPartial
		}

	case model.ConditionOlderThan:
		return olderThanRelation(a, b)

	case model.ConditionModifiedOlderThan, model.ConditionAccessedOlderThan:
		return dayBoundRelation(a.Days, b.Days)

	case model.ConditionLargerThan:
		switch {
		case a.Bytes == b.Bytes:
			return relIdentical
		case a.Bytes > b.Bytes:
			// A higher size floor matches fewer files.
			return relSubset
		default:
			return relSuperset
		}

	default:
		return assumePartial()
	}
}

// affixRelation compares two prefix or suffix operands. A name cannot carry
// two unrelated affixes at the same position, so non-nested values are
// disjoint.
func affixRelation(a, b string, nested func(string, string) bool) relation {
	av, bv := strings.ToLower(a), strings.ToLower(b)
	switch {
	case av == bv:
		return relIdentical
	case nested(av, bv):
		return relSubset
	case nested(bv, av):
		return relSuperset
	default:
		return relNone
	}
}

// dayBoundRelation compares two day thresholds. "Older than 30 days" is a
// subset of "older than 7 days": the stricter bound matches fewer files.
func dayBoundRelation(aDays, bDays int) relation {
	switch {
	case aDays == bDays:
		return relIdentical
	case aDays > bDays:
		return relSubset
	default:
		return relSuperset
	}
}

func olderThanRelation(a, b model.Condition) relation {
	sameFilter := strings.EqualFold(a.ExtensionFilter, b.ExtensionFilter)
	if sameFilter {
		return dayBoundRelation(a.Days, b.Days)
	}
	if a.ExtensionFilter != "" && b.ExtensionFilter != "" {
		// Different extension filters never match the same file.
		return relNone
	}
	// One side is extension-filtered, the other unfiltered: the filtered
	// side is narrower when its day bound is at least as strict.
	if a.ExtensionFilter != "" {
		if a.Days >= b.Days {
			return relSubset
		}
		return relPartial
	}
	if b.Days >= a.Days {
		return relSuperset
	}
	return relPartial
}

// ruleRelation computes the relation between two rules' condition sets.
// Single-condition rules compare directly; AND sets compare by set
// inclusion (a strict superset of conditions is the narrower rule); OR sets
// compare by branch inclusion (fewer branches is the narrower rule). Mixed
// or inconclusive sets fall back to pairwise cross-checks: any overlapping
// pair means partial, none means no relation.
func ruleRelation(a, b model.Rule) relation {
	if len(a.Conditions) == 0 || len(b.Conditions) == 0 {
		return relNone
	}

	if len(a.Conditions) == 1 && len(b.Conditions) == 1 {
		return conditionRelation(a.Conditions[0], b.Conditions[0])
	}

	if conditionSetsEqual(a.Conditions, b.Conditions) && effectiveCombinator(a) == effectiveCombinator(b) {
		return relIdentical
	}

	acomb, bcomb := effectiveCombinator(a), effectiveCombinator(b)
	if acomb == bcomb {
		switch acomb {
		case model.CombinatorAnd:
			// Extra AND conditions narrow the match set.
			if containsAllConditions(b.Conditions, a.Conditions) {
				return relSuperset
			}
			if containsAllConditions(a.Conditions, b.Conditions) {
				return relSubset
			}
		case model.CombinatorOr:
			// Extra OR branches widen the match set.
			if containsAllConditions(b.Conditions, a.Conditions) {
				return relSubset
			}
			if containsAllConditions(a.Conditions, b.Conditions) {
				return relSuperset
			}
		}
	}

	for _, ac := range a.Conditions {
		for _, bc := range b.Conditions {
			if conditionRelation(ac, bc) != relNone {
				return relPartial
			}
		}
	}
	return relNone
}

// effectiveCombinator treats single as an AND of one condition.
func effectiveCombinator(r model.Rule) model.Combinator {
	if r.Combinator == model.CombinatorSingle {
		return model.CombinatorAnd
	}
	return r.Combinator
}

func conditionSetsEqual(a, b []model.Condition) bool {
	if len(a) != len(b) {
		return false
	}
	return containsAllConditions(a, b) && containsAllConditions(b, a)
}

// containsAllConditions reports whether every condition in want has an equal
// condition in have.
func containsAllConditions(have, want []model.Condition) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h.Equal(w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
