package overlap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quietfile/declutter/internal/model"
)

// Kind names the relationship detected between a candidate rule and an
// existing rule.
type Kind string

// Overlap kind constants.
const (
	KindExactDuplicate         Kind = "exact_duplicate"
	KindConflictingDestination Kind = "conflicting_destination"
	KindSubset                 Kind = "subset"
	KindSuperset               Kind = "superset"
	KindPartialOverlap         Kind = "partial_overlap"
)

// Severity ranks overlap kinds for sorting and display.
func Severity(kind Kind) int {
	switch kind {
	case KindExactDuplicate:
		return 3
	case KindConflictingDestination:
		return 2
	case KindSubset, KindSuperset:
		return 1
	default:
		return 0
	}
}

// Overlap reports one detected relationship between the candidate and an
// existing rule.
type Overlap struct {
	ExistingRuleID   string `json:"existing_rule_id"`
	ExistingRuleName string `json:"existing_rule_name"`
	Kind             Kind   `json:"kind"`
	Detail           string `json:"detail"`
	Severity         int    `json:"severity"`
}

// Detector checks candidate rules against an existing rule set. It holds no
// mutable state and is safe for concurrent use.
type Detector struct {
	categories map[string]model.Category
}

// NewDetector creates a detector aware of the given categories, used for
// scope prefiltering.
func NewDetector(categories []model.Category) *Detector {
	d := &Detector{categories: make(map[string]model.Category, len(categories))}
	for _, c := range categories {
		d.categories[c.ID] = c
	}
	return d
}

// DetectOverlaps classifies the candidate against every enabled existing
// rule, sorted by severity descending. excludeID skips one rule, for
// edit-in-place scenarios where a rule is compared against its own stored
// version.
func (d *Detector) DetectOverlaps(candidate model.Rule, existing []model.Rule, excludeID string) []Overlap {
	var overlaps []Overlap
	for _, rule := range existing {
		if !rule.IsEnabled || rule.ID == excludeID {
			continue
		}
		if !d.scopesMayOverlap(candidate.CategoryID, rule.CategoryID) {
			continue
		}
		if o, ok := classify(candidate, rule); ok {
			overlaps = append(overlaps, o)
		}
	}
	sort.SliceStable(overlaps, func(i, j int) bool {
		return overlaps[i].Severity > overlaps[j].Severity
	})
	return overlaps
}

// classify combines the condition relation with destination equality.
// Partial overlaps with the same destination are benign and not reported.
func classify(candidate, existing model.Rule) (Overlap, bool) {
	rel := ruleRelation(candidate, existing)
	if rel == relNone {
		return Overlap{}, false
	}

	sameDest := sameDestination(candidate, existing)
	var kind Kind
	var detail string

	switch rel {
	case relIdentical:
		if sameDest {
			kind = KindExactDuplicate
			detail = fmt.Sprintf("matches the same files as %q with the same destination", existing.Name)
		} else {
			kind = KindConflictingDestination
			detail = fmt.Sprintf("matches the same files as %q but sends them to %s", existing.Name, destinationDisplay(existing))
		}
	case relSubset:
		kind = KindSubset
		detail = fmt.Sprintf("matches a narrower set of files than %q", existing.Name)
	case relSuperset:
		kind = KindSuperset
		detail = fmt.Sprintf("matches a broader set of files than %q", existing.Name)
	case relPartial:
		if sameDest {
			return Overlap{}, false
		}
		kind = KindPartialOverlap
		detail = fmt.Sprintf("may match some of the same files as %q with a different destination", existing.Name)
	default:
		return Overlap{}, false
	}

	return Overlap{
		ExistingRuleID:   existing.ID,
		ExistingRuleName: existing.Name,
		Kind:             kind,
		Detail:           detail,
		Severity:         Severity(kind),
	}, true
}

// scopesMayOverlap prefilters by category scope. Global scopes can always
// overlap; two folder-scoped categories can only overlap when one scope's
// folder is a prefix of the other's.
func (d *Detector) scopesMayOverlap(aID, bID string) bool {
	aScope, aOK := d.scopeFor(aID)
	bScope, bOK := d.scopeFor(bID)
	if !aOK || !bOK {
		return true
	}
	if aScope.IsGlobal() || bScope.IsGlobal() {
		return true
	}
	for _, af := range aScope.Folders {
		for _, bf := range bScope.Folders {
			if pathsNested(af, bf) {
				return true
			}
		}
	}
	return false
}

func (d *Detector) scopeFor(categoryID string) (model.CategoryScope, bool) {
	if categoryID == "" {
		return model.CategoryScope{}, false
	}
	cat, ok := d.categories[categoryID]
	if !ok {
		return model.CategoryScope{}, false
	}
	return cat.Scope, true
}

func pathsNested(a, b string) bool {
	a = strings.TrimSuffix(a, "/")
	b = strings.TrimSuffix(b, "/")
	return a == b || strings.HasPrefix(a, b+"/") || strings.HasPrefix(b, a+"/")
}

// sameDestination compares where two rules send their files. Delete rules
// implicitly target the trash.
func sameDestination(a, b model.Rule) bool {
	ad, aOK := effectiveDestination(a)
	bd, bOK := effectiveDestination(b)
	if !aOK || !bOK {
		return false
	}
	if ad.Kind != bd.Kind {
		return false
	}
	if ad.Kind == model.DestinationTrash {
		return true
	}
	return strings.EqualFold(ad.DisplayPath, bd.DisplayPath)
}

func effectiveDestination(r model.Rule) (model.Destination, bool) {
	if r.Action == model.ActionDelete {
		return model.Trash(), true
	}
	if r.Destination == nil {
		return model.Destination{}, false
	}
	return *r.Destination, true
}

func destinationDisplay(r model.Rule) string {
	d, ok := effectiveDestination(r)
	if !ok {
		return "(no destination)"
	}
	return d.Display()
}
