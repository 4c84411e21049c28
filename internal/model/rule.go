package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Combinator joins a rule's primary conditions.
type Combinator string

// Combinator constants.
const (
	CombinatorSingle Combinator = "single"
	CombinatorAnd    Combinator = "and"
	CombinatorOr     Combinator = "or"
)

// RuleAction is what happens to a file that matches a rule.
type RuleAction string

// Rule action constants.
const (
	ActionMove   RuleAction = "move"
	ActionCopy   RuleAction = "copy"
	ActionDelete RuleAction = "delete"
)

// Rule decides where a matching file should go. Conditions are joined by the
// combinator; exclusions are implicitly OR'd and any exclusion match vetoes
// an otherwise-matching rule. Lower SortOrder means higher priority, with
// CreatedAt breaking ties.
type Rule struct {
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Destination *Destination `json:"destination,omitempty"`
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	CategoryID  string       `json:"category_id,omitempty"`
	Combinator  Combinator   `json:"combinator"`
	Action      RuleAction   `json:"action"`
	Conditions  []Condition  `json:"conditions"`
	Exclusions  []Condition  `json:"exclusions,omitempty"`
	SortOrder   int          `json:"sort_order"`
	IsEnabled   bool         `json:"is_enabled"`
}

// NewRule creates a rule with a fresh ID and creation timestamp.
func NewRule(name string, conditions []Condition, combinator Combinator, action RuleAction, dest *Destination) Rule {
	now := time.Now()
	return Rule{
		ID:          uuid.NewString(),
		Name:        name,
		Conditions:  conditions,
		Combinator:  combinator,
		Action:      action,
		Destination: dest,
		IsEnabled:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ConditionsMatch evaluates the primary condition set under the combinator.
// An empty condition list never matches.
func (r Rule) ConditionsMatch(f File, now time.Time) bool {
	if len(r.Conditions) == 0 {
		return false
	}
	switch r.Combinator {
	case CombinatorAnd:
		for _, c := range r.Conditions {
			if !c.Matches(f, now) {
				return false
			}
		}
		return true
	case CombinatorOr:
		for _, c := range r.Conditions {
			if c.Matches(f, now) {
				return true
			}
		}
		return false
	case CombinatorSingle:
		return r.Conditions[0].Matches(f, now)
	default:
		return false
	}
}

// Excluded reports whether any exclusion condition matches. Exclusions are
// OR'd: one hit vetoes the rule.
func (r Rule) Excluded(f File, now time.Time) bool {
	for _, c := range r.Exclusions {
		if c.Matches(f, now) {
			return true
		}
	}
	return false
}

// MatchReason renders the primary conditions as a human-readable explanation,
// joined per the combinator.
func (r Rule) MatchReason() string {
	if len(r.Conditions) == 0 {
		return ""
	}
	joiner := " AND "
	if r.Combinator == CombinatorOr {
		joiner = " OR "
	}
	reason := r.Conditions[0].Describe()
	for _, c := range r.Conditions[1:] {
		reason += joiner + c.Describe()
	}
	return reason
}

// Validate ensures the rule is well formed before persistence.
func (r Rule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if len(r.Conditions) == 0 {
		return fmt.Errorf("rule must have at least one condition")
	}
	switch r.Combinator {
	case CombinatorSingle, CombinatorAnd, CombinatorOr:
	default:
		return fmt.Errorf("unknown combinator %q", r.Combinator)
	}
	switch r.Action {
	case ActionMove, ActionCopy:
		if r.Destination == nil {
			return fmt.Errorf("%s rules require a destination", r.Action)
		}
	case ActionDelete:
	default:
		return fmt.Errorf("unknown action %q", r.Action)
	}
	return nil
}

// SortRules orders rules by ascending SortOrder, breaking ties by creation
// date (older first). Returns a sorted copy; the input is not modified.
func SortRules(rules []Rule) []Rule {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SortOrder != sorted[j].SortOrder {
			return sorted[i].SortOrder < sorted[j].SortOrder
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}
