package engine

import (
	"log/slog"
	"time"

	"github.com/quietfile/declutter/internal/model"
)

// Classifier evaluates files against a prioritized rule list and fills in
// their decision fields. It owns an unsynchronized destination-resolution
// cache, so a single instance must not be shared across concurrent batches;
// construct one Classifier per batch instead.
type Classifier struct {
	resolver   DestinationResolver
	categories map[string]model.Category
	cache      map[string]string
	now        func() time.Time
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithClock overrides the engine's time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// New creates a classifier with the given resolver and category set.
func New(resolver DestinationResolver, categories []model.Category, opts ...Option) *Classifier {
	c := &Classifier{
		resolver:   resolver,
		categories: make(map[string]model.Category, len(categories)),
		cache:      make(map[string]string),
		now:        time.Now,
	}
	for _, cat := range categories {
		c.categories[cat.ID] = cat
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClearCache drops cached destination resolutions. Call between independent
// batches when reusing an instance.
func (c *Classifier) ClearCache() {
	c.cache = make(map[string]string)
}

// Classify evaluates one file against the rules, first match wins. The
// returned file has either every decision field populated (status ready) or
// every decision field cleared (status pending), never a partial result.
func (c *Classifier) Classify(f model.File, rules []model.Rule) model.File {
	return c.classifySorted(f, model.SortRules(rules))
}

// ClassifyBatch classifies each file independently, preserving input order.
func (c *Classifier) ClassifyBatch(files []model.File, rules []model.Rule) []model.File {
	sorted := model.SortRules(rules)
	results := make([]model.File, len(files))
	for i, f := range files {
		results[i] = c.classifySorted(f, sorted)
	}
	return results
}

func (c *Classifier) classifySorted(f model.File, sorted []model.Rule) model.File {
	now := c.now()
	for _, rule := range sorted {
		if !rule.IsEnabled || !c.inScope(rule, f) {
			continue
		}
		if !rule.ConditionsMatch(f, now) || rule.Excluded(f, now) {
			continue
		}
		dest, ok := c.destinationFor(rule)
		if !ok {
			// Unresolvable destination: the file may still match a
			// later rule.
			slog.Debug("skipping rule with unresolvable destination",
				"rule", rule.Name)
			continue
		}
		f.Destination = &dest
		f.Status = model.StatusReady
		f.MatchedRuleID = rule.ID
		f.MatchReason = rule.MatchReason()
		f.Confidence = ConfidenceForRule(rule)
		return f
	}
	f.ClearDecision()
	return f
}

// inScope applies the rule's category scoping. Rules without a category are
// global. A disabled category makes its rules permanently non-matching.
func (c *Classifier) inScope(rule model.Rule, f model.File) bool {
	if rule.CategoryID == "" {
		return true
	}
	cat, ok := c.categories[rule.CategoryID]
	if !ok {
		// Unknown category reference: fail closed.
		return false
	}
	if !cat.IsEnabled {
		return false
	}
	return cat.Scope.Contains(f.Path)
}

// destinationFor produces a usable destination for a matching rule. Delete
// rules always go to trash. Folder destinations are resolved lazily through
// the cache and the injected resolver; failure means "try the next rule".
func (c *Classifier) destinationFor(rule model.Rule) (model.Destination, bool) {
	if rule.Action == model.ActionDelete {
		return model.Trash(), true
	}
	if rule.Destination == nil {
		return model.Destination{}, false
	}
	dest := *rule.Destination
	if !dest.NeedsResolution() {
		return dest, true
	}

	if token, ok := c.cache[dest.DisplayPath]; ok {
		return dest.WithToken(token), true
	}
	if c.resolver == nil {
		return model.Destination{}, false
	}
	token, err := c.resolver.Resolve(dest.DisplayPath)
	if err != nil {
		slog.Debug("destination resolution failed",
			"display_path", dest.DisplayPath, "error", err)
		return model.Destination{}, false
	}
	c.cache[dest.DisplayPath] = token
	return dest.WithToken(token), true
}

// ConfidenceForRule scores how specific a rule is. Multi-condition rules are
// the most trustworthy; a lone condition is scored by its kind.
func ConfidenceForRule(rule model.Rule) float64 {
	if len(rule.Conditions) > 1 {
		return 0.9
	}
	if len(rule.Conditions) == 0 {
		return 0.5
	}
	return confidenceForCondition(rule.Conditions[0])
}

func confidenceForCondition(c model.Condition) float64 {
	switch c.Kind {
	case model.ConditionExtensionEquals:
		return 0.5
	case model.ConditionNameStartsWith, model.ConditionNameContains, model.ConditionNameEndsWith:
		return 0.7
	case model.ConditionOlderThan, model.ConditionModifiedOlderThan, model.ConditionAccessedOlderThan:
		return 0.7
	case model.ConditionLargerThan:
		return 0.7
	case model.ConditionKindEquals:
		return 0.6
	case model.ConditionFromLocation:
		return 0.8
	case model.ConditionNegated:
		if c.Inner != nil {
			return confidenceForCondition(*c.Inner)
		}
		return 0.5
	default:
		return 0.5
	}
}
