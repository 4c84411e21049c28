package learner

import "github.com/quietfile/declutter/internal/model"

// ConvertToRule turns a learned pattern into a move rule the classification
// engine can consume. Conditions and combinator are copied verbatim; the
// destination starts as an unresolved placeholder built from the pattern's
// destination path. The rule is disabled unless the caller opts in, and
// carries no ID or timestamps; persistence assigns those. Conversion is
// deterministic: the same pattern always yields the same rule.
func ConvertToRule(p model.LearnedPattern, enabled bool) model.Rule {
	conditions := make([]model.Condition, len(p.Conditions))
	copy(conditions, p.Conditions)

	dest := model.UnresolvedFolder(p.DestinationPath)
	return model.Rule{
		Name:        p.Description,
		Conditions:  conditions,
		Combinator:  p.Combinator,
		Action:      model.ActionMove,
		Destination: &dest,
		IsEnabled:   enabled,
	}
}
