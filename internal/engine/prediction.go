package engine

import "github.com/quietfile/declutter/internal/model"

// Prediction is the output of an optional external predictor, shaped like a
// rule-engine match so callers can merge the two sources uniformly. The
// engine never invokes the predictor itself.
type Prediction struct {
	Destination model.Destination
	Explanation string
	Confidence  float64
}

// MergePrediction folds an external prediction into a classified file. A rule
// match always wins; otherwise the prediction is adopted when its confidence
// meets the floor. The result keeps the engine's all-or-nothing contract for
// decision fields.
func MergePrediction(f model.File, p *Prediction, minConfidence float64) model.File {
	if f.Status == model.StatusReady || p == nil {
		return f
	}
	if p.Confidence < minConfidence {
		return f
	}
	dest := p.Destination
	f.Destination = &dest
	f.Status = model.StatusReady
	f.MatchReason = p.Explanation
	f.Confidence = p.Confidence
	f.MatchedRuleID = ""
	return f
}
