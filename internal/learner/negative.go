package learner

import (
	"fmt"
	"math"
	"strings"

	"github.com/quietfile/declutter/internal/model"
)

// negativePatterns finds suggestions the user keeps skipping. Repeated
// rejections of the same (extension, destination) pair become a suppression
// signal whose confidence grows with the rejection count.
func (l *Learner) negativePatterns(activities []model.ActivityRecord) []model.LearnedPattern {
	rejections := make(map[string][]model.ActivityRecord)
	exts := make(map[string]string)
	dests := make(map[string]string)

	for _, a := range activities {
		if a.Type != model.ActivitySkipped {
			continue
		}
		ext := strings.ToLower(a.FileExtension)
		if ext == "" {
			continue
		}
		dest, ok := rejectedDestinationFromDetails(a.Details)
		if !ok {
			continue
		}
		key := ext + "|" + dest
		rejections[key] = append(rejections[key], a)
		exts[key] = ext
		dests[key] = dest
	}

	var patterns []model.LearnedPattern
	for _, key := range sortedKeys(rejections) {
		occurrences := rejections[key]
		if len(occurrences) < l.cfg.MinRejections {
			continue
		}
		ext := exts[key]
		dest := dests[key]
		confidence := math.Min(l.cfg.NegativeCap, float64(len(occurrences))/l.cfg.NegativeDivisor)

		patterns = append(patterns, model.LearnedPattern{
			ID:              patternID("negative", ext, dest),
			Description:     fmt.Sprintf("don't suggest %s for .%s files", dest, ext),
			FileExtension:   ext,
			DestinationPath: dest,
			Conditions:      []model.Condition{model.ExtensionEquals(ext)},
			Combinator:      model.CombinatorSingle,
			OccurrenceCount: len(occurrences),
			RejectionCount:  len(occurrences),
			Confidence:      confidence,
			LastSeen:        latestTimestamp(occurrences),
			IsNegative:      true,
		})
	}
	return patterns
}
