package learner

import (
	"fmt"
	"time"

	"github.com/quietfile/declutter/internal/model"
)

// TimeCategoryOf buckets a timestamp into one of the four coarse windows.
// Weekends take precedence over hour-of-day.
func TimeCategoryOf(t time.Time) model.TimeCategory {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return model.TimeWeekends
	}
	hour := t.Hour()
	switch {
	case hour >= 9 && hour < 17:
		return model.TimeWorkHours
	case hour < 9:
		return model.TimeMornings
	default:
		return model.TimeEvenings
	}
}

func describeTimeCategory(tc model.TimeCategory) string {
	switch tc {
	case model.TimeWorkHours:
		return "during work hours"
	case model.TimeMornings:
		return "in the morning"
	case model.TimeEvenings:
		return "in the evening"
	case model.TimeWeekends:
		return "on weekends"
	default:
		return string(tc)
	}
}

// temporalPatterns finds (extension, destination) pairs that are markedly
// more common inside one time bucket than across the whole log. The window
// is recorded on the pattern as its time category and temporal contexts; the
// extension condition is what downstream matching evaluates.
func (l *Learner) temporalPatterns(activities []model.ActivityRecord) []model.LearnedPattern {
	byExt := groupOrganizeByExtension(activities)

	// Overall (extension, destination) ratios across the whole log.
	overallPair := make(map[string]int)
	overallTotal := make(map[string]int)
	for _, ext := range sortedKeys(byExt) {
		for _, a := range byExt[ext] {
			overallTotal[ext]++
			if dest, ok := destinationFromDetails(a.Details); ok {
				overallPair[ext+"|"+dest]++
			}
		}
	}

	buckets := []model.TimeCategory{
		model.TimeWorkHours,
		model.TimeMornings,
		model.TimeEvenings,
		model.TimeWeekends,
	}

	var patterns []model.LearnedPattern
	for _, bucket := range buckets {
		for _, ext := range sortedKeys(byExt) {
			var inBucket []model.ActivityRecord
			for _, a := range byExt[ext] {
				if TimeCategoryOf(a.Timestamp) == bucket {
					inBucket = append(inBucket, a)
				}
			}
			if len(inBucket) == 0 {
				continue
			}

			byDest := make(map[string][]model.ActivityRecord)
			for _, a := range inBucket {
				if dest, ok := destinationFromDetails(a.Details); ok {
					byDest[dest] = append(byDest[dest], a)
				}
			}

			for _, dest := range sortedKeys(byDest) {
				occurrences := byDest[dest]
				if len(occurrences) < l.cfg.MinOccurrences {
					continue
				}

				inRatio := float64(len(occurrences)) / float64(len(inBucket))
				overallRatio := float64(overallPair[ext+"|"+dest]) / float64(overallTotal[ext])
				if inRatio <= l.cfg.TemporalRatio*overallRatio {
					continue
				}

				patterns = append(patterns, model.LearnedPattern{
					ID:              patternID("temporal", ext, dest, string(bucket)),
					Description:     fmt.Sprintf(".%s files go to %s %s", ext, dest, describeTimeCategory(bucket)),
					FileExtension:   ext,
					DestinationPath: dest,
					Conditions:      []model.Condition{model.ExtensionEquals(ext)},
					Combinator:      model.CombinatorSingle,
					TimeCategory:    bucket,
					TemporalContexts: []model.TimeCategory{
						bucket,
					},
					OccurrenceCount: len(occurrences),
					Confidence:      capConfidence(inRatio),
					LastSeen:        latestTimestamp(occurrences),
				})
			}
		}
	}
	return patterns
}
