package learner

import (
	"fmt"

	"github.com/quietfile/declutter/internal/model"
)

// tokenKind distinguishes the two name-based signals a multi-condition
// pattern can carry.
type tokenKind string

const (
	tokenPrefix  tokenKind = "prefix"
	tokenKeyword tokenKind = "keyword"
)

// multiConditionPatterns finds (extension, name signal) combinations that
// consistently land in one destination. These carry two conditions joined by
// AND and earn a specificity boost over plain extension patterns.
func (l *Learner) multiConditionPatterns(activities []model.ActivityRecord) []model.LearnedPattern {
	byExt := groupOrganizeByExtension(activities)

	var patterns []model.LearnedPattern
	for _, ext := range sortedKeys(byExt) {
		group := byExt[ext]
		total := len(group)

		// Key: kind|token|destination.
		combos := make(map[string][]model.ActivityRecord)
		kinds := make(map[string]tokenKind)
		tokens := make(map[string]string)
		dests := make(map[string]string)

		record := func(kind tokenKind, token, dest string, a model.ActivityRecord) {
			key := fmt.Sprintf("%s|%s|%s", kind, token, dest)
			combos[key] = append(combos[key], a)
			kinds[key] = kind
			tokens[key] = token
			dests[key] = dest
		}

		for _, a := range group {
			dest, ok := destinationFromDetails(a.Details)
			if !ok {
				continue
			}
			if prefix, found := matchingPrefix(a.FileName); found {
				record(tokenPrefix, prefix, dest, a)
			}
			for _, keyword := range matchingKeywords(a.FileName) {
				record(tokenKeyword, keyword, dest, a)
			}
		}

		for _, key := range sortedKeys(combos) {
			occurrences := combos[key]
			if len(occurrences) < l.cfg.MinOccurrences {
				continue
			}

			kind := kinds[key]
			token := tokens[key]
			dest := dests[key]

			base := float64(len(occurrences)) / float64(total)
			var nameCondition model.Condition
			var confidence float64
			var description string
			var keywords []string

			switch kind {
			case tokenPrefix:
				nameCondition = model.NameStartsWith(token)
				confidence = capConfidence(base * l.cfg.PrefixBoost)
				description = fmt.Sprintf(".%s files starting with %q go to %s", ext, token, dest)
			case tokenKeyword:
				nameCondition = model.NameContains(token)
				confidence = capConfidence(base * l.cfg.KeywordBoost)
				description = fmt.Sprintf(".%s files mentioning %q go to %s", ext, token, dest)
				keywords = []string{token}
			}

			patterns = append(patterns, model.LearnedPattern{
				ID:              patternID("multi", ext, string(kind), token, dest),
				Description:     description,
				FileExtension:   ext,
				DestinationPath: dest,
				Conditions:      []model.Condition{model.ExtensionEquals(ext), nameCondition},
				Combinator:      model.CombinatorAnd,
				Keywords:        keywords,
				OccurrenceCount: len(occurrences),
				Confidence:      confidence,
				LastSeen:        latestTimestamp(occurrences),
			})
		}
	}
	return patterns
}
