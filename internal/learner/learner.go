// Package learner mines the activity log for repeated (file attribute,
// destination) correlations and turns them into candidate decision rules.
package learner

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/quietfile/declutter/internal/model"
)

// Config holds the induction thresholds. The defaults mirror long-observed
// behavior; override individual fields via configuration rather than editing
// call sites.
type Config struct {
	// MinOccurrences is how many times an (extension, destination) pair
	// must repeat before a positive pattern is induced.
	MinOccurrences int
	// MinRejections is how many skips of the same suggestion produce a
	// negative pattern.
	MinRejections int
	// MaxPatternRejections disables a pattern for downstream matching once
	// the user has rejected it this many times.
	MaxPatternRejections int
	// TemporalRatio is how much an in-bucket ratio must exceed the overall
	// ratio before a temporal pattern is worth keeping.
	TemporalRatio float64
	// PrefixBoost and KeywordBoost scale the confidence of multi-condition
	// patterns; results are capped at 1.0.
	PrefixBoost  float64
	KeywordBoost float64
	// NegativeDivisor and NegativeCap shape negative-pattern confidence:
	// min(NegativeCap, rejections/NegativeDivisor).
	NegativeDivisor float64
	NegativeCap     float64
	// MinNegativeConfidence is the floor above which a negative pattern
	// suppresses positive suggestions.
	MinNegativeConfidence float64
	// SuggestionFloor is the minimum confidence at which a learned pattern
	// may stand in for a rule when classification finds no match.
	SuggestionFloor float64
}

// DefaultConfig returns the standard induction thresholds.
func DefaultConfig() Config {
	return Config{
		MinOccurrences:        3,
		MinRejections:         2,
		MaxPatternRejections:  3,
		TemporalRatio:         1.3,
		PrefixBoost:           1.15,
		KeywordBoost:          1.10,
		NegativeDivisor:       5,
		NegativeCap:           0.9,
		MinNegativeConfidence: 0.4,
		SuggestionFloor:       0.7,
	}
}

// Learner induces patterns from activity history. It holds no mutable state
// and is safe for concurrent use.
type Learner struct {
	cfg Config
}

// New creates a learner with the given thresholds.
func New(cfg Config) *Learner {
	return &Learner{cfg: cfg}
}

// InducePatterns mines the activity snapshot for candidate patterns. The
// result is deterministic: the same input always yields the same patterns in
// the same order with the same confidence values.
func (l *Learner) InducePatterns(activities []model.ActivityRecord) []model.LearnedPattern {
	var candidates []model.LearnedPattern
	candidates = append(candidates, l.simplePatterns(activities)...)
	candidates = append(candidates, l.multiConditionPatterns(activities)...)
	candidates = append(candidates, l.temporalPatterns(activities)...)
	candidates = append(candidates, l.negativePatterns(activities)...)
	return l.dedupe(candidates)
}

// simplePatterns finds extensions that repeatedly land in one destination.
func (l *Learner) simplePatterns(activities []model.ActivityRecord) []model.LearnedPattern {
	byExt := groupOrganizeByExtension(activities)

	var patterns []model.LearnedPattern
	for _, ext := range sortedKeys(byExt) {
		group := byExt[ext]
		total := len(group)

		byDest := make(map[string][]model.ActivityRecord)
		for _, a := range group {
			if dest, ok := destinationFromDetails(a.Details); ok {
				byDest[dest] = append(byDest[dest], a)
			}
		}

		for _, dest := range sortedKeys(byDest) {
			occurrences := byDest[dest]
			if len(occurrences) < l.cfg.MinOccurrences {
				continue
			}
			patterns = append(patterns, model.LearnedPattern{
				ID:              patternID("simple", ext, dest),
				Description:     fmt.Sprintf(".%s files go to %s", ext, dest),
				FileExtension:   ext,
				DestinationPath: dest,
				Conditions:      []model.Condition{model.ExtensionEquals(ext)},
				Combinator:      model.CombinatorSingle,
				OccurrenceCount: len(occurrences),
				Confidence:      float64(len(occurrences)) / float64(total),
				LastSeen:        latestTimestamp(occurrences),
			})
		}
	}
	return patterns
}

// groupOrganizeByExtension filters to organize/move activities and groups
// them by lowercase extension. Activities without an extension are ignored.
func groupOrganizeByExtension(activities []model.ActivityRecord) map[string][]model.ActivityRecord {
	byExt := make(map[string][]model.ActivityRecord)
	for _, a := range activities {
		if a.Type != model.ActivityOrganized && a.Type != model.ActivityMoved {
			continue
		}
		ext := strings.ToLower(a.FileExtension)
		if ext == "" {
			continue
		}
		byExt[ext] = append(byExt[ext], a)
	}
	return byExt
}

func latestTimestamp(activities []model.ActivityRecord) time.Time {
	var latest time.Time
	for _, a := range activities {
		if a.Timestamp.After(latest) {
			latest = a.Timestamp
		}
	}
	return latest
}

// patternID derives a stable identifier from the pattern's identity parts so
// induction output is reproducible.
func patternID(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:16]
}

// sortedKeys returns map keys in ascending order for deterministic iteration.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func capConfidence(c float64) float64 {
	if c > 1.0 {
		return 1.0
	}
	return c
}
