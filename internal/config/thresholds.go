package config

import (
	"github.com/spf13/viper"

	"github.com/quietfile/declutter/internal/learner"
)

// LearnerConfig builds the pattern-induction thresholds from configuration,
// starting from the defaults and overriding any `learner.*` key the user has
// set. Keys mirror the learner.Config field names.
func LearnerConfig() learner.Config {
	cfg := learner.DefaultConfig()

	setInt := func(key string, target *int) {
		if viper.IsSet(key) {
			*target = viper.GetInt(key)
		}
	}
	setFloat := func(key string, target *float64) {
		if viper.IsSet(key) {
			*target = viper.GetFloat64(key)
		}
	}

	setInt("learner.min_occurrences", &cfg.MinOccurrences)
	setInt("learner.min_rejections", &cfg.MinRejections)
	setInt("learner.max_pattern_rejections", &cfg.MaxPatternRejections)
	setFloat("learner.temporal_ratio", &cfg.TemporalRatio)
	setFloat("learner.prefix_boost", &cfg.PrefixBoost)
	setFloat("learner.keyword_boost", &cfg.KeywordBoost)
	setFloat("learner.negative_divisor", &cfg.NegativeDivisor)
	setFloat("learner.negative_cap", &cfg.NegativeCap)
	setFloat("learner.min_negative_confidence", &cfg.MinNegativeConfidence)
	setFloat("learner.suggestion_floor", &cfg.SuggestionFloor)

	return cfg
}
