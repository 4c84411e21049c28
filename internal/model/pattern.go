package model

import "time"

// TimeCategory buckets activity timestamps into coarse windows of the week.
type TimeCategory string

// Time category constants.
const (
	TimeWorkHours TimeCategory = "work_hours"
	TimeMornings  TimeCategory = "mornings"
	TimeEvenings  TimeCategory = "evenings"
	TimeWeekends  TimeCategory = "weekends"
)

// LearnedPattern is a candidate decision rule mined from the activity log.
// Positive patterns suggest a destination for files matching the conditions;
// negative patterns suppress suggestions the user has repeatedly rejected.
//
// Patterns are value types: RecordOccurrence and AsNegative return modified
// copies rather than mutating in place, so patterns can be shared across
// concurrent readers safely.
type LearnedPattern struct {
	LastSeen         time.Time      `json:"last_seen"`
	ID               string         `json:"id"`
	Description      string         `json:"description"`
	FileExtension    string         `json:"file_extension"`
	DestinationPath  string         `json:"destination_path"`
	Combinator       Combinator     `json:"combinator"`
	TimeCategory     TimeCategory   `json:"time_category,omitempty"`
	Conditions       []Condition    `json:"conditions"`
	TemporalContexts []TimeCategory `json:"temporal_contexts,omitempty"`
	Keywords         []string       `json:"keywords,omitempty"`
	OccurrenceCount  int            `json:"occurrence_count"`
	RejectionCount   int            `json:"rejection_count"`
	Confidence       float64        `json:"confidence"`
	IsNegative       bool           `json:"is_negative"`
}

// RecordOccurrence returns a copy with one more occurrence at the given time.
func (p LearnedPattern) RecordOccurrence(at time.Time) LearnedPattern {
	p.OccurrenceCount++
	if at.After(p.LastSeen) {
		p.LastSeen = at
	}
	return p
}

// RecordRejection returns a copy with one more rejection.
func (p LearnedPattern) RecordRejection() LearnedPattern {
	p.RejectionCount++
	return p
}

// AsNegative returns a copy converted into a suppression signal.
func (p LearnedPattern) AsNegative() LearnedPattern {
	p.IsNegative = true
	return p
}

// MatchesFile reports whether every one of the pattern's conditions holds for
// the file. Patterns with no conditions never match.
func (p LearnedPattern) MatchesFile(f File, now time.Time) bool {
	if len(p.Conditions) == 0 {
		return false
	}
	for _, c := range p.Conditions {
		if !c.Matches(f, now) {
			return false
		}
	}
	return true
}
