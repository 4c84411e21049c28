package model

import "time"

// ActivityType categorizes an entry in the activity log.
type ActivityType string

// Activity type constants.
const (
	ActivityOrganized   ActivityType = "organized"
	ActivityMoved       ActivityType = "moved"
	ActivityCopied      ActivityType = "copied"
	ActivitySkipped     ActivityType = "skipped"
	ActivityDeleted     ActivityType = "deleted"
	ActivityRuleApplied ActivityType = "rule_applied"
	ActivityRuleCreated ActivityType = "rule_created"
	ActivityRuleDeleted ActivityType = "rule_deleted"
)

// ActivityRecord is one append-only entry in the activity log. Details is a
// free-text sentence that encodes the destination ("Moved to X", "Skipped
// suggestion for Y"); the pattern learner parses it back out.
type ActivityRecord struct {
	Timestamp     time.Time    `json:"timestamp"`
	Type          ActivityType `json:"type"`
	FileName      string       `json:"file_name"`
	FileExtension string       `json:"file_extension,omitempty"`
	Details       string       `json:"details"`
	ID            int64        `json:"id"`
}
