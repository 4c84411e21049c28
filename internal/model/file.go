package model

import "time"

// FileStatus indicates where a file is in the organization pipeline.
type FileStatus string

// File status constants.
const (
	StatusPending   FileStatus = "pending"
	StatusReady     FileStatus = "ready"
	StatusCompleted FileStatus = "completed"
	StatusSkipped   FileStatus = "skipped"
)

// File is a classification subject produced by the scanner. The scanner owns
// the metadata fields; the decision fields (Destination, Status, MatchReason,
// Confidence, MatchedRuleID) are owned exclusively by the classification
// engine and are either all populated or all cleared.
type File struct {
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
	AccessedAt time.Time `json:"accessed_at"`

	Destination *Destination `json:"destination,omitempty"`

	Name           string       `json:"name"`
	Path           string       `json:"path"`
	Extension      string       `json:"extension"`
	SourceLocation LocationKind `json:"source_location"`

	Status              FileStatus `json:"status"`
	MatchReason         string     `json:"match_reason,omitempty"`
	MatchedRuleID       string     `json:"matched_rule_id,omitempty"`
	RejectedDestination string     `json:"rejected_destination,omitempty"`

	SizeBytes      int64   `json:"size_bytes"`
	Confidence     float64 `json:"confidence,omitempty"`
	RejectionCount int     `json:"rejection_count,omitempty"`
}

// ClearDecision resets every engine-owned field, leaving the file pending.
func (f *File) ClearDecision() {
	f.Destination = nil
	f.Status = StatusPending
	f.MatchReason = ""
	f.MatchedRuleID = ""
	f.Confidence = 0
}
