package sheets

import (
	"strings"

	"github.com/quietfile/declutter/internal/model"
	"github.com/quietfile/declutter/internal/service"
)

// Summarize aggregates an activity snapshot into the report summary block.
func Summarize(activities []model.ActivityRecord) *service.ReportSummary {
	summary := &service.ReportSummary{
		ByDestination: make(map[string]int),
		ByExtension:   make(map[string]int),
	}

	for _, a := range activities {
		if summary.DateRange.Start.IsZero() || a.Timestamp.Before(summary.DateRange.Start) {
			summary.DateRange.Start = a.Timestamp
		}
		if a.Timestamp.After(summary.DateRange.End) {
			summary.DateRange.End = a.Timestamp
		}

		if a.Type == model.ActivitySkipped {
			summary.SkippedCount++
			continue
		}
		summary.TotalActions++

		if ext := strings.ToLower(a.FileExtension); ext != "" {
			summary.ByExtension[ext]++
		}
		if dest, ok := destinationFromActivityDetails(a.Details); ok {
			summary.ByDestination[dest]++
		}
	}
	return summary
}

// destinationFromActivityDetails mirrors the learner's marker parsing for
// report aggregation.
func destinationFromActivityDetails(details string) (string, bool) {
	for _, marker := range []string{"Moved to ", "Organized into ", "Copied to ", "Filed under "} {
		if idx := strings.Index(details, marker); idx >= 0 {
			dest := strings.TrimSpace(details[idx+len(marker):])
			if dest != "" {
				return dest, true
			}
		}
	}
	return "", false
}
