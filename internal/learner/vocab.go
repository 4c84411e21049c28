package learner

import "strings"

// destinationMarkers are tried in order against an activity's details text to
// recover the destination of a past organize action.
var destinationMarkers = []string{
	"Moved to ",
	"Organized into ",
	"Copied to ",
	"Filed under ",
}

// rejectionMarkers recover the rejected destination from a skip activity.
var rejectionMarkers = []string{
	"Skipped suggestion for ",
	"Dismissed suggestion for ",
	"Rejected suggestion for ",
}

// significantPrefixes are file-name prefixes common enough to carry meaning
// on their own (camera rolls, screenshots, scanned paperwork).
var significantPrefixes = []string{
	"IMG",
	"DSC",
	"Screenshot",
	"Screen Shot",
	"Scan",
	"Invoice",
	"Receipt",
	"Report",
	"Recording",
}

// purposeKeywords are substrings of a file name that hint at what the file
// is for, independent of its position in the name.
var purposeKeywords = []string{
	"invoice",
	"receipt",
	"report",
	"budget",
	"statement",
	"contract",
	"resume",
	"presentation",
	"screenshot",
	"backup",
	"draft",
	"tax",
}

// destinationFromDetails extracts a destination path from free-text details,
// trying each marker phrase in order. Unparsable text yields no destination
// rather than an error.
func destinationFromDetails(details string) (string, bool) {
	return extractAfterMarker(details, destinationMarkers)
}

// rejectedDestinationFromDetails extracts the destination the user declined.
func rejectedDestinationFromDetails(details string) (string, bool) {
	return extractAfterMarker(details, rejectionMarkers)
}

func extractAfterMarker(details string, markers []string) (string, bool) {
	for _, marker := range markers {
		idx := strings.Index(details, marker)
		if idx < 0 {
			continue
		}
		dest := strings.TrimSpace(details[idx+len(marker):])
		if dest == "" {
			return "", false
		}
		return dest, true
	}
	return "", false
}

// matchingPrefix returns the first significant prefix the file name starts
// with, case-insensitively.
func matchingPrefix(fileName string) (string, bool) {
	lower := strings.ToLower(fileName)
	for _, p := range significantPrefixes {
		if strings.HasPrefix(lower, strings.ToLower(p)) {
			return p, true
		}
	}
	return "", false
}

// matchingKeywords returns every purpose keyword contained in the file name,
// case-insensitively, in vocabulary order.
func matchingKeywords(fileName string) []string {
	lower := strings.ToLower(fileName)
	var found []string
	for _, k := range purposeKeywords {
		if strings.Contains(lower, k) {
			found = append(found, k)
		}
	}
	return found
}
