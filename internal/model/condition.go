// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
	"time"
)

// ConditionKind discriminates the closed set of condition variants.
type ConditionKind string

// Condition kind constants.
const (
	ConditionExtensionEquals   ConditionKind = "extension_equals"
	ConditionNameStartsWith    ConditionKind = "name_starts_with"
	ConditionNameContains      ConditionKind = "name_contains"
	ConditionNameEndsWith      ConditionKind = "name_ends_with"
	ConditionOlderThan         ConditionKind = "older_than"
	ConditionModifiedOlderThan ConditionKind = "modified_older_than"
	ConditionAccessedOlderThan ConditionKind = "accessed_older_than"
	ConditionLargerThan        ConditionKind = "larger_than"
	ConditionKindEquals        ConditionKind = "kind_equals"
	ConditionFromLocation      ConditionKind = "from_location"
	ConditionNegated           ConditionKind = "negated"
)

// LocationKind identifies where on disk a file was discovered.
type LocationKind string

// Location kind constants.
const (
	LocationDownloads LocationKind = "downloads"
	LocationDesktop   LocationKind = "desktop"
	LocationDocuments LocationKind = "documents"
	LocationExternal  LocationKind = "external"
	LocationOther     LocationKind = "other"
)

// Condition is one atomic, evaluable test against a file's attributes.
// It is a closed tagged union: exactly the fields relevant to Kind are set,
// and every consumer switches exhaustively on Kind. Use the constructor
// functions rather than building literals by hand.
type Condition struct {
	Inner           *Condition    `json:"inner,omitempty"`
	Kind            ConditionKind `json:"kind"`
	Value           string        `json:"value,omitempty"`
	ExtensionFilter string        `json:"extension_filter,omitempty"`
	Location        LocationKind  `json:"location,omitempty"`
	Days            int           `json:"days,omitempty"`
	Bytes           int64         `json:"bytes,omitempty"`
}

// ExtensionEquals matches files whose extension equals ext (case-insensitive).
func ExtensionEquals(ext string) Condition {
	return Condition{Kind: ConditionExtensionEquals, Value: ext}
}

// NameStartsWith matches files whose name starts with prefix (case-insensitive).
func NameStartsWith(prefix string) Condition {
	return Condition{Kind: ConditionNameStartsWith, Value: prefix}
}

// NameContains matches files whose name contains substr (case-insensitive).
func NameContains(substr string) Condition {
	return Condition{Kind: ConditionNameContains, Value: substr}
}

// NameEndsWith matches files whose name ends with suffix (case-insensitive).
func NameEndsWith(suffix string) Condition {
	return Condition{Kind: ConditionNameEndsWith, Value: suffix}
}

// OlderThan matches files created more than days ago. An optional extension
// filter restricts the condition to files with that extension.
func OlderThan(days int, extensionFilter string) Condition {
	return Condition{Kind: ConditionOlderThan, Days: days, ExtensionFilter: extensionFilter}
}

// ModifiedOlderThan matches files last modified more than days ago.
func ModifiedOlderThan(days int) Condition {
	return Condition{Kind: ConditionModifiedOlderThan, Days: days}
}

// AccessedOlderThan matches files last accessed more than days ago.
func AccessedOlderThan(days int) Condition {
	return Condition{Kind: ConditionAccessedOlderThan, Days: days}
}

// LargerThan matches files strictly larger than bytes.
func LargerThan(bytes int64) Condition {
	return Condition{Kind: ConditionLargerThan, Bytes: bytes}
}

// KindEquals matches files whose extension maps to the given semantic kind
// (image, audio, video, document, spreadsheet, presentation, archive, code).
func KindEquals(kind string) Condition {
	return Condition{Kind: ConditionKindEquals, Value: kind}
}

// FromLocation matches files discovered in the given source location.
func FromLocation(location LocationKind) Condition {
	return Condition{Kind: ConditionFromLocation, Location: location}
}

// Not logically inverts a condition. Nesting is allowed to arbitrary depth.
func Not(c Condition) Condition {
	return Condition{Kind: ConditionNegated, Inner: &c}
}

// Matches evaluates the condition against a file at the given reference time.
// Evaluation is fail-closed: malformed conditions (non-positive day counts,
// missing inner condition, unknown kinds) evaluate to false, never error.
func (c Condition) Matches(f File, now time.Time) bool {
	switch c.Kind {
	case ConditionExtensionEquals:
		return strings.EqualFold(f.Extension, c.Value)
	case ConditionNameStartsWith:
		return strings.HasPrefix(strings.ToLower(f.Name), strings.ToLower(c.Value))
	case ConditionNameContains:
		return strings.Contains(strings.ToLower(f.Name), strings.ToLower(c.Value))
	case ConditionNameEndsWith:
		return strings.HasSuffix(strings.ToLower(f.Name), strings.ToLower(c.Value))
	case ConditionOlderThan:
		if c.ExtensionFilter != "" && !strings.EqualFold(f.Extension, c.ExtensionFilter) {
			return false
		}
		return beforeThreshold(f.CreatedAt, c.Days, now)
	case ConditionModifiedOlderThan:
		return beforeThreshold(f.ModifiedAt, c.Days, now)
	case ConditionAccessedOlderThan:
		return beforeThreshold(f.AccessedAt, c.Days, now)
	case ConditionLargerThan:
		return f.SizeBytes > c.Bytes
	case ConditionKindEquals:
		kind, ok := KindForExtension(f.Extension)
		return ok && kind == strings.ToLower(c.Value)
	case ConditionFromLocation:
		return f.SourceLocation == c.Location
	case ConditionNegated:
		if c.Inner == nil {
			return false
		}
		return !c.Inner.Matches(f, now)
	default:
		return false
	}
}

// beforeThreshold reports whether t is strictly earlier than now minus days.
// Non-positive day counts fail closed.
func beforeThreshold(t time.Time, days int, now time.Time) bool {
	if days <= 0 {
		return false
	}
	threshold := now.AddDate(0, 0, -days)
	return t.Before(threshold)
}

// Describe renders the condition as a short human-readable phrase, used to
// build match reasons and overlap warnings.
func (c Condition) Describe() string {
	switch c.Kind {
	case ConditionExtensionEquals:
		return fmt.Sprintf("extension is .%s", strings.ToLower(c.Value))
	case ConditionNameStartsWith:
		return fmt.Sprintf("name starts with %q", c.Value)
	case ConditionNameContains:
		return fmt.Sprintf("name contains %q", c.Value)
	case ConditionNameEndsWith:
		return fmt.Sprintf("name ends with %q", c.Value)
	case ConditionOlderThan:
		if c.ExtensionFilter != "" {
			return fmt.Sprintf(".%s files older than %d days", strings.ToLower(c.ExtensionFilter), c.Days)
		}
		return fmt.Sprintf("older than %d days", c.Days)
	case ConditionModifiedOlderThan:
		return fmt.Sprintf("not modified in %d days", c.Days)
	case ConditionAccessedOlderThan:
		return fmt.Sprintf("not accessed in %d days", c.Days)
	case ConditionLargerThan:
		return fmt.Sprintf("larger than %s", formatBytes(c.Bytes))
	case ConditionKindEquals:
		return fmt.Sprintf("file kind is %s", strings.ToLower(c.Value))
	case ConditionFromLocation:
		return fmt.Sprintf("located in %s", c.Location)
	case ConditionNegated:
		if c.Inner == nil {
			return "never matches"
		}
		return "not (" + c.Inner.Describe() + ")"
	default:
		return string(c.Kind)
	}
}

// Equal reports whether two conditions are the same variant with the same
// operands. Text operands compare case-insensitively, matching evaluation.
func (c Condition) Equal(other Condition) bool {
	if c.Kind != other.Kind {
		return false
	}
	switch c.Kind {
	case ConditionNegated:
		if c.Inner == nil || other.Inner == nil {
			return c.Inner == other.Inner
		}
		return c.Inner.Equal(*other.Inner)
	case ConditionOlderThan:
		return c.Days == other.Days && strings.EqualFold(c.ExtensionFilter, other.ExtensionFilter)
	case ConditionModifiedOlderThan, ConditionAccessedOlderThan:
		return c.Days == other.Days
	case ConditionLargerThan:
		return c.Bytes == other.Bytes
	case ConditionFromLocation:
		return c.Location == other.Location
	default:
		return strings.EqualFold(c.Value, other.Value)
	}
}

// Key returns a stable canonical string for the condition, used for
// order-independent set comparison and deduplication.
func (c Condition) Key() string {
	switch c.Kind {
	case ConditionNegated:
		if c.Inner == nil {
			return "negated()"
		}
		return "negated(" + c.Inner.Key() + ")"
	case ConditionOlderThan:
		return fmt.Sprintf("%s:%d:%s", c.Kind, c.Days, strings.ToLower(c.ExtensionFilter))
	case ConditionModifiedOlderThan, ConditionAccessedOlderThan:
		return fmt.Sprintf("%s:%d", c.Kind, c.Days)
	case ConditionLargerThan:
		return fmt.Sprintf("%s:%d", c.Kind, c.Bytes)
	case ConditionFromLocation:
		return fmt.Sprintf("%s:%s", c.Kind, c.Location)
	default:
		return fmt.Sprintf("%s:%s", c.Kind, strings.ToLower(c.Value))
	}
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
