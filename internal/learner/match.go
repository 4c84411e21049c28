package learner

import (
	"sort"
	"strings"
	"time"

	"github.com/quietfile/declutter/internal/model"
)

// MatchPattern finds the most confident positive pattern whose conditions
// all hold for the file. Negative patterns and patterns the user has
// rejected too often are skipped. Returns nil when nothing matches.
func (l *Learner) MatchPattern(patterns []model.LearnedPattern, f model.File, now time.Time) *model.LearnedPattern {
	sorted := make([]model.LearnedPattern, len(patterns))
	copy(sorted, patterns)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Confidence != sorted[j].Confidence {
			return sorted[i].Confidence > sorted[j].Confidence
		}
		return fullKey(sorted[i]) < fullKey(sorted[j])
	})

	for i := range sorted {
		p := sorted[i]
		if p.IsNegative {
			continue
		}
		if p.RejectionCount >= l.cfg.MaxPatternRejections {
			continue
		}
		if p.MatchesFile(f, now) {
			return &sorted[i]
		}
	}
	return nil
}

// FilterSuggestions removes candidates the user has signaled they don't
// want: first any candidate whose (extension, destination) pair is covered
// by a sufficiently confident negative pattern, then any candidate whose
// destination has been individually rejected by more than half of the files
// sharing its extension.
func (l *Learner) FilterSuggestions(candidates, negatives []model.LearnedPattern, files []model.File) []model.LearnedPattern {
	suppressed := make(map[string]bool)
	for _, n := range negatives {
		if !n.IsNegative {
			continue
		}
		if n.Confidence < l.cfg.MinNegativeConfidence {
			continue
		}
		suppressed[pairKey(n)] = true
	}

	var kept []model.LearnedPattern
	for _, c := range candidates {
		if c.IsNegative {
			continue
		}
		if suppressed[pairKey(c)] {
			continue
		}
		if l.rejectedByMajority(c, files) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// rejectedByMajority reports whether more than half of the files with the
// candidate's extension have rejected its destination at least MinRejections
// times.
func (l *Learner) rejectedByMajority(candidate model.LearnedPattern, files []model.File) bool {
	var total, rejected int
	for _, f := range files {
		if !strings.EqualFold(f.Extension, candidate.FileExtension) {
			continue
		}
		total++
		if f.RejectedDestination == candidate.DestinationPath && f.RejectionCount >= l.cfg.MinRejections {
			rejected++
		}
	}
	return total > 0 && rejected*2 > total
}
