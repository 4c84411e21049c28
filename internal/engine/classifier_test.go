package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietfile/declutter/internal/model"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() Option {
	return WithClock(func() time.Time { return testNow })
}

// countingResolver records how many times each display path is resolved and
// can be told to fail for specific paths.
type countingResolver struct {
	calls map[string]int
	fail  map[string]bool
}

func newCountingResolver() *countingResolver {
	return &countingResolver{calls: make(map[string]int), fail: make(map[string]bool)}
}

func (r *countingResolver) Resolve(displayPath string) (string, error) {
	r.calls[displayPath]++
	if r.fail[displayPath] {
		return "", fmt.Errorf("no access to %s", displayPath)
	}
	return "token:" + displayPath, nil
}

func moveRule(name, ext, dest string, sortOrder int) model.Rule {
	d := model.UnresolvedFolder(dest)
	return model.Rule{
		ID:          "rule-" + name,
		Name:        name,
		Conditions:  []model.Condition{model.ExtensionEquals(ext)},
		Combinator:  model.CombinatorSingle,
		Action:      model.ActionMove,
		Destination: &d,
		SortOrder:   sortOrder,
		IsEnabled:   true,
	}
}

func pdfFile() model.File {
	return model.File{
		Name:       "report.pdf",
		Path:       "/home/u/Downloads/report.pdf",
		Extension:  "pdf",
		CreatedAt:  testNow.AddDate(0, 0, -5),
		ModifiedAt: testNow.AddDate(0, 0, -5),
		AccessedAt: testNow.AddDate(0, 0, -5),
		Status:     model.StatusPending,
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	resolver := newCountingResolver()
	c := New(resolver, nil, fixedClock())

	rules := []model.Rule{
		moveRule("second", "pdf", "Documents/Archive", 2),
		moveRule("first", "pdf", "Documents/Reports", 1),
	}

	got := c.Classify(pdfFile(), rules)

	require.Equal(t, model.StatusReady, got.Status)
	require.NotNil(t, got.Destination)
	assert.Equal(t, "rule-first", got.MatchedRuleID)
	assert.Equal(t, "Documents/Reports", got.Destination.DisplayPath)
	assert.Equal(t, "token:Documents/Reports", got.Destination.Token)
	assert.True(t, got.Destination.Resolved)
	assert.Equal(t, "extension is .pdf", got.MatchReason)
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)
}

func TestClassify_NoMatchClearsDecision(t *testing.T) {
	c := New(newCountingResolver(), nil, fixedClock())

	f := pdfFile()
	f.Destination = &model.Destination{Kind: model.DestinationFolder, DisplayPath: "stale"}
	f.MatchReason = "stale"
	f.MatchedRuleID = "stale"
	f.Confidence = 0.9

	got := c.Classify(f, []model.Rule{moveRule("jpgs", "jpg", "Pictures", 1)})

	assert.Equal(t, model.StatusPending, got.Status)
	assert.Nil(t, got.Destination)
	assert.Empty(t, got.MatchReason)
	assert.Empty(t, got.MatchedRuleID)
	assert.Zero(t, got.Confidence)
}

func TestClassify_DisabledRuleSkipped(t *testing.T) {
	c := New(newCountingResolver(), nil, fixedClock())

	disabled := moveRule("disabled", "pdf", "Documents/A", 1)
	disabled.IsEnabled = false
	enabled := moveRule("enabled", "pdf", "Documents/B", 2)

	got := c.Classify(pdfFile(), []model.Rule{disabled, enabled})
	require.Equal(t, model.StatusReady, got.Status)
	assert.Equal(t, "rule-enabled", got.MatchedRuleID)
}

func TestClassify_ExclusionVetoes(t *testing.T) {
	c := New(newCountingResolver(), nil, fixedClock())

	vetoed := moveRule("vetoed", "pdf", "Documents/A", 1)
	vetoed.Exclusions = []model.Condition{model.NameContains("report")}
	fallback := moveRule("fallback", "pdf", "Documents/B", 2)

	got := c.Classify(pdfFile(), []model.Rule{vetoed, fallback})
	require.Equal(t, model.StatusReady, got.Status)
	assert.Equal(t, "rule-fallback", got.MatchedRuleID)
}

func TestClassify_UnresolvableDestinationFallsThrough(t *testing.T) {
	resolver := newCountingResolver()
	resolver.fail["Documents/Locked"] = true
	c := New(resolver, nil, fixedClock())

	locked := moveRule("locked", "pdf", "Documents/Locked", 1)
	open := moveRule("open", "pdf", "Documents/Open", 2)

	got := c.Classify(pdfFile(), []model.Rule{locked, open})
	require.Equal(t, model.StatusReady, got.Status)
	assert.Equal(t, "rule-open", got.MatchedRuleID)
}

func TestClassify_AllUnresolvableLeavesPending(t *testing.T) {
	resolver := newCountingResolver()
	resolver.fail["Documents/Locked"] = true
	c := New(resolver, nil, fixedClock())

	got := c.Classify(pdfFile(), []model.Rule{moveRule("locked", "pdf", "Documents/Locked", 1)})
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Nil(t, got.Destination)
}

func TestClassify_DeleteRuleTargetsTrash(t *testing.T) {
	c := New(newCountingResolver(), nil, fixedClock())

	rule := model.Rule{
		ID:         "rule-cleanup",
		Name:       "cleanup",
		Conditions: []model.Condition{model.ExtensionEquals("pdf")},
		Combinator: model.CombinatorSingle,
		Action:     model.ActionDelete,
		IsEnabled:  true,
	}

	got := c.Classify(pdfFile(), []model.Rule{rule})
	require.Equal(t, model.StatusReady, got.Status)
	require.NotNil(t, got.Destination)
	assert.Equal(t, model.DestinationTrash, got.Destination.Kind)
	assert.False(t, got.Destination.NeedsResolution())
}

func TestClassify_ResolutionCache(t *testing.T) {
	resolver := newCountingResolver()
	c := New(resolver, nil, fixedClock())

	rules := []model.Rule{moveRule("reports", "pdf", "Documents/Reports", 1)}
	files := []model.File{pdfFile(), pdfFile(), pdfFile()}

	results := c.ClassifyBatch(files, rules)
	require.Len(t, results, 3)
	for _, f := range results {
		assert.Equal(t, model.StatusReady, f.Status)
	}
	assert.Equal(t, 1, resolver.calls["Documents/Reports"], "resolver should be hit once per display path")

	c.ClearCache()
	_ = c.Classify(pdfFile(), rules)
	assert.Equal(t, 2, resolver.calls["Documents/Reports"])
}

func TestClassify_CategoryScope(t *testing.T) {
	categories := []model.Category{
		{
			ID:        "cat-downloads",
			Name:      "Downloads",
			Scope:     model.CategoryScope{Folders: []string{"/home/u/Downloads"}},
			IsEnabled: true,
		},
		{
			ID:        "cat-disabled",
			Name:      "Disabled",
			IsEnabled: false,
		},
	}
	c := New(newCountingResolver(), categories, fixedClock())

	inScope := pdfFile()
	outOfScope := pdfFile()
	outOfScope.Path = "/home/u/Desktop/report.pdf"

	scoped := moveRule("scoped", "pdf", "Documents/Reports", 1)
	scoped.CategoryID = "cat-downloads"

	got := c.Classify(inScope, []model.Rule{scoped})
	assert.Equal(t, model.StatusReady, got.Status)

	got = c.Classify(outOfScope, []model.Rule{scoped})
	assert.Equal(t, model.StatusPending, got.Status)

	// Rules in a disabled category never match.
	disabledCat := moveRule("disabled-cat", "pdf", "Documents/Reports", 1)
	disabledCat.CategoryID = "cat-disabled"
	got = c.Classify(inScope, []model.Rule{disabledCat})
	assert.Equal(t, model.StatusPending, got.Status)

	// Unknown category references fail closed.
	unknownCat := moveRule("unknown-cat", "pdf", "Documents/Reports", 1)
	unknownCat.CategoryID = "cat-missing"
	got = c.Classify(inScope, []model.Rule{unknownCat})
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestConfidenceForRule(t *testing.T) {
	tests := []struct {
		name string
		rule model.Rule
		want float64
	}{
		{
			name: "multi-condition",
			rule: model.Rule{Conditions: []model.Condition{
				model.ExtensionEquals("pdf"), model.NameContains("invoice"),
			}},
			want: 0.9,
		},
		{
			name: "extension only",
			rule: model.Rule{Conditions: []model.Condition{model.ExtensionEquals("pdf")}},
			want: 0.5,
		},
		{
			name: "name based",
			rule: model.Rule{Conditions: []model.Condition{model.NameStartsWith("IMG")}},
			want: 0.7,
		},
		{
			name: "date based",
			rule: model.Rule{Conditions: []model.Condition{model.OlderThan(30, "")}},
			want: 0.7,
		},
		{
			name: "size based",
			rule: model.Rule{Conditions: []model.Condition{model.LargerThan(1024)}},
			want: 0.7,
		},
		{
			name: "kind based",
			rule: model.Rule{Conditions: []model.Condition{model.KindEquals("image")}},
			want: 0.6,
		},
		{
			name: "location based",
			rule: model.Rule{Conditions: []model.Condition{model.FromLocation(model.LocationDownloads)}},
			want: 0.8,
		},
		{
			name: "negation scores its inner condition",
			rule: model.Rule{Conditions: []model.Condition{model.Not(model.FromLocation(model.LocationDownloads))}},
			want: 0.8,
		},
		{
			name: "no conditions",
			rule: model.Rule{},
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ConfidenceForRule(tt.rule), 1e-9)
		})
	}
}

func TestMergePrediction(t *testing.T) {
	c := New(newCountingResolver(), nil, fixedClock())

	// A rule match always wins over a prediction.
	ruled := c.Classify(pdfFile(), []model.Rule{moveRule("reports", "pdf", "Documents/Reports", 1)})
	dest := model.UnresolvedFolder("Documents/Elsewhere")
	merged := MergePrediction(ruled, &Prediction{Destination: dest, Explanation: "habit", Confidence: 0.95}, 0.5)
	assert.Equal(t, "rule-reports", merged.MatchedRuleID)
	assert.Equal(t, "Documents/Reports", merged.Destination.DisplayPath)

	// Without a rule match, a confident prediction is adopted.
	pending := c.Classify(pdfFile(), nil)
	merged = MergePrediction(pending, &Prediction{Destination: dest, Explanation: "habit", Confidence: 0.8}, 0.5)
	require.NotNil(t, merged.Destination)
	assert.Equal(t, model.StatusReady, merged.Status)
	assert.Equal(t, "Documents/Elsewhere", merged.Destination.DisplayPath)
	assert.Empty(t, merged.MatchedRuleID)

	// Predictions below the floor are ignored.
	merged = MergePrediction(pending, &Prediction{Destination: dest, Confidence: 0.3}, 0.5)
	assert.Equal(t, model.StatusPending, merged.Status)
	assert.Nil(t, merged.Destination)
}
