package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/quietfile/declutter/internal/common"
	"github.com/quietfile/declutter/internal/model"
	"github.com/quietfile/declutter/internal/service"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func testRule(name string, sortOrder int) model.Rule {
	dest := model.UnresolvedFolder("Documents/" + name)
	return model.Rule{
		Name: name,
		Conditions: []model.Condition{
			model.ExtensionEquals("pdf"),
			model.NameContains("invoice"),
		},
		Exclusions:  []model.Condition{model.NameContains("draft")},
		Combinator:  model.CombinatorAnd,
		Action:      model.ActionMove,
		Destination: &dest,
		SortOrder:   sortOrder,
		IsEnabled:   true,
	}
}

func TestSQLiteStorage_RuleRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	rule := testRule("Invoices", 1)
	if err := store.CreateRule(ctx, &rule); err != nil {
		t.Fatalf("CreateRule failed: %v", err)
	}
	if rule.ID == "" {
		t.Fatal("CreateRule should assign an ID")
	}

	got, err := store.GetRule(ctx, rule.ID)
	if err != nil {
		t.Fatalf("GetRule failed: %v", err)
	}
	if got.Name != rule.Name {
		t.Errorf("Name = %q, want %q", got.Name, rule.Name)
	}
	if len(got.Conditions) != 2 {
		t.Fatalf("Conditions = %d, want 2", len(got.Conditions))
	}
	if !got.Conditions[0].Equal(model.ExtensionEquals("pdf")) {
		t.Errorf("first condition not preserved: %+v", got.Conditions[0])
	}
	if len(got.Exclusions) != 1 || !got.Exclusions[0].Equal(model.NameContains("draft")) {
		t.Errorf("exclusions not preserved: %+v", got.Exclusions)
	}
	if got.Destination == nil || got.Destination.DisplayPath != "Documents/Invoices" {
		t.Errorf("destination not preserved: %+v", got.Destination)
	}
	if got.Combinator != model.CombinatorAnd || got.Action != model.ActionMove {
		t.Errorf("combinator/action not preserved: %s/%s", got.Combinator, got.Action)
	}
}

func TestSQLiteStorage_RuleNegatedConditionRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	dest := model.UnresolvedFolder("Archive")
	rule := model.Rule{
		Name:        "Not recent",
		Conditions:  []model.Condition{model.Not(model.ModifiedOlderThan(7))},
		Combinator:  model.CombinatorSingle,
		Action:      model.ActionMove,
		Destination: &dest,
		IsEnabled:   true,
	}
	if err := store.CreateRule(ctx, &rule); err != nil {
		t.Fatalf("CreateRule failed: %v", err)
	}

	got, err := store.GetRule(ctx, rule.ID)
	if err != nil {
		t.Fatalf("GetRule failed: %v", err)
	}
	if len(got.Conditions) != 1 || !got.Conditions[0].Equal(model.Not(model.ModifiedOlderThan(7))) {
		t.Errorf("nested condition not preserved: %+v", got.Conditions)
	}
}

func TestSQLiteStorage_GetRulesOrdering(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for i, name := range []string{"third", "first", "second"} {
		rule := testRule(name, map[string]int{"first": 1, "second": 2, "third": 3}[name])
		rule.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		if err := store.CreateRule(ctx, &rule); err != nil {
			t.Fatalf("CreateRule failed: %v", err)
		}
	}

	rules, err := store.GetRules(ctx)
	if err != nil {
		t.Fatalf("GetRules failed: %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("got %d rules, want 3", len(rules))
	}
	for i, want := range []string{"first", "second", "third"} {
		if rules[i].Name != want {
			t.Errorf("rules[%d].Name = %q, want %q", i, rules[i].Name, want)
		}
	}
}

func TestSQLiteStorage_EnabledFilter(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	active := testRule("active", 1)
	inactive := testRule("inactive", 2)
	if err := store.CreateRule(ctx, &active); err != nil {
		t.Fatalf("CreateRule failed: %v", err)
	}
	if err := store.CreateRule(ctx, &inactive); err != nil {
		t.Fatalf("CreateRule failed: %v", err)
	}
	if err := store.SetRuleEnabled(ctx, inactive.ID, false); err != nil {
		t.Fatalf("SetRuleEnabled failed: %v", err)
	}

	enabled, err := store.GetEnabledRules(ctx)
	if err != nil {
		t.Fatalf("GetEnabledRules failed: %v", err)
	}
	if len(enabled) != 1 || enabled[0].Name != "active" {
		t.Errorf("GetEnabledRules = %+v, want only the active rule", enabled)
	}
}

func TestSQLiteStorage_UpdateAndDeleteRule(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	rule := testRule("original", 1)
	if err := store.CreateRule(ctx, &rule); err != nil {
		t.Fatalf("CreateRule failed: %v", err)
	}

	rule.Name = "renamed"
	rule.SortOrder = 9
	if err := store.UpdateRule(ctx, &rule); err != nil {
		t.Fatalf("UpdateRule failed: %v", err)
	}

	got, err := store.GetRule(ctx, rule.ID)
	if err != nil {
		t.Fatalf("GetRule failed: %v", err)
	}
	if got.Name != "renamed" || got.SortOrder != 9 {
		t.Errorf("update not applied: %+v", got)
	}

	if err := store.DeleteRule(ctx, rule.ID); err != nil {
		t.Fatalf("DeleteRule failed: %v", err)
	}
	if _, err := store.GetRule(ctx, rule.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := store.DeleteRule(ctx, rule.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("double delete should return ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_InvalidRuleRejected(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	rule := testRule("no conditions", 1)
	rule.Conditions = nil
	if err := store.CreateRule(ctx, &rule); err == nil {
		t.Error("expected validation error for rule without conditions")
	}
}

func TestSQLiteStorage_CategoryRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	category := model.Category{
		Name:      "Downloads",
		Scope:     model.CategoryScope{Folders: []string{"/home/u/Downloads"}},
		IsEnabled: true,
	}
	if err := store.CreateCategory(ctx, &category); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	got, err := store.GetCategory(ctx, category.ID)
	if err != nil {
		t.Fatalf("GetCategory failed: %v", err)
	}
	if got.Name != "Downloads" || len(got.Scope.Folders) != 1 {
		t.Errorf("category not preserved: %+v", got)
	}

	if err := store.SetCategoryEnabled(ctx, category.ID, false); err != nil {
		t.Fatalf("SetCategoryEnabled failed: %v", err)
	}
	categories, err := store.GetCategories(ctx)
	if err != nil {
		t.Fatalf("GetCategories failed: %v", err)
	}
	if len(categories) != 1 || categories[0].IsEnabled {
		t.Errorf("expected one disabled category, got %+v", categories)
	}
}

func TestSQLiteStorage_ActivityLog(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		record := model.ActivityRecord{
			Type:          model.ActivityMoved,
			FileName:      fmt.Sprintf("file%d.pdf", i),
			FileExtension: "pdf",
			Details:       "Moved to Documents",
			Timestamp:     base.AddDate(0, 0, i),
		}
		if err := store.AppendActivity(ctx, &record); err != nil {
			t.Fatalf("AppendActivity failed: %v", err)
		}
		if record.ID == 0 {
			t.Error("AppendActivity should assign an ID")
		}
	}
	skip := model.ActivityRecord{
		Type:      model.ActivitySkipped,
		FileName:  "ignored.pdf",
		Details:   "Skipped suggestion for Documents",
		Timestamp: base.AddDate(0, 0, 10),
	}
	if err := store.AppendActivity(ctx, &skip); err != nil {
		t.Fatalf("AppendActivity failed: %v", err)
	}

	all, err := store.GetActivities(ctx, service.ActivityFilter{})
	if err != nil {
		t.Fatalf("GetActivities failed: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("got %d activities, want 6", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Timestamp.Before(all[i-1].Timestamp) {
			t.Error("activities must come back oldest first")
		}
	}

	since := base.AddDate(0, 0, 3)
	recent, err := store.GetActivities(ctx, service.ActivityFilter{Since: &since})
	if err != nil {
		t.Fatalf("GetActivities(since) failed: %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("got %d recent activities, want 3", len(recent))
	}

	skips, err := store.GetActivities(ctx, service.ActivityFilter{
		Types: []model.ActivityType{model.ActivitySkipped},
	})
	if err != nil {
		t.Fatalf("GetActivities(types) failed: %v", err)
	}
	if len(skips) != 1 || skips[0].FileName != "ignored.pdf" {
		t.Errorf("type filter = %+v, want only the skip", skips)
	}

	limited, err := store.GetActivities(ctx, service.ActivityFilter{Limit: 2})
	if err != nil {
		t.Fatalf("GetActivities(limit) failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d limited activities, want 2", len(limited))
	}
}

func TestSQLiteStorage_PatternRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	pattern := model.LearnedPattern{
		ID:              "abc123def456",
		Description:     ".pdf files go to Documents/Invoices",
		FileExtension:   "pdf",
		DestinationPath: "Documents/Invoices",
		Conditions: []model.Condition{
			model.ExtensionEquals("pdf"),
			model.NameContains("invoice"),
		},
		Combinator:       model.CombinatorAnd,
		TimeCategory:     model.TimeWorkHours,
		TemporalContexts: []model.TimeCategory{model.TimeWorkHours},
		Keywords:         []string{"invoice"},
		OccurrenceCount:  4,
		Confidence:       0.8,
		LastSeen:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.SavePattern(ctx, &pattern); err != nil {
		t.Fatalf("SavePattern failed: %v", err)
	}

	patterns, err := store.GetPatterns(ctx)
	if err != nil {
		t.Fatalf("GetPatterns failed: %v", err)
	}
	if len(patterns) != 1 {
		t.Fatalf("got %d patterns, want 1", len(patterns))
	}
	got := patterns[0]
	if got.Description != pattern.Description || got.TimeCategory != model.TimeWorkHours {
		t.Errorf("pattern not preserved: %+v", got)
	}
	if len(got.Conditions) != 2 || len(got.Keywords) != 1 {
		t.Errorf("pattern details not preserved: %+v", got)
	}

	// Saving the same ID again refreshes the counters.
	pattern.OccurrenceCount = 7
	pattern.Confidence = 0.9
	if err := store.SavePattern(ctx, &pattern); err != nil {
		t.Fatalf("SavePattern upsert failed: %v", err)
	}
	patterns, err = store.GetPatterns(ctx)
	if err != nil {
		t.Fatalf("GetPatterns failed: %v", err)
	}
	if len(patterns) != 1 || patterns[0].OccurrenceCount != 7 {
		t.Errorf("upsert did not refresh counters: %+v", patterns)
	}

	if err := store.DeletePattern(ctx, pattern.ID); err != nil {
		t.Fatalf("DeletePattern failed: %v", err)
	}
	if err := store.DeletePattern(ctx, pattern.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_SavePatternKeepsRejections(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	pattern := model.LearnedPattern{
		ID:              "abc123def456",
		Description:     ".pdf files go to Documents/Invoices",
		FileExtension:   "pdf",
		DestinationPath: "Documents/Invoices",
		Conditions:      []model.Condition{model.ExtensionEquals("pdf")},
		Combinator:      model.CombinatorSingle,
		OccurrenceCount: 4,
		Confidence:      0.8,
	}
	if err := store.SavePattern(ctx, &pattern); err != nil {
		t.Fatalf("SavePattern failed: %v", err)
	}

	rejected := pattern.RecordRejection()
	if err := store.SavePattern(ctx, &rejected); err != nil {
		t.Fatalf("SavePattern after rejection failed: %v", err)
	}

	// Re-induction always carries a zero rejection count; saving it must not
	// erase the rejection the user recorded in between.
	pattern.OccurrenceCount = 6
	if err := store.SavePattern(ctx, &pattern); err != nil {
		t.Fatalf("SavePattern re-induction failed: %v", err)
	}

	patterns, err := store.GetPatterns(ctx)
	if err != nil {
		t.Fatalf("GetPatterns failed: %v", err)
	}
	if len(patterns) != 1 {
		t.Fatalf("got %d patterns, want 1", len(patterns))
	}
	if patterns[0].RejectionCount != 1 {
		t.Errorf("RejectionCount = %d, want 1 preserved across re-induction", patterns[0].RejectionCount)
	}
	if patterns[0].OccurrenceCount != 6 {
		t.Errorf("OccurrenceCount = %d, want 6 refreshed", patterns[0].OccurrenceCount)
	}

	// Further rejections still accumulate.
	twice := patterns[0].RecordRejection()
	if err := store.SavePattern(ctx, &twice); err != nil {
		t.Fatalf("SavePattern second rejection failed: %v", err)
	}
	patterns, err = store.GetPatterns(ctx)
	if err != nil {
		t.Fatalf("GetPatterns failed: %v", err)
	}
	if patterns[0].RejectionCount != 2 {
		t.Errorf("RejectionCount = %d, want 2", patterns[0].RejectionCount)
	}
}

func TestSQLiteStorage_GetPatternsOrdering(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for i, conf := range []float64{0.3, 0.9, 0.6} {
		p := model.LearnedPattern{
			ID:              fmt.Sprintf("pattern-%d", i),
			Description:     fmt.Sprintf("pattern %d", i),
			FileExtension:   "pdf",
			DestinationPath: "Documents",
			Conditions:      []model.Condition{model.ExtensionEquals("pdf")},
			Combinator:      model.CombinatorSingle,
			Confidence:      conf,
		}
		if err := store.SavePattern(ctx, &p); err != nil {
			t.Fatalf("SavePattern failed: %v", err)
		}
	}

	patterns, err := store.GetPatterns(ctx)
	if err != nil {
		t.Fatalf("GetPatterns failed: %v", err)
	}
	for i := 1; i < len(patterns); i++ {
		if patterns[i].Confidence > patterns[i-1].Confidence {
			t.Error("patterns must come back most confident first")
		}
	}
}

func TestSQLiteStorage_MigrateIsIdempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	// createTestStorage already migrated once.
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	var version int
	if err := store.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version); err != nil {
		t.Fatalf("failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, ExpectedSchemaVersion)
	}
}

func TestSQLiteStorage_MigrateRejectsFutureSchema(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.db.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`,
		ExpectedSchemaVersion+1, "from a newer build"); err != nil {
		t.Fatalf("failed to fake future version: %v", err)
	}

	err := store.Migrate(ctx)
	if !errors.Is(err, common.ErrDatabaseCorrupted) {
		t.Errorf("expected ErrDatabaseCorrupted, got %v", err)
	}
}

func TestSQLiteStorage_CancelledContext(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.GetRules(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
	rule := testRule("late", 1)
	if err := store.CreateRule(ctx, &rule); err == nil {
		t.Error("expected error for cancelled context")
	}
}
