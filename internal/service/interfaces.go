// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/quietfile/declutter/internal/model"
)

// ActivityFilter defines filtering options for activity log queries.
type ActivityFilter struct {
	Since *time.Time
	Types []model.ActivityType
	Limit int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Rule operations
	CreateRule(ctx context.Context, rule *model.Rule) error
	GetRule(ctx context.Context, id string) (*model.Rule, error)
	GetRules(ctx context.Context) ([]model.Rule, error)
	GetEnabledRules(ctx context.Context) ([]model.Rule, error)
	UpdateRule(ctx context.Context, rule *model.Rule) error
	SetRuleEnabled(ctx context.Context, id string, enabled bool) error
	DeleteRule(ctx context.Context, id string) error

	// Category operations
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
	SetCategoryEnabled(ctx context.Context, id string, enabled bool) error

	// Activity log operations (append-only)
	AppendActivity(ctx context.Context, record *model.ActivityRecord) error
	GetActivities(ctx context.Context, filter ActivityFilter) ([]model.ActivityRecord, error)

	// Learned pattern operations
	SavePattern(ctx context.Context, pattern *model.LearnedPattern) error
	GetPatterns(ctx context.Context) ([]model.LearnedPattern, error)
	DeletePattern(ctx context.Context, id string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ReportSummary contains aggregate information for an export.
type ReportSummary struct {
	ByDestination map[string]int
	ByExtension   map[string]int
	DateRange     DateRange
	TotalActions  int
	SkippedCount  int
}

// DateRange represents a time period with start and end dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ReportWriter exports an activity summary to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, activities []model.ActivityRecord, summary *ReportSummary) error
}
