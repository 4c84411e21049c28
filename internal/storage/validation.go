package storage

import (
	"context"
	"fmt"

	"github.com/quietfile/declutter/internal/model"
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	return ctx.Err()
}

func validateString(value, name string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	return nil
}

func validateRule(rule *model.Rule) error {
	if rule == nil {
		return fmt.Errorf("rule cannot be nil")
	}
	return rule.Validate()
}

func validateCategory(category *model.Category) error {
	if category == nil {
		return fmt.Errorf("category cannot be nil")
	}
	if category.Name == "" {
		return fmt.Errorf("category name is required")
	}
	return nil
}

func validateActivity(record *model.ActivityRecord) error {
	if record == nil {
		return fmt.Errorf("activity record cannot be nil")
	}
	if record.Type == "" {
		return fmt.Errorf("activity type is required")
	}
	if record.FileName == "" {
		return fmt.Errorf("activity file name is required")
	}
	return nil
}

func validatePattern(pattern *model.LearnedPattern) error {
	if pattern == nil {
		return fmt.Errorf("pattern cannot be nil")
	}
	if pattern.ID == "" {
		return fmt.Errorf("pattern ID is required")
	}
	if pattern.FileExtension == "" {
		return fmt.Errorf("pattern file extension is required")
	}
	if pattern.DestinationPath == "" {
		return fmt.Errorf("pattern destination path is required")
	}
	if pattern.Confidence < 0 || pattern.Confidence > 1 {
		return fmt.Errorf("pattern confidence must be between 0 and 1")
	}
	return nil
}
