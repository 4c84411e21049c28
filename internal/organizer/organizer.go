package organizer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/quietfile/declutter/internal/model"
	"github.com/quietfile/declutter/internal/service"
)

// Stats summarizes one apply run.
type Stats struct {
	Moved   int
	Copied  int
	Trashed int
	Skipped int
	Failed  int
}

// Organizer executes ready classifications: moving, copying, or trashing
// files, and appending an ActivityRecord per action so the pattern learner
// can mine them later.
type Organizer struct {
	store    service.Storage
	trashDir string
}

// New creates an organizer. trashDir is where "deleted" files are parked
// rather than being unlinked outright.
func New(store service.Storage, trashDir string) *Organizer {
	return &Organizer{store: store, trashDir: trashDir}
}

// Apply carries out each file's decision. Files without a ready decision are
// counted as skipped. Rules are consulted for the action (move vs copy);
// a file whose matched rule is missing defaults to move.
func (o *Organizer) Apply(ctx context.Context, files []model.File, rules []model.Rule) (Stats, error) {
	rulesByID := make(map[string]model.Rule, len(rules))
	for _, r := range rules {
		rulesByID[r.ID] = r
	}

	var stats Stats
	for i := range files {
		f := &files[i]
		if f.Status != model.StatusReady || f.Destination == nil {
			stats.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		action := model.ActionMove
		if rule, ok := rulesByID[f.MatchedRuleID]; ok {
			action = rule.Action
		}

		if err := o.applyOne(ctx, f, action, &stats); err != nil {
			stats.Failed++
			slog.Warn("failed to organize file", "file", f.Name, "error", err)
		}
	}
	return stats, nil
}

func (o *Organizer) applyOne(ctx context.Context, f *model.File, action model.RuleAction, stats *Stats) error {
	if f.Destination.Kind == model.DestinationTrash {
		if err := o.moveToTrash(f); err != nil {
			return err
		}
		stats.Trashed++
		f.Status = model.StatusCompleted
		return o.record(ctx, f, model.ActivityDeleted, "Moved to Trash")
	}

	target := filepath.Join(f.Destination.Token, f.Name)
	switch action {
	case model.ActionCopy:
		if err := copyFile(f.Path, target); err != nil {
			return err
		}
		stats.Copied++
		f.Status = model.StatusCompleted
		return o.record(ctx, f, model.ActivityCopied,
			fmt.Sprintf("Copied to %s", f.Destination.DisplayPath))
	default:
		if err := moveFile(f.Path, target); err != nil {
			return err
		}
		stats.Moved++
		f.Status = model.StatusCompleted
		f.Path = target
		return o.record(ctx, f, model.ActivityMoved,
			fmt.Sprintf("Moved to %s", f.Destination.DisplayPath))
	}
}

// RecordSkip logs that the user declined a suggested destination, feeding
// the learner's negative patterns.
func (o *Organizer) RecordSkip(ctx context.Context, f model.File, suggestedDestination string) error {
	record := model.ActivityRecord{
		Type:          model.ActivitySkipped,
		FileName:      f.Name,
		FileExtension: f.Extension,
		Details:       fmt.Sprintf("Skipped suggestion for %s", suggestedDestination),
		Timestamp:     time.Now(),
	}
	return o.store.AppendActivity(ctx, &record)
}

func (o *Organizer) record(ctx context.Context, f *model.File, activityType model.ActivityType, details string) error {
	record := model.ActivityRecord{
		Type:          activityType,
		FileName:      f.Name,
		FileExtension: f.Extension,
		Details:       details,
		Timestamp:     time.Now(),
	}
	return o.store.AppendActivity(ctx, &record)
}

func (o *Organizer) moveToTrash(f *model.File) error {
	if err := os.MkdirAll(o.trashDir, 0750); err != nil {
		return fmt.Errorf("failed to create trash directory: %w", err)
	}
	target := filepath.Join(o.trashDir, f.Name)
	// Keep both copies when a same-named file is already in the trash.
	if _, err := os.Stat(target); err == nil {
		target = filepath.Join(o.trashDir,
			fmt.Sprintf("%s-%d", f.Name, time.Now().UnixNano()))
	}
	return moveFile(f.Path, target)
}

// moveFile renames, falling back to copy+remove for cross-device moves.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create target: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy contents: %w", err)
	}
	return out.Close()
}
