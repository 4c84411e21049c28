package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quietfile/declutter/internal/cli"
	"github.com/quietfile/declutter/internal/config"
	"github.com/quietfile/declutter/internal/learner"
	"github.com/quietfile/declutter/internal/model"
	"github.com/quietfile/declutter/internal/overlap"
	"github.com/quietfile/declutter/internal/tui"
)

func reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Interactively accept or reject saved rule suggestions",
		Long: `Opens the saved suggestions from ` + "`declutter learn --save`" + ` in an
interactive list. Accepted suggestions become enabled rules; rejected
ones are recorded so the learner stops proposing them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			patterns, err := store.GetPatterns(ctx)
			if err != nil {
				return err
			}
			reviewable := reviewCandidates(learner.New(config.LearnerConfig()), patterns)
			if len(reviewable) == 0 {
				fmt.Println(cli.FormatWarning("Nothing to review. Run `declutter learn --save` first."))
				return nil
			}

			results, err := tui.Run(reviewable)
			if err != nil {
				return err
			}

			existing, err := store.GetRules(ctx)
			if err != nil {
				return err
			}
			categories, err := store.GetCategories(ctx)
			if err != nil {
				return err
			}
			detector := overlap.NewDetector(categories)

			accepted, rejected := 0, 0
			for _, r := range results {
				switch r.Decision {
				case tui.DecisionAccept:
					rule := learner.ConvertToRule(r.Pattern, true)
					printOverlaps(detector.DetectOverlaps(rule, existing, ""))
					if err := store.CreateRule(ctx, &rule); err != nil {
						return fmt.Errorf("failed to create rule from suggestion: %w", err)
					}
					if err := store.DeletePattern(ctx, r.Pattern.ID); err != nil {
						return err
					}
					recordRuleActivity(ctx, store, model.ActivityRuleCreated, rule)
					existing = append(existing, rule)
					accepted++
				case tui.DecisionReject:
					updated := r.Pattern.RecordRejection()
					if err := store.SavePattern(ctx, &updated); err != nil {
						return err
					}
					// A rejection is itself a signal the learner mines.
					skip := model.ActivityRecord{
						Type:          model.ActivitySkipped,
						FileName:      "*." + r.Pattern.FileExtension,
						FileExtension: r.Pattern.FileExtension,
						Details:       fmt.Sprintf("Skipped suggestion for %s", r.Pattern.DestinationPath),
						Timestamp:     time.Now(),
					}
					if err := store.AppendActivity(ctx, &skip); err != nil {
						return err
					}
					rejected++
				}
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Review complete: %d accepted, %d rejected, %d left for later",
				accepted, rejected, len(reviewable)-accepted-rejected)))
			return nil
		},
	}
}

// reviewCandidates picks the stored patterns worth showing: positives only,
// minus any the stored negative patterns already suppress. Without this a
// suggestion the user rejected into a negative pattern would resurface here,
// the one place suggestions become rules.
func reviewCandidates(l *learner.Learner, patterns []model.LearnedPattern) []model.LearnedPattern {
	var positives, negatives []model.LearnedPattern
	for _, p := range patterns {
		if p.IsNegative {
			negatives = append(negatives, p)
		} else {
			positives = append(positives, p)
		}
	}
	return l.FilterSuggestions(positives, negatives, nil)
}
