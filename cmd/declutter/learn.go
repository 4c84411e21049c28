package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quietfile/declutter/internal/cli"
	"github.com/quietfile/declutter/internal/common"
	"github.com/quietfile/declutter/internal/config"
	"github.com/quietfile/declutter/internal/learner"
	"github.com/quietfile/declutter/internal/model"
	"github.com/quietfile/declutter/internal/service"
)

func learnCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Mine the activity log for new rule suggestions",
		Long: `Analyzes your organization history for repeated habits: extensions
that keep landing in the same folder, name prefixes and keywords that
sharpen those habits, time-of-week correlations, and suggestions you
keep rejecting. Prints the candidate rules it finds; with --save they
are stored for later review with ` + "`declutter review`" + `.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			activities, err := store.GetActivities(ctx, service.ActivityFilter{})
			if err != nil {
				return err
			}
			if len(activities) == 0 {
				return common.NewUserError(common.ErrNoActivities,
					"no activity history yet; organize some files first, then come back")
			}

			l := learner.New(config.LearnerConfig())
			patterns := l.InducePatterns(activities)

			var positives, negatives []model.LearnedPattern
			for _, p := range patterns {
				if p.IsNegative {
					negatives = append(negatives, p)
				} else {
					positives = append(positives, p)
				}
			}
			suggestions := l.FilterSuggestions(positives, negatives, nil)

			if len(suggestions) == 0 {
				fmt.Println(cli.FormatWarning("No new habits found. Keep organizing; suggestions need a few repetitions."))
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Found %d candidate rules from %d activities", len(suggestions), len(activities))))
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CONF\tSEEN\tDESCRIPTION")
			for _, p := range suggestions {
				fmt.Fprintf(w, "%.0f%%\t%d×\t%s\n", p.Confidence*100, p.OccurrenceCount, p.Description)
			}
			_ = w.Flush()

			if len(negatives) > 0 {
				fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf(
					"(%d suppression patterns from rejected suggestions also tracked)", len(negatives))))
			}

			if !save {
				fmt.Println(cli.SubtleStyle.Render("Run with --save to keep these for `declutter review`."))
				return nil
			}

			saved := 0
			for _, p := range patterns {
				if err := store.SavePattern(ctx, &p); err != nil {
					return fmt.Errorf("failed to save pattern %s: %w", p.ID, err)
				}
				saved++
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved %d patterns", saved)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "persist the induced patterns for interactive review")
	return cmd
}
