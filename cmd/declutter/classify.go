package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quietfile/declutter/internal/cli"
	"github.com/quietfile/declutter/internal/common"
	"github.com/quietfile/declutter/internal/config"
	"github.com/quietfile/declutter/internal/engine"
	"github.com/quietfile/declutter/internal/learner"
	"github.com/quietfile/declutter/internal/model"
	"github.com/quietfile/declutter/internal/organizer"
	"github.com/quietfile/declutter/internal/scan"
)

func classifyCmd() *cobra.Command {
	var apply, suggest bool

	cmd := &cobra.Command{
		Use:   "classify [directory]",
		Short: "Decide where the files in a directory should go",
		Long: `Scans a directory, evaluates each file against your enabled rules in
priority order, and prints the decision per file. With --suggest, files
no rule claims fall back to your saved learned patterns. With --apply
the decisions are carried out: files are moved, copied, or trashed, and
each action is recorded in the activity log.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dir := viper.GetString("scan.directory")
			if len(args) > 0 {
				dir = args[0]
			}
			if dir == "" {
				dir = "."
			}
			dir = config.ExpandPath(dir)

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rules, err := store.GetEnabledRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to load rules: %w", err)
			}
			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to load categories: %w", err)
			}

			files, err := scan.Scan(dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return common.NewUserError(common.ErrNoFiles, "no files to classify in "+dir)
			}

			baseDir := config.ExpandPath(viper.GetString("organizer.base_dir"))
			if baseDir == "" {
				baseDir = dir
			}
			resolver := resolverFor(baseDir, apply)
			classifier := engine.New(resolver, categories)

			bar := progressbar.Default(int64(len(files)), "classifying")
			sorted := model.SortRules(rules)
			results := make([]model.File, len(files))
			for i, f := range files {
				results[i] = classifier.Classify(f, sorted)
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			if suggest {
				patterns, err := store.GetPatterns(ctx)
				if err != nil {
					return err
				}
				cfg := config.LearnerConfig()
				results = suggestFromPatterns(learner.New(cfg), resolver, results, patterns, cfg.SuggestionFloor, time.Now())
			}

			printDecisions(results)

			if !apply {
				return nil
			}

			org := organizer.New(store, trashDir())
			stats, err := org.Apply(ctx, results, rules)
			if err != nil {
				return err
			}

			matched := make(map[string]int)
			for _, f := range results {
				if f.MatchedRuleID != "" {
					matched[f.MatchedRuleID]++
				}
			}
			for _, r := range sorted {
				if n := matched[r.ID]; n > 0 {
					rec := model.ActivityRecord{
						Type:      model.ActivityRuleApplied,
						FileName:  r.Name,
						Details:   fmt.Sprintf("Matched %d files in %s", n, dir),
						Timestamp: time.Now(),
					}
					if err := store.AppendActivity(ctx, &rec); err != nil {
						return err
					}
				}
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Done: %d moved, %d copied, %d trashed, %d skipped, %d failed",
				stats.Moved, stats.Copied, stats.Trashed, stats.Skipped, stats.Failed)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "carry out the decisions instead of only printing them")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "let saved learned patterns decide for files no rule matches")
	return cmd
}

// suggestFromPatterns fills in decisions for still-pending files from the
// learned patterns, resolving suggested folders the same way rule
// destinations resolve. A rule match always wins; suggestions below the
// confidence floor, and folders that fail to resolve, leave the file pending.
func suggestFromPatterns(l *learner.Learner, resolver engine.DestinationResolver, files []model.File, patterns []model.LearnedPattern, floor float64, now time.Time) []model.File {
	out := make([]model.File, len(files))
	copy(out, files)
	for i, f := range out {
		if f.Status == model.StatusReady {
			continue
		}
		p := l.MatchPattern(patterns, f, now)
		if p == nil {
			continue
		}
		token, err := resolver.Resolve(p.DestinationPath)
		if err != nil {
			continue
		}
		pred := engine.Prediction{
			Destination: model.ResolvedFolder(p.DestinationPath, token),
			Explanation: p.Description,
			Confidence:  p.Confidence,
		}
		out[i] = engine.MergePrediction(f, &pred, floor)
	}
	return out
}

// resolverFor picks how destination display paths become real directories.
// Previews only expand the path so decisions show even for folders that do
// not exist yet; applying creates them on demand.
func resolverFor(baseDir string, apply bool) engine.DestinationResolver {
	if apply {
		return organizer.FolderResolver{BaseDir: baseDir, Create: true}
	}
	return engine.ResolverFunc(func(displayPath string) (string, error) {
		expanded := config.ExpandPath(displayPath)
		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(baseDir, expanded)
		}
		return expanded, nil
	})
}

func printDecisions(files []model.File) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tDESTINATION\tCONF\tREASON")
	for _, f := range files {
		if f.Status != model.StatusReady || f.Destination == nil {
			fmt.Fprintf(w, "%s\t%s\t\t\n", truncateString(f.Name, 40), "(no match)")
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%.0f%%\t%s\n",
			truncateString(f.Name, 40),
			f.Destination.Display(),
			f.Confidence*100,
			truncateString(f.MatchReason, 50))
	}
	_ = w.Flush()
}
