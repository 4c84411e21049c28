package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/quietfile/declutter/internal/cli"
	"github.com/quietfile/declutter/internal/model"
	"github.com/quietfile/declutter/internal/service"
)

func activitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Inspect the append-only activity log",
	}
	cmd.AddCommand(activitiesListCmd())
	cmd.AddCommand(activitiesLogCmd())
	return cmd
}

func activitiesListCmd() *cobra.Command {
	var (
		sinceDays int
		types     []string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded activities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filter := service.ActivityFilter{Limit: limit}
			if sinceDays > 0 {
				since := time.Now().AddDate(0, 0, -sinceDays)
				filter.Since = &since
			}
			for _, t := range types {
				filter.Types = append(filter.Types, model.ActivityType(t))
			}

			activities, err := store.GetActivities(ctx, filter)
			if err != nil {
				return err
			}
			if len(activities) == 0 {
				fmt.Println(cli.FormatWarning("No activities recorded yet."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tTYPE\tFILE\tDETAILS")
			for _, a := range activities {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					a.Timestamp.Format("2006-01-02 15:04"),
					a.Type,
					truncateString(a.FileName, 32),
					truncateString(a.Details, 50))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&sinceDays, "since", 0, "only show activities from the last N days")
	cmd.Flags().StringSliceVar(&types, "type", nil, "only show these activity types (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 0, "cap the number of activities shown")
	return cmd
}

// activitiesLogCmd records an action performed outside declutter, so manual
// organizing still feeds the learner.
func activitiesLogCmd() *cobra.Command {
	var (
		activityType string
		dest         string
	)

	cmd := &cobra.Command{
		Use:   "log <file-name>",
		Short: "Record a manual organization action",
		Example: `  declutter activities log invoice-march.pdf --dest "Documents/Invoices"
  declutter activities log old-draft.txt --type skipped --dest "Documents/Drafts"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if dest == "" {
				return fmt.Errorf("--dest is required")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			name := args[0]
			details := fmt.Sprintf("Moved to %s", dest)
			if model.ActivityType(activityType) == model.ActivitySkipped {
				details = fmt.Sprintf("Skipped suggestion for %s", dest)
			}

			record := model.ActivityRecord{
				Type:          model.ActivityType(activityType),
				FileName:      name,
				FileExtension: strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")),
				Details:       details,
				Timestamp:     time.Now(),
			}
			if err := store.AppendActivity(ctx, &record); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s for %s", record.Type, name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&activityType, "type", string(model.ActivityOrganized), "activity type (organized, moved, copied, skipped, deleted)")
	cmd.Flags().StringVar(&dest, "dest", "", "destination folder the file went to (or was suggested)")
	return cmd
}
