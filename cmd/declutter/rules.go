package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/quietfile/declutter/internal/cli"
	"github.com/quietfile/declutter/internal/common"
	"github.com/quietfile/declutter/internal/model"
	"github.com/quietfile/declutter/internal/overlap"
	"github.com/quietfile/declutter/internal/service"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage classification rules",
	}
	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesShowCmd())
	cmd.AddCommand(rulesAddCmd())
	cmd.AddCommand(rulesEnableCmd(true))
	cmd.AddCommand(rulesEnableCmd(false))
	cmd.AddCommand(rulesDeleteCmd())
	cmd.AddCommand(rulesCheckCmd())
	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all rules in priority order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rules, err := store.GetRules(ctx)
			if err != nil {
				return err
			}
			if len(rules) == 0 {
				fmt.Println(cli.FormatWarning("No rules defined yet. Try `declutter rules add` or `declutter learn`."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPRI\tNAME\tACTION\tDESTINATION\tENABLED")
			for _, r := range model.SortRules(rules) {
				enabled := cli.SuccessIcon
				if !r.IsEnabled {
					enabled = cli.ErrorIcon
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
					shortID(r.ID), r.SortOrder, truncateString(r.Name, 32),
					r.Action, ruleDestination(r), enabled)
			}
			return w.Flush()
		},
	}
}

func rulesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <rule-id>",
		Short: "Show one rule in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rule, err := resolveRule(ctx, store, args[0])
			if err != nil {
				return err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "ID:          %s\n", rule.ID)
			fmt.Fprintf(&b, "Action:      %s\n", rule.Action)
			fmt.Fprintf(&b, "Destination: %s\n", ruleDestination(*rule))
			fmt.Fprintf(&b, "Priority:    %d\n", rule.SortOrder)
			fmt.Fprintf(&b, "Enabled:     %t\n", rule.IsEnabled)
			if rule.CategoryID != "" {
				fmt.Fprintf(&b, "Category:    %s\n", rule.CategoryID)
			}
			fmt.Fprintf(&b, "Matches:     %s\n", rule.MatchReason())
			for _, e := range rule.Exclusions {
				fmt.Fprintf(&b, "Unless:      %s\n", e.Describe())
			}
			fmt.Println(cli.RenderBox(rule.Name, strings.TrimRight(b.String(), "\n")))
			return nil
		},
	}
}

func rulesAddCmd() *cobra.Command {
	var (
		name       string
		ext        string
		startsWith string
		contains   string
		endsWith   string
		olderThan  int
		largerThan int64
		kind       string
		location   string
		anyOf      bool
		action     string
		dest       string
		category   string
		priority   int
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a classification rule",
		Example: `  declutter rules add --name "Invoices" --ext pdf --contains invoice --dest "Documents/Invoices"
  declutter rules add --name "Stale downloads" --older-than 30 --location downloads --action delete`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var conditions []model.Condition
			if ext != "" {
				conditions = append(conditions, model.ExtensionEquals(strings.TrimPrefix(ext, ".")))
			}
			if startsWith != "" {
				conditions = append(conditions, model.NameStartsWith(startsWith))
			}
			if contains != "" {
				conditions = append(conditions, model.NameContains(contains))
			}
			if endsWith != "" {
				conditions = append(conditions, model.NameEndsWith(endsWith))
			}
			if olderThan > 0 {
				conditions = append(conditions, model.OlderThan(olderThan, ""))
			}
			if largerThan > 0 {
				conditions = append(conditions, model.LargerThan(largerThan))
			}
			if kind != "" {
				conditions = append(conditions, model.KindEquals(kind))
			}
			if location != "" {
				conditions = append(conditions, model.FromLocation(model.LocationKind(location)))
			}
			if len(conditions) == 0 {
				return fmt.Errorf("at least one condition flag is required")
			}

			combinator := model.CombinatorSingle
			if len(conditions) > 1 {
				combinator = model.CombinatorAnd
				if anyOf {
					combinator = model.CombinatorOr
				}
			}

			var destination *model.Destination
			if model.RuleAction(action) != model.ActionDelete {
				if dest == "" {
					return fmt.Errorf("--dest is required for %s rules", action)
				}
				d := model.UnresolvedFolder(dest)
				destination = &d
			}

			rule := model.NewRule(name, conditions, combinator, model.RuleAction(action), destination)
			rule.CategoryID = category
			rule.SortOrder = priority
			if err := rule.Validate(); err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			existing, err := store.GetRules(ctx)
			if err != nil {
				return err
			}
			categories, err := store.GetCategories(ctx)
			if err != nil {
				return err
			}

			overlaps := overlap.NewDetector(categories).DetectOverlaps(rule, existing, "")
			if blocked := printOverlaps(overlaps); blocked && !force {
				return common.NewUserError(common.ErrDuplicateEntry,
					"rule duplicates an existing rule; use --force to add it anyway")
			}

			if err := store.CreateRule(ctx, &rule); err != nil {
				return err
			}
			recordRuleActivity(ctx, store, model.ActivityRuleCreated, rule)
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added rule %q (%s)", rule.Name, shortID(rule.ID))))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "rule name (required)")
	cmd.Flags().StringVar(&ext, "ext", "", "match files with this extension")
	cmd.Flags().StringVar(&startsWith, "starts-with", "", "match file names starting with this prefix")
	cmd.Flags().StringVar(&contains, "contains", "", "match file names containing this text")
	cmd.Flags().StringVar(&endsWith, "ends-with", "", "match file names ending with this suffix")
	cmd.Flags().IntVar(&olderThan, "older-than", 0, "match files created more than N days ago")
	cmd.Flags().Int64Var(&largerThan, "larger-than", 0, "match files larger than N bytes")
	cmd.Flags().StringVar(&kind, "kind", "", "match files of a semantic kind (image, document, archive, ...)")
	cmd.Flags().StringVar(&location, "location", "", "match files found in a location (downloads, desktop, documents, external)")
	cmd.Flags().BoolVar(&anyOf, "any", false, "match when any condition holds instead of all")
	cmd.Flags().StringVar(&action, "action", string(model.ActionMove), "move, copy, or delete")
	cmd.Flags().StringVar(&dest, "dest", "", "destination folder (required unless --action delete)")
	cmd.Flags().StringVar(&category, "category", "", "category ID that scopes this rule")
	cmd.Flags().IntVar(&priority, "priority", 0, "sort order; lower runs first")
	cmd.Flags().BoolVar(&force, "force", false, "add the rule even if it duplicates an existing one")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func rulesEnableCmd(enable bool) *cobra.Command {
	use, short := "enable <rule-id>", "Enable a rule"
	if !enable {
		use, short = "disable <rule-id>", "Disable a rule without deleting it"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rule, err := resolveRule(ctx, store, args[0])
			if err != nil {
				return err
			}
			if err := store.SetRuleEnabled(ctx, rule.ID, enable); err != nil {
				return err
			}
			state := "enabled"
			if !enable {
				state = "disabled"
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Rule %q %s", rule.Name, state)))
			return nil
		},
	}
}

func rulesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <rule-id>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rule, err := resolveRule(ctx, store, args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteRule(ctx, rule.ID); err != nil {
				return err
			}
			recordRuleActivity(ctx, store, model.ActivityRuleDeleted, *rule)
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted rule %q", rule.Name)))
			return nil
		},
	}
}

func rulesCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <rule-id>",
		Short: "Report overlaps between one rule and the rest of the rule set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rule, err := resolveRule(ctx, store, args[0])
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

			overlaps := overlap.NewDetector(categories).DetectOverlaps(*rule, existing, rule.ID)
			if len(overlaps) == 0 {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Rule %q does not overlap any other rule", rule.Name)))
				return nil
			}
			printOverlaps(overlaps)
			return nil
		},
	}
}

// printOverlaps prints each overlap as a warning and reports whether any of
// them is an exact duplicate.
func printOverlaps(overlaps []overlap.Overlap) bool {
	blocked := false
	for _, o := range overlaps {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%s: %s", o.Kind, o.Detail)))
		if o.Kind == overlap.KindExactDuplicate {
			blocked = true
		}
	}
	return blocked
}

// recordRuleActivity appends a rule lifecycle entry to the activity log. A
// failed append is logged but never fails the command that changed the rule.
func recordRuleActivity(ctx context.Context, store service.Storage, typ model.ActivityType, rule model.Rule) {
	rec := model.ActivityRecord{
		Type:      typ,
		FileName:  rule.Name,
		Details:   rule.MatchReason(),
		Timestamp: time.Now(),
	}
	if err := store.AppendActivity(ctx, &rec); err != nil {
		slog.Warn("failed to record rule activity", "rule", rule.Name, "error", err)
	}
}

// resolveRule finds a rule by full ID or unambiguous ID prefix.
func resolveRule(ctx context.Context, store service.Storage, id string) (*model.Rule, error) {
	if rule, err := store.GetRule(ctx, id); err == nil {
		return rule, nil
	}

	rules, err := store.GetRules(ctx)
	if err != nil {
		return nil, err
	}
	var match *model.Rule
	for i := range rules {
		if strings.HasPrefix(rules[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("rule ID prefix %q is ambiguous", id)
			}
			match = &rules[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no rule matches %q", id)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func ruleDestination(r model.Rule) string {
	if r.Action == model.ActionDelete {
		return cli.TrashIcon + " Trash"
	}
	if r.Destination == nil {
		return "(none)"
	}
	return r.Destination.Display()
}
