package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quietfile/declutter/internal/cli"
	"github.com/quietfile/declutter/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage rule categories and their folder scopes",
	}
	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())
	cmd.AddCommand(categoriesEnableCmd(true))
	cmd.AddCommand(categoriesEnableCmd(false))
	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return err
			}
			if len(categories) == 0 {
				fmt.Println(cli.FormatWarning("No categories defined. Rules without a category apply everywhere."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSCOPE\tENABLED")
			for _, c := range categories {
				scope := "global"
				if !c.Scope.IsGlobal() {
					scope = strings.Join(c.Scope.Folders, ", ")
				}
				enabled := cli.SuccessIcon
				if !c.IsEnabled {
					enabled = cli.ErrorIcon
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					shortID(c.ID), c.Name, truncateString(scope, 50), enabled)
			}
			return w.Flush()
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	var folders []string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Long: `Adds a category. With --folder flags the category is scoped: rules in
it only apply to files under those folders. Without any, the category
is global.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			category := model.Category{
				Name:      args[0],
				Scope:     model.CategoryScope{Folders: folders},
				IsEnabled: true,
			}
			if err := store.CreateCategory(ctx, &category); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added category %q (%s)", category.Name, shortID(category.ID))))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&folders, "folder", nil, "folder this category is scoped to (repeatable)")
	return cmd
}

func categoriesEnableCmd(enable bool) *cobra.Command {
	use, short := "enable <category-id>", "Enable a category"
	if !enable {
		use, short = "disable <category-id>", "Disable a category and every rule scoped to it"
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

			if err := store.SetCategoryEnabled(ctx, args[0], enable); err != nil {
				return err
			}
			state := "enabled"
			if !enable {
				state = "disabled"
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Category %s %s", shortID(args[0]), state)))
			return nil
		},
	}
}
