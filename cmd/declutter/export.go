package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quietfile/declutter/internal/cli"
	"github.com/quietfile/declutter/internal/common"
	"github.com/quietfile/declutter/internal/config"
	"github.com/quietfile/declutter/internal/service"
	"github.com/quietfile/declutter/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export activity reports",
	}
	cmd.AddCommand(exportSheetsCmd())
	cmd.AddCommand(exportAuthCmd())
	return cmd
}

func exportSheetsCmd() *cobra.Command {
	var sinceDays int

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Export an activity report to Google Sheets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filter := service.ActivityFilter{}
			if sinceDays > 0 {
				since := time.Now().AddDate(0, 0, -sinceDays)
				filter.Since = &since
			}
			activities, err := store.GetActivities(ctx, filter)
			if err != nil {
				return err
			}
			if len(activities) == 0 {
				return common.NewUserError(common.ErrNoActivities, "nothing to export: no activities recorded")
			}

			cfg := sheetsConfig()
			if err := cfg.Validate(); err != nil {
				return common.NewUserError(common.ErrInvalidConfig, err.Error())
			}
			writer, err := sheets.NewWriter(ctx, cfg, slog.Default())
			if err != nil {
				return err
			}
			if err := writer.Write(ctx, activities, sheets.Summarize(activities)); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d activities", len(activities))))
			return nil
		},
	}

	cmd.Flags().IntVar(&sinceDays, "since", 0, "only export activities from the last N days")
	return cmd
}

func exportAuthCmd() *cobra.Command {
	var tokenFile string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize declutter to write to Google Sheets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := sheetsConfig()
			if cfg.ClientID == "" || cfg.ClientSecret == "" {
				return common.NewUserError(common.ErrMissingConfig,
					"set sheets.client_id and sheets.client_secret (or the GOOGLE_SHEETS_* environment variables) first")
			}

			_, err := sheets.AuthenticateInteractive(cmd.Context(), sheets.OAuth2Config{
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
				TokenFile:    config.ExpandPath(tokenFile),
			})
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Authorization complete"))
			return nil
		},
	}

	cmd.Flags().StringVar(&tokenFile, "token-file", "$HOME/.config/declutter/sheets-token.json", "where to store the OAuth2 token")
	return cmd
}

// sheetsConfig layers config-file keys over environment variables over the
// defaults.
func sheetsConfig() sheets.Config {
	cfg := sheets.DefaultConfig()
	cfg.LoadFromEnv()

	set := func(key string, target *string) {
		if viper.IsSet(key) {
			*target = viper.GetString(key)
		}
	}
	set("sheets.client_id", &cfg.ClientID)
	set("sheets.client_secret", &cfg.ClientSecret)
	set("sheets.refresh_token", &cfg.RefreshToken)
	set("sheets.service_account_path", &cfg.ServiceAccountPath)
	set("sheets.spreadsheet_id", &cfg.SpreadsheetID)
	set("sheets.spreadsheet_name", &cfg.SpreadsheetName)
	return cfg
}
