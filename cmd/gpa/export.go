package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/cli"
	"github.com/PROGPA/gpacalculaters/internal/common"
	"github.com/PROGPA/gpacalculaters/internal/config"
	"github.com/PROGPA/gpacalculaters/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newReportWriter opens the spreadsheet writer used by export.
var newReportWriter = func(ctx context.Context, cfg sheets.Config) (sheets.ReportWriter, error) {
	return sheets.NewWriter(ctx, cfg, slog.Default())
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <session>",
		Short: "Export a session's report to Google Sheets",
		Long: `Export a saved session's report to Google Sheets: a summary, one row per group
and every entry.

Authenticate with a service account (sheets.service_account_path) or OAuth2
(sheets.client_id, sheets.client_secret and a refresh token). Run with --login once to
obtain the refresh token in the browser.`,
		Example: `  gpa export fall-2024 --login
  gpa export fall-2024 --spreadsheet-id 1AbC...`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().Bool("login", false, "run the OAuth2 browser flow before exporting")
	cmd.Flags().String("spreadsheet-id", "", "write into an existing spreadsheet")
	cmd.Flags().String("spreadsheet-name", "", "title of a newly created spreadsheet")
	addParamFlags(cmd)

	_ = viper.BindPFlag("sheets.spreadsheet_id", cmd.Flags().Lookup("spreadsheet-id"))
	_ = viper.BindPFlag("sheets.spreadsheet_name", cmd.Flags().Lookup("spreadsheet-name"))

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	login, _ := cmd.Flags().GetBool("login")

	path, err := config.TokenFile()
	if err != nil {
		return err
	}
	if login {
		if err := loginSheets(cmd, path); err != nil {
			return err
		}
	} else if viper.GetString("sheets.refresh_token") == "" {
		if token, err := sheets.LoadToken(path); err == nil && token.RefreshToken != "" {
			viper.Set("sheets.refresh_token", token.RefreshToken)
		}
	}

	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		if errors.Is(err, sheets.ErrNoAuth) {
			return common.NewUserError("Google Sheets is not configured; set sheets.service_account_path or run with --login", err)
		}
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	s, err := store.FindSession(ctx, args[0])
	if err != nil {
		return err
	}
	kind, err := sessionKind(s)
	if err != nil {
		return err
	}
	params, err := paramsFromFlags(cmd, kind)
	if err != nil {
		return err
	}
	report, err := calculator.Evaluate(kind, s, params)
	if err != nil {
		return err
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Export")
	ctx = handler.HandleInterrupts(ctx, "The spreadsheet may be partially written.")

	writer, err := newReportWriter(ctx, *sheetsConfig)
	if err != nil {
		return err
	}
	if err := writer.Write(ctx, s, report); err != nil {
		if handler.WasInterrupted() {
			return nil
		}
		common.LogError(err, "Export failed", common.Fields{"session": s.Name, "calculator": kind})
		return fmt.Errorf("export failed: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %q to Google Sheets", s.Name)))
	return err
}

func loginSheets(cmd *cobra.Command, path string) error {
	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if clientID == "" || clientSecret == "" {
		return common.NewUserError("OAuth2 credentials not found; set sheets.client_id and sheets.client_secret", common.ErrMissingConfig)
	}

	slog.Info("Starting Google Sheets authentication", "token_file", path)
	token, err := sheets.AuthenticateOAuth2Interactive(cmd.Context(), sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    path,
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	viper.Set("sheets.refresh_token", token.RefreshToken)
	if viper.ConfigFileUsed() != "" {
		if err := viper.WriteConfig(); err != nil {
			slog.Warn("Failed to update config file with refresh token", "error", err)
		}
	}
	return nil
}
