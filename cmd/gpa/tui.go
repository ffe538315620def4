package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/cli"
	"github.com/PROGPA/gpacalculaters/internal/common"
	"github.com/PROGPA/gpacalculaters/internal/session"
	"github.com/PROGPA/gpacalculaters/internal/tui"
	"github.com/PROGPA/gpacalculaters/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui [calculator]",
		Short: "Edit a calculator session in the terminal",
		Long: `Open the terminal editor. Scores recalculate on every keystroke.

Start a fresh session of a calculator (college by default) or open a saved one with
--session. Saved sessions are written back with ctrl+s.`,
		Example: `  gpa tui final-grade
  gpa tui --session fall-2024 --theme mocha`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTUI,
	}

	cmd.Flags().String("session", "", "open a saved session")
	cmd.Flags().String("theme", "", "color theme (default, mocha)")
	cmd.Flags().Bool("no-help", false, "hide the key help")
	addParamFlags(cmd)
	_ = viper.BindPFlag("tui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ref, _ := cmd.Flags().GetString("session")
	noHelp, _ := cmd.Flags().GetBool("no-help")

	theme, err := themes.ByName(viper.GetString("tui.theme"))
	if err != nil {
		return common.NewUserError("unknown theme", err)
	}

	kind := calculator.College
	if len(args) == 1 {
		if kind, err = calculator.ParseKind(args[0]); err != nil {
			return err
		}
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var s *session.Session
	if ref != "" {
		if s, err = store.FindSession(ctx, ref); err != nil {
			return err
		}
		if kind, err = sessionKind(s); err != nil {
			return err
		}
	}
	params, err := paramsFromFlags(cmd, kind)
	if err != nil {
		return err
	}

	opts := []tui.Option{
		tui.WithKind(kind),
		tui.WithParams(params),
		tui.WithTheme(theme),
		tui.WithStorage(store),
		tui.WithHelp(!noHelp),
	}
	if s != nil {
		opts = append(opts, tui.WithSession(s))
	}

	final, dirty, err := tui.Run(ctx, opts...)
	if err != nil && !errors.Is(err, ctx.Err()) {
		return err
	}
	if final == nil {
		return nil
	}

	w := cmd.OutOrStdout()
	if dirty {
		slog.Debug("Editor closed with unsaved changes", "session", final.ID)
		if _, err := fmt.Fprintln(w, cli.FormatWarning("Closed with unsaved changes.")); err != nil {
			return err
		}
	}
	return renderSession(cmd, final, params)
}
