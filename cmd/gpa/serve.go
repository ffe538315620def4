package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/PROGPA/gpacalculaters/internal/api"
	"github.com/PROGPA/gpacalculaters/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators as a JSON API",
		Long: `Serve the calculators over HTTP.

  GET  /                    health
  GET  /v1/kinds            calculators and their labels
  GET  /v1/scales/:mode     grade reference tables
  POST /v1/calculate/:kind  run a calculator
  POST /v1/targets/final    score needed on a final exam
  POST /v1/targets/future   average needed over future credits
  POST /v1/convert          10 point CGPA to the 4.0 scale

With --sessions the saved sessions are served under /v1/sessions as well.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default from server.address)")
	cmd.Flags().Bool("sessions", false, "expose saved sessions under /v1/sessions")
	cmd.Flags().Bool("quiet", false, "do not log requests")
	cmd.Flags().Bool("debug", false, "return internal error details")
	_ = viper.BindPFlag("server.address", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	exposeSessions, _ := cmd.Flags().GetBool("sessions")
	quiet, _ := cmd.Flags().GetBool("quiet")
	debug, _ := cmd.Flags().GetBool("debug")

	opts := &api.Options{
		Address:        viper.GetString("server.address"),
		Version:        version,
		DisableReqLogs: quiet,
		Debug:          debug,
	}
	if exposeSessions {
		store, err := initStorage(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		opts.Storage = store
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Server")
	ctx := handler.HandleInterrupts(cmd.Context(), "")

	srv := api.NewServer(opts)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errCh
}
