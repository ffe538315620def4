package main

import (
	"fmt"
	"log/slog"

	"github.com/PROGPA/gpacalculaters/internal/cli"
	"github.com/PROGPA/gpacalculaters/internal/config"
	"github.com/PROGPA/gpacalculaters/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the session database schema to the latest version.

Every command that touches the database migrates on open; this command does it
explicitly and reports the schema version.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	dbPath := config.DatabasePath()
	ctx := cmd.Context()

	slog.Debug("Starting database migration", "database", dbPath, "status_only", status)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	before, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if status {
		if _, err := fmt.Fprintf(w, "%s\nDatabase: %s\nCurrent version: %d\nLatest version: %d\n",
			cli.FormatTitle("Database Migration Status"), dbPath, before, storage.ExpectedSchemaVersion); err != nil {
			return err
		}
		if before < storage.ExpectedSchemaVersion {
			return nil
		}
		stats, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "Sessions: %d\nGroups: %d\nEntries: %d\n",
			stats["sessions"], stats["session_groups"], stats["session_entries"])
		return err
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	after, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if after == before {
		_, err = fmt.Fprintln(w, cli.FormatInfo(fmt.Sprintf("Database already at version %d", after)))
		return err
	}
	_, err = fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Database migrated from version %d to %d", before, after)))
	return err
}
