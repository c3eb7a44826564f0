package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/storyfeed/internal/app"
)

// maintenanceTimeout bounds one-shot commands.
const maintenanceTimeout = 5 * time.Minute

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server.

Startup reconciles the definition documents with the registry, then serves
the listing page, story pages, the filter endpoint and the admin actions
until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), cfg)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), maintenanceTimeout)
			defer cancel()
			return app.Migrate(ctx, cfg)
		},
	}
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile definition documents with the registry",
		Long: `Reconcile definition documents with the registry once and print the
report as JSON. Per-document failures are printed after the report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), maintenanceTimeout)
			defer cancel()

			report, syncErr := app.SyncDefinitions(ctx, cfg)
			if err := printJSON(cmd, report); err != nil {
				return err
			}
			return syncErr
		},
	}
}

func newCheckSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-sync",
		Short: "List definition documents that differ from the registry",
		Long: `List definition documents that differ from the registry without
changing anything. Exits with code 2 when a sync is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), maintenanceTimeout)
			defer cancel()

			pending, err := app.CheckSync(ctx, cfg)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "definitions in sync")
				return nil
			}
			if err := printJSON(cmd, pending); err != nil {
				return err
			}
			return errSyncRequired
		},
	}
}

func newTokenCmd() *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			token, err := app.AdminToken(cfg, subject)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "operator name recorded in the token (required)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
