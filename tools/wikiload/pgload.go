package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dustin/go-wikilinks/store/postgres"
)

var pgCmd = &cobra.Command{
	Use:   "pg [dump.xml]",
	Short: "Load page titles into postgres",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.PGMaxConns)
		if err != nil {
			return err
		}
		defer s.Close()

		if cfg.Reset {
			slog.Warn("Dropping and recreating the pages table")
			err = s.Reset(ctx)
		} else {
			err = s.EnsureSchema(ctx)
		}
		if err != nil {
			return err
		}
		return ingest(ctx, s)
	},
}

func init() {
	pgCmd.Flags().StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Postgres connection string")
	pgCmd.Flags().IntVar(&cfg.PGMaxConns, "max-conns", cfg.PGMaxConns, "Maximum pool connections")
	pgCmd.Flags().BoolVar(&cfg.Reset, "reset", false, "Drop and recreate the pages table first")
	rootCmd.AddCommand(pgCmd)
}
