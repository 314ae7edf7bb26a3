package main

import (
	"github.com/spf13/cobra"

	"github.com/dustin/go-wikilinks/store/sqlite"
)

var sqliteCmd = &cobra.Command{
	Use:   "sqlite [dump.xml]",
	Short: "Load page titles into a sqlite database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sqlite.Open(cmd.Context(), cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer s.Close()
		return ingest(cmd.Context(), s)
	},
}

func init() {
	sqliteCmd.Flags().StringVar(&cfg.SQLitePath, "db", cfg.SQLitePath, "Path to the sqlite database")
	rootCmd.AddCommand(sqliteCmd)
}
