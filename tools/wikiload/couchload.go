package main

import (
	"github.com/spf13/cobra"

	"github.com/dustin/go-wikilinks/store/couchdb"
)

var couchdbCmd = &cobra.Command{
	Use:   "couchdb [dump.xml]",
	Short: "Load pages into a couchdb database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := couchdb.Open(cfg.CouchDBURL)
		if err != nil {
			return err
		}
		return ingest(cmd.Context(), s)
	},
}

func init() {
	couchdbCmd.Flags().StringVar(&cfg.CouchDBURL, "couchdb", cfg.CouchDBURL, "CouchDB database URL")
	rootCmd.AddCommand(couchdbCmd)
}
