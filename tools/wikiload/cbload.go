package main

import (
	"github.com/spf13/cobra"

	"github.com/dustin/go-wikilinks/store/couchbase"
)

var couchbaseCmd = &cobra.Command{
	Use:   "couchbase [dump.xml]",
	Short: "Load pages into a couchbase bucket",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := couchbase.Open(cfg.CouchbaseURL, cfg.CouchbaseBucket)
		if err != nil {
			return err
		}
		defer s.Close()
		return ingest(cmd.Context(), s)
	},
}

func init() {
	couchbaseCmd.Flags().StringVar(&cfg.CouchbaseURL, "couchbase", cfg.CouchbaseURL, "Couchbase URL")
	couchbaseCmd.Flags().StringVar(&cfg.CouchbaseBucket, "bucket", cfg.CouchbaseBucket, "Couchbase bucket")
	rootCmd.AddCommand(couchbaseCmd)
}
