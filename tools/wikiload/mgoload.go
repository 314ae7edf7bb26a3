package main

import (
	"github.com/spf13/cobra"

	"github.com/dustin/go-wikilinks/store/mongo"
)

var mongoCmd = &cobra.Command{
	Use:   "mongo [dump.xml]",
	Short: "Load pages into a mongodb collection",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := mongo.Open(cfg.MongoURL, cfg.MongoDB, cfg.MongoCollection)
		if err != nil {
			return err
		}
		defer s.Close()
		return ingest(cmd.Context(), s)
	},
}

func init() {
	f := mongoCmd.Flags()
	f.StringVar(&cfg.MongoURL, "dburl", cfg.MongoURL, "The dburl(s). I.e. localhost.")
	f.StringVar(&cfg.MongoDB, "dbname", cfg.MongoDB, "The database name to use.")
	f.StringVar(&cfg.MongoCollection, "collection", cfg.MongoCollection, "The collection to store dumped articles in.")
	rootCmd.AddCommand(mongoCmd)
}
