package main

import (
	"github.com/spf13/cobra"

	"github.com/dustin/go-wikilinks/store/elastic"
)

var esCmd = &cobra.Command{
	Use:   "es [dump.xml]",
	Short: "Load pages into an elasticsearch index",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := elastic.Open(cfg.ElasticURL, cfg.ElasticIndex)
		defer s.Close()
		return ingest(cmd.Context(), s)
	},
}

func init() {
	esCmd.Flags().StringVar(&cfg.ElasticURL, "es", cfg.ElasticURL, "ElasticSearch URL")
	esCmd.Flags().StringVar(&cfg.ElasticIndex, "index", cfg.ElasticIndex, "Index to load into")
	rootCmd.AddCommand(esCmd)
}
