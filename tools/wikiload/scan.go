package main

import (
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dump.xml]",
	Short: "Scan a dump and count its pages without storing anything",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ingest(cmd.Context(), nil)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
