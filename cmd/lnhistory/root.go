package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lnhistory",
	Short: "lnhistory works with Lightning Network gossip history",
	Long: "lnhistory parses raw Lightning Network gossip messages, reads Core Lightning\n" +
		"gossip_store files, fetches historical network snapshots from the ln-history\n" +
		"API and diffs network state between two points in time.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
