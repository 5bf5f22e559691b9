package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "momentctl",
	Short: "Inspect and publish moment collections",
	Long: `momentctl evaluates filter queries against a collection snapshot,
converts stored filters to query strings and publishes snapshots to the
finder service.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", os.Getenv("CONFIG_FILE"), "path to the YAML configuration")
	rootCmd.PersistentFlags().String("scope", "swap", "filtering scope")
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(publishCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
