// Package main is the entry point for the merchfinder binary: a one-shot
// CLI search and a long-running HTTP API over the same pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "merchfinder",
	Short: "Aggregated Formula 1 merchandise search across e-commerce sources",
	Long: `merchfinder scrapes several F1 merchandise storefronts in parallel for a
query term, normalizes the listings into one schema, and returns a
deduplicated, relevance-ranked result set.

Run 'merchfinder serve' for the HTTP API or 'merchfinder search <query>'
for a one-shot search from the terminal.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
