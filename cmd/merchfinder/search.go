package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"merchfinder/internal/domain"
)

var (
	searchMaxResults int
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a one-shot merchandise search and print the results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.close()

		query := strings.Join(args, " ")

		ctx, cancel := context.WithTimeout(context.Background(), app.cfg.SearchTimeout)
		defer cancel()

		result, err := app.coordinator.Search(ctx, query, searchMaxResults)
		if err != nil {
			return err
		}

		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		printResultTable(result)
		return nil
	},
}

func printResultTable(result *domain.SearchResult) {
	fmt.Println(result.Summary)
	if len(result.Products) == 0 {
		return
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPRICE\tAVAILABILITY\tSOURCE\tURL")
	for _, p := range result.Products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.Name, p.Price.Formatted, p.Availability, p.Source, p.URL)
	}
	w.Flush()

	fmt.Printf("\n%d of %d results, sources: %s\n",
		len(result.Products), result.TotalFound, strings.Join(result.Sources, ", "))
}

func init() {
	searchCmd.Flags().IntVar(&searchMaxResults, "max-results", 0, "maximum number of products to return (0 uses the configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the full search result as JSON")
	rootCmd.AddCommand(searchCmd)
}
