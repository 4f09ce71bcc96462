package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/namesty/evo.predict/internal/cache"
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search the web through Tavily",
	Long: `Search sends the query to the Tavily search API and prints the results in
provider ranking order. Results are cached by query, result count and key.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("max-results", 0, "maximum number of results (default search.max_results)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults <= 0 {
		maxResults = cfg.Search.MaxResults
	}

	store := cache.New(cfg.Cache)
	defer store.Close()

	results, err := newSearcher(cfg, store).Search(cmd.Context(), args[0], maxResults)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for i, r := range results {
		fmt.Printf("%d. %s (%.2f)\n   %s\n", i+1, r.Title, r.Relevancy, r.URL)
		if r.Description != "" {
			fmt.Printf("   %s\n", r.Description)
		}
	}
	fmt.Fprintf(os.Stderr, "%d result(s)\n", len(results))
	return nil
}
