package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/namesty/evo.predict/internal/cache"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape URL",
	Short: "Fetch a page and print its cleaned text",
	Long: `Scrape fetches the URL with a browser-like User-Agent, removes scripts,
styles and images, and prints the remaining text with whitespace collapsed.
Pages that cannot be fetched or are not HTML print nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		store := cache.New(cfg.Cache)
		defer store.Close()

		text := newScraper(cfg, store).Scrape(cmd.Context(), args[0])
		if text == "" {
			fmt.Fprintln(os.Stderr, "no content")
			return nil
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}
