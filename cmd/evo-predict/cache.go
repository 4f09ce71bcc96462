package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/namesty/evo.predict/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the call cache",
	Long: `Cache manages the SQLite database that stores search and fetch results.
Entries never expire; clear them when stale results matter.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cached entry counts per function",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cache.New(loadConfig().Cache)
		defer store.Close()

		st, err := store.Stats(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}

		fmt.Printf("Cache:   %s\n", st.Path)
		fmt.Printf("Entries: %d\n", st.Entries)
		fns := make([]string, 0, len(st.ByFunction))
		for fn := range st.ByFunction {
			fns = append(fns, fn)
		}
		sort.Strings(fns)
		for _, fn := range fns {
			fmt.Printf("  %-20s %d\n", fn, st.ByFunction[fn])
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		fn, _ := cmd.Flags().GetString("function")
		store := cache.New(loadConfig().Cache)
		defer store.Close()

		n, err := store.Clear(cmd.Context(), fn)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d entries\n", n)
		return nil
	},
}

func init() {
	cacheStatsCmd.Flags().Bool("json", false, "output statistics as JSON")
	cacheClearCmd.Flags().String("function", "", "only clear entries of this function (e.g. websearch.Search)")

	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
