package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/namesty/evo.predict/internal/cache"
	"github.com/namesty/evo.predict/internal/llm"
	"github.com/namesty/evo.predict/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research GOAL",
	Short: "Search, scrape and condense web evidence for a goal",
	Long: `Research searches the web for the goal, scrapes every result, and prints
the condensed evidence report. The raw strategy concatenates cleaned pages;
the embedding strategy retrieves the chunks most similar to the goal.`,
	Args: cobra.ExactArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().String("strategy", "", "research strategy: raw or embedding (overrides research.strategy)")
	researchCmd.Flags().Int("sub-queries", -1, "extra model-generated search queries (overrides research.sub_queries)")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if s, _ := cmd.Flags().GetString("strategy"); s != "" {
		cfg.Research.Strategy = s
	}
	if cmd.Flags().Changed("sub-queries") {
		cfg.Research.SubQueries, _ = cmd.Flags().GetInt("sub-queries")
	}
	if cfg.Search.APIKey == "" {
		return fmt.Errorf("search: %w (set TAVILY_API_KEY or .secrets/tavily-api-key)", types.ErrMissingKey)
	}

	ctx := cmd.Context()
	store := cache.New(cfg.Cache)
	defer store.Close()

	model, err := plannerModel(ctx, cfg)
	if err != nil {
		return err
	}
	r, err := newResearcher(ctx, cfg, store, model)
	if err != nil {
		return err
	}

	report, err := r.Research(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Strategy: %s, queries: %d, sources: %d\n",
		report.Metadata.Strategy, len(report.Metadata.Queries), len(report.Metadata.Sources))
	fmt.Println(report.Text)
	return nil
}

// plannerModel returns a model for query planning, or nil when planning is
// off.
func plannerModel(ctx context.Context, cfg types.Config) (llm.Model, error) {
	if cfg.Research.SubQueries <= 0 {
		return nil, nil
	}
	return llm.New(ctx, cfg.AI)
}
