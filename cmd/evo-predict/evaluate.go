package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/namesty/evo.predict/internal/evaluate"
	"github.com/namesty/evo.predict/internal/llm"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate QUESTION",
	Short: "Judge whether a market question is predictable",
	Long: `Evaluate asks the configured language model whether the question is fully
qualified: specific, about a future event, with a time frame and a yes/no
answer. No research is performed.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().Bool("json", false, "output the evaluation as JSON")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx := cmd.Context()

	model, err := llm.New(ctx, cfg.AI)
	if err != nil {
		return err
	}
	ev, err := (&evaluate.LLMEvaluator{Model: model, Temperature: cfg.AI.Temperature}).Evaluate(ctx, args[0])
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ev)
	}
	fmt.Printf("Predictable: %t\n", ev.IsPredictable.Answer)
	if ev.IsPredictable.Reasoning != "" {
		fmt.Printf("Reasoning:   %s\n", ev.IsPredictable.Reasoning)
	}
	return nil
}
