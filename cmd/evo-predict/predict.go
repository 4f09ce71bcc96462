// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/namesty/evo.predict/internal/agent"
	"github.com/namesty/evo.predict/pkg/types"
)

var predictCmd = &cobra.Command{
	Use:   "predict QUESTION [QUESTION...]",
	Short: "Evaluate, research and forecast market questions",
	Long: `Predict runs the full pipeline for each question: the predictability gate,
web research, and the model's probability estimate. A question that is not
predictable, or whose research or prediction fails, is reported with its
evaluation only.

Several questions run concurrently, bounded by agent.max_workers.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().String("format", "text", "output format: text, json or yaml")
	predictCmd.Flags().String("strategy", "", "research strategy: raw or embedding (overrides research.strategy)")
	predictCmd.Flags().Float64("temperature", -1, "model temperature in [0,1] (overrides ai.temperature)")

	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unsupported format %q: use text, json or yaml", format)
	}

	cfg := loadConfig()
	if s, _ := cmd.Flags().GetString("strategy"); s != "" {
		cfg.Research.Strategy = s
	}
	if cmd.Flags().Changed("temperature") {
		cfg.AI.Temperature, _ = cmd.Flags().GetFloat64("temperature")
	}

	ctx := cmd.Context()
	a, store, err := newAgent(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := a.PredictAll(ctx, args)
	if err != nil {
		return err
	}
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if err := writePredictions(os.Stdout, format, results); err != nil {
		return err
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d question(s) could not be evaluated\n", failed, len(results))
	}
	return nil
}

// predictionOutput is one question in json and yaml output.
type predictionOutput struct {
	types.Prediction `yaml:",inline"`
	Error            string `json:"error,omitempty" yaml:"error,omitempty"`
}

func writePredictions(w io.Writer, format string, results []agent.Result) error {
	switch format {
	case "json", "yaml":
		out := make([]predictionOutput, len(results))
		for i, r := range results {
			out[i].Prediction = r.Prediction
			if r.Err != nil {
				out[i].Error = r.Err.Error()
			}
		}
		if format == "yaml" {
			return yaml.NewEncoder(w).Encode(out)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		p := r.Prediction
		ev := p.QuestionEvaluation
		fmt.Fprintf(w, "Question:    %s\n", ev.Question)
		if r.Err != nil {
			fmt.Fprintf(w, "Error:       %v\n", r.Err)
			continue
		}
		fmt.Fprintf(w, "Predictable: %t\n", ev.IsPredictable.Answer)
		if ev.IsPredictable.Reasoning != "" {
			fmt.Fprintf(w, "Reasoning:   %s\n", ev.IsPredictable.Reasoning)
		}
		if !p.HasOutcome() {
			fmt.Fprintln(w, "Prediction:  none")
			continue
		}
		answer, _ := p.BinaryAnswer()
		fmt.Fprintf(w, "P(yes):      %.3f\n", p.CompletionPrediction.PYes)
		fmt.Fprintf(w, "P(no):       %.3f\n", p.CompletionPrediction.PNo())
		fmt.Fprintf(w, "Confidence:  %.3f\n", p.CompletionPrediction.Confidence)
		if p.InfoUtility != nil {
			fmt.Fprintf(w, "Info util.:  %.3f\n", *p.InfoUtility)
		}
		fmt.Fprintf(w, "Answer:      %s\n", yesNo(answer))
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
