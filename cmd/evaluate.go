package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cooper-rm/NeighbourhoodDriftInImageEmbeddings/core/config"
	"github.com/cooper-rm/NeighbourhoodDriftInImageEmbeddings/core/dataset"
	"github.com/cooper-rm/NeighbourhoodDriftInImageEmbeddings/core/evaluation"
	"github.com/spf13/cobra"
)

var errNoInput = errors.New("no input: set input.path in config or pass --input")

// =============================================================================
// Evaluate Command Flags
// =============================================================================

var (
	evalInput    string
	evalRun      string
	evalK        int
	evalMetrics  []string
	evalFormat   string
	evalPerQuery bool
)

// evaluateCmd represents the evaluate command.
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate ANN results against exact results",
	Long: `Evaluate approximate nearest-neighbor results against exact results.

Input is a YAML/JSON results document or a SQLite results database.

Examples:
  ndrift evaluate --input results.yaml
  ndrift evaluate --input bench.db --run hnsw-ef64 --format json
  ndrift evaluate -c base.yaml -c local.yaml --metrics 'lid,dist*'`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evalInput, "input", "i", "", "Results file (.yaml, .json) or database (.db)")
	evaluateCmd.Flags().StringVarP(&evalRun, "run", "r", "", "Run name inside a results database")
	evaluateCmd.Flags().IntVarP(&evalK, "k", "k", 0, "Neighborhood size (0 infers it from the input)")
	evaluateCmd.Flags().StringSliceVarP(&evalMetrics, "metrics", "m", nil, "Metric name globs: "+strings.Join(evaluation.AllMetrics, ", "))
	evaluateCmd.Flags().StringVarP(&evalFormat, "format", "f", "", "Output format (text, json, yaml)")
	evaluateCmd.Flags().BoolVar(&evalPerQuery, "per-query", false, "Include per-query values")
}

// =============================================================================
// Evaluate Execution
// =============================================================================

func runEvaluate(cmd *cobra.Command, args []string) error {
	s := applyEvaluateFlags(*settings)
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Input.Path == "" {
		return errNoInput
	}

	in, err := dataset.Load(cmd.Context(), s.Input.Path, s.Input.Run)
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}

	evaluator, err := evaluation.New(evaluation.Config{
		Metrics:  s.Metrics,
		Eps:      s.Eps,
		K:        s.K,
		PerQuery: s.Output.PerQuery,
		Logger:   slog.Default(),
	})
	if err != nil {
		return err
	}

	report, err := evaluator.Evaluate(in)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	return writeReport(cmd.OutOrStdout(), report, s.Output.Format)
}

// applyEvaluateFlags overlays non-zero command flags on a copy of the
// resolved settings.
func applyEvaluateFlags(s config.Settings) config.Settings {
	if evalInput != "" {
		s.Input.Path = evalInput
	}
	if evalRun != "" {
		s.Input.Run = evalRun
	}
	if evalK > 0 {
		s.K = evalK
	}
	if len(evalMetrics) > 0 {
		s.Metrics = evalMetrics
	}
	if evalFormat != "" {
		s.Output.Format = strings.ToLower(evalFormat)
	}
	if evalPerQuery {
		s.Output.PerQuery = true
	}
	return s
}
