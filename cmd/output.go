package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cooper-rm/NeighbourhoodDriftInImageEmbeddings/core/config"
	"github.com/cooper-rm/NeighbourhoodDriftInImageEmbeddings/core/drift"
	"github.com/cooper-rm/NeighbourhoodDriftInImageEmbeddings/core/evaluation"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// palette holds the escape codes used for one writer; all empty when the
// writer is not a terminal.
type palette struct {
	reset, yellow, cyan, gray, bold string
}

func paletteFor(w io.Writer) palette {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return palette{colorReset, colorYellow, colorCyan, colorGray, colorBold}
	}
	return palette{}
}

// =============================================================================
// Output Formatting
// =============================================================================

func writeReport(w io.Writer, report *evaluation.Report, format string) error {
	switch format {
	case config.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			var unsupported *json.UnsupportedValueError
			if errors.As(err, &unsupported) {
				return fmt.Errorf("%w (non-finite statistics need --format yaml)", err)
			}
			return err
		}
		return nil
	case config.FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return err
		}
		return encoder.Close()
	default:
		writeTextReport(w, report)
		return nil
	}
}

func writeTextReport(w io.Writer, r *evaluation.Report) {
	p := paletteFor(w)

	fmt.Fprintf(w, "%s%sNeighbourhood Drift Report%s\n", p.bold, p.cyan, p.reset)
	fmt.Fprintf(w, "%sRun:%s     %s\n", p.gray, p.reset, r.ID)
	fmt.Fprintf(w, "%sQueries:%s %d  %sk:%s %d\n", p.gray, p.reset, r.Queries, p.gray, p.reset, r.K)
	fmt.Fprintln(w)

	writeSummary(w, p, evaluation.MetricOverlap, r.Overlap)
	writeSummary(w, p, evaluation.MetricDistanceDivergence, r.DistanceDivergence)
	writeSummary(w, p, evaluation.MetricBarycenter, r.Barycenter)
	if r.LID != nil {
		fmt.Fprintf(w, "%s%-20s%s mean_diff %.6f  std_diff %.6f  exact %.6f  ann %.6f\n",
			p.yellow, evaluation.MetricLID, p.reset,
			r.LID.MeanDiff, r.LID.StdDiff, r.LID.MeanExact, r.LID.MeanANN)
	}

	if r.PerQuery != nil {
		fmt.Fprintln(w)
		writePerQuery(w, p, r.PerQuery, r.Queries)
	}
}

func writeSummary(w io.Writer, p palette, name string, s *drift.Summary) {
	if s == nil {
		return
	}
	fmt.Fprintf(w, "%s%-20s%s mean %.6f  std %.6f\n", p.yellow, name, p.reset, s.Mean, s.Std)
}

func writePerQuery(w io.Writer, p palette, pq *evaluation.PerQuery, queries int) {
	columns := []struct {
		name   string
		values []float64
	}{
		{"overlap", pq.Overlap},
		{"divergence", pq.DistanceDivergence},
		{"barycenter", pq.Barycenter},
		{"lid_exact", pq.LIDExact},
		{"lid_ann", pq.LIDANN},
	}

	fmt.Fprintf(w, "%s%6s", p.bold, "query")
	for _, c := range columns {
		if c.values != nil {
			fmt.Fprintf(w, " %12s", c.name)
		}
	}
	fmt.Fprintf(w, "%s\n", p.reset)

	for i := 0; i < queries; i++ {
		fmt.Fprintf(w, "%6d", i)
		for _, c := range columns {
			if c.values != nil {
				fmt.Fprintf(w, " %12.6f", c.values[i])
			}
		}
		fmt.Fprintln(w)
	}
}
