package drift

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Divergences returns, per query, the signed relative change of the mean
// neighbor distance: (mean_ann - mean_exact) / (mean_exact + Epsilon).
// An all-zero exact row yields a large finite value instead of a division
// by zero.
func Divergences(exact, ann mat.Matrix) ([]float64, error) {
	rows, cols, err := samePairShape(exact, ann)
	if err != nil {
		return nil, err
	}

	buf := make([]float64, cols)
	divergences := make([]float64, rows)
	for i := 0; i < rows; i++ {
		meanExact := rowMean(exact, i, buf)
		meanANN := rowMean(ann, i, buf)
		divergences[i] = (meanANN - meanExact) / (meanExact + Epsilon)
	}
	return divergences, nil
}

// DistanceDivergenceStats returns the mean and standard deviation of the
// per-query distance divergence.
func DistanceDivergenceStats(exact, ann mat.Matrix) (Summary, error) {
	divergences, err := Divergences(exact, ann)
	if err != nil {
		return Summary{}, fmt.Errorf("distance divergence: %w", err)
	}
	return Summarize(divergences)
}
