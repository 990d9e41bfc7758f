package drift

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// LID estimates the local intrinsic dimensionality around a query from its
// neighbor distances, which must be sorted ascending. It uses the maximum
// likelihood form
//
//	LID = -1 / mean_j(log(d_j / (d_k + eps) + eps)),  j < k
//
// where d_k is the farthest distance. Fewer than two distances leave no
// ratios to average and yield NaN.
func LID(distances []float64, eps float64) float64 {
	k := len(distances)
	if k < 2 {
		return math.NaN()
	}
	dk := distances[k-1] + eps
	logs := floats.ScaleTo(make([]float64, k-1), 1/dk, distances[:k-1])
	floats.AddConst(eps, logs)
	for j, r := range logs {
		logs[j] = math.Log(r)
	}
	return -1 / stat.Mean(logs, nil)
}

// LIDs returns the LID estimate of every row of distances.
func LIDs(distances mat.Matrix, eps float64) ([]float64, error) {
	rows, cols := dims(distances)
	if rows == 0 {
		return nil, ErrEmptyBatch
	}
	if cols < 2 {
		return nil, fmt.Errorf("%w: LID needs at least 2 neighbors, got %d", ErrInvalidK, cols)
	}
	buf := make([]float64, cols)
	lids := make([]float64, rows)
	for i := 0; i < rows; i++ {
		lids[i] = LID(mat.Row(buf, i, distances), eps)
	}
	return lids, nil
}

// LIDStats compares per-query LID of exact and approximate neighborhoods.
// The difference is taken as approximate minus exact.
func LIDStats(exact, ann mat.Matrix, eps float64) (LIDSummary, error) {
	if _, _, err := samePairShape(exact, ann); err != nil {
		return LIDSummary{}, fmt.Errorf("lid: %w", err)
	}
	lidsExact, err := LIDs(exact, eps)
	if err != nil {
		return LIDSummary{}, fmt.Errorf("lid: exact: %w", err)
	}
	lidsANN, err := LIDs(ann, eps)
	if err != nil {
		return LIDSummary{}, fmt.Errorf("lid: ann: %w", err)
	}

	diff := make([]float64, len(lidsExact))
	for i := range diff {
		diff[i] = lidsANN[i] - lidsExact[i]
	}
	meanDiff, stdDiff := stat.PopMeanStdDev(diff, nil)

	return LIDSummary{
		MeanDiff:  meanDiff,
		StdDiff:   stdDiff,
		MeanExact: stat.Mean(lidsExact, nil),
		MeanANN:   stat.Mean(lidsANN, nil),
	}, nil
}
