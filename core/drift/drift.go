// Package drift measures how far approximate nearest-neighbor results drift
// from exact nearest-neighbor results.
//
// Every analyzer is a pure function over already materialised neighbor
// indices, distances and embeddings. Per-query values are aggregated with
// population statistics (divide by n).
package drift

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Epsilon guards divisions and logarithms against zero.
const Epsilon = 1e-12

var (
	ErrEmptyBatch      = errors.New("empty query batch")
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrInvalidK        = errors.New("invalid neighborhood size")
	ErrIndexOutOfRange = errors.New("neighbor index out of range")
)

// Neighbors holds one ranked list of point indices per query.
type Neighbors [][]int

// Summary is the population mean and standard deviation of per-query values.
type Summary struct {
	Mean float64 `json:"mean" yaml:"mean"`
	Std  float64 `json:"std" yaml:"std"`
}

// LIDSummary compares local intrinsic dimensionality of exact and
// approximate neighborhoods.
type LIDSummary struct {
	MeanDiff  float64 `json:"mean_lid_diff" yaml:"mean_lid_diff"`
	StdDiff   float64 `json:"std_lid_diff" yaml:"std_lid_diff"`
	MeanExact float64 `json:"mean_lid_exact" yaml:"mean_lid_exact"`
	MeanANN   float64 `json:"mean_lid_ann" yaml:"mean_lid_ann"`
}

// Summarize aggregates per-query values. An empty slice is an error rather
// than a NaN summary.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrEmptyBatch
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	return Summary{Mean: mean, Std: std}, nil
}

// dims returns the shape of m, treating a nil matrix as an empty batch.
func dims(m mat.Matrix) (rows, cols int) {
	if m == nil {
		return 0, 0
	}
	return m.Dims()
}

// samePairShape checks that two query-aligned matrices agree in shape.
func samePairShape(exact, ann mat.Matrix) (rows, cols int, err error) {
	er, ec := dims(exact)
	ar, ac := dims(ann)
	if er == 0 || ar == 0 {
		return 0, 0, ErrEmptyBatch
	}
	if er != ar || ec != ac {
		return 0, 0, fmt.Errorf("%w: exact %dx%d, ann %dx%d", ErrShapeMismatch, er, ec, ar, ac)
	}
	return er, ec, nil
}

// rowMean returns the arithmetic mean of row i, reusing buf.
func rowMean(m mat.Matrix, i int, buf []float64) float64 {
	return stat.Mean(mat.Row(buf, i, m), nil)
}
