package drift

import (
	"fmt"

	"github.com/viterin/vek"
	"gonum.org/v1/gonum/mat"
)

// BarycenterShifts returns, per query, the Euclidean distance between the
// centroid of the exact neighbor embeddings and the centroid of the
// approximate neighbor embeddings, divided by the neighborhood radius (the
// mean exact distance of that query).
//
// A query whose radius is zero has a shift of exactly 0, whatever the raw
// centroid distance.
func BarycenterShifts(embeddings mat.Matrix, exact, ann Neighbors, exactDistances mat.Matrix) ([]float64, error) {
	points, dim := dims(embeddings)
	if points == 0 {
		return nil, fmt.Errorf("%w: no embeddings", ErrEmptyBatch)
	}
	if len(exact) == 0 || len(ann) == 0 {
		return nil, ErrEmptyBatch
	}
	rows, cols := dims(exactDistances)
	if len(exact) != len(ann) || len(exact) != rows {
		return nil, fmt.Errorf("%w: %d exact queries, %d ann queries, %d distance rows",
			ErrShapeMismatch, len(exact), len(ann), rows)
	}

	var (
		cExact = make([]float64, dim)
		cANN   = make([]float64, dim)
		row    = make([]float64, dim)
		dist   = make([]float64, cols)
		shifts = make([]float64, len(exact))
	)
	for i := range exact {
		if err := centroid(cExact, row, embeddings, exact[i]); err != nil {
			return nil, fmt.Errorf("query %d exact: %w", i, err)
		}
		if err := centroid(cANN, row, embeddings, ann[i]); err != nil {
			return nil, fmt.Errorf("query %d ann: %w", i, err)
		}

		radius := rowMean(exactDistances, i, dist)
		if radius > 0 {
			shifts[i] = vek.Distance(cExact, cANN) / radius
		}
	}
	return shifts, nil
}

// BarycenterStats returns the mean and standard deviation of the normalized
// per-query barycenter shift.
func BarycenterStats(embeddings mat.Matrix, exact, ann Neighbors, exactDistances mat.Matrix) (Summary, error) {
	shifts, err := BarycenterShifts(embeddings, exact, ann, exactDistances)
	if err != nil {
		return Summary{}, fmt.Errorf("barycenter: %w", err)
	}
	return Summarize(shifts)
}

// centroid writes the mean of the embedding rows named by indices into dst.
// row is scratch space of the embedding width.
func centroid(dst, row []float64, embeddings mat.Matrix, indices []int) error {
	if len(indices) == 0 {
		return fmt.Errorf("%w: empty neighbor list", ErrShapeMismatch)
	}
	points, _ := embeddings.Dims()
	clear(dst)
	for _, idx := range indices {
		if idx < 0 || idx >= points {
			return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, idx, points)
		}
		vek.Add_Inplace(dst, mat.Row(row, idx, embeddings))
	}
	vek.MulNumber_Inplace(dst, 1/float64(len(indices)))
	return nil
}
