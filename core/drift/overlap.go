package drift

import "fmt"

// Overlaps returns, per query, the fraction of the k exact neighbors that the
// approximate search also returned.
//
// Lists are compared as sets, so a list containing the same index twice
// under-counts; callers must supply duplicate-free lists.
func Overlaps(exact, ann Neighbors, k int) ([]float64, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k=%d", ErrInvalidK, k)
	}
	if len(exact) == 0 || len(ann) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(exact) != len(ann) {
		return nil, fmt.Errorf("%w: %d exact queries, %d ann queries", ErrShapeMismatch, len(exact), len(ann))
	}

	overlaps := make([]float64, len(exact))
	seen := make(map[int]struct{}, k)
	for i := range exact {
		clear(seen)
		for _, idx := range exact[i] {
			seen[idx] = struct{}{}
		}
		shared := 0
		for _, idx := range ann[i] {
			if _, ok := seen[idx]; ok {
				shared++
				delete(seen, idx)
			}
		}
		overlaps[i] = float64(shared) / float64(k)
	}
	return overlaps, nil
}

// OverlapStats returns the mean and standard deviation of the per-query
// overlap ratio.
func OverlapStats(exact, ann Neighbors, k int) (Summary, error) {
	overlaps, err := Overlaps(exact, ann, k)
	if err != nil {
		return Summary{}, fmt.Errorf("overlap: %w", err)
	}
	return Summarize(overlaps)
}
