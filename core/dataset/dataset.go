// Package dataset materialises the neighbor indices, distances and
// embeddings that drift analyzers consume, from result files or a SQLite
// results database written by a benchmarking harness.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cooper-rm/NeighbourhoodDriftInImageEmbeddings/core/drift"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrMissingField   = errors.New("missing required field")
	ErrRagged         = errors.New("ragged matrix")
	ErrUnknownFormat  = errors.New("unknown input format")
	ErrRunNotFound    = errors.New("run not found")
	ErrSparseRun      = errors.New("run has gaps in query ids or ranks")
	ErrRunUnspecified = errors.New("database input needs a run name")
)

// Input is one evaluation batch. Distances and embeddings are optional;
// analyzers that need a missing part are skipped by the caller.
type Input struct {
	// K is the neighborhood size. Zero means "infer from the data".
	K int

	ExactIndices drift.Neighbors
	ANNIndices   drift.Neighbors

	ExactDistances *mat.Dense
	ANNDistances   *mat.Dense
	Embeddings     *mat.Dense
}

// Queries returns the number of queries in the batch.
func (in *Input) Queries() int {
	return len(in.ExactIndices)
}

// HasDistances reports whether both distance matrices are present.
func (in *Input) HasDistances() bool {
	return in.ExactDistances != nil && in.ANNDistances != nil
}

// HasEmbeddings reports whether the embedding table is present.
func (in *Input) HasEmbeddings() bool {
	return in.Embeddings != nil
}

// InferK returns K when set, otherwise the distance matrix width, otherwise
// the length of the first exact neighbor list.
func (in *Input) InferK() int {
	if in.K > 0 {
		return in.K
	}
	if in.ExactDistances != nil {
		_, cols := in.ExactDistances.Dims()
		return cols
	}
	if len(in.ExactIndices) > 0 {
		return len(in.ExactIndices[0])
	}
	return 0
}

// Validate checks that the parts of the batch that are present agree on the
// number of queries.
func (in *Input) Validate() error {
	if len(in.ExactIndices) == 0 {
		return fmt.Errorf("%w: exact_indices", ErrMissingField)
	}
	if len(in.ANNIndices) == 0 {
		return fmt.Errorf("%w: ann_indices", ErrMissingField)
	}
	if len(in.ExactIndices) != len(in.ANNIndices) {
		return fmt.Errorf("%w: %d exact queries, %d ann queries",
			drift.ErrShapeMismatch, len(in.ExactIndices), len(in.ANNIndices))
	}
	for name, m := range map[string]*mat.Dense{
		"exact_distances": in.ExactDistances,
		"ann_distances":   in.ANNDistances,
	} {
		if m == nil {
			continue
		}
		if rows, _ := m.Dims(); rows != len(in.ExactIndices) {
			return fmt.Errorf("%w: %s has %d rows, want %d",
				drift.ErrShapeMismatch, name, rows, len(in.ExactIndices))
		}
	}
	return nil
}

// Load reads an Input from path. Files ending in .db, .sqlite or .sqlite3
// are opened as results databases and read for run; .yaml, .yml and .json
// files are decoded as result documents.
func Load(ctx context.Context, path, run string) (*Input, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		if run == "" {
			return nil, ErrRunUnspecified
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("results database: %w", err)
		}
		store, err := OpenStore(path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.LoadRun(ctx, run)
	case ".yaml", ".yml", ".json":
		return LoadFile(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// toDense copies row slices into a dense matrix. An empty input yields nil.
func toDense(name string, rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, fmt.Errorf("%w: %s row 0 is empty", ErrRagged, name)
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: %s row %d has %d columns, want %d", ErrRagged, name, i, len(r), cols)
		}
		data = append(data, r...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}
