package dataset

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cooper-rm/NeighbourhoodDriftInImageEmbeddings/core/drift"
	"gonum.org/v1/gonum/mat"

	_ "modernc.org/sqlite"
)

// ErrNotResultsDB is returned when a database lacks the results tables.
var ErrNotResultsDB = errors.New("not a results database")

// Neighbor result methods stored in the neighbors table.
const (
	MethodExact = "exact"
	MethodANN   = "ann"
)

const schema = `
CREATE TABLE IF NOT EXISTS embeddings (
	point_id INTEGER PRIMARY KEY,
	vector BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS neighbors (
	run TEXT NOT NULL,
	method TEXT NOT NULL CHECK (method IN ('exact', 'ann')),
	query_id INTEGER NOT NULL,
	rank INTEGER NOT NULL,
	point_id INTEGER NOT NULL,
	distance REAL NOT NULL,
	PRIMARY KEY (run, method, query_id, rank)
);
`

// Store reads evaluation batches from a SQLite results database. Embedding
// vectors are float32 little-endian blobs; point ids must be dense from 0 so
// that they index embedding rows directly.
type Store struct {
	db   *sql.DB
	path string
}

// RunInfo describes one run recorded in a results database.
type RunInfo struct {
	Name    string
	Queries int
	K       int
}

// uriEscaper escapes the characters SQLite gives meaning to in a file: URI.
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// OpenStore opens an existing results database read-only. The file is never
// created or modified.
func OpenStore(path string) (*Store, error) {
	dsn := "file:" + uriEscaper.Replace(path) + "?mode=ro&_pragma=query_only(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}

	var tables int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name IN ('embeddings', 'neighbors')`).Scan(&tables)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}
	if tables != 2 {
		db.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotResultsDB, path)
	}

	return &Store{db: db, path: path}, nil
}

// CreateStore opens the results database at path for writing, creating the
// file and its tables if needed. Harnesses use it to record runs.
func CreateStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Runs lists the runs that have exact results, with their query count and
// neighborhood size.
func (s *Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run, COUNT(DISTINCT query_id), MAX(rank) + 1
		FROM neighbors
		WHERE method = ?
		GROUP BY run
		ORDER BY run`, MethodExact)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.Name, &r.Queries, &r.K); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LoadRun reads the exact and approximate results of run together with the
// whole embedding table.
func (s *Store) LoadRun(ctx context.Context, run string) (*Input, error) {
	exactIdx, exactDist, err := s.loadNeighbors(ctx, run, MethodExact)
	if err != nil {
		return nil, err
	}
	annIdx, annDist, err := s.loadNeighbors(ctx, run, MethodANN)
	if err != nil {
		return nil, err
	}

	in := &Input{
		ExactIndices: exactIdx,
		ANNIndices:   annIdx,
	}
	if in.ExactDistances, err = toDense("exact_distances", exactDist); err != nil {
		return nil, err
	}
	if in.ANNDistances, err = toDense("ann_distances", annDist); err != nil {
		return nil, err
	}
	if in.Embeddings, err = s.loadEmbeddings(ctx); err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("run %q: %w", run, err)
	}
	return in, nil
}

func (s *Store) loadNeighbors(ctx context.Context, run, method string) (drift.Neighbors, [][]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT query_id, rank, point_id, distance
		FROM neighbors
		WHERE run = ? AND method = ?
		ORDER BY query_id, rank`, run, method)
	if err != nil {
		return nil, nil, fmt.Errorf("query %s neighbors: %w", method, err)
	}
	defer rows.Close()

	var (
		indices   drift.Neighbors
		distances [][]float64
	)
	for rows.Next() {
		var (
			queryID, rank, pointID int
			distance               float64
		)
		if err := rows.Scan(&queryID, &rank, &pointID, &distance); err != nil {
			return nil, nil, fmt.Errorf("scan %s neighbor: %w", method, err)
		}

		if queryID == len(indices) {
			indices = append(indices, nil)
			distances = append(distances, nil)
		}
		q := len(indices) - 1
		if q < 0 || queryID != q || rank != len(indices[q]) {
			return nil, nil, fmt.Errorf("%w: %s %q query %d rank %d", ErrSparseRun, method, run, queryID, rank)
		}
		indices[q] = append(indices[q], pointID)
		distances[q] = append(distances[q], distance)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s neighbors: %w", method, err)
	}
	if len(indices) == 0 {
		return nil, nil, fmt.Errorf("%w: %q has no %s results", ErrRunNotFound, run, method)
	}
	return indices, distances, nil
}

func (s *Store) loadEmbeddings(ctx context.Context) (*mat.Dense, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT point_id, vector FROM embeddings ORDER BY point_id`)
	if err != nil {
		return nil, fmt.Errorf("query embeddings: %w", err)
	}
	defer rows.Close()

	var vectors [][]float64
	for rows.Next() {
		var (
			pointID int
			blob    []byte
		)
		if err := rows.Scan(&pointID, &blob); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}
		if pointID != len(vectors) {
			return nil, fmt.Errorf("%w: embedding point ids must be dense from 0, got %d at row %d",
				drift.ErrShapeMismatch, pointID, len(vectors))
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("embedding %d: %w", pointID, err)
		}
		vectors = append(vectors, vec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read embeddings: %w", err)
	}
	return toDense("embeddings", vectors)
}

// decodeVector widens a float32 little-endian blob to float64.
func decodeVector(b []byte) ([]float64, error) {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: vector blob of %d bytes", ErrRagged, len(b))
	}
	vec := make([]float64, len(b)/4)
	for i := range vec {
		vec[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])))
	}
	return vec, nil
}
