package dataset

import (
	"fmt"
	"os"

	"github.com/cooper-rm/NeighbourhoodDriftInImageEmbeddings/core/drift"
	"gopkg.in/yaml.v3"
)

// document is the on-disk layout of a result file. JSON files decode through
// the same YAML parser.
type document struct {
	K              int         `yaml:"k"`
	ExactIndices   [][]int     `yaml:"exact_indices"`
	ANNIndices     [][]int     `yaml:"ann_indices"`
	ExactDistances [][]float64 `yaml:"exact_distances"`
	ANNDistances   [][]float64 `yaml:"ann_distances"`
	Embeddings     [][]float64 `yaml:"embeddings"`
}

// LoadFile decodes a YAML or JSON result document.
func LoadFile(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse input %s: %w", path, err)
	}

	in := &Input{
		K:            doc.K,
		ExactIndices: drift.Neighbors(doc.ExactIndices),
		ANNIndices:   drift.Neighbors(doc.ANNIndices),
	}
	if in.ExactDistances, err = toDense("exact_distances", doc.ExactDistances); err != nil {
		return nil, err
	}
	if in.ANNDistances, err = toDense("ann_distances", doc.ANNDistances); err != nil {
		return nil, err
	}
	if in.Embeddings, err = toDense("embeddings", doc.Embeddings); err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("input %s: %w", path, err)
	}
	return in, nil
}
