package evaluation

import (
	"time"

	"github.com/cooper-rm/NeighbourhoodDriftInImageEmbeddings/core/drift"
)

// Report holds the results of one evaluation. Analyzers that did not run
// leave their field nil.
type Report struct {
	ID          string    `json:"id" yaml:"id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Queries     int       `json:"queries" yaml:"queries"`
	K           int       `json:"k" yaml:"k"`

	Overlap            *drift.Summary    `json:"overlap,omitempty" yaml:"overlap,omitempty"`
	DistanceDivergence *drift.Summary    `json:"distance_divergence,omitempty" yaml:"distance_divergence,omitempty"`
	Barycenter         *drift.Summary    `json:"barycenter,omitempty" yaml:"barycenter,omitempty"`
	LID                *drift.LIDSummary `json:"lid,omitempty" yaml:"lid,omitempty"`

	PerQuery *PerQuery `json:"per_query,omitempty" yaml:"per_query,omitempty"`
}

// PerQuery holds the unaggregated per-query values behind each summary.
type PerQuery struct {
	Overlap            []float64 `json:"overlap,omitempty" yaml:"overlap,omitempty"`
	DistanceDivergence []float64 `json:"distance_divergence,omitempty" yaml:"distance_divergence,omitempty"`
	Barycenter         []float64 `json:"barycenter,omitempty" yaml:"barycenter,omitempty"`
	LIDExact           []float64 `json:"lid_exact,omitempty" yaml:"lid_exact,omitempty"`
	LIDANN             []float64 `json:"lid_ann,omitempty" yaml:"lid_ann,omitempty"`
}

// Ran reports whether the named analyzer produced a result.
func (r *Report) Ran(metric string) bool {
	switch metric {
	case MetricOverlap:
		return r.Overlap != nil
	case MetricDistanceDivergence:
		return r.DistanceDivergence != nil
	case MetricBarycenter:
		return r.Barycenter != nil
	case MetricLID:
		return r.LID != nil
	default:
		return false
	}
}
