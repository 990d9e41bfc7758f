// Package evaluation runs the drift analyzers over one evaluation batch and
// collects their results into a Report.
package evaluation

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cooper-rm/NeighbourhoodDriftInImageEmbeddings/core/dataset"
	"github.com/cooper-rm/NeighbourhoodDriftInImageEmbeddings/core/drift"
	"github.com/google/uuid"
)

// ErrNothingToEvaluate is returned when no selected analyzer has the inputs
// it needs.
var ErrNothingToEvaluate = errors.New("no selected metric can run on this input")

// Config configures an Evaluator.
type Config struct {
	// Metrics are glob patterns over analyzer names. Empty selects all.
	Metrics []string

	// Eps is the LID stability constant. Zero uses drift.Epsilon.
	Eps float64

	// K overrides the neighborhood size of the input when positive.
	K int

	// PerQuery adds per-query values to the report.
	PerQuery bool

	Logger *slog.Logger // Optional, uses slog.Default() if nil
}

// Evaluator runs a fixed selection of analyzers. It holds no state between
// calls.
type Evaluator struct {
	metrics  []string
	eps      float64
	k        int
	perQuery bool
	logger   *slog.Logger
}

func New(cfg Config) (*Evaluator, error) {
	metrics, err := SelectMetrics(cfg.Metrics)
	if err != nil {
		return nil, err
	}
	if cfg.Eps <= 0 {
		cfg.Eps = drift.Epsilon
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Evaluator{
		metrics:  metrics,
		eps:      cfg.Eps,
		k:        cfg.K,
		perQuery: cfg.PerQuery,
		logger:   cfg.Logger,
	}, nil
}

// Metrics returns the selected analyzer names.
func (e *Evaluator) Metrics() []string {
	return append([]string(nil), e.metrics...)
}

// Evaluate runs every selected analyzer whose inputs are present. Analyzers
// missing an input are skipped with a warning; any analyzer error aborts the
// whole evaluation.
func (e *Evaluator) Evaluate(in *dataset.Input) (*Report, error) {
	if in == nil {
		return nil, fmt.Errorf("invalid input: %w: no batch", dataset.ErrMissingField)
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	k := in.InferK()
	if e.k > 0 {
		k = e.k
	}

	report := &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Queries:     in.Queries(),
		K:           k,
	}
	if e.perQuery {
		report.PerQuery = &PerQuery{}
	}

	start := time.Now()
	ran := 0
	for _, name := range e.metrics {
		if missing := missingInputs(name, in); missing != "" {
			e.logger.Warn("skipping metric", "metric", name, "missing", missing)
			continue
		}

		metricStart := time.Now()
		if err := e.run(name, in, k, report); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		e.logger.Debug("metric computed", "metric", name, "duration", time.Since(metricStart))
		ran++
	}
	if ran == 0 {
		return nil, fmt.Errorf("%w: selected %v", ErrNothingToEvaluate, e.metrics)
	}

	e.logger.Info("evaluation complete",
		"run_id", report.ID,
		"queries", report.Queries,
		"k", k,
		"metrics", ran,
		"duration", time.Since(start))
	return report, nil
}

func (e *Evaluator) run(name string, in *dataset.Input, k int, report *Report) error {
	switch name {
	case MetricOverlap:
		values, err := drift.Overlaps(in.ExactIndices, in.ANNIndices, k)
		if err != nil {
			return err
		}
		s, err := drift.Summarize(values)
		if err != nil {
			return err
		}
		report.Overlap = &s
		if report.PerQuery != nil {
			report.PerQuery.Overlap = values
		}

	case MetricDistanceDivergence:
		values, err := drift.Divergences(in.ExactDistances, in.ANNDistances)
		if err != nil {
			return err
		}
		s, err := drift.Summarize(values)
		if err != nil {
			return err
		}
		report.DistanceDivergence = &s
		if report.PerQuery != nil {
			report.PerQuery.DistanceDivergence = values
		}

	case MetricBarycenter:
		values, err := drift.BarycenterShifts(in.Embeddings, in.ExactIndices, in.ANNIndices, in.ExactDistances)
		if err != nil {
			return err
		}
		s, err := drift.Summarize(values)
		if err != nil {
			return err
		}
		report.Barycenter = &s
		if report.PerQuery != nil {
			report.PerQuery.Barycenter = values
		}

	case MetricLID:
		s, err := drift.LIDStats(in.ExactDistances, in.ANNDistances, e.eps)
		if err != nil {
			return err
		}
		report.LID = &s
		if report.PerQuery != nil {
			if report.PerQuery.LIDExact, err = drift.LIDs(in.ExactDistances, e.eps); err != nil {
				return err
			}
			if report.PerQuery.LIDANN, err = drift.LIDs(in.ANNDistances, e.eps); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("%w: %q", ErrInvalidSelector, name)
	}
	return nil
}

// missingInputs names the first input the analyzer needs but in lacks.
func missingInputs(name string, in *dataset.Input) string {
	switch name {
	case MetricDistanceDivergence, MetricLID:
		if !in.HasDistances() {
			return "distances"
		}
	case MetricBarycenter:
		if in.ExactDistances == nil {
			return "exact_distances"
		}
		if !in.HasEmbeddings() {
			return "embeddings"
		}
	}
	return ""
}
