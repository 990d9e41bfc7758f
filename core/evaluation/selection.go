package evaluation

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"
)

// Analyzer names, in the order they run and are reported.
const (
	MetricOverlap            = "overlap"
	MetricDistanceDivergence = "distance_divergence"
	MetricBarycenter         = "barycenter"
	MetricLID                = "lid"
)

// AllMetrics lists every analyzer name.
var AllMetrics = []string{
	MetricOverlap,
	MetricDistanceDivergence,
	MetricBarycenter,
	MetricLID,
}

var (
	ErrInvalidSelector   = errors.New("invalid metric selector")
	ErrNoMetricsSelected = errors.New("no metric matches the selectors")
)

// SelectMetrics returns the analyzer names matched by any of the glob
// patterns, in AllMetrics order. No patterns selects everything.
func SelectMetrics(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return append([]string(nil), AllMetrics...), nil
	}

	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, p, err)
		}
		globs = append(globs, g)
	}

	var selected []string
	for _, name := range AllMetrics {
		for _, g := range globs {
			if g.Match(name) {
				selected = append(selected, name)
				break
			}
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoMetricsSelected, patterns)
	}
	return selected, nil
}
