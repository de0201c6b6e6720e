// Package approach recommends a processing strategy for a triple window by
// matching the window's signature against user-declared rule configurations.
//
// Each Config names an approach and declares optional min/max thresholds on
// signature metrics. The Selector evaluates every registered config against
// a signature, collects the ones whose thresholds are all satisfied, ranks
// them by specificity (tighter rules win), and returns a Recommendation
// naming the best match. When nothing matches, the sentinel name "default"
// is recommended with confidence 0.
//
// Example:
//
//	sel := approach.NewSelector()
//	sel.Add(approach.Config{
//		Name:          "frequency-analysis",
//		MinThresholds: map[string]float64{signature.MetricFFTEntropy: 1.5},
//	})
//	sel.Add(approach.Config{
//		Name:          "low-volume",
//		MaxThresholds: map[string]float64{signature.MetricTripleCount: 100},
//	})
//
//	rec := sel.Choose(window)
//	fmt.Println(rec.RecommendedApproach, rec.Confidence)
package approach

import (
	"errors"
	"fmt"

	"github.com/SolidLabResearch/hive-scout-bee/pkg/signature"
)

// DefaultApproach is the sentinel recommendation returned when no registered
// approach matches a signature.
const DefaultApproach = "default"

// SpecificityTieBand is the specificity distance below which two matched
// approaches count as tied and priority decides between them.
const SpecificityTieBand = 0.01

// ErrEmptyName is returned when an approach configuration has no name.
var ErrEmptyName = errors.New("approach name must not be empty")

// Config declares when a named processing approach applies.
//
// MinThresholds and MaxThresholds are partial mappings from signature metric
// keys (see package signature: "tripleCount", "variance", "skewness",
// "entropy", "fftEntropy") to bounds. An approach matches a signature when
// every declared bound is satisfied; an approach with no thresholds matches
// everything. Priority breaks near-ties between matched approaches of
// similar specificity, nothing more.
//
// Example (YAML form accepted by LoadFile):
//
//	approaches:
//	  - name: frequency-analysis
//	    description: windows with rich spectral structure
//	    minThresholds:
//	      fftEntropy: 1.5
//	    maxThresholds:
//	      tripleCount: 10000
//	    priority: 5
type Config struct {
	Name          string             `json:"name" yaml:"name"`
	Description   string             `json:"description,omitempty" yaml:"description,omitempty"`
	MinThresholds map[string]float64 `json:"minThresholds,omitempty" yaml:"minThresholds,omitempty"`
	MaxThresholds map[string]float64 `json:"maxThresholds,omitempty" yaml:"maxThresholds,omitempty"`
	Priority      int                `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Validate checks that the config has a name and that every threshold key
// names a known signature metric.
func (c Config) Validate() error {
	if c.Name == "" {
		return ErrEmptyName
	}
	for metric := range c.MinThresholds {
		if !knownMetric(metric) {
			return fmt.Errorf("approach %q: unknown metric %q in minThresholds", c.Name, metric)
		}
	}
	for metric := range c.MaxThresholds {
		if !knownMetric(metric) {
			return fmt.Errorf("approach %q: unknown metric %q in maxThresholds", c.Name, metric)
		}
	}
	return nil
}

func knownMetric(name string) bool {
	_, ok := signature.Signature{}.Field(name)
	return ok
}

// Recommendation is the outcome of evaluating one signature against the
// registered approaches.
type Recommendation struct {
	// RecommendedApproach is the winning approach name, or DefaultApproach
	// when nothing matched.
	RecommendedApproach string `json:"recommendedApproach"`
	// MatchingApproaches lists every approach whose thresholds were all
	// satisfied, in registry order.
	MatchingApproaches []string `json:"matchingApproaches"`
	// Signature is the signature the decision was made on.
	Signature signature.Signature `json:"signature"`
	// Confidence is the winning approach's match score in [0, 1]; 0 when
	// nothing matched.
	Confidence float64 `json:"confidence"`
}
