package approach

import (
	"math"
	"sort"

	"github.com/SolidLabResearch/hive-scout-bee/pkg/rdf"
	"github.com/SolidLabResearch/hive-scout-bee/pkg/signature"
)

// Selector holds the approach registry and picks the best approach for a
// window or a precomputed signature.
//
// Selection is pure and deterministic: the same registry contents and the
// same window always produce the same Recommendation. The Selector inherits
// the Registry's thread-safety contract (single writer, external
// serialization).
type Selector struct {
	registry *Registry
}

// NewSelector returns a selector with an empty registry.
func NewSelector() *Selector {
	return &Selector{registry: NewRegistry()}
}

// NewSelectorWith returns a selector preloaded with configs, in the given
// order.
func NewSelectorWith(cfgs ...Config) (*Selector, error) {
	s := NewSelector()
	for _, cfg := range cfgs {
		if err := s.Add(cfg); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add upserts an approach config by name.
func (s *Selector) Add(cfg Config) error {
	return s.registry.Add(cfg)
}

// Remove deletes an approach by name and reports whether it existed.
func (s *Selector) Remove(name string) bool {
	return s.registry.Remove(name)
}

// Get returns the approach registered under name, and whether it exists.
func (s *Selector) Get(name string) (Config, bool) {
	return s.registry.Get(name)
}

// Names returns the registered approach names in registry order.
func (s *Selector) Names() []string {
	return s.registry.Names()
}

// Choose extracts the window's signature and recommends an approach for it.
func (s *Selector) Choose(w rdf.Window) Recommendation {
	return s.ChooseSignature(signature.Extract(w))
}

// ChooseSignature recommends an approach for a precomputed signature.
//
// Every registered config is evaluated; the ones whose thresholds are all
// satisfied are ranked by specificity descending, with priority deciding
// near-ties (specificity within SpecificityTieBand). The winner's match
// score, clamped to 1, becomes the confidence. With no match the
// recommendation is DefaultApproach at confidence 0. A zero signature still
// runs the full matching logic, so approaches whose min thresholds are all
// zero match it trivially.
func (s *Selector) ChooseSignature(sig signature.Signature) Recommendation {
	matching := []string{}
	var candidates []Evaluation
	for _, ev := range s.Explain(sig) {
		if ev.Matched {
			matching = append(matching, ev.Name)
			candidates = append(candidates, ev)
		}
	}

	rec := Recommendation{
		RecommendedApproach: DefaultApproach,
		MatchingApproaches:  matching,
		Signature:           sig,
	}
	if len(candidates) == 0 {
		return rec
	}

	// Stable sort keeps registry order as the final tiebreak when both
	// specificity and priority coincide.
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if math.Abs(a.Specificity-b.Specificity) < SpecificityTieBand {
			return a.Priority > b.Priority
		}
		return a.Specificity > b.Specificity
	})

	top := candidates[0]
	rec.RecommendedApproach = top.Name
	rec.Confidence = math.Min(top.Score, 1)
	return rec
}

// Evaluation is the per-approach result of matching one signature, as
// surfaced by Explain.
type Evaluation struct {
	Name        string  `json:"name"`
	Matched     bool    `json:"matched"`
	Score       float64 `json:"score"`
	Specificity float64 `json:"specificity"`
	Priority    int     `json:"priority"`
}

// Explain evaluates every registered approach against a signature and
// returns the per-approach results in registry order. Useful for tooling
// that needs to show why a recommendation was made.
func (s *Selector) Explain(sig signature.Signature) []Evaluation {
	evals := make([]Evaluation, 0, s.registry.Len())
	for _, cfg := range s.registry.Configs() {
		evals = append(evals, evaluate(cfg, sig))
	}
	return evals
}

// evaluate matches one config against a signature and computes its match
// score and specificity.
//
// Score: each satisfied threshold contributes 1; a violated min contributes
// max(0, value/threshold) and a violated max contributes
// max(0, threshold/value), both guarded against division by zero by
// contributing 0 instead. The score is the average contribution over the
// declared thresholds, 0 when none are declared (such a config still matches
// structurally, it just cannot claim confidence).
//
// Specificity: each min threshold adds threshold/(value+1) when value > 0
// and the raw threshold otherwise; each max threshold adds 1/(threshold+1).
// The sum is averaged over the declared thresholds. Tighter bounds relative
// to the observed signature score higher. Ranking depends on these exact
// formulas, asymmetry between min and max included.
//
// Threshold keys that name no known metric carry no weight at all.
func evaluate(cfg Config, sig signature.Signature) Evaluation {
	ev := Evaluation{Name: cfg.Name, Matched: true, Priority: cfg.Priority}

	var scoreSum, specSum float64
	criteria := 0

	for metric, threshold := range cfg.MinThresholds {
		value, ok := sig.Field(metric)
		if !ok {
			continue
		}
		criteria++

		if value >= threshold {
			scoreSum++
		} else {
			ev.Matched = false
			if threshold != 0 {
				scoreSum += math.Max(0, value/threshold)
			}
		}

		if value > 0 {
			specSum += threshold / (value + 1)
		} else {
			specSum += threshold
		}
	}

	for metric, threshold := range cfg.MaxThresholds {
		value, ok := sig.Field(metric)
		if !ok {
			continue
		}
		criteria++

		if value <= threshold {
			scoreSum++
		} else {
			ev.Matched = false
			if value != 0 {
				scoreSum += math.Max(0, threshold/value)
			}
		}

		specSum += 1 / (threshold + 1)
	}

	if criteria > 0 {
		ev.Score = scoreSum / float64(criteria)
		ev.Specificity = specSum / float64(criteria)
	}
	return ev
}
