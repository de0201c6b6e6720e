// Package signature extracts compact numeric fingerprints from triple
// windows.
//
// A Signature condenses one window into five numbers: the triple count, the
// sample variance and skewness of the numeric values found in object
// positions, the Shannon entropy of the predicate distribution, and the
// spectral entropy of the numeric-value sequence. Downstream rule matching
// (package approach) works entirely off these five fields.
//
// Extraction is a pure function: no side effects, no errors. Malformed or
// non-numeric object values are silently excluded from the numeric
// statistics rather than reported; the stream is allowed to be messy.
//
// Example:
//
//	sig := signature.Extract(window)
//	fmt.Printf("%d triples, predicate entropy %.2f\n", sig.TripleCount, sig.Entropy)
package signature

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/SolidLabResearch/hive-scout-bee/pkg/rdf"
	"github.com/SolidLabResearch/hive-scout-bee/pkg/spectral"
)

// Metric keys naming the signature fields. Threshold maps in approach
// configurations are keyed by these.
const (
	MetricTripleCount = "tripleCount"
	MetricVariance    = "variance"
	MetricSkewness    = "skewness"
	MetricEntropy     = "entropy"
	MetricFFTEntropy  = "fftEntropy"
)

// metricNames lists the valid metric keys in canonical order.
var metricNames = []string{
	MetricTripleCount,
	MetricVariance,
	MetricSkewness,
	MetricEntropy,
	MetricFFTEntropy,
}

// MetricNames returns the valid metric keys in canonical order.
func MetricNames() []string {
	names := make([]string, len(metricNames))
	copy(names, metricNames)
	return names
}

// Signature is the numeric fingerprint of one window.
//
// Fields default to 0 whenever the window holds too little data to compute
// them (fewer than 2 numeric values for variance, fewer than 3 for skewness,
// no triples at all for entropy). A Signature is a plain value: produced
// fresh by every Extract call, never mutated afterwards.
type Signature struct {
	// TripleCount is the window size, exactly.
	TripleCount int `json:"tripleCount"`
	// Variance is the sample variance of the harvested numeric values.
	Variance float64 `json:"variance"`
	// Skewness is the sample-adjusted (G1) skewness of the same values.
	Skewness float64 `json:"skewness"`
	// Entropy is the Shannon entropy (base 2) of the predicate frequency
	// distribution over the whole window.
	Entropy float64 `json:"entropy"`
	// FFTEntropy is the spectral entropy of the numeric-value sequence.
	FFTEntropy float64 `json:"fftEntropy"`
}

// Field returns the signature value named by a metric key, and whether the
// key is known.
//
// Example:
//
//	v, ok := sig.Field(signature.MetricVariance)
func (s Signature) Field(metric string) (float64, bool) {
	switch metric {
	case MetricTripleCount:
		return float64(s.TripleCount), true
	case MetricVariance:
		return s.Variance, true
	case MetricSkewness:
		return s.Skewness, true
	case MetricEntropy:
		return s.Entropy, true
	case MetricFFTEntropy:
		return s.FFTEntropy, true
	}
	return 0, false
}

// Extract computes the signature of a window.
//
// The numeric statistics (variance, skewness, spectral entropy) are computed
// over the values harvested by HarvestNumericValues; the predicate entropy
// uses every triple regardless of object type. An empty window yields the
// zero Signature.
func Extract(w rdf.Window) Signature {
	values := HarvestNumericValues(w)

	return Signature{
		TripleCount: len(w),
		Variance:    sampleVariance(values),
		Skewness:    sampleSkewness(values),
		Entropy:     predicateEntropy(w),
		FFTEntropy:  spectral.Entropy(values),
	}
}

// numericDatatypeHints are the datatype-IRI substrings that mark a literal
// as worth a numeric parse attempt. Matching is case-sensitive substring
// matching on the full tag, so xsd:integer and xsd:decimal qualify while
// xsd:int does not.
var numericDatatypeHints = []string{"integer", "decimal", "double", "float", "string"}

// HarvestNumericValues collects the parseable numeric object values of a
// window, in window order.
//
// A literal is attempted when its datatype tag contains one of the numeric
// hints or when it carries no tag at all. Texts that do not parse as a
// finite float64 (empty strings, garbage, "NaN", infinities) are dropped
// without comment. Non-literal objects never contribute.
func HarvestNumericValues(w rdf.Window) []float64 {
	var values []float64
	for _, t := range w {
		if !t.Object.IsLiteral() {
			continue
		}
		if !numericCandidate(t.Object.Datatype) {
			continue
		}
		if v, ok := parseFinite(t.Object.Value); ok {
			values = append(values, v)
		}
	}
	return values
}

// numericCandidate reports whether a datatype tag invites a parse attempt.
func numericCandidate(datatype string) bool {
	if datatype == "" {
		return true
	}
	for _, hint := range numericDatatypeHints {
		if strings.Contains(datatype, hint) {
			return true
		}
	}
	return false
}

// parseFinite parses text as a finite float64. ParseFloat accepts "NaN" and
// infinity spellings, so finiteness is checked explicitly.
func parseFinite(text string) (float64, bool) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// sampleVariance returns the sample variance (n-1 denominator), 0 for fewer
// than 2 values.
func sampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.Variance(values, nil)
}

// sampleSkewness returns the sample-adjusted skewness G1, 0 for fewer than
// 3 values or zero spread.
func sampleSkewness(values []float64) float64 {
	if len(values) < 3 {
		return 0
	}
	if stat.StdDev(values, nil) == 0 {
		return 0
	}
	return stat.Skew(values, nil)
}

// predicateEntropy returns the Shannon entropy (base 2) of the predicate
// frequency distribution, 0 for an empty window.
func predicateEntropy(w rdf.Window) float64 {
	if len(w) == 0 {
		return 0
	}

	counts := make(map[string]int)
	for _, t := range w {
		counts[t.Predicate]++
	}

	n := float64(len(w))
	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / n
		entropy -= p * math.Log2(p)
	}

	return entropy
}
