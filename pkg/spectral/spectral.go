// Package spectral computes frequency-domain entropy for numeric sequences.
//
// The single measure exported here, Entropy, is the Shannon entropy of a
// sequence's normalized magnitude spectrum. It answers "how spread out is
// the frequency content?": a constant sequence parks all of its spectral
// energy in the DC bin and scores low, a sequence mixing many frequencies
// spreads energy across bins and scores high, and a strictly periodic
// sequence concentrates energy in a few harmonic bins and lands in between.
//
// Example:
//
//	spectral.Entropy([]float64{5, 5, 5, 5})  // low  - all energy at DC
//	spectral.Entropy([]float64{1, 7, 3, 9})  // high - energy spread out
package spectral

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Entropy returns the Shannon entropy (base 2) of the normalized magnitude
// spectrum of values.
//
// The sequence is zero-padded at the tail to the next power of two before
// the transform. Padding changes the bin count and therefore the entropy
// value, so it is part of the measure's definition, not an optimization
// detail. All len bins of the complex DFT contribute, each weighted by its
// magnitude divided by the total magnitude.
//
// Returns 0 when fewer than 2 values are supplied, and 0 when the total
// spectral magnitude is 0 (an all-zero sequence).
func Entropy(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	padded := make([]complex128, NextPowerOfTwo(len(values)))
	for i, v := range values {
		padded[i] = complex(v, 0)
	}

	fft := fourier.NewCmplxFFT(len(padded))
	coeffs := fft.Coefficients(nil, padded)

	magnitudes := make([]float64, len(coeffs))
	total := 0.0
	for i, c := range coeffs {
		magnitudes[i] = cmplx.Abs(c)
		total += magnitudes[i]
	}

	if total == 0 {
		return 0
	}

	entropy := 0.0
	for _, m := range magnitudes {
		p := m / total
		if p > 0 {
			entropy -= p * math.Log2(p)
		}
	}

	return entropy
}

// NextPowerOfTwo returns the smallest power of two >= n. Values below 2
// yield 1.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
