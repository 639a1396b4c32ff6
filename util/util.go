// Package util holds small numeric helpers shared by the renderers.
package util

import (
	"math/rand"

	"github.com/fogleman/ease"
)

// RandomBetween returns a uniformly distributed value in [min, max).
func RandomBetween(r *rand.Rand, min, max float64) float64 {
	return r.Float64()*(max-min) + min
}

// GenerateLut builds a symmetric rise-and-fall intensity table of length
// entries, eased with ease.InOutQuad. Odd lengths peak at exactly 1.
func GenerateLut(length int) []float64 {
	if length < 2 {
		return []float64{1}
	}
	increment := 2.0 / float64(length-1)
	lut := make([]float64, length)
	for i, j := 0, length-1; i <= j; i, j = i+1, j-1 {
		value := float64(i) * increment
		lut[i] = ease.InOutQuad(value)
		lut[j] = ease.InOutQuad(value)
	}
	return lut
}
