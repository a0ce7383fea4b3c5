// Package prng provides the stateless pseudo-random source used by the
// bouquet layout and greenery generators.
//
// Every value is a pure function of a (seed, index) pair, so a layout can be
// regenerated at any time from its seed alone. The formula is the classic
// shader hash:
//
//	frac(sin(seed*12.9898 + index*78.233) * 43758.5453)
//
// Each product is wrapped in an explicit float64 conversion. The language lets
// the compiler fuse x*y+z into a single FMA instruction on some architectures
// unless the intermediate product is converted, and a fused result would make
// the output differ between amd64 and arm64.
package prng

import "math"

const (
	seedFactor  = 12.9898
	indexFactor = 78.233
	amplitude   = 43758.5453
)

// Sample returns a deterministic value in [0, 1) for the given seed and index.
func Sample(seed int64, index int) float64 {
	a := float64(float64(seed) * seedFactor)
	b := float64(float64(index) * indexFactor)
	v := float64(math.Sin(a+b) * amplitude)
	f := v - math.Floor(v)
	// Floor of a value just below an integer can round up to 1.0.
	if f >= 1 || f < 0 {
		return 0
	}
	return f
}

// Signed maps Sample onto [-1, 1).
func Signed(seed int64, index int) float64 {
	return float64(Sample(seed, index)*2) - 1
}

// Between maps Sample onto [lo, hi).
func Between(seed int64, index int, lo, hi float64) float64 {
	return lo + float64(Sample(seed, index)*(hi-lo))
}

// Jitter returns a value in [-amount, amount).
func Jitter(seed int64, index int, amount float64) float64 {
	return float64(Signed(seed, index) * amount)
}

// Intn returns a deterministic integer in [0, n). It returns 0 when n <= 0.
func Intn(seed int64, index, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(float64(Sample(seed, index) * float64(n)))
	if i >= n {
		i = n - 1
	}
	return i
}

// Round rounds v to three decimal places. Published coordinates are rounded
// so their serialized form does not depend on the last bits of a float.
func Round(v float64) float64 {
	r := math.Round(float64(v*1000)) / 1000
	if r == 0 {
		return 0 // normalize -0
	}
	return r
}
