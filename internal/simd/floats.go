package simd

import (
	"github.com/chewxy/math32"
)

// dotImpl is swapped to the accelerated backend by initCapabilities.
var dotImpl = dotGeneric

// Dot calculates the dot product of two vectors.
// Public for use by the distance package.
//
// SAFETY: This function assumes len(a) == len(b).
// It does NOT perform bounds checks for performance reasons.
// Callers MUST ensure lengths match to avoid buffer over-reads (especially with SIMD).
func Dot(a, b []float32) float32 {
	return dotImpl(a, b)
}

func dotGeneric(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

// SquaredL2 calculates the squared L2 distance.
// Always the plain forward loop: its accumulation order is part of the
// library's distance semantics.
//
// SAFETY: This function assumes len(a) == len(b).
// It does NOT perform bounds checks for performance reasons.
// Callers MUST ensure lengths match to avoid buffer over-reads.
func SquaredL2(a, b []float32) float32 {
	var distance float32
	for i := range a {
		distance += (a[i] - b[i]) * (a[i] - b[i])
	}

	return distance
}

// L1 calculates the L1 (Manhattan) distance between two vectors.
//
// SAFETY: assumes len(a) == len(b), like Dot and SquaredL2.
func L1(a, b []float32) float32 {
	var distance float32
	for i := range a {
		distance += math32.Abs(a[i] - b[i])
	}

	return distance
}

// Linf calculates the L-infinity (Chebyshev) distance between two vectors.
//
// SAFETY: assumes len(a) == len(b), like Dot and SquaredL2.
func Linf(a, b []float32) float32 {
	var distance float32
	for i := range a {
		if d := math32.Abs(a[i] - b[i]); d > distance {
			distance = d
		}
	}

	return distance
}

// SquaredNorm calculates the squared L2 norm of a vector.
func SquaredNorm(v []float32) float32 {
	return dotImpl(v, v)
}

// ScaleInPlace multiplies all elements of a by scalar.
//
// This is primarily used by vector normalization.
func ScaleInPlace(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}

// DotBatch calculates dot products for a batch of vectors.
// targets is a flattened array of N vectors, each of dimension dim.
// out must have length N (len(targets) / dim).
func DotBatch(query []float32, targets []float32, dim int, out []float32) {
	if dim <= 0 || len(out) == 0 {
		return
	}
	if len(query) < dim {
		return
	}

	q := query[:dim]
	maxVal := len(targets) / dim
	n := len(out)
	if maxVal < n {
		n = maxVal
	}

	for i := 0; i < n; i++ {
		offset := i * dim
		vec := targets[offset : offset+dim]
		out[i] = dotImpl(q, vec)
	}
}

// SquaredL2Batch calculates squared L2 distance for a batch of vectors.
// targets is a flattened array of N vectors, each of dimension dim.
// out must have length N (len(targets) / dim).
func SquaredL2Batch(query []float32, targets []float32, dim int, out []float32) {
	if dim <= 0 || len(out) == 0 {
		return
	}
	if len(query) < dim {
		return
	}

	q := query[:dim]
	maxVal := len(targets) / dim
	n := len(out)
	if maxVal < n {
		n = maxVal
	}

	for i := 0; i < n; i++ {
		offset := i * dim
		vec := targets[offset : offset+dim]
		out[i] = SquaredL2(q, vec)
	}
}
