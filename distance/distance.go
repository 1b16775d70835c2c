package distance

import (
	"fmt"
	"slices"

	"github.com/chewxy/math32"
	"github.com/hupe1980/vecscan/internal/assert"
	"github.com/hupe1980/vecscan/internal/simd"
)

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
// Uses SIMD acceleration when available.
func Dot(a, b []float32) float32 {
	return simd.Dot(a, b)
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// The square root is never taken; rankings are identical and the computation
// is cheaper. Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	return simd.SquaredL2(a, b)
}

// L1 calculates the L1 (Manhattan) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func L1(a, b []float32) float32 {
	return simd.L1(a, b)
}

// Linf calculates the L-infinity (Chebyshev) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Linf(a, b []float32) float32 {
	return simd.Linf(a, b)
}

// SquaredNorm calculates the squared L2 norm of a vector.
func SquaredNorm(v []float32) float32 {
	return simd.SquaredNorm(v)
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm; the vector is then left untouched.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	norm2 := simd.SquaredNorm(v)
	if norm2 == 0 {
		return false
	}
	inv := 1 / math32.Sqrt(norm2)
	simd.ScaleInPlace(v, inv)
	return true
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false if src has zero L2 norm.
func NormalizeL2Copy(src []float32) ([]float32, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}
	return dst, true
}

// NormalizeRows L2-normalizes each dim-sized row of data in place.
// Rows with zero norm are left untouched. Returns the number of rows skipped.
func NormalizeRows(data []float32, dim int) int {
	const op = "distance.NormalizeRows"
	assert.That(dim > 0, op, "dim must be positive, got %d", dim)
	assert.That(len(data)%dim == 0, op, "len(data) %d is not a multiple of dim %d", len(data), dim)

	skipped := 0
	for off := 0; off < len(data); off += dim {
		if !NormalizeL2InPlace(data[off : off+dim]) {
			skipped++
		}
	}
	return skipped
}

// Metric represents the distance metric used for vector comparison.
type Metric int

const (
	// MetricL2 is the squared Euclidean distance (smaller is closer).
	MetricL2 Metric = iota
	// MetricDot is the dot product (larger is closer).
	MetricDot
	// MetricL1 is the Manhattan distance (smaller is closer).
	MetricL1
	// MetricLinf is the Chebyshev distance (smaller is closer).
	MetricLinf
)

func (m Metric) String() string {
	switch m {
	case MetricL2:
		return "L2"
	case MetricDot:
		return "Dot"
	case MetricL1:
		return "L1"
	case MetricLinf:
		return "Linf"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []float32) float32

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricL2:
		return SquaredL2, nil
	case MetricDot:
		return Dot, nil
	case MetricL1:
		return L1, nil
	case MetricLinf:
		return Linf, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
