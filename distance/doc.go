// Package distance provides the float32 distance kernels for exhaustive
// vector search.
//
// All kernels are sequential and allocation free; batched and gathered forms
// operate on flattened row-major buffers. The dot product uses a SIMD
// backend when available (AVX2 on x86-64, NEON on ARM64). Squared L2, L1 and
// Linf always use the plain forward accumulation loop so results are
// identical on every platform.
//
// # Supported Metrics
//
//   - MetricL2: Squared Euclidean distance (default)
//   - MetricDot: Dot product (inner product)
//   - MetricL1: Manhattan distance
//   - MetricLinf: Chebyshev distance
//
// # Usage
//
//	dist := distance.SquaredL2(a, b)
//	sim := distance.Dot(a, b)
//	distance.NormalizeL2InPlace(vec)
package distance
