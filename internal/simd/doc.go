// Package simd provides the low-level float32 kernels behind the distance
// package.
//
// # Dispatch
//
// The dot product kernel is routed to an accelerated backend (AVX2 on
// x86-64, NEON on ARM64) selected once at init time via CPU feature
// detection. Set VECSCAN_SIMD=generic to force the pure Go fallback.
//
// Squared L2, L1 and Linf keep the plain forward accumulation loop on all
// platforms: their summation order defines the library's distance semantics
// and must not vary with the instruction set.
package simd
