package rng

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vecscan/internal/assert"
)

// Options configures the parallel Fill functions.
type Options struct {
	// Workers caps fill parallelism. Defaults to GOMAXPROCS.
	Workers int
}

func applyOptions(optFns []func(*Options)) Options {
	o := Options{
		Workers: runtime.GOMAXPROCS(0),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}

// fillBlocks is the fixed block count for parallel fills. Blocks map to
// derived seeds by position, which keeps output independent of the worker
// count.
const fillBlocks = 1024

func blockCount(n int) int {
	// Not worth splitting small buffers.
	if n < fillBlocks {
		return 1
	}
	return fillBlocks
}

// blockSeeds derives one child seed per block from the parent seed.
func blockSeeds(seed int64, blocks int) []int64 {
	parent := New(seed)
	seeds := make([]int64, blocks)
	for i := range seeds {
		seeds[i] = parent.Int63()
	}
	return seeds
}

// fillParallel runs fn over contiguous block ranges of [0, n), one derived
// Generator per block.
func fillParallel(n int, seed int64, workers int, fn func(g *Generator, lo, hi int)) {
	blocks := blockCount(n)
	seeds := blockSeeds(seed, blocks)

	var eg errgroup.Group
	eg.SetLimit(workers)
	for j := range blocks {
		eg.Go(func() error {
			lo := j * n / blocks
			hi := (j + 1) * n / blocks
			fn(New(seeds[j]), lo, hi)
			return nil
		})
	}
	_ = eg.Wait() // fill workers never return errors
}

// FillUniform fills dst with uniform values in [0, 1).
func FillUniform(dst []float32, seed int64, optFns ...func(*Options)) {
	o := applyOptions(optFns)
	fillParallel(len(dst), seed, o.Workers, func(g *Generator, lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = g.Float32()
		}
	})
}

// FillUniformRange fills dst with uniform values in [minVal, maxVal).
func FillUniformRange(dst []float32, minVal, maxVal float32, seed int64, optFns ...func(*Options)) {
	o := applyOptions(optFns)
	span := maxVal - minVal
	fillParallel(len(dst), seed, o.Workers, func(g *Generator, lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = minVal + g.Float32()*span
		}
	})
}

// FillNormal fills dst with normally distributed values (mean 0, stddev 1).
func FillNormal(dst []float32, seed int64, optFns ...func(*Options)) {
	o := applyOptions(optFns)
	fillParallel(len(dst), seed, o.Workers, func(g *Generator, lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = float32(g.NormFloat64())
		}
	})
}

// FillInt64 fills dst with uniform values in [0, vmax).
func FillInt64(dst []int64, vmax int64, seed int64, optFns ...func(*Options)) {
	assert.That(vmax > 0, "rng.FillInt64", "vmax must be positive, got %d", vmax)

	o := applyOptions(optFns)
	fillParallel(len(dst), seed, o.Workers, func(g *Generator, lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = g.Int63n(vmax)
		}
	})
}

// FillBytes fills dst with pseudo-random bytes.
func FillBytes(dst []byte, seed int64, optFns ...func(*Options)) {
	o := applyOptions(optFns)
	fillParallel(len(dst), seed, o.Workers, func(g *Generator, lo, hi int) {
		_, _ = g.Read(dst[lo:hi])
	})
}

// Perm returns a seeded pseudo-random permutation of [0, n).
func Perm(n int, seed int64) []int {
	return New(seed).Perm(n)
}
