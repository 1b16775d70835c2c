package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorDeterminism(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float32(), b.Float32())
	}

	t.Run("Reset", func(t *testing.T) {
		g := New(7)
		first := make([]float32, 10)
		for i := range first {
			first[i] = g.Float32()
		}
		g.Reset()
		for i := range first {
			assert.Equal(t, first[i], g.Float32())
		}
	})

	t.Run("Seed", func(t *testing.T) {
		assert.Equal(t, int64(7), New(7).Seed())
	})
}

func TestFillUniform(t *testing.T) {
	dst := make([]float32, 10000)
	FillUniform(dst, 1)

	for _, v := range dst {
		require.GreaterOrEqual(t, v, float32(0))
		require.Less(t, v, float32(1))
	}

	t.Run("SameSeedSameOutput", func(t *testing.T) {
		other := make([]float32, 10000)
		FillUniform(other, 1)
		assert.Equal(t, dst, other)
	})

	t.Run("DifferentSeedDiffers", func(t *testing.T) {
		other := make([]float32, 10000)
		FillUniform(other, 2)
		assert.NotEqual(t, dst, other)
	})
}

func TestFillWorkerCountInvariance(t *testing.T) {
	const n = 50000

	serial := make([]float32, n)
	FillUniform(serial, 99, func(o *Options) { o.Workers = 1 })

	parallel := make([]float32, n)
	FillUniform(parallel, 99, func(o *Options) { o.Workers = 8 })

	assert.Equal(t, serial, parallel)

	t.Run("Normal", func(t *testing.T) {
		a := make([]float32, n)
		FillNormal(a, 5, func(o *Options) { o.Workers = 1 })
		b := make([]float32, n)
		FillNormal(b, 5, func(o *Options) { o.Workers = 8 })
		assert.Equal(t, a, b)
	})

	t.Run("Bytes", func(t *testing.T) {
		a := make([]byte, n)
		FillBytes(a, 5, func(o *Options) { o.Workers = 1 })
		b := make([]byte, n)
		FillBytes(b, 5, func(o *Options) { o.Workers = 8 })
		assert.Equal(t, a, b)
	})
}

func TestFillUniformRange(t *testing.T) {
	dst := make([]float32, 5000)
	FillUniformRange(dst, -2, 3, 11)

	for _, v := range dst {
		require.GreaterOrEqual(t, v, float32(-2))
		require.Less(t, v, float32(3))
	}
}

func TestFillNormalMoments(t *testing.T) {
	dst := make([]float32, 100000)
	FillNormal(dst, 42)

	var sum, sumSq float64
	for _, v := range dst {
		sum += float64(v)
		sumSq += float64(v) * float64(v)
	}
	mean := sum / float64(len(dst))
	variance := sumSq/float64(len(dst)) - mean*mean

	assert.InDelta(t, 0.0, mean, 0.05)
	assert.InDelta(t, 1.0, variance, 0.1)
}

func TestFillInt64(t *testing.T) {
	dst := make([]int64, 5000)
	FillInt64(dst, 10, 3)

	seen := make(map[int64]bool)
	for _, v := range dst {
		require.GreaterOrEqual(t, v, int64(0))
		require.Less(t, v, int64(10))
		seen[v] = true
	}
	// All buckets hit for 5000 draws over 10 values.
	assert.Len(t, seen, 10)

	t.Run("InvalidVmax", func(t *testing.T) {
		assert.Panics(t, func() { FillInt64(dst, 0, 3) })
	})
}

func TestPerm(t *testing.T) {
	p := Perm(100, 4)
	require.Len(t, p, 100)

	seen := make([]bool, 100)
	for _, v := range p {
		require.False(t, seen[v])
		seen[v] = true
	}

	assert.Equal(t, p, Perm(100, 4))
	assert.NotEqual(t, p, Perm(100, 5))
}
