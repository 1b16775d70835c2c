package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 32},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Mixed", []float32{1, -1, 2}, []float32{1, 1, -2}, -4},
		{"Empty", []float32{}, []float32{}, 0},
		{"Single", []float32{2}, []float32{3}, 6},
		// Large vector to trigger potential loop unrolling/SIMD
		{"Large", make([]float32, 1024), make([]float32, 1024), 0}, // Zeros
	}

	// Setup large vector
	for i := range tests[5].a {
		tests[5].a[i] = 1
		tests[5].b[i] = 1
	}
	tests[5].expected = 1024

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dot(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 27},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"Mixed", []float32{1, -1}, []float32{-1, 1}, 8}, // (1 - -1)^2 + (-1 - 1)^2 = 4 + 4 = 8
		{"Empty", []float32{}, []float32{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SquaredL2(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestL1(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 9},
		{"Mixed", []float32{1, -1}, []float32{-1, 1}, 4},
		{"Identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"Empty", []float32{}, []float32{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := L1(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestLinf(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 9}, 6},
		{"Mixed", []float32{1, -1}, []float32{-1, 1}, 2},
		{"Identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"Empty", []float32{}, []float32{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Linf(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestNormalizeL2(t *testing.T) {
	t.Run("InPlace", func(t *testing.T) {
		// Normal case
		v := []float32{3, 4}
		ok := NormalizeL2InPlace(v)
		assert.True(t, ok)
		assert.InDelta(t, float32(0.6), v[0], 1e-5)
		assert.InDelta(t, float32(0.8), v[1], 1e-5)

		// Length check of norm
		assert.InDelta(t, float32(1.0), float32(math.Sqrt(float64(v[0]*v[0]+v[1]*v[1]))), 1e-5)

		// Zero vector stays untouched
		vZero := []float32{0, 0}
		ok = NormalizeL2InPlace(vZero)
		assert.False(t, ok)
		assert.Equal(t, []float32{0, 0}, vZero)

		// Empty vector
		vEmpty := []float32{}
		ok = NormalizeL2InPlace(vEmpty)
		assert.False(t, ok)
	})

	t.Run("Copy", func(t *testing.T) {
		v := []float32{1, 0}
		dst, ok := NormalizeL2Copy(v)
		assert.True(t, ok)
		assert.Equal(t, float32(1), dst[0])
		assert.NotSame(t, &v[0], &dst[0])

		vZero := []float32{0, 0}
		dst, ok = NormalizeL2Copy(vZero)
		assert.False(t, ok)
		assert.Nil(t, dst)
	})

	t.Run("Rows", func(t *testing.T) {
		// Second row is all zero and must survive untouched.
		data := []float32{3, 4, 0, 0, 0, 2}
		skipped := NormalizeRows(data, 2)
		assert.Equal(t, 1, skipped)
		assert.InDelta(t, float32(0.6), data[0], 1e-5)
		assert.InDelta(t, float32(0.8), data[1], 1e-5)
		assert.Equal(t, float32(0), data[2])
		assert.Equal(t, float32(0), data[3])
		assert.InDelta(t, float32(1.0), data[5], 1e-5)
	})

	t.Run("RowsBadShape", func(t *testing.T) {
		assert.Panics(t, func() {
			NormalizeRows([]float32{1, 2, 3}, 2)
		})
	})
}

func TestNorms(t *testing.T) {
	data := []float32{3, 4, 0, 0, 1, 0}

	out := make([]float32, 3)
	Norms(data, 2, out)
	assert.InDeltaSlice(t, []float32{5, 0, 1}, out, 1e-5)

	SquaredNorms(data, 2, out)
	assert.InDeltaSlice(t, []float32{25, 0, 1}, out, 1e-5)

	assert.InDelta(t, float32(25), SquaredNorm([]float32{3, 4}), 1e-5)
}

func TestBatch(t *testing.T) {
	query := []float32{1, 2}
	targets := []float32{
		0, 0,
		3, 4,
		1, 2,
	}

	out := make([]float32, 3)
	SquaredL2Batch(query, targets, 2, out)
	assert.InDeltaSlice(t, []float32{5, 8, 0}, out, 1e-5)

	DotBatch(query, targets, 2, out)
	assert.InDeltaSlice(t, []float32{0, 11, 5}, out, 1e-5)

	t.Run("ShortTargets", func(t *testing.T) {
		assert.Panics(t, func() {
			SquaredL2Batch(query, targets[:4], 2, out)
		})
	})
}

func TestDotToSquaredL2(t *testing.T) {
	query := []float32{1, 2}
	targets := []float32{
		0, 0,
		3, 4,
		1, 2,
	}

	dis := make([]float32, 3)
	DotBatch(query, targets, 2, dis)

	norms := make([]float32, 3)
	SquaredNorms(targets, 2, norms)

	DotToSquaredL2(dis, SquaredNorm(query), norms)
	assert.InDeltaSlice(t, []float32{5, 8, 0}, dis, 1e-5)

	// Cancellation below zero is clamped.
	d := []float32{1.0000001}
	DotToSquaredL2(d, 1, []float32{1})
	assert.GreaterOrEqual(t, d[0], float32(0))
}

func TestByIDs(t *testing.T) {
	query := []float32{1, 2}
	data := []float32{
		0, 0,
		3, 4,
		1, 2,
	}

	t.Run("Gather", func(t *testing.T) {
		ids := []int64{2, 0, 2}
		out := make([]float32, 3)

		SquaredL2ByIDs(query, data, ids, 2, out)
		assert.InDeltaSlice(t, []float32{0, 5, 0}, out, 1e-5)

		DotByIDs(query, data, ids, 2, out)
		assert.InDeltaSlice(t, []float32{5, 0, 5}, out, 1e-5)
	})

	t.Run("NegativeIDLeavesSlot", func(t *testing.T) {
		ids := []int64{1, -1, 0}
		out := []float32{-7, -7, -7}

		SquaredL2ByIDs(query, data, ids, 2, out)
		assert.InDelta(t, float32(8), out[0], 1e-5)
		assert.Equal(t, float32(-7), out[1])
		assert.InDelta(t, float32(5), out[2], 1e-5)
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		assert.Panics(t, func() {
			DotByIDs(query, data, []int64{0, 1}, 2, make([]float32, 3))
		})
	})
}

func TestMadd(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{10, -10, 0}

	dst := make([]float32, 3)
	Madd(dst, a, 0.5, b)
	assert.InDeltaSlice(t, []float32{6, -3, 3}, dst, 1e-5)

	// In-place over a
	Madd(a, a, 0.5, b)
	assert.InDeltaSlice(t, []float32{6, -3, 3}, a, 1e-5)
}

func TestMaddArgmin(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{10, -10, 0}

	dst := make([]float32, 3)
	imin := MaddArgmin(dst, a, 0.5, b)
	assert.Equal(t, 1, imin)
	assert.InDeltaSlice(t, []float32{6, -3, 3}, dst, 1e-5)

	t.Run("TiesResolveToLowestIndex", func(t *testing.T) {
		out := make([]float32, 3)
		got := MaddArgmin(out, []float32{2, 2, 2}, 0, []float32{0, 0, 0})
		assert.Equal(t, 0, got)
	})

	t.Run("Empty", func(t *testing.T) {
		got := MaddArgmin(nil, nil, 1, nil)
		assert.Equal(t, -1, got)
	})
}

func TestMetric(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "L2", MetricL2.String())
		assert.Equal(t, "Dot", MetricDot.String())
		assert.Equal(t, "L1", MetricL1.String())
		assert.Equal(t, "Linf", MetricLinf.String())
		assert.Equal(t, "Unknown(99)", Metric(99).String())
	})

	t.Run("Provider", func(t *testing.T) {
		f, err := Provider(MetricL2)
		require.NoError(t, err)
		assert.InDelta(t, float32(27), f([]float32{1, 2, 3}, []float32{4, 5, 6}), 1e-5)

		f, err = Provider(MetricDot)
		require.NoError(t, err)
		assert.InDelta(t, float32(32), f([]float32{1, 2, 3}, []float32{4, 5, 6}), 1e-5)

		f, err = Provider(MetricL1)
		require.NoError(t, err)
		assert.InDelta(t, float32(9), f([]float32{1, 2, 3}, []float32{4, 5, 6}), 1e-5)

		f, err = Provider(MetricLinf)
		require.NoError(t, err)
		assert.InDelta(t, float32(3), f([]float32{1, 2, 3}, []float32{4, 5, 6}), 1e-5)

		_, err = Provider(Metric(99))
		assert.Error(t, err)
	})
}
