package kmeans

import (
	"math"
	"testing"

	"github.com/hupe1980/vecscan"
	"github.com/hupe1980/vecscan/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssign(t *testing.T) {
	x := []float32{0, 5, 9, 4}
	centroids := []float32{1, 8}

	assign := make([]int64, 4)
	dis := make([]float32, 4)
	Assign(x, centroids, 1, assign, dis)

	assert.Equal(t, []int64{0, 1, 1, 0}, assign)
	assert.Equal(t, []float32{1, 9, 1, 9}, dis)

	t.Run("SearchOptionsApply", func(t *testing.T) {
		assign2 := make([]int64, 4)
		dis2 := make([]float32, 4)
		Assign(x, centroids, 1, assign2, dis2, vecscan.WithWorkers(2))

		assert.Equal(t, assign, assign2)
		assert.Equal(t, dis, dis2)
	})

	t.Run("AssignLengthPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			Assign(x, centroids, 1, make([]int64, 3), make([]float32, 4))
		})
	})

	t.Run("DisLengthPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			Assign(x, centroids, 1, make([]int64, 4), make([]float32, 3))
		})
	})
}

func TestImbalanceFactor(t *testing.T) {
	t.Run("Balanced", func(t *testing.T) {
		assign := []int64{0, 1, 2, 3, 0, 1, 2, 3}
		require.Equal(t, 1.0, ImbalanceFactor(4, assign))
	})

	t.Run("Skewed", func(t *testing.T) {
		assign := []int64{0, 0, 0, 1}
		assert.Equal(t, 1.25, ImbalanceFactor(2, assign))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.True(t, math.IsNaN(ImbalanceFactor(3, nil)))
	})

	t.Run("Hist", func(t *testing.T) {
		assert.Equal(t, 1.0, ImbalanceFactorHist([]int{2, 2}))
		assert.Equal(t, 2.0, ImbalanceFactorHist([]int{4, 0}))
	})

	t.Run("BadAssignPanics", func(t *testing.T) {
		assert.Panics(t, func() { ImbalanceFactor(2, []int64{0, 5}) })
	})
}

func TestSubsample(t *testing.T) {
	t.Run("SmallSetPassesThrough", func(t *testing.T) {
		x := []float32{1, 2, 3, 4, 5, 6}
		got := Subsample(x, 2, 3, 99)

		require.Len(t, got, len(x))
		assert.Same(t, &x[0], &got[0])
	})

	t.Run("Downsamples", func(t *testing.T) {
		const (
			n    = 100
			dim  = 3
			nmax = 10
		)

		x := make([]float32, n*dim)
		rng.FillUniform(x, 5)

		rows := make(map[[dim]float32]bool, n)
		for i := range n {
			rows[[dim]float32(x[i*dim:(i+1)*dim])] = true
		}

		got := Subsample(x, dim, nmax, 99)
		require.Len(t, got, nmax*dim)

		seen := make(map[[dim]float32]bool, nmax)
		for i := range nmax {
			row := [dim]float32(got[i*dim : (i+1)*dim])
			assert.True(t, rows[row], "sampled row %d not in the source set", i)
			seen[row] = true
		}
		assert.Len(t, seen, nmax, "sampling must not repeat rows")
	})

	t.Run("Deterministic", func(t *testing.T) {
		x := make([]float32, 100)
		rng.FillUniform(x, 5)

		assert.Equal(t, Subsample(x, 1, 10, 99), Subsample(x, 1, 10, 99))
		assert.NotEqual(t, Subsample(x, 1, 10, 99), Subsample(x, 1, 10, 100))
	})

	t.Run("ZeroMax", func(t *testing.T) {
		assert.Empty(t, Subsample([]float32{1, 2}, 1, 0, 99))
	})

	t.Run("NegativeMaxPanics", func(t *testing.T) {
		assert.Panics(t, func() { Subsample([]float32{1, 2}, 1, -1, 99) })
	})
}
