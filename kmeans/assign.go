package kmeans

import (
	"github.com/hupe1980/vecscan"
	"github.com/hupe1980/vecscan/internal/assert"
	"github.com/hupe1980/vecscan/rng"
	"github.com/hupe1980/vecscan/topk"
)

// Assign computes the nearest centroid of every vector under squared L2,
// writing the centroid index into assign and the distance into dis. It is
// the k=1 KNN search over the caller's slices; the usual per-call options
// (worker cap, GEMM threshold, logger) apply.
func Assign(x, centroids []float32, dim int, assign []int64, dis []float32, optFns ...func(*vecscan.SearchOptions)) {
	const op = "kmeans.Assign"
	assert.That(dim > 0, op, "dim must be positive, got %d", dim)
	assert.That(len(x)%dim == 0, op, "len(x) %d is not a multiple of dim %d", len(x), dim)
	assert.That(len(centroids)%dim == 0, op, "len(centroids) %d is not a multiple of dim %d", len(centroids), dim)

	n := len(x) / dim
	k := len(centroids) / dim
	assert.That(len(assign) == n, op, "assign length %d != vector count %d", len(assign), n)
	assert.That(len(dis) == n, op, "dis length %d != vector count %d", len(dis), n)

	res := topk.WrapMin(dis, assign, 1)
	vecscan.KNNSquaredL2(vecscan.NewMatrix(x, n, dim), vecscan.NewMatrix(centroids, k, dim), res, optFns...)
}

// ImbalanceFactor measures how unevenly an assignment spreads over k
// clusters: k times the sum of squared cluster sizes over the squared total.
// A perfectly uniform assignment scores exactly 1.0, anything else scores
// higher. NaN for an empty assignment.
func ImbalanceFactor(k int, assign []int64) float64 {
	const op = "kmeans.ImbalanceFactor"
	assert.That(k > 0, op, "k must be positive, got %d", k)

	hist := make([]int, k)
	for i, ci := range assign {
		assert.That(ci >= 0 && int(ci) < k, op, "assign[%d] = %d out of range [0, %d)", i, ci, k)
		hist[ci]++
	}
	return ImbalanceFactorHist(hist)
}

// ImbalanceFactorHist is ImbalanceFactor over a precomputed size histogram.
func ImbalanceFactorHist(hist []int) float64 {
	var tot, uf float64
	for _, ni := range hist {
		tot += float64(ni)
		uf += float64(ni) * float64(ni)
	}
	return uf * float64(len(hist)) / (tot * tot)
}

// Subsample bounds a training set to nmax vectors. It returns x unchanged
// when it holds at most nmax rows, otherwise a fresh buffer with nmax rows
// drawn without replacement in seeded permutation order.
func Subsample(x []float32, dim, nmax int, seed int64) []float32 {
	const op = "kmeans.Subsample"
	assert.That(dim > 0, op, "dim must be positive, got %d", dim)
	assert.That(len(x)%dim == 0, op, "len(x) %d is not a multiple of dim %d", len(x), dim)
	assert.That(nmax >= 0, op, "nmax must not be negative, got %d", nmax)

	n := len(x) / dim
	if n <= nmax {
		return x
	}

	perm := rng.Perm(n, seed)
	out := make([]float32, nmax*dim)
	for i := range nmax {
		copy(out[i*dim:(i+1)*dim], x[perm[i]*dim:(perm[i]+1)*dim])
	}
	return out
}
