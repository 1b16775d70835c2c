package distance

import (
	"github.com/chewxy/math32"
	"github.com/hupe1980/vecscan/internal/assert"
	"github.com/hupe1980/vecscan/internal/simd"
)

// DotBatch calculates the dot product between query and every dim-sized row
// of targets, writing one value per row into out.
func DotBatch(query []float32, targets []float32, dim int, out []float32) {
	const op = "distance.DotBatch"
	assert.That(dim > 0, op, "dim must be positive, got %d", dim)
	assert.That(len(query) >= dim, op, "query length %d below dim %d", len(query), dim)
	assert.That(len(targets) >= len(out)*dim, op, "targets length %d below %d rows of dim %d", len(targets), len(out), dim)

	simd.DotBatch(query, targets, dim, out)
}

// SquaredL2Batch calculates the squared L2 distance between query and every
// dim-sized row of targets, writing one value per row into out.
func SquaredL2Batch(query []float32, targets []float32, dim int, out []float32) {
	const op = "distance.SquaredL2Batch"
	assert.That(dim > 0, op, "dim must be positive, got %d", dim)
	assert.That(len(query) >= dim, op, "query length %d below dim %d", len(query), dim)
	assert.That(len(targets) >= len(out)*dim, op, "targets length %d below %d rows of dim %d", len(targets), len(out), dim)

	simd.SquaredL2Batch(query, targets, dim, out)
}

// Norms computes the L2 norm of each dim-sized row of data into out.
func Norms(data []float32, dim int, out []float32) {
	const op = "distance.Norms"
	assert.That(dim > 0, op, "dim must be positive, got %d", dim)
	assert.That(len(data) >= len(out)*dim, op, "data length %d below %d rows of dim %d", len(data), len(out), dim)

	for i := range out {
		out[i] = math32.Sqrt(simd.SquaredNorm(data[i*dim : (i+1)*dim]))
	}
}

// SquaredNorms computes the squared L2 norm of each dim-sized row of data
// into out.
func SquaredNorms(data []float32, dim int, out []float32) {
	const op = "distance.SquaredNorms"
	assert.That(dim > 0, op, "dim must be positive, got %d", dim)
	assert.That(len(data) >= len(out)*dim, op, "data length %d below %d rows of dim %d", len(data), len(out), dim)

	for i := range out {
		out[i] = simd.SquaredNorm(data[i*dim : (i+1)*dim])
	}
}

// DotToSquaredL2 converts dot products to squared L2 distances in place,
// using the identity |q-y|^2 = |q|^2 + |y|^2 - 2<q,y>. queryNorm is the
// squared norm of the query, norms holds the squared norm of each target.
// Small negative results from floating point cancellation are clamped to 0.
func DotToSquaredL2(dis []float32, queryNorm float32, norms []float32) {
	const op = "distance.DotToSquaredL2"
	assert.That(len(norms) == len(dis), op, "norms length %d != dis length %d", len(norms), len(dis))

	for i := range dis {
		d := queryNorm + norms[i] - 2*dis[i]
		if d < 0 {
			d = 0
		}
		dis[i] = d
	}
}

// DotByIDs calculates the dot product between query and the rows of data
// selected by ids, writing one value per id into out. A negative id leaves
// the corresponding out slot unchanged. Every non-negative id must address a
// dim-sized row within data.
func DotByIDs(query []float32, data []float32, ids []int64, dim int, out []float32) {
	const op = "distance.DotByIDs"
	assert.That(dim > 0, op, "dim must be positive, got %d", dim)
	assert.That(len(query) >= dim, op, "query length %d below dim %d", len(query), dim)
	assert.That(len(out) == len(ids), op, "out length %d != ids length %d", len(out), len(ids))

	q := query[:dim]
	for i, id := range ids {
		if id < 0 {
			continue
		}
		off := int(id) * dim
		out[i] = simd.Dot(q, data[off:off+dim])
	}
}

// SquaredL2ByIDs calculates the squared L2 distance between query and the
// rows of data selected by ids, writing one value per id into out. A negative
// id leaves the corresponding out slot unchanged.
func SquaredL2ByIDs(query []float32, data []float32, ids []int64, dim int, out []float32) {
	const op = "distance.SquaredL2ByIDs"
	assert.That(dim > 0, op, "dim must be positive, got %d", dim)
	assert.That(len(query) >= dim, op, "query length %d below dim %d", len(query), dim)
	assert.That(len(out) == len(ids), op, "out length %d != ids length %d", len(out), len(ids))

	q := query[:dim]
	for i, id := range ids {
		if id < 0 {
			continue
		}
		off := int(id) * dim
		out[i] = simd.SquaredL2(q, data[off:off+dim])
	}
}

// Madd computes dst = a + bf*b elementwise. dst may alias a or b.
func Madd(dst, a []float32, bf float32, b []float32) {
	const op = "distance.Madd"
	assert.That(len(a) == len(b), op, "length mismatch: %d != %d", len(a), len(b))
	assert.That(len(dst) == len(a), op, "dst length %d != input length %d", len(dst), len(a))

	for i := range a {
		dst[i] = a[i] + bf*b[i]
	}
}

// MaddArgmin computes dst = a + bf*b elementwise and returns the index of
// the smallest output value. Ties resolve to the lowest index. Returns -1
// for empty inputs.
func MaddArgmin(dst, a []float32, bf float32, b []float32) int {
	const op = "distance.MaddArgmin"
	assert.That(len(a) == len(b), op, "length mismatch: %d != %d", len(a), len(b))
	assert.That(len(dst) == len(a), op, "dst length %d != input length %d", len(dst), len(a))

	vmin := math32.Inf(1)
	imin := -1
	for i := range a {
		v := a[i] + bf*b[i]
		dst[i] = v
		if v < vmin {
			vmin = v
			imin = i
		}
	}
	return imin
}
