package vecscan

import (
	"github.com/hupe1980/vecscan/internal/assert"
	"gonum.org/v1/gonum/mat"
)

// MatrixQR orthonormalizes the n columns of the column-major m by n matrix a
// in place, m >= n. On return the columns span the same subspace and are
// pairwise orthogonal with unit norm. Rotation-matrix initialization for
// dimension-reducing transforms is the typical caller.
func MatrixQR(m, n int, a []float32) {
	const op = "vecscan.MatrixQR"
	assert.That(n > 0, op, "columns must be positive, got %d", n)
	assert.That(m >= n, op, "rows %d below columns %d", m, n)
	assert.That(len(a) >= m*n, op, "data length %d below %d required for %dx%d", len(a), m*n, m, n)

	dense := mat.NewDense(m, n, nil)
	for j := range n {
		for i := range m {
			dense.Set(i, j, float64(a[j*m+i]))
		}
	}

	var qr mat.QR
	qr.Factorize(dense)

	var q mat.Dense
	qr.QTo(&q)

	// QTo yields the full m by m factor; the thin factor is its first n
	// columns.
	for j := range n {
		for i := range m {
			a[j*m+i] = float32(q.At(i, j))
		}
	}
}
