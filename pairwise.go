package vecscan

import (
	"github.com/hupe1980/vecscan/internal/assert"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// PairwiseSquaredL2 computes the full x.Rows by y.Rows table of squared L2
// distances into dst, row q starting at q*ldd. ldd is the row stride of dst;
// 0 means y.Rows. Strided inputs are honored through Matrix.Stride.
//
// The table is built with a single GEMM through
// |q-y|^2 = |q|^2 + |y|^2 - 2<q,y>, clamping negative cancellation to 0.
func PairwiseSquaredL2(x, y Matrix, dst []float32, ldd int) {
	const op = "vecscan.PairwiseSquaredL2"
	x.validate(op)
	y.validate(op)
	assert.That(x.Dim == y.Dim, op, "dimension mismatch: %d != %d", x.Dim, y.Dim)

	if ldd == 0 {
		ldd = y.Rows
	}
	assert.That(ldd >= y.Rows, op, "dst stride %d below database rows %d", ldd, y.Rows)

	if x.Rows == 0 || y.Rows == 0 {
		return
	}

	need := (x.Rows-1)*ldd + y.Rows
	assert.That(len(dst) >= need, op, "dst length %d below %d required for %d rows", len(dst), need, x.Rows)

	xNorms := make([]float32, x.Rows)
	yNorms := make([]float32, y.Rows)
	squaredNorms(x, xNorms)
	squaredNorms(y, yNorms)

	c := blas32.General{Rows: x.Rows, Cols: y.Rows, Stride: ldd, Data: dst[:need]}
	blas32.Gemm(blas.NoTrans, blas.Trans, 1, x.general(0, x.Rows), y.general(0, y.Rows), 0, c)

	for q := range x.Rows {
		row := dst[q*ldd : q*ldd+y.Rows]
		xn := xNorms[q]
		for j, v := range row {
			d := xn + yNorms[j] - 2*v
			if d < 0 {
				d = 0
			}
			row[j] = d
		}
	}
}
