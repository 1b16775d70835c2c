package vecscan

import (
	"github.com/hupe1980/vecscan/internal/assert"
	"gonum.org/v1/gonum/blas/blas32"
)

// Matrix is a row-major borrowed view over Rows vectors of dimension Dim.
// It never owns or copies its data; callers keep the backing slice alive for
// as long as the view is used. The zero Stride means rows are packed
// back to back.
type Matrix struct {
	// Data holds the vector components, row i starting at i*stride.
	Data []float32
	// Rows is the number of vectors.
	Rows int
	// Dim is the number of components per vector.
	Dim int
	// Stride is the leading dimension, the offset between consecutive rows.
	// Zero means Dim.
	Stride int
}

// NewMatrix builds a packed view over rows vectors of dimension dim.
func NewMatrix(data []float32, rows, dim int) Matrix {
	m := Matrix{Data: data, Rows: rows, Dim: dim}
	m.validate("vecscan.NewMatrix")
	return m
}

// WithStride derives a view whose rows are stride elements apart.
// stride must be at least Dim.
func (m Matrix) WithStride(stride int) Matrix {
	m.Stride = stride
	m.validate("vecscan.Matrix.WithStride")
	return m
}

// Row returns the i-th vector as a Dim-sized slice of the backing data.
func (m Matrix) Row(i int) []float32 {
	off := i * m.stride()
	return m.Data[off : off+m.Dim]
}

func (m Matrix) stride() int {
	if m.Stride == 0 {
		return m.Dim
	}
	return m.Stride
}

// packed reports whether rows are contiguous, which lets batch kernels run
// over the whole backing slice instead of row by row.
func (m Matrix) packed() bool {
	return m.stride() == m.Dim
}

func (m Matrix) validate(op string) {
	assert.That(m.Rows >= 0, op, "rows must not be negative, got %d", m.Rows)
	assert.That(m.Dim > 0, op, "dim must be positive, got %d", m.Dim)
	s := m.stride()
	assert.That(s >= m.Dim, op, "stride %d below dim %d", s, m.Dim)
	if m.Rows > 0 {
		need := (m.Rows-1)*s + m.Dim
		assert.That(len(m.Data) >= need, op, "data length %d below %d required for %d rows of dim %d", len(m.Data), need, m.Rows, m.Dim)
	}
}

// general exposes rows [i0, i1) as a blas32 matrix sharing the same backing
// data. Callers must keep i0 < i1 <= Rows.
func (m Matrix) general(i0, i1 int) blas32.General {
	s := m.stride()
	return blas32.General{
		Rows:   i1 - i0,
		Cols:   m.Dim,
		Stride: s,
		Data:   m.Data[i0*s:],
	}
}
