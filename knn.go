package vecscan

import (
	"github.com/hupe1980/vecscan/distance"
	"github.com/hupe1980/vecscan/internal/assert"
	"github.com/hupe1980/vecscan/topk"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// Block geometry of the GEMM path. A query block crosses a database block,
// so the inner-product panel buffer never exceeds
// blasBlockQueries*blasBlockDatabase float32 values (16 MiB).
const (
	blasBlockQueries  = 4096
	blasBlockDatabase = 1024
)

// batchKernel is the one-query-against-packed-rows form of a pairwise kernel.
type batchKernel func(query, targets []float32, dim int, out []float32)

// KNNSquaredL2 fills res with the k nearest rows of y per row of x under
// squared L2 distance. res must be a keep-min table with x.Rows rows; after
// the call row q is sorted ascending and its ids index y. If y has fewer
// than k rows the tail keeps +Inf sentinels and id -1.
//
// Path selection is per call: below SearchOptions.BLASThreshold queries the
// pairwise kernels run directly, at or above it a blocked GEMM computes
// inner-product panels that are converted through
// |q-y|^2 = |q|^2 + |y|^2 - 2<q,y>, clamping negative cancellation to 0.
func KNNSquaredL2(x, y Matrix, res *topk.Table, optFns ...func(*SearchOptions)) {
	knnSquaredL2("vecscan.KNNSquaredL2", x, y, nil, res, optFns)
}

// KNNSquaredL2BaseShift is KNNSquaredL2 with a per-database-vector bias:
// bases[j] is added to the squared distance of database vector j before
// ranking. Quantizer searches use this to fold precomputed residual terms
// into the comparison.
func KNNSquaredL2BaseShift(x, y Matrix, bases []float32, res *topk.Table, optFns ...func(*SearchOptions)) {
	const op = "vecscan.KNNSquaredL2BaseShift"
	assert.That(len(bases) == y.Rows, op, "bases length %d != database rows %d", len(bases), y.Rows)

	knnSquaredL2(op, x, y, bases, res, optFns)
}

// KNNDot fills res with the k highest-scoring rows of y per row of x under
// the dot product. res must be a keep-max table with x.Rows rows; after the
// call row q is sorted descending and its ids index y. Path selection works
// as in KNNSquaredL2.
func KNNDot(x, y Matrix, res *topk.Table, optFns ...func(*SearchOptions)) {
	const op = "vecscan.KNNDot"
	o := applySearchOptions(optFns)
	validateKNN(op, x, y, res, true)

	res.ResetAll()

	if y.Rows > 0 {
		log := o.Logger.WithQueries(x.Rows).WithDimension(x.Dim).WithK(res.K)
		if x.Rows >= o.BLASThreshold {
			log.Debug("knn dot via gemm", "database", y.Rows)
			knnBlasDot(x, y, res, o)
		} else {
			log.Debug("knn dot via direct kernels", "database", y.Rows)
			knnDirect(x, y, nil, res, o, distance.DotBatch, distance.Dot)
		}
	}

	res.Finalize()
}

func knnSquaredL2(op string, x, y Matrix, bases []float32, res *topk.Table, optFns []func(*SearchOptions)) {
	o := applySearchOptions(optFns)
	validateKNN(op, x, y, res, false)

	res.ResetAll()

	if y.Rows > 0 {
		log := o.Logger.WithQueries(x.Rows).WithDimension(x.Dim).WithK(res.K)
		if x.Rows >= o.BLASThreshold {
			log.Debug("knn squared l2 via gemm", "database", y.Rows)
			knnBlasSquaredL2(x, y, bases, res, o)
		} else {
			log.Debug("knn squared l2 via direct kernels", "database", y.Rows)
			knnDirect(x, y, bases, res, o, distance.SquaredL2Batch, distance.SquaredL2)
		}
	}

	res.Finalize()
}

// KNNSquaredL2ByIDs restricts each query to a caller-provided candidate set:
// ids is an x.Rows by ny row-major table of positions in y. Row q is scanned
// in order and a negative id ends the row early. Result labels are the id
// values themselves, duplicate ids compete as independent candidates, and
// rows with fewer than k candidates keep sentinel padding. Every
// non-negative id must address a row of y; that is the caller's
// responsibility.
func KNNSquaredL2ByIDs(x, y Matrix, ids []int64, ny int, res *topk.Table, optFns ...func(*SearchOptions)) {
	const op = "vecscan.KNNSquaredL2ByIDs"
	o := applySearchOptions(optFns)
	validateKNN(op, x, y, res, false)
	validateIDTable(op, x.Rows, ids, ny)

	res.ResetAll()
	knnByIDs(x, y, ids, ny, res, o, distance.SquaredL2)
	res.Finalize()
}

// KNNDotByIDs is the dot-product form of KNNSquaredL2ByIDs; res must be a
// keep-max table.
func KNNDotByIDs(x, y Matrix, ids []int64, ny int, res *topk.Table, optFns ...func(*SearchOptions)) {
	const op = "vecscan.KNNDotByIDs"
	o := applySearchOptions(optFns)
	validateKNN(op, x, y, res, true)
	validateIDTable(op, x.Rows, ids, ny)

	res.ResetAll()
	knnByIDs(x, y, ids, ny, res, o, distance.Dot)
	res.Finalize()
}

func validateKNN(op string, x, y Matrix, res *topk.Table, keepMax bool) {
	x.validate(op)
	y.validate(op)
	assert.That(x.Dim == y.Dim, op, "dimension mismatch: %d != %d", x.Dim, y.Dim)
	assert.That(res != nil, op, "result table must not be nil")
	assert.That(res.Rows() == x.Rows, op, "result rows %d != query rows %d", res.Rows(), x.Rows)

	if keepMax {
		assert.That(res.KeepsMax(), op, "result table must keep maximum scores")
	} else {
		assert.That(!res.KeepsMax(), op, "result table must keep minimum distances")
	}
}

func validateIDTable(op string, rows int, ids []int64, ny int) {
	assert.That(ny >= 0, op, "candidates per row must not be negative, got %d", ny)
	assert.That(len(ids) >= rows*ny, op, "ids length %d below %d rows of %d candidates", len(ids), rows, ny)
}

// knnDirect scans the whole database once per query with the pairwise
// kernels. Queries are split into contiguous chunks, each worker owns a
// scratch row and pushes only into its own result rows.
func knnDirect(x, y Matrix, bases []float32, res *topk.Table, o SearchOptions, batch batchKernel, pair distance.Func) {
	if x.Rows == 0 {
		return
	}

	chunks := min(o.Workers, x.Rows)

	var eg errgroup.Group
	eg.SetLimit(o.Workers)

	for c := range chunks {
		q0 := c * x.Rows / chunks
		q1 := (c + 1) * x.Rows / chunks

		eg.Go(func() error {
			dis := make([]float32, y.Rows)
			for q := q0; q < q1; q++ {
				xq := x.Row(q)
				if y.packed() {
					batch(xq, y.Data, y.Dim, dis)
				} else {
					for j := range dis {
						dis[j] = pair(xq, y.Row(j))
					}
				}
				for j, d := range dis {
					if bases != nil {
						d += bases[j]
					}
					res.Push(q, d, int64(j))
				}
			}
			return nil
		})
	}

	_ = eg.Wait()
}

// knnByIDs evaluates candidate rows in table order. Parallel over queries
// only; candidate rows of one query always stay on one worker.
func knnByIDs(x, y Matrix, ids []int64, ny int, res *topk.Table, o SearchOptions, pair distance.Func) {
	if x.Rows == 0 || ny == 0 {
		return
	}

	chunks := min(o.Workers, x.Rows)

	var eg errgroup.Group
	eg.SetLimit(o.Workers)

	for c := range chunks {
		q0 := c * x.Rows / chunks
		q1 := (c + 1) * x.Rows / chunks

		eg.Go(func() error {
			for q := q0; q < q1; q++ {
				xq := x.Row(q)
				for _, id := range ids[q*ny : (q+1)*ny] {
					if id < 0 {
						break
					}
					res.Push(q, pair(xq, y.Row(int(id))), id)
				}
			}
			return nil
		})
	}

	_ = eg.Wait()
}

// knnBlasSquaredL2 runs the blocked GEMM formulation: per block pair one
// Gemm computes the inner-product panel, then panel rows are converted to
// squared distances and pushed, parallel over the block's queries only. The
// Gemm call itself is never wrapped in module-level parallelism, and a
// result row is only ever touched by one worker per block.
func knnBlasSquaredL2(x, y Matrix, bases []float32, res *topk.Table, o SearchOptions) {
	xNorms := make([]float32, x.Rows)
	yNorms := make([]float32, y.Rows)
	squaredNorms(x, xNorms)
	squaredNorms(y, yNorms)

	panel := make([]float32, min(x.Rows, blasBlockQueries)*min(y.Rows, blasBlockDatabase))

	for i0 := 0; i0 < x.Rows; i0 += blasBlockQueries {
		i1 := min(i0+blasBlockQueries, x.Rows)
		for j0 := 0; j0 < y.Rows; j0 += blasBlockDatabase {
			j1 := min(j0+blasBlockDatabase, y.Rows)
			gemmPanel(x, y, i0, i1, j0, j1, panel)

			m, n := i1-i0, j1-j0
			chunks := min(o.Workers, m)

			var eg errgroup.Group
			eg.SetLimit(o.Workers)

			for c := range chunks {
				r0 := i0 + c*m/chunks
				r1 := i0 + (c+1)*m/chunks

				eg.Go(func() error {
					for q := r0; q < r1; q++ {
						row := panel[(q-i0)*n : (q-i0+1)*n]
						xn := xNorms[q]
						for jj, v := range row {
							d := xn + yNorms[j0+jj] - 2*v
							if d < 0 {
								d = 0
							}
							if bases != nil {
								d += bases[j0+jj]
							}
							res.Push(q, d, int64(j0+jj))
						}
					}
					return nil
				})
			}

			_ = eg.Wait()
		}
	}
}

// knnBlasDot is the dot-product panel scan: no norms, no conversion, the
// Gemm output is the score.
func knnBlasDot(x, y Matrix, res *topk.Table, o SearchOptions) {
	panel := make([]float32, min(x.Rows, blasBlockQueries)*min(y.Rows, blasBlockDatabase))

	for i0 := 0; i0 < x.Rows; i0 += blasBlockQueries {
		i1 := min(i0+blasBlockQueries, x.Rows)
		for j0 := 0; j0 < y.Rows; j0 += blasBlockDatabase {
			j1 := min(j0+blasBlockDatabase, y.Rows)
			gemmPanel(x, y, i0, i1, j0, j1, panel)

			m, n := i1-i0, j1-j0
			chunks := min(o.Workers, m)

			var eg errgroup.Group
			eg.SetLimit(o.Workers)

			for c := range chunks {
				r0 := i0 + c*m/chunks
				r1 := i0 + (c+1)*m/chunks

				eg.Go(func() error {
					for q := r0; q < r1; q++ {
						row := panel[(q-i0)*n : (q-i0+1)*n]
						for jj, v := range row {
							res.Push(q, v, int64(j0+jj))
						}
					}
					return nil
				})
			}

			_ = eg.Wait()
		}
	}
}

// gemmPanel computes the inner products between query rows [i0, i1) and
// database rows [j0, j1) into dst with row stride j1-j0.
func gemmPanel(x, y Matrix, i0, i1, j0, j1 int, dst []float32) {
	m, n := i1-i0, j1-j0
	c := blas32.General{Rows: m, Cols: n, Stride: n, Data: dst[:m*n]}
	blas32.Gemm(blas.NoTrans, blas.Trans, 1, x.general(i0, i1), y.general(j0, j1), 0, c)
}

// squaredNorms fills out with the squared L2 norm of every row of m.
func squaredNorms(m Matrix, out []float32) {
	if m.packed() {
		distance.SquaredNorms(m.Data, m.Dim, out)
		return
	}
	for i := range out {
		out[i] = distance.SquaredNorm(m.Row(i))
	}
}
