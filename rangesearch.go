package vecscan

import (
	"github.com/hupe1980/vecscan/distance"
	"github.com/hupe1980/vecscan/internal/assert"
	"golang.org/x/sync/errgroup"
)

// RangeConsumer receives range-search matches. The orchestrators deliver
// matches on the calling goroutine in nondecreasing query order and call
// Finish exactly once after the last match, so implementations need no
// locking.
type RangeConsumer interface {
	// Append records one match for query.
	Append(query int, id int64, dis float32)
	// Finish marks the end of the stream.
	Finish()
}

// RangeResult is the stock RangeConsumer: a CSR-shaped result set. Query q
// owns IDs[Lims[q]:Lims[q+1]] and Dis[Lims[q]:Lims[q+1]], in no particular
// order within the query.
type RangeResult struct {
	// Lims holds queries+1 offsets into IDs and Dis, Lims[0] is 0.
	Lims []int
	// IDs holds the matched database positions of all queries back to back.
	IDs []int64
	// Dis holds the distances aligned with IDs.
	Dis []float32

	cur int
}

// NewRangeResult creates an empty result set for the given query count.
func NewRangeResult(queries int) *RangeResult {
	const op = "vecscan.NewRangeResult"
	assert.That(queries >= 0, op, "queries must not be negative, got %d", queries)

	return &RangeResult{Lims: make([]int, queries+1)}
}

// Queries returns the number of result rows.
func (r *RangeResult) Queries() int { return len(r.Lims) - 1 }

// Count returns the number of matches recorded for query q.
func (r *RangeResult) Count(q int) int { return r.Lims[q+1] - r.Lims[q] }

// Query returns the ids and distances recorded for query q.
func (r *RangeResult) Query(q int) ([]int64, []float32) {
	return r.IDs[r.Lims[q]:r.Lims[q+1]], r.Dis[r.Lims[q]:r.Lims[q+1]]
}

// Append implements RangeConsumer. Matches must arrive in nondecreasing
// query order; the boundaries of queries without matches collapse as the
// stream advances past them.
func (r *RangeResult) Append(query int, id int64, dis float32) {
	const op = "vecscan.RangeResult.Append"
	assert.That(query >= 0 && query < r.Queries(), op, "query %d out of range [0, %d)", query, r.Queries())
	assert.That(query >= r.cur, op, "query %d arrived after %d", query, r.cur)

	if query > r.cur {
		for q := r.cur + 1; q <= query; q++ {
			r.Lims[q] = len(r.IDs)
		}
		r.cur = query
	}

	r.IDs = append(r.IDs, id)
	r.Dis = append(r.Dis, dis)
	r.Lims[query+1] = len(r.IDs)
}

// Finish implements RangeConsumer: it seals the boundaries of all queries
// after the last one that matched. Further appends panic.
func (r *RangeResult) Finish() {
	for q := r.cur + 1; q < len(r.Lims); q++ {
		r.Lims[q] = len(r.IDs)
	}
	r.cur = len(r.Lims) - 1
}

// RangeSearchSquaredL2 reports every database vector strictly within radius
// of each query under squared L2: vector j matches query q iff
// SquaredL2(xq, yj) < radius. Matches are delivered to res in nondecreasing
// query order with no order guarantee within a query; ids index y.
func RangeSearchSquaredL2(x, y Matrix, radius float32, res RangeConsumer, optFns ...func(*SearchOptions)) {
	const op = "vecscan.RangeSearchSquaredL2"
	o := applySearchOptions(optFns)
	validateRangeSearch(op, x, y, res)

	rangeSearch(x, y, radius, res, o, distance.SquaredL2Batch, distance.SquaredL2, false)
}

// RangeSearchDot reports every database vector scoring strictly above radius
// against each query under the dot product: vector j matches query q iff
// Dot(xq, yj) > radius.
func RangeSearchDot(x, y Matrix, radius float32, res RangeConsumer, optFns ...func(*SearchOptions)) {
	const op = "vecscan.RangeSearchDot"
	o := applySearchOptions(optFns)
	validateRangeSearch(op, x, y, res)

	rangeSearch(x, y, radius, res, o, distance.DotBatch, distance.Dot, true)
}

func validateRangeSearch(op string, x, y Matrix, res RangeConsumer) {
	x.validate(op)
	y.validate(op)
	assert.That(x.Dim == y.Dim, op, "dimension mismatch: %d != %d", x.Dim, y.Dim)
	assert.That(res != nil, op, "result consumer must not be nil")
}

// rangeBuffer collects the matches of one contiguous query chunk. ends[i]
// delimits the matches of query q0+i, so replay recovers per-query runs
// without storing the query index per match.
type rangeBuffer struct {
	q0   int
	ids  []int64
	dis  []float32
	ends []int
}

// rangeSearch partitions queries into contiguous chunks, one private buffer
// per chunk, then replays the buffers into res in query order on the calling
// goroutine. above selects the predicate direction: dis > radius instead of
// dis < radius. NaN never matches either way.
func rangeSearch(x, y Matrix, radius float32, res RangeConsumer, o SearchOptions, batch batchKernel, pair distance.Func, above bool) {
	chunks := min(o.Workers, x.Rows)
	buffers := make([]rangeBuffer, chunks)

	var eg errgroup.Group
	eg.SetLimit(o.Workers)

	for c := range chunks {
		q0 := c * x.Rows / chunks
		q1 := (c + 1) * x.Rows / chunks
		buffers[c].q0 = q0

		eg.Go(func() error {
			buf := &buffers[c]
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
					if above {
						if !(d > radius) {
							continue
						}
					} else if !(d < radius) {
						continue
					}
					buf.ids = append(buf.ids, int64(j))
					buf.dis = append(buf.dis, d)
				}
				buf.ends = append(buf.ends, len(buf.ids))
			}
			return nil
		})
	}

	_ = eg.Wait()

	total := 0
	for c := range buffers {
		buf := &buffers[c]
		start := 0
		for i, end := range buf.ends {
			for t := start; t < end; t++ {
				res.Append(buf.q0+i, buf.ids[t], buf.dis[t])
			}
			start = end
		}
		total += len(buf.ids)
	}
	res.Finish()

	o.Logger.WithQueries(x.Rows).WithCount(total).Debug("range search done", "database", y.Rows)
}
