// Package topk implements bounded top-k result tables for exhaustive search.
//
// A Table holds one k-sized result row per query in flat, caller visible
// slices. During collection each row is a binary heap whose root is the
// current worst admitted entry, so offering a new candidate is a single
// compare in the common case and O(log k) when it is admitted. Finalize
// heap-sorts every row in place: ascending for min tables (distances),
// descending for max tables (similarities).
package topk

import (
	"github.com/chewxy/math32"
	"github.com/hupe1980/vecscan/internal/assert"
)

// emptyID marks unused slots in a row.
const emptyID int64 = -1

// Table accumulates the best k values per result row.
// Value-based storage: rows live in two flat slices, row i occupying
// [i*K, (i+1)*K). Not safe for concurrent use of the same row.
type Table struct {
	// K is the number of entries per row.
	K int
	// Dis holds row-major values, row i at [i*K, (i+1)*K).
	Dis []float32
	// IDs holds the matching labels, aligned with Dis.
	IDs []int64

	keepMax bool
}

// NewMin creates a table of rows result rows keeping the k smallest values
// per row. Rows start filled with +Inf sentinels and id -1.
func NewMin(rows, k int) *Table {
	return newTable("topk.NewMin", rows, k, false)
}

// NewMax creates a table of rows result rows keeping the k largest values
// per row. Rows start filled with -Inf sentinels and id -1.
func NewMax(rows, k int) *Table {
	return newTable("topk.NewMax", rows, k, true)
}

func newTable(op string, rows, k int, keepMax bool) *Table {
	assert.That(rows >= 0, op, "rows must not be negative, got %d", rows)
	assert.That(k > 0, op, "k must be positive, got %d", k)

	t := &Table{
		K:       k,
		Dis:     make([]float32, rows*k),
		IDs:     make([]int64, rows*k),
		keepMax: keepMax,
	}
	t.ResetAll()
	return t
}

// WrapMin adopts caller-owned storage as a keep-min table without copying.
// Existing contents are kept; call ResetAll (or let an orchestrator do it)
// before collecting.
func WrapMin(dis []float32, ids []int64, k int) *Table {
	return wrap("topk.WrapMin", dis, ids, k, false)
}

// WrapMax adopts caller-owned storage as a keep-max table without copying.
func WrapMax(dis []float32, ids []int64, k int) *Table {
	return wrap("topk.WrapMax", dis, ids, k, true)
}

func wrap(op string, dis []float32, ids []int64, k int, keepMax bool) *Table {
	assert.That(k > 0, op, "k must be positive, got %d", k)
	assert.That(len(dis) == len(ids), op, "dis length %d != ids length %d", len(dis), len(ids))
	assert.That(len(dis)%k == 0, op, "storage length %d is not a multiple of k %d", len(dis), k)

	return &Table{K: k, Dis: dis, IDs: ids, keepMax: keepMax}
}

// Rows returns the number of result rows.
func (t *Table) Rows() int { return len(t.Dis) / t.K }

// Row returns the value and id slices of row i.
func (t *Table) Row(i int) ([]float32, []int64) {
	base := i * t.K
	return t.Dis[base : base+t.K], t.IDs[base : base+t.K]
}

// KeepsMax reports whether the table keeps the largest values.
func (t *Table) KeepsMax() bool { return t.keepMax }

// Sentinel returns the fill value of unused slots: +Inf for min tables,
// -Inf for max tables.
func (t *Table) Sentinel() float32 {
	if t.keepMax {
		return math32.Inf(-1)
	}
	return math32.Inf(1)
}

// Reset refills row i with sentinels, making it an empty heap.
func (t *Table) Reset(i int) {
	dis, ids := t.Row(i)
	s := t.Sentinel()
	for j := range dis {
		dis[j] = s
		ids[j] = emptyID
	}
}

// ResetAll refills every row with sentinels.
func (t *Table) ResetAll() {
	s := t.Sentinel()
	for i := range t.Dis {
		t.Dis[i] = s
	}
	for i := range t.IDs {
		t.IDs[i] = emptyID
	}
}

// Push offers (dis, id) to row i. The candidate is admitted when it beats
// the row's current worst entry; sentinel slots lose against any finite
// value, so rows fill up before real evictions start. NaN is never admitted.
func (t *Table) Push(i int, dis float32, id int64) {
	vals, ids := t.Row(i)
	if t.keepMax {
		if !(dis > vals[0]) {
			return
		}
		heapReplaceMin(vals, ids, dis, id)
	} else {
		if !(dis < vals[0]) {
			return
		}
		heapReplaceMax(vals, ids, dis, id)
	}
}

// Finalize sorts every row in place: ascending for min tables, descending
// for max tables. Sentinel slots of underfilled rows end up at the tail.
func (t *Table) Finalize() {
	t.FinalizeRange(0, t.Rows())
}

// FinalizeRange sorts rows [i0, i1) in place.
func (t *Table) FinalizeRange(i0, i1 int) {
	const op = "topk.FinalizeRange"
	assert.That(0 <= i0 && i0 <= i1 && i1 <= t.Rows(), op, "invalid row range [%d, %d) of %d rows", i0, i1, t.Rows())

	for i := i0; i < i1; i++ {
		vals, ids := t.Row(i)
		if t.keepMax {
			heapSortMin(vals, ids)
		} else {
			heapSortMax(vals, ids)
		}
	}
}

// heapReplaceMax replaces the root of a max-root heap with (dis, id) and
// restores the invariant by moving the hole down.
func heapReplaceMax(vals []float32, ids []int64, dis float32, id int64) {
	n := len(vals)
	i := 0
	for {
		l := 2*i + 1
		if l >= n {
			break
		}
		big := l
		if r := l + 1; r < n && vals[r] > vals[l] {
			big = r
		}
		if !(vals[big] > dis) {
			break
		}
		vals[i] = vals[big]
		ids[i] = ids[big]
		i = big
	}
	vals[i] = dis
	ids[i] = id
}

// heapReplaceMin is the mirror of heapReplaceMax for min-root heaps.
func heapReplaceMin(vals []float32, ids []int64, dis float32, id int64) {
	n := len(vals)
	i := 0
	for {
		l := 2*i + 1
		if l >= n {
			break
		}
		small := l
		if r := l + 1; r < n && vals[r] < vals[l] {
			small = r
		}
		if !(vals[small] < dis) {
			break
		}
		vals[i] = vals[small]
		ids[i] = ids[small]
		i = small
	}
	vals[i] = dis
	ids[i] = id
}

// heapSortMax sorts a max-root heap ascending, in place.
func heapSortMax(vals []float32, ids []int64) {
	for n := len(vals) - 1; n > 0; n-- {
		v, id := vals[n], ids[n]
		vals[n], ids[n] = vals[0], ids[0]
		heapReplaceMax(vals[:n], ids[:n], v, id)
	}
}

// heapSortMin sorts a min-root heap descending, in place.
func heapSortMin(vals []float32, ids []int64) {
	for n := len(vals) - 1; n > 0; n-- {
		v, id := vals[n], ids[n]
		vals[n], ids[n] = vals[0], ids[0]
		heapReplaceMin(vals[:n], ids[:n], v, id)
	}
}
