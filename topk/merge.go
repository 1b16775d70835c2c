package topk

import "github.com/hupe1980/vecscan/internal/assert"

// Merge folds src into dst row by row, keeping the best k entries of each
// row pair. Both tables must be finalized (rows sorted best first), with
// identical shape and keep direction. Ids taken from src are shifted by
// translation, which lets shard-local positions become global ids. Returns
// the total number of kept entries that came from src.
//
// Ties prefer dst, so merging an all-sentinel src is a no-op that returns 0.
func Merge(dst, src *Table, translation int64) int {
	const op = "topk.Merge"
	assert.That(dst.K == src.K, op, "k mismatch: %d != %d", dst.K, src.K)
	assert.That(dst.Rows() == src.Rows(), op, "row count mismatch: %d != %d", dst.Rows(), src.Rows())
	assert.That(dst.keepMax == src.keepMax, op, "keep direction mismatch")

	k := dst.K
	tmpDis := make([]float32, k)
	tmpIDs := make([]int64, k)

	taken := 0
	for row := 0; row < dst.Rows(); row++ {
		dDis, dIDs := dst.Row(row)
		sDis, sIDs := src.Row(row)

		i, j := 0, 0
		for n := 0; n < k; n++ {
			srcBetter := false
			if dst.keepMax {
				srcBetter = sDis[j] > dDis[i]
			} else {
				srcBetter = sDis[j] < dDis[i]
			}
			if srcBetter {
				tmpDis[n] = sDis[j]
				tmpIDs[n] = sIDs[j] + translation
				j++
				taken++
			} else {
				tmpDis[n] = dDis[i]
				tmpIDs[n] = dIDs[i]
				i++
			}
		}
		copy(dDis, tmpDis)
		copy(dIDs, tmpIDs)
	}
	return taken
}
