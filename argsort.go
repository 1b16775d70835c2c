package vecscan

import (
	"cmp"
	"slices"

	"github.com/hupe1980/vecscan/internal/assert"
	"golang.org/x/sync/errgroup"
)

// Argsort fills perm with the indices of vals in ascending value order.
// Equal values keep their index order, so the permutation is stable.
func Argsort(perm []int, vals []float32) {
	const op = "vecscan.Argsort"
	assert.That(len(perm) == len(vals), op, "perm length %d != vals length %d", len(perm), len(vals))

	for i := range perm {
		perm[i] = i
	}
	sortByValue(perm, vals)
}

// ArgsortParallel computes the same permutation as Argsort by sorting
// contiguous chunks concurrently and merging them pairwise. Worth it from
// roughly a million values; below that Argsort is usually faster.
func ArgsortParallel(perm []int, vals []float32, optFns ...func(*SearchOptions)) {
	const op = "vecscan.ArgsortParallel"
	assert.That(len(perm) == len(vals), op, "perm length %d != vals length %d", len(perm), len(vals))

	o := applySearchOptions(optFns)

	chunks := min(o.Workers, len(perm))
	if chunks <= 1 {
		Argsort(perm, vals)
		return
	}

	for i := range perm {
		perm[i] = i
	}

	bounds := make([]int, chunks+1)
	for c := range chunks + 1 {
		bounds[c] = c * len(perm) / chunks
	}

	var eg errgroup.Group
	eg.SetLimit(o.Workers)
	for c := range chunks {
		lo, hi := bounds[c], bounds[c+1]
		eg.Go(func() error {
			sortByValue(perm[lo:hi], vals)
			return nil
		})
	}
	_ = eg.Wait()

	// Merge runs pairwise until one remains, ping-ponging between perm and
	// a scratch buffer.
	src, dst := perm, make([]int, len(perm))
	inPerm := true
	for len(bounds) > 2 {
		next := make([]int, 1, len(bounds)/2+2)

		var eg errgroup.Group
		eg.SetLimit(o.Workers)
		c := 0
		for ; c+2 < len(bounds); c += 2 {
			lo, mid, hi := bounds[c], bounds[c+1], bounds[c+2]
			eg.Go(func() error {
				mergeByValue(dst[lo:hi], src[lo:mid], src[mid:hi], vals)
				return nil
			})
			next = append(next, hi)
		}
		if c+1 < len(bounds) {
			// Odd run count: the last run carries over unmerged.
			lo, hi := bounds[c], bounds[c+1]
			copy(dst[lo:hi], src[lo:hi])
			next = append(next, hi)
		}
		_ = eg.Wait()

		bounds = next
		src, dst = dst, src
		inPerm = !inPerm
	}

	if !inPerm {
		copy(perm, src)
	}
}

// sortByValue stably sorts a run of indices by the values they point at.
// cmp.Compare orders NaN before everything, which keeps the two argsort
// variants consistent with each other.
func sortByValue(run []int, vals []float32) {
	slices.SortStableFunc(run, func(a, b int) int {
		return cmp.Compare(vals[a], vals[b])
	})
}

// mergeByValue merges two sorted runs into dst. Ties take from the left run
// first; left indices are smaller, so stability carries across chunks.
func mergeByValue(dst, a, b []int, vals []float32) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if cmp.Compare(vals[a[i]], vals[b[j]]) <= 0 {
			dst[k] = a[i]
			i++
		} else {
			dst[k] = b[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], a[i:])
	copy(dst[k:], b[j:])
}
