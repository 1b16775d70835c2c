package topk

import (
	"slices"

	"github.com/hupe1980/vecscan/internal/assert"
)

// HandleTies reorders ids within each run of equal values so every run is
// sorted by id. dis must already be sorted (a finalized row). Rows produced
// by different implementations then compare equal whenever distances tie.
func HandleTies(ids []int64, dis []float32) {
	const op = "topk.HandleTies"
	assert.That(len(ids) == len(dis), op, "ids length %d != dis length %d", len(ids), len(dis))

	i := 0
	for i < len(dis) {
		j := i + 1
		for j < len(dis) && dis[j] == dis[i] {
			j++
		}
		if j-i > 1 {
			slices.Sort(ids[i:j])
		}
		i = j
	}
}

// IntersectionSize returns the number of distinct labels present in both
// ranklists. Duplicates count once; negative ids (sentinel padding) are
// ignored. Neither input is modified.
func IntersectionSize(a, b []int64) int {
	sa := slices.Clone(a)
	sb := slices.Clone(b)
	slices.Sort(sa)
	slices.Sort(sb)

	count := 0
	i, j := 0, 0
	for i < len(sa) && j < len(sb) {
		va, vb := sa[i], sb[j]
		switch {
		case va == vb:
			if va >= 0 {
				count++
			}
			for i < len(sa) && sa[i] == va {
				i++
			}
			for j < len(sb) && sb[j] == vb {
				j++
			}
		case va < vb:
			i++
		default:
			j++
		}
	}
	return count
}
