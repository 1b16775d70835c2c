package kmeans

import (
	"runtime"

	"github.com/hupe1980/vecscan"
	"github.com/hupe1980/vecscan/internal/assert"
	"github.com/hupe1980/vecscan/rng"
	"golang.org/x/sync/errgroup"
)

// DefaultSplitSeed seeds donor selection when empty clusters are split.
const DefaultSplitSeed = 1234

// splitEPS is the relative size of the symmetric perturbation applied to a
// split centroid pair.
const splitEPS = 1.0 / 1024

// UpdateOptions configures Update.
type UpdateOptions struct {
	// Frozen is the count of leading centroids that are immutable: never
	// rewritten, never split and never chosen as split donors. Vectors
	// assigned to them still count toward the assignment histogram.
	Frozen int

	// Seed drives donor selection for empty-cluster splits.
	// Defaults to DefaultSplitSeed.
	Seed int64

	// Workers caps accumulation parallelism.
	// Defaults to runtime.GOMAXPROCS(0).
	Workers int

	// Logger receives a debug event per split. Defaults to NoopLogger().
	Logger *vecscan.Logger
}

func applyUpdateOptions(optFns []func(*UpdateOptions)) UpdateOptions {
	o := UpdateOptions{
		Seed:    DefaultSplitSeed,
		Workers: runtime.GOMAXPROCS(0),
		Logger:  vecscan.NoopLogger(),
	}

	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.Workers < 1 {
		o.Workers = 1
	}

	if o.Logger == nil {
		o.Logger = vecscan.NoopLogger()
	}

	return o
}

// Update recomputes every non-frozen centroid as the arithmetic mean of the
// vectors assigned to it, then repairs empty clusters by splitting populated
// ones. x holds n dim-sized vectors, centroids holds k dim-sized rows,
// assign maps each vector to a centroid in [0, k). Returns the number of
// splits performed; persistent non-zero counts mean k or the training set is
// pathological.
//
// Splitting picks a donor by scanning non-frozen clusters cyclically from
// the first, accepting cluster cj with probability (hist[cj]-1)/(n-k') where
// k' counts the non-frozen centroids, under a stream seeded by
// UpdateOptions.Seed. The donor centroid is copied over the empty one and
// the pair is perturbed symmetrically by 1/1024 with alternating sign per
// dimension, then the donor's count is shared evenly. Splitting requires at
// least k' vectors assigned to non-frozen centroids, otherwise empty
// clusters would be unrepairable.
func Update(x []float32, dim int, centroids []float32, assign []int64, optFns ...func(*UpdateOptions)) int {
	const op = "kmeans.Update"
	o := applyUpdateOptions(optFns)

	assert.That(dim > 0, op, "dim must be positive, got %d", dim)
	assert.That(len(x)%dim == 0, op, "len(x) %d is not a multiple of dim %d", len(x), dim)
	assert.That(len(centroids)%dim == 0, op, "len(centroids) %d is not a multiple of dim %d", len(centroids), dim)

	n := len(x) / dim
	k := len(centroids) / dim
	assert.That(k > 0, op, "centroid count must be positive")
	assert.That(len(assign) == n, op, "assign length %d != vector count %d", len(assign), n)
	assert.That(o.Frozen >= 0 && o.Frozen <= k, op, "frozen count %d out of range [0, %d]", o.Frozen, k)

	hist := make([]int, k)
	for i, ci := range assign {
		assert.That(ci >= 0 && int(ci) < k, op, "assign[%d] = %d out of range [0, %d)", i, ci, k)
		hist[ci]++
	}

	if o.Frozen == k {
		return 0
	}

	accumulate(x, dim, centroids, assign, o.Frozen, o.Workers)

	for ci := o.Frozen; ci < k; ci++ {
		ni := float32(hist[ci])
		if ni == 0 {
			continue
		}
		row := centroids[ci*dim : (ci+1)*dim]
		for j := range row {
			row[j] /= ni
		}
	}

	nsplit := splitClusters(centroids, dim, n, hist, o)
	if nsplit > 0 {
		o.Logger.WithCount(nsplit).Debug("split empty clusters", "k", k)
	}
	return nsplit
}

// accumulate zeroes the non-frozen centroids and sums assigned vectors into
// them. Work is split by centroid ranges: every worker scans all n vectors
// but only accumulates those assigned into its own range, so no two workers
// write the same row and per-centroid accumulation order stays the vector
// order regardless of worker count.
func accumulate(x []float32, dim int, centroids []float32, assign []int64, frozen, workers int) {
	k := len(centroids) / dim
	k2 := k - frozen

	clear(centroids[frozen*dim : k*dim])

	chunks := min(workers, k2)

	var eg errgroup.Group
	eg.SetLimit(workers)

	for c := range chunks {
		c0 := frozen + c*k2/chunks
		c1 := frozen + (c+1)*k2/chunks

		eg.Go(func() error {
			for i, ci := range assign {
				if int(ci) < c0 || int(ci) >= c1 {
					continue
				}
				row := centroids[int(ci)*dim : (int(ci)+1)*dim]
				xi := x[i*dim : (i+1)*dim]
				for j := range row {
					row[j] += xi[j]
				}
			}
			return nil
		})
	}

	_ = eg.Wait()
}

// splitClusters reseeds every empty non-frozen centroid from a donor. Runs
// on a single goroutine so the seeded donor stream is consumed in a fixed
// order.
func splitClusters(centroids []float32, dim, n int, hist []int, o UpdateOptions) int {
	const op = "kmeans.Update"

	k := len(hist)
	k2 := k - o.Frozen

	empty := 0
	assigned := 0
	for ci := o.Frozen; ci < k; ci++ {
		if hist[ci] == 0 {
			empty++
		}
		assigned += hist[ci]
	}
	if empty == 0 {
		return 0
	}
	assert.That(assigned >= k2, op, "splitting needs at least %d vectors assigned to non-frozen centroids, got %d", k2, assigned)

	g := rng.New(o.Seed)
	nsplit := 0

	for ci := o.Frozen; ci < k; ci++ {
		if hist[ci] != 0 {
			continue
		}

		cj := o.Frozen
		for {
			p := (float32(hist[cj]) - 1) / float32(n-k2)
			if g.Float32() < p {
				break
			}
			cj++
			if cj == k {
				cj = o.Frozen
			}
		}

		dst := centroids[ci*dim : (ci+1)*dim]
		src := centroids[cj*dim : (cj+1)*dim]
		copy(dst, src)

		for j := range dim {
			if j%2 == 0 {
				dst[j] *= 1 + splitEPS
				src[j] *= 1 - splitEPS
			} else {
				dst[j] *= 1 - splitEPS
				src[j] *= 1 + splitEPS
			}
		}

		hist[ci] = hist[cj] / 2
		hist[cj] -= hist[ci]
		nsplit++

		o.Logger.Debug("split empty cluster", "centroid", ci, "donor", cj, "moved", hist[ci])
	}

	return nsplit
}
