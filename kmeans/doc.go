// Package kmeans provides the per-iteration support routines of Lloyd-style
// clustering: centroid recomputation with empty-cluster splitting, nearest
// centroid assignment, the imbalance-factor diagnostic, and training-set
// subsampling.
//
// The package deliberately does not run the outer training loop. Callers own
// iteration count and convergence checks and alternate between Assign and
// Update:
//
//	assign := make([]int64, n)
//	dis := make([]float32, n)
//	for range maxIter {
//	    kmeans.Assign(x, centroids, dim, assign, dis)
//	    splits := kmeans.Update(x, dim, centroids, assign)
//	    if splits > 0 {
//	        // k or the training set is pathological for this data
//	    }
//	}
//
// A centroid that received no vectors would be degenerate for every following
// iteration, so Update repairs it by splitting a populated cluster: the donor
// is picked by a seeded probabilistic scan weighted by cluster size, the
// donor centroid is copied and both copies are symmetrically perturbed. The
// repair is deterministic for a fixed seed regardless of worker count.
package kmeans
