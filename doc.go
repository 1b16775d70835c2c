// Package vecscan provides exhaustive similarity search primitives for dense
// float32 vectors.
//
// Vecscan is the brute-force compute core that index structures are built on
// top of: batched distance kernels, bounded top-k selection, radius queries,
// k-means centroid maintenance and deterministic test-data generation. It has
// no index, no storage and no server; callers bring their own vectors and get
// back ids and distances.
//
// # Quick Start
//
// Search 10 nearest database vectors for each query under squared L2:
//
//	queries := vecscan.NewMatrix(qdata, nq, dim)
//	database := vecscan.NewMatrix(dbdata, nb, dim)
//
//	res := topk.NewMin(nq, 10)
//	vecscan.KNNSquaredL2(queries, database, res)
//
//	dis, ids := res.Row(0) // ascending distances, ids index the database
//
// Inner-product search keeps the largest scores instead:
//
//	res := topk.NewMax(nq, 10)
//	vecscan.KNNDot(queries, database, res)
//
// All matches within a radius, with result counts unknown upfront:
//
//	res := vecscan.NewRangeResult(nq)
//	vecscan.RangeSearchSquaredL2(queries, database, radius, res)
//	ids, dis := res.Query(0)
//
// # Execution Paths
//
// KNN picks between two equivalent executions per call: a direct kernel loop
// for few queries, and a blocked GEMM formulation ("d = |q|^2 + |y|^2 - 2<q,y>")
// for large batches. The switchover point is DefaultBLASThreshold and can be
// set per call:
//
//	vecscan.KNNSquaredL2(queries, database, res,
//	    vecscan.WithBLASThreshold(64),
//	    vecscan.WithWorkers(4),
//	)
//
// # Key Properties
//
//   - Squared L2 never takes the root; rankings are unchanged and finalize
//     cost drops
//   - Results are deterministic for distinct distances regardless of path
//     and worker count
//   - NaN distances are never admitted into result rows
//   - Shape violations panic; the compute core has no error returns
package vecscan
