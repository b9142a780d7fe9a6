// Package jvector provides an embedded approximate nearest neighbor index
// built on an incrementally constructed proximity graph in the
// Vamana/DiskANN family.
//
// Unlike layered HNSW indexes, the graph is a single navigable layer:
// construction interleaves greedy beam search with robust diversity pruning,
// and queries run the same beam search over the finished (or in-progress)
// graph. Key properties:
//
//   - Incremental, concurrent construction: vectors are added one at a time,
//     from any number of goroutines, and the index is searchable throughout.
//   - Bounded degree: every node keeps at most M diversity-pruned neighbors,
//     so memory is predictable and search cost bounded.
//   - Generic element types: float32, int8 and float16 vectors share one
//     implementation.
//   - Filtered search: a Bits predicate restricts results without cutting
//     graph connectivity.
//
// # Quick Start
//
//	ctx := context.Background()
//	idx, err := jvector.New[float32](128,
//	    jvector.WithMaxDegree(16),
//	    jvector.WithBeamWidth(100),
//	)
//	if err != nil {
//	    panic(err)
//	}
//
//	for _, v := range vectors {
//	    if _, err := idx.Add(ctx, v); err != nil {
//	        panic(err)
//	    }
//	}
//	idx.Complete()
//
//	results, err := idx.Search(ctx, query, 10)
//
// For bulk loads, the lower-level graph.Builder offers Build and
// BuildParallel over a prefilled vector store.
package jvector
