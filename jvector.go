package jvector

import (
	"context"
	"math"
	"time"

	"github.com/dlg99/jvector/bits"
	"github.com/dlg99/jvector/distance"
	"github.com/dlg99/jvector/graph"
	"github.com/dlg99/jvector/vectorstore"
)

// SearchResult is a single search hit: a node ordinal and its similarity
// score against the query (higher is better).
type SearchResult struct {
	Node  int32
	Score float32
}

// Index is an approximate nearest neighbor index over an incrementally built
// proximity graph. Ordinals are assigned densely in Add order.
//
// Add and Search are safe for concurrent use; the graph is searchable while
// additions are still in flight.
type Index[E distance.Element] struct {
	dimension int
	store     *vectorstore.SliceStore[E]
	builder   *graph.Builder[E]
	scorer    distance.Func[E]

	logger  *Logger
	metrics MetricsCollector
}

// New creates an empty index for vectors of the given dimension.
func New[E distance.Element](dimension int, optFns ...Option) (*Index[E], error) {
	if dimension <= 0 {
		return nil, ErrInvalidDimension
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	scorer, err := distance.Provider[E](opts.metric)
	if err != nil {
		return nil, err
	}

	store := vectorstore.NewSliceStore[E](dimension)
	builder, err := graph.NewBuilder(store, scorer, opts.maxDegree, opts.beamWidth, opts.overflowFactor, opts.alpha)
	if err != nil {
		return nil, err
	}

	return &Index[E]{
		dimension: dimension,
		store:     store,
		builder:   builder,
		scorer:    scorer,
		logger:    opts.logger.WithDimension(dimension),
		metrics:   opts.metricsCollector,
	}, nil
}

// Add stores the vector and links it into the graph, returning its ordinal.
func (idx *Index[E]) Add(ctx context.Context, vector []E) (int32, error) {
	start := time.Now()
	node, err := idx.add(ctx, vector)
	idx.metrics.RecordAdd(time.Since(start), err)
	idx.logger.LogAdd(ctx, node, err)
	return node, err
}

func (idx *Index[E]) add(ctx context.Context, vector []E) (int32, error) {
	node, err := idx.store.Add(vector)
	if err != nil {
		return -1, err
	}
	if err := idx.builder.AddNode(ctx, node); err != nil {
		return node, err
	}
	return node, nil
}

// AddBatch adds the vectors in order, returning the assigned ordinals.
// Stops at the first failure.
func (idx *Index[E]) AddBatch(ctx context.Context, vectors [][]E) ([]int32, error) {
	nodes := make([]int32, 0, len(vectors))
	for _, v := range vectors {
		node, err := idx.Add(ctx, v)
		if err != nil {
			idx.logger.LogBatchAdd(ctx, len(nodes), err)
			return nodes, err
		}
		nodes = append(nodes, node)
	}
	idx.logger.LogBatchAdd(ctx, len(nodes), nil)
	return nodes, nil
}

// Search returns the k nodes most similar to query, best first.
func (idx *Index[E]) Search(ctx context.Context, query []E, k int) ([]SearchResult, error) {
	return idx.SearchWithFilter(ctx, query, k, nil)
}

// SearchWithFilter returns the k most similar nodes whose ordinal passes the
// accept filter. Filtered-out nodes are still traversed, so results behind
// them stay reachable. A nil filter accepts everything.
func (idx *Index[E]) SearchWithFilter(ctx context.Context, query []E, k int, accept bits.Bits) ([]SearchResult, error) {
	start := time.Now()
	results, visited, err := idx.search(ctx, query, k, accept)
	idx.metrics.RecordSearch(k, visited, time.Since(start), err)
	idx.logger.LogSearch(ctx, k, len(results), visited, err)
	return results, err
}

func (idx *Index[E]) search(ctx context.Context, query []E, k int, accept bits.Bits) ([]SearchResult, int, error) {
	if len(query) != idx.dimension {
		return nil, 0, &vectorstore.ErrDimensionMismatch{Expected: idx.dimension, Actual: len(query)}
	}

	queue, err := graph.Search(ctx, query, k, idx.store, idx.scorer, idx.builder.Graph(), accept, math.MaxInt)
	if err != nil {
		return nil, 0, err
	}

	// The queue pops worst-first; fill back to front for best-first results.
	out := make([]SearchResult, queue.Size())
	for i := len(out) - 1; i >= 0; i-- {
		node, score, _ := queue.Pop()
		out[i] = SearchResult{Node: node, Score: score}
	}
	return out, queue.VisitedCount(), nil
}

// Complete finalizes construction after a burst of concurrent additions,
// pruning any neighbor list still above its hard bound. Idempotent; further
// additions after Complete are allowed.
func (idx *Index[E]) Complete() {
	idx.builder.Complete()
}

// Size returns the number of indexed vectors.
func (idx *Index[E]) Size() int {
	return idx.store.Size()
}

// Dimension returns the configured vector dimension.
func (idx *Index[E]) Dimension() int {
	return idx.dimension
}

// Graph exposes the underlying proximity graph for inspection.
func (idx *Index[E]) Graph() *graph.OnHeapGraph {
	return idx.builder.Graph()
}
