package graph

import (
	"context"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dlg99/jvector/distance"
	"github.com/dlg99/jvector/vectorstore"
)

// Default construction parameters.
const (
	DefaultMaxDegree      = 16
	DefaultBeamWidth      = 100
	DefaultOverflowFactor = 1.2
	DefaultAlpha          = 1.2
)

// Builder incrementally grows an OnHeapGraph from a vector source.
//
// AddNode may be called concurrently for disjoint node ids. Synchronization
// is per node: registration takes the graph's short structural lock, and all
// edge mutation serializes on the owning neighbor set only, so insertions of
// unrelated nodes proceed in parallel.
type Builder[E distance.Element] struct {
	vectors   vectorstore.RandomAccess[E]
	scorer    distance.Func[E]
	maxDegree int
	beamWidth int

	overflowFactor float32
	alpha          float32

	graph *OnHeapGraph

	// Per-goroutine vector source handles, per the RandomAccess Copy
	// contract.
	sources sync.Pool
}

// NewBuilder creates a builder over the given source and scorer.
//
// maxDegree bounds each node's pruned neighbor count (the entry node gets a
// relaxed 2x bound), beamWidth is the construction search list size,
// overflowFactor >= 1 is the transient degree slack before pruning is forced
// and alpha >= 1 the diversity slack. Invalid parameters and missing inputs
// fail here, never later.
func NewBuilder[E distance.Element](
	vectors vectorstore.RandomAccess[E],
	scorer distance.Func[E],
	maxDegree int,
	beamWidth int,
	overflowFactor float32,
	alpha float32,
) (*Builder[E], error) {
	if vectors == nil {
		return nil, ErrNilVectors
	}
	if scorer == nil {
		return nil, ErrNilScorer
	}
	if maxDegree <= 0 {
		return nil, ErrInvalidMaxDegree
	}
	if beamWidth <= 0 {
		return nil, ErrInvalidBeamWidth
	}
	if overflowFactor < 1.0 {
		return nil, ErrInvalidOverflowFactor
	}
	if alpha < 1.0 {
		return nil, ErrInvalidAlpha
	}

	b := &Builder[E]{
		vectors:        vectors,
		scorer:         scorer,
		maxDegree:      maxDegree,
		beamWidth:      beamWidth,
		overflowFactor: overflowFactor,
		alpha:          alpha,
	}
	b.sources.New = func() any { return vectors.Copy() }
	b.graph = NewOnHeapGraph(maxDegree, func(node int32, degree int) *ConcurrentNeighborSet {
		return NewConcurrentNeighborSet(node, degree, overflowFactor, alpha, b.scoreBetween)
	})
	return b, nil
}

// Graph returns the graph under construction. It is readable (and
// searchable) while AddNode calls are still in flight.
func (b *Builder[E]) Graph() *OnHeapGraph {
	return b.graph
}

// scoreBetween scores two stored nodes against each other, used by the
// diversity test during pruning.
func (b *Builder[E]) scoreBetween(x, y int32) float32 {
	src := b.sources.Get().(vectorstore.RandomAccess[E])
	defer b.sources.Put(src)
	return b.scorer(src.VectorValue(x), src.VectorValue(y))
}

// AddNode inserts one node into the graph:
//
//  1. Register the node; the first node becomes the entry point and is done.
//  2. Beam-search the graph under construction for up to beamWidth closest
//     already-inserted nodes (no accept filter, no visit budget).
//  3. Diversity-prune the candidates into the node's initial neighbor set.
//  4. Add a reverse edge to every accepted neighbor; a neighbor pushed past
//     its overflow allowance reprunes immediately against its own vector.
//
// Cancellation via ctx propagates unretried and leaves the graph consistent,
// though possibly missing edges that Complete or later inserts would repair.
func (b *Builder[E]) AddNode(ctx context.Context, node int32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src := b.sources.Get().(vectorstore.RandomAccess[E])
	defer b.sources.Put(src)

	vec := src.VectorValue(node)
	if vec == nil {
		return &ErrNodeNotFound{Node: node}
	}

	ns := b.graph.AddNode(node)
	if b.graph.EntryPoint() == node {
		return nil
	}

	results, err := searchInternal(ctx, vec, b.beamWidth, src, b.scorer, b.graph, nil, math.MaxInt)
	if err != nil {
		return err
	}

	candidates := NewNeighborArray(results.Size())
	for results.Size() > 0 {
		n, score, _ := results.Pop()
		if n == node {
			continue
		}
		candidates.InsertSorted(n, score)
	}
	ns.InsertDiverse(candidates)

	// Bidirectional repair: each accepted neighbor considers the new node.
	// Scores are symmetric, so the stored score is reused for the reverse
	// direction.
	for _, accepted := range nodesWithScores(ns) {
		if other := b.graph.GetNeighbors(accepted.node); other != nil {
			other.Insert(node, accepted.score)
		}
	}
	return nil
}

type nodeScore struct {
	node  int32
	score float32
}

func nodesWithScores(ns *ConcurrentNeighborSet) []nodeScore {
	out := make([]nodeScore, 0, ns.Size())
	ns.ForEach(func(node int32, score float32) {
		out = append(out, nodeScore{node: node, score: score})
	})
	return out
}

// Complete finalizes construction: every node still holding more neighbors
// than its hard bound (possible when reverse-edge repairs raced under
// concurrent load) is pruned down. Idempotent and safe to call repeatedly.
func (b *Builder[E]) Complete() {
	it := b.graph.GetNodes()
	for node, ok := it.Next(); ok; node, ok = it.Next() {
		b.graph.GetNeighbors(node).EnforceDiversity()
	}
}

// Build inserts every vector from the source in ordinal order, then calls
// Complete. Sequential insertion with deterministic tie-breaks yields
// bit-identical graphs across runs.
func (b *Builder[E]) Build(ctx context.Context) (*OnHeapGraph, error) {
	for i := 0; i < b.vectors.Size(); i++ {
		if err := b.AddNode(ctx, int32(i)); err != nil {
			return nil, err
		}
	}
	b.Complete()
	return b.graph, nil
}

// BuildParallel inserts all vectors using up to GOMAXPROCS concurrent
// workers, then calls Complete. The result is a valid proximity graph but,
// unlike Build, not deterministic across runs.
func (b *Builder[E]) BuildParallel(ctx context.Context) (*OnHeapGraph, error) {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < b.vectors.Size(); i++ {
		node := int32(i)
		eg.Go(func() error {
			return b.AddNode(ctx, node)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	b.Complete()
	return b.graph, nil
}
