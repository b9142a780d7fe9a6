// Package graph implements a single-layer navigable proximity graph in the
// Vamana/DiskANN family: incremental construction with robust diversity
// pruning, and greedy beam search for queries.
package graph

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// NoMoreNeighbors is the sentinel returned by View.NextNeighbor when the
// current neighbor list is exhausted.
const NoMoreNeighbors int32 = -1

// NeighborSetFactory creates the neighbor set for a newly registered node.
// maxDegree is the effective degree bound for that node.
type NeighborSetFactory func(node int32, maxDegree int) *ConcurrentNeighborSet

// graphData is the graph's structural snapshot: per-ordinal neighbor sets
// plus insertion order. It is swapped atomically on growth so readers are
// never blocked by registration.
type graphData struct {
	sets  []*ConcurrentNeighborSet
	order []int32
}

// OnHeapGraph is an in-memory proximity graph: one ConcurrentNeighborSet per
// dense node ordinal plus a designated entry point (the first node added).
//
// Registration of new nodes serializes on a short critical section; reads
// (Size, GetNeighbors, views, iteration) are lock-free against structural
// snapshots. Per-node mutation is synchronized inside each neighbor set, so
// unrelated insertions never contend.
type OnHeapGraph struct {
	maxDegree int
	factory   NeighborSetFactory

	growMu sync.Mutex
	data   atomic.Pointer[graphData]
	entry  atomic.Int32
}

// NewOnHeapGraph creates an empty graph. factory is invoked once per node on
// registration with that node's effective degree bound.
func NewOnHeapGraph(maxDegree int, factory NeighborSetFactory) *OnHeapGraph {
	g := &OnHeapGraph{
		maxDegree: maxDegree,
		factory:   factory,
	}
	g.data.Store(&graphData{})
	g.entry.Store(-1)
	return g
}

// AddNode registers a node and returns its neighbor set; if the node is
// already registered its existing set is returned. The first node registered
// becomes the entry point and receives a relaxed 2x degree bound, since it
// anchors the most traffic.
func (g *OnHeapGraph) AddNode(node int32) *ConcurrentNeighborSet {
	if ns := g.GetNeighbors(node); ns != nil {
		return ns
	}

	g.growMu.Lock()
	defer g.growMu.Unlock()

	cur := g.data.Load()
	if int(node) < len(cur.sets) && cur.sets[node] != nil {
		return cur.sets[node]
	}

	degree := g.maxDegree
	if g.entry.CompareAndSwap(-1, node) {
		degree = 2 * g.maxDegree
	}
	ns := g.factory(node, degree)

	// Copy-on-write keeps published snapshots immutable for readers.
	size := len(cur.sets)
	if int(node) >= size {
		size = int(node) + 1
	}
	sets := make([]*ConcurrentNeighborSet, size)
	copy(sets, cur.sets)
	sets[node] = ns

	next := &graphData{
		sets:  sets,
		order: append(cur.order[:len(cur.order):len(cur.order)], node),
	}
	g.data.Store(next)
	return ns
}

// Size returns the number of registered nodes.
func (g *OnHeapGraph) Size() int {
	return len(g.data.Load().order)
}

// EntryPoint returns the designated traversal start node, or -1 if the graph
// is empty.
func (g *OnHeapGraph) EntryPoint() int32 {
	return g.entry.Load()
}

// GetNeighbors returns the neighbor set for node, or nil if unregistered.
func (g *OnHeapGraph) GetNeighbors(node int32) *ConcurrentNeighborSet {
	cur := g.data.Load()
	if node < 0 || int(node) >= len(cur.sets) {
		return nil
	}
	return cur.sets[node]
}

// NodesIterator is a lazy one-shot forward iteration over node ordinals in
// insertion order. Restart by calling GetNodes again.
type NodesIterator struct {
	order []int32
	pos   int
}

// Next returns the next node id, or false when the iteration is exhausted.
func (it *NodesIterator) Next() (int32, bool) {
	if it.pos >= len(it.order) {
		return 0, false
	}
	node := it.order[it.pos]
	it.pos++
	return node, true
}

// Size returns the total number of nodes covered by the iteration.
func (it *NodesIterator) Size() int {
	return len(it.order)
}

// GetNodes returns an iterator over node ids in insertion order. The
// iteration covers the nodes registered at call time.
func (g *OnHeapGraph) GetNodes() *NodesIterator {
	return &NodesIterator{order: g.data.Load().order}
}

// View is a per-caller cursor over neighbor lists. Views are independent
// across goroutines; a seek observes the neighbor set either before or after
// any concurrent pruning pass, never an interleaved state.
type View struct {
	g         *OnHeapGraph
	neighbors []int32
	pos       int
}

// GetView returns a new cursor for this graph.
func (g *OnHeapGraph) GetView() *View {
	return &View{g: g}
}

// Seek positions the cursor at node's neighbor list.
func (v *View) Seek(node int32) error {
	ns := v.g.GetNeighbors(node)
	if ns == nil {
		return &ErrNodeNotFound{Node: node}
	}
	v.neighbors = ns.snapshot().Nodes
	v.pos = 0
	return nil
}

// NextNeighbor returns the next neighbor ordinal, or NoMoreNeighbors once
// the list seeked to is exhausted.
func (v *View) NextNeighbor() int32 {
	if v.pos >= len(v.neighbors) {
		return NoMoreNeighbors
	}
	n := v.neighbors[v.pos]
	v.pos++
	return n
}

// PrettyPrint renders the whole graph, one node per line, ordinals sorted.
// Intended for debugging and test failure messages.
func PrettyPrint(g *OnHeapGraph) string {
	order := append([]int32(nil), g.data.Load().order...)
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	var sb strings.Builder
	fmt.Fprintf(&sb, "graph(size=%d, entry=%d)\n", len(order), g.EntryPoint())
	for _, node := range order {
		sb.WriteString("  ")
		sb.WriteString(g.GetNeighbors(node).String())
		sb.WriteString("\n")
	}
	return sb.String()
}
