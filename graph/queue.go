package graph

import "sort"

// NeighborQueue is a bounded priority structure of (node, score) pairs.
//
// The ordering is fixed at construction:
//   - descending=true: exploration frontier; Pop returns the best-scoring
//     element.
//   - descending=false: result container; Pop returns the worst-scoring
//     element, so a top-k set is maintained by pushing and popping overflow.
//
// The queue does not de-duplicate nodes; callers keep a visited set.
// It also carries the bookkeeping the search loop produces alongside its
// results: the number of nodes visited and whether the search stopped on a
// visit budget rather than by natural convergence.
//
// It is a value-based binary heap on purpose: no container/heap, no
// per-element allocations.
type NeighborQueue struct {
	nodes  []int32
	scores []float32

	descending   bool
	visitedCount int
	incomplete   bool
}

// NewNeighborQueue creates a queue with the given initial capacity.
func NewNeighborQueue(capacity int, descending bool) *NeighborQueue {
	if capacity < 0 {
		capacity = 0
	}
	return &NeighborQueue{
		nodes:      make([]int32, 0, capacity),
		scores:     make([]float32, 0, capacity),
		descending: descending,
	}
}

// Push inserts a pair unconditionally.
func (q *NeighborQueue) Push(node int32, score float32) {
	q.nodes = append(q.nodes, node)
	q.scores = append(q.scores, score)
	q.siftUp(len(q.nodes) - 1)
}

// PushWithOverflow inserts a pair and, if the queue then exceeds maxSize,
// pops the worst element. Only meaningful for ascending (result) queues.
// Reports whether the pushed pair survived.
func (q *NeighborQueue) PushWithOverflow(node int32, score float32, maxSize int) bool {
	q.Push(node, score)
	if len(q.nodes) <= maxSize {
		return true
	}
	evicted, _, _ := q.Pop()
	return evicted != node
}

// Pop removes and returns the top element: the best pair for descending
// queues, the worst pair for ascending ones.
func (q *NeighborQueue) Pop() (int32, float32, bool) {
	n := len(q.nodes)
	if n == 0 {
		return 0, 0, false
	}

	node, score := q.nodes[0], q.scores[0]
	q.nodes[0] = q.nodes[n-1]
	q.scores[0] = q.scores[n-1]
	q.nodes = q.nodes[:n-1]
	q.scores = q.scores[:n-1]
	if len(q.nodes) > 0 {
		q.siftDown(0)
	}
	return node, score, true
}

// Top returns the top element without removing it.
func (q *NeighborQueue) Top() (int32, float32, bool) {
	if len(q.nodes) == 0 {
		return 0, 0, false
	}
	return q.nodes[0], q.scores[0], true
}

// Size returns the number of queued pairs.
func (q *NeighborQueue) Size() int {
	return len(q.nodes)
}

// Clear empties the queue, keeping capacity. Bookkeeping flags are reset.
func (q *NeighborQueue) Clear() {
	q.nodes = q.nodes[:0]
	q.scores = q.scores[:0]
	q.visitedCount = 0
	q.incomplete = false
}

// NodesCopy returns a snapshot of the queued nodes ordered best-first.
func (q *NeighborQueue) NodesCopy() []int32 {
	type pair struct {
		node  int32
		score float32
	}
	pairs := make([]pair, len(q.nodes))
	for i := range q.nodes {
		pairs[i] = pair{q.nodes[i], q.scores[i]}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		return pairs[i].node < pairs[j].node
	})
	out := make([]int32, len(pairs))
	for i, p := range pairs {
		out[i] = p.node
	}
	return out
}

// VisitedCount returns the number of nodes the producing search visited.
func (q *NeighborQueue) VisitedCount() int {
	return q.visitedCount
}

// SetVisitedCount records the number of nodes visited by the search that
// produced this queue.
func (q *NeighborQueue) SetVisitedCount(n int) {
	q.visitedCount = n
}

// Incomplete reports whether the producing search stopped because its visit
// budget was exhausted rather than by natural convergence.
func (q *NeighborQueue) Incomplete() bool {
	return q.incomplete
}

// MarkIncomplete flags the queue as the product of a budget-terminated search.
func (q *NeighborQueue) MarkIncomplete() {
	q.incomplete = true
}

// topFirst reports whether element i belongs above element j in the heap.
// Ties break on node id so that sequential builds are deterministic.
func (q *NeighborQueue) topFirst(i, j int) bool {
	if q.scores[i] != q.scores[j] {
		if q.descending {
			return q.scores[i] > q.scores[j]
		}
		return q.scores[i] < q.scores[j]
	}
	if q.descending {
		return q.nodes[i] < q.nodes[j]
	}
	return q.nodes[i] > q.nodes[j]
}

func (q *NeighborQueue) swap(i, j int) {
	q.nodes[i], q.nodes[j] = q.nodes[j], q.nodes[i]
	q.scores[i], q.scores[j] = q.scores[j], q.scores[i]
}

func (q *NeighborQueue) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.topFirst(i, parent) {
			break
		}
		q.swap(i, parent)
		i = parent
	}
}

func (q *NeighborQueue) siftDown(i int) {
	n := len(q.nodes)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		if right := left + 1; right < n && q.topFirst(right, left) {
			child = right
		}
		if !q.topFirst(child, i) {
			break
		}
		q.swap(i, child)
		i = child
	}
}
