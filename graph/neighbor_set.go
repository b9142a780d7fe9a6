package graph

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// ScoreBetweenFunc returns the similarity between two stored nodes.
// It must be pure and consistent for the lifetime of the graph.
type ScoreBetweenFunc func(a, b int32) float32

// NeighborArray is an immutable-once-published list of (node, score) pairs
// kept sorted by descending score. Insertion is stable: a pair scoring equal
// to existing entries lands after them, so earlier arrivals win ties.
type NeighborArray struct {
	Nodes  []int32
	Scores []float32
}

// NewNeighborArray creates an array with the given capacity.
func NewNeighborArray(capacity int) *NeighborArray {
	if capacity < 0 {
		capacity = 0
	}
	return &NeighborArray{
		Nodes:  make([]int32, 0, capacity),
		Scores: make([]float32, 0, capacity),
	}
}

// Size returns the number of stored pairs.
func (na *NeighborArray) Size() int {
	return len(na.Nodes)
}

// Contains reports whether node is present. Linear scan; degree bounds keep
// these arrays small.
func (na *NeighborArray) Contains(node int32) bool {
	for _, n := range na.Nodes {
		if n == node {
			return true
		}
	}
	return false
}

// InsertSorted inserts the pair at its score rank, after any equal scores.
func (na *NeighborArray) InsertSorted(node int32, score float32) {
	idx := len(na.Nodes)
	for i, s := range na.Scores {
		if s < score {
			idx = i
			break
		}
	}
	na.Nodes = append(na.Nodes, 0)
	na.Scores = append(na.Scores, 0)
	copy(na.Nodes[idx+1:], na.Nodes[idx:])
	copy(na.Scores[idx+1:], na.Scores[idx:])
	na.Nodes[idx] = node
	na.Scores[idx] = score
}

// Copy returns an independent copy with room for extra insertions.
func (na *NeighborArray) Copy(extra int) *NeighborArray {
	out := NewNeighborArray(len(na.Nodes) + extra)
	out.Nodes = append(out.Nodes, na.Nodes...)
	out.Scores = append(out.Scores, na.Scores...)
	return out
}

// ConcurrentNeighborSet is the adjacency list of a single graph node.
//
// Writers serialize on a per-node mutex and publish full replacement
// snapshots through an atomic pointer; readers load the pointer and never
// observe a half-applied pruning pass. Published arrays are never mutated.
type ConcurrentNeighborSet struct {
	node      int32
	maxDegree int
	// overflow is the transient allowance before a pruning pass is forced.
	overflow     int
	alpha        float32
	scoreBetween ScoreBetweenFunc

	mu      sync.Mutex
	current atomic.Pointer[NeighborArray]
}

// NewConcurrentNeighborSet creates an empty neighbor set for node.
// maxDegree is the hard bound after pruning; overflowFactor >= 1 scales the
// transient allowance before pruning is forced.
func NewConcurrentNeighborSet(node int32, maxDegree int, overflowFactor, alpha float32, scoreBetween ScoreBetweenFunc) *ConcurrentNeighborSet {
	overflow := int(float64(maxDegree) * float64(overflowFactor))
	if overflow < maxDegree {
		overflow = maxDegree
	}
	ns := &ConcurrentNeighborSet{
		node:         node,
		maxDegree:    maxDegree,
		overflow:     overflow,
		alpha:        alpha,
		scoreBetween: scoreBetween,
	}
	ns.current.Store(NewNeighborArray(maxDegree))
	return ns
}

// Node returns the ordinal this set belongs to.
func (ns *ConcurrentNeighborSet) Node() int32 {
	return ns.node
}

// MaxDegree returns the hard degree bound enforced by pruning.
func (ns *ConcurrentNeighborSet) MaxDegree() int {
	return ns.maxDegree
}

// Size returns the current number of neighbors.
func (ns *ConcurrentNeighborSet) Size() int {
	return ns.current.Load().Size()
}

// Contains reports whether node is currently a neighbor.
func (ns *ConcurrentNeighborSet) Contains(node int32) bool {
	return ns.current.Load().Contains(node)
}

// snapshot returns the current immutable neighbor array. Callers must not
// mutate it.
func (ns *ConcurrentNeighborSet) snapshot() *NeighborArray {
	return ns.current.Load()
}

// NodesCopy returns the neighbor ordinals ordered by descending score.
func (ns *ConcurrentNeighborSet) NodesCopy() []int32 {
	cur := ns.current.Load()
	out := make([]int32, len(cur.Nodes))
	copy(out, cur.Nodes)
	return out
}

// ForEach calls fn for each (neighbor, score) pair in descending score order.
// fn observes a consistent snapshot; concurrent mutation does not affect an
// iteration in progress.
func (ns *ConcurrentNeighborSet) ForEach(fn func(node int32, score float32)) {
	cur := ns.current.Load()
	for i, n := range cur.Nodes {
		fn(n, cur.Scores[i])
	}
}

// Insert adds a candidate neighbor with its score against this set's node.
// Inserting an existing neighbor is a no-op. If the insert pushes the set
// past its overflow allowance, a diversity pass immediately collapses it
// back to maxDegree.
func (ns *ConcurrentNeighborSet) Insert(node int32, score float32) {
	if node == ns.node {
		return
	}

	ns.mu.Lock()
	defer ns.mu.Unlock()

	cur := ns.current.Load()
	if cur.Contains(node) {
		return
	}
	next := cur.Copy(1)
	next.InsertSorted(node, score)
	if next.Size() > ns.overflow {
		next = ns.enforceDiversityLocked(next)
	}
	ns.current.Store(next)
}

// InsertDiverse merges the candidate pool with the existing neighbors and
// installs the diversity-pruned result. Candidates must be scored against
// this set's node. Used when a node's initial neighbor list is computed, and
// safe against reverse edges that raced in beforehand.
func (ns *ConcurrentNeighborSet) InsertDiverse(candidates *NeighborArray) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	cur := ns.current.Load()
	merged := cur.Copy(candidates.Size())
	for i, n := range candidates.Nodes {
		if n == ns.node || merged.Contains(n) {
			continue
		}
		merged.InsertSorted(n, candidates.Scores[i])
	}
	ns.current.Store(ns.enforceDiversityLocked(merged))
}

// EnforceDiversity collapses the set to maxDegree if it holds more than that.
// Idempotent; used by Builder.Complete to finalize deferred overflow.
func (ns *ConcurrentNeighborSet) EnforceDiversity() {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	cur := ns.current.Load()
	if cur.Size() <= ns.maxDegree {
		return
	}
	ns.current.Store(ns.enforceDiversityLocked(cur))
}

// enforceDiversityLocked applies the robust-pruning rule over candidates
// sorted by descending score and returns the accepted set.
//
// A candidate c is accepted only if, for every already-accepted neighbor n,
// score(c, v) > score(c, n) / alpha: candidates shadowed by a closer accepted
// neighbor are discarded. Acceptance stops at maxDegree. Caller must hold mu.
func (ns *ConcurrentNeighborSet) enforceDiversityLocked(candidates *NeighborArray) *NeighborArray {
	accepted := NewNeighborArray(ns.maxDegree)
	for i, c := range candidates.Nodes {
		if accepted.Size() >= ns.maxDegree {
			break
		}
		score := candidates.Scores[i]
		if ns.diverseLocked(c, score, accepted) {
			// Candidates arrive sorted, so append preserves order.
			accepted.Nodes = append(accepted.Nodes, c)
			accepted.Scores = append(accepted.Scores, score)
		}
	}
	return accepted
}

// diverseLocked reports whether candidate c (scored score against this set's
// node) survives the shadowing test against every accepted neighbor.
func (ns *ConcurrentNeighborSet) diverseLocked(c int32, score float32, accepted *NeighborArray) bool {
	for _, n := range accepted.Nodes {
		if ns.scoreBetween(c, n) >= ns.alpha*score {
			return false
		}
	}
	return true
}

// String renders the set for debugging: node -> [n1(s1), n2(s2), ...].
func (ns *ConcurrentNeighborSet) String() string {
	cur := ns.current.Load()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d -> [", ns.node)
	for i, n := range cur.Nodes {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d(%.3f)", n, cur.Scores[i])
	}
	sb.WriteString("]")
	return sb.String()
}
