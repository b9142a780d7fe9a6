package graph

import (
	"context"

	"github.com/dlg99/jvector/bits"
	"github.com/dlg99/jvector/distance"
	"github.com/dlg99/jvector/internal/visited"
	"github.com/dlg99/jvector/vectorstore"
)

// Search runs greedy beam search for the topK nodes most similar to query.
//
// accept restricts which nodes may enter the results; filtered-out nodes are
// still traversed as bridges. A nil accept admits every node. visitedLimit
// bounds the number of nodes the search may score; exhausting it is not an
// error: the queue is returned with partial results and Incomplete set.
//
// The returned queue is ascending (Pop removes the worst result) with
// VisitedCount and Incomplete populated.
func Search[E distance.Element](
	ctx context.Context,
	query []E,
	topK int,
	vectors vectorstore.RandomAccess[E],
	scorer distance.Func[E],
	g *OnHeapGraph,
	accept bits.Bits,
	visitedLimit int,
) (*NeighborQueue, error) {
	if vectors == nil {
		return nil, ErrNilVectors
	}
	if scorer == nil {
		return nil, ErrNilScorer
	}
	if topK <= 0 {
		return nil, ErrInvalidK
	}
	return searchInternal(ctx, query, topK, vectors, scorer, g, accept, visitedLimit)
}

// searchInternal is the traversal shared by queries and construction-time
// candidate discovery (which passes no filter and no budget).
func searchInternal[E distance.Element](
	ctx context.Context,
	query []E,
	topK int,
	vectors vectorstore.RandomAccess[E],
	scorer distance.Func[E],
	g *OnHeapGraph,
	accept bits.Bits,
	visitedLimit int,
) (*NeighborQueue, error) {
	results := NewNeighborQueue(topK, false)

	ep := g.EntryPoint()
	if ep < 0 {
		return results, nil
	}

	seen := visited.New(vectors.Size())
	frontier := NewNeighborQueue(topK, true)

	numVisited := 0
	if visitedLimit <= 0 {
		results.MarkIncomplete()
		return results, nil
	}

	epScore := scorer(query, vectors.VectorValue(ep))
	seen.Visit(ep)
	numVisited++
	frontier.Push(ep, epScore)
	if accept == nil || accept.Get(ep) {
		results.PushWithOverflow(ep, epScore, topK)
	}

	for frontier.Size() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidate, candidateScore, _ := frontier.Pop()

		// Best-first early termination: once the results are full, a
		// frontier head that cannot improve on the worst kept result
		// ends the search.
		if results.Size() >= topK {
			if _, worst, ok := results.Top(); ok && candidateScore < worst {
				break
			}
		}

		ns := g.GetNeighbors(candidate)
		if ns == nil {
			continue
		}
		budgetExhausted := false
		ns.ForEach(func(friend int32, _ float32) {
			if budgetExhausted || seen.Visited(friend) {
				return
			}
			if numVisited >= visitedLimit {
				budgetExhausted = true
				return
			}
			seen.Visit(friend)
			numVisited++

			score := scorer(query, vectors.VectorValue(friend))
			frontier.Push(friend, score)
			if accept == nil || accept.Get(friend) {
				results.PushWithOverflow(friend, score, topK)
			}
		})
		if budgetExhausted {
			results.MarkIncomplete()
			break
		}
	}

	results.SetVisitedCount(numVisited)
	return results, nil
}
