package jvector

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlg99/jvector/bits"
	"github.com/dlg99/jvector/distance"
	"github.com/dlg99/jvector/graph"
	"github.com/dlg99/jvector/testutil"
	"github.com/dlg99/jvector/vectorstore"
)

func TestNewValidation(t *testing.T) {
	_, err := New[float32](0)
	assert.ErrorIs(t, err, ErrInvalidDimension)

	_, err = New[float32](4, WithMaxDegree(-1))
	assert.ErrorIs(t, err, graph.ErrInvalidMaxDegree)

	_, err = New[float32](4, WithAlpha(0.5))
	assert.ErrorIs(t, err, graph.ErrInvalidAlpha)

	// Cosine over int8 has no kernel.
	_, err = New[int8](4, WithMetric(distance.MetricCosine))
	assert.Error(t, err)
}

func TestIndexAddSearch(t *testing.T) {
	ctx := context.Background()
	idx, err := New[float32](2, WithMaxDegree(4), WithBeamWidth(20))
	require.NoError(t, err)

	vectors := testutil.CircularVectors(16)
	for i, v := range vectors {
		node, err := idx.Add(ctx, v)
		require.NoError(t, err)
		assert.Equal(t, int32(i), node)
	}
	assert.Equal(t, 16, idx.Size())
	assert.Equal(t, 2, idx.Dimension())

	results, err := idx.Search(ctx, vectors[5], 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, int32(5), results[0].Node)
	// Results come back best first.
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestIndexDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx, err := New[float32](3)
	require.NoError(t, err)

	var mismatch *vectorstore.ErrDimensionMismatch
	_, err = idx.Add(ctx, []float32{1, 0})
	require.ErrorAs(t, err, &mismatch)

	_, err = idx.Search(ctx, []float32{1, 0}, 3)
	require.ErrorAs(t, err, &mismatch)
}

func TestIndexAddBatch(t *testing.T) {
	ctx := context.Background()
	idx, err := New[float32](2, WithMaxDegree(4))
	require.NoError(t, err)

	nodes, err := idx.AddBatch(ctx, testutil.CircularVectors(8))
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 2, 3, 4, 5, 6, 7}, nodes)

	// A bad row stops the batch; earlier rows stay indexed.
	nodes, err = idx.AddBatch(ctx, [][]float32{testutil.UnitVector2D(0.1), {1, 2, 3}})
	assert.Error(t, err)
	assert.Equal(t, []int32{8}, nodes)
	assert.Equal(t, 9, idx.Size())
}

func TestIndexSearchWithFilter(t *testing.T) {
	ctx := context.Background()
	idx, err := New[float32](2, WithMaxDegree(4), WithBeamWidth(20))
	require.NoError(t, err)

	vectors := testutil.CircularVectors(16)
	_, err = idx.AddBatch(ctx, vectors)
	require.NoError(t, err)

	accept := bits.NewRoaring(16)
	accept.Set(2)
	accept.Set(9)

	results, err := idx.SearchWithFilter(ctx, vectors[3], 5, accept)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int32(2), results[0].Node)
	assert.Equal(t, int32(9), results[1].Node)
}

func TestIndexInt8(t *testing.T) {
	ctx := context.Background()
	idx, err := New[int8](4, WithMaxDegree(4), WithMetric(distance.MetricL2))
	require.NoError(t, err)

	vectors := testutil.NewRNG(11).Int8Vectors(32, 4)
	_, err = idx.AddBatch(ctx, vectors)
	require.NoError(t, err)

	results, err := idx.Search(ctx, vectors[7], 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int32(7), results[0].Node)
}

func TestIndexConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	idx, err := New[float32](8, WithMaxDegree(8), WithBeamWidth(40))
	require.NoError(t, err)

	vectors := testutil.NewRNG(21).UnitVectors(200, 8)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := offset; i < len(vectors); i += 4 {
				if _, err := idx.Add(ctx, vectors[i]); err != nil {
					t.Error(err)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	idx.Complete()

	require.Equal(t, 200, idx.Size())

	// Every node respects its degree bound after Complete.
	g := idx.Graph()
	entry := g.EntryPoint()
	it := g.GetNodes()
	for node, ok := it.Next(); ok; node, ok = it.Next() {
		bound := 8
		if node == entry {
			bound = 16
		}
		assert.LessOrEqual(t, g.GetNeighbors(node).Size(), bound)
	}

	results, err := idx.Search(ctx, vectors[0], 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestIndexMetrics(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}
	idx, err := New[float32](2, WithMaxDegree(4), WithMetricsCollector(metrics))
	require.NoError(t, err)

	_, err = idx.AddBatch(ctx, testutil.CircularVectors(8))
	require.NoError(t, err)
	_, err = idx.Search(ctx, testutil.UnitVector2D(0.3), 3)
	require.NoError(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(8), stats.AddCount)
	assert.Equal(t, int64(0), stats.AddErrors)
	assert.Equal(t, int64(1), stats.SearchCount)
	assert.Greater(t, stats.NodesVisited, int64(0))
}
