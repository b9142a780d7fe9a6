// Package testutil provides shared helpers for tests: deterministic random
// vector generation and brute-force ground truth.
package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/dlg99/jvector/distance"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// Float64 returns, as a float64, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UnitVector returns a random vector of the given dimension normalized to
// unit length.
func (r *RNG) UnitVector(dim int) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := make([]float32, dim)
	var norm float64
	for i := range v {
		x := r.rand.NormFloat64()
		v[i] = float32(x)
		norm += x * x
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

// UnitVectors returns num random unit vectors of the given dimension.
func (r *RNG) UnitVectors(num, dim int) [][]float32 {
	out := make([][]float32, num)
	for i := range out {
		out[i] = r.UnitVector(dim)
	}
	return out
}

// Int8Vectors returns num random int8 vectors of the given dimension with
// components in [-64, 64).
func (r *RNG) Int8Vectors(num, dim int) [][]int8 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([][]int8, num)
	for i := range out {
		v := make([]int8, dim)
		for j := range v {
			v[j] = int8(r.rand.Intn(128) - 64)
		}
		out[i] = v
	}
	return out
}

// CircularVectors returns size two-dimensional unit vectors spread evenly
// over a semicircle: vector i points at angle pi*i/size.
func CircularVectors(size int) [][]float32 {
	out := make([][]float32, size)
	for i := range out {
		out[i] = UnitVector2D(float64(i) / float64(size))
	}
	return out
}

// UnitVector2D returns the 2D unit vector at angle pi*piRadians.
func UnitVector2D(piRadians float64) []float32 {
	return []float32{
		float32(math.Cos(math.Pi * piRadians)),
		float32(math.Sin(math.Pi * piRadians)),
	}
}

// BruteForceTopK returns the ordinals of the k highest-scoring vectors
// against query, best first. Ties break on the lower ordinal.
func BruteForceTopK[E distance.Element](query []E, vectors [][]E, scorer distance.Func[E], k int) []int32 {
	type hit struct {
		node  int32
		score float32
	}
	hits := make([]hit, len(vectors))
	for i, v := range vectors {
		hits[i] = hit{node: int32(i), score: scorer(query, v)}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].node < hits[j].node
	})
	if k > len(hits) {
		k = len(hits)
	}
	out := make([]int32, k)
	for i := range out {
		out[i] = hits[i].node
	}
	return out
}

// Overlap returns the fraction of want found in got.
func Overlap(got, want []int32) float64 {
	if len(want) == 0 {
		return 1.0
	}
	set := make(map[int32]struct{}, len(got))
	for _, n := range got {
		set[n] = struct{}{}
	}
	found := 0
	for _, n := range want {
		if _, ok := set[n]; ok {
			found++
		}
	}
	return float64(found) / float64(len(want))
}
