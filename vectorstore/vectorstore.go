// Package vectorstore defines random-access vector storage used by graph
// construction and search.
//
// Stores hand out vectors by dense ordinal. Callers should assume returned
// slices may alias internal memory unless the implementation documents
// otherwise.
package vectorstore

import (
	"fmt"
	"sync"

	"github.com/dlg99/jvector/distance"
)

// ErrDimensionMismatch indicates a vector/store dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// RandomAccess is a random-access view over stored vectors.
//
// Implementations must support concurrent readers through Copy: each copy is
// an independent handle that a new goroutine may use without synchronizing
// with other copies.
type RandomAccess[E distance.Element] interface {
	// Size returns the number of stored vectors.
	Size() int
	// Dimension returns the vector dimensionality.
	Dimension() int
	// VectorValue returns the vector for the given ordinal, or nil if the
	// ordinal has no vector.
	VectorValue(ord int32) []E
	// Copy returns an independent handle safe for use by another goroutine.
	Copy() RandomAccess[E]
}

// SliceStore is an in-memory, append-only RandomAccess implementation.
//
// Appends and reads may run concurrently; ordinals are assigned densely in
// append order. Returned vectors alias internal memory and must not be
// mutated by callers.
type SliceStore[E distance.Element] struct {
	dim int

	mu      sync.RWMutex
	vectors [][]E
}

// NewSliceStore creates an empty store for vectors of the given dimension.
func NewSliceStore[E distance.Element](dim int) *SliceStore[E] {
	return &SliceStore[E]{dim: dim}
}

// NewSliceStoreFrom creates a store holding the given vectors. The slices are
// referenced, not copied; rows must all have the given dimension.
func NewSliceStoreFrom[E distance.Element](dim int, vectors [][]E) (*SliceStore[E], error) {
	s := NewSliceStore[E](dim)
	for _, v := range vectors {
		if _, err := s.Add(v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a vector and returns its ordinal.
func (s *SliceStore[E]) Add(v []E) (int32, error) {
	if len(v) != s.dim {
		return 0, &ErrDimensionMismatch{Expected: s.dim, Actual: len(v)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ord := int32(len(s.vectors))
	s.vectors = append(s.vectors, v)
	return ord, nil
}

// Size returns the number of stored vectors.
func (s *SliceStore[E]) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// Dimension returns the vector dimensionality.
func (s *SliceStore[E]) Dimension() int {
	return s.dim
}

// VectorValue returns the vector stored at ord, or nil if out of range.
func (s *SliceStore[E]) VectorValue(ord int32) []E {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ord < 0 || int(ord) >= len(s.vectors) {
		return nil
	}
	return s.vectors[ord]
}

// Copy returns an independent handle over the same backing store.
func (s *SliceStore[E]) Copy() RandomAccess[E] {
	// The store itself is safe for concurrent readers; a shared handle
	// satisfies the independent-cursor contract.
	return s
}
