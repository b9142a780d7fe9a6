// Package bits provides liveness/accept filters over dense node ordinals.
//
// A nil Bits passed to search means "accept all".
package bits

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Bits is a read-only predicate over node ordinals.
type Bits interface {
	// Get reports whether the given ordinal is set.
	Get(ord int32) bool
	// Length returns the number of ordinals covered by the filter.
	Length() int
}

// FixedBitSet is a fixed-length mutable bitset backed by uint64 words.
type FixedBitSet struct {
	words  []uint64
	length int
}

// NewFixedBitSet creates a bitset covering ordinals [0, length).
func NewFixedBitSet(length int) *FixedBitSet {
	return &FixedBitSet{
		words:  make([]uint64, (length+63)/64),
		length: length,
	}
}

// Set marks ord as accepted. Out-of-range ordinals are ignored.
func (b *FixedBitSet) Set(ord int32) {
	if ord < 0 || int(ord) >= b.length {
		return
	}
	b.words[ord>>6] |= 1 << (uint(ord) & 63)
}

// Clear unmarks ord.
func (b *FixedBitSet) Clear(ord int32) {
	if ord < 0 || int(ord) >= b.length {
		return
	}
	b.words[ord>>6] &^= 1 << (uint(ord) & 63)
}

// Get reports whether ord is set.
func (b *FixedBitSet) Get(ord int32) bool {
	if ord < 0 || int(ord) >= b.length {
		return false
	}
	return b.words[ord>>6]&(1<<(uint(ord)&63)) != 0
}

// Length returns the number of covered ordinals.
func (b *FixedBitSet) Length() int {
	return b.length
}

// Cardinality returns the number of set bits.
func (b *FixedBitSet) Cardinality() int {
	n := 0
	for _, w := range b.words {
		n += popcount(w)
	}
	return n
}

func popcount(w uint64) int {
	n := 0
	for w != 0 {
		w &= w - 1
		n++
	}
	return n
}

// Roaring adapts a roaring bitmap to the Bits interface. Useful when the
// accept set is sparse or produced by set algebra on other bitmaps.
type Roaring struct {
	bm     *roaring.Bitmap
	length int
}

// NewRoaring creates an empty roaring-backed filter covering [0, length).
func NewRoaring(length int) *Roaring {
	return &Roaring{bm: roaring.New(), length: length}
}

// WrapRoaring adapts an existing bitmap. The bitmap is referenced, not copied.
func WrapRoaring(bm *roaring.Bitmap, length int) *Roaring {
	return &Roaring{bm: bm, length: length}
}

// Set marks ord as accepted. Out-of-range ordinals are ignored.
func (r *Roaring) Set(ord int32) {
	if ord < 0 || int(ord) >= r.length {
		return
	}
	r.bm.Add(uint32(ord))
}

// Get reports whether ord is set.
func (r *Roaring) Get(ord int32) bool {
	if ord < 0 || int(ord) >= r.length {
		return false
	}
	return r.bm.Contains(uint32(ord))
}

// Length returns the number of covered ordinals.
func (r *Roaring) Length() int {
	return r.length
}

// Cardinality returns the number of set bits.
func (r *Roaring) Cardinality() int {
	return int(r.bm.GetCardinality())
}

// Bitmap returns the underlying roaring bitmap.
func (r *Roaring) Bitmap() *roaring.Bitmap {
	return r.bm
}
