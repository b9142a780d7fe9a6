package bits

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
)

func TestFixedBitSet(t *testing.T) {
	b := NewFixedBitSet(100)
	assert.Equal(t, 100, b.Length())
	assert.Equal(t, 0, b.Cardinality())

	b.Set(0)
	b.Set(63)
	b.Set(64)
	b.Set(99)
	assert.True(t, b.Get(0))
	assert.True(t, b.Get(63))
	assert.True(t, b.Get(64))
	assert.True(t, b.Get(99))
	assert.False(t, b.Get(1))
	assert.Equal(t, 4, b.Cardinality())

	b.Clear(63)
	assert.False(t, b.Get(63))
	assert.Equal(t, 3, b.Cardinality())
}

func TestFixedBitSetOutOfRange(t *testing.T) {
	b := NewFixedBitSet(10)
	b.Set(-1)
	b.Set(10)
	assert.Equal(t, 0, b.Cardinality())
	assert.False(t, b.Get(-1))
	assert.False(t, b.Get(10))
}

func TestRoaring(t *testing.T) {
	r := NewRoaring(1000)
	assert.Equal(t, 1000, r.Length())

	r.Set(3)
	r.Set(999)
	r.Set(1000) // out of range, ignored
	assert.True(t, r.Get(3))
	assert.True(t, r.Get(999))
	assert.False(t, r.Get(4))
	assert.False(t, r.Get(1000))
	assert.Equal(t, 2, r.Cardinality())
}

func TestWrapRoaring(t *testing.T) {
	bm := roaring.BitmapOf(1, 5, 7)
	r := WrapRoaring(bm, 10)

	assert.True(t, r.Get(5))
	assert.False(t, r.Get(2))
	assert.Equal(t, 3, r.Cardinality())
	assert.Same(t, bm, r.Bitmap())
}

// Both implementations satisfy the filter interface.
var (
	_ Bits = (*FixedBitSet)(nil)
	_ Bits = (*Roaring)(nil)
)
