package visited

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisitAndReset(t *testing.T) {
	v := New(128)

	assert.False(t, v.Visited(0))
	v.Visit(0)
	v.Visit(64)
	v.Visit(127)
	assert.True(t, v.Visited(0))
	assert.True(t, v.Visited(64))
	assert.True(t, v.Visited(127))
	assert.False(t, v.Visited(1))

	v.Reset()
	assert.False(t, v.Visited(0))
	assert.False(t, v.Visited(64))
	assert.False(t, v.Visited(127))
}

func TestVisitIdempotent(t *testing.T) {
	v := New(8)
	v.Visit(3)
	v.Visit(3)
	assert.True(t, v.Visited(3))

	v.Reset()
	assert.False(t, v.Visited(3))
}

func TestGrowBeyondCapacity(t *testing.T) {
	v := New(4)
	v.Visit(1000)
	assert.True(t, v.Visited(1000))
	assert.False(t, v.Visited(999))
	// Queries past the grown range stay safe.
	assert.False(t, v.Visited(100000))
}
