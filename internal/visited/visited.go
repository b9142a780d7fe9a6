// Package visited tracks visited nodes during graph traversal.
package visited

// Set tracks visited nodes using a bitset and a dirty list for fast reset.
// It is not safe for concurrent use; each search owns its own Set.
type Set struct {
	bits  []uint64
	dirty []int32
}

// New creates a visited set sized for the given number of nodes.
func New(capacity int) *Set {
	return &Set{
		bits:  make([]uint64, (capacity+63)/64),
		dirty: make([]int32, 0, 128),
	}
}

// Visit marks a node as visited.
func (v *Set) Visit(node int32) {
	wordIdx := int(node >> 6)
	bitMask := uint64(1) << (uint(node) & 63)

	if wordIdx >= len(v.bits) {
		v.grow(wordIdx + 1)
	}

	if v.bits[wordIdx]&bitMask == 0 {
		v.bits[wordIdx] |= bitMask
		v.dirty = append(v.dirty, node)
	}
}

// Visited reports whether the node has been visited.
func (v *Set) Visited(node int32) bool {
	wordIdx := int(node >> 6)
	if wordIdx >= len(v.bits) {
		return false
	}
	return v.bits[wordIdx]&(uint64(1)<<(uint(node)&63)) != 0
}

// Reset clears the visited status for all nodes visited since the last reset.
func (v *Set) Reset() {
	for _, node := range v.dirty {
		v.bits[node>>6] &^= uint64(1) << (uint(node) & 63)
	}
	v.dirty = v.dirty[:0]
}

func (v *Set) grow(newLen int) {
	newCap := max(len(v.bits)*2, newLen)
	newBits := make([]uint64, newCap)
	copy(newBits, v.bits)
	v.bits = newBits
}
