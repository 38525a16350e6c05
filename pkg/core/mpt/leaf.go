package mpt

// LeafNode is a terminal MPT node. Path is the full remaining key
// suffix from this node's position in the trie; Value is the
// non-empty value stored at that key.
type LeafNode struct {
	nodeBase
	Path  []Nibble
	Value []byte
}

var _ Node = (*LeafNode)(nil)

// newLeaf builds a fresh (dirty) leaf, as produced by the rewrite engine.
func newLeaf(path []Nibble, value []byte) *LeafNode {
	return &LeafNode{nodeBase: newNodeBase(), Path: path, Value: value}
}
