package mpt

// childrenCount is the branching factor of a BranchNode: one slot per
// nibble value.
const childrenCount = 16

// BranchNode is the 16-way radix node. Children holds one slot per
// nibble value, nil meaning "no key passes through this slot"; Value
// is non-empty only when some key terminates exactly at this node.
type BranchNode struct {
	nodeBase
	Children [childrenCount]Node
	Value    []byte
}

var _ Node = (*BranchNode)(nil)

// newBranch returns a fresh (dirty), entirely empty branch.
func newBranch() *BranchNode {
	return &BranchNode{nodeBase: newNodeBase()}
}

// clone returns a shallow copy of n: the Children array is copied (so
// the original and the clone do not alias each other's slots), but the
// child Nodes themselves are shared, as is standard for the
// copy-on-write rewrite performed by the traversal engine.
func (n *BranchNode) clone() *BranchNode {
	c := &BranchNode{nodeBase: newNodeBase(), Children: n.Children, Value: n.Value}
	return c
}

// nonEmptyChildCount returns how many of n's 16 slots are non-nil.
func (n *BranchNode) nonEmptyChildCount() int {
	count := 0
	for _, c := range n.Children {
		if c != nil {
			count++
		}
	}
	return count
}

// soleChild returns the index and value of n's first non-nil child,
// which is its only one when callers have checked nonEmptyChildCount
// first. It panics if n has no non-nil child.
func (n *BranchNode) soleChild() (int, Node) {
	for i, c := range n.Children {
		if c != nil {
			return i, c
		}
	}
	panic("mpt: soleChild called on branch with no children")
}
