package mpt

// ExtensionNode is a non-empty shared-prefix node. Path is the common
// nibble prefix of every key passing through it; Child must resolve to
// a *BranchNode — extensions never point at a Leaf or another
// Extension, such structures are collapsed eagerly by ConnectNodes.
type ExtensionNode struct {
	nodeBase
	Path  []Nibble
	Child Node
}

var _ Node = (*ExtensionNode)(nil)

// newExtension builds a fresh (dirty) extension. It panics if path is
// empty, if child is nil, or if child is a concrete Leaf/Extension,
// since all are StructuralInvariantViolation bugs in the rewrite engine,
// never a caller mistake. An unresolved *UnknownNode child is accepted
// without looking at what it refers to.
func newExtension(path []Nibble, child Node) *ExtensionNode {
	if len(path) == 0 {
		structuralInvariantViolation("extension node with empty path")
	}
	if child == nil {
		structuralInvariantViolation("extension node with nil child")
	}
	switch child.(type) {
	case *LeafNode, *ExtensionNode:
		structuralInvariantViolation("extension node pointing at %T", child)
	}
	return &ExtensionNode{nodeBase: newNodeBase(), Path: path, Child: child}
}
