package mpt

import "go.uber.org/zap"

// connectNodes implements spec.md §4.5: a bottom-up structural rewrite
// that walks stack from its deepest entry (the end of the slice,
// pushed last during descent) to its shallowest (the trie root),
// substituting next into each ancestor in turn and producing the new
// value that ancestor must in turn be substituted as in the frame
// above it. The final returned Node is the new trie root.
func (t *Trie) connectNodes(next Node, stack []ancestorFrame) (Node, error) {
	for i := len(stack) - 1; i >= 0; i-- {
		frame := stack[i]
		var err error
		if frame.isBranch {
			next, err = t.connectBranchAncestor(frame.branch, frame.slot, next)
		} else {
			next, err = t.connectExtensionAncestor(frame.extPath, next)
		}
		if err != nil {
			return nil, err
		}
	}
	return next, nil
}

// connectBranchAncestor substitutes next into branch's slot and either
// emits a rebuilt Branch or, if the substitution leaves the branch
// with fewer than two live children and no value, collapses it into
// the remaining child's Leaf/Extension/Branch form.
func (t *Trie) connectBranchAncestor(branch *BranchNode, slot int, next Node) (Node, error) {
	nb := branch.clone()
	nb.Children[slot] = next

	if next != nil || branchRemainsValid(nb) {
		return nb, nil
	}

	if len(nb.Value) > 0 {
		t.log.Debug("branch collapsed into leaf", zap.Int("slot", slot))
		return newLeaf(nil, nb.Value), nil
	}

	idx, child := nb.soleChild()
	resolvedChild, err := resolve(child, t.store, t.nodeCache)
	if err != nil {
		return nil, err
	}
	switch c := resolvedChild.(type) {
	case *BranchNode:
		t.log.Debug("branch collapsed into extension", zap.Int("slot", slot), zap.Int("soleChild", idx))
		return newExtension([]Nibble{byte(idx)}, c), nil
	case *ExtensionNode:
		path := append([]Nibble{byte(idx)}, c.Path...)
		t.log.Debug("branch collapsed into extension", zap.Int("slot", slot), zap.Int("soleChild", idx))
		return newExtension(path, c.Child), nil
	case *LeafNode:
		path := append([]Nibble{byte(idx)}, c.Path...)
		t.log.Debug("branch collapsed into leaf", zap.Int("slot", slot), zap.Int("soleChild", idx))
		return newLeaf(path, c.Value), nil
	default:
		structuralInvariantViolation("connectBranchAncestor: unexpected sole-child type %T", resolvedChild)
		return nil, nil
	}
}

// branchRemainsValid reports whether b still satisfies the branch
// invariant (at least two live children, or one live child plus a
// value) after a substitution.
func branchRemainsValid(b *BranchNode) bool {
	count := b.nonEmptyChildCount()
	if count >= 2 {
		return true
	}
	return count == 1 && len(b.Value) > 0
}

// connectExtensionAncestor substitutes next into an Extension ancestor
// carrying extPath. next is never nil here and never a bare Leaf
// substitution that would eliminate the extension upstream: a
// deletion can only null out a Branch slot, and an Extension's child
// is always a Branch by construction (invariant in spec.md §4.2), so
// the walk always resolves any nullity at the nearest Branch ancestor
// before it can reach an Extension frame.
func (t *Trie) connectExtensionAncestor(extPath []Nibble, next Node) (Node, error) {
	switch n := next.(type) {
	case *LeafNode:
		path := append(append([]Nibble{}, extPath...), n.Path...)
		return newLeaf(path, n.Value), nil
	case *ExtensionNode:
		path := append(append([]Nibble{}, extPath...), n.Path...)
		return newExtension(path, n.Child), nil
	case *BranchNode:
		return newExtension(extPath, n), nil
	default:
		structuralInvariantViolation("connectExtensionAncestor: unexpected substitution %T", next)
		return nil, nil
	}
}
