package mpt

import "bytes"

// ancestorFrame is one entry of the per-operation ancestor stack built
// during a mutating traversal. It is deliberately local to a single
// run() call rather than the process-wide scratch structure the
// teacher's source historically used (spec.md §9): a Trie mutation
// already runs to completion synchronously and single-threaded, so a
// local stack costs nothing and removes a needless shared-state
// invariant ("only one trie mutates at a time") from the design.
//
// A frame is either a Branch ancestor (substitution lands in Children
// at the given slot) or an Extension ancestor (substitution always
// lands in its single implicit slot; extPath is the path that
// ancestor's rebuilt form must carry or prepend).
type ancestorFrame struct {
	isBranch bool
	branch   *BranchNode
	slot     int
	extPath  []Nibble
}

// traverseContext carries the state threaded through one run() call:
// the nibble path being looked up or mutated, the new value (nil means
// delete), the operation mode, and — for mutations — the ancestor
// stack ConnectNodes will later walk bottom-up.
type traverseContext struct {
	path                []Nibble
	newValue            []byte
	isUpdate            bool
	ignoreMissingDelete bool
	cursor              int
	stack               []ancestorFrame
	mutated             bool
}

func (c *traverseContext) remaining() []Nibble {
	return c.path[c.cursor:]
}

func (c *traverseContext) pushBranch(n *BranchNode, slot int) {
	if c.isUpdate {
		c.stack = append(c.stack, ancestorFrame{isBranch: true, branch: n, slot: slot})
	}
}

func (c *traverseContext) pushExtension(path []Nibble) {
	if c.isUpdate {
		c.stack = append(c.stack, ancestorFrame{extPath: path})
	}
}

// traverseNode dispatches on n's concrete kind, resolving it first if
// it is still an *UnknownNode.
func (t *Trie) traverseNode(n Node, ctx *traverseContext) ([]byte, Node, error) {
	switch v := n.(type) {
	case *UnknownNode:
		resolved, err := resolve(v, t.store, t.nodeCache)
		if err != nil {
			return nil, nil, err
		}
		return t.traverseNode(resolved, ctx)
	case *BranchNode:
		return t.traverseBranch(v, ctx)
	case *ExtensionNode:
		return t.traverseExtension(v, ctx)
	case *LeafNode:
		return t.traverseLeaf(v, ctx)
	default:
		structuralInvariantViolation("traverse: unexpected node type %T", n)
		return nil, nil, nil
	}
}

// traverseBranch implements spec.md §4.4.1.
func (t *Trie) traverseBranch(n *BranchNode, ctx *traverseContext) ([]byte, Node, error) {
	remaining := ctx.remaining()
	if len(remaining) == 0 {
		if !ctx.isUpdate {
			return n.Value, nil, nil
		}
		if ctx.newValue == nil {
			if len(n.Value) == 0 {
				return nil, nil, nil
			}
			ctx.mutated = true
			nb := n.clone()
			nb.Value = nil
			if nb.nonEmptyChildCount() >= 2 {
				return n.Value, nb, nil
			}
			// Only one child is left: merge the branch into it.
			idx, child := nb.soleChild()
			resolvedChild, err := resolve(child, t.store, t.nodeCache)
			if err != nil {
				return nil, nil, err
			}
			collapsed, err := t.connectExtensionAncestor([]Nibble{byte(idx)}, resolvedChild)
			if err != nil {
				return nil, nil, err
			}
			return n.Value, collapsed, nil
		}
		if bytes.Equal(ctx.newValue, n.Value) {
			return n.Value, nil, nil
		}
		nb := n.clone()
		nb.Value = ctx.newValue
		ctx.mutated = true
		return ctx.newValue, nb, nil
	}

	nibble := remaining[0]
	ctx.pushBranch(n, int(nibble))
	ctx.cursor++
	child := n.Children[nibble]

	if child == nil {
		if !ctx.isUpdate {
			return nil, nil, nil
		}
		if ctx.newValue == nil {
			if !ctx.ignoreMissingDelete {
				return nil, nil, &MissingDeleteKeyError{Path: ctx.path}
			}
			return nil, nil, nil
		}
		leaf := newLeaf(append([]Nibble{}, remaining[1:]...), ctx.newValue)
		ctx.mutated = true
		return ctx.newValue, leaf, nil
	}

	resolvedChild, err := resolve(child, t.store, t.nodeCache)
	if err != nil {
		return nil, nil, err
	}
	return t.traverseNode(resolvedChild, ctx)
}

// traverseExtension implements spec.md §4.4.2.
func (t *Trie) traverseExtension(n *ExtensionNode, ctx *traverseContext) ([]byte, Node, error) {
	remaining := ctx.remaining()
	m := commonPrefixLen(remaining, n.Path)

	if m == len(n.Path) {
		ctx.cursor += m
		ctx.pushExtension(n.Path)
		resolvedChild, err := resolve(n.Child, t.store, t.nodeCache)
		if err != nil {
			return nil, nil, err
		}
		return t.traverseNode(resolvedChild, ctx)
	}

	if !ctx.isUpdate {
		return nil, nil, nil
	}
	if ctx.newValue == nil {
		if !ctx.ignoreMissingDelete {
			return nil, nil, &MissingDeleteKeyError{Path: ctx.path}
		}
		return nil, nil, nil
	}

	branch := newBranch()
	if m > 0 {
		ctx.pushExtension(n.Path[:m])
	}

	extTail := n.Path[m:]
	var extSlotChild Node
	if len(extTail) > 1 {
		extSlotChild = newExtension(append([]Nibble{}, extTail[1:]...), n.Child)
	} else {
		extSlotChild = n.Child
	}
	branch.Children[extTail[0]] = extSlotChild

	remTail := remaining[m:]
	if len(remTail) == 0 {
		branch.Value = ctx.newValue
	} else {
		branch.Children[remTail[0]] = newLeaf(append([]Nibble{}, remTail[1:]...), ctx.newValue)
	}

	ctx.mutated = true
	return ctx.newValue, branch, nil
}

// traverseLeaf implements spec.md §4.4.3.
func (t *Trie) traverseLeaf(n *LeafNode, ctx *traverseContext) ([]byte, Node, error) {
	remaining := ctx.remaining()
	m := commonPrefixLen(remaining, n.Path)

	if m == len(remaining) && m == len(n.Path) {
		if !ctx.isUpdate {
			return n.Value, nil, nil
		}
		if ctx.newValue == nil {
			ctx.mutated = true
			return n.Value, nil, nil
		}
		if bytes.Equal(ctx.newValue, n.Value) {
			return n.Value, nil, nil
		}
		newLf := newLeaf(append([]Nibble{}, n.Path...), ctx.newValue)
		ctx.mutated = true
		return ctx.newValue, newLf, nil
	}

	if !ctx.isUpdate {
		return nil, nil, nil
	}
	if ctx.newValue == nil {
		if !ctx.ignoreMissingDelete {
			return nil, nil, &MissingDeleteKeyError{Path: ctx.path}
		}
		return nil, nil, nil
	}

	branch := newBranch()
	if m > 0 {
		ctx.pushExtension(remaining[:m])
	}

	shorter, longer := remaining, n.Path
	shorterValue, longerValue := ctx.newValue, n.Value
	if len(n.Path) < len(remaining) {
		shorter, longer = n.Path, remaining
		shorterValue, longerValue = n.Value, ctx.newValue
	}

	shorterTail := shorter[m:]
	if len(shorterTail) == 0 {
		branch.Value = shorterValue
	} else {
		branch.Children[shorterTail[0]] = newLeaf(append([]Nibble{}, shorterTail[1:]...), shorterValue)
	}

	longerTail := longer[m:]
	leafForLonger := newLeaf(append([]Nibble{}, longerTail[1:]...), longerValue)
	ctx.pushBranch(branch, int(longerTail[0]))

	ctx.mutated = true
	return longerValue, leafForLonger, nil
}
