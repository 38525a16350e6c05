package mpt

import (
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nspcc-dev/mpttrie/pkg/keccak"
)

// Commit walks the dirty subtree of the current root depth-first,
// post-order, computing and flushing every hash-referenced node's RLP
// encoding to store, per spec.md §4.6. Nodes that are already clean
// (their cached reference is valid) are skipped entirely — Commit is
// always proportional to the size of the change, never the whole trie.
//
// The root itself is always flushed under its full 32-byte hash, even
// if its own RLP encoding is short enough that an ordinary child in
// its position would have been spliced inline: a root has no parent
// to splice into, so a later Trie opened at that hash must be able to
// find it in store by that hash alone.
func (t *Trie) Commit() error {
	if t.root == nil {
		return nil
	}
	if _, ok := t.root.(*UnknownNode); ok {
		return nil
	}
	if !t.root.dirty() {
		return nil
	}
	if err := t.commitChildren(t.root, true); err != nil {
		return err
	}
	raw, err := encodeNode(t.root)
	if err != nil {
		return err
	}
	h := Hash(keccak.Sum256(raw))
	if err := t.store.Set(h, raw); err != nil {
		return err
	}
	ref := NodeRef{IsHash: true, Hash: h}
	t.root.setCachedRef(ref)
	t.root.setDirty(false)
	t.nodeCache.put(h, t.root)
	t.log.Info("commit flushed root", zap.String("hash", h.String()), zap.Int("bytes", len(raw)))
	return nil
}

// UpdateRootHash resolves and returns the current root hash without
// writing anything to store (spec.md §4.6): it recomputes RLP encodings
// for any dirty node along the way but leaves every node's dirty flag
// and the tree's in-memory shape untouched, so the nodes it just hashed
// are not yet findable in NodeStore by that hash. Callers that batch
// persistence separately can call this as many times as they like
// between Commits; a caller that also wants the result durable must
// call Commit, either before or after.
func (t *Trie) UpdateRootHash() (Hash, error) {
	if t.root == nil {
		return EmptyTreeHash, nil
	}
	ref, err := nodeKey(t.root)
	if err != nil {
		return Hash{}, err
	}
	return ref.AsHash(), nil
}

// commitNode returns n's committed NodeRef, recursing into n's
// children first when n is dirty. Unknown nodes are already committed
// by definition (they only ever wrap a reference read back from
// store) and are returned as-is without recursion.
func (t *Trie) commitNode(n Node) (NodeRef, error) {
	if n == nil {
		return NodeRef{}, nil
	}
	if u, ok := n.(*UnknownNode); ok {
		return u.Ref, nil
	}
	if !n.dirty() {
		if ref, ok := n.cachedRef(); ok {
			return ref, nil
		}
	}

	if err := t.commitChildren(n, false); err != nil {
		return NodeRef{}, err
	}

	raw, err := encodeNode(n)
	if err != nil {
		return NodeRef{}, err
	}

	var ref NodeRef
	if len(raw) >= hashRefThreshold {
		ref.IsHash = true
		ref.Hash = keccak.Sum256(raw)
		if err := t.store.Set(ref.Hash, raw); err != nil {
			return NodeRef{}, err
		}
	} else {
		ref.Inline = append([]byte{}, raw...)
	}
	n.setCachedRef(ref)
	n.setDirty(false)
	if ref.IsHash {
		t.nodeCache.put(ref.Hash, n)
	}
	return ref, nil
}

// commitChildren recurses commitNode into n's children, if any. It is
// shared by commitNode (for interior nodes, which use the normal
// hash-or-inline threshold) and Commit (for the root, which never
// inlines). root is true only for the direct call from Commit — it
// gates commitBranchChildren's parallel fan-out to the root Branch's
// own children, per spec.md §4.6 step 2's "fan out across the 16
// children of the root Branch"; a Branch found deeper in the tree
// always commits its children serially.
func (t *Trie) commitChildren(n Node, root bool) error {
	switch v := n.(type) {
	case *LeafNode:
		return nil
	case *ExtensionNode:
		_, err := t.commitNode(v.Child)
		return err
	case *BranchNode:
		return t.commitBranchChildren(v, root)
	default:
		structuralInvariantViolation("commitChildren: unexpected node type %T", n)
		return nil
	}
}

// commitBranchChildren commits n's 16 children, fanning out across
// worker goroutines when root is true and at least parallelThreshold of
// them are dirty (spec.md §4.6 step 2). Every worker's error is
// collected, not just the first: a partial commit that silently drops
// sibling failures would leave store inconsistent with what the
// in-memory tree reports as committed.
func (t *Trie) commitBranchChildren(n *BranchNode, root bool) error {
	dirty := 0
	for _, c := range n.Children {
		if c != nil && c.dirty() {
			dirty++
		}
	}

	if !root || t.parallelThreshold <= 0 || dirty < t.parallelThreshold {
		for _, c := range n.Children {
			if c == nil {
				continue
			}
			if _, err := t.commitNode(c); err != nil {
				return err
			}
		}
		return nil
	}

	t.log.Debug("commit fanning out across dirty children", zap.Int("dirty", dirty))
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		child := child
		g.Go(func() error {
			_, err := t.commitNode(child)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return err
		})
	}
	_ = g.Wait()
	if len(errs) > 0 {
		return &CommitAggregateError{Errors: errs}
	}
	return nil
}
