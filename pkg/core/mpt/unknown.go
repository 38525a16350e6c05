package mpt

// UnknownNode is a placeholder for a node known only by its reference
// until resolve materializes its concrete variant (Leaf, Extension or
// Branch). It is never dirty and never itself persisted; it exists
// purely to defer a NodeStore round-trip until the traversal actually
// needs to descend into the referenced subtree.
type UnknownNode struct {
	nodeBase
	Ref NodeRef
}

var _ Node = (*UnknownNode)(nil)

// newUnknown wraps a reference observed while decoding a parent node.
// A nil return represents an empty child slot (spec.md's "null"); this
// constructor is only called for non-empty slots, so it never returns nil.
func newUnknown(ref NodeRef) *UnknownNode {
	n := &UnknownNode{Ref: ref}
	n.setCachedRef(ref)
	return n
}

// resolve fetches and decodes the node referenced by n.Ref from store,
// returning the concrete Node it designates. It never mutates n or the
// tree around it; callers use the returned Node in place of n without
// writing it back into the slot that held the *UnknownNode (only run
// stores a resolved root back into the Trie). cache may be nil.
func resolve(n Node, store NodeStore, cache *nodeCache) (Node, error) {
	u, ok := n.(*UnknownNode)
	if !ok {
		return n, nil
	}
	if u.Ref.IsHash {
		if cached, ok := cache.get(u.Ref.Hash); ok {
			return cached, nil
		}
	}
	var raw []byte
	if u.Ref.IsHash {
		data, found, err := store.Get(u.Ref.Hash)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, &MissingNodeError{Hash: u.Ref.Hash}
		}
		raw = data
	} else {
		raw = u.Ref.Inline
	}
	decoded, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	decoded.setCachedRef(u.Ref)
	decoded.setDirty(false)
	if u.Ref.IsHash {
		cache.put(u.Ref.Hash, decoded)
	}
	return decoded, nil
}
