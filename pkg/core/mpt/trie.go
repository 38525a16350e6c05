package mpt

import "go.uber.org/zap"

// Trie is a Merkle Patricia Trie rooted at a single Node. Reads
// resolve lazily from store on demand; writes rebuild the path from
// the mutated node up to the root in memory, leaving the previous
// root's nodes untouched until Commit flushes the new ones and
// RootHash is asked for again. A Trie is not safe for concurrent
// mutation: callers serialize Get/Set/Delete/Commit the same way the
// rest of this package's ancestors do for a single logical writer.
type Trie struct {
	store NodeStore
	root  Node

	log               *zap.Logger
	parallelThreshold int
	nodeCache         *nodeCache
	valueCache        *valueCache
}

// New constructs a Trie backed by store, starting from rootHash. A
// rootHash of EmptyTreeHash (or the zero Hash) yields an empty trie;
// any other hash is resolved lazily as an *UnknownNode on first access.
func New(store NodeStore, rootHash Hash, opts ...Option) *Trie {
	t := &Trie{
		store:             store,
		log:               zap.NewNop(),
		parallelThreshold: defaultParallelCommitThreshold,
	}
	t.setRootHash(rootHash)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Trie) setRootHash(h Hash) {
	if h.IsZero() || h == EmptyTreeHash {
		t.root = nil
		return
	}
	t.root = newUnknown(NodeRef{Hash: h, IsHash: true})
}

// SetRootHash discards the in-memory tree and rebinds the trie to a
// different, already-committed root. Any buffered but uncommitted
// mutations are lost.
func (t *Trie) SetRootHash(h Hash) {
	t.setRootHash(h)
}

// RootHash returns the hash of the current root without flushing
// anything to store. It is the read-only spelling of UpdateRootHash
// (spec.md §6 lists root_hash as a property alongside the
// update_root_hash() operation; both resolve the same way).
func (t *Trie) RootHash() (Hash, error) {
	return t.UpdateRootHash()
}

// Get looks up key and returns its stored value, or found=false if
// key is absent. It never mutates the trie.
func (t *Trie) Get(key []byte) (value []byte, found bool, err error) {
	if v, ok := t.valueCache.get(key); ok {
		return v, true, nil
	}
	path := bytesToNibbles(key)
	result, _, err := t.run(path, nil, false, false)
	if err != nil {
		return nil, false, err
	}
	if result == nil {
		return nil, false, nil
	}
	t.valueCache.put(key, result)
	return result, true, nil
}

// Set inserts or replaces the value stored at key. An empty value
// (nil or zero-length) deletes key instead, matching the teacher's own
// Trie.Put (len(value) == 0 => Delete) and spec.md §4.4/§6's rule that
// an empty value always means delete, never a stored empty string.
// Deleting an absent key this way is always ignored, the same
// leniency Set itself has always had for other no-ops.
func (t *Trie) Set(key, value []byte) error {
	if len(value) == 0 {
		return t.Delete(key, true)
	}
	t.valueCache.invalidate(key)
	path := bytesToNibbles(key)
	_, _, err := t.run(path, value, true, false)
	return err
}

// Delete removes key from the trie. If ignoreMissingDelete is false
// and key is not present, it returns a *MissingDeleteKeyError; if true,
// deleting an absent key is a silent no-op.
func (t *Trie) Delete(key []byte, ignoreMissingDelete bool) error {
	t.valueCache.invalidate(key)
	path := bytesToNibbles(key)
	_, _, err := t.run(path, nil, true, ignoreMissingDelete)
	return err
}

// run is the unified traversal core described in spec.md §4.4: it
// resolves the root if necessary, dispatches to the per-kind
// traversal, and — for mutations that actually changed something —
// rebuilds the path from the mutation point to the root via
// connectNodes. Reads and no-op mutations (deleting an absent key,
// setting a key to its current value) never touch t.root's identity
// beyond resolving it out of its *UnknownNode wrapper.
func (t *Trie) run(path []Nibble, newValue []byte, isUpdate, ignoreMissingDelete bool) ([]byte, []byte, error) {
	if t.root == nil {
		if !isUpdate {
			return nil, nil, nil
		}
		if newValue == nil {
			if !ignoreMissingDelete {
				return nil, nil, &MissingDeleteKeyError{Path: path}
			}
			return nil, nil, nil
		}
		t.root = newLeaf(path, newValue)
		return newValue, newValue, nil
	}

	root, err := resolve(t.root, t.store, t.nodeCache)
	if err != nil {
		return nil, nil, err
	}
	t.root = root

	ctx := &traverseContext{
		path:                path,
		newValue:            newValue,
		isUpdate:            isUpdate,
		ignoreMissingDelete: ignoreMissingDelete,
	}
	result, next, err := t.traverseNode(root, ctx)
	if err != nil {
		return nil, nil, err
	}
	if isUpdate && ctx.mutated {
		newRoot, err := t.connectNodes(next, ctx.stack)
		if err != nil {
			return nil, nil, err
		}
		// A nil newRoot means the last remaining key was deleted and the
		// trie is empty again.
		t.root = newRoot
	}
	return result, newValue, nil
}
