package mpt

import (
	"encoding/hex"

	"github.com/nspcc-dev/mpttrie/pkg/keccak"
)

// Hash is a 32-byte Keccak-256 digest, used both as a node's identity in
// the backing NodeStore and as a trie's root hash.
type Hash [32]byte

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns h's hex encoding, for logging and CLI output.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// NodeRef is a node's reference as embedded in its parent: either the
// node's 32-byte Keccak hash (when its RLP encoding is 32 bytes or
// longer) or the node's raw RLP bytes spliced in directly (when the
// encoding is shorter than 32 bytes). Exactly one of the two
// representations is meaningful at a time, selected by IsHash.
//
// This duality is part of the Ethereum-style consensus encoding and
// must be preserved bit-exactly: it is not equivalent to "always hash".
type NodeRef struct {
	Hash   Hash
	Inline []byte
	IsHash bool
}

// AsHash returns r's hash form: its cached hash directly, or, for a
// reference whose node was short enough to be inlined, the Keccak-256
// hash of that inline encoding. The root of a trie is always addressed
// by a full 32-byte hash (see EmptyTreeHash) even when its own
// encoding would have been short enough to be spliced into a parent —
// a root node has no parent to splice into.
func (r NodeRef) AsHash() Hash {
	if r.IsHash {
		return r.Hash
	}
	return Hash(keccak.Sum256(r.Inline))
}

// Node is the common interface implemented by every MPT node variant:
// *LeafNode, *ExtensionNode, *BranchNode and *UnknownNode.
//
// A Node's ref/dirty bookkeeping is intentionally part of the interface
// rather than bolted on externally: every rewrite in ConnectNodes
// produces a fresh node value, and that node's reference is computed
// lazily, once, the first time node_key observes it (resolve never
// mutates an already-concrete node's children, but node_key may cache
// a computed reference onto it).
type Node interface {
	// dirty reports whether this node was produced by a mutation and
	// has not yet been written out by Commit. node_key may cache a
	// reference on a dirty node without clearing the flag.
	dirty() bool
	setDirty(bool)

	// cachedRef returns a previously computed reference for this node,
	// if node_key has already run for it.
	cachedRef() (NodeRef, bool)
	setCachedRef(NodeRef)
}

// nodeBase is embedded into every concrete node type. It implements the
// dirty flag and reference cache shared by all four variants, mirroring
// the teacher's BaseNode pattern (hash/bytes validity flags) adapted to
// cache a NodeRef instead of a fixed-size hash, since short nodes are
// referenced by inline RLP rather than by hash.
type nodeBase struct {
	isDirty bool

	ref      NodeRef
	refValid bool
}

func (b *nodeBase) dirty() bool { return b.isDirty }

func (b *nodeBase) setDirty(d bool) {
	b.isDirty = d
	if d {
		b.refValid = false
	}
}

func (b *nodeBase) cachedRef() (NodeRef, bool) {
	return b.ref, b.refValid
}

func (b *nodeBase) setCachedRef(r NodeRef) {
	b.ref = r
	b.refValid = true
}

// newNodeBase returns the base for a freshly constructed (hence dirty)
// node produced by the rewrite engine.
func newNodeBase() nodeBase {
	return nodeBase{isDirty: true}
}
