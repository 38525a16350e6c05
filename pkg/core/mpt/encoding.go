package mpt

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/nspcc-dev/mpttrie/pkg/keccak"
)

// hashRefThreshold is the RLP length at and above which a node's
// reference is its Keccak-256 hash rather than its raw encoding
// (spec.md invariant 6).
const hashRefThreshold = 32

// rlpString returns the canonical RLP encoding of a byte string,
// treating a nil/empty slice as the empty string (0x80). This is the
// "RLP encoder primitive" spec.md treats as an external collaborator:
// the core only ever reaches for it, never reimplements length-prefix
// framing itself.
func rlpString(b []byte) (rlp.RawValue, error) {
	enc, err := rlp.EncodeToBytes(b)
	if err != nil {
		return nil, err
	}
	return rlp.RawValue(enc), nil
}

// encodeRef implements spec.md §4.2's encode_ref: it produces the RLP
// item a parent embeds for a child slot, splicing the child's raw RLP
// in directly when short and hashing it otherwise. A nil child (empty
// slot) encodes as the RLP empty byte string.
func encodeRef(child Node) (rlp.RawValue, error) {
	if child == nil {
		return rlpString(nil)
	}
	ref, err := nodeKey(child)
	if err != nil {
		return nil, err
	}
	if ref.IsHash {
		return rlpString(ref.Hash[:])
	}
	return rlp.RawValue(ref.Inline), nil
}

// nodeKey implements spec.md §4.2's node_key: it populates (and caches)
// n's reference, recursively hashing any dirty descendants along the
// way. It is idempotent once a node carries a valid cached reference.
func nodeKey(n Node) (NodeRef, error) {
	if ref, ok := n.cachedRef(); ok {
		return ref, nil
	}
	raw, err := encodeNode(n)
	if err != nil {
		return NodeRef{}, err
	}
	var ref NodeRef
	if len(raw) < hashRefThreshold {
		ref = NodeRef{Inline: raw}
	} else {
		h := keccak.Sum256(raw)
		ref = NodeRef{Hash: Hash(h), IsHash: true}
	}
	n.setCachedRef(ref)
	return ref, nil
}

// encodeNode implements spec.md §4.2's encode_node, dispatching on the
// node's concrete kind. It is only ever called (by nodeKey, Commit and
// commitNode) on a resolved, concrete node; *UnknownNode always carries
// a cached reference and is short-circuited before reaching here.
func encodeNode(n Node) ([]byte, error) {
	switch v := n.(type) {
	case *LeafNode:
		return encodeLeaf(v)
	case *ExtensionNode:
		return encodeExtension(v)
	case *BranchNode:
		return encodeBranch(v)
	default:
		structuralInvariantViolation("encode_node called on %T", n)
		return nil, nil
	}
}

func encodeLeaf(n *LeafNode) ([]byte, error) {
	pathItem, err := rlpString(hexPrefixEncode(n.Path, true))
	if err != nil {
		return nil, err
	}
	valItem, err := rlpString(n.Value)
	if err != nil {
		return nil, err
	}
	return rlp.EncodeToBytes([]rlp.RawValue{pathItem, valItem})
}

func encodeExtension(n *ExtensionNode) ([]byte, error) {
	pathItem, err := rlpString(hexPrefixEncode(n.Path, false))
	if err != nil {
		return nil, err
	}
	childItem, err := encodeRef(n.Child)
	if err != nil {
		return nil, err
	}
	return rlp.EncodeToBytes([]rlp.RawValue{pathItem, childItem})
}

func encodeBranch(n *BranchNode) ([]byte, error) {
	items := make([]rlp.RawValue, childrenCount+1)
	for i := 0; i < childrenCount; i++ {
		item, err := encodeRef(n.Children[i])
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	valItem, err := rlpString(n.Value)
	if err != nil {
		return nil, err
	}
	items[childrenCount] = valItem
	return rlp.EncodeToBytes(items)
}

// decodeNode implements spec.md §4.3's decode rules: a 17-item list
// decodes as a Branch, a 2-item list as a Leaf or Extension (the
// hex-prefix leaf flag discriminates), anything else is malformed.
func decodeNode(raw []byte) (Node, error) {
	var items []rlp.RawValue
	if err := rlp.DecodeBytes(raw, &items); err != nil {
		return nil, ErrMalformedNode
	}
	switch len(items) {
	case childrenCount + 1:
		return decodeBranch(items)
	case 2:
		return decodeShort(items)
	default:
		return nil, ErrMalformedNode
	}
}

func decodeBranch(items []rlp.RawValue) (Node, error) {
	n := newBranch()
	for i := 0; i < childrenCount; i++ {
		child, err := decodeRef(items[i])
		if err != nil {
			return nil, err
		}
		n.Children[i] = child
	}
	val, err := decodeBytesItem(items[childrenCount])
	if err != nil {
		return nil, err
	}
	n.Value = val
	n.setDirty(false)
	return n, nil
}

func decodeShort(items []rlp.RawValue) (Node, error) {
	encPath, err := decodeBytesItem(items[0])
	if err != nil {
		return nil, err
	}
	path, isLeaf, err := hexPrefixDecode(encPath)
	if err != nil {
		return nil, err
	}
	if isLeaf {
		val, err := decodeBytesItem(items[1])
		if err != nil {
			return nil, err
		}
		n := newLeaf(path, val)
		n.setDirty(false)
		return n, nil
	}
	if len(path) == 0 {
		return nil, ErrMalformedNode
	}
	child, err := decodeRef(items[1])
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, ErrMalformedNode
	}
	n := newExtension(path, child)
	n.setDirty(false)
	return n, nil
}

// decodeRef decodes a single child-slot RLP item into a Node: the
// empty string is a nil (empty) slot, a 32-byte string is an unresolved
// hash reference, and an embedded list is an unresolved inline
// reference (the short-node splicing from encode_ref, undone).
func decodeRef(item rlp.RawValue) (Node, error) {
	if len(item) == 0 {
		return nil, ErrMalformedNode
	}
	switch {
	case item[0] == 0x80:
		return nil, nil
	case item[0] == 0xa0:
		if len(item) != 1+hashRefThreshold {
			return nil, ErrMalformedNode
		}
		var h Hash
		copy(h[:], item[1:])
		return newUnknown(NodeRef{Hash: h, IsHash: true}), nil
	case item[0] >= 0xc0:
		inline := append([]byte(nil), item...)
		return newUnknown(NodeRef{Inline: inline}), nil
	default:
		return nil, ErrMalformedNode
	}
}

func decodeBytesItem(item rlp.RawValue) ([]byte, error) {
	var out []byte
	if err := rlp.DecodeBytes(item, &out); err != nil {
		return nil, ErrMalformedNode
	}
	return out, nil
}
