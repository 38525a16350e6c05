package mpt

// NodeStore is the backing, content-addressed key/value store a Trie
// persists nodes into. It is byte-addressed by a node's Keccak-256
// hash; Set's hash argument must equal keccak.Sum256(rlp) for every
// call the core makes. Implementations live in pkg/core/storage.
type NodeStore interface {
	// Get returns the RLP bytes stored under hash, and false if no
	// entry exists. It must not return (nil, true, nil).
	Get(hash Hash) (rlp []byte, found bool, err error)
	// Set stores rlp under hash, overwriting any existing entry.
	Set(hash Hash, rlp []byte) error
}

// EmptyTreeHash is the root hash of a trie with no entries: the
// Keccak-256 of the RLP encoding of the empty byte string. It is
// bit-exact with every other MPT implementation in this ecosystem and
// must never be recomputed ad hoc.
var EmptyTreeHash = Hash{
	0x56, 0xe8, 0x1f, 0x17, 0x1b, 0xcc, 0x55, 0xa6,
	0xff, 0x83, 0x45, 0xe6, 0x92, 0xc0, 0xf8, 0x6e,
	0x5b, 0x48, 0xe0, 0x1b, 0x99, 0x6c, 0xad, 0xc0,
	0x01, 0x62, 0x2f, 0xb5, 0xe3, 0x63, 0xb4, 0x21,
}
