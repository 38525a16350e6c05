// Package keccak wraps the Keccak-256 hash function used throughout the
// MPT core for node identities and the trie's root hash. It is kept as
// a thin, separate package so the core mpt package depends on the hash
// function only through this narrow surface (spec.md treats Keccak256
// as an external collaborator, not part of the core's own logic).
package keccak

import "golang.org/x/crypto/sha3"

// Size is the digest length in bytes.
const Size = 32

// Sum256 returns the Keccak-256 digest of data. This is the original
// (pre-NIST-padding) Keccak construction, as used throughout
// Ethereum-family consensus encodings — NOT the same as SHA3-256.
func Sum256(data []byte) [Size]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var out [Size]byte
	h.Sum(out[:0])
	return out
}
