/*
Package mpt implements a Merkle Patricia Trie: an authenticated,
persistent key/value map whose root is a 32-byte Keccak-256 digest
committing to the whole (key, value) multiset.

A Trie supports point Get, Set and Delete. Mutations are buffered in
memory as a tree of dirty nodes; Commit walks that tree bottom-up,
computes each node's canonical RLP encoding and reference (either the
raw RLP bytes, when short, or the Keccak-256 hash of the RLP, when
long), and flushes every hash-referenced node to the backing NodeStore.

A Trie is not safe for concurrent use: at most one Get/Set/Delete/
Commit call may run at a time per instance, since even a read replaces
an unresolved root placeholder in the Trie with its decoded node.
Separate Trie instances opened at different root hashes, or the same
root hash after a Commit, may safely share a NodeStore concurrently;
the caches enabled through Option belong to a single Trie.
*/
package mpt
