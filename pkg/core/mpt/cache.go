package mpt

import (
	lru "github.com/hashicorp/golang-lru"
)

// nodeCache is a bounded LRU of decoded nodes keyed by hash, following
// the header-page cache pattern in pkg/core/headerhashes.go. It is
// write-through during Commit and consulted by resolve before a
// NodeStore round-trip.
type nodeCache struct {
	c *lru.Cache
}

func newNodeCache(size int) *nodeCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	c, _ := lru.New(size) // lru.New only errors for size <= 0, excluded above.
	return &nodeCache{c: c}
}

func (nc *nodeCache) get(h Hash) (Node, bool) {
	if nc == nil {
		return nil, false
	}
	v, ok := nc.c.Get(h)
	if !ok {
		return nil, false
	}
	return v.(Node), true
}

func (nc *nodeCache) put(h Hash, n Node) {
	if nc == nil {
		return
	}
	nc.c.Add(h, n)
}

// valueCache is a bounded LRU of raw values keyed by the original
// byte-string trie key (not the nibble path or any node reference).
// Writes must evict the affected key before traversal begins, per
// spec.md §9's conservative-invalidation rule — a stale hit here would
// be a correctness bug, not just a wasted lookup.
type valueCache struct {
	c *lru.Cache
}

func newValueCache(size int) *valueCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	c, _ := lru.New(size)
	return &valueCache{c: c}
}

func (vc *valueCache) get(key []byte) ([]byte, bool) {
	if vc == nil {
		return nil, false
	}
	v, ok := vc.c.Get(string(key))
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (vc *valueCache) put(key, value []byte) {
	if vc == nil {
		return
	}
	vc.c.Add(string(key), value)
}

func (vc *valueCache) invalidate(key []byte) {
	if vc == nil {
		return
	}
	vc.c.Remove(string(key))
}
