package mpt

import "go.uber.org/zap"

// defaultParallelCommitThreshold is the minimum number of dirty children a
// root Branch must have before Commit fans its subtrees out across
// worker goroutines (spec.md §4.6 step 2's heuristic). Below this,
// committing serially avoids paying goroutine overhead for no benefit.
const defaultParallelCommitThreshold = 4

// defaultCacheSize is the entry count used for the node and value caches
// when WithNodeCache/WithValueCache is given a size of zero or less.
// Without those options a Trie has no caches at all.
const defaultCacheSize = 1024

// Option configures a Trie at construction time.
type Option func(*Trie)

// WithLogger attaches a logger for structural and commit diagnostics.
// The default is zap.NewNop(), matching pkg/core/stateroot.Module's
// convention of an injected, optional *zap.Logger.
func WithLogger(log *zap.Logger) Option {
	return func(t *Trie) {
		if log != nil {
			t.log = log
		}
	}
}

// WithParallelCommitThreshold overrides defaultParallelCommitThreshold.
// A threshold of 0 disables parallel commit entirely.
func WithParallelCommitThreshold(n int) Option {
	return func(t *Trie) { t.parallelThreshold = n }
}

// WithNodeCache enables a bounded LRU cache of decoded nodes keyed by
// hash, sized for size entries. It is a pure accelerator (spec.md §9):
// disabling it changes nothing about Get/Set/Delete results, only how
// many NodeStore round-trips they cost.
func WithNodeCache(size int) Option {
	return func(t *Trie) { t.nodeCache = newNodeCache(size) }
}

// WithValueCache enables a bounded LRU cache of raw values keyed by the
// byte-string key, sized for size entries.
func WithValueCache(size int) Option {
	return func(t *Trie) { t.valueCache = newValueCache(size) }
}
