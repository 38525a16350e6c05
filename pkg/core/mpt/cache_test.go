package mpt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNodeCacheNilReceiverIsSafe(t *testing.T) {
	var nc *nodeCache
	_, ok := nc.get(Hash{1})
	require.False(t, ok)
	nc.put(Hash{1}, newLeaf(nil, []byte("x"))) // must not panic
}

func TestNodeCacheRoundTrip(t *testing.T) {
	nc := newNodeCache(8)
	leaf := newLeaf([]Nibble{1, 2}, []byte("v"))
	h := Hash{9}
	nc.put(h, leaf)

	got, ok := nc.get(h)
	require.True(t, ok)
	require.Same(t, leaf, got)
}

func TestValueCacheInvalidate(t *testing.T) {
	vc := newValueCache(8)
	vc.put([]byte("key"), []byte("val"))

	v, ok := vc.get([]byte("key"))
	require.True(t, ok)
	require.Equal(t, []byte("val"), v)

	vc.invalidate([]byte("key"))
	_, ok = vc.get([]byte("key"))
	require.False(t, ok)
}

func TestValueCacheNilReceiverIsSafe(t *testing.T) {
	var vc *valueCache
	_, ok := vc.get([]byte("k"))
	require.False(t, ok)
	vc.put([]byte("k"), []byte("v")) // must not panic
	vc.invalidate([]byte("k"))       // must not panic
}
