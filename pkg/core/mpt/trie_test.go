package mpt

import (
	"encoding/hex"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// memStore is a minimal in-package NodeStore used only by these tests;
// the real backends live in pkg/core/storage.
type memStore struct {
	mu sync.Mutex
	m  map[Hash][]byte
}

func newMemStore() *memStore { return &memStore{m: make(map[Hash][]byte)} }

func (s *memStore) Get(h Hash) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[h]
	return v, ok, nil
}

func (s *memStore) Set(h Hash, rlp []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[h] = rlp
	return nil
}

func TestEmptyTrieRootHash(t *testing.T) {
	tr := New(newMemStore(), EmptyTreeHash)
	h, err := tr.RootHash()
	require.NoError(t, err)
	require.Equal(t, EmptyTreeHash, h)
}

func TestSingleLeafGetSet(t *testing.T) {
	tr := New(newMemStore(), EmptyTreeHash)
	require.NoError(t, tr.Set([]byte("key"), []byte("value")))

	v, found, err := tr.Get([]byte("key"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("value"), v)

	h, err := tr.RootHash()
	require.NoError(t, err)
	require.NotEqual(t, EmptyTreeHash, h)
}

func TestGetMissingKeyNotFound(t *testing.T) {
	tr := New(newMemStore(), EmptyTreeHash)
	require.NoError(t, tr.Set([]byte("a"), []byte("1")))

	_, found, err := tr.Get([]byte("nope"))
	require.NoError(t, err)
	require.False(t, found)
}

func TestClassicFourKeyRootHash(t *testing.T) {
	tr := New(newMemStore(), EmptyTreeHash)
	pairs := []struct{ k, v string }{
		{"do", "verb"},
		{"dog", "puppy"},
		{"doge", "coin"},
		{"horse", "stallion"},
	}
	for _, p := range pairs {
		require.NoError(t, tr.Set([]byte(p.k), []byte(p.v)))
	}
	h, err := tr.UpdateRootHash()
	require.NoError(t, err)
	require.Equal(t, "5991bb8c6514148a29db676a14ac506cd2cd5775ace63c30a4fe457715e9ac84", hex.EncodeToString(h[:]))
}

func TestDeleteThenReinsertReproducesRootHash(t *testing.T) {
	store := newMemStore()
	tr := New(store, EmptyTreeHash)

	for _, kv := range [][2]string{{"alpha", "1"}, {"beta", "2"}, {"gamma", "3"}} {
		require.NoError(t, tr.Set([]byte(kv[0]), []byte(kv[1])))
	}
	before, err := tr.UpdateRootHash()
	require.NoError(t, err)

	require.NoError(t, tr.Delete([]byte("beta"), false))
	require.NoError(t, tr.Set([]byte("beta"), []byte("2")))
	after, err := tr.UpdateRootHash()
	require.NoError(t, err)

	require.Equal(t, before, after)
}

func TestDeleteOfAbsentKeyIsErrorByDefault(t *testing.T) {
	tr := New(newMemStore(), EmptyTreeHash)
	require.NoError(t, tr.Set([]byte("present"), []byte("v")))

	err := tr.Delete([]byte("absent"), false)
	require.Error(t, err)
	var missing *MissingDeleteKeyError
	require.ErrorAs(t, err, &missing)
}

func TestDeleteOfAbsentKeyIgnoredLeavesHashUnchanged(t *testing.T) {
	tr := New(newMemStore(), EmptyTreeHash)
	require.NoError(t, tr.Set([]byte("present"), []byte("v")))
	before, err := tr.UpdateRootHash()
	require.NoError(t, err)

	require.NoError(t, tr.Delete([]byte("absent"), true))
	after, err := tr.UpdateRootHash()
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestSetEmptyValueDeletesKey(t *testing.T) {
	tr := New(newMemStore(), EmptyTreeHash)
	require.NoError(t, tr.Set([]byte("a"), []byte("1")))
	require.NoError(t, tr.Set([]byte("b"), []byte("2")))

	require.NoError(t, tr.Set([]byte("b"), nil))
	_, found, err := tr.Get([]byte("b"))
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, tr.Set([]byte("b"), []byte{}))
	_, found, err = tr.Get([]byte("b"))
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, tr.Set([]byte("absent"), nil))
}

func TestRandomKeysInsertionOrderDoesNotAffectRootHash(t *testing.T) {
	const n = 500
	keys := make([][]byte, n)
	vals := make([][]byte, n)
	rng := rand.New(rand.NewSource(1))
	for i := range keys {
		k := make([]byte, 8)
		rng.Read(k)
		keys[i] = k
		v := make([]byte, 4)
		rng.Read(v)
		vals[i] = v
	}

	buildHash := func(order []int) Hash {
		tr := New(newMemStore(), EmptyTreeHash)
		for _, i := range order {
			require.NoError(t, tr.Set(keys[i], vals[i]))
		}
		h, err := tr.UpdateRootHash()
		require.NoError(t, err)
		return h
	}

	forward := make([]int, n)
	for i := range forward {
		forward[i] = i
	}
	backward := make([]int, n)
	for i := range backward {
		backward[i] = n - 1 - i
	}
	shuffled := append([]int{}, forward...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	h1 := buildHash(forward)
	h2 := buildHash(backward)
	h3 := buildHash(shuffled)
	require.Equal(t, h1, h2)
	require.Equal(t, h1, h3)
}

func TestCommitPersistsAcrossTrieInstances(t *testing.T) {
	store := newMemStore()
	tr := New(store, EmptyTreeHash)
	require.NoError(t, tr.Set([]byte("persisted"), []byte("yes")))
	require.NoError(t, tr.Commit())
	root, err := tr.RootHash()
	require.NoError(t, err)

	reopened := New(store, root)
	v, found, err := reopened.Get([]byte("persisted"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("yes"), v)
}

func TestUpdateRootHashDoesNotPersist(t *testing.T) {
	store := newMemStore()
	tr := New(store, EmptyTreeHash)
	require.NoError(t, tr.Set([]byte("uncommitted"), []byte("yes")))
	root, err := tr.UpdateRootHash()
	require.NoError(t, err)

	reopened := New(store, root)
	_, _, err = reopened.Get([]byte("uncommitted"))
	require.Error(t, err)
	var missing *MissingNodeError
	require.ErrorAs(t, err, &missing)
}

func TestSetSameValueIsNoOp(t *testing.T) {
	tr := New(newMemStore(), EmptyTreeHash)
	require.NoError(t, tr.Set([]byte("k"), []byte("v")))
	before, err := tr.RootHash()
	require.NoError(t, err)

	require.NoError(t, tr.Set([]byte("k"), []byte("v")))
	after, err := tr.RootHash()
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestNodeCacheIsTransparentToResults(t *testing.T) {
	store := newMemStore()
	cached := New(store, EmptyTreeHash, WithNodeCache(64))
	plain := New(store, EmptyTreeHash)

	for _, tr := range []*Trie{cached, plain} {
		require.NoError(t, tr.Set([]byte("x"), []byte("1")))
		require.NoError(t, tr.Set([]byte("y"), []byte("2")))
	}
	hc, err := cached.UpdateRootHash()
	require.NoError(t, err)
	hp, err := plain.UpdateRootHash()
	require.NoError(t, err)
	require.Equal(t, hc, hp)
}

func TestParallelCommitMatchesSerialCommit(t *testing.T) {
	build := func(threshold int) Hash {
		store := newMemStore()
		tr := New(store, EmptyTreeHash, WithParallelCommitThreshold(threshold))
		for i := 0; i < 64; i++ {
			k := []byte{byte(i), byte(i >> 8)}
			require.NoError(t, tr.Set(k, []byte{byte(i)}))
		}
		require.NoError(t, tr.Commit())
		h, err := tr.UpdateRootHash()
		require.NoError(t, err)
		return h
	}
	require.Equal(t, build(0), build(4))
}
