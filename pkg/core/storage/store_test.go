package storage

import (
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/mpttrie/pkg/core/mpt"
	"github.com/nspcc-dev/mpttrie/pkg/core/storage/dbconfig"
	"github.com/stretchr/testify/require"
)

func testGetSetMiss(t *testing.T, store Store) {
	h := mpt.Hash{1, 2, 3}
	_, found, err := store.Get(h)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.Set(h, []byte("payload")))
	got, found, err := store.Get(h)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("payload"), got)

	require.NoError(t, store.Set(h, []byte("overwritten")))
	got, found, err = store.Get(h)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("overwritten"), got)
}

func TestMemoryStoreGetSet(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	testGetSetMiss(t, store)
}

func TestLevelDBStoreGetSet(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLevelDBStore(dbconfig.LevelDBOptions{DataDirectoryPath: filepath.Join(dir, "leveldb")})
	require.NoError(t, err)
	defer store.Close()
	testGetSetMiss(t, store)
}

func TestBoltDBStoreGetSet(t *testing.T) {
	dir := t.TempDir()
	store, err := NewBoltDBStore(dbconfig.BoltDBOptions{FilePath: filepath.Join(dir, "bolt.db")})
	require.NoError(t, err)
	defer store.Close()
	testGetSetMiss(t, store)
}

func TestNewStoreSelectsBackendByType(t *testing.T) {
	store, err := NewStore(dbconfig.DBConfiguration{Type: "inmemory"})
	require.NoError(t, err)
	defer store.Close()
	_, ok := store.(*MemoryStore)
	require.True(t, ok)

	_, err = NewStore(dbconfig.DBConfiguration{Type: "unknown"})
	require.Error(t, err)
}
