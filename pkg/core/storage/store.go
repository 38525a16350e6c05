/*
Package storage provides NodeStore backends for pkg/core/mpt: in-memory,
LevelDB and BoltDB implementations of the content-addressed Get/Set
contract a Trie persists its nodes through.
*/
package storage

import (
	"fmt"
	"io"

	"github.com/nspcc-dev/mpttrie/pkg/core/mpt"
	"github.com/nspcc-dev/mpttrie/pkg/core/storage/dbconfig"
)

// Store is the mpt.NodeStore contract plus the ability to release the
// backend's underlying resources (a file handle, a DB connection).
// mpt.NodeStore itself stays exactly the Get/Set pair spec.md §6
// declares; every concrete backend in this package additionally closes,
// so callers that construct one through NewStore get that wider type
// back rather than having to downcast.
type Store interface {
	mpt.NodeStore
	io.Closer
}

// NewStore creates a Store backend selected by cfg.Type: "leveldb",
// "boltdb" or "inmemory".
func NewStore(cfg dbconfig.DBConfiguration) (Store, error) {
	switch cfg.Type {
	case "leveldb":
		return NewLevelDBStore(cfg.LevelDBOptions)
	case "boltdb":
		return NewBoltDBStore(cfg.BoltDBOptions)
	case "inmemory", "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage: %s", cfg.Type)
	}
}
