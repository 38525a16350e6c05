package storage

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/mpttrie/pkg/core/mpt"
	"github.com/nspcc-dev/mpttrie/pkg/core/storage/dbconfig"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelDBStore is a NodeStore backed by a LevelDB instance on disk.
type LevelDBStore struct {
	db   *leveldb.DB
	path string
}

// NewLevelDBStore returns a new LevelDBStore initialized at the path
// given in cfg.
func NewLevelDBStore(cfg dbconfig.LevelDBOptions) (*LevelDBStore, error) {
	var opts = new(opt.Options)
	if cfg.ReadOnly {
		opts.ReadOnly = true
		opts.ErrorIfMissing = true
	}
	opts.Filter = filter.NewBloomFilter(10)

	db, err := leveldb.OpenFile(cfg.DataDirectoryPath, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open LevelDB instance: %w", err)
	}

	return &LevelDBStore{
		path: cfg.DataDirectoryPath,
		db:   db,
	}, nil
}

// Get implements the mpt.NodeStore interface.
func (s *LevelDBStore) Get(hash mpt.Hash) ([]byte, bool, error) {
	value, err := s.db.Get(hash[:], nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set implements the mpt.NodeStore interface.
func (s *LevelDBStore) Set(hash mpt.Hash, rlp []byte) error {
	return s.db.Put(hash[:], rlp, nil)
}

// Close implements the Store interface.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
