package storage

import (
	"fmt"
	"os"
	"path"

	"github.com/nspcc-dev/mpttrie/pkg/core/mpt"
	"github.com/nspcc-dev/mpttrie/pkg/core/storage/dbconfig"
	"go.etcd.io/bbolt"
)

// nodeBucket holds every MPT node entry BoltDBStore persists.
var nodeBucket = []byte("mpt")

// BoltDBStore is a NodeStore backed by a single-file BoltDB database.
type BoltDBStore struct {
	db *bbolt.DB
}

// NewBoltDBStore returns a new, ready to use BoltDBStore with its
// bucket already created.
func NewBoltDBStore(cfg dbconfig.BoltDBOptions) (*BoltDBStore, error) {
	opts := &bbolt.Options{ReadOnly: cfg.ReadOnly}
	fileMode := os.FileMode(0600)
	dir := path.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("could not create dir for BoltDB: %w", err)
	}
	db, err := bbolt.Open(cfg.FilePath, fileMode, opts)
	if err != nil {
		return nil, err
	}
	if !cfg.ReadOnly {
		err = db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(nodeBucket)
			return err
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("could not create bucket: %w", err)
		}
	}
	return &BoltDBStore{db: db}, nil
}

// Get implements the mpt.NodeStore interface.
func (s *BoltDBStore) Get(hash mpt.Hash) (val []byte, found bool, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(nodeBucket)
		if b == nil {
			return nil
		}
		if v := b.Get(hash[:]); v != nil {
			val = append([]byte{}, v...)
			found = true
		}
		return nil
	})
	return val, found, err
}

// Set implements the mpt.NodeStore interface.
func (s *BoltDBStore) Set(hash mpt.Hash, rlp []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(nodeBucket)
		return b.Put(hash[:], rlp)
	})
}

// Close releases all of BoltDBStore's resources.
func (s *BoltDBStore) Close() error {
	return s.db.Close()
}
