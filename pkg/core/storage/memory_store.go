package storage

import (
	"sync"

	"github.com/nspcc-dev/mpttrie/pkg/core/mpt"
)

// MemoryStore is an in-memory NodeStore, mainly useful for tests and
// short-lived tries. Do not use it where nodes must outlive a process.
type MemoryStore struct {
	mut sync.RWMutex
	mem map[mpt.Hash][]byte
}

// NewMemoryStore creates a new, empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mem: make(map[mpt.Hash][]byte)}
}

// Get implements the mpt.NodeStore interface.
func (s *MemoryStore) Get(hash mpt.Hash) ([]byte, bool, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()
	val, ok := s.mem[hash]
	return val, ok, nil
}

// Set implements the mpt.NodeStore interface.
func (s *MemoryStore) Set(hash mpt.Hash, rlp []byte) error {
	s.mut.Lock()
	s.mem[hash] = rlp
	s.mut.Unlock()
	return nil
}

// Close releases MemoryStore's resources. Never returns an error.
func (s *MemoryStore) Close() error {
	s.mut.Lock()
	s.mem = nil
	s.mut.Unlock()
	return nil
}
