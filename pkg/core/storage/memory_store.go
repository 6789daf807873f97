package storage

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory implementation of Store backed by a Go map,
// it doesn't persist anything to disk and is used for tests and private
// networks.
type MemoryStore struct {
	mut sync.RWMutex
	mem map[string][]byte
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mem: make(map[string][]byte),
	}
}

// Put implements the Store interface.
func (s *MemoryStore) Put(k, v []byte) error {
	vcopy := make([]byte, len(v))
	copy(vcopy, v)
	s.mut.Lock()
	s.mem[string(k)] = vcopy
	s.mut.Unlock()
	return nil
}

// PutChangeSet implements the Store interface.
func (s *MemoryStore) PutChangeSet(puts map[string][]byte, dels map[string][]byte) error {
	s.mut.Lock()
	for k, v := range puts {
		s.mem[k] = v
	}
	for k := range dels {
		delete(s.mem, k)
	}
	s.mut.Unlock()
	return nil
}

// Get implements the Store interface.
func (s *MemoryStore) Get(k []byte) ([]byte, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()
	if v, ok := s.mem[string(k)]; ok && v != nil {
		return v, nil
	}
	return nil, ErrKeyNotFound
}

// Delete implements the Store interface.
func (s *MemoryStore) Delete(k []byte) error {
	s.mut.Lock()
	delete(s.mem, string(k))
	s.mut.Unlock()
	return nil
}

// Seek implements the Store interface.
func (s *MemoryStore) Seek(rng SeekRange, f func(k, v []byte) bool) {
	s.mut.RLock()
	keys := make([]string, 0, len(s.mem))
	for k := range s.mem {
		keys = append(keys, k)
	}
	s.mut.RUnlock()

	cmp := getCmpFunc(rng.Backwards)
	sort.Slice(keys, func(i, j int) bool {
		return cmp([]byte(keys[i]), []byte(keys[j])) < 0
	})

	for _, k := range keys {
		if _, ok := matchesRange([]byte(k), rng); !ok {
			continue
		}
		s.mut.RLock()
		v, ok := s.mem[k]
		s.mut.RUnlock()
		if !ok || v == nil {
			continue
		}
		if !f([]byte(k), v) {
			break
		}
	}
}

// SeekGC implements the Store interface.
func (s *MemoryStore) SeekGC(rng SeekRange, keep func(k, v []byte) bool) error {
	s.mut.Lock()
	defer s.mut.Unlock()
	for k, v := range s.mem {
		if _, ok := matchesRange([]byte(k), SeekRange{Prefix: rng.Prefix}); !ok {
			continue
		}
		if !keep([]byte(k), v) {
			delete(s.mem, k)
		}
	}
	return nil
}

// Close implements the Store interface.
func (s *MemoryStore) Close() error {
	s.mut.Lock()
	s.mem = make(map[string][]byte)
	s.mut.Unlock()
	return nil
}
