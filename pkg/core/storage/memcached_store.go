package storage

import (
	"sort"
	"sync"
)

// MemCachedStore is a wrapper around persistent Store that caches all
// changes being made into memory, only committing them to the persistent
// Store when Persist or PersistSync is called. It's used as the write
// buffer in front of on-disk backends during block processing.
type MemCachedStore struct {
	MemoryStore

	// private being true means that this MemCachedStore has exclusive
	// ownership over its in-memory cache (no concurrent reader can observe
	// values stored in it besides through this store itself), allowing Put
	// to skip a defensive copy of the value being stored.
	private bool

	plock sync.Mutex
	ps    Store
}

// NewMemCachedStore creates a new MemCachedStore wrapping ps.
func NewMemCachedStore(ps Store) *MemCachedStore {
	return &MemCachedStore{
		MemoryStore: MemoryStore{mem: make(map[string][]byte)},
		ps:          ps,
	}
}

// NewPrivateMemCachedStore creates a new MemCachedStore wrapping ps that
// assumes exclusive ownership of the values it's given (used internally by
// components that construct short-lived snapshots and are known to be the
// sole writer/reader of them).
func NewPrivateMemCachedStore(ps Store) *MemCachedStore {
	return &MemCachedStore{
		MemoryStore: MemoryStore{mem: make(map[string][]byte)},
		private:     true,
		ps:          ps,
	}
}

// Put implements the Store interface, buffering the write in memory.
func (s *MemCachedStore) Put(k, v []byte) error {
	val := v
	if !s.private {
		val = make([]byte, len(v))
		copy(val, v)
	}
	s.mut.Lock()
	s.mem[string(k)] = val
	s.mut.Unlock()
	return nil
}

// Delete implements the Store interface, recording a tombstone for k in
// the write cache without touching the underlying store until Persist.
func (s *MemCachedStore) Delete(k []byte) error {
	s.mut.Lock()
	s.mem[string(k)] = nil
	s.mut.Unlock()
	return nil
}

// Get implements the Store interface, consulting the write cache first and
// falling back to the underlying persistent store.
func (s *MemCachedStore) Get(k []byte) ([]byte, error) {
	s.mut.RLock()
	v, ok := s.mem[string(k)]
	s.mut.RUnlock()
	if ok {
		if v == nil {
			return nil, ErrKeyNotFound
		}
		return v, nil
	}
	return s.ps.Get(k)
}

// PutChangeSet implements the Store interface.
func (s *MemCachedStore) PutChangeSet(puts map[string][]byte, dels map[string][]byte) error {
	s.mut.Lock()
	for k, v := range puts {
		s.mem[k] = v
	}
	for k := range dels {
		s.mem[k] = nil
	}
	s.mut.Unlock()
	return nil
}

// Seek implements the Store interface, merging the write cache with the
// underlying persistent store (cache entries shadow persistent ones, and
// tombstones suppress them).
func (s *MemCachedStore) Seek(rng SeekRange, f func(k, v []byte) bool) {
	s.mut.RLock()
	cached := make(map[string][]byte, len(s.mem))
	for k, v := range s.mem {
		cached[k] = v
	}
	s.mut.RUnlock()

	seen := make(map[string]bool, len(cached))
	items := make([]KeyValue, 0, len(cached))
	for k, v := range cached {
		if _, ok := matchesRange([]byte(k), rng); !ok {
			continue
		}
		seen[k] = true
		if v != nil {
			items = append(items, KeyValue{Key: []byte(k), Value: v})
		}
	}
	s.ps.Seek(rng, func(k, v []byte) bool {
		if !seen[string(k)] {
			items = append(items, KeyValue{
				Key:   append([]byte(nil), k...),
				Value: append([]byte(nil), v...),
			})
		}
		return true
	})

	cmp := getCmpFunc(rng.Backwards)
	sort.Slice(items, func(i, j int) bool {
		return cmp(items[i].Key, items[j].Key) < 0
	})

	for _, kv := range items {
		if !f(kv.Key, kv.Value) {
			break
		}
	}
}

// SeekGC implements the Store interface by tombstoning every matched entry
// that keep rejects; actual reclamation happens on the next Persist.
func (s *MemCachedStore) SeekGC(rng SeekRange, keep func(k, v []byte) bool) error {
	var toDelete [][]byte
	s.Seek(rng, func(k, v []byte) bool {
		if !keep(k, v) {
			toDelete = append(toDelete, append([]byte(nil), k...))
		}
		return true
	})
	for _, k := range toDelete {
		s.Delete(k)
	}
	return nil
}

// GetBatch returns the set of changes accumulated in the write cache since
// the last Persist, classifying each Put as "Added" or "Changed" (via
// Exists) depending on whether the underlying store currently has it.
func (s *MemCachedStore) GetBatch() *MemBatch {
	s.mut.RLock()
	defer s.mut.RUnlock()

	b := &MemBatch{}
	for k, v := range s.mem {
		_, err := s.ps.Get([]byte(k))
		exists := err == nil
		if v == nil {
			b.Deleted = append(b.Deleted, KeyValueExists{
				KeyValue: KeyValue{Key: []byte(k)},
				Exists:   exists,
			})
			continue
		}
		b.Put = append(b.Put, KeyValueExists{
			KeyValue: KeyValue{Key: []byte(k), Value: v},
			Exists:   exists,
		})
	}
	return b
}

// Persist flushes all buffered changes to the underlying persistent store
// and returns the number of keys persisted. On failure, the write cache is
// left untouched so that no buffered change is lost.
func (s *MemCachedStore) Persist() (int, error) {
	return s.persist()
}

// PersistSync is the synchronous equivalent of Persist.
func (s *MemCachedStore) PersistSync() (int, error) {
	return s.persist()
}

func (s *MemCachedStore) persist() (int, error) {
	s.plock.Lock()
	defer s.plock.Unlock()

	s.mut.RLock()
	keys := make([]string, 0, len(s.mem))
	puts := make(map[string][]byte, len(s.mem))
	dels := make(map[string][]byte)
	for k, v := range s.mem {
		keys = append(keys, k)
		if v == nil {
			dels[k] = nil
		} else {
			puts[k] = v
		}
	}
	s.mut.RUnlock()

	if len(keys) == 0 {
		return 0, nil
	}

	if err := s.ps.PutChangeSet(puts, dels); err != nil {
		return 0, err
	}

	s.mut.Lock()
	for _, k := range keys {
		delete(s.mem, k)
	}
	s.mut.Unlock()

	return len(keys), nil
}

// Close implements the Store interface, releasing the underlying store's
// resources.
func (s *MemCachedStore) Close() error {
	return s.ps.Close()
}
