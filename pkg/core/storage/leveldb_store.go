package storage

import (
	"sort"

	"github.com/n3core/neogo/pkg/core/storage/dbconfig"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBStore is a LevelDB-backed Store implementation.
type LevelDBStore struct {
	db *leveldb.DB
}

// NewLevelDBStore opens (creating if needed) a LevelDB-backed Store at the
// configured directory.
func NewLevelDBStore(cfg dbconfig.LevelDBOptions) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(cfg.DataDirectoryPath, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDBStore{db: db}, nil
}

// Put implements the Store interface.
func (s *LevelDBStore) Put(k, v []byte) error {
	return s.db.Put(k, v, nil)
}

// PutChangeSet implements the Store interface.
func (s *LevelDBStore) PutChangeSet(puts map[string][]byte, dels map[string][]byte) error {
	batch := new(leveldb.Batch)
	for k, v := range puts {
		batch.Put([]byte(k), v)
	}
	for k := range dels {
		batch.Delete([]byte(k))
	}
	return s.db.Write(batch, nil)
}

// Get implements the Store interface.
func (s *LevelDBStore) Get(k []byte) ([]byte, error) {
	v, err := s.db.Get(k, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return v, nil
}

// Delete implements the Store interface.
func (s *LevelDBStore) Delete(k []byte) error {
	return s.db.Delete(k, nil)
}

// Seek implements the Store interface.
func (s *LevelDBStore) Seek(rng SeekRange, f func(k, v []byte) bool) {
	iter := s.db.NewIterator(util.BytesPrefix(rng.Prefix), nil)
	var pairs []KeyValue
	for iter.Next() {
		pairs = append(pairs, KeyValue{
			Key:   append([]byte(nil), iter.Key()...),
			Value: append([]byte(nil), iter.Value()...),
		})
	}
	iter.Release()

	cmp := getCmpFunc(rng.Backwards)
	sort.Slice(pairs, func(i, j int) bool {
		return cmp(pairs[i].Key, pairs[j].Key) < 0
	})
	for _, kv := range pairs {
		if _, ok := matchesRange(kv.Key, rng); !ok {
			continue
		}
		if !f(kv.Key, kv.Value) {
			break
		}
	}
}

// SeekGC implements the Store interface.
func (s *LevelDBStore) SeekGC(rng SeekRange, keep func(k, v []byte) bool) error {
	iter := s.db.NewIterator(util.BytesPrefix(rng.Prefix), nil)
	var toDelete [][]byte
	for iter.Next() {
		if !keep(iter.Key(), iter.Value()) {
			toDelete = append(toDelete, append([]byte(nil), iter.Key()...))
		}
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return err
	}
	batch := new(leveldb.Batch)
	for _, k := range toDelete {
		batch.Delete(k)
	}
	return s.db.Write(batch, nil)
}

// Close implements the Store interface.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
