package storage

import (
	"bytes"
	"sort"

	"github.com/n3core/neogo/pkg/core/storage/dbconfig"
	"go.etcd.io/bbolt"
)

// bucket is the single top-level bbolt bucket all keys are stored under;
// prefixing and ordering among them is handled at the Store level via
// SeekRange, the same way it is for the other backends.
var bucket = []byte("n3ledger")

// BoltDBStore is a BoltDB-backed Store implementation.
type BoltDBStore struct {
	db *bbolt.DB
}

// NewBoltDBStore opens (creating if needed) a BoltDB-backed Store at the
// configured path.
func NewBoltDBStore(cfg dbconfig.BoltDBOptions) (*BoltDBStore, error) {
	db, err := bbolt.Open(cfg.FilePath, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltDBStore{db: db}, nil
}

// Put implements the Store interface.
func (s *BoltDBStore) Put(k, v []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put(k, v)
	})
}

// PutChangeSet implements the Store interface.
func (s *BoltDBStore) PutChangeSet(puts map[string][]byte, dels map[string][]byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		for k, v := range puts {
			if err := b.Put([]byte(k), v); err != nil {
				return err
			}
		}
		for k := range dels {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get implements the Store interface.
func (s *BoltDBStore) Get(k []byte) ([]byte, error) {
	var v []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		val := tx.Bucket(bucket).Get(k)
		if val == nil {
			return ErrKeyNotFound
		}
		v = append([]byte(nil), val...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Delete implements the Store interface.
func (s *BoltDBStore) Delete(k []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Delete(k)
	})
}

// Seek implements the Store interface.
func (s *BoltDBStore) Seek(rng SeekRange, f func(k, v []byte) bool) {
	_ = s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucket).Cursor()
		var pairs []KeyValue
		for k, v := c.Seek(rng.Prefix); k != nil && bytes.HasPrefix(k, rng.Prefix); k, v = c.Next() {
			pairs = append(pairs, KeyValue{Key: append([]byte(nil), k...), Value: append([]byte(nil), v...)})
		}
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
		return nil
	})
}

// SeekGC implements the Store interface.
func (s *BoltDBStore) SeekGC(rng SeekRange, keep func(k, v []byte) bool) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		c := b.Cursor()
		var toDelete [][]byte
		for k, v := c.Seek(rng.Prefix); k != nil && bytes.HasPrefix(k, rng.Prefix); k, v = c.Next() {
			if !keep(k, v) {
				toDelete = append(toDelete, append([]byte(nil), k...))
			}
		}
		for _, k := range toDelete {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close implements the Store interface.
func (s *BoltDBStore) Close() error {
	return s.db.Close()
}
