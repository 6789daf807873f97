// Package storage provides various KV store implementations used by the
// blockchain to persist the ledger, and the interface abstracting over
// them used by the rest of the code.
package storage

import (
	"bytes"
	"errors"

	"github.com/n3core/neogo/pkg/core/storage/dbconfig"
	"github.com/n3core/neogo/pkg/core/storage/dboper"
)

// KeyPrefix constants for different storage prefixes used by the node.
// All the keys with a specific prefix are grouped in the database to
// simplify iteration over specific subsets of data.
type KeyPrefix uint8

// List of storage prefixes used by the node.
const (
	// DataExecutable is a prefix for executables (blocks and transactions).
	DataExecutable KeyPrefix = 0x01
	// DataMPT is a prefix for MPT nodes.
	DataMPT KeyPrefix = 0x03
	// STAccount is a prefix for account states (legacy NEO2 format, kept for
	// compatibility with archival dumps).
	STAccount KeyPrefix = 0x40
	// STStorage is a prefix for contract storage items.
	STStorage KeyPrefix = 0x70
	// STTempStorage is a prefix for contract storage items before
	// MPT-bound persist.
	STTempStorage KeyPrefix = 0x71
	// STNEP11Transfers is a prefix for NEP-11 transfer logs.
	STNEP11Transfers KeyPrefix = 0x72
	// STNEP17Transfers is a prefix for NEP-17 transfer logs.
	STNEP17Transfers KeyPrefix = 0x73
	// STContractID is a prefix for the contract hash to ID mapping.
	STContractID KeyPrefix = 0x74
	// IXHeadHash is a prefix for the current header hash.
	IXHeadHash KeyPrefix = 0x09
	// SYSCurrentBlock is a prefix for the current block height/hash pair.
	SYSCurrentBlock KeyPrefix = 0xc0
	// SYSCurrentHeader is a prefix for the current header height/hash pair.
	SYSCurrentHeader KeyPrefix = 0xc1
	// SYSVersion is a prefix for the database schema version record.
	SYSVersion KeyPrefix = 0xf0
)

// ErrKeyNotFound is returned when no value is found for a given key.
var ErrKeyNotFound = errors.New("key not found")

// SeekRange describes a range of keys to seek over: all keys starting with
// Prefix are to be visited, optionally restricting the starting point to
// Prefix+Start (exclusive of nothing, it's just a suffix appended to
// Prefix to compute the real starting key), optionally walking it in
// reverse (Backwards).
type SeekRange struct {
	// Prefix is the bytes all keys should start with.
	Prefix []byte
	// Start is appended to Prefix to get the real starting key; it can be
	// empty.
	Start []byte
	// Backwards denotes whether iteration should go from the highest key
	// matching Prefix down towards Prefix itself.
	Backwards bool
}

// KeyValue represents a key-value pair.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// KeyValueExists represents a key-value pair together with a flag telling
// whether this key existed in the persistent store at the time the batch
// entry was recorded (used to distinguish "Added" from "Changed" when
// reporting operations).
type KeyValueExists struct {
	KeyValue
	Exists bool
}

// MemBatch represents a changeset to be persisted, separating entries to
// put from entries to delete.
type MemBatch struct {
	Put     []KeyValueExists
	Deleted []KeyValueExists
}

// Store is the interface all KV storage backends implement.
type Store interface {
	// Put puts a key-value pair into the store.
	Put(k, v []byte) error
	// PutChangeSet allows to make a write batch at once, puts is a map of
	// key->value pairs to be written, dels is a map of keys to be deleted
	// (values of dels are ignored).
	PutChangeSet(puts map[string][]byte, dels map[string][]byte) error
	// Get returns a value for the given key, ErrKeyNotFound if it's not
	// there.
	Get([]byte) ([]byte, error)
	// Delete removes the key from the store, it's not an error to delete
	// a non-existent key.
	Delete([]byte) error
	// Seek can guarantee that provided key (k) and value (v) are the only
	// valid until the next call to f. Seek stops when f returns false or
	// the range is exhausted.
	Seek(rng SeekRange, f func(k, v []byte) bool)
	// SeekGC can be used to perform compaction of the given storage prefix
	// during the seek, keep function is called for each key-value pair
	// and should return true for pairs that should be retained.
	SeekGC(rng SeekRange, keep func(k, v []byte) bool) error
	// Close releases all db-related resources.
	Close() error
}

// NewStore creates a storage backend according to the given configuration.
func NewStore(cfg dbconfig.DBConfiguration) (Store, error) {
	var store Store
	var err error
	switch cfg.Type {
	case dbconfig.LevelDB:
		store, err = NewLevelDBStore(cfg.LevelDBOptions)
	case dbconfig.BoltDB:
		store, err = NewBoltDBStore(cfg.BoltDBOptions)
	case dbconfig.InMemoryDB, "":
		store = NewMemoryStore()
	default:
		return nil, errors.New("storage: unknown storage type " + cfg.Type)
	}
	return store, err
}

// BatchToOperations converts a MemBatch to a slice of dboper.Operation,
// restricting itself to the STStorage-prefixed keys (the ones that matter
// to external consumers such as notification subscribers) and stripping
// the prefix byte from the reported key.
func BatchToOperations(b *MemBatch) []dboper.Operation {
	var ops []dboper.Operation

	for i := range b.Put {
		if b.Put[i].Key[0] != byte(STStorage) {
			continue
		}
		op := dboper.Operation{
			Key:   b.Put[i].Key[1:],
			Value: b.Put[i].Value,
		}
		if b.Put[i].Exists {
			op.State = "Changed"
		} else {
			op.State = "Added"
		}
		ops = append(ops, op)
	}

	for i := range b.Deleted {
		if !b.Deleted[i].Exists {
			continue
		}
		if b.Deleted[i].Key[0] != byte(STStorage) {
			continue
		}
		ops = append(ops, dboper.Operation{
			State: "Deleted",
			Key:   b.Deleted[i].Key[1:],
		})
	}

	return ops
}

// getCmpFunc returns a byte-slice comparator matching the requested seek
// direction.
func getCmpFunc(backwards bool) func(a, b []byte) int {
	if backwards {
		return func(a, b []byte) int {
			return bytes.Compare(b, a)
		}
	}
	return bytes.Compare
}

// matchesRange reports whether key matches rng (starts with rng.Prefix and,
// if rng.Start is set, its suffix is positioned on the correct side of
// rng.Start for the requested direction), returning the suffix (key with
// the prefix stripped) on a match. It's shared by the in-memory backends
// (MemoryStore, MemCachedStore) to filter/position a Seek walk.
func matchesRange(key []byte, rng SeekRange) ([]byte, bool) {
	if !bytes.HasPrefix(key, rng.Prefix) {
		return nil, false
	}
	suffix := key[len(rng.Prefix):]
	if len(rng.Start) == 0 {
		return suffix, true
	}
	cmp := bytes.Compare(suffix, rng.Start)
	if rng.Backwards {
		if cmp > 0 {
			return nil, false
		}
	} else {
		if cmp < 0 {
			return nil, false
		}
	}
	return suffix, true
}
