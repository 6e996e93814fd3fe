// Package storage provides various Store implementations for the blockchain
// state: in-memory, BoltDB-backed and LevelDB-backed, plus a MemCachedStore
// wrapper used to batch writes before flushing them to a persistent backend.
package storage

import (
	"bytes"
	"errors"

	"github.com/neocorex/neogo/pkg/core/storage/dboper"
)

// KeyPrefix is the first byte of a storage key, separating the different
// data domains that share a single underlying key-value space.
type KeyPrefix uint8

// Key prefixes used to store different types of data.
const (
	// DataExecutable is a prefix for storing blocks and transactions.
	DataExecutable KeyPrefix = 0x01
	// DataMPT is a prefix for storing MPT nodes.
	DataMPT KeyPrefix = 0x02
	// STAccount is a prefix for account state (legacy NEP-5 bookkeeping).
	STAccount KeyPrefix = 0x40
	// STStorage is a prefix for contract storage items.
	STStorage KeyPrefix = 0x70
	// STTempStorage is a prefix for contract storage items that should be
	// removed after a batch is persisted (MPT-disabled nodes use it in
	// place of STStorage).
	STTempStorage KeyPrefix = 0x71
	// STNEP11Transfers is a prefix for NEP-11 transfer log entries.
	STNEP11Transfers KeyPrefix = 0x72
	// STNEP17Transfers is a prefix for NEP-17 transfer log entries.
	STNEP17Transfers KeyPrefix = 0x73
	// STTokenTransferInfo is a prefix for the per-account transfer log
	// bookkeeping record.
	STTokenTransferInfo KeyPrefix = 0x74
	// STContractID is a prefix mapping a contract hash to its ID.
	STContractID KeyPrefix = 0x75
	// IXHeaderHashList is a prefix for a list of header hashes.
	IXHeaderHashList KeyPrefix = 0x80
	// SYSCurrentBlock is a prefix for storing the current block's height
	// and hash.
	SYSCurrentBlock KeyPrefix = 0xc0
	// SYSCurrentHeader is a prefix for storing the current header height
	// and hash.
	SYSCurrentHeader KeyPrefix = 0xc1
	// SYSStateSyncPoint is a prefix for storing the current P2P state
	// sync point.
	SYSStateSyncPoint KeyPrefix = 0xc2
	// SYSStateSyncCurrentBlockHeight is a prefix for storing the current
	// block height during state sync.
	SYSStateSyncCurrentBlockHeight KeyPrefix = 0xc3
	// SYSVersion is a prefix for storing the node version used to create
	// the database.
	SYSVersion KeyPrefix = 0xf0
)

// Bytes returns the single-byte key under which this prefix's scalar
// value (as opposed to a composite key built with the prefix) is stored,
// e.g. the node version under SYSVersion or the current block under
// SYSCurrentBlock.
func (p KeyPrefix) Bytes() []byte {
	return []byte{byte(p)}
}

// ErrKeyNotFound is returned when a key can't be found in a Store.
var ErrKeyNotFound = errors.New("key not found")

// KeyValue represents a key-value pair.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// KeyValueExists represents a key-value pair together with a flag telling
// whether this key was present in the persistent backend at the time the
// in-memory overlay operation was recorded.
type KeyValueExists struct {
	KeyValue
	Exists bool
}

// MemBatch represents a changeset to be persisted: a list of put and a list
// of deleted key-value pairs.
type MemBatch struct {
	Put     []KeyValueExists
	Deleted []KeyValueExists
}

// SeekRange represents a range for Seek operation.
type SeekRange struct {
	// Prefix is a key prefix that Seek should look for. It can't be empty.
	Prefix []byte
	// Start is some bytes to start from the given prefix. It's appended to
	// Prefix to create an actual starting key for the operation and
	// shouldn't cross prefix boundaries (doesn't make much sense, but no
	// check is performed).
	Start []byte
	// Backwards denotes whether iteration should be backwards (right-to-left
	// lexicographically) or forwards (left-to-right lexicographically).
	Backwards bool
}

// Store is the interface that persistent key-value storage backends
// implement.
type Store interface {
	Get([]byte) ([]byte, error)
	Put(k, v []byte) error
	PutChangeSet(puts map[string][]byte, dels map[string][]byte) error
	Seek(rng SeekRange, f func(k, v []byte) bool)
	SeekGC(rng SeekRange, keep func(k, v []byte) bool) error
	Close() error
}

// getCmpFunc returns a byte-slice comparator oriented for forward or
// backward Seek iteration.
func getCmpFunc(backwards bool) func(k1, k2 []byte) int {
	if backwards {
		return func(k1, k2 []byte) int {
			return bytes.Compare(k2, k1)
		}
	}
	return bytes.Compare
}

// BatchToOperations converts a MemBatch of contract storage items into a
// flat list of dboper.Operation entries suitable for notification
// subscribers. Only STStorage-prefixed changes are reported; everything
// else (MPT nodes, bookkeeping prefixes) is internal and not surfaced.
func BatchToOperations(b *MemBatch) []dboper.Operation {
	var ops []dboper.Operation

	for i := range b.Put {
		kv := b.Put[i]
		if len(kv.Key) == 0 || KeyPrefix(kv.Key[0]) != STStorage {
			continue
		}
		state := "Added"
		if kv.Exists {
			state = "Changed"
		}
		ops = append(ops, dboper.Operation{
			State: state,
			Key:   kv.Key[1:],
			Value: kv.Value,
		})
	}
	for i := range b.Deleted {
		kv := b.Deleted[i]
		if !kv.Exists || len(kv.Key) == 0 || KeyPrefix(kv.Key[0]) != STStorage {
			continue
		}
		ops = append(ops, dboper.Operation{
			State: "Deleted",
			Key:   kv.Key[1:],
		})
	}
	return ops
}
