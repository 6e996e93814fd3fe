// Package dao implements the data access layer the ledger uses to read and
// write its persistent state: blocks, transactions, contract storage,
// deployed contracts and the bookkeeping values (current height, version,
// state-sync point) tracked alongside them.
package dao

import (
	"encoding/binary"
	"errors"

	"github.com/neocorex/neogo/pkg/core/block"
	"github.com/neocorex/neogo/pkg/core/state"
	"github.com/neocorex/neogo/pkg/core/storage"
	"github.com/neocorex/neogo/pkg/core/transaction"
	"github.com/neocorex/neogo/pkg/io"
	"github.com/neocorex/neogo/pkg/smartcontract/trigger"
	"github.com/neocorex/neogo/pkg/util"
)

// Errors returned by transaction bookkeeping.
var (
	// ErrAlreadyExists is returned when a transaction with the same hash
	// is already stored.
	ErrAlreadyExists = errors.New("transaction already exists")
	// ErrHasConflicts is returned when a transaction hash is named as a
	// Conflicts attribute by some other already-accepted transaction.
	ErrHasConflicts = errors.New("transaction has conflicts")
)

// errNotFound is a generic "nothing stored under this key" sentinel for
// accessors that don't distinguish further (callers compare against it via
// errors.Is only where that distinction actually matters).
var errNotFound = errors.New("not found")

// Marker bytes stored as the first byte of a DataExecutable-prefixed value,
// telling GetBlock/GetTransaction/HasTransaction what's behind a given hash.
const (
	executableBlock          byte = 1
	executableTransaction    byte = 2
	executableConflictRecord byte = 3
)

// DAO is the interface the ledger, native contracts and the VM's
// interop layer use to read and write persistent chain state. Simple
// implements it directly against a Store; Cached layers an in-memory
// overlay on top of another DAO for per-block/per-transaction changes
// that may still be rolled back.
type DAO interface {
	AppendAppExecResult(aer *state.AppExecResult, buf *io.BufBinWriter) error
	DeleteContractState(hash util.Uint160) error
	DeleteStorageItem(id int32, key []byte) error
	GetAndDecode(entity io.Serializable, key []byte) error
	GetAppExecResults(hash util.Uint256, trig trigger.Type) ([]state.AppExecResult, error)
	GetBlock(hash util.Uint256) (*block.Block, error)
	GetContractState(hash util.Uint160) (*state.Contract, error)
	GetCurrentBlockHeight() (uint32, error)
	GetStateSyncCurrentBlockHeight() (uint32, error)
	GetStateSyncPoint() (uint32, error)
	GetStorageItem(id int32, key []byte) *state.StorageItem
	GetVersion() (Version, error)
	GetWrapped() DAO
	HasTransaction(hash util.Uint256) error
	Persist() (int, error)
	Put(entity io.Serializable, key []byte) error
	PutContractState(cs *state.Contract) error
	PutStateSyncCurrentBlockHeight(h uint32) error
	PutStateSyncPoint(p uint32) error
	PutStorageItem(id int32, key []byte, si *state.StorageItem) error
	PutVersion(v Version) error
	StoreAsBlock(b *block.Block, buf *io.BufBinWriter) error
	StoreAsCurrentBlock(b *block.Block, buf *io.BufBinWriter) error
	StoreAsTransaction(tx *transaction.Transaction, index uint32, buf *io.BufBinWriter) error
}

// Simple is a DAO backed directly by a Store, layered behind a
// MemCachedStore so changes can be batched and discarded.
type Simple struct {
	Store *storage.MemCachedStore

	stateRootInHeader bool
	p2pSigExtensions  bool
}

// NewSimple creates a Simple DAO on top of backend, wrapping it in its own
// MemCachedStore overlay.
func NewSimple(backend storage.Store, stateRootInHeader bool, p2pSigExtensions bool) *Simple {
	return &Simple{
		Store:             storage.NewMemCachedStore(backend),
		stateRootInHeader: stateRootInHeader,
		p2pSigExtensions:  p2pSigExtensions,
	}
}

// GetWrapped returns a new Simple layered on top of dao's own Store, for a
// caller that wants to make tentative changes it can discard by just
// dropping the wrapper.
func (dao *Simple) GetWrapped() DAO {
	return &Simple{
		Store:             storage.NewMemCachedStore(dao.Store),
		stateRootInHeader: dao.stateRootInHeader,
		p2pSigExtensions:  dao.p2pSigExtensions,
	}
}

// Persist flushes dao's pending changes into its backing Store.
func (dao *Simple) Persist() (int, error) {
	return dao.Store.Persist()
}

// Put stores entity's binary encoding under key.
func (dao *Simple) Put(entity io.Serializable, key []byte) error {
	w := io.NewBufBinWriter()
	entity.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return w.Err
	}
	return dao.Store.Put(key, w.Bytes())
}

// GetAndDecode fetches the value stored under key and decodes it into
// entity.
func (dao *Simple) GetAndDecode(entity io.Serializable, key []byte) error {
	data, err := dao.Store.Get(key)
	if err != nil {
		return err
	}
	r := io.NewBinReaderFromBuf(data)
	entity.DecodeBinary(r)
	return r.Err
}

// appExecResultMarker keeps AppExecResult keys out of the DataExecutable /
// hash key space makeExecutableKey uses for blocks and transactions.
const appExecResultMarker = 0xfe

func makeAppExecResultKey(hash util.Uint256) []byte {
	key := make([]byte, 2+util.Uint256Size)
	key[0] = byte(storage.DataExecutable)
	key[1] = appExecResultMarker
	copy(key[2:], hash.BytesBE())
	return key
}

// AppendAppExecResult appends aer to the list of execution results stored
// for its Container (a transaction can accumulate both a Verification and
// an Application result).
func (dao *Simple) AppendAppExecResult(aer *state.AppExecResult, buf *io.BufBinWriter) error {
	existing, err := dao.GetAppExecResults(aer.Container, trigger.All)
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return err
	}
	existing = append(existing, *aer)

	if buf == nil {
		buf = io.NewBufBinWriter()
	} else {
		buf.Reset()
	}
	buf.WriteVarUint(uint64(len(existing)))
	for i := range existing {
		existing[i].EncodeBinary(buf.BinWriter)
	}
	if buf.Err != nil {
		return buf.Err
	}
	return dao.Store.Put(makeAppExecResultKey(aer.Container), buf.Bytes())
}

// GetAppExecResults returns every stored execution result for hash whose
// Trigger is included in trig.
func (dao *Simple) GetAppExecResults(hash util.Uint256, trig trigger.Type) ([]state.AppExecResult, error) {
	data, err := dao.Store.Get(makeAppExecResultKey(hash))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	r := io.NewBinReaderFromBuf(data)
	n := r.ReadVarUint()
	all := make([]state.AppExecResult, n)
	for i := range all {
		all[i].DecodeBinary(r)
	}
	if r.Err != nil {
		return nil, r.Err
	}
	if trig == trigger.All {
		return all, nil
	}
	res := make([]state.AppExecResult, 0, len(all))
	for i := range all {
		if all[i].Trigger&trig != 0 {
			res = append(res, all[i])
		}
	}
	return res, nil
}

func makeStorageItemKey(prefix storage.KeyPrefix, id int32, key []byte) []byte {
	result := make([]byte, 5+len(key))
	result[0] = byte(prefix)
	binary.LittleEndian.PutUint32(result[1:5], uint32(id))
	copy(result[5:], key)
	return result
}

// PutStorageItem stores si under (id, key).
func (dao *Simple) PutStorageItem(id int32, key []byte, si *state.StorageItem) error {
	return dao.Store.Put(makeStorageItemKey(storage.STStorage, id, key), si.Value)
}

// GetStorageItem returns the item stored under (id, key), or nil if there
// is none.
func (dao *Simple) GetStorageItem(id int32, key []byte) *state.StorageItem {
	data, err := dao.Store.Get(makeStorageItemKey(storage.STStorage, id, key))
	if err != nil {
		return nil
	}
	return &state.StorageItem{Value: data}
}

// DeleteStorageItem removes the item stored under (id, key).
func (dao *Simple) DeleteStorageItem(id int32, key []byte) error {
	return dao.Store.Delete(makeStorageItemKey(storage.STStorage, id, key))
}

func makeExecutableKey(hash util.Uint256) []byte {
	key := make([]byte, 1+util.Uint256Size)
	key[0] = byte(storage.DataExecutable)
	copy(key[1:], hash.BytesBE())
	return key
}

// GetBlock returns the block stored under hash.
func (dao *Simple) GetBlock(hash util.Uint256) (*block.Block, error) {
	data, err := dao.Store.Get(makeExecutableKey(hash))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || data[0] != executableBlock {
		return nil, errNotFound
	}
	b := &block.Block{Header: block.Header{StateRootEnabled: dao.stateRootInHeader}}
	r := io.NewBinReaderFromBuf(data[1:])
	b.DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	for i, tx := range b.Transactions {
		full, _, err := dao.getTransaction(tx.Hash())
		if err == nil {
			b.Transactions[i] = full
		}
	}
	return b, nil
}

// StoreAsBlock stores b, encoded as a regular (non-trimmed) block.
func (dao *Simple) StoreAsBlock(b *block.Block, buf *io.BufBinWriter) error {
	if buf == nil {
		buf = io.NewBufBinWriter()
	} else {
		buf.Reset()
	}
	buf.WriteB(executableBlock)
	b.EncodeBinary(buf.BinWriter)
	if buf.Err != nil {
		return buf.Err
	}
	return dao.Store.Put(makeExecutableKey(b.Hash()), buf.Bytes())
}

// StoreAsCurrentBlock stores b and records it as the chain's current
// (highest) block.
func (dao *Simple) StoreAsCurrentBlock(b *block.Block, buf *io.BufBinWriter) error {
	if err := dao.StoreAsBlock(b, buf); err != nil {
		return err
	}
	if buf == nil {
		buf = io.NewBufBinWriter()
	} else {
		buf.Reset()
	}
	h := b.Hash()
	buf.WriteBytes(h[:])
	buf.WriteU32LE(b.Index)
	if buf.Err != nil {
		return buf.Err
	}
	return dao.Store.Put(storage.SYSCurrentBlock.Bytes(), buf.Bytes())
}

// GetCurrentBlockHeight returns the height of the chain's current block.
func (dao *Simple) GetCurrentBlockHeight() (uint32, error) {
	data, err := dao.Store.Get(storage.SYSCurrentBlock.Bytes())
	if err != nil {
		return 0, err
	}
	if len(data) < util.Uint256Size+4 {
		return 0, errNotFound
	}
	return binary.LittleEndian.Uint32(data[util.Uint256Size:]), nil
}

func (dao *Simple) getTransaction(hash util.Uint256) (*transaction.Transaction, uint32, error) {
	data, err := dao.Store.Get(makeExecutableKey(hash))
	if err != nil {
		return nil, 0, err
	}
	if len(data) < 5 || data[0] != executableTransaction {
		return nil, 0, errNotFound
	}
	index := binary.LittleEndian.Uint32(data[1:5])
	tx, err := transaction.NewTransactionFromBytes(data[5:])
	if err != nil {
		return nil, 0, err
	}
	return tx, index, nil
}

// StoreAsTransaction stores tx as having been included in the block at
// index. When P2P signature extensions are enabled, it also records a
// conflict marker for every hash tx's Conflicts attributes name.
func (dao *Simple) StoreAsTransaction(tx *transaction.Transaction, index uint32, buf *io.BufBinWriter) error {
	if buf == nil {
		buf = io.NewBufBinWriter()
	} else {
		buf.Reset()
	}
	buf.WriteB(executableTransaction)
	buf.WriteU32LE(index)
	buf.WriteBytes(tx.Bytes())
	if buf.Err != nil {
		return buf.Err
	}
	if err := dao.Store.Put(makeExecutableKey(tx.Hash()), buf.Bytes()); err != nil {
		return err
	}

	if !dao.p2pSigExtensions {
		return nil
	}
	for i := range tx.Attributes {
		if tx.Attributes[i].Type != transaction.ConflictsT {
			continue
		}
		conflicts, ok := tx.Attributes[i].Value.(*transaction.Conflicts)
		if !ok {
			continue
		}
		if err := dao.Store.Put(makeExecutableKey(conflicts.Hash), []byte{executableConflictRecord}); err != nil {
			return err
		}
	}
	return nil
}

// HasTransaction reports whether hash is already occupied: by a stored
// transaction (ErrAlreadyExists) or, with P2P signature extensions
// enabled, by another transaction's Conflicts attribute (ErrHasConflicts).
func (dao *Simple) HasTransaction(hash util.Uint256) error {
	data, err := dao.Store.Get(makeExecutableKey(hash))
	if err != nil {
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case executableConflictRecord:
		if dao.p2pSigExtensions {
			return ErrHasConflicts
		}
		return nil
	default:
		return ErrAlreadyExists
	}
}

// GetStateSyncPoint returns the stored P2P state-sync point.
func (dao *Simple) GetStateSyncPoint() (uint32, error) {
	data, err := dao.Store.Get(storage.SYSStateSyncPoint.Bytes())
	if err != nil {
		return 0, err
	}
	if len(data) < 4 {
		return 0, errNotFound
	}
	return binary.LittleEndian.Uint32(data), nil
}

// PutStateSyncPoint stores the current P2P state-sync point.
func (dao *Simple) PutStateSyncPoint(p uint32) error {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, p)
	return dao.Store.Put(storage.SYSStateSyncPoint.Bytes(), data)
}

// GetStateSyncCurrentBlockHeight returns the block height reached during
// P2P state sync.
func (dao *Simple) GetStateSyncCurrentBlockHeight() (uint32, error) {
	data, err := dao.Store.Get(storage.SYSStateSyncCurrentBlockHeight.Bytes())
	if err != nil {
		return 0, err
	}
	if len(data) < 4 {
		return 0, errNotFound
	}
	return binary.LittleEndian.Uint32(data), nil
}

// PutStateSyncCurrentBlockHeight stores the block height reached during
// P2P state sync.
func (dao *Simple) PutStateSyncCurrentBlockHeight(h uint32) error {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, h)
	return dao.Store.Put(storage.SYSStateSyncCurrentBlockHeight.Bytes(), data)
}

func makeContractStateKey(hash util.Uint160) []byte {
	key := make([]byte, 1+util.Uint160Size)
	key[0] = byte(storage.STContractID)
	copy(key[1:], hash.BytesBE())
	return key
}

// GetContractState returns the deployed contract stored under hash.
func (dao *Simple) GetContractState(hash util.Uint160) (*state.Contract, error) {
	cs := &state.Contract{}
	if err := dao.GetAndDecode(cs, makeContractStateKey(hash)); err != nil {
		return nil, err
	}
	return cs, nil
}

// PutContractState stores cs under its Hash.
func (dao *Simple) PutContractState(cs *state.Contract) error {
	return dao.Put(cs, makeContractStateKey(cs.Hash))
}

// DeleteContractState removes the contract stored under hash.
func (dao *Simple) DeleteContractState(hash util.Uint160) error {
	return dao.Store.Delete(makeContractStateKey(hash))
}
