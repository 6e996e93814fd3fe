package state

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/neocorex/neogo/pkg/crypto/hash"
	"github.com/neocorex/neogo/pkg/io"
	"github.com/neocorex/neogo/pkg/smartcontract/manifest"
	"github.com/neocorex/neogo/pkg/smartcontract/nef"
	"github.com/neocorex/neogo/pkg/util"
	"github.com/neocorex/neogo/pkg/vm/stackitem"
)

// Contract is a deployed contract: its NEF (compiled script), manifest
// (ABI/permissions) and the chain-assigned identity it was given on
// deployment.
type Contract struct {
	ID            int32
	UpdateCounter uint16
	Hash          util.Uint160
	NEF           nef.File
	Manifest      manifest.Manifest
}

// CreateContractHash derives the deployment-time address of a contract
// from the sender that deployed it and its script, so two different
// accounts deploying byte-identical code get distinct, unforgeable
// addresses.
func CreateContractHash(sender util.Uint160, script []byte) util.Uint160 {
	w := io.NewBufBinWriter()
	w.WriteBytes(sender.BytesBE())
	w.WriteVarBytes(script)
	return hash.Hash160(w.Bytes())
}

// EncodeBinary implements the io.Serializable interface.
func (c *Contract) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(uint32(c.ID))
	w.WriteU16LE(c.UpdateCounter)
	w.WriteBytes(c.Hash[:])
	c.NEF.EncodeBinary(w)
	manifestBytes, err := json.Marshal(c.Manifest)
	if err != nil {
		w.Err = err
		return
	}
	w.WriteVarBytes(manifestBytes)
}

// DecodeBinary implements the io.Serializable interface.
func (c *Contract) DecodeBinary(r *io.BinReader) {
	c.ID = int32(r.ReadU32LE())
	c.UpdateCounter = r.ReadU16LE()
	r.ReadBytes(c.Hash[:])
	c.NEF.DecodeBinary(r)
	if r.Err != nil {
		return
	}
	manifestBytes := r.ReadVarBytes()
	if r.Err != nil {
		return
	}
	c.Manifest = manifest.Manifest{}
	if err := json.Unmarshal(manifestBytes, &c.Manifest); err != nil {
		r.Err = err
	}
}

type contractAux struct {
	ID            int32             `json:"id"`
	UpdateCounter uint16            `json:"updatecounter"`
	Hash          util.Uint160      `json:"hash"`
	NEF           nef.File          `json:"nef"`
	Manifest      manifest.Manifest `json:"manifest"`
}

// MarshalJSON implements the json.Marshaler interface.
func (c *Contract) MarshalJSON() ([]byte, error) {
	return json.Marshal(contractAux{
		ID:            c.ID,
		UpdateCounter: c.UpdateCounter,
		Hash:          c.Hash,
		NEF:           c.NEF,
		Manifest:      c.Manifest,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *Contract) UnmarshalJSON(data []byte) error {
	aux := new(contractAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	c.ID = aux.ID
	c.UpdateCounter = aux.UpdateCounter
	c.Hash = aux.Hash
	c.NEF = aux.NEF
	c.Manifest = aux.Manifest
	return nil
}

var errInvalidFormat = errors.New("invalid format")

// FromStackItem restores c from the 5-element array a native
// ContractManagement call returns: [id, updateCounter, hash, nef,
// manifest].
func (c *Contract) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok || len(arr) < 5 {
		return errInvalidFormat
	}

	id, err := stackitem.ToBigInt(arr[0])
	if err != nil {
		return errInvalidFormat
	}
	if !id.IsInt64() || id.Int64() > math.MaxInt32 || id.Int64() < math.MinInt32 {
		return errInvalidFormat
	}

	counter, err := stackitem.ToBigInt(arr[1])
	if err != nil {
		return errInvalidFormat
	}
	if !counter.IsInt64() || counter.Int64() < 0 || counter.Int64() > math.MaxUint16 {
		return errInvalidFormat
	}

	hashBytes := arr[2].Bytes()
	if hashBytes == nil {
		return errInvalidFormat
	}
	h, err := util.Uint160DecodeBytesBE(hashBytes)
	if err != nil {
		return errInvalidFormat
	}

	nefBA, ok := arr[3].(*stackitem.ByteArray)
	if !ok {
		return errInvalidFormat
	}
	nefFile, err := nef.FileFromBytes(nefBA.Value().([]byte))
	if err != nil {
		return errInvalidFormat
	}

	manifestBA, ok := arr[4].(*stackitem.ByteArray)
	if !ok {
		return errInvalidFormat
	}
	var m manifest.Manifest
	if err := json.Unmarshal(manifestBA.Value().([]byte), &m); err != nil {
		return errInvalidFormat
	}

	c.ID = int32(id.Int64())
	c.UpdateCounter = uint16(counter.Int64())
	c.Hash = h
	c.NEF = nefFile
	c.Manifest = m
	return nil
}

// ToStackItem is the inverse of FromStackItem: the 5-element array form
// System.Contract.Call's callers (and RPC's getcontractstate) expect.
func (c *Contract) ToStackItem() (stackitem.Item, error) {
	nefBytes, err := c.NEF.Bytes()
	if err != nil {
		return nil, err
	}
	manifestBytes, err := json.Marshal(c.Manifest)
	if err != nil {
		return nil, err
	}
	return stackitem.NewArray([]stackitem.Item{
		stackitem.Make(int64(c.ID)),
		stackitem.Make(int64(c.UpdateCounter)),
		stackitem.Make(c.Hash.BytesBE()),
		stackitem.NewByteArray(nefBytes),
		stackitem.NewByteArray(manifestBytes),
	}), nil
}
