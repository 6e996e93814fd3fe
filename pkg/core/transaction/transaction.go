// Package transaction implements the Neo N3 transaction wire format: the
// signer/witness/attribute matrix that governs which scripts run and
// which accounts must approve a given invocation.
package transaction

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/neocorex/neogo/pkg/crypto/hash"
	"github.com/neocorex/neogo/pkg/io"
	"github.com/neocorex/neogo/pkg/util"
)

// MaxAttributes bounds how many signers and attributes a single
// transaction may carry, mirroring maxSubitems for witness sub-conditions.
const MaxAttributes = maxSubitems

// DefaultVersion is the only transaction version N3 currently accepts.
const DefaultVersion uint8 = 0

// Transaction is a Neo N3 transaction, the atomic unit of state change:
// a script to run plus the fee budget, validity window, signers and
// witnesses that authorize it.
type Transaction struct {
	// Version of the transaction format, 0 for N3.
	Version uint8
	// Nonce is a random number to avoid hash collisions.
	Nonce uint32
	// SystemFee is the maximum amount of GAS the script is allowed to
	// spend, in the smallest GAS fraction.
	SystemFee int64
	// NetworkFee covers the network/verification cost of including the
	// transaction in a block.
	NetworkFee int64
	// ValidUntilBlock is the block index after which this transaction
	// becomes invalid.
	ValidUntilBlock uint32
	// Signers is the ordered list of accounts whose witnesses authorize
	// this transaction, the first one being the "sender" that pays fees.
	Signers []Signer
	// Attributes carries any extra transaction-level metadata.
	Attributes []Attribute
	// Script is the VM bytecode to execute.
	Script []byte
	// Scripts holds the witnesses, one per Signer, in the same order.
	Scripts []Witness

	// Trimmed marks a Transaction that only carries its hash, as stored
	// inside a trimmed block.
	Trimmed bool

	hash      util.Uint256
	hashValid bool
	size      int
}

// New creates a transaction with the given script and system fee, leaving
// every other field at its zero value for the caller to fill in.
func New(script []byte, sysFee int64) *Transaction {
	return &Transaction{
		Version:   DefaultVersion,
		Script:    script,
		SystemFee: sysFee,
	}
}

// NewTrimmedTX returns a Transaction with only its hash set, used to
// represent a transaction reference inside a trimmed (hash-only) block.
func NewTrimmedTX(hash util.Uint256) *Transaction {
	return &Transaction{
		hash:      hash,
		hashValid: true,
		Trimmed:   true,
	}
}

// NewTransactionFromBytes decodes a Transaction from its full binary wire
// form (hashable fields plus witnesses).
func NewTransactionFromBytes(b []byte) (*Transaction, error) {
	tx := &Transaction{}
	r := io.NewBinReaderFromBuf(b)
	tx.DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	tx.size = len(b)
	return tx, nil
}

// Hash returns the transaction's hash (double SHA256 of its hashable
// fields), computing and caching it on first call.
func (t *Transaction) Hash() util.Uint256 {
	if !t.hashValid {
		t.createHash()
	}
	return t.hash
}

// Size returns the encoded size of the transaction in bytes. It's only
// meaningful after the transaction has been encoded or decoded once.
func (t *Transaction) Size() int {
	if t.size == 0 {
		t.size = io.GetVarSize(t)
	}
	return t.size
}

func (t *Transaction) createHash() {
	buf := io.NewBufBinWriter()
	t.encodeHashableFields(buf.BinWriter)
	t.hash = hash.Sha256(buf.Bytes())
	t.hashValid = true
}

func (t *Transaction) encodeHashableFields(w *io.BinWriter) {
	w.WriteB(t.Version)
	w.WriteU32LE(t.Nonce)
	w.WriteU64LE(uint64(t.SystemFee))
	w.WriteU64LE(uint64(t.NetworkFee))
	w.WriteU32LE(t.ValidUntilBlock)

	w.WriteVarUint(uint64(len(t.Signers)))
	for i := range t.Signers {
		t.Signers[i].EncodeBinary(w)
	}

	w.WriteVarUint(uint64(len(t.Attributes)))
	for i := range t.Attributes {
		t.Attributes[i].EncodeBinary(w)
	}

	w.WriteVarBytes(t.Script)
}

func (t *Transaction) decodeHashableFields(r *io.BinReader) {
	t.Version = r.ReadB()
	t.Nonce = r.ReadU32LE()
	t.SystemFee = int64(r.ReadU64LE())
	t.NetworkFee = int64(r.ReadU64LE())
	t.ValidUntilBlock = r.ReadU32LE()
	if r.Err != nil {
		return
	}
	if t.Version != DefaultVersion {
		r.Err = fmt.Errorf("unsupported transaction version: %d", t.Version)
		return
	}

	nSigners := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if nSigners == 0 {
		r.Err = errors.New("transaction has no signers")
		return
	}
	if nSigners > MaxAttributes {
		r.Err = fmt.Errorf("too many signers: %d", nSigners)
		return
	}
	seen := make(map[util.Uint160]bool, nSigners)
	t.Signers = make([]Signer, nSigners)
	for i := range t.Signers {
		t.Signers[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
		if seen[t.Signers[i].Account] {
			r.Err = errors.New("duplicate signer account")
			return
		}
		seen[t.Signers[i].Account] = true
	}

	nAttrs := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if nAttrs > MaxAttributes {
		r.Err = fmt.Errorf("too many attributes: %d", nAttrs)
		return
	}
	t.Attributes = make([]Attribute, nAttrs)
	for i := range t.Attributes {
		t.Attributes[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}

	t.Script = r.ReadVarBytes()
	if r.Err == nil && len(t.Script) == 0 {
		r.Err = errors.New("transaction has an empty script")
	}
}

// EncodeBinary implements the io.Serializable interface.
func (t *Transaction) EncodeBinary(w *io.BinWriter) {
	t.encodeHashableFields(w)
	w.WriteVarUint(uint64(len(t.Scripts)))
	for i := range t.Scripts {
		t.Scripts[i].EncodeBinary(w)
	}
}

// DecodeBinary implements the io.Serializable interface.
func (t *Transaction) DecodeBinary(r *io.BinReader) {
	t.decodeHashableFields(r)
	if r.Err != nil {
		return
	}
	nScripts := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if nScripts != uint64(len(t.Signers)) {
		r.Err = errors.New("witness count doesn't match signer count")
		return
	}
	t.Scripts = make([]Witness, nScripts)
	for i := range t.Scripts {
		t.Scripts[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}
	t.hashValid = false
	t.createHash()
}

// Bytes returns the full binary encoding of the transaction.
func (t *Transaction) Bytes() []byte {
	buf := io.NewBufBinWriter()
	t.EncodeBinary(buf.BinWriter)
	return buf.Bytes()
}

type transactionAux struct {
	Hash            util.Uint256 `json:"hash"`
	Version         uint8        `json:"version"`
	Nonce           uint32       `json:"nonce"`
	Sender          string       `json:"sender,omitempty"`
	SystemFee       string       `json:"sysfee"`
	NetworkFee      string       `json:"netfee"`
	ValidUntilBlock uint32       `json:"validuntilblock"`
	Signers         []Signer     `json:"signers"`
	Attributes      []Attribute  `json:"attributes"`
	Script          string       `json:"script"`
	Witnesses       []Witness    `json:"witnesses"`
}

// MarshalJSON implements the json.Marshaler interface.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	aux := transactionAux{
		Hash:            t.Hash(),
		Version:         t.Version,
		Nonce:           t.Nonce,
		SystemFee:       fmt.Sprintf("%d", t.SystemFee),
		NetworkFee:      fmt.Sprintf("%d", t.NetworkFee),
		ValidUntilBlock: t.ValidUntilBlock,
		Signers:         t.Signers,
		Attributes:      t.Attributes,
		Script:          base64.StdEncoding.EncodeToString(t.Script),
		Witnesses:       t.Scripts,
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	aux := new(transactionAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	script, err := base64.StdEncoding.DecodeString(aux.Script)
	if err != nil {
		return fmt.Errorf("bad script: %w", err)
	}
	var sysFee, netFee int64
	if _, err := fmt.Sscanf(aux.SystemFee, "%d", &sysFee); err != nil {
		return fmt.Errorf("bad sysfee: %w", err)
	}
	if _, err := fmt.Sscanf(aux.NetworkFee, "%d", &netFee); err != nil {
		return fmt.Errorf("bad netfee: %w", err)
	}
	t.Version = aux.Version
	t.Nonce = aux.Nonce
	t.SystemFee = sysFee
	t.NetworkFee = netFee
	t.ValidUntilBlock = aux.ValidUntilBlock
	t.Signers = aux.Signers
	t.Attributes = aux.Attributes
	t.Script = script
	t.Scripts = aux.Witnesses
	if !aux.Hash.Equals(t.Hash()) {
		return errors.New("json 'hash' doesn't match transaction hash")
	}
	return nil
}

// Sender returns the account paying this transaction's fees, its
// first signer.
func (t *Transaction) Sender() util.Uint160 {
	return t.Signers[0].Account
}

// HasAttribute reports whether the transaction carries at least one
// attribute of the given type.
func (t *Transaction) HasAttribute(typ AttrType) bool {
	for i := range t.Attributes {
		if t.Attributes[i].Type == typ {
			return true
		}
	}
	return false
}

// GetAttributes returns every attribute of the given type the
// transaction carries, in order.
func (t *Transaction) GetAttributes(typ AttrType) []Attribute {
	var attrs []Attribute
	for i := range t.Attributes {
		if t.Attributes[i].Type == typ {
			attrs = append(attrs, t.Attributes[i])
		}
	}
	return attrs
}
