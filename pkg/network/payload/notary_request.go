// Package payload holds the P2P wire message bodies exchanged between
// Neo N3 nodes.
package payload

import (
	"errors"

	"github.com/neocorex/neogo/pkg/config/netmode"
	"github.com/neocorex/neogo/pkg/core/transaction"
	"github.com/neocorex/neogo/pkg/crypto/hash"
	"github.com/neocorex/neogo/pkg/io"
	"github.com/neocorex/neogo/pkg/util"
	"github.com/neocorex/neogo/pkg/vm/opcode"
)

// notaryWitnessInvocationLen is the fixed length of the dummy Notary
// contract invocation script a P2P notary request's fallback
// transaction must carry as its second witness: a PUSHDATA1 opcode, a
// 64-byte length prefix and 64 zero bytes standing in for the
// Notary-completed signature.
const notaryWitnessInvocationLen = 1 + 1 + 64

// P2PNotaryRequest carries a pair of transactions relayed through the
// Notary subsystem: a not-yet-fully-signed main transaction and a
// fallback transaction that reclaims the sender's notary deposit if
// the main one never collects enough signatures in time.
type P2PNotaryRequest struct {
	Network             netmode.Magic
	MainTransaction     *transaction.Transaction
	FallbackTransaction *transaction.Transaction
	Witness             transaction.Witness

	hash      util.Uint256
	hashValid bool
}

func getAttribute(tx *transaction.Transaction, t transaction.AttrType) *transaction.Attribute {
	for i := range tx.Attributes {
		if tx.Attributes[i].Type == t {
			return &tx.Attributes[i]
		}
	}
	return nil
}

// isValid checks the Notary-specific invariants every P2P notary
// request must satisfy before being accepted into the mempool: the
// main transaction must carry a NotaryAssisted attribute, the
// fallback must be shaped to replay it later (two signers, a dummy
// Notary witness for the first one, a NotValidBefore window, a single
// Conflicts attribute pointing back at the main transaction, its own
// zero-NKeys NotaryAssisted attribute), and both must share the same
// ValidUntilBlock.
func (r *P2PNotaryRequest) isValid() error {
	mainAttr := getAttribute(r.MainTransaction, transaction.NotaryAssistedT)
	if mainAttr == nil {
		return errors.New("main transaction should have NotaryAssisted attribute")
	}
	if mainAttr.Value.(*transaction.NotaryAssisted).NKeys == 0 {
		return errors.New("main transaction NKeys should be positive")
	}

	fb := r.FallbackTransaction
	if len(fb.Signers) != 2 {
		return errors.New("fallback transaction should have exactly 2 signers")
	}
	if len(fb.Scripts) != 2 {
		return errors.New("fallback transaction should have exactly 2 witnesses")
	}
	dummy := fb.Scripts[0]
	if len(dummy.InvocationScript) != notaryWitnessInvocationLen {
		return errors.New("fallback transaction has invalid dummy Notary witness: invalid invocation script length")
	}
	if dummy.InvocationScript[0] != byte(opcode.PUSHDATA1) || dummy.InvocationScript[1] != 64 {
		return errors.New("fallback transaction has invalid dummy Notary witness: invalid invocation script prefix")
	}
	if len(dummy.VerificationScript) != 0 {
		return errors.New("fallback transaction has invalid dummy Notary witness: non-empty verification script")
	}

	nvb := getAttribute(fb, transaction.NotValidBeforeT)
	if nvb == nil {
		return errors.New("fallback transaction should have NotValidBefore attribute")
	}

	var conflictsCount int
	var conflictsWithMain bool
	for i := range fb.Attributes {
		if fb.Attributes[i].Type == transaction.ConflictsT {
			conflictsCount++
			if fb.Attributes[i].Value.(*transaction.Conflicts).Hash.Equals(r.MainTransaction.Hash()) {
				conflictsWithMain = true
			}
		}
	}
	if conflictsCount != 1 {
		return errors.New("fallback transaction should have exactly one Conflicts attribute")
	}
	if !conflictsWithMain {
		return errors.New("fallback transaction does not conflict with main transaction")
	}

	fbAssisted := getAttribute(fb, transaction.NotaryAssistedT)
	if fbAssisted == nil {
		return errors.New("fallback transaction should have NotaryAssisted attribute")
	}
	if fbAssisted.Value.(*transaction.NotaryAssisted).NKeys != 0 {
		return errors.New("fallback transaction NKeys should be zero")
	}

	if fb.ValidUntilBlock != r.MainTransaction.ValidUntilBlock {
		return errors.New("fallback transaction ValidUntilBlock differs from main transaction's")
	}
	return nil
}

// Hash returns the request's hash, computed over its hashable fields
// (both transactions) the same way a transaction hashes its own body.
func (r *P2PNotaryRequest) Hash() util.Uint256 {
	if !r.hashValid {
		buf := io.NewBufBinWriter()
		r.encodeHashableFields(buf.BinWriter)
		r.hash = hash.Sha256(buf.Bytes())
		r.hashValid = true
	}
	return r.hash
}

func (r *P2PNotaryRequest) encodeHashableFields(w *io.BinWriter) {
	r.MainTransaction.EncodeBinary(w)
	r.FallbackTransaction.EncodeBinary(w)
}

// EncodeBinary implements the io.Serializable interface.
func (r *P2PNotaryRequest) EncodeBinary(w *io.BinWriter) {
	r.encodeHashableFields(w)
	r.Witness.EncodeBinary(w)
}

// DecodeBinary implements the io.Serializable interface.
func (r *P2PNotaryRequest) DecodeBinary(br *io.BinReader) {
	r.MainTransaction = &transaction.Transaction{}
	r.MainTransaction.DecodeBinary(br)
	r.FallbackTransaction = &transaction.Transaction{}
	r.FallbackTransaction.DecodeBinary(br)
	r.Witness.DecodeBinary(br)
	r.hashValid = false
}

// Bytes returns the full binary encoding of the request.
func (r *P2PNotaryRequest) Bytes() ([]byte, error) {
	buf := io.NewBufBinWriter()
	r.EncodeBinary(buf.BinWriter)
	if buf.Err != nil {
		return nil, buf.Err
	}
	return buf.Bytes(), nil
}

// NewP2PNotaryRequestFromBytes decodes a P2PNotaryRequest from its
// binary encoding, tagging it with the network magic it was received
// on (the magic isn't itself part of the wire encoding).
func NewP2PNotaryRequestFromBytes(network netmode.Magic, b []byte) (*P2PNotaryRequest, error) {
	r := &P2PNotaryRequest{Network: network}
	br := io.NewBinReaderFromBuf(b)
	r.DecodeBinary(br)
	if br.Err != nil {
		return nil, br.Err
	}
	r.Hash()
	return r, nil
}
