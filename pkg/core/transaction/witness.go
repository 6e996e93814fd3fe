package transaction

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/neocorex/neogo/pkg/io"
)

// Maximum scripts length for a single witness.
const (
	// MaxInvocationScript is the maximum length of a witness' invocation
	// script in bytes.
	MaxInvocationScript = 1024
	// MaxVerificationScript is the maximum length of a witness'
	// verification script in bytes.
	MaxVerificationScript = 1024
)

// Witness contains 2 scripts for transaction validation: an invocation
// script feeding arguments to the contract and a verification script that
// the VM actually executes to check the witness validity.
type Witness struct {
	InvocationScript   []byte `json:"invocation"`
	VerificationScript []byte `json:"verification"`
}

// DecodeBinary implements the io.Serializable interface.
func (w *Witness) DecodeBinary(br *io.BinReader) {
	w.InvocationScript = br.ReadVarBytes(MaxInvocationScript)
	w.VerificationScript = br.ReadVarBytes(MaxVerificationScript)
}

// EncodeBinary implements the io.Serializable interface.
func (w *Witness) EncodeBinary(bw *io.BinWriter) {
	bw.WriteVarBytes(w.InvocationScript)
	bw.WriteVarBytes(w.VerificationScript)
}

type witnessAux struct {
	Invocation   string `json:"invocation"`
	Verification string `json:"verification"`
}

// MarshalJSON implements the json.Marshaler interface.
func (w Witness) MarshalJSON() ([]byte, error) {
	return json.Marshal(witnessAux{
		Invocation:   base64.StdEncoding.EncodeToString(w.InvocationScript),
		Verification: base64.StdEncoding.EncodeToString(w.VerificationScript),
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (w *Witness) UnmarshalJSON(data []byte) error {
	aux := new(witnessAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	inv, err := base64.StdEncoding.DecodeString(aux.Invocation)
	if err != nil {
		return fmt.Errorf("bad invocation script: %w", err)
	}
	ver, err := base64.StdEncoding.DecodeString(aux.Verification)
	if err != nil {
		return fmt.Errorf("bad verification script: %w", err)
	}
	w.InvocationScript = inv
	w.VerificationScript = ver
	return nil
}

// Copy creates a deep copy of the Witness.
func (w Witness) Copy() Witness {
	return Witness{
		InvocationScript:   append([]byte(nil), w.InvocationScript...),
		VerificationScript: append([]byte(nil), w.VerificationScript...),
	}
}
