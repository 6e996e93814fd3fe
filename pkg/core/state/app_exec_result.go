package state

import (
	"encoding/json"
	"fmt"

	"github.com/neocorex/neogo/pkg/io"
	"github.com/neocorex/neogo/pkg/util"
)

// AppExecResult ties an Execution to the container (block or transaction
// hash) that produced it. A single transaction can have two of these: one
// for Verification and one for Application.
type AppExecResult struct {
	Container util.Uint256
	Execution
}

// EncodeBinary implements the io.Serializable interface.
func (aer *AppExecResult) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(aer.Container[:])
	aer.Execution.EncodeBinary(w)
}

// DecodeBinary implements the io.Serializable interface.
func (aer *AppExecResult) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(aer.Container[:])
	aer.Execution.DecodeBinary(r)
}

type appExecResultAux struct {
	Container util.Uint256 `json:"container"`
	executionAux
}

// MarshalJSON implements the json.Marshaler interface.
func (aer *AppExecResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(appExecResultAux{
		Container:    aer.Container,
		executionAux: aer.Execution.toAux(),
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (aer *AppExecResult) UnmarshalJSON(data []byte) error {
	aux := new(appExecResultAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if err := aer.Execution.fromAux(aux.executionAux); err != nil {
		return err
	}
	aer.Container = aux.Container
	return nil
}

func itoa64(v int64) string {
	return fmt.Sprintf("%d", v)
}

func atoi64(s string) (int64, error) {
	var v int64
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return 0, err
	}
	return v, nil
}
