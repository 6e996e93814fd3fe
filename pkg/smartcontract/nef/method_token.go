package nef

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/neocorex/neogo/pkg/io"
	"github.com/neocorex/neogo/pkg/smartcontract/callflag"
	"github.com/neocorex/neogo/pkg/util"
)

// maxMethodLength bounds a MethodToken's method name, matching the ABI's
// own method name limit.
const maxMethodLength = 32

// errInvalidMethodName is returned when a decoded method name is empty,
// too long, or (per the reserved "_"-prefix convention used for
// compiler-internal methods) starts with an underscore.
var errInvalidMethodName = errors.New("invalid method name")

// errInvalidCallFlag is returned when a decoded call flag carries bits
// outside callflag.All.
var errInvalidCallFlag = errors.New("invalid call flag")

// MethodToken records a static call a contract makes into another
// contract's method, resolved at deploy time rather than by hash lookup
// on every invocation.
type MethodToken struct {
	Hash       util.Uint160
	Method     string
	ParamCount uint16
	HasReturn  bool
	CallFlag   callflag.CallFlag
}

// EncodeBinary implements the io.Serializable interface.
func (t *MethodToken) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(t.Hash[:])
	w.WriteString(t.Method)
	w.WriteU16LE(t.ParamCount)
	w.WriteBool(t.HasReturn)
	w.WriteB(byte(t.CallFlag))
}

// DecodeBinary implements the io.Serializable interface.
func (t *MethodToken) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(t.Hash[:])
	t.Method = r.ReadString(maxMethodLength)
	t.ParamCount = r.ReadU16LE()
	t.HasReturn = r.ReadBool()
	t.CallFlag = callflag.CallFlag(r.ReadB())
	if r.Err != nil {
		return
	}
	if t.Method == "" || len(t.Method) > maxMethodLength || strings.HasPrefix(t.Method, "_") {
		r.Err = errInvalidMethodName
		return
	}
	if t.CallFlag&^callflag.All != 0 {
		r.Err = errInvalidCallFlag
	}
}

type methodTokenAux struct {
	Hash       string `json:"hash"`
	Method     string `json:"method"`
	ParamCount uint16 `json:"paramcount"`
	HasReturn  bool   `json:"hasreturnvalue"`
	CallFlag   byte   `json:"callflags"`
}

// MarshalJSON implements the json.Marshaler interface.
func (t *MethodToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(methodTokenAux{
		Hash:       "0x" + t.Hash.StringLE(),
		Method:     t.Method,
		ParamCount: t.ParamCount,
		HasReturn:  t.HasReturn,
		CallFlag:   byte(t.CallFlag),
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *MethodToken) UnmarshalJSON(data []byte) error {
	aux := new(methodTokenAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	h, err := util.Uint160DecodeStringLE(strings.TrimPrefix(aux.Hash, "0x"))
	if err != nil {
		return err
	}
	t.Hash = h
	t.Method = aux.Method
	t.ParamCount = aux.ParamCount
	t.HasReturn = aux.HasReturn
	t.CallFlag = callflag.CallFlag(aux.CallFlag)
	return nil
}
