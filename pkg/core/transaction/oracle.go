package transaction

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/neocorex/neogo/pkg/io"
	"github.com/neocorex/neogo/pkg/util"
)

// MaxOracleResultSize is the maximum size of the Result carried by an
// OracleResponse attribute.
const MaxOracleResultSize = 1024

// OracleResponseCode is the result status of an oracle request.
type OracleResponseCode byte

// Possible oracle response codes.
const (
	Success               OracleResponseCode = 0x00
	ProtocolNotSupported  OracleResponseCode = 0x10
	ConsensusUnreachable  OracleResponseCode = 0x12
	NotFound              OracleResponseCode = 0x14
	Timeout               OracleResponseCode = 0x16
	Forbidden             OracleResponseCode = 0x18
	ResponseTooLarge      OracleResponseCode = 0x1a
	InsufficientFunds     OracleResponseCode = 0x1c
	Error                 OracleResponseCode = 0xff
)

// ErrInvalidResponseCode is returned when decoding an OracleResponse whose
// Code byte doesn't match any known OracleResponseCode.
var ErrInvalidResponseCode = errors.New("invalid oracle response code")

// ErrInvalidResult is returned when decoding an OracleResponse whose Result
// is non-empty despite a non-Success Code.
var ErrInvalidResult = errors.New("invalid oracle response result")

// String implements the stringer interface.
func (c OracleResponseCode) String() string {
	switch c {
	case Success:
		return "Success"
	case ProtocolNotSupported:
		return "ProtocolNotSupported"
	case ConsensusUnreachable:
		return "ConsensusUnreachable"
	case NotFound:
		return "NotFound"
	case Timeout:
		return "Timeout"
	case Forbidden:
		return "Forbidden"
	case ResponseTooLarge:
		return "ResponseTooLarge"
	case InsufficientFunds:
		return "InsufficientFunds"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", byte(c))
	}
}

func validOracleCode(c OracleResponseCode) bool {
	switch c {
	case Success, ProtocolNotSupported, ConsensusUnreachable, NotFound, Timeout,
		Forbidden, ResponseTooLarge, InsufficientFunds, Error:
		return true
	default:
		return false
	}
}

// OracleResponse is the payload of an OracleResponseT attribute: the
// oracle request ID it answers, the result code and the response data
// (only meaningful when Code is Success).
type OracleResponse struct {
	ID     uint64
	Code   OracleResponseCode
	Result []byte
}

// EncodeBinary implements the io.Serializable interface.
func (r *OracleResponse) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(r.ID)
	w.WriteB(byte(r.Code))
	w.WriteVarBytes(r.Result)
}

// DecodeBinary implements the io.Serializable interface.
func (r *OracleResponse) DecodeBinary(br *io.BinReader) {
	r.ID = br.ReadU64LE()
	code := br.ReadB()
	if br.Err != nil {
		return
	}
	if !validOracleCode(OracleResponseCode(code)) {
		br.Err = ErrInvalidResponseCode
		return
	}
	r.Code = OracleResponseCode(code)
	r.Result = br.ReadVarBytes(MaxOracleResultSize)
	if br.Err != nil {
		return
	}
	if r.Code != Success && len(r.Result) != 0 {
		br.Err = ErrInvalidResult
		return
	}
}

func (r *OracleResponse) toJSONMap(m map[string]interface{}) {
	m["id"] = r.ID
	m["code"] = r.Code.String()
	m["result"] = base64.StdEncoding.EncodeToString(r.Result)
}

// MarshalJSON implements the json.Marshaler interface.
func (r *OracleResponse) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{}
	r.toJSONMap(m)
	return json.Marshal(m)
}

type oracleResponseAux struct {
	ID     uint64 `json:"id"`
	Code   string `json:"code"`
	Result string `json:"result"`
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (r *OracleResponse) UnmarshalJSON(data []byte) error {
	aux := new(oracleResponseAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	res, err := base64.StdEncoding.DecodeString(aux.Result)
	if err != nil {
		return err
	}
	code, err := oracleCodeFromString(aux.Code)
	if err != nil {
		return err
	}
	r.ID = aux.ID
	r.Code = code
	r.Result = res
	return nil
}

func oracleCodeFromString(s string) (OracleResponseCode, error) {
	for _, c := range []OracleResponseCode{Success, ProtocolNotSupported, ConsensusUnreachable,
		NotFound, Timeout, Forbidden, ResponseTooLarge, InsufficientFunds, Error} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown oracle response code: %s", s)
}

// NotValidBefore carries the height the transaction becomes valid at.
type NotValidBefore struct {
	Height uint32
}

// EncodeBinary implements the io.Serializable interface.
func (n *NotValidBefore) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(n.Height)
}

// DecodeBinary implements the io.Serializable interface.
func (n *NotValidBefore) DecodeBinary(r *io.BinReader) {
	n.Height = r.ReadU32LE()
}

func (n *NotValidBefore) toJSONMap(m map[string]interface{}) {
	m["height"] = n.Height
}

type notValidBeforeAux struct {
	Height uint32 `json:"height"`
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (n *NotValidBefore) UnmarshalJSON(data []byte) error {
	aux := new(notValidBeforeAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	n.Height = aux.Height
	return nil
}

// Conflicts names another transaction hash this transaction invalidates
// if it makes it on-chain.
type Conflicts struct {
	Hash util.Uint256
}

// EncodeBinary implements the io.Serializable interface.
func (c *Conflicts) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(c.Hash[:])
}

// DecodeBinary implements the io.Serializable interface.
func (c *Conflicts) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(c.Hash[:])
}

func (c *Conflicts) toJSONMap(m map[string]interface{}) {
	m["hash"] = c.Hash
}

type conflictsAux struct {
	Hash util.Uint256 `json:"hash"`
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *Conflicts) UnmarshalJSON(data []byte) error {
	aux := new(conflictsAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	c.Hash = aux.Hash
	return nil
}

// NotaryAssisted carries the number of keys the notary-assisted
// transaction's multisignature verification requires.
type NotaryAssisted struct {
	NKeys byte
}

// EncodeBinary implements the io.Serializable interface.
func (n *NotaryAssisted) EncodeBinary(w *io.BinWriter) {
	w.WriteB(n.NKeys)
}

// DecodeBinary implements the io.Serializable interface.
func (n *NotaryAssisted) DecodeBinary(r *io.BinReader) {
	n.NKeys = r.ReadB()
}

func (n *NotaryAssisted) toJSONMap(m map[string]interface{}) {
	m["nkeys"] = n.NKeys
}

type notaryAssistedAux struct {
	NKeys byte `json:"nkeys"`
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (n *NotaryAssisted) UnmarshalJSON(data []byte) error {
	aux := new(notaryAssistedAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	n.NKeys = aux.NKeys
	return nil
}

// Reserved is the payload of a reserved attribute type, carried verbatim
// for forward compatibility with future protocol extensions.
type Reserved struct {
	Value []byte
}

// EncodeBinary implements the io.Serializable interface.
func (res *Reserved) EncodeBinary(w *io.BinWriter) {
	w.WriteVarBytes(res.Value)
}

// DecodeBinary implements the io.Serializable interface.
func (res *Reserved) DecodeBinary(r *io.BinReader) {
	res.Value = r.ReadVarBytes()
}

func (res *Reserved) toJSONMap(m map[string]interface{}) {
	m["value"] = base64.StdEncoding.EncodeToString(res.Value)
}

type reservedAux struct {
	Value string `json:"value"`
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (res *Reserved) UnmarshalJSON(data []byte) error {
	aux := new(reservedAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	v, err := base64.StdEncoding.DecodeString(aux.Value)
	if err != nil {
		return err
	}
	res.Value = v
	return nil
}
