package transaction

import (
	"encoding/json"
	"fmt"

	"github.com/neocorex/neogo/pkg/io"
)

// AttrType represents the type of a transaction attribute.
type AttrType byte

// Attribute types.
const (
	// HighPriority marks a transaction as high priority, exempting it
	// from the mempool's regular per-block admission limits.
	HighPriority AttrType = 0x01
	// OracleResponseT denotes an oracle contract's response attribute.
	OracleResponseT AttrType = 0x11
	// NotValidBeforeT carries the minimal block height this transaction
	// becomes valid at.
	NotValidBeforeT AttrType = 0x20
	// ConflictsT names another transaction this one conflicts with and
	// should invalidate if included on-chain.
	ConflictsT AttrType = 0x21
	// NotaryAssistedT carries the number of keys a notary-assisted
	// transaction's multisignature witness needs.
	NotaryAssistedT AttrType = 0x22
	// ReservedLowerBound is the first attribute type reserved for future
	// protocol extensions/custom attributes.
	ReservedLowerBound AttrType = 0xe0
	// ReservedUpperBound is the last attribute type reserved for future
	// protocol extensions/custom attributes.
	ReservedUpperBound AttrType = 0xff
)

// String implements the stringer interface.
func (t AttrType) String() string {
	switch t {
	case HighPriority:
		return "HighPriority"
	case OracleResponseT:
		return "OracleResponse"
	case NotValidBeforeT:
		return "NotValidBefore"
	case ConflictsT:
		return "Conflicts"
	case NotaryAssistedT:
		return "NotaryAssisted"
	}
	if t >= ReservedLowerBound {
		return "Reserved"
	}
	return fmt.Sprintf("Unknown(%d)", byte(t))
}

func validAttrType(t AttrType) bool {
	switch t {
	case HighPriority, OracleResponseT, NotValidBeforeT, ConflictsT, NotaryAssistedT:
		return true
	}
	return t >= ReservedLowerBound
}

func attrTypeFromString(s string) (AttrType, error) {
	switch s {
	case "HighPriority":
		return HighPriority, nil
	case "OracleResponse":
		return OracleResponseT, nil
	case "NotValidBefore":
		return NotValidBeforeT, nil
	case "Conflicts":
		return ConflictsT, nil
	case "NotaryAssisted":
		return NotaryAssistedT, nil
	case "Reserved":
		return ReservedLowerBound, nil
	default:
		return 0, fmt.Errorf("unknown attribute type: %s", s)
	}
}

// AttrValue is a transaction attribute's type-specific payload.
type AttrValue interface {
	io.Serializable
	toJSONMap(m map[string]interface{})
}

func newAttrValue(t AttrType) AttrValue {
	switch {
	case t == OracleResponseT:
		return new(OracleResponse)
	case t == NotValidBeforeT:
		return new(NotValidBefore)
	case t == ConflictsT:
		return new(Conflicts)
	case t == NotaryAssistedT:
		return new(NotaryAssisted)
	case t >= ReservedLowerBound:
		return new(Reserved)
	default:
		return nil
	}
}

// Attribute represents a transaction attribute, a key/payload pair that
// extends a transaction's semantics (priority, oracle data, validity
// window, conflicts, notary assistance, or a reserved extension).
type Attribute struct {
	Type  AttrType
	Value AttrValue
}

// EncodeBinary implements the io.Serializable interface.
func (attr *Attribute) EncodeBinary(w *io.BinWriter) {
	if !validAttrType(attr.Type) {
		w.Err = fmt.Errorf("invalid attribute type: %d", attr.Type)
		return
	}
	w.WriteB(byte(attr.Type))
	if attr.Value != nil {
		attr.Value.EncodeBinary(w)
	}
}

// DecodeBinary implements the io.Serializable interface.
func (attr *Attribute) DecodeBinary(r *io.BinReader) {
	t := AttrType(r.ReadB())
	if r.Err != nil {
		return
	}
	if !validAttrType(t) {
		r.Err = fmt.Errorf("invalid attribute type: %d", t)
		return
	}
	attr.Type = t
	val := newAttrValue(t)
	if val != nil {
		val.DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}
	attr.Value = val
}

// MarshalJSON implements the json.Marshaler interface.
func (attr *Attribute) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{"type": attr.Type.String()}
	if attr.Value != nil {
		attr.Value.toJSONMap(m)
	}
	return json.Marshal(m)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (attr *Attribute) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := attrTypeFromString(raw.Type)
	if err != nil {
		return err
	}
	attr.Type = t
	val := newAttrValue(t)
	if val != nil {
		if u, ok := val.(json.Unmarshaler); ok {
			if err := u.UnmarshalJSON(data); err != nil {
				return err
			}
		}
	}
	attr.Value = val
	return nil
}
