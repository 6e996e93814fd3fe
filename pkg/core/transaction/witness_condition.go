package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/neocorex/neogo/pkg/crypto/keys"
	"github.com/neocorex/neogo/pkg/io"
	"github.com/neocorex/neogo/pkg/util"
)

// WitnessConditionType is a byte-sized type identifying a witness
// condition's wire/JSON encoding.
type WitnessConditionType byte

// All possible witness condition types.
const (
	WitnessBoolean          WitnessConditionType = 0x00
	WitnessNot              WitnessConditionType = 0x01
	WitnessAnd              WitnessConditionType = 0x02
	WitnessOr               WitnessConditionType = 0x03
	WitnessScriptHash       WitnessConditionType = 0x18
	WitnessGroup            WitnessConditionType = 0x19
	WitnessCalledByEntry    WitnessConditionType = 0x20
	WitnessCalledByContract WitnessConditionType = 0x28
	WitnessCalledByGroup    WitnessConditionType = 0x29
)

// String implements the stringer interface.
func (t WitnessConditionType) String() string {
	switch t {
	case WitnessBoolean:
		return "Boolean"
	case WitnessNot:
		return "Not"
	case WitnessAnd:
		return "And"
	case WitnessOr:
		return "Or"
	case WitnessScriptHash:
		return "ScriptHash"
	case WitnessGroup:
		return "Group"
	case WitnessCalledByEntry:
		return "CalledByEntry"
	case WitnessCalledByContract:
		return "CalledByContract"
	case WitnessCalledByGroup:
		return "CalledByGroup"
	default:
		return fmt.Sprintf("Unknown(%x)", byte(t))
	}
}

// maxSubitems bounds the number of nested conditions in And/Or and the
// number of allowed contracts/groups/rules a single signer can carry.
const maxSubitems = 16

// maxConditionDepth bounds how many Not levels can nest, matching the N3
// protocol limit (2 levels deep is enough to flip a leaf condition twice).
const maxConditionDepth = 2

// MatchContext is the execution state a WitnessCondition is evaluated
// against: the calling, current and entry script hashes of the invocation,
// plus group membership checks for the current and calling contracts.
type MatchContext interface {
	GetCallingScriptHash() util.Uint160
	GetCurrentScriptHash() util.Uint160
	GetEntryScriptHash() util.Uint160
	CallingScriptHasGroup(*keys.PublicKey) (bool, error)
	CurrentScriptHasGroup(*keys.PublicKey) (bool, error)
}

// WitnessCondition is a part of a WitnessRule which is checked to decide
// whether the witness it's attached to is applicable or not.
type WitnessCondition interface {
	// Type returns a condition type matching its flags.
	Type() WitnessConditionType
	// Match tells whether this condition matches the execution context c.
	Match(c MatchContext) (bool, error)
	// EncodeBinary encodes the condition, including its leading type byte.
	EncodeBinary(w *io.BinWriter)
	// DecodeBinarySpecific decodes the condition's type-specific fields,
	// given the nesting depth it's decoded at (used to reject deeply
	// nested Not/And/Or combinations).
	DecodeBinarySpecific(r *io.BinReader, depth int)
	json.Marshaler
}

// conditionAux is the common JSON envelope shared by every WitnessCondition.
type conditionAux struct {
	Type        string            `json:"type"`
	Expression  json.RawMessage   `json:"expression,omitempty"`
	Expressions []json.RawMessage `json:"expressions,omitempty"`
	Hash        *util.Uint160     `json:"hash,omitempty"`
	Group       *keys.PublicKey   `json:"group,omitempty"`
}

// ConditionBoolean is a boolean condition type.
type ConditionBoolean bool

// ConditionNot reverses another condition.
type ConditionNot struct {
	Condition WitnessCondition
}

// ConditionAnd means all conditions must hold.
type ConditionAnd []WitnessCondition

// ConditionOr means at least one condition must hold.
type ConditionOr []WitnessCondition

// ConditionScriptHash matches the current executing script hash.
type ConditionScriptHash util.Uint160

// ConditionGroup matches the current executing contract's group.
type ConditionGroup keys.PublicKey

// ConditionCalledByEntry matches when the witness checker's entry script
// hash is either calling or currently executing.
type ConditionCalledByEntry struct{}

// ConditionCalledByContract matches the calling script hash.
type ConditionCalledByContract util.Uint160

// ConditionCalledByGroup matches the calling contract's group.
type ConditionCalledByGroup keys.PublicKey

// Type implements the WitnessCondition interface.
func (c *ConditionBoolean) Type() WitnessConditionType { return WitnessBoolean }

// Match implements the WitnessCondition interface.
func (c *ConditionBoolean) Match(_ MatchContext) (bool, error) { return bool(*c), nil }

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionBoolean) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBool(bool(*c))
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c *ConditionBoolean) DecodeBinarySpecific(r *io.BinReader, _ int) {
	*c = ConditionBoolean(r.ReadBool())
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionBoolean) MarshalJSON() ([]byte, error) {
	expr, err := json.Marshal(bool(*c))
	if err != nil {
		return nil, err
	}
	return json.Marshal(conditionAux{Type: c.Type().String(), Expression: expr})
}

// Type implements the WitnessCondition interface.
func (c *ConditionNot) Type() WitnessConditionType { return WitnessNot }

// Match implements the WitnessCondition interface.
func (c *ConditionNot) Match(ctx MatchContext) (bool, error) {
	res, err := c.Condition.Match(ctx)
	if err != nil {
		return false, err
	}
	return !res, nil
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionNot) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	c.Condition.EncodeBinary(w)
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c *ConditionNot) DecodeBinarySpecific(r *io.BinReader, depth int) {
	c.Condition = decodeConditionAtDepth(r, depth+1)
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionNot) MarshalJSON() ([]byte, error) {
	expr, err := c.Condition.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(conditionAux{Type: c.Type().String(), Expression: expr})
}

// Type implements the WitnessCondition interface.
func (c *ConditionAnd) Type() WitnessConditionType { return WitnessAnd }

// Match implements the WitnessCondition interface.
func (c *ConditionAnd) Match(ctx MatchContext) (bool, error) {
	for _, sub := range *c {
		res, err := sub.Match(ctx)
		if err != nil {
			return false, err
		}
		if !res {
			return false, nil
		}
	}
	return true, nil
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionAnd) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	encodeConditionList(w, []WitnessCondition(*c))
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c *ConditionAnd) DecodeBinarySpecific(r *io.BinReader, depth int) {
	*c = ConditionAnd(decodeConditionList(r, depth+1))
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionAnd) MarshalJSON() ([]byte, error) {
	return marshalConditionList(c.Type(), []WitnessCondition(*c))
}

// Type implements the WitnessCondition interface.
func (c *ConditionOr) Type() WitnessConditionType { return WitnessOr }

// Match implements the WitnessCondition interface.
func (c *ConditionOr) Match(ctx MatchContext) (bool, error) {
	for _, sub := range *c {
		res, err := sub.Match(ctx)
		if err != nil {
			return false, err
		}
		if res {
			return true, nil
		}
	}
	return false, nil
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionOr) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	encodeConditionList(w, []WitnessCondition(*c))
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c *ConditionOr) DecodeBinarySpecific(r *io.BinReader, depth int) {
	*c = ConditionOr(decodeConditionList(r, depth+1))
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionOr) MarshalJSON() ([]byte, error) {
	return marshalConditionList(c.Type(), []WitnessCondition(*c))
}

// Type implements the WitnessCondition interface.
func (c *ConditionScriptHash) Type() WitnessConditionType { return WitnessScriptHash }

// Match implements the WitnessCondition interface.
func (c *ConditionScriptHash) Match(ctx MatchContext) (bool, error) {
	return util.Uint160(*c).Equals(ctx.GetCurrentScriptHash()), nil
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionScriptHash) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBytes(c[:])
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c *ConditionScriptHash) DecodeBinarySpecific(r *io.BinReader, _ int) {
	r.ReadBytes(c[:])
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionScriptHash) MarshalJSON() ([]byte, error) {
	h := util.Uint160(*c)
	return json.Marshal(conditionAux{Type: c.Type().String(), Hash: &h})
}

// Type implements the WitnessCondition interface.
func (c *ConditionGroup) Type() WitnessConditionType { return WitnessGroup }

// Match implements the WitnessCondition interface.
func (c *ConditionGroup) Match(ctx MatchContext) (bool, error) {
	return ctx.CurrentScriptHasGroup((*keys.PublicKey)(c))
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	(*keys.PublicKey)(c).EncodeBinary(w)
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c *ConditionGroup) DecodeBinarySpecific(r *io.BinReader, _ int) {
	(*keys.PublicKey)(c).DecodeBinary(r)
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionGroup) MarshalJSON() ([]byte, error) {
	pk := (*keys.PublicKey)(c)
	return json.Marshal(conditionAux{Type: c.Type().String(), Group: pk})
}

// Type implements the WitnessCondition interface.
func (c ConditionCalledByEntry) Type() WitnessConditionType { return WitnessCalledByEntry }

// Match implements the WitnessCondition interface.
func (c ConditionCalledByEntry) Match(ctx MatchContext) (bool, error) {
	entry := ctx.GetEntryScriptHash()
	return entry.Equals(ctx.GetCallingScriptHash()) || entry.Equals(ctx.GetCurrentScriptHash()), nil
}

// EncodeBinary implements the WitnessCondition interface.
func (c ConditionCalledByEntry) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c ConditionCalledByEntry) DecodeBinarySpecific(_ *io.BinReader, _ int) {}

// MarshalJSON implements the json.Marshaler interface.
func (c ConditionCalledByEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(conditionAux{Type: c.Type().String()})
}

// Type implements the WitnessCondition interface.
func (c *ConditionCalledByContract) Type() WitnessConditionType { return WitnessCalledByContract }

// Match implements the WitnessCondition interface.
func (c *ConditionCalledByContract) Match(ctx MatchContext) (bool, error) {
	return util.Uint160(*c).Equals(ctx.GetCallingScriptHash()), nil
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionCalledByContract) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBytes(c[:])
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c *ConditionCalledByContract) DecodeBinarySpecific(r *io.BinReader, _ int) {
	r.ReadBytes(c[:])
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionCalledByContract) MarshalJSON() ([]byte, error) {
	h := util.Uint160(*c)
	return json.Marshal(conditionAux{Type: c.Type().String(), Hash: &h})
}

// Type implements the WitnessCondition interface.
func (c *ConditionCalledByGroup) Type() WitnessConditionType { return WitnessCalledByGroup }

// Match implements the WitnessCondition interface.
func (c *ConditionCalledByGroup) Match(ctx MatchContext) (bool, error) {
	return ctx.CallingScriptHasGroup((*keys.PublicKey)(c))
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionCalledByGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	(*keys.PublicKey)(c).EncodeBinary(w)
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c *ConditionCalledByGroup) DecodeBinarySpecific(r *io.BinReader, _ int) {
	(*keys.PublicKey)(c).DecodeBinary(r)
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionCalledByGroup) MarshalJSON() ([]byte, error) {
	pk := (*keys.PublicKey)(c)
	return json.Marshal(conditionAux{Type: c.Type().String(), Group: pk})
}

func encodeConditionList(w *io.BinWriter, conds []WitnessCondition) {
	w.WriteVarUint(uint64(len(conds)))
	for _, c := range conds {
		c.EncodeBinary(w)
	}
}

func marshalConditionList(t WitnessConditionType, conds []WitnessCondition) ([]byte, error) {
	exprs := make([]json.RawMessage, len(conds))
	for i, c := range conds {
		b, err := c.MarshalJSON()
		if err != nil {
			return nil, err
		}
		exprs[i] = b
	}
	return json.Marshal(conditionAux{Type: t.String(), Expressions: exprs})
}

// DecodeBinaryCondition reads a type byte followed by the condition it
// identifies, returning nil and setting r.Err on any invalid encoding.
func DecodeBinaryCondition(r *io.BinReader) WitnessCondition {
	return decodeConditionAtDepth(r, 0)
}

func decodeConditionAtDepth(r *io.BinReader, depth int) WitnessCondition {
	if r.Err != nil {
		return nil
	}
	if depth > maxConditionDepth {
		r.Err = errors.New("witness condition is too deeply nested")
		return nil
	}
	t := WitnessConditionType(r.ReadB())
	if r.Err != nil {
		return nil
	}
	c := newCondition(t)
	if c == nil {
		r.Err = fmt.Errorf("unknown witness condition type 0x%x", byte(t))
		return nil
	}
	c.DecodeBinarySpecific(r, depth)
	if r.Err != nil {
		return nil
	}
	return c
}

func decodeConditionList(r *io.BinReader, depth int) []WitnessCondition {
	n := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	if n == 0 {
		r.Err = errors.New("empty condition list")
		return nil
	}
	if n > maxSubitems {
		r.Err = fmt.Errorf("too many subconditions: %d", n)
		return nil
	}
	conds := make([]WitnessCondition, n)
	for i := range conds {
		conds[i] = decodeConditionAtDepth(r, depth)
		if r.Err != nil {
			return nil
		}
	}
	return conds
}

func newCondition(t WitnessConditionType) WitnessCondition {
	switch t {
	case WitnessBoolean:
		return new(ConditionBoolean)
	case WitnessNot:
		return new(ConditionNot)
	case WitnessAnd:
		return new(ConditionAnd)
	case WitnessOr:
		return new(ConditionOr)
	case WitnessScriptHash:
		return new(ConditionScriptHash)
	case WitnessGroup:
		return new(ConditionGroup)
	case WitnessCalledByEntry:
		return ConditionCalledByEntry{}
	case WitnessCalledByContract:
		return new(ConditionCalledByContract)
	case WitnessCalledByGroup:
		return new(ConditionCalledByGroup)
	default:
		return nil
	}
}

// UnmarshalConditionJSON decodes a WitnessCondition from its JSON form.
func UnmarshalConditionJSON(data []byte) (WitnessCondition, error) {
	aux := new(conditionAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return nil, err
	}
	switch aux.Type {
	case WitnessBoolean.String():
		if len(aux.Expression) == 0 {
			return nil, errors.New("missing expression")
		}
		var b bool
		if err := json.Unmarshal(aux.Expression, &b); err != nil {
			return nil, err
		}
		c := ConditionBoolean(b)
		return &c, nil
	case WitnessNot.String():
		if len(aux.Expression) == 0 {
			return nil, errors.New("missing expression")
		}
		sub, err := UnmarshalConditionJSON(aux.Expression)
		if err != nil {
			return nil, err
		}
		return &ConditionNot{Condition: sub}, nil
	case WitnessAnd.String(), WitnessOr.String():
		if len(aux.Expressions) == 0 {
			return nil, errors.New("missing expressions")
		}
		conds := make([]WitnessCondition, len(aux.Expressions))
		for i, e := range aux.Expressions {
			c, err := UnmarshalConditionJSON(e)
			if err != nil {
				return nil, err
			}
			conds[i] = c
		}
		if aux.Type == WitnessAnd.String() {
			cond := ConditionAnd(conds)
			return &cond, nil
		}
		cond := ConditionOr(conds)
		return &cond, nil
	case WitnessScriptHash.String():
		if aux.Hash == nil {
			return nil, errors.New("missing hash")
		}
		c := ConditionScriptHash(*aux.Hash)
		return &c, nil
	case WitnessCalledByContract.String():
		if aux.Hash == nil {
			return nil, errors.New("missing hash")
		}
		c := ConditionCalledByContract(*aux.Hash)
		return &c, nil
	case WitnessGroup.String():
		if aux.Group == nil {
			return nil, errors.New("missing group")
		}
		c := ConditionGroup(*aux.Group)
		return &c, nil
	case WitnessCalledByGroup.String():
		if aux.Group == nil {
			return nil, errors.New("missing group")
		}
		c := ConditionCalledByGroup(*aux.Group)
		return &c, nil
	case WitnessCalledByEntry.String():
		return ConditionCalledByEntry{}, nil
	default:
		return nil, fmt.Errorf("unknown witness condition type %q", aux.Type)
	}
}
