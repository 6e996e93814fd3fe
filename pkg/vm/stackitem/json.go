package stackitem

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
)

const maxJSONDepth = 16

type jsonItem struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type jsonMapPair struct {
	Key   json.RawMessage `json:"key"`
	Value json.RawMessage `json:"value"`
}

// ToJSON renders item in the RPC-style {"type":..,"value":..} shape.
// Pointer and InteropInterface values, and cyclic compounds, have no
// lossless JSON representation and return an error.
func ToJSON(item Item) ([]byte, error) {
	return toJSON(item, make(map[Item]bool), 0)
}

func toJSON(item Item, seen map[Item]bool, depth int) ([]byte, error) {
	if depth > maxJSONDepth {
		return nil, ErrTooBig
	}
	switch v := item.(type) {
	case nil, Null:
		return json.Marshal(jsonItem{Type: AnyT.String()})
	case *Bool:
		val, err := json.Marshal(v.value)
		if err != nil {
			return nil, err
		}
		return json.Marshal(jsonItem{Type: BooleanT.String(), Value: val})
	case *BigInteger:
		val, err := json.Marshal(v.value.String())
		if err != nil {
			return nil, err
		}
		return json.Marshal(jsonItem{Type: IntegerT.String(), Value: val})
	case *ByteArray:
		val, err := json.Marshal(base64.StdEncoding.EncodeToString(v.value))
		if err != nil {
			return nil, err
		}
		return json.Marshal(jsonItem{Type: ByteArrayT.String(), Value: val})
	case *Buffer:
		val, err := json.Marshal(base64.StdEncoding.EncodeToString(v.value))
		if err != nil {
			return nil, err
		}
		return json.Marshal(jsonItem{Type: BufferT.String(), Value: val})
	case *Array:
		return compoundToJSON(ArrayT, v, v.value, seen, depth)
	case *Struct:
		return compoundToJSON(StructT, v, v.value, seen, depth)
	case *Map:
		if seen[item] {
			return nil, ErrInvalidValue
		}
		seen[item] = true
		keys, values := v.Keys(), v.Values()
		pairs := make([]jsonMapPair, len(keys))
		for i := range keys {
			k, err := toJSON(keys[i], seen, depth+1)
			if err != nil {
				return nil, err
			}
			val, err := toJSON(values[i], seen, depth+1)
			if err != nil {
				return nil, err
			}
			pairs[i] = jsonMapPair{Key: k, Value: val}
		}
		raw, err := json.Marshal(pairs)
		if err != nil {
			return nil, err
		}
		return json.Marshal(jsonItem{Type: MapT.String(), Value: raw})
	default:
		return nil, fmt.Errorf("%w: stack item type %s has no JSON form", ErrInvalidValue, item.Type())
	}
}

func compoundToJSON(t Type, item Item, elements []Item, seen map[Item]bool, depth int) ([]byte, error) {
	if seen[item] {
		return nil, ErrInvalidValue
	}
	seen[item] = true
	raws := make([]json.RawMessage, len(elements))
	for i, el := range elements {
		r, err := toJSON(el, seen, depth+1)
		if err != nil {
			return nil, err
		}
		raws[i] = r
	}
	raw, err := json.Marshal(raws)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonItem{Type: t.String(), Value: raw})
}

// FromJSON parses the form produced by ToJSON.
func FromJSON(data []byte) (Item, error) {
	var aux jsonItem
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil, err
	}
	t, err := FromString(aux.Type)
	if err != nil {
		return nil, err
	}
	switch t {
	case AnyT:
		return NewNull(), nil
	case BooleanT:
		var b bool
		if err := json.Unmarshal(aux.Value, &b); err != nil {
			return nil, err
		}
		return NewBool(b), nil
	case IntegerT:
		var s string
		if err := json.Unmarshal(aux.Value, &s); err != nil {
			return nil, err
		}
		bi, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("%w: bad integer %q", ErrInvalidValue, s)
		}
		return NewBigInteger(bi), nil
	case ByteArrayT, BufferT:
		var s string
		if err := json.Unmarshal(aux.Value, &s); err != nil {
			return nil, err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, err
		}
		if t == BufferT {
			return NewBuffer(b), nil
		}
		return NewByteArray(b), nil
	case ArrayT, StructT:
		var raws []json.RawMessage
		if err := json.Unmarshal(aux.Value, &raws); err != nil {
			return nil, err
		}
		items := make([]Item, len(raws))
		for i, r := range raws {
			it, err := FromJSON(r)
			if err != nil {
				return nil, err
			}
			items[i] = it
		}
		if t == StructT {
			return NewStruct(items), nil
		}
		return NewArray(items), nil
	case MapT:
		var pairs []jsonMapPair
		if err := json.Unmarshal(aux.Value, &pairs); err != nil {
			return nil, err
		}
		m := NewMap()
		for _, p := range pairs {
			k, err := FromJSON(p.Key)
			if err != nil {
				return nil, err
			}
			v, err := FromJSON(p.Value)
			if err != nil {
				return nil, err
			}
			if err := m.Set(k, v); err != nil {
				return nil, err
			}
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported stack item type for JSON: %s", t)
	}
}

// ToJSONSafe is like ToJSON but never fails: a value with no lossless
// JSON form becomes a bare {"type":"InteropInterface"} marker (preserving
// that it was an interop handle) or JSON null (everything else, notably
// cyclic compounds). Used for values an RPC response must include
// regardless of whether the VM result is itself well-formed.
func ToJSONSafe(item Item) json.RawMessage {
	data, err := ToJSON(item)
	if err == nil {
		return data
	}
	if item != nil && item.Type() == InteropT {
		data, _ = json.Marshal(jsonItem{Type: InteropT.String()})
		return data
	}
	return json.RawMessage("null")
}

// FromJSONSafe decodes a value written by ToJSONSafe. JSON null decodes
// to a nil Item; a bare InteropInterface marker decodes to an empty
// Interop handle.
func FromJSONSafe(data []byte) (Item, error) {
	if string(data) == "null" {
		return nil, nil
	}
	var probe jsonItem
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if probe.Type == InteropT.String() && len(probe.Value) == 0 {
		return NewInterop(nil), nil
	}
	return FromJSON(data)
}
