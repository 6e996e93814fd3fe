// Package smartcontract defines the contract parameter/return type system
// shared by a contract's manifest ABI and the RPC layer that marshals
// invocation parameters and results.
package smartcontract

import (
	"fmt"
	"strings"
)

// ParamType represents a contract method parameter or return type, as
// declared in a contract's manifest ABI.
type ParamType byte

// Parameter types recognized by the NEF/manifest ABI and RPC parameter
// encoding. Numeric values match the real N3 ContractParameterType wire
// encoding.
const (
	AnyType              ParamType = 0x00
	BoolType             ParamType = 0x10
	IntegerType          ParamType = 0x11
	ByteArrayType        ParamType = 0x12
	StringType           ParamType = 0x13
	Hash160Type          ParamType = 0x14
	Hash256Type          ParamType = 0x15
	PublicKeyType        ParamType = 0x16
	SignatureType        ParamType = 0x17
	ArrayType            ParamType = 0x20
	MapType              ParamType = 0x22
	InteropInterfaceType ParamType = 0x30
	VoidType             ParamType = 0xff
)

var paramTypeNames = map[ParamType]string{
	AnyType:              "Any",
	BoolType:             "Boolean",
	IntegerType:          "Integer",
	ByteArrayType:        "ByteArray",
	StringType:           "String",
	Hash160Type:          "Hash160",
	Hash256Type:          "Hash256",
	PublicKeyType:        "PublicKey",
	SignatureType:        "Signature",
	ArrayType:            "Array",
	MapType:              "Map",
	InteropInterfaceType: "InteropInterface",
	VoidType:             "Void",
}

// String implements the stringer interface.
func (pt ParamType) String() string {
	if s, ok := paramTypeNames[pt]; ok {
		return s
	}
	return fmt.Sprintf("Unknown(%x)", byte(pt))
}

// ParseParamType converts a user-facing type name (as used by the CLI and
// the manifest ABI's JSON form) into a ParamType, case-insensitively.
func ParseParamType(s string) (ParamType, error) {
	for pt, name := range paramTypeNames {
		if strings.EqualFold(name, s) {
			return pt, nil
		}
	}
	// A handful of names differ between the CLI's casual vocabulary and
	// the canonical ABI spelling above.
	switch strings.ToLower(s) {
	case "bool":
		return BoolType, nil
	case "int":
		return IntegerType, nil
	case "bytes":
		return ByteArrayType, nil
	case "key":
		return PublicKeyType, nil
	}
	return 0, fmt.Errorf("bad parameter type: %s", s)
}

// MarshalJSON implements the json.Marshaler interface.
func (pt ParamType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + pt.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (pt *ParamType) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("bad parameter type JSON: %s", data)
	}
	t, err := ParseParamType(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*pt = t
	return nil
}
