package stackitem

import "fmt"

// Type represents the on-wire discriminator byte of a StackItem, used for
// the VM's binary serialization format (System.Binary.Serialize) and for
// JSON conversion diagnostics.
type Type byte

// Possible item types.
const (
	AnyT       Type = 0x00
	PointerT   Type = 0x10
	BooleanT   Type = 0x20
	IntegerT   Type = 0x21
	ByteArrayT Type = 0x28
	BufferT    Type = 0x30
	ArrayT     Type = 0x40
	StructT    Type = 0x41
	MapT       Type = 0x48
	InteropT   Type = 0x60
)

var typeNames = map[Type]string{
	AnyT: "Any", PointerT: "Pointer", BooleanT: "Boolean", IntegerT: "Integer",
	ByteArrayT: "ByteString", BufferT: "Buffer", ArrayT: "Array",
	StructT: "Struct", MapT: "Map", InteropT: "InteropInterface",
}

// String implements fmt.Stringer.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", t)
}

// FromString parses a Type's name (as produced by String) back to a Type.
func FromString(s string) (Type, error) {
	for t, n := range typeNames {
		if n == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown stack item type: %q", s)
}
