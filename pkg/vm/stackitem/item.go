// Package stackitem implements the NeoVM's typed stack values: immutable
// scalars (Null, Boolean, Integer, ByteString) and heap-allocated,
// reference-counted compounds (Buffer, Array, Struct, Map, InteropInterface,
// Pointer).
package stackitem

import (
	"errors"
	"math/big"

	"github.com/neocorex/neogo/pkg/encoding/bigint"
)

// MaxByteArrayComparableSize bounds how large two ByteStrings may be before
// Equals refuses the structural comparison (avoids O(n) blowups hostile
// scripts could otherwise trigger for free).
const MaxByteArrayComparableSize = 64 * 1024

// MaxBigIntegerSizeBits bounds the two's-complement payload size the VM
// accepts for Integer items, matching the 32-byte limit in the spec.
const MaxBigIntegerSizeBits = 32 * 8

// ErrTooBig is returned when an operation would exceed a size or depth
// limit enforced by this package.
var ErrTooBig = errors.New("item exceeds maximum size")

// ErrInvalidValue marks a conversion that cannot be performed safely
// (e.g. converting a compound item to a boolean without an explicit CONVERT).
var ErrInvalidValue = errors.New("invalid item value for this conversion")

// Item is implemented by every NeoVM stack value.
type Item interface {
	// Type returns this item's wire type discriminator.
	Type() Type
	// Value returns the item's underlying Go representation.
	Value() interface{}
	// Bytes returns the ByteString conversion, or nil if the value cannot
	// be represented as bytes deterministically.
	Bytes() []byte
	// TryBool reports the item's truthiness per CONVERT-to-Boolean rules.
	TryBool() (bool, error)
	// Equals implements structural equality as defined for this item kind.
	Equals(Item) bool
	// Dup produces a value suitable for pushing a second reference: for
	// scalars it's the same immutable value, for Struct it's a deep copy
	// (matching Neo N3 struct-by-value semantics on DUP).
	Dup() Item
}

// Null is the VM's nil value; a singleton is sufficient since it carries
// no state.
type Null struct{}

// NewNull returns the Null item.
func NewNull() Item { return Null{} }

// Type implements Item.
func (Null) Type() Type { return AnyT }

// Value implements Item.
func (Null) Value() interface{} { return nil }

// Bytes implements Item.
func (Null) Bytes() []byte { return nil }

// TryBool implements Item.
func (Null) TryBool() (bool, error) { return false, nil }

// Equals implements Item.
func (Null) Equals(i Item) bool {
	_, ok := i.(Null)
	return ok
}

// Dup implements Item.
func (n Null) Dup() Item { return n }

// Bool is a boolean stack value.
type Bool struct{ value bool }

// NewBool constructs a Bool item.
func NewBool(b bool) *Bool { return &Bool{value: b} }

// Type implements Item.
func (*Bool) Type() Type { return BooleanT }

// Value implements Item.
func (b *Bool) Value() interface{} { return b.value }

// Bytes implements Item.
func (b *Bool) Bytes() []byte {
	if b.value {
		return []byte{1}
	}
	return []byte{0}
}

// TryBool implements Item.
func (b *Bool) TryBool() (bool, error) { return b.value, nil }

// Equals implements Item.
func (b *Bool) Equals(i Item) bool {
	o, ok := i.(*Bool)
	return ok && o.value == b.value
}

// Dup implements Item.
func (b *Bool) Dup() Item { return b }

// BigInteger is an arbitrary-precision integer stack value, two's
// complement minimal-encoded on the wire.
type BigInteger struct{ value *big.Int }

// NewBigInteger constructs a BigInteger item, rejecting values whose
// encoding would exceed MaxBigIntegerSizeBits.
func NewBigInteger(v *big.Int) *BigInteger {
	return &BigInteger{value: v}
}

// Type implements Item.
func (*BigInteger) Type() Type { return IntegerT }

// Value implements Item.
func (b *BigInteger) Value() interface{} { return b.value }

// Bytes implements Item.
func (b *BigInteger) Bytes() []byte { return bigint.ToBytes(b.value) }

// TryBool implements Item.
func (b *BigInteger) TryBool() (bool, error) { return b.value.Sign() != 0, nil }

// Equals implements Item.
func (b *BigInteger) Equals(i Item) bool {
	o, ok := i.(*BigInteger)
	return ok && o.value.Cmp(b.value) == 0
}

// Dup implements Item.
func (b *BigInteger) Dup() Item { return b }

// ByteArray is an immutable byte string.
type ByteArray struct{ value []byte }

// NewByteArray constructs a ByteArray item.
func NewByteArray(b []byte) *ByteArray {
	if b == nil {
		b = []byte{}
	}
	return &ByteArray{value: b}
}

// Type implements Item.
func (*ByteArray) Type() Type { return ByteArrayT }

// Value implements Item.
func (b *ByteArray) Value() interface{} { return b.value }

// Bytes implements Item.
func (b *ByteArray) Bytes() []byte { return b.value }

// TryBool implements Item.
func (b *ByteArray) TryBool() (bool, error) {
	for _, c := range b.value {
		if c != 0 {
			return true, nil
		}
	}
	return false, nil
}

// Equals implements Item.
func (b *ByteArray) Equals(i Item) bool {
	o, ok := i.(*ByteArray)
	if !ok {
		return false
	}
	if len(o.value) > MaxByteArrayComparableSize || len(b.value) > MaxByteArrayComparableSize {
		return false
	}
	if len(o.value) != len(b.value) {
		return false
	}
	for i := range o.value {
		if o.value[i] != b.value[i] {
			return false
		}
	}
	return true
}

// Dup implements Item.
func (b *ByteArray) Dup() Item { return b }

// Buffer is a mutable byte string, distinct from ByteArray in that scripts
// may write into it in place (NEWBUFFER/MEMCPY).
type Buffer struct{ value []byte }

// NewBuffer constructs a Buffer item of the given initial contents.
func NewBuffer(b []byte) *Buffer { return &Buffer{value: b} }

// Type implements Item.
func (*Buffer) Type() Type { return BufferT }

// Value implements Item.
func (b *Buffer) Value() interface{} { return b.value }

// Bytes implements Item.
func (b *Buffer) Bytes() []byte { return b.value }

// TryBool implements Item.
func (b *Buffer) TryBool() (bool, error) {
	for _, c := range b.value {
		if c != 0 {
			return true, nil
		}
	}
	return false, nil
}

// Equals implements Item.
func (b *Buffer) Equals(i Item) bool { return i == Item(b) }

// Dup returns a fresh copy of the buffer: buffers are mutable, so sharing
// the backing array across two stack slots would let one mutation leak
// into the other.
func (b *Buffer) Dup() Item {
	cp := make([]byte, len(b.value))
	copy(cp, b.value)
	return &Buffer{value: cp}
}
