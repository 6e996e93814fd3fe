package stackitem

import (
	"github.com/neocorex/neogo/pkg/io"
)

// MaxSerializedSize bounds the encoded size Serialize will produce before
// it starts failing, guarding the System.Binary.Serialize interop against
// unbounded output.
const MaxSerializedSize = 1024 * 1024

// Serialize encodes item into the deterministic binary form used by
// System.Binary.Serialize and storage of compound values. Two structurally
// equivalent items always produce identical bytes; InteropInterface and
// Pointer cannot be serialized.
func Serialize(item Item) ([]byte, error) {
	w := io.NewBufBinWriter()
	encodeItem(w.BinWriter, item, make(map[Item]bool), 0)
	if w.Err != nil {
		return nil, w.Err
	}
	b := w.Bytes()
	if len(b) > MaxSerializedSize {
		return nil, ErrTooBig
	}
	return b, nil
}

const maxSerializeDepth = 16

func encodeItem(w *io.BinWriter, item Item, seen map[Item]bool, depth int) {
	if w.Err != nil {
		return
	}
	if depth > maxSerializeDepth {
		w.Err = ErrTooBig
		return
	}
	switch v := item.(type) {
	case Null:
		w.WriteB(byte(AnyT))
	case *Bool:
		w.WriteB(byte(BooleanT))
		w.WriteBool(v.value)
	case *BigInteger:
		w.WriteB(byte(IntegerT))
		w.WriteVarBytes(v.Bytes())
	case *ByteArray:
		w.WriteB(byte(ByteArrayT))
		w.WriteVarBytes(v.value)
	case *Buffer:
		w.WriteB(byte(BufferT))
		w.WriteVarBytes(v.value)
	case *Struct:
		if seen[item] {
			w.Err = ErrInvalidValue
			return
		}
		seen[item] = true
		w.WriteB(byte(StructT))
		w.WriteVarUint(uint64(len(v.value)))
		for _, el := range v.value {
			encodeItem(w, el, seen, depth+1)
		}
	case *Array:
		if seen[item] {
			w.Err = ErrInvalidValue
			return
		}
		seen[item] = true
		w.WriteB(byte(ArrayT))
		w.WriteVarUint(uint64(len(v.value)))
		for _, el := range v.value {
			encodeItem(w, el, seen, depth+1)
		}
	case *Map:
		if seen[item] {
			w.Err = ErrInvalidValue
			return
		}
		seen[item] = true
		w.WriteB(byte(MapT))
		w.WriteVarUint(uint64(len(v.value)))
		for _, el := range v.value {
			encodeItem(w, el.Key, seen, depth+1)
			encodeItem(w, el.Value, seen, depth+1)
		}
	default:
		w.Err = ErrInvalidValue
	}
}

// Deserialize decodes the form produced by Serialize.
func Deserialize(b []byte) (Item, error) {
	r := io.NewBinReaderFromBuf(b)
	item := decodeItem(r, 0)
	if r.Err != nil {
		return nil, r.Err
	}
	return item, nil
}

func decodeItem(r *io.BinReader, depth int) Item {
	if r.Err != nil {
		return nil
	}
	if depth > maxSerializeDepth {
		r.Err = ErrTooBig
		return nil
	}
	t := Type(r.ReadB())
	if r.Err != nil {
		return nil
	}
	return decodeItemBody(r, t, depth)
}

// invalidItemType is a sentinel, never a real Type value, written by
// EncodeBinaryStackItem in place of a value it can't losslessly
// round-trip (a cyclic compound, or anything reachable only through a
// VM-internal handle other than InteropInterface).
const invalidItemType Type = 0xff

// EncodeBinaryStackItem encodes item the way an execution result's stack
// or a notification's state is stored: like Serialize, except values that
// can't be serialized (cyclic compounds, interop handles) are replaced by
// a placeholder instead of failing the whole write. InteropInterface
// values keep their type tag (so callers can still see "this was an
// interop handle"); anything else collapses to nil on decode.
func EncodeBinaryStackItem(item Item, w *io.BinWriter) {
	if w.Err != nil {
		return
	}
	data, err := Serialize(item)
	if err != nil {
		if item != nil && item.Type() == InteropT {
			w.WriteB(byte(InteropT))
			return
		}
		w.WriteB(byte(invalidItemType))
		return
	}
	w.WriteBytes(data)
}

// DecodeBinaryStackItem decodes a value written by EncodeBinaryStackItem.
func DecodeBinaryStackItem(r *io.BinReader) Item {
	if r.Err != nil {
		return nil
	}
	t := Type(r.ReadB())
	if r.Err != nil {
		return nil
	}
	switch t {
	case invalidItemType:
		return nil
	case InteropT:
		return NewInterop(nil)
	default:
		return decodeItemBody(r, t, 0)
	}
}

func decodeItemBody(r *io.BinReader, t Type, depth int) Item {
	if r.Err != nil {
		return nil
	}
	if depth > maxSerializeDepth {
		r.Err = ErrTooBig
		return nil
	}
	switch t {
	case AnyT:
		return NewNull()
	case BooleanT:
		return NewBool(r.ReadBool())
	case IntegerT:
		b := r.ReadVarBytes(MaxBigIntegerSizeBits / 8)
		if r.Err != nil {
			return nil
		}
		v, err := ToBigInt(NewByteArray(b))
		if err != nil {
			r.Err = err
			return nil
		}
		return NewBigInteger(v)
	case ByteArrayT:
		return NewByteArray(r.ReadVarBytes(MaxSerializedSize))
	case BufferT:
		return NewBuffer(r.ReadVarBytes(MaxSerializedSize))
	case StructT, ArrayT:
		n := r.ReadVarUint()
		if r.Err != nil {
			return nil
		}
		if n > MaxArraySize {
			r.Err = ErrTooBig
			return nil
		}
		items := make([]Item, n)
		for i := range items {
			items[i] = decodeItem(r, depth+1)
			if r.Err != nil {
				return nil
			}
		}
		if t == StructT {
			return NewStruct(items)
		}
		return NewArray(items)
	case MapT:
		n := r.ReadVarUint()
		if r.Err != nil {
			return nil
		}
		if n > MaxArraySize {
			r.Err = ErrTooBig
			return nil
		}
		m := NewMap()
		for i := uint64(0); i < n; i++ {
			k := decodeItem(r, depth+1)
			v := decodeItem(r, depth+1)
			if r.Err != nil {
				return nil
			}
			if err := m.Set(k, v); err != nil {
				r.Err = err
				return nil
			}
		}
		return m
	default:
		r.Err = io.FormatErrorf(-1, "unsupported stack item type 0x%02x", byte(t))
		return nil
	}
}
