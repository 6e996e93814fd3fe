package stackitem

import (
	"math/big"

	"github.com/neocorex/neogo/pkg/encoding/bigint"
)

// Make converts common Go values into the matching Item, for use by native
// contracts and tests that would otherwise have to spell out NewBigInteger
// et al. for every literal.
func Make(v interface{}) Item {
	switch val := v.(type) {
	case Item:
		return val
	case nil:
		return NewNull()
	case bool:
		return NewBool(val)
	case int:
		return NewBigInteger(big.NewInt(int64(val)))
	case int8:
		return NewBigInteger(big.NewInt(int64(val)))
	case int16:
		return NewBigInteger(big.NewInt(int64(val)))
	case int32:
		return NewBigInteger(big.NewInt(int64(val)))
	case int64:
		return NewBigInteger(big.NewInt(val))
	case uint8:
		return NewBigInteger(new(big.Int).SetUint64(uint64(val)))
	case uint16:
		return NewBigInteger(new(big.Int).SetUint64(uint64(val)))
	case uint32:
		return NewBigInteger(new(big.Int).SetUint64(uint64(val)))
	case uint64:
		return NewBigInteger(new(big.Int).SetUint64(val))
	case *big.Int:
		return NewBigInteger(val)
	case []byte:
		return NewByteArray(val)
	case string:
		return NewByteArray([]byte(val))
	case []Item:
		return NewArray(val)
	default:
		return NewNull()
	}
}

// ToBigInt extracts a *big.Int from any Integer-like item; ByteString and
// Boolean are accepted with the same coercion the CONVERT opcode applies.
func ToBigInt(i Item) (*big.Int, error) {
	switch v := i.(type) {
	case *BigInteger:
		return v.value, nil
	case *Bool:
		if v.value {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	case *ByteArray:
		if len(v.value) > MaxBigIntegerSizeBits/8 {
			return nil, ErrTooBig
		}
		return bigint.FromBytes(v.value), nil
	case *Buffer:
		if len(v.value) > MaxBigIntegerSizeBits/8 {
			return nil, ErrTooBig
		}
		return bigint.FromBytes(v.value), nil
	default:
		return nil, ErrInvalidValue
	}
}
