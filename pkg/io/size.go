package io

import "math"

// GetVarSize returns the number of bytes needed to varint-encode v, where v
// is an int, a Serializable, or a slice of Serializable.
func GetVarSize(value interface{}) int {
	switch v := value.(type) {
	case int:
		return varUintSize(uint64(v))
	case int64:
		return varUintSize(uint64(v))
	case uint32:
		return varUintSize(uint64(v))
	case uint64:
		return varUintSize(v)
	case []byte:
		return varUintSize(uint64(len(v))) + len(v)
	case string:
		return varUintSize(uint64(len(v))) + len(v)
	case Serializable:
		w := NewBufBinWriter()
		v.EncodeBinary(w.BinWriter)
		return len(w.Bytes())
	default:
		return 0
	}
}

func varUintSize(v uint64) int {
	switch {
	case v < 0xFD:
		return 1
	case v <= math.MaxUint16:
		return 3
	case v <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}
