package io

// decodable is any pointer-receiver type able to decode itself.
type decodable[T any] interface {
	*T
	Serializable
}

// ReadArray decodes a varint-prefixed array of T, allocating a new T for
// each slot. maxSize overrides the default MaxArraySize ceiling when given.
func ReadArray[T any, U decodable[T]](r *BinReader, maxSize ...int) []T {
	n := r.readVarSize(maxSize...)
	if r.Err != nil {
		return nil
	}
	arr := make([]T, n)
	for i := 0; i < n; i++ {
		U(&arr[i]).DecodeBinary(r)
		if r.Err != nil {
			return nil
		}
	}
	return arr
}

// WriteArray encodes arr as a varint-prefixed array of Serializable items.
func WriteArray[T Serializable](w *BinWriter, arr []T) {
	w.WriteVarUint(uint64(len(arr)))
	for i := range arr {
		arr[i].EncodeBinary(w)
		if w.Err != nil {
			return
		}
	}
}

// WriteSlice encodes a slice of values implementing EncodeBinary by value
// (not pointer), used for small immutable wire types like signers.
func WriteSlice[T interface{ EncodeBinary(*BinWriter) }](w *BinWriter, arr []T) {
	w.WriteVarUint(uint64(len(arr)))
	for i := range arr {
		arr[i].EncodeBinary(w)
		if w.Err != nil {
			return
		}
	}
}
