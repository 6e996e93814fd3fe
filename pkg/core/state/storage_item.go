package state

import "github.com/neocorex/neogo/pkg/io"

// StorageItem is the value half of a contract storage key/value pair.
type StorageItem struct {
	Value []byte
}

// EncodeBinary implements the io.Serializable interface.
func (si *StorageItem) EncodeBinary(w *io.BinWriter) {
	w.WriteVarBytes(si.Value)
}

// DecodeBinary implements the io.Serializable interface.
func (si *StorageItem) DecodeBinary(r *io.BinReader) {
	si.Value = r.ReadVarBytes()
}
