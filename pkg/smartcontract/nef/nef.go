// Package nef implements the NEF (Neo Executable Format) container that
// wraps a compiled contract's script with a header and checksum.
package nef

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"

	"github.com/neocorex/neogo/pkg/crypto/hash"
	"github.com/neocorex/neogo/pkg/io"
)

// Magic is the fixed 4-byte value every NEF file starts with.
const Magic uint32 = 0x3346454e // "NEF3" little-endian

// MaxScriptLength bounds a NEF file's script.
const MaxScriptLength = 1024 * 1024

const maxCompilerLen = 64

// Errors returned while decoding a NEF file.
var (
	ErrInvalidMagic    = errors.New("invalid NEF magic")
	ErrInvalidChecksum = errors.New("invalid NEF checksum")
	errInvalidReserved = errors.New("reserved bytes must be zero")
	errEmptyScript     = errors.New("empty script")
	errScriptTooLong   = errors.New("script exceeds MaxScriptLength")
)

// Header is the fixed-size preamble of a NEF file.
type Header struct {
	Magic    uint32
	Compiler string
	// Version is a free-form compiler version string, carried alongside
	// Compiler but not part of the RPC-facing JSON form.
	Version string
}

const maxVersionLen = 32

// EncodeBinary implements the io.Serializable interface.
func (h *Header) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(h.Magic)
	writeFixedString(w, h.Compiler, maxCompilerLen)
	writeFixedString(w, h.Version, maxVersionLen)
}

// DecodeBinary implements the io.Serializable interface.
func (h *Header) DecodeBinary(r *io.BinReader) {
	h.Magic = r.ReadU32LE()
	if r.Err != nil {
		return
	}
	if h.Magic != Magic {
		r.Err = ErrInvalidMagic
		return
	}
	h.Compiler = readFixedString(r, maxCompilerLen)
	h.Version = readFixedString(r, maxVersionLen)
}

// File is a compiled contract: its header, script and a checksum guarding
// both against corruption.
type File struct {
	Header   Header
	Tokens   []MethodToken
	Script   []byte
	Checksum uint32
}

// NewFile builds a File around script, with a freshly computed checksum.
func NewFile(script []byte) (*File, error) {
	f := &File{
		Header: Header{Magic: Magic},
		Tokens: []MethodToken{},
		Script: script,
	}
	f.Checksum = f.CalculateChecksum()
	return f, nil
}

func (f *File) encodeForChecksum(w *io.BinWriter) {
	f.Header.EncodeBinary(w)
	w.WriteVarUint(uint64(len(f.Tokens)))
	for i := range f.Tokens {
		f.Tokens[i].EncodeBinary(w)
	}
	w.WriteU16LE(0) // reserved
	w.WriteVarBytes(f.Script)
}

// CalculateChecksum returns the first 4 bytes of Hash256 over every NEF
// field except the checksum itself.
func (f *File) CalculateChecksum() uint32 {
	w := io.NewBufBinWriter()
	f.encodeForChecksum(w.BinWriter)
	return binary.LittleEndian.Uint32(hash.Checksum(w.Bytes()))
}

// Bytes serializes f into its on-disk NEF representation.
func (f *File) Bytes() ([]byte, error) {
	w := io.NewBufBinWriter()
	f.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// FileFromBytes parses a NEF file previously produced by Bytes.
func FileFromBytes(data []byte) (File, error) {
	r := io.NewBinReaderFromBuf(data)
	f := File{}
	f.DecodeBinary(r)
	if r.Err != nil {
		return File{}, r.Err
	}
	return f, nil
}

// EncodeBinary implements the io.Serializable interface.
func (f *File) EncodeBinary(w *io.BinWriter) {
	f.encodeForChecksum(w)
	w.WriteU32LE(f.Checksum)
}

// DecodeBinary implements the io.Serializable interface.
func (f *File) DecodeBinary(r *io.BinReader) {
	f.Header.DecodeBinary(r)
	if r.Err != nil {
		return
	}
	n := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	f.Tokens = make([]MethodToken, n)
	for i := range f.Tokens {
		f.Tokens[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}
	reserved := r.ReadU16LE()
	if r.Err != nil {
		return
	}
	if reserved != 0 {
		r.Err = errInvalidReserved
		return
	}
	f.Script = r.ReadVarBytes(MaxScriptLength)
	if r.Err != nil {
		return
	}
	if len(f.Script) == 0 {
		r.Err = errEmptyScript
		return
	}
	if len(f.Script) > MaxScriptLength {
		r.Err = errScriptTooLong
		return
	}
	f.Checksum = r.ReadU32LE()
	if r.Err != nil {
		return
	}
	if f.Checksum != f.CalculateChecksum() {
		r.Err = ErrInvalidChecksum
	}
}

type fileAux struct {
	Magic    uint32        `json:"magic"`
	Compiler string        `json:"compiler"`
	Version  string        `json:"version,omitempty"`
	Tokens   []MethodToken `json:"tokens"`
	Script   string        `json:"script"`
	Checksum uint32        `json:"checksum"`
}

// MarshalJSON implements the json.Marshaler interface.
//
// Version is omitted when empty so the wire form matches real N3 RPC
// output, which predates this field; it round-trips when set.
func (f *File) MarshalJSON() ([]byte, error) {
	tokens := f.Tokens
	if tokens == nil {
		tokens = []MethodToken{}
	}
	return json.Marshal(fileAux{
		Magic:    f.Header.Magic,
		Compiler: f.Header.Compiler,
		Version:  f.Header.Version,
		Tokens:   tokens,
		Script:   base64.StdEncoding.EncodeToString(f.Script),
		Checksum: f.Checksum,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *File) UnmarshalJSON(data []byte) error {
	aux := new(fileAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	script, err := base64.StdEncoding.DecodeString(aux.Script)
	if err != nil {
		return err
	}
	f.Header = Header{Magic: aux.Magic, Compiler: aux.Compiler, Version: aux.Version}
	f.Tokens = aux.Tokens
	f.Script = script
	f.Checksum = aux.Checksum
	return nil
}

func writeFixedString(w *io.BinWriter, s string, size int) {
	b := make([]byte, size)
	copy(b, s)
	w.WriteBytes(b)
}

func readFixedString(r *io.BinReader, size int) string {
	b := make([]byte, size)
	r.ReadBytes(b)
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}
