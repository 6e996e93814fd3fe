// Package io implements deterministic binary (de)serialization primitives
// shared by every Neo N3 wire object: blocks, transactions, VM stack items
// and P2P payloads. Readers and writers are "sticky" on error: once an
// operation fails, every subsequent operation on that reader/writer is a
// no-op, so callers can chain a whole struct's fields and check the error
// exactly once at the end.
package io

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// ErrDrainedBuffer is returned when a caller asks for more bytes than a
// bounded reader has left.
var ErrDrainedBuffer = errors.New("drained buffer")

// MaxArraySize is the hard ceiling on any varint-prefixed collection decoded
// through ReadArray/ReadVarBytes/ReadVarUint-gated loops, matching the Neo
// N3 wire limit for a single array or byte string.
const MaxArraySize = math.MaxUint16

// Serializable defines a binary (de)serializable wire object.
type Serializable interface {
	EncodeBinary(w *BinWriter)
	DecodeBinary(r *BinReader)
}

// BinReader is a convenient wrapper around an io.Reader that keeps the
// first error it saw and refuses to do any further work afterwards.
type BinReader struct {
	r   io.Reader
	Err error
	u64 [8]byte
}

// NewBinReaderFromIO makes a BinReader reading from the given io.Reader.
func NewBinReaderFromIO(ior io.Reader) *BinReader {
	return &BinReader{r: ior}
}

// NewBinReaderFromBuf makes a BinReader reading from the given byte slice.
func NewBinReaderFromBuf(b []byte) *BinReader {
	r := bytes.NewReader(b)
	return NewBinReaderFromIO(r)
}

// ReadU64LE reads a little-endian uint64 from the underlying stream.
func (r *BinReader) ReadU64LE() uint64 {
	r.ReadBytes(r.u64[:8])
	return binary.LittleEndian.Uint64(r.u64[:8])
}

// ReadU32LE reads a little-endian uint32 from the underlying stream.
func (r *BinReader) ReadU32LE() uint32 {
	r.ReadBytes(r.u64[:4])
	return binary.LittleEndian.Uint32(r.u64[:4])
}

// ReadU32BE reads a big-endian uint32 from the underlying stream.
func (r *BinReader) ReadU32BE() uint32 {
	r.ReadBytes(r.u64[:4])
	return binary.BigEndian.Uint32(r.u64[:4])
}

// ReadU16LE reads a little-endian uint16 from the underlying stream.
func (r *BinReader) ReadU16LE() uint16 {
	r.ReadBytes(r.u64[:2])
	return binary.LittleEndian.Uint16(r.u64[:2])
}

// ReadU16BE reads a big-endian uint16 from the underlying stream.
func (r *BinReader) ReadU16BE() uint16 {
	r.ReadBytes(r.u64[:2])
	return binary.BigEndian.Uint16(r.u64[:2])
}

// ReadB reads a single byte from the underlying stream.
func (r *BinReader) ReadB() byte {
	r.ReadBytes(r.u64[:1])
	return r.u64[0]
}

// ReadBool reads a boolean encoded as a single non-zero/zero byte.
func (r *BinReader) ReadBool() bool {
	return r.ReadB() != 0
}

// ReadVarUint reads a variable-length encoded unsigned integer:
//
//	0x00..0xFC       -> 1 byte literal
//	0xFD, u16        -> 3 bytes
//	0xFE, u32        -> 5 bytes
//	0xFF, u64        -> 9 bytes
func (r *BinReader) ReadVarUint() uint64 {
	b := r.ReadB()
	switch b {
	case 0xFD:
		return uint64(r.ReadU16LE())
	case 0xFE:
		return uint64(r.ReadU32LE())
	case 0xFF:
		return r.ReadU64LE()
	default:
		return uint64(b)
	}
}

// ReadVarBytes reads a varint-length-prefixed byte slice, rejecting any
// declared length beyond maxSize (MaxArraySize by default).
func (r *BinReader) ReadVarBytes(maxSize ...int) []byte {
	n := r.readVarSize(maxSize...)
	if r.Err != nil {
		return nil
	}
	b := make([]byte, n)
	r.ReadBytes(b)
	return b
}

// ReadString reads a varint-length-prefixed UTF-8 string.
func (r *BinReader) ReadString(maxSize ...int) string {
	return string(r.ReadVarBytes(maxSize...))
}

func (r *BinReader) readVarSize(maxSize ...int) int {
	limit := MaxArraySize
	if len(maxSize) > 0 {
		limit = maxSize[0]
	}
	n := r.ReadVarUint()
	if r.Err != nil {
		return 0
	}
	if n > uint64(limit) {
		r.Err = FormatErrorf(-1, "array size %d exceeds maximum of %d", n, limit)
		return 0
	}
	return int(n)
}

// ReadBytes reads exactly len(buf) bytes into buf.
func (r *BinReader) ReadBytes(buf []byte) {
	if r.Err != nil {
		return
	}
	_, r.Err = io.ReadFull(r.r, buf)
}

// BinWriter is a convenient wrapper around an io.Writer that keeps the
// first error it saw and refuses to do any further work afterwards.
type BinWriter struct {
	w   io.Writer
	Err error
	u64 [8]byte
}

// NewBinWriterFromIO makes a BinWriter writing to the given io.Writer.
func NewBinWriterFromIO(iow io.Writer) *BinWriter {
	return &BinWriter{w: iow}
}

// WriteU64LE writes v as little-endian to the stream.
func (w *BinWriter) WriteU64LE(v uint64) {
	binary.LittleEndian.PutUint64(w.u64[:8], v)
	w.WriteBytes(w.u64[:8])
}

// WriteU32LE writes v as little-endian to the stream.
func (w *BinWriter) WriteU32LE(v uint32) {
	binary.LittleEndian.PutUint32(w.u64[:4], v)
	w.WriteBytes(w.u64[:4])
}

// WriteU32BE writes v as big-endian to the stream.
func (w *BinWriter) WriteU32BE(v uint32) {
	binary.BigEndian.PutUint32(w.u64[:4], v)
	w.WriteBytes(w.u64[:4])
}

// WriteU16LE writes v as little-endian to the stream.
func (w *BinWriter) WriteU16LE(v uint16) {
	binary.LittleEndian.PutUint16(w.u64[:2], v)
	w.WriteBytes(w.u64[:2])
}

// WriteU16BE writes v as big-endian to the stream.
func (w *BinWriter) WriteU16BE(v uint16) {
	binary.BigEndian.PutUint16(w.u64[:2], v)
	w.WriteBytes(w.u64[:2])
}

// WriteB writes a single byte to the stream.
func (w *BinWriter) WriteB(v byte) {
	w.u64[0] = v
	w.WriteBytes(w.u64[:1])
}

// WriteBool writes a boolean as a single 0x00/0x01 byte.
func (w *BinWriter) WriteBool(v bool) {
	if v {
		w.WriteB(1)
	} else {
		w.WriteB(0)
	}
}

// WriteVarUint writes v using the varint encoding described on ReadVarUint.
func (w *BinWriter) WriteVarUint(v uint64) {
	switch {
	case v < 0xFD:
		w.WriteB(byte(v))
	case v <= math.MaxUint16:
		w.WriteB(0xFD)
		w.WriteU16LE(uint16(v))
	case v <= math.MaxUint32:
		w.WriteB(0xFE)
		w.WriteU32LE(uint32(v))
	default:
		w.WriteB(0xFF)
		w.WriteU64LE(v)
	}
}

// WriteVarBytes writes b prefixed with its varint length.
func (w *BinWriter) WriteVarBytes(b []byte) {
	w.WriteVarUint(uint64(len(b)))
	w.WriteBytes(b)
}

// WriteString writes s as UTF-8 prefixed with its varint byte length.
func (w *BinWriter) WriteString(s string) {
	w.WriteVarBytes([]byte(s))
}

// WriteBytes writes the raw bytes of b with no length prefix.
func (w *BinWriter) WriteBytes(b []byte) {
	if w.Err != nil {
		return
	}
	_, w.Err = w.w.Write(b)
}

// Error returns the first error encountered by this writer, if any.
func (w *BinWriter) Error() error {
	return w.Err
}

// BufBinWriter is a BinWriter backed by an in-memory buffer, with helpers
// to reset and reuse it across serializations (hot path for hashing and
// repeated message framing).
type BufBinWriter struct {
	*BinWriter
	buf *bytes.Buffer
}

// NewBufBinWriter creates a new BufBinWriter with a fresh internal buffer.
func NewBufBinWriter() *BufBinWriter {
	b := new(bytes.Buffer)
	return &BufBinWriter{
		BinWriter: NewBinWriterFromIO(b),
		buf:       b,
	}
}

// Len returns the number of bytes written so far.
func (bw *BufBinWriter) Len() int {
	return bw.buf.Len()
}

// Grow grows the underlying buffer's capacity, if necessary, to guarantee
// space for another n bytes.
func (bw *BufBinWriter) Grow(n int) {
	bw.buf.Grow(n)
}

// Bytes returns a copy of the accumulated bytes. It's safe to keep using
// the writer (via Reset) after calling this.
func (bw *BufBinWriter) Bytes() []byte {
	if bw.Err != nil {
		return nil
	}
	b := bw.buf.Bytes()
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Reset clears accumulated bytes and errors, readying the writer for reuse.
func (bw *BufBinWriter) Reset() {
	bw.Err = nil
	bw.buf.Reset()
}
