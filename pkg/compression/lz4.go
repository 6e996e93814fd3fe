// Package compression implements the LZ4 block (de)compression used for
// oversized P2P payloads, matching the pierrec/lz4 block codec the node
// has always shipped with.
package compression

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4"
)

// CompressedSizeThreshold is the payload size above which the P2P layer
// attempts compression (small payloads aren't worth the framing overhead).
const CompressedSizeThreshold = 128

// Compress LZ4-block-compresses src, prefixing the result with src's
// original (uncompressed) length as a little-endian uint32.
func Compress(src []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(src))+4)
	binary.LittleEndian.PutUint32(buf[:4], uint32(len(src)))

	var ht [1 << 16]int
	n, err := lz4.CompressBlock(src, buf[4:], ht[:])
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// incompressible: lz4 reports 0 when it couldn't shrink the input.
		return nil, fmt.Errorf("data is not compressible")
	}
	return buf[:4+n], nil
}

// Decompress reverses Compress, validating the recovered length against the
// prefix before trusting it.
func Decompress(src []byte, maxSize int) ([]byte, error) {
	if len(src) < 4 {
		return nil, fmt.Errorf("compressed payload too short")
	}
	origLen := binary.LittleEndian.Uint32(src[:4])
	if int(origLen) > maxSize {
		return nil, fmt.Errorf("declared uncompressed size %d exceeds maximum %d", origLen, maxSize)
	}
	dst := make([]byte, origLen)
	n, err := lz4.UncompressBlock(src[4:], dst)
	if err != nil {
		return nil, err
	}
	if n != int(origLen) {
		return nil, fmt.Errorf("uncompressed size mismatch: got %d, want %d", n, origLen)
	}
	return dst, nil
}
