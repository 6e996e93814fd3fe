// Package base58 implements Base58Check encoding as used for Neo N3
// addresses and WIF-encoded private keys.
package base58

import (
	"errors"

	"github.com/mr-tron/base58"
	"github.com/neocorex/neogo/pkg/crypto/hash"
)

// ErrInvalidChecksum is returned when a decoded payload's trailing 4 bytes
// don't match the expected double-SHA256 checksum.
var ErrInvalidChecksum = errors.New("invalid checksum")

// ErrShortInput is returned when the decoded payload is too short to even
// contain a checksum.
var ErrShortInput = errors.New("input is too short")

// CheckEncode encodes b with a trailing 4-byte double-SHA256 checksum.
func CheckEncode(b []byte) string {
	csum := hash.Checksum(b)
	buf := make([]byte, len(b)+4)
	copy(buf, b)
	copy(buf[len(b):], csum)
	return base58.Encode(buf)
}

// CheckDecode decodes a Base58Check string and verifies its checksum.
func CheckDecode(s string) ([]byte, error) {
	dec, err := base58.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(dec) < 5 {
		return nil, ErrShortInput
	}
	body, csum := dec[:len(dec)-4], dec[len(dec)-4:]
	expected := hash.Checksum(body)
	for i := range expected {
		if expected[i] != csum[i] {
			return nil, ErrInvalidChecksum
		}
	}
	return body, nil
}
