package util

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Uint256Size is the length of Uint256 in bytes.
const Uint256Size = 32

// Uint256 is a 32-byte long unsigned integer. Used to store hashes of
// blocks and transactions. It is compared and stored as a value type, and
// its string form is big-endian while its wire form is little-endian.
type Uint256 [Uint256Size]byte

// Uint256DecodeBytesBE converts a big-endian byte slice into a Uint256.
func Uint256DecodeBytesBE(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, fmt.Errorf("expected []byte of size %d got %d", Uint256Size, len(b))
	}
	copy(u[:], b)
	return
}

// Uint256DecodeBytesLE converts a little-endian byte slice into a Uint256.
func Uint256DecodeBytesLE(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, fmt.Errorf("expected []byte of size %d got %d", Uint256Size, len(b))
	}
	for i, v := range b {
		u[Uint256Size-i-1] = v
	}
	return
}

// Uint256DecodeStringBE converts a hex string (big-endian, no 0x required)
// into a Uint256.
func Uint256DecodeStringBE(s string) (u Uint256, err error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	return Uint256DecodeBytesBE(b)
}

// BytesBE returns the big-endian byte representation of u.
func (u Uint256) BytesBE() []byte {
	b := make([]byte, Uint256Size)
	copy(b, u[:])
	return b
}

// BytesLE returns the little-endian byte representation of u.
func (u Uint256) BytesLE() []byte {
	b := make([]byte, Uint256Size)
	for i := 0; i < Uint256Size; i++ {
		b[i] = u[Uint256Size-i-1]
	}
	return b
}

// Reverse returns a reversed copy of u.
func (u Uint256) Reverse() Uint256 {
	var r Uint256
	for i, v := range u {
		r[Uint256Size-i-1] = v
	}
	return r
}

// Equals returns true when u == o.
func (u Uint256) Equals(o Uint256) bool {
	return u == o
}

// String implements fmt.Stringer; produces big-endian hex with 0x prefix.
func (u Uint256) String() string {
	return "0x" + hex.EncodeToString(u.BytesBE())
}

// StringLE produces little-endian hex without any prefix, as used on the wire.
func (u Uint256) StringLE() string {
	return hex.EncodeToString(u.BytesLE())
}

// IsZero reports whether u is the zero hash.
func (u Uint256) IsZero() bool {
	return u == Uint256{}
}

// MarshalJSON implements the json.Marshaler interface.
func (u Uint256) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (u *Uint256) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Uint256DecodeStringBE(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
