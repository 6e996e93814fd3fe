package util

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Uint160Size is the length of Uint160 in bytes.
const Uint160Size = 20

// Uint160 is a 20-byte long unsigned integer. Used to store script hashes
// (account identities) in the Neo ledger.
type Uint160 [Uint160Size]byte

// Uint160DecodeBytesBE converts a big-endian byte slice into a Uint160.
func Uint160DecodeBytesBE(b []byte) (u Uint160, err error) {
	if len(b) != Uint160Size {
		return u, fmt.Errorf("expected []byte of size %d got %d", Uint160Size, len(b))
	}
	copy(u[:], b)
	return
}

// Uint160DecodeBytesLE converts a little-endian byte slice into a Uint160.
func Uint160DecodeBytesLE(b []byte) (u Uint160, err error) {
	if len(b) != Uint160Size {
		return u, fmt.Errorf("expected []byte of size %d got %d", Uint160Size, len(b))
	}
	for i, v := range b {
		u[Uint160Size-i-1] = v
	}
	return
}

// Uint160DecodeStringBE converts a hex string (big-endian, optional 0x) into
// a Uint160.
func Uint160DecodeStringBE(s string) (u Uint160, err error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	return Uint160DecodeBytesBE(b)
}

// Uint160DecodeStringLE converts a hex string (little-endian, optional 0x)
// into a Uint160.
func Uint160DecodeStringLE(s string) (u Uint160, err error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	return Uint160DecodeBytesLE(b)
}

// BytesBE returns the big-endian byte representation of u.
func (u Uint160) BytesBE() []byte {
	b := make([]byte, Uint160Size)
	copy(b, u[:])
	return b
}

// BytesLE returns the little-endian byte representation of u.
func (u Uint160) BytesLE() []byte {
	b := make([]byte, Uint160Size)
	for i := 0; i < Uint160Size; i++ {
		b[i] = u[Uint160Size-i-1]
	}
	return b
}

// Equals returns true when u == o.
func (u Uint160) Equals(o Uint160) bool {
	return u == o
}

// String implements fmt.Stringer; produces big-endian hex with 0x prefix.
func (u Uint160) String() string {
	return "0x" + hex.EncodeToString(u.BytesBE())
}

// StringLE produces little-endian hex without any prefix, as used on the wire.
func (u Uint160) StringLE() string {
	return hex.EncodeToString(u.BytesLE())
}

// IsZero reports whether u is the zero hash.
func (u Uint160) IsZero() bool {
	return u == Uint160{}
}

// MarshalJSON implements the json.Marshaler interface.
func (u Uint160) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (u *Uint160) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Uint160DecodeStringBE(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
