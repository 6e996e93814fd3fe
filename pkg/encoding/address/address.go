// Package address converts between Hash160 script hashes and their
// Base58Check textual representation, versioned per Neo N3 network.
package address

import (
	"github.com/neocorex/neogo/pkg/encoding/base58"
	"github.com/neocorex/neogo/pkg/util"
)

// Prefix is the address version byte. Mainnet uses 0x35, making every
// address start with 'N'.
const Prefix = 0x35

// Uint160ToString renders u as a Base58Check address string using Prefix.
func Uint160ToString(u util.Uint160) string {
	b := make([]byte, 0, 21)
	b = append(b, Prefix)
	b = append(b, u.BytesBE()...)
	return base58.CheckEncode(b)
}

// StringToUint160 parses a Base58Check address string into a Uint160,
// verifying its checksum and version byte.
func StringToUint160(s string) (u util.Uint160, err error) {
	b, err := base58.CheckDecode(s)
	if err != nil {
		return u, err
	}
	if len(b) != 21 {
		return u, errShortAddress
	}
	if b[0] != Prefix {
		return u, errBadVersion
	}
	return util.Uint160DecodeBytesBE(b[1:])
}
