// Package hash implements the hash functions and Merkle tree construction
// used throughout the Neo N3 wire and ledger formats.
package hash

import (
	"crypto/sha256"

	"github.com/neocorex/neogo/pkg/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required by the Neo N3 Hash160 definition
	"golang.org/x/crypto/sha3"
)

// Sha256 computes a single SHA-256 digest of b.
func Sha256(b []byte) util.Uint256 {
	return sha256.Sum256(b)
}

// DoubleSha256 computes Hash256(b) = Sha256(Sha256(b)).
func DoubleSha256(b []byte) util.Uint256 {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// RipeMD160 computes a RIPEMD-160 digest of b, zero-padded into a Uint160.
func RipeMD160(b []byte) util.Uint160 {
	h := ripemd160.New()
	h.Write(b)
	var u util.Uint160
	copy(u[:], h.Sum(nil))
	return u
}

// Hash160 computes Hash160(b) = RipeMD160(Sha256(b)), the script-hash
// function used for account and contract identities.
func Hash160(b []byte) util.Uint160 {
	sh := sha256.Sum256(b)
	return RipeMD160(sh[:])
}

// Keccak256 computes the Keccak-256 digest of b (used by secp256k1-based
// witness verification paths).
func Keccak256(b []byte) util.Uint256 {
	h := sha3.NewLegacyKeccak256()
	h.Write(b)
	var u util.Uint256
	copy(u[:], h.Sum(nil))
	return u
}

// Checksum returns the first 4 bytes (little-endian order already, as
// produced by the hash) of DoubleSha256(b), as used for P2P frame and
// address checksums.
func Checksum(b []byte) []byte {
	h := DoubleSha256(b)
	return h[:4]
}
