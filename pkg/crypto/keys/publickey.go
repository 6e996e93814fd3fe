// Package keys implements ECDSA key material for the two curves Neo N3
// uses: secp256r1 (the default, "NIST P-256") for account and committee
// keys, and secp256k1 for the Keccak-based witness path shared with
// Ethereum-style tooling.
package keys

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	secp256k1go "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/neocorex/neogo/pkg/crypto/hash"
	"github.com/neocorex/neogo/pkg/io"
	"github.com/neocorex/neogo/pkg/util"
)

// Curve identifies which elliptic curve a key belongs to.
type Curve byte

// Supported curves.
const (
	Secp256r1 Curve = iota
	Secp256k1
)

func (c Curve) ecCurve() elliptic.Curve {
	if c == Secp256k1 {
		return secp256k1go.S256()
	}
	return elliptic.P256()
}

// PublicKey is an EC point plus the curve it lives on. Its wire form is the
// SEC1 point encoding (compressed by default, 33 bytes; 0x00 for infinity).
type PublicKey struct {
	Curve Curve
	ecdsa.PublicKey
}

var errInvalidPrefix = errors.New("invalid prefix byte")

// NewPublicKeyFromBytes parses a SEC1-encoded point (compressed, 33 bytes;
// uncompressed, 65 bytes; or infinity, 1 byte of 0x00).
func NewPublicKeyFromBytes(b []byte, c Curve) (*PublicKey, error) {
	pub := &PublicKey{Curve: c}
	if err := pub.decodeBytes(b); err != nil {
		return nil, err
	}
	return pub, nil
}

// NewPublicKeyFromString parses a hex-encoded SEC1 point on secp256r1.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return NewPublicKeyFromBytes(b, Secp256r1)
}

func (p *PublicKey) decodeBytes(b []byte) error {
	curve := p.Curve.ecCurve()
	switch {
	case len(b) == 1 && b[0] == 0:
		p.X, p.Y = nil, nil
		return nil
	case len(b) == 33:
		return p.decodeCompressed(b, curve)
	case len(b) == 65:
		if b[0] != 0x04 {
			return errInvalidPrefix
		}
		p.X = new(big.Int).SetBytes(b[1:33])
		p.Y = new(big.Int).SetBytes(b[33:65])
		return nil
	default:
		return fmt.Errorf("invalid key length: %d", len(b))
	}
}

func (p *PublicKey) decodeCompressed(b []byte, curve elliptic.Curve) error {
	if b[0] != 0x02 && b[0] != 0x03 {
		return errInvalidPrefix
	}
	x := new(big.Int).SetBytes(b[1:])
	y, err := decompressY(curve, x, b[0] == 0x03)
	if err != nil {
		return err
	}
	p.X, p.Y = x, y
	return nil
}

func decompressY(curve elliptic.Curve, x *big.Int, odd bool) (*big.Int, error) {
	params := curve.Params()
	// y^2 = x^3 - 3x + b  (mod p), which holds for both P-256 and secp256k1
	// once b differs per curve; Params().B carries the right constant.
	ySq := new(big.Int).Exp(x, big.NewInt(3), params.P)
	threeX := new(big.Int).Mul(x, big.NewInt(3))
	ySq.Sub(ySq, threeX)
	ySq.Add(ySq, params.B)
	ySq.Mod(ySq, params.P)

	y := new(big.Int).ModSqrt(ySq, params.P)
	if y == nil {
		return nil, errors.New("point not on curve")
	}
	if y.Bit(0) != boolToBit(odd) {
		y.Sub(params.P, y)
	}
	return y, nil
}

func boolToBit(b bool) uint {
	if b {
		return 1
	}
	return 0
}

// Bytes returns the compressed SEC1 encoding of p (1 byte for infinity).
func (p *PublicKey) Bytes() []byte {
	if p.X == nil {
		return []byte{0x00}
	}
	b := make([]byte, 33)
	if p.Y.Bit(0) == 0 {
		b[0] = 0x02
	} else {
		b[0] = 0x03
	}
	p.X.FillBytes(b[1:])
	return b
}

// StringCompressed returns the hex-encoded compressed SEC1 point, the form
// used in YAML/JSON configuration and CLI output.
func (p *PublicKey) StringCompressed() string {
	return hex.EncodeToString(p.Bytes())
}

// Address derives the Base58Check account address for this key's
// verification script (single-signature: PUSH pubkey, SYSCALL CheckSig).
func (p *PublicKey) Address() (string, error) {
	return scriptHashToAddress(p.GetScriptHash())
}

// GetScriptHash returns Hash160 of this key's default verification script.
func (p *PublicKey) GetScriptHash() util.Uint160 {
	return hash.Hash160(p.VerificationScript())
}

// Equal reports whether p and other encode the same EC point.
func (p *PublicKey) Equal(other *PublicKey) bool {
	if p == nil || other == nil {
		return p == other
	}
	return bytes.Equal(p.Bytes(), other.Bytes())
}

// MarshalJSON implements the json.Marshaler interface.
func (p *PublicKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.StringCompressed() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	return p.decodeBytes(b)
}

// EncodeBinary implements io.Serializable.
func (p *PublicKey) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(p.Bytes())
}

// DecodeBinary implements io.Serializable.
func (p *PublicKey) DecodeBinary(r *io.BinReader) {
	prefix := r.ReadB()
	if r.Err != nil {
		return
	}
	var b []byte
	switch prefix {
	case 0x00:
		b = []byte{0x00}
	case 0x02, 0x03:
		b = make([]byte, 33)
		b[0] = prefix
		r.ReadBytes(b[1:])
	case 0x04:
		b = make([]byte, 65)
		b[0] = prefix
		r.ReadBytes(b[1:])
	default:
		r.Err = io.FormatErrorf(-1, "invalid public key prefix 0x%02x", prefix)
		return
	}
	if r.Err != nil {
		return
	}
	r.Err = p.decodeBytes(b)
}

