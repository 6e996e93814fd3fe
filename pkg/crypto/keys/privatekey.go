package keys

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/neocorex/neogo/pkg/encoding/base58"
	"github.com/nspcc-dev/rfc6979"
)

// PrivateKey is an ECDSA private key together with the curve it signs on.
type PrivateKey struct {
	Curve Curve
	ecdsa.PrivateKey
}

// NewPrivateKey generates a fresh secp256r1 private key.
func NewPrivateKey() (*PrivateKey, error) {
	priv, err := ecdsa.GenerateKey(Secp256r1.ecCurve(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{Curve: Secp256r1, PrivateKey: *priv}, nil
}

// NewPrivateKeyFromBytes restores a private key from its raw scalar bytes.
func NewPrivateKeyFromBytes(b []byte, c Curve) (*PrivateKey, error) {
	curve := c.ecCurve()
	d := new(big.Int).SetBytes(b)
	x, y := curve.ScalarBaseMult(b)
	priv := &PrivateKey{
		Curve: c,
		PrivateKey: ecdsa.PrivateKey{
			PublicKey: ecdsa.PublicKey{Curve: curve, X: x, Y: y},
			D:         d,
		},
	}
	return priv, nil
}

// PublicKey returns the PublicKey paired with this private key.
func (p *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{
		Curve:     p.Curve,
		PublicKey: p.PrivateKey.PublicKey,
	}
}

// Sign produces a deterministic (RFC 6979) ECDSA signature over
// Sha256(msg), returned as the 64-byte r‖s concatenation Neo N3 expects in
// an invocation script.
func (p *PrivateKey) Sign(msg []byte) ([]byte, error) {
	digest := sha256.Sum256(msg)
	r, s, err := rfc6979.SignECDSA(p.Curve.ecCurve(), p.D.Bytes(), digest[:], sha256.New)
	if err != nil {
		return nil, err
	}

	size := (p.Curve.ecCurve().Params().BitSize + 7) / 8
	sig := make([]byte, 2*size)
	r.FillBytes(sig[:size])
	s.FillBytes(sig[size:])
	return sig, nil
}

// Verify reports whether sig (r‖s) is a valid signature by pub over
// Sha256(msg).
func Verify(pub *PublicKey, msg, sig []byte) bool {
	size := (pub.Curve.ecCurve().Params().BitSize + 7) / 8
	if len(sig) != 2*size || pub.X == nil {
		return false
	}
	digest := sha256.Sum256(msg)
	r := new(big.Int).SetBytes(sig[:size])
	s := new(big.Int).SetBytes(sig[size:])
	return ecdsa.Verify(&pub.PublicKey, digest[:], r, s)
}

// WIF encodes the private key in Wallet Import Format (compressed).
func (p *PrivateKey) WIF() string {
	size := (p.Curve.ecCurve().Params().BitSize + 7) / 8
	b := make([]byte, 0, 2+size+1)
	b = append(b, 0x80)
	db := make([]byte, size)
	p.D.FillBytes(db)
	b = append(b, db...)
	b = append(b, 0x01) // compressed marker
	return base58.CheckEncode(b)
}

// NewPrivateKeyFromWIF decodes a WIF-encoded private key.
func NewPrivateKeyFromWIF(wif string) (*PrivateKey, error) {
	b, err := base58.CheckDecode(wif)
	if err != nil {
		return nil, err
	}
	if len(b) != 34 || b[0] != 0x80 || b[33] != 0x01 {
		return nil, errors.New("invalid WIF payload")
	}
	return NewPrivateKeyFromBytes(b[1:33], Secp256r1)
}
