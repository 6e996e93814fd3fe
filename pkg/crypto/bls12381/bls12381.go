// Package bls12381 wraps github.com/consensys/gnark-crypto's BLS12-381
// implementation with the point sizes and operations the VM's Crypto
// interop layer exposes to contracts (CryptoLib.bls12381*).
package bls12381

import (
	"errors"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Wire sizes for compressed/uncompressed point encodings.
const (
	G1CompressedSize   = 48
	G1UncompressedSize = 96
	G2CompressedSize   = 96
	G2UncompressedSize = 192
	GTSize             = 576
)

// Point is a tagged union over the three BLS12-381 groups, mirroring the
// single InteropInterface handle the VM hands back to scripts.
type Point struct {
	G1 *bls12381.G1Affine
	G2 *bls12381.G2Affine
	GT *bls12381.GT
}

// ErrInvalidPoint is returned when a point fails to decompress or does not
// lie on the curve/in the correct subgroup.
var ErrInvalidPoint = errors.New("invalid bls12-381 point")

// FromBytes decodes a G1 or G2 point from its compressed or uncompressed
// encoding, selecting the representation by length.
func FromBytes(b []byte) (*Point, error) {
	switch len(b) {
	case G1CompressedSize, G1UncompressedSize:
		var p bls12381.G1Affine
		if _, err := p.SetBytes(b); err != nil {
			return nil, ErrInvalidPoint
		}
		return &Point{G1: &p}, nil
	case G2CompressedSize, G2UncompressedSize:
		var p bls12381.G2Affine
		if _, err := p.SetBytes(b); err != nil {
			return nil, ErrInvalidPoint
		}
		return &Point{G2: &p}, nil
	default:
		return nil, ErrInvalidPoint
	}
}

// Bytes returns the compressed encoding of the point.
func (p *Point) Bytes() []byte {
	switch {
	case p.G1 != nil:
		b := p.G1.Bytes()
		return b[:]
	case p.G2 != nil:
		b := p.G2.Bytes()
		return b[:]
	case p.GT != nil:
		b := p.GT.Bytes()
		return b[:]
	default:
		return nil
	}
}

// Add adds two points of the same group.
func Add(a, b *Point) (*Point, error) {
	switch {
	case a.G1 != nil && b.G1 != nil:
		var r bls12381.G1Affine
		var j bls12381.G1Jac
		j.FromAffine(a.G1)
		j.AddMixed(b.G1)
		r.FromJacobian(&j)
		return &Point{G1: &r}, nil
	case a.G2 != nil && b.G2 != nil:
		var r bls12381.G2Affine
		var j bls12381.G2Jac
		j.FromAffine(a.G2)
		j.AddMixed(b.G2)
		r.FromJacobian(&j)
		return &Point{G2: &r}, nil
	case a.GT != nil && b.GT != nil:
		var r bls12381.GT
		r.Mul(a.GT, b.GT)
		return &Point{GT: &r}, nil
	default:
		return nil, errors.New("mismatched or unsupported point kinds for addition")
	}
}

// Mul scalar-multiplies a G1 or G2 point by k (a big-endian scalar,
// reduced mod the group order).
func Mul(p *Point, k []byte) (*Point, error) {
	var scalar fr.Element
	scalar.SetBytes(k)
	bi := new(big.Int)
	scalar.BigInt(bi)

	switch {
	case p.G1 != nil:
		var r bls12381.G1Affine
		r.ScalarMultiplication(p.G1, bi)
		return &Point{G1: &r}, nil
	case p.G2 != nil:
		var r bls12381.G2Affine
		r.ScalarMultiplication(p.G2, bi)
		return &Point{G2: &r}, nil
	default:
		return nil, errors.New("scalar multiplication requires a G1 or G2 point")
	}
}

// Neg negates a G1 or G2 point.
func Neg(p *Point) (*Point, error) {
	switch {
	case p.G1 != nil:
		var r bls12381.G1Affine
		r.Neg(p.G1)
		return &Point{G1: &r}, nil
	case p.G2 != nil:
		var r bls12381.G2Affine
		r.Neg(p.G2)
		return &Point{G2: &r}, nil
	default:
		return nil, errors.New("negation requires a G1 or G2 point")
	}
}

// Pairing computes e(g1, g2) as a GT element.
func Pairing(g1 *Point, g2 *Point) (*Point, error) {
	if g1.G1 == nil || g2.G2 == nil {
		return nil, errors.New("pairing requires a G1 point and a G2 point")
	}
	gt, err := bls12381.Pair([]bls12381.G1Affine{*g1.G1}, []bls12381.G2Affine{*g2.G2})
	if err != nil {
		return nil, err
	}
	return &Point{GT: &gt}, nil
}

// MultiPairing computes the product of e(g1[i], g2[i]) over all i, which
// is cheaper than multiplying individual pairings because the final
// exponentiation runs once.
func MultiPairing(g1s []*Point, g2s []*Point) (*Point, error) {
	if len(g1s) != len(g2s) || len(g1s) == 0 {
		return nil, errors.New("multi-pairing requires equal non-zero length inputs")
	}
	a := make([]bls12381.G1Affine, len(g1s))
	b := make([]bls12381.G2Affine, len(g2s))
	for i := range g1s {
		if g1s[i].G1 == nil || g2s[i].G2 == nil {
			return nil, errors.New("multi-pairing inputs must be G1/G2 points")
		}
		a[i] = *g1s[i].G1
		b[i] = *g2s[i].G2
	}
	gt, err := bls12381.Pair(a, b)
	if err != nil {
		return nil, err
	}
	return &Point{GT: &gt}, nil
}
