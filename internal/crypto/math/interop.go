package math

import (
	"errors"
	"fmt"

	"filippo.io/nistec"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/cloudflare/circl/ecc/bls12381"
)

// Conversions between affine points and the point types of the libraries implementing the group arithmetic. Points are
// exchanged through the libraries' uncompressed (x, y) encodings, which they validate on import.

var errInfinityNotRepresentable = errors.New("the point at infinity has no secp256k1 public key representation")

// Flags in the most significant bits of circl's (zcash style) BLS12-381 encodings.
const (
	circlCompressedFlag = 0x80
	circlInfinityFlag   = 0x40
	circlSortFlag       = 0x20
	circlFlagMask       = circlCompressedFlag | circlInfinityFlag | circlSortFlag
)

func ToNistecP256(p *AffinePoint) (*nistec.P256Point, error) {
	if err := requireCurve(p, P256); err != nil {
		return nil, err
	}
	if p.IsInfinity() {
		return nistec.NewP256Point(), nil
	}
	return nistec.NewP256Point().SetBytes(uncompressedSEC1(p))
}

func FromNistecP256(q *nistec.P256Point) (*AffinePoint, error) {
	b := q.Bytes()
	if len(b) == 1 {
		return P256.Infinity(), nil
	}
	return fromSEC1(P256, b)
}

// ToBtcec fails for the point at infinity, which is not a valid public key.
func ToBtcec(p *AffinePoint) (*btcec.PublicKey, error) {
	if err := requireCurve(p, Secp256k1); err != nil {
		return nil, err
	}
	if p.IsInfinity() {
		return nil, errInfinityNotRepresentable
	}
	return btcec.ParsePubKey(uncompressedSEC1(p))
}

func FromBtcec(q *btcec.PublicKey) (*AffinePoint, error) {
	return fromSEC1(Secp256k1, q.SerializeUncompressed())
}

// ToCirclG1 fails for points outside of the prime order subgroup.
func ToCirclG1(p *AffinePoint) (*bls12381.G1, error) {
	if err := requireCurve(p, BLS12381G1); err != nil {
		return nil, err
	}
	g := new(bls12381.G1)
	if p.IsInfinity() {
		g.SetIdentity()
		return g, nil
	}
	b := append(p.x.Bytes(), p.y.Bytes()...)
	if err := g.SetBytes(b); err != nil {
		return nil, err
	}
	return g, nil
}

func FromCirclG1(g *bls12381.G1) (*AffinePoint, error) {
	if g.IsIdentity() {
		return BLS12381G1.Infinity(), nil
	}
	b := g.Bytes()
	size := BLS12381G1.Field().Modulus().Size()
	if len(b) != 2*size || b[0]&circlInfinityFlag != 0 {
		return nil, fmt.Errorf("unexpected BLS12-381 G1 encoding of length %d", len(b))
	}
	b[0] &^= circlFlagMask
	return fromCoordinates(BLS12381G1, b[:size], b[size:])
}

func requireCurve(p *AffinePoint, curve Curve) error {
	if p.curve != curve {
		return fmt.Errorf("point on %s cannot be converted to a %s point", p.curve.Name(), curve.Name())
	}
	return nil
}

// 0x04 || x || y
func uncompressedSEC1(p *AffinePoint) []byte {
	b := []byte{4}
	b = append(b, p.x.Bytes()...)
	return append(b, p.y.Bytes()...)
}

func fromSEC1(curve Curve, b []byte) (*AffinePoint, error) {
	size := curve.Field().Modulus().Size()
	if len(b) != 1+2*size || b[0] != 4 {
		return nil, fmt.Errorf("unexpected uncompressed %s encoding of length %d", curve.Name(), len(b))
	}
	return fromCoordinates(curve, b[1:1+size], b[1+size:])
}

func fromCoordinates(curve Curve, xBytes, yBytes []byte) (*AffinePoint, error) {
	x, err := curve.Field().FromBytes(xBytes)
	if err != nil {
		return nil, err
	}
	y, err := curve.Field().FromBytes(yBytes)
	if err != nil {
		return nil, err
	}
	return curve.NewPoint(x, y)
}
