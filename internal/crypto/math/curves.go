package math

import (
	"fmt"
	"math/big"
)

var SupportedCurves = []Curve{
	P256,
	Secp256k1,
	BLS12381G1,
}

// See:
//   - https://nvlpubs.nist.gov/nistpubs/SpecialPublications/NIST.SP.800-186.pdf
//   - https://www.secg.org/sec2-v2.pdf
//   - https://datatracker.ietf.org/doc/draft-irtf-cfrg-pairing-friendly-curves/

// NIST 800-186, Section 3.2.1.3
var P256 Curve = newWeierstrassCurve(
	"P256",
	"0xffffffff00000001000000000000000000000000ffffffffffffffffffffffff",
	"-3",
	"0x5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b",
	"0x6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
	"0x4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
)

// SEC 2, Section 2.4.1
var Secp256k1 Curve = newWeierstrassCurve(
	"secp256k1",
	"0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f",
	"0",
	"7",
	"0x79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
	"0x483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8",
)

// The G1 group of BLS12-381, the curve of the zero-knowledge public parameters.
var BLS12381G1 Curve = newWeierstrassCurve(
	"BLS12-381-G1",
	"0x1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab",
	"0",
	"4",
	"0x17f1d3a73197d7942695638c4fa9ac0fc3688c4f9774b905a14e3a3f171bac586c55e83ff97a1aeffb3af00adb22c6bb",
	"0x08b3f481e3aaa0f1a09e30ed741d8ae4fcf5e095d5d00af600db18cb2c04b3edd03cc744a2888ae40caa232946c5e7e1",
)

type weierstrassCurve struct {
	name   string
	field  *Field
	a, b   *Element
	gx, gy *Element
}

// Non-constant time function, to be used for initialization only.
func newWeierstrassCurve(name, p, a, b, gx, gy string) *weierstrassCurve {
	field := NewField(name, p)
	c := &weierstrassCurve{
		name:  name,
		field: field,
		a:     mustElement(field, a),
		b:     mustElement(field, b),
		gx:    mustElement(field, gx),
		gy:    mustElement(field, gy),
	}
	if !c.IsOnCurve(c.gx, c.gy) {
		panic("generator of " + name + " is not on the curve")
	}
	return c
}

// Parses a (possibly negative) integer constant, and reduces it by the field's modulus.
func mustElement(field *Field, value string) *Element {
	n, ok := new(big.Int).SetString(value, 0)
	if !ok {
		panic("invalid field constant: " + value)
	}
	n.Mod(n, field.modulus.bigInt())
	e, err := field.FromBytes(n.Bytes())
	if err != nil {
		panic("invalid field constant: " + value + ", error: " + err.Error())
	}
	return e
}

func (c *weierstrassCurve) internal() {}

func (c *weierstrassCurve) Name() string   { return c.name }
func (c *weierstrassCurve) Field() *Field  { return c.field }
func (c *weierstrassCurve) A() *Element    { return c.a.Clone() }
func (c *weierstrassCurve) B() *Element    { return c.b.Clone() }
func (c *weierstrassCurve) String() string { return c.name }

func (c *weierstrassCurve) Generator() *AffinePoint {
	return &AffinePoint{curve: c, x: c.gx.Clone(), y: c.gy.Clone()}
}

func (c *weierstrassCurve) Infinity() *AffinePoint {
	return &AffinePoint{curve: c, infinity: true}
}

// Computes x³ + ax + b.
func (c *weierstrassCurve) rhs(x *Element) *Element {
	return x.Clone().Square().Add(c.a).Multiply(x).Add(c.b)
}

func (c *weierstrassCurve) IsOnCurve(x, y *Element) bool {
	c.requireField(x)
	c.requireField(y)
	return y.Clone().Square().Equal(c.rhs(x))
}

func (c *weierstrassCurve) NewPoint(x, y *Element) (*AffinePoint, error) {
	if !c.IsOnCurve(x, y) {
		return nil, &InvalidPointError{Curve: c.name, Reason: "coordinates do not satisfy the curve equation"}
	}
	return c.Point(x, y), nil
}

func (c *weierstrassCurve) Point(x, y *Element) *AffinePoint {
	c.requireField(x)
	c.requireField(y)
	return &AffinePoint{curve: c, x: x.Clone(), y: y.Clone()}
}

func (c *weierstrassCurve) Decompress(x *Element, takeLargestY bool) (*AffinePoint, error) {
	c.requireField(x)
	y, ok := c.rhs(x).Sqrt()
	if !ok {
		return nil, &InvalidPointError{Curve: c.name, Reason: "x³ + ax + b is not a square for x = " + x.String()}
	}
	if y.IsLargest() != takeLargestY {
		y.Negate()
	}
	return &AffinePoint{curve: c, x: x.Clone(), y: y}, nil
}

func (c *weierstrassCurve) requireField(x *Element) {
	if x.field != c.field {
		panic(fmt.Sprintf("field element of %s used with curve %s", x.field.name, c.name))
	}
}
