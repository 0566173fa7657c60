// Prime field arithmetic based on the bigmod package from Go's internal stdlib, exported via filippo.io/bigmod.
// Only the operations required by the point codec are provided: addition, multiplication, negation, square roots and
// the total order used to pick the canonical sign of a compressed point.

package math

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/big"

	"filippo.io/bigmod"
)

// LimbSize is the size of a single limb of a serialized field element in bytes.
const LimbSize = 8

// Field is a prime field GF(p). Only primes p = 3 (mod 4) are supported, for which the square root of a quadratic
// residue a is given by a^((p+1)/4).
type Field struct {
	name         string
	modulus      *Modulus
	limbs        int
	sqrtExponent []byte
}

// Non-constant time function, to be used for initialization only.
// Panics if the modulus is not a prime of the form p = 3 (mod 4) (only the form is checked).
func NewField(name string, modulus string) *Field {
	m := NewModulus(modulus)
	p := m.bigInt()
	if p.Bit(0) != 1 || p.Bit(1) != 1 {
		panic("unsupported field modulus for " + name + ": p != 3 (mod 4)")
	}
	e := new(big.Int).Add(p, big.NewInt(1))
	e.Rsh(e, 2)
	return &Field{
		name:         name,
		modulus:      m,
		limbs:        (m.BitLen() + 63) / 64,
		sqrtExponent: e.Bytes(),
	}
}

func (f *Field) Name() string {
	return f.name
}

func (f *Field) Modulus() *Modulus {
	return f.modulus
}

// Limbs returns the fixed number of 64-bit limbs of a serialized field element.
func (f *Field) Limbs() int {
	return f.limbs
}

// Zero returns a new element set to 0.
func (f *Field) Zero() *Element {
	return &Element{bigmod.NewNat().ExpandFor(&f.modulus.value), f}
}

// FromUint returns a new element set to v, v must be smaller than the modulus.
func (f *Field) FromUint(v uint) *Element {
	return &Element{bigmod.NewNat().SetUint(v).ExpandFor(&f.modulus.value), f}
}

// FromBytes returns the element represented by the big-endian encoding b. The encoding must not be longer than the
// modulus, and must represent a value smaller than the modulus.
func (f *Field) FromBytes(b []byte) (*Element, error) {
	if len(b) > f.modulus.Size() {
		return nil, ErrNonCanonical
	}
	n, err := bigmod.NewNat().SetBytes(b, &f.modulus.value)
	if err != nil {
		return nil, ErrNonCanonical
	}
	return &Element{n, f}, nil
}

// FromLimbs returns the element represented by the given limbs (least significant limb first). The number of limbs
// must match Limbs() exactly, and the represented value must be smaller than the modulus.
func (f *Field) FromLimbs(limbs []uint64) (*Element, error) {
	if len(limbs) != f.limbs {
		return nil, &SizeMismatchError{Expected: f.limbs, Found: len(limbs)}
	}
	buf := make([]byte, f.limbs*LimbSize)
	for i, limb := range limbs {
		binary.BigEndian.PutUint64(buf[len(buf)-(i+1)*LimbSize:], limb)
	}
	excess := len(buf) - f.modulus.Size()
	for _, b := range buf[:excess] {
		if b != 0 {
			return nil, ErrNonCanonical
		}
	}
	return f.FromBytes(buf[excess:])
}

// Random returns an element statistically close to uniform in {0, 1, ..., p - 1}. A constant number of bytes is read
// from rand, and the same element is deterministically derived from the same input.
func (f *Field) Random(rand io.Reader) (*Element, error) {
	// Read entropy from the provided io.Reader, 128 bits (16 bytes) more than the modulus size.
	rngBytes := make([]byte, f.modulus.Size()+16)
	if _, err := io.ReadFull(rand, rngBytes); err != nil {
		return nil, err
	}

	// Build a modulus that is larger than rngBytes (when interpreted as big-endian number).
	largeModBytes := make([]byte, len(rngBytes)+1)
	largeModBytes[0] = 1
	largeMod, err := bigmod.NewModulus(largeModBytes)
	if err != nil {
		return nil, err
	}

	t := bigmod.NewNat()
	if _, err := t.SetBytes(rngBytes, largeMod); err != nil {
		return nil, err
	}
	return &Element{bigmod.NewNat().Mod(t, &f.modulus.value), f}, nil
}

// Element is an element of a prime field. Elements of different fields are not compatible, and cannot be used together
// in arithmetic operations. Executing any arithmetic operation on elements of different fields results in a panic.
type Element struct {
	value *bigmod.Nat
	field *Field
}

func (x *Element) Field() *Field {
	return x.field
}

// Returns an independent copy of the element.
func (x *Element) Clone() *Element {
	n, err := bigmod.NewNat().SetBytes(x.Bytes(), &x.field.modulus.value)
	if err != nil {
		panic("cloning field element failed: " + err.Error())
	}
	return &Element{n, x.field}
}

// x.Add(y) computes x = x + y (mod p), and returns x.
func (x *Element) Add(y *Element) *Element {
	requireSameField(x, y)
	x.value.Add(y.value, &x.field.modulus.value)
	return x
}

// x.Subtract(y) computes x = x - y (mod p), and returns x.
func (x *Element) Subtract(y *Element) *Element {
	requireSameField(x, y)
	x.value.Sub(y.value, &x.field.modulus.value)
	return x
}

// x.Multiply(y) computes x = x * y (mod p), and returns x.
func (x *Element) Multiply(y *Element) *Element {
	requireSameField(x, y)
	if x == y {
		y = y.Clone()
	}
	x.value.Mul(y.value, &x.field.modulus.value)
	return x
}

// x.Square() computes x = x² (mod p), and returns x.
func (x *Element) Square() *Element {
	return x.Multiply(x)
}

// x.Negate() computes x = -x (mod p), and returns x.
func (x *Element) Negate() *Element {
	zero := bigmod.NewNat().ExpandFor(&x.field.modulus.value)
	x.value = zero.Sub(x.value, &x.field.modulus.value)
	return x
}

// x.Sqrt() returns a new element r with r² = x, and true; or nil and false if x is not a quadratic residue. Which of
// the two roots is returned is unspecified, use the canonical order (Cmp) to select one.
func (x *Element) Sqrt() (*Element, bool) {
	r := &Element{bigmod.NewNat().Exp(x.value, x.field.sqrtExponent, &x.field.modulus.value), x.field}
	if !r.Clone().Square().Equal(x) {
		return nil, false
	}
	return r, true
}

// x.IsZero() returns true if x is zero, and false otherwise.
func (x *Element) IsZero() bool {
	return x.value.IsZero() == 1
}

// x.Equal(y) tests two elements for equality, elements of different fields are never equal.
func (x *Element) Equal(y *Element) bool {
	return x == y || (x.field == y.field && x.value.Equal(y.value) == 1)
}

// x.Cmp(y) compares the canonical values of x and y as unsigned integers. It returns -1 if x < y, 0 if x == y and +1
// if x > y. This is the total order which determines the sign bit of compressed points.
func (x *Element) Cmp(y *Element) int {
	requireSameField(x, y)
	return bytes.Compare(x.Bytes(), y.Bytes())
}

// x.IsLargest() reports whether x > -x in the canonical order.
func (x *Element) IsLargest() bool {
	return x.Cmp(x.Clone().Negate()) > 0
}

// x.Bytes() returns the fixed-length big-endian encoding of x's canonical value.
func (x *Element) Bytes() []byte {
	return x.value.Bytes(&x.field.modulus.value)
}

// x.Limbs() returns the canonical value of x as Field().Limbs() 64-bit limbs, least significant limb first.
func (x *Element) Limbs() []uint64 {
	b := x.Bytes()
	buf := make([]byte, x.field.limbs*LimbSize)
	copy(buf[len(buf)-len(b):], b)

	limbs := make([]uint64, x.field.limbs)
	for i := range limbs {
		limbs[i] = binary.BigEndian.Uint64(buf[len(buf)-(i+1)*LimbSize:])
	}
	return limbs
}

// x.String() returns a human readable representation of the element's value. It is a non-constant time function, to be
// used for testing purposes.
func (x *Element) String() string {
	return new(big.Int).SetBytes(x.Bytes()).String()
}

func requireSameField(x, y *Element) {
	if x.field != y.field {
		panic("field elements belong to different fields")
	}
}
