package math

import (
	"fmt"

	"github.com/smartcontractkit/tfheartifacts/internal/codec"
	"github.com/smartcontractkit/tfheartifacts/internal/versioning"
)

// SerializableFp is the persisted form of a field element: its canonical value as 64-bit limbs, least significant limb
// first. The number of limbs is only checked against a field when converting back to an Element.
type SerializableFp struct {
	Val []uint64
}

func NewSerializableFp(x *Element) SerializableFp {
	return SerializableFp{Val: x.Limbs()}
}

// Element converts the limbs back to an element of the given field. It fails with a *SizeMismatchError if the number
// of limbs differs from field.Limbs(), and with ErrNonCanonical if the value is not smaller than the field's modulus.
func (s SerializableFp) Element(field *Field) (*Element, error) {
	return field.FromLimbs(s.Val)
}

func (s SerializableFp) MarshalTo(target codec.Target) {
	target.WriteUint64s(s.Val)
}

func (s *SerializableFp) UnmarshalFrom(src codec.Source) SerializableFp {
	s.Val = src.ReadUint64s()
	return *s
}

// AffineKind is the discriminant of a SerializableAffine.
type AffineKind uint32

const (
	AffineInfinity AffineKind = iota
	AffineCompressed
	AffineUncompressed
)

func (k AffineKind) String() string {
	switch k {
	case AffineInfinity:
		return "infinity"
	case AffineCompressed:
		return "compressed"
	case AffineUncompressed:
		return "uncompressed"
	default:
		return fmt.Sprintf("AffineKind(%d)", uint32(k))
	}
}

// SerializableAffine is the persisted form of an affine point. Depending on Kind, it stores nothing (the point at
// infinity), the x-coordinate together with the sign of y (TakeLargestY), or both coordinates.
type SerializableAffine struct {
	Kind         AffineKind
	X            SerializableFp
	Y            SerializableFp
	TakeLargestY bool
}

// Compressed returns the (x, sign) encoding of p. The sign is set if y is the larger of {y, -y}.
func Compressed(p *AffinePoint) SerializableAffine {
	if p.IsInfinity() {
		return SerializableAffine{Kind: AffineInfinity}
	}
	return SerializableAffine{
		Kind:         AffineCompressed,
		X:            NewSerializableFp(p.x),
		TakeLargestY: p.HasLargestY(),
	}
}

// Uncompressed returns the (x, y) encoding of p.
func Uncompressed(p *AffinePoint) SerializableAffine {
	if p.IsInfinity() {
		return SerializableAffine{Kind: AffineInfinity}
	}
	return SerializableAffine{
		Kind: AffineUncompressed,
		X:    NewSerializableFp(p.x),
		Y:    NewSerializableFp(p.y),
	}
}

// Point converts the encoding to a point of the given curve. Compressed encodings are decompressed, and fail with an
// *InvalidPointError if x is not the abscissa of a point on the curve. Uncompressed encodings are converted as is, the
// result is not checked to be on the curve.
func (s SerializableAffine) Point(curve Curve) (*AffinePoint, error) {
	switch s.Kind {
	case AffineInfinity:
		return curve.Infinity(), nil
	case AffineCompressed:
		x, err := s.X.Element(curve.Field())
		if err != nil {
			return nil, fmt.Errorf("invalid compressed x-coordinate: %w", err)
		}
		return curve.Decompress(x, s.TakeLargestY)
	case AffineUncompressed:
		x, err := s.X.Element(curve.Field())
		if err != nil {
			return nil, fmt.Errorf("invalid x-coordinate: %w", err)
		}
		y, err := s.Y.Element(curve.Field())
		if err != nil {
			return nil, fmt.Errorf("invalid y-coordinate: %w", err)
		}
		return curve.Point(x, y), nil
	default:
		return nil, fmt.Errorf("%w: invalid affine point kind %s", codec.ErrMalformed, s.Kind)
	}
}

// MustPoint is like Point, but panics on failure. Use it in unmarshalers.
func (s SerializableAffine) MustPoint(curve Curve) *AffinePoint {
	p, err := s.Point(curve)
	if err != nil {
		panic(err)
	}
	return p
}

func (s SerializableAffine) MarshalTo(target codec.Target) {
	target.WriteUint32(uint32(s.Kind))
	switch s.Kind {
	case AffineInfinity:
	case AffineCompressed:
		s.X.MarshalTo(target)
		target.WriteBool(s.TakeLargestY)
	case AffineUncompressed:
		s.X.MarshalTo(target)
		s.Y.MarshalTo(target)
	default:
		panic(fmt.Sprintf("invalid affine point kind %s", s.Kind))
	}
}

func (s *SerializableAffine) UnmarshalFrom(src codec.Source) SerializableAffine {
	*s = SerializableAffine{Kind: AffineKind(src.ReadUint32())}
	switch s.Kind {
	case AffineInfinity:
	case AffineCompressed:
		s.X.UnmarshalFrom(src)
		s.TakeLargestY = src.ReadBool()
	case AffineUncompressed:
		s.X.UnmarshalFrom(src)
		s.Y.UnmarshalFrom(src)
	default:
		panic(fmt.Errorf("%w: invalid affine point kind %s", codec.ErrMalformed, s.Kind))
	}
	return *s
}

// Both encodings have a single shape so far. Nested in other persisted values, they are written as tagged records so
// that a later shape can be introduced without touching the containers.
var (
	SerializableFpVersions = versioning.New("SerializableFp",
		versioning.Current(
			func(target codec.Target, s SerializableFp) { s.MarshalTo(target) },
			func(src codec.Source) SerializableFp { return new(SerializableFp).UnmarshalFrom(src) },
		))

	SerializableAffineVersions = versioning.New("SerializableAffine",
		versioning.Current(
			func(target codec.Target, s SerializableAffine) { s.MarshalTo(target) },
			func(src codec.Source) SerializableAffine { return new(SerializableAffine).UnmarshalFrom(src) },
		))
)
