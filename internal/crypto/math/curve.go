package math

// Curve is an elliptic curve in short Weierstrass form y² = x³ + ax + b over a prime field.
type Curve interface {
	// prevent outside packages from implementing this interface, points rely on the curve's field being shared
	internal()

	// Returns the name of the curve.
	// This is used for debugging and logging purposes.
	Name() string

	// Returns the base field of the curve, the domain of the point coordinates.
	Field() *Field

	// Returns copies of the curve's coefficients a and b.
	A() *Element
	B() *Element

	// c.Generator() returns the (affine) base point of the curve's prime order subgroup.
	// This function returns a copy, the caller may modify it.
	Generator() *AffinePoint

	// c.Infinity() returns the point at infinity (the group's identity).
	Infinity() *AffinePoint

	// c.IsOnCurve(x, y) reports whether y² = x³ + ax + b holds.
	IsOnCurve(x, y *Element) bool

	// c.NewPoint(x, y) returns the point (x, y), or an InvalidPointError if it is not on the curve.
	NewPoint(x, y *Element) (*AffinePoint, error)

	// c.Point(x, y) returns the point (x, y) without checking that it is on the curve.
	Point(x, y *Element) *AffinePoint

	// c.Decompress(x, takeLargestY) recovers the point with abscissa x. Of the two candidate ordinates y and -y, the
	// larger one (as unsigned integers) is selected if takeLargestY is set, the smaller one otherwise. An
	// InvalidPointError is returned if x³ + ax + b is not a square.
	Decompress(x *Element, takeLargestY bool) (*AffinePoint, error)
}
