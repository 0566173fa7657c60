package math

import "fmt"

// AffinePoint is a point (x, y) on a curve, or the point at infinity. Points are values: all methods leave the receiver
// unchanged and return new instances.
//
// An AffinePoint is not necessarily on its curve. Points created via Curve.Point(...) or decoded from an uncompressed
// encoding are not validated, use IsOnCurve() if required.
type AffinePoint struct {
	curve    Curve
	x, y     *Element
	infinity bool
}

func (p *AffinePoint) Curve() Curve {
	return p.curve
}

// p.X() returns a copy of the x-coordinate, nil for the point at infinity.
func (p *AffinePoint) X() *Element {
	if p.infinity {
		return nil
	}
	return p.x.Clone()
}

// p.Y() returns a copy of the y-coordinate, nil for the point at infinity.
func (p *AffinePoint) Y() *Element {
	if p.infinity {
		return nil
	}
	return p.y.Clone()
}

func (p *AffinePoint) IsInfinity() bool {
	return p.infinity
}

func (p *AffinePoint) IsOnCurve() bool {
	return p.infinity || p.curve.IsOnCurve(p.x, p.y)
}

func (p *AffinePoint) Clone() *AffinePoint {
	if p.infinity {
		return p.curve.Infinity()
	}
	return &AffinePoint{curve: p.curve, x: p.x.Clone(), y: p.y.Clone()}
}

// p.Negate() returns (x, -y), the point at infinity is its own negation.
func (p *AffinePoint) Negate() *AffinePoint {
	q := p.Clone()
	if !q.infinity {
		q.y.Negate()
	}
	return q
}

func (p *AffinePoint) Equal(q *AffinePoint) bool {
	if p.curve != q.curve || p.infinity != q.infinity {
		return false
	}
	return p.infinity || (p.x.Equal(q.x) && p.y.Equal(q.y))
}

// p.HasLargestY() reports whether y > -y, i.e., the sign bit of the compressed encoding of p.
func (p *AffinePoint) HasLargestY() bool {
	return !p.infinity && p.y.IsLargest()
}

func (p *AffinePoint) String() string {
	if p.infinity {
		return p.curve.Name() + "(infinity)"
	}
	return fmt.Sprintf("%s(%s, %s)", p.curve.Name(), p.x, p.y)
}
