// Package conformance defines how decoded values are checked against caller supplied parameter sets.
//
// Decoding only establishes that bytes describe a well-formed value. Whether the value is fit for use (e.g., a key for
// the expected parameters, a list of the expected length) depends on context only the caller has. A type opts into
// the check by implementing ParameterSetConformant for its parameter type. The check is a pure predicate, the same
// value can be validated against any number of parameter sets.
package conformance

import "fmt"

// ParameterSetConformant is implemented by types that can be validated against a parameter set of type P.
type ParameterSetConformant[P any] interface {
	IsConformant(params P) bool
}

// ListSizeConstraint restricts the number of elements of a list to a closed range.
type ListSizeConstraint struct {
	min int
	max int
}

// ExactSize accepts lists of exactly size elements.
func ExactSize(size int) ListSizeConstraint {
	return ListSizeConstraint{min: size, max: size}
}

// TrySizeInRange accepts lists of min to max (inclusive) elements.
func TrySizeInRange(min, max int) (ListSizeConstraint, error) {
	if min < 0 || min > max {
		return ListSizeConstraint{}, fmt.Errorf("invalid list size range: min %d, max %d", min, max)
	}
	return ListSizeConstraint{min: min, max: max}, nil
}

func (c ListSizeConstraint) Min() int {
	return c.min
}

func (c ListSizeConstraint) Max() int {
	return c.max
}

func (c ListSizeConstraint) IsValid(size int) bool {
	return c.min <= size && size <= c.max
}

func (c ListSizeConstraint) String() string {
	if c.min == c.max {
		return fmt.Sprintf("exactly %d", c.min)
	}
	return fmt.Sprintf("%d..=%d", c.min, c.max)
}
