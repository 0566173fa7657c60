package math

import (
	"errors"
	"fmt"

	"github.com/smartcontractkit/tfheartifacts/internal/codec"
)

// ErrInvalidPoint marks coordinates that do not describe a point of the expected curve.
var ErrInvalidPoint = errors.New("invalid curve point")

// ErrNonCanonical is returned for field element encodings that are not fully reduced by the field's modulus.
var ErrNonCanonical = fmt.Errorf("%w: non-canonical field element", codec.ErrMalformed)

type InvalidPointError struct {
	Curve  string
	Reason string
}

func (e *InvalidPointError) Error() string {
	return fmt.Sprintf("invalid %s point: %s", e.Curve, e.Reason)
}

func (e *InvalidPointError) Is(target error) bool {
	return target == ErrInvalidPoint
}

// SizeMismatchError is returned when a limb vector does not have the fixed length of its field.
type SizeMismatchError struct {
	Expected int
	Found    int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("invalid number of limbs: expected %d, found %d", e.Expected, e.Found)
}

func (e *SizeMismatchError) Is(target error) bool {
	return target == codec.ErrMalformed
}
