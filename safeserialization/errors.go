package safeserialization

import (
	"errors"
	"fmt"

	"github.com/smartcontractkit/tfheartifacts/internal/codec"
	"github.com/smartcontractkit/tfheartifacts/internal/crypto/math"
	"github.com/smartcontractkit/tfheartifacts/internal/versioning"
)

// Kind classifies why serialization or deserialization of an artifact failed.
type Kind string

const (
	KindMalformed         Kind = "MALFORMED"
	KindSizeExceeded      Kind = "SIZE_EXCEEDED"
	KindHeaderMismatch    Kind = "HEADER_MISMATCH"
	KindUpgradeFailed     Kind = "UPGRADE_FAILED"
	KindInvalidPoint      Kind = "INVALID_POINT"
	KindConformanceFailed Kind = "CONFORMANCE_FAILED"
	KindEncode            Kind = "ENCODE"
)

// Stage names the part of the artifact that was processed when an error occurred.
type Stage string

const (
	StageHeader      Stage = "header"
	StagePayload     Stage = "payload"
	StageConformance Stage = "conformance"
)

// Error is returned by all functions of this package. Cause, if set, is the underlying error of a lower layer (e.g.,
// *codec.LimitError, *versioning.UpgradeError, *math.InvalidPointError), it can be inspected using errors.As.
type Error struct {
	Kind    Kind
	Stage   Stage
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s (%s): %s", e.Kind, e.Stage, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func newError(kind Kind, stage Stage, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Stage: stage, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Maps an error raised while encoding or decoding one of the artifact's records to its kind. The checks are ordered:
// an invalid point nested in a failed upgrade is reported as upgrade failure.
func classify(err error) Kind {
	switch {
	case errors.Is(err, codec.ErrSizeLimitExceeded):
		return KindSizeExceeded
	case errors.Is(err, versioning.ErrUpgrade):
		return KindUpgradeFailed
	case errors.Is(err, math.ErrInvalidPoint):
		return KindInvalidPoint
	default:
		return KindMalformed
	}
}
