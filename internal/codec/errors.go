package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed marks input that is truncated, ill-typed or otherwise not a valid encoding.
	ErrMalformed = errors.New("codec: malformed input")

	// ErrSizeLimitExceeded marks an encoding or decoding that would cross the configured byte limit.
	ErrSizeLimitExceeded = errors.New("codec: size limit exceeded")
)

// LimitError is raised when a read or write would consume more bytes than the limit of the source or target.
// It is raised before the corresponding bytes are materialized.
type LimitError struct {
	Limit    int
	Required int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("size limit exceeded: %d bytes required, limit is %d bytes", e.Required, e.Limit)
}

func (e *LimitError) Is(target error) bool {
	return target == ErrSizeLimitExceeded
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// Converts a value recovered from a panic into an error. Errors raised by the codec (or by unmarshalers) are wrapped,
// so errors.Is / errors.As keep working on the result. Other values are reported as malformed input.
func recovered(operation string, r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("recovered panic during %s: %w", operation, err)
	}
	return fmt.Errorf("recovered panic during %s: %w: %v", operation, ErrMalformed, r)
}
