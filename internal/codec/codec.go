package codec

// High level type definitions for the codec package.
// Use the codec.Marshal(...) and codec.Unmarshal(...) functions for marshaling and unmarshaling.
//
// The encoding is deterministic and schema-less: all integers are fixed-width little-endian values, variable-length
// fields carry an explicit IntSize length prefix, and the reader must know the target type in advance.
//
// Both sources and targets may carry a byte limit. A limit of 0 means "no limit". The limit is checked before any
// bytes are copied or allocated, so a malicious length prefix cannot force a large allocation.
//
// The codec.Unmarshal(...) and codec.UnmarshalFromSource() functions always recover from panics during unmarshaling.

const IntSize = 4

type Marshaler interface {
	MarshalTo(target Target)
}

type Unmarshaler[T any] interface {
	UnmarshalFrom(source Source) T
}

type Target = *target
type Source = *source

// NewTarget returns an empty target which refuses to grow beyond limit bytes (0 means unlimited).
func NewTarget(limit int) Target {
	return &target{limit: limit}
}

// NewSource returns a source reading from data without any byte limit.
func NewSource(data []byte) Source {
	return &source{buffer: data}
}

// NewLimitedSource returns a source reading from data that refuses to consume more than limit bytes (0 means
// unlimited).
func NewLimitedSource(data []byte, limit int) Source {
	return &source{buffer: data, limit: limit}
}

// Marshals the given (non-nil) object into a byte slice.
// Panics during marshaling are recovered and returned as errors.
func Marshal(object Marshaler) ([]byte, error) {
	return MarshalWithLimit(object, 0)
}

// Marshals the given (non-nil) object into a byte slice of at most limit bytes (0 means unlimited).
// Exceeding the limit is reported as an error wrapping ErrSizeLimitExceeded.
func MarshalWithLimit(object Marshaler, limit int) ([]byte, error) {
	target := NewTarget(limit)
	err := target.Marshal(object)
	if err != nil {
		return nil, err
	}
	return target.buffer, nil
}

// Unmarshal the given byte slice into a new instance of type T. The unmarshaler may or may not be implemented by T
// itself. Panics during unmarshaling are recovered and returned as errors. Additionally, this function also checks that
// all input bytes are consumed during unmarshaling, returning an error if any non-read bytes remain.
func Unmarshal[T any](data []byte, unmarshaler Unmarshaler[T]) (result T, err error) {
	src := NewSource(data)
	result, err = UnmarshalFromSource(src, unmarshaler)
	if err != nil {
		return result, err
	}
	if err := src.Finish(); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// Unmarshal the given byte slice into a new instance of type T. The unmarshaling is implemented by the provided
// function. This a wrapper to ensure panics during unmarshaling are recovered and returned as errors. Additionally,
// this function also checks that all input bytes are consumed during unmarshaling, returning an error if any non-read
// bytes remain.
func UnmarshalUsing[T any](data []byte, unmarshalFunc func(Source) T) (result T, err error) {
	src := NewSource(data)
	result, err = UnmarshalFromSourceUsing(src, unmarshalFunc)
	if err != nil {
		return result, err
	}
	if err := src.Finish(); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// Read the next object of type T from the given source using the provided unmarshaler. Panics during unmarshaling are
// recovered and returned as errors. Additional data remaining in the source after unmarshaling is not considered an
// error.
func UnmarshalFromSource[T any](source Source, obj Unmarshaler[T]) (result T, err error) {
	return UnmarshalFromSourceUsing(source, obj.UnmarshalFrom)
}

// Same as UnmarshalFromSource, with the unmarshaling implemented by the provided function.
func UnmarshalFromSourceUsing[T any](source Source, unmarshalFunc func(Source) T) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			err = recovered("unmarshaling", r)
		}
	}()
	return unmarshalFunc(source), nil
}
