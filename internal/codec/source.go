package codec

import (
	"encoding/binary"
	"fmt"
)

// Internal representation for a source of bytes to be unmarshaled. The buffer slice is modified during reading.
// If limit is positive, the source refuses to hand out more than limit bytes in total (counted since the last call to
// SetLimit). The check happens before bytes are copied, so a hostile length prefix never causes an allocation.
type source struct {
	buffer   []byte
	limit    int
	consumed int
}

// Available returns the number of bytes that are still available for reading from the source.
func (s *source) Available() int {
	return len(s.buffer)
}

// Consumed returns the number of bytes read since the source was created or since the last call to SetLimit.
func (s *source) Consumed() int {
	return s.consumed
}

// SetLimit starts a new accounting segment: the consumed counter is reset and at most limit further bytes may be read
// (0 means unlimited).
func (s *source) SetLimit(limit int) {
	s.limit = limit
	s.consumed = 0
}

// Finish returns an error if unread bytes remain in the source.
func (s *source) Finish() error {
	if len(s.buffer) > 0 {
		return malformed("unmarshaling did not consume all bytes, %d bytes remaining", len(s.buffer))
	}
	return nil
}

// Returns the remaining number of bytes the source may hand out, taking both the limit and the buffer into account.
func (s *source) remaining() int {
	if s.limit > 0 && s.limit-s.consumed < len(s.buffer) {
		return s.limit - s.consumed
	}
	return len(s.buffer)
}

// take consumes n bytes from the buffer, enforcing the limit before the buffer length.
func (s *source) take(n int, operation string) []byte {
	if n < 0 {
		panic(malformed("%s called with negative length %d", operation, n))
	}
	if s.limit > 0 && s.consumed+n > s.limit {
		panic(&LimitError{Limit: s.limit, Required: s.consumed + n})
	}
	if len(s.buffer) < n {
		panic(malformed("%s called, %d bytes required, but only %d bytes available", operation, n, len(s.buffer)))
	}
	value := s.buffer[:n:n] // limit cap(value) to prevent overwriting the source's buffer on append
	s.buffer = s.buffer[n:]
	s.consumed += n
	return value
}

// ReadInt reads a 32-bit signed integer from the source in LittleEndian byte order.
// It panics if not enough bytes are available in the source.
func (s *source) ReadInt() int {
	return int(int32(binary.LittleEndian.Uint32(s.take(IntSize, "ReadInt"))))
}

// ReadNonNegativeInt reads a non-negative 32-bit signed integer from the source in LittleEndian byte order.
// It panics if not enough bytes are available in the source or if the read integer is negative.
func (s *source) ReadNonNegativeInt() int {
	value := s.ReadInt()
	if value < 0 {
		panic(malformed("ReadNonNegativeInt call failed, negative value %d read", value))
	}
	return value
}

// ReadUint8 reads a single byte from the source.
func (s *source) ReadUint8() uint8 {
	return s.take(1, "ReadUint8")[0]
}

// ReadUint32 reads an unsigned 32-bit integer from the source in LittleEndian byte order.
func (s *source) ReadUint32() uint32 {
	return binary.LittleEndian.Uint32(s.take(4, "ReadUint32"))
}

// ReadUint64 reads an unsigned 64-bit integer from the source in LittleEndian byte order.
func (s *source) ReadUint64() uint64 {
	return binary.LittleEndian.Uint64(s.take(8, "ReadUint64"))
}

// ReadBool reads a boolean value from the source. Only the canonical encodings 0 and 1 are accepted.
// It panics if not enough bytes are available in the source.
func (s *source) ReadBool() bool {
	switch b := s.take(1, "ReadBool")[0]; b {
	case 0:
		return false
	case 1:
		return true
	default:
		panic(malformed("ReadBool call failed, invalid value %d", b))
	}
}

// ReadLength reads a non-negative element count, and checks that count elements of elementSize bytes each can still
// be read from the source. Use it before allocating a slice for the elements.
func (s *source) ReadLength(elementSize int) int {
	count := s.ReadNonNegativeInt()
	if elementSize <= 0 || count == 0 {
		return count
	}
	if count > s.remaining()/elementSize {
		required := s.consumed + count*elementSize
		if s.limit > 0 && required > s.limit {
			panic(&LimitError{Limit: s.limit, Required: required})
		}
		panic(malformed("length %d (of %d byte elements) exceeds the %d available bytes", count, elementSize, s.remaining()))
	}
	return count
}

// ReadUint64s reads a length-prefixed vector of unsigned 64-bit integers.
func (s *source) ReadUint64s() []uint64 {
	count := s.ReadLength(8)
	values := make([]uint64, count)
	for i := range values {
		values[i] = s.ReadUint64()
	}
	return values
}

// ReadBytesInto reads from the source to fill the provided buffer.
// It panics if not enough bytes are available in the source.
func (s *source) ReadBytesInto(buffer []byte) {
	copy(buffer, s.take(len(buffer), "ReadBytesInto"))
}

// ReadLengthPrefixedBytes reads a length-prefixed byte slice from the source. The length is encoded as a 32-bit signed
// integer in LittleEndian byte order. A length of -1 indicates a nil slice. It panics if not enough bytes are available
// in the source or if the length is negative (and not -1).
func (s *source) ReadLengthPrefixedBytes() []byte {
	length := s.ReadInt()

	// nil marker
	if length == -1 {
		return nil
	}
	if length < 0 {
		panic(malformed("ReadLengthPrefixedBytes call failed, negative length field"))
	}

	return s.take(length, "ReadLengthPrefixedBytes")
}

// ReadString reads a length-prefixed string from the source. The length is encoded as a 32-bit signed integer in
// LittleEndian byte order. It panics if not enough bytes are available in the source or if the length is negative.
func (s *source) ReadString() string {
	length := s.ReadInt()
	if length < 0 {
		panic(malformed("ReadString call failed, negative length field"))
	}
	return string(s.take(length, "ReadString"))
}

func (s *source) String() string {
	return fmt.Sprintf("source{available: %d, consumed: %d, limit: %d}", len(s.buffer), s.consumed, s.limit)
}
