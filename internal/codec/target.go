package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// A target accumulates the encoding of marshaled objects. If limit is positive, the target refuses to grow beyond
// limit bytes (counted since the last call to SetLimit).
type target struct {
	buffer  []byte
	limit   int
	segment int
}

func (t *target) Written() int {
	return len(t.buffer)
}

// Bytes returns the encoding written so far. The returned slice aliases the target's buffer.
func (t *target) Bytes() []byte {
	return t.buffer
}

// SetLimit starts a new accounting segment, at most limit further bytes may be written (0 means unlimited).
func (t *target) SetLimit(limit int) {
	t.limit = limit
	t.segment = len(t.buffer)
}

// reserve checks that n more bytes fit into the current segment.
func (t *target) reserve(n int) {
	if t.limit > 0 && len(t.buffer)-t.segment+n > t.limit {
		panic(&LimitError{Limit: t.limit, Required: len(t.buffer) - t.segment + n})
	}
}

// Marshals the given object into the this target. Panics, which may be raised by the marshaling of child objects,
// are recovered and returned as errors. To propagate (i.e., not catch) the panic use target.Write(...) instead.
func (t *target) Marshal(object Marshaler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered("marshaling", r)
		}
	}()

	t.Write(object)
	return nil
}

// Write the given object into this target. This is just an alias for object.MarshalTo(target). The given object must
// not be nil. Panics raised during marshaling are NOT recovered and must be handled by the caller. To recover from
// panics use target.Marshal(object) instead. However, at the top-level codec.Marshal(...) function panics are always
// recovered.
func (t *target) Write(object Marshaler) {
	if object == nil {
		panic("Write called with nil object")
	}
	object.MarshalTo(t)
}

func (t *target) WriteInt(value int) {
	if value > math.MaxInt32 || value < math.MinInt32 {
		panic(fmt.Sprintf("WriteInt called with value %d, which is out of range of int32", value))
	}
	t.reserve(IntSize)
	t.buffer = binary.LittleEndian.AppendUint32(t.buffer, uint32(value))
}

func (t *target) WriteUint8(value uint8) {
	t.reserve(1)
	t.buffer = append(t.buffer, value)
}

func (t *target) WriteUint32(value uint32) {
	t.reserve(4)
	t.buffer = binary.LittleEndian.AppendUint32(t.buffer, value)
}

func (t *target) WriteUint64(value uint64) {
	t.reserve(8)
	t.buffer = binary.LittleEndian.AppendUint64(t.buffer, value)
}

// WriteUint64s writes a length-prefixed vector of unsigned 64-bit integers.
func (t *target) WriteUint64s(values []uint64) {
	t.WriteInt(len(values))
	t.reserve(8 * len(values))
	for _, v := range values {
		t.buffer = binary.LittleEndian.AppendUint64(t.buffer, v)
	}
}

func (t *target) WriteBool(value bool) {
	if value {
		t.WriteUint8(1)
	} else {
		t.WriteUint8(0)
	}
}

func (t *target) WriteBytes(value []byte) {
	t.reserve(len(value))
	t.buffer = append(t.buffer, value...)
}

func (t *target) WriteLengthPrefixedBytes(value []byte) {
	if value == nil {
		t.WriteInt(-1)
		return
	}
	t.WriteInt(len(value))
	t.WriteBytes(value)
}

func (t *target) WriteString(value string) {
	t.WriteInt(len(value))
	t.reserve(len(value))
	t.buffer = append(t.buffer, value...)
}
