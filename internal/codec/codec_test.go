package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	id     int
	flag   bool
	name   string
	limbs  []uint64
	blob   []byte
	digest [4]byte
}

func (r *record) MarshalTo(target Target) {
	target.WriteInt(r.id)
	target.WriteBool(r.flag)
	target.WriteString(r.name)
	target.WriteUint64s(r.limbs)
	target.WriteLengthPrefixedBytes(r.blob)
	target.WriteBytes(r.digest[:])
}

func (r *record) UnmarshalFrom(source Source) *record {
	r.id = source.ReadInt()
	r.flag = source.ReadBool()
	r.name = source.ReadString()
	r.limbs = source.ReadUint64s()
	r.blob = source.ReadLengthPrefixedBytes()
	source.ReadBytesInto(r.digest[:])
	return r
}

func testRecord() *record {
	return &record{
		id:     -7,
		flag:   true,
		name:   "LweKeyswitchKey",
		limbs:  []uint64{1, 1 << 63, 42},
		blob:   []byte{0xde, 0xad},
		digest: [4]byte{1, 2, 3, 4},
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	data, err := Marshal(testRecord())
	require.NoError(t, err)

	decoded, err := Unmarshal(data, &record{})
	require.NoError(t, err)
	assert.Equal(t, testRecord(), decoded)
}

func TestLittleEndianIntegers(t *testing.T) {
	target := NewTarget(0)
	target.WriteInt(1)
	target.WriteUint64(2)
	assert.Equal(t, []byte{1, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0}, target.Bytes())
}

func TestUnmarshalTrailingBytes(t *testing.T) {
	data, err := Marshal(testRecord())
	require.NoError(t, err)

	_, err = Unmarshal(append(data, 0), &record{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestUnmarshalTruncated(t *testing.T) {
	data, err := Marshal(testRecord())
	require.NoError(t, err)

	for i := 0; i < len(data); i++ {
		_, err := Unmarshal(data[:i], &record{})
		require.Error(t, err, "prefix of length %d", i)
		assert.ErrorIs(t, err, ErrMalformed)
	}
}

func TestMarshalWithLimit(t *testing.T) {
	data, err := Marshal(testRecord())
	require.NoError(t, err)

	_, err = MarshalWithLimit(testRecord(), len(data))
	require.NoError(t, err)

	_, err = MarshalWithLimit(testRecord(), len(data)-1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSizeLimitExceeded)

	var limitErr *LimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, len(data)-1, limitErr.Limit)
}

func TestLimitedSourceRejectsBeforeReading(t *testing.T) {
	data, err := Marshal(testRecord())
	require.NoError(t, err)

	_, err = UnmarshalFromSource(NewLimitedSource(data, len(data)), &record{})
	require.NoError(t, err)

	_, err = UnmarshalFromSource(NewLimitedSource(data, len(data)-1), &record{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSizeLimitExceeded)
}

func TestReadLengthGuardsAllocation(t *testing.T) {
	// A length prefix announcing 2^30 limbs backed by only a few bytes must fail before allocation.
	target := NewTarget(0)
	target.WriteInt(1 << 30)
	target.WriteUint64(5)

	_, err := UnmarshalUsing(target.Bytes(), func(s Source) []uint64 { return s.ReadUint64s() })
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = UnmarshalFromSourceUsing(NewLimitedSource(target.Bytes(), 64), func(s Source) []uint64 {
		return s.ReadUint64s()
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSizeLimitExceeded)
}

func TestSetLimitStartsNewSegment(t *testing.T) {
	target := NewTarget(4)
	target.WriteInt(1)
	target.SetLimit(8)
	target.WriteUint64(2)
	assert.Equal(t, 12, target.Written())

	source := NewLimitedSource(target.Bytes(), 4)
	assert.Equal(t, 1, source.ReadInt())
	source.SetLimit(8)
	assert.Equal(t, uint64(2), source.ReadUint64())
	assert.Equal(t, 8, source.Consumed())
	require.NoError(t, source.Finish())
}

func TestReadBoolRejectsNonCanonical(t *testing.T) {
	_, err := UnmarshalUsing([]byte{2}, func(s Source) bool { return s.ReadBool() })
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestNilLengthPrefixedBytes(t *testing.T) {
	target := NewTarget(0)
	target.WriteLengthPrefixedBytes(nil)
	target.WriteLengthPrefixedBytes([]byte{})

	source := NewSource(target.Bytes())
	assert.Nil(t, source.ReadLengthPrefixedBytes())
	assert.NotNil(t, source.ReadLengthPrefixedBytes())
}
