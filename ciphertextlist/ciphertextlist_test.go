package ciphertextlist

import (
	"testing"

	"github.com/smartcontractkit/tfheartifacts/conformance"
	"github.com/smartcontractkit/tfheartifacts/internal/testimplementations/unsaferand"
	"github.com/smartcontractkit/tfheartifacts/safeserialization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sizeLimit = 1 << 20

var params = ShortintParams{
	MessageModulus:    4,
	CarryModulus:      4,
	LweDimension:      2,
	CiphertextModulus: 0,
}

func newList(t *testing.T, count int, params ShortintParams) *CompactCiphertextList {
	rand := unsaferand.New("list", count)
	l, err := NewCompactCiphertextList(rand.Uint64s(dataSize(count, params.LweDimension), 0), count, params)
	require.NoError(t, err)
	return l
}

func sizeInRange(t *testing.T, min, max int) conformance.ListSizeConstraint {
	c, err := conformance.TrySizeInRange(min, max)
	require.NoError(t, err)
	return c
}

func TestDataSize(t *testing.T) {
	assert.Equal(t, 0, dataSize(0, 2))
	assert.Equal(t, 3, dataSize(1, 2))
	assert.Equal(t, 4, dataSize(2, 2))
	assert.Equal(t, 7, dataSize(3, 2))
}

func TestListConformance(t *testing.T) {
	list := newList(t, 3, params)
	data, err := safeserialization.Serialize(list, Versions, safeserialization.NewSerializationConfig(sizeLimit))
	require.NoError(t, err)

	// The same bytes are checked against several parameter sets.
	for _, tc := range []struct {
		constraint conformance.ListSizeConstraint
		ok         bool
	}{
		{conformance.ExactSize(3), true},
		{conformance.ExactSize(2), false},
		{conformance.ExactSize(4), false},
		{sizeInRange(t, 1, 2), false},
		{sizeInRange(t, 4, 5), false},
		{sizeInRange(t, 2, 3), true},
		{sizeInRange(t, 3, 4), true},
		{sizeInRange(t, 2, 4), true},
	} {
		cfg := safeserialization.NewDeserializationConfig(sizeLimit, ConformanceParams{Shortint: params, NumElements: tc.constraint})
		decoded, err := safeserialization.Deserialize(data, Versions, cfg)
		if tc.ok {
			require.NoError(t, err, tc.constraint.String())
			assert.True(t, list.Equal(decoded))
		} else {
			assert.True(t, safeserialization.IsKind(err, safeserialization.KindConformanceFailed), tc.constraint.String())
		}
	}

	wrongParams := params
	wrongParams.MessageModulus = 2
	cfg := safeserialization.NewDeserializationConfig(sizeLimit, ConformanceParams{Shortint: wrongParams, NumElements: conformance.ExactSize(3)})
	_, err = safeserialization.Deserialize(data, Versions, cfg)
	assert.True(t, safeserialization.IsKind(err, safeserialization.KindConformanceFailed))
}

func TestInvalidList(t *testing.T) {
	_, err := NewCompactCiphertextList(make([]uint64, 6), 3, params)
	assert.Error(t, err)

	invalid := params
	invalid.LweDimension = 0
	_, err = NewCompactCiphertextList(nil, 0, invalid)
	assert.Error(t, err)

	empty := newList(t, 0, params)
	assert.Equal(t, 0, empty.Len())
}
