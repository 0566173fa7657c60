package keyswitch

import (
	"slices"
	"testing"

	"github.com/smartcontractkit/tfheartifacts/internal/codec"
	"github.com/smartcontractkit/tfheartifacts/internal/testimplementations/testhelpers"
	"github.com/smartcontractkit/tfheartifacts/internal/testimplementations/unsaferand"
	"github.com/smartcontractkit/tfheartifacts/internal/versioning"
	"github.com/smartcontractkit/tfheartifacts/safeserialization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sizeLimit = 1 << 20

func (v lweKeyswitchKeyV0) MarshalTo(target codec.Target) {
	v.key.encode(target)
}

func (v seededLweKeyswitchKeyV0) MarshalTo(target codec.Target) {
	v.key.encodeV0(target)
}

var testParams = KeyswitchKeyParams{
	DecompBaseLog:      4,
	DecompLevelCount:   3,
	InputLweDimension:  5,
	OutputLweDimension: 7,
	CiphertextModulus:  NativeModulus,
}

func newTestKey(t *testing.T, params KeyswitchKeyParams) *LweKeyswitchKey {
	rand := unsaferand.New("ksk", params)
	size := params.InputLweDimension * params.DecompLevelCount * (params.OutputLweDimension + 1)
	k, err := NewLweKeyswitchKey(rand.Uint64s(size, 0), params.DecompBaseLog,
		params.DecompLevelCount, params.OutputLweDimension+1, params.CiphertextModulus)
	require.NoError(t, err)
	return k
}

func newTestSeededKey(t *testing.T, params KeyswitchKeyParams) *SeededLweKeyswitchKey {
	rand := unsaferand.New("seeded ksk", params)
	seed := rand.Seed16()
	k, err := NewSeededLweKeyswitchKey(rand.Uint64s(params.InputLweDimension*params.DecompLevelCount, 0),
		params.DecompBaseLog, params.DecompLevelCount, params.OutputLweDimension+1, seed, params.CiphertextModulus)
	require.NoError(t, err)
	return k
}

func TestLweKeyswitchKeyRoundTrip(t *testing.T) {
	key := newTestKey(t, testParams)
	for _, cfg := range []safeserialization.SerializationConfig{
		safeserialization.NewSerializationConfig(sizeLimit),
		safeserialization.NewSerializationConfig(sizeLimit).DisableVersioning(),
	} {
		data, err := safeserialization.Serialize(key, LweKeyswitchKeyVersions, cfg)
		require.NoError(t, err)

		decoded, err := safeserialization.Deserialize(data, LweKeyswitchKeyVersions,
			safeserialization.NewDeserializationConfig(sizeLimit, testParams))
		require.NoError(t, err)
		assert.True(t, key.Equal(decoded))
		assert.Equal(t, testParams.InputLweDimension, decoded.InputLweDimension())
	}
}

func TestLweKeyswitchKeyV0LevelsAreReversed(t *testing.T) {
	key := newTestKey(t, testParams)
	current := slices.Clone(key.Data())

	// The first release stored level L first.
	old, err := NewLweKeyswitchKey(slices.Clone(current), 4, 3, 8, NativeModulus)
	require.NoError(t, err)
	reverseLevels(old.data, 3, 8)
	require.NotEqual(t, current, old.data)

	upgraded, err := LweKeyswitchKeyVersions.Unversionize(testhelpers.EncodeShape(t, 0, lweKeyswitchKeyV0{old}))
	require.NoError(t, err)
	assert.Equal(t, current, upgraded.Data())

	for block := 0; block < testParams.InputLweDimension; block++ {
		for level := 1; level <= 3; level++ {
			assert.Equal(t, key.Ciphertext(block, level), upgraded.Ciphertext(block, level))
		}
	}
}

func TestLweKeyswitchKeyV0Envelope(t *testing.T) {
	key := newTestKey(t, testParams)
	old, err := NewLweKeyswitchKey(slices.Clone(key.Data()), 4, 3, 8, NativeModulus)
	require.NoError(t, err)
	reverseLevels(old.data, 3, 8)

	header := safeserialization.NewHeader("LweKeyswitchKey", safeserialization.Versioned, safeserialization.DefaultEnvironment)
	target := codec.NewTarget(0)
	target.Write(&header)
	target.Write(testhelpers.EncodeShape(t, 0, lweKeyswitchKeyV0{old}))

	decoded, err := safeserialization.Deserialize(target.Bytes(), LweKeyswitchKeyVersions,
		safeserialization.NewDeserializationConfig(sizeLimit, testParams))
	require.NoError(t, err)
	assert.True(t, key.Equal(decoded))
}

func TestReverseLevelsIsInvolution(t *testing.T) {
	data := []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	reverseLevels(data, 3, 2)
	assert.Equal(t, []uint64{5, 6, 3, 4, 1, 2, 11, 12, 9, 10, 7, 8}, data)
	reverseLevels(data, 3, 2)
	assert.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, data)
}

func TestSeededLweKeyswitchKeyV0IsMarked(t *testing.T) {
	key := newTestSeededKey(t, testParams)
	assert.False(t, key.LevelsReversed())

	upgraded, err := SeededLweKeyswitchKeyVersions.Unversionize(
		testhelpers.EncodeShape(t, 0, seededLweKeyswitchKeyV0{key}))
	require.NoError(t, err)
	assert.True(t, upgraded.LevelsReversed())

	expected := slices.Clone(key.data)
	reverseLevels(expected, testParams.DecompLevelCount, 1)
	assert.Equal(t, expected, upgraded.Data())
	assert.True(t, upgraded.IsConformant(testParams))

	// The marker survives a round trip in the current shape.
	tagged, err := SeededLweKeyswitchKeyVersions.Versionize(upgraded)
	require.NoError(t, err)
	decoded, err := SeededLweKeyswitchKeyVersions.Unversionize(tagged)
	require.NoError(t, err)
	assert.True(t, decoded.LevelsReversed())
	assert.True(t, upgraded.Equal(decoded))
}

func TestKeyswitchStepsAreInfallible(t *testing.T) {
	assert.True(t, LweKeyswitchKeyVersions.Infallible(0))
	assert.True(t, SeededLweKeyswitchKeyVersions.Infallible(0))
	assert.Equal(t, versioning.Tag(1), LweKeyswitchKeyVersions.CurrentTag())
}

func TestKeyswitchKeyConformance(t *testing.T) {
	key := newTestKey(t, testParams)
	seeded := newTestSeededKey(t, testParams)
	assert.True(t, key.IsConformant(testParams))
	assert.True(t, seeded.IsConformant(testParams))

	for _, mutate := range []func(*KeyswitchKeyParams){
		func(p *KeyswitchKeyParams) { p.DecompBaseLog++ },
		func(p *KeyswitchKeyParams) { p.DecompLevelCount++ },
		func(p *KeyswitchKeyParams) { p.InputLweDimension++ },
		func(p *KeyswitchKeyParams) { p.OutputLweDimension++ },
		func(p *KeyswitchKeyParams) { p.CiphertextModulus = 1 << 32 },
	} {
		params := testParams
		mutate(&params)
		assert.False(t, key.IsConformant(params), "%+v", params)
		assert.False(t, seeded.IsConformant(params), "%+v", params)
	}

	data, err := safeserialization.Serialize(key, LweKeyswitchKeyVersions, safeserialization.NewSerializationConfig(sizeLimit))
	require.NoError(t, err)
	params := testParams
	params.InputLweDimension = 4
	_, err = safeserialization.Deserialize(data, LweKeyswitchKeyVersions, safeserialization.NewDeserializationConfig(sizeLimit, params))
	assert.True(t, safeserialization.IsKind(err, safeserialization.KindConformanceFailed))
}

func TestInvalidLayout(t *testing.T) {
	_, err := NewLweKeyswitchKey(make([]uint64, 10), 4, 3, 8, NativeModulus)
	assert.Error(t, err)
	_, err = NewLweKeyswitchKey(nil, 4, 3, 8, NativeModulus)
	assert.Error(t, err)
	_, err = NewLweKeyswitchKey(make([]uint64, 24), 32, 3, 8, NativeModulus)
	assert.Error(t, err)

	// A structurally invalid key is rejected as malformed.
	target := codec.NewTarget(0)
	target.WriteUint64s(make([]uint64, 10))
	target.WriteUint32(4)
	target.WriteUint32(3)
	target.WriteUint32(8)
	target.WriteUint64(NativeModulus)
	_, err = LweKeyswitchKeyVersions.Unversionize(versioning.Tagged{Tag: 1, Payload: target.Bytes()})
	assert.ErrorIs(t, err, codec.ErrMalformed)
}
