package zk

import (
	"errors"
	"testing"

	"github.com/cloudflare/circl/ecc/bls12381"
	"github.com/smartcontractkit/tfheartifacts/internal/codec"
	"github.com/smartcontractkit/tfheartifacts/internal/crypto/math"
	"github.com/smartcontractkit/tfheartifacts/internal/testimplementations/testhelpers"
	"github.com/smartcontractkit/tfheartifacts/internal/testimplementations/unsaferand"
	"github.com/smartcontractkit/tfheartifacts/internal/versioning"
	"github.com/smartcontractkit/tfheartifacts/safeserialization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sizeLimit = 1 << 16

var testParams = ConformanceParams{LweDimension: 4, MessageCount: 2, B: 1 << 10, Q: 0, T: 16}

func (v publicParamsV0) MarshalTo(target codec.Target) {
	target.WriteInt(len(v.gList))
	for _, s := range v.gList {
		math.SerializableAffineVersions.MarshalTo(target, s)
	}
	for _, i := range v.integers {
		target.WriteUint64(i)
	}
	for _, h := range v.hashes {
		target.WriteLengthPrefixedBytes(h)
	}
}

// Multiples of the generator, i.e., points of the prime order subgroup.
func subgroupPoints(t *testing.T, n int) []*math.AffinePoint {
	points := make([]*math.AffinePoint, n)
	for i := range points {
		var k bls12381.Scalar
		k.SetUint64(uint64(3*i + 1))
		g := new(bls12381.G1)
		g.ScalarMult(&k, bls12381.G1Generator())

		p, err := math.FromCirclG1(g)
		require.NoError(t, err)
		points[i] = p
	}
	return points
}

func newTestParams(t *testing.T) *PublicParams {
	return &PublicParams{
		GList:              subgroupPoints(t, 6),
		EffectiveDimension: 10,
		N:                  3,
		LweDimension:       testParams.LweDimension,
		MessageCount:       testParams.MessageCount,
		B:                  testParams.B,
		BR:                 1 << 12,
		BBound:             1 << 14,
		MBound:             5,
		Q:                  testParams.Q,
		T:                  testParams.T,
		Hashes:             DeriveHashes([]byte("test crs")),
	}
}

func toV0(p *PublicParams) publicParamsV0 {
	var v publicParamsV0
	for _, g := range p.GList {
		v.gList = append(v.gList, math.Uncompressed(g))
	}
	for i, x := range p.integers() {
		v.integers[i] = *x
	}
	for i, h := range p.Hashes.fields() {
		v.hashes[i] = append([]byte(nil), h[:]...)
	}
	return v
}

func TestPublicParamsRoundTrip(t *testing.T) {
	params := newTestParams(t)

	data, err := safeserialization.Serialize(params, Versions, safeserialization.NewSerializationConfig(sizeLimit))
	require.NoError(t, err)

	decoded, err := safeserialization.Deserialize(data, Versions,
		safeserialization.NewDeserializationConfig(sizeLimit, testParams))
	require.NoError(t, err)
	assert.True(t, params.Equal(decoded))
	assert.Equal(t, params.Fingerprint(), decoded.Fingerprint())
}

func TestPublicParamsPointsAreCompressed(t *testing.T) {
	params := newTestParams(t)

	tagged, err := Versions.Versionize(params)
	require.NoError(t, err)

	src := codec.NewSource(tagged.Payload)
	require.Equal(t, len(params.GList), src.ReadNonNegativeInt())
	first := math.SerializableAffineVersions.UnmarshalFrom(src)
	assert.Equal(t, math.AffineCompressed, first.Kind)
	assert.Equal(t, params.GList[0].HasLargestY(), first.TakeLargestY)
}

func TestPublicParamsV0IsUpgraded(t *testing.T) {
	params := newTestParams(t)

	upgraded, err := Versions.Unversionize(testhelpers.EncodeShape(t, 0, toV0(params)))
	require.NoError(t, err)
	assert.True(t, params.Equal(upgraded))
	assert.False(t, Versions.Infallible(0))
}

func TestPublicParamsV0WithShortHashFails(t *testing.T) {
	params := newTestParams(t)
	v0 := toV0(params)
	v0.hashes[3] = v0.hashes[3][:HashLength-1]

	_, err := Versions.Unversionize(testhelpers.EncodeShape(t, 0, v0))
	require.Error(t, err)
	assert.ErrorIs(t, err, versioning.ErrUpgrade)

	var sizeErr *InvalidArraySizeError
	require.True(t, errors.As(err, &sizeErr))
	assert.Equal(t, "hash_w", sizeErr.Field)
	assert.Equal(t, HashLength, sizeErr.Expected)
	assert.Equal(t, HashLength-1, sizeErr.Found)

	// Through the envelope, the upgrade failure takes precedence over the underlying cause.
	payload := testhelpers.EncodeShape(t, 0, v0)
	data := encodeTagged(t, payload)
	_, err = safeserialization.Deserialize(data, Versions, safeserialization.NewDeserializationConfig(sizeLimit, testParams))
	assert.True(t, safeserialization.IsKind(err, safeserialization.KindUpgradeFailed), "%v", err)
}

// Prepends the header of a versioned CompactPkePublicParams to the tagged payload.
func encodeTagged(t *testing.T, tagged versioning.Tagged) []byte {
	header := safeserialization.NewHeader(Versions.Name(), safeserialization.Versioned, safeserialization.DefaultEnvironment)
	target := codec.NewTarget(0)
	header.MarshalTo(target)
	tagged.MarshalTo(target)
	return target.Bytes()
}

func TestPublicParamsInvalidCompressedPoint(t *testing.T) {
	params := newTestParams(t)
	x := testhelpers.NonResidueX(t, Curve)
	params.GList[2] = Curve.Point(x, Curve.Field().FromUint(1))

	data, err := safeserialization.Serialize(params, Versions, safeserialization.NewSerializationConfig(sizeLimit))
	require.NoError(t, err)

	_, err = safeserialization.Deserialize(data, Versions, safeserialization.NewDeserializationConfig(sizeLimit, testParams))
	require.Error(t, err)
	assert.True(t, safeserialization.IsKind(err, safeserialization.KindInvalidPoint), "%v", err)
	assert.ErrorIs(t, err, math.ErrInvalidPoint)
}

func TestPublicParamsConformance(t *testing.T) {
	params := newTestParams(t)
	require.True(t, params.IsConformant(testParams))

	for name, mutate := range map[string]func(*ConformanceParams){
		"lwe dimension": func(p *ConformanceParams) { p.LweDimension++ },
		"message count": func(p *ConformanceParams) { p.MessageCount++ },
		"bound":         func(p *ConformanceParams) { p.B-- },
		"modulus":       func(p *ConformanceParams) { p.Q = 1 << 32 },
		"plaintext":     func(p *ConformanceParams) { p.T *= 2 },
	} {
		t.Run(name, func(t *testing.T) {
			other := testParams
			mutate(&other)
			assert.False(t, params.IsConformant(other))
		})
	}

	t.Run("list length", func(t *testing.T) {
		short := newTestParams(t)
		short.GList = short.GList[:5]
		assert.False(t, short.IsConformant(testParams))
	})

	t.Run("odd list length", func(t *testing.T) {
		odd := newTestParams(t)
		odd.GList = append(odd.GList, odd.GList[0])
		odd.N = 3
		assert.False(t, odd.IsConformant(testParams))
	})

	t.Run("point count overflow", func(t *testing.T) {
		empty := newTestParams(t)
		empty.GList = nil
		empty.N = 1 << 63
		assert.False(t, empty.IsConformant(testParams))

		data, err := safeserialization.Serialize(empty, Versions, safeserialization.NewSerializationConfig(sizeLimit))
		require.NoError(t, err)
		_, err = safeserialization.Deserialize(data, Versions, safeserialization.NewDeserializationConfig(sizeLimit, testParams))
		assert.True(t, safeserialization.IsKind(err, safeserialization.KindConformanceFailed), "%v", err)
	})

	t.Run("point outside of the subgroup", func(t *testing.T) {
		outside := newTestParams(t)
		outside.GList[0] = testhelpers.RandomPoint(t, Curve, unsaferand.New("zk", "outside"))
		assert.False(t, outside.IsConformant(testParams))
	})
}

func TestPublicParamsV0PointOffCurveIsRejectedByConformance(t *testing.T) {
	params := newTestParams(t)
	v0 := toV0(params)
	v0.gList[1].Y = math.NewSerializableFp(Curve.Field().FromUint(1))

	upgraded, err := Versions.Unversionize(testhelpers.EncodeShape(t, 0, v0))
	require.NoError(t, err)
	assert.False(t, upgraded.GList[1].IsOnCurve())

	_, err = safeserialization.Deserialize(encodeTagged(t, testhelpers.EncodeShape(t, 0, v0)), Versions,
		safeserialization.NewDeserializationConfig(sizeLimit, testParams))
	assert.True(t, safeserialization.IsKind(err, safeserialization.KindConformanceFailed), "%v", err)
}

func TestDeriveHashes(t *testing.T) {
	a := DeriveHashes([]byte("seed"))
	assert.Equal(t, a, DeriveHashes([]byte("seed")))
	assert.NotEqual(t, a, DeriveHashes([]byte("seed2")))

	seen := map[[HashLength]byte]bool{}
	for _, h := range a.fields() {
		assert.False(t, seen[*h])
		seen[*h] = true
	}
}

func TestFingerprint(t *testing.T) {
	params := newTestParams(t)
	fingerprint := params.Fingerprint()

	params.MBound++
	assert.NotEqual(t, fingerprint, params.Fingerprint())
	params.MBound--
	assert.Equal(t, fingerprint, params.Fingerprint())

	params.GList[0] = params.GList[0].Negate()
	assert.NotEqual(t, fingerprint, params.Fingerprint())
}
