package math_test

import (
	"errors"
	"testing"

	"github.com/smartcontractkit/tfheartifacts/internal/codec"
	"github.com/smartcontractkit/tfheartifacts/internal/crypto/math"
	"github.com/smartcontractkit/tfheartifacts/internal/testimplementations/unsaferand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimbCount(t *testing.T) {
	assert.Equal(t, 4, math.P256.Field().Limbs())
	assert.Equal(t, 4, math.Secp256k1.Field().Limbs())
	assert.Equal(t, 6, math.BLS12381G1.Field().Limbs())
}

func TestLimbOrder(t *testing.T) {
	field := math.BLS12381G1.Field()
	assert.Equal(t, []uint64{1, 0, 0, 0, 0, 0}, field.FromUint(1).Limbs())

	// p - 1 ends in ...aaaa, the least significant limb comes first.
	limbs := field.Zero().Subtract(field.FromUint(1)).Limbs()
	assert.Equal(t, uint64(0xb9feffffffffaaaa), limbs[0])
	assert.Equal(t, uint64(0x1a0111ea397fe69a), limbs[5])
}

func TestLimbsRoundTrip(t *testing.T) {
	rand := unsaferand.New("limbs")
	for _, curve := range math.SupportedCurves {
		field := curve.Field()
		for i := 0; i < 20; i++ {
			x, err := field.Random(rand)
			require.NoError(t, err)

			y, err := field.FromLimbs(x.Limbs())
			require.NoError(t, err)
			assert.True(t, x.Equal(y), "%s: %s != %s", curve.Name(), x, y)
		}
	}
}

func TestFromLimbsSizeMismatch(t *testing.T) {
	field := math.BLS12381G1.Field()
	for _, n := range []int{0, 4, 5, 7} {
		_, err := field.FromLimbs(make([]uint64, n))
		require.Error(t, err)
		assert.ErrorIs(t, err, codec.ErrMalformed)

		var sizeErr *math.SizeMismatchError
		require.True(t, errors.As(err, &sizeErr))
		assert.Equal(t, 6, sizeErr.Expected)
		assert.Equal(t, n, sizeErr.Found)
	}
}

func TestFromLimbsNonCanonical(t *testing.T) {
	// The modulus itself is not a canonical value.
	field := math.Secp256k1.Field()
	_, err := field.FromLimbs([]uint64{0xfffffffefffffc2f, 0xffffffffffffffff, 0xffffffffffffffff, 0xffffffffffffffff})
	assert.ErrorIs(t, err, math.ErrNonCanonical)

	// Bits above the modulus' most significant limb must be zero.
	field = math.BLS12381G1.Field()
	_, err = field.FromLimbs([]uint64{0, 0, 0, 0, 0, 1 << 63})
	assert.ErrorIs(t, err, math.ErrNonCanonical)
}

func TestSqrt(t *testing.T) {
	rand := unsaferand.New("sqrt")
	for _, curve := range math.SupportedCurves {
		field := curve.Field()
		for i := 0; i < 10; i++ {
			x, err := field.Random(rand)
			require.NoError(t, err)

			r, ok := x.Clone().Square().Sqrt()
			require.True(t, ok)
			assert.True(t, r.Equal(x) || r.Equal(x.Clone().Negate()))
		}

		// -1 is not a square for p = 3 (mod 4).
		_, ok := field.Zero().Subtract(field.FromUint(1)).Sqrt()
		assert.False(t, ok)
	}
}

func TestCanonicalOrder(t *testing.T) {
	field := math.P256.Field()
	one := field.FromUint(1)
	minusOne := one.Clone().Negate()

	assert.Equal(t, -1, one.Cmp(minusOne))
	assert.Equal(t, 1, minusOne.Cmp(one))
	assert.Equal(t, 0, one.Cmp(field.FromUint(1)))

	assert.False(t, one.IsLargest())
	assert.True(t, minusOne.IsLargest())
	assert.False(t, field.Zero().IsLargest())
}

func TestArithmetic(t *testing.T) {
	field := math.Secp256k1.Field()
	x := field.FromUint(6)

	assert.Equal(t, "36", x.Clone().Square().String())
	assert.Equal(t, "42", x.Clone().Multiply(field.FromUint(7)).String())
	assert.Equal(t, "13", x.Clone().Add(field.FromUint(7)).String())
	assert.True(t, x.Clone().Subtract(x).IsZero())
	assert.True(t, x.Clone().Add(x.Clone().Negate()).IsZero())
}

func TestNewFieldRequiresThreeModFour(t *testing.T) {
	assert.Panics(t, func() { math.NewField("F13", "13") })
	assert.NotPanics(t, func() { math.NewField("F11", "11") })
}
