package testhelpers

import (
	"io"
	"testing"

	"github.com/smartcontractkit/tfheartifacts/internal/codec"
	"github.com/smartcontractkit/tfheartifacts/internal/crypto/math"
	"github.com/smartcontractkit/tfheartifacts/internal/versioning"
	"github.com/stretchr/testify/require"
)

// RandomPoint returns a point on the given curve with a random x-coordinate. The point is not necessarily in the
// curve's prime order subgroup.
func RandomPoint(t *testing.T, curve math.Curve, rand io.Reader) *math.AffinePoint {
	var sign [1]byte
	for {
		x, err := curve.Field().Random(rand)
		require.NoError(t, err)
		_, err = io.ReadFull(rand, sign[:])
		require.NoError(t, err)

		if p, err := curve.Decompress(x, sign[0]&1 == 1); err == nil {
			return p
		}
	}
}

func RandomPoints(t *testing.T, curve math.Curve, n int, rand io.Reader) []*math.AffinePoint {
	points := make([]*math.AffinePoint, n)
	for i := range points {
		points[i] = RandomPoint(t, curve, rand)
	}
	return points
}

// NonResidueX returns the smallest x for which x³ + ax + b is not a square, i.e., an x-coordinate that must be
// rejected by decompression for both signs.
func NonResidueX(t *testing.T, curve math.Curve) *math.Element {
	for i := uint(0); i < 1000; i++ {
		x := curve.Field().FromUint(i)
		if _, err := curve.Decompress(x, false); err != nil {
			return x
		}
	}
	require.FailNow(t, "no invalid x-coordinate found", "curve: %s", curve.Name())
	return nil
}

// EncodeShape encodes a value of a historical shape, as written by an older release.
func EncodeShape(t *testing.T, tag versioning.Tag, shape codec.Marshaler) versioning.Tagged {
	payload, err := codec.Marshal(shape)
	require.NoError(t, err)
	return versioning.Tagged{Tag: tag, Payload: payload}
}
