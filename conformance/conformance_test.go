package conformance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactSize(t *testing.T) {
	c := ExactSize(3)
	assert.False(t, c.IsValid(2))
	assert.True(t, c.IsValid(3))
	assert.False(t, c.IsValid(4))
	assert.Equal(t, "exactly 3", c.String())
}

func TestSizeInRange(t *testing.T) {
	c, err := TrySizeInRange(2, 4)
	require.NoError(t, err)
	for size, valid := range map[int]bool{1: false, 2: true, 3: true, 4: true, 5: false} {
		assert.Equal(t, valid, c.IsValid(size), "size %d", size)
	}
	assert.Equal(t, 2, c.Min())
	assert.Equal(t, 4, c.Max())

	_, err = TrySizeInRange(5, 4)
	assert.Error(t, err)

	_, err = TrySizeInRange(-1, 4)
	assert.Error(t, err)

	c, err = TrySizeInRange(3, 3)
	require.NoError(t, err)
	assert.Equal(t, ExactSize(3), c)
}
