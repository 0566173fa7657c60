// Package unsaferand provides reproducible randomness for tests: key material, ciphertext coefficients, seeds and the
// x-coordinates of curve points, all derived from a description of the test case.
package unsaferand

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
	mrand "math/rand"
	"time"
)

// UnsafeRand is an io.Reader based on math/rand.Rand. The generated sequence is not cryptographically secure and
// should only be used for testing purposes. It is not safe for concurrent use.
type UnsafeRand struct {
	*mrand.Rand
}

var _ io.Reader = &UnsafeRand{}

// New returns an UnsafeRand seeded from the fmt.Sprintf("%#v", seedArgs...) representation of the arguments, e.g., the
// name of a test case and its parameter set. Maps must not be passed, their iteration order is not stable.
func New(seedArgs ...any) *UnsafeRand {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%#v", seedArgs)
	return &UnsafeRand{mrand.New(mrand.NewSource(int64(h.Sum64())))}
}

// NewNondeterministic returns an UnsafeRand with a random seed, for tests that should not depend on fixed inputs.
func NewNondeterministic() *UnsafeRand {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return &UnsafeRand{mrand.New(mrand.NewSource(time.Now().UnixNano()))}
	}
	return &UnsafeRand{mrand.New(mrand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))}
}

// Uint64s returns n values below bound, 0 means unbounded. Use it for key and ciphertext coefficients.
func (r *UnsafeRand) Uint64s(n int, bound uint64) []uint64 {
	values := make([]uint64, n)
	for i := range values {
		v := r.Uint64()
		if bound != 0 {
			v %= bound
		}
		values[i] = v
	}
	return values
}

// Seed16 returns a 16 byte seed, e.g., the compression seed of a seeded key.
func (r *UnsafeRand) Seed16() [16]byte {
	var seed [16]byte
	_, _ = r.Read(seed[:]) // rand.Read never returns an error
	return seed
}
