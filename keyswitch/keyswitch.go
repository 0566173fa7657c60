// Package keyswitch holds the persisted forms of LWE keyswitching keys.
//
// A keyswitching key consists of one block per coefficient of the input secret key. Each block holds one LWE ciphertext
// per decomposition level, and each ciphertext has OutputLweSize() coefficients (its mask followed by its body):
//
//	data = block_0 | block_1 | ... ,  block_i = level_1 | level_2 | ... | level_L
//
// Keys written by the first release (shape V0) stored the levels of each block in reverse order, from level L down to
// level 1. Decoding such keys restores the order above.
package keyswitch

import (
	"fmt"
	"slices"

	"github.com/smartcontractkit/tfheartifacts/internal/codec"
)

// NativeModulus is the ciphertext modulus value denoting the native modulus 2^64.
const NativeModulus uint64 = 0

type LweKeyswitchKey struct {
	data              []uint64
	decompBaseLog     int
	decompLevelCount  int
	outputLweSize     int
	ciphertextModulus uint64
}

// NewLweKeyswitchKey wraps data (with levels in increasing order) as keyswitching key. The length of data must be a
// non-zero multiple of decompLevelCount * outputLweSize.
func NewLweKeyswitchKey(
	data []uint64, decompBaseLog, decompLevelCount, outputLweSize int, ciphertextModulus uint64,
) (*LweKeyswitchKey, error) {
	if err := checkLayout(len(data), decompBaseLog, decompLevelCount, outputLweSize); err != nil {
		return nil, err
	}
	return &LweKeyswitchKey{data, decompBaseLog, decompLevelCount, outputLweSize, ciphertextModulus}, nil
}

func (k *LweKeyswitchKey) DecompBaseLog() int        { return k.decompBaseLog }
func (k *LweKeyswitchKey) DecompLevelCount() int     { return k.decompLevelCount }
func (k *LweKeyswitchKey) OutputLweSize() int        { return k.outputLweSize }
func (k *LweKeyswitchKey) CiphertextModulus() uint64 { return k.ciphertextModulus }

// InputLweDimension returns the number of blocks of the key.
func (k *LweKeyswitchKey) InputLweDimension() int {
	return len(k.data) / (k.decompLevelCount * k.outputLweSize)
}

// Data returns the underlying coefficients, the caller must not modify them.
func (k *LweKeyswitchKey) Data() []uint64 {
	return k.data
}

// Ciphertext returns the coefficients of the LWE ciphertext of the given block and (1-based) level.
func (k *LweKeyswitchKey) Ciphertext(block, level int) []uint64 {
	if level < 1 || level > k.decompLevelCount {
		panic(fmt.Sprintf("level %d out of range [1, %d]", level, k.decompLevelCount))
	}
	start := (block*k.decompLevelCount + level - 1) * k.outputLweSize
	return k.data[start : start+k.outputLweSize]
}

// Validates the layout parameters against the number of coefficients.
func checkLayout(size, decompBaseLog, decompLevelCount, chunkSize int) error {
	if decompBaseLog <= 0 || decompLevelCount <= 0 || decompBaseLog*decompLevelCount > 64 {
		return fmt.Errorf("invalid decomposition parameters: base log %d, level count %d", decompBaseLog, decompLevelCount)
	}
	if chunkSize <= 0 {
		return fmt.Errorf("invalid ciphertext size %d", chunkSize)
	}
	blockSize := decompLevelCount * chunkSize
	if size == 0 || size%blockSize != 0 {
		return fmt.Errorf("data length %d is not a non-zero multiple of the block size %d", size, blockSize)
	}
	return nil
}

// reverseLevels reverses the order of the levels within each block, in place. Applying it twice restores the input.
func reverseLevels(data []uint64, decompLevelCount, chunkSize int) {
	blockSize := decompLevelCount * chunkSize
	for start := 0; start+blockSize <= len(data); start += blockSize {
		block := data[start : start+blockSize]
		for lo, hi := 0, decompLevelCount-1; lo < hi; lo, hi = lo+1, hi-1 {
			a := block[lo*chunkSize : (lo+1)*chunkSize]
			b := block[hi*chunkSize : (hi+1)*chunkSize]
			for i := range a {
				a[i], b[i] = b[i], a[i]
			}
		}
	}
}

func (k *LweKeyswitchKey) encode(target codec.Target) {
	target.WriteUint64s(k.data)
	target.WriteUint32(uint32(k.decompBaseLog))
	target.WriteUint32(uint32(k.decompLevelCount))
	target.WriteUint32(uint32(k.outputLweSize))
	target.WriteUint64(k.ciphertextModulus)
}

func decodeLweKeyswitchKey(src codec.Source) *LweKeyswitchKey {
	data := src.ReadUint64s()
	baseLog := readSize(src)
	levelCount := readSize(src)
	outputLweSize := readSize(src)
	k, err := NewLweKeyswitchKey(data, baseLog, levelCount, outputLweSize, src.ReadUint64())
	if err != nil {
		panic(fmt.Errorf("%w: %w", codec.ErrMalformed, err))
	}
	return k
}

// Equal reports whether both keys have identical parameters and coefficients.
func (k *LweKeyswitchKey) Equal(other *LweKeyswitchKey) bool {
	return k.decompBaseLog == other.decompBaseLog &&
		k.decompLevelCount == other.decompLevelCount &&
		k.outputLweSize == other.outputLweSize &&
		k.ciphertextModulus == other.ciphertextModulus &&
		slices.Equal(k.data, other.data)
}

func readSize(src codec.Source) int {
	v := src.ReadUint32()
	if v > 1<<31-1 {
		panic(fmt.Errorf("%w: size %d out of range", codec.ErrMalformed, v))
	}
	return int(v)
}
