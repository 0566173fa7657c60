package keyswitch

import (
	"fmt"
	"slices"

	"github.com/smartcontractkit/tfheartifacts/internal/codec"
)

// SeededLweKeyswitchKey is the compressed form of an LweKeyswitchKey: only the bodies of the ciphertexts are stored,
// the masks are derived from the compression seed. Each block therefore holds one coefficient per level.
//
// Seeded keys written by the first release keep their reversed level order in storage, the key only records it.
// Use Data() to access the bodies in increasing level order.
type SeededLweKeyswitchKey struct {
	data              []uint64
	decompBaseLog     int
	decompLevelCount  int
	outputLweSize     int
	compressionSeed   [16]byte
	ciphertextModulus uint64
	levelsReversed    bool
}

func NewSeededLweKeyswitchKey(
	data []uint64, decompBaseLog, decompLevelCount, outputLweSize int, compressionSeed [16]byte,
	ciphertextModulus uint64,
) (*SeededLweKeyswitchKey, error) {
	if outputLweSize <= 0 {
		return nil, fmt.Errorf("invalid ciphertext size %d", outputLweSize)
	}
	if err := checkLayout(len(data), decompBaseLog, decompLevelCount, 1); err != nil {
		return nil, err
	}
	return &SeededLweKeyswitchKey{
		data:              data,
		decompBaseLog:     decompBaseLog,
		decompLevelCount:  decompLevelCount,
		outputLweSize:     outputLweSize,
		compressionSeed:   compressionSeed,
		ciphertextModulus: ciphertextModulus,
	}, nil
}

func (k *SeededLweKeyswitchKey) DecompBaseLog() int        { return k.decompBaseLog }
func (k *SeededLweKeyswitchKey) DecompLevelCount() int     { return k.decompLevelCount }
func (k *SeededLweKeyswitchKey) OutputLweSize() int        { return k.outputLweSize }
func (k *SeededLweKeyswitchKey) CompressionSeed() [16]byte { return k.compressionSeed }
func (k *SeededLweKeyswitchKey) CiphertextModulus() uint64 { return k.ciphertextModulus }

// LevelsReversed reports whether the stored bodies are in the reversed level order of the first release.
func (k *SeededLweKeyswitchKey) LevelsReversed() bool {
	return k.levelsReversed
}

func (k *SeededLweKeyswitchKey) InputLweDimension() int {
	return len(k.data) / k.decompLevelCount
}

// Data returns a copy of the bodies, in increasing level order within each block.
func (k *SeededLweKeyswitchKey) Data() []uint64 {
	data := slices.Clone(k.data)
	if k.levelsReversed {
		reverseLevels(data, k.decompLevelCount, 1)
	}
	return data
}

func (k *SeededLweKeyswitchKey) encode(target codec.Target) {
	k.encodeV0(target)
	target.WriteBool(k.levelsReversed)
}

// The fields shared with the first release's shape.
func (k *SeededLweKeyswitchKey) encodeV0(target codec.Target) {
	target.WriteUint64s(k.data)
	target.WriteUint32(uint32(k.decompBaseLog))
	target.WriteUint32(uint32(k.decompLevelCount))
	target.WriteUint32(uint32(k.outputLweSize))
	target.WriteBytes(k.compressionSeed[:])
	target.WriteUint64(k.ciphertextModulus)
}

func decodeSeededV0Fields(src codec.Source) *SeededLweKeyswitchKey {
	data := src.ReadUint64s()
	baseLog := readSize(src)
	levelCount := readSize(src)
	outputLweSize := readSize(src)
	var seed [16]byte
	src.ReadBytesInto(seed[:])
	k, err := NewSeededLweKeyswitchKey(data, baseLog, levelCount, outputLweSize, seed, src.ReadUint64())
	if err != nil {
		panic(fmt.Errorf("%w: %w", codec.ErrMalformed, err))
	}
	return k
}

func decodeSeededLweKeyswitchKey(src codec.Source) *SeededLweKeyswitchKey {
	k := decodeSeededV0Fields(src)
	k.levelsReversed = src.ReadBool()
	return k
}

func (k *SeededLweKeyswitchKey) Equal(other *SeededLweKeyswitchKey) bool {
	return k.decompBaseLog == other.decompBaseLog &&
		k.decompLevelCount == other.decompLevelCount &&
		k.outputLweSize == other.outputLweSize &&
		k.compressionSeed == other.compressionSeed &&
		k.ciphertextModulus == other.ciphertextModulus &&
		slices.Equal(k.Data(), other.Data())
}
