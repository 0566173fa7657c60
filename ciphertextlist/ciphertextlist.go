// Package ciphertextlist holds the persisted form of compact ciphertext lists, lists of LWE ciphertexts that share
// their masks.
//
// The list is split into bins of up to LweDimension() ciphertexts. Each bin stores one mask of LweDimension()
// coefficients, followed by the bodies of its ciphertexts.
package ciphertextlist

import (
	"fmt"
	"slices"

	"github.com/smartcontractkit/tfheartifacts/conformance"
	"github.com/smartcontractkit/tfheartifacts/internal/codec"
	"github.com/smartcontractkit/tfheartifacts/internal/versioning"
)

// ShortintParams are the parameters of the encrypted (small) integers.
type ShortintParams struct {
	MessageModulus    uint64
	CarryModulus      uint64
	LweDimension      int
	CiphertextModulus uint64
}

type CompactCiphertextList struct {
	data   []uint64
	count  int
	params ShortintParams
}

func NewCompactCiphertextList(data []uint64, count int, params ShortintParams) (*CompactCiphertextList, error) {
	if params.LweDimension <= 0 {
		return nil, fmt.Errorf("invalid LWE dimension %d", params.LweDimension)
	}
	if params.MessageModulus < 2 || params.CarryModulus < 1 {
		return nil, fmt.Errorf("invalid message modulus %d or carry modulus %d", params.MessageModulus, params.CarryModulus)
	}
	if count < 0 {
		return nil, fmt.Errorf("negative ciphertext count %d", count)
	}
	if expected := dataSize(count, params.LweDimension); len(data) != expected {
		return nil, fmt.Errorf("expected %d coefficients for %d ciphertexts, got %d", expected, count, len(data))
	}
	return &CompactCiphertextList{data, count, params}, nil
}

func dataSize(count, lweDimension int) int {
	bins := (count + lweDimension - 1) / lweDimension
	return bins*lweDimension + count
}

// Len returns the number of ciphertexts in the list.
func (l *CompactCiphertextList) Len() int {
	return l.count
}

func (l *CompactCiphertextList) Params() ShortintParams {
	return l.params
}

// Data returns the underlying coefficients, the caller must not modify them.
func (l *CompactCiphertextList) Data() []uint64 {
	return l.data
}

func (l *CompactCiphertextList) Equal(other *CompactCiphertextList) bool {
	return l.count == other.count && l.params == other.params && slices.Equal(l.data, other.data)
}

// ConformanceParams describes the lists accepted for a parameter set.
type ConformanceParams struct {
	Shortint    ShortintParams
	NumElements conformance.ListSizeConstraint
}

func (l *CompactCiphertextList) IsConformant(params ConformanceParams) bool {
	return l.params == params.Shortint && params.NumElements.IsValid(l.count)
}

var Versions = versioning.New("CompactCiphertextList",
	versioning.Current(
		func(target codec.Target, l *CompactCiphertextList) { l.encode(target) },
		decode,
	))

func (l *CompactCiphertextList) encode(target codec.Target) {
	target.WriteUint64s(l.data)
	target.WriteInt(l.count)
	target.WriteUint64(l.params.MessageModulus)
	target.WriteUint64(l.params.CarryModulus)
	target.WriteInt(l.params.LweDimension)
	target.WriteUint64(l.params.CiphertextModulus)
}

func decode(src codec.Source) *CompactCiphertextList {
	data := src.ReadUint64s()
	count := src.ReadNonNegativeInt()
	params := ShortintParams{
		MessageModulus: src.ReadUint64(),
		CarryModulus:   src.ReadUint64(),
		LweDimension:   src.ReadNonNegativeInt(),
	}
	params.CiphertextModulus = src.ReadUint64()

	l, err := NewCompactCiphertextList(data, count, params)
	if err != nil {
		panic(fmt.Errorf("%w: %w", codec.ErrMalformed, err))
	}
	return l
}
