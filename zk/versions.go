package zk

import (
	"fmt"

	"github.com/smartcontractkit/tfheartifacts/internal/codec"
	"github.com/smartcontractkit/tfheartifacts/internal/crypto/math"
	"github.com/smartcontractkit/tfheartifacts/internal/versioning"
)

// Smallest encoding of a nested SerializableAffine record: tag and payload length.
const minAffineRecordSize = 8

// publicParamsV0 is the first persisted shape: points in any SerializableAffine encoding (the first release wrote them
// uncompressed), and hashes as byte vectors.
type publicParamsV0 struct {
	gList    []math.SerializableAffine
	integers [10]uint64
	hashes   [len(hashNames)][]byte
}

func decodePublicParamsV0(src codec.Source) publicParamsV0 {
	var v publicParamsV0
	v.gList = make([]math.SerializableAffine, src.ReadLength(minAffineRecordSize))
	for i := range v.gList {
		v.gList[i] = math.SerializableAffineVersions.UnmarshalFrom(src)
	}
	for i := range v.integers {
		v.integers[i] = src.ReadUint64()
	}
	for i := range v.hashes {
		v.hashes[i] = src.ReadLengthPrefixedBytes()
	}
	return v
}

// Converts the hashes to fixed-size arrays and the points to points of the BLS12-381 G1 curve. Compressed points are
// decompressed, uncompressed points are taken as is and left to the conformance check.
func upgradePublicParamsV0(v publicParamsV0) (*PublicParams, error) {
	p := &PublicParams{GList: make([]*math.AffinePoint, len(v.gList))}
	for i, s := range v.gList {
		g, err := s.Point(Curve)
		if err != nil {
			return nil, fmt.Errorf("g_list[%d]: %w", i, err)
		}
		p.GList[i] = g
	}
	for i, dst := range p.integers() {
		*dst = v.integers[i]
	}
	for i, dst := range p.Hashes.fields() {
		if len(v.hashes[i]) != HashLength {
			return nil, &InvalidArraySizeError{Field: hashNames[i], Expected: HashLength, Found: len(v.hashes[i])}
		}
		copy(dst[:], v.hashes[i])
	}
	return p, nil
}

func encodePublicParams(target codec.Target, p *PublicParams) {
	target.WriteInt(len(p.GList))
	for _, g := range p.GList {
		math.SerializableAffineVersions.MarshalTo(target, math.Compressed(g))
	}
	for _, v := range p.integers() {
		target.WriteUint64(*v)
	}
	for _, h := range p.Hashes.fields() {
		target.WriteBytes(h[:])
	}
}

func decodePublicParams(src codec.Source) *PublicParams {
	p := &PublicParams{GList: make([]*math.AffinePoint, src.ReadLength(minAffineRecordSize))}
	for i := range p.GList {
		p.GList[i] = math.SerializableAffineVersions.UnmarshalFrom(src).MustPoint(Curve)
	}
	for _, v := range p.integers() {
		*v = src.ReadUint64()
	}
	for _, h := range p.Hashes.fields() {
		src.ReadBytesInto(h[:])
	}
	return p
}

var Versions = versioning.New("CompactPkePublicParams",
	versioning.Historical(decodePublicParamsV0, versioning.Fallible(upgradePublicParamsV0),
		versioning.Current(encodePublicParams, decodePublicParams)))
