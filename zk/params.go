// Package zk holds the persisted form of the public parameters (CRS) of the zero-knowledge proofs of encryption.
//
// The parameters consist of a list of BLS12-381 G1 points, the integer parameters of the proven relation and ten
// domain separators for the proof's hash functions. Points are stored compressed, as (x, sign) pairs. The first
// release stored the domain separators as variable-length byte vectors, which are converted to fixed-size arrays on
// decoding.
package zk

import (
	"slices"

	"github.com/smartcontractkit/tfheartifacts/internal/crypto/math"
	"github.com/smartcontractkit/tfheartifacts/internal/crypto/xof"
)

const HashLength = 32

// Curve of the points of the public parameters.
var Curve = math.BLS12381G1

// Hashes are the domain separators of the hash functions used by the proof system.
type Hashes struct {
	Hash [HashLength]byte
	R    [HashLength]byte
	T    [HashLength]byte
	W    [HashLength]byte
	Agg  [HashLength]byte
	LMap [HashLength]byte
	Phi  [HashLength]byte
	Xi   [HashLength]byte
	Z    [HashLength]byte
	Chi  [HashLength]byte
}

var hashNames = [...]string{"hash", "hash_R", "hash_t", "hash_w", "hash_agg", "hash_lmap", "hash_phi", "hash_xi", "hash_z", "hash_chi"}

// The fields of h in the persisted order.
func (h *Hashes) fields() [len(hashNames)]*[HashLength]byte {
	return [...]*[HashLength]byte{&h.Hash, &h.R, &h.T, &h.W, &h.Agg, &h.LMap, &h.Phi, &h.Xi, &h.Z, &h.Chi}
}

// DeriveHashes derives the domain separators from a seed, each under its own domain separation tag.
func DeriveHashes(seed []byte) Hashes {
	var h Hashes
	for i, field := range h.fields() {
		x := xof.New("tfheartifacts/zk/" + hashNames[i])
		x.WriteBytes(seed)
		*field = x.Digest()
	}
	return h
}

type PublicParams struct {
	GList []*math.AffinePoint

	EffectiveDimension uint64 // D
	N                  uint64
	LweDimension       uint64 // d
	MessageCount       uint64 // k
	B                  uint64
	BR                 uint64
	BBound             uint64
	MBound             uint64
	Q                  uint64
	T                  uint64

	Hashes Hashes
}

// The integer parameters in the persisted order.
func (p *PublicParams) integers() [10]*uint64 {
	return [...]*uint64{
		&p.EffectiveDimension, &p.N, &p.LweDimension, &p.MessageCount, &p.B, &p.BR, &p.BBound, &p.MBound, &p.Q, &p.T,
	}
}

func (p *PublicParams) Equal(other *PublicParams) bool {
	if len(p.GList) != len(other.GList) {
		return false
	}
	for i := range p.GList {
		if !p.GList[i].Equal(other.GList[i]) {
			return false
		}
	}
	a, b := p.integers(), other.integers()
	for i := range a {
		if *a[i] != *b[i] {
			return false
		}
	}
	return p.Hashes == other.Hashes
}

// Fingerprint returns a digest over all parameters, used to identify a CRS independently of its encoding.
func (p *PublicParams) Fingerprint() [xof.DigestLength]byte {
	h := xof.New("tfheartifacts/zk/fingerprint")
	h.WriteInt(len(p.GList))
	for _, g := range p.GList {
		if g.IsInfinity() {
			h.WriteBytes(nil)
			continue
		}
		h.WriteUint64s(g.X().Limbs())
		h.WriteUint64s(g.Y().Limbs())
	}
	for _, v := range p.integers() {
		h.WriteUint64(*v)
	}
	for _, field := range p.Hashes.fields() {
		h.WriteBytes(field[:])
	}
	return h.Digest()
}

// ConformanceParams are the parameters a CRS must have been generated for.
type ConformanceParams struct {
	LweDimension uint64
	MessageCount uint64
	B            uint64
	Q            uint64
	T            uint64
}

// IsConformant checks the relation parameters, the number of points (2n), and that all points are elements of the
// prime order subgroup G1.
func (p *PublicParams) IsConformant(params ConformanceParams) bool {
	if p.LweDimension != params.LweDimension || p.MessageCount != params.MessageCount || p.B != params.B ||
		p.Q != params.Q || p.T != params.T {
		return false
	}
	// 2*N may overflow, compare against half the list length instead.
	if len(p.GList)%2 != 0 || uint64(len(p.GList)/2) != p.N {
		return false
	}
	return !slices.ContainsFunc(p.GList, func(g *math.AffinePoint) bool {
		_, err := math.ToCirclG1(g)
		return err != nil
	})
}
