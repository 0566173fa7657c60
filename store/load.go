package store

import (
	"github.com/ipfs/go-cid"
	"github.com/smartcontractkit/tfheartifacts/conformance"
	"github.com/smartcontractkit/tfheartifacts/internal/versioning"
	"github.com/smartcontractkit/tfheartifacts/safeserialization"
)

// Load reads the artifact with the given CID and deserializes it, see safeserialization.Deserialize.
func Load[P any, T conformance.ParameterSetConformant[P]](
	s *Store, id cid.Cid, versions *versioning.Versions[T], cfg safeserialization.DeserializationConfig[P],
) (T, error) {
	data, err := s.Get(id)
	if err != nil {
		var zero T
		return zero, err
	}
	return safeserialization.Deserialize(data, versions, cfg)
}

// LoadUnchecked is like Load, without the conformance check.
func LoadUnchecked[T any](
	s *Store, id cid.Cid, versions *versioning.Versions[T], cfg safeserialization.NonConformantDeserializationConfig,
) (T, error) {
	data, err := s.Get(id)
	if err != nil {
		var zero T
		return zero, err
	}
	return safeserialization.DeserializeUnchecked(data, versions, cfg)
}
