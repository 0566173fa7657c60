package versioning

import "github.com/smartcontractkit/tfheartifacts/internal/codec"

// Tagged is the versioned representation of a value: the tag of its shape, and the shape's encoding.
type Tagged struct {
	Tag     Tag
	Payload []byte
}

func (t Tagged) MarshalTo(target codec.Target) {
	target.WriteUint32(uint32(t.Tag))
	target.WriteLengthPrefixedBytes(t.Payload)
}

func (t *Tagged) UnmarshalFrom(src codec.Source) Tagged {
	t.Tag = Tag(src.ReadUint32())
	t.Payload = src.ReadLengthPrefixedBytes()
	return *t
}
