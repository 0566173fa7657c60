package safeserialization

import (
	"fmt"

	"github.com/smartcontractkit/tfheartifacts/internal/codec"
)

// VersioningMode tells whether the payload of an artifact is a tagged (upgradable) record, or the raw encoding of the
// producing release's current shape.
type VersioningMode uint8

const (
	Versioned VersioningMode = iota
	Unversioned
)

func (m VersioningMode) String() string {
	switch m {
	case Versioned:
		return "versioned"
	case Unversioned:
		return "unversioned"
	default:
		return fmt.Sprintf("VersioningMode(%d)", uint8(m))
	}
}

// Environment holds the constants written into (and expected in) artifact headers.
type Environment struct {
	// Version of the envelope format, written into every header. It is not checked on deserialization.
	SerializationVersion string

	// Version of the versioning scheme, written into (and required in) headers of versioned artifacts.
	VersioningVersion string

	// Version ("major.minor") of the producing release, written into (and required in) headers of unversioned
	// artifacts.
	ProducerVersion string

	// Upper bound for the size of the encoded header. Applied only if the artifact's size limit is enabled.
	HeaderLengthLimit int
}

var DefaultEnvironment = Environment{
	SerializationVersion: "0.5",
	VersioningVersion:    "0.1",
	ProducerVersion:      "0.1",
	HeaderLengthLimit:    1000,
}

// Returns the header limit for an artifact limited to sizeLimit bytes (0 means unlimited).
func (e Environment) headerLimit(sizeLimit int) int {
	if sizeLimit == 0 {
		return 0
	}
	return e.HeaderLengthLimit
}

// Header is the unversioned record preceding the payload of every artifact.
type Header struct {
	HeaderVersion     string
	Mode              VersioningMode
	VersioningVersion string
	Name              string
}

// NewHeader returns the header for an artifact of the named type, written in the given mode.
func NewHeader(name string, mode VersioningMode, env Environment) Header {
	h := Header{
		HeaderVersion: env.SerializationVersion,
		Mode:          mode,
		Name:          name,
	}
	if mode == Versioned {
		h.VersioningVersion = env.VersioningVersion
	} else {
		h.VersioningVersion = env.ProducerVersion
	}
	return h
}

func (h *Header) MarshalTo(target codec.Target) {
	target.WriteString(h.HeaderVersion)
	target.WriteUint8(uint8(h.Mode))
	target.WriteString(h.VersioningVersion)
	target.WriteString(h.Name)
}

func (h *Header) UnmarshalFrom(src codec.Source) *Header {
	h.HeaderVersion = src.ReadString()
	h.Mode = VersioningMode(src.ReadUint8())
	if h.Mode != Versioned && h.Mode != Unversioned {
		panic(fmt.Errorf("%w: invalid versioning mode %d", codec.ErrMalformed, uint8(h.Mode)))
	}
	h.VersioningVersion = src.ReadString()
	h.Name = src.ReadString()
	return h
}

// Validate checks that an artifact with this header can be read as the named type.
func (h *Header) Validate(name string, env Environment) error {
	if h.Mode == Versioned {
		if h.VersioningVersion != env.VersioningVersion {
			return fmt.Errorf("expected versioning scheme version %s, got version %s",
				env.VersioningVersion, h.VersioningVersion)
		}
	} else if h.VersioningVersion != env.ProducerVersion {
		return fmt.Errorf("this %s was written by release v%s without versioning information, "+
			"use the versioned serialization mode for backward compatibility", h.Name, h.VersioningVersion)
	}

	if h.Name != name {
		return fmt.Errorf("expected type %s, got type %s", name, h.Name)
	}
	return nil
}
