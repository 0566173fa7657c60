// Package safeserialization reads and writes artifacts: a bounded header identifying the type, the envelope format and
// the versioning mode, followed by a size-limited payload.
//
//	[header]  header_version string | versioning_mode uint8 | versioning_version string | type_name string
//	[payload] versioned:   shape_tag uint32 | shape_payload []byte
//	          unversioned: the raw encoding of the current shape
//
// Deserialization never hands out a value that failed any of its stages: the header is decoded under its own limit and
// validated against the expected type, the payload is decoded under the remaining size budget and upgraded to the
// current shape, and the result is finally checked against the caller's parameter set.
package safeserialization

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/smartcontractkit/tfheartifacts/internal/codec"
	"github.com/smartcontractkit/tfheartifacts/internal/versioning"
)

// Serialize writes value as an artifact.
func Serialize[T any](value T, versions *versioning.Versions[T], cfg SerializationConfig) ([]byte, error) {
	name := versions.Name()
	mode := cfg.Mode()
	log := loggerOrDefault(cfg.logger).WithFields(logrus.Fields{"type": name, "mode": mode.String()})

	data, payloadBytes, err := serialize(value, versions, cfg, mode)
	cfg.metrics.observeSerialize(name, mode, payloadBytes, err)
	if err != nil {
		log.WithError(err).Debug("artifact serialization failed")
		return nil, err
	}
	log.WithField("bytes", len(data)).Trace("artifact serialized")
	return data, nil
}

// SerializeInto writes value as an artifact into w, and returns the number of bytes written.
func SerializeInto[T any](w io.Writer, value T, versions *versioning.Versions[T], cfg SerializationConfig) (int, error) {
	data, err := Serialize(value, versions, cfg)
	if err != nil {
		return 0, err
	}
	return w.Write(data)
}

func serialize[T any](
	value T, versions *versioning.Versions[T], cfg SerializationConfig, mode VersioningMode,
) ([]byte, int, error) {
	header := NewHeader(versions.Name(), mode, cfg.env)

	target := codec.NewTarget(cfg.env.headerLimit(cfg.sizeLimit))
	if err := target.Marshal(&header); err != nil {
		return nil, 0, encodeError(StageHeader, err, "failed to encode the header")
	}
	headerBytes := target.Written()

	target.SetLimit(cfg.sizeLimit)
	var err error
	if mode == Versioned {
		var tagged versioning.Tagged
		tagged, err = versions.Versionize(value)
		if err == nil {
			err = target.Marshal(tagged)
		}
	} else {
		err = target.Marshal(rawMarshaler[T]{versions, value})
	}
	if err != nil {
		return nil, 0, encodeError(StagePayload, err, "failed to encode the payload of %s", versions.Name())
	}
	return target.Bytes(), target.Written() - headerBytes, nil
}

func encodeError(stage Stage, err error, format string, args ...any) *Error {
	kind := KindEncode
	if classify(err) == KindSizeExceeded {
		kind = KindSizeExceeded
	}
	return newError(kind, stage, err, format, args...)
}

type rawMarshaler[T any] struct {
	versions *versioning.Versions[T]
	value    T
}

func (m rawMarshaler[T]) MarshalTo(target codec.Target) {
	m.versions.EncodeCurrent(target, m.value)
}
