package safeserialization

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/smartcontractkit/tfheartifacts/conformance"
	"github.com/smartcontractkit/tfheartifacts/internal/codec"
	"github.com/smartcontractkit/tfheartifacts/internal/versioning"
)

// Deserialize reads an artifact of type T, and checks the decoded value against the configured parameter set.
func Deserialize[P any, T conformance.ParameterSetConformant[P]](
	data []byte, versions *versioning.Versions[T], cfg DeserializationConfig[P],
) (T, error) {
	return deserialize(data, versions, cfg.base, func(value T) bool {
		return value.IsConformant(cfg.params)
	})
}

// DeserializeUnchecked reads an artifact of type T without checking the decoded value.
func DeserializeUnchecked[T any](
	data []byte, versions *versioning.Versions[T], cfg NonConformantDeserializationConfig,
) (T, error) {
	return deserialize(data, versions, cfg, nil)
}

// DeserializeFrom is like Deserialize, but reads the artifact from r. At most the configured size limit (plus the
// header limit) is read, a reader providing more data fails with a size error.
func DeserializeFrom[P any, T conformance.ParameterSetConformant[P]](
	r io.Reader, versions *versioning.Versions[T], cfg DeserializationConfig[P],
) (T, error) {
	data, err := readLimited(r, cfg.base)
	if err != nil {
		var zero T
		return zero, err
	}
	return Deserialize(data, versions, cfg)
}

// DeserializeUncheckedFrom is like DeserializeUnchecked, but reads the artifact from r.
func DeserializeUncheckedFrom[T any](
	r io.Reader, versions *versioning.Versions[T], cfg NonConformantDeserializationConfig,
) (T, error) {
	data, err := readLimited(r, cfg)
	if err != nil {
		var zero T
		return zero, err
	}
	return DeserializeUnchecked(data, versions, cfg)
}

// ReadHeader decodes (but does not validate) the header of an artifact. Only the header's bytes are inspected.
func ReadHeader(data []byte, env Environment) (Header, error) {
	header, err := codec.UnmarshalFromSource(codec.NewLimitedSource(data, env.HeaderLengthLimit), &Header{})
	if err != nil {
		return Header{}, newError(classify(err), StageHeader, err, "failed to decode the header")
	}
	return *header, nil
}

func readLimited(r io.Reader, cfg NonConformantDeserializationConfig) ([]byte, error) {
	if cfg.sizeLimit == 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read artifact: %w", err)
		}
		return data, nil
	}

	// The header and the payload are limited separately, one additional byte detects oversized input.
	max := int64(cfg.env.headerLimit(cfg.sizeLimit)) + int64(cfg.sizeLimit) + 1
	data, err := io.ReadAll(io.LimitReader(r, max))
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	if int64(len(data)) == max {
		return nil, newError(KindSizeExceeded, StagePayload, codec.ErrSizeLimitExceeded,
			"input exceeds %d bytes", max-1)
	}
	return data, nil
}

func deserialize[T any](
	data []byte, versions *versioning.Versions[T], cfg NonConformantDeserializationConfig, check func(T) bool,
) (T, error) {
	name := versions.Name()
	log := loggerOrDefault(cfg.logger).WithField("type", name)

	value, payloadBytes, err := decode(data, versions, cfg, check)
	cfg.metrics.observeDeserialize(name, payloadBytes, err)
	if err != nil {
		e := err.(*Error)
		log.WithFields(logrus.Fields{"stage": e.Stage, "kind": e.Kind}).WithError(e.Cause).Debug(e.Message)
		var zero T
		return zero, err
	}
	log.WithField("bytes", len(data)).Trace("artifact deserialized")
	return value, nil
}

func decode[T any](
	data []byte, versions *versioning.Versions[T], cfg NonConformantDeserializationConfig, check func(T) bool,
) (value T, payloadBytes int, err error) {
	name := versions.Name()
	headerLimit := cfg.env.headerLimit(cfg.sizeLimit)

	// The payload budget is sizeLimit - headerLimit, a limit that leaves no room for the payload is rejected.
	if cfg.sizeLimit != 0 && cfg.sizeLimit <= headerLimit {
		return value, 0, newError(KindSizeExceeded, StageHeader, codec.ErrSizeLimitExceeded,
			"size limit %d does not exceed the header limit %d", cfg.sizeLimit, headerLimit)
	}

	src := codec.NewLimitedSource(data, headerLimit)
	header, err := codec.UnmarshalFromSource(src, &Header{})
	if err != nil {
		return value, 0, newError(classify(err), StageHeader, err, "failed to decode the header")
	}
	if cfg.validateHeader {
		if err := header.Validate(name, cfg.env); err != nil {
			return value, 0, newError(KindHeaderMismatch, StageHeader, err, "invalid header")
		}
	}

	payloadBytes = src.Available()
	if cfg.sizeLimit != 0 {
		src.SetLimit(cfg.sizeLimit - headerLimit)
	} else {
		src.SetLimit(0)
	}

	if header.Mode == Versioned {
		var tagged versioning.Tagged
		_, err = codec.UnmarshalFromSource(src, &tagged)
		if err == nil {
			err = src.Finish()
		}
		if err == nil {
			value, err = versions.Unversionize(tagged)
		}
	} else {
		value, err = codec.UnmarshalFromSourceUsing(src, versions.DecodeCurrent)
		if err == nil {
			err = src.Finish()
		}
	}
	if err != nil {
		var zero T
		return zero, payloadBytes, newError(classify(err), StagePayload, err,
			"failed to decode the %s payload of %s", header.Mode, name)
	}

	if check != nil && !check(value) {
		var zero T
		return zero, payloadBytes, newError(KindConformanceFailed, StageConformance, nil,
			"%s does not conform to the expected parameters", name)
	}
	return value, payloadBytes, nil
}
