package safeserialization

import (
	"github.com/sirupsen/logrus"
)

// Configurations are immutable values, each builder method returns a modified copy.

// SerializationConfig configures how artifacts are written.
type SerializationConfig struct {
	sizeLimit int
	versioned bool
	env       Environment
	logger    logrus.FieldLogger
	metrics   *Metrics
}

// NewSerializationConfig returns a configuration that writes versioned artifacts of at most sizeLimit bytes. The
// header is limited separately (see Environment.HeaderLengthLimit), a sizeLimit of 0 disables both limits.
func NewSerializationConfig(sizeLimit int) SerializationConfig {
	if sizeLimit < 0 {
		panic("negative size limit")
	}
	return SerializationConfig{sizeLimit: sizeLimit, versioned: true, env: DefaultEnvironment}
}

func NewSerializationConfigWithUnlimitedSize() SerializationConfig {
	return NewSerializationConfig(0)
}

func (c SerializationConfig) DisableSizeLimit() SerializationConfig {
	c.sizeLimit = 0
	return c
}

// DisableVersioning writes the payload in the raw current shape. Such artifacts can only be read back by releases with
// the same producer version.
func (c SerializationConfig) DisableVersioning() SerializationConfig {
	c.versioned = false
	return c
}

func (c SerializationConfig) WithEnvironment(env Environment) SerializationConfig {
	c.env = env
	return c
}

func (c SerializationConfig) WithLogger(logger logrus.FieldLogger) SerializationConfig {
	c.logger = logger
	return c
}

func (c SerializationConfig) WithMetrics(metrics *Metrics) SerializationConfig {
	c.metrics = metrics
	return c
}

func (c SerializationConfig) SizeLimit() int {
	return c.sizeLimit
}

func (c SerializationConfig) Mode() VersioningMode {
	if c.versioned {
		return Versioned
	}
	return Unversioned
}

// NonConformantDeserializationConfig configures how artifacts are read, without a conformance check of the decoded
// value. Prefer DeserializationConfig wherever the expected parameters are known.
type NonConformantDeserializationConfig struct {
	sizeLimit      int
	validateHeader bool
	env            Environment
	logger         logrus.FieldLogger
	metrics        *Metrics
}

// NewDeserializationConfigWithoutConformance returns a configuration that reads artifacts of at most sizeLimit bytes
// (0 means unlimited), and validates their headers.
func NewDeserializationConfigWithoutConformance(sizeLimit int) NonConformantDeserializationConfig {
	if sizeLimit < 0 {
		panic("negative size limit")
	}
	return NonConformantDeserializationConfig{sizeLimit: sizeLimit, validateHeader: true, env: DefaultEnvironment}
}

// NewUnsafeDeserializationConfig returns a configuration without size limit, header validation and conformance check.
// Only use it for trusted input.
func NewUnsafeDeserializationConfig() NonConformantDeserializationConfig {
	return NewDeserializationConfigWithoutConformance(0).DisableHeaderValidation()
}

func (c NonConformantDeserializationConfig) DisableSizeLimit() NonConformantDeserializationConfig {
	c.sizeLimit = 0
	return c
}

func (c NonConformantDeserializationConfig) DisableHeaderValidation() NonConformantDeserializationConfig {
	c.validateHeader = false
	return c
}

func (c NonConformantDeserializationConfig) WithEnvironment(env Environment) NonConformantDeserializationConfig {
	c.env = env
	return c
}

func (c NonConformantDeserializationConfig) WithLogger(logger logrus.FieldLogger) NonConformantDeserializationConfig {
	c.logger = logger
	return c
}

func (c NonConformantDeserializationConfig) WithMetrics(metrics *Metrics) NonConformantDeserializationConfig {
	c.metrics = metrics
	return c
}

func (c NonConformantDeserializationConfig) SizeLimit() int {
	return c.sizeLimit
}

func (c NonConformantDeserializationConfig) ValidatesHeader() bool {
	return c.validateHeader
}

// EnableConformanceCheck returns a configuration that additionally checks decoded values against params.
func EnableConformanceCheck[P any](c NonConformantDeserializationConfig, params P) DeserializationConfig[P] {
	return DeserializationConfig[P]{base: c, params: params}
}

// DeserializationConfig configures how artifacts are read, including the conformance check of the decoded value
// against a parameter set of type P.
type DeserializationConfig[P any] struct {
	base   NonConformantDeserializationConfig
	params P
}

// NewDeserializationConfig returns a configuration that reads artifacts of at most sizeLimit bytes (0 means
// unlimited), validates their headers and checks the decoded values against params.
func NewDeserializationConfig[P any](sizeLimit int, params P) DeserializationConfig[P] {
	return EnableConformanceCheck(NewDeserializationConfigWithoutConformance(sizeLimit), params)
}

func NewDeserializationConfigWithUnlimitedSize[P any](params P) DeserializationConfig[P] {
	return NewDeserializationConfig(0, params)
}

func (c DeserializationConfig[P]) DisableSizeLimit() DeserializationConfig[P] {
	c.base = c.base.DisableSizeLimit()
	return c
}

func (c DeserializationConfig[P]) DisableHeaderValidation() DeserializationConfig[P] {
	c.base = c.base.DisableHeaderValidation()
	return c
}

// DisableConformanceCheck drops the parameter set.
func (c DeserializationConfig[P]) DisableConformanceCheck() NonConformantDeserializationConfig {
	return c.base
}

func (c DeserializationConfig[P]) WithEnvironment(env Environment) DeserializationConfig[P] {
	c.base = c.base.WithEnvironment(env)
	return c
}

func (c DeserializationConfig[P]) WithLogger(logger logrus.FieldLogger) DeserializationConfig[P] {
	c.base = c.base.WithLogger(logger)
	return c
}

func (c DeserializationConfig[P]) WithMetrics(metrics *Metrics) DeserializationConfig[P] {
	c.base = c.base.WithMetrics(metrics)
	return c
}

func (c DeserializationConfig[P]) SizeLimit() int {
	return c.base.sizeLimit
}

func (c DeserializationConfig[P]) Params() P {
	return c.params
}

func loggerOrDefault(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger == nil {
		return logrus.StandardLogger()
	}
	return logger
}
