// Package config provides the artifactctl configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/smartcontractkit/tfheartifacts/safeserialization"
)

const (
	defaultSizeLimit = 1 << 30
	defaultLogLevel  = "INFO"
	defaultStorePath = "artifacts.db"
)

// Serialization is the configuration used when writing artifacts.
type Serialization struct {
	// SizeLimit is the maximum size of a written artifact in bytes, -1 or 0 disables the limit. If omitted, 1 GiB is
	// used.
	SizeLimit int

	// DisableVersioning writes the raw encoding of the current shape, without a shape tag.
	DisableVersioning bool
}

func (sCfg *Serialization) validate() error {
	if sCfg.SizeLimit < 0 {
		return fmt.Errorf("config: Serialization: SizeLimit %d is invalid", sCfg.SizeLimit)
	}
	return nil
}

// Deserialization is the configuration used when reading artifacts.
type Deserialization struct {
	// SizeLimit is the maximum number of bytes read for the header and the payload, -1 or 0 disables the limit. If
	// omitted, 1 GiB is used.
	SizeLimit int

	// DisableHeaderValidation accepts artifacts written for another type name or format version.
	DisableHeaderValidation bool
}

func (dCfg *Deserialization) validate() error {
	if dCfg.SizeLimit < 0 {
		return fmt.Errorf("config: Deserialization: SizeLimit %d is invalid", dCfg.SizeLimit)
	}
	if dCfg.SizeLimit != 0 && dCfg.SizeLimit <= safeserialization.DefaultEnvironment.HeaderLengthLimit {
		return fmt.Errorf("config: Deserialization: SizeLimit %d leaves no room for the payload", dCfg.SizeLimit)
	}
	return nil
}

// Logging is the logging configuration.
type Logging struct {
	// File specifies the log file, if omitted stderr will be used.
	File string

	// Level specifies the log level, one of PANIC, FATAL, ERROR, WARNING, INFO, DEBUG, TRACE.
	Level string
}

func (lCfg *Logging) validate() error {
	if lCfg.Level == "" {
		lCfg.Level = defaultLogLevel
	}
	if _, err := logrus.ParseLevel(lCfg.Level); err != nil {
		return fmt.Errorf("config: Logging: Level '%v' is invalid", lCfg.Level)
	}
	return nil
}

// Store is the artifact store configuration.
type Store struct {
	// Path is the bbolt database file. Relative paths are resolved against the directory of the config file.
	Path string
}

// Config is the top level configuration.
type Config struct {
	Serialization   Serialization
	Deserialization Deserialization
	Logging         Logging
	Store           Store
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{
		Serialization:   Serialization{SizeLimit: defaultSizeLimit},
		Deserialization: Deserialization{SizeLimit: defaultSizeLimit},
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// Validate checks the configuration and fills in the defaults of omitted values. A size limit of 0 disables the
// limit. Validate may be called repeatedly, it never changes a valid configuration.
func (cfg *Config) Validate() error {
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath
	}

	if err := cfg.Serialization.validate(); err != nil {
		return err
	}
	if err := cfg.Deserialization.validate(); err != nil {
		return err
	}
	return cfg.Logging.validate()
}

// Maps the size limits as written in a config file to their values: an omitted limit is the default, -1 (or 0)
// disables the limit.
func resolveSizeLimits(cfg *Config, md toml.MetaData) {
	for _, limit := range []struct {
		section string
		value   *int
	}{
		{"Serialization", &cfg.Serialization.SizeLimit},
		{"Deserialization", &cfg.Deserialization.SizeLimit},
	} {
		switch {
		case !isDefined(md, limit.section, "SizeLimit"):
			*limit.value = defaultSizeLimit
		case *limit.value == -1:
			*limit.value = 0
		}
	}
}

// Like md.IsDefined, but matches keys case-insensitively, as toml.Decode does when mapping keys to fields.
func isDefined(md toml.MetaData, key ...string) bool {
	for _, k := range md.Keys() {
		if len(k) == len(key) && slices.EqualFunc(k, key, strings.EqualFold) {
			return true
		}
	}
	return false
}

// SerializationConfig returns the envelope configuration for writing artifacts.
func (cfg *Config) SerializationConfig() safeserialization.SerializationConfig {
	c := safeserialization.NewSerializationConfig(cfg.Serialization.SizeLimit)
	if cfg.Serialization.DisableVersioning {
		c = c.DisableVersioning()
	}
	return c
}

// UncheckedDeserializationConfig returns the envelope configuration for reading artifacts without a parameter set.
func (cfg *Config) UncheckedDeserializationConfig() safeserialization.NonConformantDeserializationConfig {
	c := safeserialization.NewDeserializationConfigWithoutConformance(cfg.Deserialization.SizeLimit)
	if cfg.Deserialization.DisableHeaderValidation {
		c = c.DisableHeaderValidation()
	}
	return c
}

// DeserializationConfig returns the envelope configuration for reading artifacts conforming to params.
func DeserializationConfig[P any](cfg *Config, params P) safeserialization.DeserializationConfig[P] {
	return safeserialization.EnableConformanceCheck(cfg.UncheckedDeserializationConfig(), params)
}

// Logger returns a logger writing to the configured file (or stderr) at the configured level. The returned closer
// releases the log file.
func (cfg *Config) Logger() (*logrus.Logger, io.Closer, error) {
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	if cfg.Logging.File == "" {
		logger.SetOutput(os.Stderr)
		return logger, io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("config: failed to open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, f, nil
}

// Load parses and validates the provided buffer b as a config file body and returns the Config.
func Load(b []byte) (*Config, error) {
	if b == nil {
		return nil, errors.New("config: no nil buffer as config file")
	}

	cfg := new(Config)
	md, err := toml.Decode(string(b), cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("config: Undecoded keys in config file: %v", undecoded)
	}
	resolveSizeLimits(cfg, md)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads, parses and validates the provided file and returns the Config.
func LoadFile(f string) (*Config, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}
	cfg, err := Load(b)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(cfg.Store.Path) {
		cfg.Store.Path = filepath.Join(filepath.Dir(f), cfg.Store.Path)
	}
	return cfg, nil
}
