package config

import (
	"fmt"
	"time"

	"github.com/kbukum/pipelayer/errors"
	"github.com/kbukum/pipelayer/logger"
	"github.com/kbukum/pipelayer/manifest"
	"github.com/kbukum/pipelayer/observability"
	"github.com/kbukum/pipelayer/server"
	"github.com/kbukum/pipelayer/util"
	"github.com/kbukum/pipelayer/validation"
	"github.com/kbukum/pipelayer/version"
)

// Settings is the runtime configuration of a pipelayer process. It is also
// the value a pipeline Context exposes through Settings().
type Settings struct {
	Name        string           `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string           `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string           `yaml:"version" mapstructure:"version"`
	Logging     logger.Config    `yaml:"logging" mapstructure:"logging"`
	Manifest    ManifestSettings `yaml:"manifest" mapstructure:"manifest"`
	Tracing     TracingSettings  `yaml:"tracing" mapstructure:"tracing"`
	Metrics     MetricsSettings  `yaml:"metrics" mapstructure:"metrics"`
	Server      server.Config    `yaml:"server" mapstructure:"server"`
}

// ManifestSettings controls how run manifests are rendered.
type ManifestSettings struct {
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json yaml dot"`
	Indent int    `yaml:"indent" mapstructure:"indent" validate:"gte=0,lte=8"`
}

// TracingSettings configures the OTLP trace exporter.
type TracingSettings struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// MetricsSettings configures the OTLP metric exporter.
type MetricsSettings struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	Insecure bool          `yaml:"insecure" mapstructure:"insecure"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
}

// Default returns settings with every default applied.
func Default(name string) *Settings {
	s := &Settings{Name: name}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults fills zero values.
func (s *Settings) ApplyDefaults() {
	if s.Environment == "" {
		s.Environment = "development"
	}
	if s.Version == "" {
		s.Version = version.Version
	}
	s.Logging.ApplyDefaults()
	if s.Manifest.Format == "" {
		s.Manifest.Format = string(manifest.FormatJSON)
	}
	if s.Tracing.Endpoint == "" {
		s.Tracing.Endpoint = "localhost:4318"
	}
	if s.Tracing.SampleRate == 0 {
		s.Tracing.SampleRate = 1.0
	}
	if s.Metrics.Endpoint == "" {
		s.Metrics.Endpoint = "localhost:4318"
	}
	if s.Metrics.Interval == 0 {
		s.Metrics.Interval = 15 * time.Second
	}
	s.Server.ApplyDefaults()
}

// Validate checks the struct tags and the logging block.
func (s *Settings) Validate() error {
	if err := validation.Validate(s); err != nil {
		return errors.InvalidConfig(err.Error()).WithCause(err)
	}
	if err := s.Logging.Validate(); err != nil {
		return errors.InvalidConfig(err.Error()).WithCause(err)
	}
	return nil
}

// ManifestFormat returns the configured manifest format.
func (s *Settings) ManifestFormat() manifest.Format {
	return manifest.Format(s.Manifest.Format)
}

// TracerConfig maps the tracing block onto the exporter configuration.
func (s *Settings) TracerConfig() *observability.TracerConfig {
	return &observability.TracerConfig{
		ServiceName:    s.Name,
		ServiceVersion: s.Version,
		Environment:    s.Environment,
		Endpoint:       s.Tracing.Endpoint,
		Insecure:       s.Tracing.Insecure,
		SampleRate:     s.Tracing.SampleRate,
	}
}

// MeterConfig maps the metrics block onto the exporter configuration.
func (s *Settings) MeterConfig() *observability.MeterConfig {
	return &observability.MeterConfig{
		ServiceName:    s.Name,
		ServiceVersion: s.Version,
		Environment:    s.Environment,
		Endpoint:       s.Metrics.Endpoint,
		Insecure:       s.Metrics.Insecure,
		Interval:       s.Metrics.Interval,
	}
}

// Load reads settings for serviceName from config.yml, .env and
// PIPELAYER_ variables, then applies defaults and validates the result.
// A missing name falls back to serviceName.
func Load(serviceName string, s *Settings, opts ...LoaderOption) error {
	if s == nil {
		return errors.InvalidConfig("settings must not be nil")
	}
	if err := LoadConfig(serviceName, s, opts...); err != nil {
		return err
	}
	s.Name = util.Coalesce(s.Name, serviceName)
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return fmt.Errorf("config: %s: %w", serviceName, err)
	}
	return nil
}
