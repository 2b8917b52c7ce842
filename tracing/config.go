package tracing

import "time"

// Config defines how spans of repository operations are sampled and exported.
type Config struct {
	// Disable installs a no-op tracer provider.
	Disable bool `yaml:"disable" default:"false"`

	// SampleRate is the fraction of root traces kept, between 0 and 1.
	SampleRate float64 `yaml:"sample_rate" default:"1"`

	// ExporterHost and ExporterPort address the OTLP gRPC collector.
	ExporterHost string `yaml:"exporter_host" validate:"required_unless=Disable true"`
	ExporterPort int    `yaml:"exporter_port" validate:"required_unless=Disable true"`

	// ShutdownTimeout bounds flushing pending spans on shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"5s"`

	// Tags are added as resource attributes to every span.
	Tags map[string]string `yaml:"tags"`
}
