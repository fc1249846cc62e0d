package observability

import (
	"time"

	"github.com/fyaic/multimedia-to-note/validation"
)

// Config configures OTLP export.
type Config struct {
	// Endpoint is the OTLP HTTP endpoint, either host:port ("localhost:4318")
	// or a base URL ("http://collector:4318") as OTEL_EXPORTER_OTLP_ENDPOINT
	// carries it. Empty disables telemetry.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure sends telemetry over plain HTTP.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the trace sampling ratio (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	// MetricInterval is how often metrics are pushed.
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// Enabled reports whether an endpoint is configured.
func (c *Config) Enabled() bool {
	return c.Endpoint != ""
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval <= 0 {
		c.MetricInterval = 15 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Resource describes the process emitting telemetry.
type Resource struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
}
