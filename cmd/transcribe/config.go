package main

import (
	"github.com/fyaic/multimedia-to-note/config"
	"github.com/fyaic/multimedia-to-note/observability"
	"github.com/fyaic/multimedia-to-note/transcriber"
)

const serviceName = "transcribe"

// Config is the transcribe command configuration.
//
//	name: transcribe
//	logging:
//	  level: info
//	deepgram:
//	  api_key: ...          # or DEEPGRAM_API_KEY
//	transcriber:
//	  output_dir: notes
//	  server:
//	    command: node
//	    args: [dist/index.js, --stdio]   # relative paths resolve against dir, else the working directory
//	    dir: /opt/deepgram-mcp-server
//	  options:
//	    model: nova-2
//	    language: zh
//	telemetry:
//	  endpoint: localhost:4318   # or OTEL_EXPORTER_OTLP_ENDPOINT; empty disables
//	  insecure: true
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Deepgram struct {
		APIKey string `yaml:"api_key" mapstructure:"api_key"`
	} `yaml:"deepgram" mapstructure:"deepgram"`

	Transcriber transcriber.Config   `yaml:"transcriber" mapstructure:"transcriber"`
	Telemetry   observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills unset fields. A command run is quiet unless asked
// otherwise, so the environment defaults to production.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Environment == "" {
		c.Environment = "production"
	}
	c.ServiceConfig.ApplyDefaults()

	if c.Transcriber.APIKey == "" {
		c.Transcriber.APIKey = c.Deepgram.APIKey
	}
	c.Transcriber.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Transcriber.Validate(); err != nil {
		return err
	}
	return c.Telemetry.Validate()
}

func loadConfig(configFile, envFile string) (*Config, error) {
	var cfg Config
	opts := []config.LoaderOption{
		config.WithEnvBinding("deepgram.api_key", "DEEPGRAM_API_KEY"),
		config.WithEnvBinding("logging.level", "LOG_LEVEL"),
		config.WithEnvBinding("logging.format", "LOG_FORMAT"),
		config.WithEnvBinding("telemetry.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
