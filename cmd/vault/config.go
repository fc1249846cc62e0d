package main

import (
	"github.com/fyaic/multimedia-to-note/config"
	"github.com/fyaic/multimedia-to-note/observability"
	"github.com/fyaic/multimedia-to-note/vault"
)

const serviceName = "vault"

// Config is the vault command configuration. The API key is only needed by
// sync.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Obsidian  vault.Config         `yaml:"obsidian" mapstructure:"obsidian"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Environment == "" {
		c.Environment = "production"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Obsidian.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Obsidian.Validate(); err != nil {
		return err
	}
	return c.Telemetry.Validate()
}

func loadConfig(configFile, envFile string) (*Config, error) {
	var cfg Config
	opts := []config.LoaderOption{
		config.WithEnvBinding("obsidian.api_key", vault.CredentialEnv),
		config.WithEnvBinding("obsidian.host", "OBSIDIAN_HOST"),
		config.WithEnvBinding("obsidian.port", "OBSIDIAN_PORT"),
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
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
