package vault

import (
	"net"
	"strconv"
	"time"

	"github.com/fyaic/multimedia-to-note/resilience"
	"github.com/fyaic/multimedia-to-note/validation"
)

const (
	// DefaultHost is where the local REST API listens.
	DefaultHost = "127.0.0.1"
	// DefaultPort is the REST API's plain HTTP port.
	DefaultPort = 27123
	// CredentialEnv names the variable holding the API key.
	CredentialEnv = "OBSIDIAN_API_KEY"

	defaultTimeout = 10 * time.Second
)

// Config configures the REST API client.
type Config struct {
	Host    string        `yaml:"host" mapstructure:"host" validate:"required"`
	Port    int           `yaml:"port" mapstructure:"port" validate:"gt=0,max=65535"`
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	Retry   resilience.RetryPolicy `yaml:"retry" mapstructure:"retry"`
	Breaker BreakerConfig          `yaml:"breaker" mapstructure:"breaker"`
}

// BreakerConfig controls when a batch sync gives up on the vault.
type BreakerConfig struct {
	MaxFailures int           `yaml:"max_failures" mapstructure:"max_failures" validate:"gte=1"`
	Cooldown    time.Duration `yaml:"cooldown" mapstructure:"cooldown"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = resilience.DefaultRetryPolicy()
	}
	if c.Breaker.MaxFailures == 0 {
		def := resilience.DefaultCircuitBreakerConfig("vault")
		c.Breaker = BreakerConfig{MaxFailures: def.MaxFailures, Cooldown: def.Cooldown}
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// BaseURL is the root of the REST API.
func (c *Config) BaseURL() string {
	return "http://" + net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
