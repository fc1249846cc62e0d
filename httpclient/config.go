package httpclient

import (
	"fmt"
	"time"

	"github.com/fyaic/multimedia-to-note/resilience"
)

const (
	defaultTimeout = 30 * time.Second
)

// Config configures the HTTP client.
type Config struct {
	// BaseURL is the base URL prepended to all request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout is the default request timeout. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is sent on every request when set.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Auth configures default authentication applied to all requests.
	// Individual requests can override this.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Retry enables retry of retryable failures. Nil disables retry.
	Retry *resilience.RetryPolicy `yaml:"retry" mapstructure:"retry"`

	// OnRetry is called before each retry.
	OnRetry func(attempt int, err error, backoff time.Duration) `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.Retry != nil && c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("httpclient: retry.max_attempts must be at least 1")
	}
	return nil
}

// retryConfig builds the retry settings, retrying only errors the
// classification marks as retryable.
func (c *Config) retryConfig() resilience.RetryConfig {
	cfg := c.Retry.Config(IsRetryable)
	cfg.OnRetry = c.OnRetry
	return cfg
}
