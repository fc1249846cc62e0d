package logger

import (
	"github.com/fyaic/multimedia-to-note/validation"
)

// Config contains logging configuration.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults applies default values to logging configuration.
// Output defaults to stderr so that stdout stays free for command results.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
	c.Timestamp = true
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	return validation.New().
		Required("logging.level", c.Level).
		OneOf("logging.level", c.Level, []string{"debug", "info", "warn", "error", "fatal", "trace"}).
		Required("logging.format", c.Format).
		OneOf("logging.format", c.Format, []string{"json", "console", "pretty"}).
		Required("logging.output", c.Output).
		OneOf("logging.output", c.Output, []string{"stdout", "stderr"}).
		Err()
}
