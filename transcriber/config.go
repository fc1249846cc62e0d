package transcriber

import (
	"github.com/fyaic/multimedia-to-note/audio"
	"github.com/fyaic/multimedia-to-note/session"
	"github.com/fyaic/multimedia-to-note/transcription"
	"github.com/fyaic/multimedia-to-note/validation"
)

// DefaultCredentialEnv is the variable the tool server reads its key from.
const DefaultCredentialEnv = "DEEPGRAM_API_KEY"

// Config is everything a Runner needs.
type Config struct {
	// APIKey is handed to the tool server. Checked at run time so a missing
	// key is reported before any other work.
	APIKey        string                `yaml:"api_key" mapstructure:"api_key"`
	CredentialEnv string                `yaml:"credential_env" mapstructure:"credential_env" validate:"required"`
	OutputDir     string                `yaml:"output_dir" mapstructure:"output_dir"`
	Input         audio.Config          `yaml:"input" mapstructure:"input"`
	Server        session.Config        `yaml:"server" mapstructure:"server"`
	Options       transcription.Options `yaml:"options" mapstructure:"options"`
}

// ApplyDefaults fills unset fields of every section.
func (c *Config) ApplyDefaults() {
	if c.CredentialEnv == "" {
		c.CredentialEnv = DefaultCredentialEnv
	}
	c.Input.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Options.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
