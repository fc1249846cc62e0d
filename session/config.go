package session

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fyaic/multimedia-to-note/process"
	"github.com/fyaic/multimedia-to-note/validation"
	"github.com/fyaic/multimedia-to-note/version"
)

// Defaults launch the bundled Deepgram MCP server with node.
const (
	DefaultCommand    = "node"
	DefaultClientName = "multimedia-to-note"
)

// DefaultScript is the server entry point launched when neither Command nor
// Args are configured. It is looked up next to the executable first and
// otherwise taken relative to the working directory.
const DefaultScript = "dist/index.js"

// DefaultArgs returns the arguments launching DefaultScript over stdio.
func DefaultArgs() []string {
	dir := ""
	if exe, err := os.Executable(); err == nil {
		dir = filepath.Dir(exe)
	}
	return []string{locateScript(dir), "--stdio"}
}

func locateScript(exeDir string) string {
	if exeDir != "" {
		p := filepath.Join(exeDir, filepath.FromSlash(DefaultScript))
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return DefaultScript
}

// Config describes how to launch the tool server and how the client
// introduces itself during the handshake.
type Config struct {
	Command       string        `yaml:"command" mapstructure:"command" validate:"required"`
	Args          []string      `yaml:"args" mapstructure:"args"`
	Env           []string      `yaml:"env" mapstructure:"env"`
	Dir           string        `yaml:"dir" mapstructure:"dir"`
	GracePeriod   time.Duration `yaml:"grace_period" mapstructure:"grace_period" validate:"gte=0"`
	ClientName    string        `yaml:"client_name" mapstructure:"client_name" validate:"required"`
	ClientVersion string        `yaml:"client_version" mapstructure:"client_version"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Command == "" {
		c.Command = DefaultCommand
		if len(c.Args) == 0 {
			c.Args = DefaultArgs()
		}
	}
	if c.GracePeriod == 0 {
		c.GracePeriod = process.DefaultGracePeriod
	}
	if c.ClientName == "" {
		c.ClientName = DefaultClientName
	}
	if c.ClientVersion == "" {
		c.ClientVersion = version.Version
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
