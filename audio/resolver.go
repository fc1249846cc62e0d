package audio

import (
	"os"

	"github.com/fyaic/multimedia-to-note/errors"
	"github.com/fyaic/multimedia-to-note/logger"
)

// Default input names.
const (
	DefaultInput  = "temp_audio_best.m4a"
	FallbackInput = "temp_audio.m4a"
)

// FileSystem reports whether a path names an existing regular file.
type FileSystem interface {
	IsFile(path string) bool
}

// OSFileSystem checks the real filesystem.
type OSFileSystem struct{}

// IsFile is false for directories and for paths that cannot be stat'ed.
func (OSFileSystem) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Config holds the default and fallback inputs.
type Config struct {
	Default  string `yaml:"default" mapstructure:"default"`
	Fallback string `yaml:"fallback" mapstructure:"fallback"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Default == "" {
		c.Default = DefaultInput
	}
	if c.Fallback == "" {
		c.Fallback = FallbackInput
	}
}

// Resolver picks the file to transcribe.
type Resolver struct {
	cfg Config
	fs  FileSystem
	log *logger.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithFileSystem replaces the filesystem used for existence checks.
func WithFileSystem(fs FileSystem) ResolverOption {
	return func(r *Resolver) { r.fs = fs }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) ResolverOption {
	return func(r *Resolver) { r.log = l }
}

// NewResolver creates a Resolver. Unset config fields take the defaults.
func NewResolver(cfg Config, opts ...ResolverOption) *Resolver {
	cfg.ApplyDefaults()
	r := &Resolver{cfg: cfg, fs: OSFileSystem{}}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Nop()
	}
	r.log = r.log.WithComponent("audio")
	return r
}

// Default returns the configured default input.
func (r *Resolver) Default() string { return r.cfg.Default }

// Resolve returns requested when it exists. When requested is the default
// input (or empty) and missing, the fallback is used if it exists.
// Anything else is INPUT_NOT_FOUND.
func (r *Resolver) Resolve(requested string) (string, error) {
	if requested == "" {
		requested = r.cfg.Default
	}
	if r.fs.IsFile(requested) {
		return requested, nil
	}
	if requested == r.cfg.Default && r.fs.IsFile(r.cfg.Fallback) {
		r.log.Warn("default input not found, using fallback", logger.Fields(
			"requested", requested,
			logger.FieldPath, r.cfg.Fallback,
		))
		return r.cfg.Fallback, nil
	}
	return "", errors.InputNotFound(requested)
}
