package process

import (
	"io"
	"os"
	"time"
)

// DefaultGracePeriod is used when Command.GracePeriod is zero.
const DefaultGracePeriod = 5 * time.Second

// Command configures a subprocess to launch.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string
	// GracePeriod is how long each shutdown step waits for the process to
	// exit before escalating. Defaults to DefaultGracePeriod if zero.
	GracePeriod time.Duration
	// Stderr receives the child's standard error. Discarded if nil.
	Stderr io.Writer
}

func (c Command) gracePeriod() time.Duration {
	if c.GracePeriod <= 0 {
		return DefaultGracePeriod
	}
	return c.GracePeriod
}

// mergeEnv merges additional env vars with the current environment.
// Later entries win when a key repeats.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	env := os.Environ()
	return append(env, extra...)
}
