// Command transcribe sends an audio file to a speech-to-text tool server
// and saves the transcript next to the working directory.
//
//	transcribe [flags] [audio-path]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/fyaic/multimedia-to-note/errors"
	"github.com/fyaic/multimedia-to-note/logger"
	"github.com/fyaic/multimedia-to-note/observability"
	"github.com/fyaic/multimedia-to-note/transcriber"
	"github.com/fyaic/multimedia-to-note/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type flags struct {
	configFile  string
	envFile     string
	model       string
	language    string
	outputDir   string
	timeout     time.Duration
	showVersion bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, *pflag.FlagSet, error) {
	f := &flags{}
	fs := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] [audio-path]\n\nFlags:\n", serviceName)
		fs.PrintDefaults()
	}
	fs.StringVar(&f.configFile, "config", "", "path to config.yml")
	fs.StringVar(&f.envFile, "env-file", "", "path to a .env file")
	fs.StringVar(&f.model, "model", "", "transcription model (default nova-2)")
	fs.StringVar(&f.language, "language", "", "language tag or auto (default zh)")
	fs.StringVar(&f.outputDir, "output-dir", "", "directory for the transcript (default working directory)")
	fs.DurationVar(&f.timeout, "timeout", 0, "abort the run after this long (0 disables)")
	fs.BoolVar(&f.showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

// run executes the command and returns the process exit status. opts are
// passed to the transcriber.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...transcriber.Option) int {
	f, fs, err := parseFlags(args, stderr)
	if err != nil {
		if err == pflag.ErrHelp {
			return errors.ExitOK
		}
		return errors.ExitFailure
	}
	if f.showVersion {
		fmt.Fprintln(stdout, version.Get().Banner(serviceName))
		return errors.ExitOK
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(stderr, "%s: expected at most one audio path, got %d\n", serviceName, fs.NArg())
		return errors.ExitFailure
	}

	cfg, err := loadConfig(f.configFile, f.envFile)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
		return errors.ExitFailure
	}
	if fs.Changed("model") {
		cfg.Transcriber.Options.Model = f.model
	}
	if fs.Changed("language") {
		cfg.Transcriber.Options.Language = f.language
	}
	if fs.Changed("output-dir") {
		cfg.Transcriber.OutputDir = f.outputDir
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "%s: invalid configuration: %v\n", serviceName, err)
		return errors.ExitFailure
	}

	log := newLogger(cfg, stdout, stderr)
	log.Debug("configuration loaded", logger.Fields(
		"version", version.Get().Short(),
		"server", cfg.Transcriber.Server.Command,
		"model", cfg.Transcriber.Options.Model,
	))

	telemetry := startTelemetry(ctx, cfg, log)
	defer telemetry.Close(log, 5*time.Second)

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	runner := transcriber.New(cfg.Transcriber, append([]transcriber.Option{transcriber.WithLogger(log)}, opts...)...)
	res, err := runner.Run(ctx, fs.Arg(0))
	switch {
	case res == nil:
	case errors.HasCode(err, errors.ErrCodePersist):
		// Nothing was written; the transcript exists only on stdout.
		fmt.Fprintf(stdout, "Transcript (not saved):\n%s\n", res.Decoded.Text)
	default:
		fmt.Fprintf(stdout, "Transcript preview:\n%s\n", transcriber.Preview(res.Decoded.Text, transcriber.TranscriptPreviewRunes))
		if err == nil {
			fmt.Fprintf(stdout, "Saved to: %s\n", res.Output)
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
	}
	return errors.ExitCode(err)
}

// startTelemetry installs OTLP exporters when an endpoint is configured. A
// failure only costs the telemetry, never the run.
func startTelemetry(ctx context.Context, cfg *Config, log *logger.Logger) *observability.Providers {
	p, err := observability.Setup(ctx, cfg.Telemetry, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: version.Get().Version,
		Environment:    cfg.Environment,
	}, log)
	if err != nil {
		log.Warn("telemetry disabled", logger.ErrorFields("telemetry", err))
		return nil
	}
	return p
}

// newLogger sends logs to the configured stream, stderr unless asked otherwise.
func newLogger(cfg *Config, stdout, stderr io.Writer) *logger.Logger {
	w := stderr
	if cfg.Logging.Output == "stdout" {
		w = stdout
	}
	return logger.NewWithWriter(&cfg.Logging, cfg.Name, w)
}
