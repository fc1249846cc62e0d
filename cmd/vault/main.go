// Command vault manages notes in a markdown vault.
//
//	vault sync [flags] <file>...
//	vault find [--root dir] <term>...
//	vault merge --title <title> <source> <target>
//	vault status [--json]
package main

import (
	"context"
	"encoding/json"
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
	"github.com/fyaic/multimedia-to-note/vault"
	"github.com/fyaic/multimedia-to-note/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

const usage = `Usage:
  vault sync [flags] <file>...              upload markdown files to the vault
  vault find [--root dir] <term>...         list notes whose name contains a term
  vault merge --title <title> <source> <target>
                                            append source to target under a heading
  vault status [flags]                      check that the vault API is reachable
  vault version
`

type command struct {
	name   string
	stdout io.Writer
	stderr io.Writer
	fs     *pflag.FlagSet

	configFile string
	envFile    string
}

func newCommand(name string, stdout, stderr io.Writer) *command {
	c := &command{name: name, stdout: stdout, stderr: stderr}
	c.fs = pflag.NewFlagSet(serviceName+" "+name, pflag.ContinueOnError)
	c.fs.SetOutput(stderr)
	return c
}

// configFlags registers the flags of commands that talk to the vault API.
func (c *command) configFlags() {
	c.fs.StringVar(&c.configFile, "config", "", "path to config.yml")
	c.fs.StringVar(&c.envFile, "env-file", "", "path to a .env file")
}

func (c *command) parse(args []string) error {
	return c.fs.Parse(args)
}

func (c *command) fail(err error) int {
	fmt.Fprintf(c.stderr, "%s %s: %v\n", serviceName, c.name, err)
	if code := errors.ExitCode(err); code != errors.ExitOK {
		return code
	}
	return errors.ExitFailure
}

func (c *command) setup(ctx context.Context) (*Config, *logger.Logger, *observability.Providers, error) {
	cfg, err := loadConfig(c.configFile, c.envFile)
	if err != nil {
		return nil, nil, nil, err
	}
	w := c.stderr
	if cfg.Logging.Output == "stdout" {
		w = c.stdout
	}
	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, w)

	providers, err := observability.Setup(ctx, cfg.Telemetry, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: version.Get().Version,
		Environment:    cfg.Environment,
	}, log)
	if err != nil {
		log.Warn("telemetry disabled", logger.ErrorFields("telemetry", err))
	}
	return cfg, log, providers, nil
}

// run executes a subcommand and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.ExitFailure
	}
	switch args[0] {
	case "sync":
		return runSync(ctx, args[1:], stdout, stderr)
	case "find":
		return runFind(args[1:], stdout, stderr)
	case "merge":
		return runMerge(args[1:], stdout, stderr)
	case "status":
		return runStatus(ctx, args[1:], stdout, stderr)
	case "version", "--version":
		fmt.Fprintln(stdout, version.Get().Banner(serviceName))
		return errors.ExitOK
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return errors.ExitOK
	default:
		fmt.Fprintf(stderr, "%s: unknown command %q\n\n%s", serviceName, args[0], usage)
		return errors.ExitFailure
	}
}

func runSync(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := newCommand("sync", stdout, stderr)
	c.configFlags()
	if err := c.parse(args); err != nil {
		return exitForParse(err)
	}
	if c.fs.NArg() == 0 {
		return c.fail(errors.MissingField("file"))
	}

	cfg, log, providers, err := c.setup(ctx)
	if err != nil {
		return c.fail(err)
	}
	defer providers.Close(log, 5*time.Second)

	client, err := vault.NewClient(cfg.Obsidian, vault.WithLogger(log))
	if err != nil {
		return c.fail(err)
	}

	results, err := client.SyncFiles(ctx, c.fs.Args())
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stdout, "FAILED  %s: %v\n", r.Path, r.Err)
			continue
		}
		fmt.Fprintf(stdout, "synced  %s -> %s (HTTP %d)\n", r.Path, r.Name, r.Status)
	}
	if err != nil {
		return c.fail(err)
	}
	return errors.ExitOK
}

func runFind(args []string, stdout, stderr io.Writer) int {
	c := newCommand("find", stdout, stderr)
	root := c.fs.String("root", ".", "vault directory to search")
	if err := c.parse(args); err != nil {
		return exitForParse(err)
	}

	matches, err := vault.Find(*root, c.fs.Args())
	if err != nil {
		return c.fail(err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(stdout, "No matching files found.")
		return errors.ExitOK
	}
	for _, m := range matches {
		fmt.Fprintf(stdout, "%s\t%s\n", m.Term, m.Path)
	}
	return errors.ExitOK
}

func runMerge(args []string, stdout, stderr io.Writer) int {
	c := newCommand("merge", stdout, stderr)
	title := c.fs.String("title", "", "heading placed above the appended note")
	if err := c.parse(args); err != nil {
		return exitForParse(err)
	}
	if c.fs.NArg() != 2 {
		return c.fail(errors.InvalidInput("args", "expected <source> <target>"))
	}

	res, err := vault.Merge(c.fs.Arg(0), c.fs.Arg(1), *title)
	if err != nil {
		return c.fail(err)
	}
	fmt.Fprintf(stdout, "Merged %s into %s (%d bytes)\n", c.fs.Arg(0), res.Target, res.Size)
	return errors.ExitOK
}

func runStatus(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := newCommand("status", stdout, stderr)
	c.configFlags()
	asJSON := c.fs.Bool("json", false, "print the report as JSON")
	if err := c.parse(args); err != nil {
		return exitForParse(err)
	}

	cfg, log, providers, err := c.setup(ctx)
	if err != nil {
		return c.fail(err)
	}
	defer providers.Close(log, 5*time.Second)

	client, err := vault.NewClient(cfg.Obsidian, vault.WithLogger(log))
	if err != nil {
		return c.fail(err)
	}
	report := observability.CheckAll(ctx, serviceName, version.Get().Short(), client)

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return c.fail(err)
		}
	} else {
		fmt.Fprintf(stdout, "%s: %s\n", report.Service, report.Status)
		for _, h := range report.Components {
			line := fmt.Sprintf("  %-10s %-8s %s", h.Name, h.Status, h.Details["url"])
			if h.Message != "" {
				line += "  (" + h.Message + ")"
			}
			fmt.Fprintln(stdout, line)
		}
	}
	if report.Status == observability.HealthStatusDown {
		return errors.ExitFailure
	}
	return errors.ExitOK
}

func exitForParse(err error) int {
	if err == pflag.ErrHelp {
		return errors.ExitOK
	}
	return errors.ExitFailure
}
