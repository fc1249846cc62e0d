package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/fyaic/multimedia-to-note/errors"
	"github.com/fyaic/multimedia-to-note/logger"
	"github.com/fyaic/multimedia-to-note/process"
)

// Pipe is the stdio of a launched tool server.
type Pipe interface {
	// Stdout carries server-to-client messages.
	Stdout() io.Reader
	// Stdin carries client-to-server messages.
	Stdin() io.WriteCloser
	// Stop terminates the server. It must be safe to call after Stdin was closed.
	Stop(ctx context.Context) error
	// Done is closed once the server has exited.
	Done() <-chan struct{}
	// Err describes how the server exited. It is nil while running and after
	// a clean exit.
	Err() error
}

// ErrServerExited is the cause of requests cut short because the tool server
// process ended.
var ErrServerExited = stderrors.New("tool server exited")

// exitCause describes the exit of the server behind pipe.
func exitCause(pipe Pipe) error {
	if err := pipe.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrServerExited, err)
	}
	return fmt.Errorf("%w with status 0", ErrServerExited)
}

// Launcher starts a tool server.
type Launcher func(ctx context.Context, cfg Config) (Pipe, error)

// Option configures a Manager.
type Option func(*Manager)

// WithLauncher replaces the child-process launcher.
func WithLauncher(l Launcher) Option {
	return func(m *Manager) { m.launch = l }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// Manager owns the lifecycle of tool server sessions.
type Manager struct {
	cfg    Config
	launch Launcher
	log    *logger.Logger
}

// NewManager creates a Manager. cfg should already have defaults applied.
func NewManager(cfg Config, opts ...Option) *Manager {
	m := &Manager{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Nop()
	}
	m.log = m.log.WithComponent("session")
	if m.launch == nil {
		m.launch = ProcessLauncher(m.log)
	}
	return m
}

// WithSession launches the tool server, completes the handshake and runs
// body with the initialized session. Launch and handshake failures are
// SESSION_SETUP_FAILED and body is not run. The context handed to the
// handshake and to body is canceled with ErrServerExited as soon as the
// server exits, so no request outlives it. The server is released however
// body returns; a release error is returned only when body succeeded.
func (m *Manager) WithSession(ctx context.Context, body func(context.Context, Session) error) (err error) {
	start := time.Now()
	pipe, err := m.launch(ctx, m.cfg)
	if err != nil {
		m.log.Error("tool server launch failed", logger.ErrorFields("launch", err))
		return errors.SessionSetup(fmt.Errorf("launch %s: %w", m.cfg.Command, err))
	}

	tr := transport.NewIO(pipe.Stdout(), pipe.Stdin(), io.NopCloser(strings.NewReader("")))
	c := client.NewClient(tr)

	defer func() {
		rerr := m.release(ctx, c, pipe)
		if rerr == nil {
			m.log.Debug("session released", logger.DurationFields("session", time.Since(start)))
			return
		}
		m.log.Warn("session release failed", logger.ErrorFields("release", rerr))
		if err == nil {
			err = rerr
		}
	}()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	go func() {
		select {
		case <-pipe.Done():
			cause := exitCause(pipe)
			m.log.Debug("tool server exited", logger.ErrorFields("exit", cause))
			cancel(cause)
		case <-ctx.Done():
		}
	}()

	if err := c.Start(ctx); err != nil {
		return errors.SessionSetup(fmt.Errorf("start client: %w", serverExit(ctx, err)))
	}

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{
		Name:    m.cfg.ClientName,
		Version: m.cfg.ClientVersion,
	}
	initRes, err := c.Initialize(ctx, req)
	if err != nil {
		err = serverExit(ctx, err)
		m.log.Error("handshake failed", logger.ErrorFields("initialize", err))
		return errors.SessionSetup(fmt.Errorf("initialize: %w", err))
	}

	s := newSession(c, initRes)
	m.log.Info("session ready", logger.Fields(
		"server", s.server.Name,
		"server_version", s.server.Version,
		"protocol", s.server.ProtocolVersion,
	))
	return body(ctx, s)
}

// serverExit returns the exit cause of ctx in place of err when the tool
// server has exited, otherwise err.
func serverExit(ctx context.Context, err error) error {
	if cause := context.Cause(ctx); stderrors.Is(cause, ErrServerExited) {
		return cause
	}
	return err
}

// release closes the client, then stops the server with a context that
// survives cancellation of the run so the grace periods still apply.
func (m *Manager) release(ctx context.Context, c *client.Client, pipe Pipe) error {
	closeErr := c.Close()
	stopErr := pipe.Stop(context.WithoutCancel(ctx))
	if stopErr != nil {
		return fmt.Errorf("stop tool server: %w", stopErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close client: %w", closeErr)
	}
	return nil
}

// ProcessLauncher launches the configured command as a child process and
// forwards its stderr to log at debug level.
func ProcessLauncher(log *logger.Logger) Launcher {
	return func(ctx context.Context, cfg Config) (Pipe, error) {
		stderr := logger.NewLineWriter(log.WithComponent("tool-server"), "stderr")
		h, err := process.Start(ctx, process.Command{
			Binary:      cfg.Command,
			Args:        cfg.Args,
			Dir:         cfg.Dir,
			Env:         cfg.Env,
			GracePeriod: cfg.GracePeriod,
			Stderr:      stderr,
		})
		if err != nil {
			return nil, err
		}
		log.Debug("tool server started", logger.Fields(
			logger.FieldPID, h.Pid(),
			"command", cfg.Command,
			"args", cfg.Args,
		))
		return &processPipe{Handle: h, stderr: stderr}, nil
	}
}

type processPipe struct {
	*process.Handle
	stderr *logger.LineWriter
}

func (p *processPipe) Stop(ctx context.Context) error {
	err := p.Handle.Stop(ctx)
	p.stderr.Flush()
	return err
}
