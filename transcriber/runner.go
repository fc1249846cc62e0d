package transcriber

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fyaic/multimedia-to-note/audio"
	"github.com/fyaic/multimedia-to-note/errors"
	"github.com/fyaic/multimedia-to-note/logger"
	"github.com/fyaic/multimedia-to-note/observability"
	"github.com/fyaic/multimedia-to-note/session"
	"github.com/fyaic/multimedia-to-note/transcript"
	"github.com/fyaic/multimedia-to-note/transcription"
)

// Preview lengths, in runes.
const (
	RawPreviewRunes        = 2000
	TranscriptPreviewRunes = 500
)

// Result describes a finished run. On PERSIST_FAILED it is returned along
// with the error so the transcript can still be shown.
type Result struct {
	RunID   string
	Input   string
	Output  string
	Decoded transcription.Decoded
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithLauncher replaces how the tool server is started.
func WithLauncher(l session.Launcher) Option {
	return func(r *Runner) { r.launcher = l }
}

// WithTracerProvider sets where spans go. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Runner) { r.tp = tp }
}

// WithMeterProvider sets where metrics go. Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(r *Runner) { r.mp = mp }
}

// WithFileSystem replaces the filesystem used to resolve inputs.
func WithFileSystem(fs audio.FileSystem) Option {
	return func(r *Runner) { r.fs = fs }
}

// Runner performs transcription runs.
type Runner struct {
	cfg       Config
	log       *logger.Logger
	launcher  session.Launcher
	fs        audio.FileSystem
	resolver  *audio.Resolver
	sessions  *session.Manager
	persister *transcript.Persister

	tp      trace.TracerProvider
	mp      metric.MeterProvider
	tracer  trace.Tracer
	metrics *observability.Metrics
}

// New creates a Runner. cfg should already have defaults applied.
func New(cfg Config, opts ...Option) *Runner {
	r := &Runner{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Nop()
	}

	resolverOpts := []audio.ResolverOption{audio.WithLogger(r.log)}
	if r.fs != nil {
		resolverOpts = append(resolverOpts, audio.WithFileSystem(r.fs))
	}
	r.resolver = audio.NewResolver(cfg.Input, resolverOpts...)

	serverCfg := cfg.Server
	serverCfg.Env = append(append([]string(nil), cfg.Server.Env...), cfg.CredentialEnv+"="+cfg.APIKey)
	sessionOpts := []session.Option{session.WithLogger(r.log)}
	if r.launcher != nil {
		sessionOpts = append(sessionOpts, session.WithLauncher(r.launcher))
	}
	r.sessions = session.NewManager(serverCfg, sessionOpts...)

	r.persister = transcript.NewPersister(cfg.OutputDir)
	r.log = r.log.WithComponent("transcriber")

	r.tracer = observability.Tracer(r.tp)
	metrics, err := observability.NewMetrics(r.mp)
	if err != nil {
		r.log.Warn("metrics disabled", logger.ErrorFields("metrics", err))
	}
	r.metrics = metrics
	return r
}

// DefaultInput returns the input used when Run is given an empty path.
func (r *Runner) DefaultInput() string { return r.resolver.Default() }

// Run transcribes input (the default input when empty).
func (r *Runner) Run(ctx context.Context, input string) (res *Result, err error) {
	runID := uuid.NewString()
	log := r.log.WithFields(logger.Fields(logger.FieldRunID, runID))
	start := time.Now()

	ctx, span := observability.StartSpan(ctx, r.tracer, "transcriber.run", attribute.String(observability.AttrRunID, runID))
	defer func() {
		observability.EndSpan(span, err)
		r.metrics.RecordRun(ctx, err, time.Since(start))
	}()

	if strings.TrimSpace(r.cfg.APIKey) == "" {
		log.Error("credential missing", logger.Fields("credential", r.cfg.CredentialEnv))
		return nil, errors.MissingCredential(r.cfg.CredentialEnv)
	}

	var asset *audio.Asset
	err = r.stage(ctx, "resolve", func(context.Context) error {
		path, err := r.resolver.Resolve(input)
		if err != nil {
			log.Error("input not found", logger.Fields(logger.FieldPath, input))
			return err
		}
		asset, err = audio.Load(path)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info("audio loaded", logger.Fields(logger.FieldPath, asset.Path, logger.FieldBytes, asset.Size()))
	r.metrics.RecordPayload(ctx, asset.Size())

	req := transcription.NewToolRequest(asset, r.cfg.Options)

	var reply *session.ToolResult
	err = r.stage(ctx, "invoke", func(ctx context.Context) error {
		err := r.sessions.WithSession(ctx, func(ctx context.Context, s session.Session) error {
			log.Info("calling tool", logger.Fields(
				logger.FieldTool, req.Name,
				"payload_bytes", req.PayloadSize(),
				"model", r.cfg.Options.Model,
				"language", r.cfg.Options.Language,
			))
			callStart := time.Now()
			var err error
			reply, err = transcription.Invoke(ctx, s, req)
			if err != nil {
				return err
			}
			log.Info("tool replied", logger.DurationFields("invoke", time.Since(callStart)))
			return nil
		})
		if err != nil && reply != nil {
			// the call completed; only tearing down the server failed
			log.Warn("tool server did not shut down cleanly", logger.ErrorFields("release", err))
			return nil
		}
		return err
	})
	if err != nil {
		log.Error("transcription failed", logger.ErrorFields(stageOf(err), err))
		return nil, err
	}

	var decoded transcription.Decoded
	err = r.stage(ctx, "decode", func(context.Context) error {
		var err error
		decoded, err = transcription.Decode(reply)
		return err
	})
	if err != nil {
		log.Error("unusable reply", logger.Fields("content_types", reply.Kinds()))
		return nil, err
	}
	log.Debug("raw reply", logger.Fields("preview", Preview(decoded.Raw, RawPreviewRunes)))
	log.Info("transcript decoded", logger.Fields(
		"shape", decoded.Shape.String(),
		"runes", utf8.RuneCountInString(decoded.Text),
		"preview", Preview(decoded.Text, TranscriptPreviewRunes),
	))

	res = &Result{RunID: runID, Input: asset.Path, Decoded: decoded}
	err = r.stage(ctx, "persist", func(context.Context) error {
		var err error
		res.Output, err = r.persister.Persist(asset.Path, decoded.Text)
		return err
	})
	if err != nil {
		log.Error("transcript not saved", logger.ErrorFields("persist", err))
		return res, err
	}

	fields := logger.DurationFields("run", time.Since(start))
	fields[logger.FieldPath] = res.Output
	log.Info("transcript saved", fields)
	return res, nil
}

// stage runs fn inside a span named after the stage and records its duration.
func (r *Runner) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, r.tracer, "transcriber."+name, attribute.String(observability.AttrStage, name))
	err := fn(ctx)
	observability.EndSpan(span, err)
	r.metrics.RecordStage(ctx, name, err, time.Since(start))
	return err
}

// Preview returns the first n runes of s, marking truncation with "...".
func Preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// stageOf names the pipeline stage an error came from.
func stageOf(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		if stage, ok := appErr.Details["stage"].(string); ok {
			return stage
		}
	}
	return "session"
}
