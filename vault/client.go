package vault

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fyaic/multimedia-to-note/errors"
	"github.com/fyaic/multimedia-to-note/httpclient"
	"github.com/fyaic/multimedia-to-note/logger"
	"github.com/fyaic/multimedia-to-note/observability"
	"github.com/fyaic/multimedia-to-note/resilience"
	"github.com/fyaic/multimedia-to-note/validation"
	"github.com/fyaic/multimedia-to-note/version"
)

const serviceName = "obsidian"

// Client uploads notes through the vault's REST API.
type Client struct {
	http    *httpclient.Client
	breaker *resilience.CircuitBreaker
	log     *logger.Logger
	base    string

	tp      trace.TracerProvider
	mp      metric.MeterProvider
	tracer  trace.Tracer
	metrics *observability.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTracerProvider sets where spans go. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tp = tp }
}

// WithMeterProvider sets where metrics go. Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Client) { c.mp = mp }
}

// SyncResult reports the upload of one local file.
type SyncResult struct {
	Path   string
	Name   string
	Bytes  int
	Status int
	Err    error
}

// NewClient validates cfg and builds a client. An empty API key is reported
// as a missing credential.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.MissingCredential(CredentialEnv)
	}

	c := &Client{log: logger.Nop(), base: cfg.BaseURL()}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("vault")
	c.tracer = observability.Tracer(c.tp)
	metrics, err := observability.NewMetrics(c.mp)
	if err != nil {
		c.log.Warn("metrics disabled", logger.ErrorFields("metrics", err))
	}
	c.metrics = metrics

	retry := cfg.Retry
	hc, err := httpclient.New(httpclient.Config{
		BaseURL:   cfg.BaseURL(),
		Timeout:   cfg.Timeout,
		UserAgent: version.UserAgent("multimedia-to-note"),
		Auth:      httpclient.BearerAuth(cfg.APIKey),
		Headers:   map[string]string{"Accept": "*/*"},
		Retry:     &retry,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			c.log.Warn("vault request failed, retrying", logger.Fields(
				"attempt", attempt,
				logger.FieldError, err.Error(),
				"backoff_ms", backoff.Milliseconds(),
			))
		},
	})
	if err != nil {
		return nil, errors.Validation("invalid vault client configuration").WithCause(err)
	}
	c.http = hc

	c.breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:        "vault",
		MaxFailures: cfg.Breaker.MaxFailures,
		Cooldown:    cfg.Breaker.Cooldown,
		OnStateChange: func(name string, from, to resilience.State) {
			c.log.Info("circuit state changed", logger.Fields("breaker", name, "from", from.String(), "to", to.String()))
		},
	})
	return c, nil
}

// Upsert creates or replaces the note at name, a vault-relative path such as
// "Inbox/meeting.md".
func (c *Client) Upsert(ctx context.Context, name string, content []byte) (status int, err error) {
	ctx, span := observability.StartSpan(ctx, c.tracer, "vault.upsert",
		attribute.String(observability.AttrNote, name),
		attribute.Int("note.bytes", len(content)),
	)
	defer func() {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		observability.EndSpan(span, err)
		c.metrics.RecordNote(ctx, err)
	}()

	if err := validation.New().NotePath("name", name).Err(); err != nil {
		return 0, err
	}

	var resp *httpclient.Response
	err = c.breaker.Execute(func() error {
		var doErr error
		resp, doErr = c.http.Do(ctx, httpclient.Request{
			Method:  http.MethodPut,
			Path:    "/vault/" + escapeNotePath(name),
			Body:    content,
			Headers: map[string]string{"Content-Type": "text/markdown"},
		})
		return doErr
	})
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		return 0, errors.New(errors.ErrCodeConnectionFailed, "Vault is unavailable after repeated failures.").
			WithCause(err).
			WithDetail("note", name)
	}
	if err != nil {
		return statusOf(resp), httpclient.ToAppError(serviceName, err).WithDetail("note", name)
	}

	c.log.Debug("note upserted", logger.Fields("note", name, logger.FieldStatus, resp.StatusCode, logger.FieldBytes, len(content)))
	return resp.StatusCode, nil
}

type serverInfo struct {
	Status        string         `json:"status"`
	Service       string         `json:"service"`
	Authenticated bool           `json:"authenticated"`
	Versions      map[string]any `json:"versions"`
}

// CheckHealth queries the API root. The vault is degraded when it answers but
// does not accept the API key.
func (c *Client) CheckHealth(ctx context.Context) observability.Health {
	h := observability.Health{Name: serviceName, Details: map[string]string{"url": c.base}}

	resp, err := c.http.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		h.Status = observability.HealthStatusDown
		h.Message = httpclient.ToAppError(serviceName, err).Message
		return h
	}

	var info serverInfo
	if err := json.Unmarshal(resp.Body, &info); err != nil {
		h.Status = observability.HealthStatusDegraded
		h.Message = "unexpected reply from the vault API"
		return h
	}
	for k, v := range info.Versions {
		h.Details["version."+k] = fmt.Sprint(v)
	}
	if info.Service != "" {
		h.Details["service"] = info.Service
	}
	if !info.Authenticated {
		h.Status = observability.HealthStatusDegraded
		h.Message = "API key was not accepted"
		return h
	}
	h.Status = observability.HealthStatusUp
	return h
}

// SyncFile uploads the local markdown file at path under its base name.
func (c *Client) SyncFile(ctx context.Context, path string) SyncResult {
	res := SyncResult{Path: path, Name: filepath.Base(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			res.Err = errors.InputNotFound(path)
		} else {
			res.Err = errors.Internal(err).WithDetail(logger.FieldPath, path)
		}
		return res
	}
	res.Bytes = len(data)

	res.Status, res.Err = c.Upsert(ctx, res.Name, data)
	if res.Err != nil {
		c.log.Error("sync failed", logger.MergeWithError(logger.Fields(logger.FieldPath, path), res.Err))
		return res
	}
	c.log.Info("note synced", logger.Fields(logger.FieldPath, path, "note", res.Name, logger.FieldStatus, res.Status))
	return res
}

// SyncFiles uploads each path in order. Once the breaker opens the remaining
// files fail fast without contacting the vault. The returned error joins
// every failure.
func (c *Client) SyncFiles(ctx context.Context, paths []string) ([]SyncResult, error) {
	results := make([]SyncResult, 0, len(paths))
	var errs []error
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			results = append(results, SyncResult{Path: p, Name: filepath.Base(p), Err: err})
			errs = append(errs, err)
			continue
		}
		res := c.SyncFile(ctx, p)
		results = append(results, res)
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return results, stderrors.Join(errs...)
}

// escapeNotePath escapes each segment of a vault path, keeping separators.
func escapeNotePath(name string) string {
	segments := strings.Split(strings.ReplaceAll(name, "\\", "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func statusOf(resp *httpclient.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
