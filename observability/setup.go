package observability

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/fyaic/multimedia-to-note/logger"
)

// Providers owns the SDK providers created by Setup.
type Providers struct {
	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
}

// Shutdown flushes and stops the providers. It is safe on a nil or
// disabled Providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.tracer != nil {
		if err := p.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer: %w", err))
		}
	}
	if p.meter != nil {
		if err := p.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close shuts the providers down within timeout and logs any failure.
func (p *Providers) Close(log *logger.Logger, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		log.Warn("telemetry shutdown failed", logger.ErrorFields("shutdown", err))
	}
}

// Enabled reports whether Setup installed exporting providers.
func (p *Providers) Enabled() bool {
	return p != nil && p.tracer != nil
}

// Setup installs global trace and metric providers exporting over OTLP HTTP.
// With no endpoint configured it returns a disabled Providers and leaves the
// global no-op providers untouched.
func Setup(ctx context.Context, cfg Config, res Resource, log *logger.Logger) (*Providers, error) {
	if !cfg.Enabled() {
		return &Providers{}, nil
	}
	cfg.ApplyDefaults()

	r, err := newResource(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	traceOpts, metricOpts, err := exporterOptions(cfg)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	metricExporter, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		_ = traceExporter.Shutdown(ctx)
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	p := &Providers{
		tracer: sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(r),
			sdktrace.WithSampler(sampler(cfg.SampleRate)),
		),
		meter: sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(cfg.MetricInterval))),
			sdkmetric.WithResource(r),
		),
	}

	otel.SetTracerProvider(p.tracer)
	otel.SetMeterProvider(p.meter)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("telemetry initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"sample_rate", cfg.SampleRate,
		"metric_interval", cfg.MetricInterval.String(),
	))
	return p, nil
}

// exporterOptions points both exporters at cfg.Endpoint. A base URL gets the
// per-signal paths appended and its scheme decides TLS.
func exporterOptions(cfg Config) ([]otlptracehttp.Option, []otlpmetrichttp.Option, error) {
	var traceOpts []otlptracehttp.Option
	var metricOpts []otlpmetrichttp.Option
	if strings.Contains(cfg.Endpoint, "://") {
		u, err := url.Parse(cfg.Endpoint)
		if err != nil || u.Host == "" {
			return nil, nil, fmt.Errorf("invalid telemetry endpoint %q", cfg.Endpoint)
		}
		traceOpts = append(traceOpts, otlptracehttp.WithEndpointURL(u.JoinPath("v1/traces").String()))
		metricOpts = append(metricOpts, otlpmetrichttp.WithEndpointURL(u.JoinPath("v1/metrics").String()))
	} else {
		traceOpts = append(traceOpts, otlptracehttp.WithEndpoint(cfg.Endpoint))
		metricOpts = append(metricOpts, otlpmetrichttp.WithEndpoint(cfg.Endpoint))
	}
	if cfg.Insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}
	return traceOpts, metricOpts, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

func newResource(ctx context.Context, res Resource) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(res.ServiceName),
			semconv.ServiceVersion(res.ServiceVersion),
			attribute.String("environment", res.Environment),
		),
	)
}
