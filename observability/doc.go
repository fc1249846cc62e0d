// Package observability wires OpenTelemetry tracing and metrics for the
// commands. Telemetry is off unless an OTLP endpoint is configured; the
// global no-op providers then stay in place and spans cost nothing.
//
//	providers, err := observability.Setup(ctx, cfg.Telemetry, observability.Resource{
//	    ServiceName: cfg.Name, ServiceVersion: version.Version, Environment: cfg.Environment,
//	}, log)
//	defer providers.Shutdown(context.WithoutCancel(ctx))
//
//	ctx, span := observability.StartSpan(ctx, tracer, "transcriber.invoke")
//	defer func() { observability.EndSpan(span, err) }()
package observability
