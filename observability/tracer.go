package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	goerrors "github.com/fyaic/multimedia-to-note/errors"
)

// InstrumentationName scopes the module's tracers and meters.
const InstrumentationName = "github.com/fyaic/multimedia-to-note"

// Attribute keys shared by spans and metrics.
const (
	AttrRunID     = "run.id"
	AttrStage     = "stage"
	AttrStatus    = "status"
	AttrErrorCode = "error.code"
	AttrTool      = "tool.name"
	AttrNote      = "note.name"
)

// Tracer returns the module tracer from tp, or from the global provider when
// tp is nil.
func Tracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(InstrumentationName)
}

// StartSpan starts a span on tracer.
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(AttrErrorCode, ErrorCode(err)))
	}
	span.End()
}

// ErrorCode is the code used in telemetry for err: the AppError code, or
// "unknown" for other errors and "" for nil.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := goerrors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return "unknown"
}
